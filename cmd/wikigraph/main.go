// wikigraph loads a Wikipedia-like resource/label dump and an optional
// page-links dump into memory, then serves an interactive prompt for
// resource/label/id lookup, edge enumeration, and shortest-path search.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/wikigraph/ingest"
	"github.com/grailbio/wikigraph/query"
	"github.com/grailbio/wikigraph/wikidata"
)

func usage() {
	fmt.Fprint(os.Stderr, `
wikigraph ingests a labels dump and (optionally) a page-links dump, then
serves an interactive prompt for resource/label/id lookup, edge
enumeration, and shortest-path search.

Usage:
  wikigraph --labels <file> [--links <file>] [--inlinks]
`)
}

func main() {
	flag.Usage = usage
	labelsPath := flag.String("labels", "", "Path to a bzip2-compressed labels dump (required).")
	linksPath := flag.String("links", "", "Path to a bzip2-compressed page-links dump.")
	inlinks := flag.Bool("inlinks", false, "Also record the reverse of every link, so incoming edges can be enumerated.")
	labelParsers := flag.Int("label-parsers", ingest.DefaultOpts.LabelParsers, "Number of label-phase parser workers.")
	linkParsers := flag.Int("link-parsers", ingest.DefaultOpts.LinkParsers, "Number of link-phase parser workers.")
	writerShards := flag.Int("writer-shards", ingest.DefaultOpts.WriterShards, "Number of single-writer adjacency shards.")
	queueDepth := flag.Int("queue-depth", ingest.DefaultOpts.QueueDepth, "Depth of every bounded queue in the ingest pipeline.")
	flag.Parse()

	if *labelsPath == "" {
		usage()
		os.Exit(1)
	}

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	opts := ingest.Opts{
		LabelParsers:   *labelParsers,
		LinkParsers:    *linkParsers,
		WriterShards:   *writerShards,
		QueueDepth:     *queueDepth,
		IncludeInlinks: *inlinks,
	}

	table := wikidata.NewArticleTable()
	adj := wikidata.NewAdjacency()

	labelSrc, err := ingest.OpenBzip2Lines(ctx, *labelsPath)
	if err != nil {
		log.Fatalf("open labels %s: %v", *labelsPath, err)
	}
	labelStats := ingest.LabelPhase(ctx, labelSrc, table, opts)
	log.Printf("labels: %d lines, %d articles, %d compressed, %d with separator, %d malformed",
		labelStats.LinesRead, table.Len(), labelStats.LabelsCompressed, labelStats.LabelsWithSeparator, labelStats.LinesMalformed)

	if *linksPath != "" {
		linkSrc, err := ingest.OpenBzip2Lines(ctx, *linksPath)
		if err != nil {
			log.Fatalf("open links %s: %v", *linksPath, err)
		}
		linkStats := ingest.LinkPhase(ctx, linkSrc, table, adj, opts)
		log.Printf("links: %d lines, %d resolved, %d dropped, %d malformed",
			linkStats.LinesRead, linkStats.EdgesResolved, linkStats.EdgesDropped, linkStats.LinesMalformed)
	}

	runPrompt(table, adj)
}

// runPrompt reads commands from stdin until EOF, dispatching each to a
// query.Facade and printing its result. Malformed commands and lookup
// failures are printed and the prompt continues; only end-of-input on
// stdin stops it.
func runPrompt(table *wikidata.ArticleTable, adj *wikidata.Adjacency) {
	facade := query.New(table, adj)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lines, err := facade.Dispatch(scanner.Text())
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		for _, l := range lines {
			fmt.Println(l)
		}
	}
}
