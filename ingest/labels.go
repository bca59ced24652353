package ingest

import (
	"context"
	"strings"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/wikigraph/queue"
	"github.com/grailbio/wikigraph/wikidata"
)

// LabelPhase drains src, parsing each line into a (resource, label) pair and
// appending it to table, then finalizes table. It returns once every line
// has been consumed and the table has been sorted.
//
// Each line is tokenized as a whitespace-separated, quote-aware record and
// expected to carry at least three fields (subject, predicate, object); only
// fields 0 and 2 are used. Lines that are empty or begin with '#' are
// skipped without logging. Lines that parse to fewer than three fields are
// logged, counted in LinesMalformed, and skipped; this is the only
// tolerated per-line failure mode in the label phase.
func LabelPhase(ctx context.Context, src LineSource, table *wikidata.ArticleTable, opts Opts) Stats {
	q := queue.New(opts.QueueDepth)
	statsCh := make(chan Stats, opts.LabelParsers)

	var wg sync.WaitGroup
	n := opts.LabelParsers
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statsCh <- labelWorker(q, table)
		}()
	}

	var total Stats
	for {
		line, ok := src.Next()
		if !ok {
			break
		}
		total.LinesRead++
		q.Push(line)
	}
	q.Terminate()
	wg.Wait()
	close(statsCh)
	for s := range statsCh {
		total = total.Merge(s)
	}
	if err := src.Close(); err != nil {
		log.Printf("LabelPhase: close line source: %v", err)
	}
	table.Finalize()
	return total
}

func labelWorker(q *queue.Queue, table *wikidata.ArticleTable) Stats {
	var stats Stats
	for {
		item, ok := q.Pop()
		if !ok {
			return stats
		}
		parseLabelLine(item.(string), table, &stats)
	}
}

// parseLabelLine parses one label-file line and, if well-formed, appends
// its (resource, label) pair to table.
func parseLabelLine(line string, table *wikidata.ArticleTable, stats *Stats) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}
	fields := tokenizeLine(trimmed)
	if len(fields) < 3 {
		log.Printf("LabelPhase: skipping malformed line (want >= 3 fields, got %d): %q", len(fields), line)
		stats.LinesMalformed++
		return
	}
	resource := wikidata.AbbreviateResource(fields[0])
	label := wikidata.ParseQuotedLiteral(fields[2])

	if wikidata.DenormalizeTitle(resource) == label {
		stats.LabelsCompressed++
	} else {
		stats.LabelsWithSeparator++
	}
	table.Append(resource, label)
}
