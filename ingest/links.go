package ingest

import (
	"context"
	"strings"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/wikigraph/queue"
	"github.com/grailbio/wikigraph/wikidata"
)

// edgeReq is a resolved edge dispatched from a link parser to the writer
// shard that owns the "owner" endpoint.
type edgeReq struct {
	owner, target wikidata.ArticleID
	outgoing      bool
}

// LinkPhase drains src, resolving each line's endpoints against table and
// recording the resulting edges in adj. It requires table to already be
// finalized (see LabelPhase).
//
// Each line must split into exactly four whitespace-delimited tokens
// (subject, predicate, object, terminator); malformed lines are logged and
// skipped. An edge whose endpoint fails to resolve against table is
// silently dropped: an unresolved lookup during ingest is not an error,
// the dump is allowed to carry dangling references.
//
// Edges are routed to one of opts.WriterShards writer goroutines by
// (ownerID mod WriterShards), so concurrent AddEdge calls never target the
// same owner's adjacency list and no per-article locking is needed. If
// opts.IncludeInlinks is set, the reverse of every resolved edge is also
// dispatched (shard-routed by its own owner, the original target),
// producing bidirectional annotations via AddEdge's OR-merge.
func LinkPhase(ctx context.Context, src LineSource, table *wikidata.ArticleTable, adj *wikidata.Adjacency, opts Opts) Stats {
	adj.Resize(table.Len())

	nShards := opts.WriterShards
	if nShards <= 0 {
		nShards = 1
	}
	writerQueues := make([]*queue.Queue, nShards)
	for i := range writerQueues {
		writerQueues[i] = queue.New(opts.QueueDepth)
	}
	var writerWG sync.WaitGroup
	for i := 0; i < nShards; i++ {
		writerWG.Add(1)
		go func(shard int) {
			defer writerWG.Done()
			writeShard(writerQueues[shard], adj)
		}(i)
	}

	lineQueue := queue.New(opts.QueueDepth)
	statsCh := make(chan Stats, opts.LinkParsers)
	var parserWG sync.WaitGroup
	nParsers := opts.LinkParsers
	if nParsers <= 0 {
		nParsers = 1
	}
	for i := 0; i < nParsers; i++ {
		parserWG.Add(1)
		go func() {
			defer parserWG.Done()
			statsCh <- linkWorker(lineQueue, table, writerQueues, opts)
		}()
	}

	var total Stats
	for {
		line, ok := src.Next()
		if !ok {
			break
		}
		total.LinesRead++
		lineQueue.Push(line)
	}
	lineQueue.Terminate()
	parserWG.Wait()
	close(statsCh)
	for s := range statsCh {
		total = total.Merge(s)
	}

	for _, wq := range writerQueues {
		wq.Terminate()
	}
	writerWG.Wait()

	if err := src.Close(); err != nil {
		log.Printf("LinkPhase: close line source: %v", err)
	}
	return total
}

func linkWorker(lineQueue *queue.Queue, table *wikidata.ArticleTable, writerQueues []*queue.Queue, opts Opts) Stats {
	var stats Stats
	for {
		item, ok := lineQueue.Pop()
		if !ok {
			return stats
		}
		parseLinkLine(item.(string), table, writerQueues, opts, &stats)
	}
}

func dispatch(writerQueues []*queue.Queue, req edgeReq) {
	shard := int(req.owner) % len(writerQueues)
	writerQueues[shard].Push(req)
}

func parseLinkLine(line string, table *wikidata.ArticleTable, writerQueues []*queue.Queue, opts Opts, stats *Stats) {
	tokens := strings.Fields(line)
	if len(tokens) != 4 {
		log.Printf("LinkPhase: skipping malformed line (want 4 fields, got %d): %q", len(tokens), line)
		stats.LinesMalformed++
		return
	}
	fromResource := wikidata.AbbreviateResource(tokens[0])
	toResource := wikidata.AbbreviateResource(tokens[2])
	fromID := table.FindByResource(fromResource)
	toID := table.FindByResource(toResource)
	if fromID == wikidata.NotFound || toID == wikidata.NotFound {
		stats.EdgesDropped++
		return
	}
	stats.EdgesResolved++
	dispatch(writerQueues, edgeReq{owner: fromID, target: toID, outgoing: true})
	if opts.IncludeInlinks {
		dispatch(writerQueues, edgeReq{owner: toID, target: fromID, outgoing: false})
	}
}

func writeShard(q *queue.Queue, adj *wikidata.Adjacency) {
	for {
		item, ok := q.Pop()
		if !ok {
			return
		}
		req := item.(edgeReq)
		if err := adj.AddEdge(req.owner, req.target, req.outgoing); err != nil {
			log.Printf("LinkPhase: add edge %d->%d: %v", req.owner, req.target, err)
		}
	}
}
