package ingest

// Opts collects the tunables of the ingest pipeline. The zero value is not
// meaningful; start from DefaultOpts.
type Opts struct {
	// LabelParsers is the number of workers draining the label-phase line
	// queue.
	LabelParsers int
	// LinkParsers is the number of workers draining the link-phase line
	// queue.
	LinkParsers int
	// WriterShards is the number of single-writer adjacency shards; edges
	// are routed to shard (ownerID mod WriterShards).
	WriterShards int
	// QueueDepth bounds every queue in the pipeline.
	QueueDepth int
	// IncludeInlinks, if true, also records the reverse of every resolved
	// edge so Adjacency carries incoming-edge annotations.
	IncludeInlinks bool
}

// DefaultOpts is the standard pipeline configuration: 2 label parsers, 4
// link parsers, 2 writer shards, and a queue depth of 4096.
var DefaultOpts = Opts{
	LabelParsers: 2,
	LinkParsers:  4,
	WriterShards: 2,
	QueueDepth:   4096,
}

// Stats accumulates advisory ingest counters. Fields are incremented
// without synchronization by individual workers and combined with Merge at
// join points; per the concurrency model, reported values may be
// approximate.
type Stats struct {
	LinesRead           int64
	LabelsCompressed    int64
	LabelsWithSeparator int64
	LinesMalformed      int64
	EdgesResolved       int64
	EdgesDropped        int64
}

// Merge returns the element-wise sum of s and other.
func (s Stats) Merge(other Stats) Stats {
	return Stats{
		LinesRead:           s.LinesRead + other.LinesRead,
		LabelsCompressed:    s.LabelsCompressed + other.LabelsCompressed,
		LabelsWithSeparator: s.LabelsWithSeparator + other.LabelsWithSeparator,
		LinesMalformed:      s.LinesMalformed + other.LinesMalformed,
		EdgesResolved:       s.EdgesResolved + other.EdgesResolved,
		EdgesDropped:        s.EdgesDropped + other.EdgesDropped,
	}
}
