package wikidata

import "fmt"

// Path is a sequence of ArticleIDs from a BFS source to its sink, inclusive
// of both endpoints, in traversal order.
type Path []ArticleID

// nodeState packs a parent ArticleID into the low bits and a visited flag
// into the high bit of a 32-bit word. unvisitedParent is the sentinel parent
// value of a node that has not yet been reached.
type nodeState uint32

const (
	visitedBit      nodeState = 1 << 31
	parentMask      nodeState = visitedBit - 1
	unvisitedParent nodeState = parentMask
)

func (s nodeState) visited() bool      { return s&visitedBit != 0 }
func (s nodeState) parent() ArticleID  { return ArticleID(s & parentMask) }
func (s nodeState) hasParent() bool    { return s&parentMask != unvisitedParent }
func withParent(p ArticleID) nodeState { return nodeState(p) & parentMask }

// BFS enumerates shortest paths from a source to a sink over a frozen
// adjacency store, yielding one path per call to Next, in
// non-decreasing order of length. It is not safe for concurrent use.
type BFS struct {
	adj       *Adjacency
	from, to  ArticleID
	directed  bool
	exclude   map[ArticleID]struct{}
	state     []nodeState
	workQueue []ArticleID
	head      int
}

// NewBFS constructs a path engine over adj, from source from to sink to,
// considering only outgoing edges when directed is true and both directions
// otherwise. exclude is a set of ArticleIDs BFS treats as if they did not
// exist; it is an error for to to be a member. Both endpoints are validated
// against the link store, so constructing a BFS before any link data is
// loaded fails the same way any other link query does.
func NewBFS(adj *Adjacency, from, to ArticleID, directed bool, exclude map[ArticleID]struct{}) (*BFS, error) {
	if err := adj.checkOwner(from); err != nil {
		return nil, err
	}
	if err := adj.checkOwner(to); err != nil {
		return nil, err
	}
	if exclude != nil {
		if _, excluded := exclude[to]; excluded {
			return nil, fmt.Errorf("bfs: sink article id %d is in the exclusion set", to)
		}
	}
	b := &BFS{
		adj:      adj,
		from:     from,
		to:       to,
		directed: directed,
		exclude:  exclude,
		state:    make([]nodeState, len(adj.lists)),
	}
	for i := range b.state {
		b.state[i] = unvisitedParent
	}
	b.state[from] = withParent(from) | visitedBit
	b.workQueue = append(b.workQueue, from)
	return b, nil
}

func (b *BFS) excluded(id ArticleID) bool {
	if b.exclude == nil {
		return false
	}
	_, ok := b.exclude[id]
	return ok
}

// Next resumes the BFS from its saved frontier and returns the next
// shortest path found, or a nil Path once the frontier is exhausted. Calling
// Next again after it returns nil continues to return nil.
//
// Because `to` is never marked visited, every dequeued node with an edge
// into `to` yields its own path, in the order those nodes are dequeued.
// Every other node is visited once and keeps the first parent that reached
// it, so Next does not enumerate every shortest path (shortest paths that
// differ before their last edge yield only one of them), nor every simple
// path.
func (b *BFS) Next() Path {
	for b.head < len(b.workQueue) {
		cur := b.workQueue[b.head]
		b.head++

		links, err := b.adj.LinksOf(cur, true, !b.directed)
		if err != nil {
			return nil
		}
		for _, link := range links {
			if b.directed && !link.Outgoing() {
				continue
			}
			neighbor := link.Target()
			if neighbor == b.to {
				// Force-set the parent even if one was already assigned: `to` is
				// never marked visited, so repeated discoveries must each be able
				// to overwrite the parent before reconstructing their own path.
				b.state[b.to] = withParent(cur)
				return b.reconstruct()
			}
			if b.state[neighbor].visited() {
				continue
			}
			if b.excluded(neighbor) {
				continue
			}
			if !b.state[neighbor].hasParent() {
				b.state[neighbor] = withParent(cur)
			}
			b.state[neighbor] |= visitedBit
			b.workQueue = append(b.workQueue, neighbor)
		}
	}
	return nil
}

func (b *BFS) reconstruct() Path {
	path := Path{b.to}
	cur := b.to
	for cur != b.from {
		cur = b.state[cur].parent()
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
