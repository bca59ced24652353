package wikidata

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/simd"
	gunsafe "github.com/grailbio/base/unsafe"
)

// ArticleID is a dense, non-negative index into an ArticleTable, assigned
// by the table's final sort order. It is only valid after Finalize has run.
type ArticleID uint32

// NotFound is the sentinel ArticleID returned by lookups that fail to find
// a match. It is the maximum value of the ArticleID space, so it can never
// collide with a real ID produced by a table small enough to fit in memory.
const NotFound = ArticleID(math.MaxUint32)

// compressedLabel is a byte string that holds both a resource and, when it
// can't be recovered mechanically from the resource, a label. If
// DenormalizeTitle(resource) == label, only the resource is stored. Otherwise
// the encoding is resource + 0x00 + label. The embedded NUL is significant:
// this must stay a byte string, never treated as a NUL-terminated C string or
// re-encoded as UTF-8 text that elides zero bytes.
type compressedLabel string

// compressLabel builds the compact encoding for a (resource, label) pair.
func compressLabel(resource, label string) compressedLabel {
	if DenormalizeTitle(resource) == label {
		return compressedLabel(resource)
	}
	var buf []byte
	simd.ResizeUnsafe(&buf, len(resource)+1+len(label))
	n := copy(buf, resource)
	buf[n] = 0
	copy(buf[n+1:], label)
	return compressedLabel(gunsafe.BytesToString(buf))
}

// resource returns the resource half of the encoding: everything before the
// first NUL byte (or the whole string, if there is no NUL).
func (c compressedLabel) resource() string {
	if i := strings.IndexByte(string(c), 0); i >= 0 {
		return string(c)[:i]
	}
	return string(c)
}

// label returns the label half of the encoding: everything after the first
// NUL byte, or the denormalized resource if there is no NUL.
func (c compressedLabel) label() string {
	s := string(c)
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[i+1:]
	}
	return DenormalizeTitle(s)
}

// ArticleTable is an ordered, sorted-on-finalize sequence of articles,
// addressable by resource, by label, or by the dense ArticleID assigned at
// finalize time.
//
// During ingest, Append is the only mutator, and is safe to call
// concurrently from multiple goroutines behind a single mutex around
// append-only growth. Finalize must run exactly once, after every Append
// has returned, and before any lookup. After Finalize, the table is
// immutable and safe for concurrent reads without further synchronization.
type ArticleTable struct {
	mu      sync.Mutex
	records []compressedLabel
	final   bool
}

// NewArticleTable returns an empty table ready to accept Append calls.
func NewArticleTable() *ArticleTable {
	return &ArticleTable{}
}

// Append adds a (resource, label) pair to the table without sorting.
// Article IDs are not assigned until Finalize runs. Safe for concurrent
// callers.
func (t *ArticleTable) Append(resource, label string) {
	c := compressLabel(resource, label)
	t.mu.Lock()
	t.records = append(t.records, c)
	t.mu.Unlock()
}

// Finalize sorts the table in ascending byte order, fixing the ArticleID of
// every record to its resulting position. It must be called exactly once,
// after all Append calls have returned, and before any lookup.
func (t *ArticleTable) Finalize() {
	sort.Slice(t.records, func(i, j int) bool {
		return t.records[i] < t.records[j]
	})
	t.final = true
}

// Len returns the number of articles in the table.
func (t *ArticleTable) Len() int { return len(t.records) }

// FindByResource returns the ArticleID of the article whose resource
// exactly equals s, or NotFound if there is none.
//
// REQUIRES: Finalize has run.
func (t *ArticleTable) FindByResource(s string) ArticleID {
	if !t.final {
		log.Panicf("FindByResource: table not finalized")
	}
	i := sort.Search(len(t.records), func(i int) bool {
		return t.records[i].resource() >= s
	})
	if i < len(t.records) && t.records[i].resource() == s {
		return ArticleID(i)
	}
	return NotFound
}

// FindByLabel returns the ArticleID of an article whose label exactly
// equals s, or NotFound. The lookup normalizes s into resource form and
// binary-searches the same sorted key space FindByResource uses, as though
// the query were itself a resource, then verifies only that the candidate
// record's extracted label matches s. Only that one candidate is checked:
// an article whose label equals s is not found if normalizing s does not
// land the search on that article's record. It deliberately does
// not also require the candidate's resource to equal the normalized query:
// when resource and label diverge (the embedded NUL separator case), the
// normalized label need not equal the stored resource at all, only sort
// adjacent to it, so the resource comparison alone would reject valid
// matches.
//
// REQUIRES: Finalize has run.
func (t *ArticleTable) FindByLabel(s string) ArticleID {
	if !t.final {
		log.Panicf("FindByLabel: table not finalized")
	}
	normalized := NormalizeTitle(s)
	i := sort.Search(len(t.records), func(i int) bool {
		return t.records[i].resource() >= normalized
	})
	if i < len(t.records) && t.records[i].label() == s {
		return ArticleID(i)
	}
	return NotFound
}

// ResourceOf returns the resource of article id. It fails if id is out of
// range.
func (t *ArticleTable) ResourceOf(id ArticleID) (string, error) {
	if int(id) < 0 || int(id) >= len(t.records) {
		return "", fmt.Errorf("article not found: id %d", id)
	}
	return t.records[id].resource(), nil
}

// LabelOf returns the label of article id. It fails if id is out of range.
func (t *ArticleTable) LabelOf(id ArticleID) (string, error) {
	if int(id) < 0 || int(id) >= len(t.records) {
		return "", fmt.Errorf("article not found: id %d", id)
	}
	return t.records[id].label(), nil
}
