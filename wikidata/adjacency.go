package wikidata

import (
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
)

// Adjacency is a per-article store of outgoing/incoming edges. Logically it
// is a vector indexed by ArticleID, where each element is a list of PageLink
// records sorted ascending by their packed word, with at most one record per
// (owner, target) pair.
//
// Resize must run once, before any AddEdge call. It is not safe to call
// AddEdge concurrently for the same owner, but calls for distinct owners never
// touch the same slice and may run concurrently without synchronization.
// The ingest link phase relies on exactly that discipline by sharding
// writers on owner ID.
type Adjacency struct {
	lists [][]PageLink
}

// NewAdjacency returns an empty store. Call Resize before use.
func NewAdjacency() *Adjacency {
	return &Adjacency{}
}

// Resize allocates n empty per-article edge lists, discarding any prior
// content.
func (a *Adjacency) Resize(n int) {
	a.lists = make([][]PageLink, n)
}

func (a *Adjacency) checkOwner(owner ArticleID) error {
	if len(a.lists) == 0 {
		return errors.E("link database not loaded")
	}
	if int(owner) < 0 || int(owner) >= len(a.lists) {
		return errors.E(fmt.Sprintf("invalid article id for link store: %d", owner))
	}
	return nil
}

// AddEdge records that owner has an edge to target. If a record for target
// already exists under owner, its direction bits are OR-ed with the new
// ones rather than creating a duplicate. Not safe for concurrent calls with
// the same owner.
func (a *Adjacency) AddEdge(owner, target ArticleID, outgoing bool) error {
	if err := a.checkOwner(owner); err != nil {
		return err
	}
	list := a.lists[owner]
	key := probeKey(target)
	i := sort.Search(len(list), func(i int) bool { return list[i] >= key })
	if i < len(list) && list[i].Target() == target {
		if outgoing {
			list[i] |= flagOutgoing
		} else {
			list[i] |= flagIncoming
		}
		return nil
	}
	rec := newPageLink(target, outgoing, !outgoing)
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = rec
	a.lists[owner] = list
	return nil
}

// OutgoingExists reports whether owner has a recorded outgoing edge to
// target.
func (a *Adjacency) OutgoingExists(owner, target ArticleID) (bool, error) {
	if err := a.checkOwner(owner); err != nil {
		return false, err
	}
	list := a.lists[owner]
	key := probeKey(target)
	i := sort.Search(len(list), func(i int) bool { return list[i] >= key })
	if i >= len(list) {
		return false, nil
	}
	rec := list[i]
	return rec.Target() == target && rec.Outgoing(), nil
}

// LinksOf returns, in stored (ascending) order, every edge record of owner
// whose direction matches wantOut/wantIn (a record need only match one of
// the requested directions to be included).
func (a *Adjacency) LinksOf(owner ArticleID, wantOut, wantIn bool) ([]PageLink, error) {
	if err := a.checkOwner(owner); err != nil {
		return nil, err
	}
	list := a.lists[owner]
	out := make([]PageLink, 0, len(list))
	for _, rec := range list {
		if (wantOut && rec.Outgoing()) || (wantIn && rec.Incoming()) {
			out = append(out, rec)
		}
	}
	return out, nil
}
