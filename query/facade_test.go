package query

import (
	"strconv"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/wikigraph/wikidata"
)

func newFixture() (*Facade, wikidata.ArticleID, wikidata.ArticleID, wikidata.ArticleID) {
	table := wikidata.NewArticleTable()
	table.Append("New_York", "New York")
	table.Append("Apple", "Apple")
	table.Append("Fu_Bar", "Foo Bar")
	table.Finalize()

	adj := wikidata.NewAdjacency()
	adj.Resize(table.Len())

	ny := table.FindByResource("New_York")
	apple := table.FindByResource("Apple")
	fu := table.FindByResource("Fu_Bar")
	_ = adj.AddEdge(ny, apple, true)
	_ = adj.AddEdge(apple, fu, true)

	return New(table, adj), ny, apple, fu
}

func TestFacadeResourceAndLabelLookup(t *testing.T) {
	f, ny, _, _ := newFixture()

	lines, err := f.Dispatch("resource New_York")
	expect.NoError(t, err)
	expect.EQ(t, len(lines), 1)
	expect.True(t, strings.Contains(lines[0], "New York"))

	lines, err = f.Dispatch("label New York")
	expect.NoError(t, err)
	expect.EQ(t, len(lines), 1)

	lines, err = f.Dispatch("id " + idStr(ny))
	expect.NoError(t, err)
	expect.True(t, strings.Contains(lines[0], "New_York"))

	_, err = f.Dispatch("resource Nope")
	expect.True(t, err != nil)
}

func TestFacadeLinks(t *testing.T) {
	f, ny, apple, _ := newFixture()

	lines, err := f.Dispatch("outs " + idStr(ny))
	expect.NoError(t, err)
	expect.EQ(t, len(lines), 1)
	expect.True(t, strings.Contains(lines[0], "[ ->]"))
	expect.True(t, strings.Contains(lines[0], "Apple"))

	lines, err = f.Dispatch("ins " + idStr(apple))
	expect.NoError(t, err)
	expect.EQ(t, len(lines), 0) // no inlinks recorded, only outgoing
}

func TestFacadePathDirect(t *testing.T) {
	f, ny, _, fu := newFixture()

	lines, err := f.Dispatch("path " + idStr(ny) + " " + idStr(fu))
	expect.NoError(t, err)
	expect.EQ(t, len(lines), 3) // New_York -> Apple -> Fu_Bar
}

func TestFacadePathIterationProtocol(t *testing.T) {
	f, ny, _, fu := newFixture()

	_, err := f.Dispatch("path* " + idStr(ny) + " " + idStr(fu))
	expect.NoError(t, err)

	// A second non n/a command while a path* iteration is pending is rejected.
	_, err = f.Dispatch("resource New_York")
	expect.True(t, err != nil)

	lines, err := f.Dispatch("n")
	expect.NoError(t, err)
	expect.EQ(t, len(lines), 1) // exhausted: "no path found"
	expect.EQ(t, lines[0], "no path found")

	// Iteration ended, so plain commands work again.
	_, err = f.Dispatch("resource New_York")
	expect.NoError(t, err)
}

func TestFacadePathExcludeAdd(t *testing.T) {
	f, ny, apple, fu := newFixture()

	_, err := f.Dispatch("path-exclude-add " + idStr(apple))
	expect.NoError(t, err)

	lines, err := f.Dispatch("path " + idStr(ny) + " " + idStr(fu))
	expect.NoError(t, err)
	expect.EQ(t, len(lines), 1)
	expect.EQ(t, lines[0], "no path found")

	_, err = f.Dispatch("path-exclude-clear")
	expect.NoError(t, err)
	lines, err = f.Dispatch("path " + idStr(ny) + " " + idStr(fu))
	expect.NoError(t, err)
	expect.EQ(t, len(lines), 3)
}

// An exclusion id that names no article is rejected rather than silently
// added to the exclusion set.
func TestFacadePathExcludeAddOutOfRange(t *testing.T) {
	f, ny, _, fu := newFixture()

	_, err := f.Dispatch("path-exclude-add 99")
	expect.True(t, err != nil)

	// The bad id must not have poisoned the exclusion set.
	lines, err := f.Dispatch("path " + idStr(ny) + " " + idStr(fu))
	expect.NoError(t, err)
	expect.EQ(t, len(lines), 3)
}

func TestFacadeLinkMarkers(t *testing.T) {
	table := wikidata.NewArticleTable()
	table.Append("A", "A")
	table.Append("B", "B")
	table.Append("C", "C")
	table.Finalize()

	adj := wikidata.NewAdjacency()
	adj.Resize(table.Len())
	a := table.FindByResource("A")
	b := table.FindByResource("B")
	c := table.FindByResource("C")
	_ = adj.AddEdge(a, b, true)  // outgoing only
	_ = adj.AddEdge(a, c, false) // incoming only
	_ = adj.AddEdge(a, c, true)  // now both directions

	f := New(table, adj)
	lines, err := f.Dispatch("inouts " + idStr(a))
	expect.NoError(t, err)
	expect.EQ(t, len(lines), 2)
	expect.True(t, strings.Contains(lines[0], "[ ->]"))
	expect.True(t, strings.Contains(lines[1], "[<->]"))
}

func idStr(id wikidata.ArticleID) string {
	return strconv.FormatUint(uint64(id), 10)
}
