package ingest

import (
	"context"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/wikigraph/wikidata"
)

// TestLabelPhaseBasic: a well-formed line produces an article, a
// comment/blank line is skipped, and a too-short line is counted as
// malformed rather than aborting the phase.
func TestLabelPhaseBasic(t *testing.T) {
	lines := []string{
		`<http://dbpedia.org/resource/New_York> <label> "New York"@en .`,
		"",
		"# a comment",
		`<http://dbpedia.org/resource/Fu_Bar> <label> "Foo Bar"@en .`,
		`two fields`,
	}
	src := NewSliceLines(lines)
	table := wikidata.NewArticleTable()
	opts := DefaultOpts
	opts.LabelParsers = 1

	stats := LabelPhase(context.Background(), src, table, opts)

	expect.EQ(t, stats.LinesRead, int64(len(lines)))
	expect.EQ(t, stats.LinesMalformed, int64(1))
	expect.EQ(t, table.Len(), 2)

	nyID := table.FindByResource("New_York")
	expect.True(t, nyID != wikidata.NotFound)
	label, err := table.LabelOf(nyID)
	expect.NoError(t, err)
	expect.EQ(t, label, "New York")

	fuBarID := table.FindByResource("Fu_Bar")
	expect.True(t, fuBarID != wikidata.NotFound)
	fuLabel, err := table.LabelOf(fuBarID)
	expect.NoError(t, err)
	expect.EQ(t, fuLabel, "Foo Bar")

	expect.EQ(t, stats.LabelsCompressed, int64(1))    // New_York: denormalize(resource) == label
	expect.EQ(t, stats.LabelsWithSeparator, int64(1)) // Fu_Bar: denormalize(resource) != "Foo Bar"
}

func TestLabelPhaseEmptySource(t *testing.T) {
	src := NewSliceLines(nil)
	table := wikidata.NewArticleTable()
	stats := LabelPhase(context.Background(), src, table, DefaultOpts)
	expect.EQ(t, stats.LinesRead, int64(0))
	expect.EQ(t, table.Len(), 0)
}

func TestParseLabelLineMalformed(t *testing.T) {
	table := wikidata.NewArticleTable()
	var stats Stats
	parseLabelLine("too short", table, &stats)
	expect.EQ(t, stats.LinesMalformed, int64(1))
}
