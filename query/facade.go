// Package query translates the textual commands accepted by the
// interactive prompt into calls against wikidata's article table,
// adjacency store, and BFS path engine, and formats their results as
// printable lines. The prompt loop itself (reading stdin, writing to
// stdout) lives in cmd/wikigraph; this package only ever sees one command
// line at a time and returns the lines it produced.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/wikigraph/wikidata"
)

// Facade dispatches textual commands to the underlying wikidata tables. It
// is not safe for concurrent use: the interactive prompt issues one
// command at a time, and a "path*"/"path-undirected*" command leaves a BFS
// iterator pending across calls to Dispatch until the issuer sends "n" or
// "a".
type Facade struct {
	table   *wikidata.ArticleTable
	adj     *wikidata.Adjacency
	exclude map[wikidata.ArticleID]struct{}

	pending *wikidata.BFS
}

// New returns a Facade over table and adj. table must already be
// finalized.
func New(table *wikidata.ArticleTable, adj *wikidata.Adjacency) *Facade {
	return &Facade{
		table:   table,
		adj:     adj,
		exclude: map[wikidata.ArticleID]struct{}{},
	}
}

// Dispatch parses and executes one command line, returning the lines it
// produced. A parse or lookup failure is returned as err; the caller is
// expected to print it and continue prompting, per this façade's "report
// but don't abort" error policy.
func (f *Facade) Dispatch(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	if f.pending != nil {
		switch line {
		case "n":
			return f.nextPending()
		case "a":
			f.pending = nil
			return nil, nil
		default:
			return nil, fmt.Errorf("awaiting 'n' (next) or 'a' (abort), got %q", line)
		}
	}

	fields := strings.Fields(line)
	verb, args := fields[0], fields[1:]
	switch verb {
	case "resource":
		return f.cmdResource(args)
	case "label":
		return f.cmdLabel(args)
	case "id":
		return f.cmdID(args)
	case "outs":
		return f.cmdLinks(args, true, false)
	case "ins":
		return f.cmdLinks(args, false, true)
	case "inouts":
		return f.cmdLinks(args, true, true)
	case "path":
		return f.cmdPath(args, true, false)
	case "path*":
		return f.cmdPath(args, true, true)
	case "path-undirected":
		return f.cmdPath(args, false, false)
	case "path-undirected*":
		return f.cmdPath(args, false, true)
	case "path-exclude-add":
		return f.cmdExcludeAdd(args)
	case "path-exclude-clear":
		f.exclude = map[wikidata.ArticleID]struct{}{}
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown command %q (try: resource, label, id, outs, ins, inouts, path, path*, path-undirected, path-undirected*, path-exclude-add, path-exclude-clear)", verb)
	}
}

func (f *Facade) formatArticle(id wikidata.ArticleID) (string, error) {
	resource, err := f.table.ResourceOf(id)
	if err != nil {
		return "", err
	}
	label, err := f.table.LabelOf(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%9d : %s \"%s\"", id, resource, label), nil
}

// directionMarker renders a fixed-width edge marker: a "[ - ]" template
// whose second byte becomes '<' when the edge is incoming and whose fourth
// byte becomes '>' when it is outgoing, so both-direction edges read
// "[<->]" and partial ones keep their placeholder ("[ ->]", "[<- ]").
func directionMarker(outgoing, incoming bool) string {
	marker := []byte("[ - ]")
	if incoming {
		marker[1] = '<'
	}
	if outgoing {
		marker[3] = '>'
	}
	return string(marker)
}

func (f *Facade) formatLink(link wikidata.PageLink) (string, error) {
	article, err := f.formatArticle(link.Target())
	if err != nil {
		return "", err
	}
	return directionMarker(link.Outgoing(), link.Incoming()) + " " + article, nil
}

func (f *Facade) cmdResource(args []string) ([]string, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: resource <resource>")
	}
	id := f.table.FindByResource(args[0])
	if id == wikidata.NotFound {
		return nil, fmt.Errorf("resource not found: %q", args[0])
	}
	line, err := f.formatArticle(id)
	if err != nil {
		return nil, err
	}
	return []string{line}, nil
}

func (f *Facade) cmdLabel(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: label <label text>")
	}
	label := strings.Join(args, " ")
	id := f.table.FindByLabel(label)
	if id == wikidata.NotFound {
		return nil, fmt.Errorf("label not found: %q", label)
	}
	line, err := f.formatArticle(id)
	if err != nil {
		return nil, err
	}
	return []string{line}, nil
}

func (f *Facade) cmdID(args []string) ([]string, error) {
	id, err := parseArticleID(args)
	if err != nil {
		return nil, err
	}
	line, err := f.formatArticle(id)
	if err != nil {
		return nil, err
	}
	return []string{line}, nil
}

func (f *Facade) cmdLinks(args []string, wantOut, wantIn bool) ([]string, error) {
	id, err := parseArticleID(args)
	if err != nil {
		return nil, err
	}
	links, err := f.adj.LinksOf(id, wantOut, wantIn)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(links))
	for _, link := range links {
		l, err := f.formatLink(link)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func (f *Facade) cmdExcludeAdd(args []string) ([]string, error) {
	id, err := parseArticleID(args)
	if err != nil {
		return nil, err
	}
	if _, err := f.table.ResourceOf(id); err != nil {
		return nil, err
	}
	f.exclude[id] = struct{}{}
	return nil, nil
}

func (f *Facade) cmdPath(args []string, directed, iterate bool) ([]string, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("usage: path[-undirected][*] <from-id> <to-id>")
	}
	from, err := parseID(args[0])
	if err != nil {
		return nil, err
	}
	to, err := parseID(args[1])
	if err != nil {
		return nil, err
	}
	bfs, err := wikidata.NewBFS(f.adj, from, to, directed, f.exclude)
	if err != nil {
		return nil, err
	}
	path := bfs.Next()
	if iterate && path != nil {
		f.pending = bfs
	}
	return f.formatPath(path)
}

func (f *Facade) nextPending() ([]string, error) {
	path := f.pending.Next()
	if path == nil {
		f.pending = nil
	}
	return f.formatPath(path)
}

func (f *Facade) formatPath(path wikidata.Path) ([]string, error) {
	if path == nil {
		return []string{"no path found"}, nil
	}
	lines := make([]string, 0, len(path))
	for _, id := range path {
		l, err := f.formatArticle(id)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func parseArticleID(args []string) (wikidata.ArticleID, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: <command> <id>")
	}
	return parseID(args[0])
}

func parseID(s string) (wikidata.ArticleID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid article id %q: %v", s, err)
	}
	return wikidata.ArticleID(v), nil
}
