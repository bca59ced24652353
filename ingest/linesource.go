// Package ingest implements the parallel pipeline that populates a
// wikidata.ArticleTable and wikidata.Adjacency from compressed dump files:
// a bounded queue of raw lines feeds a pool of parser workers, which in
// turn dispatch to a pool of single-writer shards keyed by owner article
// ID. See LabelPhase and LinkPhase.
package ingest

import (
	"bufio"
	"compress/bzip2"
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// LineSource yields decompressed text lines one at a time. It is the
// abstract boundary between the pipeline and whatever decompression/file
// layer backs a dump file; the pipeline never assumes bzip2, a particular
// file system, or any compression at all.
type LineSource interface {
	// Next returns the next line (without its trailing newline), or ok=false
	// once the source is exhausted.
	Next() (line string, ok bool)
	// Close releases any resources held by the source.
	Close() error
}

// maxLineBytes bounds a single scanned line; dump lines are long (page-link
// rows especially), so the default bufio.Scanner token size is not enough.
const maxLineBytes = 1 << 20

type bzip2LineSource struct {
	ctx     context.Context
	f       file.File
	scanner *bufio.Scanner
}

// OpenBzip2Lines opens path, decompresses it as bzip2, and returns a
// LineSource that scans it line by line. Opening and decompression use
// github.com/grailbio/base/file so a dump path can be local or remote, the
// same file layer the rest of this codebase's tooling uses.
func OpenBzip2Lines(ctx context.Context, path string) (LineSource, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	r := bzip2.NewReader(f.Reader(ctx))
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &bzip2LineSource{ctx: ctx, f: f, scanner: scanner}, nil
}

func (s *bzip2LineSource) Next() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	return s.scanner.Text(), true
}

func (s *bzip2LineSource) Close() error {
	once := errors.Once{}
	if err := s.scanner.Err(); err != nil && err != io.EOF {
		once.Set(errors.E(err, "scan"))
	}
	once.Set(s.f.Close(s.ctx))
	return once.Err()
}

// SliceLines is an in-memory LineSource backed by a fixed slice, used by
// tests so they never touch bzip2 or the filesystem.
type SliceLines struct {
	lines []string
	pos   int
}

// NewSliceLines returns a LineSource that yields lines in order.
func NewSliceLines(lines []string) *SliceLines {
	return &SliceLines{lines: lines}
}

func (s *SliceLines) Next() (string, bool) {
	if s.pos >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.pos]
	s.pos++
	return line, true
}

func (s *SliceLines) Close() error { return nil }
