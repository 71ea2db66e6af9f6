package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/papersect/internal/document"
	"github.com/dgallion1/papersect/internal/layout"
	"github.com/dgallion1/papersect/internal/parser"
	"github.com/dgallion1/papersect/internal/segment"
	"golang.org/x/sync/errgroup"
)

// Segmenter turns one document into a record.
type Segmenter interface {
	Segment(doc *document.Document) (document.Record, error)
}

// Reason classifies why a document produced no record.
type Reason string

const (
	ReasonIO            Reason = "io"              // file could not be opened or read
	ReasonParse         Reason = "parse"           // unsupported or malformed input format
	ReasonTitleNotFound Reason = "title_not_found" // every line was front-matter noise
	ReasonCanceled      Reason = "canceled"        // the run was canceled first
)

// Failure is one document that was skipped.
type Failure struct {
	Path   string
	Reason Reason
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Path, f.Reason, f.Err)
}

func (f Failure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Path   string `json:"path"`
		Reason Reason `json:"reason"`
		Error  string `json:"error,omitempty"`
	}{f.Path, f.Reason, msg})
}

// Batch is the outcome of a run, both lists in input order.
type Batch struct {
	Succeeded []document.Record
	Failed    []Failure
}

// Options controls a run.
type Options struct {
	Workers int           // Parallel documents; <= 0 means 1
	Columns bool          // Keep only the first column of two-column text
	Layout  layout.Config // Gutter detection thresholds
	Parser  parser.Options
	Log     *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Log == nil {
		return slog.Default()
	}
	return o.Log
}

// Discover lists the .txt files directly inside dir, in directory order.
// The extension match is case-insensitive and subdirectories are ignored.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input folder: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

// Load reads a plain-text file into a Document. Lines that are not valid
// UTF-8 are dropped.
func Load(path string) (*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &parser.TextParser{}
	return p.Parse(f, path)
}

// Run segments every path on a bounded pool of goroutines. A failing
// document never stops the others; it is reported in Batch.Failed.
func Run(ctx context.Context, seg Segmenter, paths []string, opts Options) Batch {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	log := opts.logger()

	type outcome struct {
		rec     document.Record
		failure *Failure
	}
	results := make([]outcome, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].failure = &Failure{Path: path, Reason: ReasonCanceled, Err: err}
				return nil
			}
			doc, err := Load(path)
			if err != nil {
				results[i].failure = &Failure{Path: path, Reason: ReasonIO, Err: err}
				return nil
			}
			rec, err := segmentDocument(seg, doc, opts)
			if err != nil {
				results[i].failure = &Failure{Path: path, Reason: Classify(err), Err: err}
				return nil
			}
			results[i].rec = rec
			return nil
		})
	}
	g.Wait()

	var b Batch
	for _, r := range results {
		if r.failure != nil {
			log.Warn("document skipped", "path", r.failure.Path, "reason", r.failure.Reason, "error", r.failure.Err)
			b.Failed = append(b.Failed, *r.failure)
			continue
		}
		b.Succeeded = append(b.Succeeded, r.rec)
	}
	return b
}

// SegmentFile parses data according to the filename's extension and
// segments it. Errors are classified by Classify.
func SegmentFile(seg Segmenter, filename string, data []byte, opts Options) (document.Record, error) {
	p, err := parser.ForFile(filename, opts.Parser)
	if err != nil {
		return document.Record{}, &parseError{err}
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return document.Record{}, &parseError{err}
	}
	return segmentDocument(seg, doc, opts)
}

func segmentDocument(seg Segmenter, doc *document.Document, opts Options) (document.Record, error) {
	if opts.Columns {
		lines, column, ok := layout.KeepFirstColumn(doc.Lines, opts.Layout)
		if ok {
			opts.logger().Debug("kept first column", "file", doc.Name, "gutter", column)
		}
		doc = &document.Document{Name: doc.Name, Lines: lines}
	}
	return seg.Segment(doc)
}

type parseError struct{ err error }

func (e *parseError) Error() string { return "parse: " + e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// Classify maps a per-document error to its failure reason.
func Classify(err error) Reason {
	var pe *parseError
	switch {
	case errors.Is(err, segment.ErrTitleNotFound):
		return ReasonTitleNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	case errors.As(err, &pe):
		return ReasonParse
	default:
		return ReasonIO
	}
}
