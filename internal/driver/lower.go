// Package driver runs lowering over a set of CST files: it decodes each
// input, lowers it with its own builder and symbol arena, collects
// diagnostics and encodes the result. Files are processed in parallel.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"ktfront/internal/cst"
	"ktfront/internal/diag"
	"ktfront/internal/ir"
	"ktfront/internal/lower"
	"ktfront/internal/observ"
	"ktfront/internal/source"
	"ktfront/internal/trace"
)

// Options configures LowerFiles.
type Options struct {
	Stub     bool
	Validate bool
	// Jobs bounds parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each file's bag; 0 means no cap.
	MaxDiagnostics int
	// Input forces the CST encoding; nil guesses from the extension.
	Input *cst.Format
	// Output is the encoding of Result.Output.
	Output ir.Format
	// Cache, when set, skips lowering for inputs seen before.
	Cache *Cache
	// Timer, when set, receives the run's phases.
	Timer *observ.Timer
}

// Result is the outcome for one input file.
type Result struct {
	Path   string
	FileID source.FileID
	// File is nil when the input could not be lowered or came from the cache.
	File   *ir.File
	Output []byte
	Bag    *diag.Bag
	Cached bool
}

// Run is the outcome of LowerFiles.
type Run struct {
	Files   *source.FileSet
	Results []Result
}

// HasErrors reports an error diagnostic in any file.
func (r *Run) HasErrors() bool {
	for i := range r.Results {
		if r.Results[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnostics merges every file's diagnostics, sorted and deduplicated.
func (r *Run) Diagnostics() *diag.Bag {
	out := diag.NewBag(0)
	for i := range r.Results {
		out.Merge(r.Results[i].Bag)
	}
	out.Sort()
	out.Dedup()
	return out
}

// LowerFiles lowers every path. Per-file problems become diagnostics in that
// file's Result; the returned error is reserved for cancellation and cache
// write failures.
func LowerFiles(ctx context.Context, paths []string, opts Options) (*Run, error) {
	run := &Run{
		Files:   source.NewFileSet(),
		Results: make([]Result, len(paths)),
	}
	if len(paths) == 0 {
		return run, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, pass := trace.Start(ctx, trace.ScopePass, "lower")
	phase := opts.Timer.Begin("lower")

	w := &worker{opts: opts, files: run.Files}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			res, err := w.lowerOne(gctx, path)
			if err != nil {
				return err
			}
			run.Results[i] = res
			return nil
		})
	}
	err := g.Wait()

	cached := 0
	for i := range run.Results {
		if run.Results[i].Cached {
			cached++
		}
	}
	note := fmt.Sprintf("%d files, %d cached", len(paths), cached)
	opts.Timer.End(phase, note)
	pass.WithExtra("files", strconv.Itoa(len(paths))).End(note)
	if err != nil {
		return nil, err
	}
	return run, nil
}

type worker struct {
	opts Options

	mu    sync.Mutex
	files *source.FileSet
}

func (w *worker) addFile(path string, content []byte) source.FileID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files.Add(path, content)
}

func (w *worker) lowerOne(ctx context.Context, path string) (Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
	res := Result{Path: path, Bag: diag.NewBag(w.opts.MaxDiagnostics)}
	r := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	defer func() { span.WithExtra("diagnostics", strconv.Itoa(res.Bag.Len())).End("") }()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.FileID = w.addFile(path, nil)
		diag.ReportError(r, diag.IOReadFailed, source.Span{File: res.FileID}, err.Error())
		return res, nil
	}

	format := cst.FormatForPath(path)
	if w.opts.Input != nil {
		format = *w.opts.Input
	}
	key := Key(data, path, format, w.opts)
	if payload, ok, err := w.opts.Cache.Get(key); err == nil && ok {
		res.FileID = w.addFile(payload.Path, []byte(payload.Source))
		res.Output = payload.Output
		res.Cached = true
		for _, d := range payload.Diagnostics {
			d.Primary.File = res.FileID
			for i := range d.Notes {
				d.Notes[i].Span.File = res.FileID
			}
			res.Bag.Add(d)
		}
		return res, nil
	}

	doc, err := cst.Decode(bytes.NewReader(data), format)
	if err != nil {
		res.FileID = w.addFile(path, nil)
		diag.ReportError(r, diag.IODecodeError, source.Span{File: res.FileID}, err.Error())
		return res, nil
	}
	name := doc.Path
	if name == "" {
		name = path
	}
	res.FileID = w.addFile(name, []byte(doc.Source))
	doc.Root.BindFile(res.FileID)

	file, err := lower.BuildContext(ctx, doc.Root, lower.Options{Stub: w.opts.Stub, Path: name})
	var ie *lower.InvariantError
	switch {
	case errors.As(err, &ie):
		lower.ReportInvariant(r, ie)
		return res, nil
	case err != nil:
		return res, err
	}
	res.File = file

	lower.Diagnose(file, r)
	if w.opts.Validate {
		for _, verr := range ir.Validate(file, w.opts.Stub) {
			diag.ReportError(r, diag.ValStructure, file.Span, verr.Error())
		}
	}

	var out bytes.Buffer
	if err := ir.Encode(&out, file, w.opts.Output); err != nil {
		return res, fmt.Errorf("%s: encode: %w", path, err)
	}
	res.Output = out.Bytes()

	if w.opts.Cache != nil {
		payload := &Payload{Path: name, Source: doc.Source, Output: res.Output, Diagnostics: res.Bag.Items()}
		if err := w.opts.Cache.Put(key, payload); err != nil {
			return res, fmt.Errorf("%s: cache: %w", path, err)
		}
	}
	return res, nil
}
