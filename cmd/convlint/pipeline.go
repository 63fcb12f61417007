package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"runtime"

	"golang.org/x/sync/errgroup"

	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/diagfmt"
	"convlint/internal/fix"
	"convlint/internal/semantic"
	"convlint/internal/snapshot"
	"convlint/internal/source"
	"convlint/internal/ui"
)

// pass is one analysis run over a set of snapshot files.
type pass struct {
	fs      *source.FileSet
	files   []string // snapshot paths, in input order
	loaded  []string // paths of snaps, parallel to snaps and results
	snaps   []*snapshot.Snapshot
	results []*analysis.Result
	// io holds load failures; they are reported like diagnostics.
	io *diag.Bag
}

// progressFunc receives per-file events; nil disables reporting.
type progressFunc func(ui.Event)

func (p progressFunc) emit(ev ui.Event) {
	if p != nil {
		p(ev)
	}
}

// runPass loads every file and analyses the ones that loaded. Load failures
// do not stop the pass.
func runPass(ctx context.Context, s *session, engine *analysis.Engine, base string, files []string, progress progressFunc) (*pass, error) {
	p := &pass{
		fs:    source.NewFileSetWithBase(base),
		files: files,
		io:    diag.NewBag(len(files)),
	}

	var inputs []analysis.Input
	for _, path := range files {
		progress.emit(ui.Event{File: path, Stage: ui.StageLoad, Status: ui.StatusWorking})
		snap, err := s.cache.Load(p.fs, path)
		if err != nil {
			s.log.WithError(err).WithField("path", path).Debug("snapshot not loaded")
			p.io.Add(loadDiagnostic(p.fs, path, err))
			progress.emit(ui.Event{File: path, Stage: ui.StageLoad, Status: ui.StatusError})
			continue
		}
		p.loaded = append(p.loaded, path)
		p.snaps = append(p.snaps, snap)
		inputs = append(inputs, analysis.Input{Tree: snap.Tree, Model: snap.Model})
	}

	if progress == nil {
		results, err := engine.RunFiles(ctx, inputs)
		p.results = results
		return p, err
	}

	// с прогрессом запускаем по файлу, чтобы отчитываться о каждом
	p.results = make([]*analysis.Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	jobs := s.cfg.Engine.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(jobs)
	for i, in := range inputs {
		file := p.loaded[i]
		g.Go(func() error {
			progress.emit(ui.Event{File: file, Stage: ui.StageAnalyze, Status: ui.StatusWorking})
			res, err := engine.Run(gctx, in.Tree, in.Model)
			p.results[i] = res
			if err != nil {
				progress.emit(ui.Event{File: file, Stage: ui.StageAnalyze, Status: ui.StatusError})
				return fmt.Errorf("%s: %w", file, err)
			}
			progress.emit(ui.Event{File: file, Stage: ui.StageAnalyze, Status: ui.StatusDone, Diagnostics: res.Bag.Len()})
			return nil
		})
	}
	return p, g.Wait()
}

// bag merges the diagnostics of the pass, load failures first.
func (p *pass) bag(limit int) *diag.Bag {
	out := diag.NewBag(limit)
	out.Merge(p.io)
	for _, res := range p.results {
		if res != nil {
			out.Merge(res.Bag)
		}
	}
	out.Sort()
	return out
}

// model returns the symbol model of the i-th result.
func (p *pass) model(i int) semantic.Model {
	if i < len(p.snaps) && p.snaps[i] != nil {
		return p.snaps[i].Model
	}
	return nil
}

type hintKey struct {
	code diag.Code
	span source.Span
}

// fixHints plans fixes for every result and exposes them to the renderers
// as text edits over the rendered trees.
func (p *pass) fixHints(reg *fix.Registry) diagfmt.FixSource {
	hints := make(map[hintKey][]diagfmt.FixHint)
	for i, res := range p.results {
		if res == nil || res.Skipped {
			continue
		}
		cands, _ := fix.Candidates(res.Tree, p.model(i), res.Bag.Items(), reg)
		for _, c := range cands {
			sp, newText, oldText, ok := c.TextEdit(res.Tree)
			if !ok {
				continue
			}
			key := hintKey{code: c.Diagnostic.Code, span: c.Diagnostic.Primary}
			hints[key] = append(hints[key], diagfmt.FixHint{
				ID:            c.ID,
				Title:         c.Title,
				Applicability: c.Applicability.String(),
				Edits:         []diagfmt.TextEdit{{Span: sp, NewText: newText, OldText: oldText}},
			})
		}
	}
	return func(d diag.Diagnostic) []diagfmt.FixHint {
		return hints[hintKey{code: d.Code, span: d.Primary}]
	}
}

// loadDiagnostic reports a snapshot that could not be read. The path is
// registered as an empty file so the diagnostic carries a location.
func loadDiagnostic(fset *source.FileSet, path string, err error) diag.Diagnostic {
	code := diag.IODecodeError
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, snapshot.ErrUnknownFormat) {
		code = diag.IOLoadFileError
	}
	id := fset.Add(path, nil, 0)
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  err.Error(),
		Args:     []string{path},
		Primary:  source.Span{File: id},
	}
}
