package analysis

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"convlint/internal/diag"
	"convlint/internal/generated"
	"convlint/internal/observ"
	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

// Observer receives per-evaluation and per-pass measurements.
// Implementations must be safe for concurrent use.
type Observer interface {
	DetectorEvaluated(detector string, dur time.Duration, emitted int)
	PassCompleted(path string, diags []diag.Diagnostic, dur time.Duration)
}

// Engine dispatches triggered nodes and symbols to the registry's detectors.
type Engine struct {
	registry       *Registry
	gate           generated.Gate
	jobs           int
	maxDiagnostics int
	log            logrus.FieldLogger
	observer       Observer
}

type Option func(*Engine)

// WithJobs caps the number of detectors evaluated at the same time.
func WithJobs(n int) Option {
	return func(e *Engine) { e.jobs = n }
}

func WithGate(g generated.Gate) Option {
	return func(e *Engine) { e.gate = g }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithMaxDiagnostics bounds the bag of one pass.
func WithMaxDiagnostics(n int) Option {
	return func(e *Engine) { e.maxDiagnostics = n }
}

func NewEngine(reg *Registry, opts ...Option) *Engine {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	e := &Engine{
		registry:       reg,
		gate:           generated.Default(),
		maxDiagnostics: 1000,
		log:            quiet,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.jobs <= 0 {
		e.jobs = runtime.GOMAXPROCS(0)
	}
	return e
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// Result is the outcome of one pass over one tree.
type Result struct {
	Path        string
	Tree        *syntax.Tree
	Bag         *diag.Bag
	Skipped     bool // the whole file is generated
	Evaluations int
	Timing      observ.Report
}

type nodeTarget struct {
	path syntax.Path
}

type symbolTarget struct {
	sym  *semantic.Symbol
	path syntax.Path
}

// Run evaluates every enabled detector against tree. Cancellation is checked
// before each evaluation; an evaluation already started always completes.
// On cancellation the partial result is returned with the context error.
func (e *Engine) Run(ctx context.Context, tree *syntax.Tree, model semantic.Model) (*Result, error) {
	if model == nil {
		model = semantic.Empty
	}
	timer := observ.NewTimer()
	result := &Result{Path: tree.Path, Tree: tree, Bag: diag.NewBag(e.maxDiagnostics)}
	log := e.log.WithField("path", tree.Path)

	if e.gate.IsGenerated(tree.Path) {
		log.Debug("generated file skipped")
		result.Skipped = true
		return result, nil
	}

	detectors := e.registry.Enabled()

	doneCollect := timer.Start("collect")
	nodes, symbols := e.collect(tree, model, detectors)
	doneCollect(fmt.Sprintf("%d node kinds, %d symbol kinds", len(nodes), len(symbols)))

	doneEvaluate := timer.Start("evaluate")
	start := time.Now()
	// слоты уникальны для каждой горутины, мьютекс не нужен
	slots := make([][]diag.Diagnostic, len(detectors))
	counts := make([]int, len(detectors))

	var g errgroup.Group
	g.SetLimit(max(1, min(e.jobs, len(detectors))))
	for i, det := range detectors {
		g.Go(func() error {
			trig := det.Trigger()
			for _, kind := range trig.Nodes {
				for _, t := range nodes[kind] {
					if err := ctx.Err(); err != nil {
						return err
					}
					c := &Context{Tree: tree, Path: t.path, Node: t.path.Node(), Model: model}
					slots[i] = append(slots[i], e.evaluate(det, c)...)
					counts[i]++
				}
			}
			for _, kind := range trig.Symbols {
				for _, t := range symbols[kind] {
					if err := ctx.Err(); err != nil {
						return err
					}
					c := &Context{Tree: tree, Path: t.path, Node: t.path.Node(), Symbol: t.sym, Model: model}
					slots[i] = append(slots[i], e.evaluate(det, c)...)
					counts[i]++
				}
			}
			return nil
		})
	}
	err := g.Wait()
	doneEvaluate(fmt.Sprintf("%d detectors", len(detectors)))

	for i := range slots {
		result.Evaluations += counts[i]
		if dropped := result.Bag.AddAll(e.registry.finalize(slots[i])); dropped > 0 {
			log.WithField("dropped", dropped).Warn("diagnostic limit reached")
		}
	}
	result.Timing = timer.Report()
	if e.observer != nil {
		e.observer.PassCompleted(tree.Path, result.Bag.Items(), time.Since(start))
	}
	log.WithFields(logrus.Fields{
		"detectors":   len(detectors),
		"evaluations": result.Evaluations,
		"diagnostics": result.Bag.Len(),
	}).Debug("analysis pass finished")

	if err != nil {
		return result, fmt.Errorf("analysis of %s interrupted: %w", tree.Path, err)
	}
	return result, nil
}

func (e *Engine) evaluate(det Detector, c *Context) []diag.Diagnostic {
	start := time.Now()
	out := det.Evaluate(c)
	if e.observer != nil {
		e.observer.DetectorEvaluated(det.Name(), time.Since(start), len(out))
	}
	return out
}

// collect walks the tree once, gathering the nodes and symbols any enabled
// detector subscribes to. Declarations whose symbol is generated are pruned
// together with their subtree.
func (e *Engine) collect(tree *syntax.Tree, model semantic.Model, detectors []Detector) (map[syntax.Kind][]nodeTarget, map[semantic.SymbolKind][]symbolTarget) {
	wantNodes := make(map[syntax.Kind]bool)
	wantSymbols := make(map[semantic.SymbolKind]bool)
	for _, d := range detectors {
		trig := d.Trigger()
		for _, k := range trig.Nodes {
			wantNodes[k] = true
		}
		for _, k := range trig.Symbols {
			wantSymbols[k] = true
		}
	}

	nodes := make(map[syntax.Kind][]nodeTarget)
	if len(wantNodes) > 0 {
		syntax.Walk(tree.Root, func(p syntax.Path) bool {
			n := p.Node()
			if n.Kind.IsMember() {
				if sym := model.Resolve(n); sym != nil && e.gate.IsSymbolGenerated(sym) {
					return false
				}
			}
			if wantNodes[n.Kind] {
				nodes[n.Kind] = append(nodes[n.Kind], nodeTarget{path: p.Clone()})
			}
			return true
		})
	}

	symbols := make(map[semantic.SymbolKind][]symbolTarget)
	if len(wantSymbols) > 0 {
		for _, sym := range model.Symbols() {
			if !wantSymbols[sym.Kind] || e.gate.IsSymbolGenerated(sym) {
				continue
			}
			sp, ok := locationIn(sym, tree)
			if !ok {
				continue
			}
			symbols[sym.Kind] = append(symbols[sym.Kind], symbolTarget{sym: sym, path: tree.FindExact(sp)})
		}
	}
	return nodes, symbols
}

// Input pairs a tree with its symbol model.
type Input struct {
	Tree  *syntax.Tree
	Model semantic.Model
}

// RunFiles analyses many trees in parallel. Results keep the input order.
func (e *Engine) RunFiles(ctx context.Context, inputs []Input) ([]*Result, error) {
	results := make([]*Result, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.jobs, len(inputs)))
	for i, in := range inputs {
		g.Go(func() error {
			res, err := e.Run(gctx, in.Tree, in.Model)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
