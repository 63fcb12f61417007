// Package analysis runs detectors over a tree and its symbol model.
package analysis

import (
	"convlint/internal/diag"
	"convlint/internal/semantic"
	"convlint/internal/source"
	"convlint/internal/syntax"
)

// Trigger lists the node kinds and symbol kinds a detector subscribes to.
type Trigger struct {
	Nodes   []syntax.Kind
	Symbols []semantic.SymbolKind
}

// Detector is a stateless check. Evaluate must be pure: it may read the
// tree and the model but never keep state between calls, so the engine is
// free to run many evaluations concurrently.
type Detector interface {
	Name() string
	Rules() []diag.Rule
	Trigger() Trigger
	Evaluate(c *Context) []diag.Diagnostic
}

// Context is what one evaluation sees. For node triggers Node is the
// triggering node and Path its chain from the root. For symbol triggers
// Symbol is set and Node, when found, is the node at the symbol's
// declaring location in this tree.
type Context struct {
	Tree   *syntax.Tree
	Path   syntax.Path
	Node   *syntax.Node
	Symbol *semantic.Symbol
	Model  semantic.Model
}

// Parent returns the node directly above Node.
func (c *Context) Parent() *syntax.Node {
	return c.Path.Parent()
}

// Resolve returns the symbol bound to n, or nil.
func (c *Context) Resolve(n *syntax.Node) *semantic.Symbol {
	if c.Model == nil || n == nil {
		return nil
	}
	return c.Model.Resolve(n)
}

// Span returns the span of n in the tree under analysis.
func (c *Context) Span(n *syntax.Node) (source.Span, bool) {
	if n == nil {
		return source.Span{}, false
	}
	return c.Tree.SpanOf(n)
}

// Report builds a diagnostic for rule anchored at n. It returns nil when n
// is not part of the tree, so callers can append the result directly.
func (c *Context) Report(rule diag.Rule, n *syntax.Node, args ...string) []diag.Diagnostic {
	sp, ok := c.Span(n)
	if !ok {
		return nil
	}
	return []diag.Diagnostic{rule.New(sp, args...)}
}

// SymbolSpan returns the declaring location of Symbol inside this tree.
func (c *Context) SymbolSpan() (source.Span, bool) {
	if c.Symbol == nil {
		return source.Span{}, false
	}
	return locationIn(c.Symbol, c.Tree)
}

func locationIn(sym *semantic.Symbol, tree *syntax.Tree) (source.Span, bool) {
	for _, loc := range sym.Locations {
		if loc.Span.File == tree.File && (loc.Path == "" || tree.Path == "" || loc.Path == tree.Path) {
			return loc.Span, true
		}
	}
	return source.Span{}, false
}
