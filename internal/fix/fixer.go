package fix

import (
	"fmt"
	"sort"

	"convlint/internal/diag"
	"convlint/internal/semantic"
	"convlint/internal/source"
	"convlint/internal/syntax"
)

// Applicability describes how safe it is to apply a fix without review.
type Applicability uint8

const (
	AlwaysSafe Applicability = iota
	SafeWithHeuristics
	ManualReview
)

func (a Applicability) String() string {
	switch a {
	case AlwaysSafe:
		return "always-safe"
	case SafeWithHeuristics:
		return "safe-with-heuristics"
	case ManualReview:
		return "manual-review"
	default:
		return fmt.Sprintf("Applicability(%d)", uint8(a))
	}
}

// Edit replaces Target with Replacement. Target must be a node of the tree
// the edit was planned against.
type Edit struct {
	Target      *syntax.Node
	Replacement *syntax.Node
}

// Noop reports whether the edit would not change the rendered text.
func (e Edit) Noop() bool {
	return e.Target == nil || e.Replacement == nil || e.Target.Render() == e.Replacement.Render()
}

// Fixer turns one diagnostic into one structural edit. Plan re-locates the
// construct it needs from the diagnostic's anchor and returns false when the
// anchor no longer resolves to it. Plan must not fail otherwise. The model
// is the one the diagnostic was computed with and may be nil.
type Fixer interface {
	Codes() []diag.Code
	Title(d diag.Diagnostic) string
	Applicability() Applicability
	Plan(t *syntax.Tree, m semantic.Model, d diag.Diagnostic) (Edit, bool)
}

// Registry maps rule codes to the fixers that claim them.
type Registry struct {
	byCode map[diag.Code][]Fixer
	all    []Fixer
}

func NewRegistry(fixers ...Fixer) *Registry {
	r := &Registry{byCode: make(map[diag.Code][]Fixer)}
	for _, f := range fixers {
		r.Register(f)
	}
	return r
}

func (r *Registry) Register(f Fixer) {
	r.all = append(r.all, f)
	for _, code := range f.Codes() {
		r.byCode[code] = append(r.byCode[code], f)
	}
}

// For returns the fixers registered for code in registration order.
func (r *Registry) For(code diag.Code) []Fixer {
	if r == nil {
		return nil
	}
	return r.byCode[code]
}

// Fixable lists the codes that have at least one fixer, ordered.
func (r *Registry) Fixable() []diag.Code {
	out := make([]diag.Code, 0, len(r.byCode))
	for code := range r.byCode {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Candidate is a planned fix. It is a pure value: nothing changes until
// Apply is called.
type Candidate struct {
	ID            string
	Title         string
	Code          diag.Code
	Diagnostic    diag.Diagnostic
	Applicability Applicability
	Anchor        *syntax.Node
	Edit          Edit

	fixer Fixer
	order int
}

// Apply returns t with the edit applied. When the target is not part of t
// (the candidate is stale) t itself is returned.
func (c Candidate) Apply(t *syntax.Tree) *syntax.Tree {
	if c.Edit.Target == nil || !t.Has(c.Edit.Target) {
		return t
	}
	return syntax.Replace(t, c.Edit.Target, c.Edit.Replacement)
}

// TextEdit expresses the candidate as a replacement of a byte range of t's
// rendered text. Both texts include the target's trivia.
func (c Candidate) TextEdit(t *syntax.Tree) (sp source.Span, newText, oldText string, ok bool) {
	if c.Edit.Target == nil || c.Edit.Replacement == nil {
		return source.Span{}, "", "", false
	}
	sp, ok = t.FullSpanOf(c.Edit.Target)
	if !ok {
		return source.Span{}, "", "", false
	}
	return sp, c.Edit.Replacement.Render(), c.Edit.Target.Render(), true
}
