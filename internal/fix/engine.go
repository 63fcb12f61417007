package fix

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"convlint/internal/diag"
	"convlint/internal/semantic"
	"convlint/internal/source"
	"convlint/internal/syntax"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// Codes restricts fixing to these rules; empty means every rule.
	Codes []diag.Code
	// AllowManual lets ApplyModeAll take fixes that are not always safe.
	AllowManual bool
	// Logger receives debug records about batching and replays; nil is silent.
	Logger logrus.FieldLogger
}

func (o ApplyOptions) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return quiet
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability Applicability
	// Sequential is set when the fix conflicted with an earlier one and was
	// re-planned against the intermediate tree.
	Sequential bool
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// ApplyResult aggregates the final tree, applied fixes and skipped ones.
type ApplyResult struct {
	Tree    *syntax.Tree
	Applied []AppliedFix
	Skipped []SkippedFix
}

// FixOne applies the first fixer that can handle d. A stale or unfixable
// diagnostic leaves the tree unchanged.
func FixOne(t *syntax.Tree, m semantic.Model, d diag.Diagnostic, reg *Registry) *syntax.Tree {
	for _, f := range reg.For(d.Code) {
		edit, ok := f.Plan(t, m, d)
		if !ok || edit.Noop() {
			continue
		}
		return syntax.Replace(t, edit.Target, edit.Replacement)
	}
	return t
}

// Apply plans fixes for diagnostics against t, selects a subset according to
// opts and applies it.
//
// Every candidate is planned against the same starting tree. Candidates whose
// targets do not overlap any accepted target are merged into one edit.
// The rest are applied one at a time afterwards: each re-locates its anchor
// node in the current tree and is planned again; a vanished anchor is
// skipped as stale and an empty re-plan as already resolved.
func Apply(t *syntax.Tree, m semantic.Model, diagnostics []diag.Diagnostic, reg *Registry, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Tree:    t,
		Applied: make([]AppliedFix, 0),
		Skipped: make([]SkippedFix, 0),
	}
	if t == nil {
		return result, fmt.Errorf("fix: tree is nil")
	}
	log := opts.logger().WithField("path", t.Path)

	candidates, planSkips := Candidates(t, m, filterCodes(diagnostics, opts.Codes), reg)
	result.Skipped = append(result.Skipped, planSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	batch, deferred := partition(t, selected)
	log.WithFields(logrus.Fields{
		"batched":  len(batch),
		"deferred": len(deferred),
	}).Debug("fixes planned")

	edits := make(map[*syntax.Node]*syntax.Node, len(batch))
	for _, cand := range batch {
		edits[cand.Edit.Target] = cand.Edit.Replacement
		result.Applied = append(result.Applied, applied(cand, false))
	}
	current := syntax.ReplaceAll(t, edits)

	for _, cand := range deferred {
		next, reason := replay(current, m, cand)
		if reason != "" {
			log.WithFields(logrus.Fields{"id": cand.ID, "reason": reason}).Debug("replayed fix skipped")
			result.Skipped = append(result.Skipped, SkippedFix{ID: cand.ID, Title: cand.Title, Reason: reason})
			continue
		}
		current = next
		result.Applied = append(result.Applied, applied(cand, true))
	}

	result.Tree = current
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// Candidates plans every fix for diagnostics in a deterministic order.
// Diagnostics that no fixer can plan are reported as skipped.
func Candidates(t *syntax.Tree, m semantic.Model, diagnostics []diag.Diagnostic, reg *Registry) ([]Candidate, []SkippedFix) {
	cands := make([]Candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]bool)

	order := 0
	for _, d := range diagnostics {
		fixers := reg.For(d.Code)
		if len(fixers) == 0 {
			continue
		}
		if d.Primary.File != t.File {
			skips = append(skips, SkippedFix{Title: d.Message, Reason: "diagnostic belongs to another file"})
			continue
		}
		anchor, ok := Anchor(t, d)
		if !ok {
			skips = append(skips, SkippedFix{Title: d.Message, Reason: "anchor does not resolve"})
			continue
		}
		for idx, f := range fixers {
			id := fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			title := f.Title(d)
			if seen[id] {
				skips = append(skips, SkippedFix{ID: id, Title: title, Reason: "duplicate fix id"})
				continue
			}
			edit, ok := f.Plan(t, m, d)
			if !ok {
				skips = append(skips, SkippedFix{ID: id, Title: title, Reason: "construct not found at anchor"})
				continue
			}
			if edit.Noop() {
				skips = append(skips, SkippedFix{ID: id, Title: title, Reason: "fix has no effect"})
				continue
			}
			seen[id] = true
			cands = append(cands, Candidate{
				ID:            id,
				Title:         title,
				Code:          d.Code,
				Diagnostic:    d,
				Applicability: f.Applicability(),
				Anchor:        anchor.Node(),
				Edit:          edit,
				fixer:         f,
				order:         order,
			})
			order++
		}
	}
	sortCandidates(cands)
	return cands, skips
}

func filterCodes(diagnostics []diag.Diagnostic, codes []diag.Code) []diag.Diagnostic {
	if len(codes) == 0 {
		return diagnostics
	}
	want := make(map[diag.Code]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	out := make([]diag.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		if want[d.Code] {
			out = append(out, d)
		}
	}
	return out
}

// sortCandidates orders by span start, span end, planning order, code and id.
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].Diagnostic, candidates[j].Diagnostic
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return candidates[i].ID < candidates[j].ID
	})
}

func selectCandidates(candidates []Candidate, opts ApplyOptions) ([]Candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.ID == opts.TargetID {
				return []Candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{
			ID:     opts.TargetID,
			Reason: "fix id not found",
		}}
	case ApplyModeAll:
		selected := make([]Candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		for _, cand := range candidates {
			if cand.Applicability == AlwaysSafe || opts.AllowManual {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.ID,
				Title:  cand.Title,
				Reason: fmt.Sprintf("applicability is %s", cand.Applicability),
			})
		}
		return selected, skipped
	case ApplyModeOnce:
		// безопасный fix в приоритете, иначе первый по порядку
		for _, cand := range candidates {
			if cand.Applicability == AlwaysSafe {
				return []Candidate{cand}, nil
			}
		}
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

// partition splits selected into candidates whose targets are pairwise
// disjoint and the ones that overlap an earlier accepted target.
func partition(t *syntax.Tree, selected []Candidate) (batch, deferred []Candidate) {
	var taken []source.Span
	for _, cand := range selected {
		full, ok := t.FullSpanOf(cand.Edit.Target)
		if !ok {
			deferred = append(deferred, cand)
			continue
		}
		if conflicts(taken, full) {
			deferred = append(deferred, cand)
			continue
		}
		taken = append(taken, full)
		batch = append(batch, cand)
	}
	return batch, deferred
}

func conflicts(taken []source.Span, sp source.Span) bool {
	for _, prev := range taken {
		if prev.Overlaps(sp) || prev.Contains(sp) || sp.Contains(prev) {
			return true
		}
	}
	return false
}

// replay re-plans cand against cur using the anchor's current position.
func replay(cur *syntax.Tree, m semantic.Model, cand Candidate) (*syntax.Tree, string) {
	if cand.Anchor == nil || !cur.Has(cand.Anchor) {
		return nil, "stale anchor"
	}
	sp, _ := cur.SpanOf(cand.Anchor)
	d := cand.Diagnostic
	d.Primary = sp
	edit, ok := cand.fixer.Plan(cur, m, d)
	if !ok || edit.Noop() {
		return nil, "already resolved"
	}
	return syntax.Replace(cur, edit.Target, edit.Replacement), ""
}

func applied(cand Candidate, sequential bool) AppliedFix {
	return AppliedFix{
		ID:            cand.ID,
		Title:         cand.Title,
		Code:          cand.Code,
		Message:       cand.Diagnostic.Message,
		Applicability: cand.Applicability,
		Sequential:    sequential,
	}
}
