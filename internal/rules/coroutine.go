package rules

import (
	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/syntax"
)

var coroutineRule = diag.Rule{
	Code:        diag.DsnForbiddenCoroutine,
	Title:       "Coroutines are forbidden",
	Format:      "remove the StartCoroutine call and use UniTask or another async alternative",
	Severity:    diag.SevWarning,
	Description: "Matches StartCoroutine calls on any receiver, qualified or not.",
}

// Coroutine reports every StartCoroutine call. Purely syntactic.
type Coroutine struct{}

func (Coroutine) Name() string       { return "coroutine" }
func (Coroutine) Rules() []diag.Rule { return []diag.Rule{coroutineRule} }
func (Coroutine) Trigger() analysis.Trigger {
	return analysis.Trigger{Nodes: []syntax.Kind{syntax.KindInvocation}}
}

func (Coroutine) Evaluate(c *analysis.Context) []diag.Diagnostic {
	callee := syntax.Callee(c.Node)
	if callee == nil || syntax.MemberName(callee) != "StartCoroutine" {
		return nil
	}
	return c.Report(coroutineRule, c.Node)
}
