package rules

import (
	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/fix"
	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

var guardedCancelRule = diag.Rule{
	Code:     diag.DsnGuardedCancel,
	Title:    "Use TryCancel() on motion handles",
	Format:   "use TryCancel() on '%[1]s' instead of if (IsActive()) Cancel()",
	Severity: diag.SevWarning,
}

// GuardedCancel reports "if (x.IsActive()) x.Cancel();" with no else branch.
type GuardedCancel struct{}

func (GuardedCancel) Name() string       { return "guarded-cancel" }
func (GuardedCancel) Rules() []diag.Rule { return []diag.Rule{guardedCancelRule} }
func (GuardedCancel) Trigger() analysis.Trigger {
	return analysis.Trigger{Nodes: []syntax.Kind{syntax.KindIf}}
}

func (GuardedCancel) Evaluate(c *analysis.Context) []diag.Diagnostic {
	target, ok := guardedCancel(c.Node)
	if !ok {
		return nil
	}
	return c.Report(guardedCancelRule, c.Node, target.InnerText())
}

// guardedCancel matches the pattern and returns the receiver of IsActive().
// Receivers are compared by token text, not by symbol.
func guardedCancel(ifStmt *syntax.Node) (*syntax.Node, bool) {
	if ifStmt == nil || ifStmt.Kind != syntax.KindIf || syntax.ElseClause(ifStmt) != nil {
		return nil, false
	}
	condTarget, ok := callTarget(syntax.Condition(ifStmt), "IsActive")
	if !ok {
		return nil, false
	}
	stmt := syntax.Consequent(ifStmt)
	if stmt != nil && stmt.Kind == syntax.KindBlock {
		inner := syntax.Statements(stmt)
		if len(inner) != 1 {
			return nil, false
		}
		stmt = inner[0]
	}
	if stmt == nil || stmt.Kind != syntax.KindExprStmt {
		return nil, false
	}
	bodyTarget, ok := callTarget(syntax.FirstExpression(stmt), "Cancel")
	if !ok || tokenText(condTarget) != tokenText(bodyTarget) {
		return nil, false
	}
	return condTarget, true
}

// TryCancel rewrites the guarded pair into "x.TryCancel();", keeping the
// trivia around the if statement.
type TryCancel struct{}

func (TryCancel) Codes() []diag.Code              { return []diag.Code{diag.DsnGuardedCancel} }
func (TryCancel) Applicability() fix.Applicability { return fix.AlwaysSafe }
func (TryCancel) Title(diag.Diagnostic) string     { return "replace with TryCancel()" }

func (TryCancel) Plan(t *syntax.Tree, _ semantic.Model, d diag.Diagnostic) (fix.Edit, bool) {
	path, ok := fix.Nearest(t, d, syntax.KindIf)
	if !ok {
		return fix.Edit{}, false
	}
	ifStmt := path.Node()
	target, ok := guardedCancel(ifStmt)
	if !ok {
		return fix.Edit{}, false
	}
	stmt := syntax.Stmt(syntax.Call(syntax.Dot(target.WithoutTrivia(), "TryCancel")))(syntax.Layout{})
	return fix.Replace(ifStmt, fix.KeepTrivia(ifStmt, stmt)), true
}
