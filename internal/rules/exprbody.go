package rules

import (
	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/fix"
	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

var expressionBodyRule = diag.Rule{
	Code:     diag.StyExpressionBody,
	Title:    "Single-statement public methods use an expression body",
	Format:   "method '%[1]s' has a single statement; write it with an expression body (=>)",
	Severity: diag.SevWarning,
}

// ExpressionBody reports public block methods whose body is one return or
// expression statement.
type ExpressionBody struct{}

func (ExpressionBody) Name() string       { return "expression-body" }
func (ExpressionBody) Rules() []diag.Rule { return []diag.Rule{expressionBodyRule} }
func (ExpressionBody) Trigger() analysis.Trigger {
	return analysis.Trigger{Nodes: []syntax.Kind{syntax.KindMethod}}
}

func (ExpressionBody) Evaluate(c *analysis.Context) []diag.Diagnostic {
	m := c.Node
	if !m.Modifiers.Has(syntax.ModPublic) || syntax.ExpressionBody(m) != nil {
		return nil
	}
	// Dispose() остаётся блоком
	if m.Name == "Dispose" && len(syntax.Parameters(m)) == 0 {
		return nil
	}
	if singleExpression(m) == nil {
		return nil
	}
	return c.Report(expressionBodyRule, syntax.Identifier(m), m.Name)
}

// singleExpression returns the expression of the only statement of m's
// block body, or nil when the body does not have that shape.
func singleExpression(m *syntax.Node) *syntax.Node {
	stmts := syntax.Statements(syntax.Body(m))
	if len(stmts) != 1 {
		return nil
	}
	s := stmts[0]
	if s.Kind != syntax.KindReturn && s.Kind != syntax.KindExprStmt {
		return nil
	}
	if syntax.Contains(s, func(n *syntax.Node) bool { return n.Kind == syntax.KindSwitchExpr }) {
		return nil
	}
	return syntax.FirstExpression(s)
}

// ToExpressionBody replaces the block with "=> expr;". Everything else in the
// declaration stays: constraint clauses, tokens after the block and every
// comment. Comments from the block land in front of the arrow.
type ToExpressionBody struct{}

func (ToExpressionBody) Codes() []diag.Code              { return []diag.Code{diag.StyExpressionBody} }
func (ToExpressionBody) Applicability() fix.Applicability { return fix.AlwaysSafe }
func (ToExpressionBody) Title(diag.Diagnostic) string     { return "convert to expression body (=>)" }

func (ToExpressionBody) Plan(t *syntax.Tree, _ semantic.Model, d diag.Diagnostic) (fix.Edit, bool) {
	path, ok := fix.Nearest(t, d, syntax.KindMethod)
	if !ok {
		return fix.Edit{}, false
	}
	m := path.Node()
	expr := singleExpression(m)
	if expr == nil {
		return fix.Edit{}, false
	}
	at := -1
	for i, ch := range m.Children {
		if ch.Kind == syntax.KindBlock {
			at = i
			break
		}
	}
	if at < 1 {
		return fix.Edit{}, false
	}
	block, prev := m.Children[at], m.Children[at-1]

	// директивы внутри блока не переносим
	carried, ok := blockComments(block, expr, true)
	if !ok {
		return fix.Edit{}, false
	}
	var comments []syntax.Trivia
	for _, tr := range prev.TrailingTrivia() {
		switch {
		case tr.IsComment():
			comments = append(comments, tr)
		case tr.Kind == syntax.TriviaDirective || tr.Kind == syntax.TriviaSkipped:
			return fix.Edit{}, false
		}
	}
	comments = append(comments, carried...)

	indent := syntax.SplitLeading(m.LeadingTrivia()).IndentOr("") + syntax.IndentUnit
	semi := syntax.Tok(";").WithTrailingTrivia(block.TrailingTrivia()...)

	children := make([]*syntax.Node, 0, len(m.Children)+1)
	children = append(children, m.Children[:at-1]...)
	children = append(children,
		prev.WithTrailingTrivia(beforeArrow(comments, indent)...),
		syntax.Arrow(expr.WithoutTrivia()),
		semi,
	)
	children = append(children, m.Children[at+1:]...)
	return fix.Replace(m, m.WithChildren(children...)), true
}

// beforeArrow lays out the trivia between the declaration header and "=>".
// Line comments end their line and the arrow continues one level deeper.
func beforeArrow(comments []syntax.Trivia, indent string) []syntax.Trivia {
	out := []syntax.Trivia{syntax.Space(" ")}
	for _, c := range comments {
		out = append(out, c)
		if c.Kind == syntax.TriviaBlockComment {
			out = append(out, syntax.Space(" "))
			continue
		}
		out = append(out, syntax.EOL(), syntax.Space(indent))
	}
	return out
}

// blockComments collects the comments of n that disappear when the block is
// replaced by expr: everything except expr's interior and the trailing trivia
// of the block itself (tail). It fails on directives and skipped text.
func blockComments(n, expr *syntax.Node, tail bool) ([]syntax.Trivia, bool) {
	var out []syntax.Trivia
	keep := func(list []syntax.Trivia) bool {
		for _, tr := range list {
			switch {
			case tr.IsComment():
				out = append(out, tr)
			case tr.Kind == syntax.TriviaDirective || tr.Kind == syntax.TriviaSkipped:
				return false
			}
		}
		return true
	}
	if n == expr {
		ok := keep(expr.LeadingTrivia())
		if ok && !tail {
			ok = keep(expr.TrailingTrivia())
		}
		return out, ok
	}
	if !keep(n.Leading) {
		return nil, false
	}
	last := len(n.Children) - 1
	for i, ch := range n.Children {
		sub, ok := blockComments(ch, expr, tail && i == last)
		if !ok {
			return nil, false
		}
		out = append(out, sub...)
	}
	if !tail && !keep(n.Trailing) {
		return nil, false
	}
	return out, true
}
