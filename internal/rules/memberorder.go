package rules

import (
	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/fix"
	"convlint/internal/memberorder"
	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

var memberOrderRule = diag.Rule{
	Code:     diag.StyMemberOrder,
	Title:    "Class members are declared out of order",
	Format:   "member '%[1]s' (%[2]s) must be declared before '%[3]s'",
	Severity: diag.SevWarning,
}

// MemberOrder validates the declaration order of class and struct members.
type MemberOrder struct{}

func (MemberOrder) Name() string       { return "member-order" }
func (MemberOrder) Rules() []diag.Rule { return []diag.Rule{memberOrderRule} }
func (MemberOrder) Trigger() analysis.Trigger {
	return analysis.Trigger{Nodes: []syntax.Kind{syntax.KindClass, syntax.KindStruct}}
}

func (MemberOrder) Evaluate(c *analysis.Context) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, v := range memberorder.Validate(syntax.Members(c.Node), c.Model) {
		out = append(out, c.Report(memberOrderRule, syntax.Identifier(v.Member.Node), v.Args()...)...)
	}
	return out
}

// ReorderMembers sorts the whole member list of the enclosing type. Every
// violation in one type plans the same edit, so a batch keeps only the first
// and the rest resolve as already fixed.
type ReorderMembers struct{}

func (ReorderMembers) Codes() []diag.Code              { return []diag.Code{diag.StyMemberOrder} }
func (ReorderMembers) Applicability() fix.Applicability { return fix.AlwaysSafe }
func (ReorderMembers) Title(diag.Diagnostic) string     { return "reorder members" }

func (ReorderMembers) Plan(t *syntax.Tree, m semantic.Model, d diag.Diagnostic) (fix.Edit, bool) {
	path, ok := fix.Anchor(t, d)
	if !ok {
		return fix.Edit{}, false
	}
	// якорь стоит на идентификаторе члена, тип на уровень выше
	member, ok := path.Ancestors().Nearest(syntax.KindEnum, syntax.KindField, syntax.KindProperty,
		syntax.KindMethod, syntax.KindConstructor)
	if !ok {
		return fix.Edit{}, false
	}
	typePath, ok := member.Ancestors().Nearest(syntax.KindClass, syntax.KindStruct)
	if !ok {
		return fix.Edit{}, false
	}
	typeDecl := typePath.Node()
	repl, ok := memberorder.ReorderType(typeDecl, m)
	if !ok {
		return fix.Edit{}, false
	}
	return fix.Replace(typeDecl, repl), true
}
