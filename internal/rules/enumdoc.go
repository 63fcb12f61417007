package rules

import (
	"strings"

	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/fix"
	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

var enumDocRule = diag.Rule{
	Code:     diag.DocEnumMember,
	Title:    "Top-level enum members need a /// <summary> comment",
	Format:   "add a /// <summary> comment to enum member '%[1]s'",
	Severity: diag.SevWarning,
}

const summaryTemplate = "/// <summary>  </summary>"

// EnumDoc requires a doc comment on every member of a top-level enum.
// Enums nested in a type are not checked.
type EnumDoc struct{}

func (EnumDoc) Name() string       { return "enum-doc" }
func (EnumDoc) Rules() []diag.Rule { return []diag.Rule{enumDocRule} }
func (EnumDoc) Trigger() analysis.Trigger {
	return analysis.Trigger{Nodes: []syntax.Kind{syntax.KindEnumMember}}
}

func (EnumDoc) Evaluate(c *analysis.Context) []diag.Diagnostic {
	if !topLevelEnumMember(c.Path) || hasDocComment(c.Node) {
		return nil
	}
	return c.Report(enumDocRule, syntax.Identifier(c.Node), c.Node.Name)
}

func topLevelEnumMember(p syntax.Path) bool {
	enum := p.Ancestors()
	if enum.Node() == nil || enum.Node().Kind != syntax.KindEnum {
		return false
	}
	outer := enum.Ancestors().Node()
	return outer == nil || !outer.Kind.IsTypeDecl()
}

// hasDocComment accepts a "///" comment, or a plain comment that starts
// with "///" and carries a documentation tag.
func hasDocComment(n *syntax.Node) bool {
	for _, tr := range n.LeadingTrivia() {
		switch tr.Kind {
		case syntax.TriviaDocComment:
			return true
		case syntax.TriviaLineComment:
			if strings.HasPrefix(tr.Text, "///") && hasDocTag(tr.Text) {
				return true
			}
		}
	}
	return false
}

func hasDocTag(text string) bool {
	open := strings.IndexByte(text, '<')
	return open >= 0 && strings.IndexByte(text[open:], '>') > 1
}

// EnumDocTemplate inserts a one-line summary template above the member, at
// the member's indentation and after any comments already there.
type EnumDocTemplate struct{}

func (EnumDocTemplate) Codes() []diag.Code              { return []diag.Code{diag.DocEnumMember} }
func (EnumDocTemplate) Applicability() fix.Applicability { return fix.AlwaysSafe }
func (EnumDocTemplate) Title(diag.Diagnostic) string     { return "add /// <summary> comment" }

func (EnumDocTemplate) Plan(t *syntax.Tree, _ semantic.Model, d diag.Diagnostic) (fix.Edit, bool) {
	path, ok := fix.Nearest(t, d, syntax.KindEnumMember)
	if !ok {
		return fix.Edit{}, false
	}
	member := path.Node()
	if hasDocComment(member) {
		return fix.Edit{}, false
	}
	return fix.Replace(member, fix.InsertBeforeIndent(member, syntax.DocComment(summaryTemplate))), true
}
