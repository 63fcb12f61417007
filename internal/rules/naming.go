package rules

import (
	"fmt"
	"strings"

	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/fix"
	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

var (
	serializedPrefixRule = diag.Rule{
		Code:     diag.NamSerializedPrefix,
		Title:    "Serialized fields take no '_' prefix",
		Format:   "remove the '_' prefix from serialized field '%[1]s'",
		Severity: diag.SevWarning,
	}
	privatePrefixRule = diag.Rule{
		Code:     diag.NamPrivatePrefix,
		Title:    "Private fields need a '_' prefix",
		Format:   "add a '_' prefix to private field '%[1]s'",
		Severity: diag.SevWarning,
	}
)

// Naming checks the underscore prefix of private instance fields: required
// for plain fields, forbidden for serialized ones.
type Naming struct{}

func (Naming) Name() string { return "naming" }
func (Naming) Rules() []diag.Rule {
	return []diag.Rule{serializedPrefixRule, privatePrefixRule}
}
func (Naming) Trigger() analysis.Trigger {
	return analysis.Trigger{Symbols: []semantic.SymbolKind{semantic.SymbolField}}
}

func (Naming) Evaluate(c *analysis.Context) []diag.Diagnostic {
	sym, m := c.Symbol, c.Model
	if sym == nil || m == nil {
		return nil
	}
	if m.AccessibilityOf(sym) != semantic.AccessPrivate {
		return nil
	}
	if sym.Const || sym.Static || m.IsImplicitlyDeclared(sym) {
		return nil
	}
	sp, ok := c.SymbolSpan()
	if !ok {
		return nil
	}
	serialized := semantic.AnyAttribute(m.AttributesOf(sym), serializeAttribute)
	prefixed := strings.HasPrefix(sym.Name, "_")
	switch {
	case serialized && prefixed:
		return []diag.Diagnostic{serializedPrefixRule.New(sp, sym.Name)}
	case !serialized && !prefixed:
		return []diag.Diagnostic{privatePrefixRule.New(sp, sym.Name)}
	}
	return nil
}

// RenameField fixes the prefix by renaming the declarator the diagnostic
// points at. References are not rewritten, hence manual review.
type RenameField struct{}

func (RenameField) Codes() []diag.Code {
	return []diag.Code{diag.NamSerializedPrefix, diag.NamPrivatePrefix}
}

func (RenameField) Applicability() fix.Applicability { return fix.ManualReview }

func (RenameField) Title(d diag.Diagnostic) string {
	name, ok := renamed(d.Code, d.Arg(0))
	if !ok {
		return "rename field"
	}
	if d.Code == diag.NamSerializedPrefix {
		return fmt.Sprintf("remove '_' prefix: rename to '%s'", name)
	}
	return fmt.Sprintf("add '_' prefix: rename to '%s'", name)
}

func (RenameField) Plan(t *syntax.Tree, _ semantic.Model, d diag.Diagnostic) (fix.Edit, bool) {
	anchor, ok := fix.Anchor(t, d)
	if !ok {
		return fix.Edit{}, false
	}
	fieldPath, ok := anchor.Nearest(syntax.KindField)
	if !ok {
		return fix.Edit{}, false
	}
	leaf := anchor.Node()
	if leaf.Kind == syntax.KindField {
		leaf = syntax.Identifier(leaf)
	}
	if leaf == nil || leaf.Kind != syntax.KindIdentifier {
		return fix.Edit{}, false
	}
	name, ok := renamed(d.Code, leaf.Text)
	if !ok {
		return fix.Edit{}, false
	}
	// первый декларатор несёт Name поля
	if field := fieldPath.Node(); syntax.Identifier(field) == leaf {
		return fix.Replace(field, field.WithName(name)), true
	}
	return fix.Replace(leaf, leaf.WithText(name)), true
}

// renamed returns the corrected name, or false when name already complies.
func renamed(code diag.Code, name string) (string, bool) {
	switch code {
	case diag.NamSerializedPrefix:
		trimmed := strings.TrimLeft(name, "_")
		if trimmed == name || trimmed == "" {
			return "", false
		}
		return trimmed, true
	case diag.NamPrivatePrefix:
		if name == "" || strings.HasPrefix(name, "_") {
			return "", false
		}
		return "_" + name, true
	}
	return "", false
}
