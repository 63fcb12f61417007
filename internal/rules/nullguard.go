package rules

import (
	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

var nullGuardRule = diag.Rule{
	Code:        diag.DsnSerializedNullGuard,
	Title:       "Serialized fields need no null check",
	Format:      "remove the null check on serialized field '%[1]s'; a missing reference should fail fast",
	Severity:    diag.SevWarning,
	Description: "Matches ==/!= null, ?., ?? and is [not] null on a field marked [SerializeField].",
}

// NullGuard reports null checks whose target is a serialized field.
type NullGuard struct{}

func (NullGuard) Name() string       { return "null-guard" }
func (NullGuard) Rules() []diag.Rule { return []diag.Rule{nullGuardRule} }
func (NullGuard) Trigger() analysis.Trigger {
	return analysis.Trigger{Nodes: []syntax.Kind{
		syntax.KindBinary, syntax.KindConditionalAccess, syntax.KindIsPattern,
	}}
}

func (NullGuard) Evaluate(c *analysis.Context) []diag.Diagnostic {
	target := guardTarget(c.Node)
	if target == nil || c.Model == nil {
		return nil
	}
	sym := c.Resolve(target)
	if sym == nil || sym.Kind != semantic.SymbolField {
		return nil
	}
	if !semantic.AnyAttribute(c.Model.AttributesOf(sym), serializeAttribute) {
		return nil
	}
	return c.Report(nullGuardRule, c.Node, sym.Name)
}

// guardTarget returns the expression tested against null, or nil.
func guardTarget(n *syntax.Node) *syntax.Node {
	switch n.Kind {
	case syntax.KindBinary:
		left, right := syntax.Operands(n)
		if left == nil {
			return nil
		}
		switch n.Op {
		case "==", "!=":
			if right.Kind == syntax.KindNullLiteral {
				return left
			}
			if left.Kind == syntax.KindNullLiteral {
				return right
			}
		case "??":
			return left
		}
	case syntax.KindConditionalAccess:
		return syntax.Receiver(n)
	case syntax.KindIsPattern:
		if isNullPattern(syntax.Pattern(n)) {
			return syntax.FirstExpression(n)
		}
	}
	return nil
}

func isNullPattern(p *syntax.Node) bool {
	if p == nil {
		return false
	}
	switch p.Kind {
	case syntax.KindConstantPattern:
		e := syntax.FirstExpression(p)
		return e != nil && e.Kind == syntax.KindNullLiteral
	case syntax.KindNotPattern:
		return isNullPattern(syntax.Pattern(p))
	}
	return false
}
