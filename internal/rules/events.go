package rules

import (
	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/semantic"
)

var delegateEventRule = diag.Rule{
	Code:     diag.DsnDelegateEvent,
	Title:    "Use R3 Subject for events",
	Format:   "'%[1]s' is a C# event or delegate; use R3 Subject<T> instead",
	Severity: diag.SevWarning,
}

// DelegateEvent reports declared events and fields or properties typed as
// System.Action or System.Func.
type DelegateEvent struct{}

func (DelegateEvent) Name() string       { return "delegate-event" }
func (DelegateEvent) Rules() []diag.Rule { return []diag.Rule{delegateEventRule} }
func (DelegateEvent) Trigger() analysis.Trigger {
	return analysis.Trigger{Symbols: []semantic.SymbolKind{
		semantic.SymbolField, semantic.SymbolProperty, semantic.SymbolEvent,
	}}
}

func (DelegateEvent) Evaluate(c *analysis.Context) []diag.Diagnostic {
	sym := c.Symbol
	if sym == nil {
		return nil
	}
	implicit := sym.Implicit
	if c.Model != nil {
		implicit = c.Model.IsImplicitlyDeclared(sym)
	}
	switch sym.Kind {
	case semantic.SymbolEvent, semantic.SymbolField:
		if implicit {
			return nil
		}
	}
	if sym.Kind != semantic.SymbolEvent && !isStdDelegate(sym.Type) {
		return nil
	}
	sp, ok := c.SymbolSpan()
	if !ok {
		return nil
	}
	return []diag.Diagnostic{delegateEventRule.New(sp, sym.Name)}
}

func isStdDelegate(t *semantic.TypeRef) bool {
	return t != nil && t.Namespace == "System" && (t.Name == "Action" || t.Name == "Func")
}
