// Package rules holds the concrete detectors and their fixers.
package rules

import (
	"strings"

	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/fix"
	"convlint/internal/syntax"
)

// serializeAttribute exposes a private field to the editor.
const serializeAttribute = "SerializeField"

// Detectors returns a fresh instance of every detector.
func Detectors() []analysis.Detector {
	return []analysis.Detector{
		Coroutine{},
		Naming{},
		NullGuard{},
		ExpressionBody{},
		GuardedCancel{},
		EnumDoc{},
		DelegateEvent{},
		MemberOrder{},
	}
}

// Fixers returns every fixer.
func Fixers() []fix.Fixer {
	return []fix.Fixer{
		RenameField{},
		ToExpressionBody{},
		TryCancel{},
		EnumDocTemplate{},
		ReorderMembers{},
	}
}

// NewRegistry registers every detector.
func NewRegistry() *analysis.Registry {
	return analysis.NewRegistry().MustRegister(Detectors()...)
}

func NewFixRegistry() *fix.Registry {
	return fix.NewRegistry(Fixers()...)
}

// Fixable reports whether some fixer claims code.
func Fixable(code diag.Code) bool {
	for _, f := range Fixers() {
		for _, c := range f.Codes() {
			if c == code {
				return true
			}
		}
	}
	return false
}

// tokenText joins the leaf texts of n without any trivia. Two expressions
// with equal token text are treated as the same expression.
func tokenText(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*syntax.Node)
	walk = func(n *syntax.Node) {
		if n.IsLeaf() {
			sb.WriteString(n.Text)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// callTarget matches "target.name()" with no arguments and returns target.
func callTarget(expr *syntax.Node, name string) (*syntax.Node, bool) {
	if expr == nil || expr.Kind != syntax.KindInvocation {
		return nil, false
	}
	callee := syntax.Callee(expr)
	if callee == nil || callee.Kind != syntax.KindMemberAccess || syntax.MemberName(callee) != name {
		return nil, false
	}
	if len(syntax.Arguments(expr)) != 0 {
		return nil, false
	}
	target := syntax.Receiver(callee)
	return target, target != nil
}
