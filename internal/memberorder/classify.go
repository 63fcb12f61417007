package memberorder

import (
	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

// Classify maps one member declaration to its category. It depends only on
// the declaration itself and the attributes resolved for it, never on its
// position. Attributes, modifiers and accessibility come from the node or
// from its resolved symbol. model may be nil; only the syntax is read then.
func Classify(n *syntax.Node, model semantic.Model) Category {
	if n == nil || n.Name == "" || syntax.Identifier(n) == nil {
		return Excluded
	}
	switch n.Kind {
	case syntax.KindEnum:
		return NestedEnum
	case syntax.KindField:
		return classifyField(n, model)
	case syntax.KindProperty:
		if isPublic(n, model) {
			return PublicProperty
		}
		return Excluded
	case syntax.KindConstructor:
		return Constructor
	case syntax.KindMethod:
		return classifyMethod(n, model)
	case syntax.KindClass, syntax.KindStruct, syntax.KindInterface, syntax.KindRecord,
		syntax.KindDestructor, syntax.KindOperator, syntax.KindConversion,
		syntax.KindIndexer, syntax.KindDelegate, syntax.KindEvent, syntax.KindEventField:
		return Excluded
	default:
		return Excluded
	}
}

// serialized должен проверяться раньше const: атрибут важнее модификаторов
func classifyField(n *syntax.Node, model semantic.Model) Category {
	sym := resolve(n, model)
	if n.HasAttribute(serializeAttribute) ||
		(sym != nil && semantic.AnyAttribute(model.AttributesOf(sym), serializeAttribute)) {
		return SerializedField
	}
	isConst := n.Modifiers.Has(syntax.ModConst)
	static := n.Modifiers.Has(syntax.ModStatic)
	readOnly := n.Modifiers.Has(syntax.ModReadOnly)
	if sym != nil {
		isConst = isConst || sym.Const
		static = static || sym.Static
		readOnly = readOnly || sym.ReadOnly
	}
	if isConst || static && readOnly {
		return Constant
	}
	return PrivateField
}

// cleanup проверяется до lifecycle
func classifyMethod(n *syntax.Node, model semantic.Model) Category {
	switch {
	case cleanupNames.has(n.Name):
		return Cleanup
	case lifecycleNames.has(n.Name):
		return LifecycleHook
	case isPublic(n, model):
		if syntax.ExpressionBody(n) != nil {
			return PublicMethodOneLine
		}
		return PublicMethodMultiLine
	default:
		return PrivateMethod
	}
}

func resolve(n *syntax.Node, model semantic.Model) *semantic.Symbol {
	if model == nil {
		return nil
	}
	return model.Resolve(n)
}

func isPublic(n *syntax.Node, model semantic.Model) bool {
	if n.Modifiers.Has(syntax.ModPublic) {
		return true
	}
	sym := resolve(n, model)
	return sym != nil && model.AccessibilityOf(sym) == semantic.AccessPublic
}
