package syntax

// Kind tags the shape of a node. The set is closed: hosts map their own node
// types onto these tags and everything else becomes KindStatement,
// KindExpression or KindToken.
type Kind uint8

const (
	KindInvalid Kind = iota

	KindCompilationUnit
	KindNamespace
	KindAttributeList
	KindToken

	// type declarations
	KindClass
	KindStruct
	KindInterface
	KindRecord
	KindEnum

	// members
	KindEnumMember
	KindField
	KindProperty
	KindMethod
	KindConstructor
	KindDestructor
	KindOperator
	KindConversion
	KindIndexer
	KindDelegate
	KindEvent
	KindEventField

	KindParameterList
	KindParameter

	// statements
	KindBlock
	KindReturn
	KindExprStmt
	KindIf
	KindElse
	KindLocalDecl
	KindStatement

	// expressions
	KindIdentifier
	KindMemberAccess
	KindInvocation
	KindArgumentList
	KindArgument
	KindConditionalAccess
	KindMemberBinding
	KindBinary
	KindAssignment
	KindIsPattern
	KindConstantPattern
	KindNotPattern
	KindNullLiteral
	KindLiteral
	KindSwitchExpr
	KindArrowClause
	KindExpression

	kindCount
)

var kindNames = [...]string{
	KindInvalid:           "Invalid",
	KindCompilationUnit:   "CompilationUnit",
	KindNamespace:         "Namespace",
	KindAttributeList:     "AttributeList",
	KindToken:             "Token",
	KindClass:             "Class",
	KindStruct:            "Struct",
	KindInterface:         "Interface",
	KindRecord:            "Record",
	KindEnum:              "Enum",
	KindEnumMember:        "EnumMember",
	KindField:             "Field",
	KindProperty:          "Property",
	KindMethod:            "Method",
	KindConstructor:       "Constructor",
	KindDestructor:        "Destructor",
	KindOperator:          "Operator",
	KindConversion:        "Conversion",
	KindIndexer:           "Indexer",
	KindDelegate:          "Delegate",
	KindEvent:             "Event",
	KindEventField:        "EventField",
	KindParameterList:     "ParameterList",
	KindParameter:         "Parameter",
	KindBlock:             "Block",
	KindReturn:            "Return",
	KindExprStmt:          "ExprStmt",
	KindIf:                "If",
	KindElse:              "Else",
	KindLocalDecl:         "LocalDecl",
	KindStatement:         "Statement",
	KindIdentifier:        "Identifier",
	KindMemberAccess:      "MemberAccess",
	KindInvocation:        "Invocation",
	KindArgumentList:      "ArgumentList",
	KindArgument:          "Argument",
	KindConditionalAccess: "ConditionalAccess",
	KindMemberBinding:     "MemberBinding",
	KindBinary:            "Binary",
	KindAssignment:        "Assignment",
	KindIsPattern:         "IsPattern",
	KindConstantPattern:   "ConstantPattern",
	KindNotPattern:        "NotPattern",
	KindNullLiteral:       "NullLiteral",
	KindLiteral:           "Literal",
	KindSwitchExpr:        "SwitchExpr",
	KindArrowClause:       "ArrowClause",
	KindExpression:        "Expression",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Invalid"
}

// ParseKind maps a kind name (as produced by String) back to its tag.
func ParseKind(name string) (Kind, bool) {
	for k := KindInvalid; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// IsTypeDecl reports whether k declares a type with a member body.
func (k Kind) IsTypeDecl() bool {
	switch k {
	case KindClass, KindStruct, KindInterface, KindRecord, KindEnum:
		return true
	default:
		return false
	}
}

// IsMember reports whether a node of kind k can sit directly in a type body.
func (k Kind) IsMember() bool {
	switch k {
	case KindClass, KindStruct, KindInterface, KindRecord, KindEnum,
		KindEnumMember, KindField, KindProperty, KindMethod, KindConstructor,
		KindDestructor, KindOperator, KindConversion, KindIndexer,
		KindDelegate, KindEvent, KindEventField:
		return true
	default:
		return false
	}
}

func (k Kind) IsStatement() bool {
	return k >= KindBlock && k <= KindStatement && k != KindElse
}

func (k Kind) IsExpression() bool {
	switch k {
	case KindIdentifier, KindMemberAccess, KindInvocation, KindConditionalAccess,
		KindMemberBinding, KindBinary, KindAssignment, KindIsPattern,
		KindNullLiteral, KindLiteral, KindSwitchExpr, KindExpression:
		return true
	default:
		return false
	}
}
