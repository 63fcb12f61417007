package semantic

import (
	"strings"

	"convlint/internal/source"
)

// SymbolID identifies a symbol inside one Table. Zero means "no symbol".
type SymbolID uint32

type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolField
	SymbolProperty
	SymbolMethod
	SymbolEvent
	SymbolType
	SymbolLocal
	SymbolParameter
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolField:
		return "field"
	case SymbolProperty:
		return "property"
	case SymbolMethod:
		return "method"
	case SymbolEvent:
		return "event"
	case SymbolType:
		return "type"
	case SymbolLocal:
		return "local"
	case SymbolParameter:
		return "parameter"
	default:
		return "invalid"
	}
}

// ParseSymbolKind is the inverse of String.
func ParseSymbolKind(s string) (SymbolKind, bool) {
	for k := SymbolField; k <= SymbolParameter; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return SymbolInvalid, false
}

type Accessibility uint8

const (
	AccessNotApplicable Accessibility = iota
	AccessPrivate
	AccessProtected
	AccessInternal
	AccessProtectedInternal
	AccessPrivateProtected
	AccessPublic
)

var accessNames = map[Accessibility]string{
	AccessNotApplicable:     "",
	AccessPrivate:           "private",
	AccessProtected:         "protected",
	AccessInternal:          "internal",
	AccessProtectedInternal: "protected internal",
	AccessPrivateProtected:  "private protected",
	AccessPublic:            "public",
}

func (a Accessibility) String() string {
	return accessNames[a]
}

// ParseAccessibility maps a C# accessibility spelling to its value.
func ParseAccessibility(s string) (Accessibility, bool) {
	for a, name := range accessNames {
		if name == s {
			return a, true
		}
	}
	return AccessNotApplicable, false
}

// TypeRef names the declared type of a symbol.
type TypeRef struct {
	Namespace string
	Name      string
	Arity     int // number of generic type arguments
}

// FullName returns "Namespace.Name".
func (t *TypeRef) FullName() string {
	if t == nil {
		return ""
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// Location is one declaring site of a symbol.
type Location struct {
	Path string
	Span source.Span
}

// Symbol is the resolved view of a declaration.
type Symbol struct {
	ID            SymbolID
	Kind          SymbolKind
	Name          string
	Accessibility Accessibility
	Static        bool
	Const         bool
	ReadOnly      bool
	Implicit      bool
	Attributes    []string
	Type          *TypeRef
	Locations     []Location
}

// HasAttribute reports whether sym carries one of names. "X" and
// "XAttribute" are the same attribute; a namespace qualifier is ignored.
func HasAttribute(sym *Symbol, names ...string) bool {
	if sym == nil {
		return false
	}
	for _, a := range sym.Attributes {
		if matchAttribute(a, names) {
			return true
		}
	}
	return false
}

func matchAttribute(attr string, names []string) bool {
	short := strings.TrimSuffix(attr[strings.LastIndexByte(attr, '.')+1:], "Attribute")
	for _, want := range names {
		if short == strings.TrimSuffix(want, "Attribute") {
			return true
		}
	}
	return false
}

// AnyAttribute reports whether attrs contains one of names, with the same
// matching rules as HasAttribute.
func AnyAttribute(attrs []string, names ...string) bool {
	for _, a := range attrs {
		if matchAttribute(a, names) {
			return true
		}
	}
	return false
}
