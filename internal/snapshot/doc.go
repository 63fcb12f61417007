// Package snapshot is the interchange format between a host front end and
// convlint. A document carries one rendered file as a concrete syntax tree
// plus the symbols declared or referenced in it.
package snapshot

// schemaVersion is bumped when the document layout changes incompatibly.
const schemaVersion uint16 = 1

// Document is one file as the host sees it.
type Document struct {
	Schema  uint16      `json:"schema,omitempty" yaml:"schema,omitempty" msgpack:"schema,omitempty"`
	Path    string      `json:"path" yaml:"path" msgpack:"path"`
	Root    *NodeDoc    `json:"root" yaml:"root" msgpack:"root"`
	Symbols []SymbolDoc `json:"symbols,omitempty" yaml:"symbols,omitempty" msgpack:"symbols,omitempty"`
}

// NodeDoc mirrors syntax.Node. Trivia is kept as raw text and rescanned on
// load, so hosts do not need to classify comments themselves.
type NodeDoc struct {
	Kind       string     `json:"kind" yaml:"kind" msgpack:"kind"`
	Text       string     `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	Leading    string     `json:"leading,omitempty" yaml:"leading,omitempty" msgpack:"leading,omitempty"`
	Trailing   string     `json:"trailing,omitempty" yaml:"trailing,omitempty" msgpack:"trailing,omitempty"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Modifiers  []string   `json:"modifiers,omitempty" yaml:"modifiers,omitempty" msgpack:"modifiers,omitempty"`
	Attributes []string   `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Op         string     `json:"op,omitempty" yaml:"op,omitempty" msgpack:"op,omitempty"`
	Ref        uint32     `json:"ref,omitempty" yaml:"ref,omitempty" msgpack:"ref,omitempty"`
	Declares   uint32     `json:"declares,omitempty" yaml:"declares,omitempty" msgpack:"declares,omitempty"`
	Children   []*NodeDoc `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
}

// SymbolDoc mirrors semantic.Symbol. Locations in the document's own file
// come from the Declares marks on nodes; Elsewhere lists the rest, e.g. the
// other halves of a partial class.
type SymbolDoc struct {
	ID            uint32        `json:"id" yaml:"id" msgpack:"id"`
	Kind          string        `json:"kind" yaml:"kind" msgpack:"kind"`
	Name          string        `json:"name" yaml:"name" msgpack:"name"`
	Accessibility string        `json:"accessibility,omitempty" yaml:"accessibility,omitempty" msgpack:"accessibility,omitempty"`
	Static        bool          `json:"static,omitempty" yaml:"static,omitempty" msgpack:"static,omitempty"`
	Const         bool          `json:"const,omitempty" yaml:"const,omitempty" msgpack:"const,omitempty"`
	ReadOnly      bool          `json:"readonly,omitempty" yaml:"readonly,omitempty" msgpack:"readonly,omitempty"`
	Implicit      bool          `json:"implicit,omitempty" yaml:"implicit,omitempty" msgpack:"implicit,omitempty"`
	Attributes    []string      `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Type          *TypeDoc      `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Elsewhere     []LocationDoc `json:"elsewhere,omitempty" yaml:"elsewhere,omitempty" msgpack:"elsewhere,omitempty"`
}

type TypeDoc struct {
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty" msgpack:"namespace,omitempty"`
	Name      string `json:"name" yaml:"name" msgpack:"name"`
	Arity     int    `json:"arity,omitempty" yaml:"arity,omitempty" msgpack:"arity,omitempty"`
}

// LocationDoc is a declaring site outside the document.
type LocationDoc struct {
	Path  string `json:"path" yaml:"path" msgpack:"path"`
	Start uint32 `json:"start" yaml:"start" msgpack:"start"`
	End   uint32 `json:"end" yaml:"end" msgpack:"end"`
}
