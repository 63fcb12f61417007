package semantic

import (
	"fmt"

	"convlint/internal/syntax"
)

// Model answers symbol queries for one analysis pass. Implementations must be
// safe for concurrent readers. Unresolved lookups return nil, never an error.
type Model interface {
	Resolve(n *syntax.Node) *Symbol
	Symbols() []*Symbol
	AttributesOf(sym *Symbol) []string
	AccessibilityOf(sym *Symbol) Accessibility
	IsImplicitlyDeclared(sym *Symbol) bool
}

// Table is the in-memory Model: symbols addressed by id, nodes resolved
// through Node.Ref.
type Table struct {
	symbols []*Symbol
	byID    map[SymbolID]*Symbol
}

func NewTable() *Table {
	return &Table{byID: make(map[SymbolID]*Symbol)}
}

// Add registers sym. Ids must be non-zero and unique.
func (t *Table) Add(sym *Symbol) error {
	if sym == nil || sym.ID == 0 {
		return fmt.Errorf("symbol %v: id must be non-zero", sym)
	}
	if _, dup := t.byID[sym.ID]; dup {
		return fmt.Errorf("symbol %d (%s): duplicate id", sym.ID, sym.Name)
	}
	t.symbols = append(t.symbols, sym)
	t.byID[sym.ID] = sym
	return nil
}

// MustAdd is Add for fixtures.
func (t *Table) MustAdd(syms ...*Symbol) *Table {
	for _, s := range syms {
		if err := t.Add(s); err != nil {
			panic(err)
		}
	}
	return t
}

func (t *Table) Lookup(id SymbolID) *Symbol {
	if t == nil {
		return nil
	}
	return t.byID[id]
}

func (t *Table) Resolve(n *syntax.Node) *Symbol {
	if t == nil || n == nil || n.Ref == 0 {
		return nil
	}
	return t.byID[SymbolID(n.Ref)]
}

func (t *Table) Symbols() []*Symbol {
	if t == nil {
		return nil
	}
	return t.symbols
}

func (t *Table) AttributesOf(sym *Symbol) []string {
	if sym == nil {
		return nil
	}
	return sym.Attributes
}

func (t *Table) AccessibilityOf(sym *Symbol) Accessibility {
	if sym == nil {
		return AccessNotApplicable
	}
	return sym.Accessibility
}

func (t *Table) IsImplicitlyDeclared(sym *Symbol) bool {
	return sym != nil && sym.Implicit
}

// Empty is a Model with no symbols, for syntax-only runs.
var Empty Model = NewTable()
