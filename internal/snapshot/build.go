package snapshot

import (
	"fmt"

	"convlint/internal/semantic"
	"convlint/internal/source"
	"convlint/internal/syntax"
)

// Snapshot is a loaded document: a tree registered in a FileSet and the
// symbol table built from the document's symbols.
type Snapshot struct {
	Path  string
	Tree  *syntax.Tree
	Model *semantic.Table
}

// Build turns the document into a tree and a symbol table. The rendered
// text of the tree is added to fs as a virtual file, so diagnostics on the
// tree resolve to lines and columns.
func (d *Document) Build(fs *source.FileSet) (*Snapshot, error) {
	if d.Root == nil {
		return nil, fmt.Errorf("snapshot %s: missing root node", d.Path)
	}
	var declared []declaration
	root, err := buildNode(d.Root, &declared)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", d.Path, err)
	}
	if fs == nil {
		fs = source.NewFileSet()
	}
	file := fs.AddVirtual(d.Path, []byte(root.Render()))
	tree := syntax.NewTree(file, d.Path, root)

	table := semantic.NewTable()
	for i := range d.Symbols {
		sym, err := buildSymbol(&d.Symbols[i], fs)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", d.Path, err)
		}
		if err := table.Add(sym); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", d.Path, err)
		}
	}
	for _, decl := range declared {
		sym := table.Lookup(decl.id)
		if sym == nil {
			return nil, fmt.Errorf("snapshot %s: %s %q declares unknown symbol %d", d.Path, decl.node.Kind, decl.node.Name, decl.id)
		}
		at := syntax.Identifier(decl.node)
		if at == nil {
			at = decl.node
		}
		sp, _ := tree.SpanOf(at)
		sym.Locations = append(sym.Locations, semantic.Location{Path: d.Path, Span: sp})
	}
	return &Snapshot{Path: d.Path, Tree: tree, Model: table}, nil
}

type declaration struct {
	node *syntax.Node
	id   semantic.SymbolID
}

func buildNode(nd *NodeDoc, declared *[]declaration) (*syntax.Node, error) {
	kind, ok := syntax.ParseKind(nd.Kind)
	if !ok || kind == syntax.KindInvalid {
		return nil, fmt.Errorf("unknown node kind %q", nd.Kind)
	}
	n := &syntax.Node{
		Kind:       kind,
		Text:       nd.Text,
		Leading:    syntax.ScanTrivia(nd.Leading),
		Trailing:   syntax.ScanTrivia(nd.Trailing),
		Name:       nd.Name,
		Modifiers:  syntax.ParseModifiers(nd.Modifiers),
		Attributes: nd.Attributes,
		Op:         nd.Op,
		Ref:        nd.Ref,
		Decl:       nd.Declares,
	}
	if len(nd.Children) > 0 {
		n.Children = make([]*syntax.Node, 0, len(nd.Children))
	}
	for i, child := range nd.Children {
		if child == nil {
			return nil, fmt.Errorf("%s %q: child %d is null", nd.Kind, nd.Name, i)
		}
		c, err := buildNode(child, declared)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	if nd.Declares != 0 {
		*declared = append(*declared, declaration{node: n, id: semantic.SymbolID(nd.Declares)})
	}
	return n, nil
}

func buildSymbol(sd *SymbolDoc, fs *source.FileSet) (*semantic.Symbol, error) {
	kind, ok := semantic.ParseSymbolKind(sd.Kind)
	if !ok {
		return nil, fmt.Errorf("symbol %d (%s): unknown kind %q", sd.ID, sd.Name, sd.Kind)
	}
	access := semantic.AccessNotApplicable
	if sd.Accessibility != "" {
		if access, ok = semantic.ParseAccessibility(sd.Accessibility); !ok {
			return nil, fmt.Errorf("symbol %d (%s): unknown accessibility %q", sd.ID, sd.Name, sd.Accessibility)
		}
	}
	sym := &semantic.Symbol{
		ID:            semantic.SymbolID(sd.ID),
		Kind:          kind,
		Name:          sd.Name,
		Accessibility: access,
		Static:        sd.Static,
		Const:         sd.Const,
		ReadOnly:      sd.ReadOnly,
		Implicit:      sd.Implicit,
		Attributes:    sd.Attributes,
	}
	if sd.Type != nil {
		sym.Type = &semantic.TypeRef{Namespace: sd.Type.Namespace, Name: sd.Type.Name, Arity: sd.Type.Arity}
	}
	for _, loc := range sd.Elsewhere {
		// файл может быть ещё не загружен; тогда id нулевой, сравнение идёт по пути
		file, _ := fs.GetLatest(loc.Path)
		sym.Locations = append(sym.Locations, semantic.Location{
			Path: loc.Path,
			Span: source.Span{File: file, Start: loc.Start, End: loc.End},
		})
	}
	return sym, nil
}

// FromTree captures tree and the symbols of model as a document. Nodes that
// carry a Decl binding keep it, so a rewritten tree saves correctly even
// though its spans moved. Otherwise a symbol location inside tree becomes a
// Declares mark on the declaration whose identifier sits at that location.
func FromTree(tree *syntax.Tree, model semantic.Model) *Document {
	doc := &Document{Schema: schemaVersion, Path: tree.Path}
	bound := boundSymbols(tree.Root)
	at := make(map[source.Span]semantic.SymbolID)
	if model != nil {
		for _, sym := range model.Symbols() {
			sd := symbolDoc(sym)
			for _, loc := range sym.Locations {
				if inTree(loc, tree) {
					if bound[sym.ID] {
						continue
					}
					if _, taken := at[loc.Span]; !taken {
						at[loc.Span] = sym.ID
					}
					continue
				}
				sd.Elsewhere = append(sd.Elsewhere, LocationDoc{Path: loc.Path, Start: loc.Span.Start, End: loc.Span.End})
			}
			doc.Symbols = append(doc.Symbols, sd)
		}
	}
	doc.Root = nodeDoc(tree, tree.Root, at)
	return doc
}

func boundSymbols(root *syntax.Node) map[semantic.SymbolID]bool {
	bound := make(map[semantic.SymbolID]bool)
	if root == nil {
		return bound
	}
	syntax.Walk(root, func(p syntax.Path) bool {
		if id := p.Node().Decl; id != 0 {
			bound[semantic.SymbolID(id)] = true
		}
		return true
	})
	return bound
}

func inTree(loc semantic.Location, tree *syntax.Tree) bool {
	return loc.Span.File == tree.File && (loc.Path == "" || loc.Path == tree.Path)
}

func nodeDoc(tree *syntax.Tree, n *syntax.Node, at map[source.Span]semantic.SymbolID) *NodeDoc {
	if n == nil {
		return nil
	}
	nd := &NodeDoc{
		Kind:       n.Kind.String(),
		Text:       n.Text,
		Leading:    syntax.RenderTrivia(n.Leading),
		Trailing:   syntax.RenderTrivia(n.Trailing),
		Name:       n.Name,
		Modifiers:  n.Modifiers.Words(),
		Attributes: n.Attributes,
		Op:         n.Op,
		Ref:        n.Ref,
	}
	if n.Decl != 0 {
		nd.Declares = n.Decl
	} else if n.Kind != syntax.KindIdentifier {
		if ident := syntax.Identifier(n); ident != nil {
			if sp, ok := tree.SpanOf(ident); ok {
				if id, ok := at[sp]; ok {
					nd.Declares = uint32(id)
					delete(at, sp)
				}
			}
		}
	}
	for _, c := range n.Children {
		nd.Children = append(nd.Children, nodeDoc(tree, c, at))
	}
	return nd
}

func symbolDoc(sym *semantic.Symbol) SymbolDoc {
	sd := SymbolDoc{
		ID:            uint32(sym.ID),
		Kind:          sym.Kind.String(),
		Name:          sym.Name,
		Accessibility: sym.Accessibility.String(),
		Static:        sym.Static,
		Const:         sym.Const,
		ReadOnly:      sym.ReadOnly,
		Implicit:      sym.Implicit,
		Attributes:    sym.Attributes,
	}
	if sym.Type != nil {
		sd.Type = &TypeDoc{Namespace: sym.Type.Namespace, Name: sym.Type.Name, Arity: sym.Type.Arity}
	}
	return sd
}
