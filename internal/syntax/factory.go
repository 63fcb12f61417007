package syntax

import "strings"

// IndentUnit is the indentation added per nesting level by the builders.
const IndentUnit = "    "

// Layout tells a Builder where the node sits: at the start of an indented
// line, or inline after other tokens.
type Layout struct {
	Indent string
	Inline bool
}

func (l Layout) lead() []Trivia {
	if l.Inline || l.Indent == "" {
		return nil
	}
	return []Trivia{Space(l.Indent)}
}

func (l Layout) end() []Trivia {
	if l.Inline {
		return []Trivia{Space(" ")}
	}
	return []Trivia{EOL()}
}

func (l Layout) nested() Layout {
	return Layout{Indent: l.Indent + IndentUnit}
}

// Builder produces a statement or declaration laid out for its position.
type Builder func(Layout) *Node

// Tok creates a token leaf.
func Tok(text string) *Node {
	return &Node{Kind: KindToken, Text: text}
}

// Ident creates an identifier leaf.
func Ident(name string) *Node {
	return &Node{Kind: KindIdentifier, Text: name}
}

func spaced(n *Node) *Node {
	n.Trailing = []Trivia{Space(" ")}
	return n
}

func padded(n *Node) *Node {
	n.Leading = []Trivia{Space(" ")}
	n.Trailing = []Trivia{Space(" ")}
	return n
}

// DocComment returns a "///" comment trivia.
func DocComment(text string) Trivia {
	if !strings.HasPrefix(text, "///") {
		text = "/// " + text
	}
	return Trivia{Kind: TriviaDocComment, Text: text}
}

// LineComment returns a "//" comment trivia.
func LineComment(text string) Trivia {
	if !strings.HasPrefix(text, "//") {
		text = "// " + text
	}
	return Trivia{Kind: TriviaLineComment, Text: text}
}

// ---- expressions ----

func Null() *Node {
	return &Node{Kind: KindNullLiteral, Text: "null"}
}

func Lit(text string) *Node {
	return &Node{Kind: KindLiteral, Text: text}
}

// Dot builds recv.name.
func Dot(recv *Node, name string) *Node {
	return &Node{Kind: KindMemberAccess, Children: []*Node{recv, Tok("."), Ident(name)}}
}

// Call builds callee(args...).
func Call(callee *Node, args ...*Node) *Node {
	list := &Node{Kind: KindArgumentList, Children: []*Node{Tok("(")}}
	for i, a := range args {
		if i > 0 {
			list.Children = append(list.Children, spaced(Tok(",")))
		}
		list.Children = append(list.Children, &Node{Kind: KindArgument, Children: []*Node{a}})
	}
	list.Children = append(list.Children, Tok(")"))
	return &Node{Kind: KindInvocation, Children: []*Node{callee, list}}
}

// BinaryExpr builds "left op right".
func BinaryExpr(left *Node, op string, right *Node) *Node {
	return &Node{Kind: KindBinary, Op: op, Children: []*Node{left, padded(Tok(op)), right}}
}

// Assign builds "left = right".
func Assign(left, right *Node) *Node {
	return &Node{Kind: KindAssignment, Op: "=", Children: []*Node{left, padded(Tok("=")), right}}
}

// CondAccess builds recv?.name.
func CondAccess(recv *Node, name string) *Node {
	binding := &Node{Kind: KindMemberBinding, Children: []*Node{Tok("."), Ident(name)}}
	return &Node{Kind: KindConditionalAccess, Children: []*Node{recv, Tok("?"), binding}}
}

// IsNull builds "expr is null" or "expr is not null".
func IsNull(expr *Node, negated bool) *Node {
	pattern := &Node{Kind: KindConstantPattern, Children: []*Node{Null()}}
	if negated {
		pattern = &Node{Kind: KindNotPattern, Children: []*Node{spaced(Tok("not")), pattern}}
	}
	return &Node{Kind: KindIsPattern, Op: "is", Children: []*Node{expr, padded(Tok("is")), pattern}}
}

// SwitchOn builds "expr switch { arms }"; arms are kept as one token.
func SwitchOn(expr *Node, arms string) *Node {
	return &Node{Kind: KindSwitchExpr, Children: []*Node{expr, padded(Tok("switch")), Tok("{ " + arms + " }")}}
}

// Arrow builds "=> expr".
func Arrow(expr *Node) *Node {
	return &Node{Kind: KindArrowClause, Children: []*Node{spaced(Tok("=>")), expr}}
}

// ---- statements ----

func Return(expr *Node) Builder {
	return func(l Layout) *Node {
		kw := Tok("return")
		children := []*Node{kw}
		if expr != nil {
			spaced(kw)
			children = append(children, expr)
		}
		children = append(children, Tok(";"))
		return &Node{Kind: KindReturn, Children: children, Leading: l.lead(), Trailing: l.end()}
	}
}

// Stmt builds an expression statement "expr;".
func Stmt(expr *Node) Builder {
	return func(l Layout) *Node {
		return &Node{Kind: KindExprStmt, Children: []*Node{expr, Tok(";")}, Leading: l.lead(), Trailing: l.end()}
	}
}

// If builds "if (cond) then" with the consequent on the same line.
func If(cond *Node, then Builder) Builder {
	return func(l Layout) *Node {
		cons := then(Layout{Inline: true})
		cons.Trailing = nil
		return &Node{
			Kind:     KindIf,
			Children: []*Node{spaced(Tok("if")), Tok("("), cond, spaced(Tok(")")), cons},
			Leading:  l.lead(),
			Trailing: l.end(),
		}
	}
}

// IfElse builds "if (cond) then else els" on one line.
func IfElse(cond *Node, then, els Builder) Builder {
	return func(l Layout) *Node {
		cons := then(Layout{Inline: true})
		alt := els(Layout{Inline: true})
		alt.Trailing = nil
		elseClause := &Node{Kind: KindElse, Children: []*Node{spaced(Tok("else")), alt}}
		return &Node{
			Kind:     KindIf,
			Children: []*Node{spaced(Tok("if")), Tok("("), cond, spaced(Tok(")")), cons, elseClause},
			Leading:  l.lead(),
			Trailing: l.end(),
		}
	}
}

// Block builds "{ ... }". Inline blocks stay on one line; others put each
// statement on its own line one level deeper.
func Block(stmts ...Builder) Builder {
	return func(l Layout) *Node {
		if l.Inline {
			children := []*Node{spaced(Tok("{"))}
			for _, s := range stmts {
				children = append(children, s(Layout{Inline: true}))
			}
			children = append(children, Tok("}"))
			return &Node{Kind: KindBlock, Children: children, Trailing: l.end()}
		}
		open := Tok("{")
		open.Trailing = []Trivia{EOL()}
		children := []*Node{open}
		for _, s := range stmts {
			children = append(children, s(l.nested()))
		}
		closing := Tok("}")
		closing.Leading = l.lead()
		children = append(children, closing)
		return &Node{Kind: KindBlock, Children: children, Leading: l.lead(), Trailing: l.end()}
	}
}

// ---- declarations ----

type declOptions struct {
	attrs  []string
	params []*Node
	stmts  []Builder
	arrow  *Node
	init   *Node
	noBody bool
	docs   []string
}

// DeclOption customizes a declaration builder.
type DeclOption func(*declOptions)

// Attrs attaches attribute names, rendered as one "[A, B]" list.
func Attrs(names ...string) DeclOption {
	return func(o *declOptions) { o.attrs = append(o.attrs, names...) }
}

// Params sets the parameter list.
func Params(params ...*Node) DeclOption {
	return func(o *declOptions) { o.params = append(o.params, params...) }
}

// Stmts gives a method-like declaration a block body.
func Stmts(stmts ...Builder) DeclOption {
	return func(o *declOptions) { o.stmts = append(o.stmts, stmts...) }
}

// ArrowBody gives a member an expression body.
func ArrowBody(expr *Node) DeclOption {
	return func(o *declOptions) { o.arrow = expr }
}

// Init sets a field initializer.
func Init(expr *Node) DeclOption {
	return func(o *declOptions) { o.init = expr }
}

// NoBody renders "...);" as for abstract or interface methods.
func NoBody() DeclOption {
	return func(o *declOptions) { o.noBody = true }
}

// Docs puts comment lines above the declaration, one per line.
func Docs(lines ...string) DeclOption {
	return func(o *declOptions) { o.docs = append(o.docs, lines...) }
}

func collect(opts []DeclOption) declOptions {
	var o declOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Param builds "typ name".
func Param(typ, name string) *Node {
	return &Node{Kind: KindParameter, Name: name, Children: []*Node{spaced(Tok(typ)), Ident(name)}}
}

func paramList(params []*Node) *Node {
	children := []*Node{Tok("(")}
	for i, p := range params {
		if i > 0 {
			children = append(children, spaced(Tok(",")))
		}
		children = append(children, p)
	}
	children = append(children, Tok(")"))
	return &Node{Kind: KindParameterList, Children: children}
}

func (o declOptions) header(mods Modifiers) []*Node {
	var out []*Node
	if len(o.attrs) > 0 {
		out = append(out, spaced(&Node{Kind: KindAttributeList, Text: "[" + strings.Join(o.attrs, ", ") + "]"}))
	}
	for _, w := range mods.Words() {
		out = append(out, spaced(Tok(w)))
	}
	return out
}

func (o declOptions) leading(l Layout) []Trivia {
	var out []Trivia
	for _, d := range o.docs {
		if l.Indent != "" {
			out = append(out, Space(l.Indent))
		}
		if strings.HasPrefix(d, "///") {
			out = append(out, DocComment(d))
		} else {
			out = append(out, LineComment(d))
		}
		out = append(out, EOL())
	}
	return append(out, l.lead()...)
}

// body appends the parameter list and the body to children.
func (o declOptions) body(l Layout, children []*Node) []*Node {
	params := paramList(o.params)
	switch {
	case o.noBody:
		return append(children, params, Tok(";"))
	case o.arrow != nil:
		params.Trailing = []Trivia{Space(" ")}
		return append(children, params, Arrow(o.arrow), Tok(";"))
	case len(o.stmts) == 0:
		params.Trailing = []Trivia{Space(" ")}
		block := Block()(Layout{Inline: true})
		block.Trailing = nil
		return append(children, params, block)
	default:
		params.Trailing = []Trivia{EOL()}
		block := Block(o.stmts...)(Layout{Indent: l.Indent})
		block.Trailing = nil
		return append(children, params, block)
	}
}

func decl(kind Kind, mods Modifiers, name string, o declOptions, l Layout, children []*Node) *Node {
	return &Node{
		Kind:       kind,
		Name:       name,
		Modifiers:  mods,
		Attributes: o.attrs,
		Children:   children,
		Leading:    o.leading(l),
		Trailing:   l.end(),
	}
}

// Field builds "[attrs] mods typ name [= init];".
func Field(mods Modifiers, typ, name string, opts ...DeclOption) Builder {
	return func(l Layout) *Node {
		o := collect(opts)
		children := append(o.header(mods), spaced(Tok(typ)), Ident(name))
		if o.init != nil {
			children = append(children, padded(Tok("=")), o.init)
		}
		children = append(children, Tok(";"))
		return decl(KindField, mods, name, o, l, children)
	}
}

// Property builds an auto-property, or an expression-bodied one with ArrowBody.
func Property(mods Modifiers, typ, name string, opts ...DeclOption) Builder {
	return func(l Layout) *Node {
		o := collect(opts)
		children := append(o.header(mods), spaced(Tok(typ)), spaced(Ident(name)))
		if o.arrow != nil {
			children = append(children, Arrow(o.arrow), Tok(";"))
		} else {
			children = append(children, Tok("{ get; set; }"))
		}
		return decl(KindProperty, mods, name, o, l, children)
	}
}

func Method(mods Modifiers, ret, name string, opts ...DeclOption) Builder {
	return func(l Layout) *Node {
		o := collect(opts)
		children := append(o.header(mods), spaced(Tok(ret)), Ident(name))
		return decl(KindMethod, mods, name, o, l, o.body(l, children))
	}
}

func Constructor(mods Modifiers, name string, opts ...DeclOption) Builder {
	return func(l Layout) *Node {
		o := collect(opts)
		children := append(o.header(mods), Ident(name))
		return decl(KindConstructor, mods, name, o, l, o.body(l, children))
	}
}

func Destructor(name string, opts ...DeclOption) Builder {
	return func(l Layout) *Node {
		o := collect(opts)
		children := []*Node{Tok("~"), Ident(name)}
		return decl(KindDestructor, 0, name, o, l, o.body(l, children))
	}
}

func EventField(mods Modifiers, typ, name string, opts ...DeclOption) Builder {
	return func(l Layout) *Node {
		o := collect(opts)
		children := append(o.header(mods), spaced(Tok("event")), spaced(Tok(typ)), Ident(name), Tok(";"))
		return decl(KindEventField, mods, name, o, l, children)
	}
}

func Delegate(mods Modifiers, ret, name string, opts ...DeclOption) Builder {
	return func(l Layout) *Node {
		o := collect(opts)
		o.noBody = true
		children := append(o.header(mods), spaced(Tok("delegate")), spaced(Tok(ret)), Ident(name))
		return decl(KindDelegate, mods, name, o, l, o.body(l, children))
	}
}

// Indexer builds "mods typ this[int index] { get; }". Indexers have no identifier.
func Indexer(mods Modifiers, typ string, opts ...DeclOption) Builder {
	return func(l Layout) *Node {
		o := collect(opts)
		children := append(o.header(mods), spaced(Tok(typ)), spaced(Tok("this[int index]")), Tok("{ get; }"))
		return decl(KindIndexer, mods, "", o, l, children)
	}
}

func typeDecl(kind Kind, keyword string, mods Modifiers, name string, opts []DeclOption, members []Builder) Builder {
	return func(l Layout) *Node {
		o := collect(opts)
		ident := Ident(name)
		ident.Trailing = []Trivia{EOL()}
		open := Tok("{")
		open.Leading = l.lead()
		open.Trailing = []Trivia{EOL()}
		children := append(o.header(mods), spaced(Tok(keyword)), ident, open)
		for _, m := range members {
			children = append(children, m(l.nested()))
		}
		closing := Tok("}")
		closing.Leading = l.lead()
		children = append(children, closing)
		return decl(kind, mods, name, o, l, children)
	}
}

func Class(mods Modifiers, name string, members ...Builder) Builder {
	return typeDecl(KindClass, "class", mods, name, nil, members)
}

// ClassWith is Class with declaration options (attributes, docs).
func ClassWith(mods Modifiers, name string, opts []DeclOption, members ...Builder) Builder {
	return typeDecl(KindClass, "class", mods, name, opts, members)
}

func Struct(mods Modifiers, name string, members ...Builder) Builder {
	return typeDecl(KindStruct, "struct", mods, name, nil, members)
}

func Interface(mods Modifiers, name string, members ...Builder) Builder {
	return typeDecl(KindInterface, "interface", mods, name, nil, members)
}

// EnumMember builds one enum value, optionally preceded by comment lines.
func EnumMember(name string, opts ...DeclOption) Builder {
	return func(l Layout) *Node {
		o := collect(opts)
		return &Node{Kind: KindEnumMember, Name: name, Children: []*Node{Ident(name)}, Leading: o.leading(l)}
	}
}

// Enum builds an enum with one member per line, separated by commas.
func Enum(mods Modifiers, name string, members ...Builder) Builder {
	return func(l Layout) *Node {
		ident := Ident(name)
		ident.Trailing = []Trivia{EOL()}
		open := Tok("{")
		open.Leading = l.lead()
		open.Trailing = []Trivia{EOL()}
		var o declOptions
		children := append(o.header(mods), spaced(Tok("enum")), ident, open)
		for i, b := range members {
			m := b(l.nested())
			if i < len(members)-1 {
				comma := Tok(",")
				comma.Trailing = []Trivia{EOL()}
				children = append(children, m, comma)
				continue
			}
			m.Trailing = []Trivia{EOL()}
			children = append(children, m)
		}
		closing := Tok("}")
		closing.Leading = l.lead()
		children = append(children, closing)
		return decl(KindEnum, mods, name, o, l, children)
	}
}

// Namespace builds a block-scoped namespace.
func Namespace(name string, decls ...Builder) Builder {
	return func(l Layout) *Node {
		ident := Ident(name)
		ident.Trailing = []Trivia{EOL()}
		open := Tok("{")
		open.Leading = l.lead()
		open.Trailing = []Trivia{EOL()}
		children := []*Node{spaced(Tok("namespace")), ident, open}
		for _, d := range decls {
			children = append(children, d(l.nested()))
		}
		closing := Tok("}")
		closing.Leading = l.lead()
		children = append(children, closing)
		return &Node{Kind: KindNamespace, Name: name, Children: children, Leading: l.lead(), Trailing: l.end()}
	}
}

// Unit builds a compilation unit of top-level declarations.
func Unit(decls ...Builder) *Node {
	children := make([]*Node, 0, len(decls))
	for _, d := range decls {
		children = append(children, d(Layout{}))
	}
	return &Node{Kind: KindCompilationUnit, Children: children}
}
