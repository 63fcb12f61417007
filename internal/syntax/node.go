package syntax

import (
	"strings"
)

// Node is one element of the concrete syntax tree. Leaves carry Text;
// interior nodes carry Children. Declaration nodes additionally record the
// declared Name, Modifiers and attribute names so consumers never need to
// re-scan tokens for them.
type Node struct {
	Kind       Kind
	Text       string
	Leading    []Trivia
	Trailing   []Trivia
	Children   []*Node
	Name       string
	Modifiers  Modifiers
	Attributes []string
	Op         string
	Ref        uint32 // symbol id, 0 when unresolved
	Decl       uint32 // symbol declared by this node, 0 when unbound
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Render returns the full text of n including its trivia.
func (n *Node) Render() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder) {
	for _, t := range n.Leading {
		sb.WriteString(t.Text)
	}
	if len(n.Children) == 0 {
		sb.WriteString(n.Text)
	}
	for _, c := range n.Children {
		c.writeTo(sb)
	}
	for _, t := range n.Trailing {
		sb.WriteString(t.Text)
	}
}

// InnerText is the rendered text without the node's outer leading and
// trailing trivia. Two expressions are textually identical when their
// InnerText matches.
func (n *Node) InnerText() string {
	full := n.Render()
	lead := triviaLen(n.LeadingTrivia())
	trail := triviaLen(n.TrailingTrivia())
	if lead+trail >= len(full) {
		return ""
	}
	return full[lead : len(full)-trail]
}

func (n *Node) fullLen() int {
	l := triviaLen(n.Leading) + triviaLen(n.Trailing)
	if len(n.Children) == 0 {
		return l + len(n.Text)
	}
	for _, c := range n.Children {
		l += c.fullLen()
	}
	return l
}

func (n *Node) firstChild() int {
	for i, c := range n.Children {
		if c.fullLen() > 0 {
			return i
		}
	}
	return -1
}

func (n *Node) lastChild() int {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if n.Children[i].fullLen() > 0 {
			return i
		}
	}
	return -1
}

// LeadingTrivia returns the effective leading trivia of n: its own plus that
// of its first non-empty descendant chain.
func (n *Node) LeadingTrivia() []Trivia {
	out := append([]Trivia(nil), n.Leading...)
	if i := n.firstChild(); i >= 0 {
		out = append(out, n.Children[i].LeadingTrivia()...)
	}
	return out
}

// TrailingTrivia mirrors LeadingTrivia for the end of the node.
func (n *Node) TrailingTrivia() []Trivia {
	var out []Trivia
	if i := n.lastChild(); i >= 0 {
		out = append(out, n.Children[i].TrailingTrivia()...)
	}
	return append(out, n.Trailing...)
}

// Clone makes a shallow copy that owns its slices.
func (n *Node) Clone() *Node {
	c := *n
	c.Leading = append([]Trivia(nil), n.Leading...)
	c.Trailing = append([]Trivia(nil), n.Trailing...)
	c.Children = append([]*Node(nil), n.Children...)
	c.Attributes = append([]string(nil), n.Attributes...)
	return &c
}

// WithLeadingTrivia returns a copy of n whose effective leading trivia is list.
func (n *Node) WithLeadingTrivia(list ...Trivia) *Node {
	c := n.Clone()
	c.Leading = list
	if i := c.firstChild(); i >= 0 {
		c.Children[i] = c.Children[i].WithLeadingTrivia()
	}
	return c
}

// WithTrailingTrivia returns a copy of n whose effective trailing trivia is list.
func (n *Node) WithTrailingTrivia(list ...Trivia) *Node {
	c := n.Clone()
	c.Trailing = list
	if i := c.lastChild(); i >= 0 {
		c.Children[i] = c.Children[i].WithTrailingTrivia()
	}
	return c
}

func (n *Node) WithoutTrivia() *Node {
	return n.WithLeadingTrivia().WithTrailingTrivia()
}

func (n *Node) WithChildren(children ...*Node) *Node {
	c := n.Clone()
	c.Children = children
	return c
}

func (n *Node) WithText(text string) *Node {
	c := n.Clone()
	c.Text = text
	return c
}

// WithName renames a declaration: both Name and its identifier leaf change.
func (n *Node) WithName(name string) *Node {
	c := n.Clone()
	if i := c.identifierIndex(); i >= 0 {
		c.Children[i] = c.Children[i].WithText(name)
	}
	c.Name = name
	return c
}

// Child returns the first direct child of the given kind.
func (n *Node) Child(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// HasAttribute reports whether the declaration lists one of names.
// Both "X" and "XAttribute" spellings match, with or without a namespace.
func (n *Node) HasAttribute(names ...string) bool {
	for _, a := range n.Attributes {
		a = strings.TrimSuffix(a[strings.LastIndexByte(a, '.')+1:], "Attribute")
		for _, want := range names {
			if a == strings.TrimSuffix(want, "Attribute") {
				return true
			}
		}
	}
	return false
}

func (n *Node) identifierIndex() int {
	first := -1
	for i, c := range n.Children {
		if c.Kind != KindIdentifier {
			continue
		}
		if n.Name != "" && c.Text == n.Name {
			return i
		}
		if first < 0 {
			first = i
		}
	}
	return first
}

// Identifier returns the identifier leaf of a declaration, or nil when the
// declaration is malformed.
func Identifier(n *Node) *Node {
	if n == nil {
		return nil
	}
	if i := n.identifierIndex(); i >= 0 {
		return n.Children[i]
	}
	return nil
}

// Members returns the declarations inside a type body.
func Members(n *Node) []*Node {
	if n == nil || !n.Kind.IsTypeDecl() {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind.IsMember() {
			out = append(out, c)
		}
	}
	return out
}

// memberRegion returns the half-open child index range between the body braces.
func memberRegion(n *Node) (int, int, bool) {
	open, closing := -1, -1
	for i, c := range n.Children {
		if c.Kind == KindToken && c.Text == "{" && open < 0 {
			open = i
		}
		if c.Kind == KindToken && c.Text == "}" {
			closing = i
		}
	}
	if open < 0 || closing < open {
		return 0, 0, false
	}
	return open + 1, closing, true
}

// WithMembers replaces the member region of a type declaration. Everything
// outside the braces (attributes, base list, brace trivia) is kept.
func (n *Node) WithMembers(members []*Node) (*Node, bool) {
	if !n.Kind.IsTypeDecl() {
		return nil, false
	}
	lo, hi, ok := memberRegion(n)
	if !ok {
		return nil, false
	}
	children := make([]*Node, 0, len(n.Children)-(hi-lo)+len(members))
	children = append(children, n.Children[:lo]...)
	children = append(children, members...)
	children = append(children, n.Children[hi:]...)
	return n.WithChildren(children...), true
}

// Body returns the block body of a method-like declaration.
func Body(n *Node) *Node {
	if n == nil {
		return nil
	}
	return n.Child(KindBlock)
}

// ExpressionBody returns the "=> expr" clause of a member.
func ExpressionBody(n *Node) *Node {
	if n == nil {
		return nil
	}
	return n.Child(KindArrowClause)
}

// Parameters returns the parameter nodes of a method-like declaration.
func Parameters(n *Node) []*Node {
	if n == nil {
		return nil
	}
	list := n.Child(KindParameterList)
	if list == nil {
		return nil
	}
	var out []*Node
	for _, c := range list.Children {
		if c.Kind == KindParameter {
			out = append(out, c)
		}
	}
	return out
}

func Statements(block *Node) []*Node {
	if block == nil {
		return nil
	}
	var out []*Node
	for _, c := range block.Children {
		if c.Kind.IsStatement() {
			out = append(out, c)
		}
	}
	return out
}

// FirstExpression returns the first expression child: the value of a return,
// the expression of an expression statement or arrow clause, and so on.
func FirstExpression(n *Node) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind.IsExpression() {
			return c
		}
	}
	return nil
}

// Condition returns the condition of an if statement.
func Condition(ifStmt *Node) *Node {
	if ifStmt == nil || ifStmt.Kind != KindIf {
		return nil
	}
	return FirstExpression(ifStmt)
}

func Consequent(ifStmt *Node) *Node {
	if ifStmt == nil || ifStmt.Kind != KindIf {
		return nil
	}
	for _, c := range ifStmt.Children {
		if c.Kind.IsStatement() {
			return c
		}
	}
	return nil
}

func ElseClause(ifStmt *Node) *Node {
	if ifStmt == nil || ifStmt.Kind != KindIf {
		return nil
	}
	return ifStmt.Child(KindElse)
}

// Callee returns the invoked expression of an invocation.
func Callee(inv *Node) *Node {
	if inv == nil || inv.Kind != KindInvocation {
		return nil
	}
	return FirstExpression(inv)
}

func Arguments(inv *Node) []*Node {
	if inv == nil || inv.Kind != KindInvocation {
		return nil
	}
	list := inv.Child(KindArgumentList)
	if list == nil {
		return nil
	}
	var out []*Node
	for _, c := range list.Children {
		if c.Kind == KindArgument {
			out = append(out, c)
		}
	}
	return out
}

// Receiver returns the left side of a member access or conditional access.
func Receiver(n *Node) *Node {
	if n == nil || (n.Kind != KindMemberAccess && n.Kind != KindConditionalAccess) {
		return nil
	}
	return FirstExpression(n)
}

// MemberName returns the accessed name of a member access (or the identifier
// itself for a bare identifier).
func MemberName(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindIdentifier:
		return n.Text
	case KindMemberAccess, KindMemberBinding:
		for i := len(n.Children) - 1; i >= 0; i-- {
			if n.Children[i].Kind == KindIdentifier {
				return n.Children[i].Text
			}
		}
	}
	return ""
}

// Operands returns the left and right operands of a binary expression.
func Operands(n *Node) (*Node, *Node) {
	var ops []*Node
	for _, c := range n.Children {
		if c.Kind.IsExpression() {
			ops = append(ops, c)
		}
	}
	if len(ops) != 2 {
		return nil, nil
	}
	return ops[0], ops[1]
}

// Pattern returns the pattern of an is-pattern or not-pattern node.
func Pattern(n *Node) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		switch c.Kind {
		case KindConstantPattern, KindNotPattern:
			return c
		}
	}
	return nil
}

// Contains reports whether any node in the subtree of n satisfies pred.
func Contains(n *Node, pred func(*Node) bool) bool {
	if n == nil {
		return false
	}
	if pred(n) {
		return true
	}
	for _, c := range n.Children {
		if Contains(c, pred) {
			return true
		}
	}
	return false
}
