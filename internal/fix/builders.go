package fix

import "convlint/internal/syntax"

// Replace builds an edit swapping target for repl.
func Replace(target, repl *syntax.Node) Edit {
	return Edit{Target: target, Replacement: repl}
}

// KeepTrivia gives repl the effective leading and trailing trivia of orig.
func KeepTrivia(orig, repl *syntax.Node) *syntax.Node {
	return repl.WithLeadingTrivia(orig.LeadingTrivia()...).WithTrailingTrivia(orig.TrailingTrivia()...)
}

// InsertBeforeIndent puts lines above n. Each line is emitted at n's
// indentation and n keeps its own indentation, so existing comments and
// blank lines stay where they were.
func InsertBeforeIndent(n *syntax.Node, lines ...syntax.Trivia) *syntax.Node {
	split := syntax.SplitLeading(n.LeadingTrivia())
	indent := split.IndentOr(syntax.IndentUnit)
	leading := split.Before
	for _, line := range lines {
		leading = append(leading, syntax.Space(indent), line, syntax.EOL())
	}
	leading = append(leading, syntax.Space(indent))
	return n.WithLeadingTrivia(leading...)
}
