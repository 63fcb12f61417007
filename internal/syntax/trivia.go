package syntax

import "strings"

type TriviaKind uint8

const (
	TriviaWhitespace TriviaKind = iota
	TriviaEndOfLine
	TriviaLineComment
	TriviaDocComment
	TriviaBlockComment
	TriviaDirective
	TriviaSkipped
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaWhitespace:
		return "Whitespace"
	case TriviaEndOfLine:
		return "EndOfLine"
	case TriviaLineComment:
		return "LineComment"
	case TriviaDocComment:
		return "DocComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDirective:
		return "Directive"
	default:
		return "Skipped"
	}
}

// Trivia is a piece of non-semantic source text attached to a node.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// IsComment reports whether t is any kind of comment.
func (t Trivia) IsComment() bool {
	return t.Kind == TriviaLineComment || t.Kind == TriviaDocComment || t.Kind == TriviaBlockComment
}

func Space(text string) Trivia { return Trivia{Kind: TriviaWhitespace, Text: text} }

func EOL() Trivia { return Trivia{Kind: TriviaEndOfLine, Text: "\n"} }

// ScanTrivia splits raw trivia text into pieces:
//   - runs of ' ' and '\t' coalesce into one Whitespace
//   - runs of line breaks ("\n", "\r\n") coalesce into one EndOfLine
//   - //... up to the line break -> LineComment
//   - ///... up to the line break -> DocComment (four slashes stay a plain comment)
//   - /* ... */ -> BlockComment; C# block comments do not nest, an unterminated one runs to the end
//   - #... up to the line break -> Directive
//
// Anything else is kept as Skipped up to the next whitespace so the text
// round-trips byte for byte.
func ScanTrivia(raw string) []Trivia {
	var out []Trivia
	i := 0
	for i < len(raw) {
		start := i
		b := raw[i]
		switch {
		case b == ' ' || b == '\t':
			for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
				i++
			}
			out = append(out, Trivia{Kind: TriviaWhitespace, Text: raw[start:i]})

		case b == '\n' || b == '\r':
			for i < len(raw) && (raw[i] == '\n' || raw[i] == '\r') {
				i++
			}
			out = append(out, Trivia{Kind: TriviaEndOfLine, Text: raw[start:i]})

		case b == '/' && i+1 < len(raw) && raw[i+1] == '/':
			kind := TriviaLineComment
			if strings.HasPrefix(raw[i:], "///") && !strings.HasPrefix(raw[i:], "////") {
				kind = TriviaDocComment
			}
			i = lineEnd(raw, i)
			out = append(out, Trivia{Kind: kind, Text: raw[start:i]})

		case b == '/' && i+1 < len(raw) && raw[i+1] == '*':
			end := strings.Index(raw[i+2:], "*/")
			if end < 0 {
				i = len(raw)
			} else {
				i += 2 + end + 2
			}
			out = append(out, Trivia{Kind: TriviaBlockComment, Text: raw[start:i]})

		case b == '#':
			i = lineEnd(raw, i)
			out = append(out, Trivia{Kind: TriviaDirective, Text: raw[start:i]})

		default:
			for i < len(raw) && !isTriviaBreak(raw[i]) {
				i++
			}
			out = append(out, Trivia{Kind: TriviaSkipped, Text: raw[start:i]})
		}
	}
	return out
}

func lineEnd(raw string, i int) int {
	for i < len(raw) && raw[i] != '\n' && raw[i] != '\r' {
		i++
	}
	return i
}

func isTriviaBreak(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// RenderTrivia concatenates trivia texts.
func RenderTrivia(list []Trivia) string {
	if len(list) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, t := range list {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

func triviaLen(list []Trivia) int {
	n := 0
	for _, t := range list {
		n += len(t.Text)
	}
	return n
}

// TriviaSplit separates a leading trivia list into everything that precedes
// the node's own indentation and the indentation itself.
type TriviaSplit struct {
	Before    []Trivia
	Indent    string
	HasIndent bool
}

// SplitLeading splits leading trivia at the trailing whitespace run.
// When the list does not end in whitespace the whole list is Before and
// HasIndent is false.
func SplitLeading(list []Trivia) TriviaSplit {
	if n := len(list); n > 0 && list[n-1].Kind == TriviaWhitespace {
		before := make([]Trivia, n-1)
		copy(before, list[:n-1])
		return TriviaSplit{Before: before, Indent: list[n-1].Text, HasIndent: true}
	}
	before := make([]Trivia, len(list))
	copy(before, list)
	return TriviaSplit{Before: before}
}

// IndentOr returns the split indentation, or fallback when there is none.
func (s TriviaSplit) IndentOr(fallback string) string {
	if s.HasIndent {
		return s.Indent
	}
	return fallback
}
