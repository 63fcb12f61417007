package diag

import (
	"convlint/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding. Args keeps the raw message arguments so
// fixers and renderers do not have to parse Message back.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Args     []string
	Primary  source.Span
	Notes    []Note
}

// Arg returns the i-th message argument or "".
func (d Diagnostic) Arg(i int) string {
	if i < 0 || i >= len(d.Args) {
		return ""
	}
	return d.Args[i]
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{Span: sp, Msg: msg})
	return d
}

// WithSeverity returns a copy with the severity replaced.
func (d Diagnostic) WithSeverity(sev Severity) Diagnostic {
	d.Severity = sev
	return d
}
