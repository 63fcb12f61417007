package diagfmt

import (
	"convlint/internal/diag"
	"convlint/internal/source"
)

// TextEdit replaces the bytes of Span with NewText. OldText is informative.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixHint describes one fix available for a diagnostic.
type FixHint struct {
	ID            string
	Title         string
	Applicability string
	Edits         []TextEdit
}

// FixSource lists the fixes for a diagnostic. Renderers do not know about
// trees; the caller plans fixes and reports them as text edits.
type FixSource func(d diag.Diagnostic) []FixHint

func (f FixSource) lookup(d diag.Diagnostic) []FixHint {
	if f == nil {
		return nil
	}
	return f(d)
}
