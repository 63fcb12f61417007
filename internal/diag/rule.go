package diag

import (
	"fmt"

	"convlint/internal/source"
)

// Rule describes one diagnostic a detector can emit.
// Format uses positional verbs (%[1]s, %[2]s, ...) over the string args.
type Rule struct {
	Code        Code
	Title       string
	Format      string
	Severity    Severity
	Description string
}

// ID returns the stable string id of the rule.
func (r Rule) ID() string {
	return r.Code.ID()
}

func (r Rule) Category() string {
	return r.Code.Category()
}

// New builds a diagnostic at primary with the given message arguments.
func (r Rule) New(primary source.Span, args ...string) Diagnostic {
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = a
	}
	return Diagnostic{
		Severity: r.Severity,
		Code:     r.Code,
		Message:  fmt.Sprintf(r.Format, vals...),
		Args:     append([]string(nil), args...),
		Primary:  primary,
	}
}
