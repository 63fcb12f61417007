package analysis

import (
	"fmt"
	"sort"

	"convlint/internal/diag"
)

// Registry holds the detectors of a run and the per-rule switches loaded from
// configuration. Configure it before the first Run; it is read-only afterwards.
type Registry struct {
	detectors []Detector
	byName    map[string]Detector
	byCode    map[diag.Code]Detector
	rules     map[diag.Code]diag.Rule
	disabled  map[diag.Code]bool
	severity  map[diag.Code]diag.Severity
}

func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]Detector),
		byCode:   make(map[diag.Code]Detector),
		rules:    make(map[diag.Code]diag.Rule),
		disabled: make(map[diag.Code]bool),
		severity: make(map[diag.Code]diag.Severity),
	}
}

// Register adds d. Detector names and rule codes must be unique.
func (r *Registry) Register(d Detector) error {
	if _, dup := r.byName[d.Name()]; dup {
		return fmt.Errorf("detector %q already registered", d.Name())
	}
	for _, rule := range d.Rules() {
		if other, dup := r.byCode[rule.Code]; dup {
			return fmt.Errorf("rule %s of %q already owned by %q", rule.ID(), d.Name(), other.Name())
		}
	}
	r.detectors = append(r.detectors, d)
	r.byName[d.Name()] = d
	for _, rule := range d.Rules() {
		r.byCode[rule.Code] = d
		r.rules[rule.Code] = rule
	}
	return nil
}

// MustRegister panics on registration errors; meant for static wiring.
func (r *Registry) MustRegister(ds ...Detector) *Registry {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Detectors() []Detector {
	return r.detectors
}

func (r *Registry) Lookup(name string) (Detector, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Rule returns the descriptor for code with the configured severity applied.
func (r *Registry) Rule(code diag.Code) (diag.Rule, bool) {
	rule, ok := r.rules[code]
	if !ok {
		return diag.Rule{}, false
	}
	if sev, ok := r.severity[code]; ok {
		rule.Severity = sev
	}
	return rule, true
}

// Rules lists every registered rule ordered by code.
func (r *Registry) Rules() []diag.Rule {
	out := make([]diag.Rule, 0, len(r.rules))
	for code := range r.rules {
		rule, _ := r.Rule(code)
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Disable turns off a rule by id ("STY3002") or a whole detector by name.
func (r *Registry) Disable(ref string) error {
	if d, ok := r.byName[ref]; ok {
		for _, rule := range d.Rules() {
			r.disabled[rule.Code] = true
		}
		return nil
	}
	code, ok := diag.ParseCode(ref)
	if !ok {
		return fmt.Errorf("unknown rule or detector %q", ref)
	}
	if _, known := r.rules[code]; !known {
		return fmt.Errorf("rule %s is not registered", code.ID())
	}
	r.disabled[code] = true
	return nil
}

// SetSeverity overrides the severity of a rule.
func (r *Registry) SetSeverity(ref string, sev diag.Severity) error {
	code, ok := diag.ParseCode(ref)
	if !ok {
		return fmt.Errorf("unknown rule %q", ref)
	}
	if _, known := r.rules[code]; !known {
		return fmt.Errorf("rule %s is not registered", code.ID())
	}
	r.severity[code] = sev
	return nil
}

func (r *Registry) IsEnabled(code diag.Code) bool {
	_, known := r.rules[code]
	return known && !r.disabled[code]
}

// Enabled returns the detectors with at least one enabled rule.
func (r *Registry) Enabled() []Detector {
	out := make([]Detector, 0, len(r.detectors))
	for _, d := range r.detectors {
		for _, rule := range d.Rules() {
			if r.IsEnabled(rule.Code) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// finalize drops diagnostics of disabled rules and applies severity overrides.
func (r *Registry) finalize(ds []diag.Diagnostic) []diag.Diagnostic {
	out := ds[:0]
	for _, d := range ds {
		if r.disabled[d.Code] {
			continue
		}
		if sev, ok := r.severity[d.Code]; ok {
			d.Severity = sev
		}
		out = append(out, d)
	}
	return out
}
