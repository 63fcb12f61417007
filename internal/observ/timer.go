// Package observ times the phases of an analysis pass.
package observ

import (
	"time"
)

// Phase is one timed step of a pass.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects the phases of one pass. Not safe for concurrent use: each
// pass owns its timer.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 4), now: time.Now}
}

// Start opens a phase. The returned func closes it; calling it twice keeps
// the first duration.
func (t *Timer) Start(name string) func(note string) {
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	idx := len(t.phases) - 1
	done := false
	return func(note string) {
		if done {
			return
		}
		done = true
		p := &t.phases[idx]
		p.Dur = t.now().Sub(p.Start)
		p.Note = note
	}
}

// PhaseReport is the serializable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report lists the phases of one pass, or of many passes after Add.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: millis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = millis(total)
	return report
}

// Add sums other into r phase by phase, matching phases by name. Notes are
// dropped: they describe a single pass.
func (r Report) Add(other Report) Report {
	out := Report{TotalMS: r.TotalMS + other.TotalMS}
	index := make(map[string]int, len(r.Phases))
	for _, p := range r.Phases {
		index[p.Name] = len(out.Phases)
		out.Phases = append(out.Phases, PhaseReport{Name: p.Name, DurationMS: p.DurationMS})
	}
	for _, p := range other.Phases {
		if i, ok := index[p.Name]; ok {
			out.Phases[i].DurationMS += p.DurationMS
			continue
		}
		index[p.Name] = len(out.Phases)
		out.Phases = append(out.Phases, PhaseReport{Name: p.Name, DurationMS: p.DurationMS})
	}
	return out
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
