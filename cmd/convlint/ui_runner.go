package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"convlint/internal/analysis"
	"convlint/internal/ui"
)

type passOutcome struct {
	pass *pass
	err  error
}

// runPassWithUI runs the pass in the background while the progress view
// renders its events on stdout.
func runPassWithUI(ctx context.Context, s *session, engine *analysis.Engine, base string, files []string) (*pass, error) {
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan passOutcome, 1)

	go func() {
		p, err := runPass(ctx, s, engine, base, files, func(ev ui.Event) { events <- ev })
		outcomeCh <- passOutcome{pass: p, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("convlint check", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// view may quit early; keep the pass from blocking on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.pass, uiErr
	}
	return outcome.pass, outcome.err
}
