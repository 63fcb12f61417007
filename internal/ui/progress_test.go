package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	events := make(chan Event)
	model := NewProgressModel("convlint check", []string{"A.cs", "B.cs"}, events)
	m := model.(*progressModel)

	m.Update(eventMsg{File: "A.cs", Stage: StageAnalyze, Status: StatusWorking})
	assert.Equal(t, "analyzing", m.items[0].status)
	assert.InDelta(t, 0.2, m.percent(), 1e-9)

	m.Update(eventMsg{File: "A.cs", Stage: StageAnalyze, Status: StatusDone, Diagnostics: 3})
	m.Update(eventMsg{File: "B.cs", Stage: StageLoad, Status: StatusError})
	m.Update(eventMsg{File: "unknown.cs", Status: StatusDone})
	m.Update(eventMsg{Stage: StageFix, Status: StatusWorking})
	assert.Equal(t, "fixing", m.stageLabel)
	assert.InDelta(t, 1.0, m.percent(), 1e-9)

	view := m.View()
	assert.Contains(t, view, "convlint check (fixing)")
	assert.Contains(t, view, "A.cs")
	assert.Contains(t, view, "     3")
	assert.Contains(t, view, "error")

	_, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, strings.Contains(m.View(), "done: convlint check"))
}

func TestListenForEventClosesModel(t *testing.T) {
	events := make(chan Event)
	close(events)
	m := NewProgressModel("x", []string{"A.cs"}, events).(*progressModel)
	assert.IsType(t, doneMsg{}, m.listenForEvent()())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Assets/Player.cs", truncate("Assets/Player.cs", 0))
	assert.Equal(t, "Asset...", truncate("Assets/Player.cs", 8))
	assert.Equal(t, "Ass", truncate("Assets/Player.cs", 3))
	assert.Empty(t, NewProgressModel("x", nil, nil).View())
}
