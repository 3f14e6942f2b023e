// Package tui shows a pending patch and asks the operator to approve it.
package tui

import (
	"fmt"

	"blockpatch/internal/patcher"

	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the TUI model and returns any initial commands to run.
func (m model) Init() tea.Cmd {
	return nil
}

// Run shows plan full-screen and reports whether the operator approved it.
func Run(plan *patcher.Plan) (bool, error) {
	adapter := &teaModelAdapter{InitialModel(plan, 80, 24)}
	p := tea.NewProgram(adapter, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return false, fmt.Errorf("review screen failed: %w", err)
	}
	return adapter.m.Decision == DecisionApprove, nil
}

// teaModelAdapter adapts our model to the tea.Model interface using Update and ModelView.
type teaModelAdapter struct {
	m model
}

func (a *teaModelAdapter) Init() tea.Cmd {
	return a.m.Init()
}

func (a *teaModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m2, cmd := Update(a.m, msg)
	a.m = m2
	return a, cmd
}

func (a *teaModelAdapter) View() string {
	return ModelView(a.m)
}
