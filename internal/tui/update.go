package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all Bubbletea update logic for the review model.
func Update(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(m, msg)
	case tea.WindowSizeMsg:
		return handleWindowResize(m, msg)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// HandleKeyMsg approves on y/enter, aborts on n/q/esc/ctrl+c and passes
// everything else to the viewport for scrolling.
func HandleKeyMsg(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	if m.Decision != DecisionPending {
		return m, nil
	}
	switch msg.String() {
	case "y", "Y", "enter":
		m.Decision = DecisionApprove
		return m, tea.Quit
	case "n", "N", "q", "esc", "ctrl+c":
		m.Decision = DecisionAbort
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func handleWindowResize(m model, msg tea.WindowSizeMsg) (model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.viewport.Width = msg.Width
	m.viewport.Height = max(msg.Height-chromeHeight, 3)
	m.viewport.SetContent(renderPreview(m.plan, msg.Width))
	return m, nil
}
