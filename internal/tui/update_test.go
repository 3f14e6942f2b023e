package tui

import (
	"os"
	"path/filepath"
	"testing"

	"blockpatch/internal/patcher"

	tea "github.com/charmbracelet/bubbletea"
)

// newTestPlan plans a patch against a temporary file without writing it.
func newTestPlan(t *testing.T) *patcher.Plan {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.js")
	content := "// header\nfunction A(){\n  return 0;\n}\n\nfunction B(){}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	plan, err := patcher.NewPatcher(nil, nil).Plan(path,
		patcher.Pattern{Start: "function A(", End: "function B"},
		"function A(){\n  return 1;\n}\n\n")
	if err != nil {
		t.Fatalf("failed to plan patch: %v", err)
	}
	return plan
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestHandleKeyMsg_Decisions(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want Decision
	}{
		{"y approves", runeKey("y"), DecisionApprove},
		{"enter approves", tea.KeyMsg{Type: tea.KeyEnter}, DecisionApprove},
		{"n aborts", runeKey("n"), DecisionAbort},
		{"q aborts", runeKey("q"), DecisionAbort},
		{"esc aborts", tea.KeyMsg{Type: tea.KeyEsc}, DecisionAbort},
		{"ctrl+c aborts", tea.KeyMsg{Type: tea.KeyCtrlC}, DecisionAbort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := InitialModel(newTestPlan(t), 80, 24)
			m, cmd := Update(m, tt.key)
			if m.Decision != tt.want {
				t.Errorf("Decision = %v, want %v", m.Decision, tt.want)
			}
			if !isQuit(cmd) {
				t.Error("expected the program to quit after a decision")
			}
		})
	}
}

func TestHandleKeyMsg_OtherKeysKeepPending(t *testing.T) {
	m := InitialModel(newTestPlan(t), 80, 24)
	m, cmd := Update(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Decision != DecisionPending {
		t.Errorf("Decision = %v, want pending", m.Decision)
	}
	if isQuit(cmd) {
		t.Error("scrolling must not quit")
	}
}

func TestHandleKeyMsg_DecisionIsFinal(t *testing.T) {
	m := InitialModel(newTestPlan(t), 80, 24)
	m, _ = Update(m, runeKey("n"))
	m, _ = Update(m, runeKey("y"))
	if m.Decision != DecisionAbort {
		t.Errorf("Decision = %v, want abort to stick", m.Decision)
	}
}

func TestHandleWindowResize(t *testing.T) {
	m := InitialModel(newTestPlan(t), 80, 24)
	m, _ = Update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.viewport.Width != 120 || m.viewport.Height != 40-chromeHeight {
		t.Errorf("viewport = %dx%d, want 120x%d", m.viewport.Width, m.viewport.Height, 40-chromeHeight)
	}

	m, _ = Update(m, tea.WindowSizeMsg{Width: 20, Height: 2})
	if m.viewport.Height != 3 {
		t.Errorf("viewport height = %d, want minimum of 3", m.viewport.Height)
	}
}
