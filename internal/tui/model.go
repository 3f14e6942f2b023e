package tui

import (
	"blockpatch/internal/patcher"

	"github.com/charmbracelet/bubbles/viewport"
)

// Decision is the operator's answer to the review prompt.
type Decision int

const (
	DecisionPending Decision = iota
	DecisionApprove
	DecisionAbort
)

// chromeHeight is the number of rows used by the header and footer around
// the preview viewport.
const chromeHeight = 6

// model is the Bubbletea model for the review screen.
type model struct {
	plan     *patcher.Plan
	viewport viewport.Model
	width    int
	height   int
	Decision Decision
}

// InitialModel creates the review model for plan sized to width x height.
func InitialModel(plan *patcher.Plan, width, height int) model {
	vp := viewport.New(width, max(height-chromeHeight, 3))
	m := model{
		plan:     plan,
		viewport: vp,
		width:    width,
		height:   height,
	}
	m.viewport.SetContent(renderPreview(plan, width))
	return m
}
