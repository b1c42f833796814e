package components

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"table2spatial/internal/models"
)

// StatusBar displays the application status and a busy indicator
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	datasetInfo *widget.Label
	busy        *widget.ProgressBarInfinite
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

// createComponents initializes status bar components
func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.datasetInfo = widget.NewLabel("No table loaded")
	sb.busy = widget.NewProgressBarInfinite()
	sb.busy.Stop()
	sb.busy.Hide()
}

// buildLayout constructs the status bar layout
func (sb *StatusBar) buildLayout() {
	sb.container = container.NewBorder(nil, nil,
		container.NewHBox(sb.statusLabel, widget.NewSeparator(), sb.datasetInfo),
		nil,
		sb.busy,
	)
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetDatasetInfo summarises the loaded table
func (sb *StatusBar) SetDatasetInfo(stats models.DatasetStats) {
	sb.datasetInfo.SetText(DatasetSummary(stats))
}

// GetDatasetInfo returns the dataset summary text
func (sb *StatusBar) GetDatasetInfo() string {
	return sb.datasetInfo.Text
}

// DatasetSummary formats dataset statistics for display.
func DatasetSummary(stats models.DatasetStats) string {
	if stats.Source == "" {
		return "No table loaded"
	}
	text := fmt.Sprintf("%s: %d rows, %d columns", filepath.Base(stats.Source), stats.Rows, stats.Columns)
	if stats.Sheet != "" {
		text = fmt.Sprintf("%s [%s]: %d rows, %d columns", filepath.Base(stats.Source), stats.Sheet, stats.Rows, stats.Columns)
	}
	if stats.HasGeometry {
		text += ", points in " + stats.CRS
	}
	return text
}

// SetBusy shows or hides the busy indicator
func (sb *StatusBar) SetBusy(busy bool) {
	if busy {
		sb.busy.Show()
		sb.busy.Start()
		return
	}
	sb.busy.Stop()
	sb.busy.Hide()
}

// IsBusy reports whether the busy indicator is showing
func (sb *StatusBar) IsBusy() bool {
	return sb.busy.Visible()
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
