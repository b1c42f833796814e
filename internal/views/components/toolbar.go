package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Graph menu entries.
const (
	GraphStereogram = "Stereogram"
	GraphRose       = "Rose diagram"
)

// Graphs lists the graph menu entries in menu order.
var Graphs = []string{GraphStereogram, GraphRose}

// Toolbar represents the main window toolbar
type Toolbar struct {
	container       *fyne.Container
	importButton    *widget.Button
	mergeButton     *widget.Button
	reprojectButton *widget.Button
	exportButton    *widget.Button
	graphButton     *widget.Button
	graphMenu       *fyne.Menu

	// Event handlers
	importHandler    func()
	mergeHandler     func()
	reprojectHandler func()
	exportHandler    func()
	graphHandler     func(string)

	// State
	datasetLoaded    bool
	reprojectAllowed bool
}

// NewToolbar creates a new toolbar component
func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	toolbar.setupEventHandlers()
	toolbar.updateButtons()
	return toolbar
}

// createComponents initializes all toolbar components
func (t *Toolbar) createComponents() {
	t.importButton = widget.NewButtonWithIcon("Import", theme.FolderOpenIcon(), nil)
	t.importButton.Importance = widget.HighImportance

	t.mergeButton = widget.NewButtonWithIcon("Merge", theme.ContentAddIcon(), nil)
	t.reprojectButton = widget.NewButtonWithIcon("Reproject", theme.ViewRefreshIcon(), nil)
	t.exportButton = widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), nil)
	t.graphButton = widget.NewButtonWithIcon("Graphs", theme.MenuDropDownIcon(), nil)

	items := make([]*fyne.MenuItem, len(Graphs))
	for i, graph := range Graphs {
		graph := graph
		items[i] = fyne.NewMenuItem(graph, func() { t.SelectGraph(graph) })
	}
	t.graphMenu = fyne.NewMenu("", items...)
}

// buildLayout constructs the toolbar layout
func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.importButton,
		t.mergeButton,
		widget.NewSeparator(),
		t.reprojectButton,
		t.exportButton,
		widget.NewSeparator(),
		t.graphButton,
	)
}

// setupEventHandlers connects button events
func (t *Toolbar) setupEventHandlers() {
	t.importButton.OnTapped = func() {
		if t.importHandler != nil {
			t.importHandler()
		}
	}

	t.mergeButton.OnTapped = func() {
		if t.mergeHandler != nil {
			t.mergeHandler()
		}
	}

	t.reprojectButton.OnTapped = func() {
		if t.reprojectHandler != nil {
			t.reprojectHandler()
		}
	}

	t.exportButton.OnTapped = func() {
		if t.exportHandler != nil {
			t.exportHandler()
		}
	}

	t.graphButton.OnTapped = t.showGraphMenu
}

func (t *Toolbar) showGraphMenu() {
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	c := app.Driver().CanvasForObject(t.graphButton)
	if c == nil {
		return
	}
	pos := app.Driver().AbsolutePositionForObject(t.graphButton)
	pos = pos.AddXY(0, t.graphButton.Size().Height)
	widget.ShowPopUpMenuAtPosition(t.graphMenu, c, pos)
}

// SelectGraph runs the graph handler as if the menu entry had been chosen
func (t *Toolbar) SelectGraph(graph string) {
	if t.graphHandler != nil {
		t.graphHandler(graph)
	}
}

// Event handler setters

// SetImportHandler sets the import handler
func (t *Toolbar) SetImportHandler(handler func()) {
	t.importHandler = handler
}

// SetMergeHandler sets the merge handler
func (t *Toolbar) SetMergeHandler(handler func()) {
	t.mergeHandler = handler
}

// SetReprojectHandler sets the reproject handler
func (t *Toolbar) SetReprojectHandler(handler func()) {
	t.reprojectHandler = handler
}

// SetExportHandler sets the export handler
func (t *Toolbar) SetExportHandler(handler func()) {
	t.exportHandler = handler
}

// SetGraphHandler sets the handler for graph menu entries
func (t *Toolbar) SetGraphHandler(handler func(string)) {
	t.graphHandler = handler
}

// State management methods

// SetDatasetLoaded enables the actions that need a table
func (t *Toolbar) SetDatasetLoaded(loaded bool) {
	t.datasetLoaded = loaded
	t.updateButtons()
}

// SetReprojectAllowed enables reprojection for tables with point geometry
func (t *Toolbar) SetReprojectAllowed(allowed bool) {
	t.reprojectAllowed = allowed
	t.updateButtons()
}

// ReprojectEnabled reports whether the reproject button can be pressed
func (t *Toolbar) ReprojectEnabled() bool {
	return !t.reprojectButton.Disabled()
}

func (t *Toolbar) updateButtons() {
	for _, b := range []*widget.Button{t.mergeButton, t.exportButton, t.graphButton} {
		if t.datasetLoaded {
			b.Enable()
		} else {
			b.Disable()
		}
	}
	if t.datasetLoaded && t.reprojectAllowed {
		t.reprojectButton.Enable()
	} else {
		t.reprojectButton.Disable()
	}
}

// GetContainer returns the toolbar container
func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
