package views

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"table2spatial/internal/models"
	"table2spatial/internal/services"
	"table2spatial/internal/views/components"
)

// Main window pages.
const (
	PageColumns = iota
	PageImport
	PageReproject
)

const noColumn = "(none)"

// ImportExtensions are the file types offered by the import and merge dialogs.
var ImportExtensions = []string{".csv", ".txt", ".tsv", ".xlsx", ".xlsm"}

// MainView represents the main application window
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	pages         *components.PageStack
	statusBar     *components.StatusBar

	// Column list page
	columnList  *fyne.Container
	rows        []*components.ListRow
	emptyNotice *widget.Label

	// Import page
	importSource  *widget.Label
	sheetSelect   *widget.Select
	crsSelect     *widget.SelectEntry
	xSelect       *widget.Select
	ySelect       *widget.Select
	zSelect       *widget.Select
	dmsCheck      *widget.Check
	noCoordsCheck *widget.Check
	importOK      *widget.Button
	importCancel  *widget.Button

	// Reprojection page
	sourceCRS       *widget.Label
	targetCRS       *widget.SelectEntry
	saveCoordsCheck *widget.Check
	xColumnEntry    *widget.Entry
	yColumnEntry    *widget.Entry
	zColumnEntry    *widget.Entry
	reprojectOK     *widget.Button
	reprojectCancel *widget.Button

	// Event handlers - connected to controller
	importSheetHandler      func(string)
	importConfirmHandler    func(services.ImportOptions)
	importCancelHandler     func()
	reprojectConfirmHandler func(services.ReprojectOptions)
	reprojectCancelHandler  func()
	typeChangeHandler       func(name, key string)
	renameHandler           func(oldName, newName string)
	deleteHandler           func(name string)
	uniquesHandler          func(name string)
}

// NewMainView creates the main view and sets it as the window content
func NewMainView(window fyne.Window) *MainView {
	view := &MainView{window: window}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

// initializeComponents creates all UI components
func (mv *MainView) initializeComponents() {
	mv.toolbar = components.NewToolbar()
	mv.statusBar = components.NewStatusBar()

	mv.emptyNotice = widget.NewLabel("Import a CSV or spreadsheet file to list its columns.")
	mv.columnList = container.NewVBox(mv.emptyNotice)

	mv.importSource = widget.NewLabel("")
	mv.sheetSelect = widget.NewSelect(nil, nil)
	mv.crsSelect = widget.NewSelectEntry(models.CRSLabels())
	mv.xSelect = widget.NewSelect(nil, nil)
	mv.ySelect = widget.NewSelect(nil, nil)
	mv.zSelect = widget.NewSelect(nil, nil)
	mv.dmsCheck = widget.NewCheck("Coordinates in degrees, minutes and seconds", nil)
	mv.noCoordsCheck = widget.NewCheck("Table has no coordinates", nil)
	mv.importOK = widget.NewButton("OK", nil)
	mv.importOK.Importance = widget.HighImportance
	mv.importCancel = widget.NewButton("Cancel", nil)

	mv.sourceCRS = widget.NewLabel("")
	mv.targetCRS = widget.NewSelectEntry(models.CRSLabels())
	mv.saveCoordsCheck = widget.NewCheck("Save coordinates as columns", nil)
	mv.xColumnEntry = widget.NewEntry()
	mv.yColumnEntry = widget.NewEntry()
	mv.zColumnEntry = widget.NewEntry()
	mv.zColumnEntry.SetPlaceHolder("optional")
	mv.setSaveCoordinates(false)
	mv.reprojectOK = widget.NewButton("OK", nil)
	mv.reprojectOK.Importance = widget.HighImportance
	mv.reprojectCancel = widget.NewButton("Cancel", nil)
}

// buildLayout constructs the main layout
func (mv *MainView) buildLayout() {
	columnsPage := container.NewVScroll(mv.columnList)

	importPage := container.NewVBox(
		mv.importSource,
		widget.NewForm(
			widget.NewFormItem("Sheet", mv.sheetSelect),
			widget.NewFormItem("CRS", mv.crsSelect),
			widget.NewFormItem("X", mv.xSelect),
			widget.NewFormItem("Y", mv.ySelect),
			widget.NewFormItem("Z", mv.zSelect),
		),
		mv.dmsCheck,
		mv.noCoordsCheck,
		container.NewHBox(mv.importOK, mv.importCancel),
	)

	reprojectPage := container.NewVBox(
		mv.sourceCRS,
		widget.NewForm(
			widget.NewFormItem("Target CRS", mv.targetCRS),
		),
		mv.saveCoordsCheck,
		widget.NewForm(
			widget.NewFormItem("X column", mv.xColumnEntry),
			widget.NewFormItem("Y column", mv.yColumnEntry),
			widget.NewFormItem("Z column", mv.zColumnEntry),
		),
		container.NewHBox(mv.reprojectOK, mv.reprojectCancel),
	)

	mv.pages = components.NewPageStack(columnsPage, importPage, reprojectPage)

	mv.mainContainer = container.NewBorder(
		mv.toolbar.GetContainer(),
		mv.statusBar.GetContainer(),
		nil,
		nil,
		mv.pages.GetContainer(),
	)

	mv.window.SetContent(mv.mainContainer)
}

// setupEventHandlers connects internal component events
func (mv *MainView) setupEventHandlers() {
	mv.sheetSelect.OnChanged = func(sheet string) {
		if sheet != "" && mv.importSheetHandler != nil {
			mv.importSheetHandler(sheet)
		}
	}

	mv.noCoordsCheck.OnChanged = func(checked bool) {
		for _, w := range []fyne.Disableable{mv.crsSelect, mv.xSelect, mv.ySelect, mv.zSelect, mv.dmsCheck} {
			if checked {
				w.Disable()
			} else {
				w.Enable()
			}
		}
	}

	mv.importOK.OnTapped = func() {
		if mv.importConfirmHandler != nil {
			mv.importConfirmHandler(mv.ImportOptions())
		}
	}

	mv.importCancel.OnTapped = func() {
		mv.ShowPage(PageColumns)
		if mv.importCancelHandler != nil {
			mv.importCancelHandler()
		}
	}

	mv.saveCoordsCheck.OnChanged = mv.setSaveCoordinates

	mv.reprojectOK.OnTapped = func() {
		if mv.reprojectConfirmHandler != nil {
			mv.reprojectConfirmHandler(mv.ReprojectOptions())
		}
	}

	mv.reprojectCancel.OnTapped = func() {
		mv.ShowPage(PageColumns)
		if mv.reprojectCancelHandler != nil {
			mv.reprojectCancelHandler()
		}
	}
}

// Event handler setters - called by controller

func (mv *MainView) Toolbar() *components.Toolbar {
	return mv.toolbar
}

func (mv *MainView) SetImportSheetHandler(handler func(string)) {
	mv.importSheetHandler = handler
}

func (mv *MainView) SetImportConfirmHandler(handler func(services.ImportOptions)) {
	mv.importConfirmHandler = handler
}

func (mv *MainView) SetImportCancelHandler(handler func()) {
	mv.importCancelHandler = handler
}

func (mv *MainView) SetReprojectConfirmHandler(handler func(services.ReprojectOptions)) {
	mv.reprojectConfirmHandler = handler
}

func (mv *MainView) SetReprojectCancelHandler(handler func()) {
	mv.reprojectCancelHandler = handler
}

func (mv *MainView) SetColumnTypeHandler(handler func(name, key string)) {
	mv.typeChangeHandler = handler
}

func (mv *MainView) SetRenameHandler(handler func(oldName, newName string)) {
	mv.renameHandler = handler
}

func (mv *MainView) SetDeleteHandler(handler func(name string)) {
	mv.deleteHandler = handler
}

func (mv *MainView) SetUniquesHandler(handler func(name string)) {
	mv.uniquesHandler = handler
}

// UI update methods - called by controller

// ShowPage switches the page stack.
func (mv *MainView) ShowPage(page int) {
	mv.pages.Show(page)
}

func (mv *MainView) CurrentPage() int {
	return mv.pages.Current()
}

// PrepareImport fills the import page for a freshly opened file.
func (mv *MainView) PrepareImport(source string, sheets []string, crs string) {
	mv.importSource.SetText("File: " + source)
	mv.crsSelect.SetText(crs)
	mv.dmsCheck.SetChecked(false)
	mv.noCoordsCheck.SetChecked(false)

	mv.sheetSelect.ClearSelected()
	mv.sheetSelect.SetOptions(sheets)
	if len(sheets) > 1 {
		mv.sheetSelect.Enable()
	} else {
		mv.sheetSelect.Disable()
	}
	if len(sheets) > 0 {
		mv.sheetSelect.SetSelected(sheets[0])
	}
}

// SetImportColumns offers the columns of the selected sheet as coordinates.
func (mv *MainView) SetImportColumns(columns []string) {
	mv.xSelect.SetOptions(columns)
	mv.ySelect.SetOptions(columns)
	mv.zSelect.SetOptions(append([]string{noColumn}, columns...))
	mv.xSelect.ClearSelected()
	mv.ySelect.ClearSelected()
	mv.zSelect.SetSelected(noColumn)

	for _, name := range columns {
		switch name {
		case "x", "X", "lon", "longitude", "Longitude", "Long", "E", "Este", "Easting":
			mv.xSelect.SetSelected(name)
		case "y", "Y", "lat", "latitude", "Latitude", "Lat", "N", "Norte", "Northing":
			mv.ySelect.SetSelected(name)
		}
	}
}

// SelectImportColumns sets the coordinate selectors; z may be empty.
func (mv *MainView) SelectImportColumns(x, y, z string) {
	mv.xSelect.SetSelected(x)
	mv.ySelect.SetSelected(y)
	if z == "" {
		z = noColumn
	}
	mv.zSelect.SetSelected(z)
}

// SetNoCoordinates ticks the "no coordinates" box.
func (mv *MainView) SetNoCoordinates(none bool) {
	mv.noCoordsCheck.SetChecked(none)
}

// ImportOptions reads the import page.
func (mv *MainView) ImportOptions() services.ImportOptions {
	z := mv.zSelect.Selected
	if z == noColumn {
		z = ""
	}
	return services.ImportOptions{
		Sheet:         mv.sheetSelect.Selected,
		CRS:           mv.crsSelect.Text,
		X:             mv.xSelect.Selected,
		Y:             mv.ySelect.Selected,
		Z:             z,
		DMS:           mv.dmsCheck.Checked,
		NoCoordinates: mv.noCoordsCheck.Checked,
	}
}

// PrepareReproject fills the reprojection page.
func (mv *MainView) PrepareReproject(source, target string) {
	mv.sourceCRS.SetText("Current CRS: " + source)
	mv.targetCRS.SetText(target)
	mv.xColumnEntry.SetText("X")
	mv.yColumnEntry.SetText("Y")
	mv.zColumnEntry.SetText("")
	mv.saveCoordsCheck.SetChecked(false)
	mv.setSaveCoordinates(false)
}

// SetReprojectTarget fills the reprojection page fields. Coordinate columns
// are saved when x and y are both given.
func (mv *MainView) SetReprojectTarget(target, x, y, z string) {
	mv.targetCRS.SetText(target)
	mv.xColumnEntry.SetText(x)
	mv.yColumnEntry.SetText(y)
	mv.zColumnEntry.SetText(z)
	mv.saveCoordsCheck.SetChecked(x != "" && y != "")
}

func (mv *MainView) setSaveCoordinates(save bool) {
	for _, e := range []*widget.Entry{mv.xColumnEntry, mv.yColumnEntry, mv.zColumnEntry} {
		if save {
			e.Enable()
		} else {
			e.Disable()
		}
	}
}

func (mv *MainView) ReprojectOptions() services.ReprojectOptions {
	opts := services.ReprojectOptions{TargetCRS: mv.targetCRS.Text}
	if mv.saveCoordsCheck.Checked {
		opts.SaveColumns = true
		opts.XColumn = mv.xColumnEntry.Text
		opts.YColumn = mv.yColumnEntry.Text
		opts.ZColumn = mv.zColumnEntry.Text
	}
	return opts
}

// SetColumns rebuilds the column list.
func (mv *MainView) SetColumns(infos []components.ColumnInfo) {
	mv.rows = make([]*components.ListRow, len(infos))
	objects := make([]fyne.CanvasObject, 0, len(infos))
	for i, info := range infos {
		row := components.NewListRow(info)
		row.SetTypeChangeHandler(func(name, key string) {
			if mv.typeChangeHandler != nil {
				mv.typeChangeHandler(name, key)
			}
		})
		row.SetRenameHandler(mv.askRename)
		row.SetDeleteHandler(mv.askDelete)
		row.SetUniquesHandler(func(name string) {
			if mv.uniquesHandler != nil {
				mv.uniquesHandler(name)
			}
		})
		mv.rows[i] = row
		objects = append(objects, row.GetContainer())
	}
	if len(objects) == 0 {
		objects = append(objects, mv.emptyNotice)
	}
	mv.columnList.Objects = objects
	mv.columnList.Refresh()
}

// Rows returns the rows of the column list.
func (mv *MainView) Rows() []*components.ListRow {
	return mv.rows
}

func (mv *MainView) askRename(name string) {
	entry := widget.NewEntry()
	entry.SetText(name)
	dialog.ShowForm("Rename column", "Rename", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(ok bool) {
			if ok && mv.renameHandler != nil {
				mv.renameHandler(name, entry.Text)
			}
		}, mv.window)
}

func (mv *MainView) askDelete(name string) {
	dialog.ShowConfirm("Delete column", "Delete column \""+name+"\"?", func(ok bool) {
		if ok && mv.deleteHandler != nil {
			mv.deleteHandler(name)
		}
	}, mv.window)
}

// AskMergeKey asks for the sheet and key column to join on. keysFor lists the
// common columns of a sheet.
func (mv *MainView) AskMergeKey(sheets []string, keysFor func(string) ([]string, error), onConfirm func(sheet, key string), onCancel func()) {
	keySelect := widget.NewSelect(nil, nil)
	sheetSelect := widget.NewSelect(sheets, func(sheet string) {
		keys, err := keysFor(sheet)
		if err != nil {
			keys = nil
		}
		keySelect.SetOptions(keys)
		keySelect.ClearSelected()
		if len(keys) > 0 {
			keySelect.SetSelected(keys[0])
		}
	})
	if len(sheets) > 0 {
		sheetSelect.SetSelected(sheets[0])
	}

	dialog.ShowForm("Merge", "Merge", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Sheet", sheetSelect),
			widget.NewFormItem("Common field", keySelect),
		},
		func(ok bool) {
			if !ok {
				onCancel()
				return
			}
			onConfirm(sheetSelect.Selected, keySelect.Selected)
		}, mv.window)
}

// ShowUniques opens a popup window listing a column's distinct values.
func (mv *MainView) ShowUniques(column string, values []string, hasNull bool) *components.ListWindow {
	lw := components.NewListWindow(fyne.CurrentApp().NewWindow(column), column, values, hasNull)
	lw.Show()
	return lw
}

// ShowFileOpen asks for a file to read.
func (mv *MainView) ShowFileOpen(extensions []string, callback func(fyne.URIReadCloser, error)) {
	d := dialog.NewFileOpen(callback, mv.window)
	d.SetFilter(storage.NewExtensionFileFilter(extensions))
	d.Show()
}

// ShowFileSave asks for a file to write.
func (mv *MainView) ShowFileSave(fileName string, callback func(fyne.URIWriteCloser, error)) {
	d := dialog.NewFileSave(callback, mv.window)
	d.SetFileName(fileName)
	d.Show()
}

// SetDatasetLoaded updates the toolbar for a loaded or empty dataset.
func (mv *MainView) SetDatasetLoaded(loaded bool) {
	mv.toolbar.SetDatasetLoaded(loaded)
}

func (mv *MainView) SetReprojectAllowed(allowed bool) {
	mv.toolbar.SetReprojectAllowed(allowed)
}

func (mv *MainView) SetDatasetInfo(stats models.DatasetStats) {
	mv.statusBar.SetDatasetInfo(stats)
}

// UpdateStatus updates the bottom label
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

func (mv *MainView) Status() string {
	return mv.statusBar.GetStatus()
}

// SetBusy toggles the busy indicator
func (mv *MainView) SetBusy(busy bool) {
	mv.statusBar.SetBusy(busy)
}

func (mv *MainView) IsBusy() bool {
	return mv.statusBar.IsBusy()
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	d := dialog.NewError(err, mv.window)
	d.Show()
	mv.UpdateStatus(title)
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	dialog.ShowConfirm(title, message, callback, mv.window)
}

// Show shows the main window
func (mv *MainView) Show() {
	mv.window.Show()
}

func (mv *MainView) Window() fyne.Window {
	return mv.window
}
