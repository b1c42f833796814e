package views

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"table2spatial/internal/models"
	"table2spatial/internal/services"
	"table2spatial/internal/views/components"
)

// Plot window pages.
const (
	PageConfig = iota
	PageResult
)

// PreviewWidth is the on-screen width of rendered figures.
const PreviewWidth = 350

// StereogramWindow asks for the measurement columns and shows the rendered
// stereogram.
type StereogramWindow struct {
	window fyne.Window
	pages  *components.PageStack
	busy   *widget.ProgressBarInfinite

	measurementSelect *widget.Select
	azimuthLabel      *widget.Label
	azimuthSelect     *widget.Select
	dipLabel          *widget.Label
	dipSelect         *widget.Select
	rakeLabel         *widget.Label
	rakeSelect        *widget.Select
	polesCheck        *widget.Check
	okButton          *widget.Button
	display           *components.PlotDisplay

	measurementHandler func(string)
	renderHandler      func(services.StereogramRequest)
	saveHandler        func()
}

func NewStereogramWindow(window fyne.Window) *StereogramWindow {
	sw := &StereogramWindow{window: window}

	sw.measurementSelect = widget.NewSelect(models.MeasurementTypeNames(), func(name string) {
		if sw.measurementHandler != nil {
			sw.measurementHandler(name)
		}
	})
	sw.azimuthLabel = widget.NewLabel("")
	sw.azimuthSelect = widget.NewSelect(nil, nil)
	sw.dipLabel = widget.NewLabel("")
	sw.dipSelect = widget.NewSelect(nil, nil)
	sw.rakeLabel = widget.NewLabel("")
	sw.rakeSelect = widget.NewSelect(nil, nil)
	sw.polesCheck = widget.NewCheck("Plot poles", nil)
	sw.okButton = widget.NewButton("OK", func() {
		if sw.renderHandler != nil {
			sw.renderHandler(sw.Request())
		}
	})
	sw.okButton.Importance = widget.HighImportance
	sw.busy = widget.NewProgressBarInfinite()
	sw.busy.Stop()
	sw.busy.Hide()

	sw.display = components.NewPlotDisplay(PreviewWidth)
	sw.display.SetSaveHandler(func() {
		if sw.saveHandler != nil {
			sw.saveHandler()
		}
	})

	configPage := container.NewVBox(
		widget.NewLabel("Measurement type:"),
		sw.measurementSelect,
		container.NewGridWithColumns(2,
			sw.azimuthLabel, sw.azimuthSelect,
			sw.dipLabel, sw.dipSelect,
			sw.rakeLabel, sw.rakeSelect,
		),
		sw.polesCheck,
		container.NewHBox(sw.okButton),
		sw.busy,
	)
	resultPage := sw.display.GetContainer()
	sw.pages = components.NewPageStack(configPage, resultPage)

	window.SetTitle("Stereogram")
	window.SetContent(sw.pages.GetContainer())
	window.Resize(fyne.NewSize(420, 480))
	return sw
}

func (sw *StereogramWindow) SetMeasurementHandler(handler func(string)) {
	sw.measurementHandler = handler
}

func (sw *StereogramWindow) SetRenderHandler(handler func(services.StereogramRequest)) {
	sw.renderHandler = handler
}

func (sw *StereogramWindow) SetSaveHandler(handler func()) {
	sw.saveHandler = handler
}

// SelectMeasurementType selects a type as the user would, firing the handler.
func (sw *StereogramWindow) SelectMeasurementType(name string) {
	sw.measurementSelect.SetSelected(name)
}

// ApplyMeasurementType relabels the selectors for mt. The rake selector only
// shows for rake types and the poles option is only enabled for planes.
func (sw *StereogramWindow) ApplyMeasurementType(mt models.MeasurementType) {
	sw.azimuthLabel.SetText(mt.AzimuthLabel())
	sw.dipLabel.SetText(mt.DipLabel())
	sw.rakeLabel.SetText(mt.RakeLabel())

	if mt.HasRake() {
		sw.rakeLabel.Show()
		sw.rakeSelect.Show()
	} else {
		sw.rakeLabel.Hide()
		sw.rakeSelect.Hide()
		sw.rakeSelect.ClearSelected()
	}
	if mt.IsPlane() {
		sw.polesCheck.Enable()
	} else {
		sw.polesCheck.Disable()
	}
}

// SetColumnOptions fills the selectors with the columns valid for each angle.
func (sw *StereogramWindow) SetColumnOptions(azimuths, dips, rakes []string) {
	fill := func(s *widget.Select, options []string) {
		s.SetOptions(options)
		s.ClearSelected()
		if len(options) > 0 {
			s.SetSelected(options[0])
		}
	}
	fill(sw.azimuthSelect, azimuths)
	fill(sw.dipSelect, dips)
	fill(sw.rakeSelect, rakes)
}

func (sw *StereogramWindow) SelectColumns(azimuth, dip, rake string) {
	sw.azimuthSelect.SetSelected(azimuth)
	sw.dipSelect.SetSelected(dip)
	sw.rakeSelect.SetSelected(rake)
}

func (sw *StereogramWindow) SetPlotPoles(poles bool) {
	sw.polesCheck.SetChecked(poles)
}

// Request reads the configuration page.
func (sw *StereogramWindow) Request() services.StereogramRequest {
	req := services.StereogramRequest{
		MeasurementType: sw.measurementSelect.Selected,
		AzimuthColumn:   sw.azimuthSelect.Selected,
		DipColumn:       sw.dipSelect.Selected,
		PlotPoles:       !sw.polesCheck.Disabled() && sw.polesCheck.Checked,
	}
	if sw.rakeSelect.Visible() {
		req.RakeColumn = sw.rakeSelect.Selected
	}
	return req
}

// ShowResult displays a rendered preview on the result page.
func (sw *StereogramWindow) ShowResult(img image.Image) {
	sw.display.SetImage(img)
	sw.ShowPage(PageResult)
}

func (sw *StereogramWindow) Display() *components.PlotDisplay {
	return sw.display
}

func (sw *StereogramWindow) ShowPage(page int) {
	sw.pages.Show(page)
}

func (sw *StereogramWindow) CurrentPage() int {
	return sw.pages.Current()
}

func (sw *StereogramWindow) SetBusy(busy bool) {
	setBusy(sw.busy, sw.okButton, busy)
}

func (sw *StereogramWindow) IsBusy() bool {
	return sw.busy.Visible()
}

func (sw *StereogramWindow) ShowError(_ string, err error) {
	dialog.ShowError(err, sw.window)
}

func (sw *StereogramWindow) ShowFileSave(fileName string, callback func(fyne.URIWriteCloser, error)) {
	d := dialog.NewFileSave(callback, sw.window)
	d.SetFileName(fileName)
	d.Show()
}

func (sw *StereogramWindow) SetCloseHandler(handler func()) {
	sw.window.SetOnClosed(handler)
}

func (sw *StereogramWindow) Show() {
	sw.window.Show()
}

func (sw *StereogramWindow) Close() {
	sw.window.Close()
}

func setBusy(bar *widget.ProgressBarInfinite, button *widget.Button, busy bool) {
	if busy {
		button.Disable()
		bar.Show()
		bar.Start()
		return
	}
	bar.Stop()
	bar.Hide()
	button.Enable()
}
