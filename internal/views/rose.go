package views

import (
	"image"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"table2spatial/internal/services"
	"table2spatial/internal/views/components"
)

// RoseBinWidths are the sector widths offered, in degrees.
var RoseBinWidths = []string{"5", "10", "15", "20", "30", "45"}

// RoseWindow asks for an azimuth column and shows the rose diagram.
type RoseWindow struct {
	window fyne.Window
	pages  *components.PageStack
	busy   *widget.ProgressBarInfinite

	azimuthSelect *widget.Select
	binSelect     *widget.Select
	bidirCheck    *widget.Check
	okButton      *widget.Button
	display       *components.PlotDisplay

	renderHandler func(services.RoseRequest)
	saveHandler   func()
}

func NewRoseWindow(window fyne.Window) *RoseWindow {
	rw := &RoseWindow{window: window}

	rw.azimuthSelect = widget.NewSelect(nil, nil)
	rw.binSelect = widget.NewSelect(RoseBinWidths, nil)
	rw.binSelect.SetSelected("10")
	rw.bidirCheck = widget.NewCheck("Bidirectional", nil)
	rw.okButton = widget.NewButton("OK", func() {
		if rw.renderHandler != nil {
			rw.renderHandler(rw.Request())
		}
	})
	rw.okButton.Importance = widget.HighImportance
	rw.busy = widget.NewProgressBarInfinite()
	rw.busy.Stop()
	rw.busy.Hide()

	rw.display = components.NewPlotDisplay(PreviewWidth)
	rw.display.SetSaveHandler(func() {
		if rw.saveHandler != nil {
			rw.saveHandler()
		}
	})

	configPage := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Azimuths", rw.azimuthSelect),
			widget.NewFormItem("Sector width", rw.binSelect),
		),
		rw.bidirCheck,
		container.NewHBox(rw.okButton),
		rw.busy,
	)
	resultPage := rw.display.GetContainer()
	rw.pages = components.NewPageStack(configPage, resultPage)

	window.SetTitle("Rose diagram")
	window.SetContent(rw.pages.GetContainer())
	window.Resize(fyne.NewSize(420, 480))
	return rw
}

func (rw *RoseWindow) SetRenderHandler(handler func(services.RoseRequest)) {
	rw.renderHandler = handler
}

func (rw *RoseWindow) SetSaveHandler(handler func()) {
	rw.saveHandler = handler
}

func (rw *RoseWindow) SetColumnOptions(azimuths []string) {
	rw.azimuthSelect.SetOptions(azimuths)
	rw.azimuthSelect.ClearSelected()
	if len(azimuths) > 0 {
		rw.azimuthSelect.SetSelected(azimuths[0])
	}
}

func (rw *RoseWindow) SelectColumn(azimuth string) {
	rw.azimuthSelect.SetSelected(azimuth)
}

// SetBinning selects the sector width and direction mode.
func (rw *RoseWindow) SetBinning(width float64, bidirectional bool) {
	rw.binSelect.SetSelected(strconv.FormatFloat(width, 'f', -1, 64))
	rw.bidirCheck.SetChecked(bidirectional)
}

func (rw *RoseWindow) Request() services.RoseRequest {
	width, err := strconv.ParseFloat(rw.binSelect.Selected, 64)
	if err != nil {
		width = 0
	}
	return services.RoseRequest{
		AzimuthColumn: rw.azimuthSelect.Selected,
		BinWidth:      width,
		Bidirectional: rw.bidirCheck.Checked,
	}
}

func (rw *RoseWindow) ShowResult(img image.Image) {
	rw.display.SetImage(img)
	rw.ShowPage(PageResult)
}

func (rw *RoseWindow) Display() *components.PlotDisplay {
	return rw.display
}

func (rw *RoseWindow) ShowPage(page int) {
	rw.pages.Show(page)
}

func (rw *RoseWindow) CurrentPage() int {
	return rw.pages.Current()
}

func (rw *RoseWindow) SetBusy(busy bool) {
	setBusy(rw.busy, rw.okButton, busy)
}

func (rw *RoseWindow) IsBusy() bool {
	return rw.busy.Visible()
}

func (rw *RoseWindow) ShowError(_ string, err error) {
	dialog.ShowError(err, rw.window)
}

func (rw *RoseWindow) ShowFileSave(fileName string, callback func(fyne.URIWriteCloser, error)) {
	d := dialog.NewFileSave(callback, rw.window)
	d.SetFileName(fileName)
	d.Show()
}

func (rw *RoseWindow) SetCloseHandler(handler func()) {
	rw.window.SetOnClosed(handler)
}

func (rw *RoseWindow) Show() {
	rw.window.Show()
}

func (rw *RoseWindow) Close() {
	rw.window.Close()
}
