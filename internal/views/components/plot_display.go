package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
)

// PlotDisplay shows a rendered figure scaled to a fixed preview width, with
// a save button underneath.
type PlotDisplay struct {
	container   *fyne.Container
	image       *canvas.Image
	saveButton  *widget.Button
	width       int
	saveHandler func()
}

func NewPlotDisplay(width int) *PlotDisplay {
	pd := &PlotDisplay{width: width}
	pd.createComponents()
	pd.buildLayout()
	return pd
}

func (pd *PlotDisplay) createComponents() {
	pd.image = canvas.NewImageFromImage(image.NewNRGBA(image.Rect(0, 0, pd.width, pd.width)))
	pd.image.FillMode = canvas.ImageFillContain
	pd.image.ScaleMode = canvas.ImageScaleSmooth
	pd.image.SetMinSize(fyne.NewSize(float32(pd.width), float32(pd.width)))

	pd.saveButton = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		if pd.saveHandler != nil {
			pd.saveHandler()
		}
	})
	pd.saveButton.Importance = widget.HighImportance
	pd.saveButton.Disable()
}

func (pd *PlotDisplay) buildLayout() {
	background := canvas.NewRectangle(color.White)
	pd.container = container.NewBorder(nil,
		container.NewHBox(pd.saveButton),
		nil, nil,
		container.NewCenter(container.NewStack(background, pd.image)),
	)
}

// SetImage shows img scaled to the preview width and enables saving.
func (pd *PlotDisplay) SetImage(img image.Image) {
	if img == nil {
		return
	}
	preview := ScalePreview(img, pd.width)
	pd.image.Image = preview
	b := preview.Bounds()
	pd.image.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	pd.image.Refresh()
	pd.saveButton.Enable()
}

// Image returns the preview currently shown.
func (pd *PlotDisplay) Image() image.Image {
	return pd.image.Image
}

func (pd *PlotDisplay) SetSaveHandler(handler func()) {
	pd.saveHandler = handler
}

// Save fires the save handler as if the button was tapped.
func (pd *PlotDisplay) Save() {
	if !pd.saveButton.Disabled() && pd.saveHandler != nil {
		pd.saveHandler()
	}
}

func (pd *PlotDisplay) GetContainer() *fyne.Container {
	return pd.container
}

// ScalePreview resizes src to width pixels, keeping its aspect ratio.
// Images already at that width are returned as they are.
func ScalePreview(src image.Image, width int) image.Image {
	b := src.Bounds()
	if width <= 0 || b.Dx() == 0 || b.Dx() == width {
		return src
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
