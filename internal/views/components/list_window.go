package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// NullNote is shown under the value list when the column has empty cells.
const NullNote = "The column also has empty cells, which are not listed."

// ListWindow is a popup listing the unique values of a column.
type ListWindow struct {
	window      fyne.Window
	list        *widget.List
	countLabel  *widget.Label
	note        *widget.Label
	closeButton *widget.Button
	values      []string
}

func NewListWindow(window fyne.Window, column string, values []string, hasNull bool) *ListWindow {
	lw := &ListWindow{window: window, values: values}

	lw.list = widget.NewList(
		func() int { return len(lw.values) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(lw.values[id])
		},
	)
	lw.countLabel = widget.NewLabel(fmt.Sprintf("%d unique values", len(values)))
	lw.note = widget.NewLabel(NullNote)
	lw.note.Wrapping = fyne.TextWrapWord
	if !hasNull {
		lw.note.Hide()
	}
	lw.closeButton = widget.NewButton("Close", lw.Close)

	window.SetTitle(column)
	window.SetContent(container.NewBorder(
		lw.countLabel,
		container.NewVBox(lw.note, container.NewHBox(lw.closeButton)),
		nil, nil,
		lw.list,
	))
	window.Resize(fyne.NewSize(280, 360))
	return lw
}

func (lw *ListWindow) Show() {
	lw.window.Show()
}

func (lw *ListWindow) Close() {
	lw.window.Close()
}

func (lw *ListWindow) Values() []string {
	return lw.values
}

// NoteVisible reports whether the empty-cells note is shown.
func (lw *ListWindow) NoteVisible() bool {
	return lw.note.Visible()
}
