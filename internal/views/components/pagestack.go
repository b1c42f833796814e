package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// PageStack shows exactly one of its pages at a time.
type PageStack struct {
	container *fyne.Container
	pages     []fyne.CanvasObject
	current   int
}

func NewPageStack(pages ...fyne.CanvasObject) *PageStack {
	ps := &PageStack{pages: pages}
	ps.container = container.NewStack(pages...)
	ps.Show(0)
	return ps
}

// Show makes page index visible. Out of range indexes are ignored.
func (ps *PageStack) Show(index int) {
	if index < 0 || index >= len(ps.pages) {
		return
	}
	for i, p := range ps.pages {
		if i == index {
			p.Show()
		} else {
			p.Hide()
		}
	}
	ps.current = index
	ps.container.Refresh()
}

func (ps *PageStack) Current() int {
	return ps.current
}

func (ps *PageStack) Len() int {
	return len(ps.pages)
}

func (ps *PageStack) GetContainer() *fyne.Container {
	return ps.container
}
