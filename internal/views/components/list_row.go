package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"table2spatial/internal/models"
)

// ColumnInfo is what a ListRow shows about one column.
type ColumnInfo struct {
	Name     string
	DType    string
	Geometry bool
}

// DTypeIcon returns the icon for a dtype key; unknown keys get a question mark.
func DTypeIcon(key string) fyne.Resource {
	switch key {
	case models.Integer.Key():
		return theme.GridIcon()
	case models.Float.Key():
		return theme.ListIcon()
	case models.Text.Key():
		return theme.DocumentIcon()
	case models.Boolean.Key():
		return theme.ConfirmIcon()
	case models.DateTime.Key():
		return theme.HistoryIcon()
	case models.Geometry.Key():
		return theme.MediaRecordIcon()
	default:
		return theme.QuestionIcon()
	}
}

// ListRow displays one column: its dtype icon, name, dtype selector and an
// actions menu.
type ListRow struct {
	container  *fyne.Container
	icon       *widget.Icon
	nameLabel  *widget.Label
	typeSelect *widget.Select
	menuButton *widget.Button
	menu       *fyne.Menu

	info     ColumnInfo
	updating bool

	typeChangeHandler func(name, key string)
	renameHandler     func(name string)
	deleteHandler     func(name string)
	uniquesHandler    func(name string)
}

func NewListRow(info ColumnInfo) *ListRow {
	row := &ListRow{info: info}
	row.createComponents()
	row.buildLayout()
	row.SetInfo(info)
	return row
}

func (r *ListRow) createComponents() {
	r.icon = widget.NewIcon(theme.QuestionIcon())
	r.nameLabel = widget.NewLabel("")
	r.nameLabel.Truncation = fyne.TextTruncateEllipsis
	r.typeSelect = widget.NewSelect(nil, func(key string) {
		if r.updating || key == r.info.DType {
			return
		}
		if r.typeChangeHandler != nil {
			r.typeChangeHandler(r.info.Name, key)
		}
	})
	r.menuButton = widget.NewButtonWithIcon("", theme.MoreVerticalIcon(), r.showMenu)
	r.menuButton.Importance = widget.LowImportance
}

func (r *ListRow) buildLayout() {
	r.container = container.NewBorder(nil, nil,
		r.icon,
		container.NewHBox(r.typeSelect, r.menuButton),
		r.nameLabel,
	)
}

// SetInfo refreshes the row without firing the type change handler.
func (r *ListRow) SetInfo(info ColumnInfo) {
	r.updating = true
	defer func() { r.updating = false }()

	r.info = info
	r.nameLabel.SetText(info.Name)
	r.icon.SetResource(DTypeIcon(info.DType))

	if info.Geometry {
		r.typeSelect.SetOptions([]string{models.Geometry.Key()})
	} else {
		r.typeSelect.SetOptions(models.DTypeKeys())
	}
	if info.DType == models.Unknown.Key() || info.DType == "" {
		r.typeSelect.ClearSelected()
	} else {
		r.typeSelect.SetSelected(info.DType)
	}

	rename := fyne.NewMenuItem("Rename", r.Rename)
	uniques := fyne.NewMenuItem("Unique values", r.ListUniques)
	rename.Disabled = info.Geometry
	uniques.Disabled = info.Geometry
	r.menu = fyne.NewMenu("", rename, uniques, fyne.NewMenuItem("Delete", r.Delete))
}

func (r *ListRow) Info() ColumnInfo {
	return r.info
}

// SelectedType returns the dtype key shown in the selector.
func (r *ListRow) SelectedType() string {
	return r.typeSelect.Selected
}

// TypeOptions returns the dtype keys offered by the selector.
func (r *ListRow) TypeOptions() []string {
	return r.typeSelect.Options
}

// Icon returns the dtype icon resource.
func (r *ListRow) Icon() fyne.Resource {
	return r.icon.Resource
}

// ChooseType selects a dtype key as the user would.
func (r *ListRow) ChooseType(key string) {
	r.typeSelect.SetSelected(key)
}

func (r *ListRow) showMenu() {
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	c := app.Driver().CanvasForObject(r.menuButton)
	if c == nil {
		return
	}
	pos := app.Driver().AbsolutePositionForObject(r.menuButton).AddXY(0, r.menuButton.Size().Height)
	widget.ShowPopUpMenuAtPosition(r.menu, c, pos)
}

// Rename, Delete and ListUniques fire the row's action handlers.
func (r *ListRow) Rename() {
	if r.renameHandler != nil && !r.info.Geometry {
		r.renameHandler(r.info.Name)
	}
}

func (r *ListRow) Delete() {
	if r.deleteHandler != nil {
		r.deleteHandler(r.info.Name)
	}
}

func (r *ListRow) ListUniques() {
	if r.uniquesHandler != nil && !r.info.Geometry {
		r.uniquesHandler(r.info.Name)
	}
}

func (r *ListRow) SetTypeChangeHandler(handler func(name, key string)) {
	r.typeChangeHandler = handler
}

func (r *ListRow) SetRenameHandler(handler func(name string)) {
	r.renameHandler = handler
}

func (r *ListRow) SetDeleteHandler(handler func(name string)) {
	r.deleteHandler = handler
}

func (r *ListRow) SetUniquesHandler(handler func(name string)) {
	r.uniquesHandler = handler
}

func (r *ListRow) GetContainer() *fyne.Container {
	return r.container
}
