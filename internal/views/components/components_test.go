package components

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table2spatial/internal/models"
)

func TestToolbarState(t *testing.T) {
	test.NewTempApp(t)
	tb := NewToolbar()

	assert.True(t, tb.mergeButton.Disabled())
	assert.True(t, tb.exportButton.Disabled())
	assert.True(t, tb.graphButton.Disabled())
	assert.True(t, tb.reprojectButton.Disabled())
	assert.False(t, tb.importButton.Disabled())

	tb.SetDatasetLoaded(true)
	assert.False(t, tb.exportButton.Disabled())
	assert.True(t, tb.reprojectButton.Disabled(), "reprojection also needs point geometry")

	tb.SetReprojectAllowed(true)
	assert.False(t, tb.reprojectButton.Disabled())

	imported := 0
	tb.SetImportHandler(func() { imported++ })
	test.Tap(tb.importButton)
	assert.Equal(t, 1, imported)

	var graph string
	tb.SetGraphHandler(func(g string) { graph = g })
	tb.graphMenu.Items[1].Action()
	assert.Equal(t, GraphRose, graph)
}

func TestPageStack(t *testing.T) {
	test.NewTempApp(t)
	a, b, c := widget.NewLabel("a"), widget.NewLabel("b"), widget.NewLabel("c")
	ps := NewPageStack(a, b, c)

	assert.Equal(t, 0, ps.Current())
	assert.True(t, a.Visible())
	assert.False(t, b.Visible())

	ps.Show(2)
	assert.Equal(t, 2, ps.Current())
	assert.False(t, a.Visible())
	assert.True(t, c.Visible())

	ps.Show(7)
	assert.Equal(t, 2, ps.Current())
	assert.Equal(t, 3, ps.Len())
}

func TestListRow(t *testing.T) {
	test.NewTempApp(t)
	row := NewListRow(ColumnInfo{Name: "dip", DType: models.Float.Key()})

	assert.Equal(t, models.DTypeKeys(), row.TypeOptions())
	assert.Equal(t, models.Float.Key(), row.SelectedType())
	assert.Equal(t, theme.ListIcon(), row.Icon())

	var changed []string
	row.SetTypeChangeHandler(func(name, key string) { changed = append(changed, name, key) })
	row.ChooseType(models.Text.Key())
	assert.Equal(t, []string{"dip", models.Text.Key()}, changed)

	// Refreshing the row must not fire the handler again.
	row.SetInfo(ColumnInfo{Name: "dip", DType: models.Integer.Key()})
	assert.Len(t, changed, 2)

	geom := NewListRow(ColumnInfo{Name: "geometry", DType: models.Geometry.Key(), Geometry: true})
	assert.Equal(t, []string{"POINT"}, geom.TypeOptions())
	renamed := false
	geom.SetRenameHandler(func(string) { renamed = true })
	geom.Rename()
	assert.False(t, renamed)

	unknown := NewListRow(ColumnInfo{Name: "x", DType: models.Unknown.Key()})
	assert.Equal(t, theme.QuestionIcon(), unknown.Icon())
	assert.Empty(t, unknown.SelectedType())
}

func TestListWindow(t *testing.T) {
	app := test.NewTempApp(t)

	lw := NewListWindow(app.NewWindow("values"), "lithology", []string{"gneiss", "granite"}, true)
	assert.True(t, lw.NoteVisible())
	assert.Equal(t, 2, lw.list.Length())

	clean := NewListWindow(app.NewWindow("values"), "id", []string{"1"}, false)
	assert.False(t, clean.NoteVisible())
	test.Tap(clean.closeButton)
}

func TestScalePreview(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 700, 700))
	src.Set(350, 350, color.Black)

	out := ScalePreview(src, 350)
	assert.Equal(t, image.Rect(0, 0, 350, 350), out.Bounds())

	wide := ScalePreview(image.NewNRGBA(image.Rect(0, 0, 100, 50)), 350)
	assert.Equal(t, 175, wide.Bounds().Dy())

	assert.Same(t, src, ScalePreview(src, 700).(*image.NRGBA))
}

func TestPlotDisplay(t *testing.T) {
	test.NewTempApp(t)
	pd := NewPlotDisplay(350)

	saved := 0
	pd.SetSaveHandler(func() { saved++ })
	pd.Save()
	assert.Zero(t, saved, "nothing to save before a plot is shown")

	pd.SetImage(image.NewNRGBA(image.Rect(0, 0, 700, 700)))
	require.NotNil(t, pd.Image())
	assert.Equal(t, 350, pd.Image().Bounds().Dx())

	test.Tap(pd.saveButton)
	assert.Equal(t, 1, saved)
}

func TestStatusBar(t *testing.T) {
	test.NewTempApp(t)
	sb := NewStatusBar()

	assert.False(t, sb.IsBusy())
	sb.SetBusy(true)
	assert.True(t, sb.IsBusy())
	sb.SetBusy(false)
	assert.False(t, sb.IsBusy())

	sb.SetStatus("Table imported")
	assert.Equal(t, "Table imported", sb.GetStatus())

	sb.SetDatasetInfo(models.DatasetStats{Source: "/data/points.csv", Sheet: "CSV", Rows: 3, Columns: 5, HasGeometry: true, CRS: "EPSG:4674"})
	assert.Equal(t, "points.csv [CSV]: 3 rows, 5 columns, points in EPSG:4674", sb.GetDatasetInfo())
	assert.Equal(t, "No table loaded", DatasetSummary(models.DatasetStats{}))
}
