package services

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table2spatial/internal/logger"
	"table2spatial/internal/models"
	"table2spatial/internal/plotting"
	"table2spatial/internal/timing"
)

func newPlotService(t *testing.T) *PlotService {
	t.Helper()
	table, err := models.NewTable(
		[]string{"dipdir", "dip", "rake", "trend", "label", "big"},
		[][]string{
			{"90", "30", "10", "45", "a", "400"},
			{"270", "45", "", "180", "b", "10"},
			{"360", "0", "180", "0", "c", "20"},
		},
	)
	require.NoError(t, err)

	repo := models.NewDatasetRepository()
	repo.SetTable(table)
	return NewPlotService(repo, logger.NewNop(), 72)
}

func TestFilterAngleColumns(t *testing.T) {
	s := newPlotService(t)

	az, err := s.FilterAngleColumns(models.AngleAzimuth)
	require.NoError(t, err)
	assert.Equal(t, []string{"dipdir", "dip", "rake", "trend"}, az)

	dip, err := s.FilterAngleColumns(models.AngleDip)
	require.NoError(t, err)
	assert.Equal(t, []string{"dip"}, dip)

	_, err = s.FilterAngleColumns("plunge")
	assert.ErrorIs(t, err, models.ErrUnknownAngleCategory)

	empty := NewPlotService(models.NewDatasetRepository(), logger.NewNop(), 72)
	_, err = empty.FilterAngleColumns(models.AngleDip)
	assert.ErrorIs(t, err, models.ErrNoTable)
}

func TestRenderStereogramFromColumns(t *testing.T) {
	s := newPlotService(t)
	ctx := context.Background()

	for _, name := range models.MeasurementTypeNames() {
		for _, poles := range []bool{false, true} {
			fig, err := s.RenderStereogram(ctx, StereogramRequest{
				MeasurementType: name,
				AzimuthColumn:   "dipdir",
				DipColumn:       "dip",
				RakeColumn:      "rake",
				PlotPoles:       poles,
			})
			require.NoError(t, err, name)
			assert.Equal(t, plotting.KindStereogram, fig.Kind)
		}
	}
}

func TestRenderStereogramErrors(t *testing.T) {
	s := newPlotService(t)
	ctx := context.Background()

	_, err := s.RenderStereogram(ctx, StereogramRequest{MeasurementType: "Folds", AzimuthColumn: "dipdir", DipColumn: "dip"})
	assert.Error(t, err)

	_, err = s.RenderStereogram(ctx, StereogramRequest{
		MeasurementType: "Lines on planes (strike/dip/rake)",
		AzimuthColumn:   "dipdir",
		DipColumn:       "dip",
	})
	assert.Error(t, err)

	_, err = s.RenderStereogram(ctx, StereogramRequest{
		MeasurementType: "Planes (strike/dip)",
		AzimuthColumn:   "label",
		DipColumn:       "dip",
	})
	assert.Error(t, err)

	_, err = s.RenderStereogram(ctx, StereogramRequest{
		MeasurementType: "Planes (strike/dip)",
		AzimuthColumn:   "missing",
		DipColumn:       "dip",
	})
	assert.ErrorIs(t, err, models.ErrUnknownColumn)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.RenderStereogram(cancelled, StereogramRequest{
		MeasurementType: "Planes (strike/dip)",
		AzimuthColumn:   "dipdir",
		DipColumn:       "dip",
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompleteRowsSkipsNulls(t *testing.T) {
	table, err := models.NewTable([]string{"a", "b"}, [][]string{{"1", "2"}, {"", "3"}, {"4", ""}, {"5", "6"}})
	require.NoError(t, err)

	values, skipped, err := completeRows(table, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, [][]float64{{1, 5}, {2, 6}}, values)
}

func TestRenderRoseFromColumn(t *testing.T) {
	s := newPlotService(t)
	timer := timing.NewTracker(logger.NewNop())
	s.SetTimer(timer)

	fig, err := s.RenderRose(context.Background(), RoseRequest{AzimuthColumn: "trend", BinWidth: 15, Bidirectional: true})
	require.NoError(t, err)
	assert.Equal(t, plotting.KindRose, fig.Kind)

	_, err = s.RenderRose(context.Background(), RoseRequest{AzimuthColumn: "trend", BinWidth: 7})
	assert.Error(t, err)

	stats, ok := timer.Stats("plot.rose")
	require.True(t, ok)
	assert.Equal(t, 2, stats.Count)
}

func TestSaveFigure(t *testing.T) {
	s := newPlotService(t)

	var buf bytes.Buffer
	assert.ErrorIs(t, s.Save(nil, &buf, "png"), ErrNoFigure)

	fig, err := s.RenderStereogram(context.Background(), StereogramRequest{
		MeasurementType: "Planes (dip direction/dip)",
		AzimuthColumn:   "dipdir",
		DipColumn:       "dip",
		PlotPoles:       true,
	})
	require.NoError(t, err)

	require.NoError(t, s.Save(fig, &buf, "png"))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 360, img.Bounds().Dx())

	assert.ErrorIs(t, s.Save(fig, &buf, "gif"), plotting.ErrUnsupportedFormat)
}
