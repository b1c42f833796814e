package plotting

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table2spatial/internal/models"
)

func TestRenderStereogramLengthMismatch(t *testing.T) {
	cases := []StereogramInput{
		{Azimuths: []float64{1, 2}, Dips: []float64{1}, PlotType: models.PlotPoles, AzimuthType: models.AzimuthStrike},
		{Azimuths: []float64{1}, Dips: []float64{1}, Rakes: []float64{1, 2}, PlotType: models.PlotRakes, AzimuthType: models.AzimuthStrike},
		// Length is checked before the plot type.
		{Azimuths: []float64{1}, Dips: nil, PlotType: "contours", AzimuthType: models.AzimuthStrike},
	}
	for _, in := range cases {
		_, err := RenderStereogram(in)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	}
}

func TestRenderStereogramInvalidPlotType(t *testing.T) {
	_, err := RenderStereogram(StereogramInput{
		Azimuths:    []float64{10},
		Dips:        []float64{20},
		PlotType:    "contours",
		AzimuthType: models.AzimuthStrike,
	})
	assert.ErrorIs(t, err, models.ErrInvalidPlotType)

	_, err = RenderStereogram(StereogramInput{
		Azimuths:    []float64{10},
		Dips:        []float64{20},
		PlotType:    models.PlotPoles,
		AzimuthType: "trend",
	})
	assert.ErrorIs(t, err, models.ErrInvalidAzimuthType)
}

func TestRakePlotNeedsRakes(t *testing.T) {
	_, err := RenderStereogram(StereogramInput{
		Azimuths:    []float64{10},
		Dips:        []float64{20},
		PlotType:    models.PlotRakes,
		AzimuthType: models.AzimuthStrike,
	})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestDipDirectionIsShiftedToStrike(t *testing.T) {
	in := StereogramInput{
		Azimuths:    []float64{90, 45},
		Dips:        []float64{30, 30},
		PlotType:    models.PlotPoles,
		AzimuthType: models.AzimuthDipDirection,
	}
	assert.Equal(t, []float64{0, 315}, in.Strikes())
	assert.Equal(t, []float64{90, 45}, in.Azimuths, "input must not be modified")

	in.PlotType = models.PlotLines
	assert.Equal(t, []float64{0, 315}, in.Strikes())
}

func TestAzimuthTypeIsCaseInsensitive(t *testing.T) {
	in := StereogramInput{
		Azimuths:    []float64{90},
		Dips:        []float64{30},
		PlotType:    models.PlotPoles,
		AzimuthType: "Dip Direction",
	}
	require.NoError(t, in.Validate())
	assert.Equal(t, []float64{0}, in.Strikes())

	norm, err := in.normalized()
	require.NoError(t, err)
	assert.Equal(t, models.AzimuthDipDirection, norm.AzimuthType)

	fig, err := RenderStereogram(in)
	require.NoError(t, err)
	assert.NotNil(t, fig)
}

func TestRenderPolesWritesPNG(t *testing.T) {
	fig, err := RenderStereogram(StereogramInput{
		Azimuths:    []float64{0, 90},
		Dips:        []float64{30, 45},
		PlotType:    models.PlotPoles,
		AzimuthType: models.AzimuthStrike,
	})
	require.NoError(t, err)
	assert.Equal(t, KindStereogram, fig.Kind)

	path := filepath.Join(t.TempDir(), "plots", "stereogram.png")
	require.NoError(t, fig.SaveFile(path, 72))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// Overwrites an existing file.
	require.NoError(t, fig.SaveFile(path, 72))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 360, img.Bounds().Dx())

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a, "corner outside the net must be transparent")
	_, _, _, a = img.At(180, 180).RGBA()
	assert.NotZero(t, a, "net centre is opaque")
}

func TestRenderAllPlotTypes(t *testing.T) {
	for _, pt := range []models.PlotType{models.PlotPlanes, models.PlotPoles, models.PlotLines, models.PlotRakes} {
		in := StereogramInput{
			Azimuths:    []float64{10, 200, 300},
			Dips:        []float64{20, 60, 85},
			PlotType:    pt,
			AzimuthType: models.AzimuthStrike,
		}
		if pt == models.PlotRakes {
			in.Rakes = []float64{0, 90, 180}
		}
		fig, err := RenderStereogram(in)
		require.NoError(t, err, pt)
		assert.NotNil(t, fig.Image(36), pt)
	}
}

func TestFigureSaveFormats(t *testing.T) {
	fig, err := RenderStereogram(StereogramInput{
		Azimuths:    []float64{},
		Dips:        []float64{},
		PlotType:    models.PlotPlanes,
		AzimuthType: models.AzimuthStrike,
	})
	require.NoError(t, err)

	for _, format := range []string{".png", "jpeg", "svg", "pdf"} {
		var buf bytes.Buffer
		require.NoError(t, fig.Save(&buf, format, 36), format)
		assert.NotZero(t, buf.Len(), format)
	}

	var buf bytes.Buffer
	require.NoError(t, fig.Save(&buf, "svg", 36))
	assert.True(t, strings.Contains(buf.String(), "<svg"))

	assert.Equal(t, 140, fig.DPIForWidth(700))
	assert.Equal(t, 700, fig.Image(fig.DPIForWidth(700)).Bounds().Dx())

	assert.ErrorIs(t, fig.Save(&buf, "bmp", 36), ErrUnsupportedFormat)
	assert.ErrorIs(t, fig.SaveFile(filepath.Join(t.TempDir(), "plot.gif"), 36), ErrUnsupportedFormat)
}

func TestRoseBins(t *testing.T) {
	counts, err := RoseBins([]float64{0, 5, 95, 359, 360, -10}, 90, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 0, 2}, counts)

	counts, err = RoseBins([]float64{10, 100}, 90, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1}, counts)

	counts, err = RoseBins(nil, 10, false)
	require.NoError(t, err)
	assert.Len(t, counts, 36)

	_, err = RoseBins([]float64{1}, 7, false)
	assert.Error(t, err)
	_, err = RoseBins([]float64{1}, 0, false)
	assert.Error(t, err)
}

func TestRenderRose(t *testing.T) {
	fig, err := RenderRose(RoseInput{Azimuths: []float64{10, 15, 100, 190}, BinWidth: 10, Bidirectional: true})
	require.NoError(t, err)
	assert.Equal(t, KindRose, fig.Kind)

	var buf bytes.Buffer
	require.NoError(t, fig.Save(&buf, "png", 36))
	assert.NotZero(t, buf.Len())

	_, err = RenderRose(RoseInput{Azimuths: []float64{10}, BinWidth: 11})
	assert.Error(t, err)
}
