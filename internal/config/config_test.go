package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromLookupDefaults(t *testing.T) {
	cfg := fromLookup(env(nil))
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.JSONLogs)
	assert.Equal(t, DefaultPlotDPI, cfg.PlotDPI)
	assert.Equal(t, DefaultRoseBin, cfg.RoseBinWidth)
}

func TestFromLookupOverrides(t *testing.T) {
	cfg := fromLookup(env(map[string]string{
		"DEBUG":                   "1",
		"TABLE2SPATIAL_JSON_LOGS": "true",
		"TABLE2SPATIAL_PLOT_DPI":  "150",
		"TABLE2SPATIAL_ROSE_BIN":  "15",
	}))
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.JSONLogs)
	assert.Equal(t, 150, cfg.PlotDPI)
	assert.Equal(t, 15.0, cfg.RoseBinWidth)
}

func TestFromLookupRejectsBadValues(t *testing.T) {
	cfg := fromLookup(env(map[string]string{
		"LOG_LEVEL":              "error",
		"DEBUG":                  "1",
		"TABLE2SPATIAL_PLOT_DPI": "5",
		"TABLE2SPATIAL_ROSE_BIN": "7",
	}))
	assert.Equal(t, zerolog.ErrorLevel, cfg.LogLevel)
	assert.Equal(t, DefaultPlotDPI, cfg.PlotDPI)
	assert.Equal(t, DefaultRoseBin, cfg.RoseBinWidth)
}

func TestValidRoseBin(t *testing.T) {
	for _, w := range []float64{5, 10, 15, 30, 45, 90} {
		assert.True(t, ValidRoseBin(w), "%v", w)
	}
	for _, w := range []float64{0, -10, 7, 100} {
		assert.False(t, ValidRoseBin(w), "%v", w)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	prefs := NewPreferences(a.Preferences(), fromLookup(env(nil)))
	assert.Equal(t, "fallback", prefs.MeasurementType("fallback"))
	assert.Equal(t, DefaultRoseBin, prefs.RoseBinWidth())

	prefs.SetMeasurementType("Planes (strike/dip)")
	prefs.SetPlotPoles(true)
	prefs.SetRoseBinWidth(7)
	prefs.SetRoseBinWidth(20)
	prefs.SetRoseBidirectional(true)
	prefs.SetLastCRS("EPSG:4326")

	assert.Equal(t, "Planes (strike/dip)", prefs.MeasurementType("fallback"))
	assert.True(t, prefs.PlotPoles())
	assert.Equal(t, 20.0, prefs.RoseBinWidth())
	assert.True(t, prefs.RoseBidirectional())
	assert.Equal(t, "EPSG:4326", prefs.LastCRS(""))
}
