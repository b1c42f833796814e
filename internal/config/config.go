// Package config resolves runtime settings from the environment and keeps
// user choices in the fyne preference store between sessions.
package config

import (
	"os"
	"strconv"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"

	"table2spatial/internal/logger"
)

const (
	DefaultPlotDPI = 300
	DefaultRoseBin = 10.0
)

// Preference keys.
const (
	PrefMeasurementType   = "stereogram.measurement_type"
	PrefPlotPoles         = "stereogram.plot_poles"
	PrefRoseBinWidth      = "rose.bin_width"
	PrefRoseBidirectional = "rose.bidirectional"
	PrefLastCRS           = "import.crs"
)

type Config struct {
	LogLevel     zerolog.Level
	JSONLogs     bool
	PlotDPI      int
	RoseBinWidth float64
}

// FromEnv reads LOG_LEVEL, DEBUG and the TABLE2SPATIAL_* variables.
func FromEnv() Config {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) Config {
	cfg := Config{
		LogLevel:     logger.ParseLevel(getenv("LOG_LEVEL")),
		JSONLogs:     getenv("TABLE2SPATIAL_JSON_LOGS") == "true",
		PlotDPI:      DefaultPlotDPI,
		RoseBinWidth: DefaultRoseBin,
	}

	if getenv("LOG_LEVEL") == "" && getenv("DEBUG") == "1" {
		cfg.LogLevel = zerolog.DebugLevel
	}

	if v, err := strconv.Atoi(getenv("TABLE2SPATIAL_PLOT_DPI")); err == nil && v >= 72 && v <= 1200 {
		cfg.PlotDPI = v
	}

	if v, err := strconv.ParseFloat(getenv("TABLE2SPATIAL_ROSE_BIN"), 64); err == nil && ValidRoseBin(v) {
		cfg.RoseBinWidth = v
	}

	return cfg
}

// ValidRoseBin reports whether width divides the circle into whole bins.
func ValidRoseBin(width float64) bool {
	if width <= 0 || width > 90 {
		return false
	}
	n := 360 / width
	return n == float64(int(n))
}

// Preferences wraps fyne.Preferences with the defaults this application uses.
type Preferences struct {
	store fyne.Preferences
	cfg   Config
}

func NewPreferences(store fyne.Preferences, cfg Config) *Preferences {
	return &Preferences{store: store, cfg: cfg}
}

func (p *Preferences) MeasurementType(fallback string) string {
	return p.store.StringWithFallback(PrefMeasurementType, fallback)
}

func (p *Preferences) SetMeasurementType(name string) {
	p.store.SetString(PrefMeasurementType, name)
}

func (p *Preferences) PlotPoles() bool {
	return p.store.Bool(PrefPlotPoles)
}

func (p *Preferences) SetPlotPoles(v bool) {
	p.store.SetBool(PrefPlotPoles, v)
}

func (p *Preferences) RoseBinWidth() float64 {
	v := p.store.FloatWithFallback(PrefRoseBinWidth, p.cfg.RoseBinWidth)
	if !ValidRoseBin(v) {
		return p.cfg.RoseBinWidth
	}
	return v
}

func (p *Preferences) SetRoseBinWidth(v float64) {
	if ValidRoseBin(v) {
		p.store.SetFloat(PrefRoseBinWidth, v)
	}
}

func (p *Preferences) RoseBidirectional() bool {
	return p.store.Bool(PrefRoseBidirectional)
}

func (p *Preferences) SetRoseBidirectional(v bool) {
	p.store.SetBool(PrefRoseBidirectional, v)
}

func (p *Preferences) LastCRS(fallback string) string {
	return p.store.StringWithFallback(PrefLastCRS, fallback)
}

func (p *Preferences) SetLastCRS(crs string) {
	p.store.SetString(PrefLastCRS, crs)
}

func (p *Preferences) Config() Config {
	return p.cfg
}
