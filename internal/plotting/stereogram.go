package plotting

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"table2spatial/internal/models"
	"table2spatial/internal/stereonet"
)

var ErrLengthMismatch = errors.New("orientation arrays differ in length")

const (
	gridSpacing   = 10.0
	circleSamples = 181
	labelRadius   = 1.1
	axisLimit     = 1.2
)

var (
	inkColor  = color.Black
	gridColor = color.NRGBA{A: 26}
)

// StereogramInput is one stereonet request. Rakes is only read for rake plots.
type StereogramInput struct {
	Azimuths    []float64
	Dips        []float64
	Rakes       []float64
	PlotType    models.PlotType
	AzimuthType models.AzimuthType
}

// Validate checks array lengths first, then the plot and azimuth types.
func (in StereogramInput) Validate() error {
	_, err := in.normalized()
	return err
}

// normalized validates in and returns it with the plot and azimuth types in
// their canonical spelling.
func (in StereogramInput) normalized() (StereogramInput, error) {
	if in.Rakes != nil {
		if len(in.Azimuths) != len(in.Dips) || len(in.Dips) != len(in.Rakes) {
			return in, fmt.Errorf("%w (azimuths=%d, dips=%d, rakes=%d)",
				ErrLengthMismatch, len(in.Azimuths), len(in.Dips), len(in.Rakes))
		}
	} else if len(in.Azimuths) != len(in.Dips) {
		return in, fmt.Errorf("%w (azimuths=%d, dips=%d)", ErrLengthMismatch, len(in.Azimuths), len(in.Dips))
	}

	pt, err := models.ParsePlotType(string(in.PlotType))
	if err != nil {
		return in, err
	}
	at, err := models.ParseAzimuthType(string(in.AzimuthType))
	if err != nil {
		return in, err
	}
	if pt == models.PlotRakes && in.Rakes == nil {
		return in, fmt.Errorf("%w: rake plots need a rake for every plane", ErrLengthMismatch)
	}
	in.PlotType, in.AzimuthType = pt, at
	return in, nil
}

// Strikes returns the input azimuths converted to right-hand-rule strikes.
// Dip directions are rotated by -90 degrees whatever the plot type.
func (in StereogramInput) Strikes() []float64 {
	kind, err := models.ParseAzimuthType(string(in.AzimuthType))
	if err != nil {
		kind = in.AzimuthType
	}
	out := make([]float64, len(in.Azimuths))
	for i, az := range in.Azimuths {
		out[i] = stereonet.ToStrike(az, kind)
	}
	return out
}

// RenderStereogram draws poles, planes, lines or planes with rakes on an
// equal-area net with compass labels.
func RenderStereogram(in StereogramInput) (*Figure, error) {
	in, err := in.normalized()
	if err != nil {
		return nil, err
	}

	p, err := newNetPlot()
	if err != nil {
		return nil, err
	}

	grid, err := netLines(stereonet.Graticule(gridSpacing, circleSamples), gridColor, vg.Points(0.5))
	if err != nil {
		return nil, err
	}
	for _, l := range grid {
		p.Add(l)
	}

	strikes := in.Strikes()
	switch in.PlotType {
	case models.PlotPlanes:
		err = addPlanes(p, strikes, in.Dips)
	case models.PlotPoles:
		pts := make([]stereonet.XY, len(strikes))
		for i := range strikes {
			pts[i] = stereonet.Pole(strikes[i], in.Dips[i])
		}
		err = addPoints(p, pts)
	case models.PlotLines:
		pts := make([]stereonet.XY, len(strikes))
		for i := range strikes {
			pts[i] = stereonet.Line(strikes[i], in.Dips[i])
		}
		err = addPoints(p, pts)
	case models.PlotRakes:
		if err = addPlanes(p, strikes, in.Dips); err != nil {
			break
		}
		pts := make([]stereonet.XY, len(strikes))
		for i := range strikes {
			pts[i] = stereonet.Rake(strikes[i], in.Dips[i], in.Rakes[i])
		}
		err = addPoints(p, pts)
	}
	if err != nil {
		return nil, err
	}

	if err := addPrimitive(p, false); err != nil {
		return nil, err
	}
	if err := addCompassLabels(p); err != nil {
		return nil, err
	}
	fixLimits(p)

	return newFigure(KindStereogram, p), nil
}

func newNetPlot() (*plot.Plot, error) {
	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = color.Transparent
	p.X.Padding = 0
	p.Y.Padding = 0

	if err := addPrimitive(p, true); err != nil {
		return nil, err
	}
	return p, nil
}

// addPrimitive draws the net disc: filled white underneath everything, or as
// an outline on top.
func addPrimitive(p *plot.Plot, filled bool) error {
	pts := toXYs(stereonet.Primitive(360))
	if filled {
		poly, err := plotter.NewPolygon(pts)
		if err != nil {
			return fmt.Errorf("failed to build net background: %w", err)
		}
		poly.Color = color.White
		poly.LineStyle.Width = 0
		p.Add(poly)
		return nil
	}

	outline, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build primitive: %w", err)
	}
	outline.LineStyle.Color = inkColor
	outline.LineStyle.Width = vg.Points(1)
	p.Add(outline)
	return nil
}

func addPlanes(p *plot.Plot, strikes, dips []float64) error {
	curves := make([][]stereonet.XY, len(strikes))
	for i := range strikes {
		curves[i] = stereonet.Plane(strikes[i], dips[i], circleSamples)
	}
	lines, err := netLines(curves, inkColor, vg.Points(1))
	if err != nil {
		return err
	}
	for _, l := range lines {
		p.Add(l)
	}
	return nil
}

func addPoints(p *plot.Plot, pts []stereonet.XY) error {
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(toXYs(pts))
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	s.GlyphStyle.Color = inkColor
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)
	return nil
}

func netLines(curves [][]stereonet.XY, c color.Color, width vg.Length) ([]*plotter.Line, error) {
	lines := make([]*plotter.Line, 0, len(curves))
	for _, curve := range curves {
		l, err := plotter.NewLine(toXYs(curve))
		if err != nil {
			return nil, fmt.Errorf("failed to build line: %w", err)
		}
		l.LineStyle.Color = c
		l.LineStyle.Width = width
		lines = append(lines, l)
	}
	return lines, nil
}

func addCompassLabels(p *plot.Plot) error {
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: plotter.XYs{
			{X: 0, Y: labelRadius},
			{X: labelRadius, Y: 0},
			{X: 0, Y: -labelRadius},
			{X: -labelRadius, Y: 0},
		},
		Labels: []string{"N", "E", "S", "W"},
	})
	if err != nil {
		return fmt.Errorf("failed to build compass labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		labels.TextStyle[i].Font.Size = vg.Points(12)
		labels.TextStyle[i].Color = inkColor
	}
	p.Add(labels)
	return nil
}

// fixLimits keeps the net circular regardless of the data drawn on it.
func fixLimits(p *plot.Plot) {
	p.X.Min, p.X.Max = -axisLimit, axisLimit
	p.Y.Min, p.Y.Max = -axisLimit, axisLimit
}

func toXYs(pts []stereonet.XY) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		out[i].X = pt.X
		out[i].Y = pt.Y
	}
	return out
}
