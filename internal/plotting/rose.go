package plotting

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"table2spatial/internal/stereonet"
)

// RoseInput is one rose diagram request.
type RoseInput struct {
	Azimuths      []float64
	BinWidth      float64
	Bidirectional bool
}

const arcStep = 2.0

// RoseBins counts azimuths per sector of width degrees starting at north.
// Bidirectional data is mirrored so every azimuth also counts at +180.
func RoseBins(azimuths []float64, width float64, bidirectional bool) ([]float64, error) {
	if width <= 0 {
		return nil, fmt.Errorf("bin width must be positive, got %v", width)
	}
	n := int(math.Round(360 / width))
	if n < 1 || math.Abs(float64(n)*width-360) > 1e-9 {
		return nil, fmt.Errorf("bin width %v does not divide 360", width)
	}

	values := make([]float64, 0, len(azimuths)*2)
	for _, az := range azimuths {
		a := stereonet.Normalize(az)
		values = append(values, a)
		if bidirectional {
			values = append(values, stereonet.Normalize(a+180))
		}
	}
	sort.Float64s(values)

	dividers := floats.Span(make([]float64, n+1), 0, 360)
	return stat.Histogram(nil, dividers, values, nil), nil
}

// RenderRose draws a rose diagram where petal length is proportional to the
// number of azimuths in each sector.
func RenderRose(in RoseInput) (*Figure, error) {
	counts, err := RoseBins(in.Azimuths, in.BinWidth, in.Bidirectional)
	if err != nil {
		return nil, err
	}

	p, err := newNetPlot()
	if err != nil {
		return nil, err
	}
	if len(in.Azimuths) > 0 {
		p.Title.Text = fmt.Sprintf("n = %d", len(in.Azimuths))
	}

	if err := addRoseGrid(p); err != nil {
		return nil, err
	}

	peak := floats.Max(counts)
	if peak > 0 {
		for i, c := range counts {
			if c == 0 {
				continue
			}
			start := float64(i) * in.BinWidth
			petal, err := plotter.NewPolygon(sector(start, start+in.BinWidth, c/peak))
			if err != nil {
				return nil, fmt.Errorf("failed to build petal: %w", err)
			}
			petal.Color = petalColor
			petal.LineStyle.Color = inkColor
			petal.LineStyle.Width = vg.Points(0.75)
			p.Add(petal)
		}
	}

	if err := addPrimitive(p, false); err != nil {
		return nil, err
	}
	if err := addCompassLabels(p); err != nil {
		return nil, err
	}
	fixLimits(p)

	return newFigure(KindRose, p), nil
}

var petalColor = color.Gray{Y: 120}

// sector returns the outline of a wedge between two compass azimuths.
func sector(from, to, radius float64) plotter.XYs {
	pts := plotter.XYs{{X: 0, Y: 0}}
	for a := from; a < to; a += arcStep {
		pts = append(pts, compassXY(a, radius))
	}
	pts = append(pts, compassXY(to, radius))
	return pts
}

func compassXY(azimuth, radius float64) plotter.XY {
	r := azimuth * math.Pi / 180
	return plotter.XY{X: radius * math.Sin(r), Y: radius * math.Cos(r)}
}

func addRoseGrid(p *plot.Plot) error {
	for _, r := range []float64{0.25, 0.5, 0.75} {
		ring := make(plotter.XYs, 0, 181)
		for a := 0.0; a <= 360; a += arcStep {
			ring = append(ring, compassXY(a, r))
		}
		l, err := plotter.NewLine(ring)
		if err != nil {
			return fmt.Errorf("failed to build rose ring: %w", err)
		}
		l.LineStyle.Color = gridColor
		l.LineStyle.Width = vg.Points(0.5)
		p.Add(l)
	}
	for a := 0.0; a < 180; a += 30 {
		l, err := plotter.NewLine(plotter.XYs{compassXY(a, 1), compassXY(a+180, 1)})
		if err != nil {
			return fmt.Errorf("failed to build rose spoke: %w", err)
		}
		l.LineStyle.Color = gridColor
		l.LineStyle.Width = vg.Points(0.5)
		p.Add(l)
	}
	return nil
}
