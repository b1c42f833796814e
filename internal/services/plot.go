package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"table2spatial/internal/logger"
	"table2spatial/internal/models"
	"table2spatial/internal/plotting"
	"table2spatial/internal/timing"
)

var ErrNoFigure = errors.New("no figure has been rendered")

// StereogramRequest names the columns to plot on a stereonet.
type StereogramRequest struct {
	MeasurementType string
	AzimuthColumn   string
	DipColumn       string
	RakeColumn      string
	PlotPoles       bool
}

// RoseRequest names the azimuth column of a rose diagram.
type RoseRequest struct {
	AzimuthColumn string
	BinWidth      float64
	Bidirectional bool
}

// PlotService renders figures from columns of the current table. It keeps no
// figure itself; callers hold the figure they were given.
type PlotService struct {
	repo   *models.DatasetRepository
	logger logger.Logger
	dpi    int
	timer  *timing.Tracker
}

func NewPlotService(repo *models.DatasetRepository, log logger.Logger, dpi int) *PlotService {
	return &PlotService{repo: repo, logger: log, dpi: dpi}
}

func (s *PlotService) SetTimer(t *timing.Tracker) {
	s.timer = t
}

func (s *PlotService) DPI() int {
	return s.dpi
}

// FilterAngleColumns lists the current table's columns that fit an angle category.
func (s *PlotService) FilterAngleColumns(category models.AngleCategory) ([]string, error) {
	table, err := s.repo.RequireTable()
	if err != nil {
		return nil, err
	}
	return table.AngleColumns(category)
}

// RenderStereogram plots the selected columns. Rows with an empty cell in any
// selected column are skipped.
func (s *PlotService) RenderStereogram(ctx context.Context, req StereogramRequest) (*plotting.Figure, error) {
	defer s.timer.Start("plot.stereogram")()
	table, err := s.repo.RequireTable()
	if err != nil {
		return nil, err
	}
	mt, err := models.LookupMeasurementType(req.MeasurementType)
	if err != nil {
		return nil, err
	}

	names := []string{req.AzimuthColumn, req.DipColumn}
	if mt.HasRake() {
		if req.RakeColumn == "" {
			return nil, fmt.Errorf("%s needs a rake column", mt.Name)
		}
		names = append(names, req.RakeColumn)
	}
	values, skipped, err := completeRows(table, names)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in := plotting.StereogramInput{
		Azimuths:    values[0],
		Dips:        values[1],
		PlotType:    mt.PlotType(req.PlotPoles),
		AzimuthType: mt.AzimuthType(),
	}
	if mt.HasRake() {
		in.Rakes = values[2]
	}

	fig, err := plotting.RenderStereogram(in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PlotService", "stereogram rendered", map[string]interface{}{
		"measurement": mt.Name,
		"plot_type":   string(in.PlotType),
		"points":      len(in.Azimuths),
		"skipped":     skipped,
	})
	return fig, nil
}

// RenderRose plots a rose diagram of one azimuth column.
func (s *PlotService) RenderRose(ctx context.Context, req RoseRequest) (*plotting.Figure, error) {
	defer s.timer.Start("plot.rose")()
	table, err := s.repo.RequireTable()
	if err != nil {
		return nil, err
	}
	values, skipped, err := completeRows(table, []string{req.AzimuthColumn})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fig, err := plotting.RenderRose(plotting.RoseInput{
		Azimuths:      values[0],
		BinWidth:      req.BinWidth,
		Bidirectional: req.Bidirectional,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("PlotService", "rose diagram rendered", map[string]interface{}{
		"column":        req.AzimuthColumn,
		"bin_width":     req.BinWidth,
		"bidirectional": req.Bidirectional,
		"azimuths":      len(values[0]),
		"skipped":       skipped,
	})
	return fig, nil
}

// Save writes a figure in format at the configured resolution.
func (s *PlotService) Save(fig *plotting.Figure, w io.Writer, format string) error {
	if fig == nil {
		return ErrNoFigure
	}
	if err := fig.Save(w, format, s.dpi); err != nil {
		return err
	}
	s.logger.Debug("PlotService", "figure saved", map[string]interface{}{
		"kind":   string(fig.Kind),
		"format": format,
		"dpi":    s.dpi,
	})
	return nil
}

// completeRows reads numeric columns row by row, keeping only rows where
// every column has a value.
func completeRows(table *models.Table, names []string) ([][]float64, int, error) {
	columns := make([]*models.Column, len(names))
	for i, name := range names {
		c, err := table.Column(name)
		if err != nil {
			return nil, 0, err
		}
		if !c.IsNumeric() {
			return nil, 0, fmt.Errorf("column %q is not numeric (%s)", name, c.DType)
		}
		columns[i] = c
	}

	out := make([][]float64, len(names))
	for i := range out {
		out[i] = make([]float64, 0, table.RowCount())
	}
	skipped := 0
	row := make([]float64, len(names))
	for r := 0; r < table.RowCount(); r++ {
		complete := true
		for i, c := range columns {
			v, ok := c.Float(r)
			if !ok {
				complete = false
				break
			}
			row[i] = v
		}
		if !complete {
			skipped++
			continue
		}
		for i := range out {
			out[i] = append(out[i], row[i])
		}
	}
	return out, skipped, nil
}
