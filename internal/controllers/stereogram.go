package controllers

import (
	"context"

	"table2spatial/internal/config"
	"table2spatial/internal/logger"
	"table2spatial/internal/models"
	"table2spatial/internal/plotting"
	"table2spatial/internal/services"
	"table2spatial/internal/views"
)

// StereogramController drives one stereogram window.
type StereogramController struct {
	figureController
	view *views.StereogramWindow
}

func NewStereogramController(ctx context.Context, plotService *services.PlotService, prefs *config.Preferences, log logger.Logger) *StereogramController {
	return &StereogramController{
		figureController: newFigureController(ctx, "stereogram", plotService, prefs, log),
	}
}

// SetView connects the window and restores the last measurement type.
func (sc *StereogramController) SetView(view *views.StereogramWindow) {
	sc.view = view
	sc.window = view

	view.SetMeasurementHandler(sc.ChangeMeasurementType)
	view.SetRenderHandler(sc.Render)
	view.SetSaveHandler(sc.Save)

	names := models.MeasurementTypeNames()
	name := sc.prefs.MeasurementType(names[0])
	if _, err := models.LookupMeasurementType(name); err != nil {
		name = names[0]
	}
	view.SetPlotPoles(sc.prefs.PlotPoles())
	view.SelectMeasurementType(name)
}

// ChangeMeasurementType relabels the selectors and refills them with the
// columns that fit each angle.
func (sc *StereogramController) ChangeMeasurementType(name string) {
	mt, err := models.LookupMeasurementType(name)
	if err != nil {
		sc.handleError("stereogram.measurement_changed", "Unknown measurement type", err)
		return
	}

	options := make(map[models.AngleCategory][]string, 3)
	for _, category := range []models.AngleCategory{models.AngleAzimuth, models.AngleDip, models.AngleRake} {
		columns, err := sc.plotService.FilterAngleColumns(category)
		if err != nil {
			sc.handleError("stereogram.measurement_changed", "Columns not available", err)
			return
		}
		options[category] = columns
	}

	sc.view.ApplyMeasurementType(mt)
	sc.view.SetColumnOptions(options[models.AngleAzimuth], options[models.AngleDip], options[models.AngleRake])
	sc.prefs.SetMeasurementType(name)
}

// Render draws the stereogram for req and shows it on the result page.
func (sc *StereogramController) Render(req services.StereogramRequest) {
	sc.prefs.SetPlotPoles(req.PlotPoles)
	sc.render(func(ctx context.Context) (*plotting.Figure, error) {
		return sc.plotService.RenderStereogram(ctx, req)
	})
}
