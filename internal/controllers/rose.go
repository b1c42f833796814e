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

// RoseController drives one rose diagram window.
type RoseController struct {
	figureController
	view *views.RoseWindow
}

func NewRoseController(ctx context.Context, plotService *services.PlotService, prefs *config.Preferences, log logger.Logger) *RoseController {
	return &RoseController{
		figureController: newFigureController(ctx, "rose", plotService, prefs, log),
	}
}

func (rc *RoseController) SetView(view *views.RoseWindow) {
	rc.view = view
	rc.window = view

	view.SetRenderHandler(rc.Render)
	view.SetSaveHandler(rc.Save)

	azimuths, err := rc.plotService.FilterAngleColumns(models.AngleAzimuth)
	if err != nil {
		rc.handleError("rose.window_opened", "Columns not available", err)
	}
	view.SetColumnOptions(azimuths)
	view.SetBinning(rc.prefs.RoseBinWidth(), rc.prefs.RoseBidirectional())
}

// Render draws the rose diagram for req and shows it on the result page.
func (rc *RoseController) Render(req services.RoseRequest) {
	rc.prefs.SetRoseBinWidth(req.BinWidth)
	rc.prefs.SetRoseBidirectional(req.Bidirectional)

	rc.render(func(ctx context.Context) (*plotting.Figure, error) {
		return rc.plotService.RenderRose(ctx, req)
	})
}
