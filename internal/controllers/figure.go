package controllers

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"

	"table2spatial/internal/config"
	"table2spatial/internal/logger"
	"table2spatial/internal/plotting"
	"table2spatial/internal/services"
	"table2spatial/internal/views"
)

// plotWindow is what the figure controllers need from a plot window.
type plotWindow interface {
	SetBusy(bool)
	ShowError(title string, err error)
	ShowResult(img image.Image)
	ShowFileSave(fileName string, callback func(fyne.URIWriteCloser, error))
	Close()
}

// figureController holds the figure a plot window rendered last and runs
// the render and save actions shared by the plot windows.
type figureController struct {
	ctx         context.Context
	plotService *services.PlotService
	prefs       *config.Preferences
	logger      logger.Logger
	name        string
	window      plotWindow

	mu     sync.Mutex
	figure *plotting.Figure

	run func(func())
	do  func(func())
}

func newFigureController(ctx context.Context, name string, plotService *services.PlotService, prefs *config.Preferences, log logger.Logger) figureController {
	return figureController{
		ctx:         ctx,
		plotService: plotService,
		prefs:       prefs,
		logger:      log,
		name:        name,
		run:         func(f func()) { go f() },
		do:          fyne.Do,
	}
}

// render runs fn in the background. The window moves to its result page only
// when fn succeeds.
func (fc *figureController) render(fn func(context.Context) (*plotting.Figure, error)) {
	fc.window.SetBusy(true)

	fc.run(func() {
		fig, err := fn(fc.ctx)
		if err != nil {
			fc.handleError(fc.name+".ok_button_clicked", "Plot failed", err)
			return
		}
		preview := fig.Image(fig.DPIForWidth(2 * views.PreviewWidth))

		fc.mu.Lock()
		fc.figure = fig
		fc.mu.Unlock()

		fc.do(func() {
			fc.window.SetBusy(false)
			fc.window.ShowResult(preview)
		})
	})
}

// Figure returns the last rendered figure, or nil.
func (fc *figureController) Figure() *plotting.Figure {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.figure
}

// Save asks for a destination and writes the held figure there.
func (fc *figureController) Save() {
	if fc.Figure() == nil {
		fc.handleError(fc.name+".save_button_clicked", "Save failed", services.ErrNoFigure)
		return
	}

	fc.window.ShowFileSave(fc.name+".png", func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			fc.handleError(fc.name+".save_button_clicked", "Save failed", err)
			return
		}
		if writer == nil {
			return
		}
		if err := fc.SaveTo(writer.URI().Name(), writer); err != nil {
			fc.handleError(fc.name+".save_button_clicked", "Save failed", err)
		}
	})
}

// SaveTo writes the held figure to w in the format named by the extension of
// name, defaulting to PNG. w is closed.
func (fc *figureController) SaveTo(name string, w io.WriteCloser) error {
	format := strings.TrimPrefix(filepath.Ext(name), ".")
	if format == "" {
		format = "png"
	}

	err := fc.plotService.Save(fc.Figure(), w, format)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}

	fc.logger.Info(fc.name, "figure saved", map[string]interface{}{
		"file":   name,
		"format": format,
	})
	return nil
}

// Close closes the plot window.
func (fc *figureController) Close() {
	if fc.window != nil {
		fc.window.Close()
	}
}

func (fc *figureController) handleError(origin, title string, err error) {
	fc.logger.Error(origin, err, map[string]interface{}{"title": title})

	fc.do(func() {
		fc.window.SetBusy(false)
		fc.window.ShowError(title, err)
	})
}
