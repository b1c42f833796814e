package main

import (
	"log"
	"os"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"table2spatial/internal/config"
	"table2spatial/internal/controllers"
	"table2spatial/internal/logger"
	"table2spatial/internal/models"
	"table2spatial/internal/services"
	"table2spatial/internal/shutdown"
	"table2spatial/internal/timing"
	"table2spatial/internal/views"
)

const (
	AppName    = "table2spatial"
	AppID      = "io.github.table2spatial"
	AppVersion = "1.0.0"
)

// Application holds the wired MVC components
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	cfg     config.Config

	controller *controllers.MainController
	view       *views.MainView
	shutdown   *shutdown.Manager
}

func main() {
	cfg := config.FromEnv()

	application, err := NewApplication(cfg)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	application.Run()
}

func newLogger(cfg config.Config) logger.Logger {
	if cfg.JSONLogs {
		return logger.NewZerolog(os.Stderr, cfg.LogLevel)
	}
	return logger.NewConsoleLogger(cfg.LogLevel)
}

// NewApplication creates and wires the application using dependency injection
func NewApplication(cfg config.Config) (*Application, error) {
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(640, 560))
	window.CenterOnScreen()
	window.SetMaster()

	appLogger := newLogger(cfg)
	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"log_level":  cfg.LogLevel.String(),
		"plot_dpi":   cfg.PlotDPI,
	})

	// Models/Repositories
	repo := models.NewDatasetRepository()
	prefs := config.NewPreferences(fyneApp.Preferences(), cfg)

	// Services
	timer := timing.NewTracker(appLogger)
	tableService := services.NewTableService(repo, appLogger)
	tableService.SetTimer(timer)
	plotService := services.NewPlotService(repo, appLogger, cfg.PlotDPI)
	plotService.SetTimer(timer)

	// MVC components
	controller := controllers.NewMainController(tableService, plotService, repo, prefs, appLogger)
	controller.SetApp(fyneApp)
	view := views.NewMainView(window)
	controller.SetMainView(view)

	// Components stop in reverse order: the controller first, the UI last.
	manager := shutdown.NewManager(appLogger)
	manager.Register("application", shutdown.ShutdownFunc(func() {
		fyne.Do(fyneApp.Quit)
	}))
	manager.Register("timing", timer)
	manager.Register("controller", controller)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		cfg:        cfg,
		controller: controller,
		view:       view,
		shutdown:   manager,
	}
	application.setupWindowEvents()

	return application, nil
}

// Run shows the main window and blocks until the application quits
func (a *Application) Run() {
	a.shutdown.Listen()
	a.view.Show()

	a.fyneApp.Run()

	a.shutdown.Shutdown()
	a.logger.Info("Application", "terminated", nil)
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.view.ShowConfirm("Exit", "Close table2spatial?", func(confirmed bool) {
			if confirmed {
				go a.shutdown.Shutdown()
			}
		})
	})
}
