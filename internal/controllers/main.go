package controllers

import (
	"context"
	"fmt"
	"io"
	"sync"

	"fyne.io/fyne/v2"

	"table2spatial/internal/config"
	"table2spatial/internal/logger"
	"table2spatial/internal/models"
	"table2spatial/internal/services"
	"table2spatial/internal/views"
	"table2spatial/internal/views/components"
)

// MainController orchestrates the main window using MVC pattern
type MainController struct {
	// Services
	tableService *services.TableService
	plotService  *services.PlotService

	// Models/Repositories
	repo  *models.DatasetRepository
	prefs *config.Preferences

	logger logger.Logger

	// Views
	app      fyne.App
	mainView *views.MainView

	// State management
	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	stereograms map[*StereogramController]struct{}
	roses       map[*RoseController]struct{}

	// run starts background work; do hands results back to the UI goroutine.
	run func(func())
	do  func(func())
}

// NewMainController creates a new main controller
func NewMainController(
	tableService *services.TableService,
	plotService *services.PlotService,
	repo *models.DatasetRepository,
	prefs *config.Preferences,
	log logger.Logger,
) *MainController {
	ctx, cancel := context.WithCancel(context.Background())
	return &MainController{
		tableService: tableService,
		plotService:  plotService,
		repo:         repo,
		prefs:        prefs,
		logger:       log,
		ctx:          ctx,
		cancel:       cancel,
		stereograms:  make(map[*StereogramController]struct{}),
		roses:        make(map[*RoseController]struct{}),
		run:          func(f func()) { go f() },
		do:           fyne.Do,
	}
}

// SetApp sets the application used to open plot windows
func (mc *MainController) SetApp(app fyne.App) {
	mc.app = app
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view *views.MainView) {
	mc.mainView = view
	mc.setupViewEventHandlers()
	mc.refreshColumns()
}

func (mc *MainController) setupViewEventHandlers() {
	toolbar := mc.mainView.Toolbar()
	toolbar.SetImportHandler(mc.ImportFile)
	toolbar.SetMergeHandler(mc.MergeFile)
	toolbar.SetReprojectHandler(mc.ShowReproject)
	toolbar.SetExportHandler(mc.ExportFile)
	toolbar.SetGraphHandler(mc.OpenGraph)

	mc.mainView.SetImportSheetHandler(mc.SelectImportSheet)
	mc.mainView.SetImportConfirmHandler(mc.ConfirmImport)
	mc.mainView.SetImportCancelHandler(func() {
		mc.tableService.CancelImport()
		mc.mainView.UpdateStatus("Import cancelled")
	})
	mc.mainView.SetReprojectConfirmHandler(mc.ConfirmReproject)
	mc.mainView.SetReprojectCancelHandler(func() {
		mc.mainView.UpdateStatus("Reprojection cancelled")
	})

	mc.mainView.SetColumnTypeHandler(mc.ChangeColumnType)
	mc.mainView.SetRenameHandler(mc.RenameColumn)
	mc.mainView.SetDeleteHandler(mc.DeleteColumn)
	mc.mainView.SetUniquesHandler(func(name string) { mc.ShowUniques(name) })
}

// ImportFile asks for a table file and opens it on the import page
func (mc *MainController) ImportFile() {
	mc.mainView.ShowFileOpen(views.ImportExtensions, func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mc.handleError("main.import_button_clicked", "Import failed", err)
			return
		}
		if reader == nil {
			return
		}
		mc.OpenImport(reader.URI().Name(), reader)
	})
}

// OpenImport reads r in the background and shows the import page. r is closed
// once read.
func (mc *MainController) OpenImport(name string, r io.ReadCloser) {
	mc.mainView.SetBusy(true)
	mc.mainView.UpdateStatus("Reading " + name + "...")

	mc.run(func() {
		defer r.Close()

		wb, err := mc.tableService.OpenImport(mc.ctx, name, r)
		if err != nil {
			mc.handleError("main.import_button_clicked", "Import failed", err)
			return
		}

		mc.do(func() {
			mc.mainView.SetBusy(false)
			mc.mainView.PrepareImport(name, wb.Sheets(), mc.prefs.LastCRS(models.CRSLabels()[0]))
			mc.mainView.ShowPage(views.PageImport)
			mc.mainView.UpdateStatus("Configure the import of " + name)
		})
	})
}

// SelectImportSheet offers the columns of the chosen sheet for coordinates
func (mc *MainController) SelectImportSheet(sheet string) {
	columns, err := mc.tableService.ImportColumns(sheet)
	if err != nil {
		mc.handleError("main.import_sheet_changed", "Sheet not available", err)
		return
	}
	mc.mainView.SetImportColumns(columns)
}

// ConfirmImport commits the pending import. The import page stays open on
// failure so the options can be corrected.
func (mc *MainController) ConfirmImport(opts services.ImportOptions) {
	table, err := mc.tableService.ConfigureImport(mc.ctx, opts)
	if err != nil {
		mc.handleError("main.import_ok_clicked", "Import failed", err)
		return
	}
	if !opts.NoCoordinates {
		mc.prefs.SetLastCRS(opts.CRS)
	}

	mc.mainView.ShowPage(views.PageColumns)
	mc.refreshColumns()
	mc.mainView.UpdateStatus(fmt.Sprintf("Imported %d rows", table.RowCount()))
}

// MergeFile asks for a second file to join into the current table
func (mc *MainController) MergeFile() {
	mc.mainView.ShowFileOpen(views.ImportExtensions, func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mc.handleError("main.merge_button_clicked", "Merge failed", err)
			return
		}
		if reader == nil {
			return
		}
		mc.OpenMerge(reader.URI().Name(), reader)
	})
}

// OpenMerge reads r in the background, then asks for the sheet and key.
func (mc *MainController) OpenMerge(name string, r io.ReadCloser) {
	mc.mainView.SetBusy(true)

	mc.run(func() {
		defer r.Close()

		wb, err := mc.tableService.OpenMerge(mc.ctx, name, r)
		if err != nil {
			mc.handleError("main.merge_button_clicked", "Merge failed", err)
			return
		}

		mc.do(func() {
			mc.mainView.SetBusy(false)
			mc.mainView.AskMergeKey(wb.Sheets(), mc.tableService.CommonColumns, mc.ConfirmMerge, mc.tableService.CancelMerge)
		})
	})
}

// ConfirmMerge joins the pending merge sheet on key
func (mc *MainController) ConfirmMerge(sheet, key string) {
	mc.mainView.SetBusy(true)

	mc.run(func() {
		merged, err := mc.tableService.Merge(mc.ctx, sheet, key)
		if err != nil {
			mc.handleError("main.merge_ok_clicked", "Merge failed", err)
			return
		}

		mc.do(func() {
			mc.mainView.SetBusy(false)
			mc.refreshColumns()
			mc.mainView.UpdateStatus(fmt.Sprintf("Merged on %q: %d columns", key, merged.ColumnCount()))
		})
	})
}

// ShowReproject opens the reprojection page
func (mc *MainController) ShowReproject() {
	stats := mc.repo.Stats()
	mc.mainView.PrepareReproject(stats.CRS, mc.prefs.LastCRS(""))
	mc.mainView.ShowPage(views.PageReproject)
	if !mc.tableService.CanReproject() {
		mc.mainView.UpdateStatus("Reprojection engine not available")
	}
}

// ConfirmReproject moves the geometry to the chosen CRS
func (mc *MainController) ConfirmReproject(opts services.ReprojectOptions) {
	mc.mainView.SetBusy(true)

	mc.run(func() {
		if err := mc.tableService.Reproject(mc.ctx, opts); err != nil {
			mc.handleError("main.reproject_ok_clicked", "Reprojection failed", err)
			return
		}

		mc.do(func() {
			mc.mainView.SetBusy(false)
			mc.prefs.SetLastCRS(opts.TargetCRS)
			mc.mainView.ShowPage(views.PageColumns)
			mc.refreshColumns()
			mc.mainView.UpdateStatus("Reprojected to " + mc.repo.Stats().CRS)
		})
	})
}

// ExportFile asks for a destination and writes the table in the format of
// its extension
func (mc *MainController) ExportFile() {
	mc.mainView.ShowFileSave("table.csv", func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mc.handleError("main.export_button_clicked", "Export failed", err)
			return
		}
		if writer == nil {
			return
		}
		mc.ExportTo(writer.URI().Name(), writer)
	})
}

// ExportTo writes the table to w, which is closed afterwards.
func (mc *MainController) ExportTo(name string, w io.WriteCloser) {
	format, err := services.FormatForName(name)
	if err != nil {
		w.Close()
		mc.handleError("main.export_button_clicked", "Export failed", err)
		return
	}

	mc.mainView.SetBusy(true)
	mc.run(func() {
		err := mc.tableService.Export(mc.ctx, w, format)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			mc.handleError("main.export_button_clicked", "Export failed", err)
			return
		}

		mc.do(func() {
			mc.mainView.SetBusy(false)
			mc.mainView.UpdateStatus("Exported " + name)
		})
	})
}

// OpenGraph opens the window for a graph menu entry
func (mc *MainController) OpenGraph(graph string) {
	switch graph {
	case components.GraphStereogram:
		mc.OpenStereogram()
	case components.GraphRose:
		mc.OpenRose()
	default:
		mc.handleError("main.graph_menu_clicked", "Graph not available", fmt.Errorf("unknown graph %q", graph))
	}
}

// OpenStereogram opens a new stereogram window
func (mc *MainController) OpenStereogram() *StereogramController {
	sc := NewStereogramController(mc.ctx, mc.plotService, mc.prefs, mc.logger)
	sc.run, sc.do = mc.run, mc.do

	view := views.NewStereogramWindow(mc.app.NewWindow("Stereogram"))
	sc.SetView(view)

	mc.mu.Lock()
	mc.stereograms[sc] = struct{}{}
	mc.mu.Unlock()
	view.SetCloseHandler(func() {
		mc.mu.Lock()
		delete(mc.stereograms, sc)
		mc.mu.Unlock()
	})

	view.Show()
	return sc
}

// OpenRose opens a new rose diagram window
func (mc *MainController) OpenRose() *RoseController {
	rc := NewRoseController(mc.ctx, mc.plotService, mc.prefs, mc.logger)
	rc.run, rc.do = mc.run, mc.do

	view := views.NewRoseWindow(mc.app.NewWindow("Rose diagram"))
	rc.SetView(view)

	mc.mu.Lock()
	mc.roses[rc] = struct{}{}
	mc.mu.Unlock()
	view.SetCloseHandler(func() {
		mc.mu.Lock()
		delete(mc.roses, rc)
		mc.mu.Unlock()
	})

	view.Show()
	return rc
}

func (mc *MainController) ChangeColumnType(name, key string) {
	if err := mc.tableService.SetType(name, key); err != nil {
		mc.refreshColumns()
		mc.handleError("main.dtype_changed", "Type change failed", err)
		return
	}
	mc.refreshColumns()
	mc.mainView.UpdateStatus(fmt.Sprintf("%s is now %s", name, key))
}

func (mc *MainController) RenameColumn(oldName, newName string) {
	if err := mc.tableService.Rename(oldName, newName); err != nil {
		mc.handleError("main.rename_clicked", "Rename failed", err)
		return
	}
	mc.refreshColumns()
	mc.mainView.UpdateStatus(fmt.Sprintf("Renamed %s to %s", oldName, newName))
}

func (mc *MainController) DeleteColumn(name string) {
	if err := mc.tableService.Delete(name); err != nil {
		mc.handleError("main.delete_clicked", "Delete failed", err)
		return
	}
	mc.refreshColumns()
	mc.mainView.UpdateStatus("Deleted " + name)
}

// ShowUniques lists the distinct values of a column in a popup window
func (mc *MainController) ShowUniques(name string) *components.ListWindow {
	values, hasNull, err := mc.tableService.Uniques(name)
	if err != nil {
		mc.handleError("main.unique_values_clicked", "Unique values failed", err)
		return nil
	}
	return mc.mainView.ShowUniques(name, values, hasNull)
}

// refreshColumns rebuilds the column list and toolbar state from the
// current table.
func (mc *MainController) refreshColumns() {
	table := mc.repo.Table()

	var infos []components.ColumnInfo
	if table != nil {
		for _, c := range table.Columns() {
			infos = append(infos, components.ColumnInfo{Name: c.Name, DType: c.DType.Key()})
		}
		if table.HasGeometry() {
			infos = append(infos, components.ColumnInfo{
				Name:     services.GeometryColumnName(table),
				DType:    models.Geometry.Key(),
				Geometry: true,
			})
		}
	}

	mc.mainView.SetColumns(infos)
	mc.mainView.SetDatasetLoaded(table != nil)
	mc.mainView.SetReprojectAllowed(table != nil && table.HasGeometry())
	mc.mainView.SetDatasetInfo(mc.repo.Stats())
}

// handleError logs err under origin and shows it to the user. The busy
// indicator is cleared.
func (mc *MainController) handleError(origin, title string, err error) {
	mc.logger.Error(origin, err, map[string]interface{}{"title": title})

	mc.do(func() {
		mc.mainView.SetBusy(false)
		mc.mainView.ShowError(title, err)
	})
}

// Shutdown cancels background work and closes the plot windows
func (mc *MainController) Shutdown() {
	mc.cancel()

	mc.mu.Lock()
	windows := make([]interface{ Close() }, 0, len(mc.stereograms)+len(mc.roses))
	for sc := range mc.stereograms {
		windows = append(windows, sc)
	}
	for rc := range mc.roses {
		windows = append(windows, rc)
	}
	mc.mu.Unlock()

	mc.do(func() {
		for _, w := range windows {
			w.Close()
		}
	})
	mc.logger.Info("MainController", "controller shut down", map[string]interface{}{
		"plot_windows": len(windows),
	})
}
