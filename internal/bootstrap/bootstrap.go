package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	extractorusecase "skytools/internal/modules/extractor/usecase"
	guideinadapter "skytools/internal/modules/guide/adapter/in"
	guideoutadapter "skytools/internal/modules/guide/adapter/out"
	guideusecase "skytools/internal/modules/guide/usecase"
	heightinadapter "skytools/internal/modules/height/adapter/in"
	heightusecase "skytools/internal/modules/height/usecase"
	measureinadapter "skytools/internal/modules/measure/adapter/in"
	measureoutadapter "skytools/internal/modules/measure/adapter/out"
	measureservice "skytools/internal/modules/measure/service"
	measureusecase "skytools/internal/modules/measure/usecase"
	scannerinadapter "skytools/internal/modules/scanner/adapter/in"
	scanneroutadapter "skytools/internal/modules/scanner/adapter/out"
	scannerservice "skytools/internal/modules/scanner/service"
	scannerusecase "skytools/internal/modules/scanner/usecase"
	"skytools/internal/platform/clock"
	"skytools/internal/platform/config"
	"skytools/internal/platform/id"
	"skytools/internal/platform/logging"
	uiapp "skytools/internal/ui/app"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	MeasureCLI  measureinadapter.CLIHandler
	MeasureTUI  measureinadapter.TUIHandler
	MeasureHTTP measureinadapter.HTTPHandler
	HeightCLI   heightinadapter.CLIHandler
	ScannerCLI  scannerinadapter.CLIHandler
	GuideCLI    guideinadapter.CLIHandler
	GuideTUI    guideinadapter.TUIHandler

	Logger hclog.Logger
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	logger = logging.OrNull(logger)

	scannerUC := scannerusecase.NewInteractor(scannerservice.NewScannerService(
		scanneroutadapter.NewFileManifestStore(cfg.PluginDir),
		scanneroutadapter.NewGRPCHost(logger),
		cfg.Scanner,
		logger,
	))

	heightUC := heightusecase.NewInteractor()
	controller := measureservice.NewController(
		clock.SystemClock{},
		id.RandomHex{},
		extractorusecase.NewInteractor(logger),
		measureoutadapter.NewScannerBridge(scannerUC),
		measureoutadapter.NewFileStateStore(cfg.StatePath),
		logger,
	)
	measureUC := measureusecase.NewInteractor(controller, heightUC)

	guideUC := guideusecase.NewInteractor(guideoutadapter.NewYAMLSlideSource(nil))

	return &App{
		MeasureCLI:  measureinadapter.NewCLIHandler(measureUC),
		MeasureTUI:  measureinadapter.NewTUIHandler(measureUC),
		MeasureHTTP: measureinadapter.NewHTTPHandler(measureUC, heightUC, logger),
		HeightCLI:   heightinadapter.NewCLIHandler(heightUC),
		ScannerCLI:  scannerinadapter.NewCLIHandler(scannerUC),
		GuideCLI:    guideinadapter.NewCLIHandler(guideUC),
		GuideTUI:    guideinadapter.NewTUIHandler(guideUC),
		Logger:      logger,
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.MeasureTUI, app.GuideTUI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Serve runs the HTTP API on addr until ctx is cancelled, then drains
// in-flight requests.
func Serve(ctx context.Context, addr string, app *App) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.MeasureHTTP.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.Logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
