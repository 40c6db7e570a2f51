package main

import (
	"context"
	"errors"
	"flag"
	"github.com/burenotti/go_bmi_backend/internal/adapter/api"
	"github.com/burenotti/go_bmi_backend/internal/adapter/monitoring"
	"github.com/burenotti/go_bmi_backend/internal/adapter/report"
	"github.com/burenotti/go_bmi_backend/internal/adapter/scale"
	"github.com/burenotti/go_bmi_backend/internal/adapter/storage"
	"github.com/burenotti/go_bmi_backend/internal/app/measurementapp"
	"github.com/burenotti/go_bmi_backend/internal/app/messagebus"
	"github.com/burenotti/go_bmi_backend/internal/app/userapp"
	"github.com/burenotti/go_bmi_backend/internal/config"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"github.com/burenotti/go_bmi_backend/internal/domain/user"
	"github.com/joho/godotenv"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/config.yaml", "path to config file, empty to read the environment only")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic("failed to load .env: " + err.Error())
	}

	cfg := config.MustLoad(configPath)
	logger := initLogger(cfg)

	metrics := monitoring.NewCollector()

	bus := messagebus.New(logger)
	bus.Register(user.EventRegistered, func(event domain.Event) error {
		e := event.(user.RegisteredEvent)
		logger.Info("processed user registered event", "user_id", e.UserID)
		return nil
	})
	bus.Register(user.EventUpdated, func(event domain.Event) error {
		e := event.(user.UpdatedEvent)
		logger.Info("processed user updated event", "user_id", e.UserID, "fields", e.Fields)
		return nil
	})
	bus.Register(user.EventMeasured, func(event domain.Event) error {
		e := event.(user.MeasuredEvent)
		metrics.ObserveMeasurement(string(e.Category))
		return nil
	})

	db := storage.New()

	reports := report.NewPDFGenerator(cfg.Reports.Dir)
	weightScale := scale.New(
		logger,
		cfg.Scale.Executable,
		scale.Device(cfg.Scale.Device),
		scale.Timeout(cfg.Scale.Timeout),
		scale.FallbackWeight(cfg.Scale.FallbackWeight),
	)

	server := api.NewServer(
		api.Addr(cfg.Server.Host, cfg.Server.Port),
		api.Logger(logger),
		api.DBContext(db),
		api.MessageBus(bus),
		api.UserService(userapp.New(logger)),
		api.MeasurementService(measurementapp.New(logger, reports)),
		api.Scale(weightScale),
		api.Metrics(metrics),
		api.AllowOrigins(cfg.Server.AllowOrigins...),
	)

	ctx := context.Background()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error)

	go func() {
		defer close(errCh)
		errCh <- server.Start()
	}()

	logger.Info("server started", "host", cfg.Server.Host, "port", cfg.Server.Port, "reports_dir", cfg.Reports.Dir)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownWait)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server was not shutdown gracefully", "error", err)
		}
	case err := <-errCh:
		if err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server closed with unexpected error", "error", err)
			}
		}
	}

	bus.Close()
	logger.Info("server shutdown")
}

func initLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	switch cfg.App.Env {
	case config.Development:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		})
	case config.Production:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelInfo,
		})
	default:
		panic("invalid env")
	}

	return slog.New(handler)
}
