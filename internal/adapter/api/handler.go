package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_bmi_backend/internal/adapter/monitoring"
	"github.com/burenotti/go_bmi_backend/internal/adapter/scale"
	"github.com/burenotti/go_bmi_backend/internal/adapter/storage"
	"github.com/burenotti/go_bmi_backend/internal/app/measurementapp"
	"github.com/burenotti/go_bmi_backend/internal/app/unitofwork"
	"github.com/burenotti/go_bmi_backend/internal/app/userapp"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	slogecho "github.com/samber/slog-echo"
	"log/slog"
	"net/http"
	"time"
)

// Write timeout must outlive a scale reading, which may take up to the scale
// timeout before falling back.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	maxHeaderBytes    = 4096
)

type WeightReader interface {
	AcquireWeight(ctx context.Context) scale.Reading
}

type Server struct {
	handler            *echo.Echo
	logger             *slog.Logger
	addr               string
	db                 *storage.DB
	userService        *userapp.Service
	measurementService *measurementapp.Service
	scale              WeightReader
	msgBus             unitofwork.MessageBus
	validator          *validator.Validate
	metrics            *monitoring.Collector
	allowOrigins       []string
}

func NewServer(opt ...Option) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Server.WriteTimeout = writeTimeout
	e.Server.ReadTimeout = readTimeout
	e.Server.IdleTimeout = idleTimeout
	e.Server.ReadHeaderTimeout = readHeaderTimeout
	e.Server.MaxHeaderBytes = maxHeaderBytes

	v := validator.New(validator.WithRequiredStructEnabled())

	s := &Server{
		handler:   e,
		validator: v,
		logger:    slog.Default(),
	}

	for _, opt := range opt {
		opt(s)
	}

	e.Use(slogecho.NewWithConfig(s.logger, slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelInfo,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
		WithSpanID:       true,
		WithTraceID:      true,
	}))
	s.useMiddleware()
	s.Mount()
	return s
}

func (s *Server) Mount() {
	s.MountUsers()
	s.MountScale()
	s.MountMeasurements()
	s.MountReports()
	s.MountService()
}

func (s *Server) Start() error {
	return s.handler.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.handler.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) bind(ctx echo.Context, i interface{}) error {
	if err := ctx.Bind(i); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if errors.Is(httpErr.Internal, domain.ErrValidation) {
				return httpErr.Internal
			}
			return fmt.Errorf("%w: %v", domain.ErrValidation, httpErr.Message)
		}
		return fmt.Errorf("%w: bad request", domain.ErrValidation)
	}
	if err := s.validator.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("%w: bad request", domain.ErrValidation)
		}
		return fmt.Errorf("%w: %s: %s", domain.ErrValidation, errs[0].Field(), errs[0].Tag())
	}
	return nil
}
