package api

import (
	"github.com/burenotti/go_bmi_backend/internal/adapter/monitoring"
	"github.com/burenotti/go_bmi_backend/internal/adapter/storage"
	"github.com/burenotti/go_bmi_backend/internal/app/measurementapp"
	"github.com/burenotti/go_bmi_backend/internal/app/unitofwork"
	"github.com/burenotti/go_bmi_backend/internal/app/userapp"
	"log/slog"
	"net"
	"strconv"
)

type Option func(*Server)

func Addr(host string, port int) Option {
	return func(s *Server) {
		s.addr = net.JoinHostPort(host, strconv.Itoa(port))
	}
}

func Logger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func DBContext(db *storage.DB) Option {
	return func(s *Server) {
		s.db = db
	}
}

func MessageBus(bus unitofwork.MessageBus) Option {
	return func(s *Server) {
		s.msgBus = bus
	}
}

func UserService(service *userapp.Service) Option {
	return func(s *Server) {
		s.userService = service
	}
}

func MeasurementService(service *measurementapp.Service) Option {
	return func(s *Server) {
		s.measurementService = service
	}
}

func Scale(scale WeightReader) Option {
	return func(s *Server) {
		s.scale = scale
	}
}

func Metrics(m *monitoring.Collector) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// AllowOrigins sets the CORS origins. Empty means any origin.
func AllowOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowOrigins = origins
	}
}
