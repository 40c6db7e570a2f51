package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"net/http"
)

func (s *Server) useMiddleware() {
	s.handler.Use(middleware.Recover())
	s.handler.Use(middleware.RequestID())
	s.handler.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  s.allowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))
	if s.metrics != nil {
		s.handler.Use(s.metrics.Middleware())
	}
}

func (s *Server) MountService() {
	s.handler.GET("/health", s.Health)
	if s.metrics != nil {
		s.handler.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}
