package api

import (
	"github.com/burenotti/go_bmi_backend/internal/domain/report"
	"github.com/labstack/echo/v4"
)

func (s *Server) MountReports() {
	s.handler.GET("/api/report/:userId", s.DownloadReport)
}

func (s *Server) DownloadReport(c echo.Context) error {
	userID := c.Param("userId")

	path, err := s.measurementService.ReportPath(userID)
	if err != nil {
		return JsonError(c, statusFor(err), err)
	}
	return c.Attachment(path, report.FileName(userID))
}
