package api

import (
	"github.com/labstack/echo/v4"
	"net/http"
)

func (s *Server) MountScale() {
	s.handler.POST("/api/run-exe", s.RunScale)
}

type ScaleResponse struct {
	WeightKg   float64 `json:"weightKg"`
	Raw        string  `json:"raw,omitempty"`
	Note       string  `json:"note,omitempty"`
	Stderr     string  `json:"stderr,omitempty"`
	ReturnCode *int    `json:"return_code,omitempty"`
}

// RunScale never fails: the scale adapter turns every failure into the
// fallback weight.
func (s *Server) RunScale(c echo.Context) error {
	r := s.scale.AcquireWeight(c.Request().Context())
	if s.metrics != nil {
		s.metrics.ObserveWeightReading(r.Fallback)
	}

	return c.JSON(http.StatusOK, ScaleResponse{
		WeightKg:   r.WeightKg,
		Raw:        r.Raw,
		Note:       r.Note,
		Stderr:     r.Stderr,
		ReturnCode: r.ReturnCode,
	})
}
