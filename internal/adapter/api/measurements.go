package api

import (
	"errors"
	"github.com/burenotti/go_bmi_backend/internal/app/measurementapp"
	"github.com/burenotti/go_bmi_backend/internal/app/unitofwork"
	"github.com/burenotti/go_bmi_backend/internal/domain/bmi"
	"github.com/burenotti/go_bmi_backend/internal/domain/user"
	"github.com/labstack/echo/v4"
	"net/http"
)

func (s *Server) MountMeasurements() {
	s.handler.POST("/api/measure-bmi", s.MeasureBMI)
}

func (s *Server) getMeasurementUoW() *unitofwork.UnitOfWork[*measurementapp.AtomicContext] {
	return unitofwork.New[*measurementapp.AtomicContext](
		s.db,
		measurementapp.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

type MeasureRequest struct {
	UserID   string        `json:"userId" validate:"required"`
	HeightCm OptionalFloat `json:"heightCm"`
	WeightKg OptionalFloat `json:"weightKg"`
}

type Measurement struct {
	WeightKg float64      `json:"weightKg"`
	HeightCm float64      `json:"heightCm"`
	BMI      float64      `json:"bmi"`
	Category bmi.Category `json:"category"`
}

type MeasureResponse struct {
	User        User        `json:"user"`
	Measurement Measurement `json:"measurement"`
	ReportPath  string      `json:"reportPath"`
}

func (s *Server) MeasureBMI(c echo.Context) error {
	var req MeasureRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	uow := s.getMeasurementUoW()
	ctx := c.Request().Context()

	res, err := s.measurementService.Measure(ctx, uow, req.UserID, req.HeightCm.Value, req.WeightKg.Value)
	if err != nil {
		// Clients treat an unknown user as a bad request body.
		if errors.Is(err, user.ErrUserNotFound) {
			return JsonError(c, http.StatusBadRequest, err)
		}
		return JsonError(c, statusFor(err), err)
	}

	m := res.Measurement
	return c.JSON(http.StatusOK, MeasureResponse{
		User: userFromModel(res.User),
		Measurement: Measurement{
			WeightKg: m.WeightKg,
			HeightCm: m.HeightCm,
			BMI:      m.BMI,
			Category: m.Category,
		},
		ReportPath: res.ReportPath,
	})
}
