package measurementapp

import (
	"context"
	"github.com/burenotti/go_bmi_backend/internal/app/unitofwork"
	"github.com/burenotti/go_bmi_backend/internal/domain/bmi"
	"github.com/burenotti/go_bmi_backend/internal/domain/report"
	"github.com/burenotti/go_bmi_backend/internal/domain/user"
	"github.com/samber/lo"
	"log/slog"
)

type ReportGenerator interface {
	Generate(ctx context.Context, u *user.User, m bmi.Measurement) (string, error)
	Find(userID string) (string, error)
}

type Service struct {
	logger  *slog.Logger
	reports ReportGenerator
}

func New(logger *slog.Logger, reports ReportGenerator) *Service {
	return &Service{
		logger:  logger,
		reports: reports,
	}
}

type Result struct {
	User        *user.User
	Measurement bmi.Measurement
	ReportPath  string
}

// Measure computes a BMI for the user, preferring the supplied height and
// weight over the stored ones, stores the values it used and renders the
// user's report.
func (s *Service) Measure(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID string,
	heightCm, weightKg *float64,
) (res Result, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		u, err := ctx.UserStorage.GetByID(ctx.Context(), userID)
		if err != nil {
			return err
		}

		height, ok := lo.Coalesce(heightCm, u.HeightCm)
		if !ok {
			return bmi.ErrMissingHeight
		}
		weight, ok := lo.Coalesce(weightKg, u.WeightKg)
		if !ok {
			return bmi.ErrMissingWeight
		}

		m, err := bmi.Compute(*height, *weight)
		if err != nil {
			return err
		}

		u.RecordMeasurement(m)
		if err := ctx.UserStorage.Persist(ctx.Context(), u); err != nil {
			return err
		}

		res.User = u
		res.Measurement = m
		return ctx.Commit()
	})
	if err != nil {
		return Result{}, err
	}

	path, err := s.reports.Generate(ctx, res.User, res.Measurement)
	if err != nil {
		s.logger.Error("failed to generate report", "user_id", userID, "error", err)
		return Result{}, report.GenerationError(err)
	}
	res.ReportPath = path

	s.logger.Info("bmi measured",
		"user_id", userID,
		"bmi", res.Measurement.BMI,
		"category", res.Measurement.Category,
	)
	return res, nil
}

func (s *Service) ReportPath(userID string) (string, error) {
	return s.reports.Find(userID)
}
