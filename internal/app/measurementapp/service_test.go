package measurementapp_test

import (
	"context"
	"errors"
	"github.com/burenotti/go_bmi_backend/internal/adapter/storage"
	"github.com/burenotti/go_bmi_backend/internal/app/measurementapp"
	"github.com/burenotti/go_bmi_backend/internal/app/messagebus"
	"github.com/burenotti/go_bmi_backend/internal/app/unitofwork"
	"github.com/burenotti/go_bmi_backend/internal/app/userapp"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"github.com/burenotti/go_bmi_backend/internal/domain/bmi"
	"github.com/burenotti/go_bmi_backend/internal/domain/report"
	"github.com/burenotti/go_bmi_backend/internal/domain/user"
	"github.com/samber/lo"
	"io"
	"log/slog"
	"testing"
)

type fakeReports struct {
	generateErr error
	generated   []bmi.Measurement
	paths       map[string]string
}

func (f *fakeReports) Generate(_ context.Context, u *user.User, m bmi.Measurement) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	f.generated = append(f.generated, m)
	if f.paths == nil {
		f.paths = make(map[string]string)
	}
	path := "/reports/" + report.FileName(u.UserID)
	f.paths[u.UserID] = path
	return path, nil
}

func (f *fakeReports) Find(userID string) (string, error) {
	if p, ok := f.paths[userID]; ok {
		return p, nil
	}
	return "", report.ErrReportNotFound
}

type fixture struct {
	users   *userapp.Service
	userUoW *unitofwork.UnitOfWork[*userapp.AtomicContext]
	svc     *measurementapp.Service
	uow     *unitofwork.UnitOfWork[*measurementapp.AtomicContext]
	reports *fakeReports
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := messagebus.New(logger)
	t.Cleanup(bus.Close)
	db := storage.New()
	reports := &fakeReports{}
	return &fixture{
		users:   userapp.New(logger),
		userUoW: unitofwork.New[*userapp.AtomicContext](db, userapp.NewAtomicContext, bus, logger),
		svc:     measurementapp.New(logger, reports),
		uow:     unitofwork.New[*measurementapp.AtomicContext](db, measurementapp.NewAtomicContext, bus, logger),
		reports: reports,
	}
}

func (f *fixture) register(t *testing.T, p user.Profile) *user.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), f.userUoW, p)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u
}

func TestMeasure_UnknownUser(t *testing.T) {
	f := newFixture(t)
	inputs := []struct{ height, weight *float64 }{
		{nil, nil},
		{lo.ToPtr(180.0), lo.ToPtr(72.0)},
		{lo.ToPtr(-1.0), nil},
	}
	for _, in := range inputs {
		_, err := f.svc.Measure(context.Background(), f.uow, "missing", in.height, in.weight)
		if !errors.Is(err, user.ErrUserNotFound) || !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
}

func TestMeasure_MissingValues(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, user.Profile{Name: "Ada"})

	_, err := f.svc.Measure(context.Background(), f.uow, u.UserID, nil, nil)
	if !errors.Is(err, bmi.ErrMissingHeight) || !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected missing height, got %v", err)
	}
	_, err = f.svc.Measure(context.Background(), f.uow, u.UserID, lo.ToPtr(180.0), nil)
	if !errors.Is(err, bmi.ErrMissingWeight) {
		t.Fatalf("expected missing weight, got %v", err)
	}
	if len(f.reports.generated) != 0 {
		t.Fatal("report must not be generated for a failed measurement")
	}
}

func TestMeasure_InvalidValuesAreNotStored(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, user.Profile{Name: "Ada", HeightCm: lo.ToPtr(180.0), WeightKg: lo.ToPtr(72.0)})

	_, err := f.svc.Measure(context.Background(), f.uow, u.UserID, lo.ToPtr(0.0), nil)
	if !errors.Is(err, bmi.ErrInvalidHeight) {
		t.Fatalf("expected invalid height, got %v", err)
	}

	stored, _ := f.users.GetUserByID(context.Background(), f.userUoW, u.UserID)
	if lo.FromPtr(stored.HeightCm) != 180 {
		t.Fatalf("failed measurement changed stored height to %v", lo.FromPtr(stored.HeightCm))
	}
}

func TestMeasure_PersistsAndReusesValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, user.Profile{Name: "Ada", HeightCm: lo.ToPtr(150.0)})

	res, err := f.svc.Measure(ctx, f.uow, u.UserID, lo.ToPtr(180.0), lo.ToPtr(72.0))
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if res.Measurement.BMI != 22.22 || res.Measurement.Category != bmi.Normal {
		t.Fatalf("unexpected measurement %+v", res.Measurement)
	}
	if res.ReportPath != "/reports/"+report.FileName(u.UserID) {
		t.Fatalf("unexpected report path %q", res.ReportPath)
	}
	if lo.FromPtr(res.User.HeightCm) != 180 || lo.FromPtr(res.User.WeightKg) != 72 {
		t.Fatalf("returned user not updated: %+v", res.User)
	}

	stored, err := f.users.GetUserByID(ctx, f.userUoW, u.UserID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if lo.FromPtr(stored.HeightCm) != 180 || lo.FromPtr(stored.WeightKg) != 72 {
		t.Fatalf("stored user not updated: %v %v", stored.HeightCm, stored.WeightKg)
	}

	again, err := f.svc.Measure(ctx, f.uow, u.UserID, nil, lo.ToPtr(90.0))
	if err != nil {
		t.Fatalf("second Measure: %v", err)
	}
	if again.Measurement.HeightCm != 180 || again.Measurement.BMI != 27.78 || again.Measurement.Category != bmi.Overweight {
		t.Fatalf("expected stored height to be reused, got %+v", again.Measurement)
	}

	path, err := f.svc.ReportPath(u.UserID)
	if err != nil || path != res.ReportPath {
		t.Fatalf("ReportPath = %q, %v", path, err)
	}
}

func TestMeasure_ReportGenerationFails(t *testing.T) {
	f := newFixture(t)
	f.reports.generateErr = errors.New("disk full")
	u := f.register(t, user.Profile{Name: "Ada"})

	_, err := f.svc.Measure(context.Background(), f.uow, u.UserID, lo.ToPtr(170.0), lo.ToPtr(90.0))
	if !errors.Is(err, report.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestReportPath_NotFound(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, user.Profile{Name: "Ada"})
	if _, err := f.svc.ReportPath(u.UserID); !errors.Is(err, report.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}
