package report

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_bmi_backend/internal/domain"
)

var (
	ErrReportNotFound = fmt.Errorf("%w: report not found", domain.ErrNotFound)
	ErrGeneration     = errors.New("report generation failed")
)

func FileName(userID string) string {
	return "bmi_report_" + userID + ".pdf"
}

func GenerationError(err error) error {
	return errors.Join(fmt.Errorf("generate report: %w", err), ErrGeneration)
}
