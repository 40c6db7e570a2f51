package report

import (
	"context"
	"fmt"
	"github.com/burenotti/go_bmi_backend/internal/domain/bmi"
	"github.com/burenotti/go_bmi_backend/internal/domain/report"
	"github.com/burenotti/go_bmi_backend/internal/domain/user"
	"github.com/go-pdf/fpdf"
	"github.com/samber/lo"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type PDFGenerator struct {
	dir string
	now func() time.Time
}

func NewPDFGenerator(dir string) *PDFGenerator {
	return &PDFGenerator{
		dir: dir,
		now: time.Now,
	}
}

func (g *PDFGenerator) Path(userID string) string {
	return filepath.Join(g.dir, report.FileName(userID))
}

// Generate renders the report next to its final path and renames it into
// place, so a concurrent download sees either the old or the new file.
func (g *PDFGenerator) Generate(ctx context.Context, u *user.User, m bmi.Measurement) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validID(u.UserID) {
		return "", fmt.Errorf("invalid user id %q", u.UserID)
	}
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	pdf := g.render(u, m)

	path := g.Path(u.UserID)
	tmp, err := os.CreateTemp(g.dir, ".report-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := pdf.Output(tmp); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("render pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move report into place: %w", err)
	}
	return path, nil
}

func (g *PDFGenerator) Find(userID string) (string, error) {
	if !validID(userID) {
		return "", report.ErrReportNotFound
	}
	path := g.Path(userID)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", report.ErrReportNotFound
	}
	return path, nil
}

func (g *PDFGenerator) render(u *user.User, m bmi.Measurement) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("BMI Report", true)
	pdf.SetCreator("go_bmi_backend", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, "BMI Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+g.now().UTC().Format(time.RFC1123), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	rows := [][2]string{
		{"Name", u.Name},
		{"Email", lo.Ternary(u.HasEmail(), u.Email, "-")},
		{"Age", passthrough(u.Age)},
		{"Gender", passthrough(u.Gender)},
		{"Height", formatFloat(m.HeightCm) + " cm"},
		{"Weight", formatFloat(m.WeightKg) + " kg"},
		{"BMI", strconv.FormatFloat(m.BMI, 'f', 2, 64)},
		{"Category", string(m.Category)},
	}

	pdf.SetFont("Helvetica", "", 12)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(50, 9, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 9, tr(row[1]), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Underweight < 18.5, Normal 18.5-24.99, Overweight 25-29.99, Obese >= 30.", "", "L", false)
	return pdf
}

func passthrough(v any) string {
	if v == nil {
		return "-"
	}
	if f, ok := v.(float64); ok {
		return formatFloat(f)
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	return lo.Ternary(s == "", "-", s)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validID(userID string) bool {
	return userID != "" &&
		userID != "." &&
		userID != ".." &&
		!strings.ContainsAny(userID, `/\`)
}
