package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/sanctionwatch/app-server/internal/apperrors"
	"github.com/sanctionwatch/app-server/internal/database"
	"github.com/sanctionwatch/app-server/internal/models"
)

// PageTitle is the heading of the report page.
const PageTitle = "Sanction list"

//go:embed templates/reports.html
var templateFS embed.FS

var reportsTemplate = template.Must(template.ParseFS(templateFS, "templates/reports.html"))

type page struct {
	Title   string
	Reports []models.SanctionReport
}

// Render formats reports as an HTML page, keeping their order.
func Render(reports []models.SanctionReport) (string, error) {
	var buf bytes.Buffer
	if err := reportsTemplate.Execute(&buf, page{Title: PageTitle, Reports: reports}); err != nil {
		return "", fmt.Errorf("render reports: %w", err)
	}
	return buf.String(), nil
}

// Service lists stored reports as HTML
type Service struct {
	reports database.ReportStore
}

func NewService(reports database.ReportStore) *Service {
	return &Service{reports: reports}
}

// ListReports scans the whole store and renders it.
func (s *Service) ListReports(ctx context.Context) (string, error) {
	reports, err := s.reports.List(ctx)
	if err != nil {
		return "", apperrors.Storage("failed to load sanction reports", err)
	}
	return Render(reports)
}
