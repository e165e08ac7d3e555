package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sanctionwatch/app-server/internal/models"
)

// ReportStore is the append-only log of sanction hits
type ReportStore interface {
	Insert(ctx context.Context, report *models.SanctionReport) error
	List(ctx context.Context) ([]models.SanctionReport, error)
}

// GormReportStore keeps reports in the "reports" table
type GormReportStore struct {
	db *gorm.DB
}

// NewReportStore creates a report store backed by db
func NewReportStore(db *gorm.DB) *GormReportStore {
	return &GormReportStore{db: db}
}

// Insert appends one row. Duplicate deliveries produce duplicate rows.
func (s *GormReportStore) Insert(ctx context.Context, report *models.SanctionReport) error {
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("insert report for order %s: %w", report.OrderID, err)
	}
	return nil
}

// List returns every row in storage order
func (s *GormReportStore) List(ctx context.Context) ([]models.SanctionReport, error) {
	var reports []models.SanctionReport
	if err := s.db.WithContext(ctx).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}
