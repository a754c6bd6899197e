package services

import (
	"fmt"
	"time"

	"tableside_backend/internal/models"
	"tableside_backend/internal/repositories"
)

// ReportService exposes the staff summary report.
type ReportService interface {
	GetSummary(day time.Time) (*models.SummaryReport, error)
}

type reportService struct {
	reportRepo repositories.ReportRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(repo repositories.ReportRepository) ReportService {
	return &reportService{reportRepo: repo}
}

func (s *reportService) GetSummary(day time.Time) (*models.SummaryReport, error) {
	summary, err := s.reportRepo.GetSummary(day)
	if err != nil {
		return nil, fmt.Errorf("failed to build summary report: %w", err)
	}
	return summary, nil
}
