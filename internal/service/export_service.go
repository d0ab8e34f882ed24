package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mergington/activities-api/internal/models"
	appErrors "github.com/mergington/activities-api/pkg/errors"
	"github.com/mergington/activities-api/pkg/export"
)

// ExportFormat names a supported roster export rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries a rendered roster document.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the activity roster as CSV or PDF.
type ExportService struct {
	activities activityRepository
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(activities activityRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{activities: activities, csv: csv, pdf: pdf, logger: logger}
}

// GenerateRoster builds the directory dataset and renders it in the
// requested format.
func (s *ExportService) GenerateRoster(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	activities, err := s.activities.List(ctx, models.ActivityFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activities for export")
	}
	dataset := buildRosterDataset(activities)

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv roster")
		}
		return &ExportResult{Content: payload, ContentType: "text/csv", Filename: "activities-roster.csv"}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Activity Roster")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf roster")
		}
		return &ExportResult{Content: payload, ContentType: "application/pdf", Filename: "activities-roster.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildRosterDataset(activities []models.Activity) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Activity", "Category", "Schedule", "Enrolled", "Capacity", "Participants"},
	}
	for _, activity := range activities {
		dataset.Rows = append(dataset.Rows, []string{
			activity.Name,
			string(ClassifyActivity(activity)),
			activity.DisplaySchedule(),
			fmt.Sprintf("%d", len(activity.Participants)),
			fmt.Sprintf("%d", activity.MaxParticipants),
			strings.Join(activity.Participants, "; "),
		})
	}
	return dataset
}
