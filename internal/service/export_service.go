package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
)

type currentTimetableReader interface {
	Current(ctx context.Context) ([]scheduler.Entry, bool, error)
}

var timetableExportHeaders = []string{"day", "slot", "course", "title", "faculty", "room"}

// ExportService renders the current timetable into downloadable files.
type ExportService struct {
	timetable currentTimetableReader
	renderers map[export.Format]export.Renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs the export service with CSV and PDF renderers.
func NewExportService(timetable currentTimetableReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		timetable: timetable,
		renderers: map[export.Format]export.Renderer{
			export.FormatCSV: export.NewCSVExporter(),
			export.FormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Export renders the current timetable in the requested format.
func (s *ExportService) Export(ctx context.Context, query dto.ExportQuery) (*dto.ExportResult, error) {
	format, err := export.ParseFormat(query.Format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	renderer := s.renderers[format]

	entries, _, err := s.timetable.Current(ctx)
	if err != nil {
		return nil, err
	}

	content, err := renderer.Render(TimetableDataset(entries), "Course Timetable")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}

	name := fmt.Sprintf("timetable-%s.%s", s.now().UTC().Format("20060102-150405"), renderer.Extension())
	s.logger.Debug("timetable exported", zap.String("format", string(format)), zap.Int("entries", len(entries)))
	return &dto.ExportResult{FileName: name, ContentType: renderer.ContentType(), Content: content}, nil
}

// TimetableDataset flattens entries into export rows.
func TimetableDataset(entries []scheduler.Entry) export.Dataset {
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]string{
			"day":     scheduler.DayName(e.Day),
			"slot":    strconv.Itoa(e.Slot),
			"course":  e.Course.Code,
			"title":   e.Course.Title,
			"faculty": e.Faculty.Name,
			"room":    e.Room.Name,
		})
	}
	return export.Dataset{Headers: timetableExportHeaders, Rows: rows}
}
