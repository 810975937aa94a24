package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type currentTimetableStub struct {
	entries []scheduler.Entry
	err     error
}

func (s currentTimetableStub) Current(ctx context.Context) ([]scheduler.Entry, bool, error) {
	return s.entries, false, s.err
}

func exportEntries() []scheduler.Entry {
	return []scheduler.Entry{{
		Day:     1,
		Slot:    2,
		Course:  scheduler.Course{ID: 1, Code: "CS101", Title: "Intro"},
		Faculty: scheduler.Faculty{ID: 1, Name: "Ada"},
		Room:    scheduler.Room{ID: 10, Name: "A-101"},
	}}
}

func TestExportServiceCSV(t *testing.T) {
	svc := NewExportService(currentTimetableStub{entries: exportEntries()}, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }

	res, err := svc.Export(context.Background(), dto.ExportQuery{})
	require.NoError(t, err)
	assert.Equal(t, "timetable-20240301-080000.csv", res.FileName)
	assert.Equal(t, "text/csv", res.ContentType)
	assert.Equal(t, "day,slot,course,title,faculty,room\nTue,2,CS101,Intro,Ada,A-101\n", string(res.Content))
}

func TestExportServicePDF(t *testing.T) {
	svc := NewExportService(currentTimetableStub{entries: exportEntries()}, nil)

	res, err := svc.Export(context.Background(), dto.ExportQuery{Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.NotEmpty(t, res.Content)
}

func TestExportServiceErrors(t *testing.T) {
	svc := NewExportService(currentTimetableStub{}, nil)
	_, err := svc.Export(context.Background(), dto.ExportQuery{Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	failing := NewExportService(currentTimetableStub{err: appErrors.Clone(appErrors.ErrInternal, "db down")}, nil)
	_, err = failing.Export(context.Background(), dto.ExportQuery{Format: "csv"})
	require.Error(t, err)
	assert.Equal(t, "db down", appErrors.FromError(err).Message)
}
