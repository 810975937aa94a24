// Package fixtures reads solver input from a directory of CSV files.
package fixtures

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/scheduler"
)

// File names expected in a fixture directory.
const (
	CoursesFile      = "courses.csv"
	FacultyFile      = "faculty.csv"
	RoomsFile        = "rooms.csv"
	ElectionsFile    = "elections.csv"
	TimeslotsFile    = "timeslots.csv"
	AvailabilityFile = "availability.csv"
	PreferencesFile  = "preferences.csv"
	LocksFile        = "locks.csv"
)

// LockRow is one line of locks.csv.
type LockRow struct {
	FacultyID int64 `csv:"faculty_id"`
	Day       int   `csv:"day"`
	Slot      int   `csv:"slot"`
}

// LoadSnapshot reads every required file in dir. Empty department cells
// load as nil.
func LoadSnapshot(dir string) (*models.SolverSnapshot, error) {
	snapshot := &models.SolverSnapshot{}
	steps := []struct {
		name string
		dest interface{}
	}{
		{CoursesFile, &snapshot.Courses},
		{FacultyFile, &snapshot.Faculty},
		{RoomsFile, &snapshot.Rooms},
		{ElectionsFile, &snapshot.Elections},
		{TimeslotsFile, &snapshot.Timeslots},
		{AvailabilityFile, &snapshot.Availability},
		{PreferencesFile, &snapshot.Preferences},
	}
	for _, step := range steps {
		if err := unmarshalFile(filepath.Join(dir, step.name), step.dest); err != nil {
			return nil, err
		}
	}

	for i := range snapshot.Faculty {
		if d := snapshot.Faculty[i].Department; d != nil && *d == "" {
			snapshot.Faculty[i].Department = nil
		}
	}
	return snapshot, nil
}

// LoadLocks reads locks.csv from dir. A missing file yields no locks.
func LoadLocks(dir string) ([]scheduler.Lock, error) {
	var rows []LockRow
	err := unmarshalFile(filepath.Join(dir, LocksFile), &rows)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	locks := make([]scheduler.Lock, len(rows))
	for i, row := range rows {
		locks[i] = scheduler.Lock{FacultyID: row.FacultyID, Day: row.Day, Slot: row.Slot}
	}
	return locks, nil
}

func unmarshalFile(path string, dest interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, dest); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil
		}
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
