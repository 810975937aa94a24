package service

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/scheduler"
)

// BuildSolverInput turns raw rows into solver input. Availability rows that
// reference an unknown or weekend timeslot are dropped; preferences keep row
// order per course.
func BuildSolverInput(snapshot *models.SolverSnapshot) (scheduler.Input, *scheduler.TimeslotIndex) {
	records := lo.Map(snapshot.Timeslots, func(ts models.Timeslot, _ int) scheduler.TimeslotRecord {
		return scheduler.TimeslotRecord{ID: ts.ID, DayOfWeek: ts.DayOfWeek, StartTime: ts.StartTime}
	})
	scheduler.SortTimeslotRecords(records)
	index := scheduler.NewTimeslotIndex(records)

	availability := lo.GroupBy(snapshot.Availability, func(a models.FacultyAvailability) int64 { return a.FacultyID })
	preferences := lo.GroupBy(snapshot.Preferences, func(p models.FacultyPreference) int64 { return p.CourseID })

	in := scheduler.Input{
		Courses: lo.Map(snapshot.Courses, func(c models.Course, _ int) scheduler.Course {
			return scheduler.Course{
				ID:         c.ID,
				Code:       c.Code,
				Title:      c.Title,
				Type:       c.Type,
				Enrollment: c.Enrollment,
				PreferredFaculty: lo.Map(preferences[c.ID], func(p models.FacultyPreference, _ int) int64 {
					return p.FacultyID
				}),
			}
		}),
		Faculty: lo.Map(snapshot.Faculty, func(f models.Faculty, _ int) scheduler.Faculty {
			return scheduler.Faculty{
				ID:         f.ID,
				Name:       f.Name,
				Department: f.Department,
				Availability: lo.FilterMap(availability[f.ID], func(a models.FacultyAvailability, _ int) (scheduler.Coordinate, bool) {
					return index.Coordinate(a.TimeslotID)
				}),
			}
		}),
		Rooms: lo.Map(snapshot.Rooms, func(r models.Room, _ int) scheduler.Room {
			return scheduler.Room{ID: r.ID, Name: r.Name, Capacity: r.Capacity, Type: r.Type}
		}),
		Elections: lo.Map(snapshot.Elections, func(e models.StudentCourse, _ int) scheduler.Election {
			return scheduler.Election{StudentID: e.StudentID, CourseID: e.CourseID}
		}),
		Timeslots: index.Coordinates(),
	}
	return in, index
}

// TimetableRows reverse-maps entries onto raw timeslot ids. A coordinate the
// index does not know is an internal inconsistency.
func TimetableRows(index *scheduler.TimeslotIndex, entries []scheduler.Entry) ([]models.TimetableRow, error) {
	rows := make([]models.TimetableRow, 0, len(entries))
	for _, entry := range entries {
		id, ok := index.ID(entry.At())
		if !ok {
			return nil, fmt.Errorf("no timeslot for coordinate %s of course %d", entry.At(), entry.Course.ID)
		}
		rows = append(rows, models.TimetableRow{
			CourseID:   entry.Course.ID,
			FacultyID:  entry.Faculty.ID,
			RoomID:     entry.Room.ID,
			TimeslotID: id,
		})
	}
	return rows, nil
}

// EntriesFromRows resolves persisted rows against the solver input. Rows whose
// course, faculty, room or timeslot no longer exists are returned as skipped.
func EntriesFromRows(in scheduler.Input, index *scheduler.TimeslotIndex, rows []models.TimetableRow) ([]scheduler.Entry, int) {
	courses := lo.KeyBy(in.Courses, func(c scheduler.Course) int64 { return c.ID })
	faculty := lo.KeyBy(in.Faculty, func(f scheduler.Faculty) int64 { return f.ID })
	rooms := lo.KeyBy(in.Rooms, func(r scheduler.Room) int64 { return r.ID })

	entries := make([]scheduler.Entry, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		course, okCourse := courses[row.CourseID]
		member, okFaculty := faculty[row.FacultyID]
		room, okRoom := rooms[row.RoomID]
		at, okSlot := index.Coordinate(row.TimeslotID)
		if !okCourse || !okFaculty || !okRoom || !okSlot {
			skipped++
			continue
		}
		entries = append(entries, scheduler.Entry{Day: at.Day, Slot: at.Slot, Course: course, Faculty: member, Room: room})
	}
	scheduler.SortEntries(entries)
	return entries, skipped
}

// ChangedCourses counts courses whose (faculty, room, coordinate) differs from
// the previous schedule. Courses absent from either side count as changed.
func ChangedCourses(previous, current []scheduler.Entry) int {
	prior := lo.KeyBy(previous, func(e scheduler.Entry) int64 { return e.Course.ID })
	changed := 0
	for _, entry := range current {
		old, ok := prior[entry.Course.ID]
		if !ok || old.Faculty.ID != entry.Faculty.ID || old.Room.ID != entry.Room.ID || old.At() != entry.At() {
			changed++
		}
		delete(prior, entry.Course.ID)
	}
	return changed + len(prior)
}
