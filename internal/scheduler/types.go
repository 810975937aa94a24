package scheduler

import "fmt"

// Coordinate is the canonical identity of a timeslot: a weekday index and the
// position of the slot within that day.
type Coordinate struct {
	Day  int `json:"day"`
	Slot int `json:"slot"`
}

// Less orders coordinates by day, then slot.
func (c Coordinate) Less(other Coordinate) bool {
	if c.Day == other.Day {
		return c.Slot < other.Slot
	}
	return c.Day < other.Day
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Day, c.Slot)
}

// Course is a course offering that must be placed exactly once.
type Course struct {
	ID               int64   `json:"id"`
	Code             string  `json:"code"`
	Title            string  `json:"name"`
	Type             string  `json:"type"`
	Enrollment       int     `json:"enrollment"`
	PreferredFaculty []int64 `json:"preferred_faculty"`
}

// Faculty is an instructor together with the coordinates they can teach at.
type Faculty struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Department   *string      `json:"department,omitempty"`
	Availability []Coordinate `json:"availability"`
}

// Room is a teaching space.
type Room struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Type     string `json:"type"`
}

// Election records that a student takes a course.
type Election struct {
	StudentID int64 `json:"student_id"`
	CourseID  int64 `json:"course_id"`
}

// Lock forbids a faculty member from teaching at a coordinate for one solve.
type Lock struct {
	FacultyID int64 `json:"faculty_id"`
	Day       int   `json:"day"`
	Slot      int   `json:"slot"`
}

// At returns the coordinate the lock applies to.
func (l Lock) At() Coordinate {
	return Coordinate{Day: l.Day, Slot: l.Slot}
}

// Entry is one resolved assignment of a schedule.
type Entry struct {
	Day     int     `json:"day"`
	Slot    int     `json:"slot"`
	Course  Course  `json:"course"`
	Faculty Faculty `json:"faculty"`
	Room    Room    `json:"room"`
}

// At returns the coordinate of the entry.
func (e Entry) At() Coordinate {
	return Coordinate{Day: e.Day, Slot: e.Slot}
}

// Input is the normalized snapshot handed to the model builder.
type Input struct {
	Courses   []Course     `json:"courses"`
	Faculty   []Faculty    `json:"faculty"`
	Rooms     []Room       `json:"rooms"`
	Elections []Election   `json:"student_elections"`
	Timeslots []Coordinate `json:"all_timeslots"`
}

// Options carries the optional per-invocation inputs.
type Options struct {
	Locks    []Lock
	Previous []Entry
}

// Diagnostics counts input that was dropped while building the model.
type Diagnostics struct {
	SkippedCourses    int     `json:"skipped_courses"`
	SkippedRooms      int     `json:"skipped_rooms"`
	SkippedFaculty    int     `json:"skipped_faculty"`
	UncoveredCourses  []int64 `json:"uncovered_courses,omitempty"`
	IgnoredLocks      int     `json:"ignored_locks"`
	StalePriorEntries int     `json:"stale_prior_entries"`
}
