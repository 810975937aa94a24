package models

// StudentCourse is one student election.
type StudentCourse struct {
	StudentID int64 `db:"student_id" csv:"student_id"`
	CourseID  int64 `db:"course_id" csv:"course_id"`
}

// Timeslot is a raw timeslot row.
type Timeslot struct {
	ID        int64  `db:"id" csv:"id"`
	DayOfWeek string `db:"day_of_week" csv:"day_of_week"`
	StartTime string `db:"start_time" csv:"start_time"`
}

// FacultyAvailability marks a faculty member as available in a timeslot.
type FacultyAvailability struct {
	FacultyID  int64 `db:"faculty_id" csv:"faculty_id"`
	TimeslotID int64 `db:"timeslot_id" csv:"timeslot_id"`
}

// FacultyPreference marks a faculty member as preferred for a course.
type FacultyPreference struct {
	FacultyID int64 `db:"faculty_id" csv:"faculty_id"`
	CourseID  int64 `db:"course_id" csv:"course_id"`
}

// TimetableRow is a persisted assignment keyed by raw timeslot id.
type TimetableRow struct {
	CourseID   int64 `db:"course_id" csv:"course_id"`
	FacultyID  int64 `db:"faculty_id" csv:"faculty_id"`
	RoomID     int64 `db:"room_id" csv:"room_id"`
	TimeslotID int64 `db:"timeslot_id" csv:"timeslot_id"`
}

// SolverSnapshot is every row set the solver reads for one invocation.
// Timeslots are ordered by weekday then start time.
type SolverSnapshot struct {
	Courses      []Course
	Faculty      []Faculty
	Rooms        []Room
	Elections    []StudentCourse
	Timeslots    []Timeslot
	Availability []FacultyAvailability
	Preferences  []FacultyPreference
}
