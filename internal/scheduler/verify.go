package scheduler

import "fmt"

// Violation kinds reported by Verify.
const (
	ViolationCoverage    = "COVERAGE"
	ViolationFaculty     = "FACULTY_CONFLICT"
	ViolationRoom        = "ROOM_CONFLICT"
	ViolationStudent     = "STUDENT_CONFLICT"
	ViolationLock        = "LOCKED_SLOT"
	ViolationEligibility = "INELIGIBLE"
)

// Violation describes one broken scheduling rule.
type Violation struct {
	Kind    string     `json:"kind"`
	Message string     `json:"message"`
	At      Coordinate `json:"at"`
}

// Verify checks a schedule against the input it was produced from: every
// course placed exactly once, no faculty, room or student double-booked, no
// locked slot used, and every entry eligible.
func Verify(in Input, locks []Lock, schedule []Entry) []Violation {
	elig := NewEligibility(in)
	var out []Violation

	placed := make(map[int64]int, len(schedule))
	for _, entry := range schedule {
		placed[entry.Course.ID]++
		if _, ok := elig.Lookup(entry.Course.ID, entry.Faculty.ID, entry.Room.ID, entry.At()); !ok {
			out = append(out, Violation{
				Kind:    ViolationEligibility,
				Message: fmt.Sprintf("course %d with faculty %d in room %d is not eligible", entry.Course.ID, entry.Faculty.ID, entry.Room.ID),
				At:      entry.At(),
			})
		}
	}
	for _, c := range elig.Courses() {
		if n := placed[c.ID]; n != 1 {
			out = append(out, Violation{
				Kind:    ViolationCoverage,
				Message: fmt.Sprintf("course %d placed %d times", c.ID, n),
			})
		}
	}

	facultyUse := make(map[resourceSlot]int)
	roomUse := make(map[resourceSlot]int)
	courseAt := make(map[int64][]Coordinate)
	for _, entry := range schedule {
		at := entry.At()
		facultyUse[resourceSlot{id: entry.Faculty.ID, at: at}]++
		if facultyUse[resourceSlot{id: entry.Faculty.ID, at: at}] == 2 {
			out = append(out, Violation{Kind: ViolationFaculty, Message: fmt.Sprintf("faculty %d double-booked", entry.Faculty.ID), At: at})
		}
		roomUse[resourceSlot{id: entry.Room.ID, at: at}]++
		if roomUse[resourceSlot{id: entry.Room.ID, at: at}] == 2 {
			out = append(out, Violation{Kind: ViolationRoom, Message: fmt.Sprintf("room %d double-booked", entry.Room.ID), At: at})
		}
		courseAt[entry.Course.ID] = append(courseAt[entry.Course.ID], at)
	}

	students := GroupElections(in.Elections)
	for _, student := range students.Students() {
		seen := make(map[Coordinate]int)
		for _, courseID := range students[student] {
			for _, at := range courseAt[courseID] {
				seen[at]++
				if seen[at] == 2 {
					out = append(out, Violation{Kind: ViolationStudent, Message: fmt.Sprintf("student %d has overlapping courses", student), At: at})
				}
			}
		}
	}

	for _, lock := range locks {
		if facultyUse[resourceSlot{id: lock.FacultyID, at: lock.At()}] > 0 {
			out = append(out, Violation{Kind: ViolationLock, Message: fmt.Sprintf("faculty %d scheduled in a locked slot", lock.FacultyID), At: lock.At()})
		}
	}
	return out
}
