package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func violationKinds(vs []Violation) []string {
	kinds := make([]string, len(vs))
	for i, v := range vs {
		kinds[i] = v.Kind
	}
	return kinds
}

func TestVerifyAcceptsValidSchedule(t *testing.T) {
	in := singleCourseInput(30)
	schedule := []Entry{{Day: 0, Slot: 0, Course: in.Courses[0], Faculty: in.Faculty[0], Room: in.Rooms[0]}}
	assert.Empty(t, Verify(in, nil, schedule))
}

func TestVerifyDetectsMissingAndDuplicateCourses(t *testing.T) {
	in := fixtureInput()
	assert.Len(t, Verify(in, nil, nil), len(in.Courses))

	in = singleCourseInput(30)
	entry := Entry{Day: 0, Slot: 0, Course: in.Courses[0], Faculty: in.Faculty[0], Room: in.Rooms[0]}
	kinds := violationKinds(Verify(in, nil, []Entry{entry, entry}))
	assert.Contains(t, kinds, ViolationCoverage)
	assert.Contains(t, kinds, ViolationFaculty)
	assert.Contains(t, kinds, ViolationRoom)
}

func TestVerifyDetectsStudentOverlap(t *testing.T) {
	in := fixtureInput()
	course := func(id int64) Course {
		for _, c := range in.Courses {
			if c.ID == id {
				return c
			}
		}
		return Course{}
	}
	faculty := func(id int64) Faculty {
		for _, f := range in.Faculty {
			if f.ID == id {
				return f
			}
		}
		return Faculty{}
	}
	room := func(id int64) Room {
		for _, r := range in.Rooms {
			if r.ID == id {
				return r
			}
		}
		return Room{}
	}

	// Student 100 takes courses 1 and 2, placed together at (0,0).
	schedule := []Entry{
		{Day: 0, Slot: 0, Course: course(1), Faculty: faculty(2), Room: room(10)},
		{Day: 0, Slot: 0, Course: course(2), Faculty: faculty(1), Room: room(11)},
	}
	assert.Contains(t, violationKinds(Verify(in, nil, schedule)), ViolationStudent)
}

func TestVerifyDetectsLockAndIneligibleEntries(t *testing.T) {
	in := singleCourseInput(30)
	entry := Entry{Day: 0, Slot: 0, Course: in.Courses[0], Faculty: in.Faculty[0], Room: in.Rooms[0]}
	vs := Verify(in, []Lock{{FacultyID: 1, Day: 0, Slot: 0}}, []Entry{entry})
	assert.Equal(t, []string{ViolationLock}, violationKinds(vs))

	entry.Day = 3
	vs = Verify(in, nil, []Entry{entry})
	assert.Equal(t, []string{ViolationEligibility}, violationKinds(vs))
	assert.Equal(t, Coordinate{Day: 3, Slot: 0}, vs[0].At)
}
