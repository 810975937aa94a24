package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEligibilityAppliesAllPredicates(t *testing.T) {
	slots := []Coordinate{{Day: 0, Slot: 0}, {Day: 0, Slot: 1}}
	in := Input{
		Courses: []Course{
			{ID: 1, Type: "lecture", Enrollment: 30, PreferredFaculty: []int64{1}},
		},
		Faculty: []Faculty{
			{ID: 1, Availability: []Coordinate{{Day: 0, Slot: 1}}},
			{ID: 2, Availability: slots},
		},
		Rooms: []Room{
			{ID: 10, Capacity: 30, Type: "lecture"},
			{ID: 11, Capacity: 29, Type: "lecture"},
			{ID: 12, Capacity: 100, Type: "lab"},
		},
		Timeslots: slots,
	}

	elig := NewEligibility(in)
	require.Equal(t, 1, elig.Len())
	v := elig.Variables()[0]
	assert.Equal(t, Variable{Index: 1, CourseID: 1, FacultyID: 1, RoomID: 10, At: Coordinate{Day: 0, Slot: 1}}, v)

	_, ok := elig.Lookup(1, 2, 10, Coordinate{Day: 0, Slot: 0})
	assert.False(t, ok, "faculty 2 is not preferred")
	_, ok = elig.Lookup(1, 1, 11, Coordinate{Day: 0, Slot: 1})
	assert.False(t, ok, "room 11 is too small")
	_, ok = elig.Lookup(1, 1, 12, Coordinate{Day: 0, Slot: 1})
	assert.False(t, ok, "room 12 has the wrong type")
	_, ok = elig.Lookup(1, 1, 10, Coordinate{Day: 0, Slot: 0})
	assert.False(t, ok, "faculty 1 is unavailable at (0,0)")
	assert.Empty(t, elig.Diagnostics().UncoveredCourses)
}

func TestNewEligibilityReverseIndices(t *testing.T) {
	in := fixtureInput()
	elig := NewEligibility(in)
	require.NotZero(t, elig.Len())

	for _, v := range elig.Variables() {
		assert.Contains(t, elig.ForCourse(v.CourseID), v)
		assert.Contains(t, elig.ForFaculty(v.FacultyID, v.At), v)
		assert.Contains(t, elig.ForRoom(v.RoomID, v.At), v)
		assert.Contains(t, elig.ForCourseAt(v.CourseID, v.At), v)
	}

	total := 0
	for _, c := range elig.Courses() {
		total += len(elig.ForCourse(c.ID))
	}
	assert.Equal(t, elig.Len(), total)
}

func TestNewEligibilityEmptyPreferencesAndAvailability(t *testing.T) {
	slots := []Coordinate{{Day: 0, Slot: 0}}
	in := Input{
		Courses: []Course{
			{ID: 1, Type: "lecture", Enrollment: 10},
			{ID: 2, Type: "lecture", Enrollment: 10, PreferredFaculty: []int64{7}},
		},
		Faculty:   []Faculty{{ID: 7}},
		Rooms:     []Room{{ID: 1, Capacity: 10, Type: "lecture"}},
		Timeslots: slots,
	}
	elig := NewEligibility(in)
	assert.Zero(t, elig.Len())
	assert.Equal(t, []int64{1, 2}, elig.Diagnostics().UncoveredCourses)
}

func TestNewEligibilityIgnoresAvailabilityOutsideTimeslots(t *testing.T) {
	in := Input{
		Courses:   []Course{{ID: 1, Type: "lab", Enrollment: 5, PreferredFaculty: []int64{1}}},
		Faculty:   []Faculty{{ID: 1, Availability: []Coordinate{{Day: 3, Slot: 9}}}},
		Rooms:     []Room{{ID: 1, Capacity: 5, Type: "lab"}},
		Timeslots: []Coordinate{{Day: 0, Slot: 0}},
	}
	elig := NewEligibility(in)
	assert.Zero(t, elig.Len())
}

func TestNewEligibilityDropsMalformedRecords(t *testing.T) {
	slots := []Coordinate{{Day: 0, Slot: 0}, {Day: 0, Slot: 0}}
	in := Input{
		Courses: []Course{
			{ID: 1, Type: "lecture", Enrollment: -3, PreferredFaculty: []int64{1}},
			{ID: 2, Type: "lecture", Enrollment: 5, PreferredFaculty: []int64{1}},
			{ID: 2, Type: "lecture", Enrollment: 5, PreferredFaculty: []int64{1}},
		},
		Faculty: []Faculty{
			{ID: 1, Availability: slots},
			{ID: 1},
		},
		Rooms: []Room{
			{ID: 1, Capacity: -1, Type: "lecture"},
			{ID: 2, Capacity: 5, Type: "lecture"},
		},
		Timeslots: slots,
	}
	elig := NewEligibility(in)

	require.Equal(t, 1, elig.Len())
	assert.Len(t, elig.Courses(), 2)
	assert.Len(t, elig.Timeslots(), 1)
	diag := elig.Diagnostics()
	assert.Equal(t, 2, diag.SkippedCourses)
	assert.Equal(t, 1, diag.SkippedRooms)
	assert.Equal(t, 1, diag.SkippedFaculty)
	assert.Equal(t, []int64{1}, diag.UncoveredCourses)
}

func TestGroupElections(t *testing.T) {
	grouped := GroupElections([]Election{
		{StudentID: 2, CourseID: 5},
		{StudentID: 1, CourseID: 3},
		{StudentID: 2, CourseID: 4},
		{StudentID: 2, CourseID: 5},
	})
	assert.Equal(t, []int64{1, 2}, grouped.Students())
	assert.Equal(t, []int64{3}, grouped[1])
	assert.Equal(t, []int64{5, 4}, grouped[2])
}
