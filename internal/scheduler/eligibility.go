package scheduler

// Variable is an eligible (course, faculty, room, timeslot) assignment. Index
// is the 1-based solver variable backing it.
type Variable struct {
	Index     int
	CourseID  int64
	FacultyID int64
	RoomID    int64
	At        Coordinate
}

type quadKey struct {
	course  int64
	faculty int64
	room    int64
	at      Coordinate
}

type resourceSlot struct {
	id int64
	at Coordinate
}

// Eligibility indexes every eligible assignment by course, by faculty and
// timeslot, by room and timeslot, and by course and timeslot.
type Eligibility struct {
	vars         []Variable
	byKey        map[quadKey]int
	byCourse     map[int64][]int
	byFaculty    map[resourceSlot][]int
	byRoom       map[resourceSlot][]int
	byCourseSlot map[resourceSlot][]int

	courses   []Course
	faculty   []Faculty
	rooms     []Room
	timeslots []Coordinate
	diag      Diagnostics
}

// NewEligibility keeps the quadruples where the faculty is preferred for the
// course, is available at the timeslot, and the room is large enough and of the
// course's type. Duplicate ids keep their first record; courses with negative
// enrollment and rooms with negative capacity produce no quadruples.
func NewEligibility(in Input) *Eligibility {
	e := &Eligibility{
		byKey:        make(map[quadKey]int),
		byCourse:     make(map[int64][]int),
		byFaculty:    make(map[resourceSlot][]int),
		byRoom:       make(map[resourceSlot][]int),
		byCourseSlot: make(map[resourceSlot][]int),
	}

	seenSlots := make(map[Coordinate]struct{}, len(in.Timeslots))
	for _, ts := range in.Timeslots {
		if _, ok := seenSlots[ts]; ok {
			continue
		}
		seenSlots[ts] = struct{}{}
		e.timeslots = append(e.timeslots, ts)
	}

	seenFaculty := make(map[int64]struct{}, len(in.Faculty))
	availability := make(map[int64]map[Coordinate]struct{}, len(in.Faculty))
	for _, f := range in.Faculty {
		if _, ok := seenFaculty[f.ID]; ok {
			e.diag.SkippedFaculty++
			continue
		}
		seenFaculty[f.ID] = struct{}{}
		e.faculty = append(e.faculty, f)
		set := make(map[Coordinate]struct{}, len(f.Availability))
		for _, at := range f.Availability {
			set[at] = struct{}{}
		}
		availability[f.ID] = set
	}

	seenRooms := make(map[int64]struct{}, len(in.Rooms))
	var usableRooms []Room
	for _, r := range in.Rooms {
		if _, ok := seenRooms[r.ID]; ok {
			e.diag.SkippedRooms++
			continue
		}
		seenRooms[r.ID] = struct{}{}
		e.rooms = append(e.rooms, r)
		if r.Capacity < 0 {
			e.diag.SkippedRooms++
			continue
		}
		usableRooms = append(usableRooms, r)
	}

	seenCourses := make(map[int64]struct{}, len(in.Courses))
	for _, c := range in.Courses {
		if _, ok := seenCourses[c.ID]; ok {
			e.diag.SkippedCourses++
			continue
		}
		seenCourses[c.ID] = struct{}{}
		e.courses = append(e.courses, c)
		if c.Enrollment < 0 {
			e.diag.SkippedCourses++
			continue
		}

		preferred := make(map[int64]struct{}, len(c.PreferredFaculty))
		for _, id := range c.PreferredFaculty {
			preferred[id] = struct{}{}
		}
		for _, f := range e.faculty {
			if _, ok := preferred[f.ID]; !ok {
				continue
			}
			for _, r := range usableRooms {
				if r.Capacity < c.Enrollment || r.Type != c.Type {
					continue
				}
				for _, ts := range e.timeslots {
					if _, ok := availability[f.ID][ts]; !ok {
						continue
					}
					e.add(c.ID, f.ID, r.ID, ts)
				}
			}
		}
	}

	for _, c := range e.courses {
		if len(e.byCourse[c.ID]) == 0 {
			e.diag.UncoveredCourses = append(e.diag.UncoveredCourses, c.ID)
		}
	}
	return e
}

func (e *Eligibility) add(course, faculty, room int64, at Coordinate) {
	pos := len(e.vars)
	e.vars = append(e.vars, Variable{
		Index:     pos + 1,
		CourseID:  course,
		FacultyID: faculty,
		RoomID:    room,
		At:        at,
	})
	e.byKey[quadKey{course: course, faculty: faculty, room: room, at: at}] = pos
	e.byCourse[course] = append(e.byCourse[course], pos)
	e.byFaculty[resourceSlot{id: faculty, at: at}] = append(e.byFaculty[resourceSlot{id: faculty, at: at}], pos)
	e.byRoom[resourceSlot{id: room, at: at}] = append(e.byRoom[resourceSlot{id: room, at: at}], pos)
	e.byCourseSlot[resourceSlot{id: course, at: at}] = append(e.byCourseSlot[resourceSlot{id: course, at: at}], pos)
}

// Len reports the number of eligible quadruples.
func (e *Eligibility) Len() int {
	return len(e.vars)
}

// Variables returns every eligible quadruple in creation order.
func (e *Eligibility) Variables() []Variable {
	out := make([]Variable, len(e.vars))
	copy(out, e.vars)
	return out
}

// Lookup finds the variable for an exact quadruple.
func (e *Eligibility) Lookup(courseID, facultyID, roomID int64, at Coordinate) (Variable, bool) {
	pos, ok := e.byKey[quadKey{course: courseID, faculty: facultyID, room: roomID, at: at}]
	if !ok {
		return Variable{}, false
	}
	return e.vars[pos], true
}

// ForCourse returns the eligible assignments of a course.
func (e *Eligibility) ForCourse(courseID int64) []Variable {
	return e.pick(e.byCourse[courseID])
}

// ForFaculty returns the eligible assignments of a faculty member at a timeslot.
func (e *Eligibility) ForFaculty(facultyID int64, at Coordinate) []Variable {
	return e.pick(e.byFaculty[resourceSlot{id: facultyID, at: at}])
}

// ForRoom returns the eligible assignments of a room at a timeslot.
func (e *Eligibility) ForRoom(roomID int64, at Coordinate) []Variable {
	return e.pick(e.byRoom[resourceSlot{id: roomID, at: at}])
}

// ForCourseAt returns the eligible assignments of a course at a timeslot.
func (e *Eligibility) ForCourseAt(courseID int64, at Coordinate) []Variable {
	return e.pick(e.byCourseSlot[resourceSlot{id: courseID, at: at}])
}

// Courses returns the distinct courses that must be covered.
func (e *Eligibility) Courses() []Course { return e.courses }

// Faculty returns the distinct faculty records.
func (e *Eligibility) Faculty() []Faculty { return e.faculty }

// Rooms returns the distinct room records.
func (e *Eligibility) Rooms() []Room { return e.rooms }

// Timeslots returns the distinct coordinates in input order.
func (e *Eligibility) Timeslots() []Coordinate { return e.timeslots }

// Diagnostics reports input dropped while filtering.
func (e *Eligibility) Diagnostics() Diagnostics {
	d := e.diag
	d.UncoveredCourses = append([]int64(nil), e.diag.UncoveredCourses...)
	return d
}

func (e *Eligibility) pick(positions []int) []Variable {
	out := make([]Variable, 0, len(positions))
	for _, pos := range positions {
		out = append(out, e.vars[pos])
	}
	return out
}
