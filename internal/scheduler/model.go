package scheduler

import (
	"github.com/crillab/gophersat/solver"
)

// Reward is an indicator variable that may only be true when the prior
// assignment of its course is chosen again.
type Reward struct {
	Index    int
	Variable Variable
}

// ConstraintCounts summarises the emitted constraints by family.
type ConstraintCounts struct {
	Coverage int `json:"coverage"`
	Faculty  int `json:"faculty"`
	Room     int `json:"room"`
	Student  int `json:"student"`
	Locks    int `json:"locks"`
	Rewards  int `json:"rewards"`
}

// Model is a pseudo-boolean encoding of one scheduling problem. Variables
// 1..Eligibility().Len() are assignments; reward indicators follow.
type Model struct {
	elig         *Eligibility
	constrs      []solver.PBConstr
	rewards      []Reward
	nbVars       int
	hasObjective bool
	counts       ConstraintCounts
	diag         Diagnostics
}

// BuildModel filters the eligible assignments and emits the hard constraints,
// the locks and, when a prior schedule is given, the stability objective.
func BuildModel(in Input, opts Options) *Model {
	elig := NewEligibility(in)
	m := &Model{
		elig:   elig,
		nbVars: elig.Len(),
		diag:   elig.Diagnostics(),
	}
	m.addCoverage()
	m.addFacultyExclusivity()
	m.addRoomExclusivity()
	m.addStudentExclusivity(GroupElections(in.Elections))
	m.addLocks(opts.Locks)
	if len(opts.Previous) > 0 {
		m.addStability(opts.Previous)
	}
	return m
}

// Exactly one eligible assignment per course. Courses with no eligible
// assignment are reported through Diagnostics.UncoveredCourses instead of an
// empty constraint.
func (m *Model) addCoverage() {
	for _, c := range m.elig.Courses() {
		lits := literals(m.elig.ForCourse(c.ID))
		if len(lits) == 0 {
			continue
		}
		m.constrs = append(m.constrs, solver.AtLeast(lits, 1))
		if len(lits) > 1 {
			m.constrs = append(m.constrs, solver.AtMost(lits, 1))
		}
		m.counts.Coverage++
	}
}

func (m *Model) addFacultyExclusivity() {
	for _, f := range m.elig.Faculty() {
		for _, at := range m.elig.Timeslots() {
			if m.atMostOne(literals(m.elig.ForFaculty(f.ID, at))) {
				m.counts.Faculty++
			}
		}
	}
}

func (m *Model) addRoomExclusivity() {
	for _, r := range m.elig.Rooms() {
		for _, at := range m.elig.Timeslots() {
			if m.atMostOne(literals(m.elig.ForRoom(r.ID, at))) {
				m.counts.Room++
			}
		}
	}
}

func (m *Model) addStudentExclusivity(students StudentCourses) {
	for _, student := range students.Students() {
		courses := students[student]
		if len(courses) < 2 {
			continue
		}
		for _, at := range m.elig.Timeslots() {
			var lits []int
			for _, courseID := range courses {
				lits = append(lits, literals(m.elig.ForCourseAt(courseID, at))...)
			}
			if m.atMostOne(lits) {
				m.counts.Student++
			}
		}
	}
}

// Locks force every assignment of the faculty at the coordinate to false. A
// lock matching nothing is counted and otherwise ignored.
func (m *Model) addLocks(locks []Lock) {
	for _, lock := range locks {
		vars := m.elig.ForFaculty(lock.FacultyID, lock.At())
		if len(vars) == 0 {
			m.diag.IgnoredLocks++
			continue
		}
		for _, v := range vars {
			m.constrs = append(m.constrs, solver.PropClause(-v.Index))
		}
		m.counts.Locks++
	}
}

// addStability rewards courses that keep their prior (faculty, room, timeslot).
// A reward r only implies its assignment (r -> x); the objective maximises the
// number of true rewards, which under exactly-one coverage is the same as
// minimising the number of changed courses.
func (m *Model) addStability(previous []Entry) {
	m.hasObjective = true

	prior := make(map[int64]Entry, len(previous))
	for _, entry := range previous {
		prior[entry.Course.ID] = entry
	}

	matched := 0
	for _, c := range m.elig.Courses() {
		entry, ok := prior[c.ID]
		if !ok {
			continue
		}
		matched++
		v, ok := m.elig.Lookup(c.ID, entry.Faculty.ID, entry.Room.ID, entry.At())
		if !ok {
			m.diag.StalePriorEntries++
			continue
		}
		m.nbVars++
		r := Reward{Index: m.nbVars, Variable: v}
		m.constrs = append(m.constrs, solver.PropClause(-r.Index, v.Index))
		m.rewards = append(m.rewards, r)
		m.counts.Rewards++
	}
	m.diag.StalePriorEntries += len(prior) - matched
}

func (m *Model) atMostOne(lits []int) bool {
	if len(lits) < 2 {
		return false
	}
	m.constrs = append(m.constrs, solver.AtMost(lits, 1))
	return true
}

// Eligibility exposes the variable index of the model.
func (m *Model) Eligibility() *Eligibility { return m.elig }

// Constraints returns the emitted pseudo-boolean constraints.
func (m *Model) Constraints() []solver.PBConstr { return m.constrs }

// Rewards returns the stability indicators.
func (m *Model) Rewards() []Reward { return m.rewards }

// HasObjective reports whether a prior schedule was supplied.
func (m *Model) HasObjective() bool { return m.hasObjective }

// NumVariables counts assignment and reward variables.
func (m *Model) NumVariables() int { return m.nbVars }

// Counts returns the number of constraints per family.
func (m *Model) Counts() ConstraintCounts { return m.counts }

// Diagnostics reports dropped input and unmatched locks or prior entries.
func (m *Model) Diagnostics() Diagnostics { return m.diag }

func literals(vars []Variable) []int {
	lits := make([]int, len(vars))
	for i, v := range vars {
		lits[i] = v.Index
	}
	return lits
}
