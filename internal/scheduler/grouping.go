package scheduler

import (
	"sort"

	"github.com/samber/lo"
)

// StudentCourses maps a student to the distinct courses they take, in order of
// first election.
type StudentCourses map[int64][]int64

// GroupElections folds election rows into per-student course lists.
func GroupElections(elections []Election) StudentCourses {
	grouped := lo.GroupBy(elections, func(e Election) int64 { return e.StudentID })
	out := make(StudentCourses, len(grouped))
	for student, rows := range grouped {
		out[student] = lo.Uniq(lo.Map(rows, func(e Election, _ int) int64 { return e.CourseID }))
	}
	return out
}

// Students returns the student ids in ascending order.
func (s StudentCourses) Students() []int64 {
	ids := lo.Keys(map[int64][]int64(s))
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
