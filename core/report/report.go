// Package report is the analytics aggregation layer: pure functions that
// turn raw per-(student, subject) score rows into dashboard summaries, a
// categorical marks distribution, a correlation dataset, ranked
// leaderboards and CSV exports. It holds no state and performs no I/O of
// its own; callers pass in the rows they queried for the acting owner.
package report

import (
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/student"
)

// studentGroup accumulates one (name, roll number) group in first-encounter
// order. Rows without a valid mark are skipped before grouping, so a
// student with attendance but no usable marks never forms a group.
type studentGroup struct {
	name       string
	rollNumber string
	marksSum   int
	marksN     int
	attSum     int
	attN       int
}

func (g *studentGroup) avgMarks() float64 {
	return float64(g.marksSum) / float64(g.marksN)
}

func (g *studentGroup) avgAttendance() float64 {
	if g.attN == 0 {
		return 0
	}
	return float64(g.attSum) / float64(g.attN)
}

func groupByStudent(recs []student.ScoreRecord) []*studentGroup {
	groups := make([]*studentGroup, 0)
	index := make(map[string]*studentGroup)

	for _, rec := range recs {
		if !rec.Marks.Valid {
			continue
		}
		key := rec.Name + "\x00" + rec.RollNumber
		g, ok := index[key]
		if !ok {
			g = &studentGroup{name: rec.Name, rollNumber: rec.RollNumber}
			index[key] = g
			groups = append(groups, g)
		}
		g.marksSum += rec.Marks.Int
		g.marksN++
		if rec.Attendance.Valid {
			g.attSum += rec.Attendance.Int
			g.attN++
		}
	}
	return groups
}

// subjectAverages computes the mean marks per subject, keyed in the order
// subjects are first encountered. Subjects with no valid marks are omitted.
func subjectAverages(recs []student.ScoreRecord) ([]string, []float64) {
	type acc struct {
		sum int
		n   int
	}
	subjects := make([]string, 0)
	index := make(map[string]*acc)

	for _, rec := range recs {
		if !rec.Marks.Valid {
			continue
		}
		a, ok := index[rec.Subject]
		if !ok {
			a = &acc{}
			index[rec.Subject] = a
			subjects = append(subjects, rec.Subject)
		}
		a.sum += rec.Marks.Int
		a.n++
	}

	averages := make([]float64, 0, len(subjects))
	for _, sub := range subjects {
		a := index[sub]
		averages = append(averages, core.Round2(float64(a.sum)/float64(a.n)))
	}
	return subjects, averages
}
