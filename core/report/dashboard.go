package report

import (
	"sort"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/student"
)

const performerListSize = 5

type Performer struct {
	Name       string  `json:"name"`
	RollNumber string  `json:"roll_number"`
	AvgMarks   float64 `json:"avg_marks"`
}

type Summary struct {
	TotalStudents int                `json:"total_students"`
	TotalRecords  int                `json:"total_records"`
	AvgMarks      float64            `json:"avg_marks"`
	AvgAttendance float64            `json:"avg_attendance"`
	SubjectAvg    map[string]float64 `json:"subject_avg"`
	TopPerformers []Performer        `json:"top_performers"`
	LowPerformers []Performer        `json:"low_performers"`
}

// Dashboard summarizes one owner's records. Averages are means over the
// rows whose value is usable, rounded to 2 decimals, and 0 when undefined.
func Dashboard(recs []student.ScoreRecord) Summary {
	summary := Summary{
		TotalRecords:  len(recs),
		SubjectAvg:    make(map[string]float64),
		TopPerformers: []Performer{},
		LowPerformers: []Performer{},
	}

	// distinct roll numbers only; two names sharing a roll number count
	// as one student here (the leaderboard groups by the pair instead).
	rolls := make(map[string]struct{})
	var marksSum, marksN, attSum, attN int
	for _, rec := range recs {
		rolls[rec.RollNumber] = struct{}{}
		if rec.Marks.Valid {
			marksSum += rec.Marks.Int
			marksN++
		}
		if rec.Attendance.Valid {
			attSum += rec.Attendance.Int
			attN++
		}
	}
	summary.TotalStudents = len(rolls)
	if marksN > 0 {
		summary.AvgMarks = core.Round2(float64(marksSum) / float64(marksN))
	}
	if attN > 0 {
		summary.AvgAttendance = core.Round2(float64(attSum) / float64(attN))
	}

	subjects, averages := subjectAverages(recs)
	for i, sub := range subjects {
		summary.SubjectAvg[sub] = averages[i]
	}

	// per-student mean marks, best first; ties keep first-encounter order
	groups := groupByStudent(recs)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].avgMarks() > groups[j].avgMarks() })

	top := groups
	if len(top) > performerListSize {
		top = top[:performerListSize]
	}
	for _, g := range top {
		summary.TopPerformers = append(summary.TopPerformers, Performer{
			Name:       g.name,
			RollNumber: g.rollNumber,
			AvgMarks:   g.avgMarks(),
		})
	}

	low := groups
	if len(low) > performerListSize {
		low = low[len(low)-performerListSize:]
	}
	// worst first for display
	for i := len(low) - 1; i >= 0; i-- {
		g := low[i]
		summary.LowPerformers = append(summary.LowPerformers, Performer{
			Name:       g.name,
			RollNumber: g.rollNumber,
			AvgMarks:   g.avgMarks(),
		})
	}

	return summary
}
