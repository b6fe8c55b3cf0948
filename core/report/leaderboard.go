package report

import (
	"sort"

	"github.com/trezcool/shule/core/student"
)

type Ranking struct {
	Rank          int     `json:"rank"`
	Name          string  `json:"name"`
	RollNumber    string  `json:"roll_number"`
	AvgMarks      float64 `json:"avg_marks"`
	AvgAttendance float64 `json:"avg_attendance"`
}

// Leaderboard ranks students across the full record set by mean marks,
// best first. Rows without a usable mark are dropped before grouping, so a
// student with attendance entries but no marks never appears. Ranks run
// 1..N in sorted order; ties keep first-encounter order and still get
// successive ranks.
func Leaderboard(recs []student.ScoreRecord) []Ranking {
	groups := groupByStudent(recs)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].avgMarks() > groups[j].avgMarks() })

	rankings := make([]Ranking, 0, len(groups))
	for i, g := range groups {
		rankings = append(rankings, Ranking{
			Rank:          i + 1,
			Name:          g.name,
			RollNumber:    g.rollNumber,
			AvgMarks:      g.avgMarks(),
			AvgAttendance: g.avgAttendance(),
		})
	}
	return rankings
}
