package report

import (
	"reflect"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/student"
)

func rec(name, roll, subject string, marks, attendance int) student.ScoreRecord {
	return student.ScoreRecord{
		Name:       name,
		RollNumber: roll,
		Subject:    subject,
		Marks:      null.IntFrom(marks),
		Attendance: null.IntFrom(attendance),
	}
}

func TestDashboard_empty(t *testing.T) {
	summary := Dashboard(nil)

	if summary.TotalStudents != 0 || summary.TotalRecords != 0 {
		t.Errorf("counts = (%d, %d), want (0, 0)", summary.TotalStudents, summary.TotalRecords)
	}
	if summary.AvgMarks != 0 || summary.AvgAttendance != 0 {
		t.Errorf("averages = (%v, %v), want (0, 0)", summary.AvgMarks, summary.AvgAttendance)
	}
	if len(summary.SubjectAvg) != 0 {
		t.Errorf("SubjectAvg = %v, want empty", summary.SubjectAvg)
	}
	if len(summary.TopPerformers) != 0 || len(summary.LowPerformers) != 0 {
		t.Errorf("performers = (%v, %v), want empty", summary.TopPerformers, summary.LowPerformers)
	}
}

func TestDashboard(t *testing.T) {
	recs := []student.ScoreRecord{
		rec("Alice", "R-1", "Mathematics", 90, 95),
		rec("Alice", "R-1", "Physics", 80, 90),
		rec("Bob", "R-2", "Mathematics", 60, 70),
		rec("Carol", "R-3", "Mathematics", 30, 50),
		// same roll number, different name: one student for the count
		rec("Bobby", "R-2", "English", 100, 70),
	}
	summary := Dashboard(recs)

	if summary.TotalStudents != 3 {
		t.Errorf("TotalStudents = %d, want 3", summary.TotalStudents)
	}
	if summary.TotalRecords != 5 {
		t.Errorf("TotalRecords = %d, want 5", summary.TotalRecords)
	}
	if summary.AvgMarks != 72 { // (90+80+60+30+100)/5
		t.Errorf("AvgMarks = %v, want 72", summary.AvgMarks)
	}
	if summary.AvgAttendance != 75 { // (95+90+70+50+70)/5
		t.Errorf("AvgAttendance = %v, want 75", summary.AvgAttendance)
	}

	wantSubjAvg := map[string]float64{"Mathematics": 60, "Physics": 80, "English": 100}
	if !reflect.DeepEqual(summary.SubjectAvg, wantSubjAvg) {
		t.Errorf("SubjectAvg = %v, want %v", summary.SubjectAvg, wantSubjAvg)
	}

	// top: Bobby 100, Alice 85, Bob 60, Carol 30
	wantTop := []Performer{
		{Name: "Bobby", RollNumber: "R-2", AvgMarks: 100},
		{Name: "Alice", RollNumber: "R-1", AvgMarks: 85},
		{Name: "Bob", RollNumber: "R-2", AvgMarks: 60},
		{Name: "Carol", RollNumber: "R-3", AvgMarks: 30},
	}
	if !reflect.DeepEqual(summary.TopPerformers, wantTop) {
		t.Errorf("TopPerformers = %v, want %v", summary.TopPerformers, wantTop)
	}

	// low list is worst first
	wantLow := []Performer{
		{Name: "Carol", RollNumber: "R-3", AvgMarks: 30},
		{Name: "Bob", RollNumber: "R-2", AvgMarks: 60},
		{Name: "Alice", RollNumber: "R-1", AvgMarks: 85},
		{Name: "Bobby", RollNumber: "R-2", AvgMarks: 100},
	}
	if !reflect.DeepEqual(summary.LowPerformers, wantLow) {
		t.Errorf("LowPerformers = %v, want %v", summary.LowPerformers, wantLow)
	}
}

func TestDashboard_topFive(t *testing.T) {
	var recs []student.ScoreRecord
	marks := []int{10, 20, 30, 40, 50, 60, 70}
	for i, m := range marks {
		recs = append(recs, rec("S", "R-"+string(rune('A'+i)), "Mathematics", m, 80))
	}
	summary := Dashboard(recs)

	if len(summary.TopPerformers) != 5 || len(summary.LowPerformers) != 5 {
		t.Fatalf("performer list sizes = (%d, %d), want (5, 5)",
			len(summary.TopPerformers), len(summary.LowPerformers))
	}
	if summary.TopPerformers[0].AvgMarks != 70 {
		t.Errorf("best = %v, want 70", summary.TopPerformers[0].AvgMarks)
	}
	if summary.LowPerformers[0].AvgMarks != 10 {
		t.Errorf("worst = %v, want 10", summary.LowPerformers[0].AvgMarks)
	}
}

func TestDashboard_skipsUnusableValues(t *testing.T) {
	recs := []student.ScoreRecord{
		rec("Alice", "R-1", "Mathematics", 80, 90),
		{Name: "Ghost", RollNumber: "R-9", Subject: "Physics"}, // no usable values
	}
	summary := Dashboard(recs)

	if summary.TotalRecords != 2 || summary.TotalStudents != 2 {
		t.Errorf("counts = (%d, %d), want (2, 2)", summary.TotalStudents, summary.TotalRecords)
	}
	if summary.AvgMarks != 80 || summary.AvgAttendance != 90 {
		t.Errorf("averages = (%v, %v), want (80, 90)", summary.AvgMarks, summary.AvgAttendance)
	}
	if len(summary.TopPerformers) != 1 {
		t.Errorf("TopPerformers = %v, want Alice only", summary.TopPerformers)
	}
}

func TestDashboard_idempotent(t *testing.T) {
	recs := []student.ScoreRecord{
		rec("Alice", "R-1", "Mathematics", 91, 95),
		rec("Bob", "R-2", "Physics", 47, 62),
		rec("Carol", "R-3", "English", 73, 88),
	}
	first := Dashboard(recs)
	second := Dashboard(recs)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Dashboard() is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestAnalytics_empty(t *testing.T) {
	if p := Analytics(nil); p.Status != StatusEmpty {
		t.Errorf("Status = %q, want %q", p.Status, StatusEmpty)
	}

	// rows lacking either usable value do not count
	recs := []student.ScoreRecord{
		{Name: "A", RollNumber: "R-1", Subject: "Physics", Marks: null.IntFrom(50)},
		{Name: "B", RollNumber: "R-2", Subject: "Physics", Attendance: null.IntFrom(50)},
	}
	if p := Analytics(recs); p.Status != StatusEmpty {
		t.Errorf("Status = %q, want %q", p.Status, StatusEmpty)
	}
}

func TestAnalytics_distributionEdges(t *testing.T) {
	recs := []student.ScoreRecord{
		rec("A", "R-1", "Mathematics", 35, 80),
		rec("B", "R-2", "Mathematics", 45, 80),
		rec("C", "R-3", "Mathematics", 65, 80),
		rec("D", "R-4", "Mathematics", 85, 80),
	}
	p := Analytics(recs)
	want := map[string]int{DistFail: 1, DistAverage: 1, DistGood: 1, DistExcellent: 1}
	if !reflect.DeepEqual(p.Distribution, want) {
		t.Errorf("Distribution = %v, want %v", p.Distribution, want)
	}

	edges := []struct {
		marks int
		want  string
	}{
		{0, DistFail},
		{39, DistFail},
		{40, DistAverage},
		{59, DistAverage},
		{60, DistGood},
		{79, DistGood},
		{80, DistExcellent},
		{100, DistExcellent},
	}
	for _, e := range edges {
		if got := distBucket(e.marks); got != e.want {
			t.Errorf("distBucket(%d) = %q, want %q", e.marks, got, e.want)
		}
	}
}

func TestAnalytics(t *testing.T) {
	recs := []student.ScoreRecord{
		rec("Alice", "R-1", "Physics", 90, 95),
		rec("Bob", "R-2", "Physics", 71, 80),
		rec("Alice", "R-1", "Mathematics", 50, 95),
	}
	p := Analytics(recs)

	if p.Status != StatusSuccess {
		t.Fatalf("Status = %q, want %q", p.Status, StatusSuccess)
	}
	// subjects in first-encounter order, parallel to averages
	if !reflect.DeepEqual(p.Subjects, []string{"Physics", "Mathematics"}) {
		t.Errorf("Subjects = %v, want [Physics Mathematics]", p.Subjects)
	}
	if !reflect.DeepEqual(p.SubjectAverages, []float64{80.5, 50}) {
		t.Errorf("SubjectAverages = %v, want [80.5 50]", p.SubjectAverages)
	}
	wantPoints := []Point{{95, 90}, {80, 71}, {95, 50}}
	if !reflect.DeepEqual(p.AttendanceMarks, wantPoints) {
		t.Errorf("AttendanceMarks = %v, want %v", p.AttendanceMarks, wantPoints)
	}

	// all four buckets present even when empty
	if len(p.Distribution) != 4 {
		t.Errorf("Distribution has %d buckets, want 4: %v", len(p.Distribution), p.Distribution)
	}
	if p.Distribution[DistFail] != 0 {
		t.Errorf("Distribution[Fail] = %d, want 0", p.Distribution[DistFail])
	}
}

func TestAnalytics_pointsCap(t *testing.T) {
	recs := make([]student.ScoreRecord, 0, 150)
	for i := 0; i < 150; i++ {
		recs = append(recs, rec("S", "R-1", "Mathematics", i%100, 50))
	}
	p := Analytics(recs)
	if len(p.AttendanceMarks) != maxCorrelationPoints {
		t.Errorf("len(AttendanceMarks) = %d, want %d", len(p.AttendanceMarks), maxCorrelationPoints)
	}
	// plain truncation keeps the first rows in encounter order
	if p.AttendanceMarks[0].Marks != 0 || p.AttendanceMarks[99].Marks != 99 {
		t.Errorf("AttendanceMarks not truncated in encounter order")
	}
}

func TestLeaderboard(t *testing.T) {
	recs := []student.ScoreRecord{
		rec("Alice", "R-1", "Mathematics", 90, 95),
		rec("Bob", "R-2", "Mathematics", 90, 80),
		rec("Carol", "R-3", "Mathematics", 70, 85),
		// no usable marks: dropped entirely despite usable attendance
		{Name: "Ghost", RollNumber: "R-9", Subject: "Physics", Attendance: null.IntFrom(99)},
	}
	rankings := Leaderboard(recs)

	want := []Ranking{
		{Rank: 1, Name: "Alice", RollNumber: "R-1", AvgMarks: 90, AvgAttendance: 95},
		{Rank: 2, Name: "Bob", RollNumber: "R-2", AvgMarks: 90, AvgAttendance: 80},
		{Rank: 3, Name: "Carol", RollNumber: "R-3", AvgMarks: 70, AvgAttendance: 85},
	}
	if !reflect.DeepEqual(rankings, want) {
		t.Errorf("Leaderboard() = %v, want %v", rankings, want)
	}
}

func TestLeaderboard_averagesAttendancePerStudent(t *testing.T) {
	recs := []student.ScoreRecord{
		rec("Alice", "R-1", "Mathematics", 80, 90),
		rec("Alice", "R-1", "Physics", 60, 70), // independently entered attendance
	}
	rankings := Leaderboard(recs)
	if len(rankings) != 1 {
		t.Fatalf("got %d rankings, want 1", len(rankings))
	}
	if rankings[0].AvgMarks != 70 || rankings[0].AvgAttendance != 80 {
		t.Errorf("averages = (%v, %v), want (70, 80)", rankings[0].AvgMarks, rankings[0].AvgAttendance)
	}
}
