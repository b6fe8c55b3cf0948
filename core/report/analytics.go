package report

import (
	"github.com/trezcool/shule/core/student"
)

// Analytics payload statuses. The analytics endpoint always responds with
// a successful transport response carrying one of these.
const (
	StatusEmpty   = "empty"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Marks distribution buckets: the lower edge is inclusive, the upper
// exclusive, except the top bucket which includes 100. All four labels are
// always present in a payload, zero counts included.
const (
	DistFail      = "Fail (0-39)"
	DistAverage   = "Average (40-59)"
	DistGood      = "Good (60-79)"
	DistExcellent = "Excellent (80-100)"
)

// maxCorrelationPoints caps the attendance/marks series: the first N
// usable rows in encounter order, plain truncation, no sampling.
const maxCorrelationPoints = 100

type Point struct {
	Attendance float64 `json:"attendance"`
	Marks      float64 `json:"marks"`
}

type Payload struct {
	Status          string         `json:"status"`
	Message         string         `json:"message,omitempty"`
	Subjects        []string       `json:"subjects,omitempty"`
	SubjectAverages []float64      `json:"subject_averages,omitempty"`
	Distribution    map[string]int `json:"distribution,omitempty"`
	AttendanceMarks []Point        `json:"attendance_marks,omitempty"`
}

// Analytics builds the charts payload for one owner's records. A row is
// usable when both marks and attendance are valid; zero usable rows yield
// the empty status.
func Analytics(recs []student.ScoreRecord) Payload {
	usable := make([]student.ScoreRecord, 0, len(recs))
	for _, rec := range recs {
		if rec.Marks.Valid && rec.Attendance.Valid {
			usable = append(usable, rec)
		}
	}
	if len(usable) == 0 {
		return Payload{Status: StatusEmpty}
	}

	subjects, averages := subjectAverages(usable)

	distribution := map[string]int{
		DistFail:      0,
		DistAverage:   0,
		DistGood:      0,
		DistExcellent: 0,
	}
	for _, rec := range usable {
		distribution[distBucket(rec.Marks.Int)]++
	}

	points := make([]Point, 0, len(usable))
	for _, rec := range usable {
		if len(points) == maxCorrelationPoints {
			break
		}
		points = append(points, Point{
			Attendance: float64(rec.Attendance.Int),
			Marks:      float64(rec.Marks.Int),
		})
	}

	return Payload{
		Status:          StatusSuccess,
		Subjects:        subjects,
		SubjectAverages: averages,
		Distribution:    distribution,
		AttendanceMarks: points,
	}
}

// ErrorPayload wraps an internal computation failure as a payload; the
// endpoint never surfaces these as transport-level errors.
func ErrorPayload(msg string) Payload {
	return Payload{Status: StatusError, Message: msg}
}

func distBucket(marks int) string {
	switch {
	case marks < 40:
		return DistFail
	case marks < 60:
		return DistAverage
	case marks < 80:
		return DistGood
	default:
		return DistExcellent
	}
}
