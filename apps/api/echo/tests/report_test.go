package tests

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/user"
	testutil "github.com/trezcool/shule/tests"
)

// seedReportData creates records for two teachers and returns both with
// their tokens. hero owns Alice (Math 90/att 95, Physics 70/att 95) and
// Bob (Math 50/att 60); other owns Carol (Math 100/att 90).
func seedReportData(t *testing.T) (hero, other user.User, heroToken string) {
	hero = testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", true)
	other = testutil.CreateUser(t, usrRepo, "Other", "other", "other@test.cd", "", true)

	testutil.CreateScoreRecord(t, stdRepo, hero.ID, "Alice", "R-1", "Mathematics", null.IntFrom(90), null.IntFrom(95))
	testutil.CreateScoreRecord(t, stdRepo, hero.ID, "Alice", "R-1", "Physics", null.IntFrom(70), null.IntFrom(95))
	testutil.CreateScoreRecord(t, stdRepo, hero.ID, "Bob", "R-2", "Mathematics", null.IntFrom(50), null.IntFrom(60))
	testutil.CreateScoreRecord(t, stdRepo, other.ID, "Carol", "R-3", "Mathematics", null.IntFrom(100), null.IntFrom(90))

	return hero, other, getToken(t, hero)
}

func Test_reportApi_dashboard(t *testing.T) {
	resetApp()

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/reports/dashboard")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("no records yet", func(t *testing.T) {
		usr := testutil.CreateUser(t, usrRepo, "Newbie", "newbie", "newbie@test.cd", "", true)
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports/dashboard", getToken(t, usr))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, report.Summary{
				SubjectAvg:    map[string]float64{},
				TopPerformers: []report.Performer{},
				LowPerformers: []report.Performer{},
			}),
		}, rec)
	})

	t.Run("own records summarized", func(t *testing.T) {
		_, _, token := seedReportData(t)
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports/dashboard", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, report.Summary{
				TotalStudents: 2,
				TotalRecords:  3,
				AvgMarks:      70,
				AvgAttendance: 83.33,
				SubjectAvg:    map[string]float64{"Mathematics": 70, "Physics": 70},
				TopPerformers: []report.Performer{
					{Name: "Alice", RollNumber: "R-1", AvgMarks: 80},
					{Name: "Bob", RollNumber: "R-2", AvgMarks: 50},
				},
				LowPerformers: []report.Performer{
					{Name: "Bob", RollNumber: "R-2", AvgMarks: 50},
					{Name: "Alice", RollNumber: "R-1", AvgMarks: 80},
				},
			}),
		}, rec)
	})
}

func Test_reportApi_analytics(t *testing.T) {
	resetApp()

	t.Run("no records yet", func(t *testing.T) {
		usr := testutil.CreateUser(t, usrRepo, "Newbie", "newbie", "newbie@test.cd", "", true)
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports/analytics", getToken(t, usr))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, report.Payload{Status: report.StatusEmpty}),
		}, rec)
	})

	t.Run("charts payload", func(t *testing.T) {
		_, _, token := seedReportData(t)
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports/analytics", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, report.Payload{
				Status:          report.StatusSuccess,
				Subjects:        []string{"Mathematics", "Physics"},
				SubjectAverages: []float64{70, 70},
				Distribution: map[string]int{
					report.DistFail:      0,
					report.DistAverage:   1,
					report.DistGood:      1,
					report.DistExcellent: 1,
				},
				AttendanceMarks: []report.Point{
					{Attendance: 95, Marks: 90},
					{Attendance: 95, Marks: 70},
					{Attendance: 60, Marks: 50},
				},
			}),
		}, rec)
	})
}

func Test_reportApi_leaderboard(t *testing.T) {
	resetApp()

	_, _, token := seedReportData(t)

	// rankings span all teachers, not just the caller's records
	req, rec := newAuthRequest(http.MethodGet, "/v1/reports/leaderboard", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallList(t,
			report.Ranking{Rank: 1, Name: "Carol", RollNumber: "R-3", AvgMarks: 100, AvgAttendance: 90},
			report.Ranking{Rank: 2, Name: "Alice", RollNumber: "R-1", AvgMarks: 80, AvgAttendance: 95},
			report.Ranking{Rank: 3, Name: "Bob", RollNumber: "R-2", AvgMarks: 50, AvgAttendance: 60},
		),
	}, rec)
}

func Test_reportApi_export(t *testing.T) {
	resetApp()

	t.Run("nothing to export", func(t *testing.T) {
		usr := testutil.CreateUser(t, usrRepo, "Newbie", "newbie", "newbie@test.cd", "", true)
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports/export", getToken(t, usr))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]string{"warning": "No records available to export."}),
		}, rec)
	})

	t.Run("CSV attachment", func(t *testing.T) {
		_, _, token := seedReportData(t)
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports/export", token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Content-Type = %q; want %q", ct, "text/csv")
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "student_report.csv") {
			t.Errorf("Content-Disposition = %q; want attachment filename", cd)
		}

		rows, err := csv.NewReader(rec.Body).ReadAll()
		if err != nil {
			t.Fatalf("reading CSV: %v", err)
		}
		if len(rows) != 4 { // header + caller's 3 records
			t.Fatalf("got %d rows, want 4", len(rows))
		}
		if got, want := strings.Join(rows[0], ","), strings.Join(report.ExportColumns, ","); got != want {
			t.Errorf("header = %q; want %q", got, want)
		}
	})
}
