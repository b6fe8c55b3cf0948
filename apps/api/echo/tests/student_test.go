package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/student"
	testutil "github.com/trezcool/shule/tests"
)

func Test_studentApi_createEntry(t *testing.T) {
	resetApp()

	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", true)
	token := getToken(t, hero)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "student identity required", token: token, body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":        "this field is required",
				"roll_number": "this field is required",
				"attendance":  "must be an integer between 0 and 100",
			}),
		},
		{
			name: "bad attendance aborts submission", token: token,
			body: marchallObj(t, student.Entry{
				Name: "Alice", RollNumber: "r-1", Attendance: "150",
				Marks: map[string]string{"Mathematics": "88"},
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"attendance": "must be an integer between 0 and 100"}),
		},
		{
			name: "partial success", token: token,
			body: marchallObj(t, student.Entry{
				Name: "Alice", RollNumber: "r-1", Attendance: "75",
				Marks: map[string]string{
					"Mathematics": "88",
					"Physics":     "",
					"Chemistry":   "150",
					"Biology":     "60",
				},
			}),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, student.EntryResult{
				Results: []student.SubjectResult{
					{Subject: "Mathematics", Created: true},
					{Subject: "Physics", Reason: "no mark entered"},
					{Subject: "Chemistry", Reason: "marks must be an integer between 0 and 100"},
					{Subject: "Biology", Created: true},
					{Subject: "English", Reason: "no mark entered"},
				},
				Created: 2,
			}),
		},
		{
			name: "no valid marks still accepted", token: token,
			body: marchallObj(t, student.Entry{
				Name: "Bob", RollNumber: "r-2", Attendance: "60",
				Marks: map[string]string{"Mathematics": "lol"},
			}),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, student.EntryResult{
				Results: []student.SubjectResult{
					{Subject: "Mathematics", Reason: "marks must be an integer between 0 and 100"},
					{Subject: "Physics", Reason: "no mark entered"},
					{Subject: "Chemistry", Reason: "no mark entered"},
					{Subject: "Biology", Reason: "no mark entered"},
					{Subject: "English", Reason: "no mark entered"},
				},
				Created: 0,
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/students", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_query(t *testing.T) {
	resetApp()

	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other", "other@test.cd", "", true)
	token := getToken(t, hero)

	aliceMath := testutil.CreateScoreRecord(t, stdRepo, hero.ID, "Alice", "R-1", "Mathematics", null.IntFrom(90), null.IntFrom(95))
	alicePhy := testutil.CreateScoreRecord(t, stdRepo, hero.ID, "Alice", "R-1", "Physics", null.IntFrom(70), null.IntFrom(95))
	bobMath := testutil.CreateScoreRecord(t, stdRepo, hero.ID, "Bob", "R-2", "Mathematics", null.IntFrom(50), null.IntFrom(60))
	// another teacher's record; must never leak
	testutil.CreateScoreRecord(t, stdRepo, other.ID, "Carol", "R-3", "Mathematics", null.IntFrom(100), null.IntFrom(90))

	path := func(search, ordering string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		return "/v1/students?" + v.Encode()
	}

	tests := []httpTest{
		{name: "Auth required", path: "/v1/students", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "own records only", path: "/v1/students", token: token,
			wantData: marchallList(t, aliceMath, alicePhy, bobMath),
		},
		{name: "search (unknown)", path: path("carol", ""), token: token, wantData: marchallList(t, []interface{}{}...)},
		{name: "search=bob", path: path("bob", ""), token: token, wantData: marchallList(t, bobMath)},
		{name: "search=phy", path: path("phy", ""), token: token, wantData: marchallList(t, alicePhy)},
		{
			name: "order by -marks", path: path("", "-marks"), token: token,
			wantData: marchallList(t, aliceMath, alicePhy, bobMath),
		},
		{
			name: "order by marks", path: path("", "marks"), token: token,
			wantData: marchallList(t, bobMath, alicePhy, aliceMath),
		},
		{
			name: "unknown ordering falls back to name", path: path("", "marks;DROP TABLE"), token: token,
			wantData: marchallList(t, aliceMath, alicePhy, bobMath),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			if tt.wantCode == 0 {
				tt.wantCode = http.StatusOK
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_detail(t *testing.T) {
	resetApp()

	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other", "other@test.cd", "", true)
	token := getToken(t, hero)

	rec1 := testutil.CreateScoreRecord(t, stdRepo, hero.ID, "Alice", "R-1", "Mathematics", null.IntFrom(90), null.IntFrom(95))
	foreign := testutil.CreateScoreRecord(t, stdRepo, other.ID, "Carol", "R-3", "Mathematics", null.IntFrom(100), null.IntFrom(90))

	notFound := marchallObj(t, httpErr{Error: "not found"})

	t.Run("retrieved", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+rec1.ID, token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, rec1)}, rec)
	})

	t.Run("foreign record hidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+foreign.ID, token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: notFound}, rec)
	})

	t.Run("updated", func(t *testing.T) {
		body := marchallObj(t, student.EditRecord{
			Name: "Alice M", RollNumber: "r-1", Subject: "Mathematics", Marks: 95, Attendance: 97,
		})
		req, rec := newAuthRequest(http.MethodPut, "/v1/students/"+rec1.ID, token, body)
		app.ServeHTTP(rec, req)

		want := rec1
		want.Name = "Alice M"
		want.Marks = null.IntFrom(95)
		want.Attendance = null.IntFrom(97)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		got, err := stdRepo.GetScoreRecord(req.Context(), rec1.ID, hero.ID)
		if err != nil {
			t.Fatalf("GetScoreRecord(): %v", err)
		}
		if got.Name != want.Name || got.Marks != want.Marks || got.Attendance != want.Attendance {
			t.Errorf("record = %+v; want %+v", got, want)
		}
	})

	t.Run("update validates input", func(t *testing.T) {
		body := marchallObj(t, student.EditRecord{
			Name: "Alice M", RollNumber: "r-1", Subject: "Mathematics", Marks: 150, Attendance: 97,
		})
		req, rec := newAuthRequest(http.MethodPut, "/v1/students/"+rec1.ID, token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/students/"+rec1.ID, token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusNoContent)
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/students/"+rec1.ID, token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: notFound}, rec)
	})

	t.Run("delete foreign record hidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/students/"+foreign.ID, token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: notFound}, rec)
	})
}
