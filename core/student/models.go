package student

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// Subjects is the fixed subject set offered on the bulk entry form.
// Direct edits are not constrained to it.
var Subjects = []string{"Mathematics", "Physics", "Chemistry", "Biology", "English"}

// ScoreRecord is one (student, subject) marks + attendance entry.
// A student has one row per subject; (Name, RollNumber) identifies the
// student and attendance is stored redundantly on every subject row.
type ScoreRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	RollNumber string    `json:"roll_number"`
	Subject    string    `json:"subject"`
	Marks      null.Int  `json:"marks"`
	Attendance null.Int  `json:"attendance"`
	OwnerID    string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// Entry is one bulk submission: a single student identity plus a raw mark
// string per subject. Subjects with an empty mark are skipped.
type Entry struct {
	Name       string            `json:"name"`
	RollNumber string            `json:"roll_number"`
	Attendance string            `json:"attendance"`
	Marks      map[string]string `json:"marks"`
}

// Validate cleans the student identity and checks the submission-wide
// preconditions. A failure here aborts the whole submission; per-subject
// mark validation happens independently afterwards.
func (e *Entry) Validate() error {
	e.Name = core.CleanString(e.Name)
	e.RollNumber = CleanRollNumber(e.RollNumber)

	var flds []core.FieldError
	if e.Name == "" {
		flds = append(flds, core.FieldError{Field: "name", Error: "this field is required"})
	}
	if e.RollNumber == "" {
		flds = append(flds, core.FieldError{Field: "roll_number", Error: "this field is required"})
	}
	if _, ok := ParseScore(e.Attendance); !ok {
		flds = append(flds, core.FieldError{Field: "attendance", Error: scoreRangeText})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// SubjectResult reports what happened to one subject of a bulk submission.
type SubjectResult struct {
	Subject string `json:"subject"`
	Created bool   `json:"created"`
	Reason  string `json:"reason,omitempty"`
}

// EntryResult is the outcome of a bulk submission. Partial success is a
// normal outcome, not an error; Created == 0 means no valid marks were
// entered.
type EntryResult struct {
	Results []SubjectResult `json:"results"`
	Created int             `json:"created"`
}

// EditRecord defines what information may be provided to modify an
// existing ScoreRecord.
type EditRecord struct {
	Name       string `json:"name" validate:"required"`
	RollNumber string `json:"roll_number" validate:"required"`
	Subject    string `json:"subject" validate:"required"`
	Marks      int    `json:"marks" validate:"min=0,max=100"`
	Attendance int    `json:"attendance" validate:"min=0,max=100"`
}

func (er *EditRecord) Validate() error {
	er.Name = core.CleanString(er.Name)
	er.RollNumber = CleanRollNumber(er.RollNumber)
	er.Subject = core.CleanString(er.Subject)
	return core.Validate.Struct(er)
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool { return qf.Search == "" }

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// orderFields is the allow-list of sortable columns; anything else
// silently falls back to the default ordering.
var orderFields = map[string]struct{}{
	"name":        {},
	"roll_number": {},
	"subject":     {},
	"marks":       {},
	"attendance":  {},
}

var defaultOrdering = core.DBOrdering{Field: "name", Ascending: true}

// SafeOrderings keeps only allow-listed fields from the requested
// orderings; an empty result falls back to name ascending. Raw user input
// never reaches a query string.
func SafeOrderings(requested []core.DBOrdering) []core.DBOrdering {
	safe := make([]core.DBOrdering, 0, len(requested))
	for _, ord := range requested {
		if _, ok := orderFields[ord.Field]; ok {
			safe = append(safe, ord)
		}
	}
	if len(safe) == 0 {
		return []core.DBOrdering{defaultOrdering}
	}
	return safe
}
