package student

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound = errors.New("student record not found")
)

type (
	Repository interface {
		CreateScoreRecords(ctx context.Context, recs []ScoreRecord) ([]ScoreRecord, error)
		// QueryScoreRecords returns the owner's records. Search does a
		// case-insensitive substring match on name, roll number or subject.
		QueryScoreRecords(ctx context.Context, ownerID string, filter *QueryFilter, ordering []core.DBOrdering) ([]ScoreRecord, error)
		// QueryAllScoreRecords reads across ALL owners; leaderboard only.
		QueryAllScoreRecords(ctx context.Context) ([]ScoreRecord, error)
		GetScoreRecord(ctx context.Context, id, ownerID string) (ScoreRecord, error)
		UpdateScoreRecord(ctx context.Context, rec ScoreRecord) (ScoreRecord, error)
		DeleteScoreRecord(ctx context.Context, id, ownerID string) error
	}

	Service interface {
		CreateEntry(ctx context.Context, ownerID string, entry Entry) (EntryResult, error)
		Query(ctx context.Context, ownerID string, filter *QueryFilter, ordering []core.DBOrdering) ([]ScoreRecord, error)
		QueryAll(ctx context.Context) ([]ScoreRecord, error)
		GetByID(ctx context.Context, id, ownerID string) (ScoreRecord, error)
		Update(ctx context.Context, id, ownerID string, er EditRecord) (ScoreRecord, error)
		Delete(ctx context.Context, id, ownerID string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateEntry processes one bulk submission: one record per subject with a
// valid mark. Subjects with an empty or invalid mark are skipped
// individually; the submission as a whole only fails on a bad student
// identity or attendance (checked by Entry.Validate before anything is
// created).
func (svc *service) CreateEntry(ctx context.Context, ownerID string, entry Entry) (EntryResult, error) {
	if err := entry.Validate(); err != nil {
		return EntryResult{}, err
	}
	attendance, _ := ParseScore(entry.Attendance)

	now := time.Now().UTC()
	res := EntryResult{Results: make([]SubjectResult, 0, len(Subjects))}
	recs := make([]ScoreRecord, 0, len(Subjects))

	for _, sub := range Subjects {
		raw := core.CleanString(entry.Marks[sub])
		if raw == "" {
			res.Results = append(res.Results, SubjectResult{Subject: sub, Reason: "no mark entered"})
			continue
		}
		marks, ok := ParseScore(raw)
		if !ok {
			res.Results = append(res.Results, SubjectResult{Subject: sub, Reason: "marks " + scoreRangeText})
			continue
		}
		recs = append(recs, ScoreRecord{
			Name:       entry.Name,
			RollNumber: entry.RollNumber,
			Subject:    sub,
			Marks:      null.IntFrom(marks),
			Attendance: null.IntFrom(attendance),
			OwnerID:    ownerID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		res.Results = append(res.Results, SubjectResult{Subject: sub, Created: true})
	}

	if len(recs) > 0 {
		if _, err := svc.repo.CreateScoreRecords(ctx, recs); err != nil {
			return EntryResult{}, err
		}
		res.Created = len(recs)
	}
	return res, nil
}

func (svc *service) Query(ctx context.Context, ownerID string, filter *QueryFilter, ordering []core.DBOrdering) ([]ScoreRecord, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryScoreRecords(ctx, ownerID, filter, SafeOrderings(ordering))
}

func (svc *service) QueryAll(ctx context.Context) ([]ScoreRecord, error) {
	return svc.repo.QueryAllScoreRecords(ctx)
}

func (svc *service) GetByID(ctx context.Context, id, ownerID string) (ScoreRecord, error) {
	return svc.repo.GetScoreRecord(ctx, id, ownerID)
}

func (svc *service) Update(ctx context.Context, id, ownerID string, er EditRecord) (ScoreRecord, error) {
	rec, err := svc.repo.GetScoreRecord(ctx, id, ownerID)
	if err != nil {
		return ScoreRecord{}, err
	}
	rec.Name = er.Name
	rec.RollNumber = er.RollNumber
	rec.Subject = er.Subject
	rec.Marks = null.IntFrom(er.Marks)
	rec.Attendance = null.IntFrom(er.Attendance)
	rec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateScoreRecord(ctx, rec)
}

func (svc *service) Delete(ctx context.Context, id, ownerID string) error {
	return svc.repo.DeleteScoreRecord(ctx, id, ownerID)
}
