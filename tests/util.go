// Package testutil provides in-memory repository implementations and
// fixture helpers so API tests run without a database.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

// Logger is a core.Logger that records messages instead of printing them.
type Logger struct {
	mu   sync.Mutex
	Logs []string
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) log(msg string) {
	l.mu.Lock()
	l.Logs = append(l.Logs, msg)
	l.mu.Unlock()
}

func (l *Logger) Enable(bool)                        {}
func (l *Logger) Debug(msg string, _ ...interface{}) { l.log(msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.log(msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.log(msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.log(msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.log(msg) }

// UserRepository is an in-memory user.Repository.
type UserRepository struct {
	mu    sync.Mutex
	users map[string]user.User
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]user.User)}
}

func (repo *UserRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	excluded := make(map[string]struct{}, len(excludedUsers))
	for _, u := range excludedUsers {
		excluded[u.ID] = struct{}{}
	}
	for _, u := range repo.users {
		if _, ok := excluded[u.ID]; ok {
			continue
		}
		if username != "" && strings.EqualFold(u.Username, username) {
			return user.ErrUsernameExists
		}
		if email != "" && strings.EqualFold(u.Email, email) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	usr.ID = uuid.New().String()
	repo.users[usr.ID] = usr
	return usr, nil
}

func (repo *UserRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, u := range repo.users {
		switch {
		case filter.ID != "":
			if u.ID == filter.ID {
				return u, nil
			}
		case filter.Username != "":
			if strings.EqualFold(u.Username, filter.Username) {
				return u, nil
			}
		case filter.Email != "":
			if strings.EqualFold(u.Email, filter.Email) {
				return u, nil
			}
		case filter.UsernameOrEmail != "":
			if strings.EqualFold(u.Username, filter.UsernameOrEmail) || strings.EqualFold(u.Email, filter.UsernameOrEmail) {
				return u, nil
			}
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.users[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	repo.users[usr.ID] = usr
	return usr, nil
}

func (repo *UserRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		return repo.CreateUser(ctx, usr)
	}
	return repo.UpdateUser(ctx, usr)
}

func (repo *UserRepository) SetLastLogin(ctx context.Context, usr user.User) (user.User, error) {
	return repo.UpdateUser(ctx, usr)
}

// StudentRepository is an in-memory student.Repository. Records keep
// insertion order.
type StudentRepository struct {
	mu   sync.Mutex
	recs []student.ScoreRecord
}

var _ student.Repository = (*StudentRepository)(nil)

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{}
}

func (repo *StudentRepository) CreateScoreRecords(ctx context.Context, recs []student.ScoreRecord) ([]student.ScoreRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	created := make([]student.ScoreRecord, 0, len(recs))
	for _, rec := range recs {
		rec.ID = uuid.New().String()
		repo.recs = append(repo.recs, rec)
		created = append(created, rec)
	}
	return created, nil
}

func (repo *StudentRepository) QueryScoreRecords(
	ctx context.Context, ownerID string, filter *student.QueryFilter, ordering []core.DBOrdering,
) ([]student.ScoreRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var recs []student.ScoreRecord
	for _, rec := range repo.recs {
		if rec.OwnerID != ownerID {
			continue
		}
		if filter != nil && filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !(strings.Contains(strings.ToLower(rec.Name), search) ||
				strings.Contains(strings.ToLower(rec.RollNumber), search) ||
				strings.Contains(strings.ToLower(rec.Subject), search)) {
				continue
			}
		}
		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareRecords(recs[i], recs[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return recs, nil
}

func compareRecords(a, b student.ScoreRecord, field string) int {
	switch field {
	case "roll_number":
		return strings.Compare(a.RollNumber, b.RollNumber)
	case "subject":
		return strings.Compare(a.Subject, b.Subject)
	case "marks":
		return a.Marks.Int - b.Marks.Int
	case "attendance":
		return a.Attendance.Int - b.Attendance.Int
	default: // name
		return strings.Compare(a.Name, b.Name)
	}
}

func (repo *StudentRepository) QueryAllScoreRecords(ctx context.Context) ([]student.ScoreRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	recs := make([]student.ScoreRecord, len(repo.recs))
	copy(recs, repo.recs)
	return recs, nil
}

func (repo *StudentRepository) GetScoreRecord(ctx context.Context, id, ownerID string) (student.ScoreRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, rec := range repo.recs {
		if rec.ID == id && rec.OwnerID == ownerID {
			return rec, nil
		}
	}
	return student.ScoreRecord{}, student.ErrNotFound
}

func (repo *StudentRepository) UpdateScoreRecord(ctx context.Context, rec student.ScoreRecord) (student.ScoreRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, r := range repo.recs {
		if r.ID == rec.ID && r.OwnerID == rec.OwnerID {
			repo.recs[i] = rec
			return rec, nil
		}
	}
	return student.ScoreRecord{}, student.ErrNotFound
}

func (repo *StudentRepository) DeleteScoreRecord(ctx context.Context, id, ownerID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, r := range repo.recs {
		if r.ID == id && r.OwnerID == ownerID {
			repo.recs = append(repo.recs[:i], repo.recs[i+1:]...)
			return nil
		}
	}
	return student.ErrNotFound
}

// Fixtures

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	isActive bool,
) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser(): %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func CreateScoreRecord(
	t *testing.T,
	repo student.Repository,
	ownerID, name, roll, subject string,
	marks, attendance null.Int,
) student.ScoreRecord {
	t.Helper()

	now := time.Now().UTC()
	recs, err := repo.CreateScoreRecords(context.Background(), []student.ScoreRecord{{
		Name:       name,
		RollNumber: roll,
		Subject:    subject,
		Marks:      marks,
		Attendance: attendance,
		OwnerID:    ownerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}})
	if err != nil {
		t.Fatalf("CreateScoreRecord(): %v", err)
	}
	return recs[0]
}
