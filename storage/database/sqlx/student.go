package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/student"
)

type scoreRecordRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	RollNumber string    `db:"roll_number"`
	Subject    string    `db:"subject"`
	Marks      null.Int  `db:"marks"`
	Attendance null.Int  `db:"attendance"`
	OwnerID    string    `db:"owner_id"`
	CreatedAt  null.Time `db:"created_at"`
	UpdatedAt  null.Time `db:"updated_at"`
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) toRow(rec student.ScoreRecord) scoreRecordRow {
	return scoreRecordRow{
		ID:         rec.ID,
		Name:       rec.Name,
		RollNumber: rec.RollNumber,
		Subject:    rec.Subject,
		Marks:      rec.Marks,
		Attendance: rec.Attendance,
		OwnerID:    rec.OwnerID,
		CreatedAt:  null.NewTime(rec.CreatedAt.UTC(), !rec.CreatedAt.IsZero()),
		UpdatedAt:  null.NewTime(rec.UpdatedAt.UTC(), !rec.UpdatedAt.IsZero()),
	}
}

func (repo studentRepository) fromRow(row scoreRecordRow) student.ScoreRecord {
	return student.ScoreRecord{
		ID:         row.ID,
		Name:       row.Name,
		RollNumber: row.RollNumber,
		Subject:    row.Subject,
		Marks:      row.Marks,
		Attendance: row.Attendance,
		OwnerID:    row.OwnerID,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}

func (repo studentRepository) fromRows(rows []scoreRecordRow) []student.ScoreRecord {
	recs := make([]student.ScoreRecord, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, repo.fromRow(row))
	}
	return recs
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateScoreRecords(ctx context.Context, recs []student.ScoreRecord) ([]student.ScoreRecord, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	rows := make([]scoreRecordRow, 0, len(recs))
	for _, rec := range recs {
		rec.ID = uuid.New().String()
		rows = append(rows, repo.toRow(rec))
	}

	q := `
INSERT INTO score_record (id, name, roll_number, subject, marks, attendance, owner_id, created_at, updated_at)
VALUES (:id, :name, :roll_number, :subject, :marks, :attendance, :owner_id, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, rows); err != nil {
		return nil, errors.Wrap(err, "inserting score records")
	}
	return repo.fromRows(rows), nil
}

func (repo studentRepository) QueryScoreRecords(
	ctx context.Context, ownerID string, filter *student.QueryFilter, ordering []core.DBOrdering,
) ([]student.ScoreRecord, error) {
	q := `SELECT * FROM score_record WHERE owner_id = $1`
	args := []interface{}{ownerID}

	if filter != nil && filter.Search != "" {
		q += ` AND (name ILIKE $2 OR roll_number ILIKE $2 OR subject ILIKE $2)`
		args = append(args, "%"+filter.Search+"%")
	}

	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		q += " ORDER BY " + strings.Join(orderList, ", ")
	}

	var rows []scoreRecordRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying score records")
	}
	return repo.fromRows(rows), nil
}

func (repo studentRepository) QueryAllScoreRecords(ctx context.Context) ([]student.ScoreRecord, error) {
	var rows []scoreRecordRow
	q := `SELECT * FROM score_record ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying score records")
	}
	return repo.fromRows(rows), nil
}

func (repo studentRepository) GetScoreRecord(ctx context.Context, id, ownerID string) (student.ScoreRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.ScoreRecord{}, student.ErrNotFound
	}

	var row scoreRecordRow
	q := `SELECT * FROM score_record WHERE id = $1 AND owner_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, id, ownerID); err != nil {
		return student.ScoreRecord{}, repo.trapNoRowsErr(err, "finding score record")
	}
	return repo.fromRow(row), nil
}

func (repo studentRepository) UpdateScoreRecord(ctx context.Context, rec student.ScoreRecord) (student.ScoreRecord, error) {
	row := repo.toRow(rec)
	q := `
UPDATE score_record
SET name = :name, roll_number = :roll_number, subject = :subject,
    marks = :marks, attendance = :attendance, updated_at = :updated_at
WHERE id = :id AND owner_id = :owner_id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return student.ScoreRecord{}, errors.Wrap(err, "updating score record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ScoreRecord{}, student.ErrNotFound
	}
	return repo.fromRow(row), nil
}

func (repo studentRepository) DeleteScoreRecord(ctx context.Context, id, ownerID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return student.ErrNotFound
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM score_record WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return errors.Wrap(err, "deleting score record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}
