package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core/attendance"
)

type attendanceRow struct {
	ID             int       `db:"id"`
	StudentID      int       `db:"student_id"`
	CourseID       int       `db:"course_id"`
	Date           null.Time `db:"date"`
	Status         string    `db:"status"`
	UniversityCode string    `db:"university_code"`
	CreatedAt      null.Time `db:"created_at"`
	UpdatedAt      null.Time `db:"updated_at"`
}

func (r attendanceRow) unpack() attendance.Record {
	return attendance.Record{
		ID:             r.ID,
		StudentID:      r.StudentID,
		CourseID:       r.CourseID,
		Date:           r.Date.Time,
		Status:         r.Status,
		UniversityCode: r.UniversityCode,
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) upsert(tx *sqlx.Tx, rec attendance.Record) (attendance.Record, error) {
	var id int
	err := tx.QueryRow(
		`INSERT INTO attendance (student_id, course_id, date, status, university_code, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (student_id, date)
		 DO UPDATE SET course_id = EXCLUDED.course_id, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		 RETURNING id`,
		rec.StudentID, rec.CourseID, rec.Date, rec.Status, rec.UniversityCode, rec.CreatedAt, rec.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "upserting attendance")
	}
	rec.ID = id
	return rec, nil
}

func (repo attendanceRepository) UpsertRecord(rec attendance.Record) (attendance.Record, error) {
	recs, err := repo.UpsertRecords([]attendance.Record{rec})
	if err != nil {
		return attendance.Record{}, err
	}
	return recs[0], nil
}

func (repo attendanceRepository) UpsertRecords(recs []attendance.Record) ([]attendance.Record, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}

	upserted := make([]attendance.Record, 0, len(recs))
	for _, rec := range recs {
		rec, err := repo.upsert(tx, rec)
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}
		upserted = append(upserted, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing attendance")
	}
	return upserted, nil
}

func (repo attendanceRepository) GetRecordByID(id int) (attendance.Record, error) {
	var r attendanceRow
	if err := repo.db.Get(&r, `SELECT * FROM attendance WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return attendance.Record{}, attendance.ErrNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "getting attendance")
	}
	return r.unpack(), nil
}

func (repo attendanceRepository) RecordsByStudent(studentID int, from, to time.Time) ([]attendance.Record, error) {
	query := `SELECT * FROM attendance WHERE student_id = $1`
	args := []interface{}{studentID}
	if !from.IsZero() {
		args = append(args, from)
		query += ` AND date >= $` + itoa(len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += ` AND date <= $` + itoa(len(args))
	}
	query += ` ORDER BY date ASC`

	var rows []attendanceRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	recs := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.unpack())
	}
	return recs, nil
}

func (repo attendanceRepository) DeleteRecordByID(id int) error {
	if _, err := repo.db.Exec(`DELETE FROM attendance WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return nil
}
