package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core/session"
)

type sessionRow struct {
	ID             int       `db:"id"`
	Year           string    `db:"year"`
	StartDate      null.Time `db:"start_date"`
	EndDate        null.Time `db:"end_date"`
	IsDefault      bool      `db:"is_default"`
	UniversityCode string    `db:"university_code"`
	CreatedAt      null.Time `db:"created_at"`
	UpdatedAt      null.Time `db:"updated_at"`
}

func (r sessionRow) unpack() session.Session {
	return session.Session{
		ID:             r.ID,
		Year:           r.Year,
		StartDate:      r.StartDate.Time,
		EndDate:        r.EndDate.Time,
		IsDefault:      r.IsDefault,
		UniversityCode: r.UniversityCode,
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
}

type sessionRepository struct {
	db *sqlx.DB
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *sqlx.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (repo sessionRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return session.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo sessionRepository) CheckSessionUniqueness(year, universityCode string, excludedSessions ...session.Session) error {
	exclIDs := make([]int, 0, len(excludedSessions))
	for _, s := range excludedSessions {
		exclIDs = append(exclIDs, s.ID)
	}
	if len(exclIDs) == 0 {
		exclIDs = append(exclIDs, 0)
	}

	query, args, err := sqlx.In(
		`SELECT EXISTS (SELECT 1 FROM session WHERE year = ? AND university_code = ? AND id NOT IN (?))`,
		year, universityCode, exclIDs,
	)
	if err != nil {
		return errors.Wrap(err, "checking session uniqueness")
	}

	var exists bool
	if err = repo.db.Get(&exists, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking session uniqueness")
	}
	if exists {
		return session.ErrYearExists
	}
	return nil
}

func (repo sessionRepository) CreateSession(s session.Session) (session.Session, error) {
	var id int
	err := repo.db.QueryRow(
		`INSERT INTO session (year, start_date, end_date, is_default, university_code, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		s.Year, s.StartDate, s.EndDate, s.IsDefault, s.UniversityCode, s.CreatedAt, s.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "inserting session")
	}
	s.ID = id
	return s, nil
}

func (repo sessionRepository) GetSessionByID(id int) (session.Session, error) {
	var r sessionRow
	if err := repo.db.Get(&r, `SELECT * FROM session WHERE id = $1`, id); err != nil {
		return session.Session{}, repo.trapNoRowsErr(err, "getting session")
	}
	return r.unpack(), nil
}

func (repo sessionRepository) QueryAllSessions(universityCode string) ([]session.Session, error) {
	query := `SELECT * FROM session`
	var args []interface{}
	if universityCode != "" {
		query += ` WHERE university_code = $1`
		args = append(args, universityCode)
	}
	query += ` ORDER BY start_date DESC`

	var rows []sessionRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	sessions := make([]session.Session, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, r.unpack())
	}
	return sessions, nil
}

func (repo sessionRepository) GetDefaultSession(universityCode string) (session.Session, error) {
	var r sessionRow
	err := repo.db.Get(&r, `SELECT * FROM session WHERE is_default AND university_code = $1`, universityCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return session.Session{}, session.ErrNoDefault
		}
		return session.Session{}, errors.Wrap(err, "getting default session")
	}
	return r.unpack(), nil
}

func (repo sessionRepository) SetDefaultSession(id int, universityCode string) (session.Session, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return session.Session{}, errors.Wrap(err, "beginning transaction")
	}

	if _, err = tx.Exec(`UPDATE session SET is_default = FALSE WHERE university_code = $1`, universityCode); err != nil {
		_ = tx.Rollback()
		return session.Session{}, errors.Wrap(err, "unsetting default session")
	}
	res, err := tx.Exec(`UPDATE session SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND university_code = $2`, id, universityCode)
	if err != nil {
		_ = tx.Rollback()
		return session.Session{}, errors.Wrap(err, "setting default session")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		return session.Session{}, session.ErrNotFound
	}
	if err = tx.Commit(); err != nil {
		return session.Session{}, errors.Wrap(err, "committing default session")
	}
	return repo.GetSessionByID(id)
}

func (repo sessionRepository) UpdateSession(s session.Session) (session.Session, error) {
	res, err := repo.db.Exec(
		`UPDATE session SET year = $1, start_date = $2, end_date = $3, updated_at = $4 WHERE id = $5`,
		s.Year, s.StartDate, s.EndDate, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "updating session")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return session.Session{}, session.ErrNotFound
	}
	return repo.GetSessionByID(s.ID)
}

func (repo sessionRepository) DeleteSessionByID(id int) error {
	if _, err := repo.db.Exec(`DELETE FROM session WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}
