package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core/admitcard"
)

type admitCardRow struct {
	ID             int       `db:"id"`
	CardNo         string    `db:"card_no"`
	StudentID      int       `db:"student_id"`
	ExamName       string    `db:"exam_name"`
	ExamDate       null.Time `db:"exam_date"`
	ExamCenter     string    `db:"exam_center"`
	UniversityCode string    `db:"university_code"`
	CreatedAt      null.Time `db:"created_at"`
	UpdatedAt      null.Time `db:"updated_at"`
}

func (r admitCardRow) unpack() admitcard.Card {
	return admitcard.Card{
		ID:             r.ID,
		CardNo:         r.CardNo,
		StudentID:      r.StudentID,
		ExamName:       r.ExamName,
		ExamDate:       r.ExamDate.Time,
		ExamCenter:     r.ExamCenter,
		UniversityCode: r.UniversityCode,
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
}

func unpackCards(rows []admitCardRow) []admitcard.Card {
	cards := make([]admitcard.Card, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.unpack())
	}
	return cards
}

type admitCardRepository struct {
	db *sqlx.DB
}

var _ admitcard.Repository = (*admitCardRepository)(nil) // interface compliance check

func NewAdmitCardRepository(db *sqlx.DB) *admitCardRepository {
	return &admitCardRepository{db: db}
}

func (repo admitCardRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return admitcard.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo admitCardRepository) CheckCardUniqueness(studentID int, examName string) error {
	var exists bool
	err := repo.db.Get(&exists,
		`SELECT EXISTS (SELECT 1 FROM admit_card WHERE student_id = $1 AND exam_name = $2)`,
		studentID, examName,
	)
	if err != nil {
		return errors.Wrap(err, "checking admit card uniqueness")
	}
	if exists {
		return admitcard.ErrCardExists
	}
	return nil
}

func (repo admitCardRepository) CreateCard(c admitcard.Card) (admitcard.Card, error) {
	var id int
	err := repo.db.QueryRow(
		`INSERT INTO admit_card (card_no, student_id, exam_name, exam_date, exam_center, university_code, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
		c.CardNo, c.StudentID, c.ExamName, c.ExamDate, c.ExamCenter, c.UniversityCode, c.CreatedAt, c.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return admitcard.Card{}, errors.Wrap(err, "inserting admit card")
	}
	c.ID = id
	return c, nil
}

func (repo admitCardRepository) GetCardByID(id int) (admitcard.Card, error) {
	var r admitCardRow
	if err := repo.db.Get(&r, `SELECT * FROM admit_card WHERE id = $1`, id); err != nil {
		return admitcard.Card{}, repo.trapNoRowsErr(err, "getting admit card")
	}
	return r.unpack(), nil
}

func (repo admitCardRepository) GetCardByNo(cardNo string) (admitcard.Card, error) {
	var r admitCardRow
	if err := repo.db.Get(&r, `SELECT * FROM admit_card WHERE card_no = $1`, cardNo); err != nil {
		return admitcard.Card{}, repo.trapNoRowsErr(err, "getting admit card")
	}
	return r.unpack(), nil
}

func (repo admitCardRepository) CardsByStudent(studentID int) ([]admitcard.Card, error) {
	var rows []admitCardRow
	err := repo.db.Select(&rows, `SELECT * FROM admit_card WHERE student_id = $1 ORDER BY exam_date ASC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying admit cards")
	}
	return unpackCards(rows), nil
}

func (repo admitCardRepository) FilterCards(filter admitcard.QueryFilter) ([]admitcard.Card, error) {
	query := `SELECT * FROM admit_card WHERE 1=1`
	var args []interface{}
	if filter.ExamName != "" {
		args = append(args, filter.ExamName)
		query += ` AND exam_name = $` + itoa(len(args))
	}
	if filter.UniversityCode != "" {
		args = append(args, filter.UniversityCode)
		query += ` AND university_code = $` + itoa(len(args))
	}
	query += ` ORDER BY exam_date ASC`

	var rows []admitCardRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering admit cards")
	}
	return unpackCards(rows), nil
}

func (repo admitCardRepository) DeleteCardByID(id int) error {
	if _, err := repo.db.Exec(`DELETE FROM admit_card WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting admit card")
	}
	return nil
}
