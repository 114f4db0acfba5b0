package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core/message"
)

type messageRow struct {
	ID             int         `db:"id"`
	StudentID      null.Int    `db:"student_id"`
	SenderName     string      `db:"sender_name"`
	SenderEmail    string      `db:"sender_email"`
	Subject        string      `db:"subject"`
	Body           string      `db:"body"`
	Reply          null.String `db:"reply"`
	RepliedAt      null.Time   `db:"replied_at"`
	IsRead         bool        `db:"is_read"`
	UniversityCode string      `db:"university_code"`
	CreatedAt      null.Time   `db:"created_at"`
	UpdatedAt      null.Time   `db:"updated_at"`
}

func (r messageRow) unpack() message.Message {
	return message.Message{
		ID:             r.ID,
		StudentID:      r.StudentID,
		SenderName:     r.SenderName,
		SenderEmail:    r.SenderEmail,
		Subject:        r.Subject,
		Body:           r.Body,
		Reply:          r.Reply,
		RepliedAt:      r.RepliedAt,
		IsRead:         r.IsRead,
		UniversityCode: r.UniversityCode,
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
}

func unpackMessages(rows []messageRow) []message.Message {
	msgs := make([]message.Message, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, r.unpack())
	}
	return msgs
}

type messageRepository struct {
	db *sqlx.DB
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *sqlx.DB) *messageRepository {
	return &messageRepository{db: db}
}

func (repo messageRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return message.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo messageRepository) CreateMessage(m message.Message) (message.Message, error) {
	var id int
	err := repo.db.QueryRow(
		`INSERT INTO message (student_id, sender_name, sender_email, subject, body, reply, replied_at, is_read, university_code, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id`,
		m.StudentID, m.SenderName, m.SenderEmail, m.Subject, m.Body, m.Reply, m.RepliedAt,
		m.IsRead, m.UniversityCode, m.CreatedAt, m.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return message.Message{}, errors.Wrap(err, "inserting message")
	}
	m.ID = id
	return m, nil
}

func (repo messageRepository) GetMessageByID(id int) (message.Message, error) {
	var r messageRow
	if err := repo.db.Get(&r, `SELECT * FROM message WHERE id = $1`, id); err != nil {
		return message.Message{}, repo.trapNoRowsErr(err, "getting message")
	}
	return r.unpack(), nil
}

func (repo messageRepository) FilterMessages(filter message.QueryFilter) ([]message.Message, error) {
	query := `SELECT * FROM message WHERE 1=1`
	var args []interface{}
	if filter.Unread != nil {
		query += ` AND is_read = NOT $` + itoa(len(args)+1)
		args = append(args, *filter.Unread)
	}
	if filter.Unreplied != nil && *filter.Unreplied {
		query += ` AND replied_at IS NULL`
	}
	if filter.UniversityCode != "" {
		args = append(args, filter.UniversityCode)
		query += ` AND university_code = $` + itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	var rows []messageRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering messages")
	}
	return unpackMessages(rows), nil
}

func (repo messageRepository) MessagesByStudent(studentID int) ([]message.Message, error) {
	var rows []messageRow
	err := repo.db.Select(&rows, `SELECT * FROM message WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}
	return unpackMessages(rows), nil
}

func (repo messageRepository) UpdateMessage(m message.Message) (message.Message, error) {
	res, err := repo.db.Exec(
		`UPDATE message SET reply = $1, replied_at = $2, is_read = $3, updated_at = $4 WHERE id = $5`,
		m.Reply, m.RepliedAt, m.IsRead, m.UpdatedAt, m.ID,
	)
	if err != nil {
		return message.Message{}, errors.Wrap(err, "updating message")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return message.Message{}, message.ErrNotFound
	}
	return repo.GetMessageByID(m.ID)
}

func (repo messageRepository) DeleteMessageByID(id int) error {
	if _, err := repo.db.Exec(`DELETE FROM message WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting message")
	}
	return nil
}
