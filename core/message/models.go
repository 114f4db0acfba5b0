package message

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core"
)

// Message is an enquiry or notice sent by (or on behalf of) a student.
type Message struct {
	ID             int         `json:"id"`
	StudentID      null.Int    `json:"student_id"`
	SenderName     string      `json:"sender_name"`
	SenderEmail    string      `json:"sender_email"`
	Subject        string      `json:"subject"`
	Body           string      `json:"body"`
	Reply          null.String `json:"reply"`
	RepliedAt      null.Time   `json:"replied_at"`
	IsRead         bool        `json:"is_read"`
	UniversityCode string      `json:"university_code"`
	CreatedAt      time.Time   `json:"created_at"` // UTC
	UpdatedAt      time.Time   `json:"updated_at"` // UTC
}

func (m *Message) IsReplied() bool { return m.RepliedAt.Valid }

type NewMessage struct {
	StudentID      null.Int `json:"student_id"`
	SenderName     string   `json:"sender_name" validate:"required"`
	SenderEmail    string   `json:"sender_email" validate:"required,email"`
	Subject        string   `json:"subject" validate:"required"`
	Body           string   `json:"body" validate:"required"`
	UniversityCode string   `json:"university_code" validate:"required"`
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.SenderName = core.CleanString(nm.SenderName)
	nm.SenderEmail = core.CleanString(nm.SenderEmail, true)
	nm.Subject = core.CleanString(nm.Subject)
	return validate.Struct(nm)
}

type Reply struct {
	Body string `json:"body" validate:"required"`
}

func (r *Reply) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// QueryFilter narrows message queries.
type QueryFilter struct {
	Unread         *bool  `json:"unread" query:"unread"`
	Unreplied      *bool  `json:"unreplied" query:"unreplied"`
	UniversityCode string `json:"university_code" query:"university_code"`
}

// Stats summarizes the inbox for dashboards.
type Stats struct {
	Total     int `json:"total"`
	Unread    int `json:"unread"`
	Unreplied int `json:"unreplied"`
}
