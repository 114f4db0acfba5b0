package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLeave   = "leave"
)

// Record is one student's attendance for one day.
type Record struct {
	ID             int       `json:"id"`
	StudentID      int       `json:"student_id"`
	CourseID       int       `json:"course_id"`
	Date           time.Time `json:"date"`
	Status         string    `json:"status"`
	UniversityCode string    `json:"university_code"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

type NewRecord struct {
	StudentID      int       `json:"student_id" validate:"required"`
	CourseID       int       `json:"course_id" validate:"required"`
	Date           time.Time `json:"date" validate:"required"`
	Status         string    `json:"status" validate:"required,oneof=present absent leave"`
	UniversityCode string    `json:"university_code" validate:"required"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}

// BulkMark marks a whole class in one request.
type BulkMark struct {
	CourseID       int         `json:"course_id" validate:"required"`
	Date           time.Time   `json:"date" validate:"required"`
	UniversityCode string      `json:"university_code" validate:"required"`
	Entries        []BulkEntry `json:"entries" validate:"required,min=1,dive"`
}

type BulkEntry struct {
	StudentID int    `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent leave"`
}

func (bm *BulkMark) Validate(validate *validator.Validate) error {
	return validate.Struct(bm)
}

// Summary aggregates one student's attendance over a date range.
type Summary struct {
	StudentID  int     `json:"student_id"`
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Leave      int     `json:"leave"`
	Percentage float64 `json:"percentage"`
}
