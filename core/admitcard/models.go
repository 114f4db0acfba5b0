package admitcard

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gyanhq/campus/core"
)

// Card admits one student to one exam sitting.
type Card struct {
	ID             int       `json:"id"`
	CardNo         string    `json:"card_no"`
	StudentID      int       `json:"student_id"`
	ExamName       string    `json:"exam_name"`
	ExamDate       time.Time `json:"exam_date"`
	ExamCenter     string    `json:"exam_center"`
	UniversityCode string    `json:"university_code"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

type NewCard struct {
	StudentID      int       `json:"student_id" validate:"required"`
	ExamName       string    `json:"exam_name" validate:"required"`
	ExamDate       time.Time `json:"exam_date" validate:"required"`
	ExamCenter     string    `json:"exam_center"`
	UniversityCode string    `json:"university_code" validate:"required"`
}

func (nc *NewCard) Validate(validate *validator.Validate, svc *Service) error {
	nc.ExamName = core.CleanString(nc.ExamName)
	nc.ExamCenter = core.CleanString(nc.ExamCenter)
	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkUniqueness(nc.StudentID, nc.ExamName)
}

// QueryFilter narrows admit card queries.
type QueryFilter struct {
	ExamName       string `json:"exam_name" query:"exam_name"`
	UniversityCode string `json:"university_code" query:"university_code"`
}
