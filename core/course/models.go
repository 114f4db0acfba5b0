package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gyanhq/campus/core"
)

type Course struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	Department     string    `json:"department"`
	DurationMonths int       `json:"duration_months"`
	Semesters      int       `json:"semesters"`
	Fees           int64     `json:"fees"`
	UniversityCode string    `json:"university_code"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name           string `json:"name" validate:"required"`
	Code           string `json:"code" validate:"required,alphanum_"`
	Department     string `json:"department" validate:"required"`
	DurationMonths int    `json:"duration_months" validate:"omitempty,min=1,max=120"`
	Semesters      int    `json:"semesters" validate:"omitempty,min=1"`
	Fees           int64  `json:"fees" validate:"omitempty,min=0"`
	UniversityCode string `json:"university_code" validate:"required"`
}

func (nc *NewCourse) Validate(validate *validator.Validate, svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code, true /* lower */)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkUniqueness(nc.Code, nc.UniversityCode)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Name           string `json:"name"`
	Department     string `json:"department"`
	DurationMonths int    `json:"duration_months" validate:"omitempty,min=1,max=120"`
	Semesters      int    `json:"semesters" validate:"omitempty,min=1"`
	Fees           int64  `json:"fees" validate:"omitempty,min=0"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanString(uc.Name)
	return validate.Struct(uc)
}

type QueryFilter struct {
	Search         string `query:"search"`
	Department     string `query:"department"`
	UniversityCode string `query:"university_code"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
