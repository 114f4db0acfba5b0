package session

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gyanhq/campus/core"
)

// Session is one academic year, e.g. "2024-2025".
type Session struct {
	ID             int       `json:"id"`
	Year           string    `json:"year"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	IsDefault      bool      `json:"is_default"`
	UniversityCode string    `json:"university_code"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

type NewSession struct {
	Year           string    `json:"year" validate:"required"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	IsDefault      bool      `json:"is_default"`
	UniversityCode string    `json:"university_code" validate:"required"`
}

func (ns *NewSession) Validate(validate *validator.Validate, svc *Service) error {
	ns.Year = core.CleanString(ns.Year)
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Year, ns.UniversityCode)
}

type UpdateSession struct {
	Year      string    `json:"year"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (us *UpdateSession) Validate(validate *validator.Validate) error {
	us.Year = core.CleanString(us.Year)
	return validate.Struct(us)
}
