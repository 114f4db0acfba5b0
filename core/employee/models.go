package employee

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core"
)

// Statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Employee is a staff member of one university (teaching or not).
type Employee struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Designation    string    `json:"designation"`
	Department     string    `json:"department"`
	Salary         int64     `json:"salary"`
	JoiningDate    null.Time `json:"joining_date"`
	Status         string    `json:"status"`
	UniversityCode string    `json:"university_code"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

func (e *Employee) IsInactive() bool { return e.Status == StatusInactive }

type NewEmployee struct {
	Name           string    `json:"name" validate:"required"`
	Email          string    `json:"email" validate:"required,email"`
	Phone          string    `json:"phone"`
	Designation    string    `json:"designation" validate:"required"`
	Department     string    `json:"department"`
	Salary         int64     `json:"salary" validate:"min=0"`
	JoiningDate    null.Time `json:"joining_date"`
	UniversityCode string    `json:"university_code" validate:"required"`
}

func (ne *NewEmployee) Validate(validate *validator.Validate, svc *Service) error {
	ne.Name = core.CleanString(ne.Name)
	ne.Email = core.CleanString(ne.Email, true)
	ne.Designation = core.CleanString(ne.Designation)
	ne.Department = core.CleanString(ne.Department)
	if err := validate.Struct(ne); err != nil {
		return err
	}
	return svc.checkUniqueness(ne.Email)
}

type UpdateEmployee struct {
	Name        string    `json:"name"`
	Email       string    `json:"email" validate:"omitempty,email"`
	Phone       string    `json:"phone"`
	Designation string    `json:"designation"`
	Department  string    `json:"department"`
	Salary      null.Int64 `json:"salary"`
	JoiningDate null.Time `json:"joining_date"`
}

func (ue *UpdateEmployee) Validate(validate *validator.Validate, svc *Service, orig Employee) error {
	ue.Name = core.CleanString(ue.Name)
	ue.Email = core.CleanString(ue.Email, true)
	ue.Designation = core.CleanString(ue.Designation)
	ue.Department = core.CleanString(ue.Department)
	if err := validate.Struct(ue); err != nil {
		return err
	}
	if ue.Email != "" && ue.Email != orig.Email {
		return svc.checkUniqueness(ue.Email, orig)
	}
	return nil
}

// QueryFilter narrows employee queries.
type QueryFilter struct {
	Search         string `json:"search" query:"search"`
	Department     string `json:"department" query:"department"`
	Designation    string `json:"designation" query:"designation"`
	Status         string `json:"status" query:"status"`
	UniversityCode string `json:"university_code" query:"university_code"`
}
