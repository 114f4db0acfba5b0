package student

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

type Student struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	Department       string    `json:"department"`
	Year             string    `json:"year"`
	GuardianName     string    `json:"guardian_name"`
	GuardianPhone    string    `json:"guardian_phone"`
	EmergencyContact string    `json:"emergency_contact"`
	Gender           string    `json:"gender"`
	UniversityCode   string    `json:"university_code"`
	EnrollmentID     string    `json:"enrollment_id"`
	Status           string    `json:"status"`
	JoiningDate      null.Time `json:"joining_date"`
	DateOfBirth      null.Time `json:"date_of_birth"`
	CourseID         int       `json:"course_id"`
	SessionID        null.Int  `json:"session_id"`

	// billing summary, maintained by the payment service
	InstallmentCount int   `json:"installment_count"`
	DiscountAmount   int64 `json:"discount_amount"`
	FinalAmount      int64 `json:"final_amount"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (s *Student) IsInactive() bool { return s.Status == StatusInactive }

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name             string    `json:"name" validate:"required"`
	Email            string    `json:"email" validate:"required,email"`
	Phone            string    `json:"phone" validate:"required"`
	Address          string    `json:"address"`
	Department       string    `json:"department" validate:"required"`
	Year             string    `json:"year"`
	GuardianName     string    `json:"guardian_name"`
	GuardianPhone    string    `json:"guardian_phone"`
	EmergencyContact string    `json:"emergency_contact"`
	Gender           string    `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	UniversityCode   string    `json:"university_code" validate:"required"`
	EnrollmentID     string    `json:"enrollment_id" validate:"required,alphanum_"`
	JoiningDate      null.Time `json:"joining_date"`
	DateOfBirth      null.Time `json:"date_of_birth"`
	CourseID         int       `json:"course_id" validate:"required"`
	SessionID        null.Int  `json:"session_id"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.EnrollmentID = core.CleanString(ns.EnrollmentID)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Email, ns.EnrollmentID, ns.UniversityCode)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Zero-valued fields are left unchanged.
type UpdateStudent struct {
	Name             string    `json:"name"`
	Email            string    `json:"email" validate:"omitempty,email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	Department       string    `json:"department"`
	Year             string    `json:"year"`
	GuardianName     string    `json:"guardian_name"`
	GuardianPhone    string    `json:"guardian_phone"`
	EmergencyContact string    `json:"emergency_contact"`
	Gender           string    `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	JoiningDate      null.Time `json:"joining_date"`
	DateOfBirth      null.Time `json:"date_of_birth"`
	CourseID         int       `json:"course_id"`
	SessionID        null.Int  `json:"session_id"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate, orig Student, svc *Service) error {
	us.Name = core.CleanString(us.Name)
	if us.Name == "" {
		us.Name = orig.Name
	}
	email := core.CleanString(us.Email, true /* lower */)
	if email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}

	if err := validate.Struct(us); err != nil {
		return err
	}
	if us.Email != orig.Email {
		return svc.checkUniqueness(us.Email, "", orig.UniversityCode, orig)
	}
	return nil
}

type QueryFilter struct {
	Search         string `query:"search"`
	Department     string `query:"department"`
	Year           string `query:"year"`
	Status         string `query:"status"`
	UniversityCode string `query:"university_code"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Department == "" && qf.Year == "" && qf.Status == "" && qf.UniversityCode == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
