package student

import (
	"errors"
	"time"

	"github.com/gyanhq/campus/core"
)

var (
	// errors
	ErrNotFound           = errors.New("student not found")
	ErrEmailExists        = errors.New("a student with this email already exists")
	ErrEnrollmentIDExists = errors.New("a student with this enrollment ID already exists")
)

type (
	Repository interface {
		CheckStudentUniqueness(email, enrollmentID, universityCode string, excludedStudents ...Student) error
		CreateStudent(std Student) (Student, error)
		GetStudentByID(id int) (Student, error)
		GetStudentByEmail(email string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Name, Email or EnrollmentID.
		FilterStudents(filter QueryFilter) ([]Student, error)
		UpdateStudent(std Student) (Student, error)
		SetStudentStatus(id int, status string) (Student, error)
		UpdateBillingSummary(id, installmentCount int, discountAmount, finalAmount int64) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email, enrollmentID, universityCode string, excl ...Student) error {
	if err := svc.repo.CheckStudentUniqueness(email, enrollmentID, universityCode, excl...); err != nil {
		switch err {
		case ErrEmailExists, ErrEnrollmentIDExists:
			return core.NewConflictError(err)
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		Name:             ns.Name,
		Email:            ns.Email,
		Phone:            ns.Phone,
		Address:          ns.Address,
		Department:       ns.Department,
		Year:             ns.Year,
		GuardianName:     ns.GuardianName,
		GuardianPhone:    ns.GuardianPhone,
		EmergencyContact: ns.EmergencyContact,
		Gender:           ns.Gender,
		UniversityCode:   ns.UniversityCode,
		EnrollmentID:     ns.EnrollmentID,
		Status:           StatusActive,
		JoiningDate:      ns.JoiningDate,
		DateOfBirth:      ns.DateOfBirth,
		CourseID:         ns.CourseID,
		SessionID:        ns.SessionID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return svc.repo.CreateStudent(std)
}

func (svc *Service) GetByID(id int) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) GetByEmail(email string) (Student, error) {
	return svc.repo.GetStudentByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) Filter(filter QueryFilter) ([]Student, error) {
	return svc.repo.FilterStudents(filter)
}

// ExStudents returns all deactivated students for a tenant.
func (svc *Service) ExStudents(universityCode string) ([]Student, error) {
	return svc.repo.FilterStudents(QueryFilter{Status: StatusInactive, UniversityCode: universityCode})
}

func (svc *Service) Update(orig Student, us UpdateStudent) (Student, error) {
	std := orig
	std.Name = us.Name
	std.Email = us.Email
	if us.Phone != "" {
		std.Phone = us.Phone
	}
	if us.Address != "" {
		std.Address = us.Address
	}
	if us.Department != "" {
		std.Department = us.Department
	}
	if us.Year != "" {
		std.Year = us.Year
	}
	if us.GuardianName != "" {
		std.GuardianName = us.GuardianName
	}
	if us.GuardianPhone != "" {
		std.GuardianPhone = us.GuardianPhone
	}
	if us.EmergencyContact != "" {
		std.EmergencyContact = us.EmergencyContact
	}
	if us.Gender != "" {
		std.Gender = us.Gender
	}
	if us.JoiningDate.Valid {
		std.JoiningDate = us.JoiningDate
	}
	if us.DateOfBirth.Valid {
		std.DateOfBirth = us.DateOfBirth
	}
	if us.CourseID != 0 {
		std.CourseID = us.CourseID
	}
	if us.SessionID.Valid {
		std.SessionID = us.SessionID
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(std)
}

// Deactivate soft-deletes a student; payment history is kept.
func (svc *Service) Deactivate(id int) (Student, error) {
	return svc.repo.SetStudentStatus(id, StatusInactive)
}

func (svc *Service) Reactivate(id int) (Student, error) {
	return svc.repo.SetStudentStatus(id, StatusActive)
}

// SetBillingSummary records the aggregates derived at installment-plan creation.
func (svc *Service) SetBillingSummary(id, installmentCount int, discountAmount, finalAmount int64) error {
	return svc.repo.UpdateBillingSummary(id, installmentCount, discountAmount, finalAmount)
}
