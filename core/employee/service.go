package employee

import (
	"errors"
	"time"

	"github.com/gyanhq/campus/core"
)

var (
	ErrNotFound    = errors.New("employee not found")
	ErrEmailExists = errors.New("an employee with this email already exists")
)

type (
	Repository interface {
		CheckEmployeeUniqueness(email string, excludedEmployees ...Employee) error
		CreateEmployee(e Employee) (Employee, error)
		GetEmployeeByID(id int) (Employee, error)
		// FilterEmployees returns employees ordered by name ascending.
		FilterEmployees(filter QueryFilter) ([]Employee, error)
		UpdateEmployee(e Employee) (Employee, error)
		SetEmployeeStatus(id int, status string) (Employee, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string, excl ...Employee) error {
	if err := svc.repo.CheckEmployeeUniqueness(email, excl...); err != nil {
		if err == ErrEmailExists {
			return core.NewConflictError(err)
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ne NewEmployee) (Employee, error) {
	now := time.Now().UTC()
	return svc.repo.CreateEmployee(Employee{
		Name:           ne.Name,
		Email:          ne.Email,
		Phone:          ne.Phone,
		Designation:    ne.Designation,
		Department:     ne.Department,
		Salary:         ne.Salary,
		JoiningDate:    ne.JoiningDate,
		Status:         StatusActive,
		UniversityCode: ne.UniversityCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (svc *Service) GetByID(id int) (Employee, error) {
	return svc.repo.GetEmployeeByID(id)
}

func (svc *Service) Query(filter QueryFilter) ([]Employee, error) {
	return svc.repo.FilterEmployees(filter)
}

func (svc *Service) Update(orig Employee, ue UpdateEmployee) (Employee, error) {
	e := orig
	if ue.Name != "" {
		e.Name = ue.Name
	}
	if ue.Email != "" {
		e.Email = ue.Email
	}
	if ue.Phone != "" {
		e.Phone = ue.Phone
	}
	if ue.Designation != "" {
		e.Designation = ue.Designation
	}
	if ue.Department != "" {
		e.Department = ue.Department
	}
	if ue.Salary.Valid {
		e.Salary = ue.Salary.Int64
	}
	if ue.JoiningDate.Valid {
		e.JoiningDate = ue.JoiningDate
	}
	e.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEmployee(e)
}

func (svc *Service) Deactivate(id int) (Employee, error) {
	return svc.repo.SetEmployeeStatus(id, StatusInactive)
}

func (svc *Service) Reactivate(id int) (Employee, error) {
	return svc.repo.SetEmployeeStatus(id, StatusActive)
}
