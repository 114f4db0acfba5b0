package inmemdb

import (
	"sort"
	"strings"
	"time"

	"github.com/gyanhq/campus/core/employee"
)

type employeeRepository struct {
	db *employeeTable
}

var _ employee.Repository = (*employeeRepository)(nil) // interface compliance check

func NewEmployeeRepository(db *DB) *employeeRepository {
	return &employeeRepository{db: db.employee}
}

func (repo *employeeRepository) query() []employee.Employee {
	employees := make([]employee.Employee, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		employees = append(employees, *e)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees
}

func (repo *employeeRepository) CheckEmployeeUniqueness(email string, excludedEmployees ...employee.Employee) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := func(e employee.Employee) bool {
		for _, excl := range excludedEmployees {
			if e.ID == excl.ID {
				return true
			}
		}
		return false
	}

	for _, e := range repo.query() {
		if e.Email == email && !excluded(e) {
			return employee.ErrEmailExists
		}
	}
	return nil
}

func (repo *employeeRepository) CreateEmployee(e employee.Employee) (employee.Employee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	e.ID = repo.db.pkCount
	repo.db.table[e.ID] = &e
	return e, nil
}

func (repo *employeeRepository) GetEmployeeByID(id int) (employee.Employee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.table[id]; ok {
		return *e, nil
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (repo *employeeRepository) FilterEmployees(filter employee.QueryFilter) ([]employee.Employee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]employee.Employee, 0)
	search := strings.ToLower(filter.Search)
	for _, e := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.Email), search) {
			continue
		}
		if filter.Department != "" && e.Department != filter.Department {
			continue
		}
		if filter.Designation != "" && e.Designation != filter.Designation {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.UniversityCode != "" && e.UniversityCode != filter.UniversityCode {
			continue
		}
		matches = append(matches, e)
	}
	return matches, nil
}

func (repo *employeeRepository) UpdateEmployee(e employee.Employee) (employee.Employee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[e.ID]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	e.Status = orig.Status
	repo.db.table[e.ID] = &e
	return e, nil
}

func (repo *employeeRepository) SetEmployeeStatus(id int, status string) (employee.Employee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e, ok := repo.db.table[id]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = time.Now().UTC()
	return *e, nil
}
