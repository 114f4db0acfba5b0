package inmemdb

import (
	"sort"
	"strings"
	"time"

	"github.com/gyanhq/campus/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, std := range repo.db.table {
		students = append(students, *std)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students
}

func (repo *studentRepository) CheckStudentUniqueness(email, enrollmentID, universityCode string, excludedStudents ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := func(std student.Student) bool {
		for _, excl := range excludedStudents {
			if std.ID == excl.ID {
				return true
			}
		}
		return false
	}

	for _, std := range repo.query() {
		if std.UniversityCode != universityCode || excluded(std) {
			continue
		}
		if std.Email == email {
			return student.ErrEmailExists
		}
		if enrollmentID != "" && std.EnrollmentID == enrollmentID {
			return student.ErrEnrollmentIDExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	std.ID = repo.db.pkCount
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) GetStudentByID(id int) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.query() {
		if std.Email == email {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]student.Student, 0)
	search := strings.ToLower(filter.Search)
	for _, std := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(std.Name), search) &&
			!strings.Contains(strings.ToLower(std.Email), search) &&
			!strings.Contains(strings.ToLower(std.EnrollmentID), search) {
			continue
		}
		if filter.Department != "" && std.Department != filter.Department {
			continue
		}
		if filter.Year != "" && std.Year != filter.Year {
			continue
		}
		if filter.Status != "" && std.Status != filter.Status {
			continue
		}
		if filter.UniversityCode != "" && std.UniversityCode != filter.UniversityCode {
			continue
		}
		matches = append(matches, std)
	}
	return matches, nil
}

func (repo *studentRepository) UpdateStudent(std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	// status and billing summary are managed by dedicated methods
	std.Status = orig.Status
	std.InstallmentCount = orig.InstallmentCount
	std.DiscountAmount = orig.DiscountAmount
	std.FinalAmount = orig.FinalAmount

	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) SetStudentStatus(id int, status string) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std, ok := repo.db.table[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	std.Status = status
	std.UpdatedAt = time.Now().UTC()
	return *std, nil
}

func (repo *studentRepository) UpdateBillingSummary(id, installmentCount int, discountAmount, finalAmount int64) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	std, ok := repo.db.table[id]
	if !ok {
		return student.ErrNotFound
	}
	std.InstallmentCount = installmentCount
	std.DiscountAmount = discountAmount
	std.FinalAmount = finalAmount
	std.UpdatedAt = time.Now().UTC()
	return nil
}
