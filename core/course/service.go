package course

import (
	"errors"
	"time"

	"github.com/gyanhq/campus/core"
)

// DefaultDurationMonths applies when a course has no duration on record.
const DefaultDurationMonths = 12

var (
	ErrNotFound   = errors.New("course not found")
	ErrCodeExists = errors.New("a course with this code already exists")
)

type (
	Repository interface {
		CheckCourseCodeUniqueness(code, universityCode string, excludedCourses ...Course) error
		CreateCourse(crs Course) (Course, error)
		GetCourseByID(id int) (Course, error)
		// FilterCourses applies AND operation on available QueryFilter fields.
		FilterCourses(filter QueryFilter) ([]Course, error)
		UpdateCourse(crs Course) (Course, error)
		DeleteCourseByID(id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(code, universityCode string, excl ...Course) error {
	if err := svc.repo.CheckCourseCodeUniqueness(code, universityCode, excl...); err != nil {
		if err == ErrCodeExists {
			return core.NewConflictError(err)
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	if nc.DurationMonths == 0 {
		nc.DurationMonths = DefaultDurationMonths
	}
	crs := Course{
		Name:           nc.Name,
		Code:           nc.Code,
		Department:     nc.Department,
		DurationMonths: nc.DurationMonths,
		Semesters:      nc.Semesters,
		Fees:           nc.Fees,
		UniversityCode: nc.UniversityCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateCourse(crs)
}

func (svc *Service) GetByID(id int) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Course, error) {
	return svc.repo.FilterCourses(filter)
}

func (svc *Service) ByDepartment(department, universityCode string) ([]Course, error) {
	return svc.repo.FilterCourses(QueryFilter{Department: department, UniversityCode: universityCode})
}

func (svc *Service) Update(orig Course, uc UpdateCourse) (Course, error) {
	crs := orig
	if uc.Name != "" {
		crs.Name = uc.Name
	}
	if uc.Department != "" {
		crs.Department = uc.Department
	}
	if uc.DurationMonths != 0 {
		crs.DurationMonths = uc.DurationMonths
	}
	if uc.Semesters != 0 {
		crs.Semesters = uc.Semesters
	}
	if uc.Fees != 0 {
		crs.Fees = uc.Fees
	}
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(crs)
}

func (svc *Service) Delete(id int) error {
	return svc.repo.DeleteCourseByID(id)
}
