package inmemdb

import (
	"sort"
	"strings"

	"github.com/gyanhq/campus/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.table))
	for _, crs := range repo.db.table {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses
}

func (repo *courseRepository) CheckCourseCodeUniqueness(code, universityCode string, excludedCourses ...course.Course) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := func(crs course.Course) bool {
		for _, excl := range excludedCourses {
			if crs.ID == excl.ID {
				return true
			}
		}
		return false
	}

	for _, crs := range repo.query() {
		if crs.Code == code && crs.UniversityCode == universityCode && !excluded(crs) {
			return course.ErrCodeExists
		}
	}
	return nil
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	crs.ID = repo.db.pkCount
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourseByID(id int) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) FilterCourses(filter course.QueryFilter) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]course.Course, 0)
	search := strings.ToLower(filter.Search)
	for _, crs := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(crs.Name), search) &&
			!strings.Contains(strings.ToLower(crs.Code), search) {
			continue
		}
		if filter.Department != "" && crs.Department != filter.Department {
			continue
		}
		if filter.UniversityCode != "" && crs.UniversityCode != filter.UniversityCode {
			continue
		}
		matches = append(matches, crs)
	}
	return matches, nil
}

func (repo *courseRepository) UpdateCourse(crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCourseByID(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}
