package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core/course"
)

type courseRow struct {
	ID             int       `db:"id"`
	Name           string    `db:"name"`
	Code           string    `db:"code"`
	Department     string    `db:"department"`
	DurationMonths int       `db:"duration_months"`
	Semesters      int       `db:"semesters"`
	Fees           int64     `db:"fees"`
	UniversityCode string    `db:"university_code"`
	CreatedAt      null.Time `db:"created_at"`
	UpdatedAt      null.Time `db:"updated_at"`
}

func (r courseRow) unpack() course.Course {
	return course.Course{
		ID:             r.ID,
		Name:           r.Name,
		Code:           r.Code,
		Department:     r.Department,
		DurationMonths: r.DurationMonths,
		Semesters:      r.Semesters,
		Fees:           r.Fees,
		UniversityCode: r.UniversityCode,
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return course.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo courseRepository) CheckCourseCodeUniqueness(code, universityCode string, excludedCourses ...course.Course) error {
	exclIDs := make([]int, 0, len(excludedCourses))
	for _, crs := range excludedCourses {
		exclIDs = append(exclIDs, crs.ID)
	}
	if len(exclIDs) == 0 {
		exclIDs = append(exclIDs, 0)
	}

	query, args, err := sqlx.In(
		`SELECT EXISTS (SELECT 1 FROM course WHERE code = ? AND university_code = ? AND id NOT IN (?))`,
		code, universityCode, exclIDs,
	)
	if err != nil {
		return errors.Wrap(err, "checking course uniqueness")
	}

	var exists bool
	if err = repo.db.Get(&exists, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking course uniqueness")
	}
	if exists {
		return course.ErrCodeExists
	}
	return nil
}

func (repo courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	var id int
	err := repo.db.QueryRow(
		`INSERT INTO course (name, code, department, duration_months, semesters, fees, university_code, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
		crs.Name, crs.Code, crs.Department, crs.DurationMonths, crs.Semesters, crs.Fees,
		crs.UniversityCode, crs.CreatedAt, crs.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	crs.ID = id
	return crs, nil
}

func (repo courseRepository) GetCourseByID(id int) (course.Course, error) {
	var r courseRow
	if err := repo.db.Get(&r, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, "getting course")
	}
	return r.unpack(), nil
}

func (repo courseRepository) FilterCourses(filter course.QueryFilter) ([]course.Course, error) {
	query := `SELECT * FROM course WHERE 1=1`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + strings.ToLower(filter.Search) + "%")
		query += ` AND (LOWER(name) LIKE ` + p + ` OR LOWER(code) LIKE ` + p + `)`
	}
	if filter.Department != "" {
		query += ` AND department = ` + arg(filter.Department)
	}
	if filter.UniversityCode != "" {
		query += ` AND university_code = ` + arg(filter.UniversityCode)
	}
	query += ` ORDER BY name ASC`

	var rows []courseRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.unpack())
	}
	return courses, nil
}

func (repo courseRepository) UpdateCourse(crs course.Course) (course.Course, error) {
	res, err := repo.db.Exec(
		`UPDATE course SET name = $1, department = $2, duration_months = $3, semesters = $4, fees = $5, updated_at = $6
		 WHERE id = $7`,
		crs.Name, crs.Department, crs.DurationMonths, crs.Semesters, crs.Fees, crs.UpdatedAt, crs.ID,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return repo.GetCourseByID(crs.ID)
}

func (repo courseRepository) DeleteCourseByID(id int) error {
	if _, err := repo.db.Exec(`DELETE FROM course WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return nil
}
