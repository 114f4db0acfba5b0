package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core/employee"
)

type employeeRow struct {
	ID             int       `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	Designation    string    `db:"designation"`
	Department     string    `db:"department"`
	Salary         int64     `db:"salary"`
	JoiningDate    null.Time `db:"joining_date"`
	Status         string    `db:"status"`
	UniversityCode string    `db:"university_code"`
	CreatedAt      null.Time `db:"created_at"`
	UpdatedAt      null.Time `db:"updated_at"`
}

func (r employeeRow) unpack() employee.Employee {
	return employee.Employee{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Designation:    r.Designation,
		Department:     r.Department,
		Salary:         r.Salary,
		JoiningDate:    r.JoiningDate,
		Status:         r.Status,
		UniversityCode: r.UniversityCode,
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
}

type employeeRepository struct {
	db *sqlx.DB
}

var _ employee.Repository = (*employeeRepository)(nil) // interface compliance check

func NewEmployeeRepository(db *sqlx.DB) *employeeRepository {
	return &employeeRepository{db: db}
}

func (repo employeeRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return employee.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo employeeRepository) CheckEmployeeUniqueness(email string, excludedEmployees ...employee.Employee) error {
	exclIDs := make([]int, 0, len(excludedEmployees))
	for _, e := range excludedEmployees {
		exclIDs = append(exclIDs, e.ID)
	}
	if len(exclIDs) == 0 {
		exclIDs = append(exclIDs, 0)
	}

	query, args, err := sqlx.In(
		`SELECT EXISTS (SELECT 1 FROM employee WHERE email = ? AND id NOT IN (?))`,
		email, exclIDs,
	)
	if err != nil {
		return errors.Wrap(err, "checking employee uniqueness")
	}

	var exists bool
	if err = repo.db.Get(&exists, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking employee uniqueness")
	}
	if exists {
		return employee.ErrEmailExists
	}
	return nil
}

func (repo employeeRepository) CreateEmployee(e employee.Employee) (employee.Employee, error) {
	var id int
	err := repo.db.QueryRow(
		`INSERT INTO employee (name, email, phone, designation, department, salary, joining_date, status, university_code, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id`,
		e.Name, e.Email, e.Phone, e.Designation, e.Department, e.Salary, e.JoiningDate,
		e.Status, e.UniversityCode, e.CreatedAt, e.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "inserting employee")
	}
	e.ID = id
	return e, nil
}

func (repo employeeRepository) GetEmployeeByID(id int) (employee.Employee, error) {
	var r employeeRow
	if err := repo.db.Get(&r, `SELECT * FROM employee WHERE id = $1`, id); err != nil {
		return employee.Employee{}, repo.trapNoRowsErr(err, "getting employee")
	}
	return r.unpack(), nil
}

func (repo employeeRepository) FilterEmployees(filter employee.QueryFilter) ([]employee.Employee, error) {
	query := `SELECT * FROM employee WHERE 1=1`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + strings.ToLower(filter.Search) + "%")
		query += ` AND (LOWER(name) LIKE ` + p + ` OR LOWER(email) LIKE ` + p + `)`
	}
	if filter.Department != "" {
		query += ` AND department = ` + arg(filter.Department)
	}
	if filter.Designation != "" {
		query += ` AND designation = ` + arg(filter.Designation)
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(filter.Status)
	}
	if filter.UniversityCode != "" {
		query += ` AND university_code = ` + arg(filter.UniversityCode)
	}
	query += ` ORDER BY name ASC`

	var rows []employeeRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering employees")
	}
	employees := make([]employee.Employee, 0, len(rows))
	for _, r := range rows {
		employees = append(employees, r.unpack())
	}
	return employees, nil
}

func (repo employeeRepository) UpdateEmployee(e employee.Employee) (employee.Employee, error) {
	res, err := repo.db.Exec(
		`UPDATE employee SET name = $1, email = $2, phone = $3, designation = $4, department = $5,
			salary = $6, joining_date = $7, updated_at = $8
		 WHERE id = $9`,
		e.Name, e.Email, e.Phone, e.Designation, e.Department, e.Salary, e.JoiningDate, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "updating employee")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return employee.Employee{}, employee.ErrNotFound
	}
	return repo.GetEmployeeByID(e.ID)
}

func (repo employeeRepository) SetEmployeeStatus(id int, status string) (employee.Employee, error) {
	res, err := repo.db.Exec(`UPDATE employee SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "setting employee status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return employee.Employee{}, employee.ErrNotFound
	}
	return repo.GetEmployeeByID(id)
}
