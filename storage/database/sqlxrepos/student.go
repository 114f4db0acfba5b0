package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core/student"
)

type studentRow struct {
	ID               int       `db:"id"`
	EnrollmentID     string    `db:"enrollment_id"`
	Name             string    `db:"name"`
	Email            string    `db:"email"`
	Phone            string    `db:"phone"`
	Address          string    `db:"address"`
	Department       string    `db:"department"`
	Year             string    `db:"year"`
	GuardianName     string    `db:"guardian_name"`
	GuardianPhone    string    `db:"guardian_phone"`
	EmergencyContact string    `db:"emergency_contact"`
	Gender           string    `db:"gender"`
	CourseID         int       `db:"course_id"`
	SessionID        null.Int  `db:"session_id"`
	DateOfBirth      null.Time `db:"date_of_birth"`
	JoiningDate      null.Time `db:"joining_date"`
	Status           string    `db:"status"`
	UniversityCode   string    `db:"university_code"`
	InstallmentCount int       `db:"installment_count"`
	DiscountAmount   int64     `db:"discount_amount"`
	FinalAmount      int64     `db:"final_amount"`
	CreatedAt        null.Time `db:"created_at"`
	UpdatedAt        null.Time `db:"updated_at"`
}

func (r studentRow) unpack() student.Student {
	return student.Student{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		Address:          r.Address,
		Department:       r.Department,
		Year:             r.Year,
		GuardianName:     r.GuardianName,
		GuardianPhone:    r.GuardianPhone,
		EmergencyContact: r.EmergencyContact,
		Gender:           r.Gender,
		UniversityCode:   r.UniversityCode,
		EnrollmentID:     r.EnrollmentID,
		Status:           r.Status,
		JoiningDate:      r.JoiningDate,
		DateOfBirth:      r.DateOfBirth,
		CourseID:         r.CourseID,
		SessionID:        r.SessionID,
		InstallmentCount: r.InstallmentCount,
		DiscountAmount:   r.DiscountAmount,
		FinalAmount:      r.FinalAmount,
		CreatedAt:        r.CreatedAt.Time,
		UpdatedAt:        r.UpdatedAt.Time,
	}
}

func unpackStudents(rows []studentRow) []student.Student {
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.unpack())
	}
	return students
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CheckStudentUniqueness(email, enrollmentID, universityCode string, excludedStudents ...student.Student) error {
	exclIDs := make([]int, 0, len(excludedStudents))
	for _, std := range excludedStudents {
		exclIDs = append(exclIDs, std.ID)
	}
	if len(exclIDs) == 0 {
		exclIDs = append(exclIDs, 0)
	}

	query, args, err := sqlx.In(
		`SELECT email, enrollment_id FROM student
		 WHERE (email = ? OR enrollment_id = ?) AND university_code = ? AND id NOT IN (?)`,
		email, enrollmentID, universityCode, exclIDs,
	)
	if err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}

	var matches []struct {
		Email        string `db:"email"`
		EnrollmentID string `db:"enrollment_id"`
	}
	if err = repo.db.Select(&matches, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}
	for _, m := range matches {
		if m.Email == email {
			return student.ErrEmailExists
		}
		if enrollmentID != "" && m.EnrollmentID == enrollmentID {
			return student.ErrEnrollmentIDExists
		}
	}
	return nil
}

func (repo studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	var id int
	err := repo.db.QueryRow(
		`INSERT INTO student (
			enrollment_id, name, email, phone, address, department, year,
			guardian_name, guardian_phone, emergency_contact, gender,
			course_id, session_id, date_of_birth, joining_date, status,
			university_code, installment_count, discount_amount, final_amount,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
		RETURNING id`,
		std.EnrollmentID, std.Name, std.Email, std.Phone, std.Address, std.Department, std.Year,
		std.GuardianName, std.GuardianPhone, std.EmergencyContact, std.Gender,
		std.CourseID, std.SessionID, std.DateOfBirth, std.JoiningDate, std.Status,
		std.UniversityCode, std.InstallmentCount, std.DiscountAmount, std.FinalAmount,
		std.CreatedAt, std.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	std.ID = id
	return std, nil
}

func (repo studentRepository) GetStudentByID(id int) (student.Student, error) {
	var r studentRow
	if err := repo.db.Get(&r, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "getting student")
	}
	return r.unpack(), nil
}

func (repo studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	var r studentRow
	if err := repo.db.Get(&r, `SELECT * FROM student WHERE email = $1`, email); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "getting student")
	}
	return r.unpack(), nil
}

func (repo studentRepository) FilterStudents(filter student.QueryFilter) ([]student.Student, error) {
	query := `SELECT * FROM student WHERE 1=1`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + strings.ToLower(filter.Search) + "%")
		query += ` AND (LOWER(name) LIKE ` + p + ` OR LOWER(email) LIKE ` + p + ` OR LOWER(enrollment_id) LIKE ` + p + `)`
	}
	if filter.Department != "" {
		query += ` AND department = ` + arg(filter.Department)
	}
	if filter.Year != "" {
		query += ` AND year = ` + arg(filter.Year)
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(filter.Status)
	}
	if filter.UniversityCode != "" {
		query += ` AND university_code = ` + arg(filter.UniversityCode)
	}
	query += ` ORDER BY name ASC`

	var rows []studentRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	return unpackStudents(rows), nil
}

func (repo studentRepository) UpdateStudent(std student.Student) (student.Student, error) {
	res, err := repo.db.Exec(
		`UPDATE student SET
			name = $1, email = $2, phone = $3, address = $4, department = $5,
			year = $6, guardian_name = $7, guardian_phone = $8,
			emergency_contact = $9, gender = $10, course_id = $11,
			session_id = $12, date_of_birth = $13, joining_date = $14,
			updated_at = $15
		 WHERE id = $16`,
		std.Name, std.Email, std.Phone, std.Address, std.Department,
		std.Year, std.GuardianName, std.GuardianPhone,
		std.EmergencyContact, std.Gender, std.CourseID,
		std.SessionID, std.DateOfBirth, std.JoiningDate,
		std.UpdatedAt, std.ID,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(std.ID)
}

func (repo studentRepository) SetStudentStatus(id int, status string) (student.Student, error) {
	res, err := repo.db.Exec(`UPDATE student SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "setting student status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(id)
}

func (repo studentRepository) UpdateBillingSummary(id, installmentCount int, discountAmount, finalAmount int64) error {
	res, err := repo.db.Exec(
		`UPDATE student SET installment_count = $1, discount_amount = $2, final_amount = $3, updated_at = NOW()
		 WHERE id = $4`,
		installmentCount, discountAmount, finalAmount, id,
	)
	if err != nil {
		return errors.Wrap(err, "updating billing summary")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrNotFound
	}
	return nil
}
