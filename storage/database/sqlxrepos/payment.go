package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core/payment"
)

type installmentRow struct {
	ID             int         `db:"id"`
	StudentID      int         `db:"student_id"`
	UniversityCode string      `db:"university_code"`
	InstallmentNo  int         `db:"installment_no"`
	Amount         int64       `db:"amount"`
	Discount       int64       `db:"discount"`
	DueDate        null.Time   `db:"due_date"`
	IsPaid         bool        `db:"is_paid"`
	PaymentDate    null.Time   `db:"payment_date"`
	TxnID          null.String `db:"txn_id"`
	CreatedAt      null.Time   `db:"created_at"`
	UpdatedAt      null.Time   `db:"updated_at"`
}

func (r installmentRow) unpack() payment.Installment {
	return payment.Installment{
		ID:             r.ID,
		StudentID:      r.StudentID,
		UniversityCode: r.UniversityCode,
		InstallmentNo:  r.InstallmentNo,
		Amount:         r.Amount,
		Discount:       r.Discount,
		DueDate:        r.DueDate.Time,
		IsPaid:         r.IsPaid,
		PaymentDate:    r.PaymentDate,
		TxnID:          r.TxnID,
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
}

func unpackInstallments(rows []installmentRow) []payment.Installment {
	installments := make([]payment.Installment, 0, len(rows))
	for _, r := range rows {
		installments = append(installments, r.unpack())
	}
	return installments
}

type paymentRepository struct {
	db *sqlx.DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *sqlx.DB) *paymentRepository {
	return &paymentRepository{db: db}
}

func (repo paymentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return payment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// CreateInstallments inserts the whole batch in one transaction; the unique
// index on (student_id, installment_no) rejects a concurrent second plan.
func (repo paymentRepository) CreateInstallments(batch []payment.Installment) ([]payment.Installment, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}

	created := make([]payment.Installment, 0, len(batch))
	for _, ins := range batch {
		var id int
		err := tx.QueryRow(
			`INSERT INTO installment (
				student_id, university_code, installment_no, amount, discount,
				due_date, is_paid, payment_date, txn_id, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id`,
			ins.StudentID, ins.UniversityCode, ins.InstallmentNo, ins.Amount, ins.Discount,
			ins.DueDate, ins.IsPaid, ins.PaymentDate, ins.TxnID, ins.CreatedAt, ins.UpdatedAt,
		).Scan(&id)
		if err != nil {
			_ = tx.Rollback()
			return nil, errors.Wrap(err, "inserting installment")
		}
		ins.ID = id
		created = append(created, ins)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing installments")
	}
	return created, nil
}

func (repo paymentRepository) InstallmentsByStudent(studentID int, universityCode string) ([]payment.Installment, error) {
	query := `SELECT * FROM installment WHERE student_id = $1`
	args := []interface{}{studentID}
	if universityCode != "" {
		query += ` AND university_code = $2`
		args = append(args, universityCode)
	}
	query += ` ORDER BY due_date ASC, installment_no ASC`

	var rows []installmentRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying installments")
	}
	return unpackInstallments(rows), nil
}

func (repo paymentRepository) GetInstallmentByID(id int) (payment.Installment, error) {
	var r installmentRow
	if err := repo.db.Get(&r, `SELECT * FROM installment WHERE id = $1`, id); err != nil {
		return payment.Installment{}, repo.trapNoRowsErr(err, "getting installment")
	}
	return r.unpack(), nil
}

func (repo paymentRepository) FilterInstallments(universityCode string) ([]payment.Installment, error) {
	query := `SELECT * FROM installment`
	var args []interface{}
	if universityCode != "" {
		query += ` WHERE university_code = $1`
		args = append(args, universityCode)
	}
	query += ` ORDER BY due_date ASC, installment_no ASC`

	var rows []installmentRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering installments")
	}
	return unpackInstallments(rows), nil
}

func (repo paymentRepository) UpdateInstallment(ins payment.Installment) (payment.Installment, error) {
	res, err := repo.db.Exec(
		`UPDATE installment SET is_paid = $1, payment_date = $2, txn_id = $3, updated_at = $4 WHERE id = $5`,
		ins.IsPaid, ins.PaymentDate, ins.TxnID, ins.UpdatedAt, ins.ID,
	)
	if err != nil {
		return payment.Installment{}, errors.Wrap(err, "updating installment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payment.Installment{}, payment.ErrNotFound
	}
	return repo.GetInstallmentByID(ins.ID)
}
