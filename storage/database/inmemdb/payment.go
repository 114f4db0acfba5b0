package inmemdb

import (
	"sort"

	"github.com/gyanhq/campus/core/payment"
)

type paymentRepository struct {
	db *installmentTable
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) *paymentRepository {
	return &paymentRepository{db: db.installment}
}

func (repo *paymentRepository) query() []payment.Installment {
	installments := make([]payment.Installment, 0, len(repo.db.table))
	for _, ins := range repo.db.table {
		installments = append(installments, *ins)
	}
	sort.Slice(installments, func(i, j int) bool {
		if installments[i].DueDate.Equal(installments[j].DueDate) {
			return installments[i].InstallmentNo < installments[j].InstallmentNo
		}
		return installments[i].DueDate.Before(installments[j].DueDate)
	})
	return installments
}

func (repo *paymentRepository) CreateInstallments(batch []payment.Installment) ([]payment.Installment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// mirror the unique (student_id, installment_no) index
	for _, ins := range batch {
		for _, existing := range repo.db.table {
			if existing.StudentID == ins.StudentID && existing.InstallmentNo == ins.InstallmentNo {
				return nil, payment.ErrPlanExists
			}
		}
	}

	created := make([]payment.Installment, 0, len(batch))
	for _, ins := range batch {
		ins := ins
		repo.db.pkCount++
		ins.ID = repo.db.pkCount
		repo.db.table[ins.ID] = &ins
		created = append(created, ins)
	}
	return created, nil
}

func (repo *paymentRepository) InstallmentsByStudent(studentID int, universityCode string) ([]payment.Installment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]payment.Installment, 0)
	for _, ins := range repo.query() {
		if ins.StudentID != studentID {
			continue
		}
		if universityCode != "" && ins.UniversityCode != universityCode {
			continue
		}
		matches = append(matches, ins)
	}
	return matches, nil
}

func (repo *paymentRepository) GetInstallmentByID(id int) (payment.Installment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ins, ok := repo.db.table[id]; ok {
		return *ins, nil
	}
	return payment.Installment{}, payment.ErrNotFound
}

func (repo *paymentRepository) FilterInstallments(universityCode string) ([]payment.Installment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if universityCode == "" {
		return repo.query(), nil
	}
	matches := make([]payment.Installment, 0)
	for _, ins := range repo.query() {
		if ins.UniversityCode == universityCode {
			matches = append(matches, ins)
		}
	}
	return matches, nil
}

func (repo *paymentRepository) UpdateInstallment(ins payment.Installment) (payment.Installment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[ins.ID]; !ok {
		return payment.Installment{}, payment.ErrNotFound
	}
	repo.db.table[ins.ID] = &ins
	return ins, nil
}
