package payment

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core"
	"github.com/gyanhq/campus/core/course"
	"github.com/gyanhq/campus/core/student"
)

// ----- fakes -----

type fakeRepo struct {
	seq   int
	table map[int]Installment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{table: make(map[int]Installment)}
}

func (r *fakeRepo) query() []Installment {
	all := make([]Installment, 0, len(r.table))
	for _, ins := range r.table {
		all = append(all, ins)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].DueDate.Equal(all[j].DueDate) {
			return all[i].InstallmentNo < all[j].InstallmentNo
		}
		return all[i].DueDate.Before(all[j].DueDate)
	})
	return all
}

func (r *fakeRepo) CreateInstallments(batch []Installment) ([]Installment, error) {
	for _, ins := range batch {
		for _, existing := range r.table {
			if existing.StudentID == ins.StudentID && existing.InstallmentNo == ins.InstallmentNo {
				return nil, ErrPlanExists
			}
		}
	}
	created := make([]Installment, 0, len(batch))
	for _, ins := range batch {
		r.seq++
		ins.ID = r.seq
		r.table[ins.ID] = ins
		created = append(created, ins)
	}
	return created, nil
}

func (r *fakeRepo) InstallmentsByStudent(studentID int, universityCode string) ([]Installment, error) {
	matches := make([]Installment, 0)
	for _, ins := range r.query() {
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

func (r *fakeRepo) GetInstallmentByID(id int) (Installment, error) {
	if ins, ok := r.table[id]; ok {
		return ins, nil
	}
	return Installment{}, ErrNotFound
}

func (r *fakeRepo) FilterInstallments(universityCode string) ([]Installment, error) {
	if universityCode == "" {
		return r.query(), nil
	}
	matches := make([]Installment, 0)
	for _, ins := range r.query() {
		if ins.UniversityCode == universityCode {
			matches = append(matches, ins)
		}
	}
	return matches, nil
}

func (r *fakeRepo) UpdateInstallment(ins Installment) (Installment, error) {
	if _, ok := r.table[ins.ID]; !ok {
		return Installment{}, ErrNotFound
	}
	r.table[ins.ID] = ins
	return ins, nil
}

type fakeTenants map[string]bool

func (t fakeTenants) IsValid(code string) bool { return t[code] }

type billingSummary struct {
	installmentCount int
	discountAmount   int64
	finalAmount      int64
}

type fakeStudents struct {
	table     map[int]student.Student
	summaries map[int]billingSummary
}

func (d *fakeStudents) GetByID(id int) (student.Student, error) {
	if std, ok := d.table[id]; ok {
		return std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (d *fakeStudents) SetBillingSummary(id, installmentCount int, discountAmount, finalAmount int64) error {
	d.summaries[id] = billingSummary{installmentCount, discountAmount, finalAmount}
	return nil
}

type fakeCourses map[int]course.Course

func (c fakeCourses) GetByID(id int) (course.Course, error) {
	if crs, ok := c[id]; ok {
		return crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

type fakeMailer struct {
	sent []*core.EmailMessage
}

func (m *fakeMailer) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

// ----- helpers -----

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func setNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}

func newTestService() (*Service, *fakeRepo, *fakeStudents, *fakeMailer) {
	repo := newFakeRepo()
	students := &fakeStudents{
		table: map[int]student.Student{
			1: {
				ID:             1,
				Name:           "Asha Verma",
				Email:          "asha@example.com",
				UniversityCode: "GYAN001",
				Status:         student.StatusActive,
				JoiningDate:    null.TimeFrom(date(2024, time.January, 1)),
				CourseID:       1,
			},
			2: {
				ID:             2,
				Name:           "Ravi Singh",
				Email:          "ravi@example.com",
				UniversityCode: "GYAN001",
				Status:         student.StatusInactive,
				JoiningDate:    null.TimeFrom(date(2024, time.January, 1)),
				CourseID:       1,
			},
			3: {
				ID:             3,
				Name:           "Meena Patel",
				Email:          "meena@example.com",
				UniversityCode: "GYAN001",
				Status:         student.StatusActive,
				CourseID:       2, // no course on record, no joining date
			},
		},
		summaries: make(map[int]billingSummary),
	}
	courses := fakeCourses{1: {ID: 1, DurationMonths: 12}}
	mailer := &fakeMailer{}
	svc := NewService(repo, fakeTenants{"GYAN001": true, "GYAN002": true}, students, courses, mailer)
	return svc, repo, students, mailer
}

// ----- plan creation -----

func TestCreatePlanMonthly(t *testing.T) {
	setNow(t, date(2024, time.June, 15))
	svc, _, students, _ := newTestService()

	plan, err := svc.CreatePlan(NewPlan{
		StudentID:      1,
		Amount:         12000,
		Frequency:      FrequencyMonthly,
		UniversityCode: "GYAN001",
	})
	require.NoError(t, err)

	require.Len(t, plan.Installments, 12)
	assert.Equal(t, 12, plan.Summary.TotalInstallments)
	assert.Equal(t, int64(1000), plan.Summary.InstallmentAmount)
	assert.Equal(t, FrequencyMonthly, plan.Summary.Frequency)
	assert.Equal(t, 12, plan.Summary.CourseDurationMonths)
	assert.Equal(t, date(2024, time.January, 1), plan.Summary.StartDate)

	// past joining date: nothing due on the join day itself
	assert.Equal(t, date(2024, time.February, 1), plan.Installments[0].DueDate)
	assert.Equal(t, date(2025, time.January, 1), plan.Installments[11].DueDate)
	for i, ins := range plan.Installments {
		assert.Equal(t, i+1, ins.InstallmentNo)
		assert.Equal(t, int64(1000), ins.Amount)
		assert.False(t, ins.IsPaid)
	}

	require.Len(t, plan.Schedule, 12)
	assert.Equal(t, StatusPending, plan.Schedule[0].Status)

	assert.Equal(t, billingSummary{12, 0, 12000}, students.summaries[1])
}

func TestCreatePlanFutureJoiningQuarterly(t *testing.T) {
	setNow(t, date(2024, time.June, 15))
	svc, _, _, _ := newTestService()

	plan, err := svc.CreatePlan(NewPlan{
		StudentID:      1,
		Amount:         10000,
		Frequency:      FrequencyQuarterly,
		UniversityCode: "GYAN001",
		JoiningDate:    null.TimeFrom(date(2024, time.September, 1)),
	})
	require.NoError(t, err)

	// 12 months / 3 = 4 installments, the first falling on the joining date
	require.Len(t, plan.Installments, 4)
	assert.Equal(t, int64(2500), plan.Summary.InstallmentAmount)
	wantDues := []time.Time{
		date(2024, time.September, 1),
		date(2024, time.December, 1),
		date(2025, time.March, 1),
		date(2025, time.June, 1),
	}
	for i, want := range wantDues {
		assert.Equal(t, want, plan.Installments[i].DueDate, "installment %d", i+1)
	}
}

func TestCreatePlanRoundsUp(t *testing.T) {
	setNow(t, date(2024, time.June, 15))
	svc, _, _, _ := newTestService()

	plan, err := svc.CreatePlan(NewPlan{
		StudentID:      1,
		Amount:         1000,
		Frequency:      FrequencyMonthly,
		UniversityCode: "GYAN001",
	})
	require.NoError(t, err)

	// ceil(1000/12) = 84; the schedule never under-collects
	assert.Equal(t, int64(84), plan.Summary.InstallmentAmount)
	var total int64
	for _, ins := range plan.Installments {
		total += ins.Amount
	}
	assert.GreaterOrEqual(t, total, int64(1000))
}

func TestCreatePlanDiscount(t *testing.T) {
	setNow(t, date(2024, time.June, 15))
	svc, _, students, _ := newTestService()

	plan, err := svc.CreatePlan(NewPlan{
		StudentID:      1,
		Amount:         13200,
		Discount:       1200,
		Frequency:      FrequencyMonthly,
		UniversityCode: "GYAN001",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1000), plan.Summary.InstallmentAmount)
	assert.Equal(t, billingSummary{12, 1200, 12000}, students.summaries[1])
}

func TestCreatePlanAlreadyExists(t *testing.T) {
	setNow(t, date(2024, time.June, 15))
	svc, _, _, _ := newTestService()

	np := NewPlan{
		StudentID:      1,
		Amount:         12000,
		Frequency:      FrequencyMonthly,
		UniversityCode: "GYAN001",
	}
	_, err := svc.CreatePlan(np)
	require.NoError(t, err)

	_, err = svc.CreatePlan(np)
	var conflictErr *core.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, ErrPlanExists, conflictErr.Err)
}

func TestCreatePlanValidation(t *testing.T) {
	setNow(t, date(2024, time.June, 15))

	tests := []struct {
		name      string
		plan      NewPlan
		wantField string
	}{
		{
			name: "unknown university",
			plan: NewPlan{
				StudentID: 1, Amount: 1000, Frequency: FrequencyMonthly, UniversityCode: "NOPE",
			},
			wantField: "university_code",
		},
		{
			name: "unknown frequency",
			plan: NewPlan{
				StudentID: 1, Amount: 1000, Frequency: "weekly", UniversityCode: "GYAN001",
			},
			wantField: "frequency",
		},
		{
			name: "inactive student",
			plan: NewPlan{
				StudentID: 2, Amount: 1000, Frequency: FrequencyMonthly, UniversityCode: "GYAN001",
			},
			wantField: "student_id",
		},
		{
			name: "tenant mismatch",
			plan: NewPlan{
				StudentID: 1, Amount: 1000, Frequency: FrequencyMonthly, UniversityCode: "GYAN002",
			},
			wantField: "university_code",
		},
		{
			name: "discount swallows amount",
			plan: NewPlan{
				StudentID: 1, Amount: 1000, Discount: 1000, Frequency: FrequencyMonthly, UniversityCode: "GYAN001",
			},
			wantField: "discount",
		},
		{
			name: "no joining date on record",
			plan: NewPlan{
				StudentID: 3, Amount: 1000, Frequency: FrequencyMonthly, UniversityCode: "GYAN001",
			},
			wantField: "joining_date",
		},
		{
			name: "joining date too far ahead",
			plan: NewPlan{
				StudentID: 1, Amount: 1000, Frequency: FrequencyMonthly, UniversityCode: "GYAN001",
				JoiningDate: null.TimeFrom(date(2026, time.June, 16)),
			},
			wantField: "joining_date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newTestService()
			_, err := svc.CreatePlan(tt.plan)
			var vErr *core.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.NotEmpty(t, vErr.Fields)
			assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
		})
	}
}

func TestCreatePlanUnknownCourseFallsBack(t *testing.T) {
	setNow(t, date(2024, time.June, 15))
	svc, _, students, _ := newTestService()

	// student 3 references a course the catalog does not know
	students.table[3] = student.Student{
		ID:             3,
		UniversityCode: "GYAN001",
		Status:         student.StatusActive,
		JoiningDate:    null.TimeFrom(date(2024, time.January, 1)),
		CourseID:       99,
	}

	plan, err := svc.CreatePlan(NewPlan{
		StudentID: 3, Amount: 1200, Frequency: FrequencyMonthly, UniversityCode: "GYAN001",
	})
	require.NoError(t, err)
	assert.Equal(t, course.DefaultDurationMonths, plan.Summary.CourseDurationMonths)
	assert.Len(t, plan.Installments, course.DefaultDurationMonths)
}

// ----- one-shot payments -----

func TestCreateOneShot(t *testing.T) {
	setNow(t, date(2024, time.June, 15))
	svc, _, students, _ := newTestService()

	_, err := svc.CreateOneShot(NewOneShot{
		StudentID: 1, Amount: 5000, DueDate: null.TimeFrom(date(2024, time.June, 15)),
		UniversityCode: "GYAN001",
	})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr, "a due date of today must be rejected")

	ins, err := svc.CreateOneShot(NewOneShot{
		StudentID: 1, Amount: 5000, Discount: 500,
		DueDate:        null.TimeFrom(date(2024, time.June, 16)),
		UniversityCode: "GYAN001",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ins.InstallmentNo)
	assert.Equal(t, int64(4500), ins.Amount)
	assert.Equal(t, date(2024, time.June, 16), ins.DueDate)
	assert.Equal(t, billingSummary{1, 500, 4500}, students.summaries[1])
}

// ----- paid toggling -----

func TestSetPaidRoundtrip(t *testing.T) {
	setNow(t, date(2024, time.June, 15))
	svc, _, _, _ := newTestService()

	ins, err := svc.CreateOneShot(NewOneShot{
		StudentID: 1, Amount: 5000, DueDate: null.TimeFrom(date(2024, time.July, 1)),
		UniversityCode: "GYAN001",
	})
	require.NoError(t, err)

	paid := true
	ins, err = svc.SetPaid(ins.ID, SetPaid{IsPaid: &paid, TxnID: "TXN-42"})
	require.NoError(t, err)
	assert.True(t, ins.IsPaid)
	assert.True(t, ins.PaymentDate.Valid)
	assert.Equal(t, "TXN-42", ins.TxnID.String)

	unpaid := false
	ins, err = svc.SetPaid(ins.ID, SetPaid{IsPaid: &unpaid})
	require.NoError(t, err)
	assert.False(t, ins.IsPaid)
	assert.False(t, ins.PaymentDate.Valid)
	assert.False(t, ins.TxnID.Valid)

	_, err = svc.SetPaid(9999, SetPaid{IsPaid: &paid})
	assert.Equal(t, ErrNotFound, err)
}

// ----- ledger -----

func TestLedger(t *testing.T) {
	setNow(t, date(2024, time.June, 15))
	svc, repo, _, _ := newTestService()

	_, err := repo.CreateInstallments([]Installment{
		{StudentID: 1, UniversityCode: "GYAN001", InstallmentNo: 1, Amount: 1000,
			DueDate: date(2024, time.June, 5), IsPaid: true},
		{StudentID: 1, UniversityCode: "GYAN001", InstallmentNo: 2, Amount: 1000,
			DueDate: date(2024, time.June, 10)}, // past due, unpaid
		{StudentID: 1, UniversityCode: "GYAN001", InstallmentNo: 3, Amount: 1000,
			DueDate: date(2024, time.June, 25)}, // upcoming
		{StudentID: 1, UniversityCode: "GYAN001", InstallmentNo: 4, Amount: 1000,
			DueDate: date(2024, time.July, 5)}, // other month
	})
	require.NoError(t, err)

	// month is 0-11: June is 5
	ledger, err := svc.Ledger(LedgerQuery{Month: 5, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 3, ledger.Summary.TotalPayments)
	assert.Equal(t, int64(1000), ledger.Summary.TotalCollectedFees)
	assert.Equal(t, int64(1000), ledger.Summary.TotalMissedFees)
	assert.Equal(t, int64(1000), ledger.Summary.TotalUpcomingFees)
	assert.Equal(t, "all", ledger.Filter)
	assert.Len(t, ledger.Details, 3)

	missed, err := svc.Ledger(LedgerQuery{Month: 5, Year: 2024, Filter: "missed"})
	require.NoError(t, err)
	require.Len(t, missed.Details, 1)
	assert.Equal(t, 2, missed.Details[0].InstallmentNo)

	empty, err := svc.Ledger(LedgerQuery{Month: 0, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Summary.TotalPayments)
	assert.NotNil(t, empty.Details)

	var vErr *core.ValidationError
	_, err = svc.Ledger(LedgerQuery{Month: 12, Year: 2024})
	require.ErrorAs(t, err, &vErr)
	_, err = svc.Ledger(LedgerQuery{Month: 5, Year: 1999})
	require.ErrorAs(t, err, &vErr)
}

// ----- history -----

func TestStudentHistory(t *testing.T) {
	setNow(t, date(2024, time.June, 15))
	svc, repo, _, _ := newTestService()

	_, err := svc.StudentHistory(1, "")
	assert.Equal(t, ErrNoPayments, err)

	_, err = repo.CreateInstallments([]Installment{
		{StudentID: 1, UniversityCode: "GYAN001", InstallmentNo: 1, Amount: 1000,
			DueDate: date(2024, time.May, 1), IsPaid: true},
		{StudentID: 1, UniversityCode: "GYAN001", InstallmentNo: 2, Amount: 1000,
			DueDate: date(2024, time.June, 1)},
		{StudentID: 1, UniversityCode: "GYAN001", InstallmentNo: 3, Amount: 1000,
			DueDate: date(2024, time.July, 1)},
	})
	require.NoError(t, err)

	hist, err := svc.StudentHistory(1, "GYAN001")
	require.NoError(t, err)
	require.Len(t, hist.Installments, 3)
	assert.Equal(t, StatusPaid, hist.Installments[0].Status)
	assert.Equal(t, StatusMissed, hist.Installments[1].Status)
	assert.Equal(t, StatusUpcoming, hist.Installments[2].Status)
	assert.Equal(t, 3, hist.Summary.TotalPayments)
	assert.Equal(t, int64(3000), hist.Summary.TotalAmount)
	assert.Equal(t, int64(1000), hist.Summary.PaidAmount)
	assert.Equal(t, int64(2000), hist.Summary.PendingAmount)
}

// ----- reminders -----

func TestSendOverdueReminders(t *testing.T) {
	setNow(t, date(2024, time.June, 15))
	svc, repo, _, mailer := newTestService()

	_, err := repo.CreateInstallments([]Installment{
		{StudentID: 1, UniversityCode: "GYAN001", InstallmentNo: 1, Amount: 1000,
			DueDate: date(2024, time.May, 1)},
		{StudentID: 1, UniversityCode: "GYAN001", InstallmentNo: 2, Amount: 1000,
			DueDate: date(2024, time.June, 1)},
		{StudentID: 1, UniversityCode: "GYAN001", InstallmentNo: 3, Amount: 1000,
			DueDate: date(2024, time.July, 1)}, // not due yet
		{StudentID: 99, UniversityCode: "GYAN001", InstallmentNo: 1, Amount: 500,
			DueDate: date(2024, time.May, 1)}, // unknown student, skipped
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendOverdueReminders())
	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	require.Len(t, msg.To, 1)
	assert.Equal(t, "asha@example.com", msg.To[0].Address)
	assert.Contains(t, msg.Body, "2 overdue")
	assert.Contains(t, msg.Body, "Rs. 2,000")
}

// ----- frequency helpers -----

func TestFrequencyInstallments(t *testing.T) {
	tests := []struct {
		freq     Frequency
		duration int
		want     int
	}{
		{FrequencyMonthly, 12, 12},
		{FrequencyQuarterly, 12, 4},
		{FrequencyQuarterly, 13, 5},
		{FrequencySemester, 12, 2},
		{FrequencySemester, 8, 2},
		{FrequencyYearly, 12, 1},
		{FrequencyYearly, 36, 3},
		{FrequencyYearly, 30, 3},
	}
	for _, tt := range tests {
		if got := tt.freq.Installments(tt.duration); got != tt.want {
			t.Errorf("%s.Installments(%d) = %d; want %d", tt.freq, tt.duration, got, tt.want)
		}
	}
}
