package payment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core"
)

// Frequency is the period between two installments of a plan.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencySemester  Frequency = "semester"
	FrequencyYearly    Frequency = "yearly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencySemester, FrequencyYearly:
		return true
	}
	return false
}

// Installments derives the number of installments covering a course duration.
func (f Frequency) Installments(durationMonths int) int {
	switch f {
	case FrequencyQuarterly:
		return ceilIntDiv(durationMonths, 3)
	case FrequencySemester:
		return ceilIntDiv(durationMonths, 6)
	case FrequencyYearly:
		return ceilIntDiv(durationMonths, 12)
	default:
		return durationMonths
	}
}

// Advance steps t forward by n periods of this frequency.
func (f Frequency) Advance(t time.Time, n int) time.Time {
	switch f {
	case FrequencyQuarterly:
		return core.AddMonths(t, n*3)
	case FrequencySemester:
		return core.AddMonths(t, n*6)
	case FrequencyYearly:
		return core.AddYears(t, n)
	default:
		return core.AddMonths(t, n)
	}
}

// Derived installment statuses
const (
	StatusPaid     = "paid"
	StatusMissed   = "missed"
	StatusUpcoming = "upcoming"
	StatusPending  = "pending"
)

// Installment is one scheduled partial payment of a student's fee.
// A plan is the set of installments created together for one student;
// at most one plan may exist per student at a time.
type Installment struct {
	ID             int         `json:"id"`
	StudentID      int         `json:"student_id"`
	UniversityCode string      `json:"university_code"`
	InstallmentNo  int         `json:"installment_no"`
	Amount         int64       `json:"amount"`
	Discount       int64       `json:"discount"`
	DueDate        time.Time   `json:"due_date"`
	IsPaid         bool        `json:"is_paid"`
	PaymentDate    null.Time   `json:"payment_date"`
	TxnID          null.String `json:"txn_id"`
	CreatedAt      time.Time   `json:"created_at"` // UTC
	UpdatedAt      time.Time   `json:"updated_at"` // UTC
}

// StatusAt derives the paid/missed/upcoming status as of the given day.
func (ins *Installment) StatusAt(today time.Time) string {
	if ins.IsPaid {
		return StatusPaid
	}
	if core.DateOnly(ins.DueDate).Before(core.DateOnly(today)) {
		return StatusMissed
	}
	return StatusUpcoming
}

// NewPlan contains information needed to create an installment plan.
type NewPlan struct {
	StudentID      int       `json:"student_id" validate:"required"`
	Amount         int64     `json:"amount" validate:"required,gt=0"`
	Discount       int64     `json:"discount" validate:"omitempty,min=0"`
	Frequency      Frequency `json:"frequency" validate:"required"`
	UniversityCode string    `json:"university_code" validate:"required"`
	// JoiningDate overrides the student's recorded joining date as the
	// schedule start.
	JoiningDate null.Time `json:"joining_date"`
}

func (np *NewPlan) Validate(validate *validator.Validate) error {
	np.UniversityCode = core.CleanString(np.UniversityCode)
	np.Frequency = Frequency(core.CleanString(string(np.Frequency), true /* lower */))
	return validate.Struct(np)
}

// NewOneShot contains information needed to create a one-shot payment:
// a degenerate plan with exactly one installment and an explicit due date.
type NewOneShot struct {
	StudentID      int       `json:"student_id" validate:"required"`
	Amount         int64     `json:"amount" validate:"required,gt=0"`
	Discount       int64     `json:"discount" validate:"omitempty,min=0"`
	DueDate        null.Time `json:"due_date" validate:"required"`
	UniversityCode string    `json:"university_code" validate:"required"`
}

func (no *NewOneShot) Validate(validate *validator.Validate) error {
	no.UniversityCode = core.CleanString(no.UniversityCode)
	return validate.Struct(no)
}

// SetPaid toggles an installment between paid and unpaid.
type SetPaid struct {
	IsPaid      *bool     `json:"is_paid" validate:"required"`
	PaymentDate null.Time `json:"payment_date"`
	TxnID       string    `json:"txn_id"`
}

func (sp *SetPaid) Validate(validate *validator.Validate) error {
	sp.TxnID = core.CleanString(sp.TxnID)
	return validate.Struct(sp)
}

type (
	// ScheduleEntry is the human-readable form of one installment draft.
	ScheduleEntry struct {
		Installment int       `json:"installment"`
		DueDate     time.Time `json:"due_date"`
		Amount      int64     `json:"amount"`
		Status      string    `json:"status"`
	}

	PlanSummary struct {
		TotalInstallments    int       `json:"total_installments"`
		InstallmentAmount    int64     `json:"installment_amount"`
		StartDate            time.Time `json:"start_date"`
		EndDate              time.Time `json:"end_date"`
		Frequency            Frequency `json:"frequency"`
		CourseDurationMonths int       `json:"course_duration_months"`
	}

	// Plan is the result of a successful plan creation.
	Plan struct {
		Installments []Installment   `json:"installments"`
		Schedule     []ScheduleEntry `json:"schedule"`
		Summary      PlanSummary     `json:"summary"`
	}
)

// LedgerQuery selects the installments due in one calendar month.
// Month is 0-11, matching the wire contract of the admin frontend.
type LedgerQuery struct {
	Month          int    `query:"month"`
	Year           int    `query:"year"`
	UniversityCode string `query:"university_code"`
	Filter         string `query:"filter"` // paid|missed|upcoming|empty for all
}

type (
	LedgerSummary struct {
		TotalMissedFees    int64 `json:"total_missed_fees"`
		TotalCollectedFees int64 `json:"total_collected_fees"`
		TotalUpcomingFees  int64 `json:"total_upcoming_fees"`
		TotalPayments      int   `json:"total_payments"`
	}

	Ledger struct {
		Summary LedgerSummary `json:"summary"`
		Details []Installment `json:"details"`
		Filter  string        `json:"filter"`
		Month   int           `json:"month"`
		Year    int           `json:"year"`
	}
)

type (
	// AnnotatedInstallment is an installment with its derived status.
	AnnotatedInstallment struct {
		Installment
		Status string `json:"status"`
	}

	HistorySummary struct {
		TotalPayments    int   `json:"total_payments"`
		PaidPayments     int   `json:"paid_payments"`
		MissedPayments   int   `json:"missed_payments"`
		UpcomingPayments int   `json:"upcoming_payments"`
		TotalAmount      int64 `json:"total_amount"`
		PaidAmount       int64 `json:"paid_amount"`
		PendingAmount    int64 `json:"pending_amount"`
	}

	History struct {
		Installments []AnnotatedInstallment `json:"installments"`
		Summary      HistorySummary         `json:"summary"`
	}
)

func ceilIntDiv(a, b int) int {
	return (a + b - 1) / b
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
