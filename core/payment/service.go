package payment

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/gyanhq/campus/core"
	"github.com/gyanhq/campus/core/course"
	"github.com/gyanhq/campus/core/student"
)

var (
	// errors
	ErrNotFound   = errors.New("payment not found")
	ErrNoPayments = errors.New("no payment records found for this student")
	ErrPlanExists = errors.New("an installment plan already exists for this student")

	errUnknownUniversity = errors.New("unknown university code")
	errUnknownFrequency  = errors.New("frequency must be one of: monthly, quarterly, semester, yearly")
	errInactiveStudent   = errors.New("cannot create a plan for an inactive student")
	errTenantMismatch    = errors.New("student does not belong to the specified university")
	errNoJoiningDate     = errors.New("student has no joining date on record; provide joining_date")
	errJoiningTooFar     = errors.New("joining date cannot be more than 2 years in the future")
	errNonPositiveNet    = errors.New("discount must leave a positive net amount")
	errDueNotFuture      = errors.New("due date must be in the future")

	// timeNow is swapped out in tests.
	timeNow = time.Now
)

// maxFutureJoiningYears bounds how far ahead a schedule may start.
const maxFutureJoiningYears = 2

type (
	Repository interface {
		// CreateInstallments persists a whole plan atomically: either every
		// draft is inserted or none is.
		CreateInstallments(batch []Installment) ([]Installment, error)
		// InstallmentsByStudent returns all installments for a student
		// ordered by due date ascending, optionally tenant-scoped.
		InstallmentsByStudent(studentID int, universityCode string) ([]Installment, error)
		GetInstallmentByID(id int) (Installment, error)
		// FilterInstallments returns all installments, optionally tenant-scoped.
		FilterInstallments(universityCode string) ([]Installment, error)
		UpdateInstallment(ins Installment) (Installment, error)
	}

	// TenantRegistry validates university codes.
	TenantRegistry interface {
		IsValid(code string) bool
	}

	// StudentDirectory is the slice of the student service the payment
	// engine needs.
	StudentDirectory interface {
		GetByID(id int) (student.Student, error)
		SetBillingSummary(id, installmentCount int, discountAmount, finalAmount int64) error
	}

	// CourseCatalog resolves a student's course duration.
	CourseCatalog interface {
		GetByID(id int) (course.Course, error)
	}

	Service struct {
		repo     Repository
		tenants  TenantRegistry
		students StudentDirectory
		courses  CourseCatalog
		mailSvc  core.EmailService
	}
)

func NewService(
	repo Repository,
	tenants TenantRegistry,
	students StudentDirectory,
	courses CourseCatalog,
	mailSvc core.EmailService,
) *Service {
	return &Service{
		repo:     repo,
		tenants:  tenants,
		students: students,
		courses:  courses,
		mailSvc:  mailSvc,
	}
}

// checkStudent runs the shared plan preconditions, in order: tenant known,
// student exists, student active, student belongs to the tenant, no plan yet.
func (svc *Service) checkStudent(studentID int, universityCode string) (student.Student, error) {
	if !svc.tenants.IsValid(universityCode) {
		return student.Student{}, core.NewValidationError(errUnknownUniversity,
			core.FieldError{Field: "university_code", Error: errUnknownUniversity.Error()})
	}

	std, err := svc.students.GetByID(studentID)
	if err != nil {
		return student.Student{}, err
	}
	if std.IsInactive() {
		return student.Student{}, core.NewValidationError(errInactiveStudent,
			core.FieldError{Field: "student_id", Error: errInactiveStudent.Error()})
	}
	if std.UniversityCode != universityCode {
		return student.Student{}, core.NewValidationError(errTenantMismatch,
			core.FieldError{Field: "university_code", Error: errTenantMismatch.Error()})
	}

	existing, err := svc.repo.InstallmentsByStudent(studentID, "")
	if err != nil {
		return student.Student{}, err
	}
	if len(existing) > 0 {
		return student.Student{}, core.NewConflictError(ErrPlanExists)
	}
	return std, nil
}

// CreatePlan generates and persists the full installment schedule for a
// student's fee balance.
func (svc *Service) CreatePlan(np NewPlan) (Plan, error) {
	// tenant validity is checked before the frequency; see checkStudent
	if !svc.tenants.IsValid(np.UniversityCode) {
		return Plan{}, core.NewValidationError(errUnknownUniversity,
			core.FieldError{Field: "university_code", Error: errUnknownUniversity.Error()})
	}
	if !np.Frequency.IsValid() {
		return Plan{}, core.NewValidationError(errUnknownFrequency,
			core.FieldError{Field: "frequency", Error: errUnknownFrequency.Error()})
	}

	std, err := svc.checkStudent(np.StudentID, np.UniversityCode)
	if err != nil {
		return Plan{}, err
	}

	durationMonths := svc.courseDuration(std.CourseID)
	total := np.Frequency.Installments(durationMonths)

	start, err := svc.resolveStartDate(np, std)
	if err != nil {
		return Plan{}, err
	}

	net := np.Amount - np.Discount
	if net <= 0 {
		return Plan{}, core.NewValidationError(errNonPositiveNet,
			core.FieldError{Field: "discount", Error: errNonPositiveNet.Error()})
	}
	per := ceilDiv(net, int64(total))

	batch, err := buildSchedule(np, start, total, per)
	if err != nil {
		return Plan{}, err
	}

	created, err := svc.repo.CreateInstallments(batch)
	if err != nil {
		return Plan{}, err
	}

	if err := svc.students.SetBillingSummary(np.StudentID, total, np.Discount, net); err != nil {
		return Plan{}, err
	}

	schedule := make([]ScheduleEntry, len(created))
	for i, ins := range created {
		schedule[i] = ScheduleEntry{
			Installment: i + 1,
			DueDate:     ins.DueDate,
			Amount:      ins.Amount,
			Status:      StatusPending,
		}
	}
	return Plan{
		Installments: created,
		Schedule:     schedule,
		Summary: PlanSummary{
			TotalInstallments:    total,
			InstallmentAmount:    per,
			StartDate:            start,
			EndDate:              np.Frequency.Advance(start, total),
			Frequency:            np.Frequency,
			CourseDurationMonths: durationMonths,
		},
	}, nil
}

// CreateOneShot creates a degenerate single-installment plan with an
// explicit, strictly-future due date.
func (svc *Service) CreateOneShot(no NewOneShot) (Installment, error) {
	if !svc.tenants.IsValid(no.UniversityCode) {
		return Installment{}, core.NewValidationError(errUnknownUniversity,
			core.FieldError{Field: "university_code", Error: errUnknownUniversity.Error()})
	}

	due := core.DateOnly(no.DueDate.Time)
	if !due.After(core.DateOnly(timeNow())) {
		return Installment{}, core.NewValidationError(errDueNotFuture,
			core.FieldError{Field: "due_date", Error: errDueNotFuture.Error()})
	}

	if _, err := svc.checkStudent(no.StudentID, no.UniversityCode); err != nil {
		return Installment{}, err
	}

	net := no.Amount - no.Discount
	if net <= 0 {
		return Installment{}, core.NewValidationError(errNonPositiveNet,
			core.FieldError{Field: "discount", Error: errNonPositiveNet.Error()})
	}

	now := timeNow().UTC()
	created, err := svc.repo.CreateInstallments([]Installment{{
		StudentID:      no.StudentID,
		UniversityCode: no.UniversityCode,
		InstallmentNo:  1,
		Amount:         net,
		Discount:       no.Discount,
		DueDate:        due,
		CreatedAt:      now,
		UpdatedAt:      now,
	}})
	if err != nil {
		return Installment{}, err
	}

	if err := svc.students.SetBillingSummary(no.StudentID, 1, no.Discount, net); err != nil {
		return Installment{}, err
	}
	return created[0], nil
}

// Ledger partitions the installments due in one calendar month into
// paid / missed / upcoming buckets with per-bucket sums.
func (svc *Service) Ledger(q LedgerQuery) (Ledger, error) {
	if q.Month < 0 || q.Month > 11 {
		return Ledger{}, core.NewValidationError(nil,
			core.FieldError{Field: "month", Error: "month must be between 0 and 11"})
	}
	if q.Year < 2000 || q.Year > 2100 {
		return Ledger{}, core.NewValidationError(nil,
			core.FieldError{Field: "year", Error: "year must be between 2000 and 2100"})
	}
	if q.UniversityCode != "" && !svc.tenants.IsValid(q.UniversityCode) {
		return Ledger{}, core.NewValidationError(errUnknownUniversity,
			core.FieldError{Field: "university_code", Error: errUnknownUniversity.Error()})
	}

	all, err := svc.repo.FilterInstallments(q.UniversityCode)
	if err != nil {
		return Ledger{}, err
	}

	today := core.DateOnly(timeNow())
	var paid, missed, upcoming []Installment
	var summary LedgerSummary
	for _, ins := range all {
		if int(ins.DueDate.Month())-1 != q.Month || ins.DueDate.Year() != q.Year {
			continue
		}
		summary.TotalPayments++
		switch ins.StatusAt(today) {
		case StatusPaid:
			summary.TotalCollectedFees += ins.Amount
			paid = append(paid, ins)
		case StatusMissed:
			summary.TotalMissedFees += ins.Amount
			missed = append(missed, ins)
		default:
			summary.TotalUpcomingFees += ins.Amount
			upcoming = append(upcoming, ins)
		}
	}

	var details []Installment
	filter := core.CleanString(q.Filter, true /* lower */)
	switch filter {
	case StatusPaid:
		details = paid
	case StatusMissed:
		details = missed
	case StatusUpcoming:
		details = upcoming
	default:
		filter = "all"
		details = append(details, paid...)
		details = append(details, missed...)
		details = append(details, upcoming...)
	}
	if details == nil {
		details = []Installment{}
	}
	return Ledger{Summary: summary, Details: details, Filter: filter, Month: q.Month, Year: q.Year}, nil
}

// SetPaid toggles an installment's paid flag. Marking paid records the
// payment date (given or now) and the optional transaction id; unmarking
// clears both.
func (svc *Service) SetPaid(id int, sp SetPaid) (Installment, error) {
	ins, err := svc.repo.GetInstallmentByID(id)
	if err != nil {
		return Installment{}, err
	}

	ins.IsPaid = *sp.IsPaid
	if ins.IsPaid {
		if sp.PaymentDate.Valid {
			ins.PaymentDate = sp.PaymentDate
		} else {
			ins.PaymentDate.SetValid(timeNow().UTC())
		}
		if sp.TxnID != "" {
			ins.TxnID.SetValid(sp.TxnID)
		}
	} else {
		ins.PaymentDate.Valid = false
		ins.PaymentDate.Time = time.Time{}
		ins.TxnID.Valid = false
		ins.TxnID.String = ""
	}
	ins.UpdatedAt = timeNow().UTC()
	return svc.repo.UpdateInstallment(ins)
}

// StudentHistory returns a student's installments ordered by due date
// ascending, each annotated with its derived status, plus aggregate totals.
func (svc *Service) StudentHistory(studentID int, universityCode string) (History, error) {
	if universityCode != "" && !svc.tenants.IsValid(universityCode) {
		return History{}, core.NewValidationError(errUnknownUniversity,
			core.FieldError{Field: "university_code", Error: errUnknownUniversity.Error()})
	}

	all, err := svc.repo.InstallmentsByStudent(studentID, universityCode)
	if err != nil {
		return History{}, err
	}
	if len(all) == 0 {
		return History{}, ErrNoPayments
	}

	today := core.DateOnly(timeNow())
	hist := History{Installments: make([]AnnotatedInstallment, len(all))}
	hist.Summary.TotalPayments = len(all)
	for i, ins := range all {
		status := ins.StatusAt(today)
		hist.Installments[i] = AnnotatedInstallment{Installment: ins, Status: status}
		hist.Summary.TotalAmount += ins.Amount
		switch status {
		case StatusPaid:
			hist.Summary.PaidPayments++
			hist.Summary.PaidAmount += ins.Amount
		case StatusMissed:
			hist.Summary.MissedPayments++
			hist.Summary.PendingAmount += ins.Amount
		default:
			hist.Summary.UpcomingPayments++
			hist.Summary.PendingAmount += ins.Amount
		}
	}
	return hist, nil
}

// SendOverdueReminders emails every student that has an unpaid installment
// past its due date. Run daily by the cron job in cmd/api.
func (svc *Service) SendOverdueReminders() error {
	all, err := svc.repo.FilterInstallments("")
	if err != nil {
		return err
	}

	today := core.DateOnly(timeNow())
	overdueByStudent := make(map[int][]Installment)
	for _, ins := range all {
		if ins.StatusAt(today) == StatusMissed {
			overdueByStudent[ins.StudentID] = append(overdueByStudent[ins.StudentID], ins)
		}
	}

	var messages []*core.EmailMessage
	for studentID, overdue := range overdueByStudent {
		std, err := svc.students.GetByID(studentID)
		if err != nil {
			continue // deleted students keep their rows; nothing to notify
		}
		var total int64
		for _, ins := range overdue {
			total += ins.Amount
		}
		messages = append(messages, &core.EmailMessage{
			To:      []mail.Address{{Name: std.Name, Address: std.Email}},
			Subject: "Fee installments overdue",
			Body: fmt.Sprintf(
				"Dear %s,\n\nYou have %d overdue fee installment(s) totalling Rs. %s. "+
					"Please clear your dues at the accounts office.\n",
				std.Name, len(overdue), core.FormatINR(total),
			),
		})
	}
	if len(messages) > 0 {
		svc.mailSvc.SendMessages(messages...)
	}
	return nil
}

func (svc *Service) courseDuration(courseID int) int {
	crs, err := svc.courses.GetByID(courseID)
	if err != nil || crs.DurationMonths <= 0 {
		return course.DefaultDurationMonths
	}
	return crs.DurationMonths
}

// resolveStartDate picks the schedule start: the explicit override wins,
// else the student's recorded joining date. A missing joining date is a
// hard error rather than a silent fallback to today, since a schedule
// anchored on the wrong day silently mis-bills every installment.
func (svc *Service) resolveStartDate(np NewPlan, std student.Student) (time.Time, error) {
	var start time.Time
	switch {
	case np.JoiningDate.Valid:
		start = np.JoiningDate.Time
	case std.JoiningDate.Valid:
		start = std.JoiningDate.Time
	default:
		return time.Time{}, core.NewValidationError(errNoJoiningDate,
			core.FieldError{Field: "joining_date", Error: errNoJoiningDate.Error()})
	}

	maxFuture := core.AddYears(core.DateOnly(timeNow()), maxFutureJoiningYears)
	if core.DateOnly(start).After(maxFuture) {
		return time.Time{}, core.NewValidationError(errJoiningTooFar,
			core.FieldError{Field: "joining_date", Error: errJoiningTooFar.Error()})
	}
	return core.DateOnly(start), nil
}
