package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core/account"
	"github.com/gyanhq/campus/core/course"
	"github.com/gyanhq/campus/core/payment"
	"github.com/gyanhq/campus/core/student"
)

func newTestStudent(t *testing.T, email, enrollmentID string, courseID int) student.Student {
	t.Helper()
	std, err := studentSvc.Create(student.NewStudent{
		Name:           "Asha Verma",
		Email:          email,
		Phone:          "9876543210",
		Department:     "Science",
		UniversityCode: "GYAN001",
		EnrollmentID:   enrollmentID,
		JoiningDate:    null.TimeFrom(time.Now().AddDate(0, -1, 0)),
		CourseID:       courseID,
	})
	if err != nil {
		t.Fatalf("newTestStudent(): %v", err)
	}
	return std
}

func newTestCourse(t *testing.T, code string) course.Course {
	t.Helper()
	crs, err := courseSvc.Create(course.NewCourse{
		Name:           "Bachelor of Science",
		Code:           code,
		Department:     "Science",
		DurationMonths: 12,
		UniversityCode: "GYAN001",
	})
	if err != nil {
		t.Fatalf("newTestCourse(): %v", err)
	}
	return crs
}

func TestPaymentAPIAuth(t *testing.T) {
	operator := newTestUser(t, "Op", "op.payments@test.local", []string{account.RoleOperator})

	req, rec := newRequest(http.MethodGet, "/v1/payments/ledger?month=0&year=2024")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: code = %d; want %d", rec.Code, http.StatusUnauthorized)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/payments/ledger?month=0&year=2024", getToken(t, operator))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("operator: code = %d; want %d", rec.Code, http.StatusForbidden)
	}
}

func TestPaymentAPIPlanFlow(t *testing.T) {
	accountant := newTestUser(t, "Acct", "acct.payments@test.local", []string{account.RoleAccountant})
	token := getToken(t, accountant)

	crs := newTestCourse(t, "bsc01")
	std := newTestStudent(t, "asha.payments@test.local", "ENR1001", crs.ID)

	body := marshallObj(t, payment.NewPlan{
		StudentID:      std.ID,
		Amount:         12000,
		Frequency:      payment.FrequencyMonthly,
		UniversityCode: "GYAN001",
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/payments/plan", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create plan: code = %d; body = %s", rec.Code, rec.Body.String())
	}

	var plan payment.Plan
	decodeBody(t, rec, &plan)
	if len(plan.Installments) != 12 {
		t.Fatalf("installments = %d; want 12", len(plan.Installments))
	}
	if plan.Summary.InstallmentAmount != 1000 {
		t.Errorf("installment amount = %d; want 1000", plan.Summary.InstallmentAmount)
	}

	// a second plan for the same student must clash
	req, rec = newAuthRequest(http.MethodPost, "/v1/payments/plan", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("second plan: code = %d; want %d", rec.Code, http.StatusConflict)
	}

	// mark the first installment paid, then unmark it
	paid := true
	ins := plan.Installments[0]
	req, rec = newAuthRequest(http.MethodPatch, "/v1/payments/"+itoa(ins.ID)+"/paid", token,
		marshallObj(t, payment.SetPaid{IsPaid: &paid, TxnID: "TXN-1"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("set paid: code = %d; body = %s", rec.Code, rec.Body.String())
	}
	var updated payment.Installment
	decodeBody(t, rec, &updated)
	if !updated.IsPaid || !updated.PaymentDate.Valid || updated.TxnID.String != "TXN-1" {
		t.Errorf("set paid: got %+v", updated)
	}

	unpaid := false
	req, rec = newAuthRequest(http.MethodPatch, "/v1/payments/"+itoa(ins.ID)+"/paid", token,
		marshallObj(t, payment.SetPaid{IsPaid: &unpaid}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unset paid: code = %d", rec.Code)
	}
	decodeBody(t, rec, &updated)
	if updated.IsPaid || updated.PaymentDate.Valid || updated.TxnID.Valid {
		t.Errorf("unset paid: got %+v", updated)
	}

	// history
	req, rec = newAuthRequest(http.MethodGet, "/v1/payments/student/"+itoa(std.ID), token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: code = %d", rec.Code)
	}
	var hist payment.History
	decodeBody(t, rec, &hist)
	if hist.Summary.TotalPayments != 12 {
		t.Errorf("history total = %d; want 12", hist.Summary.TotalPayments)
	}

	// unknown student has no history
	req, rec = newAuthRequest(http.MethodGet, "/v1/payments/student/999999", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown student history: code = %d; want %d", rec.Code, http.StatusNotFound)
	}

	// ledger for the first installment's month
	due := plan.Installments[0].DueDate
	path := "/v1/payments/ledger?month=" + itoa(int(due.Month())-1) + "&year=" + itoa(due.Year())
	req, rec = newAuthRequest(http.MethodGet, path, token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("ledger: code = %d; body = %s", rec.Code, rec.Body.String())
	}
	var ledger payment.Ledger
	decodeBody(t, rec, &ledger)
	if ledger.Summary.TotalPayments == 0 {
		t.Error("ledger: no payments found for due month")
	}

	// reminders are admin-only
	req, rec = newAuthRequest(http.MethodPost, "/v1/payments/reminders", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("reminders as accountant: code = %d; want %d", rec.Code, http.StatusForbidden)
	}

	admin := newTestUser(t, "Admin", "admin.payments@test.local", []string{account.RoleAdmin})
	req, rec = newAuthRequest(http.MethodPost, "/v1/payments/reminders", getToken(t, admin))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("reminders as admin: code = %d; body = %s", rec.Code, rec.Body.String())
	}
}

func TestPaymentAPIOneShot(t *testing.T) {
	accountant := newTestUser(t, "Acct2", "acct.oneshot@test.local", []string{account.RoleAccountant})
	token := getToken(t, accountant)

	crs := newTestCourse(t, "llb01")
	std := newTestStudent(t, "ravi.oneshot@test.local", "ENR2001", crs.ID)

	// a due date of today is rejected
	req, rec := newAuthRequest(http.MethodPost, "/v1/payments/one-shot", token,
		marshallObj(t, payment.NewOneShot{
			StudentID:      std.ID,
			Amount:         5000,
			DueDate:        null.TimeFrom(time.Now()),
			UniversityCode: "GYAN001",
		}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("one-shot due today: code = %d; want %d", rec.Code, http.StatusBadRequest)
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/payments/one-shot", token,
		marshallObj(t, payment.NewOneShot{
			StudentID:      std.ID,
			Amount:         5000,
			Discount:       500,
			DueDate:        null.TimeFrom(time.Now().AddDate(0, 0, 7)),
			UniversityCode: "GYAN001",
		}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("one-shot: code = %d; body = %s", rec.Code, rec.Body.String())
	}
	var ins payment.Installment
	decodeBody(t, rec, &ins)
	if ins.Amount != 4500 || ins.InstallmentNo != 1 {
		t.Errorf("one-shot: got %+v", ins)
	}
}
