package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gyanhq/campus/core"
	"github.com/gyanhq/campus/core/account"
	"github.com/gyanhq/campus/core/admitcard"
	"github.com/gyanhq/campus/core/attendance"
	"github.com/gyanhq/campus/core/course"
	"github.com/gyanhq/campus/core/employee"
	"github.com/gyanhq/campus/core/message"
	"github.com/gyanhq/campus/core/payment"
	"github.com/gyanhq/campus/core/session"
	"github.com/gyanhq/campus/core/student"
	"github.com/gyanhq/campus/core/university"
	emailsvc "github.com/gyanhq/campus/services/email"
	"github.com/gyanhq/campus/storage/database/inmemdb"
)

var (
	app Server

	accountSvc *account.Service
	studentSvc *student.Service
	courseSvc  *course.Service
	paymentSvc *payment.Service
)

func TestMain(m *testing.M) {
	conf := &core.Config{
		AppName:                   "Campus",
		Env:                       "TEST",
		TestMode:                  true,
		SecretKey:                 []byte("test-secret"),
		DefaultFromEmailName:      "Campus",
		DefaultFromEmailAddress:   "noreply@test.local",
		JWTExpirationDelta:        time.Hour,
		JWTRefreshExpirationDelta: 4 * time.Hour,
		Universities: []core.UniversityConfig{
			{Code: "GYAN001", Name: "Kishangarh Girls College"},
			{Code: "GYAN002", Name: "Kishangarh Law College"},
		},
	}

	db, err := inmemdb.Open()
	if err != nil {
		os.Exit(1)
	}

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	universities := university.NewRegistry(conf)

	accountSvc = account.NewService(inmemdb.NewAccountRepository(db))
	studentSvc = student.NewService(inmemdb.NewStudentRepository(db))
	courseSvc = course.NewService(inmemdb.NewCourseRepository(db))
	sessionSvc := session.NewService(inmemdb.NewSessionRepository(db))
	paymentSvc = payment.NewService(inmemdb.NewPaymentRepository(db), universities, studentSvc, courseSvc, mailSvc)
	attendanceSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db))
	messageSvc := message.NewService(inmemdb.NewMessageRepository(db), mailSvc)
	employeeSvc := employee.NewService(inmemdb.NewEmployeeRepository(db))
	admitCardSvc := admitcard.NewService(inmemdb.NewAdmitCardRepository(db))

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	if err := account.RegisterRoleValidators(validate); err != nil {
		os.Exit(1)
	}

	app = NewServer(&Options{
		Conf:           conf,
		Logger:         testLogger{},
		DisableReqLogs: true,
		SignalShutdown: func() {},
		Validate:       validate,
		Translator:     translator,
		Universities:   universities,
		AccountSvc:     accountSvc,
		StudentSvc:     studentSvc,
		CourseSvc:      courseSvc,
		SessionSvc:     sessionSvc,
		PaymentSvc:     paymentSvc,
		AttendanceSvc:  attendanceSvc,
		MessageSvc:     messageSvc,
		EmployeeSvc:    employeeSvc,
		AdmitCardSvc:   admitCardSvc,
	})

	os.Exit(m.Run())
}

type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func newTestUser(t *testing.T, name, email string, roles []string) account.User {
	t.Helper()
	usr, err := accountSvc.Create(account.NewUser{
		Name:           name,
		Email:          email,
		Password:       "Secret123!",
		Roles:          roles,
		UniversityCode: "GYAN001",
	})
	if err != nil {
		t.Fatalf("newTestUser(): %v", err)
	}
	return usr
}

func getToken(t *testing.T, usr account.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func itoa(n int) string { return strconv.Itoa(n) }

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decodeBody(): %v; body=%s", err, rec.Body.String())
	}
}
