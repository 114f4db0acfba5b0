package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

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
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool
		SignalShutdown func()

		Validate   *validator.Validate
		Translator ut.Translator

		Universities  *university.Registry
		AccountSvc    *account.Service
		StudentSvc    *student.Service
		CourseSvc     *course.Service
		SessionSvc    *session.Service
		PaymentSvc    *payment.Service
		AttendanceSvc *attendance.Service
		MessageSvc    *message.Service
		EmployeeSvc   *employee.Service
		AdmitCardSvc  *admitcard.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	initAuth(opts.Conf)
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerAccountAPI(v1, jwt, s.opts.AccountSvc, s.opts.Validate)
	registerUniversityAPI(v1, jwt, s.opts.Universities)
	registerStudentAPI(v1, jwt, s.opts.StudentSvc, s.opts.Validate)
	registerCourseAPI(v1, jwt, s.opts.CourseSvc, s.opts.Validate)
	registerSessionAPI(v1, jwt, s.opts.SessionSvc, s.opts.Validate)
	registerPaymentAPI(v1, jwt, s.opts.PaymentSvc, s.opts.Validate)
	registerAttendanceAPI(v1, jwt, s.opts.AttendanceSvc, s.opts.Validate)
	registerMessageAPI(v1, jwt, s.opts.MessageSvc, s.opts.Validate)
	registerEmployeeAPI(v1, jwt, s.opts.EmployeeSvc, s.opts.Validate)
	registerAdmitCardAPI(v1, jwt, s.opts.AdmitCardSvc, s.opts.Validate)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Conf.Server.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Campus API!")
}
