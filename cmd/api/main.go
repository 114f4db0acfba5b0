package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"

	echoapi "github.com/gyanhq/campus/api/echo"
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
	logsvc "github.com/gyanhq/campus/services/logger"
	"github.com/gyanhq/campus/storage/database"
	"github.com/gyanhq/campus/storage/database/sqlxrepos"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	universities := university.NewRegistry(conf)

	accountSvc := account.NewService(sqlxrepos.NewAccountRepository(db))
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db))
	courseSvc := course.NewService(sqlxrepos.NewCourseRepository(db))
	sessionSvc := session.NewService(sqlxrepos.NewSessionRepository(db))
	paymentSvc := payment.NewService(sqlxrepos.NewPaymentRepository(db), universities, studentSvc, courseSvc, mailSvc)
	attendanceSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db))
	messageSvc := message.NewService(sqlxrepos.NewMessageRepository(db), mailSvc)
	employeeSvc := employee.NewService(sqlxrepos.NewEmployeeRepository(db))
	admitCardSvc := admitcard.NewService(sqlxrepos.NewAdmitCardRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	if err = account.RegisterRoleValidators(validate); err != nil {
		logger.Fatal(fmt.Sprintf("registering role validators: %v", err), err)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Cron Jobs

	scheduler := cron.New()
	if _, err = scheduler.AddFunc("@daily", func() {
		if err := paymentSvc.SendOverdueReminders(); err != nil {
			logger.Error(fmt.Sprintf("sending overdue reminders: %v", err), err)
		}
	}); err != nil {
		logger.Fatal(fmt.Sprintf("scheduling overdue reminders: %v", err), err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Conf:           conf,
		Logger:         logger,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
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

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
