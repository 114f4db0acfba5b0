package inmemdb

import (
	"sync"

	"github.com/gyanhq/campus/core/account"
	"github.com/gyanhq/campus/core/admitcard"
	"github.com/gyanhq/campus/core/attendance"
	"github.com/gyanhq/campus/core/course"
	"github.com/gyanhq/campus/core/employee"
	"github.com/gyanhq/campus/core/message"
	"github.com/gyanhq/campus/core/payment"
	"github.com/gyanhq/campus/core/session"
	"github.com/gyanhq/campus/core/student"
)

type (
	DB struct {
		student     *studentTable
		course      *courseTable
		session     *sessionTable
		installment *installmentTable
		attendance  *attendanceTable
		message     *messageTable
		employee    *employeeTable
		admitCard   *admitCardTable
		account     *accountTable
	}

	studentTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*student.Student
	}

	courseTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*course.Course
	}

	sessionTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*session.Session
	}

	installmentTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*payment.Installment
	}

	attendanceTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*attendance.Record
	}

	messageTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*message.Message
	}

	employeeTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*employee.Employee
	}

	admitCardTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*admitcard.Card
	}

	accountTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*account.User
	}
)

func Open() (*DB, error) {
	db := &DB{
		student:     &studentTable{table: make(map[int]*student.Student)},
		course:      &courseTable{table: make(map[int]*course.Course)},
		session:     &sessionTable{table: make(map[int]*session.Session)},
		installment: &installmentTable{table: make(map[int]*payment.Installment)},
		attendance:  &attendanceTable{table: make(map[int]*attendance.Record)},
		message:     &messageTable{table: make(map[int]*message.Message)},
		employee:    &employeeTable{table: make(map[int]*employee.Employee)},
		admitCard:   &admitCardTable{table: make(map[int]*admitcard.Card)},
		account:     &accountTable{table: make(map[int]*account.User)},
	}
	return db, nil
}
