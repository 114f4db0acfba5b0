package session

import (
	"errors"
	"time"

	"github.com/gyanhq/campus/core"
)

var (
	ErrNotFound   = errors.New("session not found")
	ErrNoDefault  = errors.New("no default session set")
	ErrYearExists = errors.New("a session for this year already exists")
)

type (
	Repository interface {
		CheckSessionUniqueness(year, universityCode string, excludedSessions ...Session) error
		CreateSession(s Session) (Session, error)
		GetSessionByID(id int) (Session, error)
		// QueryAllSessions returns sessions ordered by start date descending,
		// optionally tenant-scoped.
		QueryAllSessions(universityCode string) ([]Session, error)
		GetDefaultSession(universityCode string) (Session, error)
		// SetDefaultSession marks one session default and unsets any other
		// default of the same tenant in the same transaction.
		SetDefaultSession(id int, universityCode string) (Session, error)
		UpdateSession(s Session) (Session, error)
		DeleteSessionByID(id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(year, universityCode string, excl ...Session) error {
	if err := svc.repo.CheckSessionUniqueness(year, universityCode, excl...); err != nil {
		if err == ErrYearExists {
			return core.NewConflictError(err)
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ns NewSession) (Session, error) {
	now := time.Now().UTC()
	s := Session{
		Year:           ns.Year,
		StartDate:      ns.StartDate,
		EndDate:        ns.EndDate,
		UniversityCode: ns.UniversityCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s, err := svc.repo.CreateSession(s)
	if err != nil {
		return Session{}, err
	}
	if ns.IsDefault {
		return svc.repo.SetDefaultSession(s.ID, s.UniversityCode)
	}
	return s, nil
}

func (svc *Service) GetByID(id int) (Session, error) {
	return svc.repo.GetSessionByID(id)
}

func (svc *Service) QueryAll(universityCode string) ([]Session, error) {
	return svc.repo.QueryAllSessions(universityCode)
}

func (svc *Service) GetDefault(universityCode string) (Session, error) {
	return svc.repo.GetDefaultSession(universityCode)
}

func (svc *Service) SetDefault(id int, universityCode string) (Session, error) {
	return svc.repo.SetDefaultSession(id, universityCode)
}

func (svc *Service) Update(orig Session, us UpdateSession) (Session, error) {
	s := orig
	if us.Year != "" {
		s.Year = us.Year
	}
	if !us.StartDate.IsZero() {
		s.StartDate = us.StartDate
	}
	if !us.EndDate.IsZero() {
		s.EndDate = us.EndDate
	}
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSession(s)
}

func (svc *Service) Delete(id int) error {
	return svc.repo.DeleteSessionByID(id)
}
