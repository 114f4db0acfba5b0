package inmemdb

import (
	"sort"
	"time"

	"github.com/gyanhq/campus/core/session"
)

type sessionRepository struct {
	db *sessionTable
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) *sessionRepository {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) query() []session.Session {
	sessions := make([]session.Session, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		sessions = append(sessions, *s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].StartDate.After(sessions[j].StartDate) })
	return sessions
}

func (repo *sessionRepository) CheckSessionUniqueness(year, universityCode string, excludedSessions ...session.Session) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := func(s session.Session) bool {
		for _, excl := range excludedSessions {
			if s.ID == excl.ID {
				return true
			}
		}
		return false
	}

	for _, s := range repo.query() {
		if s.Year == year && s.UniversityCode == universityCode && !excluded(s) {
			return session.ErrYearExists
		}
	}
	return nil
}

func (repo *sessionRepository) CreateSession(s session.Session) (session.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	s.ID = repo.db.pkCount
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *sessionRepository) GetSessionByID(id int) (session.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) QueryAllSessions(universityCode string) ([]session.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if universityCode == "" {
		return repo.query(), nil
	}
	matches := make([]session.Session, 0)
	for _, s := range repo.query() {
		if s.UniversityCode == universityCode {
			matches = append(matches, s)
		}
	}
	return matches, nil
}

func (repo *sessionRepository) GetDefaultSession(universityCode string) (session.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.query() {
		if s.IsDefault && s.UniversityCode == universityCode {
			return s, nil
		}
	}
	return session.Session{}, session.ErrNoDefault
}

func (repo *sessionRepository) SetDefaultSession(id int, universityCode string) (session.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	target, ok := repo.db.table[id]
	if !ok || target.UniversityCode != universityCode {
		return session.Session{}, session.ErrNotFound
	}
	for _, s := range repo.db.table {
		if s.UniversityCode == universityCode {
			s.IsDefault = false
		}
	}
	target.IsDefault = true
	target.UpdatedAt = time.Now().UTC()
	return *target, nil
}

func (repo *sessionRepository) UpdateSession(s session.Session) (session.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[s.ID]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	s.IsDefault = orig.IsDefault
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *sessionRepository) DeleteSessionByID(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}
