package inmemdb

import (
	"sort"
	"time"

	"github.com/gyanhq/campus/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

// upsert must be called with the write lock held.
func (repo *attendanceRepository) upsert(rec attendance.Record) attendance.Record {
	for _, existing := range repo.db.table {
		if existing.StudentID == rec.StudentID && existing.Date.Equal(rec.Date) {
			existing.CourseID = rec.CourseID
			existing.Status = rec.Status
			existing.UpdatedAt = rec.UpdatedAt
			return *existing
		}
	}
	repo.db.pkCount++
	rec.ID = repo.db.pkCount
	repo.db.table[rec.ID] = &rec
	return rec
}

func (repo *attendanceRepository) UpsertRecord(rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	return repo.upsert(rec), nil
}

func (repo *attendanceRepository) UpsertRecords(recs []attendance.Record) ([]attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	upserted := make([]attendance.Record, 0, len(recs))
	for _, rec := range recs {
		upserted = append(upserted, repo.upsert(rec))
	}
	return upserted, nil
}

func (repo *attendanceRepository) GetRecordByID(id int) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[id]; ok {
		return *rec, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) RecordsByStudent(studentID int, from, to time.Time) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]attendance.Record, 0)
	for _, rec := range repo.db.table {
		if rec.StudentID != studentID {
			continue
		}
		if !from.IsZero() && rec.Date.Before(from) {
			continue
		}
		if !to.IsZero() && rec.Date.After(to) {
			continue
		}
		matches = append(matches, *rec)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Date.Before(matches[j].Date) })
	return matches, nil
}

func (repo *attendanceRepository) DeleteRecordByID(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}
