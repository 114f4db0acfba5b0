package attendance

import (
	"errors"
	"time"

	"github.com/gyanhq/campus/core"
)

var ErrNotFound = errors.New("attendance record not found")

type (
	Repository interface {
		// UpsertRecord replaces any existing record for the same
		// student and date.
		UpsertRecord(rec Record) (Record, error)
		UpsertRecords(recs []Record) ([]Record, error)
		GetRecordByID(id int) (Record, error)
		// RecordsByStudent returns records ordered by date ascending;
		// zero from/to mean an open range.
		RecordsByStudent(studentID int, from, to time.Time) ([]Record, error)
		DeleteRecordByID(id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Mark(nr NewRecord) (Record, error) {
	now := time.Now().UTC()
	return svc.repo.UpsertRecord(Record{
		StudentID:      nr.StudentID,
		CourseID:       nr.CourseID,
		Date:           core.DateOnly(nr.Date),
		Status:         nr.Status,
		UniversityCode: nr.UniversityCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (svc *Service) BulkMark(bm BulkMark) ([]Record, error) {
	now := time.Now().UTC()
	recs := make([]Record, len(bm.Entries))
	for i, e := range bm.Entries {
		recs[i] = Record{
			StudentID:      e.StudentID,
			CourseID:       bm.CourseID,
			Date:           core.DateOnly(bm.Date),
			Status:         e.Status,
			UniversityCode: bm.UniversityCode,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}
	return svc.repo.UpsertRecords(recs)
}

func (svc *Service) ByStudent(studentID int, from, to time.Time) ([]Record, error) {
	return svc.repo.RecordsByStudent(studentID, from, to)
}

func (svc *Service) StudentSummary(studentID int, from, to time.Time) (Summary, error) {
	recs, err := svc.repo.RecordsByStudent(studentID, from, to)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{StudentID: studentID, Total: len(recs)}
	for _, rec := range recs {
		switch rec.Status {
		case StatusPresent:
			sum.Present++
		case StatusAbsent:
			sum.Absent++
		case StatusLeave:
			sum.Leave++
		}
	}
	if sum.Total > 0 {
		sum.Percentage = float64(sum.Present) / float64(sum.Total) * 100
	}
	return sum, nil
}

func (svc *Service) Delete(id int) error {
	return svc.repo.DeleteRecordByID(id)
}
