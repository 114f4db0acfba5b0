package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	seq   int
	table map[int]Record
}

func newFakeRepo() *fakeRepo { return &fakeRepo{table: make(map[int]Record)} }

func (r *fakeRepo) UpsertRecord(rec Record) (Record, error) {
	for id, existing := range r.table {
		if existing.StudentID == rec.StudentID && existing.Date.Equal(rec.Date) {
			rec.ID = id
			r.table[id] = rec
			return rec, nil
		}
	}
	r.seq++
	rec.ID = r.seq
	r.table[rec.ID] = rec
	return rec, nil
}

func (r *fakeRepo) UpsertRecords(recs []Record) ([]Record, error) {
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		up, _ := r.UpsertRecord(rec)
		out = append(out, up)
	}
	return out, nil
}

func (r *fakeRepo) GetRecordByID(id int) (Record, error) {
	if rec, ok := r.table[id]; ok {
		return rec, nil
	}
	return Record{}, ErrNotFound
}

func (r *fakeRepo) RecordsByStudent(studentID int, from, to time.Time) ([]Record, error) {
	matches := make([]Record, 0)
	for _, rec := range r.table {
		if rec.StudentID != studentID {
			continue
		}
		if !from.IsZero() && rec.Date.Before(from) {
			continue
		}
		if !to.IsZero() && rec.Date.After(to) {
			continue
		}
		matches = append(matches, rec)
	}
	return matches, nil
}

func (r *fakeRepo) DeleteRecordByID(id int) error {
	delete(r.table, id)
	return nil
}

func TestMarkTruncatesToDate(t *testing.T) {
	svc := NewService(newFakeRepo())

	rec, err := svc.Mark(NewRecord{
		StudentID: 1, CourseID: 1,
		Date:           time.Date(2024, time.June, 3, 14, 25, 0, 0, time.UTC),
		Status:         StatusPresent,
		UniversityCode: "GYAN001",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), rec.Date)

	// a later mark for the same day replaces, not duplicates
	again, err := svc.Mark(NewRecord{
		StudentID: 1, CourseID: 1,
		Date:           time.Date(2024, time.June, 3, 18, 0, 0, 0, time.UTC),
		Status:         StatusAbsent,
		UniversityCode: "GYAN001",
	})
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)
	assert.Equal(t, StatusAbsent, again.Status)
}

func TestBulkMark(t *testing.T) {
	svc := NewService(newFakeRepo())

	bm := BulkMark{
		CourseID:       1,
		Date:           time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		UniversityCode: "GYAN001",
		Entries: []BulkEntry{
			{StudentID: 1, Status: StatusPresent},
			{StudentID: 2, Status: StatusLeave},
		},
	}

	recs, err := svc.BulkMark(bm)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, StatusPresent, recs[0].Status)
	assert.Equal(t, StatusLeave, recs[1].Status)
}

func TestStudentSummary(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	sum, err := svc.StudentSummary(1, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, sum.Total)
	assert.Zero(t, sum.Percentage)

	days := []struct {
		d      int
		status string
	}{
		{1, StatusPresent}, {2, StatusPresent}, {3, StatusPresent},
		{4, StatusAbsent}, {5, StatusLeave},
	}
	for _, d := range days {
		_, err := repo.UpsertRecord(Record{
			StudentID: 1, Date: time.Date(2024, time.June, d.d, 0, 0, 0, 0, time.UTC), Status: d.status,
		})
		require.NoError(t, err)
	}

	sum, err = svc.StudentSummary(1, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 3, sum.Present)
	assert.Equal(t, 1, sum.Absent)
	assert.Equal(t, 1, sum.Leave)
	assert.InDelta(t, 60.0, sum.Percentage, 0.001)
}
