package inmemdb_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyanhq/campus/core/attendance"
	"github.com/gyanhq/campus/core/payment"
	"github.com/gyanhq/campus/core/session"
	"github.com/gyanhq/campus/core/student"
	"github.com/gyanhq/campus/storage/database/inmemdb"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPaymentRepositoryPlanUniqueness(t *testing.T) {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	repo := inmemdb.NewPaymentRepository(db)

	batch := []payment.Installment{
		{StudentID: 1, InstallmentNo: 1, Amount: 1000, DueDate: day(2024, time.February, 1)},
		{StudentID: 1, InstallmentNo: 2, Amount: 1000, DueDate: day(2024, time.March, 1)},
	}
	created, err := repo.CreateInstallments(batch)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotZero(t, created[0].ID)

	// re-inserting the same plan collides on (student_id, installment_no)
	_, err = repo.CreateInstallments(batch)
	assert.Equal(t, payment.ErrPlanExists, err)

	// another student's plan is unaffected
	_, err = repo.CreateInstallments([]payment.Installment{
		{StudentID: 2, InstallmentNo: 1, Amount: 500, DueDate: day(2024, time.February, 1)},
	})
	assert.NoError(t, err)
}

func TestAttendanceRepositoryUpsert(t *testing.T) {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	repo := inmemdb.NewAttendanceRepository(db)

	rec, err := repo.UpsertRecord(attendance.Record{
		StudentID: 1, CourseID: 1, Date: day(2024, time.June, 3), Status: attendance.StatusAbsent,
	})
	require.NoError(t, err)

	// marking the same day again corrects in place
	corrected, err := repo.UpsertRecord(attendance.Record{
		StudentID: 1, CourseID: 1, Date: day(2024, time.June, 3), Status: attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, rec.ID, corrected.ID)
	assert.Equal(t, attendance.StatusPresent, corrected.Status)

	_, err = repo.UpsertRecord(attendance.Record{
		StudentID: 1, CourseID: 1, Date: day(2024, time.June, 4), Status: attendance.StatusPresent,
	})
	require.NoError(t, err)

	all, err := repo.RecordsByStudent(1, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ranged, err := repo.RecordsByStudent(1, day(2024, time.June, 4), time.Time{})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, day(2024, time.June, 4), ranged[0].Date)
}

func TestSessionRepositoryDefaultSwap(t *testing.T) {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	repo := inmemdb.NewSessionRepository(db)

	_, err = repo.GetDefaultSession("GYAN001")
	assert.Equal(t, session.ErrNoDefault, err)

	s1, err := repo.CreateSession(session.Session{
		Year: "2023-2024", StartDate: day(2023, time.July, 1), EndDate: day(2024, time.June, 30),
		UniversityCode: "GYAN001",
	})
	require.NoError(t, err)
	s2, err := repo.CreateSession(session.Session{
		Year: "2024-2025", StartDate: day(2024, time.July, 1), EndDate: day(2025, time.June, 30),
		UniversityCode: "GYAN001",
	})
	require.NoError(t, err)
	other, err := repo.CreateSession(session.Session{
		Year: "2024-2025", StartDate: day(2024, time.July, 1), EndDate: day(2025, time.June, 30),
		UniversityCode: "GYAN002",
	})
	require.NoError(t, err)
	_, err = repo.SetDefaultSession(other.ID, "GYAN002")
	require.NoError(t, err)

	_, err = repo.SetDefaultSession(s1.ID, "GYAN001")
	require.NoError(t, err)
	got, err := repo.GetDefaultSession("GYAN001")
	require.NoError(t, err)
	assert.Equal(t, s1.ID, got.ID)

	// swapping the default unsets the previous one for that tenant only
	_, err = repo.SetDefaultSession(s2.ID, "GYAN001")
	require.NoError(t, err)
	got, err = repo.GetDefaultSession("GYAN001")
	require.NoError(t, err)
	assert.Equal(t, s2.ID, got.ID)

	prev, err := repo.GetSessionByID(s1.ID)
	require.NoError(t, err)
	assert.False(t, prev.IsDefault)

	otherGot, err := repo.GetDefaultSession("GYAN002")
	require.NoError(t, err)
	assert.Equal(t, other.ID, otherGot.ID)
}

func TestStudentRepositoryUpdatePreservesManagedFields(t *testing.T) {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	repo := inmemdb.NewStudentRepository(db)

	std, err := repo.CreateStudent(student.Student{
		Name: "Asha Verma", Email: "asha@example.com", UniversityCode: "GYAN001",
		EnrollmentID: "ENR1", Status: student.StatusActive, CourseID: 1,
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateBillingSummary(std.ID, 12, 500, 11500))

	std.Name = "Asha K Verma"
	std.Status = "garbage" // must not stick
	updated, err := repo.UpdateStudent(std)
	require.NoError(t, err)
	assert.Equal(t, "Asha K Verma", updated.Name)
	assert.Equal(t, student.StatusActive, updated.Status)
	assert.Equal(t, 12, updated.InstallmentCount)
	assert.Equal(t, int64(11500), updated.FinalAmount)

	deactivated, err := repo.SetStudentStatus(std.ID, student.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, student.StatusInactive, deactivated.Status)

	exes, err := repo.FilterStudents(student.QueryFilter{Status: student.StatusInactive, UniversityCode: "GYAN001"})
	require.NoError(t, err)
	require.Len(t, exes, 1)
	assert.Equal(t, std.ID, exes[0].ID)
}
