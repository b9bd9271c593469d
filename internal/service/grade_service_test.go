package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/export"
)

type stubEnrollments struct {
	details      []models.EnrollmentDetail
	credits      []models.GradedCredit
	creditCalls  int
	exists       bool
	created      []*models.Enrollment
	updateErr    error
	updatedGrade string
}

func (s *stubEnrollments) Exists(ctx context.Context, studentID, courseID, term string) (bool, error) {
	return s.exists, nil
}

func (s *stubEnrollments) Create(ctx context.Context, e *models.Enrollment) error {
	e.ID = "enrollment-1"
	s.created = append(s.created, e)
	return nil
}

func (s *stubEnrollments) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	return s.details, nil
}

func (s *stubEnrollments) ListByCourse(ctx context.Context, courseID, term string) ([]models.EnrollmentDetail, error) {
	return s.details, nil
}

func (s *stubEnrollments) GradedCredits(ctx context.Context, studentID string) ([]models.GradedCredit, error) {
	s.creditCalls++
	return s.credits, nil
}

func (s *stubEnrollments) UpdateGrade(ctx context.Context, exec sqlx.ExtContext, courseID, studentID, term, grade string) (*models.Enrollment, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updatedGrade = grade
	return &models.Enrollment{ID: "enrollment-1", StudentID: studentID, CourseID: courseID, Term: term, Grade: &grade}, nil
}

type recordingRenderer struct {
	table export.Table
}

func (r *recordingRenderer) Render(table export.Table) ([]byte, error) {
	r.table = table
	return []byte("%PDF-stub"), nil
}

func approvedAssignment() *models.TeachingAssignment {
	a := pendingAssignment("a1")
	a.Status = models.StatusApproved
	return a
}

func TestCalculateGPA(t *testing.T) {
	summary := CalculateGPA(studentID, []models.GradedCredit{
		{CourseID: "c1", Credits: 3, Grade: "A"},
		{CourseID: "c2", Credits: 4, Grade: "B"},
	}, nil)
	assert.Equal(t, 3.43, summary.GPA)
	assert.Equal(t, 7, summary.TotalCredits)
	assert.Equal(t, 2, summary.CoursesCount)

	empty := CalculateGPA(studentID, nil, nil)
	assert.Equal(t, models.GPASummary{StudentID: studentID}, empty)

	var skipped []string
	withBad := CalculateGPA(studentID, []models.GradedCredit{
		{CourseID: "c1", Credits: 3, Grade: "A"},
		{CourseID: "c2", Credits: 4, Grade: "A+"},
		{CourseID: "c3", Credits: 2, Grade: " b+ "},
	}, func(c models.GradedCredit) { skipped = append(skipped, c.CourseID) })
	assert.Equal(t, []string{"c2"}, skipped)
	assert.Equal(t, 5, withBad.TotalCredits)
	assert.Equal(t, 2, withBad.CoursesCount)
	assert.Equal(t, 3.72, withBad.GPA)
}

func newGradeFixture(t *testing.T, cache *CacheService, records ...*models.TeachingAssignment) (*GradeService, *stubEnrollments, *stubNotifications, *mockHandle, *recordingRenderer) {
	t.Helper()
	db, mock := newMockTx(t)
	enrollments := &stubEnrollments{}
	notifications := &stubNotifications{}
	pdf := &recordingRenderer{}
	svc := NewGradeService(defaultUsers(), enrollments, newStubAssignments(records...), notifications, db, nil, nil, GradeServiceOptions{Cache: cache, PDF: pdf})
	return svc, enrollments, notifications, &mockHandle{mock}, pdf
}

func TestGradeServiceUpdateGrade(t *testing.T) {
	req := dto.UpdateGradeRequest{CourseID: courseID, StudentID: studentID, Term: fallTerm, Grade: " b+ "}

	t.Run("requires approved assignment", func(t *testing.T) {
		svc, _, _, _, _ := newGradeFixture(t, nil, pendingAssignment("a1"))
		_, err := svc.UpdateGrade(context.Background(), teacherID, req)
		assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
	})

	t.Run("rejects unsupported grade", func(t *testing.T) {
		svc, _, _, _, _ := newGradeFixture(t, nil, approvedAssignment())
		bad := req
		bad.Grade = "A+"
		_, err := svc.UpdateGrade(context.Background(), teacherID, bad)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	})

	t.Run("missing enrollment", func(t *testing.T) {
		svc, enrollments, notifications, mock, _ := newGradeFixture(t, nil, approvedAssignment())
		enrollments.updateErr = sql.ErrNoRows
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.UpdateGrade(context.Background(), teacherID, req)
		assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
		assert.Zero(t, notifications.count())
		mock.assertMet(t)
	})

	t.Run("posts normalised grade and notifies student", func(t *testing.T) {
		cacheRepo := newMemoryCache()
		cacheRepo.entries[gpaCacheKey(studentID)] = []byte(`{"gpa":1}`)
		cache := NewCacheService(cacheRepo, nil, 0, nil, true)
		svc, enrollments, notifications, mock, _ := newGradeFixture(t, cache, approvedAssignment())
		mock.ExpectBegin()
		mock.ExpectCommit()

		enrollment, err := svc.UpdateGrade(context.Background(), teacherID, req)
		require.NoError(t, err)
		assert.Equal(t, "B+", enrollments.updatedGrade)
		require.NotNil(t, enrollment.Grade)
		assert.Equal(t, "B+", *enrollment.Grade)
		require.Equal(t, 1, notifications.count())
		assert.Equal(t, models.NotificationGradePosted, notifications.sent[0].Kind)
		assert.NotContains(t, cacheRepo.entries, gpaCacheKey(studentID))
		mock.assertMet(t)
	})
}

func TestGradeServiceUpdateGradeLogsFailedInvalidation(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cacheRepo := newMemoryCache()
	cacheRepo.deleteErr = errors.New("redis: connection refused")
	cache := NewCacheService(cacheRepo, nil, 0, nil, true)

	db, mock := newMockTx(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	svc := NewGradeService(defaultUsers(), &stubEnrollments{}, newStubAssignments(approvedAssignment()), &stubNotifications{}, db, nil, zap.New(core), GradeServiceOptions{Cache: cache, PDF: &recordingRenderer{}})

	_, err := svc.UpdateGrade(context.Background(), teacherID, dto.UpdateGradeRequest{CourseID: courseID, StudentID: studentID, Term: fallTerm, Grade: "A"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	entries := logs.FilterMessageSnippet("gpa cache invalidation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, studentID, entries[0].ContextMap()["student_id"])
}

func TestGradeServiceComputeGPAUsesCache(t *testing.T) {
	cache := NewCacheService(newMemoryCache(), nil, 0, nil, true)
	svc, enrollments, _, _, _ := newGradeFixture(t, cache)
	enrollments.credits = []models.GradedCredit{{CourseID: "c1", Credits: 3, Grade: "A"}, {CourseID: "c2", Credits: 4, Grade: "B"}}

	first, err := svc.ComputeGPA(context.Background(), studentID)
	require.NoError(t, err)
	second, err := svc.ComputeGPA(context.Background(), studentID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 3.43, second.GPA)
	assert.Equal(t, 1, enrollments.creditCalls)

	_, err = svc.ComputeGPA(context.Background(), teacherID)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestGradeServiceTranscriptPDF(t *testing.T) {
	svc, enrollments, _, _, pdf := newGradeFixture(t, nil)
	grade := "A"
	enrollments.details = []models.EnrollmentDetail{
		{Enrollment: models.Enrollment{Term: fallTerm, Grade: &grade}, CourseCode: "SCI101", CourseName: "Integrated Science", Credits: 4},
		{Enrollment: models.Enrollment{Term: "2025-SPRING"}, CourseCode: "HIS201", CourseName: "World History", Credits: 3},
	}
	enrollments.credits = []models.GradedCredit{{CourseID: "c1", Credits: 4, Grade: "A"}}

	payload, err := svc.TranscriptPDF(context.Background(), studentID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
	assert.Equal(t, "Academic Transcript", pdf.table.Title)
	require.Len(t, pdf.table.Rows, 2)
	assert.Equal(t, []string{fallTerm, "SCI101", "Integrated Science", "4", "A"}, pdf.table.Rows[0])
	assert.Equal(t, "-", pdf.table.Rows[1][4])
	assert.Contains(t, pdf.table.Caption[1], "GPA: 4.00")
}
