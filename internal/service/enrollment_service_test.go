package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

func TestEnrollmentServiceEnroll(t *testing.T) {
	repo := &stubEnrollments{}
	svc := NewEnrollmentService(repo, defaultUsers(), defaultCourses(), newStubAssignments(), nil, nil)

	enrollment, err := svc.Enroll(context.Background(), studentID, dto.EnrollRequest{CourseID: courseID, Term: " " + fallTerm + " "})
	require.NoError(t, err)
	assert.Equal(t, fallTerm, enrollment.Term)
	assert.Nil(t, enrollment.Grade)
	require.Len(t, repo.created, 1)

	repo.exists = true
	_, err = svc.Enroll(context.Background(), studentID, dto.EnrollRequest{CourseID: courseID, Term: fallTerm})
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))

	_, err = svc.Enroll(context.Background(), teacherID, dto.EnrollRequest{CourseID: courseID, Term: fallTerm})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestEnrollmentServiceRosterCSV(t *testing.T) {
	grade := "B+"
	enrolled := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	repo := &stubEnrollments{details: []models.EnrollmentDetail{
		{Enrollment: models.Enrollment{StudentID: studentID, Term: fallTerm, Grade: &grade, EnrollmentDate: enrolled}, StudentName: "Sam Student"},
		{Enrollment: models.Enrollment{StudentID: "s2", Term: fallTerm, EnrollmentDate: enrolled}, StudentName: "Lee, Jordan"},
	}}
	svc := NewEnrollmentService(repo, defaultUsers(), defaultCourses(), newStubAssignments(), nil, nil)

	payload, err := svc.RosterCSV(context.Background(), courseID, fallTerm)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "student_id,student_name,term,grade,enrollment_date", lines[0])
	assert.Equal(t, studentID+",Sam Student,"+fallTerm+",B+,2024-09-02", lines[1])
	assert.Equal(t, `s2,"Lee, Jordan",`+fallTerm+",,2024-09-02", lines[2])

	_, err = svc.RosterCSV(context.Background(), unknownID, "")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestEnrollmentServiceAuthorizeRoster(t *testing.T) {
	svc := NewEnrollmentService(&stubEnrollments{}, defaultUsers(), defaultCourses(), newStubAssignments(approvedAssignment(), pendingAssignment("a2")), nil, nil)
	ctx := context.Background()

	assert.NoError(t, svc.AuthorizeRoster(ctx, teacherID, courseID, " "+fallTerm+" "))

	err := svc.AuthorizeRoster(ctx, teacherID, courseID, "")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	err = svc.AuthorizeRoster(ctx, teacherID, courseID, "2025-SPRING")
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	err = svc.AuthorizeRoster(ctx, "another-teacher", courseID, fallTerm)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}
