package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type enrollmentServiceMock struct {
	authorizeErr  error
	authorized    []string
	rosterCourse  string
	rosterTerm    string
	rosterFetched bool
}

func (m *enrollmentServiceMock) Enroll(ctx context.Context, studentID string, req dto.EnrollRequest) (*models.Enrollment, error) {
	return &models.Enrollment{StudentID: studentID, CourseID: req.CourseID, Term: req.Term}, nil
}

func (m *enrollmentServiceMock) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	return []models.EnrollmentDetail{}, nil
}

func (m *enrollmentServiceMock) ListByCourse(ctx context.Context, courseID, term string) ([]models.EnrollmentDetail, error) {
	m.rosterFetched = true
	m.rosterCourse, m.rosterTerm = courseID, term
	return []models.EnrollmentDetail{}, nil
}

func (m *enrollmentServiceMock) RosterCSV(ctx context.Context, courseID, term string) ([]byte, error) {
	m.rosterFetched = true
	return []byte("student_id,student_name,term,grade,enrollment_date\n"), nil
}

func (m *enrollmentServiceMock) AuthorizeRoster(ctx context.Context, teacherID, courseID, term string) error {
	m.authorized = append(m.authorized, teacherID)
	return m.authorizeErr
}

func rosterContext(claims *models.JWTClaims, query string) (*gin.Context, *httptest.ResponseRecorder) {
	c, w := newTestContext(http.MethodGet, "/courses/"+courseUUID+"/roster"+query, nil, claims)
	c.Params = gin.Params{{Key: "id", Value: courseUUID}}
	return c, w
}

func TestEnrollmentHandlerRosterTeacherWithoutAssignment(t *testing.T) {
	mockSvc := &enrollmentServiceMock{authorizeErr: appErrors.Clone(appErrors.ErrForbidden, "teacher is not assigned to this course for the term")}
	handler := NewEnrollmentHandler(mockSvc)

	c, w := rosterContext(&models.JWTClaims{UserID: teacherUUID, Role: models.RoleTeacher}, "?term=2024-FALL")
	handler.Roster(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, []string{teacherUUID}, mockSvc.authorized)
	assert.False(t, mockSvc.rosterFetched)
}

func TestEnrollmentHandlerRosterAssignedTeacherCSV(t *testing.T) {
	mockSvc := &enrollmentServiceMock{}
	handler := NewEnrollmentHandler(mockSvc)

	c, w := rosterContext(&models.JWTClaims{UserID: teacherUUID, Role: models.RoleTeacher}, "?term=2024-FALL&format=csv")
	handler.Roster(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.True(t, mockSvc.rosterFetched)
}

func TestEnrollmentHandlerRosterAdminSkipsAssignmentCheck(t *testing.T) {
	mockSvc := &enrollmentServiceMock{authorizeErr: appErrors.ErrForbidden}
	handler := NewEnrollmentHandler(mockSvc)

	c, w := rosterContext(&models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}, "")
	handler.Roster(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, mockSvc.authorized)
	assert.Equal(t, courseUUID, mockSvc.rosterCourse)
	assert.Empty(t, mockSvc.rosterTerm)
}

func TestEnrollmentHandlerListByStudentValidatesID(t *testing.T) {
	handler := NewEnrollmentHandler(&enrollmentServiceMock{})

	c, w := newTestContext(http.MethodGet, "/students/42/enrollments", nil, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	handler.ListByStudent(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
