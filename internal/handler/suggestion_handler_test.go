package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type suggestionServiceMock struct {
	stored      *models.Suggestion
	reviewErr   error
	lastFilter  models.SuggestionFilter
	lastTeacher string
	lastAdmin   string
	lastReview  dto.ReviewRequest
}

func (m *suggestionServiceMock) Submit(ctx context.Context, teacherID string, req dto.SubmitSuggestionRequest) (*models.Suggestion, error) {
	m.lastTeacher = teacherID
	return &models.Suggestion{ID: "s-1", TeacherID: teacherID, CourseID: req.CourseID, SuggestionText: req.SuggestionText, Status: models.StatusPending}, nil
}

func (m *suggestionServiceMock) Get(ctx context.Context, id string) (*models.Suggestion, error) {
	if m.stored == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "suggestion not found")
	}
	return m.stored, nil
}

func (m *suggestionServiceMock) List(ctx context.Context, filter models.SuggestionFilter) ([]models.Suggestion, error) {
	m.lastFilter = filter
	return []models.Suggestion{}, nil
}

func (m *suggestionServiceMock) Approve(ctx context.Context, id, adminID string, req dto.ReviewRequest) (*models.Suggestion, error) {
	return m.review(id, adminID, req, models.StatusApproved)
}

func (m *suggestionServiceMock) Reject(ctx context.Context, id, adminID string, req dto.ReviewRequest) (*models.Suggestion, error) {
	return m.review(id, adminID, req, models.StatusRejected)
}

func (m *suggestionServiceMock) review(id, adminID string, req dto.ReviewRequest, status models.ReviewStatus) (*models.Suggestion, error) {
	m.lastAdmin = adminID
	m.lastReview = req
	if m.reviewErr != nil {
		return nil, m.reviewErr
	}
	return &models.Suggestion{ID: id, Status: status, AdminResponse: req.AdminResponse}, nil
}

func TestSuggestionHandlerSubmitUsesCaller(t *testing.T) {
	mockSvc := &suggestionServiceMock{}
	handler := NewSuggestionHandler(mockSvc)

	payload, _ := json.Marshal(dto.SubmitSuggestionRequest{CourseID: "c-1", SuggestionText: "Add a lab session"})
	c, w := newTestContext(http.MethodPost, "/suggestions", payload,
		&models.JWTClaims{UserID: "teacher-1", Role: models.RoleTeacher})
	handler.Submit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "teacher-1", mockSvc.lastTeacher)
}

func TestSuggestionHandlerListScopesTeacher(t *testing.T) {
	mockSvc := &suggestionServiceMock{}
	handler := NewSuggestionHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/suggestions?teacher_id="+otherTeacherUUID+"&status=approved", nil,
		&models.JWTClaims{UserID: "teacher-1", Role: models.RoleTeacher})
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "teacher-1", mockSvc.lastFilter.TeacherID)
	assert.Equal(t, models.StatusApproved, mockSvc.lastFilter.Status)
}

func TestSuggestionHandlerGetHidesOtherTeachers(t *testing.T) {
	handler := NewSuggestionHandler(&suggestionServiceMock{stored: &models.Suggestion{ID: "s-1", TeacherID: "teacher-2"}})

	c, w := newTestContext(http.MethodGet, "/suggestions/s-1", nil,
		&models.JWTClaims{UserID: "teacher-1", Role: models.RoleTeacher})
	c.Params = gin.Params{{Key: "id", Value: suggestionUUID}}
	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSuggestionHandlerApproveWithResponse(t *testing.T) {
	mockSvc := &suggestionServiceMock{}
	handler := NewSuggestionHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/suggestions/s-1/approve", []byte(`{"admin_response":"Next term"}`),
		&models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	c.Params = gin.Params{{Key: "id", Value: suggestionUUID}}
	handler.Approve(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-1", mockSvc.lastAdmin)
	require.NotNil(t, mockSvc.lastReview.AdminResponse)
	assert.Equal(t, "Next term", *mockSvc.lastReview.AdminResponse)
}

func TestSuggestionHandlerRejectWithoutBody(t *testing.T) {
	mockSvc := &suggestionServiceMock{}
	handler := NewSuggestionHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/suggestions/s-1/reject", nil,
		&models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	c.Params = gin.Params{{Key: "id", Value: suggestionUUID}}
	handler.Reject(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, mockSvc.lastReview.AdminResponse)
}

func TestSuggestionHandlerReviewInvalidState(t *testing.T) {
	mockSvc := &suggestionServiceMock{reviewErr: appErrors.Clone(appErrors.ErrInvalidState, "suggestion already approved")}
	handler := NewSuggestionHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/suggestions/s-1/reject", nil,
		&models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	c.Params = gin.Params{{Key: "id", Value: suggestionUUID}}
	handler.Reject(c)

	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_STATE", body.Error.Code)
}
