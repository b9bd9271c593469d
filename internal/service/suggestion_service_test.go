package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type stubSuggestions struct {
	mu      sync.Mutex
	records map[string]*models.Suggestion
}

func (s *stubSuggestions) List(ctx context.Context, filter models.SuggestionFilter) ([]models.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Suggestion
	for _, r := range s.records {
		if filter.Status == "" || r.Status == filter.Status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *stubSuggestions) FindByID(ctx context.Context, id string) (*models.Suggestion, error) {
	return s.FindByIDTx(ctx, nil, id)
}

func (s *stubSuggestions) FindByIDTx(ctx context.Context, q sqlx.QueryerContext, id string) (*models.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *r
	return &copied, nil
}

func (s *stubSuggestions) Create(ctx context.Context, suggestion *models.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	suggestion.ID = "suggestion-new"
	copied := *suggestion
	s.records[suggestion.ID] = &copied
	return nil
}

func (s *stubSuggestions) Review(ctx context.Context, exec sqlx.ExtContext, id string, status models.ReviewStatus, response *string, reviewerID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok || r.Status != models.StatusPending {
		return false, nil
	}
	r.Status = status
	r.AdminResponse = response
	r.ReviewedAt = &at
	r.ReviewedBy = &reviewerID
	return true, nil
}

func newSuggestionFixture(t *testing.T) (*SuggestionService, *stubSuggestions, *stubNotifications, *mockHandle) {
	t.Helper()
	db, mock := newMockTx(t)
	repo := &stubSuggestions{records: map[string]*models.Suggestion{
		"s1": {ID: "s1", TeacherID: teacherID, CourseID: courseID, SuggestionText: "Add a lab session", Status: models.StatusPending},
	}}
	notifications := &stubNotifications{}
	svc := NewSuggestionService(defaultUsers(), defaultCourses(), repo, notifications, db, nil, nil, nil)
	return svc, repo, notifications, &mockHandle{mock}
}

func TestSuggestionServiceSubmit(t *testing.T) {
	svc, _, _, _ := newSuggestionFixture(t)

	suggestion, err := svc.Submit(context.Background(), teacherID, dto.SubmitSuggestionRequest{CourseID: courseID, SuggestionText: "More problem sets"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, suggestion.Status)
	assert.Equal(t, teacherID, suggestion.TeacherID)

	_, err = svc.Submit(context.Background(), teacherID, dto.SubmitSuggestionRequest{CourseID: courseID})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Submit(context.Background(), teacherID, dto.SubmitSuggestionRequest{CourseID: unknownID, SuggestionText: "x"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestSuggestionServiceReviewOnce(t *testing.T) {
	svc, _, notifications, mock := newSuggestionFixture(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	response := "Scheduled for next term"
	approved, err := svc.Approve(context.Background(), "s1", adminID, dto.ReviewRequest{AdminResponse: &response})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	require.NotNil(t, approved.AdminResponse)
	assert.Equal(t, response, *approved.AdminResponse)
	require.Equal(t, 1, notifications.count())
	assert.Equal(t, "Your suggestion was approved: Scheduled for next term", notifications.sent[0].Message)

	_, err = svc.Reject(context.Background(), "s1", adminID, dto.ReviewRequest{})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidState))
	assert.Contains(t, err.Error(), "already approved")
	mock.assertMet(t)
}

func TestSuggestionServiceRejectWithoutResponse(t *testing.T) {
	svc, _, notifications, mock := newSuggestionFixture(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rejected, err := svc.Reject(context.Background(), "s1", adminID, dto.ReviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.AdminResponse)
	assert.Equal(t, "Your suggestion was rejected", notifications.sent[0].Message)
	mock.assertMet(t)
}

func TestSuggestionServiceGetAndList(t *testing.T) {
	svc, _, _, _ := newSuggestionFixture(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	list, err := svc.List(context.Background(), models.SuggestionFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(context.Background(), models.SuggestionFilter{Status: "done"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
