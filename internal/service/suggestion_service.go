package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/pkg/database"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type suggestionRepo interface {
	List(ctx context.Context, filter models.SuggestionFilter) ([]models.Suggestion, error)
	FindByID(ctx context.Context, id string) (*models.Suggestion, error)
	FindByIDTx(ctx context.Context, q sqlx.QueryerContext, id string) (*models.Suggestion, error)
	Create(ctx context.Context, suggestion *models.Suggestion) error
	Review(ctx context.Context, exec sqlx.ExtContext, id string, status models.ReviewStatus, response *string, reviewerID string, at time.Time) (bool, error)
}

// SuggestionService handles teacher suggestions and their review.
type SuggestionService struct {
	users         userReader
	courses       courseReader
	suggestions   suggestionRepo
	notifications notificationWriter
	tx            database.TxBeginner
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewSuggestionService constructs the service.
func NewSuggestionService(
	users userReader,
	courses courseReader,
	suggestions suggestionRepo,
	notifications notificationWriter,
	tx database.TxBeginner,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *SuggestionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{
		users:         users,
		courses:       courses,
		suggestions:   suggestions,
		notifications: notifications,
		tx:            tx,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
	}
}

// Submit records a pending suggestion from a teacher.
func (s *SuggestionService) Submit(ctx context.Context, teacherID string, req dto.SubmitSuggestionRequest) (*models.Suggestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid suggestion payload")
	}
	if _, err := loadUserWithRole(ctx, s.users, teacherID, models.RoleTeacher); err != nil {
		return nil, err
	}
	if _, err := loadCourse(ctx, s.courses, req.CourseID); err != nil {
		return nil, err
	}
	suggestion := &models.Suggestion{
		TeacherID:      teacherID,
		CourseID:       req.CourseID,
		SuggestionText: req.SuggestionText,
		Status:         models.StatusPending,
	}
	if err := s.suggestions.Create(ctx, suggestion); err != nil {
		return nil, internalError(err, "failed to create suggestion")
	}
	s.metrics.RecordWorkflowTransition("suggestion", string(models.StatusPending))
	return suggestion, nil
}

// Get returns a suggestion by id.
func (s *SuggestionService) Get(ctx context.Context, id string) (*models.Suggestion, error) {
	suggestion, err := s.suggestions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "suggestion not found")
		}
		return nil, internalError(err, "failed to load suggestion")
	}
	return suggestion, nil
}

// List returns suggestions matching filter.
func (s *SuggestionService) List(ctx context.Context, filter models.SuggestionFilter) ([]models.Suggestion, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status filter")
	}
	suggestions, err := s.suggestions.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list suggestions")
	}
	return suggestions, nil
}

// Approve accepts a pending suggestion.
func (s *SuggestionService) Approve(ctx context.Context, id, adminID string, req dto.ReviewRequest) (*models.Suggestion, error) {
	return s.review(ctx, id, adminID, models.StatusApproved, req)
}

// Reject declines a pending suggestion.
func (s *SuggestionService) Reject(ctx context.Context, id, adminID string, req dto.ReviewRequest) (*models.Suggestion, error) {
	return s.review(ctx, id, adminID, models.StatusRejected, req)
}

func (s *SuggestionService) review(ctx context.Context, id, adminID string, status models.ReviewStatus, req dto.ReviewRequest) (*models.Suggestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid review payload")
	}
	var reviewed *models.Suggestion
	err := database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		ok, err := s.suggestions.Review(ctx, tx, id, status, req.AdminResponse, adminID, time.Now().UTC())
		if err != nil {
			return err
		}
		current, err := s.suggestions.FindByIDTx(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "suggestion not found")
			}
			return err
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("suggestion already %s", current.Status))
		}
		reviewed = current
		message := fmt.Sprintf("Your suggestion was %s", status)
		if req.AdminResponse != nil && *req.AdminResponse != "" {
			message += ": " + *req.AdminResponse
		}
		return s.notifications.Create(ctx, tx, &models.Notification{
			UserID:  current.TeacherID,
			Kind:    models.NotificationSuggestionReviewed,
			Message: message,
		})
	})
	if err != nil {
		if appErrors.Is(err, appErrors.ErrTransaction) {
			s.logger.Error("suggestion review failed", zap.String("suggestion_id", id), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("suggestion reviewed",
		zap.String("suggestion_id", id),
		zap.String("admin_id", adminID),
		zap.String("status", string(status)),
	)
	s.metrics.RecordWorkflowTransition("suggestion", string(status))
	return reviewed, nil
}
