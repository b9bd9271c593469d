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
	"github.com/noah-isme/lms-api/internal/repository"
	"github.com/noah-isme/lms-api/pkg/database"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type teachingAssignmentRepo interface {
	List(ctx context.Context, filter models.TeachingAssignmentFilter) ([]models.TeachingAssignmentDetail, error)
	FindByID(ctx context.Context, id string) (*models.TeachingAssignment, error)
	FindByIDTx(ctx context.Context, q sqlx.QueryerContext, id string) (*models.TeachingAssignment, error)
	ExistsOpen(ctx context.Context, teacherID, courseID, term, section string) (bool, error)
	Create(ctx context.Context, assignment *models.TeachingAssignment) error
	Transition(ctx context.Context, exec sqlx.ExtContext, id string, status models.ReviewStatus, reviewerID string, at time.Time) (bool, error)
}

type notificationWriter interface {
	Create(ctx context.Context, exec sqlx.ExtContext, n *models.Notification) error
}

// TeachingAssignmentConfig tunes workflow policy.
type TeachingAssignmentConfig struct {
	// ForceAssignStatus is pending or approved; anything else means pending.
	ForceAssignStatus models.ReviewStatus
}

// TeachingAssignmentService runs the pending → approved/rejected workflow.
type TeachingAssignmentService struct {
	users         userReader
	courses       courseReader
	skills        skillReader
	assignments   teachingAssignmentRepo
	notifications notificationWriter
	tx            database.TxBeginner
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
	config        TeachingAssignmentConfig
}

// NewTeachingAssignmentService creates a service instance.
func NewTeachingAssignmentService(
	users userReader,
	courses courseReader,
	skills skillReader,
	assignments teachingAssignmentRepo,
	notifications notificationWriter,
	tx database.TxBeginner,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	config TeachingAssignmentConfig,
) *TeachingAssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ForceAssignStatus != models.StatusApproved {
		config.ForceAssignStatus = models.StatusPending
	}
	return &TeachingAssignmentService{
		users:         users,
		courses:       courses,
		skills:        skills,
		assignments:   assignments,
		notifications: notifications,
		tx:            tx,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
		config:        config,
	}
}

// List returns assignments matching filter.
func (s *TeachingAssignmentService) List(ctx context.Context, filter models.TeachingAssignmentFilter) ([]models.TeachingAssignmentDetail, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status filter")
	}
	assignments, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list assignments")
	}
	return assignments, nil
}

// Get returns a single assignment.
func (s *TeachingAssignmentService) Get(ctx context.Context, id string) (*models.TeachingAssignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, internalError(err, "failed to load assignment")
	}
	return assignment, nil
}

// Request creates a pending assignment for the calling teacher when the
// teacher's specialties cover every requirement of the course.
func (s *TeachingAssignmentService) Request(ctx context.Context, teacherID string, req dto.RequestAssignmentRequest) (*models.TeachingAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid assignment request")
	}
	teacher, err := loadUserWithRole(ctx, s.users, teacherID, models.RoleTeacher)
	if err != nil {
		return nil, err
	}
	if !teacher.Active {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "teacher account inactive")
	}
	if _, err := loadCourse(ctx, s.courses, req.CourseID); err != nil {
		return nil, err
	}

	skillIDs, err := s.skills.TeacherSpecialtyIDs(ctx, teacherID)
	if err != nil {
		return nil, internalError(err, "failed to load teacher specialties")
	}
	requiredIDs, err := s.skills.CourseRequirementIDs(ctx, req.CourseID)
	if err != nil {
		return nil, internalError(err, "failed to load course requirements")
	}
	teacherSkills, required := NewSkillSet(skillIDs), NewSkillSet(requiredIDs)
	if !IsEligible(teacherSkills, required) {
		missing := MissingSkills(teacherSkills, required)
		s.logger.Info("assignment request rejected: not eligible",
			zap.String("teacher_id", teacherID),
			zap.String("course_id", req.CourseID),
			zap.Strings("missing_specialty_ids", missing),
		)
		return nil, appErrors.ErrEligibility.WithDetails(EligibilityDetail{MissingSpecialtyIDs: missing})
	}

	if err := s.ensureNotDuplicate(ctx, teacherID, req.CourseID, req.Term, req.Section); err != nil {
		return nil, err
	}

	assignment := &models.TeachingAssignment{
		TeacherID: teacherID,
		CourseID:  req.CourseID,
		Term:      req.Term,
		Section:   req.Section,
		Status:    models.StatusPending,
	}
	if err := s.createAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	s.metrics.RecordWorkflowTransition("assignment", string(models.StatusPending))
	return assignment, nil
}

// ForceAssign creates an assignment on behalf of a teacher without checking
// eligibility. The resulting status follows the configured policy.
func (s *TeachingAssignmentService) ForceAssign(ctx context.Context, adminID string, req dto.ForceAssignRequest) (*models.TeachingAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid force-assign payload")
	}
	if _, err := loadUserWithRole(ctx, s.users, req.TeacherID, models.RoleTeacher); err != nil {
		return nil, err
	}
	if _, err := loadCourse(ctx, s.courses, req.CourseID); err != nil {
		return nil, err
	}
	if err := s.ensureNotDuplicate(ctx, req.TeacherID, req.CourseID, req.Term, req.Section); err != nil {
		return nil, err
	}

	assignment := &models.TeachingAssignment{
		TeacherID: req.TeacherID,
		CourseID:  req.CourseID,
		Term:      req.Term,
		Section:   req.Section,
		Status:    s.config.ForceAssignStatus,
		Forced:    true,
	}
	if assignment.Status == models.StatusApproved {
		now := time.Now().UTC()
		reviewer := adminID
		assignment.ReviewedAt = &now
		assignment.ReviewedBy = &reviewer
	}
	if err := s.createAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	s.logger.Info("assignment force-created",
		zap.String("assignment_id", assignment.ID),
		zap.String("admin_id", adminID),
		zap.String("status", string(assignment.Status)),
	)
	s.metrics.RecordWorkflowTransition("assignment", string(assignment.Status))
	return assignment, nil
}

// Approve moves a pending assignment to approved.
func (s *TeachingAssignmentService) Approve(ctx context.Context, id, adminID string) (*models.TeachingAssignment, error) {
	return s.review(ctx, id, adminID, models.StatusApproved)
}

// Reject moves a pending assignment to rejected.
func (s *TeachingAssignmentService) Reject(ctx context.Context, id, adminID string) (*models.TeachingAssignment, error) {
	return s.review(ctx, id, adminID, models.StatusRejected)
}

func (s *TeachingAssignmentService) review(ctx context.Context, id, adminID string, status models.ReviewStatus) (*models.TeachingAssignment, error) {
	var updated *models.TeachingAssignment
	err := database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		ok, err := s.assignments.Transition(ctx, tx, id, status, adminID, time.Now().UTC())
		if err != nil {
			return err
		}
		current, err := s.assignments.FindByIDTx(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
			}
			return err
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("assignment already %s", current.Status))
		}
		updated = current
		return s.notifications.Create(ctx, tx, &models.Notification{
			UserID:  current.TeacherID,
			Kind:    models.NotificationAssignmentReviewed,
			Message: fmt.Sprintf("Your teaching request for term %s section %s was %s", current.Term, current.Section, status),
		})
	})
	if err != nil {
		if appErrors.Is(err, appErrors.ErrTransaction) {
			s.logger.Error("assignment review failed", zap.String("assignment_id", id), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("assignment reviewed",
		zap.String("assignment_id", id),
		zap.String("admin_id", adminID),
		zap.String("status", string(status)),
	)
	s.metrics.RecordWorkflowTransition("assignment", string(status))
	return updated, nil
}

func (s *TeachingAssignmentService) ensureNotDuplicate(ctx context.Context, teacherID, courseID, term, section string) error {
	exists, err := s.assignments.ExistsOpen(ctx, teacherID, courseID, term, section)
	if err != nil {
		return internalError(err, "failed to check assignment uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "teacher already holds this section")
	}
	return nil
}

// createAssignment relies on the partial unique index over open assignments
// to settle requests that race past ensureNotDuplicate.
func (s *TeachingAssignmentService) createAssignment(ctx context.Context, assignment *models.TeachingAssignment) error {
	if err := s.assignments.Create(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return appErrors.Clone(appErrors.ErrConflict, "teacher already holds this section")
		}
		return internalError(err, "failed to create assignment")
	}
	return nil
}

// EligibilityDetail lists the specialties a teacher is missing for a course.
type EligibilityDetail struct {
	MissingSpecialtyIDs []string `json:"missing_specialty_ids"`
}
