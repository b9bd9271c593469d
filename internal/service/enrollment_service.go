package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/internal/repository"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/export"
)

type enrollmentRepository interface {
	Exists(ctx context.Context, studentID, courseID, term string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
	ListByCourse(ctx context.Context, courseID, term string) ([]models.EnrollmentDetail, error)
}

// EnrollmentService orchestrates enrollment workflows.
type EnrollmentService struct {
	repo        enrollmentRepository
	users       userReader
	courses     courseReader
	assignments approvalChecker
	csv         tableRenderer
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, users userReader, courses courseReader, assignments approvalChecker, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:        repo,
		users:       users,
		courses:     courses,
		assignments: assignments,
		csv:         export.NewCSVExporter(),
		validator:   validate,
		logger:      logger,
	}
}

// Enroll registers the student in a course for a term.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID string, req dto.EnrollRequest) (*models.Enrollment, error) {
	req.Term = strings.TrimSpace(req.Term)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}
	if _, err := loadUserWithRole(ctx, s.users, studentID, models.RoleStudent); err != nil {
		return nil, err
	}
	if _, err := loadCourse(ctx, s.courses, req.CourseID); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, studentID, req.CourseID, req.Term)
	if err != nil {
		return nil, internalError(err, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in this course for the term")
	}

	enrollment := &models.Enrollment{StudentID: studentID, CourseID: req.CourseID, Term: req.Term}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in this course for the term")
		}
		return nil, internalError(err, "failed to create enrollment")
	}
	s.logger.Info("student enrolled",
		zap.String("student_id", studentID),
		zap.String("course_id", req.CourseID),
		zap.String("term", req.Term),
	)
	return enrollment, nil
}

// ListByStudent returns every enrollment of a student.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	if _, err := loadUserWithRole(ctx, s.users, studentID, models.RoleStudent); err != nil {
		return nil, err
	}
	enrollments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, internalError(err, "failed to list enrollments")
	}
	return enrollments, nil
}

// AuthorizeRoster allows a teacher to read a course roster only for a term in
// which they hold an approved assignment for that course.
func (s *EnrollmentService) AuthorizeRoster(ctx context.Context, teacherID, courseID, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return appErrors.Clone(appErrors.ErrValidation, "term is required")
	}
	approved, err := s.assignments.HasApproved(ctx, teacherID, courseID, term)
	if err != nil {
		return internalError(err, "failed to verify assignment")
	}
	if !approved {
		return appErrors.Clone(appErrors.ErrForbidden, "teacher is not assigned to this course for the term")
	}
	return nil
}

// ListByCourse returns the roster of a course, narrowed to term when set.
func (s *EnrollmentService) ListByCourse(ctx context.Context, courseID, term string) ([]models.EnrollmentDetail, error) {
	if _, err := loadCourse(ctx, s.courses, courseID); err != nil {
		return nil, err
	}
	roster, err := s.repo.ListByCourse(ctx, courseID, strings.TrimSpace(term))
	if err != nil {
		return nil, internalError(err, "failed to list roster")
	}
	return roster, nil
}

// RosterCSV renders the roster of a course as CSV.
func (s *EnrollmentService) RosterCSV(ctx context.Context, courseID, term string) ([]byte, error) {
	roster, err := s.ListByCourse(ctx, courseID, term)
	if err != nil {
		return nil, err
	}
	table := export.Table{Headers: []string{"student_id", "student_name", "term", "grade", "enrollment_date"}}
	for _, e := range roster {
		grade := ""
		if e.Grade != nil {
			grade = *e.Grade
		}
		table.Rows = append(table.Rows, []string{e.StudentID, e.StudentName, e.Term, grade, e.EnrollmentDate.Format("2006-01-02")})
	}
	payload, err := s.csv.Render(table)
	if err != nil {
		return nil, internalError(err, "failed to render roster")
	}
	return payload, nil
}
