package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/pkg/database"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/export"
)

type gradeEnrollmentRepo interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
	GradedCredits(ctx context.Context, studentID string) ([]models.GradedCredit, error)
	UpdateGrade(ctx context.Context, exec sqlx.ExtContext, courseID, studentID, term, grade string) (*models.Enrollment, error)
}

type approvalChecker interface {
	HasApproved(ctx context.Context, teacherID, courseID, term string) (bool, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// GradeService records letter grades and aggregates them into GPA summaries.
type GradeService struct {
	users         userReader
	enrollments   gradeEnrollmentRepo
	assignments   approvalChecker
	notifications notificationWriter
	tx            database.TxBeginner
	cache         *CacheService
	cacheTTL      time.Duration
	pdf           tableRenderer
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
}

// GradeServiceOptions carries the optional collaborators of GradeService.
type GradeServiceOptions struct {
	Cache    *CacheService
	CacheTTL time.Duration
	PDF      tableRenderer
	Metrics  *MetricsService
}

// NewGradeService constructs the grade service.
func NewGradeService(
	users userReader,
	enrollments gradeEnrollmentRepo,
	assignments approvalChecker,
	notifications notificationWriter,
	tx database.TxBeginner,
	validate *validator.Validate,
	logger *zap.Logger,
	opts GradeServiceOptions,
) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PDF == nil {
		opts.PDF = export.NewPDFExporter()
	}
	return &GradeService{
		users:         users,
		enrollments:   enrollments,
		assignments:   assignments,
		notifications: notifications,
		tx:            tx,
		cache:         opts.Cache,
		cacheTTL:      opts.CacheTTL,
		pdf:           opts.PDF,
		metrics:       opts.Metrics,
		validator:     validate,
		logger:        logger,
	}
}

// UpdateGrade writes a grade for an enrollment. The teacher must hold an
// approved assignment for the course in that term.
func (s *GradeService) UpdateGrade(ctx context.Context, teacherID string, req dto.UpdateGradeRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid grade payload")
	}
	grade, err := models.ParseLetterGrade(req.Grade)
	if err != nil {
		return nil, validationError(err, err.Error())
	}

	approved, err := s.assignments.HasApproved(ctx, teacherID, req.CourseID, req.Term)
	if err != nil {
		return nil, internalError(err, "failed to verify assignment")
	}
	if !approved {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "teacher is not assigned to this course for the term")
	}

	var updated *models.Enrollment
	err = database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		enrollment, err := s.enrollments.UpdateGrade(ctx, tx, req.CourseID, req.StudentID, req.Term, string(grade))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
			}
			return err
		}
		updated = enrollment
		return s.notifications.Create(ctx, tx, &models.Notification{
			UserID:  req.StudentID,
			Kind:    models.NotificationGradePosted,
			Message: fmt.Sprintf("A grade of %s was posted for term %s", grade, req.Term),
		})
	})
	if err != nil {
		if appErrors.Is(err, appErrors.ErrTransaction) {
			s.logger.Error("grade update failed", zap.String("student_id", req.StudentID), zap.Error(err))
		}
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, gpaCacheKey(req.StudentID)); err != nil {
		s.logger.Warn("gpa cache invalidation failed, cached summary may be stale until ttl",
			zap.String("student_id", req.StudentID),
			zap.Error(err),
		)
	}
	s.logger.Info("grade posted",
		zap.String("enrollment_id", updated.ID),
		zap.String("teacher_id", teacherID),
		zap.String("grade", string(grade)),
	)
	return updated, nil
}

// ComputeGPA returns the credit-weighted GPA over the student's graded enrollments.
func (s *GradeService) ComputeGPA(ctx context.Context, studentID string) (*models.GPASummary, error) {
	if _, err := loadUserWithRole(ctx, s.users, studentID, models.RoleStudent); err != nil {
		return nil, err
	}

	key := gpaCacheKey(studentID)
	var cached models.GPASummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	credits, err := s.enrollments.GradedCredits(ctx, studentID)
	if err != nil {
		return nil, internalError(err, "failed to load graded enrollments")
	}
	summary := CalculateGPA(studentID, credits, func(c models.GradedCredit) {
		s.logger.Warn("skipping unrecognised stored grade",
			zap.String("student_id", studentID),
			zap.String("course_id", c.CourseID),
			zap.String("grade", c.Grade),
		)
	})
	s.metrics.RecordGPAComputation()
	_ = s.cache.Set(ctx, key, summary, s.cacheTTL)
	return &summary, nil
}

// Transcript lists every enrollment of the student alongside the GPA summary.
func (s *GradeService) Transcript(ctx context.Context, studentID string) (*models.Transcript, error) {
	student, err := loadUserWithRole(ctx, s.users, studentID, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, internalError(err, "failed to load enrollments")
	}
	summary, err := s.ComputeGPA(ctx, studentID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.TranscriptLine, 0, len(enrollments))
	for _, e := range enrollments {
		line := models.TranscriptLine{
			CourseCode: e.CourseCode,
			CourseName: e.CourseName,
			Term:       e.Term,
			Credits:    e.Credits,
			Grade:      e.Grade,
		}
		if e.Grade != nil {
			if points, ok := models.LetterGrade(*e.Grade).Points(); ok {
				line.Points = &points
			}
		}
		lines = append(lines, line)
	}
	return &models.Transcript{
		StudentID:   studentID,
		StudentName: student.FullName,
		Lines:       lines,
		Summary:     *summary,
	}, nil
}

// TranscriptPDF renders the transcript as a PDF document.
func (s *GradeService) TranscriptPDF(ctx context.Context, studentID string) ([]byte, error) {
	transcript, err := s.Transcript(ctx, studentID)
	if err != nil {
		return nil, err
	}
	table := export.Table{
		Title: "Academic Transcript",
		Caption: []string{
			"Student: " + transcript.StudentName,
			fmt.Sprintf("GPA: %.2f  Credits: %d  Courses graded: %d",
				transcript.Summary.GPA, transcript.Summary.TotalCredits, transcript.Summary.CoursesCount),
		},
		Headers: []string{"Term", "Code", "Course", "Credits", "Grade"},
	}
	for _, line := range transcript.Lines {
		grade := "-"
		if line.Grade != nil {
			grade = *line.Grade
		}
		table.Rows = append(table.Rows, []string{line.Term, line.CourseCode, line.CourseName, strconv.Itoa(line.Credits), grade})
	}
	payload, err := s.pdf.Render(table)
	if err != nil {
		return nil, internalError(err, "failed to render transcript")
	}
	return payload, nil
}

// CalculateGPA computes Σ(points × credits) / Σ credits over graded enrollments,
// rounded to two decimals. Grades outside the accepted set are skipped and
// reported through onSkip when it is non-nil.
func CalculateGPA(studentID string, credits []models.GradedCredit, onSkip func(models.GradedCredit)) models.GPASummary {
	summary := models.GPASummary{StudentID: studentID}
	var weighted float64
	for _, c := range credits {
		grade, err := models.ParseLetterGrade(c.Grade)
		if err != nil {
			if onSkip != nil {
				onSkip(c)
			}
			continue
		}
		points, _ := grade.Points()
		weighted += points * float64(c.Credits)
		summary.TotalCredits += c.Credits
		summary.CoursesCount++
	}
	if summary.TotalCredits > 0 {
		summary.GPA = math.Round(weighted/float64(summary.TotalCredits)*100) / 100
	}
	return summary
}

func gpaCacheKey(studentID string) string {
	return "gpa:" + studentID
}
