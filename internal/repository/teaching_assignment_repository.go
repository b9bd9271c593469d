package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

// TeachingAssignmentRepository persists teaching assignments.
type TeachingAssignmentRepository struct {
	db *sqlx.DB
}

// NewTeachingAssignmentRepository constructs the repository.
func NewTeachingAssignmentRepository(db *sqlx.DB) *TeachingAssignmentRepository {
	return &TeachingAssignmentRepository{db: db}
}

const assignmentDetailSelect = `SELECT ta.id, ta.teacher_id, ta.course_id, ta.term, ta.section, ta.status, ta.forced,
       ta.assigned_date, ta.reviewed_at, ta.reviewed_by,
       c.code AS course_code, c.name AS course_name, u.full_name AS teacher_name
FROM teaching_assignments ta
JOIN courses c ON c.id = ta.course_id
JOIN users u ON u.id = ta.teacher_id`

// List returns assignments matching filter, newest first.
func (r *TeachingAssignmentRepository) List(ctx context.Context, filter models.TeachingAssignmentFilter) ([]models.TeachingAssignmentDetail, error) {
	var conditions []string
	var args []interface{}
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("ta.teacher_id = $%d", len(args)))
	}
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		conditions = append(conditions, fmt.Sprintf("ta.course_id = $%d", len(args)))
	}
	if filter.Term != "" {
		args = append(args, filter.Term)
		conditions = append(conditions, fmt.Sprintf("ta.term = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("ta.status = $%d", len(args)))
	}
	query := assignmentDetailSelect
	if len(conditions) > 0 {
		query += "\nWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\nORDER BY ta.assigned_date DESC"

	var assignments []models.TeachingAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list teaching assignments: %w", err)
	}
	return assignments, nil
}

// FindByID returns a single assignment.
func (r *TeachingAssignmentRepository) FindByID(ctx context.Context, id string) (*models.TeachingAssignment, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

// FindByIDTx reads an assignment through q, typically an open transaction.
func (r *TeachingAssignmentRepository) FindByIDTx(ctx context.Context, q sqlx.QueryerContext, id string) (*models.TeachingAssignment, error) {
	const query = `SELECT id, teacher_id, course_id, term, section, status, forced, assigned_date, reviewed_at, reviewed_by
FROM teaching_assignments WHERE id = $1`
	var assignment models.TeachingAssignment
	if err := sqlx.GetContext(ctx, q, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teaching assignment: %w", err)
	}
	return &assignment, nil
}

// ExistsOpen checks for a pending or approved assignment on the same teacher/course/term/section.
func (r *TeachingAssignmentRepository) ExistsOpen(ctx context.Context, teacherID, courseID, term, section string) (bool, error) {
	const query = `SELECT 1 FROM teaching_assignments
WHERE teacher_id = $1 AND course_id = $2 AND term = $3 AND section = $4 AND status IN ('pending', 'approved') LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID, courseID, term, section); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teaching assignment: %w", err)
	}
	return true, nil
}

// HasApproved reports whether teacher holds an approved assignment for course in term.
func (r *TeachingAssignmentRepository) HasApproved(ctx context.Context, teacherID, courseID, term string) (bool, error) {
	const query = `SELECT 1 FROM teaching_assignments
WHERE teacher_id = $1 AND course_id = $2 AND term = $3 AND status = 'approved' LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID, courseID, term); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check approved assignment: %w", err)
	}
	return true, nil
}

// Create inserts a new assignment.
func (r *TeachingAssignmentRepository) Create(ctx context.Context, assignment *models.TeachingAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.AssignedDate.IsZero() {
		assignment.AssignedDate = time.Now().UTC()
	}
	if assignment.Status == "" {
		assignment.Status = models.StatusPending
	}
	const query = `INSERT INTO teaching_assignments (id, teacher_id, course_id, term, section, status, forced, assigned_date, reviewed_at, reviewed_by)
		VALUES (:id, :teacher_id, :course_id, :term, :section, :status, :forced, :assigned_date, :reviewed_at, :reviewed_by)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create teaching assignment: %w", err)
	}
	return nil
}

// Transition moves a pending assignment to status. It returns false when no
// pending row matched, either because the id is unknown or because another
// reviewer got there first.
func (r *TeachingAssignmentRepository) Transition(ctx context.Context, exec sqlx.ExtContext, id string, status models.ReviewStatus, reviewerID string, at time.Time) (bool, error) {
	const query = `UPDATE teaching_assignments SET status = $1, reviewed_at = $2, reviewed_by = $3 WHERE id = $4 AND status = 'pending'`
	result, err := exec.ExecContext(ctx, query, status, at, reviewerID, id)
	if err != nil {
		return false, fmt.Errorf("transition teaching assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check transitioned assignment rows: %w", err)
	}
	return affected == 1, nil
}
