package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Exists checks if the student is already enrolled in the course for the term.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID, term string) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 AND term = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseID, term); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = time.Now().UTC()
	}
	const query = `INSERT INTO enrollments (id, student_id, course_id, term, grade, enrollment_date)
		VALUES (:id, :student_id, :course_id, :term, :grade, :enrollment_date)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// ListByStudent returns a student's enrollments with course details, newest term first.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.course_id, e.term, e.grade, e.enrollment_date,
       c.code AS course_code, c.name AS course_name, c.credits, u.full_name AS student_name
FROM enrollments e
JOIN courses c ON c.id = e.course_id
JOIN users u ON u.id = e.student_id
WHERE e.student_id = $1
ORDER BY e.term DESC, c.code ASC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByCourse returns the roster of a course, optionally narrowed to a term.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID, term string) ([]models.EnrollmentDetail, error) {
	query := `SELECT e.id, e.student_id, e.course_id, e.term, e.grade, e.enrollment_date,
       c.code AS course_code, c.name AS course_name, c.credits, u.full_name AS student_name
FROM enrollments e
JOIN courses c ON c.id = e.course_id
JOIN users u ON u.id = e.student_id
WHERE e.course_id = $1`
	args := []interface{}{courseID}
	if term != "" {
		query += " AND e.term = $2"
		args = append(args, term)
	}
	query += " ORDER BY u.full_name ASC"
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list course roster: %w", err)
	}
	return enrollments, nil
}

// GradedCredits returns the credits and grade of every graded enrollment of a student.
func (r *EnrollmentRepository) GradedCredits(ctx context.Context, studentID string) ([]models.GradedCredit, error) {
	const query = `SELECT e.course_id, c.credits, e.grade
FROM enrollments e
JOIN courses c ON c.id = e.course_id
WHERE e.student_id = $1 AND e.grade IS NOT NULL`
	var credits []models.GradedCredit
	if err := r.db.SelectContext(ctx, &credits, query, studentID); err != nil {
		return nil, fmt.Errorf("list graded credits: %w", err)
	}
	return credits, nil
}

// UpdateGrade sets the grade on the enrollment matching course, student and term.
// It returns sql.ErrNoRows when no enrollment matches.
func (r *EnrollmentRepository) UpdateGrade(ctx context.Context, exec sqlx.ExtContext, courseID, studentID, term, grade string) (*models.Enrollment, error) {
	const query = `UPDATE enrollments SET grade = $1
WHERE course_id = $2 AND student_id = $3 AND term = $4
RETURNING id, student_id, course_id, term, grade, enrollment_date`
	var enrollment models.Enrollment
	if err := sqlx.GetContext(ctx, exec, &enrollment, query, grade, courseID, studentID, term); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update grade: %w", err)
	}
	return &enrollment, nil
}
