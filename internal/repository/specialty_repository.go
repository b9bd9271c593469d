package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/lms-api/internal/models"
)

// SpecialtyRepository persists specialties and the two skill join tables.
type SpecialtyRepository struct {
	db *sqlx.DB
}

// NewSpecialtyRepository constructs the repository.
func NewSpecialtyRepository(db *sqlx.DB) *SpecialtyRepository {
	return &SpecialtyRepository{db: db}
}

// List returns every specialty ordered by name.
func (r *SpecialtyRepository) List(ctx context.Context) ([]models.Specialty, error) {
	const query = `SELECT id, name, description, created_at FROM specialties ORDER BY name ASC`
	var specialties []models.Specialty
	if err := r.db.SelectContext(ctx, &specialties, query); err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	return specialties, nil
}

// ExistsByName checks whether a specialty name is taken (case-insensitive).
func (r *SpecialtyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT 1 FROM specialties WHERE LOWER(name) = LOWER($1) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check specialty name: %w", err)
	}
	return true, nil
}

// Create inserts a specialty.
func (r *SpecialtyRepository) Create(ctx context.Context, specialty *models.Specialty) error {
	if specialty.ID == "" {
		specialty.ID = uuid.NewString()
	}
	if specialty.CreatedAt.IsZero() {
		specialty.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO specialties (id, name, description, created_at) VALUES (:id, :name, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, specialty); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create specialty: %w", err)
	}
	return nil
}

// Delete removes a specialty; join rows cascade.
func (r *SpecialtyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM specialties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete specialty: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted specialty rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountExisting returns how many of ids exist.
func (r *SpecialtyRepository) CountExisting(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `SELECT COUNT(*) FROM specialties WHERE id = ANY($1)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, pq.Array(ids)); err != nil {
		return 0, fmt.Errorf("count specialties: %w", err)
	}
	return count, nil
}

// CourseRequirementIDs returns the specialty ids a course requires.
func (r *SpecialtyRepository) CourseRequirementIDs(ctx context.Context, courseID string) ([]string, error) {
	const query = `SELECT specialty_id FROM course_requirements WHERE course_id = $1`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, courseID); err != nil {
		return nil, fmt.Errorf("list course requirements: %w", err)
	}
	return ids, nil
}

// TeacherSpecialtyIDs returns the specialty ids a teacher holds.
func (r *SpecialtyRepository) TeacherSpecialtyIDs(ctx context.Context, teacherID string) ([]string, error) {
	const query = `SELECT specialty_id FROM teacher_specialties WHERE teacher_id = $1`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher specialties: %w", err)
	}
	return ids, nil
}

// ListForCourse returns the specialties a course requires.
func (r *SpecialtyRepository) ListForCourse(ctx context.Context, courseID string) ([]models.Specialty, error) {
	const query = `SELECT s.id, s.name, s.description, s.created_at
FROM specialties s
JOIN course_requirements cr ON cr.specialty_id = s.id
WHERE cr.course_id = $1
ORDER BY s.name ASC`
	var specialties []models.Specialty
	if err := r.db.SelectContext(ctx, &specialties, query, courseID); err != nil {
		return nil, fmt.Errorf("list course specialties: %w", err)
	}
	return specialties, nil
}

// ListForTeacher returns the specialties a teacher holds.
func (r *SpecialtyRepository) ListForTeacher(ctx context.Context, teacherID string) ([]models.Specialty, error) {
	const query = `SELECT s.id, s.name, s.description, s.created_at
FROM specialties s
JOIN teacher_specialties ts ON ts.specialty_id = s.id
WHERE ts.teacher_id = $1
ORDER BY s.name ASC`
	var specialties []models.Specialty
	if err := r.db.SelectContext(ctx, &specialties, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher specialties: %w", err)
	}
	return specialties, nil
}

// AllCourseRequirements returns every requirement row grouped by course.
func (r *SpecialtyRepository) AllCourseRequirements(ctx context.Context) (map[string][]string, error) {
	var rows []models.CourseRequirement
	if err := r.db.SelectContext(ctx, &rows, `SELECT course_id, specialty_id FROM course_requirements`); err != nil {
		return nil, fmt.Errorf("list all course requirements: %w", err)
	}
	result := make(map[string][]string)
	for _, row := range rows {
		result[row.CourseID] = append(result[row.CourseID], row.SpecialtyID)
	}
	return result, nil
}

// AllTeacherSpecialties returns every teacher skill row grouped by teacher.
func (r *SpecialtyRepository) AllTeacherSpecialties(ctx context.Context) (map[string][]string, error) {
	var rows []models.TeacherSpecialty
	if err := r.db.SelectContext(ctx, &rows, `SELECT teacher_id, specialty_id FROM teacher_specialties`); err != nil {
		return nil, fmt.Errorf("list all teacher specialties: %w", err)
	}
	result := make(map[string][]string)
	for _, row := range rows {
		result[row.TeacherID] = append(result[row.TeacherID], row.SpecialtyID)
	}
	return result, nil
}

// ReplaceCourseRequirements swaps the requirement set of a course using exec.
func (r *SpecialtyRepository) ReplaceCourseRequirements(ctx context.Context, exec sqlx.ExtContext, courseID string, specialtyIDs []string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM course_requirements WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("clear course requirements: %w", err)
	}
	for _, id := range specialtyIDs {
		if _, err := exec.ExecContext(ctx, `INSERT INTO course_requirements (course_id, specialty_id) VALUES ($1, $2)`, courseID, id); err != nil {
			return fmt.Errorf("insert course requirement: %w", err)
		}
	}
	return nil
}

// ReplaceTeacherSpecialties swaps the skill set of a teacher using exec.
func (r *SpecialtyRepository) ReplaceTeacherSpecialties(ctx context.Context, exec sqlx.ExtContext, teacherID string, specialtyIDs []string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM teacher_specialties WHERE teacher_id = $1`, teacherID); err != nil {
		return fmt.Errorf("clear teacher specialties: %w", err)
	}
	for _, id := range specialtyIDs {
		if _, err := exec.ExecContext(ctx, `INSERT INTO teacher_specialties (teacher_id, specialty_id) VALUES ($1, $2)`, teacherID, id); err != nil {
			return fmt.Errorf("insert teacher specialty: %w", err)
		}
	}
	return nil
}
