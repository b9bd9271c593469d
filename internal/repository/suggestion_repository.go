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

// SuggestionRepository persists course suggestions.
type SuggestionRepository struct {
	db *sqlx.DB
}

// NewSuggestionRepository constructs the repository.
func NewSuggestionRepository(db *sqlx.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

const suggestionColumns = `id, teacher_id, course_id, suggestion_text, status, admin_response, created_at, reviewed_at, reviewed_by`

// List returns suggestions matching filter, newest first.
func (r *SuggestionRepository) List(ctx context.Context, filter models.SuggestionFilter) ([]models.Suggestion, error) {
	var conditions []string
	var args []interface{}
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)))
	}
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	query := `SELECT ` + suggestionColumns + ` FROM suggestions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var suggestions []models.Suggestion
	if err := r.db.SelectContext(ctx, &suggestions, query, args...); err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return suggestions, nil
}

// FindByID returns a suggestion by id.
func (r *SuggestionRepository) FindByID(ctx context.Context, id string) (*models.Suggestion, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

// FindByIDTx reads a suggestion through q, typically an open transaction.
func (r *SuggestionRepository) FindByIDTx(ctx context.Context, q sqlx.QueryerContext, id string) (*models.Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM suggestions WHERE id = $1`
	var suggestion models.Suggestion
	if err := sqlx.GetContext(ctx, q, &suggestion, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find suggestion: %w", err)
	}
	return &suggestion, nil
}

// Create inserts a pending suggestion.
func (r *SuggestionRepository) Create(ctx context.Context, suggestion *models.Suggestion) error {
	if suggestion.ID == "" {
		suggestion.ID = uuid.NewString()
	}
	if suggestion.CreatedAt.IsZero() {
		suggestion.CreatedAt = time.Now().UTC()
	}
	suggestion.Status = models.StatusPending
	const query = `INSERT INTO suggestions (id, teacher_id, course_id, suggestion_text, status, created_at)
		VALUES (:id, :teacher_id, :course_id, :suggestion_text, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, suggestion); err != nil {
		return fmt.Errorf("create suggestion: %w", err)
	}
	return nil
}

// Review moves a pending suggestion to status, storing the optional admin response.
// It returns false when no pending row matched.
func (r *SuggestionRepository) Review(ctx context.Context, exec sqlx.ExtContext, id string, status models.ReviewStatus, response *string, reviewerID string, at time.Time) (bool, error) {
	const query = `UPDATE suggestions SET status = $1, admin_response = $2, reviewed_at = $3, reviewed_by = $4 WHERE id = $5 AND status = 'pending'`
	result, err := exec.ExecContext(ctx, query, status, response, at, reviewerID, id)
	if err != nil {
		return false, fmt.Errorf("review suggestion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check reviewed suggestion rows: %w", err)
	}
	return affected == 1, nil
}
