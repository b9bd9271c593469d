package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/models"
)

func TestSuggestionRepositoryReviewAndNotifyInOneTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	suggestions := NewSuggestionRepository(db)
	notifications := NewNotificationRepository(db)
	response := "thanks"
	at := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE suggestions SET status = \$1, admin_response = \$2, reviewed_at = \$3, reviewed_by = \$4 WHERE id = \$5 AND status = 'pending'`).
		WithArgs(models.StatusApproved, &response, at, "admin-1", "sug-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO notifications`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	ok, err := suggestions.Review(context.Background(), tx, "sug-1", models.StatusApproved, &response, "admin-1", at)
	require.NoError(t, err)
	assert.True(t, ok)

	n := &models.Notification{UserID: "teacher-1", Kind: models.NotificationSuggestionReviewed, Message: "approved"}
	require.NoError(t, notifications.Create(context.Background(), tx, n))
	assert.NotEmpty(t, n.ID)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestionRepositoryListWithoutFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSuggestionRepository(db)

	columns := []string{"id", "teacher_id", "course_id", "suggestion_text", "status", "admin_response", "created_at", "reviewed_at", "reviewed_by"}
	mock.ExpectQuery(`FROM suggestions ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("sug-1", "t1", "c1", "more labs", "pending", nil, time.Now(), nil, nil))

	list, err := repo.List(context.Background(), models.SuggestionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].AdminResponse)
	require.NoError(t, mock.ExpectationsWereMet())
}
