package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	query := regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 AND term = $3 LIMIT 1")
	mock.ExpectQuery(query).WithArgs("stu-1", "course-1", "2024-FALL").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(query).WithArgs("stu-1", "course-2", "2024-FALL").WillReturnError(sql.ErrNoRows)

	exists, err := repo.Exists(context.Background(), "stu-1", "course-1", "2024-FALL")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(context.Background(), "stu-1", "course-2", "2024-FALL")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListByCourseTermFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	columns := []string{"id", "student_id", "course_id", "term", "grade", "enrollment_date", "course_code", "course_name", "credits", "student_name"}
	mock.ExpectQuery(`WHERE e\.course_id = \$1 AND e\.term = \$2 ORDER BY u\.full_name ASC`).
		WithArgs("course-1", "2024-FALL").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("enr-1", "stu-1", "course-1", "2024-FALL", nil, time.Now(), "SCI101", "Science", 4, "Sam"))

	roster, err := repo.ListByCourse(context.Background(), "course-1", "2024-FALL")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Nil(t, roster[0].Grade)
	assert.Equal(t, 4, roster[0].Credits)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryGradedCredits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(`e\.grade IS NOT NULL`).WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "credits", "grade"}).AddRow("c1", 3, "A").AddRow("c2", 4, "B"))

	credits, err := repo.GradedCredits(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, credits, 2)
	assert.Equal(t, "B", credits[1].Grade)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateGradeInTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE enrollments SET grade = \$1 .* RETURNING`).
		WithArgs("A-", "course-1", "stu-1", "2024-FALL").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "term", "grade", "enrollment_date"}).
			AddRow("enr-1", "stu-1", "course-1", "2024-FALL", "A-", time.Now()))
	mock.ExpectQuery(`UPDATE enrollments SET grade`).
		WithArgs("B", "course-1", "stu-9", "2024-FALL").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	enrollment, err := repo.UpdateGrade(context.Background(), tx, "course-1", "stu-1", "2024-FALL", "A-")
	require.NoError(t, err)
	require.NotNil(t, enrollment.Grade)
	assert.Equal(t, "A-", *enrollment.Grade)

	_, err = repo.UpdateGrade(context.Background(), tx, "course-1", "stu-9", "2024-FALL", "B")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}
