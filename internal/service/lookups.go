package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type userReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ListActiveByRole(ctx context.Context, role models.UserRole) ([]models.UserSummary, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
}

type skillReader interface {
	CourseRequirementIDs(ctx context.Context, courseID string) ([]string, error)
	TeacherSpecialtyIDs(ctx context.Context, teacherID string) ([]string, error)
	AllCourseRequirements(ctx context.Context) (map[string][]string, error)
	AllTeacherSpecialties(ctx context.Context) (map[string][]string, error)
}

func loadCourse(ctx context.Context, courses courseReader, id string) (*models.Course, error) {
	course, err := courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

func loadUserWithRole(ctx context.Context, users userReader, id string, role models.UserRole) (*models.User, error) {
	label := "user"
	switch role {
	case models.RoleTeacher:
		label = "teacher"
	case models.RoleStudent:
		label = "student"
	}
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, label+" not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+label)
	}
	if user.Role != role {
		return nil, appErrors.Clone(appErrors.ErrNotFound, label+" not found")
	}
	return user, nil
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
