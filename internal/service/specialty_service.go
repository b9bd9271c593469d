package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/internal/repository"
	"github.com/noah-isme/lms-api/pkg/database"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type specialtyRepo interface {
	List(ctx context.Context) ([]models.Specialty, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, specialty *models.Specialty) error
	Delete(ctx context.Context, id string) error
	CountExisting(ctx context.Context, ids []string) (int, error)
	ListForCourse(ctx context.Context, courseID string) ([]models.Specialty, error)
	ListForTeacher(ctx context.Context, teacherID string) ([]models.Specialty, error)
	ReplaceCourseRequirements(ctx context.Context, exec sqlx.ExtContext, courseID string, specialtyIDs []string) error
	ReplaceTeacherSpecialties(ctx context.Context, exec sqlx.ExtContext, teacherID string, specialtyIDs []string) error
}

// SpecialtyService manages the specialty catalogue and the two skill sets
// eligibility is derived from.
type SpecialtyService struct {
	specialties specialtyRepo
	courses     courseReader
	users       userReader
	tx          database.TxBeginner
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSpecialtyService constructs the service.
func NewSpecialtyService(specialties specialtyRepo, courses courseReader, users userReader, tx database.TxBeginner, validate *validator.Validate, logger *zap.Logger) *SpecialtyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpecialtyService{specialties: specialties, courses: courses, users: users, tx: tx, validator: validate, logger: logger}
}

// List returns every specialty ordered by name.
func (s *SpecialtyService) List(ctx context.Context) ([]models.Specialty, error) {
	specialties, err := s.specialties.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list specialties")
	}
	return specialties, nil
}

// Create registers a specialty with a unique name.
func (s *SpecialtyService) Create(ctx context.Context, req dto.CreateSpecialtyRequest) (*models.Specialty, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid specialty payload")
	}
	exists, err := s.specialties.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, internalError(err, "failed to check specialty name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "specialty name already exists")
	}
	specialty := &models.Specialty{Name: req.Name, Description: req.Description}
	if err := s.specialties.Create(ctx, specialty); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "specialty name already exists")
		}
		return nil, internalError(err, "failed to create specialty")
	}
	return specialty, nil
}

// Delete removes a specialty from the catalogue and every set referencing it.
func (s *SpecialtyService) Delete(ctx context.Context, id string) error {
	if err := s.specialties.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "specialty not found")
		}
		return internalError(err, "failed to delete specialty")
	}
	s.logger.Info("specialty deleted", zap.String("specialty_id", id))
	return nil
}

// CourseRequirements lists the specialties a course requires.
func (s *SpecialtyService) CourseRequirements(ctx context.Context, courseID string) ([]models.Specialty, error) {
	if _, err := loadCourse(ctx, s.courses, courseID); err != nil {
		return nil, err
	}
	specialties, err := s.specialties.ListForCourse(ctx, courseID)
	if err != nil {
		return nil, internalError(err, "failed to list course requirements")
	}
	return specialties, nil
}

// TeacherSpecialties lists the specialties a teacher holds.
func (s *SpecialtyService) TeacherSpecialties(ctx context.Context, teacherID string) ([]models.Specialty, error) {
	if _, err := loadUserWithRole(ctx, s.users, teacherID, models.RoleTeacher); err != nil {
		return nil, err
	}
	specialties, err := s.specialties.ListForTeacher(ctx, teacherID)
	if err != nil {
		return nil, internalError(err, "failed to list teacher specialties")
	}
	return specialties, nil
}

// SetCourseRequirements replaces the requirement set of a course.
func (s *SpecialtyService) SetCourseRequirements(ctx context.Context, courseID string, req dto.SetSpecialtiesRequest) ([]models.Specialty, error) {
	if _, err := loadCourse(ctx, s.courses, courseID); err != nil {
		return nil, err
	}
	ids, err := s.resolveIDs(ctx, req)
	if err != nil {
		return nil, err
	}
	err = database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		return s.specialties.ReplaceCourseRequirements(ctx, tx, courseID, ids)
	})
	if err != nil {
		s.logger.Error("replace course requirements failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("course requirements replaced", zap.String("course_id", courseID), zap.Int("count", len(ids)))
	return s.CourseRequirements(ctx, courseID)
}

// SetTeacherSpecialties replaces the skill set of a teacher.
func (s *SpecialtyService) SetTeacherSpecialties(ctx context.Context, teacherID string, req dto.SetSpecialtiesRequest) ([]models.Specialty, error) {
	if _, err := loadUserWithRole(ctx, s.users, teacherID, models.RoleTeacher); err != nil {
		return nil, err
	}
	ids, err := s.resolveIDs(ctx, req)
	if err != nil {
		return nil, err
	}
	err = database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		return s.specialties.ReplaceTeacherSpecialties(ctx, tx, teacherID, ids)
	})
	if err != nil {
		s.logger.Error("replace teacher specialties failed", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("teacher specialties replaced", zap.String("teacher_id", teacherID), zap.Int("count", len(ids)))
	return s.TeacherSpecialties(ctx, teacherID)
}

// resolveIDs validates and de-duplicates ids and checks they all exist.
func (s *SpecialtyService) resolveIDs(ctx context.Context, req dto.SetSpecialtiesRequest) ([]string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "specialty_ids must be UUIDs")
	}
	ids := NewSkillSet(req.SpecialtyIDs).IDs()
	if len(ids) == 0 {
		return ids, nil
	}
	count, err := s.specialties.CountExisting(ctx, ids)
	if err != nil {
		return nil, internalError(err, "failed to verify specialties")
	}
	if count != len(ids) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "one or more specialties not found")
	}
	return ids, nil
}
