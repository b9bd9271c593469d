package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type specialtyServiceMock struct {
	deleteErr  error
	lastTarget string
	lastIDs    []string
}

func (m *specialtyServiceMock) List(ctx context.Context) ([]models.Specialty, error) {
	return []models.Specialty{{ID: "sp-1", Name: "Mathematics"}}, nil
}

func (m *specialtyServiceMock) Create(ctx context.Context, req dto.CreateSpecialtyRequest) (*models.Specialty, error) {
	return &models.Specialty{ID: "sp-2", Name: req.Name}, nil
}

func (m *specialtyServiceMock) Delete(ctx context.Context, id string) error {
	m.lastTarget = id
	return m.deleteErr
}

func (m *specialtyServiceMock) CourseRequirements(ctx context.Context, courseID string) ([]models.Specialty, error) {
	m.lastTarget = courseID
	return []models.Specialty{}, nil
}

func (m *specialtyServiceMock) TeacherSpecialties(ctx context.Context, teacherID string) ([]models.Specialty, error) {
	m.lastTarget = teacherID
	return []models.Specialty{}, nil
}

func (m *specialtyServiceMock) SetCourseRequirements(ctx context.Context, courseID string, req dto.SetSpecialtiesRequest) ([]models.Specialty, error) {
	m.lastTarget = courseID
	m.lastIDs = req.SpecialtyIDs
	return []models.Specialty{}, nil
}

func (m *specialtyServiceMock) SetTeacherSpecialties(ctx context.Context, teacherID string, req dto.SetSpecialtiesRequest) ([]models.Specialty, error) {
	m.lastTarget = teacherID
	m.lastIDs = req.SpecialtyIDs
	return []models.Specialty{}, nil
}

func TestSpecialtyHandlerCreate(t *testing.T) {
	handler := NewSpecialtyHandler(&specialtyServiceMock{})

	c, w := newTestContext(http.MethodPost, "/specialties", []byte(`{"name":"Chemistry"}`), nil)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Chemistry"`)
}

func TestSpecialtyHandlerDelete(t *testing.T) {
	mockSvc := &specialtyServiceMock{}
	handler := NewSpecialtyHandler(mockSvc)

	c, _ := newTestContext(http.MethodDelete, "/specialties/sp-1", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: specialtyUUID}}
	handler.Delete(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, specialtyUUID, mockSvc.lastTarget)
}

func TestSpecialtyHandlerDeleteMissing(t *testing.T) {
	handler := NewSpecialtyHandler(&specialtyServiceMock{deleteErr: appErrors.Clone(appErrors.ErrNotFound, "specialty not found")})

	c, w := newTestContext(http.MethodDelete, "/specialties/sp-9", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: specialtyUUID}}
	handler.Delete(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSpecialtyHandlerSetTeacherSpecialties(t *testing.T) {
	mockSvc := &specialtyServiceMock{}
	handler := NewSpecialtyHandler(mockSvc)

	c, w := newTestContext(http.MethodPut, "/teachers/t-1/specialties", []byte(`{"specialty_ids":["a","b"]}`), nil)
	c.Params = gin.Params{{Key: "id", Value: teacherUUID}}
	handler.SetTeacherSpecialties(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, teacherUUID, mockSvc.lastTarget)
	assert.Equal(t, []string{"a", "b"}, mockSvc.lastIDs)
}

func TestSpecialtyHandlerSetCourseRequirementsBadJSON(t *testing.T) {
	mockSvc := &specialtyServiceMock{}
	handler := NewSpecialtyHandler(mockSvc)

	c, w := newTestContext(http.MethodPut, "/courses/c-1/requirements", []byte(`{"specialty_ids":"x"}`), nil)
	c.Params = gin.Params{{Key: "id", Value: courseUUID}}
	handler.SetCourseRequirements(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mockSvc.lastTarget)
}
