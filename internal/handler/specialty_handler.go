package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/pkg/response"
)

type specialtyService interface {
	List(ctx context.Context) ([]models.Specialty, error)
	Create(ctx context.Context, req dto.CreateSpecialtyRequest) (*models.Specialty, error)
	Delete(ctx context.Context, id string) error
	CourseRequirements(ctx context.Context, courseID string) ([]models.Specialty, error)
	TeacherSpecialties(ctx context.Context, teacherID string) ([]models.Specialty, error)
	SetCourseRequirements(ctx context.Context, courseID string, req dto.SetSpecialtiesRequest) ([]models.Specialty, error)
	SetTeacherSpecialties(ctx context.Context, teacherID string, req dto.SetSpecialtiesRequest) ([]models.Specialty, error)
}

// SpecialtyHandler exposes the specialty catalogue and skill-set endpoints.
type SpecialtyHandler struct {
	service specialtyService
}

// NewSpecialtyHandler builds the handler.
func NewSpecialtyHandler(service specialtyService) *SpecialtyHandler {
	return &SpecialtyHandler{service: service}
}

// List godoc
// @Summary List specialties
// @Tags Specialties
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /specialties [get]
func (h *SpecialtyHandler) List(c *gin.Context) {
	specialties, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specialties, nil)
}

// Create godoc
// @Summary Create specialty
// @Tags Specialties
// @Accept json
// @Produce json
// @Param payload body dto.CreateSpecialtyRequest true "Specialty payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /specialties [post]
func (h *SpecialtyHandler) Create(c *gin.Context) {
	var req dto.CreateSpecialtyRequest
	if !bindJSON(c, &req, "invalid specialty payload") {
		return
	}
	specialty, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, specialty)
}

// Delete godoc
// @Summary Delete specialty
// @Tags Specialties
// @Param id path string true "Specialty ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /specialties/{id} [delete]
func (h *SpecialtyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CourseRequirements godoc
// @Summary List course requirements
// @Tags Specialties
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/requirements [get]
func (h *SpecialtyHandler) CourseRequirements(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	specialties, err := h.service.CourseRequirements(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specialties, nil)
}

// SetCourseRequirements godoc
// @Summary Replace course requirements
// @Tags Specialties
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.SetSpecialtiesRequest true "Specialty ids"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/requirements [put]
func (h *SpecialtyHandler) SetCourseRequirements(c *gin.Context) {
	var req dto.SetSpecialtiesRequest
	if !bindJSON(c, &req, "invalid specialty list") {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	specialties, err := h.service.SetCourseRequirements(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specialties, nil)
}

// TeacherSpecialties godoc
// @Summary List teacher specialties
// @Tags Specialties
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/specialties [get]
func (h *SpecialtyHandler) TeacherSpecialties(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	specialties, err := h.service.TeacherSpecialties(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specialties, nil)
}

// SetTeacherSpecialties godoc
// @Summary Replace teacher specialties
// @Tags Specialties
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body dto.SetSpecialtiesRequest true "Specialty ids"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/specialties [put]
func (h *SpecialtyHandler) SetTeacherSpecialties(c *gin.Context) {
	var req dto.SetSpecialtiesRequest
	if !bindJSON(c, &req, "invalid specialty list") {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	specialties, err := h.service.SetTeacherSpecialties(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specialties, nil)
}
