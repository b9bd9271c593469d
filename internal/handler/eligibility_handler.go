package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/pkg/response"
)

type eligibilityService interface {
	Check(ctx context.Context, teacherID, courseID string) (*dto.EligibilityResult, error)
	EligibleTeachersForCourse(ctx context.Context, courseID string) ([]models.UserSummary, error)
	EligibleCoursesForTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
}

// EligibilityHandler exposes the teacher/course matching views.
type EligibilityHandler struct {
	service eligibilityService
}

// NewEligibilityHandler builds the handler.
func NewEligibilityHandler(service eligibilityService) *EligibilityHandler {
	return &EligibilityHandler{service: service}
}

// EligibleTeachers godoc
// @Summary Teachers eligible for a course
// @Tags Eligibility
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/eligible-teachers [get]
func (h *EligibilityHandler) EligibleTeachers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	teachers, err := h.service.EligibleTeachersForCourse(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// EligibleCourses godoc
// @Summary Courses a teacher is eligible for
// @Tags Eligibility
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id}/eligible-courses [get]
func (h *EligibilityHandler) EligibleCourses(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	courses, err := h.service.EligibleCoursesForTeacher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Check godoc
// @Summary Check a teacher against a course
// @Tags Eligibility
// @Produce json
// @Param id path string true "Teacher ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/eligibility/{courseId} [get]
func (h *EligibilityHandler) Check(c *gin.Context) {
	teacherID, ok := pathID(c, "id")
	if !ok {
		return
	}
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}
	result, err := h.service.Check(c.Request.Context(), teacherID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
