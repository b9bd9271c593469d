package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/pkg/response"
)

type enrollmentService interface {
	Enroll(ctx context.Context, studentID string, req dto.EnrollRequest) (*models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
	ListByCourse(ctx context.Context, courseID, term string) ([]models.EnrollmentDetail, error)
	RosterCSV(ctx context.Context, courseID, term string) ([]byte, error)
	AuthorizeRoster(ctx context.Context, teacherID, courseID, term string) error
}

// EnrollmentHandler manages student enrollment endpoints.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(service enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// Enroll godoc
// @Summary Enroll the calling student in a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.EnrollRequest
	if !bindJSON(c, &req, "invalid enrollment payload") {
		return
	}
	enrollment, err := h.service.Enroll(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// ListByStudent godoc
// @Summary List a student's enrollments
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/enrollments [get]
func (h *EnrollmentHandler) ListByStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	enrollments, err := h.service.ListByStudent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// Roster godoc
// @Summary Course roster
// @Description Returns CSV when format=csv. Teachers must pass a term in which they hold an approved assignment for the course.
// @Tags Enrollments
// @Produce json
// @Produce text/csv
// @Param id path string true "Course ID"
// @Param term query string false "Term"
// @Param format query string false "json or csv"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/roster [get]
func (h *EnrollmentHandler) Roster(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	term := c.Query("term")
	if claims.Role == models.RoleTeacher {
		if err := h.service.AuthorizeRoster(c.Request.Context(), claims.UserID, courseID, term); err != nil {
			response.Error(c, err)
			return
		}
	}
	if c.Query("format") == "csv" {
		payload, err := h.service.RosterCSV(c.Request.Context(), courseID, term)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.File(c, "text/csv", "roster-"+courseID+".csv", payload)
		return
	}
	roster, err := h.service.ListByCourse(c.Request.Context(), courseID, term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}
