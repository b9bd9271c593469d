package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/pkg/response"
)

type gradeService interface {
	UpdateGrade(ctx context.Context, teacherID string, req dto.UpdateGradeRequest) (*models.Enrollment, error)
	ComputeGPA(ctx context.Context, studentID string) (*models.GPASummary, error)
	Transcript(ctx context.Context, studentID string) (*models.Transcript, error)
	TranscriptPDF(ctx context.Context, studentID string) ([]byte, error)
}

// GradeHandler exposes grading, GPA and transcript endpoints.
type GradeHandler struct {
	service gradeService
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(service gradeService) *GradeHandler {
	return &GradeHandler{service: service}
}

// Update godoc
// @Summary Post a letter grade
// @Description Requires an approved assignment for the course and term.
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body dto.UpdateGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grades [put]
func (h *GradeHandler) Update(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.UpdateGradeRequest
	if !bindJSON(c, &req, "invalid grade payload") {
		return
	}
	enrollment, err := h.service.UpdateGrade(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// GPA godoc
// @Summary Student GPA
// @Tags Grades
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/gpa [get]
func (h *GradeHandler) GPA(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.service.ComputeGPA(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Transcript godoc
// @Summary Student transcript
// @Tags Grades
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/transcript [get]
func (h *GradeHandler) Transcript(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	transcript, err := h.service.Transcript(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transcript, nil)
}

// TranscriptPDF godoc
// @Summary Student transcript as PDF
// @Tags Grades
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Success 200 {file} binary
// @Router /students/{id}/transcript.pdf [get]
func (h *GradeHandler) TranscriptPDF(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	payload, err := h.service.TranscriptPDF(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, "application/pdf", "transcript-"+studentID+".pdf", payload)
}
