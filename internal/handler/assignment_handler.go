package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/response"
)

type assignmentService interface {
	List(ctx context.Context, filter models.TeachingAssignmentFilter) ([]models.TeachingAssignmentDetail, error)
	Get(ctx context.Context, id string) (*models.TeachingAssignment, error)
	Request(ctx context.Context, teacherID string, req dto.RequestAssignmentRequest) (*models.TeachingAssignment, error)
	ForceAssign(ctx context.Context, adminID string, req dto.ForceAssignRequest) (*models.TeachingAssignment, error)
	Approve(ctx context.Context, id, adminID string) (*models.TeachingAssignment, error)
	Reject(ctx context.Context, id, adminID string) (*models.TeachingAssignment, error)
}

// AssignmentHandler exposes the teaching assignment workflow.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler builds the handler.
func NewAssignmentHandler(service assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// List godoc
// @Summary List teaching assignments
// @Description Teachers only see their own assignments.
// @Tags Assignments
// @Produce json
// @Param teacher_id query string false "Teacher ID"
// @Param course_id query string false "Course ID"
// @Param term query string false "Term"
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var query dto.AssignmentListFilter
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	filter := models.TeachingAssignmentFilter{
		TeacherID: query.TeacherID,
		CourseID:  query.CourseID,
		Term:      query.Term,
		Status:    query.Status,
	}
	if !claims.IsAdmin() {
		filter.TeacherID = claims.UserID
	}
	assignments, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Get godoc
// @Summary Get teaching assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	assignment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !claims.IsAdmin() && assignment.TeacherID != claims.UserID {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "assignment not found"))
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Request godoc
// @Summary Request to teach a course section
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.RequestAssignmentRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /assignments/request [post]
func (h *AssignmentHandler) Request(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.RequestAssignmentRequest
	if !bindJSON(c, &req, "invalid assignment request") {
		return
	}
	assignment, err := h.service.Request(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Force godoc
// @Summary Force-assign a teacher
// @Description Skips the eligibility check. Resulting status follows ASSIGNMENT_FORCE_STATUS.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.ForceAssignRequest true "Force payload"
// @Success 201 {object} response.Envelope
// @Router /assignments/force [post]
func (h *AssignmentHandler) Force(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.ForceAssignRequest
	if !bindJSON(c, &req, "invalid force-assign payload") {
		return
	}
	assignment, err := h.service.ForceAssign(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Approve godoc
// @Summary Approve a pending assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id}/approve [post]
func (h *AssignmentHandler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve)
}

// Reject godoc
// @Summary Reject a pending assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id}/reject [post]
func (h *AssignmentHandler) Reject(c *gin.Context) {
	h.review(c, h.service.Reject)
}

func (h *AssignmentHandler) review(c *gin.Context, fn func(ctx context.Context, id, adminID string) (*models.TeachingAssignment, error)) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	assignment, err := fn(c.Request.Context(), id, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}
