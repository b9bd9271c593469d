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

type suggestionService interface {
	Submit(ctx context.Context, teacherID string, req dto.SubmitSuggestionRequest) (*models.Suggestion, error)
	Get(ctx context.Context, id string) (*models.Suggestion, error)
	List(ctx context.Context, filter models.SuggestionFilter) ([]models.Suggestion, error)
	Approve(ctx context.Context, id, adminID string, req dto.ReviewRequest) (*models.Suggestion, error)
	Reject(ctx context.Context, id, adminID string, req dto.ReviewRequest) (*models.Suggestion, error)
}

// SuggestionHandler exposes the suggestion review workflow.
type SuggestionHandler struct {
	service suggestionService
}

// NewSuggestionHandler builds the handler.
func NewSuggestionHandler(service suggestionService) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// List godoc
// @Summary List suggestions
// @Description Teachers only see their own suggestions.
// @Tags Suggestions
// @Produce json
// @Param teacher_id query string false "Teacher ID"
// @Param course_id query string false "Course ID"
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} response.Envelope
// @Router /suggestions [get]
func (h *SuggestionHandler) List(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var query dto.SuggestionListFilter
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	filter := models.SuggestionFilter{TeacherID: query.TeacherID, CourseID: query.CourseID, Status: query.Status}
	if !claims.IsAdmin() {
		filter.TeacherID = claims.UserID
	}
	suggestions, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suggestions, nil)
}

// Get godoc
// @Summary Get suggestion
// @Tags Suggestions
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /suggestions/{id} [get]
func (h *SuggestionHandler) Get(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	suggestion, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !claims.IsAdmin() && suggestion.TeacherID != claims.UserID {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "suggestion not found"))
		return
	}
	response.JSON(c, http.StatusOK, suggestion, nil)
}

// Submit godoc
// @Summary Submit a course suggestion
// @Tags Suggestions
// @Accept json
// @Produce json
// @Param payload body dto.SubmitSuggestionRequest true "Suggestion payload"
// @Success 201 {object} response.Envelope
// @Router /suggestions [post]
func (h *SuggestionHandler) Submit(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.SubmitSuggestionRequest
	if !bindJSON(c, &req, "invalid suggestion payload") {
		return
	}
	suggestion, err := h.service.Submit(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, suggestion)
}

// Approve godoc
// @Summary Approve a pending suggestion
// @Tags Suggestions
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID"
// @Param payload body dto.ReviewRequest false "Optional admin response"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /suggestions/{id}/approve [post]
func (h *SuggestionHandler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve)
}

// Reject godoc
// @Summary Reject a pending suggestion
// @Tags Suggestions
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID"
// @Param payload body dto.ReviewRequest false "Optional admin response"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /suggestions/{id}/reject [post]
func (h *SuggestionHandler) Reject(c *gin.Context) {
	h.review(c, h.service.Reject)
}

func (h *SuggestionHandler) review(c *gin.Context, fn func(ctx context.Context, id, adminID string, req dto.ReviewRequest) (*models.Suggestion, error)) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "invalid review payload") {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	suggestion, err := fn(c.Request.Context(), id, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suggestion, nil)
}
