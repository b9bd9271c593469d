package dto

import "github.com/noah-isme/lms-api/internal/models"

// SubmitSuggestionRequest is a teacher's suggestion about a course.
type SubmitSuggestionRequest struct {
	CourseID       string `json:"course_id" validate:"required,uuid"`
	SuggestionText string `json:"suggestion_text" validate:"required,max=5000"`
}

// ReviewRequest carries the optional admin response on approve/reject.
type ReviewRequest struct {
	AdminResponse *string `json:"admin_response" validate:"omitempty,max=5000"`
}

// SuggestionListFilter is the query-string filter for suggestions.
type SuggestionListFilter struct {
	TeacherID string              `form:"teacher_id" binding:"omitempty,uuid"`
	CourseID  string              `form:"course_id" binding:"omitempty,uuid"`
	Status    models.ReviewStatus `form:"status"`
}
