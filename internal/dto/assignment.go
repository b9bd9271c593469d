package dto

import "github.com/noah-isme/lms-api/internal/models"

// EligibilityResult answers whether a teacher may teach a course.
type EligibilityResult struct {
	TeacherID           string   `json:"teacher_id"`
	CourseID            string   `json:"course_id"`
	Eligible            bool     `json:"eligible"`
	MissingSpecialtyIDs []string `json:"missing_specialty_ids"`
}

// RequestAssignmentRequest is a teacher's request to teach a course section.
type RequestAssignmentRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
	Term     string `json:"term" validate:"required,max=32"`
	Section  string `json:"section" validate:"required,max=32"`
}

// ForceAssignRequest is an admin assignment that skips the eligibility gate.
type ForceAssignRequest struct {
	CourseID  string `json:"course_id" validate:"required,uuid"`
	TeacherID string `json:"teacher_id" validate:"required,uuid"`
	Term      string `json:"term" validate:"required,max=32"`
	Section   string `json:"section" validate:"required,max=32"`
}

// AssignmentListFilter is the query-string filter for assignments.
type AssignmentListFilter struct {
	TeacherID string              `form:"teacher_id" binding:"omitempty,uuid"`
	CourseID  string              `form:"course_id" binding:"omitempty,uuid"`
	Term      string              `form:"term" binding:"omitempty,max=32"`
	Status    models.ReviewStatus `form:"status"`
}
