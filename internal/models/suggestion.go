package models

import "time"

// Suggestion is a teacher's free-text proposal about a course, reviewed by an admin.
type Suggestion struct {
	ID             string       `db:"id" json:"id"`
	TeacherID      string       `db:"teacher_id" json:"teacher_id"`
	CourseID       string       `db:"course_id" json:"course_id"`
	SuggestionText string       `db:"suggestion_text" json:"suggestion_text"`
	Status         ReviewStatus `db:"status" json:"status"`
	AdminResponse  *string      `db:"admin_response" json:"admin_response,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	ReviewedAt     *time.Time   `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy     *string      `db:"reviewed_by" json:"reviewed_by,omitempty"`
}

// SuggestionFilter narrows suggestion listings.
type SuggestionFilter struct {
	TeacherID string
	CourseID  string
	Status    ReviewStatus
}
