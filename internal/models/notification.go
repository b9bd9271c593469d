package models

import "time"

// NotificationKind classifies notifications.
type NotificationKind string

const (
	NotificationAssignmentReviewed NotificationKind = "ASSIGNMENT_REVIEWED"
	NotificationSuggestionReviewed NotificationKind = "SUGGESTION_REVIEWED"
	NotificationGradePosted        NotificationKind = "GRADE_POSTED"
)

// Notification is an in-app message written alongside the state change that caused it.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Kind      NotificationKind `db:"kind" json:"kind"`
	Message   string           `db:"message" json:"message"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
