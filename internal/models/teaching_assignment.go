package models

import "time"

// TeachingAssignment records a teacher's claim to teach a course section in a term.
type TeachingAssignment struct {
	ID           string       `db:"id" json:"id"`
	TeacherID    string       `db:"teacher_id" json:"teacher_id"`
	CourseID     string       `db:"course_id" json:"course_id"`
	Term         string       `db:"term" json:"term"`
	Section      string       `db:"section" json:"section"`
	Status       ReviewStatus `db:"status" json:"status"`
	Forced       bool         `db:"forced" json:"forced"`
	AssignedDate time.Time    `db:"assigned_date" json:"assigned_date"`
	ReviewedAt   *time.Time   `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy   *string      `db:"reviewed_by" json:"reviewed_by,omitempty"`
}

// TeachingAssignmentDetail enriches assignments with descriptive fields.
type TeachingAssignmentDetail struct {
	TeachingAssignment
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseName  string `db:"course_name" json:"course_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// TeachingAssignmentFilter narrows assignment listings.
type TeachingAssignmentFilter struct {
	TeacherID string
	CourseID  string
	Term      string
	Status    ReviewStatus
}
