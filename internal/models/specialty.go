package models

import "time"

// Specialty is a named competency teachers hold and courses require.
type Specialty struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CourseRequirement links a course to a specialty it requires.
type CourseRequirement struct {
	CourseID    string `db:"course_id" json:"course_id"`
	SpecialtyID string `db:"specialty_id" json:"specialty_id"`
}

// TeacherSpecialty links a teacher to a specialty they hold.
type TeacherSpecialty struct {
	TeacherID   string `db:"teacher_id" json:"teacher_id"`
	SpecialtyID string `db:"specialty_id" json:"specialty_id"`
}
