package models

import "time"

// Enrollment captures a student's registration in a course for a term.
type Enrollment struct {
	ID             string    `db:"id" json:"id"`
	StudentID      string    `db:"student_id" json:"student_id"`
	CourseID       string    `db:"course_id" json:"course_id"`
	Term           string    `db:"term" json:"term"`
	Grade          *string   `db:"grade" json:"grade"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
}

// EnrollmentDetail enriches Enrollment with course and student info.
type EnrollmentDetail struct {
	Enrollment
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseName  string `db:"course_name" json:"course_name"`
	Credits     int    `db:"credits" json:"credits"`
	StudentName string `db:"student_name" json:"student_name"`
}

// GradedCredit is one graded enrollment feeding the GPA computation.
type GradedCredit struct {
	CourseID string `db:"course_id" json:"course_id"`
	Credits  int    `db:"credits" json:"credits"`
	Grade    string `db:"grade" json:"grade"`
}
