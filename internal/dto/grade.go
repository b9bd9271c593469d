package dto

// UpdateGradeRequest posts a letter grade on an enrollment.
type UpdateGradeRequest struct {
	CourseID  string `json:"course_id" validate:"required,uuid"`
	StudentID string `json:"student_id" validate:"required,uuid"`
	Term      string `json:"term" validate:"required,max=32"`
	Grade     string `json:"grade" validate:"required,max=4"`
}
