package dto

// CreateCourseRequest registers a course.
type CreateCourseRequest struct {
	Code        string  `json:"code" validate:"required,max=32"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	Credits     int     `json:"credits" validate:"required,min=1,max=30"`
}

// EnrollRequest enrolls a student in a course for a term.
type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
	Term     string `json:"term" validate:"required,max=32"`
}
