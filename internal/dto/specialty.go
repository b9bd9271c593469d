package dto

// CreateSpecialtyRequest registers a specialty.
type CreateSpecialtyRequest struct {
	Name        string  `json:"name" validate:"required,max=128"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// SetSpecialtiesRequest replaces a course requirement set or a teacher skill set.
type SetSpecialtiesRequest struct {
	SpecialtyIDs []string `json:"specialty_ids" validate:"omitempty,dive,uuid"`
}
