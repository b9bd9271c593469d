package models

import "time"

// Course is a catalogue entry students enroll in and teachers are assigned to.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Credits     int       `db:"credits" json:"credits"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
