package models

import "time"

// Stage is a cohort/term grouping. Every lecture belongs to exactly one
// stage, and conflict checks are scoped per stage.
type Stage struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
