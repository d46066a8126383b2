package models

import "time"

// Organization is the tenant boundary. Every other entity is scoped to
// exactly one organization.
type Organization struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Acronym   string    `db:"acronym" json:"acronym"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
