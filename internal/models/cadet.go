package models

import "time"

// Cadet is a member of an organization. Cadet administration lives in a
// separate service; this one only reads the roster.
type Cadet struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// FullName returns the display name used in lists and reports.
func (c Cadet) FullName() string {
	return c.FirstName + " " + c.LastName
}
