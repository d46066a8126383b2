package models

import "time"

// MaterialGroup groups consumable materials of an organization.
type MaterialGroup struct {
	ID             string `db:"id" json:"id"`
	OrganizationID string `db:"organization_id" json:"organization_id"`
	Name           string `db:"name" json:"name"`
	SortOrder      int    `db:"sort_order" json:"sort_order"`
}

// Material is a consumable catalog entry.
type Material struct {
	ID        string     `db:"id" json:"id"`
	GroupID   string     `db:"group_id" json:"group_id"`
	Name      string     `db:"name" json:"name"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// MaterialIssuance links a material quantity to a cadet.
type MaterialIssuance struct {
	ID         string     `db:"id" json:"id"`
	MaterialID string     `db:"material_id" json:"material_id"`
	CadetID    string     `db:"cadet_id" json:"cadet_id"`
	Quantity   int        `db:"quantity" json:"quantity"`
	IssuedAt   time.Time  `db:"issued_at" json:"issued_at"`
	ReturnedAt *time.Time `db:"returned_at" json:"returned_at,omitempty"`
}
