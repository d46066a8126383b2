package models

import "time"

// UniformType defines an equipment type of an organization. RequiredQuantity
// is the per-cadet quota used by the missing calculation.
type UniformType struct {
	ID               string     `db:"id" json:"id"`
	OrganizationID   string     `db:"organization_id" json:"organization_id"`
	Name             string     `db:"name" json:"name"`
	Acronym          string     `db:"acronym" json:"acronym"`
	UsesGenerations  bool       `db:"uses_generations" json:"uses_generations"`
	UsesSizes        bool       `db:"uses_sizes" json:"uses_sizes"`
	RequiredQuantity int        `db:"required_quantity" json:"required_quantity"`
	DeletedAt        *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// UniformGeneration groups items of a type. A reserve generation marks every
// item in it as reserve regardless of the item's own flag.
type UniformGeneration struct {
	ID        string `db:"id" json:"id"`
	TypeID    string `db:"type_id" json:"type_id"`
	Name      string `db:"name" json:"name"`
	IsReserve bool   `db:"is_reserve" json:"is_reserve"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

// UniformSize is a size label available to an organization.
type UniformSize struct {
	ID             string `db:"id" json:"id"`
	OrganizationID string `db:"organization_id" json:"organization_id"`
	Name           string `db:"name" json:"name"`
	SortOrder      int    `db:"sort_order" json:"sort_order"`
}

// UniformItem is a physical instance of a type. Ownership is expressed only
// through open issuances, never through a direct cadet reference.
type UniformItem struct {
	ID           string     `db:"id" json:"id"`
	TypeID       string     `db:"type_id" json:"type_id"`
	GenerationID *string    `db:"generation_id" json:"generation_id,omitempty"`
	SizeID       *string    `db:"size_id" json:"size_id,omitempty"`
	Number       int        `db:"number" json:"number"`
	IsReserve    bool       `db:"is_reserve" json:"is_reserve"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Issuance links a uniform item to a cadet. Open means ReturnedAt is null;
// at most one open issuance exists per item (enforced by the issuing service).
type Issuance struct {
	ID         string     `db:"id" json:"id"`
	ItemID     string     `db:"item_id" json:"item_id"`
	CadetID    string     `db:"cadet_id" json:"cadet_id"`
	IssuedAt   time.Time  `db:"issued_at" json:"issued_at"`
	ReturnedAt *time.Time `db:"returned_at" json:"returned_at,omitempty"`
}

// Open reports whether the issuance is still outstanding.
func (i Issuance) Open() bool {
	return i.ReturnedAt == nil
}
