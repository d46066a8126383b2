package models

import "time"

// DeficiencyDependent determines whether a deficiency of a type is recorded
// against a cadet or against a uniform item.
type DeficiencyDependent string

const (
	DependentCadet DeficiencyDependent = "cadet"
	DependentItem  DeficiencyDependent = "item"
)

// Valid returns true when the dependent is a supported value.
func (d DeficiencyDependent) Valid() bool {
	return d == DependentCadet || d == DependentItem
}

// DeficiencyRelation refines cadet-dependent types with an optional reference
// to the concrete item or material the deficiency is about.
type DeficiencyRelation string

const (
	RelationNone     DeficiencyRelation = "none"
	RelationItem     DeficiencyRelation = "item"
	RelationMaterial DeficiencyRelation = "material"
)

// Valid returns true when the relation is a supported value.
func (r DeficiencyRelation) Valid() bool {
	switch r {
	case RelationNone, RelationItem, RelationMaterial:
		return true
	default:
		return false
	}
}

// DeficiencyType is a per-organization deficiency category.
type DeficiencyType struct {
	ID             string              `db:"id" json:"id"`
	OrganizationID string              `db:"organization_id" json:"organization_id"`
	Name           string              `db:"name" json:"name"`
	Dependent      DeficiencyDependent `db:"dependent" json:"dependent"`
	Relation       DeficiencyRelation  `db:"relation" json:"relation"`
	DeletedAt      *time.Time          `db:"deleted_at" json:"deleted_at,omitempty"`
}

// TargetKind discriminates the deficiency target union.
type TargetKind string

const (
	TargetCadet TargetKind = "cadet"
	TargetItem  TargetKind = "item"
)

// DeficiencyTarget is the tagged union a deficiency is recorded against.
// The kind is chosen at construction time from the type's Dependent/Relation,
// never inferred from which optional field happens to be populated.
type DeficiencyTarget struct {
	Kind    TargetKind
	CadetID string
	// ItemID is required for item targets and for cadet targets whose
	// relation is item.
	ItemID string
	// MaterialID is required for cadet targets whose relation is material.
	MaterialID string
}

// Deficiency is a recorded defect. It persists across inspection boundaries
// until explicitly resolved; ResolvedAt and ResolvedByInspection are both
// null or both set.
type Deficiency struct {
	ID                   string     `db:"id" json:"id"`
	TypeID               string     `db:"type_id" json:"type_id"`
	CadetID              *string    `db:"cadet_id" json:"cadet_id,omitempty"`
	ItemID               *string    `db:"item_id" json:"item_id,omitempty"`
	MaterialID           *string    `db:"material_id" json:"material_id,omitempty"`
	Description          string     `db:"description" json:"description"`
	Comment              string     `db:"comment" json:"comment"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	CreatedByInspection  *string    `db:"created_by_inspection" json:"created_by_inspection,omitempty"`
	ResolvedAt           *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	ResolvedByInspection *string    `db:"resolved_by_inspection" json:"resolved_by_inspection,omitempty"`
}

// Resolved reports whether the deficiency has been resolved.
func (d Deficiency) Resolved() bool {
	return d.ResolvedAt != nil
}
