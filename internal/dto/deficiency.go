package dto

// CreateDeficiencyRequest records a deficiency outside of an inspection
// submission. Which references are required depends on the type's
// Dependent/Relation.
type CreateDeficiencyRequest struct {
	TypeID      string `json:"typeId" validate:"required,uuid4"`
	Description string `json:"description" validate:"max=200"`
	Comment     string `json:"comment" validate:"max=1000"`
	CadetID     string `json:"cadetId,omitempty"`
	ItemID      string `json:"itemId,omitempty"`
	MaterialID  string `json:"materialId,omitempty"`
}

// ResolveDeficiencyRequest attributes a standalone resolution to an inspection.
type ResolveDeficiencyRequest struct {
	InspectionID string `json:"inspectionId" validate:"required,uuid4"`
}
