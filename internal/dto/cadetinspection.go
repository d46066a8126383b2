package dto

import "time"

// OldDeficiency is a carry-over deficiency shown on the inspection form.
// Resolved reflects resolution within the current inspection only; carry-over
// rows resolved in a past inspection never reach this list.
type OldDeficiency struct {
	ID          string    `db:"id" json:"id"`
	TypeID      string    `db:"type_id" json:"typeId"`
	TypeName    string    `db:"type_name" json:"typeName"`
	Description string    `db:"description" json:"description"`
	Comment     string    `db:"comment" json:"comment"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	Resolved    bool      `db:"resolved" json:"resolved"`
}

// NewDeficiency is a deficiency raised during the current inspection.
type NewDeficiency struct {
	ID                   string    `db:"id" json:"id"`
	TypeID               string    `db:"type_id" json:"typeId"`
	Description          string    `db:"description" json:"description"`
	Comment              string    `db:"comment" json:"comment"`
	ItemID               *string   `db:"item_id" json:"itemId"`
	MaterialID           *string   `db:"material_id" json:"materialId"`
	OtherMaterialID      *string   `db:"other_material_id" json:"otherMaterialId"`
	OtherMaterialGroupID *string   `db:"other_material_group_id" json:"otherMaterialGroupId"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
}

// CadetInspectionFormData is everything the inspection form needs for one cadet.
type CadetInspectionFormData struct {
	CadetID           string          `json:"cadetId"`
	UniformComplete   *bool           `json:"uniformComplete"`
	OldDeficiencyList []OldDeficiency `json:"oldDeficiencyList"`
	NewDeficiencyList []NewDeficiency `json:"newDeficiencyList"`
}

// DeficiencyResolution toggles the resolution of a carry-over deficiency.
type DeficiencyResolution struct {
	ID       string `json:"id" validate:"required,uuid4"`
	Resolved bool   `json:"resolved"`
}

// DeficiencyDraft describes a deficiency to raise during the inspection.
// MaterialID may carry the sentinel value "other"; the draft then references
// a material outside the regular catalog via OtherMaterialID.
type DeficiencyDraft struct {
	TypeID               string `json:"typeId" validate:"required,uuid4"`
	Description          string `json:"description" validate:"max=200"`
	Comment              string `json:"comment" validate:"max=1000"`
	ItemID               string `json:"itemId,omitempty"`
	MaterialID           string `json:"materialId,omitempty"`
	OtherMaterialID      string `json:"otherMaterialId,omitempty"`
	OtherMaterialGroupID string `json:"otherMaterialGroupId,omitempty"`
}

// SaveCadetInspectionRequest is the per-cadet transactional submission.
type SaveCadetInspectionRequest struct {
	UniformComplete bool                   `json:"uniformComplete"`
	Resolutions     []DeficiencyResolution `json:"oldDeficiencyList" validate:"dive"`
	NewDeficiencies []DeficiencyDraft      `json:"newDeficiencyList" validate:"dive"`
}

// DeficiencyTypeItem is a deficiency category offered on the form.
type DeficiencyTypeItem struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Dependent string `db:"dependent" json:"dependent"`
	Relation  string `db:"relation" json:"relation"`
}
