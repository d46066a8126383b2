package dto

import "time"

// CadetReviewEntry is the per-cadet deficiency breakdown of a review, all
// counts relative to the inspection's date.
type CadetReviewEntry struct {
	CadetID       string `db:"cadet_id" json:"cadetId"`
	CadetName     string `db:"cadet_name" json:"cadetName"`
	Open          int    `db:"open" json:"open"`
	NewlyClosed   int    `db:"newly_closed" json:"newlyClosed"`
	OverallClosed int    `db:"overall_closed" json:"overallClosed"`
}

// InspectionReview is the point-in-time snapshot produced when an inspection
// is stopped. It is computed as of the inspection's date so it stays
// reproducible after later inspections occur.
type InspectionReview struct {
	InspectionID         string             `json:"inspectionId"`
	Name                 string             `json:"name"`
	Date                 string             `json:"date"`
	StartedAt            *time.Time         `json:"startedAt,omitempty"`
	EndedAt              *time.Time         `json:"endedAt,omitempty"`
	ActiveCadets         int                `json:"activeCadets"`
	DeregisteredCadets   int                `json:"deregisteredCadets"`
	InspectedCadets      int                `json:"inspectedCadets"`
	NewDeficiencies      int                `json:"newDeficiencies"`
	ResolvedDeficiencies int                `json:"resolvedDeficiencies"`
	ActiveDeficiencies   int                `json:"activeDeficiencies"`
	CadetBreakdown       []CadetReviewEntry `json:"cadetBreakdown"`
	GeneratedAt          time.Time          `json:"generatedAt"`
}
