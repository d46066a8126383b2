package dto

import (
	"time"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
)

// CreateInspectionRequest defines the payload for scheduling an inspection.
type CreateInspectionRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// UpdateInspectionRequest defines the payload for editing a planned inspection.
type UpdateInspectionRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// StopInspectionRequest carries the time-of-day at which the inspection ended.
type StopInspectionRequest struct {
	Time string `json:"time" validate:"required,datetime=15:04"`
}

// InspectionItem is the list/detail representation of an inspection.
type InspectionItem struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Date      string     `json:"date"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

// NewInspectionItem maps a model row to its API shape.
func NewInspectionItem(insp models.Inspection) InspectionItem {
	return InspectionItem{
		ID:        insp.ID,
		Name:      insp.Name,
		Date:      insp.Date.Format("2006-01-02"),
		StartedAt: insp.StartedAt,
		EndedAt:   insp.EndedAt,
	}
}

// InspectionStateResponse is the derived lifecycle state plus headline counts.
type InspectionStateResponse struct {
	State              models.InspectionState `json:"state"`
	Inspection         *InspectionItem        `json:"inspection,omitempty"`
	ActiveCadets       int                    `json:"activeCadets"`
	InspectedCadets    int                    `json:"inspectedCadets"`
	DeregisteredCadets int                    `json:"deregisteredCadets"`
}

// DeregistrationItem is a deregistered cadet within an inspection's scope.
type DeregistrationItem struct {
	CadetID   string    `db:"cadet_id" json:"cadetId"`
	CadetName string    `db:"cadet_name" json:"cadetName"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
