package models

import "time"

// InspectionState is the derived lifecycle state of an organization's
// inspection schedule. It is never stored; every transition and every status
// read goes through DeriveInspectionState.
type InspectionState string

const (
	// InspectionStateNone means no inspection is scheduled for today.
	InspectionStateNone InspectionState = "none"
	// InspectionStatePlanned means today's inspection has not started yet.
	InspectionStatePlanned InspectionState = "planned"
	// InspectionStateActive means today's inspection is running.
	InspectionStateActive InspectionState = "active"
	// InspectionStateFinished means today's inspection has been stopped.
	InspectionStateFinished InspectionState = "finished"
	// InspectionStateUnfinished means a past inspection was started but
	// never stopped; it blocks new starts until stopped.
	InspectionStateUnfinished InspectionState = "unfinished"
)

// Inspection is a scheduled review event. Name and date are each unique among
// all inspections of the organization, across all time and any state.
type Inspection struct {
	ID             string     `db:"id" json:"id"`
	OrganizationID string     `db:"organization_id" json:"organization_id"`
	Name           string     `db:"name" json:"name"`
	Date           time.Time  `db:"date" json:"date"`
	StartedAt      *time.Time `db:"started_at" json:"started_at,omitempty"`
	EndedAt        *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Started reports whether the inspection has ever been started.
func (i Inspection) Started() bool {
	return i.StartedAt != nil
}

// CadetInspection records that a cadet's form was submitted during an
// inspection. Unique per (inspection, cadet).
type CadetInspection struct {
	ID              string    `db:"id" json:"id"`
	InspectionID    string    `db:"inspection_id" json:"inspection_id"`
	CadetID         string    `db:"cadet_id" json:"cadet_id"`
	UniformComplete bool      `db:"uniform_complete" json:"uniform_complete"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Deregistration marks a cadet excluded from an inspection's scope.
type Deregistration struct {
	InspectionID string    `db:"inspection_id" json:"inspection_id"`
	CadetID      string    `db:"cadet_id" json:"cadet_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateBefore reports whether a falls on an earlier calendar day than b.
func DateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// DeriveInspectionState evaluates the lifecycle state for an organization
// from its inspection rows. Precedence: a started, unstopped inspection with
// a past date always yields unfinished; otherwise the state follows today's
// inspection, if any. The returned inspection is the one the state refers to
// (nil for none).
func DeriveInspectionState(inspections []Inspection, today time.Time) (InspectionState, *Inspection) {
	var todays *Inspection
	for idx := range inspections {
		insp := &inspections[idx]
		if insp.StartedAt != nil && insp.EndedAt == nil && DateBefore(insp.Date, today) {
			return InspectionStateUnfinished, insp
		}
		if todays == nil && SameDate(insp.Date, today) {
			todays = insp
		}
	}

	if todays == nil {
		return InspectionStateNone, nil
	}

	switch {
	case todays.StartedAt == nil:
		return InspectionStatePlanned, todays
	case todays.EndedAt != nil:
		return InspectionStateFinished, todays
	default:
		return InspectionStateActive, todays
	}
}
