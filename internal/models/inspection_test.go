package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	base := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func ptr(t time.Time) *time.Time { return &t }

func TestDeriveInspectionState(t *testing.T) {
	today := day(0).Add(9 * time.Hour)

	tests := []struct {
		name        string
		inspections []Inspection
		want        InspectionState
		wantID      string
	}{
		{
			name: "no inspections",
			want: InspectionStateNone,
		},
		{
			name: "planned today",
			inspections: []Inspection{
				{ID: "a", Date: day(0)},
			},
			want:   InspectionStatePlanned,
			wantID: "a",
		},
		{
			name: "active today",
			inspections: []Inspection{
				{ID: "a", Date: day(0), StartedAt: ptr(today)},
			},
			want:   InspectionStateActive,
			wantID: "a",
		},
		{
			name: "finished today",
			inspections: []Inspection{
				{ID: "a", Date: day(0), StartedAt: ptr(today), EndedAt: ptr(today.Add(2 * time.Hour))},
			},
			want:   InspectionStateFinished,
			wantID: "a",
		},
		{
			name: "unfinished past inspection wins over today's planned",
			inspections: []Inspection{
				{ID: "today", Date: day(0)},
				{ID: "stale", Date: day(-3), StartedAt: ptr(day(-3).Add(8 * time.Hour))},
			},
			want:   InspectionStateUnfinished,
			wantID: "stale",
		},
		{
			name: "past inspection stopped does not block",
			inspections: []Inspection{
				{ID: "done", Date: day(-3), StartedAt: ptr(day(-3).Add(8 * time.Hour)), EndedAt: ptr(day(-3).Add(10 * time.Hour))},
				{ID: "today", Date: day(0)},
			},
			want:   InspectionStatePlanned,
			wantID: "today",
		},
		{
			name: "future planned inspection is invisible today",
			inspections: []Inspection{
				{ID: "future", Date: day(5)},
			},
			want: InspectionStateNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, insp := DeriveInspectionState(tt.inspections, today)
			assert.Equal(t, tt.want, state)
			if tt.wantID == "" {
				assert.Nil(t, insp)
				return
			}
			require.NotNil(t, insp)
			assert.Equal(t, tt.wantID, insp.ID)
		})
	}
}

func TestDeriveInspectionStateMidnightBoundary(t *testing.T) {
	// A started inspection only becomes blocking once the calendar day has
	// rolled over, regardless of clock time.
	started := day(0).Add(23*time.Hour + 50*time.Minute)
	rows := []Inspection{{ID: "a", Date: day(0), StartedAt: &started}}

	state, _ := DeriveInspectionState(rows, day(0).Add(23*time.Hour+59*time.Minute))
	assert.Equal(t, InspectionStateActive, state)

	state, insp := DeriveInspectionState(rows, day(1).Add(1*time.Minute))
	assert.Equal(t, InspectionStateUnfinished, state)
	require.NotNil(t, insp)
	assert.Equal(t, "a", insp.ID)
}

func TestSameDateAndDateBefore(t *testing.T) {
	morning := time.Date(2026, time.March, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC)
	next := time.Date(2026, time.March, 11, 0, 0, 1, 0, time.UTC)

	assert.True(t, SameDate(morning, evening))
	assert.False(t, SameDate(evening, next))
	assert.True(t, DateBefore(evening, next))
	assert.False(t, DateBefore(evening, morning))
}
