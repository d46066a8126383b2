package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
)

func TestCadetInspectionRepositorySave(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCadetInspectionRepository(db)

	now := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	cadetID := "cadet-1"
	inspectionID := "insp-1"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE deficiencies d SET resolved_at = $1")).
		WithArgs(now, inspectionID, "def-resolved", "org-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE deficiencies d SET resolved_at = NULL")).
		WithArgs("def-reopened", inspectionID, "org-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deficiencies")).
		WithArgs(sqlmock.AnyArg(), "type-1", "cadet-1", nil, nil, "Missing boots", "", now, "insp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cadet_inspections")).
		WithArgs(sqlmock.AnyArg(), inspectionID, cadetID, true, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "inspection_id", "cadet_id", "uniform_complete", "created_at", "updated_at"}).
			AddRow("ci-1", inspectionID, cadetID, true, now, now))
	mock.ExpectCommit()

	ci, err := repo.Save(context.Background(), SaveParams{
		OrganizationID:  "org-1",
		InspectionID:    inspectionID,
		CadetID:         cadetID,
		UniformComplete: true,
		Resolutions: []ResolutionParams{
			{DeficiencyID: "def-resolved", Resolved: true},
			{DeficiencyID: "def-reopened", Resolved: false},
		},
		NewDeficiencies: []models.Deficiency{
			{
				TypeID:              "type-1",
				CadetID:             &cadetID,
				Description:         "Missing boots",
				CreatedAt:           now,
				CreatedByInspection: &inspectionID,
			},
		},
		Now: now,
	})
	require.NoError(t, err)
	assert.Equal(t, "ci-1", ci.ID)
	assert.True(t, ci.UniformComplete)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCadetInspectionRepositorySaveRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCadetInspectionRepository(db)

	now := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	boom := errors.New("constraint violation")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE deficiencies d SET resolved_at = $1")).
		WithArgs(now, "insp-1", "def-1", "org-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deficiencies")).
		WillReturnError(boom)
	mock.ExpectRollback()

	cadetID := "cadet-1"
	inspectionID := "insp-1"
	_, err := repo.Save(context.Background(), SaveParams{
		OrganizationID:  "org-1",
		InspectionID:    inspectionID,
		CadetID:         cadetID,
		UniformComplete: false,
		Resolutions:     []ResolutionParams{{DeficiencyID: "def-1", Resolved: true}},
		NewDeficiencies: []models.Deficiency{
			{TypeID: "type-1", CadetID: &cadetID, Description: "Torn jacket", CreatedAt: now, CreatedByInspection: &inspectionID},
		},
		Now: now,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCadetInspectionRepositoryFindByInspectionAndCadetMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCadetInspectionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cadet_inspections")).
		WithArgs("insp-1", "cadet-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ci, err := repo.FindByInspectionAndCadet(context.Background(), "insp-1", "cadet-1")
	require.NoError(t, err)
	assert.Nil(t, ci)
	assert.NoError(t, mock.ExpectationsWereMet())
}
