package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeficiencyRepositoryCarryOver(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeficiencyRepository(db)

	created := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "type_id", "type_name", "description", "comment", "created_at", "resolved"}).
		AddRow("def-1", "type-1", "Damaged", "Jacket 12", "", created, false).
		AddRow("def-2", "type-2", "Missing", "Boots 3", "left boot", created.Add(time.Hour), true)

	mock.ExpectQuery(regexp.QuoteMeta("FROM deficiencies d")).
		WithArgs("org-1", "cadet-1", "insp-2").
		WillReturnRows(rows)

	old, err := repo.CarryOver(context.Background(), "org-1", "cadet-1", "insp-2")
	require.NoError(t, err)
	require.Len(t, old, 2)
	assert.Equal(t, "def-1", old[0].ID)
	assert.False(t, old[0].Resolved)
	assert.True(t, old[1].Resolved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Pins the carry-over window: rows raised by the current inspection are
// excluded (with NULL created_by_inspection treated as pre-existing), and
// resolved rows stay visible only while the current inspection resolved them.
func TestDeficiencyRepositoryCarryOverWindowPredicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeficiencyRepository(db)

	created := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)
	pattern := regexp.QuoteMeta("AND (d.created_by_inspection IS NULL OR d.created_by_inspection <> $3)") +
		`\s+` +
		regexp.QuoteMeta("AND (d.resolved_at IS NULL OR d.resolved_by_inspection = $3)")

	// def-manual has no creating inspection, def-current-res was resolved
	// during the current inspection and therefore still shows, flagged.
	rows := sqlmock.NewRows([]string{"id", "type_id", "type_name", "description", "comment", "created_at", "resolved"}).
		AddRow("def-manual", "type-1", "Damaged", "Jacket 12", "", created, false).
		AddRow("def-current-res", "type-2", "Missing", "Boots 3", "", created.Add(time.Hour), true)

	mock.ExpectQuery(pattern).
		WithArgs("org-1", "cadet-1", "insp-2").
		WillReturnRows(rows)

	old, err := repo.CarryOver(context.Background(), "org-1", "cadet-1", "insp-2")
	require.NoError(t, err)
	require.Len(t, old, 2)
	assert.False(t, old[0].Resolved)
	assert.True(t, old[1].Resolved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeficiencyRepositoryResolveMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeficiencyRepository(db)

	now := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE deficiencies SET resolved_at")).
		WithArgs(now, "insp-1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Resolve(context.Background(), "missing", "insp-1", now)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeficiencyRepositoryCountActiveAsOf(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeficiencyRepository(db)

	asOf := time.Date(2026, time.March, 10, 23, 59, 59, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("org-1", asOf).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountActiveAsOf(context.Background(), "org-1", asOf)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
