package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
)

const inspectionColumns = `id, organization_id, name, date, started_at, ended_at, created_at, updated_at`

// InspectionRepository provides persistence for the inspection schedule and
// its lifecycle transitions. Every check-then-act sequence runs as a single
// serializable transaction so two concurrent starts cannot both succeed.
type InspectionRepository struct {
	db *sqlx.DB
}

// NewInspectionRepository constructs the repository.
func NewInspectionRepository(db *sqlx.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

func serializableTx(ctx context.Context, db *sqlx.DB) (*sqlx.Tx, error) {
	return db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// FindStateRows returns the rows the state derivation needs: every inspection
// that is started-but-unstopped plus today's inspection, if any.
func (r *InspectionRepository) FindStateRows(ctx context.Context, orgID string, today time.Time) ([]models.Inspection, error) {
	const query = `
SELECT ` + inspectionColumns + `
FROM inspections
WHERE organization_id = $1
	AND ((started_at IS NOT NULL AND ended_at IS NULL) OR date = $2::date)
ORDER BY date ASC`

	var rows []models.Inspection
	if err := r.db.SelectContext(ctx, &rows, query, orgID, today.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("load inspection state rows: %w", err)
	}
	return rows, nil
}

// FindByID fetches a single inspection.
func (r *InspectionRepository) FindByID(ctx context.Context, id string) (*models.Inspection, error) {
	const query = `SELECT ` + inspectionColumns + ` FROM inspections WHERE id = $1`

	var insp models.Inspection
	if err := r.db.GetContext(ctx, &insp, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get inspection: %w", err)
	}
	return &insp, nil
}

// ListPlanned returns inspections that are still actionable: scheduled today
// or later and not yet finished, or started in the past and never stopped.
func (r *InspectionRepository) ListPlanned(ctx context.Context, orgID string, today time.Time) ([]models.Inspection, error) {
	const query = `
SELECT ` + inspectionColumns + `
FROM inspections
WHERE organization_id = $1
	AND ended_at IS NULL
	AND (date >= $2::date OR started_at IS NOT NULL)
ORDER BY date ASC`

	var rows []models.Inspection
	if err := r.db.SelectContext(ctx, &rows, query, orgID, today.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("list planned inspections: %w", err)
	}
	return rows, nil
}

// Create inserts a new planned inspection after verifying name and date are
// unique within the organization. Returns ErrDuplicateInspection on collision.
func (r *InspectionRepository) Create(ctx context.Context, orgID, name string, date time.Time, now time.Time) (insp *models.Inspection, err error) {
	tx, err := serializableTx(ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("begin create inspection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists bool
	const dupQuery = `SELECT EXISTS (
	SELECT 1 FROM inspections WHERE organization_id = $1 AND (name = $2 OR date = $3::date))`
	if err = tx.GetContext(ctx, &exists, dupQuery, orgID, name, date.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("check inspection uniqueness: %w", err)
	}
	if exists {
		err = ErrDuplicateInspection
		return nil, err
	}

	created := models.Inspection{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Name:           name,
		Date:           date,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	const insertQuery = `
INSERT INTO inspections (id, organization_id, name, date, created_at, updated_at)
VALUES ($1, $2, $3, $4::date, $5, $6)`
	if _, err = tx.ExecContext(ctx, insertQuery, created.ID, orgID, name, date.Format("2006-01-02"), now, now); err != nil {
		return nil, fmt.Errorf("insert inspection: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create inspection: %w", err)
	}
	return &created, nil
}

// Update edits a planned inspection. Returns ErrInspectionStarted once
// started and ErrDuplicateInspection when the new name or date collides with
// another inspection of the organization.
func (r *InspectionRepository) Update(ctx context.Context, id, name string, date time.Time, now time.Time) (err error) {
	tx, err := serializableTx(ctx, r.db)
	if err != nil {
		return fmt.Errorf("begin update inspection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current models.Inspection
	const lockQuery = `SELECT ` + inspectionColumns + ` FROM inspections WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, lockQuery, id); err != nil {
		return fmt.Errorf("lock inspection: %w", err)
	}
	if current.StartedAt != nil {
		err = ErrInspectionStarted
		return err
	}

	var exists bool
	const dupQuery = `SELECT EXISTS (
	SELECT 1 FROM inspections
	WHERE organization_id = $1 AND id <> $2 AND (name = $3 OR date = $4::date))`
	if err = tx.GetContext(ctx, &exists, dupQuery, current.OrganizationID, id, name, date.Format("2006-01-02")); err != nil {
		return fmt.Errorf("check inspection uniqueness: %w", err)
	}
	if exists {
		err = ErrDuplicateInspection
		return err
	}

	const updateQuery = `UPDATE inspections SET name = $1, date = $2::date, updated_at = $3 WHERE id = $4`
	if _, err = tx.ExecContext(ctx, updateQuery, name, date.Format("2006-01-02"), now, id); err != nil {
		return fmt.Errorf("update inspection: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update inspection: %w", err)
	}
	return nil
}

// Delete removes a planned inspection. Returns ErrInspectionStarted once the
// inspection has been started.
func (r *InspectionRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := serializableTx(ctx, r.db)
	if err != nil {
		return fmt.Errorf("begin delete inspection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current models.Inspection
	const lockQuery = `SELECT ` + inspectionColumns + ` FROM inspections WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, lockQuery, id); err != nil {
		return fmt.Errorf("lock inspection: %w", err)
	}
	if current.StartedAt != nil {
		err = ErrInspectionStarted
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM inspections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete inspection: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete inspection: %w", err)
	}
	return nil
}

// StartToday starts (or reopens) today's inspection for the organization.
// The lifecycle state is re-derived from locked rows inside the transaction;
// the sentinel errors mirror the derivation outcomes.
func (r *InspectionRepository) StartToday(ctx context.Context, orgID string, now time.Time) (insp *models.Inspection, err error) {
	tx, err := serializableTx(ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("begin start inspection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const lockQuery = `
SELECT ` + inspectionColumns + `
FROM inspections
WHERE organization_id = $1
	AND ((started_at IS NOT NULL AND ended_at IS NULL) OR date = $2::date)
ORDER BY date ASC
FOR UPDATE`

	var rows []models.Inspection
	if err = tx.SelectContext(ctx, &rows, lockQuery, orgID, now.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("lock inspection state rows: %w", err)
	}

	state, target := models.DeriveInspectionState(rows, now)
	switch state {
	case models.InspectionStateUnfinished:
		err = ErrUnfinishedBlocking
		return nil, err
	case models.InspectionStateNone:
		err = ErrNoInspectionToday
		return nil, err
	case models.InspectionStateActive:
		err = ErrAlreadyStarted
		return nil, err
	case models.InspectionStateFinished:
		// Reopen: a finished inspection restarted on the same day clears
		// its end timestamp.
		const reopenQuery = `UPDATE inspections SET ended_at = NULL, updated_at = $1 WHERE id = $2`
		if _, err = tx.ExecContext(ctx, reopenQuery, now, target.ID); err != nil {
			return nil, fmt.Errorf("reopen inspection: %w", err)
		}
		target.EndedAt = nil
	default:
		const startQuery = `UPDATE inspections SET started_at = $1, updated_at = $1 WHERE id = $2`
		if _, err = tx.ExecContext(ctx, startQuery, now, target.ID); err != nil {
			return nil, fmt.Errorf("start inspection: %w", err)
		}
		startedAt := now
		target.StartedAt = &startedAt
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit start inspection: %w", err)
	}
	return target, nil
}

// Stop finishes a started inspection. timeOfDay is the offset since midnight
// on the inspection's date; it must not precede the start's time-of-day.
func (r *InspectionRepository) Stop(ctx context.Context, id string, timeOfDay time.Duration, now time.Time) (insp *models.Inspection, err error) {
	tx, err := serializableTx(ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("begin stop inspection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current models.Inspection
	const lockQuery = `SELECT ` + inspectionColumns + ` FROM inspections WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, lockQuery, id); err != nil {
		return nil, fmt.Errorf("lock inspection: %w", err)
	}
	if current.StartedAt == nil {
		err = ErrNotStarted
		return nil, err
	}
	if current.EndedAt != nil {
		err = ErrAlreadyFinished
		return nil, err
	}

	// Time-of-day comparisons happen in the zone of the inspection's date so
	// the guard does not drift with the server's local zone.
	started := current.StartedAt.In(current.Date.Location())
	startOfDay := time.Duration(started.Hour())*time.Hour + time.Duration(started.Minute())*time.Minute
	if timeOfDay < startOfDay {
		err = ErrStopBeforeStart
		return nil, err
	}

	y, m, d := current.Date.Date()
	endedAt := time.Date(y, m, d, 0, 0, 0, 0, current.Date.Location()).Add(timeOfDay)

	const stopQuery = `UPDATE inspections SET ended_at = $1, updated_at = $2 WHERE id = $3`
	if _, err = tx.ExecContext(ctx, stopQuery, endedAt, now, id); err != nil {
		return nil, fmt.Errorf("stop inspection: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit stop inspection: %w", err)
	}
	current.EndedAt = &endedAt
	return &current, nil
}
