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

// CadetInspectionRepository persists the per-cadet inspection submissions.
type CadetInspectionRepository struct {
	db *sqlx.DB
}

// NewCadetInspectionRepository constructs the repository.
func NewCadetInspectionRepository(db *sqlx.DB) *CadetInspectionRepository {
	return &CadetInspectionRepository{db: db}
}

// ResolutionParams toggles the resolution state of one deficiency.
type ResolutionParams struct {
	DeficiencyID string
	Resolved     bool
}

// SaveParams holds the full per-cadet submission. NewDeficiencies are fully
// constructed rows (targets already validated); ids are generated here.
// OrganizationID bounds the resolution toggles: rows of other tenants are
// never touched, whatever ids the submission carries.
type SaveParams struct {
	OrganizationID  string
	InspectionID    string
	CadetID         string
	UniformComplete bool
	Resolutions     []ResolutionParams
	NewDeficiencies []models.Deficiency
	Now             time.Time
}

// Save commits one cadet's inspection submission atomically: resolution
// toggles, newly raised deficiencies and the CadetInspection upsert either
// all land or none do.
//
// The resolution updates are conditional so replays are no-ops and a
// resolution recorded by a past inspection is never overwritten: resolve only
// touches unresolved rows, unresolve only rows this inspection resolved.
func (r *CadetInspectionRepository) Save(ctx context.Context, params SaveParams) (ci *models.CadetInspection, err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("begin cadet inspection save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const resolveQuery = `
UPDATE deficiencies d SET resolved_at = $1, resolved_by_inspection = $2
FROM deficiency_types dt
WHERE d.id = $3 AND dt.id = d.type_id AND dt.organization_id = $4
	AND d.resolved_at IS NULL`
	const unresolveQuery = `
UPDATE deficiencies d SET resolved_at = NULL, resolved_by_inspection = NULL
FROM deficiency_types dt
WHERE d.id = $1 AND dt.id = d.type_id AND dt.organization_id = $3
	AND d.resolved_by_inspection = $2`

	for _, res := range params.Resolutions {
		if res.Resolved {
			if _, err = tx.ExecContext(ctx, resolveQuery, params.Now, params.InspectionID, res.DeficiencyID, params.OrganizationID); err != nil {
				return nil, fmt.Errorf("resolve deficiency %s: %w", res.DeficiencyID, err)
			}
		} else {
			if _, err = tx.ExecContext(ctx, unresolveQuery, res.DeficiencyID, params.InspectionID, params.OrganizationID); err != nil {
				return nil, fmt.Errorf("unresolve deficiency %s: %w", res.DeficiencyID, err)
			}
		}
	}

	const insertQuery = `
INSERT INTO deficiencies (id, type_id, cadet_id, item_id, material_id, description, comment, created_at, created_by_inspection)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for idx := range params.NewDeficiencies {
		d := &params.NewDeficiencies[idx]
		d.ID = uuid.NewString()
		if _, err = tx.ExecContext(ctx, insertQuery, d.ID, d.TypeID, d.CadetID, d.ItemID, d.MaterialID,
			d.Description, d.Comment, d.CreatedAt, d.CreatedByInspection); err != nil {
			return nil, fmt.Errorf("insert deficiency: %w", err)
		}
	}

	const upsertQuery = `
INSERT INTO cadet_inspections (id, inspection_id, cadet_id, uniform_complete, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (inspection_id, cadet_id)
DO UPDATE SET uniform_complete = EXCLUDED.uniform_complete, updated_at = EXCLUDED.updated_at
RETURNING id, inspection_id, cadet_id, uniform_complete, created_at, updated_at`

	var row models.CadetInspection
	if err = tx.GetContext(ctx, &row, upsertQuery, uuid.NewString(), params.InspectionID, params.CadetID,
		params.UniformComplete, params.Now); err != nil {
		return nil, fmt.Errorf("upsert cadet inspection: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cadet inspection save: %w", err)
	}
	return &row, nil
}

// FindByInspectionAndCadet fetches the submission row, if any.
func (r *CadetInspectionRepository) FindByInspectionAndCadet(ctx context.Context, inspectionID, cadetID string) (*models.CadetInspection, error) {
	const query = `
SELECT id, inspection_id, cadet_id, uniform_complete, created_at, updated_at
FROM cadet_inspections
WHERE inspection_id = $1 AND cadet_id = $2`

	var row models.CadetInspection
	if err := r.db.GetContext(ctx, &row, query, inspectionID, cadetID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get cadet inspection: %w", err)
	}
	return &row, nil
}

// CountByInspection counts submitted forms for an inspection.
func (r *CadetInspectionRepository) CountByInspection(ctx context.Context, inspectionID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM cadet_inspections WHERE inspection_id = $1`
	if err := r.db.GetContext(ctx, &count, query, inspectionID); err != nil {
		return 0, fmt.Errorf("count cadet inspections: %w", err)
	}
	return count, nil
}
