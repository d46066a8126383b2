package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
)

const deficiencyColumns = `id, type_id, cadet_id, item_id, material_id, description, comment,
	created_at, created_by_inspection, resolved_at, resolved_by_inspection`

// DeficiencyRepository persists deficiencies and deficiency types.
type DeficiencyRepository struct {
	db *sqlx.DB
}

// NewDeficiencyRepository constructs the repository.
func NewDeficiencyRepository(db *sqlx.DB) *DeficiencyRepository {
	return &DeficiencyRepository{db: db}
}

// ListTypes returns the organization's deficiency categories.
func (r *DeficiencyRepository) ListTypes(ctx context.Context, orgID string) ([]models.DeficiencyType, error) {
	const query = `
SELECT id, organization_id, name, dependent, relation, deleted_at
FROM deficiency_types
WHERE organization_id = $1 AND deleted_at IS NULL
ORDER BY name ASC`

	var types []models.DeficiencyType
	if err := r.db.SelectContext(ctx, &types, query, orgID); err != nil {
		return nil, fmt.Errorf("list deficiency types: %w", err)
	}
	return types, nil
}

// FindTypeByID fetches a single deficiency type.
func (r *DeficiencyRepository) FindTypeByID(ctx context.Context, id string) (*models.DeficiencyType, error) {
	const query = `
SELECT id, organization_id, name, dependent, relation, deleted_at
FROM deficiency_types
WHERE id = $1 AND deleted_at IS NULL`

	var t models.DeficiencyType
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get deficiency type: %w", err)
	}
	return &t, nil
}

// FindByID fetches a single deficiency.
func (r *DeficiencyRepository) FindByID(ctx context.Context, id string) (*models.Deficiency, error) {
	const query = `SELECT ` + deficiencyColumns + ` FROM deficiencies WHERE id = $1`

	var d models.Deficiency
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get deficiency: %w", err)
	}
	return &d, nil
}

// Create inserts a deficiency. The caller supplies a fully constructed row
// except for the id, which is generated here.
func (r *DeficiencyRepository) Create(ctx context.Context, d *models.Deficiency) error {
	d.ID = uuid.NewString()
	const query = `
INSERT INTO deficiencies (id, type_id, cadet_id, item_id, material_id, description, comment, created_at, created_by_inspection)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query, d.ID, d.TypeID, d.CadetID, d.ItemID, d.MaterialID,
		d.Description, d.Comment, d.CreatedAt, d.CreatedByInspection); err != nil {
		return fmt.Errorf("insert deficiency: %w", err)
	}
	return nil
}

// Resolve stamps a deficiency as resolved by the given inspection. The base
// primitive carries no guard against re-resolution; callers that must not
// overwrite past attribution use the conditional save in the recorder.
func (r *DeficiencyRepository) Resolve(ctx context.Context, id, inspectionID string, at time.Time) error {
	const query = `UPDATE deficiencies SET resolved_at = $1, resolved_by_inspection = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, at, inspectionID, id)
	if err != nil {
		return fmt.Errorf("resolve deficiency: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Unresolve clears both resolution fields.
func (r *DeficiencyRepository) Unresolve(ctx context.Context, id string) error {
	const query = `UPDATE deficiencies SET resolved_at = NULL, resolved_by_inspection = NULL WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("unresolve deficiency: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CarryOver returns the deficiencies still relevant for a cadet during the
// current inspection: raised against the cadet directly or against an item
// the cadet currently holds, not created by the current inspection, and
// either unresolved or resolved within the current inspection. A row resolved
// in a past inspection never reappears.
func (r *DeficiencyRepository) CarryOver(ctx context.Context, orgID, cadetID, currentInspectionID string) ([]dto.OldDeficiency, error) {
	const query = `
SELECT d.id, d.type_id, dt.name AS type_name, d.description, d.comment, d.created_at,
	(d.resolved_at IS NOT NULL) AS resolved
FROM deficiencies d
JOIN deficiency_types dt ON dt.id = d.type_id
WHERE dt.organization_id = $1
	AND (d.cadet_id = $2 OR EXISTS (
		SELECT 1 FROM issuances i
		WHERE i.item_id = d.item_id AND i.cadet_id = $2 AND i.returned_at IS NULL))
	AND (d.created_by_inspection IS NULL OR d.created_by_inspection <> $3)
	AND (d.resolved_at IS NULL OR d.resolved_by_inspection = $3)
ORDER BY d.created_at ASC, d.description ASC`

	var rows []dto.OldDeficiency
	if err := r.db.SelectContext(ctx, &rows, query, orgID, cadetID, currentInspectionID); err != nil {
		return nil, fmt.Errorf("load carry-over deficiencies: %w", err)
	}
	return rows, nil
}

// UnresolvedForCadet lists a cadet's unresolved deficiencies outside any
// inspection session.
func (r *DeficiencyRepository) UnresolvedForCadet(ctx context.Context, orgID, cadetID string) ([]dto.OldDeficiency, error) {
	const query = `
SELECT d.id, d.type_id, dt.name AS type_name, d.description, d.comment, d.created_at,
	FALSE AS resolved
FROM deficiencies d
JOIN deficiency_types dt ON dt.id = d.type_id
WHERE dt.organization_id = $1
	AND (d.cadet_id = $2 OR EXISTS (
		SELECT 1 FROM issuances i
		WHERE i.item_id = d.item_id AND i.cadet_id = $2 AND i.returned_at IS NULL))
	AND d.resolved_at IS NULL
ORDER BY d.created_at ASC, d.description ASC`

	var rows []dto.OldDeficiency
	if err := r.db.SelectContext(ctx, &rows, query, orgID, cadetID); err != nil {
		return nil, fmt.Errorf("load unresolved deficiencies: %w", err)
	}
	return rows, nil
}

// CreatedByInspectionForCadet lists the deficiencies raised for a cadet
// during the given inspection, for redisplay on the form.
func (r *DeficiencyRepository) CreatedByInspectionForCadet(ctx context.Context, inspectionID, cadetID string) ([]dto.NewDeficiency, error) {
	const query = `
SELECT d.id, d.type_id, d.description, d.comment, d.item_id, d.material_id,
	NULL AS other_material_id, NULL AS other_material_group_id, d.created_at
FROM deficiencies d
WHERE d.created_by_inspection = $1
	AND (d.cadet_id = $2 OR EXISTS (
		SELECT 1 FROM issuances i
		WHERE i.item_id = d.item_id AND i.cadet_id = $2 AND i.returned_at IS NULL))
ORDER BY d.created_at ASC, d.description ASC`

	var rows []dto.NewDeficiency
	if err := r.db.SelectContext(ctx, &rows, query, inspectionID, cadetID); err != nil {
		return nil, fmt.Errorf("load new deficiencies: %w", err)
	}
	return rows, nil
}

// CountCreatedByInspection counts deficiencies raised during an inspection.
func (r *DeficiencyRepository) CountCreatedByInspection(ctx context.Context, inspectionID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM deficiencies WHERE created_by_inspection = $1`
	if err := r.db.GetContext(ctx, &count, query, inspectionID); err != nil {
		return 0, fmt.Errorf("count created deficiencies: %w", err)
	}
	return count, nil
}

// CountResolvedByInspection counts deficiencies resolved during an inspection.
func (r *DeficiencyRepository) CountResolvedByInspection(ctx context.Context, inspectionID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM deficiencies WHERE resolved_by_inspection = $1`
	if err := r.db.GetContext(ctx, &count, query, inspectionID); err != nil {
		return 0, fmt.Errorf("count resolved deficiencies: %w", err)
	}
	return count, nil
}

// CountActiveAsOf counts the organization's deficiencies that were active as
// of the given point in time, independent of anything recorded afterwards.
func (r *DeficiencyRepository) CountActiveAsOf(ctx context.Context, orgID string, asOf time.Time) (int, error) {
	var count int
	const query = `
SELECT COUNT(*)
FROM deficiencies d
JOIN deficiency_types dt ON dt.id = d.type_id
WHERE dt.organization_id = $1
	AND d.created_at <= $2
	AND (d.resolved_at IS NULL OR d.resolved_at > $2)`
	if err := r.db.GetContext(ctx, &count, query, orgID, asOf); err != nil {
		return 0, fmt.Errorf("count active deficiencies: %w", err)
	}
	return count, nil
}

// CadetBreakdownAsOf returns the per-cadet open/newly-closed/overall-closed
// deficiency counts relative to the inspection's date.
func (r *DeficiencyRepository) CadetBreakdownAsOf(ctx context.Context, orgID, inspectionID string, asOf time.Time) ([]dto.CadetReviewEntry, error) {
	const query = `
SELECT c.id AS cadet_id,
	c.first_name || ' ' || c.last_name AS cadet_name,
	COUNT(d.id) FILTER (WHERE d.created_at <= $3 AND (d.resolved_at IS NULL OR d.resolved_at > $3)) AS open,
	COUNT(d.id) FILTER (WHERE d.resolved_by_inspection = $2) AS newly_closed,
	COUNT(d.id) FILTER (WHERE d.resolved_at IS NOT NULL AND d.resolved_at <= $3) AS overall_closed
FROM cadets c
LEFT JOIN deficiencies d
	ON d.type_id IN (SELECT id FROM deficiency_types WHERE organization_id = $1)
	AND (d.cadet_id = c.id OR EXISTS (
		SELECT 1 FROM issuances i
		WHERE i.item_id = d.item_id AND i.cadet_id = c.id AND i.returned_at IS NULL))
WHERE c.organization_id = $1 AND c.active
GROUP BY c.id, cadet_name
ORDER BY cadet_name ASC`

	var rows []dto.CadetReviewEntry
	if err := r.db.SelectContext(ctx, &rows, query, orgID, inspectionID, asOf); err != nil {
		return nil, fmt.Errorf("load cadet deficiency breakdown: %w", err)
	}
	return rows, nil
}
