package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
)

// UniformRepository reads the uniform catalog and issuance history. Catalog
// administration and issuing live in separate services.
type UniformRepository struct {
	db *sqlx.DB
}

// NewUniformRepository constructs the repository.
func NewUniformRepository(db *sqlx.DB) *UniformRepository {
	return &UniformRepository{db: db}
}

const uniformTypeColumns = `id, organization_id, name, acronym, uses_generations, uses_sizes,
	required_quantity, deleted_at, created_at, updated_at`

// ListTypes returns the organization's equipment types.
func (r *UniformRepository) ListTypes(ctx context.Context, orgID string) ([]models.UniformType, error) {
	const query = `
SELECT ` + uniformTypeColumns + `
FROM uniform_types
WHERE organization_id = $1 AND deleted_at IS NULL
ORDER BY name ASC`

	var types []models.UniformType
	if err := r.db.SelectContext(ctx, &types, query, orgID); err != nil {
		return nil, fmt.Errorf("list uniform types: %w", err)
	}
	return types, nil
}

// FindTypeByID fetches a single equipment type.
func (r *UniformRepository) FindTypeByID(ctx context.Context, id string) (*models.UniformType, error) {
	const query = `SELECT ` + uniformTypeColumns + ` FROM uniform_types WHERE id = $1 AND deleted_at IS NULL`

	var t models.UniformType
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get uniform type: %w", err)
	}
	return &t, nil
}

// FindItemByID fetches a single item.
func (r *UniformRepository) FindItemByID(ctx context.Context, id string) (*models.UniformItem, error) {
	const query = `
SELECT id, type_id, generation_id, size_id, number, is_reserve, deleted_at, created_at, updated_at
FROM uniform_items
WHERE id = $1 AND deleted_at IS NULL`

	var item models.UniformItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get uniform item: %w", err)
	}
	return &item, nil
}

// HasOpenIssuance reports whether the item is currently issued to the cadet.
func (r *UniformRepository) HasOpenIssuance(ctx context.Context, itemID, cadetID string) (bool, error) {
	var exists bool
	const query = `
SELECT EXISTS (
	SELECT 1 FROM issuances WHERE item_id = $1 AND cadet_id = $2 AND returned_at IS NULL)`
	if err := r.db.GetContext(ctx, &exists, query, itemID, cadetID); err != nil {
		return false, fmt.Errorf("check open issuance: %w", err)
	}
	return exists, nil
}

// ItemIssueRow is one non-deleted item of a type joined with its reserve
// classification and current holder, if any.
type ItemIssueRow struct {
	ItemID            string  `db:"item_id"`
	IsReserve         bool    `db:"is_reserve"`
	GenerationReserve bool    `db:"generation_reserve"`
	SizeID            *string `db:"size_id"`
	SizeName          *string `db:"size_name"`
	CadetID           *string `db:"cadet_id"`
	CadetName         *string `db:"cadet_name"`
}

// ItemsWithIssueState loads the rows the inventory bucketing works on.
func (r *UniformRepository) ItemsWithIssueState(ctx context.Context, typeID string) ([]ItemIssueRow, error) {
	const query = `
SELECT ui.id AS item_id,
	ui.is_reserve,
	COALESCE(g.is_reserve, FALSE) AS generation_reserve,
	ui.size_id,
	s.name AS size_name,
	i.cadet_id,
	c.first_name || ' ' || c.last_name AS cadet_name
FROM uniform_items ui
LEFT JOIN uniform_generations g ON g.id = ui.generation_id
LEFT JOIN uniform_sizes s ON s.id = ui.size_id
LEFT JOIN issuances i ON i.item_id = ui.id AND i.returned_at IS NULL
LEFT JOIN cadets c ON c.id = i.cadet_id
WHERE ui.type_id = $1 AND ui.deleted_at IS NULL
ORDER BY ui.number ASC`

	var rows []ItemIssueRow
	if err := r.db.SelectContext(ctx, &rows, query, typeID); err != nil {
		return nil, fmt.Errorf("load items with issue state: %w", err)
	}
	return rows, nil
}

// CadetIssueCount is one active cadet with the number of open issuances of a
// type, reserve or not.
type CadetIssueCount struct {
	CadetID   string `db:"cadet_id"`
	CadetName string `db:"cadet_name"`
	OpenCount int    `db:"open_count"`
}

// OpenIssueCountsByCadet counts every open issuance of the type per active
// cadet. Reserve classification is deliberately ignored here: an issued
// reserve item satisfies the quota.
func (r *UniformRepository) OpenIssueCountsByCadet(ctx context.Context, orgID, typeID string) ([]CadetIssueCount, error) {
	const query = `
SELECT c.id AS cadet_id,
	c.first_name || ' ' || c.last_name AS cadet_name,
	COUNT(i.id) AS open_count
FROM cadets c
LEFT JOIN issuances i ON i.cadet_id = c.id AND i.returned_at IS NULL
	AND i.item_id IN (SELECT id FROM uniform_items WHERE type_id = $2 AND deleted_at IS NULL)
WHERE c.organization_id = $1 AND c.active
GROUP BY c.id, cadet_name
ORDER BY cadet_name ASC`

	var rows []CadetIssueCount
	if err := r.db.SelectContext(ctx, &rows, query, orgID, typeID); err != nil {
		return nil, fmt.Errorf("count open issuances: %w", err)
	}
	return rows, nil
}
