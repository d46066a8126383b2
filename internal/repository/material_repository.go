package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
)

// MaterialRepository reads the consumable material catalog.
type MaterialRepository struct {
	db *sqlx.DB
}

// NewMaterialRepository constructs the repository.
func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// MaterialRow is a material joined with its group.
type MaterialRow struct {
	ID             string `db:"id"`
	GroupID        string `db:"group_id"`
	GroupName      string `db:"group_name"`
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
}

// FindByID fetches a material with group context.
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*MaterialRow, error) {
	const query = `
SELECT m.id, m.group_id, g.name AS group_name, g.organization_id, m.name
FROM materials m
JOIN material_groups g ON g.id = m.group_id
WHERE m.id = $1 AND m.deleted_at IS NULL`

	var row MaterialRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &row, nil
}

// ListByGroup returns the materials of a group.
func (r *MaterialRepository) ListByGroup(ctx context.Context, groupID string) ([]models.Material, error) {
	const query = `
SELECT id, group_id, name, deleted_at
FROM materials
WHERE group_id = $1 AND deleted_at IS NULL
ORDER BY name ASC`

	var rows []models.Material
	if err := r.db.SelectContext(ctx, &rows, query, groupID); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return rows, nil
}
