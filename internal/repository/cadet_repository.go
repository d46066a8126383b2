package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
)

const cadetColumns = `id, organization_id, first_name, last_name, active, created_at, updated_at`

// CadetRepository reads the cadet roster. Roster administration happens in a
// separate service.
type CadetRepository struct {
	db *sqlx.DB
}

// NewCadetRepository constructs the repository.
func NewCadetRepository(db *sqlx.DB) *CadetRepository {
	return &CadetRepository{db: db}
}

// FindByID fetches a single cadet.
func (r *CadetRepository) FindByID(ctx context.Context, id string) (*models.Cadet, error) {
	const query = `SELECT ` + cadetColumns + ` FROM cadets WHERE id = $1`

	var cadet models.Cadet
	if err := r.db.GetContext(ctx, &cadet, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get cadet: %w", err)
	}
	return &cadet, nil
}

// ListActive returns the active roster, ordered for display.
func (r *CadetRepository) ListActive(ctx context.Context, orgID string) ([]models.Cadet, error) {
	const query = `
SELECT ` + cadetColumns + `
FROM cadets
WHERE organization_id = $1 AND active
ORDER BY last_name ASC, first_name ASC`

	var cadets []models.Cadet
	if err := r.db.SelectContext(ctx, &cadets, query, orgID); err != nil {
		return nil, fmt.Errorf("list active cadets: %w", err)
	}
	return cadets, nil
}

// CountActive counts the active roster.
func (r *CadetRepository) CountActive(ctx context.Context, orgID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM cadets WHERE organization_id = $1 AND active`
	if err := r.db.GetContext(ctx, &count, query, orgID); err != nil {
		return 0, fmt.Errorf("count active cadets: %w", err)
	}
	return count, nil
}
