package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
)

// DeregistrationRepository persists per-inspection cadet exclusions.
type DeregistrationRepository struct {
	db *sqlx.DB
}

// NewDeregistrationRepository constructs the repository.
func NewDeregistrationRepository(db *sqlx.DB) *DeregistrationRepository {
	return &DeregistrationRepository{db: db}
}

// Deregister excludes a cadet from an inspection. Idempotent.
func (r *DeregistrationRepository) Deregister(ctx context.Context, inspectionID, cadetID string, now time.Time) error {
	const query = `
INSERT INTO deregistrations (inspection_id, cadet_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (inspection_id, cadet_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, inspectionID, cadetID, now); err != nil {
		return fmt.Errorf("insert deregistration: %w", err)
	}
	return nil
}

// Reregister removes the exclusion again. Idempotent.
func (r *DeregistrationRepository) Reregister(ctx context.Context, inspectionID, cadetID string) error {
	const query = `DELETE FROM deregistrations WHERE inspection_id = $1 AND cadet_id = $2`
	if _, err := r.db.ExecContext(ctx, query, inspectionID, cadetID); err != nil {
		return fmt.Errorf("delete deregistration: %w", err)
	}
	return nil
}

// List returns the deregistered cadets of an inspection.
func (r *DeregistrationRepository) List(ctx context.Context, inspectionID string) ([]dto.DeregistrationItem, error) {
	const query = `
SELECT d.cadet_id, c.first_name || ' ' || c.last_name AS cadet_name, d.created_at
FROM deregistrations d
JOIN cadets c ON c.id = d.cadet_id
WHERE d.inspection_id = $1
ORDER BY cadet_name ASC`

	var rows []dto.DeregistrationItem
	if err := r.db.SelectContext(ctx, &rows, query, inspectionID); err != nil {
		return nil, fmt.Errorf("list deregistrations: %w", err)
	}
	return rows, nil
}

// Count counts the exclusions of an inspection.
func (r *DeregistrationRepository) Count(ctx context.Context, inspectionID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM deregistrations WHERE inspection_id = $1`
	if err := r.db.GetContext(ctx, &count, query, inspectionID); err != nil {
		return 0, fmt.Errorf("count deregistrations: %w", err)
	}
	return count, nil
}
