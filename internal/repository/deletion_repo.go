package repository

import (
	"context"
	"fmt"

	"tinysteps/internal/database"
	"tinysteps/internal/models"
)

// DeletionRepository handles the deletion_requests handoff table
type DeletionRepository struct {
	db *database.DB
}

// NewDeletionRepository creates a new deletion repository
func NewDeletionRepository(db *database.DB) *DeletionRepository {
	return &DeletionRepository{db: db}
}

// Save inserts a queued deletion request. Rows are keyed by run and id, so a
// request id reused by a later run is a new row; saving the same request
// twice is a no-op.
func (r *DeletionRepository) Save(ctx context.Context, request models.DeletionRequest) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM deletion_requests WHERE run_id = ? AND id = ?",
		request.RunID, request.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check deletion request: %w", err)
	}
	if exists > 0 {
		return nil
	}

	query := `
		INSERT INTO deletion_requests (run_id, id, child_id, parent_id, status, requested_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query, request.RunID, request.ID, request.ChildID, request.ParentID, string(request.Status), request.RequestedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save deletion request: %w", err)
	}
	return nil
}

// List returns requests in request order, optionally filtered by status
func (r *DeletionRepository) List(ctx context.Context, status models.DeletionStatus) ([]models.DeletionRequest, error) {
	return listDeletions(ctx, r.db, status)
}

// Claim marks every queued request as exported and returns them, atomically
func (r *DeletionRepository) Claim(ctx context.Context) ([]models.DeletionRequest, error) {
	var claimed []models.DeletionRequest

	err := r.db.WithTx(ctx, func(tx database.DBTX) error {
		queued, err := listDeletions(ctx, tx, models.DeletionQueued)
		if err != nil {
			return err
		}

		for i := range queued {
			_, err := tx.ExecContext(ctx,
				"UPDATE deletion_requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE run_id = ? AND id = ? AND status = ?",
				string(models.DeletionExported), queued[i].RunID, queued[i].ID, string(models.DeletionQueued))
			if err != nil {
				return fmt.Errorf("failed to claim deletion request %s: %w", queued[i].ID, err)
			}
			queued[i].Status = models.DeletionExported
		}
		claimed = queued
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func listDeletions(ctx context.Context, db database.DBTX, status models.DeletionStatus) ([]models.DeletionRequest, error) {
	query := "SELECT run_id, id, child_id, parent_id, status, requested_at FROM deletion_requests"
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY requested_at ASC, run_id ASC, id ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deletion requests: %w", err)
	}
	defer rows.Close()

	requests := []models.DeletionRequest{}
	for rows.Next() {
		var request models.DeletionRequest
		var status string
		if err := rows.Scan(&request.RunID, &request.ID, &request.ChildID, &request.ParentID, &status, &request.RequestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deletion request: %w", err)
		}
		request.Status = models.DeletionStatus(status)
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
