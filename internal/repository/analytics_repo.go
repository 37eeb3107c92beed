package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tinysteps/internal/analytics"
	"tinysteps/internal/database"
)

// AnalyticsRepository archives analytics events. It implements analytics.Mirror.
type AnalyticsRepository struct {
	db *database.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *database.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

var _ analytics.Mirror = (*AnalyticsRepository)(nil)

// SaveEvent archives one event with its metadata as JSON
func (r *AnalyticsRepository) SaveEvent(ctx context.Context, event analytics.Event) error {
	var metadata sql.NullString
	if len(event.Metadata) > 0 {
		encoded, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode event metadata: %w", err)
		}
		metadata = sql.NullString{String: string(encoded), Valid: true}
	}

	query := `
		INSERT INTO analytics_events (run_id, id, name, parent_id, child_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.RunID,
		event.ID,
		string(event.Name),
		nullable(event.ParentID),
		nullable(event.ChildID),
		metadata,
		event.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to archive event %s: %w", event.ID, err)
	}
	return nil
}

// List returns archived events oldest first, optionally filtered by name.
// limit <= 0 returns everything.
func (r *AnalyticsRepository) List(ctx context.Context, name analytics.EventName, limit int) ([]analytics.Event, error) {
	query := "SELECT run_id, id, name, parent_id, child_id, metadata, created_at FROM analytics_events"
	var args []interface{}
	if name != "" {
		query += " WHERE name = ?"
		args = append(args, string(name))
	}
	query += " ORDER BY created_at ASC, run_id ASC, id ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics events: %w", err)
	}
	defer rows.Close()

	events := []analytics.Event{}
	for rows.Next() {
		var event analytics.Event
		var eventName string
		var parentID, childID, metadata sql.NullString
		if err := rows.Scan(&event.RunID, &event.ID, &eventName, &parentID, &childID, &metadata, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analytics event: %w", err)
		}
		event.Name = analytics.EventName(eventName)
		event.ParentID = parentID.String
		event.ChildID = childID.String
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &event.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata of event %s: %w", event.ID, err)
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
