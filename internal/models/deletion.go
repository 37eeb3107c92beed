package models

import "time"

// DeletionStatus is the state of a data deletion request
type DeletionStatus string

const (
	// DeletionQueued is the only state the learning core ever assigns
	DeletionQueued DeletionStatus = "queued"
	// DeletionExported marks handoff rows claimed by the external erasure worker
	DeletionExported DeletionStatus = "exported"
)

// DeletionRequest is a queued request to erase a child's data
type DeletionRequest struct {
	ID          string         `json:"id"`
	RunID       string         `json:"runId,omitempty"`
	ChildID     string         `json:"childId"`
	ParentID    string         `json:"parentId"`
	Status      DeletionStatus `json:"status"`
	RequestedAt time.Time      `json:"requestedAt"`
}
