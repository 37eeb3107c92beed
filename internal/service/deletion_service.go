package service

import (
	"context"
	"log/slog"

	"tinysteps/internal/analytics"
	"tinysteps/internal/clock"
	"tinysteps/internal/metrics"
	"tinysteps/internal/models"
	"tinysteps/internal/store"
)

// DeletionHandoff receives queued deletion requests for an external worker
type DeletionHandoff interface {
	Save(ctx context.Context, request models.DeletionRequest) error
}

// DeletionService queues data deletion requests. It never erases anything
// itself; the queue is drained by an external worker.
type DeletionService struct {
	store    *store.Store
	events   *analytics.Sink
	clock    clock.Clock
	handoff  DeletionHandoff
	notifier Notifier
	logger   *slog.Logger
}

// NewDeletionService creates a new deletion service. handoff and notifier may be nil.
func NewDeletionService(st *store.Store, events *analytics.Sink, clk clock.Clock, handoff DeletionHandoff, notifier Notifier, logger *slog.Logger) *DeletionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeletionService{
		store:    st,
		events:   events,
		clock:    clk,
		handoff:  handoff,
		notifier: notifier,
		logger:   logger,
	}
}

// RequestDeletion queues deletion of an owned child's data
func (s *DeletionService) RequestDeletion(ctx context.Context, parentID, childID string) (models.DeletionRequest, error) {
	_, unlock, err := lockOwnedChild(s.store, parentID, childID)
	if err != nil {
		return models.DeletionRequest{}, err
	}
	request := models.DeletionRequest{
		ID:          s.store.NextID("del"),
		RunID:       s.store.RunID(),
		ChildID:     childID,
		ParentID:    parentID,
		Status:      models.DeletionQueued,
		RequestedAt: s.clock.Now(),
	}
	s.store.AppendDeletion(request)
	unlock()

	metrics.DeletionRequests.Inc()
	s.logger.InfoContext(ctx, "deletion request queued", "request_id", request.ID, "child_id", childID)

	s.events.Log(analytics.DeletionRequested, analytics.Fields{
		ParentID: parentID,
		ChildID:  childID,
		Metadata: analytics.Metadata{"requestId": request.ID},
	})

	if s.handoff != nil {
		if err := s.handoff.Save(ctx, request); err != nil {
			metrics.HandoffErrors.WithLabelValues("deletion_requests").Inc()
			s.logger.ErrorContext(ctx, "failed to hand off deletion request", "request_id", request.ID, "error", err)
		}
	}

	if s.notifier != nil {
		if parent, ok := s.store.ParentByID(parentID); ok {
			if err := s.notifier.DeletionQueued(ctx, parent, request); err != nil {
				s.logger.WarnContext(ctx, "failed to send deletion confirmation", "request_id", request.ID, "error", err)
			}
		}
	}

	return request, nil
}

// Queue returns every queued request in request order
func (s *DeletionService) Queue() []models.DeletionRequest {
	return s.store.Deletions()
}
