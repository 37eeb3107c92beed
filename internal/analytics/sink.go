// Package analytics is the append-only event log fed by the learning core.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tinysteps/internal/clock"
	"tinysteps/internal/metrics"
)

// EventName is the closed set of domain events
type EventName string

const (
	ParentSignupCompleted EventName = "parent_signup_completed"
	ConsentAccepted       EventName = "consent_accepted"
	ChildProfileCreated   EventName = "child_profile_created"
	PlacementCompleted    EventName = "placement_completed"
	LessonStarted         EventName = "lesson_started"
	ActivityCompleted     EventName = "activity_completed"
	LessonCompleted       EventName = "lesson_completed"
	RewardEarned          EventName = "reward_earned"
	DashboardViewed       EventName = "dashboard_viewed"
	DeletionRequested     EventName = "deletion_requested"
)

// Metadata values are strings, numbers, booleans or nil
type Metadata map[string]any

// Event is one entry of the analytics log
type Event struct {
	ID        string    `json:"id"`
	RunID     string    `json:"runId,omitempty"`
	Name      EventName `json:"name"`
	ParentID  string    `json:"parentId,omitempty"`
	ChildID   string    `json:"childId,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fields are the caller-supplied parts of an event
type Fields struct {
	ParentID string
	ChildID  string
	Metadata Metadata
}

// Mirror receives a copy of every logged event, e.g. a SQL archive
type Mirror interface {
	SaveEvent(ctx context.Context, event Event) error
}

// RunSource names the id lifetime events belong to, so archived copies
// stay distinct after the sequences restart
type RunSource interface {
	RunID() string
}

// Sink is the in-memory ordered event log with its own id sequence
type Sink struct {
	mu       sync.RWMutex
	sequence uint64
	events   []Event
	clock    clock.Clock
	run      RunSource
	mirror   Mirror
	logger   *slog.Logger
}

// NewSink creates an event sink. run and mirror may be nil.
func NewSink(clk clock.Clock, run RunSource, mirror Mirror, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{clock: clk, run: run, mirror: mirror, logger: logger}
}

// Log appends an event and returns it
func (s *Sink) Log(name EventName, fields Fields) Event {
	var runID string
	if s.run != nil {
		runID = s.run.RunID()
	}

	s.mu.Lock()
	s.sequence++
	event := Event{
		ID:        fmt.Sprintf("evt_%08d", s.sequence),
		RunID:     runID,
		Name:      name,
		ParentID:  fields.ParentID,
		ChildID:   fields.ChildID,
		Metadata:  fields.Metadata,
		CreatedAt: s.clock.Now(),
	}
	s.events = append(s.events, event)
	s.mu.Unlock()

	metrics.AnalyticsEvents.WithLabelValues(string(name)).Inc()

	if s.mirror != nil {
		if err := s.mirror.SaveEvent(context.Background(), event); err != nil {
			metrics.HandoffErrors.WithLabelValues("analytics_events").Inc()
			s.logger.Warn("failed to mirror analytics event", "event_id", event.ID, "name", name, "error", err)
		}
	}

	return event
}

// Events returns a copy of the log in encounter order
func (s *Sink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

// Reset clears the log and restarts the id sequence
func (s *Sink) Reset() {
	s.mu.Lock()
	s.sequence = 0
	s.events = nil
	s.mu.Unlock()
}
