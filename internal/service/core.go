package service

import (
	"log/slog"

	"tinysteps/internal/analytics"
	"tinysteps/internal/clock"
	"tinysteps/internal/lesson"
	"tinysteps/internal/store"
)

// CoreOptions configures NewCore. Zero values fall back to defaults.
type CoreOptions struct {
	Clock            clock.Clock
	Mirror           analytics.Mirror
	Handoff          DeletionHandoff
	Notifier         Notifier
	DefaultMarket    string
	EstimatedMinutes int
	Logger           *slog.Logger
}

// Core is the learning core: one store, one event sink and the services over them
type Core struct {
	Store     *store.Store
	Events    *analytics.Sink
	Identity  *IdentityService
	Sessions  *SessionService
	Deletions *DeletionService
}

// NewCore wires the services around a fresh store
func NewCore(opts CoreOptions) *Core {
	clk := opts.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	market := opts.DefaultMarket
	if market == "" {
		market = "Singapore"
	}

	st := store.New()
	events := analytics.NewSink(clk, st, opts.Mirror, logger)
	generator := lesson.NewGenerator(st, opts.EstimatedMinutes)

	return &Core{
		Store:     st,
		Events:    events,
		Identity:  NewIdentityService(st, events, clk, opts.Notifier, market, logger),
		Sessions:  NewSessionService(st, generator, events, clk, logger),
		Deletions: NewDeletionService(st, events, clk, opts.Handoff, opts.Notifier, logger),
	}
}

// Reset clears all state and restarts every id sequence
func (c *Core) Reset() {
	c.Store.Reset()
	c.Events.Reset()
}
