package event

import (
	"context"
	"log/slog"

	"github.com/viant/hireflow/service/messaging/memory"
)

// Handler observes lifecycle events
type Handler func(*Event[any])

// Service couples an in-memory event queue with one listener
type Service struct {
	queue     *memory.Queue[Event[any]]
	publisher *Publisher[any]
	listener  *Listener[any]
	logger    *slog.Logger
}

// Publish emits an event. Failures are logged, never returned:
// observers must not influence a run.
func (s *Service) Publish(ctx context.Context, evCtx *Context, data any) {
	if s == nil {
		return
	}
	if err := s.publisher.Publish(ctx, NewEvent[any](evCtx, data)); err != nil {
		s.logger.Warn("event not published", "eventType", evCtx.EventType, "executionId", evCtx.ExecutionID, "error", err)
	}
}

// Start begins delivering events to the handler
func (s *Service) Start(ctx context.Context) {
	s.listener.Start(ctx)
}

// Close stops the listener and closes the queue; undelivered events are dropped
func (s *Service) Close() {
	s.listener.Stop()
	s.queue.Close()
}

// New creates an event service delivering to handler
func New(handler Handler, config memory.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	queue := memory.NewQueue[Event[any]](config)
	publisher := NewPublisher[any](queue)
	return &Service{
		queue:     queue,
		publisher: publisher,
		listener:  NewListener[any](publisher, handler, logger),
		logger:    logger,
	}
}
