package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/viant/hireflow/service/messaging"
)

// Listener delivers consumed events to a handler on a single goroutine, so
// the handler sees events in publish order.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	logger    *slog.Logger
	mux       sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), logger *slog.Logger) *Listener[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logger,
	}
}

// Start begins consuming; repeated calls are ignored
func (l *Listener[T]) Start(ctx context.Context) {
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.cancel != nil {
		return
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	go l.run(ctx, l.done)
}

func (l *Listener[T]) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		ev, err := l.publisher.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, messaging.ErrClosed) {
				return
			}
			l.logger.Warn("event not consumed", "error", err)
			continue
		}
		if ev == nil {
			continue
		}
		l.handler(ev)
	}
}

// Stop cancels consumption and waits for the in-flight handler to return
func (l *Listener[T]) Stop() {
	l.mux.Lock()
	cancel, done := l.cancel, l.done
	l.mux.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
