// Package memory provides a buffered in-process queue with redelivery and a
// dead letter list.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viant/hireflow/internal/clock"
	"github.com/viant/hireflow/internal/idgen"
	"github.com/viant/hireflow/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	MaxRetries int           `yaml:"maxRetries" json:"maxRetries"`
	RetryDelay time.Duration `yaml:"retryDelay" json:"retryDelay"`
	DeadLetter bool          `yaml:"deadLetter" json:"deadLetter"`
	Buffer     int           `yaml:"buffer" json:"buffer"`
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		MaxRetries: 0,
		RetryDelay: 100 * time.Millisecond,
		DeadLetter: true,
		Buffer:     100,
	}
}

// Message is a queued payload
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	attempt   int
	mu        sync.Mutex
	processed bool
	createdAt time.Time
	lastError error
}

// ID returns message id
func (m *Message[T]) ID() string {
	return m.id
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Attempt returns the zero based delivery attempt
func (m *Message[T]) Attempt() int {
	return m.attempt
}

// Err returns the error of the last Nack
func (m *Message[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %v already processed", m.id)
	}
	m.processed = true
	return nil
}

// Nack redelivers the message after RetryDelay until MaxRetries is exhausted,
// then moves it to the dead letter list when enabled.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %v already processed", m.id)
	}
	m.processed = true
	m.lastError = err
	if m.attempt < m.queue.config.MaxRetries {
		next := &Message[T]{
			id:        m.id,
			payload:   m.payload,
			queue:     m.queue,
			attempt:   m.attempt + 1,
			createdAt: clock.Now(),
		}
		m.queue.pending.Add(1)
		time.AfterFunc(m.queue.config.RetryDelay, func() {
			defer m.queue.pending.Done()
			m.queue.redeliver(next)
		})
		return nil
	}
	if m.queue.config.DeadLetter {
		m.queue.dlqMu.Lock()
		m.queue.dlq = append(m.queue.dlq, m)
		m.queue.dlqMu.Unlock()
	}
	return nil
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	done     chan struct{}
	closed   bool
	dlq      []*Message[T]
	config   Config
	mu       sync.RWMutex
	dlqMu    sync.Mutex
	pending  sync.WaitGroup
	once     sync.Once
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.Buffer <= 0 {
		config.Buffer = DefaultConfig().Buffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.Buffer),
		done:     make(chan struct{}),
		config:   config,
	}
}

// Publish adds a new item to the queue; it blocks while the buffer is full
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return fmt.Errorf("payload was nil")
	}
	msg := &Message[T]{
		id:        idgen.New(),
		payload:   *t,
		queue:     q,
		createdAt: clock.Now(),
	}
	return q.enqueue(ctx, msg)
}

func (q *Queue[T]) enqueue(ctx context.Context, msg *Message[T]) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return messaging.ErrClosed
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return messaging.ErrClosed
	}
}

func (q *Queue[T]) redeliver(msg *Message[T]) {
	if err := q.enqueue(context.Background(), msg); err != nil && q.config.DeadLetter {
		q.dlqMu.Lock()
		q.dlq = append(q.dlq, msg)
		q.dlqMu.Unlock()
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.done:
		return nil, messaging.ErrClosed
	}
}

// Close stops the queue; pending consumers and publishers return
// messaging.ErrClosed.
func (q *Queue[T]) Close() {
	q.once.Do(func() {
		close(q.done)
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
	})
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DeadLetters returns payloads of messages that exhausted their retries
func (q *Queue[T]) DeadLetters() []*T {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	ret := make([]*T, 0, len(q.dlq))
	for _, msg := range q.dlq {
		ret = append(ret, msg.T())
	}
	return ret
}

// Flush waits for scheduled redeliveries to be enqueued
func (q *Queue[T]) Flush() {
	q.pending.Wait()
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
