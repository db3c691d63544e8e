// Package notifier defines the communication collaborator used by
// send-communication and send-invite nodes.
package notifier

import (
	"context"
	"errors"
	"sync"

	"github.com/viant/hireflow/service/retry"
)

// ErrNoRecipients is returned when a message has nobody to deliver to
var ErrNoRecipients = errors.New("no recipients")

// Channel names a delivery medium
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

type (
	// Message is resolved content ready for delivery.
	Message struct {
		Channel    Channel  `json:"channel,omitempty"`
		Subject    string   `json:"subject,omitempty"`
		Body       string   `json:"body"`
		Recipients []string `json:"recipients"`
	}

	// Summary reports delivery counts.
	Summary struct {
		Sent   int `json:"sent"`
		Failed int `json:"failed"`
	}
)

// Notifier delivers messages. A returned error means nothing was delivered.
type Notifier interface {
	Notify(ctx context.Context, message *Message) (*Summary, error)
}

// Func adapts a function to Notifier
type Func func(ctx context.Context, message *Message) (*Summary, error)

func (f Func) Notify(ctx context.Context, message *Message) (*Summary, error) {
	return f(ctx, message)
}

type retrying struct {
	notifier Notifier
	policy   *retry.Policy
}

func (r *retrying) Notify(ctx context.Context, message *Message) (*Summary, error) {
	var summary *Summary
	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		var err error
		summary, err = r.notifier.Notify(ctx, message)
		if errors.Is(err, ErrNoRecipients) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// WithRetry wraps notifier with a retry policy
func WithRetry(notifier Notifier, policy *retry.Policy) Notifier {
	if policy == nil {
		return notifier
	}
	return &retrying{notifier: notifier, policy: policy}
}

// Recorder is an in-memory Notifier that accepts every recipient.
type Recorder struct {
	messages []*Message
	mux      sync.Mutex
}

// Notify records message
func (r *Recorder) Notify(ctx context.Context, message *Message) (*Summary, error) {
	if len(message.Recipients) == 0 {
		return nil, ErrNoRecipients
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	clone := *message
	clone.Recipients = append([]string(nil), message.Recipients...)
	r.messages = append(r.messages, &clone)
	return &Summary{Sent: len(message.Recipients)}, nil
}

// Messages returns recorded messages
func (r *Recorder) Messages() []*Message {
	r.mux.Lock()
	defer r.mux.Unlock()
	return append([]*Message(nil), r.messages...)
}

// NewRecorder creates a recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}
