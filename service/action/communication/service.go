// Package communication implements the send-communication and send-invite
// cards: templated messages delivered through the notifier collaborator.
package communication

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/viant/hireflow/internal/logging"
	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/runtime/expander"
	"github.com/viant/hireflow/service/executor"
	"github.com/viant/hireflow/service/notifier"
)

// Config is the node configuration
type Config struct {
	Channel    string   `json:"channel,omitempty"`
	Subject    string   `json:"subject,omitempty"`
	Message    string   `json:"message,omitempty"`
	Recipient  string   `json:"recipient,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

// Result is the delivery summary recorded as the node result
type Result struct {
	Sent       int      `json:"sent"`
	Failed     int      `json:"failed"`
	Channel    string   `json:"channel,omitempty"`
	Subject    string   `json:"subject,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

// Service handles communication cards
type Service struct {
	notifier notifier.Notifier
	timeout  time.Duration
}

// Option customises the handler
type Option func(s *Service)

// WithTimeout bounds each notifier call
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

// CardTypes returns the handled card types
func (s *Service) CardTypes() []graph.CardType {
	return []graph.CardType{graph.CardSendCommunication, graph.CardSendInvite}
}

// Handle resolves the templates and delivers the message. Recipients that
// still reference unset variables are counted as failed without being
// contacted. Delivery errors are reported as DeliveryFailure with every
// recipient counted as failed.
func (s *Service) Handle(ctx context.Context, node *graph.Node, run *execution.Context) (*executor.Output, error) {
	config := &Config{}
	if err := executor.Decode(node, config); err != nil {
		return output(&Result{}), execution.DeliveryFailure(err)
	}
	s.applyDefaults(node, config)
	lookup := run.Variables.Lookup
	message := &notifier.Message{
		Channel: notifier.Channel(config.Channel),
		Subject: expander.Expand(config.Subject, lookup),
		Body:    expander.Expand(config.Message, lookup),
	}
	result := &Result{Channel: config.Channel, Subject: message.Subject}
	logger := logging.FromContext(ctx)
	templates := recipients(config)
	for i, recipient := range expander.ExpandAll(templates, lookup) {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" || len(expander.Placeholders(recipient)) > 0 {
			logger.Warn("recipient not resolved", "node", node.ID, "recipient", templates[i])
			result.Failed++
			continue
		}
		message.Recipients = append(message.Recipients, recipient)
	}
	result.Recipients = message.Recipients
	if len(message.Recipients) == 0 {
		return output(result), execution.DeliveryFailure(notifier.ErrNoRecipients)
	}
	if s.notifier == nil {
		result.Failed += len(message.Recipients)
		return output(result), execution.DeliveryFailure(fmt.Errorf("notifier is not configured"))
	}

	summary, err := executor.Call(ctx, executor.Timeout(node, s.timeout), func(ctx context.Context) (*notifier.Summary, error) {
		return s.notifier.Notify(ctx, message)
	})
	if err != nil {
		result.Failed += len(message.Recipients)
		return output(result), execution.DeliveryFailure(fmt.Errorf("deliver %s: %w", config.Channel, err))
	}
	if summary == nil {
		summary = &notifier.Summary{Sent: len(message.Recipients)}
	}
	result.Sent = summary.Sent
	result.Failed += summary.Failed
	return output(result), nil
}

func (s *Service) applyDefaults(node *graph.Node, config *Config) {
	if config.Channel == "" {
		config.Channel = string(notifier.ChannelEmail)
	}
	if config.Recipient == "" && len(config.Recipients) == 0 {
		if notifier.Channel(config.Channel) == notifier.ChannelSMS {
			config.Recipient = "{" + model.VarCandidatePhone + "}"
		} else {
			config.Recipient = "{" + model.VarCandidateEmail + "}"
		}
	}
	if node.CardType.Normalize() == graph.CardSendInvite {
		if config.Subject == "" {
			config.Subject = "Interview invitation"
		}
		if config.Message == "" {
			config.Message = "Hi {" + model.VarCandidateName + "}, we would like to invite you to an interview."
		}
	}
}

func recipients(config *Config) []string {
	var ret []string
	if config.Recipient != "" {
		for _, item := range strings.Split(config.Recipient, ",") {
			if item = strings.TrimSpace(item); item != "" {
				ret = append(ret, item)
			}
		}
	}
	return append(ret, config.Recipients...)
}

func output(result *Result) *executor.Output {
	return &executor.Output{Value: result, Variables: map[string]interface{}{
		"sent":   result.Sent,
		"failed": result.Failed,
	}}
}

// New creates a communication handler
func New(notifier notifier.Notifier, options ...Option) *Service {
	ret := &Service{notifier: notifier, timeout: executor.DefaultTimeout}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
