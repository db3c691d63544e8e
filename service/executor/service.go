package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/viant/hireflow/internal/logging"
	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/structology/conv"
)

// ErrUnknownNodeType is returned by Lookup callers when no handler serves a card type
var ErrUnknownNodeType = errors.New("unknown node type")

// Listener is invoked once a node handler returns, regardless of error.
type Listener func(node *graph.Node, output *Output, err error)

// DebugListener logs every dispatched node at debug level.
func DebugListener(ctx context.Context) Listener {
	logger := logging.FromContext(ctx)
	return func(node *graph.Node, output *Output, err error) {
		if node == nil {
			return
		}
		args := []any{"node", node.ID, "cardType", node.CardType.String()}
		if output != nil && output.Port != "" {
			args = append(args, "port", output.Port)
		}
		if err != nil {
			args = append(args, "error", err)
		}
		logger.Debug("node dispatched", args...)
	}
}

// Chain returns a listener invoking each non-nil listener in order
func Chain(listeners ...Listener) Listener {
	return func(node *graph.Node, output *Output, err error) {
		for _, listener := range listeners {
			if listener != nil {
				listener(node, output, err)
			}
		}
	}
}

// Option is used to customise the executor instance.
type Option func(*Service)

// WithListener sets the listener invoked after every dispatched node
func WithListener(l Listener) Option {
	return func(s *Service) {
		s.listener = l
	}
}

// WithHandlers registers handlers
func WithHandlers(handlers ...Handler) Option {
	return func(s *Service) {
		for _, h := range handlers {
			s.Register(h)
		}
	}
}

// Service is the node dispatcher: a registry of handlers keyed by card type.
type Service struct {
	handlers map[graph.CardType]Handler
	listener Listener
	mux      sync.RWMutex
}

// Register registers handler under each of its card types, replacing any
// handler registered before.
func (s *Service) Register(handler Handler) {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, cardType := range handler.CardTypes() {
		s.handlers[cardType.Normalize()] = handler
	}
}

// Lookup returns the handler for cardType
func (s *Service) Lookup(cardType graph.CardType) (Handler, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	handler, ok := s.handlers[cardType.Normalize()]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, cardType)
	}
	return handler, nil
}

// CardTypes returns the registered card types
func (s *Service) CardTypes() []graph.CardType {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := make([]graph.CardType, 0, len(s.handlers))
	for cardType := range s.handlers {
		ret = append(ret, cardType)
	}
	return ret
}

// Execute dispatches node to its handler and publishes the output variables
// into the run store. A card type without a handler yields an
// UnknownNodeType node error. Handler failures are returned unchanged so
// the caller can record them; any fallback output is still published.
func (s *Service) Execute(ctx context.Context, node *graph.Node, run *execution.Context) (*Output, error) {
	handler, err := s.Lookup(node.CardType)
	if err != nil {
		return nil, execution.UnknownNodeType(node.CardType.String())
	}
	output, err := handler.Handle(ctx, node, run)
	if output != nil {
		for key, value := range output.Variables {
			run.Variables.Set(node.ID+"."+key, value)
		}
	}
	if s.listener != nil {
		s.listener(node, output, err)
	}
	return output, err
}

// New creates a dispatcher
func New(opts ...Option) *Service {
	ret := &Service{handlers: make(map[graph.CardType]Handler)}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

var converter = newConverter()

func newConverter() *conv.Converter {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	return conv.NewConverter(options)
}

// Decode converts node data into a typed configuration
func Decode(node *graph.Node, target interface{}) error {
	if node == nil || len(node.Data) == 0 {
		return nil
	}
	if err := converter.Convert(node.Data, target); err != nil {
		return fmt.Errorf("invalid %s node %s configuration: %w", node.CardType, node.ID, err)
	}
	return nil
}
