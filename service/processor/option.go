package processor

import (
	"log/slog"

	"github.com/viant/hireflow/metrics"
	"github.com/viant/hireflow/progress"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/dao"
	"github.com/viant/hireflow/service/event"
	"github.com/viant/hireflow/service/executor"
	"github.com/viant/hireflow/service/messaging"
	"github.com/viant/hireflow/tracing"
)

// Option customises the processor
type Option func(*Service)

// WithExecutor sets the node dispatcher
func WithExecutor(executor *executor.Service) Option {
	return func(s *Service) {
		s.executor = executor
	}
}

// WithRunDAO sets the run record store
func WithRunDAO(runDAO dao.Service[string, execution.Run]) Option {
	return func(s *Service) {
		s.runDAO = runDAO
	}
}

// WithMessageQueue sets the queue submitted runs are published to
func WithMessageQueue(queue messaging.Queue[Job]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithWorkers sets the number of worker goroutines
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.config.WorkerCount = count
	}
}

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(metrics *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// WithTracer sets the tracer
func WithTracer(tracer *tracing.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithEvents sets the lifecycle event sink
func WithEvents(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithProgress sets a callback invoked on every node counter change of a run
func WithProgress(fn func(progress.Progress)) Option {
	return func(s *Service) {
		s.progress = fn
	}
}
