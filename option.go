package hireflow

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/afs/storage"
	"github.com/viant/hireflow/progress"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/analyzer"
	"github.com/viant/hireflow/service/dao"
	"github.com/viant/hireflow/service/event"
	"github.com/viant/hireflow/service/executor"
	"github.com/viant/hireflow/service/messaging"
	"github.com/viant/hireflow/service/meta"
	"github.com/viant/hireflow/service/notifier"
	"github.com/viant/hireflow/service/processor"
	"github.com/viant/hireflow/service/secret"
	"github.com/viant/hireflow/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Option customises the service
type Option func(s *Service)

// WithConfig sets the configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger; by default one is built from the log config
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetaService sets the meta service
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithMetaBaseURL sets the location relative workflow and seed URLs resolve against
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithAnalyzer sets the analysis collaborator; it is used as is, without
// the configured retry policy.
func WithAnalyzer(analyzer analyzer.Analyzer) Option {
	return func(s *Service) {
		s.analyzer = analyzer
	}
}

// WithNotifier sets the communication collaborator; it is used as is,
// without the configured retry policy.
func WithNotifier(notifier notifier.Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// WithRunDAO sets the run record store
func WithRunDAO(runDAO dao.Service[string, execution.Run]) Option {
	return func(s *Service) {
		s.runDAO = runDAO
	}
}

// WithQueue sets the message queue
func WithQueue(queue messaging.Queue[processor.Job]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithHandlers registers additional card handlers; a handler for a built-in
// card type replaces it.
func WithHandlers(handlers ...executor.Handler) Option {
	return func(s *Service) {
		s.handlers = append(s.handlers, handlers...)
	}
}

// WithListener sets the node listener
func WithListener(listener executor.Listener) Option {
	return func(s *Service) {
		s.listener = listener
	}
}

// WithProcessorWorkers sets the processor workers
func WithProcessorWorkers(count int) Option {
	return func(s *Service) {
		s.processorWorkers = count
	}
}

// WithMetricsRegisterer enables prometheus metrics on registerer
func WithMetricsRegisterer(registerer prometheus.Registerer) Option {
	return func(s *Service) {
		s.registerer = registerer
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times; the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}

// WithTracerProvider sets the provider spans are created with, leaving the
// global provider untouched.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracer = tracing.New(provider)
	}
}

// WithEventListener delivers run lifecycle events to handler. Events are
// delivered asynchronously, in publish order.
func WithEventListener(handler event.Handler) Option {
	return func(s *Service) {
		s.eventHandler = handler
	}
}

// WithProgressListener sets a callback invoked on every node counter change
// of a run. It runs on the executing goroutine and must not block.
func WithProgressListener(fn func(progress.Progress)) Option {
	return func(s *Service) {
		s.progressFn = fn
	}
}

// WithSecretService sets the service resolving collaborator credentials
func WithSecretService(secrets *secret.Service) Option {
	return func(s *Service) {
		s.secrets = secrets
	}
}
