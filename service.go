package hireflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/afs/storage"
	"github.com/viant/hireflow/internal/logging"
	"github.com/viant/hireflow/metrics"
	"github.com/viant/hireflow/progress"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/action/analysis"
	"github.com/viant/hireflow/service/action/communication"
	"github.com/viant/hireflow/service/action/condition"
	"github.com/viant/hireflow/service/action/trigger"
	"github.com/viant/hireflow/service/analyzer"
	"github.com/viant/hireflow/service/analyzer/openai"
	"github.com/viant/hireflow/service/dao"
	runfs "github.com/viant/hireflow/service/dao/run/fs"
	runmemory "github.com/viant/hireflow/service/dao/run/memory"
	"github.com/viant/hireflow/service/dao/workflow"
	"github.com/viant/hireflow/service/event"
	"github.com/viant/hireflow/service/executor"
	"github.com/viant/hireflow/service/messaging"
	mqueue "github.com/viant/hireflow/service/messaging/memory"
	"github.com/viant/hireflow/service/meta"
	"github.com/viant/hireflow/service/notifier"
	"github.com/viant/hireflow/service/notifier/smtp"
	"github.com/viant/hireflow/service/processor"
	"github.com/viant/hireflow/service/secret"
	"github.com/viant/hireflow/tracing"
)

// Service wires collaborators, handlers, storage and the processor
type Service struct {
	config           *Config
	runtime          *Runtime
	logger           *slog.Logger
	metaService      *meta.Service
	metaBaseURL      string
	metaFsOptions    []storage.Option
	analyzer         analyzer.Analyzer
	notifier         notifier.Notifier
	runDAO           dao.Service[string, execution.Run]
	queue            messaging.Queue[processor.Job]
	handlers         []executor.Handler
	listener         executor.Listener
	processorWorkers int
	registerer       prometheus.Registerer
	metrics          *metrics.Metrics
	tracer           *tracing.Tracer
	eventHandler     event.Handler
	events           *event.Service
	progressFn       func(progress.Progress)
	secrets          *secret.Service
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.processorWorkers > 0 {
		s.config.Processor.WorkerCount = s.processorWorkers
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}
	handlerOptions := []executor.Option{executor.WithHandlers(
		trigger.New(),
		analysis.New(s.analyzer, analysis.WithTimeout(s.config.Engine.CallTimeout)),
		condition.New(),
		communication.New(s.notifier, communication.WithTimeout(s.config.Engine.CallTimeout)),
	)}
	handlerOptions = append(handlerOptions, executor.WithHandlers(s.handlers...))
	listener := executor.DebugListener(logging.WithLogger(context.Background(), s.logger))
	if s.listener != nil {
		listener = executor.Chain(listener, s.listener)
	}
	handlerOptions = append(handlerOptions, executor.WithListener(listener))
	s.runtime.executor = executor.New(handlerOptions...)
	processorOptions := []processor.Option{
		processor.WithExecutor(s.runtime.executor),
		processor.WithConfig(s.config.Processor),
		processor.WithRunDAO(s.runDAO),
		processor.WithMessageQueue(s.queue),
		processor.WithLogger(s.logger),
		processor.WithMetrics(s.metrics),
		processor.WithTracer(s.tracer),
	}
	if s.progressFn != nil {
		processorOptions = append(processorOptions, processor.WithProgress(s.progressFn))
	}
	if s.eventHandler != nil {
		s.events = event.New(s.eventHandler, s.config.Queue, s.logger)
		s.events.Start(context.Background())
		processorOptions = append(processorOptions, processor.WithEvents(s.events))
	}
	var err error
	if s.runtime.processor, err = processor.New(processorOptions...); err != nil {
		return err
	}
	s.runtime.workflowDAO = workflow.New(workflow.WithMetaService(s.metaService))
	s.runtime.metaService = s.metaService
	s.runtime.config = s.config
	s.runtime.logger = s.logger
	s.runtime.queue = s.queue
	s.runtime.events = s.events
	return nil
}

func (s *Service) ensureBaseSetup() error {
	if s.logger == nil {
		s.logger = logging.New(s.config.Log.Level, s.config.Log.Format, os.Stderr)
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.Service, s.config.Tracing.Version, s.config.Tracing.Output); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if s.tracer == nil {
		s.tracer = tracing.New(nil)
	}
	if s.registerer != nil && s.metrics == nil {
		s.metrics = metrics.New(s.registerer)
	}
	if s.metaService == nil {
		s.metaService = meta.New(nil, s.metaBaseURL, s.metaFsOptions...)
	}
	if s.secrets == nil {
		s.secrets = secret.New()
	}
	if s.analyzer == nil {
		anAnalyzer, err := s.newAnalyzer(context.Background())
		if err != nil {
			return err
		}
		s.analyzer = anAnalyzer
	}
	if s.notifier == nil {
		aNotifier, err := s.newNotifier(context.Background())
		if err != nil {
			return err
		}
		s.notifier = aNotifier
	}
	if s.runDAO == nil {
		runDAO, err := s.newRunDAO()
		if err != nil {
			return err
		}
		s.runDAO = runDAO
	}
	if s.queue == nil {
		queueConfig := s.config.Queue
		if queueConfig.Buffer <= 0 {
			queueConfig.Buffer = s.config.Processor.QueueBuffer
		}
		s.queue = mqueue.NewQueue[processor.Job](queueConfig)
	}
	return nil
}

func (s *Service) newAnalyzer(ctx context.Context) (analyzer.Analyzer, error) {
	config := s.config.Analyzer
	if config.Provider != AnalyzerOpenAI {
		return nil, nil
	}
	apiKey, err := config.ResolveAPIKey(ctx, s.secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve analyzer API key: %w", err)
	}
	if apiKey == "" {
		s.logger.Warn("analyzer disabled: API key is not set", "env", config.APIKeyEnv)
		return nil, nil
	}
	options := []openai.Option{openai.WithModel(config.Model)}
	if config.DocumentLimit > 0 {
		options = append(options, openai.WithDocumentContent(s.metaService.FS(), config.DocumentLimit))
	}
	return analyzer.WithRetry(openai.New(apiKey, config.BaseURL, options...), &config.Retry), nil
}

func (s *Service) newNotifier(ctx context.Context) (notifier.Notifier, error) {
	config := s.config.Notifier
	switch config.Provider {
	case NotifierSMTP:
		smtpConfig, err := config.ResolveSMTP(ctx, s.secrets)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve smtp credentials: %w", err)
		}
		return notifier.WithRetry(smtp.New(smtpConfig), &config.Retry), nil
	default:
		return notifier.NewRecorder(), nil
	}
}

func (s *Service) newRunDAO() (dao.Service[string, execution.Run], error) {
	if s.config.Store.URL == "" {
		return runmemory.New(), nil
	}
	ret, err := runfs.New(context.Background(), s.config.Store.URL, runfs.WithFS(s.metaService.FS()), runfs.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create run store: %w", err)
	}
	return ret, nil
}

// Runtime returns the runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Notifier returns the communication collaborator in use
func (s *Service) Notifier() notifier.Notifier {
	return s.notifier
}

// New creates a service
func New(options ...Option) (*Service, error) {
	ret := &Service{runtime: &Runtime{}}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
