package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/viant/hireflow/internal/idgen"
	"github.com/viant/hireflow/metrics"
	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/progress"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/dao"
	"github.com/viant/hireflow/service/dao/run/memory"
	"github.com/viant/hireflow/service/event"
	"github.com/viant/hireflow/service/executor"
	"github.com/viant/hireflow/service/messaging"
	mqueue "github.com/viant/hireflow/service/messaging/memory"
	"github.com/viant/hireflow/tracing"
)

// Config represents processor configuration
type Config struct {
	// WorkerCount is the number of workers consuming submitted runs
	WorkerCount int `yaml:"workers" json:"workers" validate:"gte=1"`

	// QueueBuffer is the capacity of the default in-memory queue
	QueueBuffer int `yaml:"queueBuffer" json:"queueBuffer" validate:"gte=1"`

	// PollDelay is the back off after a transient queue error
	PollDelay time.Duration `yaml:"pollDelay" json:"pollDelay"`
}

// DefaultConfig returns the default processor configuration
func DefaultConfig() Config {
	return Config{
		WorkerCount: 4,
		QueueBuffer: 100,
		PollDelay:   100 * time.Millisecond,
	}
}

// Job is the queued form of a submitted run
type Job struct {
	RunID    string          `json:"runId"`
	Workflow *model.Workflow `json:"workflow"`
	Seed     *model.Seed     `json:"seed"`
}

// WaitFunc blocks until the submitted run finishes
type WaitFunc func(ctx context.Context) (*execution.Run, error)

// Service executes workflow runs, synchronously or through its worker pool
type Service struct {
	config   Config
	executor *executor.Service
	runDAO   dao.Service[string, execution.Run]
	queue    messaging.Queue[Job]
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   *tracing.Tracer
	events   *event.Service
	progress func(progress.Progress)

	workers  []*worker
	workerWg sync.WaitGroup
	started  bool
	mux      sync.Mutex
	waiters  *waiters
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
}

// New creates a processor; an executor is required, the run store and the
// queue default to in-memory implementations.
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:  DefaultConfig(),
		waiters: newWaiters(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if s.config.WorkerCount <= 0 {
		s.config.WorkerCount = 1
	}
	if s.runDAO == nil {
		s.runDAO = memory.New()
	}
	if s.queue == nil {
		queueConfig := mqueue.DefaultConfig()
		queueConfig.Buffer = s.config.QueueBuffer
		s.queue = mqueue.NewQueue[Job](queueConfig)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = tracing.New(nil)
	}
	return s, nil
}

// Start starts the worker pool; calling it again is a no-op
func (s *Service) Start(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.started {
		return nil
	}
	s.started = true
	for i := 0; i < s.config.WorkerCount; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		aWorker := &worker{
			id:       i,
			service:  s,
			ctx:      workerCtx,
			cancelFn: cancel,
		}
		s.workers = append(s.workers, aWorker)
		s.workerWg.Add(1)
		go aWorker.run()
	}
	s.logger.Info("processor started", "workers", s.config.WorkerCount)
	return nil
}

func (w *worker) run() {
	defer w.service.workerWg.Done()
	for {
		msg, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, messaging.ErrClosed) || w.ctx.Err() != nil {
				return
			}
			w.service.logger.Warn("queue consume failed", "worker", w.id, "error", err)
			select {
			case <-time.After(w.service.config.PollDelay):
			case <-w.ctx.Done():
				return
			}
			continue
		}
		if msg == nil {
			continue
		}
		w.service.metrics.Queued(-1)
		if pErr := w.service.processMessage(w.ctx, msg); pErr != nil {
			w.service.logger.Error("failed to process run", "worker", w.id, "messageId", msg.ID(), "error", pErr)
		}
	}
}

func (s *Service) processMessage(ctx context.Context, message messaging.Message[Job]) error {
	job := message.T()
	aRun, err := s.runDAO.Load(ctx, job.RunID)
	if err != nil {
		_ = message.Nack(err)
		return fmt.Errorf("failed to load run %v: %w", job.RunID, err)
	}
	if aRun.GetState().IsDone() {
		return message.Ack()
	}
	if _, err = s.process(ctx, aRun, job.Workflow); err != nil {
		_ = message.Nack(err)
		return err
	}
	return message.Ack()
}

// process executes a pending run and persists its record before and after.
// It returns the run error (a rejected graph) separately from a storage
// error.
func (s *Service) process(ctx context.Context, aRun *execution.Run, workflow *model.Workflow) (runErr error, err error) {
	defer s.waiters.release(aRun.ID)
	aRun.Start()
	if err = s.runDAO.Save(ctx, aRun); err != nil {
		return nil, fmt.Errorf("failed to save run %v: %w", aRun.ID, err)
	}
	seed := aRun.Seed.Clone()
	if seed == nil {
		seed = &model.Seed{}
	}
	seed.ExecutionID = aRun.ID
	result, runErr := s.Execute(ctx, workflow, seed)
	if result != nil {
		aRun.Complete(result)
	} else {
		aRun.Fail(runErr)
	}
	if runErr != nil && aRun.Error == "" {
		aRun.Error = runErr.Error()
	}
	if err = s.runDAO.Save(ctx, aRun); err != nil {
		return runErr, fmt.Errorf("failed to save run %v: %w", aRun.ID, err)
	}
	return runErr, nil
}

// Run executes workflow synchronously and persists the run record. A
// rejected graph yields a failed run record together with the graph error.
func (s *Service) Run(ctx context.Context, workflow *model.Workflow, seed *model.Seed) (*execution.Run, error) {
	aRun := s.newRun(workflow, seed)
	if err := s.runDAO.Save(ctx, aRun); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}
	runErr, err := s.process(ctx, aRun, workflow)
	if err != nil {
		return nil, err
	}
	return aRun.Clone(), runErr
}

// Submit persists a pending run and queues it for the worker pool
func (s *Service) Submit(ctx context.Context, workflow *model.Workflow, seed *model.Seed) (*execution.Run, WaitFunc, error) {
	if workflow == nil {
		return nil, nil, fmt.Errorf("workflow cannot be nil")
	}
	ctx, span := s.tracer.Start(ctx, "workflow.submit", tracing.KindProducer)
	aRun := s.newRun(workflow, seed)
	span.WithAttributes(map[string]string{"execution.id": aRun.ID, "workflow.id": workflow.ID})
	err := s.runDAO.Save(ctx, aRun)
	if err == nil {
		s.metrics.Queued(1)
		if err = s.queue.Publish(ctx, &Job{RunID: aRun.ID, Workflow: workflow, Seed: aRun.Seed}); err != nil {
			s.metrics.Queued(-1)
		}
	}
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to submit run: %w", err)
	}
	runID := aRun.ID
	return aRun.Clone(), func(ctx context.Context) (*execution.Run, error) {
		return s.Wait(ctx, runID)
	}, nil
}

// Wait blocks until run id completes or fails, or ctx is done
func (s *Service) Wait(ctx context.Context, id string) (*execution.Run, error) {
	aRun, err := s.runDAO.Load(ctx, id)
	if err != nil || aRun.GetState().IsDone() {
		return aRun, err
	}
	done := s.waiters.channel(id)
	if aRun, err = s.runDAO.Load(ctx, id); err != nil || aRun.GetState().IsDone() {
		return aRun, err
	}
	select {
	case <-done:
		return s.runDAO.Load(ctx, id)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Load returns a run record
func (s *Service) Load(ctx context.Context, id string) (*execution.Run, error) {
	return s.runDAO.Load(ctx, id)
}

// List returns run records matching parameters
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Run, error) {
	return s.runDAO.List(ctx, parameters...)
}

func (s *Service) newRun(workflow *model.Workflow, seed *model.Seed) *execution.Run {
	seed = seed.Clone()
	if seed == nil {
		seed = &model.Seed{}
	}
	if seed.ExecutionID == "" {
		seed.ExecutionID = idgen.New()
	}
	return execution.NewRun(seed.ExecutionID, workflow, seed)
}

// Shutdown stops the workers and waits for in-flight runs to finish
func (s *Service) Shutdown() {
	s.mux.Lock()
	workers := s.workers
	s.workers = nil
	s.started = false
	s.mux.Unlock()
	for _, aWorker := range workers {
		aWorker.cancelFn()
	}
	s.workerWg.Wait()
}

type waiters struct {
	mux   sync.Mutex
	byRun map[string]chan struct{}
}

func (w *waiters) channel(id string) chan struct{} {
	w.mux.Lock()
	defer w.mux.Unlock()
	ch, ok := w.byRun[id]
	if !ok {
		ch = make(chan struct{})
		w.byRun[id] = ch
	}
	return ch
}

func (w *waiters) release(id string) {
	w.mux.Lock()
	defer w.mux.Unlock()
	if ch, ok := w.byRun[id]; ok {
		close(ch)
		delete(w.byRun, id)
	}
}

func newWaiters() *waiters {
	return &waiters{byRun: map[string]chan struct{}{}}
}
