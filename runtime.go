package hireflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/runtime/scheduler"
	"github.com/viant/hireflow/service/dao"
	"github.com/viant/hireflow/service/dao/workflow"
	"github.com/viant/hireflow/service/event"
	"github.com/viant/hireflow/service/executor"
	"github.com/viant/hireflow/service/messaging"
	"github.com/viant/hireflow/service/meta"
	"github.com/viant/hireflow/service/processor"
	"golang.org/x/sync/errgroup"
)

// Runtime loads workflows and executes runs
type Runtime struct {
	config      *Config
	logger      *slog.Logger
	metaService *meta.Service
	workflowDAO *workflow.Service
	executor    *executor.Service
	processor   *processor.Service
	queue       messaging.Queue[processor.Job]
	events      *event.Service
}

// LoadWorkflow loads and validates a workflow document
func (r *Runtime) LoadWorkflow(ctx context.Context, location string) (*model.Workflow, error) {
	return r.workflowDAO.Load(ctx, location)
}

// DecodeWorkflow decodes and validates a YAML or JSON workflow document
func (r *Runtime) DecodeWorkflow(data []byte) (*model.Workflow, error) {
	return r.workflowDAO.Decode(data)
}

// LoadSeed loads and validates a seed document
func (r *Runtime) LoadSeed(ctx context.Context, location string) (*model.Seed, error) {
	seed := &model.Seed{}
	if err := r.metaService.Load(ctx, location, seed); err != nil {
		return nil, err
	}
	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed %v: %w", location, err)
	}
	return seed, nil
}

// Plan validates workflow and returns its execution order
func (r *Runtime) Plan(aWorkflow *model.Workflow) (*scheduler.Plan, error) {
	return scheduler.New(aWorkflow)
}

// CardTypes returns the card types with a registered handler
func (r *Runtime) CardTypes() []graph.CardType {
	return r.executor.CardTypes()
}

// Execute runs workflow synchronously and stores the run record. A rejected
// graph returns a failed result together with graph.ErrInvalidGraph or
// graph.ErrCyclicGraph.
func (r *Runtime) Execute(ctx context.Context, aWorkflow *model.Workflow, seed *model.Seed) (*execution.Result, error) {
	aRun, err := r.processor.Run(ctx, aWorkflow, seed)
	if aRun == nil {
		return nil, err
	}
	return aRun.Result, err
}

// ExecuteAll runs workflow once per seed with at most Engine.Concurrency
// runs in flight. Results are returned in seed order; a failing run does not
// cancel its siblings, and the first rejected graph or storage error is
// returned once every run finished.
func (r *Runtime) ExecuteAll(ctx context.Context, aWorkflow *model.Workflow, seeds []*model.Seed) ([]*execution.Result, error) {
	results := make([]*execution.Result, len(seeds))
	var group errgroup.Group
	group.SetLimit(r.config.Engine.Concurrency)
	for i, seed := range seeds {
		group.Go(func() error {
			result, err := r.Execute(ctx, aWorkflow, seed)
			results[i] = result
			return err
		})
	}
	err := group.Wait()
	return results, err
}

// Submit queues a run for the worker pool; Start must have been called
func (r *Runtime) Submit(ctx context.Context, aWorkflow *model.Workflow, seed *model.Seed) (*execution.Run, processor.WaitFunc, error) {
	return r.processor.Submit(ctx, aWorkflow, seed)
}

// Wait blocks until run id finishes
func (r *Runtime) Wait(ctx context.Context, id string) (*execution.Run, error) {
	return r.processor.Wait(ctx, id)
}

// Run returns a run record
func (r *Runtime) Run(ctx context.Context, id string) (*execution.Run, error) {
	return r.processor.Load(ctx, id)
}

// Runs returns run records matching parameters, oldest first
func (r *Runtime) Runs(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Run, error) {
	return r.processor.List(ctx, parameters...)
}

// Start starts the worker pool
func (r *Runtime) Start(ctx context.Context) error {
	return r.processor.Start(ctx)
}

// Shutdown stops the workers, the event listener and closes the queue
func (r *Runtime) Shutdown(_ context.Context) error {
	r.processor.Shutdown()
	if closer, ok := r.queue.(interface{ Close() }); ok {
		closer.Close()
	}
	if r.events != nil {
		r.events.Close()
	}
	r.logger.Info("runtime stopped")
	return nil
}
