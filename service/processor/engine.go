package processor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/viant/hireflow/internal/clock"
	"github.com/viant/hireflow/internal/idgen"
	"github.com/viant/hireflow/internal/logging"
	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/progress"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/runtime/scheduler"
	"github.com/viant/hireflow/service/event"
	"github.com/viant/hireflow/tracing"
)

// Execute runs workflow against seed and returns its report. Structural
// defects (invalid or cyclic graph) stop the run before any node executes:
// the returned result has status failed and the error is returned as well.
// Per-node failures never stop the run.
func (s *Service) Execute(ctx context.Context, workflow *model.Workflow, seed *model.Seed) (result *execution.Result, err error) {
	seed = seed.Clone()
	if seed == nil {
		seed = &model.Seed{}
	}
	if seed.ExecutionID == "" {
		seed.ExecutionID = idgen.New()
	}
	if workflow != nil && seed.WorkflowID == "" {
		seed.WorkflowID = workflow.ID
	}
	run := execution.NewContext(seed.ExecutionID, seed)
	run.WorkflowID = seed.WorkflowID

	logger := s.logger.With("executionId", run.ID, "workflowId", run.WorkflowID)
	if seed.JobID != "" {
		logger = logger.With("jobId", seed.JobID)
	}
	ctx = logging.WithLogger(ctx, logger)

	ctx, span := s.tracer.Start(ctx, "workflow.run", tracing.KindInternal)
	span.WithAttributes(map[string]string{"execution.id": run.ID, "workflow.id": run.WorkflowID})
	s.metrics.RunStarted()
	defer func() {
		if result != nil {
			s.metrics.RunFinished(string(result.Status), result.Success, time.Duration(result.ExecutionTimeMs)*time.Millisecond)
			span.WithInt("errors", len(result.Errors))
		}
		tracing.EndSpan(span, err)
	}()

	plan, err := scheduler.New(workflow)
	if err != nil {
		kind := execution.KindInvalidGraph
		if errors.Is(err, graph.ErrCyclicGraph) {
			kind = execution.KindCyclicGraph
		}
		s.metrics.Error(string(kind), string(execution.SeverityError))
		logger.Error("workflow rejected", "error", err)
		result = run.Failed(kind, err)
		s.events.Publish(ctx, s.eventContext(run, nil, event.RunRejected, 0), result)
		return result, err
	}
	logger.Info("run started", "nodes", len(plan.Order))
	ctx, tracker := progress.WithNewTracker(ctx, run.ID, workflow.Name, s.progress)
	tracker.Update(progress.Delta{Total: len(plan.Order), Pending: len(plan.Order)})
	s.events.Publish(ctx, s.eventContext(run, nil, event.RunStarted, 0), nil)

	pruner := scheduler.NewPruner(plan)
	for _, node := range plan.Order {
		if run.IsSkipped(node.ID) {
			s.metrics.Node(node.CardType.String(), string(execution.NodeStateSkipped), 0)
			span.AddEvent("node.skipped", map[string]string{"node.id": node.ID})
			tracker.Update(progress.Delta{Pending: -1, Skipped: 1})
			s.events.Publish(ctx, s.eventContext(run, node, event.NodeSkipped, 0), nil)
			logger.Debug("node skipped", "nodeId", node.ID)
			continue
		}
		port := s.executeNode(ctx, node, run, logger)
		if port == "" {
			continue
		}
		if skipped := pruner.KillPort(node.ID, port, run); len(skipped) > 0 {
			logger.Debug("branch pruned", "nodeId", node.ID, "port", port, "skipped", skipped)
		}
	}

	result = run.Report(workflow.Nodes)
	s.events.Publish(ctx, s.eventContext(run, nil, event.RunCompleted, result.ExecutionTimeMs), result)
	logger.Info("run completed", "success", result.Success, "errors", len(result.Errors), "skipped", run.SkippedCount(), "elapsedMs", result.ExecutionTimeMs)
	return result, nil
}

// executeNode dispatches one node and returns the port it selected, if any.
func (s *Service) executeNode(ctx context.Context, node *graph.Node, run *execution.Context, logger *slog.Logger) string {
	cardType := node.CardType.String()
	if _, err := s.executor.Lookup(node.CardType); err != nil {
		nodeErr := run.RecordError(node.ID, execution.UnknownNodeType(cardType))
		run.Skip(node.ID)
		s.metrics.Error(string(execution.KindUnknownNodeType), string(execution.SeverityWarning))
		s.metrics.Node(cardType, string(execution.NodeStateSkipped), 0)
		progress.UpdateCtx(ctx, progress.Delta{Pending: -1, Skipped: 1})
		s.events.Publish(ctx, s.eventContext(run, node, event.NodeSkipped, 0), nodeErr)
		logger.Warn("unknown node type", "nodeId", node.ID, "cardType", cardType)
		return ""
	}
	if err := run.Transition(node.ID, execution.NodeStateExecuting); err != nil {
		progress.UpdateCtx(ctx, progress.Delta{Pending: -1})
		logger.Error("node not dispatched", "nodeId", node.ID, "error", err)
		return ""
	}

	progress.UpdateCtx(ctx, progress.Delta{Pending: -1, Running: 1})
	started := clock.Now()
	nodeCtx, span := s.tracer.Start(ctx, "node."+cardType, tracing.KindInternal)
	span.WithAttributes(map[string]string{"node.id": node.ID, "node.cardType": cardType})
	output, err := s.executor.Execute(nodeCtx, node, run)
	tracing.EndSpan(span, err)
	elapsed := clock.Now().Sub(started)

	if output != nil && output.Value != nil {
		run.SetResult(node.ID, output.Value)
	}
	state := execution.NodeStateCompleted
	var data any
	if err != nil {
		nodeErr := run.RecordError(node.ID, err)
		data = nodeErr
		s.metrics.Error(string(nodeErr.Kind), string(nodeErr.Severity))
		if nodeErr.Severity == execution.SeverityError {
			state = execution.NodeStateFailed
			logger.Error("node failed", "nodeId", node.ID, "cardType", cardType, "kind", nodeErr.Kind, "error", err)
		} else {
			logger.Warn("node warning", "nodeId", node.ID, "cardType", cardType, "kind", nodeErr.Kind, "error", err)
		}
	}
	if tErr := run.Transition(node.ID, state); tErr != nil {
		logger.Error("node state not recorded", "nodeId", node.ID, "error", tErr)
	}
	s.metrics.Node(cardType, string(state), elapsed)
	eventType, delta := event.NodeCompleted, progress.Delta{Running: -1, Completed: 1}
	if state == execution.NodeStateFailed {
		eventType, delta = event.NodeFailed, progress.Delta{Running: -1, Failed: 1}
	}
	progress.UpdateCtx(ctx, delta)
	s.events.Publish(ctx, s.eventContext(run, node, eventType, elapsed.Milliseconds()), data)
	logger.Debug("node executed", "nodeId", node.ID, "state", state, "elapsedMs", elapsed.Milliseconds())
	if output == nil {
		return ""
	}
	return output.Port
}

func (s *Service) eventContext(run *execution.Context, node *graph.Node, eventType event.Type, takenMs int64) *event.Context {
	ret := &event.Context{
		ExecutionID: run.ID,
		WorkflowID:  run.WorkflowID,
		EventType:   eventType,
		TimeTakenMs: takenMs,
	}
	if node != nil {
		ret.NodeID = node.ID
		ret.CardType = node.CardType.String()
	}
	return ret
}
