// Package hireflow executes candidate screening workflows.
//
// A workflow is a directed acyclic graph of cards: a submission trigger,
// resume analysis, conditions and communications. Runs execute the graph
// sequentially in topological order; a condition prunes the branch it did
// not take, and per-node failures are recorded without stopping the run.
//
// End-users typically interact with the engine via the Service façade:
//
//	srv, _ := hireflow.New()
//	rt := srv.Runtime()
//	wf, _ := rt.LoadWorkflow(ctx, "screening.yaml")
//	result, _ := rt.Execute(ctx, wf, seed)
//
// Queued execution goes through Submit, which returns a wait function:
//
//	_ = rt.Start(ctx)
//	run, wait, _ := rt.Submit(ctx, wf, seed)
//	run, _ = wait(ctx)
package hireflow
