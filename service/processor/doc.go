// Package processor executes workflow runs. Execute walks a validated graph
// strictly sequentially in topological order, dispatching every node to its
// handler, recording per-node errors and pruning branches a condition did
// not take. Submitted runs are queued and consumed by a worker pool; each
// run owns its own execution context.
package processor
