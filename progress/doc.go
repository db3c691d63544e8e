// Package progress tracks node counters of a single workflow run. The
// tracker travels in the run context so the engine can update it without a
// global registry.
package progress
