// Package tracing integrates OpenTelemetry with the hireflow engine: one span
// per workflow run and one child span per executed node. Applications that do
// not configure a provider get no-op spans.
package tracing
