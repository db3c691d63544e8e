// Package idgen wraps the UUID generator used for run and execution
// identifiers so that tests can pin them. Callers treat the values as opaque
// strings.
package idgen
