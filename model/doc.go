// Package model contains the in-memory representation of screening workflow
// definitions and of the seed payload a run starts from.
//
// A workflow is typically loaded from a YAML or JSON document (as produced by
// the visual editor) into the structures defined here and in the `graph` and
// `state` sub-packages.
package model
