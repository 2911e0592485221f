// Package request validates an incoming GenerationRequest and compiles it
// into the immutable CompiledRequest the rest of the engine consumes.
//
// # Overview
//
// GenerationRequest supports YAML unmarshaling (gopkg.in/yaml.v3) through
// LoadRequest/LoadRequestFromBytes, with Validate as a separate step, so the
// CLI host and test fixtures can build requests from files while in-process
// callers build them by hand.
//
// Compile normalizes layers into canonical order, computes per-layer
// cumulative weight tables, builds a directed "may constrain" graph over
// layer ids, and derives a feasibility upper bound used to reject requests
// whose target_count cannot possibly be satisfied before any item is
// generated.
package request
