// Package solver finds, for one item, an Assignment satisfying every ruler
// rule and not colliding with the uniqueness ledger.
//
// # Algorithm
//
// Domains are represented as github.com/RoaringBitmap/roaring bitmaps over
// dense per-layer trait indices, rather than Go slices/maps: revise,
// domain-emptiness checks, and "retain iff a supporting value exists" all
// reduce to bitmap operations. AC-3 prunes every layer's domain to a
// fixpoint before search begins. Search then proceeds
// most-constrained-first (smallest remaining domain, ties broken by
// constraint-graph degree and then by Order), drawing values by weighted
// random sampling over the pruned domain's remaining weights
// (pkg/rng.WeightedChoice) and forward-checking every assignment.
//
// The ordering heuristics are grounded on the domain/degree and
// value-ordering taxonomy used by finite-domain solvers generally
// (smallest-domain-first variable selection, weighted/randomized value
// selection), concretized here into this engine's single ordering rule.
package solver
