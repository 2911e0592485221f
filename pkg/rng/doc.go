// Package rng provides deterministic random number generation for the
// generation engine.
//
// # Overview
//
// The RNG type ensures reproducible runs by deriving worker-specific seeds
// from a master seed. This lets each scheduler worker sample independently
// while the run as a whole stays reproducible for a fixed seed and a fixed
// worker count.
//
// # Sub-Seed Derivation
//
// Each RNG derives its seed using SHA-256:
//
//	seed_worker = H(masterSeed, streamName, requestHash)
//
// where:
//   - masterSeed: the request's top-level seed
//   - streamName: identifies the stream (e.g. "worker-3")
//   - requestHash: hash of the compiled request, so a changed request
//     never silently reuses a prior run's sequence
//
// This ensures:
//  1. Same inputs always produce the same RNG sequence (determinism)
//  2. Different workers get independent random sequences (isolation)
//  3. Request changes result in different sequences (sensitivity)
//
// # Usage
//
//	reqHash := compiled.Hash()
//	w0 := rng.NewRNG(req.Seed, "worker-0", reqHash)
//	w1 := rng.NewRNG(req.Seed, "worker-1", reqHash)
//
//	idx := w0.WeightedChoice(weights)
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. Each worker goroutine uses its own
// instance, created before workers are spawned and passed explicitly.
package rng
