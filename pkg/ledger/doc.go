// Package ledger tracks committed assignments to forbid duplicate items and
// duplicate projections onto any active strict-pair layer combination.
//
// # Overview
//
// Two kinds of 128-bit fingerprint sets are maintained: one for whole-item
// assignments and one per active LayerCombination, restricted to that
// combination's layers. A fingerprint is built from two domain-separated
// 64-bit github.com/cespare/xxhash/v2 digests over the assignment's
// canonical byte encoding, the same "hash a canonical sorted encoding"
// shape used elsewhere in this codebase for config hashing, widened to 128
// bits.
//
// # Concurrency
//
// WouldCollide/Reserve/Commit/Release together implement a two-phase
// protocol so concurrent solvers can check-then-commit without a race: a
// worker calls Reserve to provisionally claim an assignment's keys, renders
// the item, then calls Release(token, true) to make the reservation
// permanent or Release(token, false) to abandon it. All mutation happens
// under a single mutex; the ledger never exposes a lock-free fast path,
// matching the corpus's default choice of a plain mutex over the other
// concurrency primitives it is built from.
package ledger
