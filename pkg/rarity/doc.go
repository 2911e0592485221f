// Package rarity runs the single pass that follows the last emitted item:
// per-trait frequency, per-item rarity score, stable descending rank, and
// the per-item metadata record.
//
// Metadata records are hand-ordered structs encoded with
// json.MarshalIndent, since their field order is part of the contract.
package rarity
