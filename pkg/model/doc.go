// Package model defines the core data model for the generation engine:
// layers, traits, ruler rules, layer-combination (strict-pair) rules,
// assignments, and the records the engine emits. These types are created
// once by request compilation and are immutable for the engine's lifetime.
package model
