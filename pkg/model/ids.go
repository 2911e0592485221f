package model

// LayerId identifies a Layer within a request. Stable across the engine's
// lifetime; never regenerated.
type LayerId string

// TraitId identifies a Trait within its owning Layer.
type TraitId string
