package model

import "fmt"

// TraitType distinguishes plain traits from traits that carry ruler rules.
type TraitType int

const (
	// TraitNormal carries no rules; it never constrains another layer.
	TraitNormal TraitType = iota
	// TraitRuler carries one or more RulerRules that constrain another layer
	// when this trait is selected.
	TraitRuler
)

// String returns the string representation of the TraitType.
func (t TraitType) String() string {
	switch t {
	case TraitNormal:
		return "Normal"
	case TraitRuler:
		return "Ruler"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// ImagePayload is an opaque, immutable image: raw bytes plus declared pixel
// dimensions. The engine never re-encodes or re-derives dimensions from the
// bytes; ingest is the caller's responsibility.
type ImagePayload struct {
	Bytes  []byte `json:"-"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	MIME   string `json:"mime"`
}

// RulerRule constrains the selection for TargetLayer whenever the owning
// trait is selected. Semantics: the target layer's selected trait must
// satisfy (Allowed empty OR selected in Allowed) AND (selected not in
// Forbidden).
type RulerRule struct {
	TargetLayer LayerId
	Allowed     map[TraitId]struct{}
	Forbidden   map[TraitId]struct{}
}

// Permits reports whether candidate is an acceptable selection for the
// rule's target layer.
func (r *RulerRule) Permits(candidate TraitId) bool {
	if _, forbidden := r.Forbidden[candidate]; forbidden {
		return false
	}
	if len(r.Allowed) == 0 {
		return true
	}
	_, allowed := r.Allowed[candidate]
	return allowed
}

// Trait is one candidate image within a Layer.
type Trait struct {
	ID     TraitId
	Name   string
	Weight int // 1..5, relative sampling multiplier
	Type   TraitType
	Image  ImagePayload
	Rules  []RulerRule // only meaningful when Type == TraitRuler
}

// String returns a human-readable representation of the Trait.
func (t *Trait) String() string {
	return fmt.Sprintf("Trait[%s %q w=%d %s]", t.ID, t.Name, t.Weight, t.Type)
}
