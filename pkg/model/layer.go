package model

import "fmt"

// Layer is an ordered group of candidate Traits. Layers are processed
// low-to-high Order when compositing. A Layer with no traits must be
// Optional, in which case it contributes no variable to an Assignment.
type Layer struct {
	ID       LayerId
	Name     string
	Order    int
	Optional bool
	Traits   []*Trait
}

// TraitByID returns the trait with the given ID, or nil if absent.
func (l *Layer) TraitByID(id TraitId) *Trait {
	for _, t := range l.Traits {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// String returns a human-readable representation of the Layer.
func (l *Layer) String() string {
	return fmt.Sprintf("Layer[%s %q order=%d traits=%d]", l.ID, l.Name, l.Order, len(l.Traits))
}

// LayerCombination is a strict-pair uniqueness rule: the projection of
// every emitted item's assignment onto LayerIDs must be unique among all
// emitted items, for as long as Active is true.
type LayerCombination struct {
	ID       string
	LayerIDs []LayerId
	Active   bool
}
