package model

import "sort"

// Assignment is a total function from each non-empty Layer to exactly one
// Trait in that Layer.
type Assignment map[LayerId]TraitId

// Clone returns an independent copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// LayerIDs returns the assignment's layer IDs in sorted order.
func (a Assignment) LayerIDs() []LayerId {
	ids := make([]LayerId, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Project returns the sub-assignment restricted to the given layer IDs.
// Layers not present in the assignment (e.g. an empty optional layer) are
// silently skipped.
func (a Assignment) Project(layerIDs []LayerId) Assignment {
	out := make(Assignment, len(layerIDs))
	for _, id := range layerIDs {
		if tr, ok := a[id]; ok {
			out[id] = tr
		}
	}
	return out
}

// CanonicalBytes returns a canonical, order-independent byte encoding of the
// assignment: layer IDs sorted, then "<layerID>\x00<traitID>\x1f" repeated.
// Two assignments with identical (layer,trait) pairs produce identical
// bytes regardless of map iteration order.
func (a Assignment) CanonicalBytes() []byte {
	ids := a.LayerIDs()
	buf := make([]byte, 0, 32*len(ids))
	for _, id := range ids {
		buf = append(buf, []byte(id)...)
		buf = append(buf, 0x00)
		buf = append(buf, []byte(a[id])...)
		buf = append(buf, 0x1f)
	}
	return buf
}
