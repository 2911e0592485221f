package solver

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/dshills/traitforge/pkg/model"
	"github.com/dshills/traitforge/pkg/request"
)

// domains maps each layer to a bitmap of surviving trait indices (dense
// indices into that layer's Traits slice).
type domains map[model.LayerId]*roaring.Bitmap

// initDomains builds the full, unpruned domain set: every non-empty
// layer's bitmap contains every trait index. Empty optional layers are
// omitted entirely, since they contribute no variable.
func initDomains(compiled *request.CompiledRequest) domains {
	d := make(domains, len(compiled.Layers))
	for _, l := range compiled.Layers {
		if len(l.Traits) == 0 {
			continue
		}
		bm := roaring.New()
		for i := range l.Traits {
			bm.Add(uint32(i))
		}
		d[l.ID] = bm
	}
	return d
}

func (d domains) clone() domains {
	out := make(domains, len(d))
	for id, bm := range d {
		out[id] = bm.Clone()
	}
	return out
}

// traitAt resolves the trait at domain index idx within layer l.
func traitAt(l *model.Layer, idx uint32) *model.Trait {
	return l.Traits[idx]
}
