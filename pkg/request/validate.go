package request

import (
	"github.com/dshills/traitforge/pkg/model"
)

// Validate checks structural validity of the request, independent of
// feasibility (which Compile checks once layer/trait tables are built).
// It returns the first failure found, classified per the engine's error
// taxonomy.
func (r *GenerationRequest) Validate() error {
	if len(r.Layers) == 0 {
		return model.New(model.ErrEmptyLayer, "request has no layers")
	}

	if r.OutputSize.Width == 0 || r.OutputSize.Height == 0 {
		return model.New(model.ErrInvalidOutputSize, "output_size must have width > 0 and height > 0, got %dx%d", r.OutputSize.Width, r.OutputSize.Height)
	}

	layerIDs := make(map[string]struct{}, len(r.Layers))
	for _, l := range r.Layers {
		if _, dup := layerIDs[l.ID]; dup {
			return model.New(model.ErrInvalidRule, "duplicate layer id %q", l.ID)
		}
		layerIDs[l.ID] = struct{}{}

		if !l.Optional && len(l.Traits) == 0 {
			return model.New(model.ErrEmptyLayer, "non-optional layer %q has no traits", l.ID)
		}

		traitIDs := make(map[string]struct{}, len(l.Traits))
		for _, t := range l.Traits {
			if _, dup := traitIDs[t.ID]; dup {
				return model.New(model.ErrInvalidRule, "duplicate trait id %q in layer %q", t.ID, l.ID)
			}
			traitIDs[t.ID] = struct{}{}

			if t.Weight < 1 || t.Weight > 5 {
				return model.New(model.ErrWeightOutOfRange, "trait %q weight %d out of range [1,5]", t.ID, t.Weight)
			}

			if len(t.Image.Bytes) == 0 {
				return model.New(model.ErrDimensionMismatch, "trait %q has an empty image payload", t.ID)
			}
			if uint32(t.Image.Width) != r.OutputSize.Width || uint32(t.Image.Height) != r.OutputSize.Height {
				return model.New(model.ErrDimensionMismatch, "trait %q image is %dx%d, expected %dx%d", t.ID, t.Image.Width, t.Image.Height, r.OutputSize.Width, r.OutputSize.Height)
			}
		}
	}

	for _, l := range r.Layers {
		for _, t := range l.Traits {
			for _, rule := range t.Rules {
				if _, ok := layerIDs[rule.TargetLayer]; !ok {
					return model.New(model.ErrInvalidRule, "trait %q rule targets unknown layer %q", t.ID, rule.TargetLayer)
				}
				if ruleOverlaps(rule) {
					return model.New(model.ErrInvalidRule, "trait %q rule has overlapping allowed/forbidden sets for layer %q", t.ID, rule.TargetLayer)
				}
			}
		}
	}

	for _, lc := range r.StrictPairRules {
		if len(lc.LayerIDs) == 0 {
			return model.New(model.ErrInvalidRule, "strict_pair_rule %q has no layer_ids", lc.ID)
		}
		for _, id := range lc.LayerIDs {
			if _, ok := layerIDs[id]; !ok {
				return model.New(model.ErrInvalidRule, "strict_pair_rule %q references unknown layer %q", lc.ID, id)
			}
		}
	}

	switch r.MetadataStandard {
	case "", "ERC721", "ERC1155":
	default:
		return model.New(model.ErrInvalidRule, "unknown metadata_standard %q", r.MetadataStandard)
	}

	return nil
}

func ruleOverlaps(r RulerRuleInput) bool {
	if len(r.Allowed) == 0 || len(r.Forbidden) == 0 {
		return false
	}
	forbidden := make(map[string]struct{}, len(r.Forbidden))
	for _, id := range r.Forbidden {
		forbidden[id] = struct{}{}
	}
	for _, id := range r.Allowed {
		if _, ok := forbidden[id]; ok {
			return true
		}
	}
	return false
}
