package request

import (
	"crypto/sha256"
	"sort"

	lvlath "github.com/katalvlaran/lvlath/graph"

	"github.com/dshills/traitforge/pkg/model"
)

// CompiledRequest is the immutable, validated form of a GenerationRequest.
// It is produced once by Compile and shared read-only across every worker
// and solver invocation for the run.
type CompiledRequest struct {
	Name             string
	Description      string
	OutputWidth      uint32
	OutputHeight     uint32
	TargetCount      uint32
	MetadataStandard model.MetadataStandard

	// Layers are in canonical (ascending Order) order.
	Layers    []*model.Layer
	LayerByID map[model.LayerId]*model.Layer

	StrictPairRules []*model.LayerCombination

	// ConstraintGraph maps LayerId -> set of LayerIds it may constrain,
	// derived from every ruler trait's rules (edge Li->Lj for a rule on a
	// trait in Li targeting Lj). Self-referential edges are never added.
	ConstraintGraph *lvlath.Graph

	// WeightPrefix holds, per layer, the cumulative weight array over
	// Layer.Traits in order: WeightPrefix[id][i] = sum of weights of
	// traits[0..i]. The solver does not read it: its weighted draws use the
	// weights of the surviving (pruned) domain only.
	WeightPrefix map[model.LayerId][]int

	// FeasibilityEstimate is an upper bound on the number of distinct items
	// the request can produce.
	FeasibilityEstimate uint64

	Seed              uint64
	WorkerCap         uint32
	AttemptBudget     uint32
	MemoryBudgetBytes uint64

	hash []byte
}

// OutputSize returns the declared output raster size.
func (c *CompiledRequest) OutputSize() OutputSize {
	return OutputSize{Width: c.OutputWidth, Height: c.OutputHeight}
}

// Hash returns the compiled request's content hash, used to derive
// per-worker RNG streams. The same request compiled twice yields the same
// hash.
func (c *CompiledRequest) Hash() []byte {
	return c.hash
}

// ActiveLayerCombinations returns the strict-pair rules currently active.
func (c *CompiledRequest) ActiveLayerCombinations() []*model.LayerCombination {
	out := make([]*model.LayerCombination, 0, len(c.StrictPairRules))
	for _, lc := range c.StrictPairRules {
		if lc.Active {
			out = append(out, lc)
		}
	}
	return out
}

// Compile validates req and builds the derived tables the rest of the
// engine consumes: canonical layer order, weight prefix sums, the
// constraint graph, and a feasibility upper bound. It returns an
// *model.EngineError on any failure named in the engine's error taxonomy.
func Compile(req *GenerationRequest) (*CompiledRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resolved := *req
	if resolved.Seed == nil {
		s := generateSeed()
		resolved.Seed = &s
	}
	if resolved.WorkerCap == nil {
		w := uint32(DefaultWorkerCap)
		resolved.WorkerCap = &w
	}
	if resolved.AttemptBudget == nil {
		a := uint32(DefaultAttemptBudget)
		resolved.AttemptBudget = &a
	}
	if resolved.MemoryBudgetBytes == nil {
		m := uint64(DefaultMemoryBudgetBytes)
		resolved.MemoryBudgetBytes = &m
	}

	layers := make([]*model.Layer, 0, len(resolved.Layers))
	layerByID := make(map[model.LayerId]*model.Layer, len(resolved.Layers))
	weightPrefix := make(map[model.LayerId][]int, len(resolved.Layers))

	for _, li := range resolved.Layers {
		layer := &model.Layer{
			ID:       model.LayerId(li.ID),
			Name:     li.Name,
			Order:    li.Order,
			Optional: li.Optional,
			Traits:   make([]*model.Trait, 0, len(li.Traits)),
		}
		for _, ti := range li.Traits {
			trait := &model.Trait{
				ID:     model.TraitId(ti.ID),
				Name:   ti.Name,
				Weight: ti.Weight,
				Type:   model.TraitNormal,
				Image: model.ImagePayload{
					Bytes:  ti.Image.Bytes,
					Width:  ti.Image.Width,
					Height: ti.Image.Height,
					MIME:   ti.Image.MIME,
				},
			}
			if ti.Type == "ruler" || len(ti.Rules) > 0 {
				trait.Type = model.TraitRuler
			}
			for _, ri := range ti.Rules {
				if ri.TargetLayer == li.ID {
					// Self-referential rules are ignored.
					continue
				}
				rule := model.RulerRule{
					TargetLayer: model.LayerId(ri.TargetLayer),
					Allowed:     toSet(ri.Allowed),
					Forbidden:   toSet(ri.Forbidden),
				}
				trait.Rules = append(trait.Rules, rule)
			}
			layer.Traits = append(layer.Traits, trait)
		}

		layers = append(layers, layer)
		layerByID[layer.ID] = layer

		prefix := make([]int, len(layer.Traits))
		sum := 0
		for i, t := range layer.Traits {
			sum += t.Weight
			prefix[i] = sum
		}
		weightPrefix[layer.ID] = prefix
	}

	sort.Slice(layers, func(i, j int) bool { return layers[i].Order < layers[j].Order })

	strictPairRules := make([]*model.LayerCombination, 0, len(resolved.StrictPairRules))
	for _, lci := range resolved.StrictPairRules {
		ids := make([]model.LayerId, len(lci.LayerIDs))
		for i, id := range lci.LayerIDs {
			ids[i] = model.LayerId(id)
		}
		strictPairRules = append(strictPairRules, &model.LayerCombination{
			ID:       lci.ID,
			LayerIDs: ids,
			Active:   lci.Active,
		})
	}

	constraintGraph := buildConstraintGraph(layers)

	feasibility := feasibilityEstimate(layers, strictPairRules)

	if resolved.TargetCount < 1 || uint64(resolved.TargetCount) > feasibility {
		return nil, model.NewInfeasible(resolved.TargetCount, feasibility)
	}

	standard := model.StandardERC721
	if resolved.MetadataStandard == "ERC1155" {
		standard = model.StandardERC1155
	}

	compiled := &CompiledRequest{
		Name:                resolved.Name,
		Description:         resolved.Description,
		OutputWidth:         resolved.OutputSize.Width,
		OutputHeight:        resolved.OutputSize.Height,
		TargetCount:         resolved.TargetCount,
		MetadataStandard:    standard,
		Layers:              layers,
		LayerByID:           layerByID,
		StrictPairRules:     strictPairRules,
		ConstraintGraph:     constraintGraph,
		WeightPrefix:        weightPrefix,
		FeasibilityEstimate: feasibility,
		Seed:                *resolved.Seed,
		WorkerCap:           *resolved.WorkerCap,
		AttemptBudget:       *resolved.AttemptBudget,
		MemoryBudgetBytes:   *resolved.MemoryBudgetBytes,
	}

	yamlBytes, err := resolved.ToYAML()
	if err != nil {
		// Fall back to hashing the seed alone; still deterministic.
		h := sha256.Sum256([]byte{byte(compiled.Seed)})
		compiled.hash = h[:]
	} else {
		h := sha256.Sum256(yamlBytes)
		compiled.hash = h[:]
	}

	return compiled, nil
}

func toSet(ids []string) map[model.TraitId]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[model.TraitId]struct{}, len(ids))
	for _, id := range ids {
		set[model.TraitId(id)] = struct{}{}
	}
	return set
}

// buildConstraintGraph builds a directed graph whose vertices are LayerIds
// and whose edges Li->Lj mean "a trait in Li may constrain Lj", derived
// from every ruler trait's rules.
func buildConstraintGraph(layers []*model.Layer) *lvlath.Graph {
	g := lvlath.NewGraph(true, false)
	for _, l := range layers {
		g.AddVertex(&lvlath.Vertex{ID: string(l.ID)})
	}
	for _, l := range layers {
		for _, t := range l.Traits {
			for _, rule := range t.Rules {
				if rule.TargetLayer == l.ID {
					continue
				}
				if !g.HasEdge(string(l.ID), string(rule.TargetLayer)) {
					g.AddEdge(string(l.ID), string(rule.TargetLayer), 0)
				}
			}
		}
	}
	return g
}

// feasibilityEstimate computes an upper bound on the number of distinct
// items the request can produce: the product of per-layer trait counts
// (non-empty layers only; empty optional layers contribute a factor of 1),
// narrowed by the tightest active strict-pair rule's own capacity, since no
// strict-pair rule can ever be satisfied by more distinct items than the
// product of the layer sizes it spans. Ruler-rule exclusions are not
// subtracted exactly (computing the exact reachable count is equivalent to
// counting solutions of a general CSP); this keeps the bound cheap and
// sound while remaining an upper, not exact, estimate.
func feasibilityEstimate(layers []*model.Layer, strictPairRules []*model.LayerCombination) uint64 {
	full := uint64(1)
	sizes := make(map[model.LayerId]uint64, len(layers))
	for _, l := range layers {
		n := uint64(len(l.Traits))
		sizes[l.ID] = n
		if n == 0 {
			continue // empty optional layer contributes no variable
		}
		full *= n
	}

	estimate := full
	for _, lc := range strictPairRules {
		if !lc.Active {
			continue
		}
		product := uint64(1)
		for _, id := range lc.LayerIDs {
			if n, ok := sizes[id]; ok && n > 0 {
				product *= n
			}
		}
		if product < estimate {
			estimate = product
		}
	}
	return estimate
}
