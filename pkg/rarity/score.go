package rarity

import (
	"sort"

	"github.com/dshills/traitforge/pkg/model"
)

type traitKey struct {
	layer model.LayerId
	trait model.TraitId
}

// Score runs the single post-generation pass: per-(layer,trait) usage
// frequency, per-item score as the sum of 100/trait_pct over the item's
// assigned traits, and a stable descending rank (rank 1 is rarest, ties
// broken by ascending index). Items are mutated in place.
func Score(items []*model.GeneratedItem) {
	n := len(items)
	if n == 0 {
		return
	}

	counts := make(map[traitKey]int)
	for _, it := range items {
		for l, t := range it.Assignment {
			counts[traitKey{l, t}]++
		}
	}

	pct := make(map[traitKey]float64, len(counts))
	for k, c := range counts {
		pct[k] = float64(c) / float64(n) * 100
	}

	for _, it := range items {
		score := 0.0
		for l, t := range it.Assignment {
			if p := pct[traitKey{l, t}]; p > 0 {
				score += 100 / p
			}
		}
		it.RarityScore = score
	}

	ranked := make([]*model.GeneratedItem, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RarityScore != ranked[j].RarityScore {
			return ranked[i].RarityScore > ranked[j].RarityScore
		}
		return ranked[i].Index < ranked[j].Index
	})
	for i, it := range ranked {
		it.Rank = i + 1
	}
}

// BuildAttributes derives an item's metadata attributes list from its
// assignment, in layers' canonical ascending-Order order.
func BuildAttributes(layers []*model.Layer, assignment model.Assignment) []model.Attribute {
	attrs := make([]model.Attribute, 0, len(assignment))
	for _, l := range layers {
		traitID, ok := assignment[l.ID]
		if !ok {
			continue
		}
		trait := l.TraitByID(traitID)
		if trait == nil {
			continue
		}
		attrs = append(attrs, model.Attribute{TraitType: l.Name, Value: trait.Name})
	}
	return attrs
}
