package solver

import (
	"context"
	"sort"

	"github.com/dshills/traitforge/pkg/ledger"
	"github.com/dshills/traitforge/pkg/model"
	"github.com/dshills/traitforge/pkg/request"
	"github.com/dshills/traitforge/pkg/rng"
	"github.com/dshills/traitforge/pkg/telemetry"
)

// Solve finds one Assignment for compiled that satisfies every ruler rule
// and does not collide with led, or returns an *model.EngineError of kind
// ErrInfeasible or ErrSolverExhausted (or the context's error). It is the
// per-item entry point the scheduler calls once per work-queue item.
// metrics may be nil, in which case backtrack restarts are not recorded.
func Solve(ctx context.Context, compiled *request.CompiledRequest, led *ledger.Ledger, r *rng.RNG, metrics *telemetry.Metrics) (model.Assignment, error) {
	base := initDomains(compiled)
	if emptyLayer, infeasible := ac3(compiled, base); infeasible {
		return nil, model.New(model.ErrInfeasible, "layer %q has no consistent trait after arc-consistency pruning", emptyLayer)
	}

	budget := compiled.AttemptBudget
	if budget == 0 {
		budget = request.DefaultAttemptBudget
	}

	s := &search{compiled: compiled, led: led, rng: r}
	for attempt := uint32(0); attempt < budget; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if assignment, ok := s.run(ctx, base.clone()); ok {
			return assignment, nil
		}
		if metrics != nil {
			metrics.SolverRestarts.Inc()
		}
	}

	return nil, model.New(model.ErrSolverExhausted, "exhausted attempt budget (%d) without a collision-free assignment", budget)
}

type search struct {
	compiled *request.CompiledRequest
	led      *ledger.Ledger
	rng      *rng.RNG
}

func (s *search) run(ctx context.Context, d domains) (model.Assignment, bool) {
	assignment := make(model.Assignment, len(s.compiled.Layers))
	return s.step(ctx, assignment, d)
}

func (s *search) step(ctx context.Context, assignment model.Assignment, d domains) (model.Assignment, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	default:
	}

	layer := s.pickLayer(assignment, d)
	if layer == nil {
		if s.led.WouldCollide(assignment) {
			return nil, false // local dead-end: backtrack without touching the ledger
		}
		return assignment.Clone(), true
	}

	dom := d[layer.ID]
	indices := dom.ToArray()
	if len(indices) == 0 {
		return nil, false
	}

	for _, idx := range weightedOrder(s.rng, layer, indices) {
		trait := traitAt(layer, idx)

		next := d.clone()
		next[layer.ID].Clear()
		next[layer.ID].Add(idx)

		if _, infeasible := forwardCheck(s.compiled, next, layer.ID); infeasible {
			continue
		}

		assignment[layer.ID] = trait.ID
		if result, ok := s.step(ctx, assignment, next); ok {
			return result, true
		}
		delete(assignment, layer.ID)
	}

	return nil, false
}

// pickLayer selects the next unassigned layer: most-constrained-first
// (smallest remaining domain), ties broken by constraint-graph degree
// (more constrained layers first), then by declared Order.
func (s *search) pickLayer(assignment model.Assignment, d domains) *model.Layer {
	var candidates []*model.Layer
	for _, l := range s.compiled.Layers {
		if len(l.Traits) == 0 {
			continue // empty optional layer contributes no variable
		}
		if _, assigned := assignment[l.ID]; assigned {
			continue
		}
		candidates = append(candidates, l)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		szI := d[ci.ID].GetCardinality()
		szJ := d[cj.ID].GetCardinality()
		if szI != szJ {
			return szI < szJ
		}
		degI := len(neighbors(s.compiled, ci.ID))
		degJ := len(neighbors(s.compiled, cj.ID))
		if degI != degJ {
			return degI > degJ
		}
		return ci.Order < cj.Order
	})
	return candidates[0]
}

// forwardCheck applies arc-consistency restricted to arcs touching the
// just-assigned layer, propagating outward. It reports the first emptied
// layer, if any.
func forwardCheck(compiled *request.CompiledRequest, d domains, assigned model.LayerId) (model.LayerId, bool) {
	var queue []arc
	queued := make(map[arc]struct{})
	enqueue := func(a arc) {
		if _, ok := queued[a]; ok {
			return
		}
		queued[a] = struct{}{}
		queue = append(queue, a)
	}
	for _, lk := range neighbors(compiled, assigned) {
		enqueue(arc{lk, assigned})
	}

	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		delete(queued, a)

		if !revise(compiled, d, a.from, a.to) {
			continue
		}
		if d[a.from].IsEmpty() {
			return a.from, true
		}
		for _, lk := range neighbors(compiled, a.from) {
			if lk == a.to {
				continue
			}
			enqueue(arc{lk, a.from})
		}
	}
	return "", false
}

// weightedOrder returns indices in a full draw-without-replacement order,
// weighted by each candidate's remaining rarity_weight: repeatedly drawing
// via rng.WeightedChoice over the pruned domain, never the original
// distribution, per the engine's weighted-sampling-under-pruning rule.
func weightedOrder(r *rng.RNG, layer *model.Layer, indices []uint32) []uint32 {
	remaining := append([]uint32(nil), indices...)
	order := make([]uint32, 0, len(indices))
	for len(remaining) > 0 {
		weights := make([]float64, len(remaining))
		for i, idx := range remaining {
			weights[i] = float64(traitAt(layer, idx).Weight)
		}
		pick := r.WeightedChoice(weights)
		if pick < 0 {
			pick = 0
		}
		order = append(order, remaining[pick])
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}
	return order
}
