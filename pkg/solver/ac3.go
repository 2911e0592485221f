package solver

import (
	"github.com/dshills/traitforge/pkg/model"
	"github.com/dshills/traitforge/pkg/request"
)

// arc is a directed pair (Li, Lj): "Li's domain may need revising against
// Lj's domain."
type arc struct {
	from, to model.LayerId
}

// neighbors returns every layer connected to id via a constraint-graph edge
// in either direction, since rule attachment is asymmetric but the
// resulting semantic collision is symmetric.
func neighbors(compiled *request.CompiledRequest, id model.LayerId) []model.LayerId {
	g := compiled.ConstraintGraph
	seen := make(map[model.LayerId]struct{})
	var out []model.LayerId
	for _, v := range g.Neighbors(string(id)) {
		lid := model.LayerId(v.ID)
		if _, ok := seen[lid]; !ok {
			seen[lid] = struct{}{}
			out = append(out, lid)
		}
	}
	for _, e := range g.Edges() {
		if e.To != nil && e.To.ID == string(id) {
			lid := model.LayerId(e.From.ID)
			if _, ok := seen[lid]; !ok {
				seen[lid] = struct{}{}
				out = append(out, lid)
			}
		}
	}
	return out
}

// consistent reports whether selecting trait index ti in layer li together
// with trait index tj in layer lj satisfies every rule either trait carries
// against the other's layer. Rule attachment is one-directional (a rule on
// ti's trait constrains lj); both directions are checked since either
// trait may carry the constraining rule.
func consistent(li *model.Layer, ti uint32, lj *model.Layer, tj uint32) bool {
	a := traitAt(li, ti)
	b := traitAt(lj, tj)
	for _, rule := range a.Rules {
		if rule.TargetLayer == lj.ID && !rule.Permits(b.ID) {
			return false
		}
	}
	for _, rule := range b.Rules {
		if rule.TargetLayer == li.ID && !rule.Permits(a.ID) {
			return false
		}
	}
	return true
}

// revise retains t in domain(Li) iff some u in domain(Lj) is consistent
// with it. It reports whether any value was removed.
func revise(compiled *request.CompiledRequest, d domains, li, lj model.LayerId) bool {
	liLayer := compiled.LayerByID[li]
	ljLayer := compiled.LayerByID[lj]
	domLi, ok := d[li]
	if !ok {
		return false
	}
	domLj, ok := d[lj]
	if !ok {
		return false
	}

	removed := false
	for _, ti := range domLi.ToArray() {
		supported := false
		for _, tj := range domLj.ToArray() {
			if consistent(liLayer, ti, ljLayer, tj) {
				supported = true
				break
			}
		}
		if !supported {
			domLi.Remove(ti)
			removed = true
		}
	}
	return removed
}

// ac3 prunes d to a fixpoint, seeding the worklist with every arc derived
// from compiled.ConstraintGraph (bidirectional: both (Li,Lj) and (Lj,Li)
// for every edge Li->Lj). It reports the first layer whose domain became
// empty, if any.
func ac3(compiled *request.CompiledRequest, d domains) (emptyLayer model.LayerId, infeasible bool) {
	var queue []arc
	queued := make(map[arc]struct{})

	enqueue := func(a arc) {
		if _, ok := d[a.from]; !ok {
			return
		}
		if _, ok := d[a.to]; !ok {
			return
		}
		if _, ok := queued[a]; ok {
			return
		}
		queued[a] = struct{}{}
		queue = append(queue, a)
	}

	for _, e := range compiled.ConstraintGraph.Edges() {
		from := model.LayerId(e.From.ID)
		to := model.LayerId(e.To.ID)
		enqueue(arc{from, to})
		enqueue(arc{to, from})
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
