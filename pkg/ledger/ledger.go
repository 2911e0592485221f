package ledger

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/traitforge/pkg/model"
)

// reservation holds the keys a Reserve call has provisionally claimed,
// pending a matching Release.
type reservation struct {
	wholeKey model.UniquenessKey
	projKeys map[string]model.UniquenessKey
}

// Ledger tracks whole-item fingerprints and, for each active
// LayerCombination, a fingerprint set restricted to that combination's
// layers. All mutation is guarded by a single mutex.
type Ledger struct {
	mu sync.Mutex

	combinations []*model.LayerCombination

	wholeItems  map[model.UniquenessKey]struct{}
	projections map[string]map[model.UniquenessKey]struct{}

	pending map[uuid.UUID]*reservation
}

// New creates a Ledger tracking the given active strict-pair rules. Callers
// should pass only the rules with Active == true; the ledger does not
// itself filter by activity.
func New(active []*model.LayerCombination) *Ledger {
	l := &Ledger{
		combinations: active,
		wholeItems:   make(map[model.UniquenessKey]struct{}),
		projections:  make(map[string]map[model.UniquenessKey]struct{}, len(active)),
		pending:      make(map[uuid.UUID]*reservation),
	}
	for _, lc := range active {
		l.projections[lc.ID] = make(map[model.UniquenessKey]struct{})
	}
	return l
}

// keysFor computes the whole-item key and every active combination's
// projection key for an assignment.
func (l *Ledger) keysFor(a model.Assignment) (model.UniquenessKey, map[string]model.UniquenessKey) {
	whole := fingerprint(a)
	projs := make(map[string]model.UniquenessKey, len(l.combinations))
	for _, lc := range l.combinations {
		projs[lc.ID] = fingerprint(a.Project(lc.LayerIDs))
	}
	return whole, projs
}

// WouldCollide reports whether committing a would collide with an already
// committed or currently reserved assignment: the whole-item key exists, or
// any active projection key exists.
func (l *Ledger) WouldCollide(a model.Assignment) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	whole, projs := l.keysFor(a)
	return l.collidesLocked(whole, projs)
}

func (l *Ledger) collidesLocked(whole model.UniquenessKey, projs map[string]model.UniquenessKey) bool {
	if _, ok := l.wholeItems[whole]; ok {
		return true
	}
	for id, key := range projs {
		if _, ok := l.projections[id][key]; ok {
			return true
		}
	}
	return false
}

// Commit inserts all of a's keys directly. Must only be called when a prior
// WouldCollide(a) returned false and no other commit has intervened.
func (l *Ledger) Commit(a model.Assignment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	whole, projs := l.keysFor(a)
	l.insertLocked(whole, projs)
}

func (l *Ledger) insertLocked(whole model.UniquenessKey, projs map[string]model.UniquenessKey) {
	l.wholeItems[whole] = struct{}{}
	for id, key := range projs {
		l.projections[id][key] = struct{}{}
	}
}

// Reserve provisionally claims a's keys for the caller, returning a token
// to later Release. It returns ok=false without mutating state if a
// collides with an already committed or reserved assignment, in which case
// the caller should retry with a different assignment.
func (l *Ledger) Reserve(a model.Assignment) (token uuid.UUID, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	whole, projs := l.keysFor(a)
	if l.collidesLocked(whole, projs) {
		return uuid.UUID{}, false
	}
	// Provisionally occupy the keys so concurrent Reserve calls see them.
	l.insertLocked(whole, projs)

	token = uuid.New()
	l.pending[token] = &reservation{wholeKey: whole, projKeys: projs}
	return token, true
}

// Release finalizes or abandons a reservation. commit=true keeps the
// reserved keys committed (a no-op, since Reserve already installed them);
// commit=false rolls the reservation back, freeing its keys for reuse.
func (l *Ledger) Release(token uuid.UUID, commit bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.pending[token]
	if !ok {
		return
	}
	delete(l.pending, token)

	if commit {
		return
	}
	delete(l.wholeItems, r.wholeKey)
	for id, key := range r.projKeys {
		delete(l.projections[id], key)
	}
}
