package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/dshills/traitforge/pkg/compositor"
	"github.com/dshills/traitforge/pkg/ledger"
	"github.com/dshills/traitforge/pkg/model"
	"github.com/dshills/traitforge/pkg/rarity"
	"github.com/dshills/traitforge/pkg/request"
	"github.com/dshills/traitforge/pkg/rng"
	"github.com/dshills/traitforge/pkg/solver"
	"github.com/dshills/traitforge/pkg/telemetry"
)

// Scheduler is the C5 orchestrator: it owns no state across runs beyond
// what Run's caller supplies, matching the engine's "discard all state at
// run end" lifecycle.
type Scheduler struct {
	compiled *request.CompiledRequest
	ledger   *ledger.Ledger
	comp     *compositor.Compositor
	metrics  *telemetry.Metrics
	logger   *zap.Logger
}

// New builds a Scheduler for one run. led and comp are expected to be
// freshly constructed for this compiled request; logger may be
// logging.Noop() if the caller wants no diagnostics.
func New(compiled *request.CompiledRequest, led *ledger.Ledger, comp *compositor.Compositor, metrics *telemetry.Metrics, logger *zap.Logger) *Scheduler {
	return &Scheduler{compiled: compiled, ledger: led, comp: comp, metrics: metrics, logger: logger}
}

// Run drives the full item-generation pass and returns a channel of
// events. The channel is closed after a terminal Complete, Cancelled, or
// Error event. Run itself never blocks; all work happens in spawned
// workers.
func (s *Scheduler) Run(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go s.orchestrate(ctx, out)
	return out
}

func (s *Scheduler) orchestrate(ctx context.Context, out chan<- Event) {
	defer close(out)

	total := s.compiled.TargetCount
	workerCap := s.compiled.WorkerCap
	if workerCap == 0 {
		workerCap = request.DefaultWorkerCap
	}
	numWorkers := int(workerCap)
	if hw := runtime.GOMAXPROCS(0); hw < numWorkers {
		numWorkers = hw
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	budget := s.compiled.MemoryBudgetBytes
	if budget == 0 {
		budget = request.DefaultMemoryBudgetBytes
	}
	sem := semaphore.NewWeighted(int64(budget))

	var nextIndex uint32
	var completed uint32
	var bytesInFlight int64
	gate := &progressGate{}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		w := w
		r := rng.NewRNG(s.compiled.Seed, fmt.Sprintf("worker-%d", w), s.compiled.Hash())
		g.Go(func() error {
			for {
				idx := atomic.AddUint32(&nextIndex, 1)
				if idx > total {
					return nil
				}

				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				item, termErr, warning := s.produceItem(gctx, idx, r)
				if warning != "" {
					s.emit(out, Event{Kind: EventWarning, Warning: warning})
				}
				if termErr != nil {
					return termErr
				}
				if item == nil {
					// cancellation observed inside produceItem
					return gctx.Err()
				}

				n := int64(len(item.CompositeBytes))
				if err := sem.Acquire(gctx, n); err != nil {
					return err
				}
				atomic.AddInt64(&bytesInFlight, n)
				s.metrics.BytesInFlight.Set(float64(atomic.LoadInt64(&bytesInFlight)))

				select {
				case out <- Event{Kind: EventItemReady, Item: item}:
				case <-gctx.Done():
					sem.Release(n)
					atomic.AddInt64(&bytesInFlight, -n)
					return gctx.Err()
				}
				sem.Release(n)
				atomic.AddInt64(&bytesInFlight, -n)
				s.metrics.BytesInFlight.Set(float64(atomic.LoadInt64(&bytesInFlight)))
				s.metrics.ItemsCompleted.Inc()

				c := atomic.AddUint32(&completed, 1)
				if gate.shouldEmit(c) {
					s.emit(out, Event{Kind: EventProgress, Progress: &Progress{
						Completed:       c,
						Total:           total,
						MemoryUsedBytes: uint64(atomic.LoadInt64(&bytesInFlight)),
					}})
				}
			}
		})
	}

	err := g.Wait()
	final := atomic.LoadUint32(&completed)

	switch {
	case err == nil:
		s.emit(out, Event{Kind: EventComplete, Complete: &Summary{Completed: final, Total: total}})
	case ctx.Err() != nil && err == ctx.Err():
		s.emit(out, Event{Kind: EventCancelled, Cancelled: &Cancelled{Completed: final, Reason: "cancelled"}})
	default:
		ee, ok := err.(*model.EngineError)
		if !ok {
			ee = model.New(model.ErrSolverExhausted, "%v", err)
		}
		if s.logger != nil {
			s.logger.Error("run terminated", zap.String("kind", ee.Kind.String()), zap.String("message", ee.Message))
		}
		s.emit(out, Event{Kind: EventError, Err: ee})
	}
}

// produceItem runs the per-item state machine: solve, reserve (retrying on
// ledger race), render, commit. A non-nil termErr is terminal
// (ErrInfeasible surfaced directly, or ErrSolverExhausted surfaced after
// the single local retry the per-worker loop allows). A non-empty warning
// accompanies the one local retry.
func (s *Scheduler) produceItem(ctx context.Context, idx uint32, r *rng.RNG) (item *model.GeneratedItem, termErr *model.EngineError, warning string) {
	item, err := s.solveReserveRender(ctx, idx, r)
	if err == nil {
		return item, nil, ""
	}
	if ctx.Err() != nil {
		return nil, nil, ""
	}
	if err.Kind == model.ErrInfeasible {
		return nil, err, ""
	}

	warning = fmt.Sprintf("retry exhausted at index %d", idx)
	item, err = s.solveReserveRender(ctx, idx, r)
	if err == nil {
		return item, nil, warning
	}
	if ctx.Err() != nil {
		return nil, nil, warning
	}
	return nil, model.NewInfeasible(s.compiled.TargetCount, s.compiled.FeasibilityEstimate), warning
}

// solveReserveRender runs steps 2-6 of the per-worker loop: it retries
// solve()+reserve() internally on a ledger collision race (step 4's "back
// to step 2") without counting against the caller's retry-once budget,
// since a race is resolved by drawing a fresh assignment, not by
// exhausting the solver.
func (s *Scheduler) solveReserveRender(ctx context.Context, idx uint32, r *rng.RNG) (*model.GeneratedItem, *model.EngineError) {
	for {
		assignment, err := solver.Solve(ctx, s.compiled, s.ledger, r, s.metrics)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil
			}
			if ee, ok := err.(*model.EngineError); ok {
				return nil, ee
			}
			return nil, model.New(model.ErrSolverExhausted, "%v", err)
		}

		token, ok := s.ledger.Reserve(assignment)
		if !ok {
			s.metrics.LedgerCollisions.Inc()
			continue
		}

		if ctx.Err() != nil {
			s.ledger.Release(token, false)
			return nil, nil
		}
		bytes, err := s.comp.Render(s.compiled.Layers, assignment, int(s.compiled.OutputWidth), int(s.compiled.OutputHeight))
		if err != nil {
			s.ledger.Release(token, false)
			if ee, ok := err.(*model.EngineError); ok {
				return nil, ee
			}
			return nil, model.New(model.ErrDecodeFailure, "%v", err)
		}
		if ctx.Err() != nil {
			s.ledger.Release(token, false)
			return nil, nil
		}
		s.ledger.Release(token, true)

		return &model.GeneratedItem{
			Index:          idx,
			Assignment:     assignment,
			CompositeBytes: bytes,
			Attributes:     rarity.BuildAttributes(s.compiled.Layers, assignment),
		}, nil
	}
}

func (s *Scheduler) emit(out chan<- Event, ev Event) {
	out <- ev
}

// progressGate throttles Progress events to at most once per 50ms or
// every 10 completions, whichever comes first.
type progressGate struct {
	mu        sync.Mutex
	lastEmit  time.Time
	lastCount uint32
}

func (g *progressGate) shouldEmit(completed uint32) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if completed-g.lastCount >= 10 || time.Since(g.lastEmit) >= 50*time.Millisecond {
		g.lastCount = completed
		g.lastEmit = time.Now()
		return true
	}
	return false
}
