// Package interp is the C6 interpreter/scheduler from spec.md §4.4/§5.
// It walks an effectnode.Node tree in the context of a fiber.Context and
// an erased environment value, producing an effectnode.Result.
//
// Scheduling model: one goroutine per fiber. This is the idiomatic Go
// reading of "single-threaded cooperative" (§5): the Go runtime already
// multiplexes goroutines cheaply, so instead of hand-rolling a single
// OS-thread event loop (unidiomatic in Go, and fighting the runtime),
// each fiber is single-threaded *with respect to its own execution* --
// exactly one goroutine ever advances a given fiber's node tree -- while
// multiple fibers legitimately run concurrently, same as every forking
// pattern in the teacher corpus (effects/concurrency.go's
// spawnConcurrentChildren, effects/internal/handlers' per-queue worker
// goroutines). See DESIGN.md for the full Open Question writeup.
package interp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/on-the-ground/gofx/cause"
	"github.com/on-the-ground/gofx/fiber"
	"github.com/on-the-ground/gofx/internal/effectnode"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

// Scheduler owns the shared resources fibers draw on while running: the
// sharded timer pool behind Sleep, and a live registry of every fiber
// it has started, for DumpFibers introspection.
type Scheduler struct {
	timers *timerWheel
	logger *zap.Logger
	fibers sync.Map // fiberid.ID -> *fiber.Context
}

// FiberSnapshot is a point-in-time observation of one live fiber,
// returned by DumpFibers. Alive reports the span from the fiber's
// creation to the moment of the dump, grounded on the teacher's own
// TimeSpan type (effects/time.go) for representing a bounded interval.
type FiberSnapshot struct {
	ID     fmt.Stringer
	Status fiber.Status
	Alive  timespan.TimeSpan
}

// DumpFibers lists every fiber the scheduler has started that has not
// yet reached Done. It supplements the ported algebra with the kind of
// runtime introspection the teacher's own worker dispatcher exposes via
// its queue depth/active worker counters (effects/internal/handlers/worker_dispatcher.go);
// the shard-level counterpart of that introspection is ActiveTimerShards.
func (s *Scheduler) DumpFibers() []FiberSnapshot {
	var out []FiberSnapshot
	s.fibers.Range(func(_, v any) bool {
		fc := v.(*fiber.Context)
		out = append(out, FiberSnapshot{
			ID:     fc.ID(),
			Status: fc.Status(),
			Alive:  timespan.BetweenTimes(fc.ID().StartTime, time.Now()),
		})
		return true
	})
	s.logger.Sugar().Debugf("fiber dump: %d live fiber(s), %v active timer shard(s)", len(out), s.ActiveTimerShards())
	return out
}

// ActiveTimerShards returns the number of outstanding Sleep timers on
// each shard of the timer wheel behind evalSleep, for the same kind of
// per-shard load introspection effects/internal/handlers/worker_dispatcher.go
// exposes over its own partitioned queues.
func (s *Scheduler) ActiveTimerShards() []int {
	return s.timers.ActiveCounts()
}

// track registers fc so DumpFibers can see it, and removes it the
// moment fc reaches Done.
func (s *Scheduler) track(fc *fiber.Context) {
	s.fibers.Store(fc.ID(), fc)
	fc.AddObserver(func(fiber.Exit) { s.fibers.Delete(fc.ID()) })
}

// New builds a Scheduler. timerShards controls how many shards the
// Sleep timer-wheel bookkeeping uses; logger receives structured
// diagnostics the way effects/log.go wires a *zap.Logger into a
// handler.
func New(timerShards int, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		timers: newTimerWheel(timerShards),
		logger: logger,
	}
}

// RunRoot starts node as a brand-new, interruptible fiber and blocks
// until it reaches Done, returning the resulting fiber.Context (whose
// Exit() now reports the final outcome).
func (s *Scheduler) RunRoot(ctx context.Context, envVal any, node *effectnode.Node) *fiber.Context {
	fc := fiber.New(true)
	s.track(fc)
	s.runAndSettle(ctx, envVal, node, fc)
	return fc
}

// runAndSettle runs node on fc's behalf (on the calling goroutine) and
// calls fc.Done with the outcome.
func (s *Scheduler) runAndSettle(ctx context.Context, envVal any, node *effectnode.Node, fc *fiber.Context) effectnode.Result {
	res := s.runNode(ctx, envVal, node, fc)
	if res.Ok {
		fc.Done(fiber.Success(res.Value))
	} else {
		fc.Done(fiber.Failure(res.Cause))
	}
	return res
}

// runNode is the trampoline from §9's design notes: FlatMap/FoldM
// continuations are pushed onto an explicit stack instead of recursing
// natively, so long chains of flatMap do not grow the Go call stack.
// Every other primitive (Race, All, Ensuring, Fork, ...) recurses
// normally; those don't chain the way flatMap does in practice.
func (s *Scheduler) runNode(ctx context.Context, envVal any, root *effectnode.Node, fc *fiber.Context) effectnode.Result {
	type frame struct {
		isFold       bool
		isFoldCause  bool
		flatK        func(any) *effectnode.Node
		foldErr      func(any) *effectnode.Node
		foldCauseErr func(cause.Cause[any]) *effectnode.Node
		foldOk       func(any) *effectnode.Node
	}
	var stack []frame
	cur := root

drill:
	for {
		for cur.Kind == effectnode.KindFlatMap || cur.Kind == effectnode.KindFoldM || cur.Kind == effectnode.KindFoldCauseM {
			switch cur.Kind {
			case effectnode.KindFlatMap:
				stack = append(stack, frame{flatK: cur.FlatMapK})
			case effectnode.KindFoldM:
				stack = append(stack, frame{isFold: true, foldErr: cur.FoldOnErr, foldOk: cur.FoldOnOk})
			default:
				stack = append(stack, frame{isFoldCause: true, foldCauseErr: cur.FoldCauseOnErr, foldOk: cur.FoldOnOk})
			}
			cur = cur.Child
		}

		res := s.evalPrimitive(ctx, envVal, cur, fc)

		for {
			if len(stack) == 0 {
				return res
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.isFoldCause {
				// FoldCauseM is the opt-in full-Cause extension point: it
				// is handed every kind of failure -- Fail, Die or
				// Interrupt alike -- unlike FoldM below.
				if res.Ok {
					cur = f.foldOk(res.Value)
					continue drill
				}
				cur = f.foldCauseErr(res.Cause)
				continue drill
			}

			if !f.isFold {
				if res.Ok {
					cur = f.flatK(res.Value)
					continue drill
				}
				// Die and Interrupt propagate unchanged through FlatMap too;
				// a typed Fail also just propagates here since FlatMap has no
				// error channel of its own (only FoldM/OrElse recover).
				continue
			}

			// FoldM frame: only a typed Fail leaf is recoverable; Die and
			// Interrupt bypass onErr and keep propagating (§4.3).
			if res.Ok {
				cur = f.foldOk(res.Value)
				continue drill
			}
			if res.Cause.IsFailure() && !res.Cause.IsDie() && !res.Cause.IsInterrupted() {
				firstErr := res.Cause.Failures()[0]
				cur = f.foldErr(firstErr)
				continue drill
			}
			continue
		}
	}
}

// waitFor blocks the calling (fiber-owning) goroutine until resultCh
// delivers, the run-level ctx is cancelled, or -- if the fiber is
// interruptible at the moment the suspension begins -- the fiber is
// interrupted. Interruptibility cannot change while a fiber is
// suspended (only the fiber's own goroutine can call SetInterruptible,
// and it isn't running while suspended), so it is safe to decide once,
// up front, which select to use.
func (s *Scheduler) waitFor(ctx context.Context, fc *fiber.Context, resultCh <-chan effectnode.Result) effectnode.Result {
	fc.SetSuspended()
	defer fc.SetRunning()

	if fc.Interruptible() {
		select {
		case res := <-resultCh:
			return res
		case <-ctx.Done():
			return effectnode.Failed(cause.Interrupt[any](fc.ID()))
		case <-fc.InterruptSignal():
			return effectnode.Failed(cause.Interrupt[any](fc.ID()))
		}
	}
	select {
	case res := <-resultCh:
		return res
	case <-ctx.Done():
		return effectnode.Failed(cause.Interrupt[any](fc.ID()))
	}
}

func (s *Scheduler) evalPrimitive(ctx context.Context, envVal any, cur *effectnode.Node, fc *fiber.Context) effectnode.Result {
	switch cur.Kind {
	case effectnode.KindSucceed:
		return effectnode.OkResult(cur.Value)

	case effectnode.KindFail:
		return effectnode.Failed(cause.Fail[any](cur.Err))

	case effectnode.KindSync:
		return s.evalSync(envVal, cur)

	case effectnode.KindAsync:
		return s.evalAsync(ctx, envVal, cur, fc)

	case effectnode.KindSleep:
		return s.evalSleep(ctx, cur, fc)

	case effectnode.KindEnsuring:
		return s.evalEnsuring(ctx, envVal, cur, fc)

	case effectnode.KindFork:
		return s.evalFork(ctx, envVal, cur)

	case effectnode.KindAll:
		return s.evalAll(ctx, envVal, cur)

	case effectnode.KindRace:
		return s.evalRace(ctx, envVal, cur)

	case effectnode.KindRaceUncancelled:
		return s.evalRaceUncancelled(ctx, envVal, cur)

	case effectnode.KindJoin:
		return s.evalJoin(ctx, cur, fc)

	case effectnode.KindAwait:
		return s.evalAwait(ctx, cur, fc)

	case effectnode.KindInterruptFiber:
		return s.evalInterruptFiber(ctx, cur, fc)

	case effectnode.KindStatus:
		target := cur.Fiber.(*fiber.Context)
		return effectnode.OkResult(target.Status())

	case effectnode.KindSetInterruptible:
		prior := fc.SetInterruptible(cur.Flag)
		res := s.runNode(ctx, envVal, cur.SetInterruptibleChild, fc)
		fc.SetInterruptible(prior)
		return res

	case effectnode.KindCheckInterrupt:
		if fc.ShouldInterruptNow() {
			return effectnode.Failed(cause.Interrupt[any](fc.ID()))
		}
		return effectnode.OkResult(struct{}{})

	default:
		panic(fmt.Sprintf("interp: unreachable node kind %v", cur.Kind))
	}
}

func (s *Scheduler) evalSync(envVal any, cur *effectnode.Node) (result effectnode.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = effectnode.Failed(cause.Die[any](fmt.Errorf("panic in sync effect: %v", r)))
		}
	}()
	v, err := cur.SyncFn(envVal)
	if err != nil {
		return effectnode.Failed(cause.Die[any](err))
	}
	return effectnode.OkResult(v)
}

func (s *Scheduler) evalAsync(ctx context.Context, envVal any, cur *effectnode.Node, fc *fiber.Context) effectnode.Result {
	resultCh := make(chan effectnode.Result, 1)
	var once sync.Once
	resolve := func(v any) {
		once.Do(func() { resultCh <- effectnode.OkResult(v) })
	}
	reject := func(e any) {
		once.Do(func() { resultCh <- effectnode.Failed(cause.Fail[any](e)) })
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Sugar().Errorf("panic registering async effect: %v", r)
				once.Do(func() {
					resultCh <- effectnode.Failed(cause.Die[any](fmt.Errorf("panic registering async effect: %v", r)))
				})
			}
		}()
		cur.Register(envVal, resolve, reject)
	}()

	return s.waitFor(ctx, fc, resultCh)
}

func (s *Scheduler) evalSleep(ctx context.Context, cur *effectnode.Node, fc *fiber.Context) effectnode.Result {
	timerCh := s.timers.After(fc.ID().String(), cur.Duration)
	resultCh := make(chan effectnode.Result, 1)
	go func() {
		select {
		case <-timerCh:
			resultCh <- effectnode.OkResult(struct{}{})
		case <-ctx.Done():
		}
	}()
	return s.waitFor(ctx, fc, resultCh)
}

func (s *Scheduler) evalEnsuring(ctx context.Context, envVal any, cur *effectnode.Node, fc *fiber.Context) effectnode.Result {
	childRes := s.runNode(ctx, envVal, cur.Child, fc)

	prior := fc.SetInterruptible(false)
	finRes := s.runNode(ctx, envVal, cur.Finalizer, fc)
	fc.SetInterruptible(prior)

	switch {
	case childRes.Ok && finRes.Ok:
		return childRes
	case !childRes.Ok && !finRes.Ok:
		return effectnode.Failed(cause.Sequential(childRes.Cause, finRes.Cause))
	case !childRes.Ok:
		return childRes
	default:
		return finRes
	}
}

func (s *Scheduler) evalFork(ctx context.Context, envVal any, cur *effectnode.Node) effectnode.Result {
	child := fiber.New(true)
	s.track(child)
	go func() {
		s.runAndSettle(ctx, envVal, cur.ForkBody, child)
	}()
	return effectnode.OkResult(child)
}

func (s *Scheduler) evalJoin(ctx context.Context, cur *effectnode.Node, fc *fiber.Context) effectnode.Result {
	target := cur.Fiber.(*fiber.Context)
	resultCh := make(chan effectnode.Result, 1)
	target.AddObserver(func(e fiber.Exit) {
		if e.Ok {
			resultCh <- effectnode.OkResult(e.Value)
		} else {
			resultCh <- effectnode.Failed(e.Cause)
		}
	})
	return s.waitFor(ctx, fc, resultCh)
}

func (s *Scheduler) evalAwait(ctx context.Context, cur *effectnode.Node, fc *fiber.Context) effectnode.Result {
	target := cur.Fiber.(*fiber.Context)
	resultCh := make(chan effectnode.Result, 1)
	target.AddObserver(func(e fiber.Exit) {
		resultCh <- effectnode.OkResult(e)
	})
	return s.waitFor(ctx, fc, resultCh)
}

func (s *Scheduler) evalInterruptFiber(ctx context.Context, cur *effectnode.Node, fc *fiber.Context) effectnode.Result {
	target := cur.Fiber.(*fiber.Context)
	target.Interrupt()
	return s.evalAwait(ctx, cur, fc)
}

func (s *Scheduler) evalAll(ctx context.Context, envVal any, cur *effectnode.Node) effectnode.Result {
	n := len(cur.Children)
	children := make([]*fiber.Context, n)
	results := make([]effectnode.Result, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i, childNode := range cur.Children {
		i, childNode := i, childNode
		childFc := fiber.New(true)
		s.track(childFc)
		children[i] = childFc
		go func() {
			defer wg.Done()
			results[i] = s.runAndSettle(ctx, envVal, childNode, childFc)
		}()
	}

	failCh := make(chan struct{})
	var failOnce sync.Once
	for _, c := range children {
		c.AddObserver(func(e fiber.Exit) {
			if !e.Ok {
				failOnce.Do(func() { close(failCh) })
			}
		})
	}

	doneAll := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneAll)
	}()

	select {
	case <-doneAll:
	case <-failCh:
		for _, c := range children {
			c.Interrupt()
		}
		<-doneAll
	}

	combined := cause.Empty[any]()
	anyFail := false
	for _, r := range results {
		if !r.Ok {
			anyFail = true
			combined = cause.Parallel(combined, r.Cause)
		}
	}
	if anyFail {
		return effectnode.Failed(combined)
	}

	values := make([]any, n)
	for i, r := range results {
		values[i] = r.Value
	}
	return effectnode.OkResult(values)
}

func (s *Scheduler) evalRace(ctx context.Context, envVal any, cur *effectnode.Node) effectnode.Result {
	n := len(cur.Children)
	children := make([]*fiber.Context, n)
	results := make([]effectnode.Result, n)
	firstCh := make(chan int, n)

	for i, childNode := range cur.Children {
		i, childNode := i, childNode
		childFc := fiber.New(true)
		s.track(childFc)
		children[i] = childFc
		go func() {
			results[i] = s.runAndSettle(ctx, envVal, childNode, childFc)
			select {
			case firstCh <- i:
			default:
			}
		}()
	}

	winner := <-firstCh
	for i, c := range children {
		if i == winner {
			continue
		}
		c.Interrupt()
	}
	// Await losers so no observable side effect of a loser can continue
	// past the winner's completion (§5's raceFirst guarantee).
	for i, c := range children {
		if i == winner {
			continue
		}
		done := make(chan struct{})
		c.AddObserver(func(fiber.Exit) { close(done) })
		<-done
	}

	return results[winner]
}

// evalRaceUncancelled is race's plain form (§4.3/S4): it forks every
// child, returns the first settled result, and leaves every other child
// running to completion on its own -- no Interrupt, no await. Unlike
// evalRace this never blocks past the first completion.
func (s *Scheduler) evalRaceUncancelled(ctx context.Context, envVal any, cur *effectnode.Node) effectnode.Result {
	n := len(cur.Children)
	results := make([]effectnode.Result, n)
	firstCh := make(chan int, n)

	for i, childNode := range cur.Children {
		i, childNode := i, childNode
		childFc := fiber.New(true)
		s.track(childFc)
		go func() {
			results[i] = s.runAndSettle(ctx, envVal, childNode, childFc)
			select {
			case firstCh <- i:
			default:
			}
		}()
	}

	winner := <-firstCh
	return results[winner]
}
