// Package runtime is the C7 façade from spec.md §5: the single entry
// point that binds services into an environment and interprets an
// Effect against it. It mirrors the role effects/binding.go's
// bindingHandler and the scope-root goroutine in
// effects/internal/effectscope play for the teacher, generalized from a
// fixed handler/scope pair to an explicit, user-constructed Runtime
// value.
package runtime

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/on-the-ground/gofx/cause"
	"github.com/on-the-ground/gofx/container"
	"github.com/on-the-ground/gofx/effect"
	"github.com/on-the-ground/gofx/env"
	"github.com/on-the-ground/gofx/internal/interp"
	"go.uber.org/zap"
)

// Options configures a Runtime, the way effectmodel.NewEffectScopeConfig
// defaults BufferSize/NumWorkers to 1 for the teacher's effect scopes.
type Options struct {
	// SchedulerQueueSize controls how many shards the Sleep timer wheel
	// uses; 0 selects a sensible default. See internal/interp/timers.go.
	SchedulerQueueSize int
	// Logger receives the interpreter's structured diagnostics. A nil
	// Logger installs zap.NewNop(), matching effects/log.go's fallback
	// when no logger is configured.
	Logger *zap.Logger
}

// Runtime owns an environment registry and the scheduler that
// interprets effects against it. The zero value is not usable; build
// one with New or Default.
type Runtime struct {
	id       uuid.UUID
	registry env.Registry
	sched    *interp.Scheduler
}

const defaultTimerShards = 16

// New builds a Runtime with an empty environment. Every Runtime is
// tagged with a random id, included in its log lines, so multiple
// runtimes sharing a process (e.g. in tests) can be told apart in
// structured output -- the same role a per-scope id plays in
// effects/internal/effectscope's logging in the teacher corpus.
func New(opts Options) *Runtime {
	shards := opts.SchedulerQueueSize
	if shards <= 0 {
		shards = defaultTimerShards
	}
	id := uuid.New()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("runtime_id", id.String()))
	return &Runtime{
		id:       id,
		registry: env.Empty(),
		sched:    interp.New(shards, logger),
	}
}

// ID returns this Runtime's random identity. Runtimes derived from it
// through ProvideService carry the same id.
func (rt *Runtime) ID() uuid.UUID { return rt.id }

// Default builds a Runtime with default options.
func Default() *Runtime {
	return New(Options{})
}

// ProvideService returns a new Runtime with service bound under tag,
// leaving rt itself untouched -- §4.5's copy-on-write contract. Go
// methods cannot introduce a new type parameter, so this is a free
// function rather than a (*Runtime) method.
func ProvideService[T any](rt *Runtime, tag env.Tag[T], service T) *Runtime {
	return &Runtime{
		id:       rt.id,
		registry: env.With(rt.registry, tag, service),
		sched:    rt.sched,
	}
}

// DumpFibers lists every fiber currently live under rt's scheduler,
// supplementing the ported algebra with runtime introspection.
func (rt *Runtime) DumpFibers() []interp.FiberSnapshot {
	return rt.sched.DumpFibers()
}

// ActiveTimerShards reports the number of outstanding Sleep timers per
// shard of rt's timer wheel, the partitioned-queue-style load counter
// DESIGN.md's C6 entry grounds on the teacher's worker dispatcher.
func (rt *Runtime) ActiveTimerShards() []int {
	return rt.sched.ActiveTimerShards()
}

// UnsafeRun interprets e to completion and returns its success value,
// panicking with e's Cause rendered via PrettyPrint if it failed. Use
// it only where a failure is truly exceptional (tests, top-level
// bootstrap), mirroring how the teacher's own task tests unwrap a
// Task result directly rather than branching on error.
func UnsafeRun[E, A any](rt *Runtime, ctx context.Context, e effect.Effect[env.Registry, E, A]) A {
	res := effect.Run(rt.sched, ctx, rt.registry, e)
	if !res.Ok {
		panic(fmt.Sprintf("runtime: UnsafeRun failed: %s", res.Cause.PrettyPrint()))
	}
	return res.Value
}

// SafeRunEither interprets e and reports success as Right and any
// failure as Left. The Left holds the squashed cause: the first typed
// error, else the first defect, else the first interruptor, converted to
// E when it is one and the zero E otherwise. It never panics.
func SafeRunEither[E, A any](rt *Runtime, ctx context.Context, e effect.Effect[env.Registry, E, A]) container.Either[E, A] {
	res := effect.Run(rt.sched, ctx, rt.registry, e)
	if res.Ok {
		return container.Right[E, A](res.Value)
	}
	sq := cause.Squash(res.Cause)
	left := sq.Err
	if left == nil {
		left = sq.Defect
	}
	if left == nil {
		left = sq.Interruptor
	}
	typed, _ := left.(E)
	return container.Left[E, A](typed)
}

// SafeRunExit is SafeRunEither with the result shaped as a container.Exit
// instead of an Either; the two differ only in which sum type a caller
// prefers to pattern-match on.
func SafeRunExit[E, A any](rt *Runtime, ctx context.Context, e effect.Effect[env.Registry, E, A]) container.Exit[E, A] {
	res := effect.Run(rt.sched, ctx, rt.registry, e)
	if res.Ok {
		return container.ExitSuccess[E, A](res.Value)
	}
	sq := cause.Squash(res.Cause)
	failure := sq.Err
	if failure == nil {
		failure = sq.Defect
	}
	if failure == nil {
		failure = sq.Interruptor
	}
	typed, _ := failure.(E)
	return container.ExitFailure[E, A](typed)
}

// Outcome is the fully safe run result: it never panics, distinguishing
// a typed failure from a defect from an interruption instead of
// collapsing them the way SafeRunEither/SafeRunExit do.
type Outcome[E, A any] struct {
	Kind        OutcomeKind
	Value       A
	Err         E
	Defect      any
	Interruptor any
}

// OutcomeKind discriminates the four cases SafeRunUnion can report.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFailure
	OutcomeDefect
	OutcomeInterrupted
)

// SafeRunUnion interprets e and reports every possible outcome --
// success, typed failure, defect or interruption -- without ever
// panicking, the full-Cause counterpart to SafeRunEither/SafeRunExit.
func SafeRunUnion[E, A any](rt *Runtime, ctx context.Context, e effect.Effect[env.Registry, E, A]) Outcome[E, A] {
	res := effect.Run(rt.sched, ctx, rt.registry, e)
	if res.Ok {
		return Outcome[E, A]{Kind: OutcomeSuccess, Value: res.Value}
	}
	sq := cause.Squash(res.Cause)
	switch {
	case sq.Err != nil:
		typed, _ := sq.Err.(E)
		return Outcome[E, A]{Kind: OutcomeFailure, Err: typed}
	case sq.Defect != nil:
		return Outcome[E, A]{Kind: OutcomeDefect, Defect: sq.Defect}
	case sq.Interruptor != nil:
		return Outcome[E, A]{Kind: OutcomeInterrupted, Interruptor: sq.Interruptor}
	default:
		return Outcome[E, A]{Kind: OutcomeSuccess}
	}
}
