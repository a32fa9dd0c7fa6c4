// Package effect is the effect algebra from spec.md §3/§4.3/§6: a sum
// type of primitive nodes plus a surface vocabulary of operators built
// by desugaring to those primitives. An Effect[R, E, A] is an immutable
// description of a computation requiring environment R, capable of
// failing with a typed E, and yielding an A; nothing runs until a
// runtime.Runtime interprets it.
//
// Go generics cannot express a heterogeneous tree whose nodes differ in
// success type (no variance, no existentials), so internally the tree
// is erased to internal/effectnode.Node and only restored to R/E/A at
// this package's boundary -- Design Note (b) from spec.md §9: "a
// CPS-encoded existential for FlatMap/FoldM". For the same reason, most
// operators here are free functions rather than methods: a Go method
// cannot introduce a type parameter beyond its receiver's, so an
// operator like Map that changes the success type from A to B has no
// legal method form. This mirrors the teacher corpus's own idiom of
// expressing every operation as a free function over a context/payload
// pair (effects.FireAndForgetEffect(ctx, payload), not ctx.FireAndForget(payload)).
package effect

import (
	"context"
	"time"

	"github.com/on-the-ground/gofx/cause"
	"github.com/on-the-ground/gofx/container"
	"github.com/on-the-ground/gofx/env"
	"github.com/on-the-ground/gofx/internal/effectnode"
	"github.com/on-the-ground/gofx/internal/interp"
)

// Effect[R, E, A] denotes, without running, a computation that requires
// environment R, may fail with a typed E, and on success yields an A.
type Effect[R, E, A any] struct {
	node *effectnode.Node
}

func wrap[R, E, A any](n *effectnode.Node) Effect[R, E, A] {
	return Effect[R, E, A]{node: n}
}

// --- Creation ---

// Succeed builds an effect that immediately yields a.
func Succeed[R, E, A any](a A) Effect[R, E, A] {
	return wrap[R, E, A](effectnode.Succeed(a))
}

// Fail builds an effect that immediately fails with the typed error e.
func Fail[R, E, A any](e E) Effect[R, E, A] {
	return wrap[R, E, A](effectnode.Fail(e))
}

// Sync builds an effect from a synchronous Go function. Any non-nil
// error it returns becomes a Cause::Die (a defect), never a typed Fail
// -- per §3, only the Fail constructor produces typed failures. A panic
// inside f is recovered by the interpreter and also becomes a Die.
func Sync[R, E, A any](f func(R) (A, error)) Effect[R, E, A] {
	return wrap[R, E, A](effectnode.Sync(func(envVal any) (any, error) {
		return f(envVal.(R))
	}))
}

// Async builds a cooperative-yield effect. register is invoked exactly
// once with resolve/reject continuations; the fiber resumes when
// whichever fires first completes. At-most-once resumption is enforced
// by the interpreter even if both callbacks fire.
func Async[R, E, A any](register func(env R, resolve func(A), reject func(E))) Effect[R, E, A] {
	return wrap[R, E, A](effectnode.Async(func(envVal any, resolve func(any), reject func(any)) {
		register(envVal.(R), func(a A) { resolve(a) }, func(e E) { reject(e) })
	}))
}

// FromEither lifts an already-computed Either into an effect.
func FromEither[R, E, A any](e container.Either[E, A]) Effect[R, E, A] {
	return container.FoldEither(e,
		func(err E) Effect[R, E, A] { return Fail[R, E, A](err) },
		func(a A) Effect[R, E, A] { return Succeed[R, E, A](a) },
	)
}

// Sleep builds a cooperative delay of at least d. The interpreter's
// timer wheel (internal/interp) guarantees the resume happens no
// earlier than d after the call.
func Sleep[R, E any](d time.Duration) Effect[R, E, struct{}] {
	return wrap[R, E, struct{}](effectnode.Sleep(d))
}

// --- Running (used by package runtime) ---

// RunResult is the type-restored outcome of running an effect: either a
// concrete A value, or a Cause[E] describing why it failed.
type RunResult[E, A any] struct {
	Ok    bool
	Value A
	Cause cause.Cause[E]
}

// Run interprets e against sched, using registry as its environment, and
// blocks until the root fiber is Done. It is the single seam between
// the type-erased interpreter and the typed public surface; package
// runtime calls this, never internal/interp directly.
func Run[R, E, A any](sched *interp.Scheduler, ctx context.Context, registry R, e Effect[R, E, A]) RunResult[E, A] {
	fc := sched.RunRoot(ctx, registry, e.node)
	exit, _ := fc.Exit()
	if exit.Ok {
		value, _ := exit.Value.(A)
		return RunResult[E, A]{Ok: true, Value: value}
	}
	return RunResult[E, A]{Ok: false, Cause: cause.Map(exit.Cause, func(v any) E {
		typed, _ := v.(E)
		return typed
	})}
}

// RegistryEnv is the concrete environment value every runtime binds:
// effects request services out of it via env.Get inside Sync/Async
// closures, the same way a handler in the teacher corpus looks a
// binding up by key.
type RegistryEnv = env.Registry
