package effect

import (
	"github.com/on-the-ground/gofx/cause"
	"github.com/on-the-ground/gofx/fiber"
	"github.com/on-the-ground/gofx/internal/effectnode"
)

// Fiber is a handle to a computation forked via Fork, typed by the error
// and success channels of the effect it was forked from. Observing its
// status or outcome is itself modeled as an effect (FiberStatus,
// JoinFiber, AwaitFiber) rather than a bare accessor, preserving the
// same effect discipline as every other operation in this package.
type Fiber[E, A any] struct {
	ctx *fiber.Context
}

// Fork starts e on its own fiber and immediately returns a handle to it,
// without waiting for it to complete.
func Fork[R, E, A any](e Effect[R, E, A]) Effect[R, E, Fiber[E, A]] {
	return wrap[R, E, Fiber[E, A]](effectnode.FlatMap(effectnode.Fork(e.node), func(v any) *effectnode.Node {
		return effectnode.Succeed(Fiber[E, A]{ctx: v.(*fiber.Context)})
	}))
}

// ForkAll forks every effect in es concurrently and returns their
// handles once all forks have started.
func ForkAll[R, E, A any](es []Effect[R, E, A]) Effect[R, E, []Fiber[E, A]] {
	forks := make([]Effect[R, E, Fiber[E, A]], len(es))
	for i, e := range es {
		forks[i] = Fork(e)
	}
	return All(forks...)
}

func awaitResult[E, A any](e fiber.Exit) RunResult[E, A] {
	if e.Ok {
		v, _ := e.Value.(A)
		return RunResult[E, A]{Ok: true, Value: v}
	}
	return RunResult[E, A]{Ok: false, Cause: cause.Map(e.Cause, func(v any) E {
		typed, _ := v.(E)
		return typed
	})}
}

// JoinFiber waits for f to finish, resolving into its success value or
// propagating its failure cause into the calling effect.
func JoinFiber[R, E, A any](f Fiber[E, A]) Effect[R, E, A] {
	return wrap[R, E, A](effectnode.Join(f.ctx))
}

// AwaitFiber waits for f to finish and returns its outcome as a
// RunResult instead of propagating a failure, mirroring §4.5's
// distinction between join (propagates) and await (observes).
func AwaitFiber[R, E, A any](f Fiber[E, A]) Effect[R, E, RunResult[E, A]] {
	return wrap[R, E, RunResult[E, A]](effectnode.FlatMap(effectnode.Await(f.ctx), func(v any) *effectnode.Node {
		return effectnode.Succeed(awaitResult[E, A](v.(fiber.Exit)))
	}))
}

// InterruptFiber requests f's cancellation and waits for it to settle,
// returning its final outcome as a RunResult. It never itself fails the
// calling fiber, even if f's own outcome was a failure.
func InterruptFiber[R, E, A any](f Fiber[E, A]) Effect[R, E, RunResult[E, A]] {
	return wrap[R, E, RunResult[E, A]](effectnode.FlatMap(effectnode.InterruptFiber(f.ctx), func(v any) *effectnode.Node {
		return effectnode.Succeed(awaitResult[E, A](v.(fiber.Exit)))
	}))
}

// FiberStatus observes f's current lifecycle state.
func FiberStatus[R, E, A any](f Fiber[E, A]) Effect[R, E, fiber.Status] {
	return wrap[R, E, fiber.Status](effectnode.Status(f.ctx))
}
