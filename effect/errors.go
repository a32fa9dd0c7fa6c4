package effect

import (
	"github.com/on-the-ground/gofx/cause"
	"github.com/on-the-ground/gofx/container"
	"github.com/on-the-ground/gofx/internal/effectnode"
)

// OrElse runs e, and if it fails with a typed Fail, runs fallback
// instead. Die and Interrupt are not recovered, per §4.3.
func OrElse[R, E, A any](e Effect[R, E, A], fallback Effect[R, E, A]) Effect[R, E, A] {
	return wrap[R, E, A](effectnode.FoldM(e.node,
		func(any) *effectnode.Node { return fallback.node },
		func(v any) *effectnode.Node { return effectnode.Succeed(v) },
	))
}

// FoldM handles both channels of e, producing a new effect from whichever
// fired. Only a typed Fail reaches onErr; Die and Interrupt bypass it.
func FoldM[R, E, A, B any](e Effect[R, E, A], onErr func(E) Effect[R, E, B], onOk func(A) Effect[R, E, B]) Effect[R, E, B] {
	return wrap[R, E, B](effectnode.FoldM(e.node,
		func(err any) *effectnode.Node { return onErr(err.(E)).node },
		func(v any) *effectnode.Node { return onOk(v.(A)).node },
	))
}

// FoldCauseM is the opt-in full-Cause extension point named in §9's
// design notes: unlike FoldM, onCause is handed the complete Cause[E]
// -- including Die and Interrupt leaves -- and may recover from any of
// them.
func FoldCauseM[R, E, A, B any](e Effect[R, E, A], onCause func(cause.Cause[E]) Effect[R, E, B], onOk func(A) Effect[R, E, B]) Effect[R, E, B] {
	return wrap[R, E, B](effectnode.FoldCauseM(e.node,
		func(c cause.Cause[any]) *effectnode.Node {
			typed := cause.Map(c, func(v any) E { t, _ := v.(E); return t })
			return onCause(typed).node
		},
		func(v any) *effectnode.Node { return onOk(v.(A)).node },
	))
}

// Fold is the pure variant of FoldM: both branches produce plain values
// instead of new effects.
func Fold[R, E, A, B any](e Effect[R, E, A], onErr func(E) B, onOk func(A) B) Effect[R, E, B] {
	return FoldM(e,
		func(err E) Effect[R, E, B] { return Succeed[R, E, B](onErr(err)) },
		func(a A) Effect[R, E, B] { return Succeed[R, E, B](onOk(a)) },
	)
}

// Retry re-runs e up to n additional times after a typed Fail, returning
// the last failure if every attempt is exhausted. Grounded on
// effects/helpers.go's retry helper, generalized from its task-level
// looping to this package's own effect tree instead of a bare closure.
func Retry[R, E, A any](e Effect[R, E, A], n int) Effect[R, E, A] {
	if n <= 0 {
		return e
	}
	return OrElse(e, Retry(e, n-1))
}

// Repeat re-runs e up to n additional times after a success, returning
// the last success once every repetition has run. It is the success-side
// dual of Retry, supplementing the distilled operator set with the
// repeat-on-success combinator effect systems in this family commonly
// expose alongside retry-on-failure.
func Repeat[R, E, A any](e Effect[R, E, A], n int) Effect[R, E, A] {
	if n <= 0 {
		return e
	}
	return FlatMap(e, func(A) Effect[R, E, A] { return Repeat(e, n-1) })
}

// RepeatWhile re-runs e for as long as pred holds on its latest success
// value, then yields that value.
func RepeatWhile[R, E, A any](e Effect[R, E, A], pred func(A) bool) Effect[R, E, A] {
	return FlatMap(e, func(a A) Effect[R, E, A] {
		if !pred(a) {
			return Succeed[R, E, A](a)
		}
		return RepeatWhile(e, pred)
	})
}

// Flip swaps e's success and error channels.
func Flip[R, E, A any](e Effect[R, E, A]) Effect[R, A, E] {
	return wrap[R, A, E](effectnode.FoldM(e.node,
		func(err any) *effectnode.Node { return Succeed[R, A, E](err.(E)).node },
		func(v any) *effectnode.Node { return Fail[R, A, E](v.(A)).node },
	))
}

// FlipWith flips e, applies f to the flipped effect, then flips the
// result back.
func FlipWith[R, E, A, E2, A2 any](e Effect[R, E, A], f func(Effect[R, A, E]) Effect[R, A2, E2]) Effect[R, E2, A2] {
	return Flip(f(Flip(e)))
}

// Absolve collapses an inner Either into e's own error/success channels,
// the dual of the teacher's pattern of threading a result union back
// out through a resumable effect's continuation.
func Absolve[R, E, A any](e Effect[R, E, container.Either[E, A]]) Effect[R, E, A] {
	return FlatMap(e, func(either container.Either[E, A]) Effect[R, E, A] {
		return FromEither[R, E, A](either)
	})
}

// FlatMapError recovers from a typed Fail by running k, which may itself
// fail with a different error type E2.
func FlatMapError[R, E, A, E2 any](e Effect[R, E, A], k func(E) Effect[R, E2, A]) Effect[R, E2, A] {
	return wrap[R, E2, A](effectnode.FoldM(e.node,
		func(err any) *effectnode.Node { return k(err.(E)).node },
		func(v any) *effectnode.Node { return effectnode.Succeed(v) },
	))
}

// AugmentError enriches a typed Fail with additional context without
// changing its type -- a pure widening, as distinct from MapError's
// type-changing transform.
func AugmentError[R, E, A any](e Effect[R, E, A], f func(E) E) Effect[R, E, A] {
	return MapError[R, E, A, E](e, f)
}
