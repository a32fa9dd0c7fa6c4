package effect

import "github.com/on-the-ground/gofx/internal/effectnode"

// Map transforms a successful value, leaving any failure untouched.
func Map[R, E, A, B any](e Effect[R, E, A], f func(A) B) Effect[R, E, B] {
	return wrap[R, E, B](effectnode.FlatMap(e.node, func(v any) *effectnode.Node {
		return effectnode.Succeed(f(v.(A)))
	}))
}

// MapError transforms a typed failure value, leaving success untouched.
// Die and Interrupt causes are not touched -- only the typed Fail
// channel is reachable here, per §4.3.
func MapError[R, E, A, E2 any](e Effect[R, E, A], f func(E) E2) Effect[R, E2, A] {
	return wrap[R, E2, A](effectnode.FoldM(e.node,
		func(err any) *effectnode.Node { return effectnode.Fail(f(err.(E))) },
		func(v any) *effectnode.Node { return effectnode.Succeed(v) },
	))
}

// MapBoth transforms both channels at once.
func MapBoth[R, E, A, E2, B any](e Effect[R, E, A], onErr func(E) E2, onOk func(A) B) Effect[R, E2, B] {
	return wrap[R, E2, B](effectnode.FoldM(e.node,
		func(err any) *effectnode.Node { return effectnode.Fail(onErr(err.(E))) },
		func(v any) *effectnode.Node { return effectnode.Succeed(onOk(v.(A))) },
	))
}

// As replaces e's success value with the constant b, discarding A.
func As[R, E, A, B any](e Effect[R, E, A], b B) Effect[R, E, B] {
	return Map(e, func(A) B { return b })
}

// Unit discards e's success value.
func Unit[R, E, A any](e Effect[R, E, A]) Effect[R, E, struct{}] {
	return As(e, struct{}{})
}

// FlatMap sequences e into k, threading e's success value into k and
// running the resulting effect in e's place. This is the one true
// primitive combinator from §3; nearly everything else in this package
// desugars to it per §4.3.
func FlatMap[R, E, A, B any](e Effect[R, E, A], k func(A) Effect[R, E, B]) Effect[R, E, B] {
	return wrap[R, E, B](effectnode.FlatMap(e.node, func(v any) *effectnode.Node {
		a, _ := v.(A)
		return k(a).node
	}))
}

// Flatten collapses a nested effect.
func Flatten[R, E, A any](e Effect[R, E, Effect[R, E, A]]) Effect[R, E, A] {
	return FlatMap(e, func(inner Effect[R, E, A]) Effect[R, E, A] { return inner })
}
