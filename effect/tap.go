package effect

// Tap runs k for its side effect after e succeeds, discarding k's result
// and preserving e's own value. k shares e's error channel so a tap that
// fails aborts the chain with a typed Fail of the same E.
func Tap[R, E, A any](e Effect[R, E, A], k func(A) Effect[R, E, any]) Effect[R, E, A] {
	return FlatMap(e, func(a A) Effect[R, E, A] {
		return FlatMap(k(a), func(any) Effect[R, E, A] { return Succeed[R, E, A](a) })
	})
}

// TapError runs k for its side effect after e fails with a typed Fail,
// preserving the original failure.
func TapError[R, E, A any](e Effect[R, E, A], k func(E) Effect[R, E, any]) Effect[R, E, A] {
	return FoldM(e,
		func(err E) Effect[R, E, A] {
			return FlatMap(k(err), func(any) Effect[R, E, A] { return Fail[R, E, A](err) })
		},
		func(a A) Effect[R, E, A] { return Succeed[R, E, A](a) },
	)
}

// TapBoth runs onErr or onOk depending on which channel e settles into,
// preserving e's own outcome either way.
func TapBoth[R, E, A any](e Effect[R, E, A], onErr func(E) Effect[R, E, any], onOk func(A) Effect[R, E, any]) Effect[R, E, A] {
	return FoldM(e,
		func(err E) Effect[R, E, A] {
			return FlatMap(onErr(err), func(any) Effect[R, E, A] { return Fail[R, E, A](err) })
		},
		func(a A) Effect[R, E, A] {
			return FlatMap(onOk(a), func(any) Effect[R, E, A] { return Succeed[R, E, A](a) })
		},
	)
}
