// Package container holds the minimal sum types used at the runtime
// boundary: Either and Exit. Both are grounded on the sealed-interface,
// two-case-union idiom the teacher uses for its own payload types
// (effects/state.go's StatePayload, effects/stream.go's
// streamEffectPayload), generalized here to a generic two-case sum
// instead of domain-specific payloads. Go methods cannot introduce new
// type parameters, so the "fold to T" operations are free functions
// rather than generic methods.
package container

// Either is a Left(L) or Right(R) value.
type Either[L, R any] struct {
	isLeft bool
	left   L
	right  R
}

// Left builds a Left value.
func Left[L, R any](l L) Either[L, R] {
	return Either[L, R]{isLeft: true, left: l}
}

// Right builds a Right value.
func Right[L, R any](r R) Either[L, R] {
	return Either[L, R]{isLeft: false, right: r}
}

// IsLeft reports whether e holds a Left.
func (e Either[L, R]) IsLeft() bool { return e.isLeft }

// IsRight reports whether e holds a Right.
func (e Either[L, R]) IsRight() bool { return !e.isLeft }

// UnsafeLeft returns the Left payload; it panics if e is a Right.
func (e Either[L, R]) UnsafeLeft() L {
	if !e.isLeft {
		panic("container: UnsafeLeft called on a Right value")
	}
	return e.left
}

// UnsafeRight returns the Right payload; it panics if e is a Left.
func (e Either[L, R]) UnsafeRight() R {
	if e.isLeft {
		panic("container: UnsafeRight called on a Left value")
	}
	return e.right
}

// FoldEither dispatches to onLeft or onRight depending on e's case.
func FoldEither[L, R, T any](e Either[L, R], onLeft func(L) T, onRight func(R) T) T {
	if e.isLeft {
		return onLeft(e.left)
	}
	return onRight(e.right)
}
