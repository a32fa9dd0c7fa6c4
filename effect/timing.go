package effect

import "time"

// Delay sleeps for at least d, then runs e.
func Delay[R, E, A any](e Effect[R, E, A], d time.Duration) Effect[R, E, A] {
	return FlatMap(Sleep[R, E](d), func(struct{}) Effect[R, E, A] { return e })
}

// TimeoutResult reports whether a Timeout-wrapped effect finished in
// time; if it did, Value holds its result.
type TimeoutResult[A any] struct {
	TimedOut bool
	Value    A
}

// Timeout races e against a d-long sleep, per the desugaring
// timeout(d) = raceFirst(self, sleep(d).as(sentinel)): e is neither
// failed nor retried on expiry, it simply loses the race and is
// interrupted -- this needs RaceFirst, not the plain Race, or e would
// keep running unobserved past the deadline.
func Timeout[R, E, A any](e Effect[R, E, A], d time.Duration) Effect[R, E, TimeoutResult[A]] {
	succeeded := Map(e, func(a A) TimeoutResult[A] { return TimeoutResult[A]{Value: a} })
	timedOut := As(Sleep[R, E](d), TimeoutResult[A]{TimedOut: true})
	return RaceFirst(succeeded, timedOut)
}
