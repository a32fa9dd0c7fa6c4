package effect

import "github.com/on-the-ground/gofx/internal/effectnode"

// Pair holds the combined result of Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// ZipWith runs e1 then e2 sequentially and combines their results with f.
func ZipWith[R, E, A, B, C any](e1 Effect[R, E, A], e2 Effect[R, E, B], f func(A, B) C) Effect[R, E, C] {
	return FlatMap(e1, func(a A) Effect[R, E, C] {
		return Map(e2, func(b B) C { return f(a, b) })
	})
}

// Zip runs e1 then e2 and pairs their results.
func Zip[R, E, A, B any](e1 Effect[R, E, A], e2 Effect[R, E, B]) Effect[R, E, Pair[A, B]] {
	return ZipWith(e1, e2, func(a A, b B) Pair[A, B] { return Pair[A, B]{First: a, Second: b} })
}

// ZipLeft runs e1 then e2, keeping only e1's result.
func ZipLeft[R, E, A, B any](e1 Effect[R, E, A], e2 Effect[R, E, B]) Effect[R, E, A] {
	return ZipWith(e1, e2, func(a A, _ B) A { return a })
}

// ZipRight runs e1 then e2, keeping only e2's result.
func ZipRight[R, E, A, B any](e1 Effect[R, E, A], e2 Effect[R, E, B]) Effect[R, E, B] {
	return ZipWith(e1, e2, func(_ A, b B) B { return b })
}

// All forks es concurrently, waits for every one, and returns their
// results in the same positional order they were given. The first
// failure aborts every sibling and its cause is combined with every
// other failure via Parallel composition (§4.4).
func All[R, E, A any](es ...Effect[R, E, A]) Effect[R, E, []A] {
	children := make([]*effectnode.Node, len(es))
	for i, e := range es {
		children[i] = e.node
	}
	return wrap[R, E, []A](effectnode.FlatMap(effectnode.All(children), func(v any) *effectnode.Node {
		raw := v.([]any)
		out := make([]A, len(raw))
		for i, r := range raw {
			out[i], _ = r.(A)
		}
		return effectnode.Succeed(out)
	}))
}

// Race runs es concurrently and returns the result of whichever settles
// first. The losers are left running uninterrupted -- §4.4/S4: after
// race(p1, p2) returns p1's result, p2 keeps going on its own, and any
// ensuring finalizer attached to p2 still fires whenever p2 eventually
// settles.
func Race[R, E, A any](es ...Effect[R, E, A]) Effect[R, E, A] {
	children := make([]*effectnode.Node, len(es))
	for i, e := range es {
		children[i] = e.node
	}
	return wrap[R, E, A](effectnode.RaceUncancelled(children))
}

// RaceFirst runs es concurrently and returns the result of whichever
// settles first, additionally interrupting and awaiting every loser
// before returning -- §4.4's raceFirst guarantee. Unlike Race, a loser's
// ensuring finalizer fires during RaceFirst itself, as part of its
// interruption, not after.
func RaceFirst[R, E, A any](es ...Effect[R, E, A]) Effect[R, E, A] {
	children := make([]*effectnode.Node, len(es))
	for i, e := range es {
		children[i] = e.node
	}
	return wrap[R, E, A](effectnode.Race(children))
}
