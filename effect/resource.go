package effect

import "github.com/on-the-ground/gofx/internal/effectnode"

// Ensuring runs finalizer after e completes, regardless of outcome. The
// finalizer itself runs non-interruptibly (§4.4), and if both e and
// finalizer fail, their causes are combined sequentially rather than
// one shadowing the other.
func Ensuring[R, E, A any](e Effect[R, E, A], finalizer Effect[R, E, any]) Effect[R, E, A] {
	return wrap[R, E, A](effectnode.Ensuring(e.node, finalizer.node))
}
