package fiber_test

import (
	"testing"

	"github.com/on-the-ground/gofx/cause"
	"github.com/on-the-ground/gofx/fiber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoneIsIdempotentFirstWriterWins(t *testing.T) {
	ctx := fiber.New(true)
	var calls int
	ctx.AddObserver(func(e fiber.Exit) { calls++ })

	ctx.Done(fiber.Success(1))
	ctx.Done(fiber.Success(2))

	exit, done := ctx.Exit()
	require.True(t, done)
	assert.Equal(t, 1, exit.Value)
	assert.Equal(t, 1, calls)
}

func TestObserversNotifiedOnceInOrder(t *testing.T) {
	ctx := fiber.New(true)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		ctx.AddObserver(func(e fiber.Exit) { order = append(order, i) })
	}
	ctx.Done(fiber.Success("x"))
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestAddObserverAfterDoneFiresSynchronously(t *testing.T) {
	ctx := fiber.New(true)
	ctx.Done(fiber.Success(42))

	var got fiber.Exit
	unsub := ctx.AddObserver(func(e fiber.Exit) { got = e })
	unsub()

	assert.Equal(t, 42, got.Value)
}

func TestUnsubscribeIsIdempotentAndRemoves(t *testing.T) {
	ctx := fiber.New(true)
	var fired bool
	unsub := ctx.AddObserver(func(e fiber.Exit) { fired = true })
	unsub()
	unsub()

	ctx.Done(fiber.Success(nil))
	assert.False(t, fired)
}

func TestInterruptLatchesAndShouldInterruptNow(t *testing.T) {
	ctx := fiber.New(false)
	ctx.Interrupt()
	assert.True(t, ctx.Interrupted())
	assert.False(t, ctx.ShouldInterruptNow(), "not interruptible yet")

	prior := ctx.SetInterruptible(true)
	assert.False(t, prior)
	assert.True(t, ctx.ShouldInterruptNow())
}

func TestFailureExitCarriesCause(t *testing.T) {
	ctx := fiber.New(true)
	c := cause.Fail[any]("boom")
	ctx.Done(fiber.Failure(c))

	exit, _ := ctx.Exit()
	assert.False(t, exit.Ok)
	assert.Equal(t, []any{"boom"}, exit.Cause.Failures())
}
