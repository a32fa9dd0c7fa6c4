package container_test

import (
	"testing"

	"github.com/on-the-ground/gofx/container"
	"github.com/stretchr/testify/assert"
)

func TestEitherFold(t *testing.T) {
	l := container.Left[string, int]("e")
	r := container.Right[string, int](5)

	assert.True(t, l.IsLeft())
	assert.True(t, r.IsRight())

	got := container.FoldEither(l, func(s string) string { return "left:" + s }, func(i int) string { return "right" })
	assert.Equal(t, "left:e", got)

	got2 := container.FoldEither(r, func(s string) string { return "left" }, func(i int) string { return "right" })
	assert.Equal(t, "right", got2)
}

func TestEitherUnsafeAccessorsPanic(t *testing.T) {
	l := container.Left[string, int]("e")
	assert.Panics(t, func() { l.UnsafeRight() })

	r := container.Right[string, int](1)
	assert.Panics(t, func() { r.UnsafeLeft() })
}

func TestExitFold(t *testing.T) {
	s := container.ExitSuccess[string, int](3)
	f := container.ExitFailure[string, int]("boom")

	assert.True(t, s.IsSuccess())
	assert.True(t, f.IsFailure())

	assert.Equal(t, 3, container.FoldExit(s, func(string) int { return -1 }, func(a int) int { return a }))
	assert.Equal(t, -1, container.FoldExit(f, func(string) int { return -1 }, func(a int) int { return a }))
}
