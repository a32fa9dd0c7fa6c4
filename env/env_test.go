package env_test

import (
	"testing"

	"github.com/on-the-ground/gofx/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock interface {
	Now() int64
}

type fakeClock struct{ t int64 }

func (f fakeClock) Now() int64 { return f.t }

func TestWithDoesNotMutateReceiver(t *testing.T) {
	tag := env.NewTag[clock]("clock")
	base := env.Empty()
	withClock := env.With(base, tag, clock(fakeClock{t: 42}))

	_, err := env.Get(base, tag)
	require.ErrorIs(t, err, env.ErrServiceNotFound)

	got, err := env.Get(withClock, tag)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Now())
}

func TestGetWrongTypeErrors(t *testing.T) {
	strTag := env.NewTag[string]("name")
	r := env.With(env.Empty(), strTag, "ok")

	intTag := env.Tag[int]{Name: "name"}
	_, err := env.Get(r, intTag)
	require.Error(t, err)
}

func TestMustGetPanicsWhenMissing(t *testing.T) {
	tag := env.NewTag[string]("missing")
	assert.Panics(t, func() {
		env.MustGet(env.Empty(), tag)
	})
}
