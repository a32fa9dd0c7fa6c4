package cause_test

import (
	"testing"

	"github.com/on-the-ground/gofx/cause"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyAbsorbedBySequentialAndParallel(t *testing.T) {
	f := cause.Fail[string]("boom")

	assert.Equal(t, f, cause.Sequential(cause.Empty[string](), f))
	assert.Equal(t, f, cause.Sequential(f, cause.Empty[string]()))
	assert.Equal(t, f, cause.Parallel(cause.Empty[string](), f))
	assert.Equal(t, f, cause.Parallel(f, cause.Empty[string]()))
}

func TestFailuresPreorder(t *testing.T) {
	both := cause.Parallel(cause.Fail[string]("a"), cause.Fail[string]("b"))
	require.Equal(t, []string{"a", "b"}, both.Failures())
}

func TestMapOnlyTouchesFailLeaves(t *testing.T) {
	both := cause.Parallel(cause.Fail[string]("a"), cause.Fail[string]("b"))
	mapped := cause.Map(both, func(s string) int { return len(s) })
	assert.Equal(t, []int{1, 1}, mapped.Failures())

	died := cause.Die[string]("defect")
	mappedDie := cause.Map(died, func(s string) int { return len(s) })
	assert.True(t, mappedDie.IsDie())
	assert.Equal(t, []any{"defect"}, mappedDie.Defects())
}

func TestSquashPriority(t *testing.T) {
	failOnly := cause.Fail[string]("e")
	require.Equal(t, "e", cause.Squash(failOnly).Err)

	dieOnly := cause.Die[string]("d")
	require.Equal(t, "d", cause.Squash(dieOnly).Defect)

	interruptOnly := cause.Interrupt[string](7)
	require.Equal(t, 7, cause.Squash(interruptOnly).Interruptor)

	mixed := cause.Sequential(cause.Die[string]("d"), cause.Fail[string]("e"))
	require.Equal(t, "e", cause.Squash(mixed).Err, "Fail outranks Die in squash priority")

	empty := cause.Empty[string]()
	require.True(t, cause.Squash(empty).Ok)
}

func TestPrettyPrint(t *testing.T) {
	c := cause.Sequential(
		cause.Fail[string]("e"),
		cause.Parallel(cause.Die[string]("d"), cause.Interrupt[string](3)),
	)
	assert.Equal(t, "Then(Fail(e), Both(Die(d), Interrupt(Fiber#3)))", c.PrettyPrint())
}

func TestPredicates(t *testing.T) {
	assert.True(t, cause.Empty[string]().IsEmpty())
	assert.True(t, cause.Fail[string]("x").IsFailure())
	assert.True(t, cause.Die[string]("x").IsDie())
	assert.True(t, cause.Interrupt[string](1).IsInterrupted())
	assert.False(t, cause.Fail[string]("x").IsDie())
}
