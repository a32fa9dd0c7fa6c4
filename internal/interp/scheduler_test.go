package interp

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/on-the-ground/gofx/fiber"
	"github.com/on-the-ground/gofx/internal/effectnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSucceedMapFlatMap(t *testing.T) {
	s := New(1, nil)
	n := effectnode.FlatMap(
		effectnode.FlatMap(
			effectnode.Succeed(1),
			func(v any) *effectnode.Node { return effectnode.Succeed(v.(int) + 1) },
		),
		func(v any) *effectnode.Node { return effectnode.Succeed(v.(int) * 2) },
	)
	res := s.runNode(context.Background(), nil, n, newFiber())
	require.True(t, res.Ok)
	assert.Equal(t, 4, res.Value)
}

func TestFailOrElse(t *testing.T) {
	s := New(1, nil)
	orElse := func(child *effectnode.Node, fallback *effectnode.Node) *effectnode.Node {
		return effectnode.FoldM(child,
			func(any) *effectnode.Node { return fallback },
			func(v any) *effectnode.Node { return effectnode.Succeed(v) },
		)
	}
	n := orElse(effectnode.Fail("e"), effectnode.Succeed(2))
	res := s.runNode(context.Background(), nil, n, newFiber())
	require.True(t, res.Ok)
	assert.Equal(t, 2, res.Value)
}

func TestFoldMDoesNotCatchDie(t *testing.T) {
	s := New(1, nil)
	caught := false
	n := effectnode.FoldM(
		effectnode.Sync(func(any) (any, error) { return nil, errors.New("boom") }),
		func(any) *effectnode.Node { caught = true; return effectnode.Succeed(nil) },
		func(v any) *effectnode.Node { return effectnode.Succeed(v) },
	)
	res := s.runNode(context.Background(), nil, n, newFiber())
	assert.False(t, res.Ok)
	assert.False(t, caught)
	assert.True(t, res.Cause.IsDie())
}

func TestAllPreservesOrder(t *testing.T) {
	s := New(1, nil)
	mk := func(v int, d time.Duration) *effectnode.Node {
		return effectnode.FlatMap(effectnode.Sleep(d), func(any) *effectnode.Node {
			return effectnode.Succeed(v)
		})
	}
	n := effectnode.All([]*effectnode.Node{
		mk(1, 30*time.Millisecond),
		mk(2, 10*time.Millisecond),
		mk(3, 20*time.Millisecond),
	})
	res := s.runNode(context.Background(), nil, n, newFiber())
	require.True(t, res.Ok)
	assert.Equal(t, []any{1, 2, 3}, res.Value)
}

func TestAllAbortsOnFailure(t *testing.T) {
	s := New(1, nil)
	n := effectnode.All([]*effectnode.Node{
		effectnode.Fail("e1"),
		effectnode.FlatMap(effectnode.Sleep(50*time.Millisecond), func(any) *effectnode.Node {
			return effectnode.Succeed(1)
		}),
	})
	res := s.runNode(context.Background(), nil, n, newFiber())
	assert.False(t, res.Ok)
	assert.Contains(t, res.Cause.Failures(), "e1")
}

func TestRacePicksEarliestCompletion(t *testing.T) {
	s := New(1, nil)
	fast := effectnode.FlatMap(effectnode.Sleep(10*time.Millisecond), func(any) *effectnode.Node {
		return effectnode.Succeed("fast")
	})
	slow := effectnode.FlatMap(effectnode.Sleep(200*time.Millisecond), func(any) *effectnode.Node {
		return effectnode.Succeed("slow")
	})
	n := effectnode.Race([]*effectnode.Node{slow, fast})
	res := s.runNode(context.Background(), nil, n, newFiber())
	require.True(t, res.Ok)
	assert.Equal(t, "fast", res.Value)
}

func TestRaceUncancelledLeavesLoserRunning(t *testing.T) {
	s := New(1, nil)
	var loserFinished atomic.Bool
	fast := effectnode.FlatMap(effectnode.Sleep(5*time.Millisecond), func(any) *effectnode.Node {
		return effectnode.Succeed("fast")
	})
	slow := effectnode.FlatMap(effectnode.Sleep(30*time.Millisecond), func(any) *effectnode.Node {
		return effectnode.Sync(func(any) (any, error) {
			loserFinished.Store(true)
			return "slow", nil
		})
	})

	n := effectnode.RaceUncancelled([]*effectnode.Node{fast, slow})
	res := s.runNode(context.Background(), nil, n, newFiber())
	require.True(t, res.Ok)
	assert.Equal(t, "fast", res.Value)
	assert.False(t, loserFinished.Load(), "loser should not have completed yet")

	assert.Eventually(t, loserFinished.Load, 200*time.Millisecond, 5*time.Millisecond)
}

func TestEnsuringRunsFinalizerOnceOnSuccessAndFailure(t *testing.T) {
	s := New(1, nil)

	var ran int
	markFinalizer := func() *effectnode.Node {
		return effectnode.Sync(func(any) (any, error) { ran++; return nil, nil })
	}

	okRes := s.runNode(context.Background(), nil, effectnode.Ensuring(effectnode.Succeed(1), markFinalizer()), newFiber())
	require.True(t, okRes.Ok)
	assert.Equal(t, 1, okRes.Value)

	failRes := s.runNode(context.Background(), nil, effectnode.Ensuring(effectnode.Fail("e"), markFinalizer()), newFiber())
	assert.False(t, failRes.Ok)

	assert.Equal(t, 2, ran)
}

func TestEnsuringCombinesBothFailuresWithThen(t *testing.T) {
	s := New(1, nil)
	n := effectnode.Ensuring(effectnode.Fail("child"), effectnode.Fail("fin"))
	res := s.runNode(context.Background(), nil, n, newFiber())
	assert.False(t, res.Ok)
	assert.Equal(t, []any{"child", "fin"}, res.Cause.Failures())
}

func TestForkAndJoin(t *testing.T) {
	s := New(1, nil)
	body := effectnode.FlatMap(effectnode.Sleep(10*time.Millisecond), func(any) *effectnode.Node {
		return effectnode.Succeed(42)
	})
	forkRes := s.runNode(context.Background(), nil, effectnode.Fork(body), newFiber())
	require.True(t, forkRes.Ok)

	joinRes := s.runNode(context.Background(), nil, effectnode.Join(forkRes.Value), newFiber())
	require.True(t, joinRes.Ok)
	assert.Equal(t, 42, joinRes.Value)
}

func TestInterruptFiberDuringSleep(t *testing.T) {
	s := New(1, nil)
	sideEffectRan := false
	body := effectnode.FlatMap(effectnode.Sleep(10*time.Second), func(any) *effectnode.Node {
		return effectnode.Sync(func(any) (any, error) { sideEffectRan = true; return nil, nil })
	})
	forkRes := s.runNode(context.Background(), nil, effectnode.Fork(body), newFiber())
	require.True(t, forkRes.Ok)

	time.Sleep(10 * time.Millisecond)

	interruptRes := s.runNode(context.Background(), nil, effectnode.InterruptFiber(forkRes.Value), newFiber())
	require.True(t, interruptRes.Ok) // InterruptFiber yields the Exit as a value, never propagates
	exit := interruptRes.Value.(fiber.Exit)
	assert.False(t, exit.Ok)
	assert.True(t, exit.Cause.IsInterrupted())
	assert.False(t, sideEffectRan)
}

func newFiber() *fiber.Context {
	return fiber.New(true)
}
