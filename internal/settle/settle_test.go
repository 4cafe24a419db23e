package settle_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobpilot/aggregator/internal/settle"
)

func TestAll_KeepsTaskOrderAndErrors(t *testing.T) {
	boom := errors.New("boom")
	tasks := []settle.Task[int]{
		func(context.Context) (int, error) { time.Sleep(20 * time.Millisecond); return 1, nil },
		func(context.Context) (int, error) { return 0, boom },
		func(context.Context) (int, error) { return 3, nil },
	}

	out := settle.All(context.Background(), 0, tasks)
	require.Len(t, out, 3)
	assert.Equal(t, 1, out[0].Value)
	assert.True(t, out[0].OK())
	assert.ErrorIs(t, out[1].Err, boom)
	assert.Equal(t, 3, out[2].Value)
}

func TestAll_FailureDoesNotCancelSiblings(t *testing.T) {
	tasks := []settle.Task[string]{
		func(context.Context) (string, error) { return "", errors.New("fast failure") },
		func(ctx context.Context) (string, error) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(30 * time.Millisecond):
				return "slow", nil
			}
		},
	}

	out := settle.All(context.Background(), 0, tasks)
	assert.Error(t, out[0].Err)
	assert.NoError(t, out[1].Err)
	assert.Equal(t, "slow", out[1].Value)
}

func TestAll_RespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	task := func(context.Context) (struct{}, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return struct{}{}, nil
	}
	tasks := make([]settle.Task[struct{}], 8)
	for i := range tasks {
		tasks[i] = task
	}

	settle.All(context.Background(), 2, tasks)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAll_PanicBecomesError(t *testing.T) {
	tasks := []settle.Task[int]{
		func(context.Context) (int, error) { panic("bad record") },
		func(context.Context) (int, error) { return 7, nil },
	}

	out := settle.All(context.Background(), 0, tasks)
	assert.ErrorContains(t, out[0].Err, "bad record")
	assert.Equal(t, 7, out[1].Value)
}

func TestAll_Empty(t *testing.T) {
	out := settle.All[int](context.Background(), 0, nil)
	assert.Empty(t, out)
}
