package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_Update(t *testing.T) {
	var seen []Progress
	ctx, tr := WithNewTracker(context.Background(), "run-1", "screening", func(p Progress) {
		seen = append(seen, p)
	})
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, tr, got)

	UpdateCtx(ctx, Delta{Total: 2, Pending: 2})
	UpdateCtx(ctx, Delta{Pending: -1, Running: 1})
	UpdateCtx(ctx, Delta{Running: -1, Completed: 1})
	UpdateCtx(ctx, Delta{Pending: -1, Skipped: 1})

	snapshot, ok := GetSnapshot(ctx)
	require.True(t, ok)
	assert.Equal(t, "run-1", snapshot.ExecutionID)
	assert.Equal(t, 2, snapshot.TotalNodes)
	assert.Equal(t, 1, snapshot.CompletedNodes)
	assert.Equal(t, 1, snapshot.SkippedNodes)
	assert.True(t, snapshot.Done())
	require.Len(t, seen, 4)
	assert.False(t, seen[1].Done())
}

func TestProgress_NoTracker(t *testing.T) {
	UpdateCtx(context.Background(), Delta{Total: 1})
	_, ok := GetSnapshot(context.Background())
	assert.False(t, ok)
	var p *Progress
	p.Update(Delta{Total: 1})
	assert.Equal(t, 0, p.Snapshot().TotalNodes)
}

func TestProgress_Concurrent(t *testing.T) {
	_, tr := WithNewTracker(context.Background(), "run-2", "wf", nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Update(Delta{Total: 1, Completed: 1})
		}()
	}
	wg.Wait()
	snapshot := tr.Snapshot()
	assert.Equal(t, 50, snapshot.TotalNodes)
	assert.Equal(t, 50, snapshot.CompletedNodes)
}
