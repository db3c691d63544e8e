package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/dao"
)

func newRun(id, workflowID string, created time.Time) *execution.Run {
	ret := execution.NewRun(id, &model.Workflow{ID: workflowID, Name: workflowID}, &model.Seed{JobID: "job-" + workflowID})
	ret.CreatedAt = created
	return ret
}

func TestService(t *testing.T) {
	ctx := context.Background()
	srv := New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, srv.Save(ctx, &execution.Run{}), dao.ErrInvalidID)

	r2 := newRun("r2", "wf-a", base.Add(time.Second))
	r1 := newRun("r1", "wf-a", base)
	r3 := newRun("r3", "wf-b", base.Add(2*time.Second))
	for _, r := range []*execution.Run{r2, r1, r3} {
		require.NoError(t, srv.Save(ctx, r))
	}
	r3.Start()

	loaded, err := srv.Load(ctx, "r3")
	require.NoError(t, err)
	assert.Equal(t, execution.RunStatePending, loaded.State, "store keeps a copy")
	loaded.State = execution.RunStateFailed
	again, _ := srv.Load(ctx, "r3")
	assert.Equal(t, execution.RunStatePending, again.State)

	_, err = srv.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	all, err := srv.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	byWorkflow, err := srv.List(ctx, dao.NewParameter(dao.ParamWorkflowID, "wf-a"))
	require.NoError(t, err)
	assert.Len(t, byWorkflow, 2)

	byJob, err := srv.List(ctx, dao.NewParameter(dao.ParamJobID, "job-wf-b"))
	require.NoError(t, err)
	require.Len(t, byJob, 1)
	assert.Equal(t, "r3", byJob[0].ID)

	r1.Complete(&execution.Result{Status: execution.StatusCompleted, Success: true})
	require.NoError(t, srv.Save(ctx, r1))
	done, err := srv.List(ctx, dao.NewParameter(dao.ParamState, string(execution.RunStateCompleted), string(execution.RunStateFailed)))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "r1", done[0].ID)

	require.NoError(t, srv.Delete(ctx, "r1"))
	assert.ErrorIs(t, srv.Delete(ctx, "r1"), dao.ErrNotFound)
	assert.Equal(t, 2, srv.Len())
}
