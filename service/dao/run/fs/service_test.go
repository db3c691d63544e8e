package fs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/hireflow/internal/logging"
	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/dao"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	baseURL := "mem://localhost/hireflow/runs"
	srv, err := New(ctx, baseURL, WithFS(fs), WithLogger(logging.Discard()))
	require.NoError(t, err)

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := execution.NewRun("run-1", &model.Workflow{ID: "wf-1", Name: "screening"}, &model.Seed{JobID: "job-1"})
	first.CreatedAt = created
	second := execution.NewRun("run-2", &model.Workflow{ID: "wf-2"}, nil)
	second.CreatedAt = created.Add(time.Minute)

	require.NoError(t, srv.Save(ctx, second))
	require.NoError(t, srv.Save(ctx, first))
	assert.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, srv.Save(ctx, &execution.Run{}), dao.ErrInvalidID)

	first.Complete(&execution.Result{
		Success: true,
		Status:  execution.StatusCompleted,
		Results: map[string]interface{}{"n2": map[string]interface{}{"matchScore": 85.0}},
		Errors:  []*execution.ErrorRecord{},
	})
	require.NoError(t, srv.Save(ctx, first))

	loaded, err := srv.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, execution.RunStateCompleted, loaded.State)
	assert.Equal(t, "screening", loaded.WorkflowName)
	assert.Equal(t, "job-1", loaded.Seed.JobID)
	require.NotNil(t, loaded.Result)
	assert.True(t, loaded.Result.Success)
	assert.True(t, loaded.CreatedAt.Equal(created))

	_, err = srv.Load(ctx, "nope")
	assert.ErrorIs(t, err, dao.ErrNotFound)
	_, err = srv.Load(ctx, "")
	assert.ErrorIs(t, err, dao.ErrInvalidID)

	require.NoError(t, fs.Upload(ctx, baseURL+"/broken.json", file.DefaultFileOsMode, strings.NewReader("{")))
	runs, err := srv.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)

	pending, err := srv.List(ctx, dao.NewParameter(dao.ParamState, string(execution.RunStatePending)))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "run-2", pending[0].ID)

	require.NoError(t, srv.Delete(ctx, "run-2"))
	assert.ErrorIs(t, srv.Delete(ctx, "run-2"), dao.ErrNotFound)
}
