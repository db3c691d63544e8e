package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hireflow/service/dao"
)

type candidate struct {
	ID    string
	Job   string
	Score int
}

func newStore() *MemoryStore[string, candidate] {
	return NewMemoryStore[string, candidate](
		func(c *candidate) string { return c.ID },
		WithClone[string, candidate](func(c *candidate) *candidate {
			clone := *c
			return &clone
		}),
		WithFilter[string, candidate](func(c *candidate, params []*dao.Parameter) bool {
			for _, param := range params {
				if param.Name == "job" {
					for _, value := range param.Values() {
						if value == c.Job {
							return true
						}
					}
					return false
				}
			}
			return true
		}),
		WithOrder[string, candidate](func(a, b *candidate) bool { return a.Score > b.Score }),
	)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	assert.ErrorIs(t, s.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, s.Save(ctx, &candidate{}), dao.ErrInvalidID)

	original := &candidate{ID: "a", Job: "j1", Score: 50}
	require.NoError(t, s.Save(ctx, original))
	require.NoError(t, s.Save(ctx, &candidate{ID: "b", Job: "j2", Score: 90}))
	require.NoError(t, s.Save(ctx, &candidate{ID: "c", Job: "j1", Score: 70}))
	original.Score = 0

	loaded, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 50, loaded.Score)
	loaded.Score = 1
	again, _ := s.Load(ctx, "a")
	assert.Equal(t, 50, again.Score)

	_, err = s.Load(ctx, "z")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	testCases := []struct {
		description string
		params      []*dao.Parameter
		expect      []string
	}{
		{description: "all ordered by score", expect: []string{"b", "c", "a"}},
		{description: "single value", params: []*dao.Parameter{dao.NewParameter("job", "j1")}, expect: []string{"c", "a"}},
		{description: "any of values", params: []*dao.Parameter{dao.NewParameter("job", "j2", "j3")}, expect: []string{"b"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			items, err := s.List(ctx, testCase.params...)
			require.NoError(t, err)
			var ids []string
			for _, item := range items {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, testCase.expect, ids)
		})
	}

	require.NoError(t, s.Delete(ctx, "b"))
	assert.ErrorIs(t, s.Delete(ctx, "b"), dao.ErrNotFound)
	assert.Equal(t, 2, s.Len())
}
