package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/analyzer"
	"github.com/viant/hireflow/service/executor"
)

func seed() *model.Seed {
	return &model.Seed{
		Candidate: model.Candidate{Name: "Ada", Email: "ada@example.com"},
		Document:  model.Document{URL: "s3://cv/ada.pdf", FileType: "pdf"},
	}
}

func TestService_Handle(t *testing.T) {
	scored := func(score float64) analyzer.Analyzer {
		return analyzer.Func(func(ctx context.Context, request *analyzer.Request) (*analyzer.Response, error) {
			return &analyzer.Response{
				MatchScore:      score,
				ExtractedSkills: []string{"go"},
				Experience:      map[string]interface{}{"years": 6.0},
			}, nil
		})
	}
	failing := analyzer.Func(func(ctx context.Context, request *analyzer.Request) (*analyzer.Response, error) {
		return nil, errors.New("503 service unavailable")
	})
	slow := analyzer.Func(func(ctx context.Context, request *analyzer.Request) (*analyzer.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	testCases := []struct {
		name         string
		analyzer     analyzer.Analyzer
		data         map[string]interface{}
		expectScore  float64
		expectPassed bool
		expectErr    bool
	}{
		{name: "above threshold", analyzer: scored(85), data: map[string]interface{}{"matchThreshold": 70}, expectScore: 85, expectPassed: true},
		{name: "below threshold", analyzer: scored(40), data: map[string]interface{}{"matchThreshold": 70}, expectScore: 40},
		{name: "collaborator failure", analyzer: failing, expectErr: true},
		{name: "timeout", analyzer: slow, data: map[string]interface{}{"timeoutMs": 10}, expectErr: true},
		{name: "invalid score", analyzer: scored(120), expectErr: true},
		{name: "unresolved document", analyzer: scored(90), data: map[string]interface{}{"document": "{0.missing}"}, expectErr: true},
		{name: "no analyzer", analyzer: nil, expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			node := graph.NewNode("2", graph.CardAnalyzeResume)
			for k, v := range tc.data {
				node.WithData(k, v)
			}
			run := execution.NewContext("run", seed())
			dispatcher := executor.New(executor.WithHandlers(New(tc.analyzer, WithTimeout(time.Second))))
			output, err := dispatcher.Execute(context.Background(), node, run)
			require.NotNil(t, output)
			result := output.Value.(*Result)
			if tc.expectErr {
				require.Error(t, err)
				assert.Equal(t, execution.KindAnalysisFailure, execution.AsNodeError(err).Kind)
				assert.Equal(t, 0.0, result.MatchScore)
				assert.Empty(t, result.ExtractedSkills)
				assert.False(t, result.Passed)
				score, ok := run.Variables.Get("2.matchScore")
				assert.True(t, ok)
				value, _ := score.Float()
				assert.Equal(t, 0.0, value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectScore, result.MatchScore)
			assert.Equal(t, tc.expectPassed, result.Passed)
			assert.Equal(t, "s3://cv/ada.pdf", result.Document)
			years, ok := run.Variables.Lookup("2.experience.years")
			assert.True(t, ok)
			assert.Equal(t, "6", years)
		})
	}
}

func TestService_Request(t *testing.T) {
	var seen *analyzer.Request
	srv := New(analyzer.Func(func(ctx context.Context, request *analyzer.Request) (*analyzer.Response, error) {
		seen = request
		return &analyzer.Response{MatchScore: 50}, nil
	}))
	node := graph.NewNode("a", graph.CardAnalyzeResume).
		WithData("requiredSkills", []interface{}{"go", "kubernetes"}).
		WithData("requiredExperienceYears", 5).
		WithData("enableVideoAnalysis", true)
	_, err := srv.Handle(context.Background(), node, execution.NewContext("run", seed()))
	require.NoError(t, err)
	assert.Equal(t, "s3://cv/ada.pdf", seen.DocumentURL)
	assert.Equal(t, "pdf", seen.FileType)
	assert.Equal(t, []string{"go", "kubernetes"}, seen.Config.RequiredSkills)
	assert.Equal(t, 5.0, seen.Config.RequiredExperienceYears)
	assert.True(t, seen.Config.EnableVideoAnalysis)
}

func TestService_Handle_TimeoutIgnoredByAnalyzer(t *testing.T) {
	stuck := analyzer.Func(func(ctx context.Context, request *analyzer.Request) (*analyzer.Response, error) {
		time.Sleep(time.Second)
		return &analyzer.Response{MatchScore: 99}, nil
	})
	srv := New(stuck)
	node := graph.NewNode("2", graph.CardAnalyzeResume).WithData("timeoutMs", 50)
	run := execution.NewContext("run", seed())

	started := time.Now()
	out, err := srv.Handle(context.Background(), node, run)
	assert.Less(t, time.Since(started), 500*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, execution.KindAnalysisFailure, execution.AsNodeError(err).Kind)
	result := out.Value.(*Result)
	assert.EqualValues(t, 0, result.MatchScore)
	assert.Empty(t, result.ExtractedSkills)
}
