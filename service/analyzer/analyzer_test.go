package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hireflow/service/retry"
)

func TestResponse_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		response  *Response
		expectErr bool
	}{
		{name: "valid", response: &Response{MatchScore: 85}},
		{name: "boundary", response: &Response{MatchScore: 100}},
		{name: "nil", response: nil, expectErr: true},
		{name: "negative", response: &Response{MatchScore: -1}, expectErr: true},
		{name: "too high", response: &Response{MatchScore: 101}, expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.response.Validate()
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWithRetry(t *testing.T) {
	policy := &retry.Policy{Strategy: retry.StrategyFixed, Attempts: 3, Delay: time.Millisecond}

	t.Run("transient failure", func(t *testing.T) {
		calls := 0
		srv := WithRetry(Func(func(ctx context.Context, request *Request) (*Response, error) {
			calls++
			if calls < 2 {
				return nil, errors.New("503")
			}
			return &Response{MatchScore: 70}, nil
		}), policy)
		response, err := srv.Analyze(context.Background(), &Request{DocumentURL: "mem://cv.pdf"})
		require.NoError(t, err)
		assert.Equal(t, 70.0, response.MatchScore)
		assert.Equal(t, 2, calls)
	})

	t.Run("invalid response", func(t *testing.T) {
		calls := 0
		srv := WithRetry(Func(func(ctx context.Context, request *Request) (*Response, error) {
			calls++
			return nil, ErrInvalidResponse
		}), policy)
		_, err := srv.Analyze(context.Background(), &Request{})
		assert.ErrorIs(t, err, ErrInvalidResponse)
		assert.Equal(t, 1, calls)
	})
}
