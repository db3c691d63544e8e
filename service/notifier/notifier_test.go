package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hireflow/service/retry"
)

func TestRecorder(t *testing.T) {
	recorder := NewRecorder()
	summary, err := recorder.Notify(context.Background(), &Message{Body: "hi", Recipients: []string{"a@x.io", "b@x.io"}})
	require.NoError(t, err)
	assert.Equal(t, &Summary{Sent: 2}, summary)
	_, err = recorder.Notify(context.Background(), &Message{Body: "nobody"})
	assert.ErrorIs(t, err, ErrNoRecipients)
	require.Len(t, recorder.Messages(), 1)
	assert.Equal(t, "hi", recorder.Messages()[0].Body)
}

func TestWithRetry(t *testing.T) {
	policy := &retry.Policy{Strategy: retry.StrategyFixed, Attempts: 3, Delay: time.Millisecond}
	testCases := []struct {
		name        string
		failures    int
		failure     error
		expectCalls int
		expectErr   bool
	}{
		{name: "first attempt", expectCalls: 1},
		{name: "transient", failures: 2, failure: errors.New("421 try later"), expectCalls: 3},
		{name: "exhausted", failures: 5, failure: errors.New("421 try later"), expectCalls: 3, expectErr: true},
		{name: "no recipients", failures: 5, failure: ErrNoRecipients, expectCalls: 1, expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			srv := WithRetry(Func(func(ctx context.Context, message *Message) (*Summary, error) {
				calls++
				if calls <= tc.failures {
					return nil, tc.failure
				}
				return &Summary{Sent: 1}, nil
			}), policy)
			summary, err := srv.Notify(context.Background(), &Message{Recipients: []string{"a@x.io"}})
			assert.Equal(t, tc.expectCalls, calls)
			if tc.expectErr {
				assert.ErrorIs(t, err, tc.failure)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, summary.Sent)
		})
	}
}
