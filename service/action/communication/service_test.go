package communication

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/executor"
	"github.com/viant/hireflow/service/notifier"
)

func newRun() *execution.Context {
	run := execution.NewContext("run", &model.Seed{
		Candidate: model.Candidate{Name: "Ada", Email: "ada@example.com", Phone: "+15550100"},
		Document:  model.Document{URL: "s3://cv/ada.pdf"},
	})
	run.Variables.Set("2.matchScore", 85)
	return run
}

func TestService_Handle(t *testing.T) {
	failing := notifier.Func(func(ctx context.Context, message *notifier.Message) (*notifier.Summary, error) {
		return nil, errors.New("smtp: connection refused")
	})
	slow := notifier.Func(func(ctx context.Context, message *notifier.Message) (*notifier.Summary, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	testCases := []struct {
		name            string
		cardType        graph.CardType
		notifier        notifier.Notifier
		data            map[string]interface{}
		expectSent      int
		expectFailed    int
		expectSubject   string
		expectBody      string
		expectRecipient []string
		expectErr       bool
	}{
		{
			name:            "default recipient",
			cardType:        graph.CardSendCommunication,
			data:            map[string]interface{}{"subject": "Hi {candidate.name}", "message": "Your score is {2.matchScore}"},
			expectSent:      1,
			expectSubject:   "Hi Ada",
			expectBody:      "Your score is 85",
			expectRecipient: []string{"ada@example.com"},
		},
		{
			name:            "unresolved placeholder stays visible",
			cardType:        graph.CardSendCommunication,
			data:            map[string]interface{}{"message": "Slot {4.slot}", "recipients": []interface{}{"hr@acme.io", "{candidate.email}"}},
			expectSent:      2,
			expectBody:      "Slot {4.slot}",
			expectRecipient: []string{"hr@acme.io", "ada@example.com"},
		},
		{
			name:            "unresolved recipient counted as failed",
			cardType:        graph.CardSendCommunication,
			data:            map[string]interface{}{"message": "x", "recipients": []interface{}{"{manager.email}", "hr@acme.io"}},
			expectSent:      1,
			expectFailed:    1,
			expectBody:      "x",
			expectRecipient: []string{"hr@acme.io"},
		},
		{
			name:            "invite defaults",
			cardType:        graph.CardSendInvite,
			expectSent:      1,
			expectSubject:   "Interview invitation",
			expectBody:      "Hi Ada, we would like to invite you to an interview.",
			expectRecipient: []string{"ada@example.com"},
		},
		{
			name:            "sms uses phone",
			cardType:        graph.CardSendCommunication,
			data:            map[string]interface{}{"channel": "sms", "message": "See you"},
			expectSent:      1,
			expectBody:      "See you",
			expectRecipient: []string{"+15550100"},
		},
		{
			name:         "delivery failure",
			cardType:     graph.CardSendCommunication,
			notifier:     failing,
			data:         map[string]interface{}{"message": "x", "recipient": "a@x.io, b@x.io"},
			expectFailed: 2,
			expectErr:    true,
		},
		{
			name:         "timeout",
			cardType:     graph.CardSendCommunication,
			notifier:     slow,
			data:         map[string]interface{}{"message": "x", "timeoutMs": 10},
			expectFailed: 1,
			expectErr:    true,
		},
		{
			name:         "no recipients",
			cardType:     graph.CardSendCommunication,
			data:         map[string]interface{}{"message": "x", "recipient": "{nobody.email}"},
			expectFailed: 1,
			expectErr:    true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := notifier.NewRecorder()
			var collaborator notifier.Notifier = recorder
			if tc.notifier != nil {
				collaborator = tc.notifier
			}
			node := graph.NewNode("4", tc.cardType)
			for k, v := range tc.data {
				node.WithData(k, v)
			}
			run := newRun()
			dispatcher := executor.New(executor.WithHandlers(New(collaborator, WithTimeout(time.Second))))
			output, err := dispatcher.Execute(context.Background(), node, run)
			require.NotNil(t, output)
			result := output.Value.(*Result)
			assert.Equal(t, tc.expectSent, result.Sent)
			assert.Equal(t, tc.expectFailed, result.Failed)
			sent, ok := run.Variables.Lookup("4.sent")
			assert.True(t, ok)
			assert.Equal(t, strconv.Itoa(tc.expectSent), sent)
			if tc.expectErr {
				require.Error(t, err)
				assert.Equal(t, execution.KindDeliveryFailure, execution.AsNodeError(err).Kind)
				return
			}
			require.NoError(t, err)
			messages := recorder.Messages()
			require.Len(t, messages, 1)
			assert.Equal(t, tc.expectBody, messages[0].Body)
			assert.Equal(t, tc.expectRecipient, messages[0].Recipients)
			if tc.expectSubject != "" {
				assert.Equal(t, tc.expectSubject, messages[0].Subject)
			}
		})
	}
}

func TestService_Handle_TimeoutIgnoredByNotifier(t *testing.T) {
	stuck := notifier.Func(func(ctx context.Context, message *notifier.Message) (*notifier.Summary, error) {
		time.Sleep(time.Second)
		return &notifier.Summary{Sent: 1}, nil
	})
	testCases := []struct {
		name    string
		options []Option
		data    map[string]interface{}
	}{
		{name: "handler timeout", options: []Option{WithTimeout(50 * time.Millisecond)}, data: map[string]interface{}{"message": "hi"}},
		{name: "node timeoutMs", data: map[string]interface{}{"message": "hi", "timeoutMs": 50}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := New(stuck, tc.options...)
			node := graph.NewNode("5", graph.CardSendCommunication)
			for k, v := range tc.data {
				node.WithData(k, v)
			}
			started := time.Now()
			out, err := srv.Handle(context.Background(), node, newRun())
			assert.Less(t, time.Since(started), 500*time.Millisecond)
			require.Error(t, err)
			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.Equal(t, execution.KindDeliveryFailure, execution.AsNodeError(err).Kind)
			result := out.Value.(*Result)
			assert.Equal(t, 0, result.Sent)
			assert.Equal(t, 1, result.Failed)
		})
	}
}
