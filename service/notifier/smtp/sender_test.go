package smtp

import (
	"context"
	"errors"
	"net"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hireflow/service/notifier"
)

type sent struct {
	addr string
	to   []string
	msg  string
}

func TestSender_Notify(t *testing.T) {
	testCases := []struct {
		name         string
		recipients   []string
		reject       map[string]bool
		expectSent   int
		expectFailed int
		expectErr    bool
	}{
		{name: "all delivered", recipients: []string{"a@x.io", "b@x.io"}, expectSent: 2},
		{name: "partial", recipients: []string{"a@x.io", "bad@x.io"}, reject: map[string]bool{"bad@x.io": true}, expectSent: 1, expectFailed: 1},
		{name: "none delivered", recipients: []string{"bad@x.io"}, reject: map[string]bool{"bad@x.io": true}, expectFailed: 1, expectErr: true},
		{name: "no recipients", expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var outbox []sent
			sender := New(&Config{Host: "mail.local", Port: 2525, From: "jobs@acme.io", Rate: 1000, Burst: 10},
				WithSendFunc(func(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
					if tc.reject[to[0]] {
						return errors.New("550 mailbox unavailable")
					}
					outbox = append(outbox, sent{addr: addr, to: to, msg: string(msg)})
					return nil
				}))
			summary, err := sender.Notify(context.Background(), &notifier.Message{
				Subject:    "Interview",
				Body:       "Hello Ada",
				Recipients: tc.recipients,
			})
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			if len(tc.recipients) == 0 {
				assert.ErrorIs(t, err, notifier.ErrNoRecipients)
				return
			}
			assert.Equal(t, tc.expectSent, summary.Sent)
			assert.Equal(t, tc.expectFailed, summary.Failed)
			for _, item := range outbox {
				assert.Equal(t, "mail.local:2525", item.addr)
				assert.Contains(t, item.msg, "Subject: Interview\r\n")
				assert.Contains(t, item.msg, "\r\n\r\nHello Ada")
			}
		})
	}
}

func TestSender_UnsupportedChannel(t *testing.T) {
	sender := New(&Config{Host: "mail.local"})
	_, err := sender.Notify(context.Background(), &notifier.Message{Channel: notifier.ChannelSMS, Recipients: []string{"+100"}})
	assert.Error(t, err)
}

func TestSender_StalledServer(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()
	addr := listener.Addr().(*net.TCPAddr)
	sender := New(&Config{Host: "127.0.0.1", Port: addr.Port, From: "jobs@acme.io"})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	started := time.Now()
	summary, err := sender.Notify(ctx, &notifier.Message{Subject: "Interview", Body: "Hello", Recipients: []string{"ada@example.com"}})
	assert.Less(t, time.Since(started), time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, summary.Failed)
}
