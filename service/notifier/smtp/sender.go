// Package smtp delivers notifier messages by e-mail, one SMTP transaction
// per recipient, throttled by a token bucket.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/viant/hireflow/internal/logging"
	"github.com/viant/hireflow/service/notifier"
	"golang.org/x/time/rate"
)

// Config holds SMTP settings
type Config struct {
	Host     string  `json:"host,omitempty" yaml:"host,omitempty"`
	Port     int     `json:"port,omitempty" yaml:"port,omitempty"`
	Username string  `json:"username,omitempty" yaml:"username,omitempty"`
	Password string  `json:"password,omitempty" yaml:"password,omitempty"`
	From     string  `json:"from,omitempty" yaml:"from,omitempty"`
	Rate     float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
	Burst    int     `json:"burst,omitempty" yaml:"burst,omitempty"`
}

// SendFunc delivers one message; it must return once ctx is done
type SendFunc func(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// Sender is an e-mail notifier
type Sender struct {
	config  *Config
	auth    smtp.Auth
	limiter *rate.Limiter
	send    SendFunc
}

// Option customises the sender
type Option func(s *Sender)

// WithSendFunc replaces the transport
func WithSendFunc(fn SendFunc) Option {
	return func(s *Sender) {
		s.send = fn
	}
}

// New creates a sender. A zero Rate disables throttling.
func New(config *Config, options ...Option) *Sender {
	if config.Port == 0 {
		config.Port = 25
	}
	limit := rate.Inf
	if config.Rate > 0 {
		limit = rate.Limit(config.Rate)
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}
	ret := &Sender{config: config, limiter: rate.NewLimiter(limit, burst)}
	ret.send = ret.sendMail
	if config.Username != "" {
		ret.auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Notify sends message to each recipient separately; per-recipient failures
// are counted, and an error is returned only when no recipient was reached.
func (s *Sender) Notify(ctx context.Context, message *notifier.Message) (*notifier.Summary, error) {
	if len(message.Recipients) == 0 {
		return nil, notifier.ErrNoRecipients
	}
	if message.Channel != "" && message.Channel != notifier.ChannelEmail {
		return nil, fmt.Errorf("smtp sender does not support channel %q", message.Channel)
	}
	logger := logging.FromContext(ctx)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	summary := &notifier.Summary{}
	var lastErr error
	for _, recipient := range message.Recipients {
		if err := s.limiter.Wait(ctx); err != nil {
			summary.Failed++
			lastErr = err
			continue
		}
		if err := s.send(ctx, addr, s.auth, s.config.From, []string{recipient}, s.build(recipient, message)); err != nil {
			logger.Warn("email delivery failed", "recipient", recipient, "error", err)
			summary.Failed++
			lastErr = err
			continue
		}
		summary.Sent++
	}
	if summary.Sent == 0 {
		return summary, fmt.Errorf("failed to deliver to %d recipients: %w", summary.Failed, lastErr)
	}
	return summary, nil
}

// sendMail runs one SMTP transaction over a connection bound to ctx: the
// dial honours ctx and the connection deadline is moved to now once ctx is
// done, so a stalled server cannot block past the caller's deadline.
func (s *Sender) sendMail(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) (err error) {
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()
	defer func() {
		if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
	}()
	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
			return err
		}
	}
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err = client.Auth(auth); err != nil {
				return err
			}
		}
	}
	if err = client.Mail(from); err != nil {
		return err
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return err
		}
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = writer.Write(msg); err != nil {
		return err
	}
	if err = writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (s *Sender) build(recipient string, message *notifier.Message) []byte {
	buf := bytes.Buffer{}
	buf.WriteString("From: " + s.config.From + "\r\n")
	buf.WriteString("To: " + recipient + "\r\n")
	buf.WriteString("Subject: " + strings.ReplaceAll(message.Subject, "\n", " ") + "\r\n")
	buf.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(message.Body)
	return buf.Bytes()
}
