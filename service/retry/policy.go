// Package retry implements retry policies applied to external collaborator
// calls.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Strategy defines how the delay between attempts grows.
type Strategy string

const (
	StrategyNone        Strategy = "none"
	StrategyFixed       Strategy = "fixed"
	StrategyExponential Strategy = "exponential"
)

// ErrPermanent marks an error that must not be retried.
var ErrPermanent = errors.New("permanent failure")

// Policy describes how a failing call is retried.
type Policy struct {
	Strategy Strategy      `json:"strategy,omitempty" yaml:"strategy,omitempty" validate:"omitempty,oneof=none fixed exponential"`
	Attempts int           `json:"attempts,omitempty" yaml:"attempts,omitempty" validate:"gte=0"`
	Delay    time.Duration `json:"delay,omitempty" yaml:"delay,omitempty"`
	MaxDelay time.Duration `json:"maxDelay,omitempty" yaml:"maxDelay,omitempty"`
	// Jitter is the fraction (0..1) of the computed delay randomised either way
	Jitter float64 `json:"jitter,omitempty" yaml:"jitter,omitempty" validate:"gte=0,lte=1"`
}

// None returns a policy that performs a single attempt.
func None() *Policy {
	return &Policy{Strategy: StrategyNone, Attempts: 1}
}

// Permanent wraps err so Do stops retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// Backoff returns the delay before retry number attempt (1-based).
func (p *Policy) Backoff(attempt int) time.Duration {
	if p == nil || attempt <= 0 || p.Delay <= 0 {
		return 0
	}
	delay := float64(p.Delay)
	switch p.Strategy {
	case StrategyExponential:
		delay = delay * math.Pow(2, float64(attempt-1))
	case StrategyNone:
		return 0
	}
	if p.Jitter > 0 {
		jitterRange := delay * p.Jitter
		delay += rand.Float64()*2*jitterRange - jitterRange
	}
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if delay < 0 {
		delay = float64(p.Delay)
	}
	return time.Duration(delay)
}

func (p *Policy) attempts() int {
	if p == nil || p.Strategy == StrategyNone || p.Strategy == "" || p.Attempts <= 1 {
		return 1
	}
	return p.Attempts
}

// Do calls fn until it succeeds, the attempts are exhausted, fn returns a
// permanent error or ctx is done. The last error is returned.
func Do(ctx context.Context, policy *Policy, fn func(ctx context.Context) error) error {
	var err error
	attempts := policy.attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) || attempt == attempts {
			return err
		}
		timer := time.NewTimer(policy.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (after %d attempts): %w", ctx.Err(), attempt, err)
		case <-timer.C:
		}
	}
	return err
}
