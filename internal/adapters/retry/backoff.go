package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/longregen/roomgate/internal/domain"
	"github.com/twitchtv/twirp"
)

type BackoffConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      int
	Multiplier      float64
}

// DefaultConfig keeps the worst case well under a join request's patience.
func DefaultConfig() BackoffConfig {
	return BackoffConfig{
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxRetries:      2,
		Multiplier:      2.0,
	}
}

// Classifier decides whether a failed call may be attempted again.
type Classifier func(err error) bool

// IsTransient reports whether err is worth retrying for an idempotent call.
func IsTransient(err error) bool {
	if err == nil || isTerminal(err) {
		return false
	}

	var twerr twirp.Error
	if errors.As(err, &twerr) {
		switch twerr.Code() {
		case twirp.Unavailable, twirp.ResourceExhausted, twirp.DeadlineExceeded:
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return IsUndelivered(err)
}

// IsUndelivered reports whether err proves the request never reached the
// server. Only then is a non-idempotent call safe to repeat.
func IsUndelivered(err error) bool {
	if err == nil || isTerminal(err) {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		// NXDOMAIN is definitive
		return !dnsErr.IsNotFound
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED)
}

func isTerminal(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, domain.ErrCircuitOpen)
}

// WithBackoff calls fn until it succeeds, fails with an error retryable
// rejects, or MaxRetries is exhausted. The last error stays in the chain.
func WithBackoff(ctx context.Context, cfg BackoffConfig, retryable Classifier, fn func(ctx context.Context) error) error {
	interval := cfg.InitialInterval

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt >= cfg.MaxRetries {
			if attempt == 0 {
				return err
			}
			return fmt.Errorf("giving up after %d attempts: %w", attempt+1, err)
		}

		slog.DebugContext(ctx, "retrying after transient error",
			"attempt", attempt+1,
			"wait", interval,
			"error", err,
		)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(ctx.Err(), err)
		case <-timer.C:
		}

		interval = time.Duration(float64(interval) * cfg.Multiplier)
		if cfg.MaxInterval > 0 && interval > cfg.MaxInterval {
			interval = cfg.MaxInterval
		}
	}
}
