package generation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/imagegen"
)

// State is a step of a queued generation job.
type State int

const (
	StateSubmitted State = iota
	StatePolling
	StateCompleted
	StateFailed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateSubmitted:
		return "submitted"
	case StatePolling:
		return "polling"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateTimedOut
}

type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

func DefaultPollConfig() PollConfig {
	return PollConfig{Interval: 2 * time.Second, MaxAttempts: 15}
}

func (c PollConfig) withDefaults() PollConfig {
	d := DefaultPollConfig()
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	return c
}

// StatusChecker reports the provider-side state of a queued job.
type StatusChecker interface {
	Status(ctx context.Context, requestID string) (*imagegen.StatusResponse, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Poller struct {
	checker StatusChecker
	config  PollConfig
	sleep   SleepFunc
	logger  zerolog.Logger
}

func NewPoller(checker StatusChecker, config PollConfig, logger zerolog.Logger) *Poller {
	return &Poller{
		checker: checker,
		config:  config.withDefaults(),
		sleep:   sleepContext,
		logger:  logger,
	}
}

// WithSleep replaces the wait between status checks.
func (p *Poller) WithSleep(sleep SleepFunc) *Poller {
	p.sleep = sleep
	return p
}

// Wait drives a submitted job to a terminal state. Each transition out of
// Submitted or Polling waits one interval and then checks the status once.
// A cancelled ctx stops waiting; the upstream job is left running.
func (p *Poller) Wait(ctx context.Context, requestID string) (State, error) {
	const op = "generation: poll"

	state := StateSubmitted
	attempts := 0
	for !state.Terminal() {
		if attempts >= p.config.MaxAttempts {
			state = StateTimedOut
			p.logger.Warn().Str("request_id", requestID).Int("attempts", attempts).Msg("generation job timed out")
			return state, apperr.Timeout(op, "request %s did not complete after %d attempts", requestID, attempts)
		}

		if err := p.sleep(ctx, p.config.Interval); err != nil {
			return state, &apperr.Error{Kind: apperr.KindTimeout, Op: op, Message: "stopped waiting for request " + requestID, Err: err}
		}
		attempts++

		status, err := p.checker.Status(ctx, requestID)
		if err != nil {
			return state, err
		}

		switch status.Status {
		case imagegen.StatusCompleted:
			state = StateCompleted
		case imagegen.StatusFailed:
			state = StateFailed
			msg := status.Error
			if msg == "" {
				msg = "provider reported FAILED"
			}
			return state, apperr.ProviderFailure(op, "request %s failed: %s", requestID, msg)
		default:
			state = StatePolling
		}

		p.logger.Debug().
			Str("request_id", requestID).
			Int("attempt", attempts).
			Str("status", status.Status).
			Str("state", state.String()).
			Msg("generation job status")
	}
	return state, nil
}
