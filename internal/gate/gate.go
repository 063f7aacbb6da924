package gate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/tracegate/internal/probe"
)

// Config describes one readiness wait. Supplied by the caller; the gate
// never reads the environment itself.
type Config struct {
	TargetURL         string
	MaxAttempts       int           // clamped to 1 if smaller
	Interval          time.Duration // fixed delay between attempts; clamped to 0 if negative
	TimeoutPerAttempt time.Duration // each probe is abandoned after this long
}

// Report is the terminal outcome of a wait.
type Report struct {
	Ready    bool
	Attempts int
	Last     probe.CheckResult
	Err      error // last error detail; set when Ready is false
}

// Gate blocks until a dependent service answers its health URL with a 2xx,
// or the retry budget runs out. It never terminates the process; the caller
// decides what exhaustion means.
type Gate struct {
	Logger  *zap.Logger
	Checker probe.Checker
}

func New(logger *zap.Logger, checker probe.Checker) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{Logger: logger, Checker: checker}
}

// Wait probes cfg.TargetURL up to cfg.MaxAttempts times, pausing
// cfg.Interval between attempts. Every failure before the last attempt is
// transient and retried; there is no sleep after the final attempt.
// Cancelling ctx ends the wait early with the attempts made so far.
func (g *Gate) Wait(ctx context.Context, cfg Config) Report {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Interval < 0 {
		cfg.Interval = 0
	}
	if cfg.TimeoutPerAttempt <= 0 {
		cfg.TimeoutPerAttempt = 5 * time.Second
	}

	var last probe.CheckResult
	for i := 1; i <= cfg.MaxAttempts; i++ {
		cctx, cancel := context.WithTimeout(ctx, cfg.TimeoutPerAttempt)
		last = g.Checker.Check(cctx, cfg.TargetURL)
		cancel()

		g.Logger.Info("probe_attempt",
			zap.String("url", cfg.TargetURL),
			zap.Int("attempt", i),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Bool("up", last.Success),
			zap.Int("status", last.StatusCode),
			zap.Float64("latency_ms", last.LatencyMS),
			zap.String("reason", last.Message),
		)

		if last.Success {
			return Report{Ready: true, Attempts: i, Last: last}
		}
		if err := ctx.Err(); err != nil {
			return Report{Attempts: i, Last: last, Err: err}
		}
		if i < cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return Report{Attempts: i, Last: last, Err: ctx.Err()}
			case <-time.After(cfg.Interval):
			}
		}
	}

	return Report{
		Attempts: cfg.MaxAttempts,
		Last:     last,
		Err: fmt.Errorf("%s not ready after %d attempts: %s",
			cfg.TargetURL, cfg.MaxAttempts, last.Message),
	}
}
