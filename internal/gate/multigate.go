package gate

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/tracegate/internal/domain"
	"github.com/hamed0406/tracegate/internal/probe"
)

// MultiGate waits on every service of a stack in order. Services are listed
// dependency-first in the stack config (database before the server that
// needs it), so sequential waiting is the point, not a limitation.
type MultiGate struct {
	Gate     *Gate
	Defaults Config // TargetURL ignored; retry fields used where a service has no override
}

func NewMultiGate(logger *zap.Logger, checker probe.Checker, defaults Config) *MultiGate {
	return &MultiGate{Gate: New(logger, checker), Defaults: defaults}
}

// WaitAll gates each service and aggregates every exhaustion into one
// combined error. The returned map always holds a report per service that
// was attempted; services after a ctx cancellation are not attempted.
func (m *MultiGate) WaitAll(ctx context.Context, services []domain.Service) (map[string]Report, error) {
	reports := make(map[string]Report, len(services))
	var combined error

	for _, svc := range services {
		cfg := m.configFor(svc)
		rep := m.Gate.Wait(ctx, cfg)
		reports[svc.Name] = rep
		if !rep.Ready {
			combined = multierr.Append(combined, rep.Err)
			if ctx.Err() != nil {
				break
			}
		}
	}
	return reports, combined
}

func (m *MultiGate) configFor(svc domain.Service) Config {
	cfg := Config{
		TargetURL:         svc.HealthURL,
		MaxAttempts:       m.Defaults.MaxAttempts,
		Interval:          m.Defaults.Interval,
		TimeoutPerAttempt: m.Defaults.TimeoutPerAttempt,
	}
	if svc.MaxAttempts > 0 {
		cfg.MaxAttempts = svc.MaxAttempts
	}
	if svc.IntervalMS > 0 {
		cfg.Interval = time.Duration(svc.IntervalMS) * time.Millisecond
	}
	if svc.TimeoutMS > 0 {
		cfg.TimeoutPerAttempt = time.Duration(svc.TimeoutMS) * time.Millisecond
	}
	return cfg
}
