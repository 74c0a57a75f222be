package backend

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// BreakerSettings tunes the circuit breaker around a provider.
type BreakerSettings struct {
	// ConsecutiveFailures opens the circuit once reached. Zero disables
	// tripping entirely.
	ConsecutiveFailures uint32

	// Cooldown is how long the circuit stays open before a probe call is
	// allowed through.
	Cooldown time.Duration
}

// DefaultBreakerSettings matches a per-sentence call pattern: a handful of
// consecutive failures means the backend is down, not that one sentence was
// awkward.
var DefaultBreakerSettings = BreakerSettings{
	ConsecutiveFailures: 5,
	Cooldown:            30 * time.Second,
}

// Breaker wraps a Provider with a circuit breaker. When the underlying
// service is unreachable, repeated per-sentence calls fail fast instead of
// each burning a full timeout; the orchestrator turns those failures into
// error markers like any other per-unit failure.
type Breaker struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps provider in a circuit breaker. A zero Cooldown falls
// back to the default; zero ConsecutiveFailures keeps the circuit closed no
// matter how many calls fail.
func WithBreaker(provider Provider, settings BreakerSettings, log zerolog.Logger) *Breaker {
	if settings.Cooldown == 0 {
		settings.Cooldown = DefaultBreakerSettings.Cooldown
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    provider.Name(),
		Timeout: settings.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return settings.ConsecutiveFailures > 0 &&
				counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("translation backend circuit state changed")
		},
	})

	return &Breaker{inner: provider, cb: cb}
}

func (b *Breaker) Name() string { return b.inner.Name() }

// Translate runs the wrapped provider's call through the breaker.
func (b *Breaker) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Translate(ctx, text, sourceLang, targetLang)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
