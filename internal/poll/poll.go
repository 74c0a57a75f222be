// Package poll retrieves result documents from eventually-consistent
// storage. A submission response without inline translations only promises
// that a result document will appear at the derived key; the poller reads
// that key on a bounded schedule until the document shows up, the attempt
// budget runs out, or the caller cancels.
package poll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/lexiflow/translation-platform/internal/domain"
)

// Outcome classifies how a polling run ended.
type Outcome int

const (
	// Found means a non-empty result document was retrieved.
	Found Outcome = iota

	// TimedOut means the attempt budget was exhausted with the result still
	// pending. Not a job failure: the result may yet appear.
	TimedOut

	// Cancelled means the caller aborted mid-poll.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case TimedOut:
		return "timed out"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Defaults for the CLI retrieval schedule.
const (
	DefaultInterval = time.Second
	DefaultAttempts = 30
)

// ObjectGetter is the storage read surface the poller needs.
type ObjectGetter interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}

// Poller reads a result document on a fixed schedule.
type Poller struct {
	reader   ObjectGetter
	interval time.Duration
	attempts int
	log      zerolog.Logger

	// wait sleeps between attempts; injectable so tests can simulate
	// elapsed time. Returns ctx.Err() if cancelled mid-sleep.
	wait func(ctx context.Context, d time.Duration) error
}

// Option tunes a Poller.
type Option func(*Poller)

// WithInterval overrides the delay between attempts.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithAttempts overrides the attempt budget.
func WithAttempts(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.attempts = n
		}
	}
}

// WithWait replaces the sleeping function.
func WithWait(wait func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Poller) { p.wait = wait }
}

// New creates a Poller over the given storage reader.
func New(reader ObjectGetter, log zerolog.Logger, opts ...Option) *Poller {
	p := &Poller{
		reader:   reader,
		interval: DefaultInterval,
		attempts: DefaultAttempts,
		log:      log,
		wait:     sleepCtx,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Await polls the output location until a non-empty result document appears.
// Missing objects and documents without translations are transient; any
// other read error is logged and retried against the same budget. Returns
// immediately on success. Exhausting the budget yields TimedOut, caller
// cancellation yields Cancelled; neither is an error.
func (p *Poller) Await(ctx context.Context, loc domain.OutputLocation) (Outcome, domain.TranslationResult) {
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if ctx.Err() != nil {
			return Cancelled, nil
		}

		body, err := p.reader.Get(ctx, loc.Bucket, loc.Key)
		switch {
		case err == nil:
			var doc domain.ResultDocument
			if jsonErr := json.Unmarshal(body, &doc); jsonErr != nil {
				// Possibly a partially visible write; treat as transient.
				p.log.Debug().Err(jsonErr).Int("attempt", attempt).Msg("result document not yet readable")
			} else if !doc.Translations.Empty() {
				p.log.Debug().Int("attempt", attempt).Str("key", loc.Key).Msg("result retrieved")
				return Found, doc.Translations
			} else {
				p.log.Debug().Int("attempt", attempt).Msg("result document present but translations not ready")
			}

		case errors.Is(err, domain.ErrNotFound):
			p.log.Debug().Int("attempt", attempt).Str("key", loc.Key).Msg("result not yet in storage")

		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return Cancelled, nil

		default:
			p.log.Warn().Err(err).Int("attempt", attempt).Msg("storage read failed; retrying")
		}

		if attempt == p.attempts {
			break
		}
		if err := p.wait(ctx, p.interval); err != nil {
			return Cancelled, nil
		}
	}

	return TimedOut, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
