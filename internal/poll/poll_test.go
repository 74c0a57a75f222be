package poll

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexiflow/translation-platform/internal/domain"
)

var testLoc = domain.OutputLocation{
	Bucket: "out-bucket",
	Key:    "translations/2026/08/28/job.json",
	URL:    "s3://out-bucket/translations/2026/08/28/job.json",
}

// scriptedGetter returns responses[i] for call i, repeating the last entry.
type scriptedGetter struct {
	responses []response
	calls     int
}

type response struct {
	body []byte
	err  error
}

func (g *scriptedGetter) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	i := g.calls
	if i >= len(g.responses) {
		i = len(g.responses) - 1
	}
	g.calls++
	r := g.responses[i]
	return r.body, r.err
}

func resultDoc(t *testing.T, translations domain.TranslationResult) []byte {
	t.Helper()
	body, err := json.Marshal(domain.ResultDocument{
		TranslationID: "job",
		Translations:  translations,
	})
	require.NoError(t, err)
	return body
}

func noWait(ctx context.Context, d time.Duration) error { return nil }

func notFound() response {
	return response{err: domain.ErrNotFound}
}

func TestAwaitFindsResultAndStopsEarly(t *testing.T) {
	ready := resultDoc(t, domain.TranslationResult{"es": {"Hola", "Adiós"}})
	getter := &scriptedGetter{responses: []response{
		notFound(),
		notFound(),
		notFound(),
		notFound(),
		{body: ready},
	}}

	p := New(getter, zerolog.Nop(), WithAttempts(30), WithWait(noWait))
	outcome, result := p.Await(context.Background(), testLoc)

	assert.Equal(t, Found, outcome)
	assert.Equal(t, []string{"Hola", "Adiós"}, result["es"])
	// Found on the 5th attempt; no further reads after success.
	assert.Equal(t, 5, getter.calls)
}

// If the document never appears, the poller stops after exactly its
// configured budget - not before, not after.
func TestAwaitTimesOutAfterExactBudget(t *testing.T) {
	getter := &scriptedGetter{responses: []response{notFound()}}

	p := New(getter, zerolog.Nop(), WithAttempts(7), WithWait(noWait))
	outcome, result := p.Await(context.Background(), testLoc)

	assert.Equal(t, TimedOut, outcome)
	assert.Nil(t, result)
	assert.Equal(t, 7, getter.calls)
}

// A document that exists but carries no translations yet is transient.
func TestAwaitRetriesEmptyDocument(t *testing.T) {
	empty := resultDoc(t, domain.TranslationResult{})
	ready := resultDoc(t, domain.TranslationResult{"fr": {"Bonjour"}})
	getter := &scriptedGetter{responses: []response{
		{body: empty},
		{body: empty},
		{body: ready},
	}}

	p := New(getter, zerolog.Nop(), WithWait(noWait))
	outcome, result := p.Await(context.Background(), testLoc)

	assert.Equal(t, Found, outcome)
	assert.Equal(t, []string{"Bonjour"}, result["fr"])
}

// Unexpected read errors are retried against the same budget.
func TestAwaitRetriesOtherErrors(t *testing.T) {
	getter := &scriptedGetter{responses: []response{
		{err: errors.New("connection reset")},
		{err: errors.New("connection reset")},
		{body: resultDoc(t, domain.TranslationResult{"es": {"Hola"}})},
	}}

	p := New(getter, zerolog.Nop(), WithWait(noWait))
	outcome, _ := p.Await(context.Background(), testLoc)
	assert.Equal(t, Found, outcome)
}

func TestAwaitCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	getter := &scriptedGetter{responses: []response{notFound()}}

	cancelAfter := 3
	p := New(getter, zerolog.Nop(), WithAttempts(30), WithWait(func(ctx context.Context, d time.Duration) error {
		cancelAfter--
		if cancelAfter == 0 {
			cancel()
		}
		return ctx.Err()
	}))

	outcome, result := p.Await(ctx, testLoc)
	assert.Equal(t, Cancelled, outcome)
	assert.Nil(t, result)
	assert.Less(t, getter.calls, 30)
}

func TestAwaitGarbageBodyIsTransient(t *testing.T) {
	getter := &scriptedGetter{responses: []response{
		{body: []byte("{truncated")},
		{body: resultDoc(t, domain.TranslationResult{"es": {"Hola"}})},
	}}

	p := New(getter, zerolog.Nop(), WithWait(noWait))
	outcome, _ := p.Await(context.Background(), testLoc)
	assert.Equal(t, Found, outcome)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "timed out", TimedOut.String())
	assert.Equal(t, "cancelled", Cancelled.String())
}
