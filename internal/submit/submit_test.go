package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexiflow/translation-platform/internal/domain"
	"github.com/lexiflow/translation-platform/internal/poll"
)

// echoServer translates every sentence to "<sentence>[<lang>]" inline.
func echoServer(t *testing.T, requests *[]domain.TranslationRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.TranslationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if requests != nil {
			*requests = append(*requests, req)
		}

		translations := make(domain.TranslationResult)
		for _, lang := range req.TargetLanguages {
			for _, s := range req.Sentences {
				translations[lang] = append(translations[lang], fmt.Sprintf("%s[%s]", s, lang))
			}
		}

		resp := domain.SubmitResponse{
			Success:       true,
			TranslationID: fmt.Sprintf("job-%d", len(*requests)),
			OutputLocation: domain.OutputLocation{
				Bucket: "out", Key: "translations/2026/08/28/x.json", URL: "s3://out/x",
			},
			Summary: domain.Summary{
				SourceLanguage:     req.SourceLanguage,
				TargetLanguages:    req.TargetLanguages,
				SentencesProcessed: len(req.Sentences),
			},
			Translations: translations,
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func sentences(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("sentence %d", i)
	}
	return out
}

func noSleep(time.Duration) {}

// A 30-sentence job at batch size 25 must hit the server twice and come
// back positionally identical to a single-batch run.
func TestSubmitJobBatchingEquivalence(t *testing.T) {
	var batched []domain.TranslationRequest
	srv := echoServer(t, &batched)
	defer srv.Close()

	req := domain.TranslationRequest{
		SourceLanguage:  "en",
		TargetLanguages: []string{"es", "fr"},
		Sentences:       sentences(30),
	}

	c := NewClient(srv.URL, "key", zerolog.Nop(), WithSleep(noSleep))
	got, err := c.SubmitJob(context.Background(), req, 25)
	require.NoError(t, err)
	require.Len(t, got.Responses, 2)
	require.Len(t, batched, 2)
	assert.Len(t, batched[0].Sentences, 25)
	assert.Len(t, batched[1].Sentences, 5)

	var single []domain.TranslationRequest
	srv2 := echoServer(t, &single)
	defer srv2.Close()

	c2 := NewClient(srv2.URL, "key", zerolog.Nop(), WithSleep(noSleep))
	whole, err := c2.SubmitJob(context.Background(), req, 100)
	require.NoError(t, err)

	assert.Equal(t, whole.Translations, got.Translations)
	for _, lang := range req.TargetLanguages {
		require.Len(t, got.Translations[lang], 30)
		assert.Equal(t, "sentence 0["+lang+"]", got.Translations[lang][0])
		assert.Equal(t, "sentence 29["+lang+"]", got.Translations[lang][29])
	}
	assert.Empty(t, got.Pending)
}

func TestSubmitJobSendsAPIKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		_ = json.NewEncoder(w).Encode(domain.SubmitResponse{
			Success:      true,
			Translations: domain.TranslationResult{"es": {"Hola"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key", zerolog.Nop(), WithSleep(noSleep))
	_, err := c.SubmitJob(context.Background(), domain.TranslationRequest{
		SourceLanguage: "en", TargetLanguages: []string{"es"}, Sentences: []string{"Hello"},
	}, 25)
	require.NoError(t, err)
	assert.Equal(t, "secret-key", gotKey)
}

func TestSubmitJobServerErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(domain.ErrorEnvelope{
			Error: domain.ErrorDetail{Code: 400, Message: "Maximum 10 target languages allowed"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", zerolog.Nop(), WithSleep(noSleep))
	_, err := c.SubmitJob(context.Background(), domain.TranslationRequest{
		SourceLanguage: "en", TargetLanguages: []string{"es"}, Sentences: []string{"Hello"},
	}, 25)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Contains(t, err.Error(), "Maximum 10 target languages allowed")
}

func TestSubmitJobTransportErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, "", zerolog.Nop(), WithSleep(noSleep))
	_, err := c.SubmitJob(context.Background(), domain.TranslationRequest{
		SourceLanguage: "en", TargetLanguages: []string{"es"}, Sentences: []string{"Hello"},
	}, 25)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestSubmitJobDelaysBetweenChunks(t *testing.T) {
	srv := echoServer(t, &[]domain.TranslationRequest{})
	defer srv.Close()

	var delays []time.Duration
	c := NewClient(srv.URL, "", zerolog.Nop(), WithSleep(func(d time.Duration) {
		delays = append(delays, d)
	}))

	_, err := c.SubmitJob(context.Background(), domain.TranslationRequest{
		SourceLanguage: "en", TargetLanguages: []string{"es"}, Sentences: sentences(30),
	}, 10)
	require.NoError(t, err)

	// 3 chunks, a delay between each pair but not after the last.
	require.Len(t, delays, 2)
	for _, d := range delays {
		assert.Equal(t, DefaultBatchDelay, d)
	}
}

type stubFetcher struct {
	outcome poll.Outcome
	result  domain.TranslationResult
	calls   int
}

func (f *stubFetcher) Await(ctx context.Context, loc domain.OutputLocation) (poll.Outcome, domain.TranslationResult) {
	f.calls++
	return f.outcome, f.result
}

func emptyResultServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.SubmitResponse{
			Success:       true,
			TranslationID: "job-async",
			OutputLocation: domain.OutputLocation{
				Bucket: "out", Key: "translations/2026/08/28/job-async.json",
			},
		})
	}))
}

func TestSubmitJobPollsWhenNoInlineResult(t *testing.T) {
	srv := emptyResultServer()
	defer srv.Close()

	fetcher := &stubFetcher{outcome: poll.Found, result: domain.TranslationResult{"es": {"Hola"}}}
	c := NewClient(srv.URL, "", zerolog.Nop(), WithSleep(noSleep), WithPoller(fetcher))

	got, err := c.SubmitJob(context.Background(), domain.TranslationRequest{
		SourceLanguage: "en", TargetLanguages: []string{"es"}, Sentences: []string{"Hello"},
	}, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, []string{"Hola"}, got.Translations["es"])
	assert.Empty(t, got.Pending)
}

func TestSubmitJobPollTimeoutIsPendingNotError(t *testing.T) {
	srv := emptyResultServer()
	defer srv.Close()

	fetcher := &stubFetcher{outcome: poll.TimedOut}
	c := NewClient(srv.URL, "", zerolog.Nop(), WithSleep(noSleep), WithPoller(fetcher))

	got, err := c.SubmitJob(context.Background(), domain.TranslationRequest{
		SourceLanguage: "en", TargetLanguages: []string{"es"}, Sentences: []string{"Hello"},
	}, 25)
	require.NoError(t, err)
	require.Len(t, got.Pending, 1)
	assert.Equal(t, "translations/2026/08/28/job-async.json", got.Pending[0].Location.Key)
	assert.Equal(t, 0, got.Pending[0].Offset)
	assert.Equal(t, 1, got.Pending[0].Count)
}

// A timed-out chunk must not shift later chunks' translations: the pending
// entry records which positions are missing, and Positioned restores the
// retrieved sequences to their job-wide indices.
func TestSubmitJobKeepsPositionsAcrossPendingChunk(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var req domain.TranslationRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		resp := domain.SubmitResponse{
			Success:       true,
			TranslationID: fmt.Sprintf("job-%d", requests),
			OutputLocation: domain.OutputLocation{
				Bucket: "out", Key: fmt.Sprintf("translations/2026/08/28/job-%d.json", requests),
			},
		}
		// First chunk defers to storage; second answers inline.
		if requests > 1 {
			translations := make(domain.TranslationResult)
			for _, s := range req.Sentences {
				translations["es"] = append(translations["es"], "t-"+s)
			}
			resp.Translations = translations
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	fetcher := &stubFetcher{outcome: poll.TimedOut}
	c := NewClient(srv.URL, "", zerolog.Nop(), WithSleep(noSleep), WithPoller(fetcher))

	sentences := make([]string, 30)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("s%d", i)
	}
	got, err := c.SubmitJob(context.Background(), domain.TranslationRequest{
		SourceLanguage: "en", TargetLanguages: []string{"es"}, Sentences: sentences,
	}, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)

	require.Len(t, got.Pending, 1)
	assert.Equal(t, 0, got.Pending[0].Offset)
	assert.Equal(t, 25, got.Pending[0].Count)

	positioned := got.Positioned("es", len(sentences))
	require.Len(t, positioned, 30)
	for i := 0; i < 25; i++ {
		assert.Empty(t, positioned[i], "position %d belongs to the pending chunk", i)
	}
	for i := 25; i < 30; i++ {
		assert.Equal(t, fmt.Sprintf("t-s%d", i), positioned[i])
	}
}

func TestTestConnection(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		reachable bool
	}{
		{"ok", http.StatusOK, true},
		{"validation rejection still reachable", http.StatusBadRequest, true},
		{"server error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "", zerolog.Nop())
			assert.Equal(t, tt.reachable, c.TestConnection(context.Background()))
		})
	}
}
