// Package submit drives the client side of a translation job: chunked
// sequential submission, duration estimation, progress reporting, and
// reassembly of per-chunk results into one job-wide result.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lexiflow/translation-platform/internal/batch"
	"github.com/lexiflow/translation-platform/internal/domain"
	"github.com/lexiflow/translation-platform/internal/poll"
	"github.com/lexiflow/translation-platform/internal/progress"
)

// DefaultBatchDelay spaces out chunk submissions to avoid overloading the
// backend.
const DefaultBatchDelay = time.Second

// minRequestTimeout floors the per-request timeout regardless of how small
// the estimate is.
const minRequestTimeout = 300 * time.Second

// Fetcher retrieves a result document when a response carried none inline.
// Satisfied by *poll.Poller.
type Fetcher interface {
	Await(ctx context.Context, loc domain.OutputLocation) (poll.Outcome, domain.TranslationResult)
}

// Client submits translation jobs to the platform endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	poller     Fetcher
	log        zerolog.Logger

	batchDelay time.Duration
	sleep      func(time.Duration)
	onProgress func(float64)
}

// Option tunes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPoller attaches a result poller for responses without inline
// translations. Without one, such responses leave the chunk pending.
func WithPoller(p Fetcher) Option {
	return func(c *Client) { c.poller = p }
}

// WithBatchDelay overrides the inter-chunk delay.
func WithBatchDelay(d time.Duration) Option {
	return func(c *Client) { c.batchDelay = d }
}

// WithSleep replaces the delay function, for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) { c.sleep = sleep }
}

// WithProgress registers a progress listener receiving percentages from 0
// to 100.
func WithProgress(emit func(float64)) Option {
	return func(c *Client) { c.onProgress = emit }
}

// NewClient creates a submission client for the given endpoint.
func NewClient(endpoint, apiKey string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		log:        log,
		batchDelay: DefaultBatchDelay,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// JobResult is the reassembled outcome of a full (possibly multi-chunk)
// submission.
type JobResult struct {
	// Responses holds one server response per submitted chunk, in order.
	Responses []domain.SubmitResponse

	// Translations concatenates per-chunk sequences of retrieved chunks in
	// chunk order. When Pending is empty this is positionally identical to
	// a single-batch run; with pending chunks, Positioned restores job-wide
	// positions.
	Translations domain.TranslationResult

	// Pending lists chunks whose results were not yet retrievable, with
	// the job positions each one covers. Non-empty Pending means "not
	// ready yet", not failure.
	Pending []PendingChunk

	Elapsed time.Duration
}

// PendingChunk identifies a batch whose result document was not yet
// retrievable, together with the sentence positions it covers.
type PendingChunk struct {
	Location domain.OutputLocation `json:"location"`

	// Offset is the job-wide index of the chunk's first sentence.
	Offset int `json:"offset"`

	// Count is how many sentences the chunk holds.
	Count int `json:"count"`
}

// Positioned rebuilds the job-wide sequence for one target language:
// retrieved translations land at their original sentence positions and
// positions covered by a pending chunk stay empty. The returned slice
// always has one entry per submitted sentence.
func (r *JobResult) Positioned(lang string, totalSentences int) []string {
	pending := make([]bool, totalSentences)
	for _, p := range r.Pending {
		for i := p.Offset; i < p.Offset+p.Count && i < totalSentences; i++ {
			pending[i] = true
		}
	}

	out := make([]string, totalSentences)
	retrieved := r.Translations[lang]
	next := 0
	for i := range out {
		if pending[i] || next >= len(retrieved) {
			continue
		}
		out[i] = retrieved[next]
		next++
	}
	return out
}

// SubmitJob splits the request into chunks of batchSize sentences and
// submits them strictly sequentially. Any transport failure or error
// response aborts the whole job; the caller writes no history for it.
func (c *Client) SubmitJob(ctx context.Context, req domain.TranslationRequest, batchSize int) (*JobResult, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("API endpoint not configured")
	}

	chunks := batch.Split(req.Sentences, batchSize)
	started := time.Now()

	result := &JobResult{Translations: make(domain.TranslationResult)}
	offset := 0

	for i, chunk := range chunks {
		c.log.Debug().
			Int("chunk", i+1).
			Int("chunks", len(chunks)).
			Int("sentences", len(chunk)).
			Msg("submitting chunk")

		resp, err := c.submitChunk(ctx, domain.TranslationRequest{
			SourceLanguage:  req.SourceLanguage,
			TargetLanguages: req.TargetLanguages,
			Sentences:       chunk,
		})
		if err != nil {
			return nil, fmt.Errorf("batch %d/%d: %w", i+1, len(chunks), err)
		}

		translations := resp.Translations
		if translations.Empty() && !resp.OutputLocation.IsZero() && c.poller != nil {
			outcome, polled := c.poller.Await(ctx, resp.OutputLocation)
			switch outcome {
			case poll.Found:
				translations = polled
			case poll.Cancelled:
				return nil, ctx.Err()
			case poll.TimedOut:
				result.Pending = append(result.Pending, PendingChunk{
					Location: resp.OutputLocation,
					Offset:   offset,
					Count:    len(chunk),
				})
			}
		} else if translations.Empty() {
			result.Pending = append(result.Pending, PendingChunk{
				Location: resp.OutputLocation,
				Offset:   offset,
				Count:    len(chunk),
			})
		}

		for lang, seqs := range translations {
			result.Translations[lang] = append(result.Translations[lang], seqs...)
		}
		result.Responses = append(result.Responses, *resp)
		offset += len(chunk)

		if i+1 < len(chunks) {
			c.sleep(c.batchDelay)
		}
	}

	result.Elapsed = time.Since(started)
	return result, nil
}

// submitChunk sends one chunk and decodes the response envelope.
func (c *Client) submitChunk(ctx context.Context, req domain.TranslationRequest) (*domain.SubmitResponse, error) {
	estimate := progress.EstimateDuration(len(req.Sentences), len(req.TargetLanguages))

	reporter := progress.NewReporter(estimate, c.onProgress)
	reporter.Start()
	completed := false
	defer func() {
		if completed {
			reporter.Done()
		} else {
			reporter.Abort()
		}
	}()

	timeout := 2 * estimate
	if timeout < minRequestTimeout {
		timeout = minRequestTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		var envelope domain.ErrorEnvelope
		message := "Unknown error"
		if decodeErr := json.NewDecoder(httpResp.Body).Decode(&envelope); decodeErr == nil && envelope.Error.Message != "" {
			message = envelope.Error.Message
		}
		return nil, fmt.Errorf("translation failed (HTTP %d): %s", httpResp.StatusCode, message)
	}

	var resp domain.SubmitResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("invalid response format: %w", err)
	}

	completed = true
	return &resp, nil
}

// TestConnection sends a minimal request to verify the endpoint is
// reachable. A validation rejection still proves reachability.
func (c *Client) TestConnection(ctx context.Context) bool {
	if c.endpoint == "" {
		return false
	}

	payload, _ := json.Marshal(domain.TranslationRequest{
		SourceLanguage:  "en",
		TargetLanguages: []string{"es"},
		Sentences:       []string{"test"},
	})

	reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusBadRequest
}
