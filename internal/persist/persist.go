// Package persist writes the two durable documents every job produces: an
// input audit record and the result document clients poll for.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lexiflow/translation-platform/internal/domain"
	"github.com/lexiflow/translation-platform/internal/storage"
)

// Persister addresses and writes job documents in the configured buckets.
type Persister struct {
	store        storage.ObjectStore
	inputBucket  string
	outputBucket string
	environment  string
	log          zerolog.Logger
}

// New creates a Persister over the given object store.
func New(store storage.ObjectStore, inputBucket, outputBucket, environment string, log zerolog.Logger) *Persister {
	return &Persister{
		store:        store,
		inputBucket:  inputBucket,
		outputBucket: outputBucket,
		environment:  environment,
		log:          log,
	}
}

// StoreAudit writes the input audit document. Best effort: a failure is
// logged and an empty location returned, never an error. Losing the audit
// trail must not fail the job.
func (p *Persister) StoreAudit(ctx context.Context, jobID string, submittedAt time.Time, req domain.TranslationRequest) domain.OutputLocation {
	key := storage.AuditKey(jobID, submittedAt)

	doc := domain.InputDocument{
		TranslationID: jobID,
		Timestamp:     submittedAt.UTC().Format(time.RFC3339),
		RequestData:   req,
		Environment:   p.environment,
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		p.log.Error().Err(err).Str("translation_id", jobID).Msg("failed to encode input audit document")
		return domain.OutputLocation{}
	}

	metadata := map[string]string{
		"translation-id":  jobID,
		"source-language": req.SourceLanguage,
		"environment":     p.environment,
		"request-type":    "translation-request",
	}

	if err := p.store.Put(ctx, p.inputBucket, key, body, metadata); err != nil {
		p.log.Error().Err(err).Str("translation_id", jobID).Msg("failed to store input audit document")
		return domain.OutputLocation{}
	}

	loc := domain.OutputLocation{
		Bucket: p.inputBucket,
		Key:    key,
		URL:    storage.URL(p.inputBucket, key),
	}
	p.log.Info().Str("translation_id", jobID).Str("url", loc.URL).Msg("input request stored")
	return loc
}

// StoreResult writes the result document. Failure here is fatal to the job:
// without a durable result the job cannot be considered complete.
func (p *Persister) StoreResult(ctx context.Context, jobID string, submittedAt time.Time, req domain.TranslationRequest, result domain.TranslationResult, inputLoc domain.OutputLocation, meta domain.ProcessingMetadata) (domain.OutputLocation, error) {
	key := storage.ResultKey(jobID, submittedAt)

	doc := domain.ResultDocument{
		TranslationID:  jobID,
		SourceLanguage: req.SourceLanguage,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		RequestInfo: domain.RequestInfo{
			TotalSentences:  len(req.Sentences),
			TargetLanguages: req.TargetLanguages,
			Environment:     p.environment,
			InputLocation:   inputLoc.URL,
		},
		Translations: result,
		Metadata:     meta,
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return domain.OutputLocation{}, fmt.Errorf("%w: encode result document: %v", domain.ErrPersistence, err)
	}

	metadata := map[string]string{
		"translation-id":  jobID,
		"source-language": req.SourceLanguage,
		"environment":     p.environment,
		"result-type":     "translation-result",
	}

	if err := p.store.Put(ctx, p.outputBucket, key, body, metadata); err != nil {
		return domain.OutputLocation{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	loc := domain.OutputLocation{
		Bucket: p.outputBucket,
		Key:    key,
		URL:    storage.URL(p.outputBucket, key),
	}
	p.log.Info().Str("translation_id", jobID).Str("url", loc.URL).Msg("result stored")
	return loc, nil
}
