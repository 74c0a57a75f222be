// Package orchestrator runs the per-job translation fan-out: one backend
// call per (sentence, target language) pair, with failures isolated to the
// pair that caused them.
package orchestrator

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lexiflow/translation-platform/internal/backend"
	"github.com/lexiflow/translation-platform/internal/domain"
)

// Orchestrator produces complete translation results from validated
// requests.
type Orchestrator struct {
	provider backend.Provider
	log      zerolog.Logger
}

// New creates an Orchestrator over the given backend provider.
func New(provider backend.Provider, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{provider: provider, log: log}
}

// NewJobID generates a globally unique, non-sequential job identifier.
func NewJobID() string {
	return uuid.NewString()
}

// Run translates every sentence into every target language, in request
// order. A backend failure for one pair is logged and recorded as an error
// marker at that pair's position; it never aborts the remaining work. The
// returned result always holds exactly one entry per (sentence, language)
// pair, so it cannot fail; only individual positions can.
func (o *Orchestrator) Run(ctx context.Context, jobID string, req domain.TranslationRequest) domain.TranslationResult {
	result := make(domain.TranslationResult, len(req.TargetLanguages))

	for _, targetLang := range req.TargetLanguages {
		o.log.Info().
			Str("translation_id", jobID).
			Str("target_lang", targetLang).
			Msg("translating")

		translated := make([]string, 0, len(req.Sentences))
		for i, sentence := range req.Sentences {
			text, err := o.provider.Translate(ctx, strings.TrimSpace(sentence), req.SourceLanguage, targetLang)
			if err != nil {
				o.log.Error().
					Err(err).
					Str("translation_id", jobID).
					Str("target_lang", targetLang).
					Int("sentence", i+1).
					Msg("translation failed for sentence")
				text = domain.ErrorMarker(err)
			}
			translated = append(translated, text)
		}
		result[targetLang] = translated
	}

	return result
}
