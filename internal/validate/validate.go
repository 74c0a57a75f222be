// Package validate checks translation requests against the structural rules
// of the submission protocol.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lexiflow/translation-platform/internal/domain"
)

// Limits fixed by the submission protocol.
const (
	MaxTargetLanguages = 10
	MaxSentences       = 100
	MaxSentenceLength  = 5000
	LanguageCodeLength = 2
)

// Request checks a translation request and returns the first violated rule
// as an error, or nil. Rules are evaluated in a fixed order (source
// language, target languages, sentences) so the same invalid payload always
// produces the same message. No I/O, no side effects.
func Request(req domain.TranslationRequest) error {
	if len(req.SourceLanguage) != LanguageCodeLength {
		return fmt.Errorf("%w: Source language must be a 2-character language code", domain.ErrValidation)
	}

	if len(req.TargetLanguages) == 0 {
		return fmt.Errorf("%w: Target languages must be a non-empty list", domain.ErrValidation)
	}
	if len(req.TargetLanguages) > MaxTargetLanguages {
		return fmt.Errorf("%w: Maximum %d target languages allowed", domain.ErrValidation, MaxTargetLanguages)
	}
	for _, lang := range req.TargetLanguages {
		if len(lang) != LanguageCodeLength {
			return fmt.Errorf("%w: All target languages must be 2-character language codes", domain.ErrValidation)
		}
	}

	if len(req.Sentences) == 0 {
		return fmt.Errorf("%w: Sentences must be a non-empty list", domain.ErrValidation)
	}
	if len(req.Sentences) > MaxSentences {
		return fmt.Errorf("%w: Maximum %d sentences allowed per request", domain.ErrValidation, MaxSentences)
	}
	for _, sentence := range req.Sentences {
		if strings.TrimSpace(sentence) == "" {
			return fmt.Errorf("%w: All sentences must be non-empty strings", domain.ErrValidation)
		}
		// The length cap counts characters, not bytes, so multibyte text
		// gets the same allowance as ASCII.
		if utf8.RuneCountInString(sentence) > MaxSentenceLength {
			return fmt.Errorf("%w: Each sentence must be less than %d characters", domain.ErrValidation, MaxSentenceLength)
		}
	}

	return nil
}
