// Package domain contains the core domain types for the translation platform.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// TranslationRequest is a batch of sentences to translate from one source
// language into one or more target languages. Immutable once submitted.
type TranslationRequest struct {
	SourceLanguage  string   `json:"source_language"`
	TargetLanguages []string `json:"target_languages"`
	Sentences       []string `json:"sentences"`
}

// TranslationResult maps a target-language code to the translated sentences,
// in the same order as the originating request. Every language present holds
// exactly one entry per input sentence; a failed translation occupies its
// position as an error marker, never a gap.
type TranslationResult map[string][]string

// Generated counts the individual translated strings across all languages.
func (r TranslationResult) Generated() int {
	n := 0
	for _, seqs := range r {
		n += len(seqs)
	}
	return n
}

// Empty reports whether the result carries no translations at all.
// A result document read back mid-write may exist with an empty mapping.
func (r TranslationResult) Empty() bool {
	return r.Generated() == 0
}

// OutputLocation addresses a durably stored document. The key is derived
// deterministically from the job id and submission date, so a client can
// poll the location before the document exists.
type OutputLocation struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	URL    string `json:"url"`
}

// IsZero reports whether the location carries no address at all.
func (l OutputLocation) IsZero() bool {
	return l.Bucket == "" && l.Key == ""
}

// TranslationJob is one accepted request with its server-assigned identity
// and storage references. The result is attached once computed; nothing else
// mutates after creation.
type TranslationJob struct {
	ID        string
	CreatedAt time.Time
	Request   TranslationRequest
	Input     OutputLocation
	Output    OutputLocation
	Result    TranslationResult
}

// HistoryRecord is the client-local record of one submitted job.
type HistoryRecord struct {
	TranslationID  string    `json:"translation_id"`
	Timestamp      time.Time `json:"timestamp"`
	SourceLang     string    `json:"source_lang"`
	TargetLangs    []string  `json:"target_langs"`
	SentenceCount  int       `json:"sentence_count"`
	OutputLocation string    `json:"output_location"`
	S3Key          string    `json:"s3_key"`
}

// errorMarkerPrefix is the wire format for a per-sentence translation
// failure. The marker occupies the sentence's position in the result so the
// remaining translations stay index-aligned with the input.
const errorMarkerPrefix = "[Translation Error: "

// ErrorMarker formats a per-unit backend failure as a placeholder
// translation.
func ErrorMarker(reason error) string {
	return fmt.Sprintf("%s%v]", errorMarkerPrefix, reason)
}

// IsErrorMarker reports whether a translated string is a failure placeholder
// rather than real translator output.
func IsErrorMarker(s string) bool {
	return strings.HasPrefix(s, errorMarkerPrefix)
}
