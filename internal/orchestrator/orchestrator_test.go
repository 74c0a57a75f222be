package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexiflow/translation-platform/internal/domain"
)

// scriptedProvider fails exactly the (text, lang) pairs listed in failures.
type scriptedProvider struct {
	failures map[string]error
	calls    []string
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	key := text + "/" + targetLang
	p.calls = append(p.calls, key)
	if err, ok := p.failures[key]; ok {
		return "", err
	}
	return fmt.Sprintf("%s[%s]", text, targetLang), nil
}

func TestRunCoversEveryPair(t *testing.T) {
	p := &scriptedProvider{}
	o := New(p, zerolog.Nop())

	req := domain.TranslationRequest{
		SourceLanguage:  "en",
		TargetLanguages: []string{"es", "fr"},
		Sentences:       []string{"Hello", "Bye"},
	}

	result := o.Run(context.Background(), NewJobID(), req)

	require.Len(t, result, 2)
	assert.Equal(t, []string{"Hello[es]", "Bye[es]"}, result["es"])
	assert.Equal(t, []string{"Hello[fr]", "Bye[fr]"}, result["fr"])
	assert.Len(t, p.calls, 4)
}

func TestRunIsolatesSingleFailure(t *testing.T) {
	p := &scriptedProvider{failures: map[string]error{
		"Bye/es": errors.New("backend hiccup"),
	}}
	o := New(p, zerolog.Nop())

	req := domain.TranslationRequest{
		SourceLanguage:  "en",
		TargetLanguages: []string{"es", "fr"},
		Sentences:       []string{"Hello", "Bye"},
	}

	result := o.Run(context.Background(), "job-1", req)

	// The failed position carries a marker; everything else is untouched.
	require.Len(t, result["es"], 2)
	assert.Equal(t, "Hello[es]", result["es"][0])
	assert.True(t, domain.IsErrorMarker(result["es"][1]))
	assert.Contains(t, result["es"][1], "backend hiccup")
	assert.Equal(t, []string{"Hello[fr]", "Bye[fr]"}, result["fr"])
}

func TestRunAllFailuresStillFullShape(t *testing.T) {
	p := &scriptedProvider{failures: map[string]error{
		"Hello/es": errors.New("down"),
		"Bye/es":   errors.New("down"),
	}}
	o := New(p, zerolog.Nop())

	req := domain.TranslationRequest{
		SourceLanguage:  "en",
		TargetLanguages: []string{"es"},
		Sentences:       []string{"Hello", "Bye"},
	}

	result := o.Run(context.Background(), "job-2", req)

	require.Len(t, result["es"], 2)
	for _, got := range result["es"] {
		assert.True(t, domain.IsErrorMarker(got))
	}
}

func TestRunTrimsSentences(t *testing.T) {
	p := &scriptedProvider{}
	o := New(p, zerolog.Nop())

	req := domain.TranslationRequest{
		SourceLanguage:  "en",
		TargetLanguages: []string{"es"},
		Sentences:       []string{"  Hello  "},
	}

	result := o.Run(context.Background(), "job-3", req)
	assert.Equal(t, []string{"Hello[es]"}, result["es"])
}

func TestNewJobIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewJobID()
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate job id %s", id)
		seen[id] = true
	}
}
