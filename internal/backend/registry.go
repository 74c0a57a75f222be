package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Options configures provider construction.
type Options struct {
	OpenAIKey   string
	OpenAIModel string
	Breaker     BreakerSettings
}

// New resolves a provider by name and wraps it in a circuit breaker.
// Supported names: "translate" (Amazon Translate, the default) and
// "openai".
func New(ctx context.Context, name string, opts Options, log zerolog.Logger) (Provider, error) {
	var (
		provider Provider
		err      error
	)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "translate":
		provider, err = NewAWSProvider(ctx)
	case "openai":
		provider, err = NewOpenAIProvider(opts.OpenAIKey, opts.OpenAIModel)
	default:
		return nil, fmt.Errorf("translation provider %q is not registered (available: translate, openai)", name)
	}
	if err != nil {
		return nil, err
	}

	return WithBreaker(provider, opts.Breaker, log), nil
}
