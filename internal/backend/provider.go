// Package backend abstracts the external translation service behind a
// pluggable provider interface. The orchestrator only sees Provider; which
// service actually translates is deployment configuration.
package backend

import "context"

// Provider translates one piece of text between two languages. One call per
// (sentence, target language) pair; failures are scoped to that pair.
type Provider interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	Name() string
}
