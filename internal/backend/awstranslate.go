package backend

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// TranslateAPI is the slice of the Amazon Translate client the provider
// uses. Narrowed for test doubles.
type TranslateAPI interface {
	TranslateText(ctx context.Context, params *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

// AWSProvider translates through Amazon Translate.
type AWSProvider struct {
	client TranslateAPI
}

// NewAWSProvider creates a provider using the default AWS credential chain.
func NewAWSProvider(ctx context.Context) (*AWSProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &AWSProvider{client: translate.NewFromConfig(cfg)}, nil
}

// NewAWSProviderFromAPI wraps an existing Translate client.
func NewAWSProviderFromAPI(client TranslateAPI) *AWSProvider {
	return &AWSProvider{client: client}
}

func (p *AWSProvider) Name() string { return "translate" }

// Translate performs one TranslateText call.
func (p *AWSProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	out, err := p.client.TranslateText(ctx, &translate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(sourceLang),
		TargetLanguageCode: aws.String(targetLang),
	})
	if err != nil {
		return "", fmt.Errorf("translate %s->%s: %w", sourceLang, targetLang, err)
	}
	if out.TranslatedText == nil {
		return "", fmt.Errorf("translate %s->%s: empty response", sourceLang, targetLang)
	}
	return *out.TranslatedText, nil
}
