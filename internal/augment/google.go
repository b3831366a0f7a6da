package augment

import (
	"context"
	"fmt"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/mooreml/moretran/internal/arbiter"
)

// DefaultGoogleConfidence is assigned to Google Translate candidates.
// Coverage for low-resource target languages is uneven, so the prior stays
// below corpus-level certainty.
const DefaultGoogleConfidence = 0.8

// GoogleProvider generates candidates with the Google Cloud Translation API.
type GoogleProvider struct {
	credentials string
	sourceLang  string
	targetLang  string
	confidence  float64
}

// NewGoogleProvider creates a provider. credentials may be empty to use
// ambient application-default credentials; confidence ≤ 0 defaults to
// DefaultGoogleConfidence.
func NewGoogleProvider(credentials, sourceLang, targetLang string, confidence float64) *GoogleProvider {
	if confidence <= 0 {
		confidence = DefaultGoogleConfidence
	}
	return &GoogleProvider{
		credentials: credentials,
		sourceLang:  sourceLang,
		targetLang:  targetLang,
		confidence:  confidence,
	}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

// Generate translates sourceText through the Cloud Translation API.
func (p *GoogleProvider) Generate(ctx context.Context, sourceText string) (arbiter.Candidate, error) {
	targetTag, err := language.Parse(p.targetLang)
	if err != nil {
		return arbiter.Candidate{}, fmt.Errorf("google: invalid target language %q: %w", p.targetLang, err)
	}

	var opts []option.ClientOption
	if p.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(p.credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return arbiter.Candidate{}, fmt.Errorf("google: create client: %w", err)
	}
	defer client.Close()

	var translateOpts *translate.Options
	if p.sourceLang != "" && p.sourceLang != "auto" {
		sourceTag, err := language.Parse(p.sourceLang)
		if err != nil {
			return arbiter.Candidate{}, fmt.Errorf("google: invalid source language %q: %w", p.sourceLang, err)
		}
		translateOpts = &translate.Options{Source: sourceTag}
	}

	translations, err := client.Translate(ctx, []string{sourceText}, targetTag, translateOpts)
	if err != nil {
		return arbiter.Candidate{}, fmt.Errorf("google: translation failed: %w", err)
	}
	if len(translations) == 0 {
		return arbiter.Candidate{}, fmt.Errorf("google: no translation returned")
	}

	return arbiter.Candidate{
		Target:     translations[0].Text,
		Origin:     arbiter.OriginAugment,
		Confidence: p.confidence,
		Provider:   p.Name(),
	}, nil
}
