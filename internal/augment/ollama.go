package augment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mooreml/moretran/internal/arbiter"
	"github.com/mooreml/moretran/internal/placeholder"
	"github.com/mooreml/moretran/internal/postprocess"
)

// DefaultOllamaConfidence is assigned to Ollama candidates. LLM output has
// no calibrated score, so the value is a conservative flat prior.
const DefaultOllamaConfidence = 0.5

// OllamaProvider generates candidates with a self-hosted Ollama model.
type OllamaProvider struct {
	model      string
	baseURL    string
	sourceLang string
	targetLang string
	confidence float64
	client     *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// NewOllamaProvider creates a provider for the given model and base URL.
// Empty baseURL defaults to the local Ollama port; confidence ≤ 0 defaults
// to DefaultOllamaConfidence.
func NewOllamaProvider(model, baseURL, sourceLang, targetLang string, confidence float64) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if confidence <= 0 {
		confidence = DefaultOllamaConfidence
	}
	return &OllamaProvider{
		model:      model,
		baseURL:    baseURL,
		sourceLang: sourceLang,
		targetLang: targetLang,
		confidence: confidence,
		client:     &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Generate asks the model for a translation and wraps the cleaned output in
// an augmentation candidate.
func (p *OllamaProvider) Generate(ctx context.Context, sourceText string) (arbiter.Candidate, error) {
	protected := sourceText
	var markers []string
	if placeholder.HasProtectable(sourceText) {
		protected, markers = placeholder.Protect(sourceText)
	}

	prompt := fmt.Sprintf(`Translate the following sentence from %s to %s.
Keep any [PHn] markers exactly as they are.
Only respond with the translation, nothing else.

Sentence: "%s"

Translation:`, p.sourceLang, p.targetLang, protected)

	body, err := json.Marshal(ollamaRequest{Model: p.model, Prompt: prompt})
	if err != nil {
		return arbiter.Candidate{}, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/generate", p.baseURL), bytes.NewBuffer(body))
	if err != nil {
		return arbiter.Candidate{}, fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return arbiter.Candidate{}, fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return arbiter.Candidate{}, fmt.Errorf("ollama: API returned status %d", resp.StatusCode)
	}

	var parsed ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return arbiter.Candidate{}, fmt.Errorf("ollama: decode response: %w", err)
	}

	cleaned := postprocess.Clean(parsed.Response)
	if dropped := len(markers) - placeholder.Count(cleaned); dropped > 0 {
		return arbiter.Candidate{}, fmt.Errorf("ollama: model dropped %d of %d protected spans", dropped, len(markers))
	}

	text := placeholder.Restore(cleaned, markers)
	if text == "" {
		return arbiter.Candidate{}, fmt.Errorf("ollama: empty translation from model %s", p.model)
	}

	return arbiter.Candidate{
		Target:     text,
		Origin:     arbiter.OriginAugment,
		Confidence: p.confidence,
		Provider:   p.Name(),
	}, nil
}
