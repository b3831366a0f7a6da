// Package augment defines optional candidate-generation plugins. Providers
// sit outside the core evidence pipeline: their candidates are appended
// after the corpus and dictionary candidates and never change how those are
// ranked. Which providers are configured is invisible to the arbiter.
package augment

import (
	"context"

	"github.com/mooreml/moretran/internal/arbiter"
)

// Provider generates one augmentation candidate for a source segment.
type Provider interface {
	Name() string
	Generate(ctx context.Context, sourceText string) (arbiter.Candidate, error)
}

// Generate runs every provider in order and collects the candidates that
// succeeded. Provider failures are returned alongside the usable candidates
// so the caller can log them; a failing provider never blocks the pipeline.
func Generate(ctx context.Context, providers []Provider, sourceText string) ([]arbiter.Candidate, []error) {
	var (
		candidates []arbiter.Candidate
		errs       []error
	)
	for _, p := range providers {
		c, err := p.Generate(ctx, sourceText)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, errs
}
