// Package pipeline wires the five translation stages together: lexicon
// lookup and example retrieval feed the composer, the arbiter picks a
// winner, and the scorer grades it. Each segment flows through the stages
// as a pure function of the read-only tables; batches fan out across a
// bounded worker pool.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mooreml/moretran/internal"
	"github.com/mooreml/moretran/internal/arbiter"
	"github.com/mooreml/moretran/internal/augment"
	"github.com/mooreml/moretran/internal/composer"
	"github.com/mooreml/moretran/internal/examples"
	"github.com/mooreml/moretran/internal/lexicon"
	"github.com/mooreml/moretran/internal/scorer"
)

// DefaultWorkers bounds batch fan-out when no worker count is configured.
const DefaultWorkers = 4

// Config tunes the engine.
type Config struct {
	Workers int `mapstructure:"workers"`
}

// Engine runs the candidate generation, arbitration and scoring pipeline.
// The lexicon and example store are loaded once and shared read-only across
// all segments, so no locking is needed around lookups.
type Engine struct {
	lex       *lexicon.Lexicon
	store     *examples.Store
	scorer    *scorer.Scorer
	providers []augment.Provider
	workers   int
	log       zerolog.Logger
}

// New creates an Engine. providers may be nil to disable augmentation.
func New(lex *lexicon.Lexicon, store *examples.Store, sc *scorer.Scorer, providers []augment.Provider, cfg Config, log zerolog.Logger) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Engine{
		lex:       lex,
		store:     store,
		scorer:    sc,
		providers: providers,
		workers:   workers,
		log:       log,
	}
}

// Warmup loads both tables up front. Optional: the first Translate triggers
// the same idempotent loads.
func (e *Engine) Warmup() {
	e.lex.Load()
	e.store.Load()
}

// Translate runs one segment through the pipeline. Lexicon lookup and
// example retrieval are mutually independent and run concurrently; the
// remaining stages have strict data dependencies and run in order. The only
// error Translate can return is the arbiter's internal-consistency failure.
func (e *Engine) Translate(ctx context.Context, seg internal.Segment) (scorer.ScoredDecision, error) {
	var (
		lookup  []lexicon.TokenEntries
		matches []examples.Match
		wg      sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		lookup = e.lex.LookupAll(seg.Tokens)
	}()
	go func() {
		defer wg.Done()
		matches = e.store.Query(seg.Text)
	}()
	wg.Wait()

	comp := composer.Compose(lookup)

	var extra []arbiter.Candidate
	if len(e.providers) > 0 {
		candidates, errs := augment.Generate(ctx, e.providers, seg.Text)
		for _, err := range errs {
			e.log.Warn().Err(err).Str("seg_id", seg.SegID).Msg("augmentation provider failed")
		}
		extra = candidates
	}

	decision, err := arbiter.Decide(seg, comp, matches, extra)
	if err != nil {
		return scorer.ScoredDecision{}, err
	}

	return e.scorer.Score(decision), nil
}

// TranslateBatch translates segments independently across the worker pool
// and returns the scored decisions in input order, one per segment.
func (e *Engine) TranslateBatch(ctx context.Context, segments []internal.Segment) ([]scorer.ScoredDecision, error) {
	if len(segments) == 0 {
		return nil, nil
	}

	// Tables must be in place before workers start hammering them.
	e.Warmup()

	type indexed struct {
		index int
		sd    scorer.ScoredDecision
		err   error
	}

	jobs := make(chan int)
	results := make(chan indexed, len(segments))

	workers := e.workers
	if workers > len(segments) {
		workers = len(segments)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sd, err := e.Translate(ctx, segments[i])
				results <- indexed{index: i, sd: sd, err: err}
			}
		}()
	}

	go func() {
		for i := range segments {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	out := make([]scorer.ScoredDecision, len(segments))
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("segment %s: %w", segments[r.index].SegID, r.err)
			}
			continue
		}
		out[r.index] = r.sd
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
