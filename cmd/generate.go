/*
Copyright © 2025 The moretran authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mooreml/moretran/internal"
	"github.com/mooreml/moretran/internal/augment"
	"github.com/mooreml/moretran/internal/examples"
	"github.com/mooreml/moretran/internal/lexicon"
	"github.com/mooreml/moretran/internal/pipeline"
	"github.com/mooreml/moretran/internal/scorer"
	"github.com/mooreml/moretran/internal/segmenter"
	"github.com/mooreml/moretran/internal/store"
	"github.com/mooreml/moretran/internal/validator"
)

var (
	genInputFile   string
	genOutputFile  string
	genLexiconPath string
	genCorpusPath  string
	genWorkers     int

	genAugment     []string
	genOllamaModel string
	genOllamaURL   string
	genGoogleCreds string

	genDBPath    string
	genNoDB      bool
	genForce     bool
	genCheckLang bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate scored translation pairs from source sentences",
	Long: `Segment the input text into sentences, run each through the candidate
generation, arbitration and confidence-scoring pipeline, and emit one
scored decision per sentence as JSON lines.

Evidence sources:
  - lexicon   TSV word-to-word table (source, target, pos?, score?)
  - corpus    JSONL sentence pairs ({"source": ..., "target": ...})

Optional augmentation plugins (disabled by default):
  --augment ollama,google`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if genInputFile == genOutputFile && genOutputFile != "" {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		raw, err := os.ReadFile(genInputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		text := string(raw)

		ctx := context.Background()
		sourceLang := viper.GetString("source_lang")
		targetLang := viper.GetString("target_lang")

		if genCheckLang {
			val := validator.New(sourceLang)
			if err := val.Check(text); err != nil {
				logger.Warn().Err(err).Msg("input text does not look like the configured source language")
			}
		}

		segments := segmenter.Split(text)
		if len(segments) == 0 {
			return fmt.Errorf("no sentences found in input")
		}

		var db *store.Store
		if !genNoDB {
			dbPath := databasePath(genDBPath)
			if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			db, err = store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
		}

		if db != nil && !genForce {
			var skipped int
			segments, skipped = filterGenerated(ctx, db, segments)
			if skipped > 0 {
				logger.Info().Int("skipped", skipped).Msg("sentences with stored pairs skipped")
			}
			if len(segments) == 0 {
				fmt.Fprintln(os.Stderr, "All sentences already have stored pairs; use --force to regenerate")
				return nil
			}
		}

		providers, err := buildProviders(genAugment, sourceLang, targetLang)
		if err != nil {
			return err
		}

		lex := lexicon.New(genLexiconPath, logger)
		ex := examples.New(genCorpusPath, exampleOptions(), logger)
		sc := scorer.New(scorerConfig())

		workers := genWorkers
		if workers <= 0 {
			workers = viper.GetInt("pipeline.workers")
		}

		engine := pipeline.New(lex, ex, sc, providers, pipeline.Config{Workers: workers}, logger)
		engine.Warmup()
		logger.Info().
			Int("lexicon_entries", lex.Size()).
			Int("corpus_pairs", ex.Size()).
			Int("segments", len(segments)).
			Msg("pipeline ready")

		results, err := engine.TranslateBatch(ctx, segments)
		if err != nil {
			return fmt.Errorf("translation pipeline failed: %w", err)
		}

		if err := writeResults(genOutputFile, results); err != nil {
			return err
		}

		if db != nil {
			if err := persistResults(ctx, db, text, sourceLang, targetLang, results); err != nil {
				return fmt.Errorf("failed to persist decisions: %w", err)
			}
		}

		printSummary(results)
		return nil
	},
}

// buildProviders constructs the augmentation plugin list from CLI parameters.
func buildProviders(names []string, sourceLang, targetLang string) ([]augment.Provider, error) {
	var providers []augment.Provider
	for _, name := range names {
		switch name {
		case "ollama":
			providers = append(providers, augment.NewOllamaProvider(genOllamaModel, genOllamaURL, sourceLang, targetLang, 0))
		case "google":
			providers = append(providers, augment.NewGoogleProvider(genGoogleCreds, sourceLang, targetLang, 0))
		default:
			return nil, fmt.Errorf("unknown augmentation provider: %s", name)
		}
	}
	return providers, nil
}

// writeResults emits one JSON line per scored decision, to path or stdout.
func writeResults(path string, results []scorer.ScoredDecision) error {
	out := os.Stdout
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	for _, sd := range results {
		if err := enc.Encode(sd); err != nil {
			return fmt.Errorf("failed to encode decision %s: %w", sd.SegID, err)
		}
	}
	return w.Flush()
}

// filterGenerated drops segments whose normalized source already has a
// stored pair, so reruns over the same input do not duplicate work. Lookup
// failures count as not-found; the segment is then simply reprocessed.
func filterGenerated(ctx context.Context, db *store.Store, segments []internal.Segment) ([]internal.Segment, int) {
	var fresh []internal.Segment
	skipped := 0
	for _, seg := range segments {
		if pair, found, err := db.GetPairBySource(ctx, seg.Text); err == nil && found {
			logger.Debug().Str("seg_id", seg.SegID).Str("pair_id", pair.ID).Msg("pair already stored")
			skipped++
			continue
		}
		fresh = append(fresh, seg)
	}
	return fresh, skipped
}

func persistResults(ctx context.Context, db *store.Store, sourceText, sourceLang, targetLang string, results []scorer.ScoredDecision) error {
	sentenceID := uuid.New().String()
	sent := internal.Sentence{
		ID:         sentenceID,
		SourceText: sourceText,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Timestamp:  time.Now(),
	}
	if err := db.SaveSentence(ctx, sent); err != nil {
		return err
	}

	for _, sd := range results {
		if _, err := db.SaveDecision(ctx, sentenceID, sd); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(results []scorer.ScoredDecision) {
	var sum float64
	review := 0
	for _, sd := range results {
		sum += sd.CompositeConfidence
		if sd.Winner.Origin == "none" {
			review++
		}
	}
	mean := 0.0
	if len(results) > 0 {
		mean = sum / float64(len(results))
	}

	fmt.Fprintf(os.Stderr, "Generated %d pairs, mean confidence %.2f\n", len(results), mean)
	if review > 0 {
		fmt.Fprintf(os.Stderr, "%d segments had no evidence and need manual review\n", review)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genInputFile, "input", "i", "", "Input text file, one or more sentences (required)")
	generateCmd.Flags().StringVarP(&genOutputFile, "output", "o", "", "Output JSONL file (default stdout)")
	generateCmd.Flags().StringVar(&genLexiconPath, "lexicon", "", "Lexicon TSV path (required)")
	generateCmd.Flags().StringVar(&genCorpusPath, "corpus", "", "Corpus JSONL path (required)")
	generateCmd.Flags().IntVar(&genWorkers, "workers", 0, "Batch worker count (default from config)")

	generateCmd.Flags().StringSliceVar(&genAugment, "augment", nil, "Augmentation providers (comma-separated: ollama,google)")
	generateCmd.Flags().StringVar(&genOllamaModel, "ollama-model", "llama3.2", "Ollama model name")
	generateCmd.Flags().StringVar(&genOllamaURL, "ollama-url", "http://localhost:11434", "Ollama base URL")
	generateCmd.Flags().StringVar(&genGoogleCreds, "google-credentials", "", "Path to Google Cloud credentials")

	generateCmd.Flags().StringVar(&genDBPath, "db", "", "Database path for pair persistence (default from config)")
	generateCmd.Flags().BoolVar(&genNoDB, "no-db", false, "Disable pair persistence")
	generateCmd.Flags().BoolVar(&genForce, "force", false, "Reprocess sentences that already have stored pairs")
	generateCmd.Flags().BoolVar(&genCheckLang, "check-lang", false, "Warn when input does not look like the source language")

	generateCmd.MarkFlagRequired("input")
	generateCmd.MarkFlagRequired("lexicon")
	generateCmd.MarkFlagRequired("corpus")
}
