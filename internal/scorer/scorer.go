// Package scorer derives a composite quality score and feature vector from
// an arbitration decision.
package scorer

import (
	"github.com/mooreml/moretran/internal/arbiter"
	"github.com/mooreml/moretran/internal/lexicon"
)

// Config holds the scoring heuristics. The values are tuning parameters,
// not load-bearing invariants; they can be overridden from configuration.
type Config struct {
	UnknownPenalty       float64 `mapstructure:"unknown_penalty"`
	LengthRatioThreshold float64 `mapstructure:"length_ratio_threshold"`
	LengthPenalty        float64 `mapstructure:"length_penalty"`
	MultiCandidateBonus  float64 `mapstructure:"multi_candidate_bonus"`
}

// DefaultConfig returns the stock heuristic constants.
func DefaultConfig() Config {
	return Config{
		UnknownPenalty:       0.7,
		LengthRatioThreshold: 0.3,
		LengthPenalty:        0.8,
		MultiCandidateBonus:  1.1,
	}
}

// Features is the per-decision feature vector backing the composite score.
type Features struct {
	SourceConfidence  float64 `json:"source_confidence"`
	CandidateCount    int     `json:"candidate_count"`
	LengthRatio       float64 `json:"length_ratio"`
	UnknownTokenCount int     `json:"unknown_token_count"`
}

// ScoredDecision extends a Decision with its composite confidence and the
// features that produced it.
type ScoredDecision struct {
	arbiter.Decision
	CompositeConfidence float64  `json:"composite_confidence"`
	Features            Features `json:"features"`
}

// Scorer computes composite confidence scores with a fixed Config.
type Scorer struct {
	cfg Config
}

// New creates a Scorer. Zero-valued fields in cfg fall back to the defaults
// so a partially-populated config cannot silently zero out a penalty.
func New(cfg Config) *Scorer {
	def := DefaultConfig()
	if cfg.UnknownPenalty <= 0 {
		cfg.UnknownPenalty = def.UnknownPenalty
	}
	if cfg.LengthRatioThreshold <= 0 {
		cfg.LengthRatioThreshold = def.LengthRatioThreshold
	}
	if cfg.LengthPenalty <= 0 {
		cfg.LengthPenalty = def.LengthPenalty
	}
	if cfg.MultiCandidateBonus <= 0 {
		cfg.MultiCandidateBonus = def.MultiCandidateBonus
	}
	return &Scorer{cfg: cfg}
}

// Score extracts the feature vector and derives the composite confidence.
// The adjustments apply in a fixed order: the unknown-token decay and the
// length penalty compound multiplicatively before the multi-candidate bonus
// is applied and re-clamped. The result is always within [0,1], even for
// adversarial inputs such as a corrupted confidence above 1.
func (s *Scorer) Score(d arbiter.Decision) ScoredDecision {
	feat := Features{
		SourceConfidence:  d.Winner.Confidence,
		CandidateCount:    len(d.Candidates),
		LengthRatio:       lengthRatio(d.SourceText, d.ChosenTarget),
		UnknownTokenCount: lexicon.UnknownCount(d.ChosenTarget),
	}
	if d.Winner.Origin == arbiter.OriginNone {
		feat.SourceConfidence = 0
	}

	score := feat.SourceConfidence
	for i := 0; i < feat.UnknownTokenCount; i++ {
		score *= s.cfg.UnknownPenalty
	}
	if feat.LengthRatio < s.cfg.LengthRatioThreshold {
		score *= s.cfg.LengthPenalty
	}
	if feat.CandidateCount > 1 {
		score *= s.cfg.MultiCandidateBonus
		if score > 1 {
			score = 1
		}
	}
	score = clamp01(score)

	return ScoredDecision{
		Decision:            d,
		CompositeConfidence: score,
		Features:            feat,
	}
}

// lengthRatio is the shorter-over-longer rune-length ratio of source and
// target, 0 when either side is empty. Rune counts keep combining
// diacritics from skewing the ratio.
func lengthRatio(source, target string) float64 {
	ls := float64(len([]rune(source)))
	lt := float64(len([]rune(target)))
	if ls == 0 || lt == 0 {
		return 0
	}
	if lt < ls {
		return lt / ls
	}
	return ls / lt
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
