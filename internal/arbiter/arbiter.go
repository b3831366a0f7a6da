// Package arbiter merges corpus matches and the dictionary composition into
// a ranked candidate list and selects a winner with an explanation.
package arbiter

import (
	"fmt"
	"strings"

	"github.com/mooreml/moretran/internal"
	"github.com/mooreml/moretran/internal/composer"
	"github.com/mooreml/moretran/internal/examples"
)

// Origin tags where a candidate came from.
type Origin string

const (
	OriginCorpus     Origin = "corpus"
	OriginDictionary Origin = "dictionary"
	OriginAugment    Origin = "augment"
	OriginNone       Origin = "none"
)

// Candidate is one proposed whole-segment translation. At most one of the
// detail fields is set, matching Origin.
type Candidate struct {
	Target     string                `json:"target"`
	Origin     Origin                `json:"origin"`
	Confidence float64               `json:"confidence"`
	Match      *examples.Match       `json:"match,omitempty"`
	Compose    *composer.Composition `json:"composition,omitempty"`
	Provider   string                `json:"provider,omitempty"`
}

// Decision is the arbitration outcome for one segment. Candidates are kept
// in presentation order (corpus first, then dictionary, then augmentation),
// not confidence-sorted. Immutable once produced.
type Decision struct {
	SegID        string      `json:"seg_id"`
	SourceText   string      `json:"source_text"`
	ChosenTarget string      `json:"chosen_target"`
	Winner       Candidate   `json:"winner"`
	Candidates   []Candidate `json:"candidates"`
	Explanation  string      `json:"explanation"`
}

// Decide builds the candidate list in fixed priority order and picks the
// candidate with the strictly greatest confidence. Ties resolve to the
// earliest-listed candidate, so corpus evidence beats a dictionary
// composition of equal confidence. With no evidence at all a zero-confidence
// sentinel is synthesized; the candidate list is never empty.
//
// The only error Decide can return signals a winner-selection logic defect,
// never a data-quality problem.
func Decide(seg internal.Segment, comp composer.Composition, matches []examples.Match, extra []Candidate) (Decision, error) {
	candidates := make([]Candidate, 0, len(matches)+1+len(extra))

	for i := range matches {
		m := matches[i]
		candidates = append(candidates, Candidate{
			Target:     m.Target,
			Origin:     OriginCorpus,
			Confidence: m.Similarity,
			Match:      &m,
		})
	}

	if strings.TrimSpace(comp.Target) != "" {
		c := comp
		candidates = append(candidates, Candidate{
			Target:     comp.Target,
			Origin:     OriginDictionary,
			Confidence: comp.Confidence,
			Compose:    &c,
		})
	}

	candidates = append(candidates, extra...)

	if len(candidates) == 0 {
		candidates = append(candidates, Candidate{
			Target: MarkUntranslated(seg.Text),
			Origin: OriginNone,
		})
	}

	winner := -1
	best := -1.0
	for i, c := range candidates {
		if c.Confidence > best {
			best = c.Confidence
			winner = i
		}
	}
	if winner < 0 {
		return Decision{}, fmt.Errorf("arbiter: no winner among %d candidates for segment %s", len(candidates), seg.SegID)
	}

	chosen := candidates[winner]
	return Decision{
		SegID:        seg.SegID,
		SourceText:   seg.Text,
		ChosenTarget: chosen.Target,
		Winner:       chosen,
		Candidates:   candidates,
		Explanation:  explain(chosen),
	}, nil
}

// explain renders the deterministic explanation template for the winner's
// origin tag.
func explain(c Candidate) string {
	switch c.Origin {
	case OriginCorpus:
		return fmt.Sprintf("corpus example matched at %.1f%% similarity", c.Confidence*100)
	case OriginDictionary:
		return fmt.Sprintf("composed from dictionary entries at %.1f%% mean word confidence", c.Confidence*100)
	case OriginAugment:
		return fmt.Sprintf("augmented by %s at %.1f%% confidence", c.Provider, c.Confidence*100)
	default:
		return "no candidates found; segment requires manual review"
	}
}

// MarkUntranslated wraps the full segment text in the sentinel brackets
// used when no evidence exists. The brackets differ from the unknown-token
// marker so downstream feature extraction never conflates the two.
func MarkUntranslated(text string) string {
	return "⟪" + text + "⟫"
}
