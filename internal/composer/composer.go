// Package composer assembles per-token lexicon results into a single
// sentence-level dictionary candidate.
package composer

import (
	"strings"

	"github.com/mooreml/moretran/internal/lexicon"
)

// Composition is the dictionary-composed translation of one segment.
type Composition struct {
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
	Covered    int     `json:"covered_token_count"`
}

// Compose takes the highest-ranked entry for every token, in token order,
// and joins the targets with spaces. Confidence is the arithmetic mean of
// the winning scores; unknown-token placeholders contribute their fixed low
// score like any other entry. An empty lookup composes to confidence 0 and
// empty text.
func Compose(lookup []lexicon.TokenEntries) Composition {
	var (
		parts []string
		sum   float64
		n     int
	)

	for _, te := range lookup {
		if len(te.Entries) == 0 {
			continue
		}
		best := te.Entries[0]
		parts = append(parts, best.Target)
		sum += best.Score
		n++
	}

	if n == 0 {
		return Composition{}
	}
	return Composition{
		Target:     strings.Join(parts, " "),
		Confidence: sum / float64(n),
		Covered:    n,
	}
}
