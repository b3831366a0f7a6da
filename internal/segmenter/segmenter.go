// Package segmenter splits raw source text into ordered sentence segments
// for the translation pipeline. Splitting is purely textual: sentence-ending
// punctuation and paragraph breaks, with whitespace tokenization. It makes
// no linguistic claims.
package segmenter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mooreml/moretran/internal"
)

// Split segments text into sentence-like units with stable, ordered IDs
// ("s1", "s2", …). Boundaries are sentence-ending punctuation (. ! ? …)
// followed by whitespace or end of text, and blank-line paragraph breaks.
// Empty or whitespace-only input yields no segments.
func Split(text string) []internal.Segment {
	var segments []internal.Segment
	for _, sentence := range sentences(text) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		segments = append(segments, internal.Segment{
			SegID:  fmt.Sprintf("s%d", len(segments)+1),
			Text:   sentence,
			Tokens: strings.Fields(sentence),
		})
	}
	return segments
}

// sentences performs the rune-aware boundary scan.
func sentences(text string) []string {
	var (
		out   []string
		start int
	)

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if isTerminator(r) {
			// Consume any run of terminators (e.g. "?!", "...").
			for i+1 < len(runes) && isTerminator(runes[i+1]) {
				i++
			}
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				out = append(out, string(runes[start:i+1]))
				start = i + 1
			}
			continue
		}

		// Blank line ends a sentence even without punctuation.
		if r == '\n' && i+1 < len(runes) && runes[i+1] == '\n' {
			out = append(out, string(runes[start:i]))
			start = i + 1
		}
	}

	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}
