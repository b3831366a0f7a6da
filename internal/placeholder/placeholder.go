// Package placeholder protects untranslatable spans (numbers, URLs) during
// LLM augmentation by replacing them with numbered markers ([PH0], [PH1], …)
// that the model is expected to preserve. After generation, Restore
// substitutes the originals back, so a model cannot mangle digits or links.
package placeholder

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// URLs, matched before bare numbers so a port or path digit is not
	// captured twice.
	reURL = regexp.MustCompile(`https?://\S+`)

	// numbers, including decimal and thousands separators (1 234,56)
	reNumber = regexp.MustCompile(`\d+(?:[.,\s]\d+)*`)

	// placeholder reference in generated text
	rePlaceholder = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Protect replaces protected spans with numbered placeholders in the order
// they appear in text. It returns the modified text and the captured
// originals for Restore.
func Protect(text string) (string, []string) {
	var markers []string
	counter := 0

	replace := func(match string) string {
		id := fmt.Sprintf("[PH%d]", counter)
		markers = append(markers, match)
		counter++
		return id
	}

	// URLs first: they may contain digits the number pattern would split.
	text = reURL.ReplaceAllStringFunc(text, replace)
	text = reNumber.ReplaceAllStringFunc(text, replace)

	return text, markers
}

// Restore substitutes [PHn] markers back with the originals captured by
// Protect. Markers the model dropped are simply absent from the output;
// unrecognised indices are left as-is.
func Restore(text string, markers []string) string {
	return rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		sub := rePlaceholder.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		idx := 0
		fmt.Sscanf(sub[1], "%d", &idx)
		if idx < 0 || idx >= len(markers) {
			return match
		}
		return markers[idx]
	})
}

// Count returns how many placeholders survive in text, for diagnostics on
// whether a model preserved them.
func Count(text string) int {
	return len(rePlaceholder.FindAllString(text, -1))
}

// HasProtectable reports whether text contains any span Protect would
// replace, letting callers skip the round trip for plain sentences.
func HasProtectable(text string) bool {
	return reURL.MatchString(text) || reNumber.MatchString(text) ||
		strings.Contains(text, "[PH")
}
