// Package lexicon loads the bilingual word-to-word table and answers
// per-token lookups. A missing or unreadable table degrades to an empty
// lexicon rather than an error; unknown tokens resolve to a marked
// placeholder entry instead of failing.
package lexicon

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// UnknownScore is the fixed confidence assigned to placeholder
	// entries synthesized for tokens absent from the table.
	UnknownScore = 0.1

	// UnknownPOS tags entries with no part-of-speech information.
	UnknownPOS = "UNK"

	// DefaultScore is used when a record omits the score column or the
	// value does not parse as a float.
	DefaultScore = 0.5

	unknownOpen  = "⟦"
	unknownClose = "⟧"
)

// Entry is one ranked translation for a source token.
type Entry struct {
	Target       string  `json:"target"`
	PartOfSpeech string  `json:"pos"`
	Score        float64 `json:"score"`
	Unknown      bool    `json:"unknown,omitempty"`
}

// TokenEntries pairs a source token with its ordered lexicon entries.
// A slice of these preserves token order, which a map would not.
type TokenEntries struct {
	Token   string  `json:"token"`
	Entries []Entry `json:"entries"`
}

// Lexicon holds the loaded table. Load is lazy and idempotent; after the
// first load the table is read-only and safe for concurrent lookups.
type Lexicon struct {
	path string
	log  zerolog.Logger

	once    sync.Once
	entries map[string][]Entry
	skipped int
}

// New creates a Lexicon backed by the TSV table at path. The table is not
// read until Load or the first Lookup.
func New(path string, log zerolog.Logger) *Lexicon {
	return &Lexicon{path: path, log: log}
}

// Load reads the backing table. Safe to call redundantly from concurrent
// callers; only the first call does work. A missing or unreadable file
// leaves the lexicon empty and logs a warning instead of failing.
func (l *Lexicon) Load() {
	l.once.Do(l.load)
}

func (l *Lexicon) load() {
	l.entries = make(map[string][]Entry)

	f, err := os.Open(l.path)
	if err != nil {
		l.log.Warn().Err(err).Str("path", l.path).
			Msg("lexicon table unavailable, continuing with empty lexicon")
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if first {
			first = false
			if isHeader(fields) {
				continue
			}
		}
		if len(fields) < 2 || strings.TrimSpace(fields[0]) == "" || strings.TrimSpace(fields[1]) == "" {
			l.skipped++
			continue
		}

		e := Entry{
			Target:       strings.TrimSpace(fields[1]),
			PartOfSpeech: UnknownPOS,
			Score:        DefaultScore,
		}
		if len(fields) > 2 && strings.TrimSpace(fields[2]) != "" {
			e.PartOfSpeech = strings.TrimSpace(fields[2])
		}
		if len(fields) > 3 {
			if score, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64); err == nil {
				e.Score = score
			}
		}

		key := FoldKey(fields[0])
		l.entries[key] = append(l.entries[key], e)
	}

	if err := scanner.Err(); err != nil {
		l.log.Warn().Err(err).Str("path", l.path).Msg("lexicon table read aborted")
	}
	if l.skipped > 0 {
		l.log.Warn().Int("skipped", l.skipped).Str("path", l.path).
			Msg("lexicon records skipped")
	}
}

// isHeader recognizes an optional "source<TAB>target…" header row.
func isHeader(fields []string) bool {
	return len(fields) >= 2 &&
		strings.EqualFold(strings.TrimSpace(fields[0]), "source") &&
		strings.EqualFold(strings.TrimSpace(fields[1]), "target")
}

// Lookup returns the ordered entries for token. Tokens absent from the
// table yield exactly one synthetic placeholder entry; Lookup never fails.
func (l *Lexicon) Lookup(token string) []Entry {
	l.Load()

	if entries, ok := l.entries[FoldKey(token)]; ok {
		return entries
	}
	return []Entry{{
		Target:       MarkUnknown(token),
		PartOfSpeech: UnknownPOS,
		Score:        UnknownScore,
		Unknown:      true,
	}}
}

// LookupAll resolves each token in order, preserving token order.
func (l *Lexicon) LookupAll(tokens []string) []TokenEntries {
	result := make([]TokenEntries, 0, len(tokens))
	for _, tok := range tokens {
		result = append(result, TokenEntries{Token: tok, Entries: l.Lookup(tok)})
	}
	return result
}

// Size returns the number of distinct source keys in the table.
func (l *Lexicon) Size() int {
	l.Load()
	return len(l.entries)
}

// Skipped returns the number of malformed records dropped during load.
func (l *Lexicon) Skipped() int {
	l.Load()
	return l.skipped
}

// FoldKey normalizes a token for table keying: NFC so diacritic encodings
// compare equal, then Unicode case folding. A fresh Caser is built per call
// because Casers are stateful and lookups may run concurrently.
func FoldKey(token string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(token)))
}

// MarkUnknown wraps a token in the reserved placeholder brackets used for
// untranslatable material. The brackets occur in neither language, so
// occurrences can be counted verbatim downstream.
func MarkUnknown(token string) string {
	return unknownOpen + token + unknownClose
}

// UnknownCount reports how many placeholder markers text contains.
func UnknownCount(text string) int {
	return strings.Count(text, unknownOpen)
}
