// Package examples loads the sentence-pair corpus and retrieves whole-sentence
// translation examples by lexical overlap. Matching is a deliberately cheap
// token-set Jaccard heuristic, not semantic similarity: any stored sentence
// sharing enough whole words with the query qualifies, regardless of order.
package examples

import (
	"bufio"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mooreml/moretran/internal/lexicon"
)

const (
	// DefaultMinSimilarity is the strict lower bound a match must exceed.
	DefaultMinSimilarity = 0.6

	// DefaultMaxMatches caps the number of matches returned per query.
	DefaultMaxMatches = 5
)

// Match is one retrieved sentence pair with its overlap similarity.
type Match struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Similarity float64 `json:"similarity"`
	Provenance string  `json:"provenance,omitempty"`
}

// Options tune the retrieval cutoffs. Zero values select the defaults.
type Options struct {
	MinSimilarity float64
	MaxMatches    int
}

type entry struct {
	source     string
	target     string
	provenance string
	tokens     map[string]struct{}
}

// Store holds the loaded corpus. Load is lazy and idempotent; once loaded
// the corpus is read-only and safe for concurrent queries.
type Store struct {
	path string
	opts Options
	log  zerolog.Logger

	once    sync.Once
	entries []entry
	skipped int
}

// New creates a Store backed by the JSONL corpus at path. The corpus is not
// read until Load or the first Query.
func New(path string, opts Options, log zerolog.Logger) *Store {
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = DefaultMinSimilarity
	}
	if opts.MaxMatches <= 0 {
		opts.MaxMatches = DefaultMaxMatches
	}
	return &Store{path: path, opts: opts, log: log}
}

// Load reads the backing corpus. Safe to call redundantly from concurrent
// callers; only the first call does work. A missing or unreadable file
// leaves the store empty and logs a warning instead of failing. Malformed
// lines are skipped individually and counted.
func (s *Store) Load() {
	s.once.Do(s.load)
}

type record struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Provenance string `json:"provenance"`
}

func (s *Store) load() {
	f, err := os.Open(s.path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).
			Msg("corpus unavailable, continuing with empty example store")
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil || rec.Source == "" || rec.Target == "" {
			s.skipped++
			continue
		}

		s.entries = append(s.entries, entry{
			source:     rec.Source,
			target:     rec.Target,
			provenance: rec.Provenance,
			tokens:     tokenSet(rec.Source),
		})
	}

	if err := scanner.Err(); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("corpus read aborted")
	}
	if s.skipped > 0 {
		s.log.Warn().Int("skipped", s.skipped).Str("path", s.path).
			Msg("malformed corpus lines skipped")
	}
}

// Query returns at most MaxMatches examples whose source overlaps text with
// Jaccard similarity strictly above MinSimilarity, ordered by similarity
// descending. The sort is stable: corpus order breaks ties.
func (s *Store) Query(text string) []Match {
	s.Load()

	query := tokenSet(text)

	var matches []Match
	for _, e := range s.entries {
		sim := Jaccard(query, e.tokens)
		if sim > s.opts.MinSimilarity {
			matches = append(matches, Match{
				Source:     e.source,
				Target:     e.target,
				Similarity: sim,
				Provenance: e.provenance,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > s.opts.MaxMatches {
		matches = matches[:s.opts.MaxMatches]
	}
	return matches
}

// Size returns the number of loaded sentence pairs.
func (s *Store) Size() int {
	s.Load()
	return len(s.entries)
}

// Skipped returns the number of malformed lines dropped during load.
func (s *Store) Skipped() int {
	s.Load()
	return s.skipped
}

// Each calls fn for every loaded pair, in corpus order.
func (s *Store) Each(fn func(source, target, provenance string)) {
	s.Load()
	for _, e := range s.entries {
		fn(e.source, e.target, e.provenance)
	}
}

// Jaccard computes |a∩b| / |a∪b| over two token sets, 0 when the union is
// empty. Symmetric by construction.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// tokenSet folds text and splits it on whitespace into a set.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(text) {
		set[lexicon.FoldKey(tok)] = struct{}{}
	}
	return set
}
