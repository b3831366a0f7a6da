// Package store persists scored translation decisions to SQLite so that
// generated training pairs can be listed, deduplicated and exported later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/mooreml/moretran/internal"
	"github.com/mooreml/moretran/internal/scorer"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sentences (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS decisions (
		id TEXT PRIMARY KEY,
		sentence_id TEXT NOT NULL,
		seg_id TEXT NOT NULL,
		source_text TEXT NOT NULL,
		chosen_target TEXT NOT NULL,
		origin TEXT NOT NULL,
		explanation TEXT,
		composite_confidence REAL NOT NULL,
		source_confidence REAL NOT NULL,
		candidate_count INTEGER NOT NULL,
		length_ratio REAL NOT NULL,
		unknown_tokens INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (sentence_id) REFERENCES sentences(id)
	);

	CREATE TABLE IF NOT EXISTS decision_candidates (
		decision_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		origin TEXT NOT NULL,
		target TEXT NOT NULL,
		confidence REAL NOT NULL,
		detail TEXT,
		PRIMARY KEY (decision_id, position),
		FOREIGN KEY (decision_id) REFERENCES decisions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_sentence ON decisions(sentence_id);
	CREATE INDEX IF NOT EXISTS idx_decisions_source ON decisions(source_text);
	CREATE INDEX IF NOT EXISTS idx_decisions_confidence ON decisions(composite_confidence);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) SaveSentence(ctx context.Context, sent internal.Sentence) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sentences (id, source_text, source_lang, target_lang, created_at) VALUES (?, ?, ?, ?, ?)`,
		sent.ID, normalizeText(sent.SourceText), sent.SourceLang, sent.TargetLang, sent.Timestamp)
	return err
}

// SaveDecision persists one ScoredDecision and its full candidate list.
// The candidate detail (example match or dictionary composition) is stored
// as JSON so exported records need no recomputation.
func (s *Store) SaveDecision(ctx context.Context, sentenceID string, sd scorer.ScoredDecision) (string, error) {
	id := uuid.New().String()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, sentence_id, seg_id, source_text, chosen_target, origin, explanation,
			composite_confidence, source_confidence, candidate_count, length_ratio, unknown_tokens)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sentenceID, sd.SegID, normalizeText(sd.SourceText), sd.ChosenTarget, string(sd.Winner.Origin),
		sd.Explanation, sd.CompositeConfidence, sd.Features.SourceConfidence,
		sd.Features.CandidateCount, sd.Features.LengthRatio, sd.Features.UnknownTokenCount)
	if err != nil {
		return "", err
	}

	for i, c := range sd.Candidates {
		detail, err := json.Marshal(c)
		if err != nil {
			return "", err
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO decision_candidates (decision_id, position, origin, target, confidence, detail)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, string(c.Origin), c.Target, c.Confidence, string(detail))
		if err != nil {
			return "", err
		}
	}

	return id, nil
}

// Pair is one exportable training pair derived from a decision.
type Pair struct {
	ID         string
	SourceText string
	TargetText string
	Origin     string
	Confidence float64
	CreatedAt  time.Time
}

// ListPairs returns pairs with composite confidence at or above
// minConfidence, newest first.
func (s *Store) ListPairs(ctx context.Context, minConfidence float64) ([]Pair, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, chosen_target, origin, composite_confidence, created_at
		 FROM decisions WHERE composite_confidence >= ? ORDER BY created_at DESC`,
		minConfidence)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.ID, &p.SourceText, &p.TargetText, &p.Origin, &p.Confidence, &p.CreatedAt); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// GetPairBySource returns the stored pair for an identical (normalized)
// source text, so already-generated sentences are not reprocessed.
func (s *Store) GetPairBySource(ctx context.Context, sourceText string) (*Pair, bool, error) {
	var p Pair
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source_text, chosen_target, origin, composite_confidence, created_at
		 FROM decisions WHERE source_text = ? ORDER BY composite_confidence DESC LIMIT 1`,
		normalizeText(sourceText)).Scan(&p.ID, &p.SourceText, &p.TargetText, &p.Origin, &p.Confidence, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

// Stats summarises the persisted decisions.
type Stats struct {
	TotalDecisions int
	ByOrigin       map[string]int
	AvgConfidence  float64
	Reviewable     int // sentinel decisions awaiting manual review
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByOrigin: make(map[string]int)}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(AVG(composite_confidence), 0),
			COALESCE(SUM(CASE WHEN origin = 'none' THEN 1 ELSE 0 END), 0)
		FROM decisions`).Scan(&stats.TotalDecisions, &stats.AvgConfidence, &stats.Reviewable)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT origin, COUNT(*) FROM decisions GROUP BY origin`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var origin string
		var count int
		if err := rows.Scan(&origin, &count); err != nil {
			return nil, err
		}
		stats.ByOrigin[origin] = count
	}
	return stats, rows.Err()
}

// ClearPairs removes all persisted decisions and candidates.
func (s *Store) ClearPairs(ctx context.Context) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM decision_candidates`); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM decisions`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// that differently-encoded diacritics key the same row.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// levenshtein returns the edit distance between two strings (rune-aware).
// Space-optimized two-row DP.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				min := prev[j]
				if prev[j-1] < min {
					min = prev[j-1]
				}
				if curr[j-1] < min {
					min = curr[j-1]
				}
				curr[j] = min + 1
			}
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}

// stringSimilarity returns a similarity score in [0, 1] (1 = identical).
func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

// NearPairs returns stored pairs whose normalized source text has at least
// threshold edit-distance similarity to sourceText, best match first. Used
// to spot near-duplicate training pairs before export. Pass threshold ≤ 0
// to disable. Texts longer than 1 000 runes are not compared (O(n²) cost).
func (s *Store) NearPairs(ctx context.Context, sourceText string, threshold float64) ([]Pair, error) {
	if threshold <= 0 {
		return nil, nil
	}

	normalized := normalizeText(sourceText)
	const maxFuzzyRunes = 1000
	if len([]rune(normalized)) > maxFuzzyRunes {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, chosen_target, origin, composite_confidence, created_at FROM decisions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type scored struct {
		pair  Pair
		score float64
	}
	var hits []scored

	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.ID, &p.SourceText, &p.TargetText, &p.Origin, &p.Confidence, &p.CreatedAt); err != nil {
			return nil, err
		}

		// Length pre-filter: skip the edit distance when the length gap
		// alone already rules out the threshold.
		ls, lr := len([]rune(normalized)), len([]rune(p.SourceText))
		maxL := ls
		if lr > maxL {
			maxL = lr
		}
		diff := ls - lr
		if diff < 0 {
			diff = -diff
		}
		if maxL > 0 && 1.0-float64(diff)/float64(maxL) < threshold {
			continue
		}

		if score := stringSimilarity(normalized, p.SourceText); score >= threshold {
			hits = append(hits, scored{pair: p, score: score})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].score > hits[j-1].score; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	pairs := make([]Pair, 0, len(hits))
	for _, h := range hits {
		pairs = append(pairs, h.pair)
	}
	return pairs, nil
}
