package arbiter_test

import (
	"strings"
	"testing"

	"github.com/mooreml/moretran/internal"
	"github.com/mooreml/moretran/internal/arbiter"
	"github.com/mooreml/moretran/internal/composer"
	"github.com/mooreml/moretran/internal/examples"
)

func segment(id, text string) internal.Segment {
	return internal.Segment{SegID: id, Text: text, Tokens: strings.Fields(text)}
}

func TestDecide_CorpusBeatsDictionaryOnHigherConfidence(t *testing.T) {
	seg := segment("s1", "Je vais au marché.")
	comp := composer.Composition{Target: "mam kẽnda raaga", Confidence: 0.7, Covered: 3}
	matches := []examples.Match{
		{Source: "Je vais au marché.", Target: "N zɩ̀ nà zaabā.", Similarity: 1.0, Provenance: "manual_v1"},
	}

	d, err := arbiter.Decide(seg, comp, matches, nil)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if d.Winner.Origin != arbiter.OriginCorpus {
		t.Fatalf("winner origin = %s, want corpus", d.Winner.Origin)
	}
	if d.ChosenTarget != "N zɩ̀ nà zaabā." {
		t.Errorf("chosen = %q", d.ChosenTarget)
	}
	if d.Winner.Confidence != 1.0 {
		t.Errorf("winner confidence = %f, want 1.0", d.Winner.Confidence)
	}
	if want := "corpus example matched at 100.0% similarity"; d.Explanation != want {
		t.Errorf("explanation = %q, want %q", d.Explanation, want)
	}
	if len(d.Candidates) != 2 {
		t.Errorf("candidate count = %d, want 2", len(d.Candidates))
	}
}

func TestDecide_TieResolvesToEarlierCandidate(t *testing.T) {
	seg := segment("s1", "bonjour")
	comp := composer.Composition{Target: "ne y windga", Confidence: 0.8, Covered: 1}
	matches := []examples.Match{
		{Source: "bonjour ami", Target: "ne y windga zoa", Similarity: 0.8},
	}

	d, err := arbiter.Decide(seg, comp, matches, nil)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if d.Winner.Origin != arbiter.OriginCorpus {
		t.Errorf("tie at 0.8 went to %s, want corpus", d.Winner.Origin)
	}
}

func TestDecide_DictionaryWinsWhenNoCorpusMatch(t *testing.T) {
	seg := segment("s1", "Bonjour")
	comp := composer.Composition{Target: "ne y windga", Confidence: 0.9, Covered: 1}

	d, err := arbiter.Decide(seg, comp, nil, nil)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if d.Winner.Origin != arbiter.OriginDictionary {
		t.Fatalf("winner origin = %s, want dictionary", d.Winner.Origin)
	}
	if want := "composed from dictionary entries at 90.0% mean word confidence"; d.Explanation != want {
		t.Errorf("explanation = %q, want %q", d.Explanation, want)
	}
	if d.Winner.Compose == nil || d.Winner.Compose.Covered != 1 {
		t.Errorf("winner should carry the composition detail, got %+v", d.Winner.Compose)
	}
}

func TestDecide_BlankCompositionIsNotACandidate(t *testing.T) {
	seg := segment("s1", "???")
	comp := composer.Composition{Target: "   ", Confidence: 0.5}

	d, err := arbiter.Decide(seg, comp, nil, nil)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if d.Winner.Origin != arbiter.OriginNone {
		t.Errorf("winner origin = %s, want none", d.Winner.Origin)
	}
}

func TestDecide_AugmentCandidateCanWin(t *testing.T) {
	seg := segment("s1", "Il pleut.")
	comp := composer.Composition{Target: "saaga", Confidence: 0.3, Covered: 1}
	extra := []arbiter.Candidate{
		{Target: "Saaga n niida.", Origin: arbiter.OriginAugment, Confidence: 0.8, Provider: "ollama"},
	}

	d, err := arbiter.Decide(seg, comp, nil, extra)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if d.Winner.Origin != arbiter.OriginAugment {
		t.Fatalf("winner origin = %s, want augment", d.Winner.Origin)
	}
	if want := "augmented by ollama at 80.0% confidence"; d.Explanation != want {
		t.Errorf("explanation = %q, want %q", d.Explanation, want)
	}
}

func TestDecide_NoEvidenceSynthesizesSentinel(t *testing.T) {
	seg := segment("s7", "Xylophone quantique.")

	d, err := arbiter.Decide(seg, composer.Composition{}, nil, nil)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if len(d.Candidates) != 1 {
		t.Fatalf("candidate count = %d, want 1", len(d.Candidates))
	}
	if d.Winner.Origin != arbiter.OriginNone || d.Winner.Confidence != 0 {
		t.Errorf("sentinel winner = %+v", d.Winner)
	}
	if d.ChosenTarget != arbiter.MarkUntranslated("Xylophone quantique.") {
		t.Errorf("chosen = %q", d.ChosenTarget)
	}
	if want := "no candidates found; segment requires manual review"; d.Explanation != want {
		t.Errorf("explanation = %q, want %q", d.Explanation, want)
	}
}

func TestDecide_CandidatesKeepPresentationOrder(t *testing.T) {
	seg := segment("s1", "le champ")
	comp := composer.Composition{Target: "pʋʋgã", Confidence: 0.95, Covered: 2}
	matches := []examples.Match{
		{Source: "le champ vert", Target: "pʋʋg miuugu", Similarity: 0.66},
	}
	extra := []arbiter.Candidate{
		{Target: "pʋʋga", Origin: arbiter.OriginAugment, Confidence: 0.5, Provider: "google"},
	}

	d, err := arbiter.Decide(seg, comp, matches, extra)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	wantOrder := []arbiter.Origin{arbiter.OriginCorpus, arbiter.OriginDictionary, arbiter.OriginAugment}
	if len(d.Candidates) != len(wantOrder) {
		t.Fatalf("candidate count = %d, want %d", len(d.Candidates), len(wantOrder))
	}
	for i, origin := range wantOrder {
		if d.Candidates[i].Origin != origin {
			t.Errorf("candidates[%d].Origin = %s, want %s", i, d.Candidates[i].Origin, origin)
		}
	}
	// Highest confidence wins even when listed later than corpus.
	if d.Winner.Origin != arbiter.OriginDictionary {
		t.Errorf("winner origin = %s, want dictionary", d.Winner.Origin)
	}
}

func TestMarkUntranslated_DistinctFromUnknownMarker(t *testing.T) {
	got := arbiter.MarkUntranslated("abc")
	if got != "⟪abc⟫" {
		t.Errorf("MarkUntranslated = %q", got)
	}
	if strings.Contains(got, "⟦") || strings.Contains(got, "⟧") {
		t.Errorf("sentinel %q reuses the unknown-token brackets", got)
	}
}
