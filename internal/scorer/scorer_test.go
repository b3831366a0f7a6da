package scorer_test

import (
	"math"
	"testing"

	"github.com/mooreml/moretran/internal/arbiter"
	"github.com/mooreml/moretran/internal/lexicon"
	"github.com/mooreml/moretran/internal/scorer"
)

func decision(source, target string, origin arbiter.Origin, conf float64, candidates int) arbiter.Decision {
	winner := arbiter.Candidate{Target: target, Origin: origin, Confidence: conf}
	cands := make([]arbiter.Candidate, candidates)
	for i := range cands {
		cands[i] = winner
	}
	return arbiter.Decision{
		SegID:        "s1",
		SourceText:   source,
		ChosenTarget: target,
		Winner:       winner,
		Candidates:   cands,
	}
}

func almostEqual(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("composite = %f, want %f", got, want)
	}
}

func TestScore_CleanSingleCandidate(t *testing.T) {
	s := scorer.New(scorer.DefaultConfig())
	d := decision("Je vais au marché.", "N zɩ̀ nà zaabā.", arbiter.OriginCorpus, 0.9, 1)

	sd := s.Score(d)

	almostEqual(t, sd.CompositeConfidence, 0.9)
	if sd.Features.CandidateCount != 1 {
		t.Errorf("candidate count = %d, want 1", sd.Features.CandidateCount)
	}
	if sd.Features.UnknownTokenCount != 0 {
		t.Errorf("unknown count = %d, want 0", sd.Features.UnknownTokenCount)
	}
}

func TestScore_MultiCandidateBonusClampsAtOne(t *testing.T) {
	s := scorer.New(scorer.DefaultConfig())
	d := decision("Je vais au marché.", "N zɩ̀ nà zaabā.", arbiter.OriginCorpus, 1.0, 2)

	sd := s.Score(d)

	almostEqual(t, sd.CompositeConfidence, 1.0)
}

func TestScore_MultiCandidateBonusBelowClamp(t *testing.T) {
	s := scorer.New(scorer.DefaultConfig())
	d := decision("le grand champ vert", "pʋ-kãsenga miuugu", arbiter.OriginDictionary, 0.5, 3)

	sd := s.Score(d)

	almostEqual(t, sd.CompositeConfidence, 0.5*1.1)
}

func TestScore_UnknownTokensCompoundPenalty(t *testing.T) {
	s := scorer.New(scorer.DefaultConfig())
	target := "mam " + lexicon.MarkUnknown("xylophone") + " " + lexicon.MarkUnknown("quantique")
	d := decision("mon xylophone quantique", target, arbiter.OriginDictionary, 0.6, 1)

	sd := s.Score(d)

	if sd.Features.UnknownTokenCount != 2 {
		t.Fatalf("unknown count = %d, want 2", sd.Features.UnknownTokenCount)
	}
	almostEqual(t, sd.CompositeConfidence, 0.6*0.7*0.7)
}

func TestScore_LengthPenaltyBelowThreshold(t *testing.T) {
	s := scorer.New(scorer.DefaultConfig())
	source := "une phrase assez longue pour le test de longueur"
	d := decision(source, "zaabā", arbiter.OriginDictionary, 0.8, 1)

	sd := s.Score(d)

	if sd.Features.LengthRatio >= 0.3 {
		t.Fatalf("length ratio = %f, expected below threshold", sd.Features.LengthRatio)
	}
	almostEqual(t, sd.CompositeConfidence, 0.8*0.8)
}

func TestScore_LengthRatioUsesRunes(t *testing.T) {
	s := scorer.New(scorer.DefaultConfig())
	// Byte lengths diverge but rune counts match, so no penalty applies.
	d := decision("abcd", "zɩ̀ā", arbiter.OriginCorpus, 0.9, 1)

	sd := s.Score(d)

	almostEqual(t, sd.Features.LengthRatio, 1.0)
	almostEqual(t, sd.CompositeConfidence, 0.9)
}

func TestScore_SentinelDecisionScoresZero(t *testing.T) {
	s := scorer.New(scorer.DefaultConfig())
	d := decision("Xylophone quantique.", arbiter.MarkUntranslated("Xylophone quantique."), arbiter.OriginNone, 0, 1)

	sd := s.Score(d)

	if sd.CompositeConfidence != 0 {
		t.Errorf("composite = %f, want 0", sd.CompositeConfidence)
	}
	if sd.Features.SourceConfidence != 0 {
		t.Errorf("source confidence = %f, want 0", sd.Features.SourceConfidence)
	}
}

func TestScore_CorruptedConfidenceClamped(t *testing.T) {
	s := scorer.New(scorer.DefaultConfig())
	d := decision("abc", "def", arbiter.OriginCorpus, 1.7, 1)

	sd := s.Score(d)

	if sd.CompositeConfidence > 1 || sd.CompositeConfidence < 0 {
		t.Errorf("composite = %f, outside [0,1]", sd.CompositeConfidence)
	}
}

func TestNew_BackfillsZeroFields(t *testing.T) {
	s := scorer.New(scorer.Config{UnknownPenalty: 0.5})
	target := lexicon.MarkUnknown("mot")
	d := decision("mot", target, arbiter.OriginDictionary, 0.8, 1)

	sd := s.Score(d)

	// Custom unknown penalty applies; the backfilled length threshold of
	// 0.3 does not trigger for this pair.
	almostEqual(t, sd.CompositeConfidence, 0.8*0.5)
}

func TestScore_OrderOfAdjustments(t *testing.T) {
	s := scorer.New(scorer.DefaultConfig())
	source := "une phrase source relativement longue ici"
	target := lexicon.MarkUnknown("mot")
	d := decision(source, target, arbiter.OriginDictionary, 0.9, 2)

	sd := s.Score(d)

	// unknown decay, then length penalty, then bonus.
	almostEqual(t, sd.CompositeConfidence, 0.9*0.7*0.8*1.1)
}
