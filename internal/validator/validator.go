// Package validator checks that source-side text is written in the language
// the pipeline expects. Corpus records and input sentences that fail the
// check produce unreliable lexical-overlap matches, so they are worth
// flagging before generation.
package validator

import (
	"fmt"
	"strings"

	"github.com/mooreml/moretran/internal/detector"
)

// minCheckRunes is the minimum rune count required to attempt language
// detection. Shorter texts produce unreliable results and pass unchecked.
const minCheckRunes = 20

// Validator checks source-side text against one expected ISO 639-1 code,
// fixed at construction. The pipeline only ever validates the source
// language; the target side has no detection model.
type Validator struct {
	det      *detector.Detector
	expected string
}

// New creates a Validator for expectedLang. An empty code disables checking
// entirely; the detector, which is expensive to build, is then never
// constructed. Reuse the instance across texts.
func New(expectedLang string) *Validator {
	v := &Validator{expected: strings.ToLower(strings.TrimSpace(expectedLang))}
	if v.expected != "" {
		v.det = detector.New()
	}
	return v
}

// Check returns nil when text plausibly is the expected source language.
//
// Texts too short for reliable detection and texts whose language cannot be
// determined pass. Empty text and a detected mismatch return an error
// naming the codes involved.
func (v *Validator) Check(text string) error {
	if v.expected == "" {
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("empty source text")
	}
	if len([]rune(text)) < minCheckRunes {
		return nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return nil
	}
	if !strings.EqualFold(detected, v.expected) {
		return fmt.Errorf("expected %s but detected %s", v.expected, strings.ToLower(detected))
	}
	return nil
}
