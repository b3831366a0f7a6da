// Package detector identifies the language of source-side text. It is used
// to catch corpus records and input sentences whose source is not actually
// in the expected language. Mooré itself is not in lingua's model set; the
// detector only ever judges the source side.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"
)

// candidateLanguages are the languages plausibly found in a French-sourced
// dataset collected in West Africa. Restricting the set keeps the model
// small and the decisions sharper than FromAllLanguages.
var candidateLanguages = []lingua.Language{
	lingua.French,
	lingua.English,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Arabic,
}

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over the candidate language set. Construction is
// expensive; reuse the instance.
func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(candidateLanguages...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}
