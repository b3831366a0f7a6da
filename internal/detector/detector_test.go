package detector_test

import (
	"testing"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/mooreml/moretran/internal/detector"
)

func TestDetect(t *testing.T) {
	d := detector.New()

	tests := []struct {
		text string
		want lingua.Language
	}{
		{"Je vais au marché pour acheter des légumes frais ce matin.", lingua.French},
		{"The quick brown fox jumps over the lazy dog near the river.", lingua.English},
		{"El rápido zorro marrón salta sobre el perro perezoso del pueblo.", lingua.Spanish},
	}

	for _, tt := range tests {
		lang, ok := d.Detect(tt.text)
		if !ok {
			t.Errorf("Detect(%q): no confident result", tt.text)
			continue
		}
		if lang != tt.want {
			t.Errorf("Detect(%q) = %s, want %s", tt.text, lang, tt.want)
		}
	}
}

func TestDetect_Empty(t *testing.T) {
	d := detector.New()

	if _, ok := d.Detect(""); ok {
		t.Error("empty text should not detect")
	}
}

func TestDetectISO(t *testing.T) {
	d := detector.New()

	iso, ok := d.DetectISO("Les enfants vont à l'école tous les matins de la semaine.")
	if !ok {
		t.Fatal("expected a confident detection")
	}
	if iso != "FR" {
		t.Errorf("iso = %q, want FR", iso)
	}
}
