package placeholder_test

import (
	"strings"
	"testing"

	"github.com/mooreml/moretran/internal/placeholder"
)

func TestProtectRestore_Numbers(t *testing.T) {
	protected, markers := placeholder.Protect("Il a 25 chèvres et 3 moutons.")

	if len(markers) != 2 {
		t.Fatalf("marker count = %d, want 2", len(markers))
	}
	if protected != "Il a [PH0] chèvres et [PH1] moutons." {
		t.Errorf("protected = %q", protected)
	}

	restored := placeholder.Restore("A tara [PH0] bʋʋse la [PH1] piise.", markers)
	if restored != "A tara 25 bʋʋse la 3 piise." {
		t.Errorf("restored = %q", restored)
	}
}

func TestProtect_DecimalAndGroupedNumbers(t *testing.T) {
	protected, markers := placeholder.Protect("Prix: 1 234,56 francs")

	if len(markers) != 1 {
		t.Fatalf("marker count = %d, want 1: %v", len(markers), markers)
	}
	if markers[0] != "1 234,56" {
		t.Errorf("captured %q, want the full grouped number", markers[0])
	}
	if protected != "Prix: [PH0] francs" {
		t.Errorf("protected = %q", protected)
	}
}

func TestProtect_URLBeforeNumbers(t *testing.T) {
	protected, markers := placeholder.Protect("Voir https://example.com:8080/p1 avant 2026.")

	if len(markers) != 2 {
		t.Fatalf("marker count = %d, want 2: %v", len(markers), markers)
	}
	if markers[0] != "https://example.com:8080/p1" {
		t.Errorf("first marker = %q, want the whole URL", markers[0])
	}
	if markers[1] != "2026" {
		t.Errorf("second marker = %q", markers[1])
	}
	if strings.Contains(protected, "8080") {
		t.Errorf("URL digits split out of the marker: %q", protected)
	}
}

func TestRestore_DroppedAndUnknownMarkers(t *testing.T) {
	_, markers := placeholder.Protect("25 et 3")

	// The model dropped [PH1] and invented [PH9].
	restored := placeholder.Restore("[PH0] la [PH9]", markers)
	if restored != "25 la [PH9]" {
		t.Errorf("restored = %q", restored)
	}
}

func TestProtect_NothingToProtect(t *testing.T) {
	text := "Je vais au marché."
	protected, markers := placeholder.Protect(text)

	if protected != text {
		t.Errorf("protected = %q, want unchanged", protected)
	}
	if len(markers) != 0 {
		t.Errorf("markers = %v, want none", markers)
	}
}

func TestCount(t *testing.T) {
	if got := placeholder.Count("x [PH0] y [PH1] z"); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	if got := placeholder.Count("pas de marqueur"); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
}

func TestHasProtectable(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"25 chèvres", true},
		{"https://example.com", true},
		{"texte avec [PH0]", true},
		{"rien du tout", false},
	}
	for _, tt := range tests {
		if got := placeholder.HasProtectable(tt.input); got != tt.want {
			t.Errorf("HasProtectable(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
