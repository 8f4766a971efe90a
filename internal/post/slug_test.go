package post

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"diacritics", "Čudovita Novica!", "cudovita-novica"},
		{"accents", "Café au Lait", "cafe-au-lait"},
		{"punctuation runs", "One -- Two!!  Three", "one-two-three"},
		{"leading trailing junk", "  ...Edge Case...  ", "edge-case"},
		{"numbers kept", "Release 2.4.1", "release-2-4-1"},
		{"already slug", "already-a-slug", "already-a-slug"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
		{"uppercase diacritics", "ŠKOFJA Loka", "skofja-loka"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	first := Slugify("Čudovita Novica!")
	for i := 0; i < 10; i++ {
		if got := Slugify("Čudovita Novica!"); got != first {
			t.Fatalf("Slugify not deterministic: %q vs %q", got, first)
		}
	}
}
