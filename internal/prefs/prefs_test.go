package prefs

import "testing"

func TestNormalizeTheme_CoercesUnknownValues(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"light", "light"},
		{"dark", "dark"},
		{"purple", "light"},
		{"", "light"},
		{"DARK", "light"},
	}
	for _, tc := range cases {
		if got := NormalizeTheme(tc.in); got != tc.want {
			t.Fatalf("NormalizeTheme(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeLanguage_CoercesUnknownValues(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"fr", "fr"},
		{"de", "en"},
		{"", "en"},
	}
	for _, tc := range cases {
		if got := NormalizeLanguage(tc.in); got != tc.want {
			t.Fatalf("NormalizeLanguage(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_PairwiseCoercion(t *testing.T) {
	got := Normalize(Preferences{Theme: "solarized", Language: "fr"})
	if got.Theme != "light" {
		t.Fatalf("expected theme=light, got %q", got.Theme)
	}
	if got.Language != "fr" {
		t.Fatalf("expected language=fr, got %q", got.Language)
	}
}
