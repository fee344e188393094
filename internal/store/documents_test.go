package store

import "testing"

func TestDocumentStatusWalk(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{"uploaded", "extracted", true},
		{"extracted", "reconciled", true},
		{"uploaded", "reconciled", false}, // no skipping
		{"extracted", "uploaded", false},  // no going back
		{"reconciled", "extracted", false},
		{"reconciled", "reconciled", false}, // terminal
		{"uploaded", "uploaded", false},     // no self-move
		{"uploaded", "", false},
		{"", "extracted", false},
		{"bogus", "extracted", false},
	}
	for _, tc := range cases {
		if got := canAdvance(tc.from, tc.to); got != tc.want {
			t.Errorf("canAdvance(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
