package classify

import "testing"

func TestMatcherExactAndGlyphStripped(t *testing.T) {
	matcher := NewMatcher(testGenres())

	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"🎸 Guitar Anthems", "🎸 Guitar Anthems", true},
		{"guitar anthems", "🎸 Guitar Anthems", true},
		{"GUITAR ANTHEMS", "🎸 Guitar Anthems", true},
		{"Club Life", "🪩 Club Life", true},
		{"Rock", "🎸 Guitar Anthems", true}, // via hint tokens
		{"EDM", "🪩 Club Life", true},
		{"Polka", "", false},
		{"", "", false},
		{"🎺", "", false},
	}
	for _, tc := range cases {
		got, ok := matcher.Match(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Match(%q) = %q, %v; want %q, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestValidateNeverEmptyAndDeduped(t *testing.T) {
	matcher := NewMatcher(testGenres())

	if got := matcher.Validate(nil, testFallback); len(got) != 1 || got[0] != testFallback {
		t.Fatalf("empty input: got %v", got)
	}
	got := matcher.Validate([]string{"rock", "Guitar Anthems", "🪩 Club Life"}, testFallback)
	if len(got) != 2 || got[0] != "🎸 Guitar Anthems" || got[1] != "🪩 Club Life" {
		t.Fatalf("expected deduped capped list, got %v", got)
	}
}
