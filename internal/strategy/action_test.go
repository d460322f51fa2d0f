package strategy

import (
	"testing"

	"github.com/harukaze/producecore/internal/vision"
)

func TestContainsFoldIsCaseInsensitive(t *testing.T) {
	cases := []struct {
		haystack, needle string
		want             bool
	}{
		{"Please REST today", "rest", true},
		{"lesson_vocal recommended", "lesson_vocal", true},
		{"nothing matches here", "outing", false},
		{"", "rest", false},
	}
	for _, tc := range cases {
		if got := containsFold(tc.haystack, tc.needle); got != tc.want {
			t.Errorf("containsFold(%q, %q) = %v, want %v", tc.haystack, tc.needle, got, tc.want)
		}
	}
}

func TestMatchActionLabel(t *testing.T) {
	kind, ok := matchActionLabel("We recommend lesson_vocal right now")
	if !ok {
		t.Fatal("expected a match")
	}
	if string(kind) != "lesson_vocal" {
		t.Errorf("expected lesson_vocal, got %s", kind)
	}

	if _, ok := matchActionLabel("completely unrelated text"); ok {
		t.Error("expected no match for unrelated text")
	}
}

func TestParseFractionExtractsCurAndMax(t *testing.T) {
	runs := []vision.TextRun{{Text: "Vocal"}, {Text: "62/80"}}
	cur, max, ok := parseFraction(runs)
	if !ok {
		t.Fatal("expected a parsed fraction")
	}
	if cur != 62 || max != 80 {
		t.Errorf("expected 62/80, got %d/%d", cur, max)
	}
}

func TestParseFractionNoSlashReturnsNotOK(t *testing.T) {
	runs := []vision.TextRun{{Text: "no digits here"}}
	if _, _, ok := parseFraction(runs); ok {
		t.Error("expected ok=false when no run contains a fraction")
	}
}

func TestParseFirstInt(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantOK  bool
	}{
		{"62", 62, true},
		{"  80", 80, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseFirstInt(tc.in)
		if ok != tc.wantOK || (ok && got != tc.want) {
			t.Errorf("parseFirstInt(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}
