package linker

import (
	"testing"

	"github.com/louisbranch/hollowmere/internal/kernel/ontology"
	"github.com/louisbranch/hollowmere/internal/kernel/storage"
)

func candidates() []storage.Entity {
	return []storage.Entity{
		{ID: "npc-1", Type: "npc", Name: "Bandit"},
		{ID: "npc-2", Type: "npc", Name: "Bandit Chief"},
		{ID: "item-1", Type: "item", Name: "Rusty Sword"},
		{ID: "loc-1", Type: "location", Name: "North Gate"},
	}
}

func TestLinkExactMatch(t *testing.T) {
	l := New(nil)
	got := l.Link("the bandit", candidates(), "npc")
	if got == nil || got.ID != "npc-1" {
		t.Fatalf("link = %+v, want npc-1", got)
	}
}

func TestLinkExactBeatsFuzzy(t *testing.T) {
	// "bandit" is exactly one candidate and fuzzily close to another; the
	// exact match must always win regardless of input order.
	l := New(nil)
	entities := []storage.Entity{
		{ID: "npc-2", Type: "npc", Name: "Bandits"},
		{ID: "npc-1", Type: "npc", Name: "Bandit"},
	}
	got := l.Link("bandit", entities, "npc")
	if got == nil || got.ID != "npc-1" {
		t.Fatalf("link = %+v, want exact match npc-1", got)
	}
}

func TestLinkContainment(t *testing.T) {
	l := New(nil)
	got := l.Link("sword", candidates(), "item")
	if got == nil || got.ID != "item-1" {
		t.Fatalf("link = %+v, want item-1", got)
	}
}

func TestLinkSynonym(t *testing.T) {
	l := New(ontology.NewSynonyms(map[string][]string{
		"Rusty Sword": {"blade", "old sword"},
	}))
	got := l.Link("that blade", candidates(), "item")
	if got == nil || got.ID != "item-1" {
		t.Fatalf("link = %+v, want item-1 via synonym", got)
	}
}

func TestLinkFuzzy(t *testing.T) {
	l := New(nil)
	got := l.Link("bandt chief", candidates(), "npc")
	if got == nil || got.ID != "npc-2" {
		t.Fatalf("link = %+v, want npc-2 via fuzzy tier", got)
	}
}

func TestLinkFuzzyBelowThreshold(t *testing.T) {
	l := New(nil)
	if got := l.Link("xyzzy", candidates(), "npc"); got != nil {
		t.Fatalf("link = %+v, want nil below threshold", got)
	}
}

func TestLinkTypeFilter(t *testing.T) {
	l := New(nil)
	if got := l.Link("bandit", candidates(), "item"); got != nil {
		t.Fatalf("link = %+v, want nil with wrong type filter", got)
	}
	if got := l.Link("bandit", candidates(), "any"); got == nil || got.ID != "npc-1" {
		t.Fatalf("link = %+v, want npc-1 with any filter", got)
	}
}

func TestLinkTieResolvesToFirstCandidate(t *testing.T) {
	l := New(nil)
	entities := []storage.Entity{
		{ID: "npc-1", Type: "npc", Name: "Guard"},
		{ID: "npc-2", Type: "npc", Name: "Guard"},
	}
	got := l.Link("guard", entities, "npc")
	if got == nil || got.ID != "npc-1" {
		t.Fatalf("link = %+v, want first candidate on tie", got)
	}
}

func TestLinkEmptyMention(t *testing.T) {
	l := New(nil)
	if got := l.Link("the", candidates(), "npc"); got != nil {
		t.Fatalf("link = %+v, want nil for stop-word-only mention", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"the Bandit", "bandit"},
		{"  THAT rusty sword!  ", "rusty sword"},
		{"this, that", ""},
		{"north gate", "north gate"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio("bandit", "bandit"); got != 1.0 {
		t.Fatalf("identical ratio = %v, want 1.0", got)
	}
	if got := Ratio("", ""); got != 1.0 {
		t.Fatalf("empty ratio = %v, want 1.0", got)
	}
	if got := Ratio("abc", ""); got != 0.0 {
		t.Fatalf("one empty ratio = %v, want 0.0", got)
	}
	if got := Ratio("abcd", "wxyz"); got != 0.0 {
		t.Fatalf("distinct ratio = %v, want 0.0", got)
	}
	// "bandt" vs "bandit": matched runs "band"+"t" = 5, 2*5/11.
	got := Ratio("bandt", "bandit")
	want := 10.0 / 11.0
	if got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("ratio = %v, want %v", got, want)
	}
}
