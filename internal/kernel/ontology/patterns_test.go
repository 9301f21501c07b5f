package ontology

import "testing"

func TestNewPatternTableDropsInvalid(t *testing.T) {
	table := NewPatternTable([]IntentPattern{
		{ActionID: "ACT_ATTACK", Keywords: []string{"attack", ""}},
		{ActionID: "", Keywords: []string{"orphan"}},
		{ActionID: "ACT_WAIT"},
		{ActionID: "ACT_SNEAK", Keywords: []string{"", "  "}},
	})
	if table.Len() != 1 {
		t.Fatalf("table len = %d, want 1", table.Len())
	}
	survivor := table.Patterns()[0]
	if survivor.ActionID != "ACT_ATTACK" {
		t.Fatalf("unexpected surviving pattern %+v", survivor)
	}
	if len(survivor.Keywords) != 1 || survivor.Keywords[0] != "attack" {
		t.Fatalf("keywords = %v, want empty entry dropped", survivor.Keywords)
	}
}

func TestMergeUnionsKeywordsAndOverridesScalars(t *testing.T) {
	base := NewPatternTable([]IntentPattern{
		{ActionID: "ACT_ATTACK", Keywords: []string{"attack", "hit"}, RequiresTarget: true, TargetType: "npc"},
		{ActionID: "ACT_LOOK", Keywords: []string{"look"}},
	})

	merged := base.Merge([]IntentPattern{
		{ActionID: "ACT_ATTACK", Keywords: []string{"hit", "strike"}, RequiresTarget: true, TargetType: "any"},
		{ActionID: "ACT_FLEE", Keywords: []string{"flee", "run"}, RequiresTarget: true, TargetType: "location"},
	})

	// Merge is pure: the base table is untouched.
	if base.Len() != 2 {
		t.Fatalf("base table len = %d after merge, want 2", base.Len())
	}
	basePatterns := base.Patterns()
	if len(basePatterns[0].Keywords) != 2 || basePatterns[0].TargetType != "npc" {
		t.Fatalf("base pattern mutated by merge: %+v", basePatterns[0])
	}

	if merged.Len() != 3 {
		t.Fatalf("merged table len = %d, want 3", merged.Len())
	}
	patterns := merged.Patterns()

	attack := patterns[0]
	if attack.ActionID != "ACT_ATTACK" {
		t.Fatalf("first merged pattern = %s, want ACT_ATTACK", attack.ActionID)
	}
	keywords := make(map[string]bool)
	for _, keyword := range attack.Keywords {
		if keywords[keyword] {
			t.Fatalf("duplicate keyword %q after merge", keyword)
		}
		keywords[keyword] = true
	}
	for _, keyword := range []string{"attack", "hit", "strike"} {
		if !keywords[keyword] {
			t.Fatalf("missing keyword %q after merge", keyword)
		}
	}
	if attack.TargetType != "any" {
		t.Fatalf("target type = %s, want pack override any", attack.TargetType)
	}

	flee := patterns[2]
	if flee.ActionID != "ACT_FLEE" || len(flee.Keywords) != 2 {
		t.Fatalf("unseen pattern not added verbatim: %+v", flee)
	}
}

func TestSynonymsLookup(t *testing.T) {
	synonyms := NewSynonyms(map[string][]string{
		"Bandit": {"Thug", "outlaw", " "},
	})
	aliases := synonyms.Aliases("bandit")
	if len(aliases) != 2 {
		t.Fatalf("aliases = %v, want 2 lowercased entries", aliases)
	}
	if aliases[0] != "thug" || aliases[1] != "outlaw" {
		t.Fatalf("aliases = %v", aliases)
	}
	if synonyms.Aliases("dragon") != nil {
		t.Fatal("expected nil for unknown name")
	}
}
