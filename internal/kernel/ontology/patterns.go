package ontology

import "strings"

// PatternTable holds intent patterns in registration order.
//
// Tables are immutable: Merge produces a new table and callers swap
// references, keeping concurrent readers safe without locks.
type PatternTable struct {
	patterns []IntentPattern
}

// NewPatternTable freezes a pattern list, preserving registration order.
// Empty keywords are dropped, then patterns with an empty action id or no
// keywords left are dropped.
func NewPatternTable(patterns []IntentPattern) *PatternTable {
	kept := make([]IntentPattern, 0, len(patterns))
	for _, pattern := range patterns {
		pattern.ActionID = strings.TrimSpace(pattern.ActionID)
		pattern.Keywords = cleanKeywords(pattern.Keywords)
		if pattern.ActionID == "" || len(pattern.Keywords) == 0 {
			continue
		}
		kept = append(kept, pattern)
	}
	return &PatternTable{patterns: kept}
}

// Patterns returns the table contents in registration order.
func (t *PatternTable) Patterns() []IntentPattern {
	if t == nil {
		return nil
	}
	out := make([]IntentPattern, len(t.patterns))
	for i, pattern := range t.patterns {
		out[i] = clonePattern(pattern)
	}
	return out
}

// Len returns the number of registered patterns.
func (t *PatternTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.patterns)
}

// Merge combines a pattern pack into the table, producing a new table.
//
// For an action id present in both, keyword lists are unioned as a set (the
// combined keyword order is not guaranteed) and the pack's requires_target
// and target_type override the existing values. Action ids only in the pack
// are appended verbatim.
func (t *PatternTable) Merge(pack []IntentPattern) *PatternTable {
	byAction := make(map[string]int)
	merged := make([]IntentPattern, 0, t.Len()+len(pack))
	for _, pattern := range t.Patterns() {
		byAction[pattern.ActionID] = len(merged)
		merged = append(merged, pattern)
	}

	for _, incoming := range pack {
		incoming.ActionID = strings.TrimSpace(incoming.ActionID)
		incoming.Keywords = cleanKeywords(incoming.Keywords)
		if incoming.ActionID == "" || len(incoming.Keywords) == 0 {
			continue
		}
		index, exists := byAction[incoming.ActionID]
		if !exists {
			byAction[incoming.ActionID] = len(merged)
			merged = append(merged, clonePattern(incoming))
			continue
		}
		existing := merged[index]
		existing.Keywords = unionKeywords(existing.Keywords, incoming.Keywords)
		existing.RequiresTarget = incoming.RequiresTarget
		existing.TargetType = incoming.TargetType
		merged[index] = existing
	}

	return &PatternTable{patterns: merged}
}

// cleanKeywords trims keywords and drops the empties. An empty keyword is
// a substring of every input and would match any parse.
func cleanKeywords(keywords []string) []string {
	kept := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		kept = append(kept, keyword)
	}
	return kept
}

func unionKeywords(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	union := make([]string, 0, len(a)+len(b))
	for _, keyword := range a {
		if keyword == "" || seen[keyword] {
			continue
		}
		seen[keyword] = true
		union = append(union, keyword)
	}
	for _, keyword := range b {
		if keyword == "" || seen[keyword] {
			continue
		}
		seen[keyword] = true
		union = append(union, keyword)
	}
	return union
}

func clonePattern(pattern IntentPattern) IntentPattern {
	if len(pattern.Keywords) > 0 {
		keywords := make([]string, len(pattern.Keywords))
		copy(keywords, pattern.Keywords)
		pattern.Keywords = keywords
	}
	return pattern
}
