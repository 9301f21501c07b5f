// Package linker resolves free-text mentions to entities from a bounded
// candidate set.
//
// Matching is tiered: exact name, containment, synonym expansion, then a
// fuzzy similarity ratio. Ties within a tier resolve to the first candidate
// in input order. The linker performs no I/O and has no side effects.
package linker

import (
	"strings"

	"github.com/louisbranch/hollowmere/internal/kernel/ontology"
	"github.com/louisbranch/hollowmere/internal/kernel/storage"
)

// fuzzyThreshold is the minimum similarity ratio accepted at the final tier.
const fuzzyThreshold = 0.6

// stopWords are demonstratives and articles stripped from mentions before
// matching.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true,
	"this": true, "that": true, "these": true, "those": true,
	"some": true, "my": true, "his": true, "her": true, "its": true,
}

// Linker matches mentions against candidate entities using the loaded
// synonym table.
type Linker struct {
	synonyms *ontology.Synonyms
}

// New creates a linker. A nil synonym table disables the synonym tier.
func New(synonyms *ontology.Synonyms) *Linker {
	return &Linker{synonyms: synonyms}
}

// Link resolves a mention to one candidate, or nil when nothing matches.
// When entityType is non-empty and not "any", candidates of other types are
// ignored.
func (l *Linker) Link(mention string, candidates []storage.Entity, entityType string) *storage.Entity {
	mention = Normalize(mention)
	if mention == "" {
		return nil
	}

	eligible := candidates
	if entityType != "" && entityType != "any" {
		eligible = make([]storage.Entity, 0, len(candidates))
		for _, candidate := range candidates {
			if candidate.Type == entityType {
				eligible = append(eligible, candidate)
			}
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	// Tier 1: exact match on normalized name.
	for i := range eligible {
		if mention == strings.ToLower(eligible[i].Name) {
			return &eligible[i]
		}
	}

	// Tier 2: containment either way.
	for i := range eligible {
		name := strings.ToLower(eligible[i].Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, mention) || strings.Contains(mention, name) {
			return &eligible[i]
		}
	}

	// Tier 3: synonym expansion.
	for i := range eligible {
		for _, alias := range l.synonyms.Aliases(eligible[i].Name) {
			if strings.Contains(alias, mention) || strings.Contains(mention, alias) {
				return &eligible[i]
			}
		}
	}

	// Tier 4: fuzzy ratio, best score wins, first candidate breaks ties.
	var best *storage.Entity
	bestScore := fuzzyThreshold
	for i := range eligible {
		score := Ratio(mention, strings.ToLower(eligible[i].Name))
		if score > bestScore {
			bestScore = score
			best = &eligible[i]
		}
	}
	return best
}

// Normalize lowercases a mention and strips stop words and edge punctuation.
func Normalize(mention string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(mention)))
	kept := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:'\"")
		if word == "" || stopWords[word] {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
