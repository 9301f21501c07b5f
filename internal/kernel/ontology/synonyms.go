package ontology

import "strings"

// Synonyms is the frozen alias table keyed by canonical entity name.
// Keys and aliases are stored lowercased.
type Synonyms struct {
	aliases map[string][]string
}

// NewSynonyms freezes an alias table. Input maps are copied.
func NewSynonyms(aliases map[string][]string) *Synonyms {
	frozen := make(map[string][]string, len(aliases))
	for name, list := range aliases {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || len(list) == 0 {
			continue
		}
		kept := make([]string, 0, len(list))
		for _, alias := range list {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias != "" {
				kept = append(kept, alias)
			}
		}
		if len(kept) > 0 {
			frozen[name] = kept
		}
	}
	return &Synonyms{aliases: frozen}
}

// Aliases returns the alias list for a canonical name, or nil.
func (s *Synonyms) Aliases(name string) []string {
	if s == nil {
		return nil
	}
	list, ok := s.aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}
