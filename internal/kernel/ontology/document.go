package ontology

import (
	"encoding/json"

	"github.com/louisbranch/hollowmere/internal/platform/errors"
)

// Document is the JSON wire shape of an authored ontology.
type Document struct {
	Actions  []ActionDefinition  `json:"actions"`
	Patterns []IntentPattern     `json:"patterns,omitempty"`
	Synonyms map[string][]string `json:"synonyms,omitempty"`
}

// Decode parses an ontology document and freezes its registries.
func Decode(data []byte) (*Registry, *PatternTable, *Synonyms, error) {
	var document Document
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, nil, nil, errors.Wrap(errors.CodeOntologyInvalid, "decode ontology document", err)
	}
	registry, err := NewRegistry(document.Actions)
	if err != nil {
		return nil, nil, nil, err
	}
	return registry, NewPatternTable(document.Patterns), NewSynonyms(document.Synonyms), nil
}
