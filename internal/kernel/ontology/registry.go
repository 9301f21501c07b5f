package ontology

import (
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/hollowmere/internal/platform/errors"
)

// Registry is the frozen map from action id to its full definition.
//
// A Registry is immutable after construction. Reloading an ontology builds a
// new Registry and callers swap references; concurrent readers of the old
// value are unaffected.
type Registry struct {
	actions map[string]ActionDefinition
	ids     []string
}

// NewRegistry validates and freezes a set of action definitions.
func NewRegistry(definitions []ActionDefinition) (*Registry, error) {
	actions := make(map[string]ActionDefinition, len(definitions))
	ids := make([]string, 0, len(definitions))
	for _, definition := range definitions {
		id := strings.TrimSpace(definition.ID)
		if id == "" {
			return nil, errors.New(errors.CodeOntologyEmptyActionID, "action id is required")
		}
		if _, exists := actions[id]; exists {
			return nil, errors.WithMetadata(errors.CodeOntologyDuplicateID,
				fmt.Sprintf("duplicate action id %q", id),
				map[string]string{"action_id": id})
		}
		for _, parameter := range definition.Parameters {
			if strings.TrimSpace(parameter.Name) == "" {
				return nil, errors.WithMetadata(errors.CodeOntologyEmptyParamName,
					fmt.Sprintf("action %q declares a parameter without a name", id),
					map[string]string{"action_id": id})
			}
		}
		definition.ID = id
		actions[id] = cloneDefinition(definition)
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return &Registry{actions: actions, ids: ids}, nil
}

// Lookup returns the definition for an action id. The returned value is a
// copy; mutating it does not affect the registry.
func (r *Registry) Lookup(actionID string) (ActionDefinition, bool) {
	if r == nil {
		return ActionDefinition{}, false
	}
	definition, ok := r.actions[actionID]
	if !ok {
		return ActionDefinition{}, false
	}
	return cloneDefinition(definition), true
}

// ActionIDs returns all registered action ids in sorted order.
func (r *Registry) ActionIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, len(r.ids))
	copy(ids, r.ids)
	return ids
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.actions)
}

func cloneDefinition(definition ActionDefinition) ActionDefinition {
	if len(definition.Parameters) > 0 {
		parameters := make([]ParameterDefinition, len(definition.Parameters))
		copy(parameters, definition.Parameters)
		definition.Parameters = parameters
	}
	if len(definition.Rules) > 0 {
		rules := make([]RuleSpec, len(definition.Rules))
		copy(rules, definition.Rules)
		definition.Rules = rules
	}
	return definition
}
