package ontology

import (
	stderrors "errors"
	"testing"

	"github.com/louisbranch/hollowmere/internal/platform/errors"
)

func TestNewRegistryRejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name        string
		definitions []ActionDefinition
		wantCode    errors.Code
	}{
		{
			name:        "empty id",
			definitions: []ActionDefinition{{ID: "  "}},
			wantCode:    errors.CodeOntologyEmptyActionID,
		},
		{
			name: "duplicate id",
			definitions: []ActionDefinition{
				{ID: "ACT_LOOK"},
				{ID: "ACT_LOOK"},
			},
			wantCode: errors.CodeOntologyDuplicateID,
		},
		{
			name: "unnamed parameter",
			definitions: []ActionDefinition{
				{ID: "ACT_TAKE", Parameters: []ParameterDefinition{{Name: ""}}},
			},
			wantCode: errors.CodeOntologyEmptyParamName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.definitions)
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, errors.New(tt.wantCode, "")) {
				t.Fatalf("error code = %s, want %s", errors.CodeOf(err), tt.wantCode)
			}
		})
	}
}

func TestRegistryLookupReturnsCopy(t *testing.T) {
	registry, err := NewRegistry([]ActionDefinition{{
		ID: "ACT_ATTACK",
		Parameters: []ParameterDefinition{
			{Name: "target", Type: ParameterObjectRef, Required: true, ObjectType: "npc"},
		},
		Rules: []RuleSpec{{Type: RuleAppendEvent, SummaryTemplate: "{source} attacks {target}"}},
	}})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	first, ok := registry.Lookup("ACT_ATTACK")
	if !ok {
		t.Fatal("expected lookup hit")
	}
	first.Parameters[0].Name = "mutated"
	first.Rules[0].SummaryTemplate = "mutated"

	second, _ := registry.Lookup("ACT_ATTACK")
	if second.Parameters[0].Name != "target" {
		t.Fatal("registry parameter mutated through lookup copy")
	}
	if second.Rules[0].SummaryTemplate != "{source} attacks {target}" {
		t.Fatal("registry rule mutated through lookup copy")
	}
}

func TestRegistryLookupMiss(t *testing.T) {
	registry, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, ok := registry.Lookup("ACT_MISSING"); ok {
		t.Fatal("expected lookup miss")
	}
}

func TestRegistryActionIDsSorted(t *testing.T) {
	registry, err := NewRegistry([]ActionDefinition{
		{ID: "ACT_TAKE"}, {ID: "ACT_ATTACK"}, {ID: "ACT_MOVE"},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	ids := registry.ActionIDs()
	want := []string{"ACT_ATTACK", "ACT_MOVE", "ACT_TAKE"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("ids[%d] = %s, want %s", i, ids[i], id)
		}
	}
}
