package rules

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/louisbranch/hollowmere/internal/kernel/ontology"
	"github.com/louisbranch/hollowmere/internal/kernel/storage"
	"github.com/louisbranch/hollowmere/internal/testkit/kernelfakes"
)

func newRouter() (*Router, *kernelfakes.ObjectStore, *kernelfakes.EventLedger, *kernelfakes.MemoryStore) {
	objects := kernelfakes.NewObjectStore()
	ledger := kernelfakes.NewEventLedger()
	memories := kernelfakes.NewMemoryStore()
	return New(objects, ledger, memories), objects, ledger, memories
}

func TestExecuteRulesRunsFullListPastFailures(t *testing.T) {
	// Rule 2 fails, but exactly 3 reports come back, in order. The router
	// never short-circuits; only the executor treats a failed report as an
	// overall action failure.
	router, objects, ledger, _ := newRouter()
	objects.WriteFunc = func(statement string, _ map[string]any) ([]storage.Row, error) {
		if strings.Contains(statement, "boom") {
			return nil, errors.New("syntax error near boom")
		}
		return []storage.Row{{"ok": true}}, nil
	}

	reports := router.ExecuteRules(context.Background(), []ontology.RuleSpec{
		{Type: ontology.RuleMutateState, Statement: "update hp"},
		{Type: ontology.RuleMutateState, Statement: "boom"},
		{Type: ontology.RuleAppendEvent, SummaryTemplate: "the dust settles"},
	}, map[string]any{}, "ACT_ATTACK")

	if len(reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(reports))
	}
	if !reports[0].Success {
		t.Fatalf("rule 1 failed: %s", reports[0].Message)
	}
	if reports[1].Success {
		t.Fatal("rule 2 should have failed")
	}
	if !strings.Contains(reports[1].Message, "syntax error near boom") {
		t.Fatalf("rule 2 message = %q, want backend message", reports[1].Message)
	}
	if !reports[2].Success {
		t.Fatalf("rule 3 failed: %s", reports[2].Message)
	}
	if len(ledger.Records) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(ledger.Records))
	}
}

func TestMutateStateReportsAffectedCount(t *testing.T) {
	// The sqlite backend reports its count through a single rows_affected
	// row; backends returning plain data rows are counted directly.
	tests := []struct {
		name     string
		rows     []storage.Row
		affected int
	}{
		{"rows_affected column", []storage.Row{{"rows_affected": int64(3)}}, 3},
		{"plain rows fallback", []storage.Row{{"id": "a"}, {"id": "b"}}, 2},
		{"no rows", nil, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			router, objects, _, _ := newRouter()
			objects.WriteFunc = func(_ string, _ map[string]any) ([]storage.Row, error) {
				return test.rows, nil
			}

			reports := router.ExecuteRules(context.Background(), []ontology.RuleSpec{
				{Type: ontology.RuleMutateState, Statement: "update things"},
			}, map[string]any{"target": "npc-1"}, "ACT_X")

			if !reports[0].Success {
				t.Fatalf("report failed: %s", reports[0].Message)
			}
			if reports[0].Data["affected"] != test.affected {
				t.Fatalf("affected = %v, want %d", reports[0].Data["affected"], test.affected)
			}
			if len(objects.WriteParams) != 1 || objects.WriteParams[0]["target"] != "npc-1" {
				t.Fatalf("write params = %v, want bound context", objects.WriteParams)
			}
		})
	}
}

func TestAppendEventSafeDefaults(t *testing.T) {
	router, _, ledger, _ := newRouter()

	reports := router.ExecuteRules(context.Background(), []ontology.RuleSpec{
		{Type: ontology.RuleAppendEvent, SummaryTemplate: "{source} strikes {target} for {damage}"},
	}, map[string]any{}, "ACT_ATTACK")

	if !reports[0].Success {
		t.Fatalf("report failed: %s", reports[0].Message)
	}
	if len(ledger.Records) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(ledger.Records))
	}
	if got := ledger.Records[0].Summary; got != "actor strikes surroundings for 0" {
		t.Fatalf("summary = %q", got)
	}
	if ledger.Records[0].ActionID != "ACT_ATTACK" {
		t.Fatalf("record action = %s", ledger.Records[0].ActionID)
	}
}

func TestAppendEventSequentialRecordsAreDistinctAndImmutable(t *testing.T) {
	router, _, ledger, _ := newRouter()
	execCtx := map[string]any{"target": "bandit"}
	rule := []ontology.RuleSpec{{Type: ontology.RuleAppendEvent, SummaryTemplate: "hit {target}"}}

	first := router.ExecuteRules(context.Background(), rule, execCtx, "ACT_ATTACK")
	priorSummary := ledger.Records[0].Summary
	priorID := ledger.Records[0].ID

	second := router.ExecuteRules(context.Background(), rule, execCtx, "ACT_ATTACK")

	if first[0].Data["event_id"] == second[0].Data["event_id"] {
		t.Fatal("expected distinct ledger ids")
	}
	if ledger.Records[0].ID != priorID || ledger.Records[0].Summary != priorSummary {
		t.Fatal("prior ledger record changed")
	}
	if len(ledger.Records) != 2 {
		t.Fatalf("ledger has %d records, want 2", len(ledger.Records))
	}
}

func TestStoreMemoryTemplateResolution(t *testing.T) {
	router, _, _, memories := newRouter()

	reports := router.ExecuteRules(context.Background(), []ontology.RuleSpec{
		{
			Type:       ontology.RuleStoreMemory,
			EntityID:   "{target}",
			Content:    "saw {actor_name} flee",
			MemoryType: "observation",
		},
	}, map[string]any{"target": "npc-1", "actor_name": "hero"}, "ACT_FLEE")

	if !reports[0].Success {
		t.Fatalf("report failed: %s", reports[0].Message)
	}
	if len(memories.Memories) != 1 {
		t.Fatalf("stored %d memories, want 1", len(memories.Memories))
	}
	memory := memories.Memories[0]
	if memory.EntityID != "npc-1" || memory.Content != "saw hero flee" || memory.MemoryType != "observation" {
		t.Fatalf("memory = %+v", memory)
	}
}

func TestStoreMemorySingleVariableNonStringValue(t *testing.T) {
	// A single-variable content template carrying a non-string context
	// value resolves to its string form.
	router, _, _, memories := newRouter()

	reports := router.ExecuteRules(context.Background(), []ontology.RuleSpec{
		{Type: ontology.RuleStoreMemory, EntityID: "npc-1", Content: "{observation_text}", MemoryType: "event"},
	}, map[string]any{"observation_text": 42}, "ACT_X")

	if !reports[0].Success {
		t.Fatalf("report failed: %s", reports[0].Message)
	}
	if memories.Memories[0].Content != "42" {
		t.Fatalf("content = %q", memories.Memories[0].Content)
	}
}

func TestStoreMemoryDefaultsEntityIDFromContext(t *testing.T) {
	router, _, _, memories := newRouter()

	reports := router.ExecuteRules(context.Background(), []ontology.RuleSpec{
		{Type: ontology.RuleStoreMemory, Content: "something happened", MemoryType: "event"},
	}, map[string]any{"target_id": "npc-9"}, "ACT_X")

	if !reports[0].Success {
		t.Fatalf("report failed: %s", reports[0].Message)
	}
	if memories.Memories[0].EntityID != "npc-9" {
		t.Fatalf("entity id = %q, want npc-9", memories.Memories[0].EntityID)
	}
}

func TestStoreMemoryMissingFieldsFail(t *testing.T) {
	router, _, _, _ := newRouter()

	reports := router.ExecuteRules(context.Background(), []ontology.RuleSpec{
		{Type: ontology.RuleStoreMemory, Content: "orphan content"},
		{Type: ontology.RuleStoreMemory, EntityID: "npc-1"},
	}, map[string]any{}, "ACT_X")

	if reports[0].Success {
		t.Fatal("expected failure without entity_id")
	}
	if reports[1].Success {
		t.Fatal("expected failure without content")
	}
}

func TestRecordMetricAlwaysSucceeds(t *testing.T) {
	router, _, _, _ := newRouter()

	reports := router.ExecuteRules(context.Background(), []ontology.RuleSpec{
		{Type: ontology.RuleRecordMetric, MetricName: "attacks", Property: "count", Value: "1"},
	}, nil, "ACT_ATTACK")

	if !reports[0].Success {
		t.Fatalf("report failed: %s", reports[0].Message)
	}
}

func TestUnrecognizedRuleTypeFails(t *testing.T) {
	router, _, _, _ := newRouter()

	reports := router.ExecuteRules(context.Background(), []ontology.RuleSpec{
		{Type: ontology.RuleType("teleport_everyone")},
	}, nil, "ACT_X")

	if reports[0].Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(reports[0].Message, "teleport_everyone") {
		t.Fatalf("message = %q, want unknown type named", reports[0].Message)
	}
}

func TestPanickingHandlerIsIsolated(t *testing.T) {
	router, objects, _, _ := newRouter()
	objects.WriteFunc = func(_ string, _ map[string]any) ([]storage.Row, error) {
		panic("store driver bug")
	}

	reports := router.ExecuteRules(context.Background(), []ontology.RuleSpec{
		{Type: ontology.RuleMutateState, Statement: "update x"},
		{Type: ontology.RuleAppendEvent, SummaryTemplate: "still runs"},
	}, nil, "ACT_X")

	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Success {
		t.Fatal("panicking rule should report failure")
	}
	if !strings.Contains(reports[0].Message, "store driver bug") {
		t.Fatalf("message = %q", reports[0].Message)
	}
	if !reports[1].Success {
		t.Fatalf("second rule failed: %s", reports[1].Message)
	}
}
