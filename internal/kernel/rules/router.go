// Package rules dispatches an action's effect rules to their backend
// handlers.
//
// The router runs every rule in list order and returns exactly one report
// per rule: a failing rule never aborts the batch, and no compensation is
// issued for rules that already ran. This is deliberately looser than the
// executor's overall policy, which treats any failed report as an action
// failure.
package rules

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/hollowmere/internal/kernel/ontology"
	"github.com/louisbranch/hollowmere/internal/kernel/storage"
	"github.com/louisbranch/hollowmere/internal/kernel/template"
	"github.com/louisbranch/hollowmere/internal/platform/id"
)

// Report is the outcome of one rule execution.
type Report struct {
	Rule    ontology.RuleSpec `json:"rule"`
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    map[string]any    `json:"data,omitempty"`
}

// Router executes effect rules against the backing stores.
type Router struct {
	objects  storage.ObjectStore
	ledger   storage.EventLedger
	memories storage.SemanticMemoryStore
	newID    func() (string, error)
}

// New creates a router over the given stores.
func New(objects storage.ObjectStore, ledger storage.EventLedger, memories storage.SemanticMemoryStore) *Router {
	return &Router{
		objects:  objects,
		ledger:   ledger,
		memories: memories,
		newID:    id.NewID,
	}
}

// ExecuteRules runs every rule in list order against the merged execution
// context. It always returns len(rules) reports; a rule's own failure or
// panic is converted to a local failure report without aborting the batch.
func (r *Router) ExecuteRules(ctx context.Context, ruleList []ontology.RuleSpec, execCtx map[string]any, actionID string) []Report {
	reports := make([]Report, 0, len(ruleList))
	for _, rule := range ruleList {
		reports = append(reports, r.executeOne(ctx, rule, execCtx, actionID))
	}
	return reports
}

func (r *Router) executeOne(ctx context.Context, rule ontology.RuleSpec, execCtx map[string]any, actionID string) (report Report) {
	report = Report{Rule: rule}
	defer func() {
		if recovered := recover(); recovered != nil {
			report.Success = false
			report.Message = fmt.Sprintf("rule handler panicked: %v", recovered)
			report.Data = nil
		}
	}()

	switch rule.Type {
	case ontology.RuleMutateState:
		return r.mutateState(ctx, rule, execCtx)
	case ontology.RuleAppendEvent:
		return r.appendEvent(ctx, rule, execCtx, actionID)
	case ontology.RuleStoreMemory:
		return r.storeMemory(ctx, rule, execCtx)
	case ontology.RuleRecordMetric:
		return r.recordMetric(rule, execCtx)
	default:
		report.Message = fmt.Sprintf("unrecognized rule type %q", rule.Type)
		return report
	}
}

// mutateState executes the rule statement as a write bound to the execution
// context. Statements come from trusted ontology authors and run verbatim.
func (r *Router) mutateState(ctx context.Context, rule ontology.RuleSpec, execCtx map[string]any) Report {
	report := Report{Rule: rule}
	if strings.TrimSpace(rule.Statement) == "" {
		report.Message = "mutate_state rule has no statement"
		return report
	}
	rows, err := r.objects.RunWrite(ctx, rule.Statement, execCtx)
	if err != nil {
		report.Message = fmt.Sprintf("state mutation failed: %v", err)
		return report
	}
	affected := affectedCount(rows)
	report.Success = true
	report.Message = fmt.Sprintf("state mutated, %d rows affected", affected)
	report.Data = map[string]any{"affected": affected}
	return report
}

// affectedCount reads the count a write backend reports through its
// rows_affected column. Backends that return plain data rows instead are
// counted directly.
func affectedCount(rows []storage.Row) int {
	if len(rows) == 1 {
		switch value := rows[0]["rows_affected"].(type) {
		case int64:
			return int(value)
		case int:
			return value
		case float64:
			return int(value)
		}
	}
	return len(rows)
}

// appendEvent renders the summary template and appends one immutable record
// to the ledger. Commonly missing keys get safe defaults so an incomplete
// context still yields a readable summary.
func (r *Router) appendEvent(ctx context.Context, rule ontology.RuleSpec, execCtx map[string]any, actionID string) Report {
	report := Report{Rule: rule}

	renderCtx := make(map[string]any, len(execCtx)+3)
	for key, value := range execCtx {
		renderCtx[key] = value
	}
	for key, fallback := range map[string]any{
		"target":      "surroundings",
		"target_name": "surroundings",
		"source":      "actor",
		"source_name": "actor",
		"damage":      0,
	} {
		if _, ok := renderCtx[key]; !ok {
			renderCtx[key] = fallback
		}
	}
	summary := template.RenderLenient(rule.SummaryTemplate, renderCtx)

	recordID, err := r.newID()
	if err != nil {
		report.Message = fmt.Sprintf("generate event id: %v", err)
		return report
	}
	storedID, err := r.ledger.Append(ctx, storage.EventRecord{
		ID:       recordID,
		ActionID: actionID,
		Summary:  summary,
	})
	if err != nil {
		report.Message = fmt.Sprintf("append event failed: %v", err)
		return report
	}
	report.Success = true
	report.Message = "event appended"
	report.Data = map[string]any{"event_id": storedID, "summary": summary}
	return report
}

// storeMemory resolves entity_id and content, which may themselves be {var}
// templates, and stores one memory entry.
func (r *Router) storeMemory(ctx context.Context, rule ontology.RuleSpec, execCtx map[string]any) Report {
	report := Report{Rule: rule}

	entityID := resolveField(rule.EntityID, execCtx)
	content := resolveField(rule.Content, execCtx)
	if entityID == "" {
		entityID = contextString(execCtx, "target_id")
	}
	if entityID == "" {
		entityID = contextString(execCtx, "target")
	}
	if entityID == "" {
		report.Message = "store_memory rule resolved no entity_id"
		return report
	}
	if content == "" {
		report.Message = "store_memory rule resolved no content"
		return report
	}

	memoryID, err := r.memories.Store(ctx, content, entityID, rule.MemoryType)
	if err != nil {
		report.Message = fmt.Sprintf("store memory failed: %v", err)
		return report
	}
	report.Success = true
	report.Message = "memory stored"
	report.Data = map[string]any{"memory_id": memoryID}
	return report
}

// recordMetric is a reserved seam for a future telemetry backend. It logs
// the observation and always succeeds; it must never block the pipeline.
func (r *Router) recordMetric(rule ontology.RuleSpec, execCtx map[string]any) Report {
	log.Printf("metric %s entity=%s property=%s value=%s",
		rule.MetricName, contextString(execCtx, "target_id"), rule.Property, rule.Value)
	return Report{
		Rule:    rule,
		Success: true,
		Message: fmt.Sprintf("metric %s recorded", rule.MetricName),
	}
}

// resolveField interpolates a rule field that may be a {var} template. When
// strict interpolation fails and the field is a single bare variable, the
// value is read straight from the context instead.
func resolveField(field string, execCtx map[string]any) string {
	if field == "" {
		return ""
	}
	rendered, err := template.Render(field, execCtx)
	if err == nil {
		return rendered
	}
	names := template.VariableNames(field)
	if len(names) == 1 {
		if value, ok := execCtx[names[0]]; ok {
			return fmt.Sprintf("%v", value)
		}
	}
	return ""
}

func contextString(execCtx map[string]any, key string) string {
	value, ok := execCtx[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", value)
}
