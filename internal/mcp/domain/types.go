// Package domain defines the MCP tool and resource surface for the action
// kernel: input/output payload types and the handlers that bind them to
// the kernel collaborators.
package domain

import (
	"time"

	"github.com/louisbranch/hollowmere/internal/kernel/intent"
	"github.com/louisbranch/hollowmere/internal/kernel/rules"
)

// IntentParseInput represents the MCP tool input for intent parsing.
type IntentParseInput struct {
	Text       string `json:"text" jsonschema:"raw player text to parse"`
	LocationID string `json:"location_id,omitempty" jsonschema:"optional location entity id anchoring the scene"`
}

// IntentParseResult represents the MCP tool output for intent parsing.
type IntentParseResult struct {
	ActionID   string         `json:"action_id" jsonschema:"resolved action identifier, UNKNOWN when unresolved"`
	Params     map[string]any `json:"params" jsonschema:"resolved action parameters"`
	Narrative  string         `json:"narrative" jsonschema:"short narration of the resolved intent"`
	Confidence float64        `json:"confidence" jsonschema:"resolution confidence between 0 and 1"`
}

// ActionExecuteInput represents the MCP tool input for action execution.
type ActionExecuteInput struct {
	ActionID string         `json:"action_id" jsonschema:"action identifier from the ontology"`
	Params   map[string]any `json:"params,omitempty" jsonschema:"action parameters keyed by parameter name"`
}

// RuleReportEntry is one effect rule outcome in an execution result.
type RuleReportEntry struct {
	Type    string         `json:"type" jsonschema:"effect rule type"`
	Success bool           `json:"success" jsonschema:"whether the rule applied"`
	Message string         `json:"message,omitempty" jsonschema:"failure detail when the rule did not apply"`
	Data    map[string]any `json:"data,omitempty" jsonschema:"rule-specific output data"`
}

// ActionExecuteResult represents the MCP tool output for action execution.
type ActionExecuteResult struct {
	Success        bool              `json:"success" jsonschema:"whether the action committed"`
	Code           string            `json:"code,omitempty" jsonschema:"failure code when the action did not commit"`
	Message        string            `json:"message" jsonschema:"narrative on success, failure detail otherwise"`
	ValidationData map[string]any    `json:"validation_data,omitempty" jsonschema:"data accumulated during validation"`
	RuleReports    []RuleReportEntry `json:"rule_reports,omitempty" jsonschema:"per-rule outcomes in declaration order"`
}

// EntityCreateInput represents the MCP tool input for entity creation.
type EntityCreateInput struct {
	Type       string         `json:"type" jsonschema:"entity type (npc, location, item, ...)"`
	Name       string         `json:"name" jsonschema:"display name"`
	ID         string         `json:"id,omitempty" jsonschema:"optional explicit id; generated when absent"`
	Attributes map[string]any `json:"attributes,omitempty" jsonschema:"free-form entity attributes"`
}

// EntityPayload is a readable entity representation.
type EntityPayload struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// EntityCreateResult represents the MCP tool output for entity creation.
type EntityCreateResult struct {
	Entity EntityPayload `json:"entity" jsonschema:"the created entity"`
}

// EntityRelateInput represents the MCP tool input for relating entities.
type EntityRelateInput struct {
	SourceID string `json:"source_id" jsonschema:"source entity id"`
	Relation string `json:"relation" jsonschema:"relation name (exit, contains, ...)"`
	TargetID string `json:"target_id" jsonschema:"target entity id"`
}

// EntityRelateResult represents the MCP tool output for relating entities.
type EntityRelateResult struct {
	SourceID string `json:"source_id"`
	Relation string `json:"relation"`
	TargetID string `json:"target_id"`
}

// EntityGetInput represents the MCP tool input for entity lookup.
type EntityGetInput struct {
	Type string `json:"type" jsonschema:"entity type"`
	ID   string `json:"id" jsonschema:"entity identifier"`
}

// EntityGetResult represents the MCP tool output for entity lookup.
type EntityGetResult struct {
	Found  bool           `json:"found" jsonschema:"whether the entity exists"`
	Entity *EntityPayload `json:"entity,omitempty" jsonschema:"the entity when found"`
}

// ActionListEntry is one readable action definition summary.
type ActionListEntry struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Parameters  []string `json:"parameters,omitempty"`
}

// ActionListPayload represents the MCP resource payload for the action list.
type ActionListPayload struct {
	Actions []ActionListEntry `json:"actions"`
}

// EventListEntry is one readable ledger record.
type EventListEntry struct {
	ID        string    `json:"id"`
	ActionID  string    `json:"action_id"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// EventListPayload represents the MCP resource payload for recent events.
type EventListPayload struct {
	Events []EventListEntry `json:"events"`
}

func intentToResult(parsed intent.Intent) IntentParseResult {
	return IntentParseResult{
		ActionID:   parsed.ActionID,
		Params:     parsed.Params,
		Narrative:  parsed.Narrative,
		Confidence: parsed.Confidence,
	}
}

func reportsToEntries(reports []rules.Report) []RuleReportEntry {
	if len(reports) == 0 {
		return nil
	}
	entries := make([]RuleReportEntry, 0, len(reports))
	for _, report := range reports {
		entries = append(entries, RuleReportEntry{
			Type:    string(report.Rule.Type),
			Success: report.Success,
			Message: report.Message,
			Data:    report.Data,
		})
	}
	return entries
}
