package ontology

// ParameterType identifies how an action parameter value is interpreted.
type ParameterType string

const (
	// ParameterString is an opaque text value.
	ParameterString ParameterType = "string"
	// ParameterNumber is a numeric value.
	ParameterNumber ParameterType = "number"
	// ParameterBool is a boolean value.
	ParameterBool ParameterType = "bool"
	// ParameterObjectRef is a reference to an entity in the object store.
	ParameterObjectRef ParameterType = "object_ref"
)

// LogicType selects the precondition strategy for an action.
type LogicType string

const (
	// LogicAlwaysAllow skips the precondition check entirely.
	LogicAlwaysAllow LogicType = "always_allow"
	// LogicQueryCheck runs a read query and interprets its result.
	LogicQueryCheck LogicType = "query_check"
)

// RuleType routes an effect rule to its backend handler.
type RuleType string

const (
	// RuleMutateState executes a write statement against the object store.
	RuleMutateState RuleType = "mutate_state"
	// RuleAppendEvent appends one record to the event ledger.
	RuleAppendEvent RuleType = "append_event"
	// RuleStoreMemory stores one entry in the semantic memory store.
	RuleStoreMemory RuleType = "store_memory"
	// RuleRecordMetric logs a metric observation. Placeholder backend.
	RuleRecordMetric RuleType = "record_metric"
)

// ParameterDefinition describes one declared action parameter.
type ParameterDefinition struct {
	Name       string        `json:"name"`
	Type       ParameterType `json:"type"`
	Required   bool          `json:"required"`
	ObjectType string        `json:"object_type,omitempty"` // only for object_ref
}

// ValidationSpec describes the precondition gate for an action.
type ValidationSpec struct {
	LogicType    LogicType `json:"logic_type"`
	Statement    string    `json:"statement,omitempty"` // only for query_check
	ErrorMessage string    `json:"error_message,omitempty"`
}

// RuleSpec describes one effect rule. Only the fields for its type are set.
type RuleSpec struct {
	Type RuleType `json:"type"`

	// mutate_state
	Statement string `json:"statement,omitempty"`

	// append_event
	SummaryTemplate string `json:"summary_template,omitempty"`

	// store_memory
	EntityID   string `json:"entity_id,omitempty"`
	Content    string `json:"content,omitempty"`
	MemoryType string `json:"memory_type,omitempty"`

	// record_metric
	MetricName string `json:"metric_name,omitempty"`
	Property   string `json:"property,omitempty"`
	Value      string `json:"value,omitempty"`
}

// ActionDefinition is one fully described executable action. Definitions are
// values: callers receive copies and the registry never hands out shared
// mutable state.
type ActionDefinition struct {
	ID                string                `json:"id"`
	DisplayName       string                `json:"display_name"`
	Parameters        []ParameterDefinition `json:"parameters,omitempty"`
	Validation        ValidationSpec        `json:"validation"`
	Rules             []RuleSpec            `json:"rules,omitempty"`
	NarrativeTemplate string                `json:"narrative_template,omitempty"`
}

// IntentPattern maps trigger keywords in raw text to a candidate action.
type IntentPattern struct {
	ActionID       string   `json:"action_id"`
	Keywords       []string `json:"keywords"`
	RequiresTarget bool     `json:"requires_target"`
	TargetType     string   `json:"target_type,omitempty"`
}
