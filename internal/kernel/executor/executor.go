// Package executor runs the validate/execute pipeline for a single action
// invocation.
//
// The pipeline is a fixed five-stage sequence with first-failure
// short-circuit: registry lookup, required-parameter validation,
// object-reference resolution, precondition check, then effect execution
// through the rule router. There is no compensation: effects that ran
// before a later rule failed stay applied.
package executor

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/hollowmere/internal/kernel/ontology"
	"github.com/louisbranch/hollowmere/internal/kernel/rules"
	"github.com/louisbranch/hollowmere/internal/kernel/storage"
	"github.com/louisbranch/hollowmere/internal/kernel/template"
	"github.com/louisbranch/hollowmere/internal/platform/errors"
)

var tracer = otel.Tracer("github.com/louisbranch/hollowmere/internal/kernel/executor")

// Result is the immutable outcome of one invocation.
type Result struct {
	Success        bool           `json:"success"`
	Code           errors.Code    `json:"code,omitempty"`
	Message        string         `json:"message"`
	ValidationData map[string]any `json:"validation_data,omitempty"`
	RuleReports    []rules.Report `json:"rule_reports,omitempty"`
}

// Executor validates and executes actions from the frozen registry.
type Executor struct {
	registry *ontology.Registry
	objects  storage.ObjectStore
	router   *rules.Router
}

// New creates an executor over a frozen action registry.
func New(registry *ontology.Registry, objects storage.ObjectStore, router *rules.Router) *Executor {
	return &Executor{registry: registry, objects: objects, router: router}
}

// Execute runs the pipeline for one action invocation. The first blocking
// phase decides the failure; no store call happens before its phase runs.
func (e *Executor) Execute(ctx context.Context, actionID string, params map[string]any) Result {
	ctx, span := tracer.Start(ctx, "executor.execute")
	defer span.End()
	span.SetAttributes(attribute.String("action.id", actionID))

	if params == nil {
		params = map[string]any{}
	}

	// Phase 0: lookup.
	definition, ok := e.registry.Lookup(actionID)
	if !ok {
		return failure(errors.CodeUnknownAction, fmt.Sprintf("unknown action %q", actionID))
	}

	// Phase 1: required parameters.
	for _, parameter := range definition.Parameters {
		if !parameter.Required {
			continue
		}
		if _, present := params[parameter.Name]; !present {
			return failure(errors.CodeMissingParameter,
				fmt.Sprintf("required parameter %q is missing", parameter.Name))
		}
	}

	// Phase 2: object-reference resolution.
	validationData := map[string]any{}
	for _, parameter := range definition.Parameters {
		if parameter.Type != ontology.ParameterObjectRef {
			continue
		}
		raw, present := params[parameter.Name]
		if !present {
			continue
		}
		entityID := fmt.Sprintf("%v", raw)
		entity, err := e.objects.Get(ctx, parameter.ObjectType, entityID)
		if err != nil {
			return failure(errors.CodeBackendError,
				fmt.Sprintf("resolve %s: %v", parameter.Name, err))
		}
		if entity == nil {
			return failure(errors.CodeObjectNotFound,
				fmt.Sprintf("%s %q not found", parameter.ObjectType, entityID))
		}
		validationData[parameter.Name+"_exists"] = true
		validationData[parameter.Name+"_name"] = entity.Name
	}

	// Phase 3: precondition.
	preconditionData, failed := e.checkPrecondition(ctx, definition, params)
	if failed != nil {
		failed.ValidationData = validationData
		return *failed
	}

	// Phase 4: effects.
	execCtx := make(map[string]any, len(params)+len(validationData)+len(preconditionData))
	for key, value := range params {
		execCtx[key] = value
	}
	for key, value := range validationData {
		execCtx[key] = value
	}
	for key, value := range preconditionData {
		execCtx[key] = value
		validationData[key] = value
	}

	reports := e.router.ExecuteRules(ctx, definition.Rules, execCtx, definition.ID)
	for _, report := range reports {
		if report.Success {
			continue
		}
		// Rules already executed are not rolled back; partial effects are
		// part of the contract.
		span.SetAttributes(attribute.Bool("action.success", false))
		return Result{
			Success:        false,
			Code:           errors.CodeRuleExecutionFailure,
			Message:        report.Message,
			ValidationData: validationData,
			RuleReports:    reports,
		}
	}

	narrativeCtx := make(map[string]any, len(params)+len(preconditionData))
	for key, value := range params {
		narrativeCtx[key] = value
	}
	for key, value := range preconditionData {
		narrativeCtx[key] = value
	}
	message := template.RenderLenient(definition.NarrativeTemplate, narrativeCtx)
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("action %s completed", definition.ID)
	}

	span.SetAttributes(attribute.Bool("action.success", true))
	return Result{
		Success:        true,
		Message:        message,
		ValidationData: validationData,
		RuleReports:    reports,
	}
}

// checkPrecondition gates effect execution on the definition's logic type.
// It returns extra validation data on pass, or the blocking result on fail.
func (e *Executor) checkPrecondition(ctx context.Context, definition ontology.ActionDefinition, params map[string]any) (map[string]any, *Result) {
	switch definition.Validation.LogicType {
	case ontology.LogicAlwaysAllow, "":
		return map[string]any{}, nil

	case ontology.LogicQueryCheck:
		rows, err := e.objects.RunQuery(ctx, definition.Validation.Statement, params)
		if err != nil {
			result := failure(errors.CodeBackendError, fmt.Sprintf("precondition query failed: %v", err))
			return nil, &result
		}
		if len(rows) == 0 {
			result := failure(errors.CodePreconditionFailed, preconditionMessage(definition))
			return nil, &result
		}
		first := rows[0]
		if raw, present := first["is_valid"]; present {
			if asBool(raw) {
				return map[string]any{}, nil
			}
			result := failure(errors.CodePreconditionFailed, preconditionMessage(definition))
			return nil, &result
		}
		data := make(map[string]any, len(first))
		for key, value := range first {
			data[key] = value
		}
		return data, nil

	default:
		// Unrecognized logic types pass through for forward compatibility
		// with ontologies authored against newer kernels.
		log.Printf("action %s: unrecognized validation logic type %q, allowing",
			definition.ID, definition.Validation.LogicType)
		return map[string]any{}, nil
	}
}

func preconditionMessage(definition ontology.ActionDefinition) string {
	if strings.TrimSpace(definition.Validation.ErrorMessage) != "" {
		return definition.Validation.ErrorMessage
	}
	return fmt.Sprintf("action %s precondition failed", definition.ID)
}

// asBool interprets a query-result truth value. SQLite has no boolean
// column type, so integer forms count as well.
func asBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case int64:
		return typed != 0
	case int:
		return typed != 0
	case float64:
		return typed != 0
	case string:
		return strings.EqualFold(typed, "true") || typed == "1"
	default:
		return false
	}
}

func failure(code errors.Code, message string) Result {
	return Result{
		Success:        false,
		Code:           code,
		Message:        message,
		ValidationData: map[string]any{},
		RuleReports:    []rules.Report{},
	}
}
