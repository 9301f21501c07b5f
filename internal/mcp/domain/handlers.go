package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/hollowmere/internal/kernel/executor"
	"github.com/louisbranch/hollowmere/internal/kernel/intent"
	"github.com/louisbranch/hollowmere/internal/kernel/storage"
)

// toolTimeout bounds one tool invocation end to end.
const toolTimeout = 30 * time.Second

// IntentParser resolves raw text against a scene.
type IntentParser interface {
	Parse(ctx context.Context, text string, scene intent.Scene) intent.Intent
}

// ActionRunner executes one validated action invocation.
type ActionRunner interface {
	Execute(ctx context.Context, actionID string, params map[string]any) executor.Result
}

// IntentParseHandler resolves player text into an action intent.
func IntentParseHandler(parser IntentParser, objects storage.ObjectStore) mcp.ToolHandlerFor[IntentParseInput, IntentParseResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input IntentParseInput) (*mcp.CallToolResult, IntentParseResult, error) {
		if strings.TrimSpace(input.Text) == "" {
			return nil, IntentParseResult{}, fmt.Errorf("text is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		scene, err := loadScene(runCtx, objects, input.LocationID)
		if err != nil {
			return nil, IntentParseResult{}, fmt.Errorf("load scene: %w", err)
		}

		parsed := parser.Parse(runCtx, input.Text, scene)
		return nil, intentToResult(parsed), nil
	}
}

// ActionExecuteHandler runs one action invocation through the kernel.
func ActionExecuteHandler(runner ActionRunner) mcp.ToolHandlerFor[ActionExecuteInput, ActionExecuteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ActionExecuteInput) (*mcp.CallToolResult, ActionExecuteResult, error) {
		if strings.TrimSpace(input.ActionID) == "" {
			return nil, ActionExecuteResult{}, fmt.Errorf("action_id is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		result := runner.Execute(runCtx, input.ActionID, input.Params)
		return nil, ActionExecuteResult{
			Success:        result.Success,
			Code:           string(result.Code),
			Message:        result.Message,
			ValidationData: result.ValidationData,
			RuleReports:    reportsToEntries(result.RuleReports),
		}, nil
	}
}

// EntityCreateHandler persists a new entity in the object store.
func EntityCreateHandler(objects storage.ObjectStore) mcp.ToolHandlerFor[EntityCreateInput, EntityCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EntityCreateInput) (*mcp.CallToolResult, EntityCreateResult, error) {
		if strings.TrimSpace(input.Type) == "" {
			return nil, EntityCreateResult{}, fmt.Errorf("type is required")
		}
		if strings.TrimSpace(input.Name) == "" {
			return nil, EntityCreateResult{}, fmt.Errorf("name is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		props := make(map[string]any, len(input.Attributes)+2)
		for key, value := range input.Attributes {
			props[key] = value
		}
		props["name"] = input.Name
		if strings.TrimSpace(input.ID) != "" {
			props["id"] = input.ID
		}

		entity, err := objects.Create(runCtx, input.Type, props)
		if err != nil {
			return nil, EntityCreateResult{}, fmt.Errorf("entity create failed: %w", err)
		}
		return nil, EntityCreateResult{Entity: entityToPayload(*entity)}, nil
	}
}

// EntityRelateHandler records a directed relation between two entities, so
// a host can wire scene graphs (exits, containment) through the tool
// surface instead of raw effect statements.
func EntityRelateHandler(objects storage.ObjectStore) mcp.ToolHandlerFor[EntityRelateInput, EntityRelateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EntityRelateInput) (*mcp.CallToolResult, EntityRelateResult, error) {
		if strings.TrimSpace(input.SourceID) == "" || strings.TrimSpace(input.Relation) == "" || strings.TrimSpace(input.TargetID) == "" {
			return nil, EntityRelateResult{}, fmt.Errorf("source_id, relation and target_id are required")
		}

		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		if err := objects.Relate(runCtx, input.SourceID, input.Relation, input.TargetID); err != nil {
			return nil, EntityRelateResult{}, fmt.Errorf("entity relate failed: %w", err)
		}
		return nil, EntityRelateResult{
			SourceID: input.SourceID,
			Relation: input.Relation,
			TargetID: input.TargetID,
		}, nil
	}
}

// EntityGetHandler looks one entity up by type and id.
func EntityGetHandler(objects storage.ObjectStore) mcp.ToolHandlerFor[EntityGetInput, EntityGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EntityGetInput) (*mcp.CallToolResult, EntityGetResult, error) {
		if strings.TrimSpace(input.Type) == "" || strings.TrimSpace(input.ID) == "" {
			return nil, EntityGetResult{}, fmt.Errorf("type and id are required")
		}

		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		entity, err := objects.Get(runCtx, input.Type, input.ID)
		if err != nil {
			return nil, EntityGetResult{}, fmt.Errorf("entity get failed: %w", err)
		}
		if entity == nil {
			return nil, EntityGetResult{Found: false}, nil
		}
		payload := entityToPayload(*entity)
		return nil, EntityGetResult{Found: true, Entity: &payload}, nil
	}
}

// loadScene hydrates the parse scene from the object store. An empty
// location id yields an empty scene, which the resolver accepts.
func loadScene(ctx context.Context, objects storage.ObjectStore, locationID string) (intent.Scene, error) {
	locationID = strings.TrimSpace(locationID)
	if locationID == "" {
		return intent.Scene{}, nil
	}

	location, err := objects.Get(ctx, "location", locationID)
	if err != nil {
		return intent.Scene{}, err
	}
	if location == nil {
		return intent.Scene{}, fmt.Errorf("location %q not found", locationID)
	}

	exits, err := objects.Related(ctx, "location", locationID, "exit")
	if err != nil {
		return intent.Scene{}, err
	}
	visible, err := objects.Related(ctx, "location", locationID, "contains")
	if err != nil {
		return intent.Scene{}, err
	}

	return intent.Scene{
		Location: *location,
		Exits:    exits,
		Visible:  visible,
	}, nil
}

func entityToPayload(entity storage.Entity) EntityPayload {
	return EntityPayload{
		ID:         entity.ID,
		Type:       entity.Type,
		Name:       entity.Name,
		Attributes: entity.Attributes,
	}
}
