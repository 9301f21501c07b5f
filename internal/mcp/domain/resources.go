package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/hollowmere/internal/kernel/ontology"
	"github.com/louisbranch/hollowmere/internal/kernel/storage"
)

const recentEventLimit = 20

// EventSource reads recent ledger records.
type EventSource interface {
	RecentEvents(ctx context.Context, limit int) ([]storage.EventRecord, error)
}

// ActionListResource describes the readable action catalog.
func ActionListResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         "actions://list",
		Name:        "action-list",
		Description: "All action definitions in the loaded ontology",
		MIMEType:    "application/json",
	}
}

// ActionListResourceHandler serves the action catalog from the frozen
// registry.
func ActionListResourceHandler(registry *ontology.Registry) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if registry == nil {
			return nil, fmt.Errorf("action registry is not configured")
		}

		payload := ActionListPayload{}
		for _, actionID := range registry.ActionIDs() {
			definition, ok := registry.Lookup(actionID)
			if !ok {
				continue
			}
			entry := ActionListEntry{
				ID:          definition.ID,
				DisplayName: definition.DisplayName,
			}
			for _, parameter := range definition.Parameters {
				entry.Parameters = append(entry.Parameters, parameter.Name)
			}
			payload.Actions = append(payload.Actions, entry)
		}

		return resourceResult(req, payload, "marshal action list")
	}
}

// RecentEventsResource describes the readable event ledger tail.
func RecentEventsResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         "events://recent",
		Name:        "recent-events",
		Description: "The most recent committed event records, newest first",
		MIMEType:    "application/json",
	}
}

// RecentEventsResourceHandler serves the tail of the event ledger.
func RecentEventsResourceHandler(events EventSource) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if events == nil {
			return nil, fmt.Errorf("event source is not configured")
		}

		records, err := events.RecentEvents(ctx, recentEventLimit)
		if err != nil {
			return nil, fmt.Errorf("recent events failed: %w", err)
		}

		payload := EventListPayload{}
		for _, record := range records {
			payload.Events = append(payload.Events, EventListEntry{
				ID:        record.ID,
				ActionID:  record.ActionID,
				Summary:   record.Summary,
				Timestamp: record.Timestamp,
			})
		}

		return resourceResult(req, payload, "marshal event list")
	}
}

func resourceResult(req *mcp.ReadResourceRequest, payload any, marshalContext string) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", marshalContext, err)
	}

	uri := ""
	if req != nil && req.Params != nil {
		uri = req.Params.URI
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
