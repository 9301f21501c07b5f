// Package service hosts the kernel MCP server: it binds the domain tool
// and resource handlers to the kernel collaborators and serves them over
// stdio.
package service

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/hollowmere/internal/kernel/ontology"
	"github.com/louisbranch/hollowmere/internal/kernel/storage"
	"github.com/louisbranch/hollowmere/internal/mcp/domain"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Hollowmere Action Kernel"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Deps are the kernel collaborators the MCP surface is bound to.
type Deps struct {
	Registry *ontology.Registry
	Parser   domain.IntentParser
	Runner   domain.ActionRunner
	Objects  storage.ObjectStore
	Events   domain.EventSource
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server bound to the kernel.
func New(deps Deps) (*Server, error) {
	if deps.Registry == nil {
		return nil, fmt.Errorf("action registry is required")
	}
	if deps.Parser == nil {
		return nil, fmt.Errorf("intent parser is required")
	}
	if deps.Runner == nil {
		return nil, fmt.Errorf("action runner is required")
	}
	if deps.Objects == nil {
		return nil, fmt.Errorf("object store is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "intent_parse",
		Description: "Parses raw player text into an action intent against a scene",
	}, domain.IntentParseHandler(deps.Parser, deps.Objects))

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "action_execute",
		Description: "Validates and executes one action invocation",
	}, domain.ActionExecuteHandler(deps.Runner))

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "entity_create",
		Description: "Creates an entity in the object store",
	}, domain.EntityCreateHandler(deps.Objects))

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "entity_relate",
		Description: "Records a directed relation between two entities",
	}, domain.EntityRelateHandler(deps.Objects))

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "entity_get",
		Description: "Looks up an entity by type and id",
	}, domain.EntityGetHandler(deps.Objects))

	mcpServer.AddResource(domain.ActionListResource(), domain.ActionListResourceHandler(deps.Registry))
	if deps.Events != nil {
		mcpServer.AddResource(domain.RecentEventsResource(), domain.RecentEventsResourceHandler(deps.Events))
	}

	return &Server{mcpServer: mcpServer}, nil
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
