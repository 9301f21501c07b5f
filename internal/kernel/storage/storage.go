// Package storage declares the collaborator ports the kernel executes
// against. Concrete backends live outside the kernel; the kernel only
// depends on these contracts.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Entity is an opaque handle owned by the object store. The kernel never
// mutates entities directly, only through effect rules.
type Entity struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Row is one result row from a store query.
type Row map[string]any

// EventRecord is one immutable entry appended to the event ledger.
type EventRecord struct {
	ID        string    `json:"id"`
	ActionID  string    `json:"action_id"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// Memory is one semantic memory entry associated with an entity.
type Memory struct {
	ID         string    `json:"id"`
	EntityID   string    `json:"entity_id"`
	Content    string    `json:"content"`
	MemoryType string    `json:"memory_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// ObjectStore persists entities and runs ontology-authored statements.
//
// Get returns nil (and no error) when the entity is absent; errors are
// reserved for backend failures. RunWrite statements come from trusted
// ontology authors and are executed verbatim; the kernel applies no
// sanitization to them.
type ObjectStore interface {
	Get(ctx context.Context, entityType, id string) (*Entity, error)
	Create(ctx context.Context, entityType string, props map[string]any) (*Entity, error)
	Update(ctx context.Context, entityType, id string, patch map[string]any) (*Entity, error)
	Relate(ctx context.Context, sourceID, relation, targetID string) error
	Related(ctx context.Context, entityType, id, relation string) ([]Entity, error)
	RunQuery(ctx context.Context, statement string, params map[string]any) ([]Row, error)
	RunWrite(ctx context.Context, statement string, params map[string]any) ([]Row, error)
}

// EventLedger appends immutable records in insertion order. Records are
// never updated or deleted once written.
type EventLedger interface {
	Append(ctx context.Context, record EventRecord) (string, error)
}

// SemanticMemoryStore stores free-text memory entries tagged by type.
type SemanticMemoryStore interface {
	Store(ctx context.Context, content, entityID, memoryType string) (string, error)
}

// CompletionService produces a completion for a prompt. Implementations
// enforce their own request timeout and surface timeouts as errors.
type CompletionService interface {
	Complete(ctx context.Context, prompt, model string) (string, error)
}
