// Package kernelfakes provides lightweight in-memory fakes of the kernel's
// collaborator ports for tests.
package kernelfakes

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/hollowmere/internal/kernel/storage"
)

// ObjectStore is an in-memory ObjectStore fake. Entities are keyed by
// type:id. Query and write behavior is programmable per test.
type ObjectStore struct {
	Entities map[string]storage.Entity

	// QueryFunc handles RunQuery when set; otherwise queries return no rows.
	QueryFunc func(statement string, params map[string]any) ([]storage.Row, error)
	// WriteFunc handles RunWrite when set; otherwise writes succeed with no rows.
	WriteFunc func(statement string, params map[string]any) ([]storage.Row, error)

	GetCalls    int
	Queries     []string
	Writes      []string
	WriteParams []map[string]any

	// Relations holds the directed triples recorded by Relate, in call
	// order with duplicates dropped.
	Relations []Relation
}

// Relation is one directed triple recorded by the ObjectStore fake.
type Relation struct {
	SourceID string
	Relation string
	TargetID string
}

// NewObjectStore constructs an ObjectStore fake with initialized state maps.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{Entities: make(map[string]storage.Entity)}
}

// Put seeds an entity.
func (s *ObjectStore) Put(entity storage.Entity) {
	s.Entities[entity.Type+":"+entity.ID] = entity
}

func (s *ObjectStore) Get(_ context.Context, entityType, id string) (*storage.Entity, error) {
	s.GetCalls++
	entity, ok := s.Entities[entityType+":"+id]
	if !ok {
		return nil, nil
	}
	return &entity, nil
}

func (s *ObjectStore) Create(_ context.Context, entityType string, props map[string]any) (*storage.Entity, error) {
	entity := storage.Entity{
		ID:         fmt.Sprintf("%s-%d", entityType, len(s.Entities)+1),
		Type:       entityType,
		Attributes: props,
	}
	if name, ok := props["name"].(string); ok {
		entity.Name = name
	}
	s.Entities[entity.Type+":"+entity.ID] = entity
	return &entity, nil
}

func (s *ObjectStore) Update(_ context.Context, entityType, id string, patch map[string]any) (*storage.Entity, error) {
	entity, ok := s.Entities[entityType+":"+id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if entity.Attributes == nil {
		entity.Attributes = make(map[string]any)
	}
	for key, value := range patch {
		entity.Attributes[key] = value
	}
	s.Entities[entityType+":"+id] = entity
	return &entity, nil
}

func (s *ObjectStore) Relate(_ context.Context, sourceID, relation, targetID string) error {
	for _, existing := range s.Relations {
		if existing.SourceID == sourceID && existing.Relation == relation && existing.TargetID == targetID {
			return nil
		}
	}
	s.Relations = append(s.Relations, Relation{SourceID: sourceID, Relation: relation, TargetID: targetID})
	return nil
}

func (s *ObjectStore) Related(_ context.Context, _, sourceID, relation string) ([]storage.Entity, error) {
	var related []storage.Entity
	for _, triple := range s.Relations {
		if triple.SourceID != sourceID || triple.Relation != relation {
			continue
		}
		for _, entity := range s.Entities {
			if entity.ID == triple.TargetID {
				related = append(related, entity)
				break
			}
		}
	}
	return related, nil
}

func (s *ObjectStore) RunQuery(_ context.Context, statement string, params map[string]any) ([]storage.Row, error) {
	s.Queries = append(s.Queries, statement)
	if s.QueryFunc != nil {
		return s.QueryFunc(statement, params)
	}
	return nil, nil
}

func (s *ObjectStore) RunWrite(_ context.Context, statement string, params map[string]any) ([]storage.Row, error) {
	s.Writes = append(s.Writes, statement)
	s.WriteParams = append(s.WriteParams, params)
	if s.WriteFunc != nil {
		return s.WriteFunc(statement, params)
	}
	return nil, nil
}

// EventLedger is an in-memory append-only ledger fake.
type EventLedger struct {
	Records []storage.EventRecord

	// AppendErr fails every append when set.
	AppendErr error
}

// NewEventLedger constructs an empty ledger fake.
func NewEventLedger() *EventLedger {
	return &EventLedger{}
}

func (l *EventLedger) Append(_ context.Context, record storage.EventRecord) (string, error) {
	if l.AppendErr != nil {
		return "", l.AppendErr
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	l.Records = append(l.Records, record)
	return record.ID, nil
}

// MemoryStore is an in-memory SemanticMemoryStore fake.
type MemoryStore struct {
	Memories []storage.Memory

	// StoreErr fails every store when set.
	StoreErr error
}

// NewMemoryStore constructs an empty memory store fake.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Store(_ context.Context, content, entityID, memoryType string) (string, error) {
	if m.StoreErr != nil {
		return "", m.StoreErr
	}
	memory := storage.Memory{
		ID:         fmt.Sprintf("mem-%d", len(m.Memories)+1),
		EntityID:   entityID,
		Content:    content,
		MemoryType: memoryType,
		CreatedAt:  time.Now().UTC(),
	}
	m.Memories = append(m.Memories, memory)
	return memory.ID, nil
}

// Completion is a programmable CompletionService fake.
type Completion struct {
	Output string
	Err    error
	Calls  int
}

func (c *Completion) Complete(_ context.Context, _, _ string) (string, error) {
	c.Calls++
	if c.Err != nil {
		return "", c.Err
	}
	return c.Output, nil
}
