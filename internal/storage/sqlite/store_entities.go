package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/hollowmere/internal/kernel/storage"
)

func encodeAttributes(attributes map[string]any) (string, error) {
	if len(attributes) == 0 {
		return "{}", nil
	}
	encoded, err := json.Marshal(attributes)
	if err != nil {
		return "", fmt.Errorf("marshal attributes: %w", err)
	}
	return string(encoded), nil
}

func decodeAttributes(value string) (map[string]any, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "{}" {
		return nil, nil
	}
	var attributes map[string]any
	if err := json.Unmarshal([]byte(value), &attributes); err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}
	return attributes, nil
}

// Get returns the entity with the given type and id, or nil when absent.
func (s *Store) Get(ctx context.Context, entityType, entityID string) (*storage.Entity, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, type, name, attributes
FROM entities
WHERE type = ? AND id = ?
`, entityType, entityID)

	entity, err := scanEntityRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entity: %w", err)
	}
	return &entity, nil
}

// Create persists a new entity. The id and name come from the props map
// when present; an absent id is generated.
func (s *Store) Create(ctx context.Context, entityType string, props map[string]any) (*storage.Entity, error) {
	if strings.TrimSpace(entityType) == "" {
		return nil, fmt.Errorf("entity type is required")
	}

	entity := storage.Entity{Type: entityType}
	attributes := make(map[string]any, len(props))
	for key, value := range props {
		switch key {
		case "id":
			entity.ID = fmt.Sprintf("%v", value)
		case "name":
			entity.Name = fmt.Sprintf("%v", value)
		default:
			attributes[key] = value
		}
	}
	if entity.ID == "" {
		generated, err := s.newID()
		if err != nil {
			return nil, fmt.Errorf("generate entity id: %w", err)
		}
		entity.ID = generated
	}
	if len(attributes) > 0 {
		entity.Attributes = attributes
	}

	encoded, err := encodeAttributes(attributes)
	if err != nil {
		return nil, err
	}
	now := toMillis(s.now())
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO entities (id, type, name, attributes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, entity.ID, entity.Type, entity.Name, encoded, now, now); err != nil {
		return nil, fmt.Errorf("create entity: %w", err)
	}

	return &entity, nil
}

// Update merges the patch into the stored entity and returns the result.
// A "name" key updates the display name; every other key lands in the
// attribute map.
func (s *Store) Update(ctx context.Context, entityType, entityID string, patch map[string]any) (*storage.Entity, error) {
	current, err := s.Get(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("update entity %s/%s: %w", entityType, entityID, storage.ErrNotFound)
	}

	attributes := make(map[string]any, len(current.Attributes)+len(patch))
	for key, value := range current.Attributes {
		attributes[key] = value
	}
	for key, value := range patch {
		if key == "name" {
			current.Name = fmt.Sprintf("%v", value)
			continue
		}
		attributes[key] = value
	}
	if len(attributes) > 0 {
		current.Attributes = attributes
	}

	encoded, err := encodeAttributes(attributes)
	if err != nil {
		return nil, err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
UPDATE entities
SET name = ?, attributes = ?, updated_at = ?
WHERE type = ? AND id = ?
`, current.Name, encoded, toMillis(s.now()), entityType, entityID); err != nil {
		return nil, fmt.Errorf("update entity: %w", err)
	}

	return current, nil
}

// Relate records a directed relation between two entities. Repeated calls
// with the same triple are idempotent.
func (s *Store) Relate(ctx context.Context, sourceID, relation, targetID string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT OR IGNORE INTO relations (source_id, relation, target_id, created_at)
VALUES (?, ?, ?, ?)
`, sourceID, relation, targetID, toMillis(s.now())); err != nil {
		return fmt.Errorf("relate entities: %w", err)
	}
	return nil
}

// Related returns the entities reachable from the source over the named
// relation, in insertion order.
func (s *Store) Related(ctx context.Context, entityType, entityID, relation string) ([]storage.Entity, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT e.id, e.type, e.name, e.attributes
FROM relations r
JOIN entities e ON e.id = r.target_id
WHERE r.source_id = ? AND r.relation = ?
ORDER BY r.created_at, e.id
`, entityID, relation)
	if err != nil {
		return nil, fmt.Errorf("query related entities: %w", err)
	}
	defer rows.Close()

	var entities []storage.Entity
	for rows.Next() {
		entity, err := scanEntityRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scan related entity: %w", err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate related entities: %w", err)
	}
	return entities, nil
}

func scanEntityRow(row *sql.Row) (storage.Entity, error) {
	var (
		entity        storage.Entity
		attributesRaw string
	)
	if err := row.Scan(&entity.ID, &entity.Type, &entity.Name, &attributesRaw); err != nil {
		return storage.Entity{}, err
	}
	attributes, err := decodeAttributes(attributesRaw)
	if err != nil {
		return storage.Entity{}, err
	}
	entity.Attributes = attributes
	return entity, nil
}

func scanEntityRows(rows *sql.Rows) (storage.Entity, error) {
	var (
		entity        storage.Entity
		attributesRaw string
	)
	if err := rows.Scan(&entity.ID, &entity.Type, &entity.Name, &attributesRaw); err != nil {
		return storage.Entity{}, err
	}
	attributes, err := decodeAttributes(attributesRaw)
	if err != nil {
		return storage.Entity{}, err
	}
	entity.Attributes = attributes
	return entity, nil
}
