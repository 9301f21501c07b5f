package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/hollowmere/internal/kernel/storage"
)

// Store saves one semantic memory entry and returns its id.
func (s *Store) Store(ctx context.Context, content, entityID, memoryType string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("memory content is required")
	}
	if memoryType == "" {
		memoryType = "general"
	}

	memoryID, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate memory id: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO memories (id, entity_id, content, memory_type, created_at)
VALUES (?, ?, ?, ?, ?)
`, memoryID, entityID, content, memoryType, toMillis(s.now())); err != nil {
		return "", fmt.Errorf("store memory: %w", err)
	}

	return memoryID, nil
}

// MemoriesFor returns the memories tagged to an entity, newest first.
func (s *Store) MemoriesFor(ctx context.Context, entityID string) ([]storage.Memory, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, entity_id, content, memory_type, created_at
FROM memories
WHERE entity_id = ?
ORDER BY created_at DESC, id
`, entityID)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer rows.Close()

	var memories []storage.Memory
	for rows.Next() {
		var (
			memory    storage.Memory
			createdAt int64
		)
		if err := rows.Scan(&memory.ID, &memory.EntityID, &memory.Content, &memory.MemoryType, &createdAt); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		memory.CreatedAt = fromMillis(createdAt)
		memories = append(memories, memory)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memories: %w", err)
	}
	return memories, nil
}
