package sqlite

import (
	"context"
	"fmt"

	"github.com/louisbranch/hollowmere/internal/kernel/storage"
)

// Append inserts one immutable record at the tail of the ledger and
// returns its id. Records are never updated or deleted.
func (s *Store) Append(ctx context.Context, record storage.EventRecord) (string, error) {
	if record.ID == "" {
		generated, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("generate event id: %w", err)
		}
		record.ID = generated
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now()
	}

	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO events (id, action_id, summary, created_at)
VALUES (?, ?, ?, ?)
`, record.ID, record.ActionID, record.Summary, toMillis(record.Timestamp)); err != nil {
		return "", fmt.Errorf("append event: %w", err)
	}

	return record.ID, nil
}

// RecentEvents returns up to limit records, newest first.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]storage.EventRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, action_id, summary, created_at
FROM events
ORDER BY seq DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var records []storage.EventRecord
	for rows.Next() {
		var (
			record    storage.EventRecord
			createdAt int64
		)
		if err := rows.Scan(&record.ID, &record.ActionID, &record.Summary, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		record.Timestamp = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}
