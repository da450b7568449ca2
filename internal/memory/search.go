package memory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Search performs a full-text search over a user's memories, most relevant
// first.
func (s *Store) Search(ctx context.Context, query, userID string) ([]*Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.user_id, m.kind, m.content, m.weight, m.use_count, m.last_used, m.created_at
		FROM memories m
		JOIN memories_fts fts ON m.rowid = fts.rowid
		WHERE memories_fts MATCH ? AND m.user_id = ?
		ORDER BY rank
	`, ftsQuery(query), userID)
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

// List returns a user's most recent memories up to the specified limit,
// optionally filtered by kind (empty kind returns all).
func (s *Store) List(ctx context.Context, userID string, kind Kind, limit int) ([]*Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows *sql.Rows
	var err error
	if kind == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, user_id, kind, content, weight, use_count, last_used, created_at
			FROM memories WHERE user_id = ?
			ORDER BY created_at DESC LIMIT ?
		`, userID, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, user_id, kind, content, weight, use_count, last_used, created_at
			FROM memories WHERE user_id = ? AND kind = ?
			ORDER BY created_at DESC LIMIT ?
		`, userID, string(kind), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

// StyleProfile assembles the user's writing-style guidance from stored style
// memories, newest first. Returns an empty string when nothing is stored yet.
func (s *Store) StyleProfile(ctx context.Context, userID string) (string, error) {
	samples, err := s.List(ctx, userID, KindStyle, 5)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, m := range samples {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

// ftsQuery quotes each term so user punctuation cannot break FTS5 syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, "") + `"`
	}
	return strings.Join(terms, " ")
}

func scanMemories(rows *sql.Rows) ([]*Memory, error) {
	var memories []*Memory
	for rows.Next() {
		m, err := scanMemory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memories: %w", err)
	}
	return memories, nil
}
