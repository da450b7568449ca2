// Package memory provides the SQLite-backed long-term memory and preference
// store: facts about the user's contacts and business, saved preferences,
// and writing-style samples learned from sent email.
package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Kind categorizes a stored memory.
type Kind string

const (
	KindFact       Kind = "fact"
	KindPreference Kind = "preference"
	KindStyle      Kind = "style"
)

// Memory is one stored item of long-term knowledge.
type Memory struct {
	ID        string
	UserID    string
	Kind      Kind
	Content   string
	Weight    float64
	UseCount  int
	LastUsed  time.Time
	CreatedAt time.Time
}

// Store provides SQLite-backed storage for memories.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// DefaultDBPath returns the path to the memory database.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "voxmail", "memory.db")
}

// NewStore creates a Store with the given database path, creating parent
// directories if they don't exist.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Store{db: conn, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// Save inserts or replaces a memory, assigning an ID if needed.
func (s *Store) Save(m *Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.Weight == 0 {
		m.Weight = 1.0
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO memories
			(id, user_id, kind, content, weight, use_count, last_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.UserID, string(m.Kind), m.Content, m.Weight, m.UseCount,
		nullTime(m.LastUsed), formatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("save memory: %w", err)
	}
	return nil
}

// Get retrieves a memory by ID. Returns nil if not found.
func (s *Store) Get(id string) (*Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, user_id, kind, content, weight, use_count, last_used, created_at
		FROM memories WHERE id = ?
	`, id)

	m, err := scanMemory(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", err)
	}
	return m, nil
}

// Delete removes a memory by ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM memories WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	return nil
}

// Touch records a use of the memory, bumping its use count.
func (s *Store) Touch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE memories SET use_count = use_count + 1, last_used = ? WHERE id = ?
	`, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("touch memory: %w", err)
	}
	return nil
}

func scanMemory(scan func(...any) error) (*Memory, error) {
	var m Memory
	var kind, createdAt string
	var lastUsed sql.NullString

	err := scan(&m.ID, &m.UserID, &kind, &m.Content, &m.Weight, &m.UseCount, &lastUsed, &createdAt)
	if err != nil {
		return nil, err
	}

	m.Kind = Kind(kind)
	if lastUsed.Valid {
		m.LastUsed, _ = parseTime(lastUsed.String)
	}
	m.CreatedAt, _ = parseTime(createdAt)
	return &m, nil
}

// Helper functions

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}
