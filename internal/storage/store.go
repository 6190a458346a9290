package storage

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "modernc.org/sqlite"
)

// CachedDescription is a cached generation result.
type CachedDescription struct {
	Description string
	Model       string
}

// DescriptionStore defines the interface for description cache persistence.
type DescriptionStore interface {
	// GetDescription returns the cached entry for a request hash, or
	// nil, nil when there is none.
	GetDescription(hash string) (*CachedDescription, error)
	// SetDescription stores or replaces the entry for a request hash.
	SetDescription(hash string, entry *CachedDescription) error
	Close() error
}

// SQLiteStore implements DescriptionStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based description store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Configure SQLite with WAL mode and busy timeout for better concurrency
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set file permissions (only works on creation)
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		// Ignore error if file doesn't exist yet
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS description_cache (
		image_hash TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

// GetDescription retrieves a cached description by request hash.
// Returns nil, nil if no cache entry exists.
func (s *SQLiteStore) GetDescription(hash string) (*CachedDescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry CachedDescription
	var model sql.NullString
	err := s.db.QueryRow(
		"SELECT description, model FROM description_cache WHERE image_hash = ?",
		hash,
	).Scan(&entry.Description, &model)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query description cache: %w", err)
	}

	entry.Model = model.String

	return &entry, nil
}

// SetDescription stores a description in the cache.
func (s *SQLiteStore) SetDescription(hash string, entry *CachedDescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO description_cache (image_hash, description, model)
		VALUES (?, ?, ?)
		ON CONFLICT(image_hash) DO UPDATE SET
			description = excluded.description,
			model = excluded.model,
			created_at = CURRENT_TIMESTAMP
	`, hash, entry.Description, entry.Model)

	if err != nil {
		return fmt.Errorf("failed to cache description: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
