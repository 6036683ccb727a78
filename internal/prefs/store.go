// Package prefs persists the user's language choice across runs.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/ziadkadry99/dennischat/internal/db"
)

// LangKey is the preferences row holding the last chosen language.
const LangKey = "lang"

// Store persists the last chosen language.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Load returns the stored language, or "" when none has been saved.
func (s *Store) Load(ctx context.Context) (string, error) {
	return s.Get(ctx, LangKey)
}

// Save records lang as the preferred language.
func (s *Store) Save(ctx context.Context, lang string) error {
	return s.Set(ctx, LangKey, lang)
}

// Get returns the value stored under key, or "" if absent.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading preference %q: %w", key, err)
	}
	return value, nil
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing preference %q: %w", key, err)
	}
	return nil
}

// Memory is a process-local preference store for tests and ephemeral runs.
type Memory struct {
	mu    sync.Mutex
	lang  string
	saves int
}

// NewMemory returns a Memory store seeded with lang.
func NewMemory(lang string) *Memory {
	return &Memory{lang: lang}
}

func (m *Memory) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lang, nil
}

func (m *Memory) Save(ctx context.Context, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lang = lang
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
