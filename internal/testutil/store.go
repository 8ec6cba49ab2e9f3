package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/snapkit/internal/store"
)

// MemStore is an in-memory snapshot store for tests.
//
// Data is the persisted mapping and Persisted reports whether an artifact
// exists. The *Err fields, when set, are returned by the matching method
// before it has any effect.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
// Read the exported fields only after the code under test is done.
type MemStore struct {
	mu sync.Mutex

	Data      store.Data
	Persisted bool

	Saves   int
	Removed bool

	LoadErr   error
	SaveErr   error
	ExistsErr error
	RemoveErr error
}

// Load returns a copy of Data, or an empty mapping when Data is nil.
// The result is never dirty.
func (m *MemStore) Load(ctx context.Context, path string) (store.Data, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadErr != nil {
		return nil, false, m.LoadErr
	}
	if m.Data == nil {
		return make(store.Data), false, nil
	}
	return m.Data.Clone(), false, nil
}

// Save replaces Data and marks the artifact persisted.
func (m *MemStore) Save(ctx context.Context, data store.Data, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Data = data.Clone()
	m.Persisted = true
	m.Saves++
	return nil
}

// Exists reports Persisted.
func (m *MemStore) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Persisted, m.ExistsErr
}

// Remove drops Data and records the removal.
func (m *MemStore) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.Removed = true
	m.Persisted = false
	m.Data = nil
	return nil
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
