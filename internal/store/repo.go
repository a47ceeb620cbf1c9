package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// StateRepo is a key/value medium for serialized state blobs.
type StateRepo interface {
	// Get returns the value stored under key, or nil if none exists.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// stateRepo implements StateRepo on the user_state_entries table.
type stateRepo struct {
	db *sql.DB
}

func (r *stateRepo) Get(ctx context.Context, key string) ([]byte, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(columnValue).
		From(entsql.Table(StateEntriesTable.Name)).
		Where(entsql.EQ(columnKey, key)).
		Query()

	var value string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query state %q: %w", key, err)
	}
	return []byte(value), nil
}

func (r *stateRepo) Put(ctx context.Context, key string, value []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(StateEntriesTable.Name).
		Columns(columnKey, columnValue, columnUpdatedAt).
		Values(key, string(value), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns(columnKey),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save state %q: %w", key, err)
	}
	return nil
}

func (r *stateRepo) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(StateEntriesTable.Name).
		Where(entsql.EQ(columnKey, key)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	return nil
}

// MemoryRepo is a StateRepo that lives only as long as the process.
// It backs the store when no persistence medium is available.
type MemoryRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemoryRepo returns an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{entries: make(map[string][]byte)}
}

func (m *MemoryRepo) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryRepo) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
