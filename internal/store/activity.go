package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Journal actions.
const (
	ActionComplete = "complete"
	ActionJump     = "jump"
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionReset    = "reset"
)

// Activity is one journaled learning action.
type Activity struct {
	Sequence  int64
	Action    string
	CourseKey string
	LessonID  string
	CreatedAt time.Time
}

// ActivityRepo is an append-only journal of learning actions.
type ActivityRepo interface {
	// Append stores a and returns it with Sequence and CreatedAt assigned.
	Append(ctx context.Context, a Activity) (Activity, error)

	// Recent returns up to limit entries, newest first. A limit of zero
	// or less yields no entries.
	Recent(ctx context.Context, limit int) ([]Activity, error)
}

// sequenceCounter hands out the journal's monotonic sequence numbers.
// The mutex serializes within the process; RETURNING makes the increment
// atomic in the database.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// activityRepo implements ActivityRepo on the learning_events table.
type activityRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *activityRepo) Append(ctx context.Context, a Activity) (Activity, error) {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return Activity{}, err
	}
	a.Sequence = seq
	a.CreatedAt = time.Now().UTC()

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(LearningEventsTable.Name).
		Columns(columnSequence, columnAction, columnCourseKey, columnLessonID, columnCreatedAt).
		Values(a.Sequence, a.Action, a.CourseKey, a.LessonID, a.CreatedAt).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return Activity{}, fmt.Errorf("save %s event: %w", a.Action, err)
	}
	return a, nil
}

func (r *activityRepo) Recent(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		return nil, nil
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Select(columnSequence, columnAction, columnCourseKey, columnLessonID, columnCreatedAt).
		From(entsql.Table(LearningEventsTable.Name)).
		OrderBy(entsql.Desc(columnSequence)).
		Limit(limit).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query learning events: %w", err)
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.Sequence, &a.Action, &a.CourseKey, &a.LessonID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan learning event: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MemoryJournal is an ActivityRepo that lives only as long as the process.
type MemoryJournal struct {
	mu      sync.Mutex
	next    int64
	entries []Activity
}

// NewMemoryJournal returns an empty MemoryJournal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{next: 1}
}

func (m *MemoryJournal) Append(_ context.Context, a Activity) (Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.Sequence = m.next
	a.CreatedAt = time.Now().UTC()
	m.next++
	m.entries = append(m.entries, a)
	return a, nil
}

func (m *MemoryJournal) Recent(_ context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Activity, 0, min(limit, len(m.entries)))
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}
