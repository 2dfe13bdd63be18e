package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"culiflow/internal/domain"
	"culiflow/internal/repo"
)

// Log is the append-only audit trail. Append assigns ids and logical
// timestamps; entries are never mutated or removed afterwards, so the log
// keeps the only record of retired task states via the payload snapshots.
type Log struct {
	Repo repo.Repo
	Now  func() time.Time

	mu     sync.Mutex
	lastTS string
}

func New(r repo.Repo) *Log {
	return &Log{Repo: r, Now: time.Now}
}

// Append assigns a unique id and the current logical timestamp, then inserts.
// Timestamps are clamped to be non-decreasing across the process lifetime
// even if the wall clock steps backwards.
func (l *Log) Append(ctx context.Context, actor, action string, taskID *string, payload domain.Payload) (domain.EventLogEntry, error) {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	l.mu.Lock()
	ts := now().UTC().Format(time.RFC3339Nano)
	if l.lastTS != "" && ts < l.lastTS {
		ts = l.lastTS
	}
	l.lastTS = ts
	l.mu.Unlock()

	e := domain.EventLogEntry{
		ID:      "evt-" + uuid.New().String(),
		TS:      ts,
		Actor:   actor,
		Action:  action,
		TaskID:  taskID,
		Payload: payload,
	}
	seq, err := l.Repo.InsertEvent(ctx, e)
	if err != nil {
		return e, err
	}
	e.Seq = seq
	return e, nil
}

func (l *Log) All(ctx context.Context) ([]domain.EventLogEntry, error) {
	return l.Repo.ListEvents(ctx)
}

// ByTimeRange returns entries with start <= ts <= end, string comparison.
func (l *Log) ByTimeRange(ctx context.Context, start, end string) ([]domain.EventLogEntry, error) {
	return l.Repo.ListEventsByTimeRange(ctx, start, end)
}

func (l *Log) ByTask(ctx context.Context, taskID string) ([]domain.EventLogEntry, error) {
	return l.Repo.ListEventsByTask(ctx, taskID)
}

func (l *Log) ByAction(ctx context.Context, action string) ([]domain.EventLogEntry, error) {
	return l.Repo.ListEventsByAction(ctx, action)
}
