package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"culiflow/internal/domain"
)

// Repo is the only component that touches persisted bytes. Every operation is
// atomic with respect to its one collection; there are no cross-collection
// transactions.
type Repo struct {
	DB *sql.DB
}

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// isUniqueViolation reports whether err is a primary-key/unique failure from
// the sqlite driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullableStringPtr(v *string) any {
	if v == nil {
		return nil
	}
	if *v == "" {
		return nil
	}
	return *v
}

func nullableIntPtr(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func marshalStringSlice(in []string) any {
	if in == nil {
		return nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil
	}
	return string(b)
}

func unmarshalStringSlice(in sql.NullString) []string {
	if !in.Valid || in.String == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(in.String), &out); err != nil {
		return []string{}
	}
	return out
}

const taskColumns = `id,title,type,concept,station,owner,priority,duration_minutes,due_at,status,definition_of_done,compliance_type,evidence_required,evidence_json,created_at,updated_at`

func scanTask(scan func(dest ...any) error) (domain.Task, error) {
	var t domain.Task
	var concept, station, owner, dueAt, dod, complianceType, evidence sql.NullString
	var duration sql.NullInt64
	var evidenceRequired int
	err := scan(&t.ID, &t.Title, &t.Type, &concept, &station, &owner, &t.Priority,
		&duration, &dueAt, &t.Status, &dod, &complianceType, &evidenceRequired, &evidence,
		&t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	if concept.Valid {
		t.Concept = &concept.String
	}
	if station.Valid {
		t.Station = &station.String
	}
	if owner.Valid {
		t.Owner = &owner.String
	}
	if duration.Valid {
		d := int(duration.Int64)
		t.DurationMinutes = &d
	}
	if dueAt.Valid {
		t.DueAt = &dueAt.String
	}
	if dod.Valid {
		t.DefinitionOfDone = &dod.String
	}
	if complianceType.Valid {
		t.ComplianceType = &complianceType.String
	}
	t.EvidenceRequired = evidenceRequired != 0
	t.Evidence = unmarshalStringSlice(evidence)
	return t, nil
}

func taskArgs(t domain.Task) []any {
	evidenceRequired := 0
	if t.EvidenceRequired {
		evidenceRequired = 1
	}
	return []any{
		t.ID, t.Title, t.Type, nullableStringPtr(t.Concept), nullableStringPtr(t.Station),
		nullableStringPtr(t.Owner), t.Priority, nullableIntPtr(t.DurationMinutes),
		nullableStringPtr(t.DueAt), t.Status, nullableStringPtr(t.DefinitionOfDone),
		nullableStringPtr(t.ComplianceType), evidenceRequired, marshalStringSlice(t.Evidence),
		t.CreatedAt, t.UpdatedAt,
	}
}

// InsertTask adds a new task and fails with ErrDuplicateKey if the id exists.
func (r Repo) InsertTask(ctx context.Context, t domain.Task) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO tasks(`+taskColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		taskArgs(t)...)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

// PutTask upserts a task by id.
func (r Repo) PutTask(ctx context.Context, t domain.Task) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO tasks(`+taskColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET title=excluded.title, type=excluded.type, concept=excluded.concept,
station=excluded.station, owner=excluded.owner, priority=excluded.priority,
duration_minutes=excluded.duration_minutes, due_at=excluded.due_at, status=excluded.status,
definition_of_done=excluded.definition_of_done, compliance_type=excluded.compliance_type,
evidence_required=excluded.evidence_required, evidence_json=excluded.evidence_json,
updated_at=excluded.updated_at`, taskArgs(t)...)
	return err
}

func (r Repo) GetTask(ctx context.Context, id string) (domain.Task, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=?`, id)
	return scanTask(row.Scan)
}

func (r Repo) listTasks(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r Repo) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return r.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at, id`)
}

func (r Repo) ListTasksByStatus(ctx context.Context, status string) ([]domain.Task, error) {
	return r.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE status=? ORDER BY created_at, id`, status)
}

func (r Repo) ListTasksByType(ctx context.Context, taskType string) ([]domain.Task, error) {
	return r.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE type=? ORDER BY created_at, id`, taskType)
}

func (r Repo) ListTasksByPriority(ctx context.Context, priority string) ([]domain.Task, error) {
	return r.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE priority=? ORDER BY created_at, id`, priority)
}

// ListTasksDueBetween queries the due index; bounds are inclusive RFC3339
// strings.
func (r Repo) ListTasksDueBetween(ctx context.Context, start, end string) ([]domain.Task, error) {
	return r.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE due_at IS NOT NULL AND due_at>=? AND due_at<=? ORDER BY due_at, id`, start, end)
}

func (r Repo) DeleteTask(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const eventColumns = `seq,id,ts,actor,action,task_id,payload_json`

func scanEvent(scan func(dest ...any) error) (domain.EventLogEntry, error) {
	var e domain.EventLogEntry
	var taskID sql.NullString
	var payload string
	err := scan(&e.Seq, &e.ID, &e.TS, &e.Actor, &e.Action, &taskID, &payload)
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	if err != nil {
		return e, err
	}
	if taskID.Valid {
		e.TaskID = &taskID.String
	}
	if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
		return e, err
	}
	return e, nil
}

// InsertEvent appends one entry to the log. The log is never updated or
// deleted; there is deliberately no UpdateEvent or DeleteEvent.
func (r Repo) InsertEvent(ctx context.Context, e domain.EventLogEntry) (int64, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx, `INSERT INTO events(id,ts,actor,action,task_id,payload_json) VALUES (?,?,?,?,?,?)`,
		e.ID, e.TS, e.Actor, e.Action, nullableStringPtr(e.TaskID), string(payload))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateKey
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r Repo) listEvents(ctx context.Context, query string, args ...any) ([]domain.EventLogEntry, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.EventLogEntry
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (r Repo) ListEvents(ctx context.Context) ([]domain.EventLogEntry, error) {
	return r.listEvents(ctx, `SELECT `+eventColumns+` FROM events ORDER BY seq`)
}

func (r Repo) ListEventsByTimeRange(ctx context.Context, start, end string) ([]domain.EventLogEntry, error) {
	return r.listEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE ts>=? AND ts<=? ORDER BY seq`, start, end)
}

func (r Repo) ListEventsByTask(ctx context.Context, taskID string) ([]domain.EventLogEntry, error) {
	return r.listEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE task_id=? ORDER BY seq`, taskID)
}

func (r Repo) ListEventsByAction(ctx context.Context, action string) ([]domain.EventLogEntry, error) {
	return r.listEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE action=? ORDER BY seq`, action)
}

// LatestEvents returns the newest entries first, capped at limit.
func (r Repo) LatestEvents(ctx context.Context, limit int) ([]domain.EventLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.listEvents(ctx, `SELECT `+eventColumns+` FROM events ORDER BY seq DESC LIMIT ?`, limit)
}

const summaryColumns = `date,missed_critical_json,missed_compliance_json,blockers_json,wins_json,risks_next_shift_json,generated_at,generated_by`

// PutSummary upserts the daily summary for its date. The reporting layer
// writes at most once per date; the store does not police that.
func (r Repo) PutSummary(ctx context.Context, s domain.DailySummary) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO summaries(`+summaryColumns+`) VALUES (?,?,?,?,?,?,?,?)
ON CONFLICT(date) DO UPDATE SET missed_critical_json=excluded.missed_critical_json,
missed_compliance_json=excluded.missed_compliance_json, blockers_json=excluded.blockers_json,
wins_json=excluded.wins_json, risks_next_shift_json=excluded.risks_next_shift_json,
generated_at=excluded.generated_at, generated_by=excluded.generated_by`,
		s.Date, marshalStringSlice(s.MissedCritical), marshalStringSlice(s.MissedCompliance),
		marshalStringSlice(s.Blockers), marshalStringSlice(s.Wins), marshalStringSlice(s.RisksNextShift),
		s.GeneratedAt, s.GeneratedBy)
	return err
}

func scanSummary(scan func(dest ...any) error) (domain.DailySummary, error) {
	var s domain.DailySummary
	var missedCritical, missedCompliance, blockers, wins, risks sql.NullString
	err := scan(&s.Date, &missedCritical, &missedCompliance, &blockers, &wins, &risks, &s.GeneratedAt, &s.GeneratedBy)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	if err != nil {
		return s, err
	}
	s.MissedCritical = unmarshalStringSlice(missedCritical)
	s.MissedCompliance = unmarshalStringSlice(missedCompliance)
	s.Blockers = unmarshalStringSlice(blockers)
	s.Wins = unmarshalStringSlice(wins)
	s.RisksNextShift = unmarshalStringSlice(risks)
	return s, nil
}

func (r Repo) GetSummary(ctx context.Context, date string) (domain.DailySummary, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM summaries WHERE date=?`, date)
	return scanSummary(row.Scan)
}

func (r Repo) ListSummaries(ctx context.Context) ([]domain.DailySummary, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+summaryColumns+` FROM summaries ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.DailySummary
	for rows.Next() {
		s, err := scanSummary(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
