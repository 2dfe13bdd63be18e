package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"culiflow/internal/config"
	"culiflow/internal/domain"
	"culiflow/internal/events"
	"culiflow/internal/parser"
	"culiflow/internal/repo"
)

// Engine is the only sanctioned mutation path: every operation performs
// exactly one store write followed by exactly one event log append, in that
// order. Nothing spans the pair transactionally; a crash in between leaves a
// persisted mutation without its audit entry. That gap is accepted, not
// silently corrected.
type Engine struct {
	Repo   repo.Repo
	Log    *events.Log
	Parser *parser.Parser
	Config *config.Config
	Now    func() time.Time
}

func New(r repo.Repo, cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{
		Repo:   r,
		Log:    events.New(r),
		Parser: cfg.NewParser(),
		Config: cfg,
		Now:    time.Now,
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) nowRFC3339() string {
	return e.now().UTC().Format(time.RFC3339)
}

// TaskCreateOptions are the parameters for creating a task; unset fields fall
// back to quick-add defaults (type prep, priority medium, status backlog).
type TaskCreateOptions struct {
	ID               string
	Title            string
	Type             string
	Concept          *string
	Station          *string
	Owner            *string
	Priority         string
	DurationMinutes  *int
	DueAt            *string
	DefinitionOfDone *string
	ComplianceType   *string
	Actor            string
}

func (e *Engine) CreateTask(ctx context.Context, opts TaskCreateOptions) (domain.Task, error) {
	if opts.Title == "" {
		return domain.Task{}, errors.New("title is required")
	}
	if opts.Type == "" {
		opts.Type = domain.TypePrep
	}
	if opts.Priority == "" {
		opts.Priority = domain.PriorityMedium
	}
	id := opts.ID
	if id == "" {
		id = "task-" + uuid.New().String()
	}
	now := e.nowRFC3339()
	t := domain.Task{
		ID:               id,
		Title:            opts.Title,
		Type:             opts.Type,
		Concept:          opts.Concept,
		Station:          opts.Station,
		Owner:            opts.Owner,
		Priority:         opts.Priority,
		DurationMinutes:  opts.DurationMinutes,
		DueAt:            opts.DueAt,
		Status:           domain.StatusBacklog,
		DefinitionOfDone: opts.DefinitionOfDone,
		ComplianceType:   opts.ComplianceType,
		// Evidence is required exactly when a compliance tag was present at
		// creation; the store never re-derives this later.
		EvidenceRequired: opts.ComplianceType != nil,
		Evidence:         []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := e.Repo.InsertTask(ctx, t); err != nil {
		return domain.Task{}, err
	}
	if _, err := e.Log.Append(ctx, opts.Actor, domain.ActionTaskCreated, &t.ID, domain.Payload{Task: &t}); err != nil {
		return t, err
	}
	return t, nil
}

// QuickAdd parses one line of free text and creates the resulting task. The
// first concept tag becomes the task concept, the first compliance tag its
// compliance type.
func (e *Engine) QuickAdd(ctx context.Context, raw, actor string) (domain.Task, error) {
	d := e.Parser.Parse(raw)
	opts := TaskCreateOptions{
		Title:           d.Title,
		Owner:           d.Owner,
		Station:         d.Station,
		DurationMinutes: d.Duration,
		DueAt:           d.Due,
		Actor:           actor,
	}
	if opts.Title == "" {
		opts.Title = raw
	}
	if d.Type != nil {
		opts.Type = *d.Type
	}
	if d.Priority != nil {
		opts.Priority = *d.Priority
	}
	if len(d.ConceptTags) > 0 {
		opts.Concept = &d.ConceptTags[0]
	}
	if len(d.ComplianceTags) > 0 {
		opts.ComplianceType = &d.ComplianceTags[0]
	}
	return e.CreateTask(ctx, opts)
}

// UpdateTask upserts the full record and logs the change. Status moves are
// expected to walk forward through the lifecycle but the store does not
// enforce that.
func (e *Engine) UpdateTask(ctx context.Context, t domain.Task, actor string) (domain.Task, error) {
	old, err := e.Repo.GetTask(ctx, t.ID)
	if err != nil {
		return t, err
	}
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = e.nowRFC3339()
	if err := e.Repo.PutTask(ctx, t); err != nil {
		return t, err
	}
	action := domain.ActionStatusChanged
	if old.Status != domain.StatusDone && t.Status == domain.StatusDone {
		action = domain.ActionTaskCompleted
	} else if old.Status == domain.StatusDone && t.Status != domain.StatusDone {
		action = domain.ActionTaskUncompleted
	}
	if _, err := e.Log.Append(ctx, actor, action, &t.ID, domain.Payload{Task: &t}); err != nil {
		return t, err
	}
	return t, nil
}

// AddEvidence appends an evidence reference to a task.
func (e *Engine) AddEvidence(ctx context.Context, taskID, evidence, actor string) (domain.Task, error) {
	t, err := e.Repo.GetTask(ctx, taskID)
	if err != nil {
		return t, err
	}
	t.Evidence = append(t.Evidence, evidence)
	t.UpdatedAt = e.nowRFC3339()
	if err := e.Repo.PutTask(ctx, t); err != nil {
		return t, err
	}
	if _, err := e.Log.Append(ctx, actor, domain.ActionEvidenceAdded, &t.ID, domain.Payload{Task: &t}); err != nil {
		return t, err
	}
	return t, nil
}

// DeleteTask removes the record; log entries about it are retained forever.
func (e *Engine) DeleteTask(ctx context.Context, id, actor string) error {
	if err := e.Repo.DeleteTask(ctx, id); err != nil {
		return err
	}
	_, err := e.Log.Append(ctx, actor, domain.ActionTaskDeleted, &id, domain.Payload{TaskID: id})
	return err
}

// SaveSummary stores the daily summary record. Summaries carry no audit
// entry; the reporting collaborator writes at most once per date.
func (e *Engine) SaveSummary(ctx context.Context, s domain.DailySummary) (domain.DailySummary, error) {
	if s.GeneratedAt == "" {
		s.GeneratedAt = e.nowRFC3339()
	}
	if err := e.Repo.PutSummary(ctx, s); err != nil {
		return s, err
	}
	return s, nil
}
