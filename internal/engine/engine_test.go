package engine_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"culiflow/internal/config"
	"culiflow/internal/db"
	"culiflow/internal/domain"
	"culiflow/internal/engine"
	"culiflow/internal/migrate"
	"culiflow/internal/repo"
)

type testEnv struct {
	Engine *engine.Engine
	Ctx    context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	eng := engine.New(repo.Repo{DB: conn}, config.Default())
	eng.Now = func() time.Time { return time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC) }
	eng.Parser.Now = eng.Now
	return testEnv{Engine: eng, Ctx: context.Background()}
}

func TestCreateTaskRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	station := "garde"
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		Title:   "break down salmon",
		Type:    domain.TypePrep,
		Station: &station,
		Actor:   "tester",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Status != domain.StatusBacklog {
		t.Fatalf("status = %q, want backlog", task.Status)
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("priority = %q, want medium", task.Priority)
	}
	got, err := env.Engine.Repo.GetTask(env.Ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if !reflect.DeepEqual(task, got) {
		t.Fatalf("round trip mismatch:\n created %+v\n fetched %+v", task, got)
	}
}

func TestCreateTaskLogsExactlyOneEvent(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "count covers", Actor: "tester"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	evts, err := env.Engine.Log.ByTask(env.Ctx, task.ID)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(evts) != 1 {
		t.Fatalf("got %d events, want 1", len(evts))
	}
	e := evts[0]
	if e.Action != domain.ActionTaskCreated {
		t.Fatalf("action = %q", e.Action)
	}
	if e.Actor != "tester" {
		t.Fatalf("actor = %q", e.Actor)
	}
	if e.Payload.Task == nil || e.Payload.Task.ID != task.ID {
		t.Fatalf("payload missing task snapshot: %+v", e.Payload)
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Actor: "tester"}); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestEvidenceRequiredFixedAtCreation(t *testing.T) {
	env := newTestEnv(t)
	compliance := domain.ComplianceTempLog
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		Title: "walk-in temps", ComplianceType: &compliance, Actor: "tester",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !task.EvidenceRequired {
		t.Fatal("expected evidence_required with compliance type set")
	}
	// clearing the compliance type later does not clear the requirement
	task.ComplianceType = nil
	task, err = env.Engine.UpdateTask(env.Ctx, task, "tester")
	if err != nil {
		t.Fatal(err)
	}
	if !task.EvidenceRequired {
		t.Fatal("evidence_required must survive the compliance type being cleared")
	}
}

func TestQuickAddFullLine(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.QuickAdd(env.Ctx, "prep 10 chicken stock 2gal @garde 9a #mike !critical /temp +oak", "tester")
	if err != nil {
		t.Fatalf("quick add: %v", err)
	}
	if task.Title != "chicken stock" {
		t.Fatalf("title = %q", task.Title)
	}
	if task.Type != domain.TypePrep || task.Priority != domain.PriorityCritical {
		t.Fatalf("type/priority = %q/%q", task.Type, task.Priority)
	}
	if task.Station == nil || *task.Station != domain.StationGarde {
		t.Fatalf("station = %v", task.Station)
	}
	if task.Owner == nil || *task.Owner != "mike" {
		t.Fatalf("owner = %v", task.Owner)
	}
	if task.DurationMinutes == nil || *task.DurationMinutes != 10 {
		t.Fatalf("duration = %v", task.DurationMinutes)
	}
	if task.DueAt == nil || *task.DueAt != "2026-03-09T09:00:00Z" {
		t.Fatalf("due = %v", task.DueAt)
	}
	if task.Concept == nil || *task.Concept != domain.ConceptOakTerrace {
		t.Fatalf("concept = %v", task.Concept)
	}
	if task.ComplianceType == nil || *task.ComplianceType != domain.ComplianceTempLog {
		t.Fatalf("compliance = %v", task.ComplianceType)
	}
	if !task.EvidenceRequired {
		t.Fatal("expected evidence_required")
	}
}

func TestQuickAddBareLineFallsBackToRaw(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.QuickAdd(env.Ctx, "@mystery", "tester")
	if err != nil {
		t.Fatalf("quick add: %v", err)
	}
	if task.Title != "@mystery" {
		t.Fatalf("title = %q, want raw input", task.Title)
	}
	if task.Type != domain.TypePrep || task.Priority != domain.PriorityMedium {
		t.Fatalf("defaults not applied: %q/%q", task.Type, task.Priority)
	}
}

func TestUpdateTaskStatusActions(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "sanitize line", Actor: "tester"})
	if err != nil {
		t.Fatal(err)
	}
	task.Status = domain.StatusInProgress
	if task, err = env.Engine.UpdateTask(env.Ctx, task, "tester"); err != nil {
		t.Fatal(err)
	}
	task.Status = domain.StatusDone
	if task, err = env.Engine.UpdateTask(env.Ctx, task, "tester"); err != nil {
		t.Fatal(err)
	}
	task.Status = domain.StatusReady
	if task, err = env.Engine.UpdateTask(env.Ctx, task, "tester"); err != nil {
		t.Fatal(err)
	}
	evts, err := env.Engine.Log.ByTask(env.Ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	var actions []string
	for _, e := range evts {
		actions = append(actions, e.Action)
	}
	want := []string{
		domain.ActionTaskCreated,
		domain.ActionStatusChanged,
		domain.ActionTaskCompleted,
		domain.ActionTaskUncompleted,
	}
	if !reflect.DeepEqual(actions, want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
}

func TestUpdateTaskPreservesCreatedAt(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "roll silver", Actor: "tester"})
	if err != nil {
		t.Fatal(err)
	}
	created := task.CreatedAt
	env.Engine.Now = func() time.Time { return time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC) }
	task.Status = domain.StatusInProgress
	task.CreatedAt = "1999-01-01T00:00:00Z"
	task, err = env.Engine.UpdateTask(env.Ctx, task, "tester")
	if err != nil {
		t.Fatal(err)
	}
	if task.CreatedAt != created {
		t.Fatalf("created_at = %q, want %q", task.CreatedAt, created)
	}
	if task.UpdatedAt != "2026-03-09T15:00:00Z" {
		t.Fatalf("updated_at = %q", task.UpdatedAt)
	}
}

func TestUpdateMissingTask(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.UpdateTask(env.Ctx, domain.Task{ID: "task-missing", Title: "x"}, "tester")
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddEvidence(t *testing.T) {
	env := newTestEnv(t)
	compliance := domain.ComplianceTempLog
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		Title: "fridge temps", ComplianceType: &compliance, Actor: "tester",
	})
	if err != nil {
		t.Fatal(err)
	}
	task, err = env.Engine.AddEvidence(env.Ctx, task.ID, "photo://walk-in-0800.jpg", "tester")
	if err != nil {
		t.Fatal(err)
	}
	if len(task.Evidence) != 1 || task.Evidence[0] != "photo://walk-in-0800.jpg" {
		t.Fatalf("evidence = %v", task.Evidence)
	}
	evts, err := env.Engine.Log.ByAction(env.Ctx, domain.ActionEvidenceAdded)
	if err != nil {
		t.Fatal(err)
	}
	if len(evts) != 1 {
		t.Fatalf("got %d evidence events, want 1", len(evts))
	}
}

func TestDeleteTaskRetainsHistory(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "86 the special", Actor: "tester"})
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.DeleteTask(env.Ctx, task.ID, "tester"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Engine.Repo.GetTask(env.Ctx, task.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("get after delete: %v, want ErrNotFound", err)
	}
	evts, err := env.Engine.Log.ByTask(env.Ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(evts) != 2 {
		t.Fatalf("got %d events, want created + deleted", len(evts))
	}
	last := evts[len(evts)-1]
	if last.Action != domain.ActionTaskDeleted {
		t.Fatalf("last action = %q", last.Action)
	}
	if last.Payload.TaskID != task.ID {
		t.Fatalf("deletion payload keeps only the key, got %+v", last.Payload)
	}
}

func TestDeleteMissingTask(t *testing.T) {
	env := newTestEnv(t)
	if err := env.Engine.DeleteTask(env.Ctx, "task-missing", "tester"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveSummaryUpserts(t *testing.T) {
	env := newTestEnv(t)
	s := domain.DailySummary{
		Date:             "2026-03-09",
		MissedCritical:   []string{"stock rotation"},
		MissedCompliance: []string{},
		Blockers:         []string{},
		Wins:             []string{},
		RisksNextShift:   []string{},
		GeneratedBy:      "tester",
	}
	if _, err := env.Engine.SaveSummary(env.Ctx, s); err != nil {
		t.Fatal(err)
	}
	s.MissedCritical = []string{}
	s.Wins = []string{"clean health check"}
	if _, err := env.Engine.SaveSummary(env.Ctx, s); err != nil {
		t.Fatalf("second save for the date: %v", err)
	}
	got, err := env.Engine.Repo.GetSummary(env.Ctx, "2026-03-09")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Wins) != 1 || len(got.MissedCritical) != 0 {
		t.Fatalf("summary not replaced: %+v", got)
	}
}
