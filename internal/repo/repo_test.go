package repo_test

import (
	"context"
	"errors"
	"testing"

	"culiflow/internal/db"
	"culiflow/internal/domain"
	"culiflow/internal/migrate"
	"culiflow/internal/repo"
)

func newTestRepo(t *testing.T) repo.Repo {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo.Repo{DB: conn}
}

func sampleTask(id, status string) domain.Task {
	return domain.Task{
		ID:        id,
		Title:     "title " + id,
		Type:      domain.TypePrep,
		Priority:  domain.PriorityMedium,
		Status:    status,
		Evidence:  []string{},
		CreatedAt: "2026-03-09T08:00:00Z",
		UpdatedAt: "2026-03-09T08:00:00Z",
	}
}

func TestInsertTaskDuplicateKey(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	if err := r.InsertTask(ctx, sampleTask("task-1", domain.StatusBacklog)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := r.InsertTask(ctx, sampleTask("task-1", domain.StatusBacklog))
	if !errors.Is(err, repo.ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
}

func TestPutTaskUpserts(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	task := sampleTask("task-1", domain.StatusBacklog)
	if err := r.PutTask(ctx, task); err != nil {
		t.Fatalf("put new: %v", err)
	}
	task.Status = domain.StatusReady
	if err := r.PutTask(ctx, task); err != nil {
		t.Fatalf("put existing: %v", err)
	}
	got, err := r.GetTask(ctx, "task-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusReady {
		t.Fatalf("status = %q", got.Status)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	r := newTestRepo(t)
	if _, err := r.GetTask(context.Background(), "nope"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTaskIndexQueries(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	a := sampleTask("task-a", domain.StatusBacklog)
	b := sampleTask("task-b", domain.StatusDone)
	b.Type = domain.TypeCompliance
	b.Priority = domain.PriorityCritical
	due := "2026-03-09T17:00:00Z"
	b.DueAt = &due
	for _, task := range []domain.Task{a, b} {
		if err := r.InsertTask(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	byStatus, err := r.ListTasksByStatus(ctx, domain.StatusDone)
	if err != nil {
		t.Fatal(err)
	}
	if len(byStatus) != 1 || byStatus[0].ID != "task-b" {
		t.Fatalf("by status: %+v", byStatus)
	}
	byType, err := r.ListTasksByType(ctx, domain.TypeCompliance)
	if err != nil {
		t.Fatal(err)
	}
	if len(byType) != 1 {
		t.Fatalf("by type: %+v", byType)
	}
	byPriority, err := r.ListTasksByPriority(ctx, domain.PriorityCritical)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPriority) != 1 {
		t.Fatalf("by priority: %+v", byPriority)
	}
	dueBetween, err := r.ListTasksDueBetween(ctx, "2026-03-09T00:00:00Z", "2026-03-10T00:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if len(dueBetween) != 1 || dueBetween[0].ID != "task-b" {
		t.Fatalf("due between: %+v", dueBetween)
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	r := newTestRepo(t)
	if err := r.DeleteTask(context.Background(), "nope"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTaskOptionalFieldsRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	task := sampleTask("task-1", domain.StatusBacklog)
	if err := r.InsertTask(ctx, task); err != nil {
		t.Fatal(err)
	}
	got, err := r.GetTask(ctx, "task-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Concept != nil || got.Station != nil || got.Owner != nil ||
		got.DurationMinutes != nil || got.DueAt != nil || got.ComplianceType != nil {
		t.Fatalf("unset optionals came back non-nil: %+v", got)
	}
	if got.Evidence == nil || len(got.Evidence) != 0 {
		t.Fatalf("evidence = %#v, want empty slice", got.Evidence)
	}
}

func TestEventInsertAndOrder(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	taskID := "task-1"
	for i, action := range []string{domain.ActionTaskCreated, domain.ActionStatusChanged} {
		seq, err := r.InsertEvent(ctx, domain.EventLogEntry{
			ID:     "evt-" + action,
			TS:     "2026-03-09T08:00:00Z",
			Actor:  "tester",
			Action: action,
			TaskID: &taskID,
		})
		if err != nil {
			t.Fatalf("insert event: %v", err)
		}
		if seq != int64(i+1) {
			t.Fatalf("seq = %d, want %d", seq, i+1)
		}
	}
	all, err := r.ListEvents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Action != domain.ActionTaskCreated {
		t.Fatalf("order: %+v", all)
	}
	latest, err := r.LatestEvents(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(latest) != 1 || latest[0].Action != domain.ActionStatusChanged {
		t.Fatalf("latest: %+v", latest)
	}
}

func TestScheduleWeekIndexAllowsDuplicates(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	for _, id := range []string{"sched-1", "sched-2"} {
		err := r.InsertSchedule(ctx, domain.Schedule{
			ID:            id,
			WeekStartDate: "2026-03-09",
			WeekEndDate:   "2026-03-15",
			ShiftIDs:      []string{},
			Status:        domain.ScheduleStatusDraft,
		})
		if err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
	week, err := r.ListSchedulesByWeek(ctx, "2026-03-09")
	if err != nil {
		t.Fatal(err)
	}
	if len(week) != 2 {
		t.Fatalf("got %d schedules for the week, want 2", len(week))
	}
}
