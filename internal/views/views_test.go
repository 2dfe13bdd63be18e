package views_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culiflow/internal/db"
	"culiflow/internal/domain"
	"culiflow/internal/migrate"
	"culiflow/internal/repo"
	"culiflow/internal/views"
)

func newTestViews(t *testing.T) (views.Views, repo.Repo) {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrate.Migrate(conn))
	r := repo.Repo{DB: conn}
	return views.New(r), r
}

func task(id, status string) domain.Task {
	return domain.Task{
		ID: id, Title: id, Type: domain.TypePrep,
		Priority: domain.PriorityMedium, Status: status,
		Evidence:  []string{},
		CreatedAt: "2026-03-09T08:00:00Z", UpdatedAt: "2026-03-09T08:00:00Z",
	}
}

func TestOpenTasksExcludesDone(t *testing.T) {
	v, r := newTestViews(t)
	ctx := context.Background()
	require.NoError(t, r.InsertTask(ctx, task("task-open", domain.StatusBacklog)))
	require.NoError(t, r.InsertTask(ctx, task("task-doing", domain.StatusInProgress)))
	require.NoError(t, r.InsertTask(ctx, task("task-done", domain.StatusDone)))

	open, err := v.OpenTasks(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)
	for _, x := range open {
		assert.NotEqual(t, domain.StatusDone, x.Status)
	}
}

func TestViewsDoNotMutateStore(t *testing.T) {
	v, r := newTestViews(t)
	ctx := context.Background()
	require.NoError(t, r.InsertTask(ctx, task("task-1", domain.StatusBacklog)))

	before, err := r.ListTasks(ctx)
	require.NoError(t, err)
	_, err = v.TasksByStatus(ctx, domain.StatusBacklog)
	require.NoError(t, err)
	_, err = v.OpenTasks(ctx)
	require.NoError(t, err)
	after, err := r.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestActiveEmployees(t *testing.T) {
	v, r := newTestViews(t)
	ctx := context.Background()
	require.NoError(t, r.InsertEmployee(ctx, domain.Employee{
		ID: "emp-1", Name: "A", Role: domain.RoleLineCook, Active: true,
		Certifications: []string{}, PreferredStations: []string{},
	}))
	require.NoError(t, r.InsertEmployee(ctx, domain.Employee{
		ID: "emp-2", Name: "B", Role: domain.RoleLineCook, Active: false,
		Certifications: []string{}, PreferredStations: []string{},
	}))

	active, err := v.ActiveEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "emp-1", active[0].ID)
}

func TestScheduleByWeek(t *testing.T) {
	v, r := newTestViews(t)
	ctx := context.Background()
	_, err := v.ScheduleByWeek(ctx, "2026-03-09")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, r.InsertSchedule(ctx, domain.Schedule{
		ID: "sched-1", WeekStartDate: "2026-03-09", WeekEndDate: "2026-03-15",
		ShiftIDs: []string{}, Status: domain.ScheduleStatusDraft,
	}))
	s, err := v.ScheduleByWeek(ctx, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, "sched-1", s.ID)
}

func TestActiveConflicts(t *testing.T) {
	v, r := newTestViews(t)
	ctx := context.Background()
	resolved := "2026-03-09T10:00:00Z"
	require.NoError(t, r.InsertConflict(ctx, domain.ConflictAlert{
		ID: "conflict-1", Type: domain.ConflictOvertime, Severity: domain.SeverityWarning,
		ShiftIDs: []string{}, Message: "over 40h",
	}))
	require.NoError(t, r.InsertConflict(ctx, domain.ConflictAlert{
		ID: "conflict-2", Type: domain.ConflictClopen, Severity: domain.SeverityInfo,
		ShiftIDs: []string{}, Message: "close then open", ResolvedAt: &resolved,
	}))

	active, err := v.ActiveConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "conflict-1", active[0].ID)
}
