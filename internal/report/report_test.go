package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culiflow/internal/db"
	"culiflow/internal/domain"
	"culiflow/internal/migrate"
	"culiflow/internal/report"
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

func fixedNow() time.Time { return time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC) }

func task(id string) domain.Task {
	return domain.Task{
		ID: id, Title: "title " + id, Type: domain.TypePrep,
		Priority: domain.PriorityMedium, Status: domain.StatusBacklog,
		Evidence:  []string{},
		CreatedAt: "2026-03-09T08:00:00Z", UpdatedAt: "2026-03-09T08:00:00Z",
	}
}

func TestGenerateOnTrack(t *testing.T) {
	v, r := newTestViews(t)
	ctx := context.Background()
	done := task("task-1")
	done.Status = domain.StatusDone
	require.NoError(t, r.InsertTask(ctx, done))

	s, err := report.Generate(ctx, v, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "on-track", s.OverallStatus)
	assert.Equal(t, "2026-03-09", s.Date)
	assert.Empty(t, s.MissedCritical)
	assert.Empty(t, s.MissedCompliance)
}

func TestGenerateAtRisk(t *testing.T) {
	v, r := newTestViews(t)
	ctx := context.Background()

	overdue := task("task-critical")
	overdue.Priority = domain.PriorityCritical
	due := "2026-03-09T09:00:00Z"
	overdue.DueAt = &due
	require.NoError(t, r.InsertTask(ctx, overdue))

	compliance := task("task-compliance")
	ct := domain.ComplianceTempLog
	compliance.ComplianceType = &ct
	compliance.DueAt = &due
	require.NoError(t, r.InsertTask(ctx, compliance))

	// due in the future, should not count as missed
	pending := task("task-pending")
	future := "2026-03-09T22:00:00Z"
	pending.DueAt = &future
	require.NoError(t, r.InsertTask(ctx, pending))

	s, err := report.Generate(ctx, v, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "at-risk", s.OverallStatus)
	require.Len(t, s.MissedCritical, 1)
	assert.Equal(t, "task-critical", s.MissedCritical[0].ID)
	require.Len(t, s.MissedCompliance, 1)
	assert.Equal(t, "task-compliance", s.MissedCompliance[0].ID)
}

func TestDailySummaryConversion(t *testing.T) {
	v, r := newTestViews(t)
	ctx := context.Background()
	overdue := task("task-critical")
	overdue.Priority = domain.PriorityCritical
	due := "2026-03-09T09:00:00Z"
	overdue.DueAt = &due
	require.NoError(t, r.InsertTask(ctx, overdue))

	s, err := report.Generate(ctx, v, fixedNow)
	require.NoError(t, err)
	ds := s.DailySummary("chef")
	assert.Equal(t, "2026-03-09", ds.Date)
	assert.Equal(t, []string{"title task-critical"}, ds.MissedCritical)
	assert.Equal(t, "chef", ds.GeneratedBy)
	assert.NotNil(t, ds.Wins)
}

func TestRenderListsSections(t *testing.T) {
	v, _ := newTestViews(t)
	s, err := report.Generate(context.Background(), v, fixedNow)
	require.NoError(t, err)
	out := report.Render(s)
	assert.Contains(t, out, "Director Summary 2026-03-09 [on-track]")
	assert.Contains(t, out, "Missed critical:")
	assert.Contains(t, out, "(none)")
}
