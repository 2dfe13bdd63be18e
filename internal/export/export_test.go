package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culiflow/internal/domain"
	"culiflow/internal/export"
)

func task(id, status string) domain.Task {
	return domain.Task{
		ID: id, Title: "title " + id, Type: domain.TypePrep,
		Priority: domain.PriorityMedium, Status: status,
		Evidence:  []string{},
		CreatedAt: "2026-03-09T08:00:00Z", UpdatedAt: "2026-03-09T08:00:00Z",
	}
}

func TestTasksCSV(t *testing.T) {
	station := "garde"
	minutes := 10
	a := task("task-1", domain.StatusBacklog)
	a.Station = &station
	a.DurationMinutes = &minutes
	a.Evidence = []string{"photo://a.jpg", "photo://b.jpg"}
	b := task("task-2", domain.StatusDone)

	var buf bytes.Buffer
	require.NoError(t, export.TasksCSV(&buf, []domain.Task{a, b}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "task-1", rows[1][0])
	assert.Equal(t, "garde", rows[1][4])
	assert.Equal(t, "10", rows[1][7])
	assert.Equal(t, "photo://a.jpg;photo://b.jpg", rows[1][12])
	// unset optionals export as empty cells
	assert.Equal(t, "", rows[2][4])
	assert.Equal(t, "", rows[2][7])
}

func TestCalendarSkipsDoneAndUndated(t *testing.T) {
	due := "2026-03-09T17:00:00Z"
	dated := task("task-dated", domain.StatusInProgress)
	dated.DueAt = &due
	done := task("task-done", domain.StatusDone)
	done.DueAt = &due
	undated := task("task-undated", domain.StatusBacklog)

	cal, err := export.Calendar([]domain.Task{dated, done, undated}, time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, cal, "BEGIN:VCALENDAR")
	assert.Contains(t, cal, "task-dated")
	assert.NotContains(t, cal, "task-done")
	assert.NotContains(t, cal, "task-undated")
	assert.Contains(t, cal, "SUMMARY:title task-dated")
	assert.Contains(t, cal, "STATUS:CONFIRMED")
}

func TestCalendarDefaultDuration(t *testing.T) {
	due := "2026-03-09T17:00:00Z"
	a := task("task-1", domain.StatusBacklog)
	a.DueAt = &due

	cal, err := export.Calendar([]domain.Task{a}, time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, cal, "DTSTART:20260309T170000Z")
	assert.Contains(t, cal, "DTEND:20260309T173000Z")
}
