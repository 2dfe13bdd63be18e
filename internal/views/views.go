package views

import (
	"context"

	"culiflow/internal/domain"
	"culiflow/internal/repo"
)

// Views are pure query helpers over the store indexes. Every call computes
// fresh from the store; nothing here caches.
type Views struct {
	Repo repo.Repo
}

func New(r repo.Repo) Views {
	return Views{Repo: r}
}

func (v Views) AllTasks(ctx context.Context) ([]domain.Task, error) {
	return v.Repo.ListTasks(ctx)
}

func (v Views) TasksByStatus(ctx context.Context, status string) ([]domain.Task, error) {
	return v.Repo.ListTasksByStatus(ctx, status)
}

func (v Views) TasksByType(ctx context.Context, taskType string) ([]domain.Task, error) {
	return v.Repo.ListTasksByType(ctx, taskType)
}

func (v Views) TasksByPriority(ctx context.Context, priority string) ([]domain.Task, error) {
	return v.Repo.ListTasksByPriority(ctx, priority)
}

// OpenTasks returns everything not yet done, in creation order.
func (v Views) OpenTasks(ctx context.Context) ([]domain.Task, error) {
	all, err := v.Repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	var open []domain.Task
	for _, t := range all {
		if t.Status != domain.StatusDone {
			open = append(open, t)
		}
	}
	return open, nil
}

// ActiveEmployees filters in memory over the full list; "active" is not an
// index.
func (v Views) ActiveEmployees(ctx context.Context) ([]domain.Employee, error) {
	all, err := v.Repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	var active []domain.Employee
	for _, e := range all {
		if e.Active {
			active = append(active, e)
		}
	}
	return active, nil
}

func (v Views) EmployeesByRole(ctx context.Context, role string) ([]domain.Employee, error) {
	return v.Repo.ListEmployeesByRole(ctx, role)
}

func (v Views) ShiftsByEmployee(ctx context.Context, employeeID string) ([]domain.Shift, error) {
	return v.Repo.ListShiftsByEmployee(ctx, employeeID)
}

func (v Views) ShiftsByDate(ctx context.Context, date string) ([]domain.Shift, error) {
	return v.Repo.ListShiftsByDate(ctx, date)
}

// ScheduleByWeek returns the first schedule on the weekStartDate index.
// Nothing guarantees a week has only one schedule; callers get the first row.
func (v Views) ScheduleByWeek(ctx context.Context, weekStartDate string) (domain.Schedule, error) {
	schedules, err := v.Repo.ListSchedulesByWeek(ctx, weekStartDate)
	if err != nil {
		return domain.Schedule{}, err
	}
	if len(schedules) == 0 {
		return domain.Schedule{}, repo.ErrNotFound
	}
	return schedules[0], nil
}

// EventsByTask exposes a task's history alongside the record reads.
func (v Views) EventsByTask(ctx context.Context, taskID string) ([]domain.EventLogEntry, error) {
	return v.Repo.ListEventsByTask(ctx, taskID)
}

// ActiveConflicts filters unresolved alerts in memory over the full list.
func (v Views) ActiveConflicts(ctx context.Context) ([]domain.ConflictAlert, error) {
	all, err := v.Repo.ListConflicts(ctx)
	if err != nil {
		return nil, err
	}
	var active []domain.ConflictAlert
	for _, c := range all {
		if c.ResolvedAt == nil {
			active = append(active, c)
		}
	}
	return active, nil
}
