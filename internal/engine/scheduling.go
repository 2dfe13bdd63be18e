package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"culiflow/internal/domain"
)

func (e *Engine) CreateEmployee(ctx context.Context, emp domain.Employee, actor string) (domain.Employee, error) {
	if emp.Name == "" {
		return emp, errors.New("name is required")
	}
	if emp.ID == "" {
		emp.ID = "emp-" + uuid.New().String()
	}
	if emp.Certifications == nil {
		emp.Certifications = []string{}
	}
	if emp.PreferredStations == nil {
		emp.PreferredStations = []string{}
	}
	if err := e.Repo.InsertEmployee(ctx, emp); err != nil {
		return emp, err
	}
	if _, err := e.Log.Append(ctx, actor, domain.ActionEmployeeCreated, nil, domain.Payload{Employee: &emp}); err != nil {
		return emp, err
	}
	return emp, nil
}

func (e *Engine) UpdateEmployee(ctx context.Context, emp domain.Employee, actor string) (domain.Employee, error) {
	if _, err := e.Repo.GetEmployee(ctx, emp.ID); err != nil {
		return emp, err
	}
	if err := e.Repo.PutEmployee(ctx, emp); err != nil {
		return emp, err
	}
	if _, err := e.Log.Append(ctx, actor, domain.ActionEmployeeUpdated, nil, domain.Payload{Employee: &emp}); err != nil {
		return emp, err
	}
	return emp, nil
}

func (e *Engine) DeleteEmployee(ctx context.Context, id, actor string) error {
	if err := e.Repo.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	_, err := e.Log.Append(ctx, actor, domain.ActionEmployeeDeleted, nil, domain.Payload{EmployeeID: id})
	return err
}

func (e *Engine) CreateShift(ctx context.Context, s domain.Shift, actor string) (domain.Shift, error) {
	if s.EmployeeID == "" {
		return s, errors.New("employee is required")
	}
	if s.ID == "" {
		s.ID = "shift-" + uuid.New().String()
	}
	if s.Status == "" {
		s.Status = domain.ShiftStatusDraft
	}
	if err := e.Repo.InsertShift(ctx, s); err != nil {
		return s, err
	}
	if _, err := e.Log.Append(ctx, actor, domain.ActionShiftCreated, nil, domain.Payload{Shift: &s}); err != nil {
		return s, err
	}
	return s, nil
}

func (e *Engine) UpdateShift(ctx context.Context, s domain.Shift, actor string) (domain.Shift, error) {
	if _, err := e.Repo.GetShift(ctx, s.ID); err != nil {
		return s, err
	}
	if err := e.Repo.PutShift(ctx, s); err != nil {
		return s, err
	}
	if _, err := e.Log.Append(ctx, actor, domain.ActionShiftUpdated, nil, domain.Payload{Shift: &s}); err != nil {
		return s, err
	}
	return s, nil
}

func (e *Engine) DeleteShift(ctx context.Context, id, actor string) error {
	if err := e.Repo.DeleteShift(ctx, id); err != nil {
		return err
	}
	_, err := e.Log.Append(ctx, actor, domain.ActionShiftDeleted, nil, domain.Payload{ShiftID: id})
	return err
}

func (e *Engine) CreateSchedule(ctx context.Context, s domain.Schedule, actor string) (domain.Schedule, error) {
	if s.WeekStartDate == "" || s.WeekEndDate == "" {
		return s, errors.New("week start and end dates are required")
	}
	if s.ID == "" {
		s.ID = "sched-" + uuid.New().String()
	}
	if s.Status == "" {
		s.Status = domain.ScheduleStatusDraft
	}
	if s.ShiftIDs == nil {
		s.ShiftIDs = []string{}
	}
	if err := e.Repo.InsertSchedule(ctx, s); err != nil {
		return s, err
	}
	if _, err := e.Log.Append(ctx, actor, domain.ActionScheduleCreated, nil, domain.Payload{Schedule: &s}); err != nil {
		return s, err
	}
	return s, nil
}

func (e *Engine) UpdateSchedule(ctx context.Context, s domain.Schedule, actor string) (domain.Schedule, error) {
	if _, err := e.Repo.GetSchedule(ctx, s.ID); err != nil {
		return s, err
	}
	if err := e.Repo.PutSchedule(ctx, s); err != nil {
		return s, err
	}
	if _, err := e.Log.Append(ctx, actor, domain.ActionScheduleUpdated, nil, domain.Payload{Schedule: &s}); err != nil {
		return s, err
	}
	return s, nil
}

// PublishSchedule applies the one-way draft -> published transition. Calling
// it again with the same publisher simply re-sets the same fields.
func (e *Engine) PublishSchedule(ctx context.Context, id, publishedBy string) (domain.Schedule, error) {
	s, err := e.Repo.GetSchedule(ctx, id)
	if err != nil {
		return s, err
	}
	now := e.nowRFC3339()
	s.Status = domain.ScheduleStatusPublished
	s.PublishedAt = &now
	s.PublishedBy = &publishedBy
	if err := e.Repo.PutSchedule(ctx, s); err != nil {
		return s, err
	}
	if _, err := e.Log.Append(ctx, publishedBy, domain.ActionSchedulePublished, nil, domain.Payload{Schedule: &s}); err != nil {
		return s, err
	}
	return s, nil
}

func (e *Engine) DeleteSchedule(ctx context.Context, id, actor string) error {
	if err := e.Repo.DeleteSchedule(ctx, id); err != nil {
		return err
	}
	_, err := e.Log.Append(ctx, actor, domain.ActionScheduleDeleted, nil, domain.Payload{ScheduleID: id})
	return err
}

// CreateConflict records a detected or manually raised scheduling conflict.
// Detection itself lives outside the engine.
func (e *Engine) CreateConflict(ctx context.Context, c domain.ConflictAlert, actor string) (domain.ConflictAlert, error) {
	if c.Message == "" {
		return c, errors.New("message is required")
	}
	if c.ID == "" {
		c.ID = "conflict-" + uuid.New().String()
	}
	if c.ShiftIDs == nil {
		c.ShiftIDs = []string{}
	}
	if err := e.Repo.InsertConflict(ctx, c); err != nil {
		return c, err
	}
	if _, err := e.Log.Append(ctx, actor, domain.ActionConflictDetected, nil, domain.Payload{Conflict: &c}); err != nil {
		return c, err
	}
	return c, nil
}

// ResolveConflict sets ResolvedAt once; it is never cleared afterwards.
func (e *Engine) ResolveConflict(ctx context.Context, id, actor string) (domain.ConflictAlert, error) {
	c, err := e.Repo.GetConflict(ctx, id)
	if err != nil {
		return c, err
	}
	if c.ResolvedAt == nil {
		now := e.nowRFC3339()
		c.ResolvedAt = &now
	}
	if err := e.Repo.PutConflict(ctx, c); err != nil {
		return c, err
	}
	if _, err := e.Log.Append(ctx, actor, domain.ActionConflictResolved, nil, domain.Payload{Conflict: &c}); err != nil {
		return c, err
	}
	return c, nil
}
