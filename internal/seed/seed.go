package seed

import (
	"context"
	"fmt"
	"time"

	"culiflow/internal/domain"
	"culiflow/internal/engine"
)

// Run inserts a sample crew, a week of shifts and a draft schedule through
// the command API, so the seeded data carries a normal audit trail.
func Run(ctx context.Context, e *engine.Engine, actor string) error {
	now := time.Now()
	weekStart := startOfWeek(now)
	weekStartStr := weekStart.Format("2006-01-02")
	weekEndStr := weekStart.AddDate(0, 0, 6).Format("2006-01-02")

	employees := sampleEmployees()
	for _, emp := range employees {
		if _, err := e.CreateEmployee(ctx, emp, actor); err != nil {
			return fmt.Errorf("seed employee %s: %w", emp.ID, err)
		}
	}

	var shiftIDs []string
	for day := 0; day < 7; day++ {
		date := weekStart.AddDate(0, 0, day).Format("2006-01-02")
		for i, emp := range employees {
			if !emp.Active || emp.Role == domain.RoleDishwasher && day%2 == 1 {
				continue
			}
			station := domain.StationHotLine
			if len(emp.PreferredStations) > 0 {
				station = emp.PreferredStations[0]
			}
			s := domain.Shift{
				ID:         fmt.Sprintf("shift-%s-%s", date, emp.ID),
				EmployeeID: emp.ID,
				Date:       date,
				StartTime:  shiftStart(i),
				EndTime:    shiftEnd(i),
				Station:    station,
				Location:   domain.LocationMainBuilding,
				Color:      shiftColor(i),
				Status:     domain.ShiftStatusDraft,
			}
			if _, err := e.CreateShift(ctx, s, actor); err != nil {
				return fmt.Errorf("seed shift %s: %w", s.ID, err)
			}
			shiftIDs = append(shiftIDs, s.ID)
		}
	}

	sched := domain.Schedule{
		ID:            "sched-" + weekStartStr,
		WeekStartDate: weekStartStr,
		WeekEndDate:   weekEndStr,
		ShiftIDs:      shiftIDs,
		Status:        domain.ScheduleStatusDraft,
	}
	if _, err := e.CreateSchedule(ctx, sched, actor); err != nil {
		return fmt.Errorf("seed schedule: %w", err)
	}
	return nil
}

func sampleEmployees() []domain.Employee {
	return []domain.Employee{
		{
			ID: "emp-001", Name: "Sarah Chen", Role: domain.RoleExecChef,
			Certifications:    []string{"ServSafe Manager", "HACCP"},
			MaxHoursPerWeek:   50,
			PreferredStations: []string{domain.StationHotLine, domain.StationGarde},
			HireDate:          "2020-03-15", Active: true,
		},
		{
			ID: "emp-002", Name: "Marcus Johnson", Role: domain.RoleSousChef,
			Certifications:    []string{"ServSafe", "Pastry Level 2"},
			MaxHoursPerWeek:   45,
			PreferredStations: []string{domain.StationBakery, domain.StationHotLine},
			HireDate:          "2021-06-01", Active: true,
		},
		{
			ID: "emp-003", Name: "Emily Rodriguez", Role: domain.RoleLineCook,
			Certifications:    []string{"ServSafe"},
			MaxHoursPerWeek:   40,
			PreferredStations: []string{domain.StationGarde, domain.StationHotLine},
			HireDate:          "2022-01-10", Active: true,
		},
		{
			ID: "emp-004", Name: "James Park", Role: domain.RoleLineCook,
			Certifications:    []string{"ServSafe"},
			MaxHoursPerWeek:   40,
			PreferredStations: []string{domain.StationHotLine, domain.StationBakery},
			HireDate:          "2022-03-20", Active: true,
		},
		{
			ID: "emp-005", Name: "Sophia Lee", Role: domain.RoleDishwasher,
			Certifications:    []string{},
			MaxHoursPerWeek:   32,
			PreferredStations: []string{domain.StationDish},
			HireDate:          "2023-05-01", Active: true,
		},
	}
}

// startOfWeek returns the Monday of the week containing t.
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := t.AddDate(0, 0, 1-weekday)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

func shiftStart(i int) string {
	starts := []string{"06:00", "10:00", "14:00"}
	return starts[i%len(starts)]
}

func shiftEnd(i int) string {
	ends := []string{"14:00", "18:00", "22:00"}
	return ends[i%len(ends)]
}

func shiftColor(i int) string {
	colors := []string{"red", "blue", "yellow", "purple"}
	return colors[i%len(colors)]
}
