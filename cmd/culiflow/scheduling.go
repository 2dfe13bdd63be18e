package main

import (
	"context"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"culiflow/internal/domain"
	"culiflow/internal/engine"
	"culiflow/internal/views"
)

func employeeCmd() *cobra.Command {
	emp := &cobra.Command{
		Use:   "employee",
		Short: "Manage employees",
	}
	emp.AddCommand(employeeAddCmd())
	emp.AddCommand(employeeListCmd())
	emp.AddCommand(employeeUpdateCmd())
	emp.AddCommand(employeeDeleteCmd())
	return emp
}

func employeeAddCmd() *cobra.Command {
	var e domain.Employee
	var certs, stations []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			e.Certifications = certs
			e.PreferredStations = stations
			e.Active = true
			return withEngine(cmd.Context(), func(ctx context.Context, eng *engine.Engine) error {
				res, err := eng.CreateEmployee(ctx, e, actor(eng))
				if err != nil {
					return err
				}
				return printJSONOrTable(res)
			})
		},
	}
	cmd.Flags().StringVar(&e.ID, "id", "", "employee id (generated if omitted)")
	cmd.Flags().StringVar(&e.Name, "name", "", "name")
	cmd.Flags().StringVar(&e.Role, "role", domain.RoleLineCook, "role (line-cook, sous-chef, exec-chef, dishwasher)")
	cmd.Flags().StringArrayVar(&certs, "cert", []string{}, "certification (repeatable)")
	cmd.Flags().IntVar(&e.MaxHoursPerWeek, "max-hours", 40, "maximum hours per week")
	cmd.Flags().StringArrayVar(&stations, "station", []string{}, "preferred station (repeatable)")
	cmd.Flags().StringVar(&e.HireDate, "hire-date", "", "hire date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func employeeListCmd() *cobra.Command {
	var role string
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withViews(cmd.Context(), func(ctx context.Context, v views.Views) error {
				var items []domain.Employee
				var err error
				switch {
				case role != "":
					items, err = v.EmployeesByRole(ctx, role)
				case activeOnly:
					items, err = v.ActiveEmployees(ctx)
				default:
					items, err = v.Repo.ListEmployees(ctx)
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Role", "Max hrs", "Stations", "Active"})
				for _, e := range items {
					tw.AppendRow(table.Row{e.ID, e.Name, e.Role, e.MaxHoursPerWeek,
						strings.Join(e.PreferredStations, ","), e.Active})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "role filter")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "active employees only")
	return cmd
}

func employeeUpdateCmd() *cobra.Command {
	var name, role, hireDate string
	var maxHours int
	var active bool
	var certs, stations []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, eng *engine.Engine) error {
				e, err := eng.Repo.GetEmployee(ctx, id)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("name") {
					e.Name = name
				}
				if cmd.Flags().Changed("role") {
					e.Role = role
				}
				if cmd.Flags().Changed("hire-date") {
					e.HireDate = hireDate
				}
				if cmd.Flags().Changed("max-hours") {
					e.MaxHoursPerWeek = maxHours
				}
				if cmd.Flags().Changed("active") {
					e.Active = active
				}
				if cmd.Flags().Changed("cert") {
					e.Certifications = certs
				}
				if cmd.Flags().Changed("station") {
					e.PreferredStations = stations
				}
				res, err := eng.UpdateEmployee(ctx, e, actor(eng))
				if err != nil {
					return err
				}
				return printJSONOrTable(res)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name")
	cmd.Flags().StringVar(&role, "role", "", "role")
	cmd.Flags().StringVar(&hireDate, "hire-date", "", "hire date")
	cmd.Flags().IntVar(&maxHours, "max-hours", 0, "maximum hours per week")
	cmd.Flags().BoolVar(&active, "active", true, "active flag")
	cmd.Flags().StringArrayVar(&certs, "cert", []string{}, "certification (replaces the set)")
	cmd.Flags().StringArrayVar(&stations, "station", []string{}, "preferred station (replaces the set)")
	return cmd
}

func employeeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, eng *engine.Engine) error {
				return eng.DeleteEmployee(ctx, id, actor(eng))
			})
		},
	}
}

func shiftCmd() *cobra.Command {
	shift := &cobra.Command{
		Use:   "shift",
		Short: "Manage shifts",
	}
	shift.AddCommand(shiftAddCmd())
	shift.AddCommand(shiftListCmd())
	shift.AddCommand(shiftUpdateCmd())
	shift.AddCommand(shiftDeleteCmd())
	return shift
}

func shiftAddCmd() *cobra.Command {
	var s domain.Shift
	var notes string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a shift",
		RunE: func(cmd *cobra.Command, args []string) error {
			s.Notes = optionalString(notes)
			return withEngine(cmd.Context(), func(ctx context.Context, eng *engine.Engine) error {
				res, err := eng.CreateShift(ctx, s, actor(eng))
				if err != nil {
					return err
				}
				return printJSONOrTable(res)
			})
		},
	}
	cmd.Flags().StringVar(&s.ID, "id", "", "shift id (generated if omitted)")
	cmd.Flags().StringVar(&s.EmployeeID, "employee", "", "employee id")
	cmd.Flags().StringVar(&s.Date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&s.StartTime, "start", "", "start time (HH:MM)")
	cmd.Flags().StringVar(&s.EndTime, "end", "", "end time (HH:MM)")
	cmd.Flags().StringVar(&s.Station, "station", "", "station")
	cmd.Flags().StringVar(&s.Location, "location", domain.LocationMainBuilding, "location")
	cmd.Flags().StringVar(&s.Color, "color", "", "board color")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func shiftListCmd() *cobra.Command {
	var employee, date, location string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shifts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withViews(cmd.Context(), func(ctx context.Context, v views.Views) error {
				var items []domain.Shift
				var err error
				switch {
				case employee != "":
					items, err = v.ShiftsByEmployee(ctx, employee)
				case date != "":
					items, err = v.ShiftsByDate(ctx, date)
				case location != "":
					items, err = v.Repo.ListShiftsByLocation(ctx, location)
				default:
					items, err = v.Repo.ListShifts(ctx)
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Employee", "Date", "Start", "End", "Station", "Location", "Status"})
				for _, s := range items {
					tw.AppendRow(table.Row{s.ID, s.EmployeeID, s.Date, s.StartTime, s.EndTime,
						s.Station, s.Location, s.Status})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&employee, "employee", "", "employee filter")
	cmd.Flags().StringVar(&date, "date", "", "date filter")
	cmd.Flags().StringVar(&location, "location", "", "location filter")
	return cmd
}

func shiftUpdateCmd() *cobra.Command {
	var date, start, end, station, location, status, notes string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, eng *engine.Engine) error {
				s, err := eng.Repo.GetShift(ctx, id)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("date") {
					s.Date = date
				}
				if cmd.Flags().Changed("start") {
					s.StartTime = start
				}
				if cmd.Flags().Changed("end") {
					s.EndTime = end
				}
				if cmd.Flags().Changed("station") {
					s.Station = station
				}
				if cmd.Flags().Changed("location") {
					s.Location = location
				}
				if cmd.Flags().Changed("status") {
					s.Status = status
				}
				if cmd.Flags().Changed("notes") {
					s.Notes = optionalString(notes)
				}
				res, err := eng.UpdateShift(ctx, s, actor(eng))
				if err != nil {
					return err
				}
				return printJSONOrTable(res)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date")
	cmd.Flags().StringVar(&start, "start", "", "start time")
	cmd.Flags().StringVar(&end, "end", "", "end time")
	cmd.Flags().StringVar(&station, "station", "", "station")
	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().StringVar(&status, "status", "", "status (draft, published, completed)")
	cmd.Flags().StringVar(&notes, "notes", "", "notes (empty clears)")
	return cmd
}

func shiftDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, eng *engine.Engine) error {
				return eng.DeleteShift(ctx, id, actor(eng))
			})
		},
	}
}

func scheduleCmd() *cobra.Command {
	sched := &cobra.Command{
		Use:   "schedule",
		Short: "Manage weekly schedules",
	}
	sched.AddCommand(scheduleCreateCmd())
	sched.AddCommand(scheduleShowCmd())
	sched.AddCommand(scheduleListCmd())
	sched.AddCommand(schedulePublishCmd())
	return sched
}

func scheduleCreateCmd() *cobra.Command {
	var s domain.Schedule
	var shiftIDs []string
	var notes string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a weekly schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			s.ShiftIDs = shiftIDs
			s.Notes = optionalString(notes)
			return withEngine(cmd.Context(), func(ctx context.Context, eng *engine.Engine) error {
				res, err := eng.CreateSchedule(ctx, s, actor(eng))
				if err != nil {
					return err
				}
				return printJSONOrTable(res)
			})
		},
	}
	cmd.Flags().StringVar(&s.ID, "id", "", "schedule id (generated if omitted)")
	cmd.Flags().StringVar(&s.WeekStartDate, "week-start", "", "week start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&s.WeekEndDate, "week-end", "", "week end date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&shiftIDs, "shift", []string{}, "shift id (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	_ = cmd.MarkFlagRequired("week-start")
	_ = cmd.MarkFlagRequired("week-end")
	return cmd
}

func scheduleShowCmd() *cobra.Command {
	var week string
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a schedule by id or by week start date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withViews(cmd.Context(), func(ctx context.Context, v views.Views) error {
				var s domain.Schedule
				var err error
				if len(args) == 1 {
					s, err = v.Repo.GetSchedule(ctx, args[0])
				} else {
					s, err = v.ScheduleByWeek(ctx, week)
				}
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "week start date (YYYY-MM-DD)")
	return cmd
}

func scheduleListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withViews(cmd.Context(), func(ctx context.Context, v views.Views) error {
				var items []domain.Schedule
				var err error
				if status != "" {
					items, err = v.Repo.ListSchedulesByStatus(ctx, status)
				} else {
					items, err = v.Repo.ListSchedules(ctx)
				}
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status filter (draft, published, archived)")
	return cmd
}

func schedulePublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, eng *engine.Engine) error {
				s, err := eng.PublishSchedule(ctx, id, actor(eng))
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
}

func conflictCmd() *cobra.Command {
	conflict := &cobra.Command{
		Use:   "conflict",
		Short: "Manage scheduling conflict alerts",
	}
	conflict.AddCommand(conflictAddCmd())
	conflict.AddCommand(conflictListCmd())
	conflict.AddCommand(conflictResolveCmd())
	return conflict
}

func conflictAddCmd() *cobra.Command {
	var c domain.ConflictAlert
	var employee string
	var shiftIDs []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a conflict alert",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.EmployeeID = optionalString(employee)
			c.ShiftIDs = shiftIDs
			return withEngine(cmd.Context(), func(ctx context.Context, eng *engine.Engine) error {
				res, err := eng.CreateConflict(ctx, c, actor(eng))
				if err != nil {
					return err
				}
				return printJSONOrTable(res)
			})
		},
	}
	cmd.Flags().StringVar(&c.ID, "id", "", "conflict id (generated if omitted)")
	cmd.Flags().StringVar(&c.Type, "type", domain.ConflictDoubleBooking, "conflict type")
	cmd.Flags().StringVar(&c.Severity, "severity", domain.SeverityWarning, "severity (critical, warning, info)")
	cmd.Flags().StringArrayVar(&shiftIDs, "shift", []string{}, "involved shift id (repeatable)")
	cmd.Flags().StringVar(&employee, "employee", "", "employee id")
	cmd.Flags().StringVar(&c.Message, "message", "", "message")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func conflictListCmd() *cobra.Command {
	var employee, severity string
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conflict alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withViews(cmd.Context(), func(ctx context.Context, v views.Views) error {
				var items []domain.ConflictAlert
				var err error
				switch {
				case employee != "":
					items, err = v.Repo.ListConflictsByEmployee(ctx, employee)
				case severity != "":
					items, err = v.Repo.ListConflictsBySeverity(ctx, severity)
				case activeOnly:
					items, err = v.ActiveConflicts(ctx)
				default:
					items, err = v.Repo.ListConflicts(ctx)
				}
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	cmd.Flags().StringVar(&employee, "employee", "", "employee filter")
	cmd.Flags().StringVar(&severity, "severity", "", "severity filter")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "unresolved only")
	return cmd
}

func conflictResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve a conflict alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, eng *engine.Engine) error {
				c, err := eng.ResolveConflict(ctx, id, actor(eng))
				if err != nil {
					return err
				}
				return printJSONOrTable(c)
			})
		},
	}
}
