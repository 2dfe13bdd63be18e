package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"culiflow/internal/domain"
	"culiflow/internal/engine"
	"culiflow/internal/snapshot"
	"culiflow/internal/views"
)

func quickaddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quickadd <text>...",
		Short: "Create a task from one line of shorthand",
		Long: `Parses the quick-add grammar and creates a task:
  [type] [duration] title [Nunit] [@station] [time] [#owner] [!priority] [/compliance] [+concept]
Example: culiflow quickadd prep 10 chicken stock 2gal @garde 9a "#mike" !critical /temp +oak`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				t, err := e.QuickAdd(ctx, raw, actor(e))
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	return cmd
}

func taskCmd() *cobra.Command {
	task := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	task.AddCommand(taskAddCmd())
	task.AddCommand(taskListCmd())
	task.AddCommand(taskShowCmd())
	task.AddCommand(taskUpdateCmd())
	task.AddCommand(taskEvidenceCmd())
	task.AddCommand(taskDeleteCmd())
	task.AddCommand(taskBoardCmd())
	return task
}

func taskAddCmd() *cobra.Command {
	var opts engine.TaskCreateOptions
	var concept, station, owner, due, dod, compliance string
	var duration int
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task from explicit flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Concept = optionalString(concept)
			opts.Station = optionalString(station)
			opts.Owner = optionalString(owner)
			opts.DueAt = optionalString(due)
			opts.DefinitionOfDone = optionalString(dod)
			opts.ComplianceType = optionalString(compliance)
			if cmd.Flags().Changed("duration") {
				opts.DurationMinutes = &duration
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				opts.Actor = actor(e)
				t, err := e.CreateTask(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&opts.ID, "id", "", "task id (generated if omitted)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title")
	cmd.Flags().StringVar(&opts.Type, "type", "", "task type (service, prep, admin, standards, compliance)")
	cmd.Flags().StringVar(&concept, "concept", "", "dining concept")
	cmd.Flags().StringVar(&station, "station", "", "kitchen station")
	cmd.Flags().StringVar(&owner, "owner", "", "owner")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "priority (critical, high, medium)")
	cmd.Flags().IntVar(&duration, "duration", 0, "duration in minutes")
	cmd.Flags().StringVar(&due, "due", "", "due timestamp (RFC3339)")
	cmd.Flags().StringVar(&dod, "dod", "", "definition of done")
	cmd.Flags().StringVar(&compliance, "compliance", "", "compliance type")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func taskListCmd() *cobra.Command {
	var status, taskType, priority string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withViews(cmd.Context(), func(ctx context.Context, v views.Views) error {
				var tasks []domain.Task
				var err error
				switch {
				case status != "":
					tasks, err = v.TasksByStatus(ctx, status)
				case taskType != "":
					tasks, err = v.TasksByType(ctx, taskType)
				case priority != "":
					tasks, err = v.TasksByPriority(ctx, priority)
				default:
					tasks, err = v.AllTasks(ctx)
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				renderTaskTable(tasks)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	cmd.Flags().StringVar(&taskType, "type", "", "type filter")
	cmd.Flags().StringVar(&priority, "priority", "", "priority filter")
	return cmd
}

func taskShowCmd() *cobra.Command {
	var withEvents bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				t, err := e.Repo.GetTask(ctx, id)
				if err != nil {
					return err
				}
				if !withEvents {
					return printJSONOrTable(t)
				}
				evts, err := e.Log.ByTask(ctx, id)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"task": t, "events": evts})
			})
		},
	}
	cmd.Flags().BoolVar(&withEvents, "events", false, "include the task's event history")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var status, title, owner, station, priority, due, dod string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				t, err := e.Repo.GetTask(ctx, id)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("status") {
					t.Status = status
				}
				if cmd.Flags().Changed("title") {
					t.Title = title
				}
				if cmd.Flags().Changed("owner") {
					t.Owner = optionalString(owner)
				}
				if cmd.Flags().Changed("station") {
					t.Station = optionalString(station)
				}
				if cmd.Flags().Changed("priority") {
					t.Priority = priority
				}
				if cmd.Flags().Changed("due") {
					t.DueAt = optionalString(due)
				}
				if cmd.Flags().Changed("dod") {
					t.DefinitionOfDone = optionalString(dod)
				}
				t, err = e.UpdateTask(ctx, t, actor(e))
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&owner, "owner", "", "new owner (empty clears)")
	cmd.Flags().StringVar(&station, "station", "", "new station (empty clears)")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")
	cmd.Flags().StringVar(&due, "due", "", "new due timestamp (empty clears)")
	cmd.Flags().StringVar(&dod, "dod", "", "definition of done (empty clears)")
	return cmd
}

func taskEvidenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evidence <id> <ref>",
		Short: "Attach an evidence reference to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				t, err := e.AddEvidence(ctx, args[0], args[1], actor(e))
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task (its event history is retained)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				return e.DeleteTask(ctx, id, actor(e))
			})
		},
	}
	return cmd
}

func taskBoardCmd() *cobra.Command {
	var cached bool
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the kanban board of open tasks",
		Long:  "Groups open tasks by status. --cached reads the fast-boot snapshot without touching the store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			if cached {
				c := snapshot.Read(workspace)
				if c == nil {
					return fmt.Errorf("no snapshot in %s", workspace)
				}
				if viper.GetBool("json") {
					return printJSON(c)
				}
				renderBoard(c.Tasks)
				return nil
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				open, err := views.New(e.Repo).OpenTasks(ctx)
				if err != nil {
					return err
				}
				if err := snapshot.Write(workspace, open, e.Config.Board.SnapshotTasks); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(open)
				}
				renderBoard(open)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "read the snapshot only")
	return cmd
}

func renderBoard(tasks []domain.Task) {
	columns := []string{domain.StatusBacklog, domain.StatusInProgress, domain.StatusReady, domain.StatusVerified}
	byStatus := map[string][]domain.Task{}
	for _, t := range tasks {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}
	for _, status := range columns {
		fmt.Printf("== %s (%d)\n", status, len(byStatus[status]))
		for _, t := range byStatus[status] {
			marker := " "
			if t.Priority == domain.PriorityCritical {
				marker = "!"
			}
			fmt.Printf(" %s %s  %s\n", marker, t.ID, t.Title)
		}
		fmt.Println()
	}
}

func renderTaskTable(tasks []domain.Task) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Title", "Type", "Status", "Priority", "Station", "Owner", "Due"})
	for _, t := range tasks {
		tw.AppendRow(table.Row{
			t.ID, t.Title, t.Type, t.Status, t.Priority,
			strVal(t.Station), strVal(t.Owner), strVal(t.DueAt),
		})
	}
	tw.Render()
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
