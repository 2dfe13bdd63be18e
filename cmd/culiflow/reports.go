package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"culiflow/internal/engine"
	"culiflow/internal/export"
	"culiflow/internal/report"
	"culiflow/internal/seed"
	"culiflow/internal/views"
)

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var action, taskID, since, until string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				switch {
				case taskID != "":
					evts, err := e.Log.ByTask(ctx, taskID)
					if err != nil {
						return err
					}
					return printJSONOrTable(evts)
				case action != "":
					evts, err := e.Log.ByAction(ctx, action)
					if err != nil {
						return err
					}
					return printJSONOrTable(evts)
				case since != "" || until != "":
					if until == "" {
						until = time.Now().UTC().Format(time.RFC3339Nano)
					}
					evts, err := e.Log.ByTimeRange(ctx, since, until)
					if err != nil {
						return err
					}
					return printJSONOrTable(evts)
				default:
					evts, err := e.Repo.LatestEvents(ctx, n)
					if err != nil {
						return err
					}
					return printJSONOrTable(evts)
				}
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&action, "action", "", "action filter")
	cmd.Flags().StringVar(&taskID, "task", "", "task id filter")
	cmd.Flags().StringVar(&since, "since", "", "start timestamp (RFC3339)")
	cmd.Flags().StringVar(&until, "until", "", "end timestamp (RFC3339)")
	return cmd
}

func summaryCmd() *cobra.Command {
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Director summaries",
	}
	summary.AddCommand(summaryGenerateCmd())
	summary.AddCommand(summaryShowCmd())
	return summary
}

func summaryGenerateCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the director summary from current tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := report.Generate(ctx, views.New(e.Repo), e.Now)
				if err != nil {
					return err
				}
				if save {
					if _, err := e.SaveSummary(ctx, s.DailySummary(actor(e))); err != nil {
						return err
					}
				}
				if viper.GetBool("json") {
					return printJSON(s)
				}
				fmt.Print(report.Render(s))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "store the summary for today")
	return cmd
}

func summaryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <date>",
		Short: "Show a stored summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := e.Repo.GetSummary(ctx, date)
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	return cmd
}

func exportCmd() *cobra.Command {
	exp := &cobra.Command{
		Use:   "export",
		Short: "Export tasks and summaries",
	}
	exp.AddCommand(exportCSVCmd())
	exp.AddCommand(exportICSCmd())
	exp.AddCommand(exportPDFCmd())
	return exp
}

func exportCSVCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export all tasks as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withViews(cmd.Context(), func(ctx context.Context, v views.Views) error {
				tasks, err := v.AllTasks(ctx)
				if err != nil {
					return err
				}
				w := os.Stdout
				if out != "" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return export.TasksCSV(w, tasks)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout if omitted)")
	return cmd
}

func exportICSCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export due-dated open tasks as an iCalendar feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withViews(cmd.Context(), func(ctx context.Context, v views.Views) error {
				tasks, err := v.AllTasks(ctx)
				if err != nil {
					return err
				}
				cal, err := export.Calendar(tasks, time.Now().UTC())
				if err != nil {
					return err
				}
				if out == "" {
					fmt.Print(cal)
					return nil
				}
				return os.WriteFile(out, []byte(cal), 0o644)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout if omitted)")
	return cmd
}

func exportPDFCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Export the director summary as a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out required")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := report.Generate(ctx, views.New(e.Repo), e.Now)
				if err != nil {
					return err
				}
				if err := export.SummaryPDF(s, out); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the workspace with a sample crew and week of shifts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				if err := seed.Run(ctx, e, actor(e)); err != nil {
					return err
				}
				fmt.Println("seeded sample employees, shifts and a draft schedule")
				return nil
			})
		},
	}
	return cmd
}
