package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"culiflow/internal/config"
	"culiflow/internal/db"
	"culiflow/internal/engine"
	"culiflow/internal/repo"
	"culiflow/internal/views"
)

var rootCmd = &cobra.Command{
	Use:   "culiflow",
	Short: "Culiflow CLI",
	Long: `Culiflow is a local-first operations board for restaurant kitchens.
Core concepts:
- Workspace: a directory holding the .culiflow database, snapshot and config.
- Tasks: prep, service, admin, standards and compliance work items moving
  backlog -> in_progress -> ready -> verified -> done.
- Quick-add: one line of shorthand ("prep 10 chicken stock 2gal @garde 9a
  #mike !critical /temp +oak") becomes a fully tagged task.
- Event log: an append-only diary of every change; view with 'culiflow log tail'.
- Scheduling: employees, shifts, weekly schedules and conflict alerts.
- Summary: the end-of-day director roll-up of misses, blockers and risks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("CULIFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor", "", "actor identifier (overrides config)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor", rootCmd.PersistentFlags().Lookup("actor"))
}

func registerCommands() {
	rootCmd.AddCommand(quickaddCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(employeeCmd())
	rootCmd.AddCommand(shiftCmd())
	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(conflictCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(configCmd())
}

// --- helpers ---

func withEngine(ctx context.Context, fn func(context.Context, *engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	h := db.NewHandle(db.Config{Workspace: workspace})
	defer h.Close()
	conn, err := h.DB()
	if err != nil {
		return err
	}
	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}
	e := engine.New(repo.Repo{DB: conn}, cfg)
	return fn(ctx, e)
}

func withViews(ctx context.Context, fn func(context.Context, views.Views) error) error {
	workspace := viper.GetString("workspace")
	h := db.NewHandle(db.Config{Workspace: workspace})
	defer h.Close()
	conn, err := h.DB()
	if err != nil {
		return err
	}
	return fn(ctx, views.New(repo.Repo{DB: conn}))
}

// actor resolves the acting user: the --actor flag wins, then the config file.
func actor(e *engine.Engine) string {
	if a := viper.GetString("actor"); a != "" {
		return a
	}
	return e.Config.Actor
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect workspace config",
	}
	cfg.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show loaded config",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(c)
		},
	})
	cfg.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate workspace config",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(viper.GetString("workspace"))
			if err == nil {
				err = c.Validate()
			}
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": fmt.Sprint(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("config OK")
			return nil
		},
	})
	return cfg
}
