package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/panchanga-api/internal/config"
	"github.com/zapponejosh/panchanga-api/internal/database"
	"github.com/zapponejosh/panchanga-api/internal/logger"
)

func init() {
	var dbPath string
	var remove bool

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List export runs, or summarize or delete one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remove && len(args) == 0 {
				return errors.New("--delete needs a run id")
			}
			return runRuns(cmd, args, dbPath, remove)
		},
	}
	cmd.Flags().StringVarP(&dbPath, "db", "d", "", "SQLite file (default: $DATABASE_PATH)")
	cmd.Flags().BoolVar(&remove, "delete", false, "Delete the run and compact the file")

	RootCmd.AddCommand(cmd)
}

func runRuns(cmd *cobra.Command, args []string, dbPath string, remove bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.SetupWriter(cfg, cmd.ErrOrStderr())
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if _, err := db.Migrate(ctx); err != nil {
		return err
	}

	if remove {
		if err := db.DeleteRun(ctx, args[0]); err != nil {
			return fmt.Errorf("delete run %s: %w", args[0], err)
		}
		if err := db.Compact(ctx); err != nil {
			return err
		}
		log.Info("run deleted", slog.String("run_id", args[0]))
		return nil
	}

	if len(args) == 1 {
		summary, err := db.Summarize(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), summary)
	}

	runs, err := db.ListRuns(ctx)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []database.Run{}
	}
	return writeJSON(cmd.OutOrStdout(), runs)
}
