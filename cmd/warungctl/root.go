package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/warung/internal/config"
	"github.com/MrJamesThe3rd/warung/internal/database"
)

// env is opened lazily by commands that need the database.
type env struct {
	cfg *config.Config
	loc *time.Location
	db  *sql.DB
}

func (e *env) open() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	e.cfg, e.loc, e.db = cfg, loc, db

	return nil
}

func (e *env) close() {
	if e.db != nil {
		e.db.Close()
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "warungctl",
		Short:         "Maintenance commands for the warung dashboard database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			return e.open()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.close()
		},
	}

	root.AddCommand(
		newMigrateCmd(e),
		newDebtsCmd(e),
		newProductsCmd(e),
		newCustomersCmd(e),
	)

	return root
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.Migrate(cmd.Context(), e.db); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")

			return nil
		},
	}
}
