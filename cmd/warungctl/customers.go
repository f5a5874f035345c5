package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/warung/internal/report"
	reportStore "github.com/MrJamesThe3rd/warung/internal/report/store"
)

func newCustomersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Customer utilities",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "statement <customer-id>",
		Short: "Print a customer's outstanding debt statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid customer id: %w", err)
			}

			svc := report.NewService(reportStore.New(e.db), e.loc, e.cfg.App.Name)

			text, err := svc.StatementText(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)

			return nil
		},
	})

	return cmd
}
