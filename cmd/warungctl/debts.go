package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/warung/internal/debt"
	debtStore "github.com/MrJamesThe3rd/warung/internal/debt/store"
	"github.com/MrJamesThe3rd/warung/internal/invoice"
	"github.com/MrJamesThe3rd/warung/internal/report"
)

func newDebtsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debts",
		Short: "Inspect debt balances",
	}

	var fix bool

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Compare every debt with its payment history",
		Long: `Compare the paid amount, remaining amount and status of every debt with
what its recorded payments imply. With --fix, mismatched debts are rewritten
from their payments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := debt.NewService(debtStore.New(e.db))

			ds, err := svc.Verify(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(ds) == 0 {
				fmt.Fprintln(out, "all debts match their payments")
				return nil
			}

			slices.SortFunc(ds, func(a, b debt.Discrepancy) int {
				return invoice.Compare(a.InvoiceCode, b.InvoiceCode)
			})

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INVOICE\tSOLD ON\tPAID\tPAYMENTS\tREMAINING\tEXPECTED\tSTATUS\tEXPECTED")

			for _, d := range ds {
				soldOn := "-"
				if date, _, err := invoice.Parse(d.InvoiceCode); err == nil {
					soldOn = date.Format("02-01-2006")
				}

				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					d.InvoiceCode,
					soldOn,
					report.FormatRupiah(d.PaidAmount),
					report.FormatRupiah(d.PaymentsTotal),
					report.FormatRupiah(d.RemainingDebt),
					report.FormatRupiah(d.ExpectedRemaining),
					d.Status,
					d.ExpectedStatus,
				)
			}

			if err := tw.Flush(); err != nil {
				return err
			}

			if !fix {
				return fmt.Errorf("%d debt(s) out of step with their payments, rerun with --fix to repair", len(ds))
			}

			fixed, err := svc.Repair(cmd.Context(), ds)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "repaired %d debt(s)\n", fixed)

			return nil
		},
	}
	verify.Flags().BoolVar(&fix, "fix", false, "rewrite mismatched debts from their payments")

	cmd.AddCommand(verify)

	return cmd
}
