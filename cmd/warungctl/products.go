package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/warung/internal/importer"
	"github.com/MrJamesThe3rd/warung/internal/product"
	productStore "github.com/MrJamesThe3rd/warung/internal/product/store"
)

func newProductsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalogue",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "import <file.csv>",
		Short:   "Create or update products from a CSV export",
		Example: "  warungctl products import stok-maret.csv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			svc := importer.NewService(product.NewService(productStore.New(e.db)))

			rep, err := svc.Import(cmd.Context(), importer.FormatCSV, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "charset %s: %d created, %d updated, %d skipped\n",
				rep.Charset, rep.Created, rep.Updated, len(rep.Skipped))

			for _, s := range rep.Skipped {
				fmt.Fprintf(out, "  line %d: %s\n", s.Line, s.Reason)
			}

			return nil
		},
	})

	return cmd
}
