package catalog

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/acervolab/acervo-backend/platform/go/persistence"
)

// Command groups catalog helpers (downloadable products).
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog utilities (products)",
	}

	cmd.AddCommand(addCommand())
	cmd.AddCommand(listCommand())
	return cmd
}

func addCommand() *cobra.Command {
	var (
		databaseURL string
		name        string
		objectKey   string
		price       string
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Add a downloadable product to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			priceValue, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("invalid price: %w", err)
			}

			store, err := openProductStore(ctx, databaseURL)
			if err != nil {
				return err
			}

			rec, err := store.CreateProduct(ctx, name, objectKey, priceValue)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created product %s\n", rec.ProductID)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
	c.Flags().StringVar(&name, "name", "", "product display name")
	c.Flags().StringVar(&objectKey, "object-key", "", "object key in the storage bucket")
	c.Flags().StringVar(&price, "price", "", "price, e.g. 49.90")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("object-key")
	_ = c.MarkFlagRequired("price")

	return c
}

func listCommand() *cobra.Command {
	var databaseURL string

	c := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			store, err := openProductStore(ctx, databaseURL)
			if err != nil {
				return err
			}

			recs, err := store.ListProducts(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tOBJECT KEY\tPRICE")
			for _, rec := range recs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.ProductID, rec.Name, rec.ObjectKey, rec.Price.StringFixed(2))
			}
			return w.Flush()
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
	_ = c.MarkFlagRequired("database-url")

	return c
}

func openProductStore(ctx context.Context, databaseURL string) (*persistence.ProductStore, error) {
	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
	if err != nil {
		return nil, fmt.Errorf("init pool: %w", err)
	}
	return persistence.NewProductStore(pool)
}
