package bootstrap

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acervolab/acervo-backend/platform/go/persistence"
)

// Command groups bootstrap helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap database resources",
	}

	cmd.AddCommand(schemaCommand())
	return cmd
}

func schemaCommand() *cobra.Command {
	var databaseURL string

	c := &cobra.Command{
		Use:   "schema",
		Short: "Apply the embedded DDL to the target database",
		Long:  "Applies the embedded schema files (budgets, companies, projects, products) idempotently.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			if err := persistence.Bootstrap(ctx, pool); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
	_ = c.MarkFlagRequired("database-url")

	return c
}
