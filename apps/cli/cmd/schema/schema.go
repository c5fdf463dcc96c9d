package schemacmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	sqlassets "github.com/rlst8/rlst8/database"
	"github.com/rlst8/rlst8/platform/go/persistence"
)

// Command groups schema-related CLI helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Schema utilities (apply core DDL)",
	}

	cmd.AddCommand(applyCommand())
	return cmd
}

func applyCommand() *cobra.Command {
	var databaseURL string

	c := &cobra.Command{
		Use:   "apply",
		Short: "Apply the embedded core schema DDL to the target database",
		Long:  "Applies the embedded core schema (organizations, users, properties, tenancies, payments, maintenance, visitor logs, parking slots). Statements are idempotent (CREATE TABLE IF NOT EXISTS), so re-running is safe.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return fmt.Errorf("database url is required (flag --database-url or DATABASE_URL)")
			}

			ctx := context.Background()
			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			// pgx's extended protocol rejects multi-statement commands, so the
			// embedded DDL is executed statement by statement.
			applied := 0
			for _, stmt := range strings.Split(sqlassets.CoreSchemaSQL, ";") {
				stmt = strings.TrimSpace(stmt)
				if stmt == "" {
					continue
				}
				if _, err := pool.Exec(ctx, stmt); err != nil {
					return fmt.Errorf("apply schema statement %d: %w", applied+1, err)
				}
				applied++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Schema applied (%d statements).\n", applied)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (defaults to DATABASE_URL)")

	return c
}
