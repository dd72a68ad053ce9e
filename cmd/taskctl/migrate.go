package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Long: `Apply every pending schema migration. Running it again on an
up-to-date database is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withBackend(cmd.Context(), func(b backend) error {
				before, err := b.SchemaVersion(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to read schema version: %w", err)
				}
				if err := b.Migrate(cmd.Context()); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				after, err := b.SchemaVersion(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to read schema version: %w", err)
				}
				if after == before {
					fmt.Fprintf(c.out, "schema already at version %d\n", after)
					return nil
				}
				fmt.Fprintf(c.out, "schema migrated from version %d to %d\n", before, after)
				return nil
			})
		},
	}
	cmd.AddCommand(c.migrateStatusCmd())
	return cmd
}

func (c *cli) migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withBackend(cmd.Context(), func(b backend) error {
				version, err := b.SchemaVersion(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to read schema version: %w", err)
				}
				fmt.Fprintf(c.out, "schema version %d\n", version)
				return nil
			})
		},
	}
}
