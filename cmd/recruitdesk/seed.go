package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/recruitdesk/internal/database"
)

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, accounts, positions and candidates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.Seed(cmd.Context(), e.db); err != nil {
				return err
			}
			e.logger.Info("demo data seeded")
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "demo data loaded into", e.cfg.Database.Path)
			return err
		},
	}
}

func newResetCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every record and restore the default field sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("reset deletes every record in %s, pass --yes to confirm", e.cfg.Database.Path)
			}
			if err := e.maintenance.Reset(cmd.Context()); err != nil {
				return err
			}
			e.logger.Info("database reset")
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return err
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
