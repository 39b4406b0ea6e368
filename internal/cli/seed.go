package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ornik8/incident-sync/internal/app"
	"github.com/ornik8/incident-sync/internal/core/domain"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Restore the baseline operator accounts",
		Long: `Re-applies the fixed baseline accounts. Missing ones are recreated with their
well-known ids; existing ones get their username, role and name restored and are
re-activated. Other accounts are left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Accounts.EnsureBaseline(ctx); err != nil {
					printf(cmd, "%s baseline not applied: %v\n", failMark, err)
					return err
				}
				for _, b := range domain.BaselineAccounts {
					printf(cmd, "%s %-14s %-13s %s\n", okMark, b.Username, b.Role, dim(b.ID))
				}
				return nil
			})
		},
	}
}
