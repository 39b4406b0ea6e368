package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ornik8/incident-sync/internal/app"
)

// AccountsCmd returns the accounts command
func AccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List operator accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				list := a.Accounts.List(ctx)
				if len(list) == 0 {
					printf(cmd, "No accounts.\n")
					return nil
				}
				for _, acc := range list {
					state := color.New(color.FgGreen).Sprint("active  ")
					if !acc.IsActive {
						state = color.New(color.FgYellow).Sprint("inactive")
					}
					printf(cmd, "%s %-16s %-13s %-32s %s\n",
						state, acc.Username, acc.Role, acc.FullName, dim(fmt.Sprintf("%s %s/%s", acc.ID, acc.State, acc.Locality)))
				}
				return nil
			})
		},
	}
}
