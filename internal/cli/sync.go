package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ornik8/incident-sync/internal/app"
	"github.com/ornik8/incident-sync/internal/infrastructure/db/postgres"
)

// SyncCmd returns the sync command
func SyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Inspect and test the remote mirror",
	}
	cmd.AddCommand(syncTestCmd())
	cmd.AddCommand(syncSchemaCmd())
	return cmd
}

func syncTestCmd() *cobra.Command {
	var url, key string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Probe a remote address; defaults to the saved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				settings := a.Sync.Settings()
				if url != "" {
					settings.URL = url
				}
				if key != "" {
					settings.AccessKey = key
				}
				res := a.Sync.TestConnection(ctx, settings)
				if !res.OK {
					printf(cmd, "%s %s: %s\n", failMark, settings.URL, res.Reason)
					return errors.New("remote connection failed")
				}
				printf(cmd, "%s %s reachable\n", okMark, settings.URL)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "remote address (mongodb:// or postgres://)")
	cmd.Flags().StringVar(&key, "key", "", "remote access key")
	return cmd
}

func syncSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the SQL the Postgres mirror expects",
		RunE: func(cmd *cobra.Command, args []string) error {
			printf(cmd, "%s", postgres.Schema)
			return nil
		},
	}
}

