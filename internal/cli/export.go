package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ornik8/incident-sync/internal/app"
	"github.com/ornik8/incident-sync/internal/infrastructure/backup"
)

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all incidents to a dated backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if dir == "" {
					dir = a.Config.Backup.Dir
				}
				snap, err := a.Records.Export(ctx)
				if err != nil {
					return err
				}
				path, err := backup.Write(dir, snap)
				if err != nil {
					return err
				}
				printf(cmd, "%s %s\n", okMark, path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "target directory (default BACKUP_DIR)")
	return cmd
}
