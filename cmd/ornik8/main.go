// @title           ORNIK8 Incident Sync API
// @version         1.0
// @description     Local-first incident reports with best-effort remote mirroring.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ornik8/incident-sync/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ornik8",
		Short: "ORNIK8 - local-first traffic incident reports",
		Long: `ornik8 keeps incident reports and operator accounts on the device and mirrors
every change to a shared remote store when one is configured and reachable.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.AccountsCmd())
	rootCmd.AddCommand(cli.SyncCmd())
	rootCmd.AddCommand(cli.SequenceCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
