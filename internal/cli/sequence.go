package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ornik8/incident-sync/internal/app"
)

// SequenceCmd returns the sequence command
func SequenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Sequence number tools",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "next",
		Short: "Allocate and print the next sequence number",
		Long:  "Allocates a number for real: it is consumed and will not be handed out again.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				seq, err := a.Sequence.Next(ctx)
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", seq)
				return nil
			})
		},
	})
	return cmd
}
