package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ornik8/incident-sync/internal/app"
	"github.com/ornik8/incident-sync/internal/infrastructure/config"
	"github.com/ornik8/incident-sync/pkg/logger"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	dim      = color.New(color.Faint).SprintFunc()
)

// withApp loads configuration, builds the app and runs fn with it. The app
// is closed afterwards so queued sync jobs get a chance to drain.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Output:  os.Stderr,
		Service: "ornik8",
	})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			l := logger.For("cli")
			l.Warn().Err(err).Msg("shutdown incomplete")
		}
	}()

	return fn(ctx, a)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
