// Command planner runs one-shot maintenance and debugging tasks against the
// same configuration as the API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/outfitplanner/backend/config"
	"github.com/outfitplanner/backend/internal/app"
	"github.com/outfitplanner/backend/internal/logging"
)

func main() {
	var root = &cobra.Command{
		Use:           "planner",
		Short:         "Outfit Planner command line tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(searchCMD(), reembedCMD(), migrateCMD())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		logging.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadApp reads .env and configuration, then wires the application
func loadApp(ctx context.Context) (*app.App, error) {
	if err := config.LoadEnvFile(); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console"})

	return app.New(ctx, cfg)
}
