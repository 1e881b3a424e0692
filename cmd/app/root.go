package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"RiskLens/internal/di"
	"RiskLens/pkg/config"
	"RiskLens/pkg/server"
)

var configPath string

func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:           "risklens",
		Short:         "Portfolio risk snapshots from market, macro and news data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
	root.AddCommand(serveCmd(), snapshotCmd())
	return root.ExecuteContext(ctx)
}

func buildApp() (*server.App, func(), error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config load failed: %w", err)
	}
	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("app initialization failed: %w", err)
	}
	return app, cleanup, nil
}
