//go:build wireinject
// +build wireinject

package di

import (
	"RiskLens/pkg/config"
	"RiskLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application with
// a cleanup that releases cache, broker and database connections.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideAlertPublisher,
		ProvideSnapshotArchive,

		// Providers and collaborators
		ProvidePriceClient,
		ProvideNewsClient,
		ProvideSummarizer,

		// Use cases
		ProvideEntities,
		ProvideEntityFetcher,
		ProvideSnapshotUseCase,
		ProvideCurrentSnapshot,
		ProvideScenarioUseCase,
		ProvideInsightsUseCase,
		ProvideRefresher,

		// HTTP
		ProvideHub,
		ProvideSnapshotHandler,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
