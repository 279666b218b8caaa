//go:build wireinject
// +build wireinject

package di

import (
	"CoinLake/pkg/config"
	"CoinLake/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Storage
		ProvideStore,
		ProvideSnapshotSource,
		ProvideHistoryTable,
		ProvideAggregateTable,

		// Bronze
		ProvideMarketFetcher,
		ProvideIngestor,

		// Silver
		ProvideReconciler,
		ProvideSilverRunner,

		// Gold
		ProvideEngine,
		ProvideNotifier,
		ProvideEmitter,
		ProvideClickHouseClient,
		ProvideExporter,
		ProvideGoldRunner,
		ProvidePipeline,

		// Dashboard
		ProvideCache,
		ProvideQueryService,
		ProvideHTTPHandler,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
