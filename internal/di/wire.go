//go:build wireinject
// +build wireinject

package di

import (
	"SenateInsight/internal/usecase"
	"SenateInsight/pkg/config"
	"SenateInsight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideRateLimiter,
		ProvideCache,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideAlertStore,
		ProvidePriceStore,
		ProvideTransactionStore,
		ProvideAlertPublisher,

		// Data sources
		ProvideMemberSource,
		ProvideDisclosureSource,
		ProvidePriceSource,

		// Use cases
		ProvideDetector,
		ProvideAlertProcessor,
		ProvideAlertPipeline,
		ProvideOrchestrator,
		ProvideReporter,
		ProvideJobQueue,

		// HTTP and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeOrchestrator builds the analysis pipeline without the HTTP
// server, for one-shot CLI runs.
func InitializeOrchestrator(cfg *config.Config) (*usecase.Orchestrator, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideRateLimiter,
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideAlertStore,
		ProvidePriceStore,
		ProvideTransactionStore,
		ProvideAlertPublisher,
		ProvideMemberSource,
		ProvideDisclosureSource,
		ProvidePriceSource,
		ProvideDetector,
		ProvideAlertProcessor,
		ProvideAlertPipeline,
		ProvideOrchestrator,
	)
	return &usecase.Orchestrator{}, nil
}

// InitializeReporter builds the report generator over the alert store.
func InitializeReporter(cfg *config.Config) (*usecase.Reporter, error) {
	wire.Build(
		ProvideClickHouseClient,
		ProvideAlertStore,
		ProvideReporter,
	)
	return &usecase.Reporter{}, nil
}
