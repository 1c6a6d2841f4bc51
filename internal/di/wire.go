//go:build wireinject
// +build wireinject

package di

import (
	"PreApprove/pkg/config"
	"PreApprove/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCacheStore,

		ProvideBankClient,
		ProvideArbitrationPolicy,
		ProvideAgentClients,

		ProvideOrchestrator,
		ProvideHandler,

		ProvideApp,
	)
	return &server.App{}, nil
}
