package di

import (
	"fmt"

	"PreApprove/internal/domain/service"
	"PreApprove/internal/handler/api"
	"PreApprove/internal/services/agents"
	"PreApprove/internal/services/bank"
	"PreApprove/internal/usecase"
	"PreApprove/pkg/cache"
	"PreApprove/pkg/config"
	xhttp "PreApprove/pkg/http"
	"PreApprove/pkg/logger"
	"PreApprove/pkg/metrics"
	"PreApprove/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() service.Metrics {
	return metrics.New()
}

// ProvideCacheStore creates the pipeline-result cache from config.
func ProvideCacheStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "redis":
		store, err := cache.NewRedisStore(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return store, nil
	default:
		return cache.NewMemoryStore(), nil
	}
}

// ProvideBankClient creates the upstream financial data client.
func ProvideBankClient(cfg *config.Config, l *logger.Logger) service.BankDataFetcher {
	return bank.NewClient(cfg, l)
}

// ProvideArbitrationPolicy selects the local arbitration fallback policy.
func ProvideArbitrationPolicy() service.ArbitrationPolicy {
	return service.ConservativePolicy{}
}

// ProvideAgentClients creates the six stage agent clients.
func ProvideAgentClients(cfg *config.Config, l *logger.Logger, m service.Metrics, policy service.ArbitrationPolicy) *agents.Clients {
	return agents.NewClients(cfg.Agents, l, m, policy)
}

// ProvideOrchestrator creates the pipeline orchestrator.
func ProvideOrchestrator(cfg *config.Config, fetcher service.BankDataFetcher, clients *agents.Clients, store cache.Store, l *logger.Logger, m service.Metrics) *usecase.Orchestrator {
	return usecase.NewOrchestrator(fetcher, usecase.StageAgents{
		Risk:       clients.Risk,
		Terms:      clients.Terms,
		Perks:      clients.Perks,
		Challenger: clients.Challenger,
		Arbiter:    clients.Arbiter,
		Policy:     clients.Policy,
	}, store, l, m, cfg.Pipeline.Budget, cfg.Cache.TTL)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(o *usecase.Orchestrator, store cache.Store, l *logger.Logger, m service.Metrics) xhttp.Handler {
	return api.NewPreApprovalHandler(o, store, l, m)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *logger.Logger, store cache.Store, handler xhttp.Handler) *server.App {
	return server.New(cfg, l, store, handler)
}
