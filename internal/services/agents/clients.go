package agents

import (
	"PreApprove/internal/domain/service"
	"PreApprove/pkg/config"
	"PreApprove/pkg/logger"
)

// Clients bundles the six stage agent clients. They share one retry core and
// one circuit breaker keyed by stage name.
type Clients struct {
	Risk       *RiskClient
	Terms      *TermsClient
	Perks      *PerksClient
	Challenger *ChallengerClient
	Arbiter    *ArbiterClient
	Policy     *PolicyClient
}

func NewClients(cfg config.AgentsConfig, l *logger.Logger, m service.Metrics, policy service.ArbitrationPolicy) *Clients {
	c := newCaller(cfg, l, m)
	return &Clients{
		Risk:       NewRiskClient(c, cfg.RiskURL),
		Terms:      NewTermsClient(c, cfg.TermsURL),
		Perks:      NewPerksClient(c, cfg.PerksURL),
		Challenger: NewChallengerClient(c, cfg.ChallengerURL),
		Arbiter:    NewArbiterClient(c, cfg.ArbiterURL, policy),
		Policy:     NewPolicyClient(c, cfg.PolicyURL),
	}
}
