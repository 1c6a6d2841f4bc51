package service

import (
	"context"

	"PreApprove/internal/domain/models"
)

// AgentResult wraps a stage payload with its degradation state. A degraded
// result carries the documented fallback payload and the classification
// reason; callers treat it as valid input.
type AgentResult[T any] struct {
	Payload  T
	Degraded bool
	Reason   string
}

// RiskScorer assesses creditworthiness from a snapshot and profile.
// This is the only mandatory stage: its degradation aborts the pipeline.
type RiskScorer interface {
	Assess(ctx context.Context, snapshot *models.UserFinancialSnapshot, profile *models.SpendingProfile) (AgentResult[models.RiskAssessment], error)
}

// TermsGenerator produces a credit offer from a risk assessment.
type TermsGenerator interface {
	Generate(ctx context.Context, risk models.RiskAssessment) (AgentResult[models.TermsOffer], error)
}

// PerkSelector picks perks from the customer's spending profile.
type PerkSelector interface {
	Select(ctx context.Context, profile *models.SpendingProfile) (AgentResult[models.PerkSelection], error)
}

// TermsChallenger stress-tests a proposal against bank economics.
type TermsChallenger interface {
	Challenge(ctx context.Context, terms models.TermsOffer, perks models.PerkSelection) (AgentResult[models.ChallengerAnalysis], error)
}

// Arbiter issues the authoritative final decision on terms. The challenger
// output is advisory input; the arbiter has final say.
type Arbiter interface {
	Arbitrate(ctx context.Context, challenge models.ChallengerAnalysis, original models.TermsOffer) (AgentResult[models.ArbiterDecision], error)
}

// PolicyWriter generates the legal-document set for a final decision.
type PolicyWriter interface {
	Write(ctx context.Context, decision models.ArbiterDecision) (AgentResult[models.PolicyDocuments], error)
}
