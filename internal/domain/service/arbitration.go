package service

import "PreApprove/internal/domain/models"

// ArbitrationPolicy resolves final terms when the arbiter agent is
// unreachable and a local decision has to be synthesized. The profitability
// trade-off between challenger counter-offers and original terms is policy,
// not pipeline logic, so it stays pluggable.
type ArbitrationPolicy interface {
	Resolve(challenge models.ChallengerAnalysis, original models.TermsOffer) models.ArbiterDecision
}

// ConservativePolicy takes the challenger's counter-offer when one exists
// (the bank-economics view is the cautious one) and the original terms
// otherwise.
type ConservativePolicy struct{}

func (ConservativePolicy) Resolve(challenge models.ChallengerAnalysis, original models.TermsOffer) models.ArbiterDecision {
	if challenge.Action == "counter_offer" && challenge.CounterTerms != nil {
		return models.ArbiterDecision{
			Decision: "approved_with_changes",
			Terms:    *challenge.CounterTerms,
			Reason:   "challenger counter-offer adopted pending arbiter review",
		}
	}
	return models.ArbiterDecision{
		Decision: "approved",
		Terms:    original,
		Reason:   "original terms stand; no counter-offer raised",
	}
}
