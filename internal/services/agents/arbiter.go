package agents

import (
	"context"

	"PreApprove/internal/domain/models"
	"PreApprove/internal/domain/service"
)

// ArbiterClient calls the arbitration agent for the authoritative final call
// on terms. When the agent is unavailable a local ArbitrationPolicy
// synthesizes the decision.
type ArbiterClient struct {
	caller *caller
	url    string
	policy service.ArbitrationPolicy
}

func NewArbiterClient(c *caller, url string, policy service.ArbitrationPolicy) *ArbiterClient {
	if policy == nil {
		policy = service.ConservativePolicy{}
	}
	return &ArbiterClient{caller: c, url: url, policy: policy}
}

type arbitrateRequest struct {
	Challenge     models.ChallengerAnalysis `json:"challenge"`
	OriginalTerms models.TermsOffer         `json:"original_terms"`
}

func (a *ArbiterClient) Arbitrate(ctx context.Context, challenge models.ChallengerAnalysis, original models.TermsOffer) (service.AgentResult[models.ArbiterDecision], error) {
	var out models.ArbiterDecision
	err := a.caller.post(ctx, string(models.StageArbiter), a.url+"/arbitrate", arbitrateRequest{
		Challenge:     challenge,
		OriginalTerms: original,
	}, &out)
	if err != nil {
		return service.AgentResult[models.ArbiterDecision]{
			Payload:  a.policy.Resolve(challenge, original),
			Degraded: true,
			Reason:   err.Error(),
		}, nil
	}
	return service.AgentResult[models.ArbiterDecision]{Payload: out}, nil
}
