package agents

import (
	"context"

	"PreApprove/internal/domain/models"
	"PreApprove/internal/domain/service"
)

// PolicyClient calls the policy document agent, falling back to the static
// disclosure texts when the agent is unavailable.
type PolicyClient struct {
	caller *caller
	url    string
}

func NewPolicyClient(c *caller, url string) *PolicyClient {
	return &PolicyClient{caller: c, url: url}
}

type policyRequest struct {
	Decision models.ArbiterDecision `json:"decision"`
}

func (p *PolicyClient) Write(ctx context.Context, decision models.ArbiterDecision) (service.AgentResult[models.PolicyDocuments], error) {
	var out models.PolicyDocuments
	err := p.caller.post(ctx, string(models.StagePolicy), p.url+"/generate-policy-documents", policyRequest{Decision: decision}, &out)
	if err != nil {
		return service.AgentResult[models.PolicyDocuments]{
			Payload:  fallbackPolicy(decision),
			Degraded: true,
			Reason:   err.Error(),
		}, nil
	}
	return service.AgentResult[models.PolicyDocuments]{Payload: out}, nil
}
