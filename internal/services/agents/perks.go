package agents

import (
	"context"

	"PreApprove/internal/domain/models"
	"PreApprove/internal/domain/service"
)

// PerksClient calls the perk selection agent, falling back to the standard
// perk set when the agent is unavailable.
type PerksClient struct {
	caller *caller
	url    string
}

func NewPerksClient(c *caller, url string) *PerksClient {
	return &PerksClient{caller: c, url: url}
}

type perksRequest struct {
	SpendingProfile *models.SpendingProfile `json:"spending_profile"`
}

func (p *PerksClient) Select(ctx context.Context, profile *models.SpendingProfile) (service.AgentResult[models.PerkSelection], error) {
	var out models.PerkSelection
	err := p.caller.post(ctx, string(models.StagePerks), p.url+"/generate-perks", perksRequest{SpendingProfile: profile}, &out)
	if err != nil {
		return service.AgentResult[models.PerkSelection]{
			Payload:  fallbackPerks(),
			Degraded: true,
			Reason:   err.Error(),
		}, nil
	}
	return service.AgentResult[models.PerkSelection]{Payload: out}, nil
}
