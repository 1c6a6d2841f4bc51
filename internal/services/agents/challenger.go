package agents

import (
	"context"

	"PreApprove/internal/domain/models"
	"PreApprove/internal/domain/service"
)

// ChallengerClient calls the terms challenger agent. On failure the terms
// proposal passes through unchallenged.
type ChallengerClient struct {
	caller *caller
	url    string
}

func NewChallengerClient(c *caller, url string) *ChallengerClient {
	return &ChallengerClient{caller: c, url: url}
}

type challengeRequest struct {
	Terms models.TermsOffer    `json:"terms"`
	Perks models.PerkSelection `json:"perks"`
}

func (c *ChallengerClient) Challenge(ctx context.Context, terms models.TermsOffer, perks models.PerkSelection) (service.AgentResult[models.ChallengerAnalysis], error) {
	var out models.ChallengerAnalysis
	err := c.caller.post(ctx, string(models.StageChallenger), c.url+"/challenge-terms", challengeRequest{Terms: terms, Perks: perks}, &out)
	if err != nil {
		return service.AgentResult[models.ChallengerAnalysis]{
			Payload:  fallbackChallenger(),
			Degraded: true,
			Reason:   err.Error(),
		}, nil
	}
	if !validChallengerAction(out.Action) {
		return service.AgentResult[models.ChallengerAnalysis]{
			Payload:  fallbackChallenger(),
			Degraded: true,
			Reason:   "challenger returned unknown action " + out.Action,
		}, nil
	}
	return service.AgentResult[models.ChallengerAnalysis]{Payload: out}, nil
}

func validChallengerAction(action string) bool {
	switch action {
	case "approve", "counter_offer", "reject":
		return true
	}
	return false
}
