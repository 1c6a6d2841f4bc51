package agents

import (
	"context"

	"PreApprove/internal/domain/models"
	"PreApprove/internal/domain/service"
)

// TermsClient calls the terms generation agent, falling back to the standard
// offer when the agent is unavailable.
type TermsClient struct {
	caller *caller
	url    string
}

func NewTermsClient(c *caller, url string) *TermsClient {
	return &TermsClient{caller: c, url: url}
}

type termsRequest struct {
	RiskAssessment models.RiskAssessment `json:"risk_assessment"`
}

func (t *TermsClient) Generate(ctx context.Context, risk models.RiskAssessment) (service.AgentResult[models.TermsOffer], error) {
	var out models.TermsOffer
	err := t.caller.post(ctx, string(models.StageTerms), t.url+"/generate", termsRequest{RiskAssessment: risk}, &out)
	if err != nil {
		return service.AgentResult[models.TermsOffer]{
			Payload:  fallbackTerms(),
			Degraded: true,
			Reason:   err.Error(),
		}, nil
	}
	return service.AgentResult[models.TermsOffer]{Payload: out}, nil
}
