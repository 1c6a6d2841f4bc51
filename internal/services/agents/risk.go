package agents

import (
	"context"
	"fmt"

	"PreApprove/internal/domain/models"
	"PreApprove/internal/domain/service"
)

// RiskClient calls the risk scoring agent. Risk is the mandatory stage, so
// there is no fallback payload: failures propagate to the orchestrator.
type RiskClient struct {
	caller *caller
	url    string
}

func NewRiskClient(c *caller, url string) *RiskClient {
	return &RiskClient{caller: c, url: url}
}

type riskRequest struct {
	Username        string                  `json:"username"`
	AccountID       string                  `json:"account_id"`
	CurrentBalance  float64                 `json:"current_balance"`
	SpendingProfile *models.SpendingProfile `json:"spending_profile"`
}

func (r *RiskClient) Assess(ctx context.Context, snapshot *models.UserFinancialSnapshot, profile *models.SpendingProfile) (service.AgentResult[models.RiskAssessment], error) {
	var out models.RiskAssessment
	err := r.caller.post(ctx, string(models.StageRisk), r.url+"/assess", riskRequest{
		Username:        snapshot.Username,
		AccountID:       snapshot.AccountID,
		CurrentBalance:  snapshot.CurrentBalance,
		SpendingProfile: profile,
	}, &out)
	if err != nil {
		return service.AgentResult[models.RiskAssessment]{}, err
	}
	if out.Score < 300 || out.Score > 850 {
		return service.AgentResult[models.RiskAssessment]{},
			fmt.Errorf("%w: risk score %d out of range", models.ErrAgentInvalidResponse, out.Score)
	}
	return service.AgentResult[models.RiskAssessment]{Payload: out}, nil
}
