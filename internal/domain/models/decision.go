package models

import "time"

// AIInsights groups the six stage outputs inside the decision document.
type AIInsights struct {
	RiskDecision       RiskAssessment     `json:"risk_decision"`
	Terms              TermsOffer         `json:"terms"`
	Perks              PerkSelection      `json:"perks"`
	ChallengerAnalysis ChallengerAnalysis `json:"challenger_analysis"`
	FinalDecision      ArbiterDecision    `json:"final_decision"`
	PolicyDocuments    PolicyDocuments    `json:"policy_documents"`
}

// PreApprovalDecision is the document returned to callers.
type PreApprovalDecision struct {
	Username           string                       `json:"username"`
	AccountID          string                       `json:"account_id"`
	CurrentBalance     float64                      `json:"current_balance"`
	TransactionCount   int                          `json:"transaction_count"`
	SpendingCategories map[string]CategoryAggregate `json:"spending_categories"`
	AIInsights         AIInsights                   `json:"ai_insights"`
	DegradedStages     []StageName                  `json:"degraded_stages"`
	GeneratedAt        time.Time                    `json:"generated_at"`
	Cached             bool                         `json:"cached"`
}
