package usecase

import (
	"time"

	"PreApprove/internal/domain/models"
)

// Assemble builds the caller-facing decision document from a pipeline result.
// It is deterministic: the same result always yields the same document, so a
// cached result reproduces the original response with only the cached flag
// and timestamp differing.
func Assemble(result *models.PipelineResult, cached bool) *models.PreApprovalDecision {
	return &models.PreApprovalDecision{
		Username:           result.Snapshot.Username,
		AccountID:          result.Snapshot.AccountID,
		CurrentBalance:     result.Snapshot.CurrentBalance,
		TransactionCount:   len(result.Snapshot.Transactions),
		SpendingCategories: result.Profile.Categories,
		AIInsights: models.AIInsights{
			RiskDecision:       result.Risk,
			Terms:              result.Terms,
			Perks:              result.Perks,
			ChallengerAnalysis: result.Challenger,
			FinalDecision:      result.Arbiter,
			PolicyDocuments:    result.Policy,
		},
		DegradedStages: result.DegradedStages(),
		GeneratedAt:    time.Now().UTC(),
		Cached:         cached,
	}
}
