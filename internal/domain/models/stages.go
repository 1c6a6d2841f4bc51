package models

// StageName identifies one pipeline stage / downstream agent.
type StageName string

const (
	StageRisk       StageName = "risk"
	StageTerms      StageName = "terms"
	StagePerks      StageName = "perks"
	StageChallenger StageName = "challenger"
	StageArbiter    StageName = "arbiter"
	StagePolicy     StageName = "policy"
)

// AllStages lists stages in dependency order.
func AllStages() []StageName {
	return []StageName{StageRisk, StagePerks, StageTerms, StageChallenger, StageArbiter, StagePolicy}
}

// RiskAssessment is the risk agent's output.
type RiskAssessment struct {
	Score       int                `json:"score"`
	Tier        string             `json:"tier"`
	RiskFactors map[string]float64 `json:"risk_factors"`
	Confidence  float64            `json:"confidence"`
}

// TermsOffer is the terms agent's output: a single credit-card proposal.
type TermsOffer struct {
	ProductType     string     `json:"product_type"`
	CreditLimit     float64    `json:"credit_limit"`
	LimitRange      [2]float64 `json:"limit_range"`
	APRRange        [2]float64 `json:"apr_range"`
	IntroOffer      string     `json:"intro_offer"`
	Explanation     string     `json:"explanation"`
	TermsConditions string     `json:"terms_conditions"`
	Confidence      float64    `json:"confidence"`
}

// PerkSelection is the perks agent's output.
type PerkSelection struct {
	PerkList        []string `json:"perks"`
	PrimaryCategory string   `json:"primary_category"`
	Rationale       string   `json:"rationale"`
}

// ChallengerAnalysis stress-tests a terms proposal against bank economics.
type ChallengerAnalysis struct {
	ROE                  float64     `json:"roe"`
	LossRate             float64     `json:"loss_rate"`
	ConstraintViolations []string    `json:"constraint_violations"`
	Action               string      `json:"action"` // approve | counter_offer | reject
	CounterTerms         *TermsOffer `json:"counter_terms,omitempty"`
	Confidence           float64     `json:"confidence"`
}

// ArbiterDecision is the authoritative final call on terms.
type ArbiterDecision struct {
	Decision string     `json:"decision"` // approved | approved_with_changes | declined
	Terms    TermsOffer `json:"terms"`
	Reason   string     `json:"reason"`
}

// PolicyDocuments is the legal-document set generated for the decision.
type PolicyDocuments struct {
	PreApprovalDisclosure string `json:"pre_approval_disclosure"`
	TermsSummary          string `json:"terms_summary"`
	PrivacyNotice         string `json:"privacy_notice"`
}

// StageStatus tags how a stage concluded.
type StageStatus string

const (
	StageSuccess  StageStatus = "success"
	StageDegraded StageStatus = "degraded"
)

// StageOutcome records a stage's terminal state for the run. Degraded
// outcomes already carry the fallback payload substituted into the result,
// so downstream stages consume them like any other input.
type StageOutcome struct {
	Stage  StageName   `json:"stage"`
	Status StageStatus `json:"status"`
	Reason string      `json:"reason,omitempty"`
}

// PipelineResult is the orchestrator's output for one run. It is what the
// cache stores; the aggregator derives the caller-facing decision from it
// deterministically.
type PipelineResult struct {
	Fingerprint string                `json:"fingerprint"`
	Snapshot    UserFinancialSnapshot `json:"snapshot"`
	Profile     SpendingProfile       `json:"profile"`
	Risk        RiskAssessment        `json:"risk"`
	Terms       TermsOffer            `json:"terms"`
	Perks       PerkSelection         `json:"perks"`
	Challenger  ChallengerAnalysis    `json:"challenger"`
	Arbiter     ArbiterDecision       `json:"arbiter"`
	Policy      PolicyDocuments       `json:"policy"`
	Outcomes    []StageOutcome        `json:"outcomes"`
}

// DegradedStages returns the names of stages that fell back to defaults,
// in dependency order.
func (r *PipelineResult) DegradedStages() []StageName {
	out := make([]StageName, 0)
	for _, oc := range r.Outcomes {
		if oc.Status == StageDegraded {
			out = append(out, oc.Stage)
		}
	}
	return out
}
