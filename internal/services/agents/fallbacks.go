package agents

import "PreApprove/internal/domain/models"

// Documented fallback payloads substituted when an optional agent is
// unreachable. Values are stable so degraded responses stay predictable.

func fallbackTerms() models.TermsOffer {
	return models.TermsOffer{
		ProductType: "Silver Credit Card",
		CreditLimit: 1500,
		LimitRange:  [2]float64{1500, 3000},
		APRRange:    [2]float64{22.99, 26.99},
		IntroOffer:  "3% cash back on dining for 3 months",
		Explanation: "Standard offer based on available account information.",
		TermsConditions: "Variable APR applies after the introductory period. " +
			"Credit limit subject to final verification.",
		Confidence: 0.75,
	}
}

func fallbackPerks() models.PerkSelection {
	return models.PerkSelection{
		PerkList:        []string{"No annual fee", "Mobile alerts", "Purchase protection"},
		PrimaryCategory: "Other",
		Rationale:       "Standard perk set applied; spending-based selection was unavailable.",
	}
}

func fallbackChallenger() models.ChallengerAnalysis {
	return models.ChallengerAnalysis{
		Action:               "approve",
		ConstraintViolations: []string{},
		Confidence:           0,
	}
}

func fallbackPolicy(decision models.ArbiterDecision) models.PolicyDocuments {
	return models.PolicyDocuments{
		PreApprovalDisclosure: "You are pre-approved subject to identity verification and " +
			"final underwriting review. This offer does not guarantee credit issuance.",
		TermsSummary: "Product: " + decision.Terms.ProductType + ". " +
			"Full account terms and the cardholder agreement will be provided before activation.",
		PrivacyNotice: "Your financial information is used solely to evaluate this offer " +
			"and is handled according to our privacy policy.",
	}
}
