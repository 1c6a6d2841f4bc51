package models

import (
	"strings"
	"testing"
	"time"
)

func snap(balance float64, txs ...Transaction) *UserFinancialSnapshot {
	return &UserFinancialSnapshot{
		Username:       "alice",
		AccountID:      "1011226111",
		CurrentBalance: balance,
		Transactions:   txs,
	}
}

func TestFingerprintPrefix(t *testing.T) {
	fp := snap(100).Fingerprint()
	if !strings.HasPrefix(fp, "alice:") {
		t.Fatalf("fingerprint must be prefixed with the username: %s", fp)
	}
}

func TestFingerprintChangesWithContent(t *testing.T) {
	ts := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	base := snap(100, Transaction{ID: "t1", Amount: -10, Counterparty: "Shell", Timestamp: ts})

	withExtra := snap(100,
		Transaction{ID: "t1", Amount: -10, Counterparty: "Shell", Timestamp: ts},
		Transaction{ID: "t2", Amount: -20, Counterparty: "Amazon", Timestamp: ts.Add(time.Hour)},
	)
	if base.Fingerprint() == withExtra.Fingerprint() {
		t.Fatalf("new transaction must change the fingerprint")
	}

	newBalance := snap(200, Transaction{ID: "t1", Amount: -10, Counterparty: "Shell", Timestamp: ts})
	if base.Fingerprint() == newBalance.Fingerprint() {
		t.Fatalf("balance change must change the fingerprint")
	}
}

func TestFingerprintIgnoresFetchTime(t *testing.T) {
	ts := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	a := snap(100, Transaction{ID: "t1", Amount: -10, Counterparty: "Shell", Timestamp: ts})
	b := snap(100, Transaction{ID: "t1", Amount: -10, Counterparty: "Shell", Timestamp: ts})
	a.FetchedAt = time.Now()
	b.FetchedAt = time.Now().Add(time.Hour)

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fetch time must not affect the fingerprint")
	}
}

func TestDegradedStagesOrder(t *testing.T) {
	r := PipelineResult{Outcomes: []StageOutcome{
		{Stage: StageRisk, Status: StageSuccess},
		{Stage: StagePerks, Status: StageDegraded},
		{Stage: StageTerms, Status: StageSuccess},
		{Stage: StageChallenger, Status: StageDegraded},
		{Stage: StageArbiter, Status: StageSuccess},
		{Stage: StagePolicy, Status: StageSuccess},
	}}
	got := r.DegradedStages()
	if len(got) != 2 || got[0] != StagePerks || got[1] != StageChallenger {
		t.Fatalf("unexpected degraded stages %v", got)
	}
}
