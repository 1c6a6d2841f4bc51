package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"PreApprove/internal/domain/models"
	"PreApprove/internal/domain/service"
	"PreApprove/internal/services/agents"
	"PreApprove/pkg/cache"
	"PreApprove/pkg/config"
	"PreApprove/pkg/logger"
)

type fakeBank struct {
	snapshot *models.UserFinancialSnapshot
	err      error
	calls    int
}

func (f *fakeBank) Fetch(ctx context.Context, username string, months int) (*models.UserFinancialSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

type fakeRisk struct {
	out   models.RiskAssessment
	err   error
	calls int
}

func (f *fakeRisk) Assess(ctx context.Context, snapshot *models.UserFinancialSnapshot, profile *models.SpendingProfile) (service.AgentResult[models.RiskAssessment], error) {
	f.calls++
	if f.err != nil {
		return service.AgentResult[models.RiskAssessment]{}, f.err
	}
	return service.AgentResult[models.RiskAssessment]{Payload: f.out}, nil
}

type fakeTerms struct {
	out      models.TermsOffer
	degraded bool
	gotRisk  models.RiskAssessment
	calls    int
}

func (f *fakeTerms) Generate(ctx context.Context, risk models.RiskAssessment) (service.AgentResult[models.TermsOffer], error) {
	f.calls++
	f.gotRisk = risk
	return service.AgentResult[models.TermsOffer]{Payload: f.out, Degraded: f.degraded, Reason: reasonIf(f.degraded)}, nil
}

type fakePerks struct {
	out   models.PerkSelection
	calls int
}

func (f *fakePerks) Select(ctx context.Context, profile *models.SpendingProfile) (service.AgentResult[models.PerkSelection], error) {
	f.calls++
	return service.AgentResult[models.PerkSelection]{Payload: f.out}, nil
}

type fakeChallenger struct {
	out      models.ChallengerAnalysis
	gotTerms models.TermsOffer
	gotPerks models.PerkSelection
	calls    int
}

func (f *fakeChallenger) Challenge(ctx context.Context, terms models.TermsOffer, perks models.PerkSelection) (service.AgentResult[models.ChallengerAnalysis], error) {
	f.calls++
	f.gotTerms = terms
	f.gotPerks = perks
	return service.AgentResult[models.ChallengerAnalysis]{Payload: f.out}, nil
}

type fakeArbiter struct {
	out   models.ArbiterDecision
	calls int
}

func (f *fakeArbiter) Arbitrate(ctx context.Context, challenge models.ChallengerAnalysis, original models.TermsOffer) (service.AgentResult[models.ArbiterDecision], error) {
	f.calls++
	return service.AgentResult[models.ArbiterDecision]{Payload: f.out}, nil
}

type fakePolicy struct {
	out         models.PolicyDocuments
	gotDecision models.ArbiterDecision
	calls       int
}

func (f *fakePolicy) Write(ctx context.Context, decision models.ArbiterDecision) (service.AgentResult[models.PolicyDocuments], error) {
	f.calls++
	f.gotDecision = decision
	return service.AgentResult[models.PolicyDocuments]{Payload: f.out}, nil
}

func reasonIf(degraded bool) string {
	if degraded {
		return "agent unavailable"
	}
	return ""
}

type fixture struct {
	bank       *fakeBank
	risk       *fakeRisk
	terms      *fakeTerms
	perks      *fakePerks
	challenger *fakeChallenger
	arbiter    *fakeArbiter
	policy     *fakePolicy
	store      cache.Store
	orch       *Orchestrator
}

func testSnapshot() *models.UserFinancialSnapshot {
	txs := make([]models.Transaction, 0, 100)
	for i := 0; i < 100; i++ {
		txs = append(txs, models.Transaction{
			ID:           fmt.Sprintf("tx-%03d", i),
			Amount:       -10,
			Counterparty: "Corner Store",
			Category:     "Groceries",
			Timestamp:    time.Date(2026, 6, 1+i%28, 9, 0, 0, 0, time.UTC),
		})
	}
	return &models.UserFinancialSnapshot{
		Username:       "alice",
		AccountID:      "1011226111",
		CurrentBalance: 6534.43,
		Transactions:   txs,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bank: &fakeBank{snapshot: testSnapshot()},
		risk: &fakeRisk{out: models.RiskAssessment{Score: 720, Tier: "Gold", Confidence: 0.9}},
		terms: &fakeTerms{out: models.TermsOffer{
			ProductType: "Gold Credit Card", CreditLimit: 5000,
			LimitRange: [2]float64{3000, 8000}, APRRange: [2]float64{17.99, 21.99},
		}},
		perks:      &fakePerks{out: models.PerkSelection{PerkList: []string{"3% groceries cash back"}, PrimaryCategory: "Groceries"}},
		challenger: &fakeChallenger{out: models.ChallengerAnalysis{Action: "approve", ROE: 0.18, Confidence: 0.8}},
		arbiter:    &fakeArbiter{out: models.ArbiterDecision{Decision: "approved", Terms: models.TermsOffer{ProductType: "Gold Credit Card"}, Reason: "economics hold"}},
		policy:     &fakePolicy{out: models.PolicyDocuments{PreApprovalDisclosure: "disclosure", TermsSummary: "summary", PrivacyNotice: "privacy"}},
	}
	store := cache.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	f.store = store
	f.orch = NewOrchestrator(f.bank, StageAgents{
		Risk:       f.risk,
		Terms:      f.terms,
		Perks:      f.perks,
		Challenger: f.challenger,
		Arbiter:    f.arbiter,
		Policy:     f.policy,
	}, store, logger.Nop(), service.NopMetrics{}, 5*time.Second, time.Minute)
	return f
}

func TestRunHappyPath(t *testing.T) {
	f := newFixture(t)

	result, cached, err := f.orch.Run(context.Background(), "alice", 6)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if cached {
		t.Fatalf("first run must not be cached")
	}
	if result.Fingerprint == "" {
		t.Fatalf("result must carry a fingerprint")
	}
	if got := result.DegradedStages(); len(got) != 0 {
		t.Fatalf("expected no degraded stages, got %v", got)
	}
	if len(result.Outcomes) != 6 {
		t.Fatalf("expected 6 stage outcomes, got %d", len(result.Outcomes))
	}
	if result.Risk.Score != 720 || result.Arbiter.Decision != "approved" || result.Policy.TermsSummary != "summary" {
		t.Fatalf("stage outputs missing from result: %+v", result)
	}
}

func TestRunDataFlowsThroughStages(t *testing.T) {
	f := newFixture(t)

	if _, _, err := f.orch.Run(context.Background(), "alice", 6); err != nil {
		t.Fatalf("run: %v", err)
	}

	if f.terms.gotRisk.Score != 720 {
		t.Fatalf("terms stage did not receive the risk output: %+v", f.terms.gotRisk)
	}
	if f.challenger.gotTerms.ProductType != "Gold Credit Card" {
		t.Fatalf("challenger did not receive the terms output: %+v", f.challenger.gotTerms)
	}
	if f.challenger.gotPerks.PrimaryCategory != "Groceries" {
		t.Fatalf("challenger did not receive the perks output: %+v", f.challenger.gotPerks)
	}
	if f.policy.gotDecision.Decision != "approved" {
		t.Fatalf("policy did not receive the arbiter decision: %+v", f.policy.gotDecision)
	}
}

func TestRunDegradedTermsStillCompletes(t *testing.T) {
	f := newFixture(t)
	f.terms.degraded = true
	f.terms.out = models.TermsOffer{ProductType: "Silver Credit Card", LimitRange: [2]float64{1500, 3000}}

	result, _, err := f.orch.Run(context.Background(), "alice", 6)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	degraded := result.DegradedStages()
	if len(degraded) != 1 || degraded[0] != models.StageTerms {
		t.Fatalf("expected only terms degraded, got %v", degraded)
	}
	// Fallback terms still flow downstream.
	if f.challenger.gotTerms.ProductType != "Silver Credit Card" {
		t.Fatalf("fallback terms did not reach the challenger: %+v", f.challenger.gotTerms)
	}
	if result.Policy.PreApprovalDisclosure == "" {
		t.Fatalf("pipeline should run to completion despite degradation")
	}
}

func TestRunRiskFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.risk.err = fmt.Errorf("%w: risk", models.ErrAgentTimeout)

	_, _, err := f.orch.Run(context.Background(), "alice", 6)
	if !errors.Is(err, models.ErrPipelineAborted) {
		t.Fatalf("expected ErrPipelineAborted, got %v", err)
	}
}

func TestRunUserNotFoundPropagates(t *testing.T) {
	f := newFixture(t)
	f.bank.err = fmt.Errorf("%w: ghost", models.ErrUserNotFound)

	_, _, err := f.orch.Run(context.Background(), "ghost", 6)
	if !errors.Is(err, models.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if f.risk.calls != 0 {
		t.Fatalf("no stage may run without a snapshot")
	}
}

func TestRunCacheHitSkipsAgents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, _, err := f.orch.Run(ctx, "alice", 6); err != nil {
		t.Fatalf("first run: %v", err)
	}

	result, cached, err := f.orch.Run(ctx, "alice", 6)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !cached {
		t.Fatalf("identical snapshot must hit the cache")
	}
	if f.risk.calls != 1 || f.policy.calls != 1 {
		t.Fatalf("cache hit must not re-run agents: risk=%d policy=%d", f.risk.calls, f.policy.calls)
	}
	if result.Arbiter.Decision != "approved" {
		t.Fatalf("cached result incomplete: %+v", result)
	}
}

func TestRunSnapshotChangeMissesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, _, err := f.orch.Run(ctx, "alice", 6); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// A new transaction changes the content hash.
	f.bank.snapshot.Transactions = append(f.bank.snapshot.Transactions, models.Transaction{
		ID: "tx-new", Amount: -42, Counterparty: "Cinema", Category: "Entertainment",
		Timestamp: time.Date(2026, 7, 1, 19, 0, 0, 0, time.UTC),
	})

	_, cached, err := f.orch.Run(ctx, "alice", 6)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if cached {
		t.Fatalf("changed snapshot must miss the cache")
	}
	if f.risk.calls != 2 {
		t.Fatalf("expected a full re-run, risk calls=%d", f.risk.calls)
	}
}

func TestRunCacheClearForcesRerun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, _, err := f.orch.Run(ctx, "alice", 6); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := f.store.DeleteAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	_, cached, err := f.orch.Run(ctx, "alice", 6)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if cached {
		t.Fatalf("cleared cache must not serve a hit")
	}
	if f.risk.calls != 2 {
		t.Fatalf("expected re-run after clear, risk calls=%d", f.risk.calls)
	}
}

// TestRunBudgetExhaustedStillResponds drives the real agent clients against
// HTTP servers where only risk answers in time. When the overall budget
// expires the optional stages must degrade to their fallbacks and Run must
// still return a complete decision promptly, without an error.
func TestRunBudgetExhaustedStillResponds(t *testing.T) {
	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"score":700,"tier":"Gold","confidence":0.9}`))
	}))
	defer fast.Close()

	// Never answers within the budget; unblocks as soon as the client
	// abandons the request so server shutdown stays quick.
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer slow.Close()

	clients := agents.NewClients(config.AgentsConfig{
		RiskURL:          fast.URL,
		TermsURL:         slow.URL,
		PerksURL:         slow.URL,
		ChallengerURL:    slow.URL,
		ArbiterURL:       slow.URL,
		PolicyURL:        slow.URL,
		AttemptTimeout:   5 * time.Second,
		MaxAttempts:      1,
		BackoffBase:      time.Millisecond,
		BreakerThreshold: 100,
		BreakerCooldown:  time.Minute,
	}, logger.Nop(), service.NopMetrics{}, nil)

	bank := &fakeBank{snapshot: testSnapshot()}
	store := cache.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	budget := 500 * time.Millisecond
	orch := NewOrchestrator(bank, StageAgents{
		Risk:       clients.Risk,
		Terms:      clients.Terms,
		Perks:      clients.Perks,
		Challenger: clients.Challenger,
		Arbiter:    clients.Arbiter,
		Policy:     clients.Policy,
	}, store, logger.Nop(), service.NopMetrics{}, budget, time.Minute)

	start := time.Now()
	result, cached, err := orch.Run(context.Background(), "alice", 6)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("budget exhaustion must still yield a response: %v", err)
	}
	if cached {
		t.Fatalf("first run must not be cached")
	}
	if elapsed >= 2*time.Second {
		t.Fatalf("run must return near the budget, took %v", elapsed)
	}

	want := []models.StageName{models.StagePerks, models.StageTerms, models.StageChallenger, models.StageArbiter, models.StagePolicy}
	got := result.DegradedStages()
	if len(got) != len(want) {
		t.Fatalf("expected degraded stages %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected degraded stages %v, got %v", want, got)
		}
	}
	if result.Risk.Score != 700 {
		t.Fatalf("risk answered in time and must not degrade: %+v", result.Risk)
	}
	if result.Terms.ProductType != "Silver Credit Card" {
		t.Fatalf("expected fallback terms, got %+v", result.Terms)
	}
	if result.Arbiter.Decision == "" || result.Policy.PreApprovalDisclosure == "" {
		t.Fatalf("fallbacks must fill every stage: %+v", result)
	}
}

// failingStore always errors; cache trouble must never abort an evaluation.
type failingStore struct{}

func (failingStore) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("cache down")
}
func (failingStore) Get(context.Context, string, interface{}) error { return errors.New("cache down") }
func (failingStore) Delete(context.Context, ...string) error        { return errors.New("cache down") }
func (failingStore) DeleteAll(context.Context) error                { return errors.New("cache down") }
func (failingStore) Status(context.Context) (cache.Status, error) {
	return cache.Status{}, errors.New("cache down")
}
func (failingStore) Close() error { return nil }

func TestRunSurvivesCacheFailure(t *testing.T) {
	f := newFixture(t)
	f.orch = NewOrchestrator(f.bank, StageAgents{
		Risk:       f.risk,
		Terms:      f.terms,
		Perks:      f.perks,
		Challenger: f.challenger,
		Arbiter:    f.arbiter,
		Policy:     f.policy,
	}, failingStore{}, logger.Nop(), service.NopMetrics{}, 5*time.Second, time.Minute)

	result, cached, err := f.orch.Run(context.Background(), "alice", 6)
	if err != nil {
		t.Fatalf("cache failure must be survivable: %v", err)
	}
	if cached {
		t.Fatalf("broken cache cannot produce a hit")
	}
	if result.Arbiter.Decision != "approved" {
		t.Fatalf("pipeline result incomplete: %+v", result)
	}
}
