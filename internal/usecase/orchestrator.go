package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"PreApprove/internal/domain/models"
	"PreApprove/internal/domain/service"
	"PreApprove/internal/services/spending"
	"PreApprove/pkg/cache"
	"PreApprove/pkg/logger"
)

// defaultHistoryMonths is the transaction window fetched when the caller
// does not ask for a specific one.
const defaultHistoryMonths = 6

// StageAgents groups the six downstream agent clients the pipeline drives.
type StageAgents struct {
	Risk       service.RiskScorer
	Terms      service.TermsGenerator
	Perks      service.PerkSelector
	Challenger service.TermsChallenger
	Arbiter    service.Arbiter
	Policy     service.PolicyWriter
}

// Orchestrator runs the pre-approval pipeline: fetch financial data, analyze
// spending, then execute the stage graph with per-stage degradation and a
// single overall time budget. Results are cached by snapshot fingerprint.
type Orchestrator struct {
	bank    service.BankDataFetcher
	agents  StageAgents
	cache   cache.Store
	logger  *logger.Logger
	metrics service.Metrics
	budget  time.Duration
	ttl     time.Duration
}

func NewOrchestrator(bank service.BankDataFetcher, agents StageAgents, store cache.Store, l *logger.Logger, m service.Metrics, budget, ttl time.Duration) *Orchestrator {
	if m == nil {
		m = service.NopMetrics{}
	}
	return &Orchestrator{
		bank:    bank,
		agents:  agents,
		cache:   store,
		logger:  l,
		metrics: m,
		budget:  budget,
		ttl:     ttl,
	}
}

// Run evaluates username over the given history window (months <= 0 uses
// the default) and returns the pipeline result plus whether it was served
// from cache. Cache failures are treated as misses and never abort an
// evaluation.
func (o *Orchestrator) Run(ctx context.Context, username string, months int) (*models.PipelineResult, bool, error) {
	if months <= 0 {
		months = defaultHistoryMonths
	}
	ctx, cancel := context.WithTimeout(ctx, o.budget)
	defer cancel()

	snapshot, err := o.bank.Fetch(ctx, username, months)
	if err != nil {
		return nil, false, err
	}

	profile := spending.Analyze(snapshot)
	fingerprint := snapshot.Fingerprint()

	var hit models.PipelineResult
	switch err := o.cache.Get(ctx, fingerprint, &hit); {
	case err == nil:
		o.metrics.RecordCacheHit()
		o.logger.Debug("pipeline cache hit", logger.String("fingerprint", fingerprint))
		return &hit, true, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		o.logger.Warn("cache read failed, running pipeline",
			logger.String("fingerprint", fingerprint), logger.Error(err))
	}
	o.metrics.RecordCacheMiss()

	result, err := o.runStages(ctx, snapshot, &profile)
	if err != nil {
		return nil, false, err
	}
	result.Fingerprint = fingerprint

	if err := o.cache.Set(ctx, fingerprint, result, o.ttl); err != nil {
		o.logger.Warn("cache write failed",
			logger.String("fingerprint", fingerprint), logger.Error(err))
	}
	return result, false, nil
}

// stageRun is one node in the stage graph. A stage starts once every
// dependency has closed its done channel; its closure reads predecessor
// outputs from the shared result and writes its own before done closes.
type stageRun struct {
	name models.StageName
	deps []models.StageName
	run  func(ctx context.Context) (degraded bool, reason string, err error)
}

func (o *Orchestrator) runStages(ctx context.Context, snapshot *models.UserFinancialSnapshot, profile *models.SpendingProfile) (*models.PipelineResult, error) {
	res := &models.PipelineResult{
		Snapshot: *snapshot,
		Profile:  *profile,
	}

	stages := []stageRun{
		{
			name: models.StageRisk,
			run: func(ctx context.Context) (bool, string, error) {
				r, err := o.agents.Risk.Assess(ctx, snapshot, profile)
				if err != nil {
					return false, "", err
				}
				res.Risk = r.Payload
				return r.Degraded, r.Reason, nil
			},
		},
		{
			name: models.StagePerks,
			run: func(ctx context.Context) (bool, string, error) {
				r, err := o.agents.Perks.Select(ctx, profile)
				if err != nil {
					return false, "", err
				}
				res.Perks = r.Payload
				return r.Degraded, r.Reason, nil
			},
		},
		{
			name: models.StageTerms,
			deps: []models.StageName{models.StageRisk},
			run: func(ctx context.Context) (bool, string, error) {
				r, err := o.agents.Terms.Generate(ctx, res.Risk)
				if err != nil {
					return false, "", err
				}
				res.Terms = r.Payload
				return r.Degraded, r.Reason, nil
			},
		},
		{
			name: models.StageChallenger,
			deps: []models.StageName{models.StageTerms, models.StagePerks},
			run: func(ctx context.Context) (bool, string, error) {
				r, err := o.agents.Challenger.Challenge(ctx, res.Terms, res.Perks)
				if err != nil {
					return false, "", err
				}
				res.Challenger = r.Payload
				return r.Degraded, r.Reason, nil
			},
		},
		{
			name: models.StageArbiter,
			deps: []models.StageName{models.StageChallenger},
			run: func(ctx context.Context) (bool, string, error) {
				r, err := o.agents.Arbiter.Arbitrate(ctx, res.Challenger, res.Terms)
				if err != nil {
					return false, "", err
				}
				res.Arbiter = r.Payload
				return r.Degraded, r.Reason, nil
			},
		},
		{
			name: models.StagePolicy,
			deps: []models.StageName{models.StageArbiter},
			run: func(ctx context.Context) (bool, string, error) {
				r, err := o.agents.Policy.Write(ctx, res.Arbiter)
				if err != nil {
					return false, "", err
				}
				res.Policy = r.Payload
				return r.Degraded, r.Reason, nil
			},
		},
	}

	done := make(map[models.StageName]chan struct{}, len(stages))
	for _, st := range stages {
		done[st.name] = make(chan struct{})
	}

	var mu sync.Mutex
	outcomes := make(map[models.StageName]models.StageOutcome, len(stages))

	g, gctx := errgroup.WithContext(ctx)
	for _, st := range stages {
		st := st
		g.Go(func() error {
			for _, dep := range st.deps {
				// Wait for predecessors even if the group context is already
				// cancelled; the stage call itself observes cancellation and
				// fails fast without touching the network.
				<-done[dep]
			}
			start := time.Now()
			degraded, reason, err := st.run(gctx)
			o.metrics.RecordStageLatency(string(st.name), time.Since(start).Seconds())
			close(done[st.name])
			if err != nil {
				o.metrics.RecordStageOutcome(string(st.name), "failed")
				return fmt.Errorf("stage %s: %w", st.name, err)
			}
			status := models.StageSuccess
			if degraded {
				status = models.StageDegraded
				o.logger.Warn("stage degraded to fallback",
					logger.String("stage", string(st.name)),
					logger.String("reason", reason))
			}
			o.metrics.RecordStageOutcome(string(st.name), string(status))
			mu.Lock()
			outcomes[st.name] = models.StageOutcome{Stage: st.name, Status: status, Reason: reason}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPipelineAborted, err)
	}

	for _, name := range models.AllStages() {
		res.Outcomes = append(res.Outcomes, outcomes[name])
	}
	return res, nil
}
