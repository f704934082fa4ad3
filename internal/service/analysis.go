package service

import (
	"context"
	"fmt"
	"sync"

	"signal-brain/config"
	"signal-brain/internal/contract"
	"signal-brain/internal/dto"
	"signal-brain/internal/engine"
	"signal-brain/internal/model"
	"signal-brain/internal/repository"
	"signal-brain/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type AnalysisService interface {
	RunAnalysis(ctx context.Context, fedSentiment dto.FedSentiment, policyRisk dto.PolicyRisk) (*dto.SynthesisResult, error)
	LatestResult() *dto.SynthesisResult
	LatestPersisted(ctx context.Context) (*model.SynthesisHistory, error)
	History(ctx context.Context, param model.GetSynthesisHistoryParam) ([]model.SynthesisHistory, error)
	SetMacroFlags(fedSentiment dto.FedSentiment, policyRisk dto.PolicyRisk)
	MacroFlags() (dto.FedSentiment, dto.PolicyRisk)
}

// analysisService owns the boundary work around one engine cycle: it
// gathers levels, quotes and optional enrichments concurrently, runs the
// engine (pure computation), persists the outcome, and fans an alert out
// to the notifiers when the suppression policy allows it.
type analysisService struct {
	cfg           *config.Config
	log           *logger.Logger
	engine        *engine.SignalBrainEngine
	marketData    repository.MarketDataRepository
	narrative     repository.NarrativeRepository
	synthesisRepo repository.SynthesisHistoryRepository
	notifiers     []contract.Notifier

	macroMu          sync.RWMutex
	lastFedSentiment dto.FedSentiment
	lastPolicyRisk   dto.PolicyRisk
}

func NewAnalysisService(
	cfg *config.Config,
	log *logger.Logger,
	brainEngine *engine.SignalBrainEngine,
	marketData repository.MarketDataRepository,
	narrative repository.NarrativeRepository,
	synthesisRepo repository.SynthesisHistoryRepository,
	notifiers []contract.Notifier,
) AnalysisService {
	return &analysisService{
		cfg:              cfg,
		log:              log,
		engine:           brainEngine,
		marketData:       marketData,
		narrative:        narrative,
		synthesisRepo:    synthesisRepo,
		notifiers:        notifiers,
		lastFedSentiment: dto.FedNeutral,
		lastPolicyRisk:   dto.PolicyRiskMedium,
	}
}

// RunAnalysis performs one full cycle. External fetches run concurrently
// under a shared timeout; clustering through synthesis is sequential and
// never blocks.
func (s *analysisService) RunAnalysis(ctx context.Context, fedSentiment dto.FedSentiment, policyRisk dto.PolicyRisk) (*dto.SynthesisResult, error) {
	s.SetMacroFlags(fedSentiment, policyRisk)

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.Scheduler.TimeoutDuration)
	defer cancel()

	symbols := []string{s.cfg.Engine.PrimarySymbol, s.cfg.Engine.SecondarySymbol}

	var (
		mu     sync.Mutex
		levels = make(map[string][]dto.PriceLevel, len(symbols))
		prices = make(map[string]float64, len(symbols))
	)

	g, gCtx := errgroup.WithContext(fetchCtx)
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			symbolLevels, err := s.marketData.GetLevels(gCtx, symbol)
			if err != nil {
				// Missing levels degrade to an empty zone set.
				s.log.WarnContext(gCtx, "Levels unavailable", logger.StringField("symbol", symbol), logger.ErrorField(err))
				return nil
			}
			mu.Lock()
			levels[symbol] = symbolLevels
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			series, err := s.marketData.GetQuoteSeries(gCtx, symbol)
			if err != nil {
				s.log.WarnContext(gCtx, "Quote unavailable", logger.StringField("symbol", symbol), logger.ErrorField(err))
				return nil
			}
			mu.Lock()
			prices[symbol] = series.Latest()
			mu.Unlock()
			return nil
		})
	}
	// Fetch goroutines swallow their own errors; Wait only propagates a
	// cancelled context.
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cycle fetch aborted: %w", err)
	}

	prediction := s.fetchPrediction(fetchCtx)
	narrative := s.fetchNarrative(fetchCtx)

	result := s.engine.RunCycle(ctx, engine.CycleInput{
		Levels:       levels,
		Prices:       prices,
		FedSentiment: fedSentiment,
		PolicyRisk:   policyRisk,
		Prediction:   prediction,
		Narrative:    narrative,
	})

	shouldAlert := s.engine.ShouldAlert(result)
	if shouldAlert {
		s.dispatchAlert(ctx, result)
		s.engine.MarkAlerted(result)
	}

	if _, err := s.synthesisRepo.Create(ctx, result, s.cfg.Engine.PrimarySymbol, shouldAlert); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist synthesis result", logger.ErrorField(err))
	}

	return result, nil
}

func (s *analysisService) fetchPrediction(ctx context.Context) *dto.Prediction {
	prediction, err := s.marketData.GetPrediction(ctx, s.cfg.Engine.PrimarySymbol)
	if err != nil {
		s.log.WarnContext(ctx, "Prediction unavailable, skipping contribution", logger.ErrorField(err))
		return nil
	}
	return prediction
}

// fetchNarrative asks the research subsystem for context around the last
// known synthesis. Research is slow-moving, so the previous cycle's
// structure is an acceptable prompt; the first cycle simply has none.
func (s *analysisService) fetchNarrative(ctx context.Context) *dto.NarrativeContext {
	last := s.engine.LastResult()
	if last == nil {
		return nil
	}

	narrative, err := s.narrative.GetNarrative(ctx, last)
	if err != nil {
		s.log.WarnContext(ctx, "Narrative unavailable, skipping contribution", logger.ErrorField(err))
		return nil
	}
	return narrative
}

func (s *analysisService) dispatchAlert(ctx context.Context, result *dto.SynthesisResult) {
	payload := engine.BuildAlertPayload(result, s.cfg.Engine.PrimarySymbol)

	for _, notifier := range s.notifiers {
		if err := notifier.Send(ctx, payload); err != nil {
			s.log.ErrorContext(ctx, "Failed to send alert", logger.ErrorField(err))
		}
	}

	s.log.InfoContext(ctx, "Alert dispatched",
		logger.Float64Field("score", result.Confluence.Score),
		logger.StringField("action", string(result.Recommendation.Action)),
	)
}

func (s *analysisService) LatestResult() *dto.SynthesisResult {
	return s.engine.LastResult()
}

// LatestPersisted reads the newest stored cycle, for callers arriving
// before the first in-memory cycle completes.
func (s *analysisService) LatestPersisted(ctx context.Context) (*model.SynthesisHistory, error) {
	return s.synthesisRepo.GetLatest(ctx, s.cfg.Engine.PrimarySymbol)
}

// History reads persisted cycles; the primary symbol is filled in when the
// caller does not filter by symbol.
func (s *analysisService) History(ctx context.Context, param model.GetSynthesisHistoryParam) ([]model.SynthesisHistory, error) {
	if param.PrimarySymbol == "" {
		param.PrimarySymbol = s.cfg.Engine.PrimarySymbol
	}
	return s.synthesisRepo.Get(ctx, param)
}

// SetMacroFlags remembers the latest caller-supplied macro flags so
// scheduled cycles reuse them between sentiment updates.
func (s *analysisService) SetMacroFlags(fedSentiment dto.FedSentiment, policyRisk dto.PolicyRisk) {
	s.macroMu.Lock()
	defer s.macroMu.Unlock()
	s.lastFedSentiment = fedSentiment
	s.lastPolicyRisk = policyRisk
}

func (s *analysisService) MacroFlags() (dto.FedSentiment, dto.PolicyRisk) {
	s.macroMu.RLock()
	defer s.macroMu.RUnlock()
	return s.lastFedSentiment, s.lastPolicyRisk
}
