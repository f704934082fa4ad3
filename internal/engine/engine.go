package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"signal-brain/internal/contract"
	"signal-brain/internal/dto"
	"signal-brain/pkg/cache"
	"signal-brain/pkg/logger"
	"signal-brain/pkg/utils"
)

// CycleInput carries everything one analysis cycle consumes. Levels and
// prices are keyed by symbol. Prediction and Narrative are optional
// enrichments from external subsystems; nil means skip, never default.
type CycleInput struct {
	Levels       map[string][]dto.PriceLevel
	Prices       map[string]float64
	FedSentiment dto.FedSentiment
	PolicyRisk   dto.PolicyRisk
	Prediction   *dto.Prediction
	Narrative    *dto.NarrativeContext
}

// SignalBrainEngine runs the synthesis pipeline in a strict order:
// cluster, enrich, correlate, score, synthesize. The only cross-cycle
// state is the last result and last alert bookkeeping, guarded by a
// mutex in case cycle triggers ever overlap.
type SignalBrainEngine struct {
	log             *logger.Logger
	clusterer       *ZoneClusterer
	enricher        *ContextEnricher
	crossAsset      *CrossAssetAnalyzer
	scorer          *ConfluenceScorer
	synthesizer     *SignalSynthesizer
	primarySymbol   string
	secondarySymbol string
	now             func() time.Time

	mu             sync.Mutex
	lastResult     *dto.SynthesisResult
	lastAlertAt    time.Time
	lastAlertScore float64
}

func NewSignalBrainEngine(log *logger.Logger, memCache cache.Cache, provider contract.MarketDataProvider, primarySymbol, secondarySymbol string) *SignalBrainEngine {
	return &SignalBrainEngine{
		log:             log,
		clusterer:       NewZoneClusterer(log),
		enricher:        NewContextEnricher(log, memCache, provider, []string{primarySymbol, secondarySymbol}),
		crossAsset:      NewCrossAssetAnalyzer(),
		scorer:          NewConfluenceScorer(log),
		synthesizer:     NewSignalSynthesizer(log),
		primarySymbol:   primarySymbol,
		secondarySymbol: secondarySymbol,
		now:             time.Now,
	}
}

// RunCycle executes one full synthesis cycle. It never returns an error:
// missing data degrades to neutral values and the worst-case output is a
// WAIT recommendation.
func (e *SignalBrainEngine) RunCycle(ctx context.Context, input CycleInput) *dto.SynthesisResult {
	primary := e.buildState(e.primarySymbol, input)
	secondary := e.buildState(e.secondarySymbol, input)

	mctx := e.enricher.GetContext(ctx, input.FedSentiment, input.PolicyRisk)

	cross := e.crossAsset.Analyze(primary, secondary)

	confluence := e.scorer.Calculate(primary, secondary, mctx, cross)
	confluence = applyPrediction(confluence, input.Prediction)

	result := e.synthesizer.Synthesize(primary, secondary, mctx, confluence, cross, input.Narrative)
	result.GeneratedAt = e.now()

	e.mu.Lock()
	e.lastResult = &result
	e.mu.Unlock()

	e.log.InfoContext(ctx, "Synthesis cycle completed",
		logger.Float64Field("score", result.Confluence.Score),
		logger.StringField("bias", string(result.Confluence.Bias)),
		logger.StringField("action", string(result.Recommendation.Action)),
		logger.TimeField("generated_at", result.GeneratedAt),
	)

	return &result
}

// buildState clusters one symbol's levels and derives its signal state.
// A missing quote yields a nil state; the cross-asset table treats that
// as neutral.
func (e *SignalBrainEngine) buildState(symbol string, input CycleInput) *dto.SignalState {
	price := input.Prices[symbol]
	if price <= 0 {
		e.log.Warn("No quote for symbol, skipping state", logger.StringField("symbol", symbol))
		return nil
	}

	supports, resistances := e.clusterer.ClusterLevels(input.Levels[symbol], price, symbol)

	state := &dto.SignalState{
		Symbol:          symbol,
		CurrentPrice:    price,
		SupportZones:    supports,
		ResistanceZones: resistances,
		Bias:            dto.BiasNeutral,
	}

	if len(supports) > 0 {
		state.NearestSupport = &supports[0]
		state.AtSupport = supports[0].DistancePct <= proximityThresholdPct
	}
	if len(resistances) > 0 {
		state.NearestResistance = &resistances[0]
		state.AtResistance = resistances[0].DistancePct <= proximityThresholdPct
	}

	// An instrument cannot be at support and resistance at once; the
	// nearer zone wins when both fall inside the proximity band.
	if state.AtSupport && state.AtResistance {
		if state.NearestSupport.DistancePct <= state.NearestResistance.DistancePct {
			state.AtResistance = false
		} else {
			state.AtSupport = false
		}
	}

	switch {
	case state.AtSupport:
		state.Bias = dto.BiasBullish
	case state.AtResistance:
		state.Bias = dto.BiasBearish
	}

	return state
}

// applyPrediction folds the optional bounce-probability prediction into
// the score. Absent prediction contributes nothing.
func applyPrediction(confluence dto.ConfluenceScore, prediction *dto.Prediction) dto.ConfluenceScore {
	if prediction == nil {
		return confluence
	}

	adjustment := (prediction.BounceProbability - 0.5) * predictionWeight
	adjusted := confluence.Score + adjustment
	if adjusted < 0 {
		adjusted = 0
	}
	if adjusted > 100 {
		adjusted = 100
	}
	confluence.Score = utils.RoundTo(adjusted, 1)

	note := fmt.Sprintf("statistical model: %.0f%% bounce probability (%s)",
		prediction.BounceProbability*100, prediction.Confidence)
	if adjustment >= 0 {
		confluence.Confirmations = append(confluence.Confirmations, note)
	} else {
		confluence.Conflicts = append(confluence.Conflicts, note)
	}

	return confluence
}

// ShouldAlert is the sole gate the engine exposes to delivery: score at
// least 50, at least five minutes since the last emitted alert, and a
// score change of at least 10 points versus that alert.
func (e *SignalBrainEngine) ShouldAlert(result *dto.SynthesisResult) bool {
	if result == nil || result.Confluence.Score < alertMinScore {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lastAlertAt.IsZero() {
		return true
	}
	if e.now().Sub(e.lastAlertAt) < alertCooldown {
		return false
	}
	if math.Abs(result.Confluence.Score-e.lastAlertScore) < alertMinScoreDelta {
		return false
	}

	return true
}

// MarkAlerted records that an alert was emitted for the given result.
func (e *SignalBrainEngine) MarkAlerted(result *dto.SynthesisResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastAlertAt = e.now()
	e.lastAlertScore = result.Confluence.Score
}

// LastResult returns the most recent synthesis, or nil before the first
// cycle.
func (e *SignalBrainEngine) LastResult() *dto.SynthesisResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastResult
}

// PrimarySymbol exposes the instrument the recommendation is built for.
func (e *SignalBrainEngine) PrimarySymbol() string {
	return e.primarySymbol
}
