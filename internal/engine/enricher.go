package engine

import (
	"context"
	"time"

	"signal-brain/internal/contract"
	"signal-brain/internal/dto"
	"signal-brain/pkg/cache"
	"signal-brain/pkg/common"
	"signal-brain/pkg/logger"
	"signal-brain/pkg/utils"
)

// ContextEnricher assembles a point-in-time market snapshot from the quote
// provider. Snapshots are cached for a short TTL; macro flags are always
// taken from the current call because the sentiment subsystem owns them.
type ContextEnricher struct {
	log      *logger.Logger
	cache    cache.Cache
	provider contract.MarketDataProvider
	symbols  []string
	loc      *time.Location
	now      func() time.Time
}

func NewContextEnricher(log *logger.Logger, memCache cache.Cache, provider contract.MarketDataProvider, symbols []string) *ContextEnricher {
	return &ContextEnricher{
		log:      log,
		cache:    memCache,
		provider: provider,
		symbols:  symbols,
		loc:      utils.GetExchangeLocation(),
		now:      time.Now,
	}
}

// GetContext returns the current market snapshot. Every data-source
// failure degrades its own field to a neutral default; this never errors.
func (e *ContextEnricher) GetContext(ctx context.Context, fedSentiment dto.FedSentiment, policyRisk dto.PolicyRisk) dto.MarketContext {
	if cached, ok := cache.GetTyped[dto.MarketContext](e.cache, common.KEY_MARKET_CONTEXT); ok {
		cached.FedSentiment = fedSentiment
		cached.PolicyRisk = policyRisk
		return cached
	}

	now := e.now().In(e.loc)
	mctx := dto.MarketContext{
		Symbols:         make(map[string]dto.SymbolContext, len(e.symbols)),
		VolatilityLevel: defaultVolatilityLevel,
		VolatilityTrend: dto.VolatilityStable,
		Session:         sessionFor(utils.MinutesOfDay(now)),
		FedSentiment:    fedSentiment,
		PolicyRisk:      policyRisk,
		MinutesToClose:  minutesToClose(now),
		BuiltAt:         now,
	}

	for _, symbol := range e.symbols {
		mctx.Symbols[symbol] = e.symbolContext(ctx, symbol)
	}

	if vix, err := e.provider.GetVolatilitySeries(ctx); err != nil {
		e.log.WarnContext(ctx, "Volatility feed unavailable, using neutral default", logger.ErrorField(err))
	} else if vix.Latest() > 0 {
		mctx.VolatilityLevel = vix.Latest()
		mctx.VolatilityTrend = volatilityTrend(vix)
	}

	e.cache.Set(common.KEY_MARKET_CONTEXT, mctx, contextTTL)

	return mctx
}

func (e *ContextEnricher) symbolContext(ctx context.Context, symbol string) dto.SymbolContext {
	series, err := e.provider.GetQuoteSeries(ctx, symbol)
	if err != nil {
		e.log.WarnContext(ctx, "Quote feed unavailable, degrading to neutral",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
		return dto.SymbolContext{Trend1h: dto.BiasNeutral, Trend1d: dto.BiasNeutral}
	}

	changeFromOpen := 0.0
	if series.OpenPrice > 0 && series.Latest() > 0 {
		changeFromOpen = (series.Latest() - series.OpenPrice) / series.OpenPrice * 100
	}

	return dto.SymbolContext{
		CurrentPrice:   series.Latest(),
		ChangeFromOpen: changeFromOpen,
		Trend1h:        biasFromChange(series.ChangeOverLast(trendWindowPoints)),
		Trend1d:        biasFromChange(changeFromOpen),
	}
}

func biasFromChange(changePct float64) dto.Bias {
	switch {
	case changePct > trendThresholdPct:
		return dto.BiasBullish
	case changePct < -trendThresholdPct:
		return dto.BiasBearish
	default:
		return dto.BiasNeutral
	}
}

func volatilityTrend(series dto.QuoteSeries) dto.VolatilityTrend {
	if len(series.Points) < 2 {
		return dto.VolatilityStable
	}

	window := trendWindowPoints
	if window >= len(series.Points) {
		window = len(series.Points) - 1
	}
	earlier := series.Points[len(series.Points)-1-window].Price
	delta := series.Latest() - earlier

	switch {
	case delta > volatilityTrendThreshold:
		return dto.VolatilityRising
	case delta < -volatilityTrendThreshold:
		return dto.VolatilityFalling
	default:
		return dto.VolatilityStable
	}
}

func minutesToClose(now time.Time) int {
	remaining := sessionCloseMinute - utils.MinutesOfDay(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
