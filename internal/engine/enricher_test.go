package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"signal-brain/internal/dto"
	"signal-brain/pkg/cache"
	"signal-brain/pkg/logger"
	"signal-brain/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	levels     map[string][]dto.PriceLevel
	quotes     map[string]dto.QuoteSeries
	volatility dto.QuoteSeries

	levelsErr     error
	quotesErr     error
	volatilityErr error

	quoteCalls int
}

func (f *fakeProvider) GetLevels(_ context.Context, symbol string) ([]dto.PriceLevel, error) {
	if f.levelsErr != nil {
		return nil, f.levelsErr
	}
	return f.levels[symbol], nil
}

func (f *fakeProvider) GetQuoteSeries(_ context.Context, symbol string) (dto.QuoteSeries, error) {
	f.quoteCalls++
	if f.quotesErr != nil {
		return dto.QuoteSeries{}, f.quotesErr
	}
	return f.quotes[symbol], nil
}

func (f *fakeProvider) GetVolatilitySeries(_ context.Context) (dto.QuoteSeries, error) {
	if f.volatilityErr != nil {
		return dto.QuoteSeries{}, f.volatilityErr
	}
	return f.volatility, nil
}

func flatSeries(symbol string, open float64, prices ...float64) dto.QuoteSeries {
	points := make([]dto.QuotePoint, 0, len(prices))
	base := time.Date(2026, 2, 10, 9, 30, 0, 0, utils.GetExchangeLocation())
	for i, p := range prices {
		points = append(points, dto.QuotePoint{Price: p, Timestamp: base.Add(time.Duration(i) * 5 * time.Minute)})
	}
	return dto.QuoteSeries{Symbol: symbol, OpenPrice: open, Points: points}
}

func etClock(hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 2, 10, hour, minute, 0, 0, utils.GetExchangeLocation())
	}
}

func newTestEnricher(provider *fakeProvider, now func() time.Time) (*ContextEnricher, cache.Cache) {
	memCache := cache.NewCache(time.Minute, time.Minute)
	e := NewContextEnricher(logger.NewNop(), memCache, provider, []string{"SPY", "QQQ"})
	if now != nil {
		e.now = now
	}
	return e, memCache
}

func TestContextEnricher_BuildsSnapshot(t *testing.T) {
	provider := &fakeProvider{
		quotes: map[string]dto.QuoteSeries{
			"SPY": flatSeries("SPY", 683.00, 683.00, 683.50, 684.20, 685.00),
			"QQQ": flatSeries("QQQ", 575.00, 575.00, 574.80, 574.50, 574.20),
		},
		volatility: flatSeries("VIX", 18.0, 18.0, 18.1, 18.2),
	}

	e, _ := newTestEnricher(provider, etClock(10, 30))
	mctx := e.GetContext(context.Background(), dto.FedDovish, dto.PolicyRiskLow)

	assert.Equal(t, dto.FedDovish, mctx.FedSentiment)
	assert.Equal(t, dto.PolicyRiskLow, mctx.PolicyRisk)
	assert.Equal(t, dto.SessionMorning, mctx.Session)
	assert.Equal(t, 330, mctx.MinutesToClose)
	assert.InDelta(t, 18.2, mctx.VolatilityLevel, 1e-9)
	assert.Equal(t, dto.VolatilityStable, mctx.VolatilityTrend)

	spy, ok := mctx.Symbols["SPY"]
	require.True(t, ok)
	assert.InDelta(t, 685.00, spy.CurrentPrice, 1e-9)
	assert.Equal(t, dto.BiasBullish, spy.Trend1h)
	assert.Equal(t, dto.BiasBullish, spy.Trend1d)

	qqq, ok := mctx.Symbols["QQQ"]
	require.True(t, ok)
	assert.Equal(t, dto.BiasBearish, qqq.Trend1h)
}

func TestContextEnricher_TrendThreshold(t *testing.T) {
	tests := []struct {
		name      string
		changePct float64
		want      dto.Bias
	}{
		{name: "above threshold is bullish", changePct: 0.11, want: dto.BiasBullish},
		{name: "at threshold stays neutral", changePct: 0.10, want: dto.BiasNeutral},
		{name: "inside dead band stays neutral", changePct: -0.05, want: dto.BiasNeutral},
		{name: "below negative threshold is bearish", changePct: -0.11, want: dto.BiasBearish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, biasFromChange(tt.changePct))
		})
	}
}

func TestContextEnricher_SessionBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
		want   dto.TradingSession
	}{
		{name: "before pre-market", hour: 3, minute: 59, want: dto.SessionAfterHours},
		{name: "pre-market start", hour: 4, minute: 0, want: dto.SessionPreMarket},
		{name: "open", hour: 9, minute: 30, want: dto.SessionOpen},
		{name: "last minute of open", hour: 9, minute: 59, want: dto.SessionOpen},
		{name: "morning", hour: 10, minute: 0, want: dto.SessionMorning},
		{name: "midday", hour: 11, minute: 30, want: dto.SessionMidday},
		{name: "afternoon", hour: 14, minute: 0, want: dto.SessionAfternoon},
		{name: "power hour", hour: 15, minute: 0, want: dto.SessionPowerHour},
		{name: "last minute before close", hour: 15, minute: 59, want: dto.SessionPowerHour},
		{name: "after close", hour: 16, minute: 0, want: dto.SessionAfterHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sessionFor(tt.hour*60+tt.minute))
		})
	}
}

func TestContextEnricher_VolatilityTrend(t *testing.T) {
	rising := flatSeries("VIX", 18.0, 18.0, 18.3, 18.8)
	falling := flatSeries("VIX", 19.0, 19.0, 18.5, 18.2)
	stable := flatSeries("VIX", 18.0, 18.0, 18.1, 18.3)

	assert.Equal(t, dto.VolatilityRising, volatilityTrend(rising))
	assert.Equal(t, dto.VolatilityFalling, volatilityTrend(falling))
	assert.Equal(t, dto.VolatilityStable, volatilityTrend(stable))
	assert.Equal(t, dto.VolatilityStable, volatilityTrend(dto.QuoteSeries{}))
}

func TestContextEnricher_CachedSnapshotKeepsFreshMacroFlags(t *testing.T) {
	provider := &fakeProvider{
		quotes: map[string]dto.QuoteSeries{
			"SPY": flatSeries("SPY", 683.00, 684.00, 685.00),
			"QQQ": flatSeries("QQQ", 575.00, 575.00, 575.10),
		},
		volatility: flatSeries("VIX", 18.0, 18.0, 18.1),
	}

	e, _ := newTestEnricher(provider, etClock(10, 30))

	first := e.GetContext(context.Background(), dto.FedNeutral, dto.PolicyRiskMedium)
	callsAfterFirst := provider.quoteCalls

	second := e.GetContext(context.Background(), dto.FedHawkish, dto.PolicyRiskHigh)

	// Second call is served from cache but carries the caller's flags.
	assert.Equal(t, callsAfterFirst, provider.quoteCalls)
	assert.Equal(t, dto.FedHawkish, second.FedSentiment)
	assert.Equal(t, dto.PolicyRiskHigh, second.PolicyRisk)
	assert.Equal(t, first.Session, second.Session)
	assert.Equal(t, first.VolatilityLevel, second.VolatilityLevel)
}

func TestContextEnricher_DegradesPerFieldOnProviderErrors(t *testing.T) {
	provider := &fakeProvider{
		quotesErr:     errors.New("quote feed down"),
		volatilityErr: errors.New("vix feed down"),
	}

	e, _ := newTestEnricher(provider, etClock(12, 0))
	mctx := e.GetContext(context.Background(), dto.FedNeutral, dto.PolicyRiskMedium)

	assert.Equal(t, defaultVolatilityLevel, mctx.VolatilityLevel)
	assert.Equal(t, dto.VolatilityStable, mctx.VolatilityTrend)
	assert.Equal(t, dto.SessionMidday, mctx.Session)

	spy := mctx.Symbols["SPY"]
	assert.Zero(t, spy.CurrentPrice)
	assert.Equal(t, dto.BiasNeutral, spy.Trend1h)
	assert.Equal(t, dto.BiasNeutral, spy.Trend1d)
}

func TestContextEnricher_EmptyVolatilitySeriesKeepsDefault(t *testing.T) {
	provider := &fakeProvider{
		quotes: map[string]dto.QuoteSeries{
			"SPY": flatSeries("SPY", 683.00, 684.00, 685.00),
			"QQQ": flatSeries("QQQ", 575.00, 575.00, 575.10),
		},
		volatility: dto.QuoteSeries{Symbol: "VIX"},
	}

	e, _ := newTestEnricher(provider, etClock(10, 30))
	mctx := e.GetContext(context.Background(), dto.FedNeutral, dto.PolicyRiskMedium)

	assert.Equal(t, defaultVolatilityLevel, mctx.VolatilityLevel)
}

func TestContextEnricher_MinutesToClose(t *testing.T) {
	e, _ := newTestEnricher(&fakeProvider{}, etClock(15, 30))
	mctx := e.GetContext(context.Background(), dto.FedNeutral, dto.PolicyRiskMedium)
	assert.Equal(t, 30, mctx.MinutesToClose)

	e2, _ := newTestEnricher(&fakeProvider{}, etClock(17, 0))
	mctx2 := e2.GetContext(context.Background(), dto.FedNeutral, dto.PolicyRiskMedium)
	assert.Equal(t, 0, mctx2.MinutesToClose)
}
