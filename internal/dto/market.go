package dto

import "time"

// PriceLevel is a raw institutional volume level as delivered by the
// market-data provider. Levels are ephemeral and owned by the caller.
type PriceLevel struct {
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
}

// SupportZone is one or more clustered price levels for a single symbol.
// Invariant: MinPrice <= CenterPrice <= MaxPrice.
type SupportZone struct {
	Symbol         string   `json:"symbol"`
	CenterPrice    float64  `json:"center_price"`
	MinPrice       float64  `json:"min_price"`
	MaxPrice       float64  `json:"max_price"`
	CombinedVolume int64    `json:"combined_volume"`
	LevelCount     int      `json:"level_count"`
	Rank           ZoneRank `json:"rank"`
	ZoneType       ZoneType `json:"zone_type"`
	// DistancePct is stored as an absolute percentage from the price at
	// classification time and drives the nearest-first ordering.
	DistancePct float64 `json:"distance_pct"`
}

// QuotePoint is a single intraday observation from the quote provider.
type QuotePoint struct {
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// QuoteSeries is the intraday tape for one symbol, oldest first.
type QuoteSeries struct {
	Symbol    string       `json:"symbol"`
	OpenPrice float64      `json:"open_price"`
	Points    []QuotePoint `json:"points"`
}

// Latest returns the most recent price, or 0 when the series is empty.
func (q QuoteSeries) Latest() float64 {
	if len(q.Points) == 0 {
		return 0
	}
	return q.Points[len(q.Points)-1].Price
}

// ChangeOverLast returns the percent change across the last n points.
func (q QuoteSeries) ChangeOverLast(n int) float64 {
	if len(q.Points) < 2 {
		return 0
	}
	if n >= len(q.Points) {
		n = len(q.Points) - 1
	}
	start := q.Points[len(q.Points)-1-n].Price
	end := q.Points[len(q.Points)-1].Price
	if start == 0 {
		return 0
	}
	return (end - start) / start * 100
}

// SymbolContext is the per-instrument slice of a MarketContext.
type SymbolContext struct {
	CurrentPrice   float64 `json:"current_price"`
	ChangeFromOpen float64 `json:"change_from_open"`
	Trend1h        Bias    `json:"trend_1h"`
	Trend1d        Bias    `json:"trend_1d"`
}

// MarketContext is a point-in-time snapshot built once per cycle. It is
// immutable after construction; the macro flags are always taken from the
// latest caller and never from cache.
type MarketContext struct {
	Symbols         map[string]SymbolContext `json:"symbols"`
	VolatilityLevel float64                  `json:"volatility_level"`
	VolatilityTrend VolatilityTrend          `json:"volatility_trend"`
	Session         TradingSession           `json:"session"`
	FedSentiment    FedSentiment             `json:"fed_sentiment"`
	PolicyRisk      PolicyRisk               `json:"policy_risk"`
	MinutesToClose  int                      `json:"minutes_to_close"`
	BuiltAt         time.Time                `json:"built_at"`
}
