package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"signal-brain/config"
	"signal-brain/internal/dto"
	"signal-brain/pkg/httpclient"
	"signal-brain/pkg/logger"
)

const volatilityIndexSymbol = "VIX"

type MarketDataRepository interface {
	GetLevels(ctx context.Context, symbol string) ([]dto.PriceLevel, error)
	GetQuoteSeries(ctx context.Context, symbol string) (dto.QuoteSeries, error)
	GetVolatilitySeries(ctx context.Context) (dto.QuoteSeries, error)
	GetPrediction(ctx context.Context, symbol string) (*dto.Prediction, error)
}

type marketDataRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient httpclient.HTTPClient
}

func NewMarketDataRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	return &marketDataRepository{
		cfg:        cfg,
		log:        log,
		httpClient: httpclient.New(cfg.MarketData.BaseURL, cfg.MarketData.BaseTimeout, cfg.MarketData.APIKey),
	}
}

type levelsResponse struct {
	Symbol string `json:"symbol"`
	Levels []struct {
		Price  float64 `json:"price"`
		Volume int64   `json:"volume"`
	} `json:"levels"`
}

type quoteSeriesResponse struct {
	Symbol string  `json:"symbol"`
	Open   float64 `json:"open"`
	Points []struct {
		Price     float64 `json:"price"`
		Timestamp int64   `json:"timestamp"`
	} `json:"points"`
}

// GetLevels fetches the institutional volume levels printed for a symbol
// during the current session.
func (r *marketDataRepository) GetLevels(ctx context.Context, symbol string) ([]dto.PriceLevel, error) {
	var result levelsResponse

	resp, err := r.httpClient.Get(ctx, "/v1/darkpool/levels", map[string]string{"symbol": symbol}, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch levels for %s: %w", symbol, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("levels request for %s returned status %d", symbol, resp.StatusCode)
	}

	levels := make([]dto.PriceLevel, 0, len(result.Levels))
	for _, l := range result.Levels {
		if l.Price <= 0 || l.Volume <= 0 {
			continue
		}
		levels = append(levels, dto.PriceLevel{Price: l.Price, Volume: l.Volume})
	}

	r.log.DebugContext(ctx, "Fetched levels",
		logger.StringField("symbol", symbol),
		logger.IntField("count", len(levels)),
	)

	return levels, nil
}

// GetQuoteSeries fetches the intraday tape for a symbol, oldest first.
func (r *marketDataRepository) GetQuoteSeries(ctx context.Context, symbol string) (dto.QuoteSeries, error) {
	var result quoteSeriesResponse

	resp, err := r.httpClient.Get(ctx, "/v1/quotes/intraday", map[string]string{"symbol": symbol}, nil, &result)
	if err != nil {
		return dto.QuoteSeries{}, fmt.Errorf("failed to fetch quotes for %s: %w", symbol, err)
	}
	if !resp.IsSuccess() {
		return dto.QuoteSeries{}, fmt.Errorf("quote request for %s returned status %d", symbol, resp.StatusCode)
	}

	series := dto.QuoteSeries{
		Symbol:    symbol,
		OpenPrice: result.Open,
		Points:    make([]dto.QuotePoint, 0, len(result.Points)),
	}
	for _, p := range result.Points {
		series.Points = append(series.Points, dto.QuotePoint{
			Price:     p.Price,
			Timestamp: time.Unix(p.Timestamp, 0),
		})
	}

	return series, nil
}

// GetVolatilitySeries fetches the volatility index tape.
func (r *marketDataRepository) GetVolatilitySeries(ctx context.Context) (dto.QuoteSeries, error) {
	return r.GetQuoteSeries(ctx, volatilityIndexSymbol)
}

// GetPrediction fetches the optional bounce-probability prediction from
// the statistical-learning service. A 404 means no prediction exists for
// this symbol yet; callers receive nil and skip the contribution.
func (r *marketDataRepository) GetPrediction(ctx context.Context, symbol string) (*dto.Prediction, error) {
	var result dto.Prediction

	resp, err := r.httpClient.Get(ctx, "/v1/predictions", map[string]string{"symbol": symbol}, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prediction for %s: %w", symbol, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("prediction request for %s returned status %d", symbol, resp.StatusCode)
	}

	return &result, nil
}
