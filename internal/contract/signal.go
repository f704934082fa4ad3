package contract

import (
	"context"

	"signal-brain/internal/dto"
)

// MarketDataProvider supplies the raw inputs the engine consumes. All
// methods are synchronous boundary calls; timeouts belong to the caller.
type MarketDataProvider interface {
	GetLevels(ctx context.Context, symbol string) ([]dto.PriceLevel, error)
	GetQuoteSeries(ctx context.Context, symbol string) (dto.QuoteSeries, error)
	GetVolatilitySeries(ctx context.Context) (dto.QuoteSeries, error)
}

// NarrativeProvider produces the optional LLM research context. A nil
// result with a nil error means the enrichment is unavailable this cycle.
type NarrativeProvider interface {
	GetNarrative(ctx context.Context, result *dto.SynthesisResult) (*dto.NarrativeContext, error)
}

// Notifier delivers a rendered alert payload to one channel.
type Notifier interface {
	Send(ctx context.Context, payload dto.AlertPayload) error
}
