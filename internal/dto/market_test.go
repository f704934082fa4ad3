package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func series(prices ...float64) QuoteSeries {
	q := QuoteSeries{Symbol: "SPY"}
	for _, p := range prices {
		q.Points = append(q.Points, QuotePoint{Price: p})
	}
	return q
}

func TestQuoteSeries_Latest(t *testing.T) {
	assert.Equal(t, 685.00, series(683.00, 684.00, 685.00).Latest())
	assert.Zero(t, series().Latest())
}

func TestQuoteSeries_ChangeOverLast(t *testing.T) {
	q := series(680.00, 682.00, 684.00, 686.80)

	// Window wider than the series falls back to the full span.
	assert.InDelta(t, 1.0, q.ChangeOverLast(12), 0.001)
	assert.InDelta(t, 0.41, q.ChangeOverLast(1), 0.01)
	assert.Zero(t, series(685.00).ChangeOverLast(12))
	assert.Zero(t, series().ChangeOverLast(12))
}
