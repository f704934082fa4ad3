package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPctDistance(t *testing.T) {
	assert.InDelta(t, 0.0861, PctDistance(684.41, 685.00), 0.001)
	assert.InDelta(t, 0.0861, PctDistance(685.59, 685.00), 0.001)
	assert.Zero(t, PctDistance(685.00, 0))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 83.0, RoundTo(82.96, 1))
	assert.Equal(t, 684.99, RoundTo(684.987, 2))
	assert.Equal(t, -1.5, RoundTo(-1.46, 1))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.2))
	assert.Equal(t, 1.0, Clamp01(1.05))
	assert.Equal(t, 0.75, Clamp01(0.75))
}

func TestFormatVolume(t *testing.T) {
	assert.Equal(t, "2.4M", FormatVolume(2_400_000))
	assert.Equal(t, "900K", FormatVolume(900_000))
	assert.Equal(t, "512", FormatVolume(512))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$684.41", FormatPrice(684.41))
}

func TestMinutesOfDay(t *testing.T) {
	loc := GetExchangeLocation()
	assert.Equal(t, 9*60+30, MinutesOfDay(time.Date(2026, 2, 10, 9, 30, 0, 0, loc)))
	assert.Equal(t, 0, MinutesOfDay(time.Date(2026, 2, 10, 0, 0, 59, 0, loc)))
}
