package engine

import (
	"time"

	"signal-brain/internal/dto"
)

// Tunable thresholds for the synthesis pipeline. Kept as named constants
// so each one is independently testable.
const (
	// clusterThresholdPct is the max percentage distance between a level
	// and any member of a cluster for the level to be absorbed.
	clusterThresholdPct = 0.10

	// proximityThresholdPct decides whether price is "at" a zone.
	proximityThresholdPct = 0.50

	// trendThresholdPct separates BULLISH/BEARISH from NEUTRAL when
	// reading a price change over a rolling window.
	trendThresholdPct = 0.10

	// volatilityTrendThreshold is in index points, not percent.
	volatilityTrendThreshold = 0.5

	// trendWindowPoints is the rolling window for the short-term trend,
	// sized for a 5-minute tape (~1 hour).
	trendWindowPoints = 12

	// defaultVolatilityLevel stands in when the volatility feed is down.
	// It sits in the dead band of the macro score (no bonus, no penalty).
	defaultVolatilityLevel = 20.0

	contextTTL = 60 * time.Second
)

// Confluence weights, fixed 40/20/20/20.
const (
	weightZone       = 0.40
	weightCrossAsset = 0.20
	weightMacro      = 0.20
	weightTiming     = 0.20
)

// Recommendation thresholds.
const (
	minActionableScore = 40.0
	fullSizeScore      = 75.0
	halfSizeScore      = 55.0

	entryOffset         = 0.05
	stopBuffer          = 0.10
	rewardMultiple      = 2.5
	maxEntryDistancePct = 0.15
)

// Alert-suppression policy.
const (
	alertMinScore      = 50.0
	alertCooldown      = 5 * time.Minute
	alertMinScoreDelta = 10.0
)

// predictionWeight converts the external bounce probability into score
// points: (probability - 0.5) * predictionWeight, applied post-scoring.
const predictionWeight = 10.0

// volumeRankCutoffs is an ordered rule table; first match wins.
var volumeRankCutoffs = []struct {
	MinVolume int64
	Rank      dto.ZoneRank
}{
	{2_000_000, dto.RankPrimary},
	{1_000_000, dto.RankSecondary},
	{500_000, dto.RankTertiary},
}

// sessionTimingScores reflects how tradeable each session historically is.
var sessionTimingScores = map[dto.TradingSession]float64{
	dto.SessionPreMarket:  0.5,
	dto.SessionOpen:       0.7,
	dto.SessionMorning:    0.6,
	dto.SessionMidday:     0.4,
	dto.SessionAfternoon:  0.5,
	dto.SessionPowerHour:  0.8,
	dto.SessionAfterHours: 0.5,
}

// Session boundaries in minutes since midnight, exchange time.
const (
	sessionPreMarketStart = 4 * 60
	sessionOpenStart      = 9*60 + 30
	sessionMorningStart   = 10 * 60
	sessionMiddayStart    = 11*60 + 30
	sessionAfternoonStart = 14 * 60
	sessionPowerHourStart = 15 * 60
	sessionCloseMinute    = 16 * 60
)

// sessionFor maps wall-clock minutes in exchange time to a session.
func sessionFor(minutesOfDay int) dto.TradingSession {
	switch {
	case minutesOfDay >= sessionPreMarketStart && minutesOfDay < sessionOpenStart:
		return dto.SessionPreMarket
	case minutesOfDay >= sessionOpenStart && minutesOfDay < sessionMorningStart:
		return dto.SessionOpen
	case minutesOfDay >= sessionMorningStart && minutesOfDay < sessionMiddayStart:
		return dto.SessionMorning
	case minutesOfDay >= sessionMiddayStart && minutesOfDay < sessionAfternoonStart:
		return dto.SessionMidday
	case minutesOfDay >= sessionAfternoonStart && minutesOfDay < sessionPowerHourStart:
		return dto.SessionAfternoon
	case minutesOfDay >= sessionPowerHourStart && minutesOfDay < sessionCloseMinute:
		return dto.SessionPowerHour
	default:
		return dto.SessionAfterHours
	}
}

func rankForVolume(volume int64) dto.ZoneRank {
	for _, cutoff := range volumeRankCutoffs {
		if volume >= cutoff.MinVolume {
			return cutoff.Rank
		}
	}
	return dto.RankMinor
}
