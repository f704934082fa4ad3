package engine

import (
	"fmt"

	"signal-brain/internal/dto"
	"signal-brain/pkg/logger"
	"signal-brain/pkg/utils"
)

// Zone sub-score values.
const (
	zoneScorePrimary  = 0.9
	zoneScoreOther    = 0.6
	zoneStackingBonus = 0.1
)

// Cross-asset sub-score values.
const (
	crossScoreConfirm   = 1.0
	crossScoreDivergent = 0.2
	crossScorePartial   = 0.6
	crossScoreBase      = 0.4
)

// Macro sub-score adjustments, applied to a 0.5 baseline and clamped.
const (
	macroBase           = 0.5
	macroDovishBonus    = 0.25
	macroHawkishPenalty = 0.15
	macroHighRiskPen    = 0.15
	macroLowRiskBonus   = 0.10
	macroHighVolPenalty = 0.15
	macroLowVolBonus    = 0.10
	macroAlignmentBonus = 0.10

	highVolatilityLevel = 25.0
	lowVolatilityLevel  = 15.0
)

// ConfluenceScorer combines zone strength, cross-asset behavior, macro
// context and session timing into one bounded score with a resolved bias.
type ConfluenceScorer struct {
	log *logger.Logger
}

func NewConfluenceScorer(log *logger.Logger) *ConfluenceScorer {
	return &ConfluenceScorer{log: log}
}

// Calculate produces the weighted 40/20/20/20 confluence score for the
// primary instrument. The result's Score is always within [0, 100].
func (s *ConfluenceScorer) Calculate(primary, secondary *dto.SignalState, mctx dto.MarketContext, cross dto.CrossAssetResult) dto.ConfluenceScore {
	result := dto.ConfluenceScore{
		Confirmations: []string{},
		Conflicts:     []string{},
	}

	zoneScore, zoneBias := s.zoneScore(primary, &result)
	crossScore := s.crossAssetScore(cross, &result)
	macroScore, macroBias := s.macroScore(mctx, zoneBias, &result)
	timingScore := sessionTimingScores[mctx.Session]

	result.ZoneScore = zoneScore
	result.CrossAssetScore = crossScore
	result.MacroScore = macroScore
	result.TimingScore = timingScore

	total := weightZone*zoneScore + weightCrossAsset*crossScore + weightMacro*macroScore + weightTiming*timingScore
	result.Score = utils.RoundTo(total*100, 1)
	result.Bias = s.resolveBias(zoneBias, macroBias, primary, mctx)

	return result
}

// zoneScore reads only the primary instrument's proximity to structure and
// resolves a provisional bias: bullish at support, bearish at resistance.
func (s *ConfluenceScorer) zoneScore(state *dto.SignalState, out *dto.ConfluenceScore) (float64, dto.Bias) {
	if state == nil {
		return 0, dto.BiasNeutral
	}

	var (
		score    float64
		bias     = dto.BiasNeutral
		atZone   *dto.SupportZone
		sameSide []dto.SupportZone
	)

	switch {
	case state.AtSupport && state.NearestSupport != nil:
		atZone = state.NearestSupport
		sameSide = state.SupportZones
		bias = dto.BiasBullish
	case state.AtResistance && state.NearestResistance != nil:
		atZone = state.NearestResistance
		sameSide = state.ResistanceZones
		bias = dto.BiasBearish
	default:
		return 0, dto.BiasNeutral
	}

	if atZone.Rank == dto.RankPrimary {
		score = zoneScorePrimary
		out.Confirmations = append(out.Confirmations,
			fmt.Sprintf("%s at PRIMARY %s zone (%s combined)", state.Symbol, atZone.ZoneType, utils.FormatVolume(atZone.CombinedVolume)))
	} else {
		score = zoneScoreOther
		out.Confirmations = append(out.Confirmations,
			fmt.Sprintf("%s at %s %s zone", state.Symbol, atZone.Rank, atZone.ZoneType))
	}

	primaryCount := 0
	for _, z := range sameSide {
		if z.Rank == dto.RankPrimary {
			primaryCount++
		}
	}
	if primaryCount >= 2 {
		score += zoneStackingBonus
		if score > 1.0 {
			score = 1.0
		}
		out.Confirmations = append(out.Confirmations,
			fmt.Sprintf("%d PRIMARY zones stacked on the same side", primaryCount))
	}

	return score, bias
}

func (s *ConfluenceScorer) crossAssetScore(cross dto.CrossAssetResult, out *dto.ConfluenceScore) float64 {
	switch {
	case cross.Signal == dto.CrossAssetConfirms:
		out.Confirmations = append(out.Confirmations, "cross-asset: "+cross.Detail)
		return crossScoreConfirm
	case cross.Signal == dto.CrossAssetDivergent:
		out.Conflicts = append(out.Conflicts, "cross-asset: "+cross.Detail)
		return crossScoreDivergent
	case cross.Boost > 0:
		return crossScorePartial
	default:
		return crossScoreBase
	}
}

func (s *ConfluenceScorer) macroScore(mctx dto.MarketContext, zoneBias dto.Bias, out *dto.ConfluenceScore) (float64, dto.Bias) {
	score := macroBase
	bias := dto.BiasNeutral

	switch mctx.FedSentiment {
	case dto.FedDovish:
		score += macroDovishBonus
		bias = dto.BiasBullish
		out.Confirmations = append(out.Confirmations, "macro: dovish Fed tailwind")
	case dto.FedHawkish:
		score -= macroHawkishPenalty
		bias = dto.BiasBearish
		out.Conflicts = append(out.Conflicts, "macro: hawkish Fed headwind")
	case dto.FedNeutral:
		// no adjustment
	}

	switch mctx.PolicyRisk {
	case dto.PolicyRiskHigh:
		score -= macroHighRiskPen
		out.Conflicts = append(out.Conflicts, "macro: elevated policy risk")
	case dto.PolicyRiskLow:
		score += macroLowRiskBonus
	case dto.PolicyRiskMedium:
		// no adjustment
	}

	switch {
	case mctx.VolatilityLevel > highVolatilityLevel:
		score -= macroHighVolPenalty
		out.Conflicts = append(out.Conflicts,
			fmt.Sprintf("volatility elevated at %.1f", mctx.VolatilityLevel))
	case mctx.VolatilityLevel < lowVolatilityLevel:
		score += macroLowVolBonus
	}

	if bias != dto.BiasNeutral && bias == zoneBias {
		score += macroAlignmentBonus
		out.Confirmations = append(out.Confirmations, "macro bias aligns with zone structure")
	}

	return utils.Clamp01(score), bias
}

// resolveBias picks the first non-neutral source in a fixed order: zone
// structure, then macro, then the primary instrument's short-term trend.
func (s *ConfluenceScorer) resolveBias(zoneBias, macroBias dto.Bias, primary *dto.SignalState, mctx dto.MarketContext) dto.Bias {
	if zoneBias != dto.BiasNeutral {
		return zoneBias
	}
	if macroBias != dto.BiasNeutral {
		return macroBias
	}
	if primary != nil {
		if symCtx, ok := mctx.Symbols[primary.Symbol]; ok {
			if symCtx.Trend1h == dto.BiasBullish || symCtx.Trend1h == dto.BiasBearish {
				return symCtx.Trend1h
			}
		}
	}
	return dto.BiasNeutral
}
