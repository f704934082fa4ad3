package engine

import (
	"fmt"
	"strings"

	"signal-brain/internal/dto"
	"signal-brain/pkg/logger"
	"signal-brain/pkg/utils"
)

// SignalSynthesizer turns the per-instrument states, confluence score and
// cross-asset result into reasoning text and exactly one recommendation.
type SignalSynthesizer struct {
	log *logger.Logger
}

func NewSignalSynthesizer(log *logger.Logger) *SignalSynthesizer {
	return &SignalSynthesizer{log: log}
}

// Synthesize builds the cycle's SynthesisResult. The narrative argument is
// optional LLM enrichment; nil skips its contribution entirely.
func (s *SignalSynthesizer) Synthesize(primary, secondary *dto.SignalState, mctx dto.MarketContext, confluence dto.ConfluenceScore, cross dto.CrossAssetResult, narrative *dto.NarrativeContext) dto.SynthesisResult {
	states := make(map[string]dto.SignalState, 2)
	if primary != nil {
		states[primary.Symbol] = *primary
	}
	if secondary != nil {
		states[secondary.Symbol] = *secondary
	}

	recommendation := s.recommend(primary, confluence)
	if narrative != nil && narrative.RiskEnvironment != "" && recommendation.Action != dto.ActionWait {
		recommendation.Risks = append(recommendation.Risks, narrative.RiskEnvironment)
	}

	return dto.SynthesisResult{
		Context:        mctx,
		States:         states,
		CrossAsset:     cross,
		Confluence:     confluence,
		Recommendation: recommendation,
		Reasoning:      s.buildReasoning(primary, mctx, confluence, cross, narrative),
	}
}

// buildReasoning concatenates conditionally triggered sentences in a fixed
// order: zone strength, stacking, cross-asset, macro, volatility, session,
// then optional narrative enrichment.
func (s *SignalSynthesizer) buildReasoning(primary *dto.SignalState, mctx dto.MarketContext, confluence dto.ConfluenceScore, cross dto.CrossAssetResult, narrative *dto.NarrativeContext) string {
	if primary == nil {
		return ""
	}

	sb := strings.Builder{}

	if primary.AtSupport && primary.NearestSupport != nil {
		z := primary.NearestSupport
		sb.WriteString(fmt.Sprintf("%s is holding a %s support zone at %s with %s of institutional volume. ",
			primary.Symbol, z.Rank, utils.FormatPrice(z.CenterPrice), utils.FormatVolume(z.CombinedVolume)))
	} else if primary.AtResistance && primary.NearestResistance != nil {
		z := primary.NearestResistance
		sb.WriteString(fmt.Sprintf("%s is pressing a %s resistance zone at %s with %s of institutional volume. ",
			primary.Symbol, z.Rank, utils.FormatPrice(z.CenterPrice), utils.FormatVolume(z.CombinedVolume)))
	}

	if count := countPrimary(activeSide(primary)); count >= 2 {
		sb.WriteString(fmt.Sprintf("Structure is stacked: %d PRIMARY zones on the active side. ", count))
	}

	switch cross.Signal {
	case dto.CrossAssetConfirms:
		sb.WriteString(fmt.Sprintf("Cross-asset confirmation: %s. ", cross.Detail))
	case dto.CrossAssetDivergent:
		sb.WriteString(fmt.Sprintf("Cross-asset warning: %s. ", cross.Detail))
	case dto.CrossAssetNeutral:
		// not worth a sentence
	}

	switch mctx.FedSentiment {
	case dto.FedDovish:
		sb.WriteString("Macro tailwind: Fed sentiment is dovish. ")
	case dto.FedHawkish:
		sb.WriteString("Macro headwind: Fed sentiment is hawkish. ")
	case dto.FedNeutral:
	}
	if mctx.PolicyRisk == dto.PolicyRiskHigh {
		sb.WriteString("Policy risk is elevated; headline risk can invalidate levels quickly. ")
	}

	if mctx.VolatilityLevel > highVolatilityLevel {
		sb.WriteString(fmt.Sprintf("Volatility is elevated at %.1f; expect wider swings through zones. ", mctx.VolatilityLevel))
	}

	switch mctx.Session {
	case dto.SessionMidday:
		sb.WriteString("Midday session: liquidity is thin and zone tests are less reliable. ")
	case dto.SessionPowerHour:
		sb.WriteString("Power hour: institutional flows are most active now. ")
	case dto.SessionOpen:
		sb.WriteString("Opening drive: momentum can overshoot zones. ")
	default:
	}

	if narrative != nil {
		if narrative.Catalyst != "" {
			sb.WriteString(fmt.Sprintf("Research context: %s. ", narrative.Catalyst))
		}
		if narrative.DivergenceDetected && narrative.DivergenceDetail != "" {
			sb.WriteString(fmt.Sprintf("Narrative divergence: %s. ", narrative.DivergenceDetail))
		}
	}

	return strings.TrimSpace(sb.String())
}

// recommend generates the single trade recommendation. WAIT is explicit:
// entry, stop and target are all zero whenever action is WAIT.
func (s *SignalSynthesizer) recommend(primary *dto.SignalState, confluence dto.ConfluenceScore) dto.TradeRecommendation {
	if primary == nil || confluence.Score < minActionableScore {
		return dto.TradeRecommendation{
			Action:        dto.ActionWait,
			Size:          dto.SizeNone,
			PrimaryReason: "confluence below threshold",
		}
	}

	size := dto.SizeQuarter
	switch {
	case confluence.Score >= fullSizeScore:
		size = dto.SizeFull
	case confluence.Score >= halfSizeScore:
		size = dto.SizeHalf
	}

	switch confluence.Bias {
	case dto.BiasBullish:
		return s.longPlan(primary, confluence, size)
	case dto.BiasBearish:
		return s.shortPlan(primary, confluence, size)
	default:
		return dto.TradeRecommendation{
			Action:        dto.ActionWait,
			Size:          dto.SizeNone,
			PrimaryReason: "no directional bias resolved",
		}
	}
}

func (s *SignalSynthesizer) longPlan(primary *dto.SignalState, confluence dto.ConfluenceScore, size dto.PositionSize) dto.TradeRecommendation {
	zone := pickTradeZone(primary.SupportZones)
	if zone == nil {
		return dto.TradeRecommendation{
			Action:        dto.ActionWait,
			Size:          dto.SizeNone,
			PrimaryReason: "bullish bias but no support zone to trade against",
		}
	}

	if zone.DistancePct > maxEntryDistancePct {
		return waitForZone(primary.Symbol, zone, confluence)
	}

	entry := zone.CenterPrice + entryOffset
	stop := zone.MinPrice - (zone.MaxPrice - zone.MinPrice) - stopBuffer
	risk := entry - stop
	if risk <= 0 {
		return dto.TradeRecommendation{
			Action:        dto.ActionWait,
			Size:          dto.SizeNone,
			PrimaryReason: "degenerate zone geometry, no valid risk",
		}
	}
	target := entry + risk*rewardMultiple

	return dto.TradeRecommendation{
		Action:        dto.ActionLong,
		Entry:         utils.RoundTo(entry, 2),
		Stop:          utils.RoundTo(stop, 2),
		Target:        utils.RoundTo(target, 2),
		Size:          size,
		RiskReward:    utils.RoundTo((target-entry)/risk, 2),
		PrimaryReason: fmt.Sprintf("confluence %.1f with bullish structure", confluence.Score),
		WhyThisLevel: fmt.Sprintf("%s %s support holds %s across %d levels",
			primary.Symbol, zone.Rank, utils.FormatVolume(zone.CombinedVolume), zone.LevelCount),
		Risks: confluence.Conflicts,
	}
}

func (s *SignalSynthesizer) shortPlan(primary *dto.SignalState, confluence dto.ConfluenceScore, size dto.PositionSize) dto.TradeRecommendation {
	zone := pickTradeZone(primary.ResistanceZones)
	if zone == nil {
		return dto.TradeRecommendation{
			Action:        dto.ActionWait,
			Size:          dto.SizeNone,
			PrimaryReason: "bearish bias but no resistance zone to trade against",
		}
	}

	if zone.DistancePct > maxEntryDistancePct {
		return waitForZone(primary.Symbol, zone, confluence)
	}

	entry := zone.CenterPrice - entryOffset
	stop := zone.MaxPrice + (zone.MaxPrice - zone.MinPrice) + stopBuffer
	risk := stop - entry
	if risk <= 0 {
		return dto.TradeRecommendation{
			Action:        dto.ActionWait,
			Size:          dto.SizeNone,
			PrimaryReason: "degenerate zone geometry, no valid risk",
		}
	}
	target := entry - risk*rewardMultiple

	return dto.TradeRecommendation{
		Action:        dto.ActionShort,
		Entry:         utils.RoundTo(entry, 2),
		Stop:          utils.RoundTo(stop, 2),
		Target:        utils.RoundTo(target, 2),
		Size:          size,
		RiskReward:    utils.RoundTo((entry-target)/risk, 2),
		PrimaryReason: fmt.Sprintf("confluence %.1f with bearish structure", confluence.Score),
		WhyThisLevel: fmt.Sprintf("%s %s resistance holds %s across %d levels",
			primary.Symbol, zone.Rank, utils.FormatVolume(zone.CombinedVolume), zone.LevelCount),
		Risks: confluence.Conflicts,
	}
}

func waitForZone(symbol string, zone *dto.SupportZone, confluence dto.ConfluenceScore) dto.TradeRecommendation {
	return dto.TradeRecommendation{
		Action:        dto.ActionWait,
		Size:          dto.SizeNone,
		PrimaryReason: fmt.Sprintf("confluence %.1f but price is %.2f%% from the zone", confluence.Score, zone.DistancePct),
		WaitFor: fmt.Sprintf("%s to reach the %s–%s zone",
			symbol, utils.FormatPrice(zone.MinPrice), utils.FormatPrice(zone.MaxPrice)),
	}
}

// pickTradeZone prefers the nearest PRIMARY zone, falls back to the
// nearest SECONDARY, then to the nearest of any rank. Input is already
// ordered nearest-first.
func pickTradeZone(zones []dto.SupportZone) *dto.SupportZone {
	for i := range zones {
		if zones[i].Rank == dto.RankPrimary {
			return &zones[i]
		}
	}
	for i := range zones {
		if zones[i].Rank == dto.RankSecondary {
			return &zones[i]
		}
	}
	if len(zones) > 0 {
		return &zones[0]
	}
	return nil
}

func activeSide(state *dto.SignalState) []dto.SupportZone {
	if state == nil {
		return nil
	}
	if state.AtSupport {
		return state.SupportZones
	}
	if state.AtResistance {
		return state.ResistanceZones
	}
	return nil
}

func countPrimary(zones []dto.SupportZone) int {
	count := 0
	for _, z := range zones {
		if z.Rank == dto.RankPrimary {
			count++
		}
	}
	return count
}
