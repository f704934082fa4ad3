package engine

import (
	"fmt"
	"strings"

	"signal-brain/internal/dto"
	"signal-brain/pkg/utils"
)

const maxZonesInPayload = 3

// BuildAlertPayload converts a SynthesisResult into the presentation form
// handed to delivery subsystems.
func BuildAlertPayload(result *dto.SynthesisResult, primarySymbol string) dto.AlertPayload {
	payload := dto.AlertPayload{
		Title: fmt.Sprintf("Confluence %.1f | %s | %s",
			result.Confluence.Score, result.Confluence.Bias, utils.PrettyDate(result.GeneratedAt)),
	}

	if state, ok := result.States[primarySymbol]; ok {
		payload.SupportStructure = supportStructureBlock(state)
	}
	payload.CrossAssetLine = fmt.Sprintf("Cross-asset: %s (%s)", result.CrossAsset.Signal, result.CrossAsset.Detail)
	payload.Thinking = result.Reasoning
	payload.TradeBlock = tradeBlock(result.Recommendation)

	return payload
}

func supportStructureBlock(state dto.SignalState) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%s @ %s\n", state.Symbol, utils.FormatPrice(state.CurrentPrice)))

	writeZones := func(label string, zones []dto.SupportZone) {
		if len(zones) == 0 {
			return
		}
		sb.WriteString(label + ":\n")
		for i, z := range zones {
			if i >= maxZonesInPayload {
				break
			}
			sb.WriteString(fmt.Sprintf("  %s %s (%s, %d levels)\n",
				z.Rank, utils.FormatPrice(z.CenterPrice), utils.FormatVolume(z.CombinedVolume), z.LevelCount))
		}
	}

	writeZones("Support", state.SupportZones)
	writeZones("Resistance", state.ResistanceZones)

	return strings.TrimRight(sb.String(), "\n")
}

func tradeBlock(rec dto.TradeRecommendation) string {
	if rec.Action == dto.ActionWait {
		msg := "WAIT: " + rec.PrimaryReason
		if rec.WaitFor != "" {
			msg += "\nWaiting for " + rec.WaitFor
		}
		return msg
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%s (%s size)\n", rec.Action, rec.Size))
	sb.WriteString(fmt.Sprintf("Entry %s | Stop %s | Target %s | R:R %.1f\n",
		utils.FormatPrice(rec.Entry), utils.FormatPrice(rec.Stop), utils.FormatPrice(rec.Target), rec.RiskReward))
	sb.WriteString(rec.WhyThisLevel)
	if len(rec.Risks) > 0 {
		sb.WriteString("\nRisks: " + strings.Join(rec.Risks, "; "))
	}

	return sb.String()
}
