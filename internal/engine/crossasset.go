package engine

import (
	"fmt"

	"signal-brain/internal/dto"
)

// Boost contributions per cross-asset outcome.
const (
	boostConfirm  = 0.20
	boostDiverge  = -0.15
	boostOneSided = 0.05
)

// CrossAssetAnalyzer compares the zone state of two correlated instruments
// and classifies their relationship.
type CrossAssetAnalyzer struct{}

func NewCrossAssetAnalyzer() *CrossAssetAnalyzer {
	return &CrossAssetAnalyzer{}
}

// Analyze walks a fixed decision table; the first matching row wins.
func (a *CrossAssetAnalyzer) Analyze(stateA, stateB *dto.SignalState) dto.CrossAssetResult {
	if stateA == nil || stateB == nil {
		return dto.CrossAssetResult{
			Signal: dto.CrossAssetNeutral,
			Detail: "missing state for one or both instruments",
			Boost:  0,
		}
	}

	switch {
	case stateA.AtSupport && stateB.AtSupport:
		return dto.CrossAssetResult{
			Signal: dto.CrossAssetConfirms,
			Detail: fmt.Sprintf("%s and %s are both sitting on support", stateA.Symbol, stateB.Symbol),
			Boost:  boostConfirm,
		}
	case stateA.AtResistance && stateB.AtResistance:
		return dto.CrossAssetResult{
			Signal: dto.CrossAssetConfirms,
			Detail: fmt.Sprintf("%s and %s are both pressing resistance", stateA.Symbol, stateB.Symbol),
			Boost:  boostConfirm,
		}
	case (stateA.AtSupport && stateB.AtResistance) || (stateA.AtResistance && stateB.AtSupport):
		return dto.CrossAssetResult{
			Signal: dto.CrossAssetDivergent,
			Detail: fmt.Sprintf("%s and %s are at opposite sides of their structures", stateA.Symbol, stateB.Symbol),
			Boost:  boostDiverge,
		}
	case stateA.AtSupport || stateB.AtSupport:
		return dto.CrossAssetResult{
			Signal: dto.CrossAssetNeutral,
			Detail: oneSidedDetail(stateA, stateB, true),
			Boost:  boostOneSided,
		}
	case stateA.AtResistance || stateB.AtResistance:
		return dto.CrossAssetResult{
			Signal: dto.CrossAssetNeutral,
			Detail: oneSidedDetail(stateA, stateB, false),
			Boost:  boostOneSided,
		}
	default:
		return dto.CrossAssetResult{
			Signal: dto.CrossAssetNeutral,
			Detail: "neither instrument is at a key level",
			Boost:  0,
		}
	}
}

func oneSidedDetail(stateA, stateB *dto.SignalState, support bool) string {
	side := "support"
	at, other := stateA, stateB
	if support && !stateA.AtSupport {
		at, other = stateB, stateA
	}
	if !support {
		side = "resistance"
		if !stateA.AtResistance {
			at, other = stateB, stateA
		}
	}
	return fmt.Sprintf("%s is at %s but %s is not confirming", at.Symbol, side, other.Symbol)
}
