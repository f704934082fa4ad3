package dto

type Bias string

const (
	BiasBullish Bias = "BULLISH"
	BiasBearish Bias = "BEARISH"
	BiasNeutral Bias = "NEUTRAL"
)

func (b Bias) String() string {
	switch b {
	case BiasBullish:
		return "🟢 Bullish"
	case BiasBearish:
		return "🔴 Bearish"
	case BiasNeutral:
		return "🟡 Neutral"
	default:
		return "Unknown"
	}
}

type FedSentiment string

const (
	FedHawkish FedSentiment = "HAWKISH"
	FedDovish  FedSentiment = "DOVISH"
	FedNeutral FedSentiment = "NEUTRAL"
)

type PolicyRisk string

const (
	PolicyRiskLow    PolicyRisk = "LOW"
	PolicyRiskMedium PolicyRisk = "MEDIUM"
	PolicyRiskHigh   PolicyRisk = "HIGH"
)

type VolatilityTrend string

const (
	VolatilityRising  VolatilityTrend = "RISING"
	VolatilityFalling VolatilityTrend = "FALLING"
	VolatilityStable  VolatilityTrend = "STABLE"
)

type TradingSession string

const (
	SessionPreMarket  TradingSession = "PRE_MARKET"
	SessionOpen       TradingSession = "OPEN"
	SessionMorning    TradingSession = "MORNING"
	SessionMidday     TradingSession = "MIDDAY"
	SessionAfternoon  TradingSession = "AFTERNOON"
	SessionPowerHour  TradingSession = "POWER_HOUR"
	SessionAfterHours TradingSession = "AFTER_HOURS"
)

type ZoneRank string

const (
	RankPrimary   ZoneRank = "PRIMARY"
	RankSecondary ZoneRank = "SECONDARY"
	RankTertiary  ZoneRank = "TERTIARY"
	RankMinor     ZoneRank = "MINOR"
)

type ZoneType string

const (
	ZoneSupport    ZoneType = "SUPPORT"
	ZoneResistance ZoneType = "RESISTANCE"
)

type CrossAssetSignal string

const (
	CrossAssetConfirms  CrossAssetSignal = "CONFIRMS"
	CrossAssetDivergent CrossAssetSignal = "DIVERGENT"
	CrossAssetNeutral   CrossAssetSignal = "NEUTRAL"
)

type Action string

const (
	ActionLong  Action = "LONG"
	ActionShort Action = "SHORT"
	ActionWait  Action = "WAIT"
)

func (a Action) String() string {
	switch a {
	case ActionLong:
		return "🟢 LONG"
	case ActionShort:
		return "🔴 SHORT"
	case ActionWait:
		return "🟡 WAIT"
	default:
		return "Unknown"
	}
}

type PositionSize string

const (
	SizeFull    PositionSize = "FULL"
	SizeHalf    PositionSize = "HALF"
	SizeQuarter PositionSize = "QUARTER"
	SizeNone    PositionSize = "NONE"
)
