package common

const (
	KEY_MARKET_CONTEXT = "market_context"
)

const (
	SYMBOL_SPY = "SPY"
	SYMBOL_QQQ = "QQQ"
)

const (
	EXCHANGE_TIMEZONE = "America/New_York"
)
