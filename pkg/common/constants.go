package common

// Draft field keys. These double as the query string parameter names, so
// a draft encoded for the address bar uses exactly these keys.
const (
	FieldDate            = "date"
	FieldDirection       = "direction"
	FieldTimeframe       = "timeframe"
	FieldEntrySignal     = "entrysignal"
	FieldSetupType       = "setuptype"
	FieldTrend           = "trend"
	FieldTimeframeTrend  = "timeframetrend"
	FieldEntryPrice      = "entryprice"
	FieldInitialStopLoss = "initialstoploss"
	FieldPositionSize    = "positionsize"
	FieldSMA20           = "sma20"
	FieldSMA50           = "sma50"
	FieldSMA100          = "sma100"
	FieldSMA200          = "sma200"
	FieldRSI             = "rsi"
	FieldBollingerBands  = "bollingerbands"
)

// RequiredTradeFields is the fixed set a draft must carry before it can
// be promoted to a persisted trade.
var RequiredTradeFields = []string{
	FieldDate,
	FieldTimeframe,
	FieldEntrySignal,
	FieldSetupType,
	FieldTrend,
	FieldTimeframeTrend,
	FieldEntryPrice,
	FieldInitialStopLoss,
	FieldSMA20,
	FieldSMA50,
	FieldDirection,
	FieldPositionSize,
}

// Outcome fields, the only trade fields mutable after creation.
const (
	AmendFieldProfitLoss    = "profitloss"
	AmendFieldFinalStopLoss = "finalstoploss"
)

// DraftKeyPrefix namespaces draft sessions in Redis.
const DraftKeyPrefix = "journal:draft:"
