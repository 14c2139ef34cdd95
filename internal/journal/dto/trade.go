package dto

import "time"

// CreateTradeRequest promotes the draft of the given session into a
// persisted trade.
type CreateTradeRequest struct {
	SessionID string `json:"session_id"`
}

// AmendTradeRequest applies an in-place edit to one outcome field of an
// already persisted trade. Value is the raw string as typed; numeric
// parsing happens server side with a fallback of 0.
type AmendTradeRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// TradeResponse is the DTO for API responses containing trade details.
type TradeResponse struct {
	ID              int64     `json:"id"`
	Date            time.Time `json:"date"`
	Direction       string    `json:"direction"`
	Timeframe       string    `json:"timeframe"`
	EntrySignal     string    `json:"entry_signal"`
	SetupType       string    `json:"setup_type"`
	Trend           string    `json:"trend"`
	TimeframeTrend  string    `json:"timeframe_trend"`
	EntryPrice      float64   `json:"entry_price"`
	InitialStopLoss float64   `json:"initial_stop_loss"`
	PositionSize    float64   `json:"position_size"`
	SMA20           string    `json:"sma20"`
	SMA50           string    `json:"sma50"`
	SMA100          string    `json:"sma100,omitempty"`
	SMA200          string    `json:"sma200,omitempty"`
	RSI             *float64  `json:"rsi"`
	BollingerBands  *string   `json:"bollinger_bands"`
	ProfitLoss      float64   `json:"profit_loss"`
	FinalStopLoss   float64   `json:"final_stop_loss"`
	ImageURL        *string   `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SaveTradeResponse carries the persisted trade together with the
// user-facing confirmation message.
type SaveTradeResponse struct {
	Message string        `json:"message"`
	Trade   TradeResponse `json:"trade"`
}
