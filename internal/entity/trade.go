package entity

import "time"

// Trade is one logged trade. Every field except ProfitLoss and
// FinalStopLoss is fixed at creation time.
type Trade struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Date            time.Time `gorm:"not null" json:"date"`
	Direction       string    `gorm:"not null" json:"direction"`
	Timeframe       string    `gorm:"not null" json:"timeframe"`
	EntrySignal     string    `gorm:"not null" json:"entry_signal"`
	SetupType       string    `gorm:"not null" json:"setup_type"`
	Trend           string    `gorm:"not null" json:"trend"`
	TimeframeTrend  string    `gorm:"not null" json:"timeframe_trend"`
	EntryPrice      float64   `gorm:"not null" json:"entry_price"`
	InitialStopLoss float64   `gorm:"not null" json:"initial_stop_loss"`
	PositionSize    float64   `gorm:"not null" json:"position_size"`
	SMA20           string    `gorm:"column:sma20;not null" json:"sma20"`
	SMA50           string    `gorm:"column:sma50;not null" json:"sma50"`
	SMA100          string    `gorm:"column:sma100" json:"sma100"`
	SMA200          string    `gorm:"column:sma200" json:"sma200"`
	RSI             *float64  `gorm:"column:rsi" json:"rsi"`
	BollingerBands  *string   `json:"bollinger_bands"`
	ProfitLoss      float64   `gorm:"not null" json:"profit_loss"`
	FinalStopLoss   float64   `gorm:"not null" json:"final_stop_loss"`
	ImageURL        *string   `gorm:"column:image_url" json:"image_url"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Trade) TableName() string {
	return "trades"
}
