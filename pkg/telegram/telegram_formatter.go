package telegram

import (
	"fmt"
	"strings"

	"trading-journal/internal/entity"
)

// FormatTradeSaved builds the Markdown message announcing a newly saved
// trade.
func FormatTradeSaved(trade *entity.Trade) string {
	var b strings.Builder

	b.WriteString("*Trade Saved*\n")
	b.WriteString(fmt.Sprintf("Side: `%s`\n", strings.ToUpper(trade.Direction)))
	b.WriteString(fmt.Sprintf("Date: `%s`\n", trade.Date.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Timeframe: `%s`\n", trade.Timeframe))
	b.WriteString(fmt.Sprintf("Entry: `%.2f` | SL: `%.2f` | Size: `%.2f`\n",
		trade.EntryPrice, trade.InitialStopLoss, trade.PositionSize))
	b.WriteString(fmt.Sprintf("Signal: %s", trade.EntrySignal))

	return b.String()
}
