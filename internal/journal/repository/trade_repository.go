package repository

import (
	"context"
	"errors"

	"trading-journal/internal/entity"
	"trading-journal/pkg/common"

	"gorm.io/gorm"
)

// ErrTradeNotFound is returned when no trade matches the given ID.
var ErrTradeNotFound = errors.New("trade not found")

// Outcome columns amendable after creation. The service layer enforces
// the field contract; this map translates API field names to columns.
var outcomeColumns = map[string]string{
	common.AmendFieldProfitLoss:    "profit_loss",
	common.AmendFieldFinalStopLoss: "final_stop_loss",
}

// TradeRepository defines the interface for trade data operations.
type TradeRepository interface {
	Create(ctx context.Context, trade *entity.Trade) error
	FindAll(ctx context.Context) ([]entity.Trade, error)
	FindByID(ctx context.Context, id int64) (*entity.Trade, error)
	UpdateOutcome(ctx context.Context, id int64, field string, value float64) (*entity.Trade, error)
}

// NewTradeRepository creates a new GORM-based trade repository.
func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

type tradeRepository struct {
	db *gorm.DB
}

// Create inserts a new trade. The database assigns the ID.
func (r *tradeRepository) Create(ctx context.Context, trade *entity.Trade) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

// FindAll retrieves all trades ordered by entry date descending.
func (r *tradeRepository) FindAll(ctx context.Context) ([]entity.Trade, error) {
	var trades []entity.Trade
	if err := r.db.WithContext(ctx).Order("date DESC").Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// FindByID retrieves a trade by its ID.
func (r *tradeRepository) FindByID(ctx context.Context, id int64) (*entity.Trade, error) {
	var trade entity.Trade
	if err := r.db.WithContext(ctx).First(&trade, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	return &trade, nil
}

// UpdateOutcome applies a partial update to a single outcome column,
// scoped to the matching ID, and returns the updated row.
func (r *tradeRepository) UpdateOutcome(ctx context.Context, id int64, field string, value float64) (*entity.Trade, error) {
	column, ok := outcomeColumns[field]
	if !ok {
		return nil, errors.New("column not amendable: " + field)
	}

	res := r.db.WithContext(ctx).Model(&entity.Trade{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTradeNotFound
	}

	return r.FindByID(ctx, id)
}
