package service

import (
	"context"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/common"
	"trading-journal/pkg/logger"
	"trading-journal/pkg/telegram"
	"trading-journal/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
)

const tradeListCacheKey = "trades:all"

// TradeService manages the trade record lifecycle: draft promotion,
// listing, and outcome amendments.
type TradeService interface {
	List(ctx context.Context) ([]*dto.TradeResponse, error)
	Create(ctx context.Context, session string) (*dto.TradeResponse, error)
	Amend(ctx context.Context, id int64, field, rawValue string) (*dto.TradeResponse, error)
}

// NewTradeService creates a new trade service.
func NewTradeService(
	tradeRepo repository.TradeRepository,
	drafts DraftService,
	listCache *gocache.Cache,
	notifier telegram.Notifier,
	log *logger.Logger,
) TradeService {
	return &tradeService{
		tradeRepo: tradeRepo,
		drafts:    drafts,
		listCache: listCache,
		notifier:  notifier,
		logger:    log,
	}
}

type tradeService struct {
	tradeRepo repository.TradeRepository
	drafts    DraftService
	listCache *gocache.Cache
	notifier  telegram.Notifier
	logger    *logger.Logger
}

// List returns all trades ordered by entry date descending. Results are
// served from cache until the next write.
func (s *tradeService) List(ctx context.Context) ([]*dto.TradeResponse, error) {
	if cached, found := s.listCache.Get(tradeListCacheKey); found {
		return cached.([]*dto.TradeResponse), nil
	}

	trades, err := s.tradeRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list trades", logger.ErrorField(err))
		return nil, err
	}

	responses := make([]*dto.TradeResponse, 0, len(trades))
	for i := range trades {
		responses = append(responses, mapToTradeResponse(&trades[i]))
	}
	s.listCache.Set(tradeListCacheKey, responses, gocache.DefaultExpiration)
	return responses, nil
}

// Create promotes the session's draft to a persisted trade. The draft is
// validated against the fixed required set before any store call; on
// success the draft is cleared, on store failure it is left intact so
// the user can retry without re-entering data.
func (s *tradeService) Create(ctx context.Context, session string) (*dto.TradeResponse, error) {
	fields, imageURL, err := s.drafts.Snapshot(ctx, session)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, field := range common.RequiredTradeFields {
		if fields[field] == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	trade, err := buildTrade(fields, imageURL)
	if err != nil {
		return nil, &ValidationError{Missing: []string{common.FieldDate}}
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		s.logger.Error("Failed to save trade", logger.ErrorField(err), logger.Field("session", session))
		return nil, err
	}

	// The draft only resets once the trade is safely persisted.
	if err := s.drafts.Clear(ctx, session); err != nil {
		s.logger.Error("Failed to clear draft after save", logger.ErrorField(err), logger.Field("session", session))
	}
	s.listCache.Delete(tradeListCacheKey)

	if err := s.notifier.SendMessage(telegram.FormatTradeSaved(trade)); err != nil {
		s.logger.Error("Failed to send trade notification", logger.ErrorField(err))
	}

	s.logger.Info("Trade saved", logger.Field("trade_id", trade.ID))
	return mapToTradeResponse(trade), nil
}

// Amend applies an in-place edit to one outcome field of a persisted
// trade. Only profitloss and finalstoploss are amendable; the value
// parses with a fallback of 0. State is updated only after the store
// confirms the write.
func (s *tradeService) Amend(ctx context.Context, id int64, field, rawValue string) (*dto.TradeResponse, error) {
	switch field {
	case common.AmendFieldProfitLoss, common.AmendFieldFinalStopLoss:
	default:
		return nil, ErrFieldNotAmendable
	}

	value := utils.ParseFloatOrZero(rawValue)
	trade, err := s.tradeRepo.UpdateOutcome(ctx, id, field, value)
	if err != nil {
		s.logger.Error("Failed to update trade", logger.ErrorField(err), logger.Field("trade_id", id))
		return nil, err
	}
	s.listCache.Delete(tradeListCacheKey)

	s.logger.Info("Trade updated", logger.Field("trade_id", id), logger.Field("field", field))
	return mapToTradeResponse(trade), nil
}

// buildTrade assembles a trade entity from the draft snapshot, applying
// the creation defaults: numeric fields fall back to 0, optional enums
// to NULL, and the outcome fields start at 0.
func buildTrade(fields map[string]string, imageURL string) (*entity.Trade, error) {
	date, err := utils.ParseTradeDate(fields[common.FieldDate])
	if err != nil {
		return nil, err
	}

	trade := &entity.Trade{
		Date:            date,
		Direction:       fields[common.FieldDirection],
		Timeframe:       fields[common.FieldTimeframe],
		EntrySignal:     fields[common.FieldEntrySignal],
		SetupType:       fields[common.FieldSetupType],
		Trend:           fields[common.FieldTrend],
		TimeframeTrend:  fields[common.FieldTimeframeTrend],
		EntryPrice:      utils.ParseFloatOrZero(fields[common.FieldEntryPrice]),
		InitialStopLoss: utils.ParseFloatOrZero(fields[common.FieldInitialStopLoss]),
		PositionSize:    utils.ParseFloatOrZero(fields[common.FieldPositionSize]),
		SMA20:           fields[common.FieldSMA20],
		SMA50:           fields[common.FieldSMA50],
		SMA100:          fields[common.FieldSMA100],
		SMA200:          fields[common.FieldSMA200],
		ProfitLoss:      0,
		FinalStopLoss:   0,
	}

	if raw := fields[common.FieldRSI]; raw != "" {
		rsi := utils.ParseFloatOrZero(raw)
		trade.RSI = &rsi
	}
	if raw := fields[common.FieldBollingerBands]; raw != "" {
		bb := raw
		trade.BollingerBands = &bb
	}
	if imageURL != "" {
		trade.ImageURL = &imageURL
	}

	return trade, nil
}

func mapToTradeResponse(trade *entity.Trade) *dto.TradeResponse {
	return &dto.TradeResponse{
		ID:              trade.ID,
		Date:            trade.Date,
		Direction:       trade.Direction,
		Timeframe:       trade.Timeframe,
		EntrySignal:     trade.EntrySignal,
		SetupType:       trade.SetupType,
		Trend:           trade.Trend,
		TimeframeTrend:  trade.TimeframeTrend,
		EntryPrice:      trade.EntryPrice,
		InitialStopLoss: trade.InitialStopLoss,
		PositionSize:    trade.PositionSize,
		SMA20:           trade.SMA20,
		SMA50:           trade.SMA50,
		SMA100:          trade.SMA100,
		SMA200:          trade.SMA200,
		RSI:             trade.RSI,
		BollingerBands:  trade.BollingerBands,
		ProfitLoss:      trade.ProfitLoss,
		FinalStopLoss:   trade.FinalStopLoss,
		ImageURL:        trade.ImageURL,
		CreatedAt:       trade.CreatedAt,
		UpdatedAt:       trade.UpdatedAt,
	}
}
