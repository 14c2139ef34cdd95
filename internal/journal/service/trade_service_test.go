package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/common"
	"trading-journal/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTradeRepo struct {
	mu           sync.Mutex
	trades       []entity.Trade
	nextID       int64
	createErr    error
	createCalls  int
	findAllCalls int
}

func (f *fakeTradeRepo) Create(ctx context.Context, trade *entity.Trade) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	trade.ID = f.nextID
	f.trades = append(f.trades, *trade)
	return nil
}

func (f *fakeTradeRepo) FindAll(ctx context.Context) ([]entity.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findAllCalls++
	out := make([]entity.Trade, len(f.trades))
	copy(out, f.trades)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeTradeRepo) FindByID(ctx context.Context, id int64) (*entity.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.trades {
		if f.trades[i].ID == id {
			t := f.trades[i]
			return &t, nil
		}
	}
	return nil, repository.ErrTradeNotFound
}

func (f *fakeTradeRepo) UpdateOutcome(ctx context.Context, id int64, field string, value float64) (*entity.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.trades {
		if f.trades[i].ID != id {
			continue
		}
		switch field {
		case common.AmendFieldProfitLoss:
			f.trades[i].ProfitLoss = value
		case common.AmendFieldFinalStopLoss:
			f.trades[i].FinalStopLoss = value
		}
		t := f.trades[i]
		return &t, nil
	}
	return nil, repository.ErrTradeNotFound
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) SendMessage(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return nil
}

type tradeServiceFixture struct {
	svc      TradeService
	drafts   DraftService
	repo     *fakeTradeRepo
	notifier *recordingNotifier
}

func newTradeServiceFixture() *tradeServiceFixture {
	repo := &fakeTradeRepo{}
	drafts := NewDraftService(repository.NewMemoryDraftRepository(), &fakeMediaRepo{}, logger.NewNop())
	notifier := &recordingNotifier{}
	svc := NewTradeService(repo, drafts, gocache.New(time.Minute, time.Minute), notifier, logger.NewNop())
	return &tradeServiceFixture{svc: svc, drafts: drafts, repo: repo, notifier: notifier}
}

func seedRequiredFields(t *testing.T, drafts DraftService, session string) {
	t.Helper()
	ctx := context.Background()
	fields := map[string]string{
		common.FieldDate:            "2024-01-01T09:00",
		common.FieldTimeframe:       "1h",
		common.FieldEntrySignal:     "breakout",
		common.FieldSetupType:       "continuation",
		common.FieldTrend:           "uptrend",
		common.FieldTimeframeTrend:  "uptrend",
		common.FieldEntryPrice:      "100",
		common.FieldInitialStopLoss: "95",
		common.FieldPositionSize:    "10",
		common.FieldSMA20:           "Above",
		common.FieldSMA50:           "Above",
		common.FieldDirection:       "long",
	}
	for k, v := range fields {
		require.NoError(t, drafts.SetField(ctx, session, k, v))
	}
}

func TestCreateTradeFromDraft(t *testing.T) {
	fix := newTradeServiceFixture()
	ctx := context.Background()

	session, err := fix.drafts.CreateSession(ctx)
	require.NoError(t, err)
	seedRequiredFields(t, fix.drafts, session)

	trade, err := fix.svc.Create(ctx, session)
	require.NoError(t, err)

	assert.Equal(t, int64(1), trade.ID)
	assert.Equal(t, "long", trade.Direction)
	assert.Equal(t, "1h", trade.Timeframe)
	assert.Equal(t, "breakout", trade.EntrySignal)
	assert.Equal(t, "continuation", trade.SetupType)
	assert.Equal(t, 100.0, trade.EntryPrice)
	assert.Equal(t, 95.0, trade.InitialStopLoss)
	assert.Equal(t, 10.0, trade.PositionSize)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), trade.Date)

	// Outcome fields default to 0, optional indicators to absent.
	assert.Equal(t, 0.0, trade.ProfitLoss)
	assert.Equal(t, 0.0, trade.FinalStopLoss)
	assert.Nil(t, trade.RSI)
	assert.Nil(t, trade.BollingerBands)
	assert.Nil(t, trade.ImageURL)

	// The draft resets on success.
	fields, imageURL, err := fix.drafts.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, fields)
	assert.Empty(t, imageURL)

	assert.Len(t, fix.notifier.messages, 1)
	assert.Contains(t, fix.notifier.messages[0], "Trade Saved")
}

func TestCreateTradeMissingFields(t *testing.T) {
	fix := newTradeServiceFixture()
	ctx := context.Background()

	session, err := fix.drafts.CreateSession(ctx)
	require.NoError(t, err)
	seedRequiredFields(t, fix.drafts, session)
	require.NoError(t, fix.drafts.SetField(ctx, session, common.FieldEntrySignal, ""))

	_, err = fix.svc.Create(ctx, session)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{common.FieldEntrySignal}, vErr.Missing)
	assert.Zero(t, fix.repo.createCalls, "validation failure must not reach the store")

	// The draft survives for a retry.
	fields, _, err := fix.drafts.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "1h", fields[common.FieldTimeframe])
}

func TestCreateTradeEmptyDraftReportsAllFields(t *testing.T) {
	fix := newTradeServiceFixture()
	ctx := context.Background()

	session, err := fix.drafts.CreateSession(ctx)
	require.NoError(t, err)

	_, err = fix.svc.Create(ctx, session)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ElementsMatch(t, common.RequiredTradeFields, vErr.Missing)
	assert.Zero(t, fix.repo.createCalls)
}

func TestCreateTradeOptionalFields(t *testing.T) {
	fix := newTradeServiceFixture()
	ctx := context.Background()

	session, err := fix.drafts.CreateSession(ctx)
	require.NoError(t, err)
	seedRequiredFields(t, fix.drafts, session)
	require.NoError(t, fix.drafts.SetField(ctx, session, common.FieldRSI, "62.5"))
	require.NoError(t, fix.drafts.SetField(ctx, session, common.FieldBollingerBands, "upper"))
	require.NoError(t, fix.drafts.SetField(ctx, session, common.FieldSMA100, "Touching"))

	trade, err := fix.svc.Create(ctx, session)
	require.NoError(t, err)

	require.NotNil(t, trade.RSI)
	assert.Equal(t, 62.5, *trade.RSI)
	require.NotNil(t, trade.BollingerBands)
	assert.Equal(t, "upper", *trade.BollingerBands)
	assert.Equal(t, "Touching", trade.SMA100)
	assert.Equal(t, "", trade.SMA200)
}

func TestCreateTradeUnparseableNumberDefaultsToZero(t *testing.T) {
	fix := newTradeServiceFixture()
	ctx := context.Background()

	session, err := fix.drafts.CreateSession(ctx)
	require.NoError(t, err)
	seedRequiredFields(t, fix.drafts, session)
	require.NoError(t, fix.drafts.SetField(ctx, session, common.FieldEntryPrice, "not-a-number"))

	trade, err := fix.svc.Create(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 0.0, trade.EntryPrice)
}

func TestCreateTradeStoreFailureKeepsDraft(t *testing.T) {
	fix := newTradeServiceFixture()
	fix.repo.createErr = errors.New("connection refused")
	ctx := context.Background()

	session, err := fix.drafts.CreateSession(ctx)
	require.NoError(t, err)
	seedRequiredFields(t, fix.drafts, session)

	_, err = fix.svc.Create(ctx, session)
	require.Error(t, err)

	// The draft is left intact so the user can retry without
	// re-entering data.
	fields, _, err := fix.drafts.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "breakout", fields[common.FieldEntrySignal])
	assert.Empty(t, fix.notifier.messages)
}

func TestAmendTrade(t *testing.T) {
	fix := newTradeServiceFixture()
	ctx := context.Background()

	session, err := fix.drafts.CreateSession(ctx)
	require.NoError(t, err)
	seedRequiredFields(t, fix.drafts, session)
	created, err := fix.svc.Create(ctx, session)
	require.NoError(t, err)

	t.Run("ProfitLoss", func(t *testing.T) {
		updated, err := fix.svc.Amend(ctx, created.ID, common.AmendFieldProfitLoss, "12.5")
		require.NoError(t, err)
		assert.Equal(t, 12.5, updated.ProfitLoss)
		assert.Equal(t, 0.0, updated.FinalStopLoss)
	})

	t.Run("NonNumericCoercesToZero", func(t *testing.T) {
		updated, err := fix.svc.Amend(ctx, created.ID, common.AmendFieldProfitLoss, "not-a-number")
		require.NoError(t, err)
		assert.Equal(t, 0.0, updated.ProfitLoss)
	})

	t.Run("FinalStopLoss", func(t *testing.T) {
		updated, err := fix.svc.Amend(ctx, created.ID, common.AmendFieldFinalStopLoss, "98.25")
		require.NoError(t, err)
		assert.Equal(t, 98.25, updated.FinalStopLoss)
	})

	t.Run("RestrictedField", func(t *testing.T) {
		_, err := fix.svc.Amend(ctx, created.ID, "entryprice", "1")
		assert.ErrorIs(t, err, ErrFieldNotAmendable)
	})

	t.Run("UnknownTrade", func(t *testing.T) {
		_, err := fix.svc.Amend(ctx, 999, common.AmendFieldProfitLoss, "1")
		assert.ErrorIs(t, err, repository.ErrTradeNotFound)
	})
}

func TestListTradesOrderAndCache(t *testing.T) {
	fix := newTradeServiceFixture()
	ctx := context.Background()

	for _, date := range []string{"2024-01-01T09:00", "2024-02-01T09:00"} {
		session, err := fix.drafts.CreateSession(ctx)
		require.NoError(t, err)
		seedRequiredFields(t, fix.drafts, session)
		require.NoError(t, fix.drafts.SetField(ctx, session, common.FieldDate, date))
		_, err = fix.svc.Create(ctx, session)
		require.NoError(t, err)
	}

	trades, err := fix.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), trades[0].Date)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), trades[1].Date)

	// A second list is served from cache.
	_, err = fix.svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fix.repo.findAllCalls)

	// A write invalidates the cache.
	_, err = fix.svc.Amend(ctx, trades[0].ID, common.AmendFieldProfitLoss, "5")
	require.NoError(t, err)
	updated, err := fix.svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fix.repo.findAllCalls)
	assert.Equal(t, 5.0, updated[0].ProfitLoss)
}

func TestSaveThenListEndToEnd(t *testing.T) {
	fix := newTradeServiceFixture()
	ctx := context.Background()

	trades, err := fix.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, trades)

	session, err := fix.drafts.CreateSession(ctx)
	require.NoError(t, err)
	seedRequiredFields(t, fix.drafts, session)

	created, err := fix.svc.Create(ctx, session)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	trades, err = fix.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, created.ID, trades[0].ID)
	assert.Equal(t, 0.0, trades[0].ProfitLoss)
	assert.Equal(t, 0.0, trades[0].FinalStopLoss)

	query, err := fix.drafts.QueryString(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, query)
}
