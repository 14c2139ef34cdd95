package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/common"
	"trading-journal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMediaRepo struct {
	mu    sync.Mutex
	url   string
	err   error
	block chan struct{}
	calls int
}

func (f *fakeMediaRepo) Upload(ctx context.Context, fileName string, file io.Reader) (string, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func newTestDraftService(media *fakeMediaRepo) DraftService {
	return NewDraftService(repository.NewMemoryDraftRepository(), media, logger.NewNop())
}

func TestDraftFieldRoundTrip(t *testing.T) {
	svc := newTestDraftService(&fakeMediaRepo{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	fields := map[string]string{
		common.FieldDate:        "2024-01-01T09:00",
		common.FieldEntrySignal: "breakout above resistance",
		common.FieldEntryPrice:  "100.5",
		common.FieldDirection:   "long",
	}
	for k, v := range fields {
		require.NoError(t, svc.SetField(ctx, session, k, v))
	}

	for k, v := range fields {
		got, ok, err := svc.Field(ctx, session, k)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, v, got)
	}

	// An absent field is distinct from an empty one.
	_, ok, err := svc.Field(ctx, session, common.FieldRSI)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.SetField(ctx, session, common.FieldRSI, ""))
	got, ok, err := svc.Field(ctx, session, common.FieldRSI)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", got)
}

func TestDraftSetFieldOverwrites(t *testing.T) {
	svc := newTestDraftService(&fakeMediaRepo{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.SetField(ctx, session, common.FieldDirection, "short"))
	require.NoError(t, svc.SetField(ctx, session, common.FieldDirection, "long"))

	got, _, err := svc.Field(ctx, session, common.FieldDirection)
	require.NoError(t, err)
	assert.Equal(t, "long", got)
}

func TestShowAdditionalSMA(t *testing.T) {
	testCases := []struct {
		name    string
		sma20   string
		sma50   string
		visible bool
	}{
		{"both set", "Above", "Below", true},
		{"only sma20", "Above", "", false},
		{"only sma50", "", "Below", false},
		{"neither", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestDraftService(&fakeMediaRepo{})
			ctx := context.Background()

			session, err := svc.CreateSession(ctx)
			require.NoError(t, err)
			require.NoError(t, svc.SetField(ctx, session, common.FieldSMA20, tc.sma20))
			require.NoError(t, svc.SetField(ctx, session, common.FieldSMA50, tc.sma50))

			state, err := svc.State(ctx, session)
			require.NoError(t, err)
			assert.Equal(t, tc.visible, state.ShowAdditionalSMA)
		})
	}
}

func TestDraftQueryStringRoundTrip(t *testing.T) {
	svc := newTestDraftService(&fakeMediaRepo{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.SetField(ctx, session, common.FieldEntrySignal, "breakout & retest"))
	require.NoError(t, svc.SetField(ctx, session, common.FieldTimeframe, "1h"))
	require.NoError(t, svc.SetField(ctx, session, common.FieldEntryPrice, "100"))

	query, err := svc.QueryString(ctx, session)
	require.NoError(t, err)

	restored, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Restore(ctx, restored, query))

	originalFields, _, err := svc.Snapshot(ctx, session)
	require.NoError(t, err)
	restoredFields, _, err := svc.Snapshot(ctx, restored)
	require.NoError(t, err)
	assert.Equal(t, originalFields, restoredFields)
}

func TestRestoreReplacesExistingFields(t *testing.T) {
	svc := newTestDraftService(&fakeMediaRepo{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.SetField(ctx, session, common.FieldEntrySignal, "stale"))
	require.NoError(t, svc.SetField(ctx, session, common.FieldTrend, "downtrend"))

	require.NoError(t, svc.Restore(ctx, session, "timeframe=1h"))

	// Fields absent from the encoding are dropped, so the restored
	// draft equals the one the string was taken from.
	fields, _, err := svc.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{common.FieldTimeframe: "1h"}, fields)
}

func TestRestoreIgnoresReservedKeys(t *testing.T) {
	media := &fakeMediaRepo{url: "https://cdn.example.com/chart.png"}
	svc := newTestDraftService(media)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = svc.UploadImage(ctx, session, "chart.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	require.NoError(t, svc.Restore(ctx, session, "__image_url=evil&timeframe=1h"))

	query, err := svc.QueryString(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "timeframe=1h", query)

	state, err := svc.State(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, media.url, state.ImageURL)
}

func TestSetFieldRejectsReservedKey(t *testing.T) {
	svc := newTestDraftService(&fakeMediaRepo{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	err = svc.SetField(ctx, session, "__image_url", "evil")
	assert.ErrorIs(t, err, ErrReservedFieldKey)

	fields, _, err := svc.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestDraftImageNotPartOfQueryString(t *testing.T) {
	media := &fakeMediaRepo{url: "https://cdn.example.com/chart.png"}
	svc := newTestDraftService(media)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	url, err := svc.UploadImage(ctx, session, "chart.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, media.url, url)

	query, err := svc.QueryString(ctx, session)
	require.NoError(t, err)
	assert.NotContains(t, query, "chart.png")

	state, err := svc.State(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, media.url, state.ImageURL)
}

func TestDraftClear(t *testing.T) {
	media := &fakeMediaRepo{url: "https://cdn.example.com/chart.png"}
	svc := newTestDraftService(media)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.SetField(ctx, session, common.FieldTrend, "uptrend"))
	_, err = svc.UploadImage(ctx, session, "chart.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, session))

	fields, imageURL, err := svc.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, fields)
	assert.Empty(t, imageURL)
}

func TestUploadFailureLeavesPriorImage(t *testing.T) {
	media := &fakeMediaRepo{url: "https://cdn.example.com/first.png"}
	svc := newTestDraftService(media)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = svc.UploadImage(ctx, session, "first.png", strings.NewReader("a"))
	require.NoError(t, err)

	media.err = errors.New("media store unavailable")
	_, err = svc.UploadImage(ctx, session, "second.png", strings.NewReader("b"))
	require.Error(t, err)

	_, imageURL, err := svc.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/first.png", imageURL)
}

func TestConcurrentUploadRejected(t *testing.T) {
	media := &fakeMediaRepo{url: "https://cdn.example.com/chart.png", block: make(chan struct{})}
	svc := newTestDraftService(media)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.UploadImage(ctx, session, "chart.png", strings.NewReader("a"))
		done <- err
	}()

	// Wait for the first upload to be registered as in flight.
	require.Eventually(t, func() bool {
		return svc.Uploading(session)
	}, time.Second, 5*time.Millisecond)

	_, err = svc.UploadImage(ctx, session, "other.png", strings.NewReader("b"))
	assert.ErrorIs(t, err, ErrUploadInFlight)

	close(media.block)
	require.NoError(t, <-done)
	assert.False(t, svc.Uploading(session))
}
