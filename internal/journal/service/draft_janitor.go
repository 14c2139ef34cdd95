package service

import (
	"context"
	"time"

	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// DraftJanitor periodically sweeps draft sessions that have been idle
// longer than the configured retention. A bookmarked query string can
// always be restored into a fresh session, so sweeping loses nothing
// the user cannot recreate.
type DraftJanitor struct {
	draftRepo repository.DraftRepository
	logger    *logger.Logger
	retention time.Duration
	cron      *cron.Cron
	spec      string
}

// NewDraftJanitor creates a janitor that runs Sweep on the given cron
// spec.
func NewDraftJanitor(draftRepo repository.DraftRepository, log *logger.Logger, spec string, retention time.Duration) *DraftJanitor {
	return &DraftJanitor{
		draftRepo: draftRepo,
		logger:    log,
		retention: retention,
		cron:      cron.New(),
		spec:      spec,
	}
}

// Start begins the periodic sweep.
func (j *DraftJanitor) Start(ctx context.Context) error {
	_, err := j.cron.AddFunc(j.spec, func() {
		if err := j.Sweep(ctx); err != nil {
			j.logger.Error("Draft sweep failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Draft janitor started", logger.Field("spec", j.spec), logger.Field("retention", j.retention.String()))
	return nil
}

// Stop halts the sweep schedule.
func (j *DraftJanitor) Stop() {
	j.cron.Stop()
}

// Sweep clears every draft whose last activity is older than the
// retention window.
func (j *DraftJanitor) Sweep(ctx context.Context) error {
	sessions, err := j.draftRepo.Sessions(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-j.retention)
	for _, session := range sessions {
		touched, err := j.draftRepo.LastTouched(ctx, session)
		if err != nil {
			j.logger.Error("Failed to read draft age", logger.ErrorField(err), logger.Field("session", session))
			continue
		}
		if touched.Before(cutoff) {
			if err := j.draftRepo.Clear(ctx, session); err != nil {
				j.logger.Error("Failed to clear stale draft", logger.ErrorField(err), logger.Field("session", session))
				continue
			}
			j.logger.Info("Stale draft cleared", logger.Field("session", session))
		}
	}
	return nil
}
