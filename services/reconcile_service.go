package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loneton_server/store"

	"go.uber.org/zap"
)

// ReconcileService periodically applies the transitions that are otherwise
// only applied when a user's state is read.
type ReconcileService struct {
	Repo     store.Repository
	Matches  *MatchService
	Interval time.Duration
	Logger   *zap.Logger
}

func NewReconcileService(repo store.Repository, matches *MatchService, interval time.Duration, logger *zap.Logger) *ReconcileService {
	return &ReconcileService{Repo: repo, Matches: matches, Interval: interval, Logger: logger}
}

// RunOnce reconciles every user and returns how many were processed. A
// failure for one user does not stop the others.
func (r *ReconcileService) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { reconcileDuration.Observe(time.Since(start).Seconds()) }()

	users, err := r.Repo.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	var errs []error
	processed := 0
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if err := r.Matches.Reconcile(ctx, user.ID); err != nil {
			r.Logger.Warn("reconcile failed for user", zap.String("userId", user.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("user %s: %w", user.ID, err))
			continue
		}
		processed++
	}
	return processed, errors.Join(errs...)
}

// Run reconciles immediately and then on every tick until ctx is cancelled.
func (r *ReconcileService) Run(ctx context.Context) {
	r.Logger.Info("🔄 reconciler started", zap.Duration("interval", r.Interval))

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		if n, err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.Logger.Error("❌ reconcile pass finished with errors", zap.Int("processed", n), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			r.Logger.Info("reconciler stopped")
			return
		case <-ticker.C:
		}
	}
}
