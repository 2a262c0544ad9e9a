package jobs

import (
	"context"

	"go.uber.org/zap"
)

type StatusSweeper interface {
	SweepStatuses(ctx context.Context) (int, error)
}

// LifecycleSweep closes open events that are past their date or full.
type LifecycleSweep struct {
	events StatusSweeper
	logger *zap.Logger
}

func NewLifecycleSweep(events StatusSweeper, logger *zap.Logger) *LifecycleSweep {
	return &LifecycleSweep{events: events, logger: logger}
}

func (j *LifecycleSweep) Name() string { return "lifecycle_sweep" }

func (j *LifecycleSweep) Run(ctx context.Context) error {
	closed, err := j.events.SweepStatuses(ctx)
	if err != nil {
		return err
	}
	if closed > 0 {
		j.logger.Info("closed events", zap.Int("count", closed))
	}
	return nil
}

type TokenCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// TokenCleanup removes expired refresh tokens.
type TokenCleanup struct {
	tokens TokenCleaner
	logger *zap.Logger
}

func NewTokenCleanup(tokens TokenCleaner, logger *zap.Logger) *TokenCleanup {
	return &TokenCleanup{tokens: tokens, logger: logger}
}

func (j *TokenCleanup) Name() string { return "token_cleanup" }

func (j *TokenCleanup) Run(ctx context.Context) error {
	removed, err := j.tokens.CleanupExpired(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		j.logger.Info("removed expired refresh tokens", zap.Int64("count", removed))
	}
	return nil
}
