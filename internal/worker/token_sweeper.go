package worker

import (
	"context"
	"log/slog"
	"time"
)

// TokenStore is the slice of the donation repository the sweeper needs.
type TokenStore interface {
	ClearExpiredTokens(ctx context.Context, limit int) (int64, error)
}

// TokenSweeper periodically clears expired update tokens so stale secrets do
// not linger on donation rows. Expired tokens already fail authorization;
// sweeping them is hygiene, not correctness.
type TokenSweeper struct {
	store     TokenStore
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewTokenSweeper(store TokenStore, interval time.Duration, batchSize int, logger *slog.Logger) *TokenSweeper {
	return &TokenSweeper{
		store:     store,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (s *TokenSweeper) Start(ctx context.Context) {
	s.logger.Info("token sweeper started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("token sweeper stopping")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *TokenSweeper) sweep(ctx context.Context) {
	// keep draining full batches so a backlog clears within one tick
	for {
		cleared, err := s.store.ClearExpiredTokens(ctx, s.batchSize)
		if err != nil {
			s.logger.Error("token sweep failed", "error", err)
			return
		}
		if cleared > 0 {
			s.logger.Info("cleared expired update tokens", "count", cleared)
		}
		if cleared < int64(s.batchSize) {
			return
		}
	}
}
