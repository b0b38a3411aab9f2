package notice

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const sweepInterval = time.Hour

// NoticeSweeper periodically deactivates expired notices so visibility
// queries and the admin list agree without waiting for a read to notice.
type NoticeSweeper struct {
	repo   *NoticeRepository
	logger *zap.Logger
	done   chan struct{}
}

func NewNoticeSweeper(lc fx.Lifecycle, repo *NoticeRepository, logger *zap.Logger) *NoticeSweeper {
	sweeper := &NoticeSweeper{
		repo:   repo,
		logger: logger,
		done:   make(chan struct{}),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go sweeper.run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(sweeper.done)
			return nil
		},
	})
	return sweeper
}

func (s *NoticeSweeper) run() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *NoticeSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.repo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("notice sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		s.logger.Info("expired notices deactivated", zap.Int64("count", count))
	}
}
