package sweeper

import (
	"context"
	"time"

	"github.com/pixil98/go-log"

	"github.com/pixil98/go-cityquest/internal/game"
	"github.com/pixil98/go-cityquest/internal/player"
)

const (
	DefaultInterval     = time.Hour
	DefaultAFKThreshold = 24 * time.Hour

	// Idle income per level per sweep.
	incomePerLevel = 10
)

// Notifier delivers out-of-band messages to players. Delivery failures are
// never fatal to a sweep.
type Notifier interface {
	NotifyAFK(id int64) error
	NotifyIncome(id int64, amount float64) error
}

// Stats are the aggregate counts of one sweep.
type Stats struct {
	Processed int
	MarkedAFK int
	Rewarded  int
	Failed    int
}

// Sweeper periodically walks all players, flagging the long-idle as AFK and
// paying idle income to the rest. It iterates a point-in-time snapshot and
// locks only one player record at a time, so interactive requests never
// stall behind a sweep.
type Sweeper struct {
	players  *player.Cache
	notifier Notifier

	interval     time.Duration
	afkThreshold time.Duration
}

func NewSweeper(players *player.Cache, notifier Notifier, opts ...SweeperOpt) *Sweeper {
	s := &Sweeper{
		players:      players,
		notifier:     notifier,
		interval:     DefaultInterval,
		afkThreshold: DefaultAFKThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SweeperOpt func(*Sweeper)

func WithInterval(d time.Duration) SweeperOpt {
	return func(s *Sweeper) {
		s.interval = d
	}
}

func WithAFKThreshold(d time.Duration) SweeperOpt {
	return func(s *Sweeper) {
		s.afkThreshold = d
	}
}

// Start runs sweeps on the configured interval until the context is
// canceled. An in-flight sweep finishes its current player and then exits
// between players, never mid-update.
func (s *Sweeper) Start(ctx context.Context) error {
	logger := log.GetLogger(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stats, err := s.Sweep(ctx)
			if err != nil {
				logger.WithError(err).Error("activity sweep")
				continue
			}
			logger.Infof("activity sweep: processed=%d afk=%d rewarded=%d failed=%d",
				stats.Processed, stats.MarkedAFK, stats.Rewarded, stats.Failed)
		}
	}
}

// Sweep runs one pass over every player. Per-player failures are logged and
// counted but never abort the pass.
func (s *Sweeper) Sweep(ctx context.Context) (Stats, error) {
	logger := log.GetLogger(ctx)

	players, err := s.players.All(ctx)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	now := time.Now()
	for _, p := range players {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		stats.Processed++
		idle := now.Sub(p.LastActive)

		if idle >= s.afkThreshold {
			if p.AFK {
				continue
			}
			if err := s.markAFK(ctx, p); err != nil {
				logger.WithError(err).Errorf("sweeping player %d", p.ID)
				stats.Failed++
				continue
			}
			stats.MarkedAFK++
			continue
		}

		if p.AFK {
			continue
		}
		if err := s.grantIncome(ctx, p); err != nil {
			logger.WithError(err).Errorf("sweeping player %d", p.ID)
			stats.Failed++
			continue
		}
		stats.Rewarded++
	}

	return stats, nil
}

func (s *Sweeper) markAFK(ctx context.Context, p game.Player) error {
	if err := s.players.SetAFK(ctx, p.ID, true); err != nil {
		return err
	}
	if err := s.notifier.NotifyAFK(p.ID); err != nil {
		log.GetLogger(ctx).WithError(err).Warnf("notifying player %d of afk", p.ID)
	}
	return nil
}

func (s *Sweeper) grantIncome(ctx context.Context, p game.Player) error {
	income := float64(p.Level * incomePerLevel)
	if err := s.players.AdjustMoney(ctx, p.ID, income); err != nil {
		return err
	}
	if err := s.notifier.NotifyIncome(p.ID, income); err != nil {
		log.GetLogger(ctx).WithError(err).Warnf("notifying player %d of income", p.ID)
	}
	return nil
}
