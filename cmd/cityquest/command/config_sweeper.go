package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-cityquest/internal/player"
	"github.com/pixil98/go-cityquest/internal/sweeper"
)

type SweeperConfig struct {
	Interval     string `json:"interval"`
	AFKThreshold string `json:"afk_threshold"`
}

func (c *SweeperConfig) validate() error {
	el := errors.NewErrorList()

	if c.Interval != "" {
		d, err := time.ParseDuration(c.Interval)
		if err != nil {
			el.Add(fmt.Errorf("parsing interval: %w", err))
		} else if d < time.Minute {
			el.Add(fmt.Errorf("interval must be at least 1 minute"))
		}
	}

	if c.AFKThreshold != "" {
		_, err := time.ParseDuration(c.AFKThreshold)
		if err != nil {
			el.Add(fmt.Errorf("parsing afk_threshold: %w", err))
		}
	}

	return el.Err()
}

func (c *SweeperConfig) buildSweeper(players *player.Cache, notifier sweeper.Notifier) (*sweeper.Sweeper, error) {
	var opts []sweeper.SweeperOpt
	if c.Interval != "" {
		d, err := time.ParseDuration(c.Interval)
		if err != nil {
			return nil, fmt.Errorf("parsing interval: %w", err)
		}
		opts = append(opts, sweeper.WithInterval(d))
	}
	if c.AFKThreshold != "" {
		d, err := time.ParseDuration(c.AFKThreshold)
		if err != nil {
			return nil, fmt.Errorf("parsing afk_threshold: %w", err)
		}
		opts = append(opts, sweeper.WithAFKThreshold(d))
	}

	return sweeper.NewSweeper(players, notifier, opts...), nil
}
