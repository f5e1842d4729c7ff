package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-cityquest/internal/player"
	"github.com/pixil98/go-cityquest/internal/storage"
)

type StorageConfig struct {
	DatabasePath string `json:"database_path"`
	StoreTimeout string `json:"store_timeout"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	if c.DatabasePath == "" {
		el.Add(fmt.Errorf("database_path is required"))
	}

	if c.StoreTimeout != "" {
		_, err := time.ParseDuration(c.StoreTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing store_timeout: %w", err))
		}
	}

	return el.Err()
}

func (c *StorageConfig) buildPlayerStore() (storage.PlayerStore, error) {
	store, err := storage.OpenSQLitePlayerStore(c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening player database: %w", err)
	}
	return store, nil
}

func (c *StorageConfig) buildPlayerCache(store storage.PlayerStore) (*player.Cache, error) {
	var opts []player.CacheOpt
	if c.StoreTimeout != "" {
		d, err := time.ParseDuration(c.StoreTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing store_timeout: %w", err)
		}
		opts = append(opts, player.WithStoreTimeout(d))
	}
	return player.NewCache(store, opts...), nil
}
