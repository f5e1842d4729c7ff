package command

import (
	"github.com/pixil98/go-errors"
)

type Config struct {
	Storage StorageConfig `json:"storage"`
	Nats    NatsConfig    `json:"nats"`
	World   WorldConfig   `json:"world"`
	Sweeper SweeperConfig `json:"sweeper"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.World.validate())
	el.Add(c.Sweeper.validate())

	return el.Err()
}
