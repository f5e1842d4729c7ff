package command

import (
	"fmt"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-cityquest/internal/combat"
	"github.com/pixil98/go-cityquest/internal/game"
	"github.com/pixil98/go-cityquest/internal/gateway"
	"github.com/pixil98/go-cityquest/internal/messaging"
	"github.com/pixil98/go-cityquest/internal/session"
)

// BuildWorkers is the single construction path for the whole engine. Every
// component is built exactly once, in strict dependency order: store, cache,
// world, transports, resolver, messaging, engine, sweeper, gateway. Startup
// fails closed on any error.
func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	store, err := cfg.Storage.buildPlayerStore()
	if err != nil {
		return nil, fmt.Errorf("creating player store: %w", err)
	}

	players, err := cfg.Storage.buildPlayerCache(store)
	if err != nil {
		return nil, fmt.Errorf("creating player cache: %w", err)
	}

	world, err := cfg.World.buildWorldMap()
	if err != nil {
		return nil, fmt.Errorf("creating world map: %w", err)
	}

	transports := game.NewTransportCatalog()
	resolver := combat.NewResolver()

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	notifier := messaging.NewNotifier(natsServer)

	engine := session.NewEngine(players, world, transports, resolver, cfg.World.defaultLocation())
	api := session.WithActivityTouch(engine, players)

	sweep, err := cfg.Sweeper.buildSweeper(players, notifier)
	if err != nil {
		return nil, fmt.Errorf("creating sweeper: %w", err)
	}

	return service.WorkerList{
		"nats":    natsServer,
		"sweeper": sweep,
		"gateway": gateway.NewGateway(natsServer, api),
	}, nil
}
