package session

import (
	"context"

	"github.com/pixil98/go-cityquest/internal/combat"
	"github.com/pixil98/go-cityquest/internal/game"
)

// Destination is one reachable neighbor of the player's current location.
type Destination struct {
	Location   *game.Location
	DistanceKm float64
}

// MoveResult reports a completed move.
type MoveResult struct {
	Location   *game.Location
	TravelSecs float64
	FuelUsed   float64
}

// TransportStatus lists the player's vehicles and fuel level.
type TransportStatus struct {
	Current string
	Owned   []*game.Transport
	Fuel    float64
}

// AttackOutcome is an attack result plus its gameplay consequences.
type AttackOutcome struct {
	combat.AttackResult
	Enemy        string
	LevelsGained int
}

// FleeOutcome is a flee result plus the player's remaining health.
type FleeOutcome struct {
	combat.FleeResult
	Health int
}

// ExploreEvent tags the random outcome of an explore action.
type ExploreEvent string

const (
	ExploreCoins    ExploreEvent = "coins"
	ExploreNothing  ExploreEvent = "nothing"
	ExploreMerchant ExploreEvent = "merchant"
	ExploreAmbush   ExploreEvent = "ambush"
)

// ExploreOutcome reports one explore roll. Encounter is set only for an
// ambush.
type ExploreOutcome struct {
	Event     ExploreEvent
	Coins     float64
	Encounter *combat.Session
}

// API is the full set of session operations the chat adapter can invoke.
// Every operation returns structured errors classified by game.KindOf; the
// adapter owns all user-facing text.
type API interface {
	Register(ctx context.Context, id int64, nickname string) (game.Player, error)
	Profile(ctx context.Context, id int64) (game.Player, error)
	Resume(ctx context.Context, id int64) error

	Destinations(ctx context.Context, id int64) ([]Destination, error)
	Move(ctx context.Context, id int64, toID string) (MoveResult, error)
	EnterSubLocation(ctx context.Context, id int64, subID string) error

	Transports(ctx context.Context, id int64) (TransportStatus, error)
	SelectTransport(ctx context.Context, id int64, name string) error
	BuyTransport(ctx context.Context, id int64, name string) (game.Player, error)
	Refuel(ctx context.Context, id int64, amount float64) (game.Player, error)

	Shops(ctx context.Context, id int64) ([]*game.Shop, error)
	BuyItem(ctx context.Context, id int64, shopID, itemID string) (game.Player, error)

	StartCombat(ctx context.Context, id int64) (combat.Session, error)
	Attack(ctx context.Context, id int64) (AttackOutcome, error)
	Flee(ctx context.Context, id int64) (FleeOutcome, error)
	Explore(ctx context.Context, id int64) (ExploreOutcome, error)
}
