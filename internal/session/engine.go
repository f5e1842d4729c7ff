package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/pixil98/go-cityquest/internal/combat"
	"github.com/pixil98/go-cityquest/internal/game"
	"github.com/pixil98/go-cityquest/internal/player"
	"github.com/pixil98/go-cityquest/internal/storage"
)

// Player attack power per level.
const damagePerLevel = 5

// Refuel price per fuel unit.
const fuelPricePerUnit = 1.0

// Engine orchestrates every session operation over the player cache, world
// graph, transport catalog, and combat resolver. It is built once at startup
// and passed by reference to whatever serves inbound requests; there is no
// ambient global instance.
type Engine struct {
	players    *player.Cache
	world      *game.WorldMap
	transports *game.TransportCatalog
	combat     *combat.Resolver

	defaultLocation string
}

var _ API = (*Engine)(nil)

func NewEngine(players *player.Cache, world *game.WorldMap, transports *game.TransportCatalog, resolver *combat.Resolver, defaultLocation string) *Engine {
	return &Engine{
		players:         players,
		world:           world,
		transports:      transports,
		combat:          resolver,
		defaultLocation: defaultLocation,
	}
}

// Register creates a player at the default location. One-time per id and
// nickname.
func (e *Engine) Register(ctx context.Context, id int64, nickname string) (game.Player, error) {
	return e.players.Register(ctx, id, nickname, e.defaultLocation)
}

// Profile returns a snapshot of the player record.
func (e *Engine) Profile(ctx context.Context, id int64) (game.Player, error) {
	return e.players.Get(ctx, id)
}

// Resume clears the AFK flag for a player who went idle.
func (e *Engine) Resume(ctx context.Context, id int64) error {
	p, err := e.players.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.AFK {
		return fmt.Errorf("player %d: %w", id, game.ErrNotAFK)
	}
	return e.players.TouchActivity(ctx, id)
}

// Destinations lists the direct neighbors of the player's current location.
func (e *Engine) Destinations(ctx context.Context, id int64) ([]Destination, error) {
	p, err := e.players.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	locs := e.world.AvailableDestinations(p.Location)
	dests := make([]Destination, 0, len(locs))
	for _, loc := range locs {
		d, err := e.world.Distance(p.Location, loc.ID)
		if err != nil {
			return nil, err
		}
		dests = append(dests, Destination{Location: loc, DistanceKm: d})
	}
	return dests, nil
}

// Move travels the player along a direct edge to another location,
// consuming fuel when the active transport burns any. Location, sub-location
// and fuel change in one atomic update.
func (e *Engine) Move(ctx context.Context, id int64, toID string) (MoveResult, error) {
	to, err := e.world.GetLocation(toID)
	if err != nil {
		return MoveResult{}, err
	}

	var result MoveResult
	_, err = e.players.Update(ctx, id,
		[]storage.Field{storage.FieldLocation, storage.FieldSubLocation, storage.FieldFuel},
		func(p *game.Player) error {
			distance, err := e.world.Distance(p.Location, toID)
			if err != nil {
				return err
			}
			transport, err := e.transports.Get(p.Transport)
			if err != nil {
				return err
			}

			needed := transport.FuelNeeded(distance)
			if p.Fuel < needed {
				return fmt.Errorf("move needs %.1f fuel: %w", needed, game.ErrInsufficientFuel)
			}

			secs, err := e.world.TravelTime(p.Location, toID, transport.SpeedKmh)
			if err != nil {
				return err
			}

			p.Location = toID
			p.SubLocation = ""
			p.Fuel -= needed

			result = MoveResult{Location: to, TravelSecs: secs, FuelUsed: needed}
			return nil
		})
	if err != nil {
		return MoveResult{}, err
	}
	return result, nil
}

// EnterSubLocation places the player in a sub-location of their current
// location, enforcing its minimum level.
func (e *Engine) EnterSubLocation(ctx context.Context, id int64, subID string) error {
	_, err := e.players.Update(ctx, id,
		[]storage.Field{storage.FieldSubLocation},
		func(p *game.Player) error {
			loc, err := e.world.GetLocation(p.Location)
			if err != nil {
				return err
			}
			sub, ok := loc.Subs[subID]
			if !ok {
				return fmt.Errorf("sub-location %q: %w", subID, game.ErrSubLocationNotFound)
			}
			if p.Level < sub.MinLevel {
				return fmt.Errorf("%s requires level %d: %w", sub.Name, sub.MinLevel, game.ErrLevelTooLow)
			}
			p.SubLocation = subID
			return nil
		})
	return err
}

// Transports reports the player's owned vehicles, active selection, and fuel.
func (e *Engine) Transports(ctx context.Context, id int64) (TransportStatus, error) {
	p, err := e.players.Get(ctx, id)
	if err != nil {
		return TransportStatus{}, err
	}

	owned := make([]*game.Transport, 0, len(p.OwnedTransports))
	for name := range p.OwnedTransports {
		t, err := e.transports.Get(name)
		if err != nil {
			return TransportStatus{}, err
		}
		owned = append(owned, t)
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].Name < owned[j].Name })

	return TransportStatus{Current: p.Transport, Owned: owned, Fuel: p.Fuel}, nil
}

// SelectTransport makes an owned transport kind the active one.
func (e *Engine) SelectTransport(ctx context.Context, id int64, name string) error {
	t, err := e.transports.Get(name)
	if err != nil {
		return err
	}
	return e.players.SetTransport(ctx, id, t.Name)
}

// BuyTransport purchases a transport kind: the money debit and the
// owned-set addition happen in one atomic update, so a failed purchase
// changes neither.
func (e *Engine) BuyTransport(ctx context.Context, id int64, name string) (game.Player, error) {
	t, err := e.transports.Get(name)
	if err != nil {
		return game.Player{}, err
	}

	return e.players.Update(ctx, id,
		[]storage.Field{storage.FieldMoney, storage.FieldOwnedTransports},
		func(p *game.Player) error {
			if p.OwnedTransports[t.Name] {
				return fmt.Errorf("transport %q: %w", t.Name, game.ErrTransportOwned)
			}
			if p.Money < t.Price {
				return fmt.Errorf("transport %q costs %.0f: %w", t.Name, t.Price, game.ErrInsufficientFunds)
			}
			p.Money -= t.Price
			p.OwnedTransports[t.Name] = true
			return nil
		})
}

// Refuel buys fuel at a flat price per unit. The tank caps at MaxFuel.
func (e *Engine) Refuel(ctx context.Context, id int64, amount float64) (game.Player, error) {
	if amount <= 0 {
		return game.Player{}, fmt.Errorf("refuel amount must be positive")
	}

	cost := amount * fuelPricePerUnit
	return e.players.Update(ctx, id,
		[]storage.Field{storage.FieldMoney, storage.FieldFuel},
		func(p *game.Player) error {
			if p.Money < cost {
				return fmt.Errorf("refuel costs %.2f: %w", cost, game.ErrInsufficientFunds)
			}
			p.Money -= cost
			p.Fuel += amount
			if p.Fuel > game.MaxFuel {
				p.Fuel = game.MaxFuel
			}
			return nil
		})
}

// Shops lists the shops at the player's current sub-location.
func (e *Engine) Shops(ctx context.Context, id int64) ([]*game.Shop, error) {
	p, err := e.players.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sub, err := e.currentSub(&p)
	if err != nil {
		return nil, err
	}

	shops := make([]*game.Shop, 0, len(sub.Shops))
	for _, shop := range sub.Shops {
		shops = append(shops, shop)
	}
	sort.Slice(shops, func(i, j int) bool { return shops[i].ID < shops[j].ID })
	return shops, nil
}

// BuyItem purchases one unit of a shop item into the player's inventory.
// Debit and inventory increment are one atomic update.
func (e *Engine) BuyItem(ctx context.Context, id int64, shopID, itemID string) (game.Player, error) {
	return e.players.Update(ctx, id,
		[]storage.Field{storage.FieldMoney, storage.FieldInventory},
		func(p *game.Player) error {
			sub, err := e.currentSub(p)
			if err != nil {
				return err
			}
			shop, ok := sub.Shops[shopID]
			if !ok {
				return fmt.Errorf("shop %q: %w", shopID, game.ErrShopNotFound)
			}
			item, ok := shop.Items[itemID]
			if !ok {
				return fmt.Errorf("item %q: %w", itemID, game.ErrItemNotFound)
			}
			if p.Money < item.Price {
				return fmt.Errorf("%s costs %.0f: %w", item.Name, item.Price, game.ErrInsufficientFunds)
			}
			p.Money -= item.Price
			p.Inventory[item.ID]++
			return nil
		})
}

func (e *Engine) currentSub(p *game.Player) (*game.SubLocation, error) {
	loc, err := e.world.GetLocation(p.Location)
	if err != nil {
		return nil, err
	}
	if p.SubLocation == "" {
		return nil, fmt.Errorf("player %d is not in a sub-location: %w", p.ID, game.ErrSubLocationNotFound)
	}
	sub, ok := loc.Subs[p.SubLocation]
	if !ok {
		return nil, fmt.Errorf("sub-location %q: %w", p.SubLocation, game.ErrSubLocationNotFound)
	}
	return sub, nil
}

// StartCombat opens an encounter at the player's location.
func (e *Engine) StartCombat(ctx context.Context, id int64) (combat.Session, error) {
	p, err := e.players.Get(ctx, id)
	if err != nil {
		return combat.Session{}, err
	}
	return e.combat.Start(id, p.Location)
}

// Attack resolves one attack in the player's active encounter. Victory pays
// the rolled money reward and grants matching experience.
func (e *Engine) Attack(ctx context.Context, id int64) (AttackOutcome, error) {
	p, err := e.players.Get(ctx, id)
	if err != nil {
		return AttackOutcome{}, err
	}

	s, err := e.combat.Session(id)
	if err != nil {
		return AttackOutcome{}, err
	}

	res, err := e.combat.Attack(id, p.Level*damagePerLevel)
	if err != nil {
		return AttackOutcome{}, err
	}

	outcome := AttackOutcome{AttackResult: res, Enemy: s.Enemy}
	if res.Defeated {
		_, err = e.players.Update(ctx, id,
			[]storage.Field{storage.FieldMoney, storage.FieldExperience, storage.FieldLevel, storage.FieldHealth},
			func(p *game.Player) error {
				p.Money += res.Reward
				outcome.LevelsGained = game.ApplyExperience(p, int(res.Reward))
				return nil
			})
		if err != nil {
			return AttackOutcome{}, err
		}
	}
	return outcome, nil
}

// Flee attempts to escape the active encounter. A failed attempt deals
// damage; either way combat ends.
func (e *Engine) Flee(ctx context.Context, id int64) (FleeOutcome, error) {
	res, err := e.combat.Flee(id)
	if err != nil {
		return FleeOutcome{}, err
	}

	outcome := FleeOutcome{FleeResult: res}
	updated, err := e.players.Update(ctx, id,
		[]storage.Field{storage.FieldHealth},
		func(p *game.Player) error {
			p.Health -= res.Damage
			if p.Health < 0 {
				p.Health = 0
			}
			return nil
		})
	if err != nil {
		return FleeOutcome{}, err
	}
	outcome.Health = updated.Health
	return outcome, nil
}

// Explore rolls a random street event: found coins, nothing, a harmless
// merchant, or an ambush that opens combat.
func (e *Engine) Explore(ctx context.Context, id int64) (ExploreOutcome, error) {
	p, err := e.players.Get(ctx, id)
	if err != nil {
		return ExploreOutcome{}, err
	}

	switch rand.IntN(4) {
	case 0:
		const coins = 10
		if err := e.players.AdjustMoney(ctx, id, coins); err != nil {
			return ExploreOutcome{}, err
		}
		return ExploreOutcome{Event: ExploreCoins, Coins: coins}, nil
	case 1:
		return ExploreOutcome{Event: ExploreNothing}, nil
	case 2:
		return ExploreOutcome{Event: ExploreMerchant}, nil
	default:
		s, err := e.combat.Start(id, p.Location)
		if err != nil {
			return ExploreOutcome{}, err
		}
		return ExploreOutcome{Event: ExploreAmbush, Encounter: &s}, nil
	}
}
