package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pixil98/go-cityquest/internal/game"
	"github.com/pixil98/go-cityquest/internal/storage"
)

const DefaultStoreTimeout = 5 * time.Second

// Cache is the in-process authority for player records. Reads are
// read-through: a miss loads from the store, a hit never re-reads storage.
// Writes are write-through: the store is updated in the same call and the
// in-memory record only changes after the store accepts the write, so a
// failed mutation leaves memory at its pre-mutation value.
//
// Mutations on the same player serialize on a per-player mutex; different
// players never contend beyond the map lock, which is never held across
// store IO.
type Cache struct {
	mu      sync.RWMutex
	entries map[int64]*entry

	store   storage.PlayerStore
	timeout time.Duration
}

type entry struct {
	mu sync.Mutex
	p  *game.Player
}

func NewCache(store storage.PlayerStore, opts ...CacheOpt) *Cache {
	c := &Cache{
		entries: map[int64]*entry{},
		store:   store,
		timeout: DefaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type CacheOpt func(*Cache)

// WithStoreTimeout bounds every persistence call made by the cache.
func WithStoreTimeout(d time.Duration) CacheOpt {
	return func(c *Cache) {
		c.timeout = d
	}
}

func (c *Cache) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// wrapStoreErr folds timeouts and raw driver errors into the persistence
// failure kind, keeping already-classified errors intact.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if game.KindOf(err) != game.KindInternal {
		return err
	}
	return fmt.Errorf("%w: %v", game.ErrPersistence, err)
}

// Get returns a snapshot of the player record, loading it from the store on
// first access.
func (c *Cache) Get(ctx context.Context, id int64) (game.Player, error) {
	e, err := c.entry(ctx, id)
	if err != nil {
		return game.Player{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.p.Clone(), nil
}

// entry returns the cache entry for a player, populating it from the store
// on a miss.
func (c *Cache) entry(ctx context.Context, id int64) (*entry, error) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if ok {
		return e, nil
	}

	sctx, cancel := c.storeCtx(ctx)
	p, err := c.store.Read(sctx, id)
	cancel()
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another request may have populated the entry while we were reading;
	// the cached record stays authoritative.
	if e, ok := c.entries[id]; ok {
		return e, nil
	}
	e = &entry{p: p}
	c.entries[id] = e
	return e, nil
}

// Register creates a new player record. It is one-time: a duplicate id or a
// taken nickname fails with a conflict.
func (c *Cache) Register(ctx context.Context, id int64, nickname, location string) (game.Player, error) {
	if err := game.ValidateNickname(nickname); err != nil {
		return game.Player{}, err
	}

	p := game.NewPlayer(id, nickname, location)

	sctx, cancel := c.storeCtx(ctx)
	err := c.store.Create(sctx, p)
	cancel()
	if err != nil {
		return game.Player{}, wrapStoreErr(err)
	}

	c.mu.Lock()
	c.entries[id] = &entry{p: p}
	c.mu.Unlock()

	return *p.Clone(), nil
}

// Update is the primitive every mutation builds on. It locks the player's
// entry, applies fn to a clone, persists the masked fields, and swaps the
// clone in only when the store accepted the write. fn returning an error
// aborts with no change anywhere.
func (c *Cache) Update(ctx context.Context, id int64, fields []storage.Field, fn func(*game.Player) error) (game.Player, error) {
	e, err := c.entry(ctx, id)
	if err != nil {
		return game.Player{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.p.Clone()
	if err := fn(next); err != nil {
		return game.Player{}, err
	}

	sctx, cancel := c.storeCtx(ctx)
	err = c.store.Update(sctx, next, fields...)
	cancel()
	if err != nil {
		return game.Player{}, wrapStoreErr(err)
	}

	e.p = next
	return *next.Clone(), nil
}

// SetLocation moves the player to a location, clearing any sub-location.
func (c *Cache) SetLocation(ctx context.Context, id int64, location string) error {
	_, err := c.Update(ctx, id, []storage.Field{storage.FieldLocation, storage.FieldSubLocation}, func(p *game.Player) error {
		p.Location = location
		p.SubLocation = ""
		return nil
	})
	return err
}

// SetSubLocation places the player inside a sub-location of their current
// location.
func (c *Cache) SetSubLocation(ctx context.Context, id int64, subID string) error {
	_, err := c.Update(ctx, id, []storage.Field{storage.FieldSubLocation}, func(p *game.Player) error {
		p.SubLocation = subID
		return nil
	})
	return err
}

// AdjustMoney credits or debits the player's balance. A debit past zero
// fails with ErrInsufficientFunds and changes nothing.
func (c *Cache) AdjustMoney(ctx context.Context, id int64, delta float64) error {
	_, err := c.Update(ctx, id, []storage.Field{storage.FieldMoney}, func(p *game.Player) error {
		if p.Money+delta < 0 {
			return game.ErrInsufficientFunds
		}
		p.Money += delta
		return nil
	})
	return err
}

// SetHealth sets health, clamped to [0, MaxHealth].
func (c *Cache) SetHealth(ctx context.Context, id int64, health int) error {
	_, err := c.Update(ctx, id, []storage.Field{storage.FieldHealth}, func(p *game.Player) error {
		if health < 0 {
			health = 0
		}
		if health > game.MaxHealth {
			health = game.MaxHealth
		}
		p.Health = health
		return nil
	})
	return err
}

// SetTransport selects the active transport; it must already be owned.
func (c *Cache) SetTransport(ctx context.Context, id int64, name string) error {
	_, err := c.Update(ctx, id, []storage.Field{storage.FieldTransport}, func(p *game.Player) error {
		if !p.OwnedTransports[name] {
			return fmt.Errorf("transport %q: %w", name, game.ErrTransportNotOwned)
		}
		p.Transport = name
		return nil
	})
	return err
}

// AddOwnedTransport adds a transport kind to the owned set.
func (c *Cache) AddOwnedTransport(ctx context.Context, id int64, name string) error {
	_, err := c.Update(ctx, id, []storage.Field{storage.FieldOwnedTransports}, func(p *game.Player) error {
		if p.OwnedTransports[name] {
			return fmt.Errorf("transport %q: %w", name, game.ErrTransportOwned)
		}
		p.OwnedTransports[name] = true
		return nil
	})
	return err
}

// AddInventoryItem increments the count of an inventory item.
func (c *Cache) AddInventoryItem(ctx context.Context, id int64, itemID string) error {
	_, err := c.Update(ctx, id, []storage.Field{storage.FieldInventory}, func(p *game.Player) error {
		p.Inventory[itemID]++
		return nil
	})
	return err
}

// AddExperience grants XP, applying level-ups as thresholds are crossed.
func (c *Cache) AddExperience(ctx context.Context, id int64, amount int) (levelsGained int, err error) {
	_, err = c.Update(ctx, id, []storage.Field{storage.FieldExperience, storage.FieldLevel, storage.FieldHealth}, func(p *game.Player) error {
		levelsGained = game.ApplyExperience(p, amount)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return levelsGained, nil
}

// ConsumeFuel burns fuel for a move. A burn past empty fails with
// ErrInsufficientFuel and changes nothing.
func (c *Cache) ConsumeFuel(ctx context.Context, id int64, amount float64) error {
	if amount < 0 {
		amount = 0
	}
	_, err := c.Update(ctx, id, []storage.Field{storage.FieldFuel}, func(p *game.Player) error {
		if p.Fuel-amount < 0 {
			return game.ErrInsufficientFuel
		}
		p.Fuel -= amount
		return nil
	})
	return err
}

// AddFuel adds fuel, capped at MaxFuel. A negative amount is treated as
// zero, never as a hidden burn.
func (c *Cache) AddFuel(ctx context.Context, id int64, amount float64) error {
	if amount < 0 {
		amount = 0
	}
	_, err := c.Update(ctx, id, []storage.Field{storage.FieldFuel}, func(p *game.Player) error {
		p.Fuel += amount
		if p.Fuel > game.MaxFuel {
			p.Fuel = game.MaxFuel
		}
		return nil
	})
	return err
}

// SetAFK sets or clears the AFK flag.
func (c *Cache) SetAFK(ctx context.Context, id int64, afk bool) error {
	_, err := c.Update(ctx, id, []storage.Field{storage.FieldAFK}, func(p *game.Player) error {
		p.AFK = afk
		return nil
	})
	return err
}

// TouchActivity records activity now and clears the AFK flag.
func (c *Cache) TouchActivity(ctx context.Context, id int64) error {
	_, err := c.Update(ctx, id, []storage.Field{storage.FieldLastActive, storage.FieldAFK}, func(p *game.Player) error {
		p.LastActive = time.Now()
		p.AFK = false
		return nil
	})
	return err
}

// All returns a point-in-time snapshot of every known player. Cached records
// are authoritative over their stored rows. The snapshot holds no locks, so
// the sweeper can iterate it without starving interactive requests.
func (c *Cache) All(ctx context.Context) ([]game.Player, error) {
	sctx, cancel := c.storeCtx(ctx)
	stored, err := c.store.ListAll(sctx)
	cancel()
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	players := make([]game.Player, 0, len(stored))
	for _, p := range stored {
		c.mu.RLock()
		e, ok := c.entries[p.ID]
		c.mu.RUnlock()
		if ok {
			e.mu.Lock()
			players = append(players, *e.p.Clone())
			e.mu.Unlock()
			continue
		}
		players = append(players, *p)
	}
	return players, nil
}

// Exists reports whether the player is registered, without populating the
// cache.
func (c *Cache) Exists(ctx context.Context, id int64) (bool, error) {
	c.mu.RLock()
	_, ok := c.entries[id]
	c.mu.RUnlock()
	if ok {
		return true, nil
	}

	sctx, cancel := c.storeCtx(ctx)
	defer cancel()
	exists, err := c.store.Exists(sctx, id)
	if err != nil {
		return false, wrapStoreErr(err)
	}
	return exists, nil
}
