package storage

import (
	"context"

	"github.com/pixil98/go-cityquest/internal/game"
)

// Field names a persistable player column for masked write-through updates.
type Field string

const (
	FieldNickname        Field = "nickname"
	FieldLevel           Field = "level"
	FieldHealth          Field = "health"
	FieldMoney           Field = "money"
	FieldLocation        Field = "location"
	FieldSubLocation     Field = "sub_location"
	FieldTransport       Field = "transport"
	FieldOwnedTransports Field = "owned_transports"
	FieldFuel            Field = "fuel"
	FieldInventory       Field = "inventory"
	FieldExperience      Field = "experience"
	FieldAFK             Field = "is_afk"
	FieldLastActive      Field = "last_active"
)

// AllFields lists every mutable column, used when a whole record changes.
var AllFields = []Field{
	FieldNickname, FieldLevel, FieldHealth, FieldMoney, FieldLocation,
	FieldSubLocation, FieldTransport, FieldOwnedTransports, FieldFuel,
	FieldInventory, FieldExperience, FieldAFK, FieldLastActive,
}

// PlayerStore is the durable record store behind the player cache. The cache
// is the only caller; nothing else reads or writes player rows.
type PlayerStore interface {
	// Exists reports whether a player row exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// Create inserts a fresh player row. It fails with game.ErrNicknameTaken
	// when the nickname (or id) is already registered.
	Create(ctx context.Context, p *game.Player) error

	// Read loads one player row, game.ErrPlayerNotFound when absent.
	Read(ctx context.Context, id int64) (*game.Player, error)

	// Update persists the named fields of the given player record.
	Update(ctx context.Context, p *game.Player, fields ...Field) error

	// ListAll returns every player row.
	ListAll(ctx context.Context) ([]*game.Player, error)

	Close() error
}
