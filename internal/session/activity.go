package session

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-cityquest/internal/combat"
	"github.com/pixil98/go-cityquest/internal/game"
	"github.com/pixil98/go-cityquest/internal/player"
)

// activityTouched wraps an API so that every inbound operation records
// player activity before running. The touch is best-effort: a failure is
// logged and the operation proceeds, so a broken activity update never
// blocks gameplay.
//
// Register is exempt (the player does not exist yet) and Resume is exempt
// (it manages the AFK flag itself).
type activityTouched struct {
	next    API
	players *player.Cache
}

// WithActivityTouch returns an API whose operations touch player activity
// first. This is the explicit middleware form of the cross-cutting
// "update activity" concern; nothing else in the engine touches activity.
func WithActivityTouch(next API, players *player.Cache) API {
	return &activityTouched{next: next, players: players}
}

var _ API = (*activityTouched)(nil)

func (a *activityTouched) touch(ctx context.Context, id int64) {
	if err := a.players.TouchActivity(ctx, id); err != nil {
		slog.WarnContext(ctx, "touching player activity", "player", id, "error", err)
	}
}

func (a *activityTouched) Register(ctx context.Context, id int64, nickname string) (game.Player, error) {
	return a.next.Register(ctx, id, nickname)
}

func (a *activityTouched) Resume(ctx context.Context, id int64) error {
	return a.next.Resume(ctx, id)
}

func (a *activityTouched) Profile(ctx context.Context, id int64) (game.Player, error) {
	a.touch(ctx, id)
	return a.next.Profile(ctx, id)
}

func (a *activityTouched) Destinations(ctx context.Context, id int64) ([]Destination, error) {
	a.touch(ctx, id)
	return a.next.Destinations(ctx, id)
}

func (a *activityTouched) Move(ctx context.Context, id int64, toID string) (MoveResult, error) {
	a.touch(ctx, id)
	return a.next.Move(ctx, id, toID)
}

func (a *activityTouched) EnterSubLocation(ctx context.Context, id int64, subID string) error {
	a.touch(ctx, id)
	return a.next.EnterSubLocation(ctx, id, subID)
}

func (a *activityTouched) Transports(ctx context.Context, id int64) (TransportStatus, error) {
	a.touch(ctx, id)
	return a.next.Transports(ctx, id)
}

func (a *activityTouched) SelectTransport(ctx context.Context, id int64, name string) error {
	a.touch(ctx, id)
	return a.next.SelectTransport(ctx, id, name)
}

func (a *activityTouched) BuyTransport(ctx context.Context, id int64, name string) (game.Player, error) {
	a.touch(ctx, id)
	return a.next.BuyTransport(ctx, id, name)
}

func (a *activityTouched) Refuel(ctx context.Context, id int64, amount float64) (game.Player, error) {
	a.touch(ctx, id)
	return a.next.Refuel(ctx, id, amount)
}

func (a *activityTouched) Shops(ctx context.Context, id int64) ([]*game.Shop, error) {
	a.touch(ctx, id)
	return a.next.Shops(ctx, id)
}

func (a *activityTouched) BuyItem(ctx context.Context, id int64, shopID, itemID string) (game.Player, error) {
	a.touch(ctx, id)
	return a.next.BuyItem(ctx, id, shopID, itemID)
}

func (a *activityTouched) StartCombat(ctx context.Context, id int64) (combat.Session, error) {
	a.touch(ctx, id)
	return a.next.StartCombat(ctx, id)
}

func (a *activityTouched) Attack(ctx context.Context, id int64) (AttackOutcome, error) {
	a.touch(ctx, id)
	return a.next.Attack(ctx, id)
}

func (a *activityTouched) Flee(ctx context.Context, id int64) (FleeOutcome, error) {
	a.touch(ctx, id)
	return a.next.Flee(ctx, id)
}

func (a *activityTouched) Explore(ctx context.Context, id int64) (ExploreOutcome, error) {
	a.touch(ctx, id)
	return a.next.Explore(ctx, id)
}
