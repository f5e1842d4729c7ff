package combat

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixil98/go-cityquest/internal/game"
)

// Encounter roll bounds.
const (
	minEnemyHP     = 20
	maxEnemyHP     = 50
	minEnemyDamage = 5
	maxEnemyDamage = 15

	damageSpread = 3

	criticalChance = 0.2
	fleeChance     = 0.7

	minReward = 10
	maxReward = 30
)

// Session is the ephemeral state of one encounter. It exists from Start
// until victory or flee; a failed flee still ends it.
type Session struct {
	ID        string
	Enemy     string
	HP        int
	MaxHP     int
	Damage    int // base enemy damage
	StartedAt time.Time
}

// AttackResult describes one resolved attack.
type AttackResult struct {
	Damage      int
	Critical    bool // cosmetic only, does not modify damage
	Defeated    bool
	RemainingHP int
	Reward      float64 // money, non-zero only on defeat
}

// FleeResult describes one flee attempt. The session is gone either way.
type FleeResult struct {
	Escaped bool
	Damage  int // damage taken, non-zero only on failure
}

// enemyTables maps location ids to the enemies roaming there.
var enemyTables = map[string][]string{
	"LS": {"Mugger", "Street Thug", "Stray Dog"},
	"SF": {"Pickpocket", "Drunk Sailor", "Dock Rat"},
	"LV": {"Card Shark", "Loan Shark", "Casino Bouncer"},
}

const fallbackEnemy = "Drifter"

// Resolver generates encounters and resolves combat actions. It holds at
// most one Session per player; all access to a player's session goes through
// the resolver lock, so no two calls ever race on the same session.
type Resolver struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewResolver() *Resolver {
	return &Resolver{
		sessions: map[int64]*Session{},
	}
}

// Start opens an encounter for the player at the given location. It fails
// with ErrCombatActive if one is already running.
func (r *Resolver) Start(playerID int64, locationID string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[playerID]; ok {
		return Session{}, fmt.Errorf("player %d: %w", playerID, game.ErrCombatActive)
	}

	enemies, ok := enemyTables[locationID]
	var enemy string
	if ok && len(enemies) > 0 {
		enemy = enemies[rand.IntN(len(enemies))]
	} else {
		enemy = fallbackEnemy
	}

	hp := rollRange(minEnemyHP, maxEnemyHP)
	s := &Session{
		ID:        uuid.New().String(),
		Enemy:     enemy,
		HP:        hp,
		MaxHP:     hp,
		Damage:    rollRange(minEnemyDamage, maxEnemyDamage),
		StartedAt: time.Now(),
	}
	r.sessions[playerID] = s
	return *s, nil
}

// Session returns a copy of the player's active session, or ErrNoCombat.
func (r *Resolver) Session(playerID int64) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[playerID]
	if !ok {
		return Session{}, fmt.Errorf("player %d: %w", playerID, game.ErrNoCombat)
	}
	return *s, nil
}

// Attack resolves one player attack. Damage is uniform in
// [playerDamage-3, playerDamage+3], clamped at zero. Defeating the enemy
// ends the session and rolls a money reward.
func (r *Resolver) Attack(playerID int64, playerDamage int) (AttackResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[playerID]
	if !ok {
		return AttackResult{}, fmt.Errorf("player %d: %w", playerID, game.ErrNoCombat)
	}

	damage := rollRange(playerDamage-damageSpread, playerDamage+damageSpread)
	if damage < 0 {
		damage = 0
	}

	s.HP -= damage
	if s.HP < 0 {
		s.HP = 0
	}

	res := AttackResult{
		Damage:      damage,
		Critical:    rand.Float64() < criticalChance,
		Defeated:    s.HP == 0,
		RemainingHP: s.HP,
	}
	if res.Defeated {
		res.Reward = float64(rollRange(minReward, maxReward))
		delete(r.sessions, playerID)
	}
	return res, nil
}

// Flee resolves one flee attempt. Escape succeeds 70% of the time; failure
// deals enemy damage to the player. Either way the session ends.
func (r *Resolver) Flee(playerID int64) (FleeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[playerID]; !ok {
		return FleeResult{}, fmt.Errorf("player %d: %w", playerID, game.ErrNoCombat)
	}
	delete(r.sessions, playerID)

	if rand.Float64() < fleeChance {
		return FleeResult{Escaped: true}, nil
	}
	return FleeResult{Damage: rollRange(minEnemyDamage, maxEnemyDamage)}, nil
}

// InCombat reports whether the player has an active session.
func (r *Resolver) InCombat(playerID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[playerID]
	return ok
}

// rollRange returns a uniform roll in [lo, hi].
func rollRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + rand.IntN(hi-lo+1)
}
