package game

import (
	"regexp"
	"time"
)

const (
	MaxHealth = 100
	MaxFuel   = 100.0

	// DefaultTransport is always in the owned set and can never be removed.
	DefaultTransport = "foot"
)

var nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{2,20}$`)

// ValidateNickname checks the registration nickname rule: 2-20 characters,
// alphanumeric only. Uniqueness is enforced by the player store.
func ValidateNickname(nickname string) error {
	if !nicknamePattern.MatchString(nickname) {
		return ErrInvalidNickname
	}
	return nil
}

// Player is the mutable state for a single registered player. The player
// cache owns all mutation; everything else sees value copies.
type Player struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`

	Level      int     `json:"level"`
	Health     int     `json:"health"`
	Money      float64 `json:"money"`
	Experience int     `json:"experience"`

	Location    string `json:"location"`
	SubLocation string `json:"sub_location,omitempty"`

	Transport       string          `json:"transport"`
	OwnedTransports map[string]bool `json:"owned_transports"`
	Fuel            float64         `json:"fuel"`

	Inventory map[string]int `json:"inventory"`

	LastActive time.Time `json:"last_active"`
	AFK        bool      `json:"afk"`
}

// NewPlayer returns a freshly registered player with the starting loadout.
func NewPlayer(id int64, nickname, location string) *Player {
	return &Player{
		ID:              id,
		Nickname:        nickname,
		Level:           1,
		Health:          MaxHealth,
		Money:           1000.0,
		Location:        location,
		Transport:       DefaultTransport,
		OwnedTransports: map[string]bool{DefaultTransport: true, "bike": true},
		Fuel:            MaxFuel,
		Inventory:       map[string]int{},
		LastActive:      time.Now(),
	}
}

// Clone returns a deep copy. Mutations are applied to clones and swapped in
// only after the write-through persist succeeds.
func (p *Player) Clone() *Player {
	c := *p
	c.OwnedTransports = make(map[string]bool, len(p.OwnedTransports))
	for k, v := range p.OwnedTransports {
		c.OwnedTransports[k] = v
	}
	c.Inventory = make(map[string]int, len(p.Inventory))
	for k, v := range p.Inventory {
		c.Inventory[k] = v
	}
	return &c
}

func (p *Player) Validate() error {
	if err := ValidateNickname(p.Nickname); err != nil {
		return err
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.OwnedTransports == nil {
		p.OwnedTransports = map[string]bool{}
	}
	// The owned set always contains the default and the active transport.
	p.OwnedTransports[DefaultTransport] = true
	if p.Transport == "" {
		p.Transport = DefaultTransport
	}
	p.OwnedTransports[p.Transport] = true
	if p.Inventory == nil {
		p.Inventory = map[string]int{}
	}
	if p.Health < 0 {
		p.Health = 0
	}
	if p.Health > MaxHealth {
		p.Health = MaxHealth
	}
	if p.Money < 0 {
		p.Money = 0
	}
	if p.Fuel < 0 {
		p.Fuel = 0
	}
	if p.Fuel > MaxFuel {
		p.Fuel = MaxFuel
	}
	if p.Experience < 0 {
		p.Experience = 0
	}
	return nil
}
