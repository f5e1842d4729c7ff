package combat

import (
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-cityquest/internal/game"
)

func TestResolver_Start(t *testing.T) {
	r := NewResolver()

	s, err := r.Start(1, "LS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.HP < 20 || s.HP > 50 {
		t.Errorf("enemy hp %d out of [20, 50]", s.HP)
	}
	if s.Damage < 5 || s.Damage > 15 {
		t.Errorf("enemy damage %d out of [5, 15]", s.Damage)
	}
	testutil.AssertEqual(t, "max hp", s.MaxHP, s.HP)
	if s.Enemy == "" || s.ID == "" {
		t.Error("expected enemy and id to be set")
	}
	testutil.AssertEqual(t, "in combat", r.InCombat(1), true)

	// A second start for the same player is rejected.
	_, err = r.Start(1, "LS")
	if !errors.Is(err, game.ErrCombatActive) {
		t.Errorf("error = %v, expected ErrCombatActive", err)
	}

	// Other players are unaffected.
	if _, err := r.Start(2, "SF"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolver_StartUnknownLocationFallsBack(t *testing.T) {
	r := NewResolver()

	s, err := r.Start(1, "nowhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "enemy", s.Enemy, "Drifter")
}

func TestResolver_AttackDamageSpread(t *testing.T) {
	// A level-2 player hits for 10±3, never less than 7 and never more
	// than 13 at that damage base.
	for i := 0; i < 200; i++ {
		r := NewResolver()
		if _, err := r.Start(1, "LS"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		res, err := r.Attack(1, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Damage < 7 || res.Damage > 13 {
			t.Fatalf("damage %d out of [7, 13]", res.Damage)
		}
	}
}

func TestResolver_AttackClampsAtZero(t *testing.T) {
	// With a damage base of zero the spread dips negative; the roll is
	// clamped so the enemy never heals.
	for i := 0; i < 100; i++ {
		r := NewResolver()
		s, err := r.Start(1, "LS")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		res, err := r.Attack(1, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Damage < 0 {
			t.Fatalf("negative damage %d", res.Damage)
		}
		if res.RemainingHP > s.HP {
			t.Fatalf("enemy hp grew from %d to %d", s.HP, res.RemainingHP)
		}
	}
}

func TestResolver_AttackDefeat(t *testing.T) {
	r := NewResolver()
	if _, err := r.Start(1, "LS"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 60±3 always overwhelms the 20-50 hp roll in one swing.
	res, err := r.Attack(1, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "defeated", res.Defeated, true)
	testutil.AssertEqual(t, "remaining hp", res.RemainingHP, 0)
	if res.Reward < 10 || res.Reward > 30 {
		t.Errorf("reward %f out of [10, 30]", res.Reward)
	}

	// Victory ends the session.
	testutil.AssertEqual(t, "in combat", r.InCombat(1), false)
	_, err = r.Attack(1, 60)
	if !errors.Is(err, game.ErrNoCombat) {
		t.Errorf("error = %v, expected ErrNoCombat", err)
	}
}

func TestResolver_AttackAlwaysDefeatsWeakerEnemy(t *testing.T) {
	// A base damage of 10 rolls at least 7; an enemy on 5 hp never survives.
	for i := 0; i < 200; i++ {
		r := NewResolver()
		r.sessions[1] = &Session{ID: "fixed", Enemy: "Mugger", HP: 5, MaxHP: 5, Damage: 5}

		res, err := r.Attack(1, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Defeated {
			t.Fatalf("enemy on 5 hp survived a hit for %d", res.Damage)
		}
	}
}

func TestResolver_AttackWithoutSession(t *testing.T) {
	r := NewResolver()
	_, err := r.Attack(1, 10)
	if !errors.Is(err, game.ErrNoCombat) {
		t.Errorf("error = %v, expected ErrNoCombat", err)
	}
}

func TestResolver_FleeAlwaysEndsSession(t *testing.T) {
	// Run enough attempts to see both outcomes; the session must be gone
	// after every one of them.
	sawEscape, sawFailure := false, false
	for i := 0; i < 200; i++ {
		r := NewResolver()
		if _, err := r.Start(1, "LS"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		res, err := r.Flee(1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Escaped {
			sawEscape = true
			testutil.AssertEqual(t, "damage on escape", res.Damage, 0)
		} else {
			sawFailure = true
			if res.Damage < 5 || res.Damage > 15 {
				t.Fatalf("flee damage %d out of [5, 15]", res.Damage)
			}
		}
		testutil.AssertEqual(t, "in combat", r.InCombat(1), false)
	}
	if !sawEscape || !sawFailure {
		t.Errorf("expected both flee outcomes over 200 runs, escape=%t failure=%t", sawEscape, sawFailure)
	}
}

func TestResolver_FleeWithoutSession(t *testing.T) {
	r := NewResolver()
	_, err := r.Flee(1)
	if !errors.Is(err, game.ErrNoCombat) {
		t.Errorf("error = %v, expected ErrNoCombat", err)
	}
}

func TestResolver_Session(t *testing.T) {
	r := NewResolver()
	started, err := r.Start(1, "LV")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := r.Session(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "id", got.ID, started.ID)
	testutil.AssertEqual(t, "enemy", got.Enemy, started.Enemy)

	_, err = r.Session(2)
	if !errors.Is(err, game.ErrNoCombat) {
		t.Errorf("error = %v, expected ErrNoCombat", err)
	}
}

func TestRollRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := rollRange(5, 15)
		if got < 5 || got > 15 {
			t.Fatalf("roll %d out of [5, 15]", got)
		}
	}
	testutil.AssertEqual(t, "degenerate range", rollRange(7, 7), 7)
	// Inverted bounds are normalized.
	got := rollRange(10, 4)
	if got < 4 || got > 10 {
		t.Errorf("roll %d out of [4, 10]", got)
	}
}
