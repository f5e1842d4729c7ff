package game

// ExpForLevel returns the XP needed to advance from the given level to the
// next one.
func ExpForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * 100
}

// ApplyExperience adds XP to the player, consuming full level thresholds as
// they are crossed. Each level-up fully restores health.
func ApplyExperience(p *Player, amount int) (levelsGained int) {
	if amount <= 0 {
		return 0
	}
	p.Experience += amount
	for p.Experience >= ExpForLevel(p.Level) {
		p.Experience -= ExpForLevel(p.Level)
		p.Level++
		p.Health = MaxHealth
		levelsGained++
	}
	return levelsGained
}
