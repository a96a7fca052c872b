package system

// GravityShaping returns the extra vertical velocity for one tick of
// length dt. Falling bodies get gravity scaled by (fallMultiplier - 1);
// rising bodies whose jump input is released get (lowJumpMultiplier - 1),
// which cuts the ascent short for a tapped jump.
func GravityShaping(vy float64, jumpHeld bool, gravityY, fallMultiplier, lowJumpMultiplier, dt float64) float64 {
	switch {
	case vy < 0:
		return gravityY * (fallMultiplier - 1) * dt
	case vy > 0 && !jumpHeld:
		return gravityY * (lowJumpMultiplier - 1) * dt
	default:
		return 0
	}
}
