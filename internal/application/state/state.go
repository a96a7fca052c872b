package state

// GameState represents the current state of the playing scene
type GameState int

const (
	StateLoading GameState = iota
	StatePlaying
	StatePaused
	StateReplaying
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateReplaying:
		return "Replaying"
	default:
		return "Unknown"
	}
}

// Ticking reports whether the simulation advances in this state
func (s GameState) Ticking() bool {
	return s == StatePlaying || s == StateReplaying
}
