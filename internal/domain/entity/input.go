package entity

import "github.com/go-gl/mathgl/mgl64"

// InputFrame is the input snapshot for one fixed tick.
// It is built at tick start and discarded when the tick ends.
type InputFrame struct {
	MoveAxis    mgl64.Vec2 // x = strafe, y = forward, each in [-1, 1]
	JumpPressed bool       // a press happened since the previous tick
	JumpHeld    bool       // jump is currently down
}

// MovementMagnitude returns |MoveAxis| clamped to [0, 1].
func (f InputFrame) MovementMagnitude() float64 {
	return mgl64.Clamp(f.MoveAxis.Len(), 0, 1)
}
