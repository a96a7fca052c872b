package system

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/younwookim/mirrorstep/internal/domain/entity"
)

// InputBuffer collects input between ticks and hands out one snapshot per
// tick. Writers may run on any goroutine.
//
// The move axis is last-value-wins. A jump press accumulates until the
// next Snapshot, which consumes it, so a press is seen by exactly one
// tick however many frames pass before that tick.
type InputBuffer struct {
	mu          sync.Mutex
	moveAxis    mgl64.Vec2
	jumpPressed bool
	jumpHeld    bool
}

// NewInputBuffer creates an empty buffer
func NewInputBuffer() *InputBuffer {
	return &InputBuffer{}
}

// SetMoveAxis replaces the move axis; components are clamped to [-1, 1]
func (b *InputBuffer) SetMoveAxis(axis mgl64.Vec2) {
	axis = mgl64.Vec2{mgl64.Clamp(axis.X(), -1, 1), mgl64.Clamp(axis.Y(), -1, 1)}

	b.mu.Lock()
	b.moveAxis = axis
	b.mu.Unlock()
}

// PressJump records a discrete jump press. The key counts as held.
func (b *InputBuffer) PressJump() {
	b.mu.Lock()
	b.jumpPressed = true
	b.jumpHeld = true
	b.mu.Unlock()
}

// SetJumpHeld updates whether the jump key is down
func (b *InputBuffer) SetJumpHeld(held bool) {
	b.mu.Lock()
	b.jumpHeld = held
	b.mu.Unlock()
}

// Snapshot returns the input for one tick and consumes the jump press
func (b *InputBuffer) Snapshot() entity.InputFrame {
	b.mu.Lock()
	defer b.mu.Unlock()

	frame := entity.InputFrame{
		MoveAxis:    b.moveAxis,
		JumpPressed: b.jumpPressed,
		JumpHeld:    b.jumpHeld || b.jumpPressed,
	}
	b.jumpPressed = false
	return frame
}

// Reset clears everything
func (b *InputBuffer) Reset() {
	b.mu.Lock()
	b.moveAxis = mgl64.Vec2{}
	b.jumpPressed = false
	b.jumpHeld = false
	b.mu.Unlock()
}

// stickDeadzone filters analog stick drift. Any axis past it moves at
// full speed since the move direction is normalized.
const stickDeadzone = 0.2

// InputSystem reads keyboard and gamepad state from ebiten
type InputSystem struct {
	gamepads []ebiten.GamepadID
}

// NewInputSystem creates a new input system
func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

// Poll writes the current device state into buf. Call once per frame.
func (s *InputSystem) Poll(buf *InputBuffer) {
	var x, y float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		x--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		x++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		y--
	}

	pressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	held := ebiten.IsKeyPressed(ebiten.KeySpace)

	s.gamepads = ebiten.AppendGamepadIDs(s.gamepads[:0])
	for _, id := range s.gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		if x == 0 && y == 0 {
			x = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
			// Stick up is negative
			y = -ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
			if (mgl64.Vec2{x, y}).Len() < stickDeadzone {
				x, y = 0, 0
			}
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			pressed = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			held = true
		}
	}

	buf.SetMoveAxis(mgl64.Vec2{x, y})
	if pressed {
		buf.PressJump()
	}
	buf.SetJumpHeld(held)
}
