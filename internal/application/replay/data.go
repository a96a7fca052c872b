package replay

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/mirrorstep/internal/domain/entity"
)

// FrameInput records the input of a single tick
type FrameInput struct {
	F  int     `json:"f"`            // Tick number
	X  float64 `json:"x,omitempty"`  // MoveAxis.X
	Y  float64 `json:"y,omitempty"`  // MoveAxis.Y
	JP bool    `json:"jp,omitempty"` // JumpPressed
	JH bool    `json:"jh,omitempty"` // JumpHeld
	PU bool    `json:"pu,omitempty"` // Power-up activated before this tick
	SW bool    `json:"sw,omitempty"` // Roles swapped before this tick
}

// NewFrameInput captures in as the input of tick f
func NewFrameInput(f int, in entity.InputFrame) FrameInput {
	return FrameInput{
		F:  f,
		X:  in.MoveAxis.X(),
		Y:  in.MoveAxis.Y(),
		JP: in.JumpPressed,
		JH: in.JumpHeld,
	}
}

// InputFrame converts the record back into a tick input
func (fi FrameInput) InputFrame() entity.InputFrame {
	return entity.InputFrame{
		MoveAxis:    mgl64.Vec2{fi.X, fi.Y},
		JumpPressed: fi.JP,
		JumpHeld:    fi.JH,
	}
}

// ReplayData contains all data needed to replay a session
type ReplayData struct {
	Version   string       `json:"version"`
	Level     string       `json:"level"`
	TickRate  int          `json:"tickRate"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}
