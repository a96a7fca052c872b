package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
)

// LocomotionConfig is the root config for locomotion.json.
// It is loaded once per level and never mutated during play.
type LocomotionConfig struct {
	Display  DisplayConfig   `json:"display"`
	Physics  PhysicsSettings `json:"physics"`
	Movement MovementConfig  `json:"movement"`
	Jump     JumpConfig      `json:"jump"`
	Ground   GroundConfig    `json:"ground"`
	Wall     WallConfig      `json:"wall"`
	PowerUp  PowerUpConfig   `json:"powerUp"`
}

type DisplayConfig struct {
	ScreenWidth   int     `json:"screenWidth"`
	ScreenHeight  int     `json:"screenHeight"`
	Scale         int     `json:"scale"`
	PixelsPerUnit float64 `json:"pixelsPerUnit"`
}

type PhysicsSettings struct {
	Gravity  [3]float64 `json:"gravity"`
	TickRate int        `json:"tickRate"` // fixed ticks per second
}

// GravityVec returns the gravity acceleration as a vector
func (p PhysicsSettings) GravityVec() mgl64.Vec3 {
	return mgl64.Vec3(p.Gravity)
}

// TickSeconds returns the fixed tick length in seconds
func (p PhysicsSettings) TickSeconds() float64 {
	return 1.0 / float64(p.TickRate)
}

// TickDuration returns the fixed tick length
func (p PhysicsSettings) TickDuration() time.Duration {
	return time.Second / time.Duration(p.TickRate)
}

type MovementConfig struct {
	MoveSpeed float64 `json:"moveSpeed"` // units per second
}

type JumpConfig struct {
	Force             float64 `json:"force"` // impulse, N·s
	FallMultiplier    float64 `json:"fallMultiplier"`
	LowJumpMultiplier float64 `json:"lowJumpMultiplier"`
	CoyoteTime        float64 `json:"coyoteTime"` // seconds
}

// CoyoteWindow returns CoyoteTime as a duration
func (j JumpConfig) CoyoteWindow() time.Duration {
	return Seconds(j.CoyoteTime)
}

type GroundConfig struct {
	CheckRadius float64  `json:"checkRadius"`
	CheckOffset float64  `json:"checkOffset"` // below the collider's bottom face
	Layers      []string `json:"layers"`
}

type WallConfig struct {
	SkinWidth float64  `json:"skinWidth"`
	Layers    []string `json:"layers"`
}

type PowerUpConfig struct {
	Duration float64 `json:"duration"` // seconds mirroring stays disabled
}

// Seconds converts floating seconds to a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// GroundMask returns the layer mask used by the ground probe
func (c *LocomotionConfig) GroundMask() physics.LayerMask {
	mask, _ := physics.ParseLayerMask(c.Ground.Layers)
	return mask
}

// WallMask returns the layer mask used by the wall cast
func (c *LocomotionConfig) WallMask() physics.LayerMask {
	mask, _ := physics.ParseLayerMask(c.Wall.Layers)
	return mask
}

// Validate checks the tuning values. All problems are reported together.
func (c *LocomotionConfig) Validate() error {
	var errs []error
	if c.Physics.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("physics.tickRate must be positive, got %d", c.Physics.TickRate))
	}
	if c.Movement.MoveSpeed < 0 {
		errs = append(errs, fmt.Errorf("movement.moveSpeed must not be negative, got %v", c.Movement.MoveSpeed))
	}
	if c.Jump.Force < 0 {
		errs = append(errs, fmt.Errorf("jump.force must not be negative, got %v", c.Jump.Force))
	}
	if c.Jump.FallMultiplier < 1 {
		errs = append(errs, fmt.Errorf("jump.fallMultiplier must be at least 1, got %v", c.Jump.FallMultiplier))
	}
	if c.Jump.LowJumpMultiplier < 1 {
		errs = append(errs, fmt.Errorf("jump.lowJumpMultiplier must be at least 1, got %v", c.Jump.LowJumpMultiplier))
	}
	if c.Jump.CoyoteTime < 0 {
		errs = append(errs, fmt.Errorf("jump.coyoteTime must not be negative, got %v", c.Jump.CoyoteTime))
	}
	if c.Ground.CheckRadius <= 0 {
		errs = append(errs, fmt.Errorf("ground.checkRadius must be positive, got %v", c.Ground.CheckRadius))
	}
	if c.Wall.SkinWidth <= 0 {
		errs = append(errs, fmt.Errorf("wall.skinWidth must be positive, got %v", c.Wall.SkinWidth))
	}
	if _, err := physics.ParseLayerMask(c.Ground.Layers); err != nil {
		errs = append(errs, fmt.Errorf("ground.layers: %w", err))
	}
	if _, err := physics.ParseLayerMask(c.Wall.Layers); err != nil {
		errs = append(errs, fmt.Errorf("wall.layers: %w", err))
	}
	return errors.Join(errs...)
}
