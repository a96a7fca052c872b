package system

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/mirrorstep/internal/domain/entity"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
	"github.com/younwookim/mirrorstep/internal/infrastructure/config"
)

// TickContext is everything one fixed tick reads besides the characters.
type TickContext struct {
	Now    time.Duration
	DT     float64 // seconds
	Input  entity.InputFrame
	Mirror *MirrorToggle // nil means always mirrored
}

// CharacterReport describes what a tick did to one character
type CharacterReport struct {
	Name       string
	Role       entity.Role
	Active     bool       // false when excluded for a missing rigidbody
	Proposed   mgl64.Vec3 // velocity derived from input, before commit
	IsGrounded bool
	Jumped     bool
}

// TickReport is the result of one tick, in character order
type TickReport struct {
	Mirrored   bool
	Characters []CharacterReport
}

// tracked is a character plus the controller's bookkeeping for it
type tracked struct {
	body         *entity.CharacterBody
	active       bool
	groundWarned bool
}

// LocomotionSystem drives a driver character from input and derives the
// mirror character's motion from it, once per fixed tick.
type LocomotionSystem struct {
	config    *config.LocomotionConfig
	gravity   mgl64.Vec3
	ground    *GroundSensor
	deflector *CollisionDeflector

	characters []*tracked
}

// NewLocomotionSystem creates a locomotion system over characters.
//
// Configuration problems are logged once here and returned joined. The
// system is usable either way: a character without a rigidbody is left
// out of every tick, a character without a collider is never grounded
// and never deflected.
func NewLocomotionSystem(cfg *config.LocomotionConfig, geometry physics.Geometry, characters ...*entity.CharacterBody) (*LocomotionSystem, error) {
	s := &LocomotionSystem{
		config:    cfg,
		gravity:   cfg.Physics.GravityVec(),
		ground:    NewGroundSensor(geometry, cfg),
		deflector: NewCollisionDeflector(geometry, cfg),
	}

	var errs []error
	drivers := 0
	for _, c := range characters {
		t := &tracked{body: c, active: c.Body != nil}
		for _, err := range c.Validate() {
			log.Printf("locomotion: %v", err)
			errs = append(errs, err)
		}
		if c.Collider == nil {
			t.groundWarned = true
		}
		if c.Role == entity.RoleDriver {
			drivers++
		}
		c.Reset()
		s.characters = append(s.characters, t)
	}
	if drivers != 1 {
		err := fmt.Errorf("locomotion: want exactly one driver, got %d", drivers)
		log.Print(err)
		errs = append(errs, err)
	}

	return s, errors.Join(errs...)
}

// Characters returns the controlled characters in tick order
func (s *LocomotionSystem) Characters() []*entity.CharacterBody {
	out := make([]*entity.CharacterBody, len(s.characters))
	for i, t := range s.characters {
		out[i] = t.body
	}
	return out
}

// Driver returns the first character with the driver role, or nil
func (s *LocomotionSystem) Driver() *entity.CharacterBody {
	for _, t := range s.characters {
		if t.body.Role == entity.RoleDriver {
			return t.body
		}
	}
	return nil
}

// SwapRoles exchanges driver and mirror roles
func (s *LocomotionSystem) SwapRoles() {
	for _, t := range s.characters {
		t.body.Role = t.body.Role.Swapped()
	}
}

// Tick runs one fixed simulation step.
func (s *LocomotionSystem) Tick(ctx TickContext) TickReport {
	if ctx.Mirror != nil {
		ctx.Mirror.Update(ctx.Now)
	}
	mirrored := ctx.Mirror == nil || ctx.Mirror.Enabled()

	report := TickReport{
		Mirrored:   mirrored,
		Characters: make([]CharacterReport, len(s.characters)),
	}
	magnitude := ctx.Input.MovementMagnitude()

	// Ground state is rebuilt from scratch every tick
	for _, t := range s.characters {
		s.updateGround(t, ctx.Now)
		t.body.MovementMagnitude = magnitude
	}

	// Horizontal locomotion
	driverVelocity := s.driverVelocity(ctx.Input)
	for i, t := range s.characters {
		proposed := driverVelocity
		if t.body.Role == entity.RoleMirror && mirrored {
			proposed = Mirror(driverVelocity)
		}
		report.Characters[i] = CharacterReport{
			Name:     t.body.Name,
			Role:     t.body.Role,
			Active:   t.active,
			Proposed: proposed,
		}
		if !t.active {
			continue
		}
		commitHorizontal(t.body.Body, proposed)
	}

	// Vertical: jump, then gravity shaping
	for i, t := range s.characters {
		if !t.active {
			continue
		}
		report.Characters[i].Jumped = s.resolveJump(t.body, ctx)
		s.shapeGravity(t.body.Body, ctx)
		report.Characters[i].IsGrounded = t.body.IsGrounded
	}

	return report
}

// updateGround probes one character and refreshes its coyote mark.
func (s *LocomotionSystem) updateGround(t *tracked, now time.Duration) {
	if !t.active {
		t.body.IsGrounded = false
		return
	}

	result, err := s.ground.Probe(t.body)
	if err != nil {
		var cfgErr *entity.ConfigurationError
		if errors.As(err, &cfgErr) && !t.groundWarned {
			log.Printf("locomotion: %v, treating as never grounded", err)
			t.groundWarned = true
		}
		t.body.IsGrounded = false
		return
	}

	t.body.IsGrounded = result.IsGrounded
	if result.IsGrounded {
		t.body.LastGrounded.Mark(now)
	}
}

// driverVelocity turns input into the driver's velocity. The vertical
// component is the driver's current vertical velocity.
func (s *LocomotionSystem) driverVelocity(in entity.InputFrame) mgl64.Vec3 {
	driver := s.Driver()

	rot := mgl64.QuatIdent()
	if driver != nil && driver.Body != nil {
		rot = driver.Body.Rotation()
	}

	raw := normalizeOrZero(rot.Rotate(mgl64.Vec3{in.MoveAxis.X(), 0, in.MoveAxis.Y()}))
	corrected := raw
	if driver != nil {
		corrected = normalizeOrZero(s.deflector.Deflect(driver, raw))
	}

	velocity := corrected.Mul(s.config.Movement.MoveSpeed)
	if driver != nil && driver.Body != nil {
		velocity[1] = driver.Body.Velocity().Y()
	}
	return velocity
}

// resolveJump applies at most one jump impulse to c.
func (s *LocomotionSystem) resolveJump(c *entity.CharacterBody, ctx TickContext) bool {
	if !ctx.Input.JumpPressed {
		return false
	}
	if !c.IsGrounded && !c.LastGrounded.Within(ctx.Now, s.config.Jump.CoyoteWindow()) {
		return false
	}

	v := c.Body.Velocity()
	v[1] = 0
	c.Body.SetVelocity(v)
	c.Body.ApplyImpulse(mgl64.Vec3{0, s.config.Jump.Force, 0})

	// One press, one impulse: no coyote jump until the next landing
	c.LastGrounded.Clear()
	c.IsGrounded = false
	return true
}

func (s *LocomotionSystem) shapeGravity(body physics.Rigidbody, ctx TickContext) {
	v := body.Velocity()
	dv := GravityShaping(v.Y(), ctx.Input.JumpHeld, s.gravity.Y(),
		s.config.Jump.FallMultiplier, s.config.Jump.LowJumpMultiplier, ctx.DT)
	if dv == 0 {
		return
	}
	v[1] += dv
	body.SetVelocity(v)
}

// Mirror negates the X component of v.
func Mirror(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{-v.X(), v.Y(), v.Z()}
}

// commitHorizontal writes the X and Z of v, keeping the body's vertical.
func commitHorizontal(body physics.Rigidbody, v mgl64.Vec3) {
	current := body.Velocity()
	body.SetVelocity(mgl64.Vec3{v.X(), current.Y(), v.Z()})
}
