// Package session wires one playable level: the reference physics world,
// the two characters, the mirroring toggle and the locomotion system.
//
// Everything a session holds is rebuilt from config by New. Nothing
// survives a rebuild.
package session

import (
	"fmt"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/mirrorstep/internal/application/system"
	"github.com/younwookim/mirrorstep/internal/domain/entity"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
	"github.com/younwookim/mirrorstep/internal/ecs"
	"github.com/younwookim/mirrorstep/internal/infrastructure/config"
)

// CharacterView is a read-only snapshot of one character for drawing and
// replay checks.
type CharacterView struct {
	Name              string
	Role              entity.Role
	Position          mgl64.Vec3
	Velocity          mgl64.Vec3
	Bounds            cube.BBox
	HasBounds         bool
	IsGrounded        bool
	MovementMagnitude float64
}

// Session owns the simulation clock and everything ticked by it.
type Session struct {
	config *config.GameConfig
	clock  *system.SimClock
	world  *ecs.World
	mirror *system.MirrorToggle
	loco   *system.LocomotionSystem

	ids   []ecs.EntityID
	ticks int
	last  system.TickReport
}

// New builds a session from cfg.
//
// Character configuration problems (a missing collider) are returned as
// an error alongside a usable session. A nil session means the level
// itself could not be built.
func New(cfg *config.GameConfig) (*Session, error) {
	if cfg == nil || cfg.Locomotion == nil || cfg.Level == nil {
		return nil, fmt.Errorf("session: incomplete config")
	}

	loco := cfg.Locomotion
	world := ecs.NewWorld(loco.Physics.GravityVec())

	for i, c := range cfg.Level.Colliders {
		layer, err := physics.ParseLayerMask([]string{c.Layer})
		if err != nil {
			return nil, fmt.Errorf("session: colliders[%d] %q: %w", i, c.Name, err)
		}
		bounds := cube.Box(c.Min[0], c.Min[1], c.Min[2], c.Max[0], c.Max[1], c.Max[2])
		world.CreateStatic(c.Name, bounds, layer)
	}

	clock := system.NewSimClock(loco.Physics.TickDuration())
	s := &Session{
		config: cfg,
		clock:  clock,
		world:  world,
		mirror: system.NewMirrorToggle(clock),
	}

	characters := make([]*entity.CharacterBody, 0, len(cfg.Level.Characters))
	for _, spawn := range cfg.Level.Characters {
		role, err := config.ParseRole(spawn.Role)
		if err != nil {
			return nil, fmt.Errorf("session: character %q: %w", spawn.Name, err)
		}

		var (
			worldCol *ecs.Collider
			bodyCol  *entity.BoxCollider
		)
		if spawn.Collider != nil {
			center := mgl64.Vec3(spawn.Collider.Center)
			size := mgl64.Vec3(spawn.Collider.Size)
			worldCol = &ecs.Collider{Center: center, Size: size}
			bodyCol = &entity.BoxCollider{Center: center, Size: size}
		}

		id := world.CreateBody(spawn.Name, mgl64.Vec3(spawn.Position), mgl64.DegToRad(spawn.Yaw), spawn.Mass, worldCol)
		s.ids = append(s.ids, id)
		characters = append(characters, entity.NewCharacterBody(spawn.Name, role, world.Rigidbody(id), bodyCol))
	}

	locomotion, err := system.NewLocomotionSystem(loco, world, characters...)
	s.loco = locomotion
	return s, err
}

// Step runs one fixed tick: locomotion proposes velocities, then the
// world integrates them. The clock advances after the tick.
func (s *Session) Step(frame entity.InputFrame) system.TickReport {
	report := s.loco.Tick(system.TickContext{
		Now:    s.clock.Now(),
		DT:     s.config.Locomotion.Physics.TickSeconds(),
		Input:  frame,
		Mirror: s.mirror,
	})
	s.world.Step(s.config.Locomotion.Physics.TickSeconds())
	s.clock.Advance()
	s.ticks++
	s.last = report
	return report
}

// SetMirroring switches mirroring and cancels any pending revert
func (s *Session) SetMirroring(enabled bool) {
	s.mirror.SetMirroring(enabled)
}

// SetMirroringFor switches mirroring and restores it after d of
// simulation time.
func (s *Session) SetMirroringFor(enabled bool, d time.Duration) {
	s.mirror.SetMirroringFor(enabled, d)
}

// ActivatePowerUp disables mirroring for the configured power-up duration
func (s *Session) ActivatePowerUp() {
	s.mirror.SetMirroringFor(false, config.Seconds(s.config.Locomotion.PowerUp.Duration))
}

// SwapRoles exchanges driver and mirror
func (s *Session) SwapRoles() {
	s.loco.SwapRoles()
}

// Mirrored reports whether mirroring is currently enabled
func (s *Session) Mirrored() bool {
	return s.mirror.Enabled()
}

// Mirror returns the session's mirroring toggle
func (s *Session) Mirror() *system.MirrorToggle {
	return s.mirror
}

// Now returns the simulation time
func (s *Session) Now() time.Duration {
	return s.clock.Now()
}

// Ticks returns the number of completed ticks
func (s *Session) Ticks() int {
	return s.ticks
}

// LastReport returns the report of the most recent tick
func (s *Session) LastReport() system.TickReport {
	return s.last
}

// World returns the reference physics world
func (s *Session) World() *ecs.World {
	return s.world
}

// Config returns the config the session was built from
func (s *Session) Config() *config.GameConfig {
	return s.config
}

// Characters returns a snapshot of every character in spawn order
func (s *Session) Characters() []CharacterView {
	bodies := s.loco.Characters()
	views := make([]CharacterView, len(bodies))
	for i, c := range bodies {
		id := s.ids[i]
		bounds, ok := s.world.Bounds(id)
		views[i] = CharacterView{
			Name:              c.Name,
			Role:              c.Role,
			Position:          s.world.Transform[id].Position,
			Velocity:          s.world.Body[id].Velocity,
			Bounds:            bounds,
			HasBounds:         ok,
			IsGrounded:        c.IsGrounded,
			MovementMagnitude: c.MovementMagnitude,
		}
	}
	return views
}
