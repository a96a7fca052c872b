package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/mirrorstep/internal/domain/entity"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
	"github.com/younwookim/mirrorstep/internal/infrastructure/config"
)

const testDT = 0.02

func createTestLocomotionConfig() *config.LocomotionConfig {
	return &config.LocomotionConfig{
		Physics: config.PhysicsSettings{
			Gravity:  [3]float64{0, -9.81, 0},
			TickRate: 50,
		},
		Movement: config.MovementConfig{
			MoveSpeed: 8,
		},
		Jump: config.JumpConfig{
			Force:             12,
			FallMultiplier:    2.5,
			LowJumpMultiplier: 2,
			CoyoteTime:        0.2,
		},
		Ground: config.GroundConfig{
			CheckRadius: 0.1,
			CheckOffset: 0.05,
			Layers:      []string{"ground"},
		},
		Wall: config.WallConfig{
			SkinWidth: 0.1,
			Layers:    []string{"wall"},
		},
	}
}

// stubBody is a physics.Rigidbody that records what the controller does
type stubBody struct {
	pos      mgl64.Vec3
	rot      mgl64.Quat
	vel      mgl64.Vec3
	mass     float64
	impulses int
}

func newStubBody(pos mgl64.Vec3) *stubBody {
	return &stubBody{pos: pos, rot: mgl64.QuatIdent(), mass: 1}
}

func (b *stubBody) Position() mgl64.Vec3     { return b.pos }
func (b *stubBody) Rotation() mgl64.Quat     { return b.rot }
func (b *stubBody) Velocity() mgl64.Vec3     { return b.vel }
func (b *stubBody) SetVelocity(v mgl64.Vec3) { b.vel = v }
func (b *stubBody) Mass() float64            { return b.mass }
func (b *stubBody) ApplyImpulse(j mgl64.Vec3) {
	b.impulses++
	b.vel = b.vel.Add(j.Mul(1 / b.mass))
}

// stubGeometry has an optional ground plane and an optional wall that
// every cast hits.
type stubGeometry struct {
	hasGround bool
	groundY   float64
	wall      *physics.Hit
	err       error

	casts    int
	lastBox  physics.Box
	lastDist float64
	lastMask physics.LayerMask
}

func (g *stubGeometry) SphereOverlap(point mgl64.Vec3, radius float64, mask physics.LayerMask) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	return g.hasGround && point.Y()-radius <= g.groundY, nil
}

func (g *stubGeometry) ShapeCast(box physics.Box, direction mgl64.Vec3, maxDistance float64, mask physics.LayerMask) (physics.Hit, bool, error) {
	g.casts++
	g.lastBox = box
	g.lastDist = maxDistance
	g.lastMask = mask
	if g.err != nil {
		return physics.Hit{}, false, g.err
	}
	if g.wall == nil {
		return physics.Hit{}, false, nil
	}
	return *g.wall, true, nil
}

func testCollider() *entity.BoxCollider {
	return &entity.BoxCollider{
		Center: mgl64.Vec3{0, 0.9, 0},
		Size:   mgl64.Vec3{0.5, 1.8, 0.5},
	}
}

// createTwins returns a driver at x=-2 and a mirror at x=2, feet at y=0
func createTwins() (driver, mirror *entity.CharacterBody, driverBody, mirrorBody *stubBody) {
	driverBody = newStubBody(mgl64.Vec3{-2, 0, 0})
	mirrorBody = newStubBody(mgl64.Vec3{2, 0, 0})
	driver = entity.NewCharacterBody("left", entity.RoleDriver, driverBody, testCollider())
	mirror = entity.NewCharacterBody("right", entity.RoleMirror, mirrorBody, testCollider())
	return driver, mirror, driverBody, mirrorBody
}
