package ecs

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/mirrorstep/internal/domain/physics"
)

const (
	tickRate = 50
	dt       = 1.0 / tickRate
)

func newFloorWorld() *World {
	w := NewWorld(gravity)
	w.CreateStatic("floor", cube.Box(-20, -1, -20, 20, 0, 20), physics.LayerGround)
	return w
}

// =============================================================================
// One Second Validation
// =============================================================================

// TestFreeFall_OneSecond verifies gravity integration: d = 0.5 * g * t²
func TestFreeFall_OneSecond(t *testing.T) {
	w := NewWorld(gravity)
	id := w.CreateBody("faller", mgl64.Vec3{0, 100, 0}, 0, 1, testCollider())

	for i := 0; i < tickRate; i++ {
		w.Step(dt)
	}

	fallen := 100 - w.Transform[id].Position.Y()
	expected := 0.5 * 9.81

	t.Logf("Body fell %.3f units in 1 second (expected ~%.3f)", fallen, expected)

	// Semi-implicit Euler overshoots by g*dt*t/2
	assert.InDelta(t, expected, fallen, 0.15)
	assert.InDelta(t, -9.81, w.Body[id].Velocity.Y(), 1e-9)
}

// TestHorizontalMove_OneSecond verifies a body standing on the floor keeps
// its horizontal speed.
func TestHorizontalMove_OneSecond(t *testing.T) {
	w := newFloorWorld()
	id := w.CreateBody("runner", mgl64.Vec3{0, 0, 0}, 0, 1, testCollider())
	ref := w.Rigidbody(id)

	for i := 0; i < tickRate; i++ {
		v := ref.Velocity()
		ref.SetVelocity(mgl64.Vec3{8, v.Y(), 0})
		w.Step(dt)
	}

	pos := w.Transform[id].Position
	assert.InDelta(t, 8.0, pos.X(), 1e-6)
	assert.InDelta(t, 0.0, pos.Y(), 1e-6, "stays on the floor")
	assert.InDelta(t, 0.0, ref.Velocity().Y(), 1e-9, "floor contact zeroes vertical")
}

// =============================================================================
// Collision
// =============================================================================

func TestStep_LandsOnFloor(t *testing.T) {
	w := newFloorWorld()
	id := w.CreateBody("lander", mgl64.Vec3{0, 2, 0}, 0, 1, testCollider())

	for i := 0; i < 2*tickRate; i++ {
		w.Step(dt)
	}

	assert.InDelta(t, 0.0, w.Transform[id].Position.Y(), 1e-6)
	assert.InDelta(t, 0.0, w.Body[id].Velocity.Y(), 1e-9)
}

func TestStep_StopsAtWall(t *testing.T) {
	w := newFloorWorld()
	w.CreateStatic("wall", cube.Box(3, 0, -5, 4, 3, 5), physics.LayerWall)
	id := w.CreateBody("runner", mgl64.Vec3{0, 0, 0}, 0, 1, testCollider())
	ref := w.Rigidbody(id)

	for i := 0; i < tickRate; i++ {
		ref.SetVelocity(mgl64.Vec3{8, ref.Velocity().Y(), 0})
		w.Step(dt)
	}

	bb, ok := w.Bounds(id)
	require.True(t, ok)
	assert.InDelta(t, 3.0, bb.Max().X(), 1e-6, "flush against the wall face")
	assert.Zero(t, ref.Velocity().X(), "clipped axis loses its velocity")
}

func TestStep_SlidesAlongWall(t *testing.T) {
	w := newFloorWorld()
	w.CreateStatic("wall", cube.Box(0.25, 0, -10, 1, 3, 10), physics.LayerWall)
	id := w.CreateBody("slider", mgl64.Vec3{0, 0, 0}, 0, 1, testCollider())
	ref := w.Rigidbody(id)

	ref.SetVelocity(mgl64.Vec3{4, 0, 4})
	w.Step(dt)

	pos := w.Transform[id].Position
	assert.InDelta(t, 0.0, pos.X(), 1e-9)
	assert.InDelta(t, 4*dt, pos.Z(), 1e-9)
}

func TestStep_PickupDoesNotBlock(t *testing.T) {
	w := newFloorWorld()
	w.CreateStatic("powerup", cube.Box(0.3, 0, -1, 1, 2, 1), physics.LayerPickup)
	id := w.CreateBody("runner", mgl64.Vec3{0, 0, 0}, 0, 1, testCollider())

	w.Rigidbody(id).SetVelocity(mgl64.Vec3{5, 0, 0})
	w.Step(dt)

	assert.InDelta(t, 5*dt, w.Transform[id].Position.X(), 1e-9)
}

func TestStep_BodyWithoutColliderPassesThrough(t *testing.T) {
	w := newFloorWorld()
	id := w.CreateBody("ghost", mgl64.Vec3{0, 0.01, 0}, 0, 1, nil)

	for i := 0; i < 5; i++ {
		w.Step(dt)
	}

	assert.Less(t, w.Transform[id].Position.Y(), 0.0)
}

func TestStep_JumpArc(t *testing.T) {
	w := newFloorWorld()
	id := w.CreateBody("jumper", mgl64.Vec3{0, 0, 0}, 0, 1, testCollider())
	ref := w.Rigidbody(id)

	ref.ApplyImpulse(mgl64.Vec3{0, 12, 0})

	var peak float64
	for i := 0; i < 3*tickRate; i++ {
		w.Step(dt)
		peak = max(peak, w.Transform[id].Position.Y())
	}

	// v² / 2g with a little discretization slack
	assert.InDelta(t, 12*12/(2*9.81), peak, 0.2)
	assert.InDelta(t, 0.0, w.Transform[id].Position.Y(), 1e-6, "back on the floor")
}

func TestMoveAndClip_Deterministic(t *testing.T) {
	solids := []cube.BBox{
		cube.Box(-5, -1, -5, 5, 0, 5),
		cube.Box(1, 0, -5, 2, 3, 5),
	}
	box := cube.Box(-0.25, 0, -0.25, 0.25, 1.8, 0.25)

	d1, c1 := moveAndClip(box, mgl64.Vec3{2, -1, 0}, solids)
	d2, c2 := moveAndClip(box, mgl64.Vec3{2, -1, 0}, solids)

	assert.Equal(t, d1, d2)
	assert.Equal(t, c1, c2)
	assert.Equal(t, [3]bool{true, true, false}, c1)
	assert.InDelta(t, 0.75, d1.X(), 1e-9)
}
