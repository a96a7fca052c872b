package ecs

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
)

// up is the world's vertical axis.
var up = mgl64.Vec3{0, 1, 0}

// Transform is an entity's pose. Bodies keep pitch and roll frozen, so
// the rotation is a yaw around +Y.
type Transform struct {
	Position mgl64.Vec3
	Yaw      float64 // radians
}

// Rotation returns the yaw as a quaternion
func (t Transform) Rotation() mgl64.Quat {
	return mgl64.QuatRotate(t.Yaw, up)
}

// RigidBody holds the integrated motion of a dynamic entity
type RigidBody struct {
	Velocity   mgl64.Vec3
	Mass       float64
	UseGravity bool
}

// Collider is a dynamic entity's box in local space
type Collider struct {
	Center mgl64.Vec3
	Size   mgl64.Vec3
}

// Bounds returns the world-space AABB enclosing the collider at t.
func (c Collider) Bounds(t Transform) cube.BBox {
	center := t.Position.Add(t.Rotation().Rotate(c.Center))
	half := enclosingHalfExtents(c.Size.Mul(0.5), t.Rotation())
	lo := center.Sub(half)
	hi := center.Add(half)
	return cube.Box(lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
}

// Static is an immovable axis-aligned collider
type Static struct {
	Name   string
	Bounds cube.BBox
	Layer  physics.LayerMask
}

// Solid reports whether dynamic bodies collide with the static.
// Pickup volumes are queried but never block movement.
func (s Static) Solid() bool {
	return !s.Layer.Has(physics.LayerPickup)
}

// enclosingHalfExtents returns the half extents of the AABB around a box
// with the given half extents and rotation.
func enclosingHalfExtents(half mgl64.Vec3, rot mgl64.Quat) mgl64.Vec3 {
	m := rot.Mat4().Mat3()
	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i] += math.Abs(m.At(i, j)) * half[j]
		}
	}
	return out
}
