package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/mirrorstep/internal/domain/entity"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
	"github.com/younwookim/mirrorstep/internal/infrastructure/config"
)

const minDirection = 1e-6

// CollisionDeflector turns movement into a wall-slide when the character
// is about to run into wall geometry.
type CollisionDeflector struct {
	geometry physics.Geometry
	skin     float64
	mask     physics.LayerMask
}

// NewCollisionDeflector creates a deflector from the wall section of cfg
func NewCollisionDeflector(geometry physics.Geometry, cfg *config.LocomotionConfig) *CollisionDeflector {
	return &CollisionDeflector{
		geometry: geometry,
		skin:     cfg.Wall.SkinWidth,
		mask:     cfg.WallMask(),
	}
}

// Deflect casts the character's box, shrunk by the skin width, along dir
// for twice the skin width. On a hit it returns dir projected onto the
// wall plane, normalized; otherwise dir unchanged. Query failures and
// missing references count as "no hit".
func (d *CollisionDeflector) Deflect(c *entity.CharacterBody, dir mgl64.Vec3) mgl64.Vec3 {
	if dir.Len() < minDirection || c.Body == nil || c.Collider == nil {
		return dir
	}

	rot := c.Body.Rotation()
	box := physics.Box{
		Center:      c.Body.Position().Add(rot.Rotate(c.Collider.Center)),
		HalfExtents: c.Collider.HalfExtents().Sub(mgl64.Vec3{d.skin, d.skin, d.skin}),
		Rotation:    rot,
	}

	hit, ok, err := d.geometry.ShapeCast(box, dir, 2*d.skin, d.mask)
	if err != nil || !ok {
		return dir
	}
	return normalizeOrZero(ProjectOnPlane(dir, hit.Normal))
}

// ProjectOnPlane removes the component of v along the plane normal n.
func ProjectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	if n.Len() < minDirection {
		return v
	}
	n = n.Normalize()
	return v.Sub(n.Mul(v.Dot(n)))
}

func normalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	if v.Len() < minDirection {
		return mgl64.Vec3{}
	}
	return v.Normalize()
}
