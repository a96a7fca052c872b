package system

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/mirrorstep/internal/domain/entity"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
	"github.com/younwookim/mirrorstep/internal/infrastructure/config"
)

// GroundResult is the outcome of one ground probe
type GroundResult struct {
	IsGrounded bool
	Anchor     mgl64.Vec3 // center of the probe sphere
}

// GroundSensor probes for ground just below a character's collider.
// It holds no per-character state; the caller keeps LastGrounded.
type GroundSensor struct {
	geometry physics.Geometry
	radius   float64
	offset   float64
	mask     physics.LayerMask
}

// NewGroundSensor creates a sensor from the ground section of cfg
func NewGroundSensor(geometry physics.Geometry, cfg *config.LocomotionConfig) *GroundSensor {
	return &GroundSensor{
		geometry: geometry,
		radius:   cfg.Ground.CheckRadius,
		offset:   cfg.Ground.CheckOffset,
		mask:     cfg.GroundMask(),
	}
}

// Probe overlaps a sphere below the character's feet with ground geometry.
// A character without a rigidbody or collider yields a *ConfigurationError.
func (s *GroundSensor) Probe(c *entity.CharacterBody) (GroundResult, error) {
	if c.Body == nil {
		return GroundResult{}, &entity.ConfigurationError{Character: c.Name, Missing: "rigidbody"}
	}
	if c.Collider == nil {
		return GroundResult{}, &entity.ConfigurationError{Character: c.Name, Missing: "collider"}
	}

	anchor := FeetAnchor(c.Body, *c.Collider, s.offset)
	hit, err := s.geometry.SphereOverlap(anchor, s.radius, s.mask)
	if err != nil {
		return GroundResult{Anchor: anchor}, fmt.Errorf("ground probe %q: %w", c.Name, err)
	}
	return GroundResult{IsGrounded: hit, Anchor: anchor}, nil
}

// FeetAnchor returns the point offset below the bottom face of the
// collider, in world space.
func FeetAnchor(body physics.Rigidbody, col entity.BoxCollider, offset float64) mgl64.Vec3 {
	center := body.Position().Add(body.Rotation().Rotate(col.Center))
	return center.Sub(mgl64.Vec3{0, col.Size.Y()*0.5 + offset, 0})
}
