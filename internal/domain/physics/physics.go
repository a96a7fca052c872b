// Package physics defines the boundary between the locomotion controller
// and whatever physics backend integrates the character bodies.
//
// The controller never moves bodies itself. It asks Geometry for overlap
// and cast results and proposes velocity changes through Rigidbody.
package physics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrQueryFailure is returned by a Geometry backend when a query cannot be
// answered (empty layer mask, degenerate shape). Callers treat it as
// "no collision".
var ErrQueryFailure = errors.New("physics: query failed")

// LayerMask selects which collider layers a query considers.
type LayerMask uint32

const (
	LayerNone    LayerMask = 0
	LayerDefault LayerMask = 1 << 0
	LayerGround  LayerMask = 1 << 1
	LayerWall    LayerMask = 1 << 2
	LayerPickup  LayerMask = 1 << 3
)

var layerNames = map[string]LayerMask{
	"default": LayerDefault,
	"ground":  LayerGround,
	"wall":    LayerWall,
	"pickup":  LayerPickup,
}

// Has reports whether any bit of other is present in m.
func (m LayerMask) Has(other LayerMask) bool {
	return m&other != 0
}

// String returns the layer names in m joined by "|".
func (m LayerMask) String() string {
	if m == LayerNone {
		return "none"
	}
	var parts []string
	for _, name := range []string{"default", "ground", "wall", "pickup"} {
		if m.Has(layerNames[name]) {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("mask(%d)", uint32(m))
	}
	return strings.Join(parts, "|")
}

// ParseLayerMask combines named layers into a mask.
func ParseLayerMask(names []string) (LayerMask, error) {
	var mask LayerMask
	for _, name := range names {
		layer, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return LayerNone, fmt.Errorf("unknown layer %q", name)
		}
		mask |= layer
	}
	return mask, nil
}

// Box is an oriented box in world space.
type Box struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
	Rotation    mgl64.Quat
}

// Hit describes the first surface met by a shape cast.
type Hit struct {
	Normal   mgl64.Vec3
	Distance float64
}

// Geometry answers the proximity queries the controller needs.
// Both calls are synchronous and bounded.
type Geometry interface {
	// SphereOverlap reports whether a sphere at point intersects any
	// collider in mask.
	SphereOverlap(point mgl64.Vec3, radius float64, mask LayerMask) (bool, error)

	// ShapeCast sweeps box along direction for at most maxDistance and
	// returns the first hit against colliders in mask. Colliders already
	// overlapping the box at the start of the sweep are ignored.
	ShapeCast(box Box, direction mgl64.Vec3, maxDistance float64, mask LayerMask) (Hit, bool, error)
}

// Rigidbody is a simulated body. Position and rotation are owned by the
// backend's integration step and are read-only here.
type Rigidbody interface {
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	ApplyImpulse(impulse mgl64.Vec3)
	Mass() float64
}
