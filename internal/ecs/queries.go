package ecs

import (
	"fmt"
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
)

var _ physics.Geometry = (*World)(nil)

// SphereOverlap reports whether a sphere intersects any static in mask
func (w *World) SphereOverlap(point mgl64.Vec3, radius float64, mask physics.LayerMask) (bool, error) {
	if mask == physics.LayerNone {
		return false, fmt.Errorf("sphere overlap: empty layer mask: %w", physics.ErrQueryFailure)
	}
	if radius <= 0 {
		return false, fmt.Errorf("sphere overlap: radius %v: %w", radius, physics.ErrQueryFailure)
	}

	for _, id := range sortedIDs(w.Static) {
		st := w.Static[id]
		if !st.Layer.Has(mask) {
			continue
		}
		if sphereIntersectsBox(point, radius, st.Bounds) {
			return true, nil
		}
	}
	return false, nil
}

// ShapeCast sweeps box along direction and returns the nearest hit
// against statics in mask. Statics the box already overlaps are skipped.
// The box is swept as its enclosing AABB.
func (w *World) ShapeCast(box physics.Box, direction mgl64.Vec3, maxDistance float64, mask physics.LayerMask) (physics.Hit, bool, error) {
	if mask == physics.LayerNone {
		return physics.Hit{}, false, fmt.Errorf("shape cast: empty layer mask: %w", physics.ErrQueryFailure)
	}
	if box.HalfExtents.X() <= 0 || box.HalfExtents.Y() <= 0 || box.HalfExtents.Z() <= 0 {
		return physics.Hit{}, false, fmt.Errorf("shape cast: degenerate box %v: %w", box.HalfExtents, physics.ErrQueryFailure)
	}
	if direction.Len() < 1e-9 || maxDistance <= 0 {
		return physics.Hit{}, false, fmt.Errorf("shape cast: zero sweep: %w", physics.ErrQueryFailure)
	}

	dir := direction.Normalize()
	half := enclosingHalfExtents(box.HalfExtents, box.Rotation)

	var (
		best  physics.Hit
		found bool
	)
	for _, id := range sortedIDs(w.Static) {
		st := w.Static[id]
		if !st.Layer.Has(mask) {
			continue
		}
		// Minkowski sum: sweeping the box equals casting its center
		// against the static grown by the box's half extents.
		grown := st.Bounds.GrowVec3(half)
		if strictlyInside(box.Center, grown) {
			continue
		}
		dist, normal, ok := rayBox(box.Center, dir, grown)
		if !ok || dist > maxDistance {
			continue
		}
		if !found || dist < best.Distance {
			best = physics.Hit{Normal: normal, Distance: dist}
			found = true
		}
	}
	return best, found, nil
}

// sphereIntersectsBox tests the closest point of bb against the sphere.
func sphereIntersectsBox(center mgl64.Vec3, radius float64, bb cube.BBox) bool {
	lo, hi := bb.Min(), bb.Max()
	var distSq float64
	for i := 0; i < 3; i++ {
		closest := mgl64.Clamp(center[i], lo[i], hi[i])
		d := center[i] - closest
		distSq += d * d
	}
	return distSq <= radius*radius
}

func strictlyInside(p mgl64.Vec3, bb cube.BBox) bool {
	lo, hi := bb.Min(), bb.Max()
	for i := 0; i < 3; i++ {
		if p[i] <= lo[i] || p[i] >= hi[i] {
			return false
		}
	}
	return true
}

// rayBox is the slab test. It returns the entry distance along a unit
// dir and the outward normal of the face that was entered.
func rayBox(origin, dir mgl64.Vec3, bb cube.BBox) (float64, mgl64.Vec3, bool) {
	lo, hi := bb.Min(), bb.Max()
	tEnter := math.Inf(-1)
	tExit := math.Inf(1)
	enterAxis := -1

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEnter {
			tEnter = t1
			enterAxis = i
		}
		if t2 < tExit {
			tExit = t2
		}
	}

	if enterAxis < 0 || tEnter > tExit || tEnter < 0 {
		return 0, mgl64.Vec3{}, false
	}

	var normal mgl64.Vec3
	if dir[enterAxis] > 0 {
		normal[enterAxis] = -1
	} else {
		normal[enterAxis] = 1
	}
	return tEnter, normal, true
}
