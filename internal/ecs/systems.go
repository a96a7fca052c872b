package ecs

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// overlapEpsilon keeps touching faces from counting as overlap.
const overlapEpsilon = 1e-7

// Step integrates every dynamic body by dt seconds: gravity first, then
// movement clipped against solid statics one axis at a time (Y, X, Z).
// A clipped axis has its velocity component zeroed.
func (w *World) Step(dt float64) {
	solids := w.solidBounds()

	for _, id := range sortedIDs(w.Body) {
		rb := w.Body[id]
		tr := w.Transform[id]

		if rb.UseGravity {
			rb.Velocity = rb.Velocity.Add(w.Gravity.Mul(dt))
		}
		delta := rb.Velocity.Mul(dt)

		if col, ok := w.Collider[id]; ok {
			var clipped [3]bool
			delta, clipped = moveAndClip(col.Bounds(tr), delta, solids)
			for axis, hit := range clipped {
				if hit {
					rb.Velocity[axis] = 0
				}
			}
		}

		tr.Position = tr.Position.Add(delta)
		w.Transform[id] = tr
		w.Body[id] = rb
	}
}

// solidBounds collects the boxes of all solid statics
func (w *World) solidBounds() []cube.BBox {
	var boxes []cube.BBox
	for _, id := range sortedIDs(w.Static) {
		st := w.Static[id]
		if st.Solid() {
			boxes = append(boxes, st.Bounds)
		}
	}
	return boxes
}

// moveAndClip resolves delta for box against solids, Y axis first so a
// body standing on the floor can still slide along it.
func moveAndClip(box cube.BBox, delta mgl64.Vec3, solids []cube.BBox) (mgl64.Vec3, [3]bool) {
	var (
		out     mgl64.Vec3
		clipped [3]bool
	)
	for _, axis := range [3]int{1, 0, 2} {
		d := delta[axis]
		if d == 0 {
			continue
		}
		for _, solid := range solids {
			d = clipAxis(box, solid, axis, d)
		}
		clipped[axis] = d != delta[axis]
		out[axis] = d

		var shift mgl64.Vec3
		shift[axis] = d
		box = box.Translate(shift)
	}
	return out, clipped
}

// clipAxis shortens d so that moving box along axis does not enter solid.
func clipAxis(box, solid cube.BBox, axis int, d float64) float64 {
	bMin, bMax := box.Min(), box.Max()
	sMin, sMax := solid.Min(), solid.Max()

	for other := 0; other < 3; other++ {
		if other == axis {
			continue
		}
		if sMax[other]-bMin[other] <= overlapEpsilon || bMax[other]-sMin[other] <= overlapEpsilon {
			return d
		}
	}

	if d > 0 && bMax[axis] <= sMin[axis]+overlapEpsilon {
		if gap := sMin[axis] - bMax[axis]; gap < d {
			d = max(gap, 0)
		}
	} else if d < 0 && bMin[axis] >= sMax[axis]-overlapEpsilon {
		if gap := sMax[axis] - bMin[axis]; gap > d {
			d = min(gap, 0)
		}
	}
	return d
}
