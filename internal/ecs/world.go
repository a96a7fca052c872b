package ecs

import (
	"slices"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
)

// EntityID is a unique identifier for an entity
type EntityID uint64

// World is a small rigid-body world: dynamic boxes integrated under
// gravity and clipped against static axis-aligned colliders. It serves
// as the physics backend for the locomotion controller.
type World struct {
	nextID  EntityID
	Gravity mgl64.Vec3

	// Components
	Name      map[EntityID]string
	Transform map[EntityID]Transform
	Body      map[EntityID]RigidBody
	Collider  map[EntityID]Collider
	Static    map[EntityID]Static
}

// NewWorld creates a new empty world
func NewWorld(gravity mgl64.Vec3) *World {
	return &World{
		nextID:    1, // 0 is "nil"
		Gravity:   gravity,
		Name:      make(map[EntityID]string),
		Transform: make(map[EntityID]Transform),
		Body:      make(map[EntityID]RigidBody),
		Collider:  make(map[EntityID]Collider),
		Static:    make(map[EntityID]Static),
	}
}

// NewEntity returns a new unique entity ID
func (w *World) NewEntity() EntityID {
	id := w.nextID
	w.nextID++
	return id
}

// DestroyEntity removes all components for an entity
func (w *World) DestroyEntity(id EntityID) {
	delete(w.Name, id)
	delete(w.Transform, id)
	delete(w.Body, id)
	delete(w.Collider, id)
	delete(w.Static, id)
}

// Exists checks if an entity has a Transform or Static component
func (w *World) Exists(id EntityID) bool {
	if _, ok := w.Transform[id]; ok {
		return true
	}
	_, ok := w.Static[id]
	return ok
}

// CreateBody creates a dynamic body. A nil collider leaves the body
// without collision; a non-positive mass is treated as 1.
func (w *World) CreateBody(name string, pos mgl64.Vec3, yaw, mass float64, collider *Collider) EntityID {
	id := w.NewEntity()
	if mass <= 0 {
		mass = 1
	}

	w.Name[id] = name
	w.Transform[id] = Transform{Position: pos, Yaw: yaw}
	w.Body[id] = RigidBody{Mass: mass, UseGravity: true}
	if collider != nil {
		w.Collider[id] = *collider
	}
	return id
}

// CreateStatic creates an immovable collider on layer
func (w *World) CreateStatic(name string, bounds cube.BBox, layer physics.LayerMask) EntityID {
	id := w.NewEntity()
	w.Name[id] = name
	w.Static[id] = Static{Name: name, Bounds: bounds, Layer: layer}
	return id
}

// Statics returns the statics on any layer in mask, in creation order
func (w *World) Statics(mask physics.LayerMask) []Static {
	var out []Static
	for _, id := range sortedIDs(w.Static) {
		if st := w.Static[id]; st.Layer.Has(mask) {
			out = append(out, st)
		}
	}
	return out
}

// Rigidbody returns a handle to the body of id, or nil if id has none
func (w *World) Rigidbody(id EntityID) *BodyRef {
	if _, ok := w.Body[id]; !ok {
		return nil
	}
	return &BodyRef{world: w, id: id}
}

// Bounds returns the world-space box of a dynamic entity's collider
func (w *World) Bounds(id EntityID) (cube.BBox, bool) {
	col, ok := w.Collider[id]
	if !ok {
		return cube.BBox{}, false
	}
	return col.Bounds(w.Transform[id]), true
}

// sortedIDs returns the keys of m in ascending order so every pass over
// the world is deterministic.
func sortedIDs[V any](m map[EntityID]V) []EntityID {
	ids := make([]EntityID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// BodyRef is a physics.Rigidbody view of one dynamic entity
type BodyRef struct {
	world *World
	id    EntityID
}

var _ physics.Rigidbody = (*BodyRef)(nil)

// ID returns the entity behind the handle
func (b *BodyRef) ID() EntityID { return b.id }

func (b *BodyRef) Position() mgl64.Vec3 { return b.world.Transform[b.id].Position }

func (b *BodyRef) Rotation() mgl64.Quat { return b.world.Transform[b.id].Rotation() }

func (b *BodyRef) Velocity() mgl64.Vec3 { return b.world.Body[b.id].Velocity }

func (b *BodyRef) Mass() float64 { return b.world.Body[b.id].Mass }

func (b *BodyRef) SetVelocity(v mgl64.Vec3) {
	rb, ok := b.world.Body[b.id]
	if !ok {
		return
	}
	rb.Velocity = v
	b.world.Body[b.id] = rb
}

// ApplyImpulse changes velocity by impulse / mass
func (b *BodyRef) ApplyImpulse(impulse mgl64.Vec3) {
	rb, ok := b.world.Body[b.id]
	if !ok {
		return
	}
	rb.Velocity = rb.Velocity.Add(impulse.Mul(1 / rb.Mass))
	b.world.Body[b.id] = rb
}
