package entity

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
)

// BoxCollider is a character's bounding box in body-local space.
type BoxCollider struct {
	Center mgl64.Vec3
	Size   mgl64.Vec3
}

// HalfExtents returns half the collider size
func (c BoxCollider) HalfExtents() mgl64.Vec3 {
	return c.Size.Mul(0.5)
}

// GroundedMark is the last simulation time a character was grounded.
// The zero value holds no mark and grants no coyote time.
type GroundedMark struct {
	At  time.Duration
	Set bool
}

// Mark records now as the last grounded time.
func (m *GroundedMark) Mark(now time.Duration) {
	m.At = now
	m.Set = true
}

// Clear drops the mark, revoking coyote eligibility until the next landing.
func (m *GroundedMark) Clear() {
	*m = GroundedMark{}
}

// Within reports whether now is no more than window after the mark.
func (m GroundedMark) Within(now, window time.Duration) bool {
	if !m.Set || now < m.At {
		return false
	}
	return now-m.At <= window
}

// CharacterBody is one of the two controlled characters.
type CharacterBody struct {
	Name     string
	Role     Role
	Body     physics.Rigidbody // nil when the reference is missing
	Collider *BoxCollider      // nil when the reference is missing

	// Derived each tick
	IsGrounded   bool
	LastGrounded GroundedMark

	// MovementMagnitude is exposed for presentation, in [0, 1].
	MovementMagnitude float64
}

// NewCharacterBody creates a character with cleared derived state.
func NewCharacterBody(name string, role Role, body physics.Rigidbody, collider *BoxCollider) *CharacterBody {
	return &CharacterBody{
		Name:     name,
		Role:     role,
		Body:     body,
		Collider: collider,
	}
}

// Validate returns the configuration problems of the character, if any.
func (c *CharacterBody) Validate() []error {
	var errs []error
	if c.Body == nil {
		errs = append(errs, &ConfigurationError{Character: c.Name, Missing: "rigidbody"})
	}
	if c.Collider == nil {
		errs = append(errs, &ConfigurationError{Character: c.Name, Missing: "collider"})
	}
	return errs
}

// Reset clears all per-session derived state.
func (c *CharacterBody) Reset() {
	c.IsGrounded = false
	c.LastGrounded.Clear()
	c.MovementMagnitude = 0
}
