package system

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/mirrorstep/internal/domain/entity"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
)

func TestFeetAnchor(t *testing.T) {
	body := newStubBody(mgl64.Vec3{1, 2, 3})

	anchor := FeetAnchor(body, *testCollider(), 0.05)

	assert.InDelta(t, 1.0, anchor.X(), 1e-9)
	assert.InDelta(t, 2-0.05, anchor.Y(), 1e-9)
	assert.InDelta(t, 3.0, anchor.Z(), 1e-9)
}

func TestFeetAnchor_RotatesColliderOffset(t *testing.T) {
	body := newStubBody(mgl64.Vec3{})
	body.rot = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	col := entity.BoxCollider{Center: mgl64.Vec3{0, 1, 1}, Size: mgl64.Vec3{1, 2, 1}}

	anchor := FeetAnchor(body, col, 0)

	assert.InDelta(t, 1.0, anchor.X(), 1e-9, "local +Z offset turns into +X")
	assert.InDelta(t, 0.0, anchor.Y(), 1e-9)
	assert.InDelta(t, 0.0, anchor.Z(), 1e-9)
}

func TestGroundSensor_Probe(t *testing.T) {
	cfg := createTestLocomotionConfig()

	tests := []struct {
		name  string
		feetY float64
		want  bool
	}{
		{"standing on ground", 0, true},
		{"just inside reach", 0.14, true},
		{"out of reach", 0.2, false},
		{"high in the air", 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := &stubGeometry{hasGround: true}
			sensor := NewGroundSensor(geo, cfg)
			c := entity.NewCharacterBody("c", entity.RoleDriver, newStubBody(mgl64.Vec3{0, tt.feetY, 0}), testCollider())

			result, err := sensor.Probe(c)

			require.NoError(t, err)
			assert.Equal(t, tt.want, result.IsGrounded)
		})
	}
}

func TestGroundSensor_IsStateless(t *testing.T) {
	sensor := NewGroundSensor(&stubGeometry{hasGround: true}, createTestLocomotionConfig())
	c := entity.NewCharacterBody("c", entity.RoleDriver, newStubBody(mgl64.Vec3{}), testCollider())

	_, err := sensor.Probe(c)
	require.NoError(t, err)

	assert.False(t, c.IsGrounded, "probe must not write character state")
	assert.False(t, c.LastGrounded.Set)
}

func TestGroundSensor_MissingCollider(t *testing.T) {
	sensor := NewGroundSensor(&stubGeometry{hasGround: true}, createTestLocomotionConfig())
	c := entity.NewCharacterBody("c", entity.RoleDriver, newStubBody(mgl64.Vec3{}), nil)

	result, err := sensor.Probe(c)

	var cfgErr *entity.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "collider", cfgErr.Missing)
	assert.False(t, result.IsGrounded)
}

func TestGroundSensor_QueryFailure(t *testing.T) {
	geo := &stubGeometry{hasGround: true, err: physics.ErrQueryFailure}
	sensor := NewGroundSensor(geo, createTestLocomotionConfig())
	c := entity.NewCharacterBody("c", entity.RoleDriver, newStubBody(mgl64.Vec3{}), testCollider())

	result, err := sensor.Probe(c)

	assert.True(t, errors.Is(err, physics.ErrQueryFailure))
	assert.False(t, result.IsGrounded)
}
