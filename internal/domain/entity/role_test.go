package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestRole_String(t *testing.T) {
	assert.Equal(t, "Driver", RoleDriver.String())
	assert.Equal(t, "Mirror", RoleMirror.String())
	assert.Equal(t, "Unknown", Role(7).String())
}

func TestRole_Swapped(t *testing.T) {
	assert.Equal(t, RoleMirror, RoleDriver.Swapped())
	assert.Equal(t, RoleDriver, RoleMirror.Swapped())
	assert.Equal(t, RoleDriver, RoleDriver.Swapped().Swapped())
}

func TestInputFrame_MovementMagnitude(t *testing.T) {
	tests := []struct {
		name string
		axis mgl64.Vec2
		want float64
	}{
		{"idle", mgl64.Vec2{}, 0},
		{"half stick", mgl64.Vec2{0, 0.5}, 0.5},
		{"full forward", mgl64.Vec2{0, 1}, 1},
		{"diagonal clamps", mgl64.Vec2{1, 1}, 1},
		{"backwards", mgl64.Vec2{-0.6, 0}, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := InputFrame{MoveAxis: tt.axis}
			assert.InDelta(t, tt.want, f.MovementMagnitude(), 1e-12)
		})
	}
}
