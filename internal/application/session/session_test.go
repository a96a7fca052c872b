package session

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/mirrorstep/internal/application/system"
	"github.com/younwookim/mirrorstep/internal/domain/entity"
	"github.com/younwookim/mirrorstep/internal/infrastructure/config"
)

const configDir = "../../../cmd/game/configs"

func loadSession(t *testing.T, level string) *Session {
	t.Helper()
	cfg, err := config.NewLoader(configDir).LoadAll(level)
	require.NoError(t, err)

	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func move(x, y float64) entity.InputFrame {
	return entity.InputFrame{MoveAxis: mgl64.Vec2{x, y}}
}

func TestNew(t *testing.T) {
	s := loadSession(t, "flat")

	chars := s.Characters()
	require.Len(t, chars, 2)
	assert.Equal(t, "left", chars[0].Name)
	assert.Equal(t, entity.RoleDriver, chars[0].Role)
	assert.Equal(t, mgl64.Vec3{-2, 0, 0}, chars[0].Position)
	assert.Equal(t, entity.RoleMirror, chars[1].Role)
	assert.True(t, chars[1].HasBounds)
	assert.True(t, s.Mirrored(), "mirroring starts enabled")
	assert.Equal(t, time.Duration(0), s.Now())
}

func TestNew_Errors(t *testing.T) {
	loco, err := config.NewLoader(configDir).LoadLocomotion()
	require.NoError(t, err)

	t.Run("incomplete config", func(t *testing.T) {
		_, err := New(&config.GameConfig{Locomotion: loco})
		assert.Error(t, err)
	})

	t.Run("unknown layer", func(t *testing.T) {
		lvl := &config.LevelConfig{
			Colliders: []config.ColliderConfig{{Name: "lava", Layer: "lava", Max: [3]float64{1, 1, 1}}},
		}
		s, err := New(&config.GameConfig{Locomotion: loco, Level: lvl})
		assert.Error(t, err)
		assert.Nil(t, s)
	})

	t.Run("missing collider keeps the session", func(t *testing.T) {
		lvl := &config.LevelConfig{
			Characters: []config.CharacterSpawnConfig{
				{Name: "left", Role: "driver", Collider: &config.BoxConfig{Size: [3]float64{0.5, 1.8, 0.5}}},
				{Name: "right", Role: "mirror"},
			},
		}
		s, err := New(&config.GameConfig{Locomotion: loco, Level: lvl})

		var cfgErr *entity.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "right", cfgErr.Character)
		require.NotNil(t, s)

		report := s.Step(move(1, 0))
		assert.True(t, report.Characters[0].Active)
		assert.True(t, report.Characters[1].Active)
	})
}

func TestStep_AdvancesClock(t *testing.T) {
	s := loadSession(t, "flat")

	s.Step(entity.InputFrame{})
	s.Step(entity.InputFrame{})

	assert.Equal(t, 2, s.Ticks())
	assert.Equal(t, 40*time.Millisecond, s.Now())
}

func TestStep_StandingIsGrounded(t *testing.T) {
	s := loadSession(t, "flat")

	for i := 0; i < 10; i++ {
		s.Step(entity.InputFrame{})
	}

	for _, c := range s.Characters() {
		assert.True(t, c.IsGrounded, c.Name)
		assert.InDelta(t, 0.0, c.Position.Y(), 1e-9, c.Name)
	}
}

// TestStep_JumpAndMirror is the twin jump: both characters leave the
// ground together with mirrored horizontal velocity.
func TestStep_JumpAndMirror(t *testing.T) {
	s := loadSession(t, "flat")
	s.Step(entity.InputFrame{})

	report := s.Step(entity.InputFrame{MoveAxis: mgl64.Vec2{1, 0}, JumpPressed: true, JumpHeld: true})

	require.True(t, report.Characters[0].Jumped)
	require.True(t, report.Characters[1].Jumped)
	assert.InDelta(t, 8.0, report.Characters[0].Proposed.X(), 1e-9)
	assert.InDelta(t, -8.0, report.Characters[1].Proposed.X(), 1e-9)

	chars := s.Characters()
	assert.InDelta(t, 8.0, chars[0].Velocity.X(), 1e-9)
	assert.InDelta(t, -8.0, chars[1].Velocity.X(), 1e-9)
	assert.Greater(t, chars[0].Velocity.Y(), 11.0)
	assert.InDelta(t, chars[0].Velocity.Y(), chars[1].Velocity.Y(), 1e-9)

	report = s.Step(entity.InputFrame{MoveAxis: mgl64.Vec2{1, 0}, JumpHeld: true})
	assert.False(t, report.Characters[0].IsGrounded)
	assert.False(t, report.Characters[1].IsGrounded)
	assert.False(t, report.Characters[0].Jumped)
}

func TestStep_JumpLandsAgain(t *testing.T) {
	s := loadSession(t, "flat")
	s.Step(entity.InputFrame{})
	s.Step(entity.InputFrame{JumpPressed: true, JumpHeld: true})

	var peak float64
	for i := 0; i < 150; i++ {
		s.Step(entity.InputFrame{JumpHeld: true})
		peak = max(peak, s.Characters()[0].Position.Y())
	}

	assert.Greater(t, peak, 5.0)
	for _, c := range s.Characters() {
		assert.True(t, c.IsGrounded, c.Name)
	}
}

func TestStep_ShortHopIsLower(t *testing.T) {
	jump := func(holdTicks int) float64 {
		s := loadSession(t, "flat")
		s.Step(entity.InputFrame{})
		s.Step(entity.InputFrame{JumpPressed: true, JumpHeld: true})

		var peak float64
		for i := 0; i < 100; i++ {
			s.Step(entity.InputFrame{JumpHeld: i < holdTicks})
			peak = max(peak, s.Characters()[0].Position.Y())
		}
		return peak
	}

	assert.Less(t, jump(2), jump(100), "releasing jump early cuts the arc")
}

func TestStep_PowerUpRevert(t *testing.T) {
	s := loadSession(t, "flat")
	s.SetMirroringFor(false, 5*time.Second)

	reports := make(map[time.Duration]bool)
	for s.Now() <= 5200*time.Millisecond {
		now := s.Now()
		reports[now] = s.Step(move(1, 0)).Mirrored
	}

	assert.False(t, reports[4900*time.Millisecond], "still disabled at 4.9s")
	assert.True(t, reports[5100*time.Millisecond], "re-enabled at 5.1s")
	assert.True(t, s.Mirrored())
}

func TestActivatePowerUp(t *testing.T) {
	s := loadSession(t, "flat")
	s.Step(entity.InputFrame{})

	s.ActivatePowerUp()

	assert.False(t, s.Mirrored())
	at, pending := s.Mirror().RevertAt()
	require.True(t, pending)
	assert.Equal(t, 20*time.Millisecond+10*time.Second, at)

	report := s.Step(move(1, 0))
	assert.InDelta(t, 8.0, report.Characters[1].Proposed.X(), 1e-9, "mirror copies the driver unmirrored")
}

func TestStep_WallSlide(t *testing.T) {
	s := loadSession(t, "tutorial")

	for i := 0; i < 60; i++ {
		s.Step(move(-1, 0))
	}
	chars := s.Characters()
	driverMin := chars[0].Bounds.Min().X()
	assert.GreaterOrEqual(t, driverMin, -12.0-1e-9, "never inside the west wall")
	assert.Less(t, driverMin, -11.8, "stopped by the deflector within the skin")
	assert.InDelta(t, -driverMin, chars[1].Bounds.Max().X(), 1e-9, "mirror stops at the mirrored spot")

	// Pushing diagonally into the wall turns into a slide along it
	var (
		report system.TickReport
		slid   bool
	)
	for i := 0; i < 5 && !slid; i++ {
		report = s.Step(move(-1, 1))
		slid = math.Abs(report.Characters[0].Proposed.X()) < 1e-9
	}
	require.True(t, slid, "driver never deflected")

	driver := report.Characters[0].Proposed
	assert.InDelta(t, 8.0, driver.Z(), 1e-9, "slides at full speed")

	mirror := report.Characters[1].Proposed
	assert.InDelta(t, 0.0, mirror.X(), 1e-9)
	assert.InDelta(t, 8.0, mirror.Z(), 1e-9)
}

func TestSwapRoles(t *testing.T) {
	s := loadSession(t, "flat")

	s.SwapRoles()
	report := s.Step(move(1, 0))

	assert.Equal(t, entity.RoleMirror, report.Characters[0].Role)
	assert.InDelta(t, -8.0, report.Characters[0].Proposed.X(), 1e-9)
	assert.InDelta(t, 8.0, report.Characters[1].Proposed.X(), 1e-9)
}

func TestStep_Deterministic(t *testing.T) {
	inputs := []entity.InputFrame{
		move(1, 0), move(1, 1), {MoveAxis: mgl64.Vec2{0, 1}, JumpPressed: true, JumpHeld: true},
		move(-1, 0.5), {}, move(0.2, -1),
	}

	run := func() []CharacterView {
		s := loadSession(t, "tutorial")
		for i := 0; i < 120; i++ {
			s.Step(inputs[i%len(inputs)])
		}
		return s.Characters()
	}

	assert.Equal(t, run(), run())
}
