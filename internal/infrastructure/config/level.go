package config

import (
	"errors"
	"fmt"

	"github.com/younwookim/mirrorstep/internal/domain/entity"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
)

// LevelConfig is the root config for levels/<name>.yaml
type LevelConfig struct {
	Name       string                 `yaml:"name"`
	Characters []CharacterSpawnConfig `yaml:"characters"`
	Colliders  []ColliderConfig       `yaml:"colliders"`
}

// CharacterSpawnConfig places one controlled character.
// A missing collider block leaves the character without a collider.
type CharacterSpawnConfig struct {
	Name     string     `yaml:"name"`
	Role     string     `yaml:"role"` // driver | mirror
	Position [3]float64 `yaml:"position"`
	Yaw      float64    `yaml:"yaw"` // degrees around +Y
	Mass     float64    `yaml:"mass"`
	Collider *BoxConfig `yaml:"collider"`
}

type BoxConfig struct {
	Center [3]float64 `yaml:"center"`
	Size   [3]float64 `yaml:"size"`
}

// ColliderConfig is a static axis-aligned collider.
type ColliderConfig struct {
	Name  string     `yaml:"name"`
	Layer string     `yaml:"layer"`
	Min   [3]float64 `yaml:"min"`
	Max   [3]float64 `yaml:"max"`
}

// ParseRole converts a role name into a Role
func ParseRole(name string) (entity.Role, error) {
	switch name {
	case "driver", "":
		return entity.RoleDriver, nil
	case "mirror":
		return entity.RoleMirror, nil
	default:
		return entity.RoleDriver, fmt.Errorf("unknown role %q", name)
	}
}

// Validate checks roles, layers and box extents.
func (l *LevelConfig) Validate() error {
	var errs []error
	drivers := 0
	for i, c := range l.Characters {
		role, err := ParseRole(c.Role)
		if err != nil {
			errs = append(errs, fmt.Errorf("characters[%d]: %w", i, err))
			continue
		}
		if role == entity.RoleDriver {
			drivers++
		}
		if c.Mass < 0 {
			errs = append(errs, fmt.Errorf("characters[%d]: mass must not be negative", i))
		}
	}
	if len(l.Characters) > 0 && drivers != 1 {
		errs = append(errs, fmt.Errorf("level %q: want exactly one driver, got %d", l.Name, drivers))
	}
	for i, c := range l.Colliders {
		if _, err := physics.ParseLayerMask([]string{c.Layer}); err != nil {
			errs = append(errs, fmt.Errorf("colliders[%d] %q: %w", i, c.Name, err))
		}
		for axis := 0; axis < 3; axis++ {
			if c.Max[axis] <= c.Min[axis] {
				errs = append(errs, fmt.Errorf("colliders[%d] %q: empty extent on axis %d", i, c.Name, axis))
				break
			}
		}
	}
	return errors.Join(errs...)
}
