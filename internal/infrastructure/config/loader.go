package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Locomotion *LocomotionConfig
	Level      *LevelConfig
}

// Loader loads tuning (JSON) and level layouts (YAML) using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// BasePath returns the directory the loader was created for
func (l *Loader) BasePath() string {
	return l.basePath
}

// LoadLocomotion loads and validates locomotion.json
func (l *Loader) LoadLocomotion() (*LocomotionConfig, error) {
	data, err := fs.ReadFile(l.fsys, "locomotion.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read locomotion.json: %w", err)
	}

	var cfg LocomotionConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse locomotion.json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid locomotion.json: %w", err)
	}

	return &cfg, nil
}

// LoadLevel loads and validates a level YAML file
func (l *Loader) LoadLevel(name string) (*LevelConfig, error) {
	path := "levels/" + name + ".yaml"
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level %s: %w", name, err)
	}

	var cfg LevelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse level %s: %w", name, err)
	}
	if cfg.Name == "" {
		cfg.Name = name
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid level %s: %w", name, err)
	}

	return &cfg, nil
}

// LoadAll loads the locomotion tuning and the named level
func (l *Loader) LoadAll(level string) (*GameConfig, error) {
	locomotion, err := l.LoadLocomotion()
	if err != nil {
		return nil, err
	}

	lvl, err := l.LoadLevel(level)
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Locomotion: locomotion,
		Level:      lvl,
	}, nil
}
