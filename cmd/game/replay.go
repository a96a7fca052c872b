package main

import (
	"fmt"
	"log"

	"github.com/younwookim/mirrorstep/internal/application/replay"
	"github.com/younwookim/mirrorstep/internal/application/session"
	"github.com/younwookim/mirrorstep/internal/infrastructure/config"
)

// runReplay plays the recording at path on a fresh session, headless.
// level overrides the level stored in the recording.
func runReplay(loader *config.Loader, path, level string) (replay.Result, error) {
	data, err := replay.LoadReplay(path)
	if err != nil {
		return replay.Result{}, err
	}
	if level == "" {
		level = data.Level
	}
	if level == "" {
		level = defaultLevel
	}

	cfg, err := loader.LoadAll(level)
	if err != nil {
		return replay.Result{}, fmt.Errorf("failed to load level %s: %w", level, err)
	}
	if data.TickRate != 0 && data.TickRate != cfg.Locomotion.Physics.TickRate {
		log.Printf("Recording ran at %d ticks/s, config says %d; playback will drift",
			data.TickRate, cfg.Locomotion.Physics.TickRate)
	}

	s, err := session.New(cfg)
	if s == nil {
		return replay.Result{}, err
	}
	if err != nil {
		log.Printf("Level %s has configuration problems: %v", level, err)
	}

	return replay.NewReplayer(*data).Play(s), nil
}

func logResult(r replay.Result) {
	log.Printf("Replayed %d frames, mirroring %v", r.Frames, r.Mirrored)
	for _, c := range r.Characters {
		log.Printf("  %-6s %-6s pos (%.3f, %.3f, %.3f) grounded %v",
			c.Name, c.Role, c.Position.X(), c.Position.Y(), c.Position.Z(), c.IsGrounded)
	}
}
