package main

import (
	"flag"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/mirrorstep/internal/application/game"
	"github.com/younwookim/mirrorstep/internal/application/replay"
	"github.com/younwookim/mirrorstep/internal/application/scene/playing"
	"github.com/younwookim/mirrorstep/internal/infrastructure/config"
)

const defaultLevel = "tutorial"

func main() {
	// Parse command line flags
	levelFlag := flag.String("level", "", "Level to load (default "+defaultLevel+", or the recording's level with -replay)")
	recordFlag := flag.String("record", "", "Record input to file (e.g., -record replay.json)")
	replayFlag := flag.String("replay", "", "Play a recording headless and print the result")
	viewFlag := flag.Bool("view", false, "With -replay, play the recording in a window instead")
	watchFlag := flag.Bool("watch", false, "Reload configs from -config when they change")
	configFlag := flag.String("config", "cmd/game/configs", "Config directory used with -watch")
	flag.Parse()

	loader, err := newLoader(*watchFlag, *configFlag)
	if err != nil {
		log.Fatalf("Failed to set up configs: %v", err)
	}

	if *replayFlag != "" && !*viewFlag {
		result, err := runReplay(loader, *replayFlag, *levelFlag)
		if err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
		logResult(result)
		return
	}

	opts := playing.Options{
		Level:      *levelFlag,
		RecordPath: *recordFlag,
	}
	if *replayFlag != "" {
		data, err := replay.LoadReplay(*replayFlag)
		if err != nil {
			log.Fatalf("Failed to load replay: %v", err)
		}
		opts.Replay = data
		opts.RecordPath = ""
	}
	if opts.Level == "" && opts.Replay == nil {
		opts.Level = defaultLevel
	}
	if *watchFlag {
		watcher, err := config.NewWatcher(*configFlag, filepath.Join(*configFlag, "levels"))
		if err != nil {
			log.Fatalf("Failed to watch %s: %v", *configFlag, err)
		}
		opts.Watcher = watcher
		log.Printf("Watching %s for changes", *configFlag)
	}

	scene, err := playing.New(loader, opts)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	cfg := scene.Session().Config().Locomotion
	g := game.New(scene, cfg.Display.ScreenWidth, cfg.Display.ScreenHeight, cfg.Physics.TickRate)

	// Set up ebiten
	ebiten.SetWindowSize(cfg.Display.ScreenWidth*cfg.Display.Scale,
		cfg.Display.ScreenHeight*cfg.Display.Scale)
	ebiten.SetWindowTitle("Mirrorstep")
	ebiten.SetTPS(cfg.Physics.TickRate)

	// Run game
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

// newLoader reads configs from disk when watching, otherwise from the
// copy embedded in the binary.
func newLoader(watch bool, dir string) (*config.Loader, error) {
	if watch {
		return config.NewLoader(dir), nil
	}

	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, err
	}
	return config.NewFSLoader(fsys, "configs"), nil
}
