// Package playing provides the main gameplay scene.
package playing

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/younwookim/mirrorstep/internal/application/replay"
	"github.com/younwookim/mirrorstep/internal/application/scene"
	"github.com/younwookim/mirrorstep/internal/application/session"
	"github.com/younwookim/mirrorstep/internal/application/state"
	"github.com/younwookim/mirrorstep/internal/application/system"
	"github.com/younwookim/mirrorstep/internal/domain/entity"
	"github.com/younwookim/mirrorstep/internal/domain/physics"
	"github.com/younwookim/mirrorstep/internal/infrastructure/config"
)

// Colors for rendering
var (
	colorBG       = color.RGBA{26, 26, 46, 255}
	colorGround   = color.RGBA{50, 60, 70, 255}
	colorWall     = color.RGBA{110, 110, 130, 255}
	colorPickup   = color.RGBA{255, 215, 0, 255}
	colorDriver   = color.RGBA{100, 200, 100, 255}
	colorMirror   = color.RGBA{100, 150, 230, 255}
	colorShadow   = color.RGBA{0, 0, 0, 110}
	colorVelocity = color.RGBA{255, 255, 255, 200}
	colorOverlay  = color.RGBA{0, 0, 0, 150}
)

// heightScale is how far up the screen a unit of height lifts a body
const heightScale = 0.5

// Options configures a Playing scene
type Options struct {
	Level      string
	RecordPath string             // empty disables recording
	Replay     *replay.ReplayData // when set, input comes from the recording
	Watcher    *config.Watcher    // when set, config changes rebuild the session
}

// Playing is the main gameplay scene
type Playing struct {
	loader  *config.Loader
	level   string
	session *session.Session
	state   state.GameState
	resume  state.GameState

	inputSystem *system.InputSystem
	buffer      *system.InputBuffer

	screenW int
	screenH int
	ppu     float64

	// Input recording
	recorder       *Recorder
	recordFilename string

	replayer *replay.Replayer
	watcher  *config.Watcher
}

// New creates a new Playing scene and builds its session from loader.
func New(loader *config.Loader, opts Options) (*Playing, error) {
	p := &Playing{
		loader:         loader,
		level:          opts.Level,
		state:          state.StateLoading,
		inputSystem:    system.NewInputSystem(),
		buffer:         system.NewInputBuffer(),
		recordFilename: opts.RecordPath,
		watcher:        opts.Watcher,
	}
	if opts.Replay != nil {
		p.replayer = replay.NewReplayer(*opts.Replay)
		if p.level == "" {
			p.level = p.replayer.Level()
		}
	}

	s, err := p.build()
	if s == nil {
		return nil, err
	}
	p.use(s)

	if p.replayer != nil {
		p.state = state.StateReplaying
		log.Printf("Replaying %d frames on %s", p.replayer.TotalFrames(), p.level)
	} else {
		p.state = state.StatePlaying
		p.startRecording()
	}

	return p, nil
}

// build loads the configs and creates a session. Character problems are
// logged and the session kept; anything worse returns a nil session.
func (p *Playing) build() (*session.Session, error) {
	cfg, err := p.loader.LoadAll(p.level)
	if err != nil {
		return nil, fmt.Errorf("failed to load level %s: %w", p.level, err)
	}

	s, err := session.New(cfg)
	if s == nil {
		return nil, err
	}
	if err != nil {
		log.Printf("Level %s has configuration problems: %v", p.level, err)
	}
	return s, nil
}

func (p *Playing) use(s *session.Session) {
	display := s.Config().Locomotion.Display
	p.session = s
	p.screenW = display.ScreenWidth
	p.screenH = display.ScreenHeight
	p.ppu = display.PixelsPerUnit
	p.buffer.Reset()
}

func (p *Playing) startRecording() {
	if p.recordFilename == "" {
		return
	}
	p.recorder = NewRecorder(p.level, p.session.Config().Locomotion.Physics.TickRate)
	log.Printf("Recording enabled: %s", p.recordFilename)
}

// Session returns the running session
func (p *Playing) Session() *session.Session {
	return p.session
}

// State returns the scene state
func (p *Playing) State() state.GameState {
	return p.state
}

// Update advances one tick (implements scene.Scene)
func (p *Playing) Update(_ float64) (scene.Scene, error) {
	p.drainReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return nil, scene.ErrQuit
	}

	switch p.state {
	case state.StatePlaying:
		p.updatePlaying()
	case state.StateReplaying:
		p.updateReplaying()
	case state.StatePaused:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			p.state = p.resume
		}
	}

	return nil, nil // nil = stay on this scene
}

func (p *Playing) updatePlaying() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.pause()
		return
	}

	// F5: Save recording manually
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) && p.recorder != nil {
		p.saveRecording()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		p.restart()
		return
	}

	powerUp := inpututil.IsKeyJustPressed(ebiten.KeyM)
	swap := inpututil.IsKeyJustPressed(ebiten.KeyTab)

	p.inputSystem.Poll(p.buffer)
	p.tick(p.buffer.Snapshot(), powerUp, swap)
}

// tick applies session events, records and steps one tick
func (p *Playing) tick(frame entity.InputFrame, powerUp, swap bool) system.TickReport {
	if powerUp {
		p.session.ActivatePowerUp()
		log.Printf("Power-up: mirroring off for %.1fs", p.session.Config().Locomotion.PowerUp.Duration)
	}
	if swap {
		p.session.SwapRoles()
	}

	if p.recorder != nil {
		p.recorder.RecordFrame(frame, powerUp, swap)
	}

	return p.session.Step(frame)
}

func (p *Playing) updateReplaying() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.pause()
		return
	}

	fi, ok := p.replayer.Next()
	if !ok {
		log.Printf("Replay finished after %d frames", p.replayer.TotalFrames())
		p.resume = state.StateReplaying
		p.state = state.StatePaused
		return
	}
	p.tick(fi.InputFrame(), fi.PU, fi.SW)
}

func (p *Playing) pause() {
	p.resume = p.state
	p.state = state.StatePaused
}

// restart rebuilds the session from config. All session state resets.
func (p *Playing) restart() {
	s, err := p.build()
	if s == nil {
		log.Printf("Restart failed, keeping current session: %v", err)
		return
	}
	p.use(s)

	if p.replayer != nil {
		p.replayer.Reset()
		return
	}

	// Reset recorder if recording
	if p.recorder != nil {
		p.saveRecording()
		p.startRecording()
	}
}

// drainReloads rebuilds the session once if any watched config changed
func (p *Playing) drainReloads() {
	if p.watcher == nil {
		return
	}

	reload := false
	for {
		select {
		case path, ok := <-p.watcher.Events:
			if !ok {
				p.watcher = nil
				return
			}
			log.Printf("Config changed: %s", path)
			reload = true
		case err, ok := <-p.watcher.Errors:
			if !ok {
				p.watcher = nil
				return
			}
			log.Printf("Config watcher error: %v", err)
		default:
			if reload {
				p.restart()
			}
			return
		}
	}
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil || p.recorder.FrameCount() == 0 {
		return
	}

	filename := p.recordFilename
	if filename == "" {
		filename = GenerateFilename()
	}

	if err := p.recorder.Save(filename); err != nil {
		log.Printf("Failed to save recording: %v", err)
	} else {
		log.Printf("Recording saved: %s (%d frames)", filename, p.recorder.FrameCount())
	}
}

// Draw renders a top-down view: X to the right, Z up the screen.
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	p.drawStatics(screen)
	p.drawCharacters(screen)
	p.drawUI(screen)

	if p.state == state.StatePaused {
		p.drawPauseOverlay(screen)
	}
}

// toScreen projects a world point onto the screen
func (p *Playing) toScreen(x, z float64) (float64, float64) {
	return float64(p.screenW)/2 + x*p.ppu, float64(p.screenH)/2 - z*p.ppu
}

func (p *Playing) drawBox(screen *ebiten.Image, bb cube.BBox, lift float64, c color.Color) {
	lo, hi := bb.Min(), bb.Max()
	x0, y0 := p.toScreen(lo.X(), hi.Z())
	x1, y1 := p.toScreen(hi.X(), lo.Z())
	ebitenutil.DrawRect(screen, x0, y0-lift, x1-x0, y1-y0, c)
}

func (p *Playing) drawStatics(screen *ebiten.Image) {
	world := p.session.World()
	// Ground under walls under pickups
	for _, layer := range []physics.LayerMask{physics.LayerGround, physics.LayerDefault, physics.LayerWall, physics.LayerPickup} {
		for _, st := range world.Statics(layer) {
			p.drawBox(screen, st.Bounds, 0, layerColor(layer))
		}
	}
}

func layerColor(layer physics.LayerMask) color.Color {
	switch layer {
	case physics.LayerWall:
		return colorWall
	case physics.LayerPickup:
		return colorPickup
	default:
		return colorGround
	}
}

func (p *Playing) drawCharacters(screen *ebiten.Image) {
	for _, c := range p.session.Characters() {
		if !c.HasBounds {
			continue
		}
		lift := c.Position.Y() * p.ppu * heightScale

		p.drawBox(screen, c.Bounds, 0, colorShadow)

		bodyColor := colorDriver
		if c.Role == entity.RoleMirror {
			bodyColor = colorMirror
		}
		p.drawBox(screen, c.Bounds, lift, bodyColor)

		// Horizontal velocity, a quarter second ahead
		cx, cy := p.toScreen(c.Position.X(), c.Position.Z())
		tx, ty := p.toScreen(c.Position.X()+c.Velocity.X()*0.25, c.Position.Z()+c.Velocity.Z()*0.25)
		ebitenutil.DrawLine(screen, cx, cy-lift, tx, ty-lift, colorVelocity)
	}
}

func (p *Playing) drawUI(screen *ebiten.Image) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  tick %d  t=%.2fs  TPS %.0f\n", p.level, p.session.Ticks(), p.session.Now().Seconds(), ebiten.ActualTPS())

	if p.session.Mirrored() {
		b.WriteString("Mirroring: ON\n")
	} else if at, ok := p.session.Mirror().RevertAt(); ok {
		fmt.Fprintf(&b, "Mirroring: OFF (%.1fs)\n", (at - p.session.Now()).Seconds())
	} else {
		b.WriteString("Mirroring: OFF\n")
	}

	for _, c := range p.session.Characters() {
		grounded := "air"
		if c.IsGrounded {
			grounded = "ground"
		}
		fmt.Fprintf(&b, "%-6s %-6s %-6s move %.2f\n", c.Name, c.Role, grounded, c.MovementMagnitude)
	}
	if p.recorder != nil {
		fmt.Fprintf(&b, "REC %d\n", p.recorder.FrameCount())
	}
	ebitenutil.DebugPrint(screen, b.String())

	help := "WASD move  Space jump  M power-up  Tab swap  R reset  Esc pause  Q quit"
	ebitenutil.DebugPrintAt(screen, help, 4, p.screenH-16)
}

func (p *Playing) drawPauseOverlay(screen *ebiten.Image) {
	ebitenutil.DrawRect(screen, 0, 0, float64(p.screenW), float64(p.screenH), colorOverlay)

	text := "PAUSED\n\nPress ESC to resume"
	ebitenutil.DebugPrintAt(screen, text, p.screenW/2-50, p.screenH/2-20)
}

// OnEnter is called when entering this scene
func (p *Playing) OnEnter() {
	// Scene is already initialized in New
}

// OnExit is called when leaving this scene
func (p *Playing) OnExit() {
	p.saveRecording()
	if p.watcher != nil {
		_ = p.watcher.Close()
	}
}

// Layout returns the game's screen dimensions (used by game.Game)
func (p *Playing) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.screenW, p.screenH
}
