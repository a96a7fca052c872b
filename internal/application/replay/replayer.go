package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/mirrorstep/internal/application/session"
)

// Version is written into every recording
const Version = "2.0"

// Replayer handles input playback from recorded data
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{
		data:  data,
		frame: 0,
	}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}

	return &data, nil
}

// Next returns the recorded input for the current tick and advances
func (r *Replayer) Next() (FrameInput, bool) {
	if r.frame >= len(r.data.Frames) {
		return FrameInput{}, false
	}

	fi := r.data.Frames[r.frame]
	r.frame++
	return fi, true
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Level returns the level the replay was recorded on
func (r *Replayer) Level() string {
	return r.data.Level
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// Result is the state of a session after playback
type Result struct {
	Frames     int
	Mirrored   bool
	Characters []session.CharacterView
}

// Play feeds every remaining frame into s, headless. Power-up and role
// swap events are applied before the tick they were recorded on.
func (r *Replayer) Play(s *session.Session) Result {
	played := 0
	for {
		fi, ok := r.Next()
		if !ok {
			break
		}
		if fi.PU {
			s.ActivatePowerUp()
		}
		if fi.SW {
			s.SwapRoles()
		}
		s.Step(fi.InputFrame())
		played++
	}

	return Result{
		Frames:     played,
		Mirrored:   s.Mirrored(),
		Characters: s.Characters(),
	}
}

// CreateTestReplayData creates replay data for testing, holding axis on
// every frame.
func CreateTestReplayData(frames int, x, y float64) ReplayData {
	data := ReplayData{
		Version:   Version,
		Level:     "test",
		TickRate:  50,
		StartTime: time.Now().Format(time.RFC3339),
		Frames:    make([]FrameInput, frames),
	}

	for i := 0; i < frames; i++ {
		data.Frames[i] = FrameInput{
			F: i,
			X: x,
			Y: y,
		}
	}

	return data
}
