package playing

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/mirrorstep/internal/application/replay"
	"github.com/younwookim/mirrorstep/internal/domain/entity"
)

// Recorder handles input recording for replay
type Recorder struct {
	data      replay.ReplayData
	recording bool
	frame     int
}

// NewRecorder creates a new recorder for a level ticking at tickRate
func NewRecorder(level string, tickRate int) *Recorder {
	return &Recorder{
		data: replay.ReplayData{
			Version:   replay.Version,
			Level:     level,
			TickRate:  tickRate,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]replay.FrameInput, 0, 60*tickRate), // ~1 minute
		},
		recording: true,
		frame:     0,
	}
}

// RecordFrame records a single tick's input. powerUp and swap mark the
// session events applied just before the tick.
func (r *Recorder) RecordFrame(input entity.InputFrame, powerUp, swap bool) {
	if !r.recording {
		return
	}

	frameInput := replay.NewFrameInput(r.frame, input)
	frameInput.PU = powerUp
	frameInput.SW = swap

	r.data.Frames = append(r.data.Frames, frameInput)
	r.frame++
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// GetData returns the replay data (for testing)
func (r *Recorder) GetData() replay.ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
