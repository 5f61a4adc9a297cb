package replay

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/golem-runner/internal/runner"
)

var dirCleaner = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Input kinds in the inputs log.
const (
	InputStart  = "start"
	InputJump   = "jump"
	InputUpdate = "update"
	InputReset  = "reset"
)

// Input is one call the game received.
type Input struct {
	Seq  uint64  `json:"seq"`
	Kind string  `json:"kind"`
	Dt   float64 `json:"dt,omitempty"`
}

// frameSize is the encoded length of a Frame.
const frameSize = 8 + 8 + 8 + 8 + 4 + 1

// Frame summarizes the game after one recorded update.
type Frame struct {
	Seq       uint64
	Elapsed   float64
	Score     float64
	PlayerY   float64
	Obstacles uint32
	State     runner.RunState
}

func (f Frame) encode(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], f.Seq)
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(f.Elapsed))
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(f.Score))
	binary.LittleEndian.PutUint64(buf[24:32], math.Float64bits(f.PlayerY))
	binary.LittleEndian.PutUint32(buf[32:36], f.Obstacles)
	buf[36] = byte(f.State)
}

func decodeFrame(buf []byte) Frame {
	return Frame{
		Seq:       binary.LittleEndian.Uint64(buf[0:8]),
		Elapsed:   math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
		Score:     math.Float64frombits(binary.LittleEndian.Uint64(buf[16:24])),
		PlayerY:   math.Float64frombits(binary.LittleEndian.Uint64(buf[24:32])),
		Obstacles: binary.LittleEndian.Uint32(buf[32:36]),
		State:     runner.RunState(buf[36]),
	}
}

// Recorder is a game that writes every input and frame to a bundle.
// Calls that have no effect on the game are not recorded.
type Recorder struct {
	*runner.Game

	mu        sync.Mutex
	dir       string
	manifest  Manifest
	inputFile *os.File
	inputs    *snappy.Writer
	frameFile *os.File
	frames    *zstd.Encoder
	frameBuf  [frameSize]byte
	err       error
	closed    bool
}

// NewRecorder creates a bundle directory under root and a fresh game for
// setup. Extra options are passed to the game; they must not change its
// random source.
func NewRecorder(root string, setup Setup, opts ...runner.Option) (*Recorder, error) {
	if root == "" {
		return nil, fmt.Errorf("replay: root must be provided")
	}

	game, err := setup.NewGame(opts...)
	if err != nil {
		return nil, err
	}

	name := dirCleaner.ReplaceAllString(setup.Theme, "")
	if name == "" {
		name = "run"
	}
	created := time.Now().UTC()
	dir := filepath.Join(root, fmt.Sprintf("%s-%s-%d", name, created.Format("20060102T150405Z"), created.Nanosecond()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	inputFile, err := os.Create(filepath.Join(dir, inputsFile))
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	frameFile, err := os.Create(filepath.Join(dir, framesFile))
	if err != nil {
		inputFile.Close()
		return nil, fmt.Errorf("replay: %w", err)
	}
	frames, err := zstd.NewWriter(frameFile)
	if err != nil {
		inputFile.Close()
		frameFile.Close()
		return nil, fmt.Errorf("replay: %w", err)
	}

	r := &Recorder{
		Game: game,
		dir:  dir,
		manifest: Manifest{
			Version:     ManifestVersion,
			CreatedAt:   created.Format(time.RFC3339Nano),
			Setup:       setup,
			InputsPath:  inputsFile,
			FramesPath:  framesFile,
			FinalScores: []float64{},
		},
		inputFile: inputFile,
		inputs:    snappy.NewBufferedWriter(inputFile),
		frameFile: frameFile,
		frames:    frames,
	}

	if err := writeManifest(dir, r.manifest); err != nil {
		r.closeStreams()
		return nil, err
	}
	return r, nil
}

// Dir returns the bundle directory.
func (r *Recorder) Dir() string {
	return r.dir
}

// Err returns the first write failure, if any. Recording stops after it but
// the game keeps running.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Start starts the game and records it.
func (r *Recorder) Start() bool {
	ok := r.Game.Start()
	if ok {
		r.record(Input{Kind: InputStart})
	}
	return ok
}

// Jump jumps and records it.
func (r *Recorder) Jump() bool {
	ok := r.Game.Jump()
	if ok {
		r.record(Input{Kind: InputJump})
	}
	return ok
}

// Update advances the game and records the delta and resulting frame.
func (r *Recorder) Update(dt float64) (runner.TerminalEvent, bool) {
	if r.Game.State() != runner.StatePlaying || !(dt >= 0) || math.IsInf(dt, 0) {
		return r.Game.Update(dt)
	}

	ev, over := r.Game.Update(dt)
	seq := r.record(Input{Kind: InputUpdate, Dt: dt})
	r.recordFrame(seq)
	if over {
		r.mu.Lock()
		r.manifest.FinalScores = append(r.manifest.FinalScores, ev.FinalScore)
		r.mu.Unlock()
	}
	return ev, over
}

// Reset resets the game and records it.
func (r *Recorder) Reset() {
	r.Game.Reset()
	r.record(Input{Kind: InputReset})
}

func (r *Recorder) record(in Input) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	in.Seq = r.manifest.Inputs
	r.manifest.Inputs++
	if r.err != nil || r.closed {
		return in.Seq
	}

	line, err := json.Marshal(in)
	if err == nil {
		line = append(line, '\n')
		_, err = r.inputs.Write(line)
	}
	if err != nil {
		r.err = fmt.Errorf("replay: write input: %w", err)
	}
	return in.Seq
}

func (r *Recorder) recordFrame(seq uint64) {
	f := Frame{
		Seq:       seq,
		Elapsed:   r.Game.Metrics().Elapsed,
		Score:     r.Game.Score(),
		PlayerY:   r.Game.Player().Y,
		Obstacles: uint32(len(r.Game.Obstacles())),
		State:     r.Game.State(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.manifest.Frames++
	if r.err != nil || r.closed {
		return
	}
	f.encode(r.frameBuf[:])
	if _, err := r.frames.Write(r.frameBuf[:]); err != nil {
		r.err = fmt.Errorf("replay: write frame: %w", err)
	}
}

// Close flushes both streams and finalizes the manifest.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.err
	}
	r.closed = true

	firstErr := r.err
	if err := r.closeStreams(); err != nil && firstErr == nil {
		firstErr = err
	}
	r.manifest.Complete = firstErr == nil
	if err := writeManifest(r.dir, r.manifest); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// closeStreams attempts every flush/close and returns the first failure.
func (r *Recorder) closeStreams() error {
	var firstErr error
	if err := r.inputs.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := r.inputFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := r.frames.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := r.frameFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return fmt.Errorf("replay: close: %w", firstErr)
	}
	return nil
}
