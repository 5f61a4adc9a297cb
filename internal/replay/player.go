package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/golem-runner/internal/runner"
)

// ErrMismatch is returned by Verify when re-simulation diverges from the
// recording.
var ErrMismatch = errors.New("replay mismatch")

// Bundle is a fully decoded recording.
type Bundle struct {
	Manifest Manifest
	Inputs   []Input
	Frames   []Frame
}

// Load reads a bundle from its directory or manifest path.
func Load(path string) (*Bundle, error) {
	if path == "" {
		return nil, fmt.Errorf("replay: path is required")
	}

	m, dir, err := readManifest(path)
	if err != nil {
		return nil, err
	}

	inputs, err := loadInputs(filepath.Join(dir, m.InputsPath))
	if err != nil {
		return nil, err
	}
	frames, err := loadFrames(filepath.Join(dir, m.FramesPath))
	if err != nil {
		return nil, err
	}

	return &Bundle{Manifest: m, Inputs: inputs, Frames: frames}, nil
}

func loadInputs(path string) ([]Input, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(snappy.NewReader(file))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var inputs []Input
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var in Input
		if err := json.Unmarshal(line, &in); err != nil {
			return nil, fmt.Errorf("replay: decode input %d: %w", len(inputs), err)
		}
		inputs = append(inputs, in)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("replay: read inputs: %w", err)
	}
	return inputs, nil
}

func loadFrames(path string) ([]Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer file.Close()

	reader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("replay: read frames: %w", err)
	}
	if len(payload)%frameSize != 0 {
		return nil, fmt.Errorf("replay: frame stream truncated")
	}

	frames := make([]Frame, 0, len(payload)/frameSize)
	for off := 0; off < len(payload); off += frameSize {
		frames = append(frames, decodeFrame(payload[off:off+frameSize]))
	}
	return frames, nil
}

// Report is the outcome of re-simulating a bundle.
type Report struct {
	Inputs   int
	Frames   int
	Expected []float64
	Got      []float64
}

// Verify rebuilds the recorded game, feeds it the recorded inputs and checks
// every frame and final score against the recording.
func Verify(b *Bundle) (Report, error) {
	rep := Report{Inputs: len(b.Inputs), Expected: b.Manifest.FinalScores}

	g, err := b.Manifest.Setup.NewGame()
	if err != nil {
		return rep, err
	}

	frames := b.Frames
	for _, in := range b.Inputs {
		switch in.Kind {
		case InputStart:
			if !g.Start() {
				return rep, fmt.Errorf("replay: %w: start at input %d had no effect", ErrMismatch, in.Seq)
			}
		case InputJump:
			if !g.Jump() {
				return rep, fmt.Errorf("replay: %w: jump at input %d had no effect", ErrMismatch, in.Seq)
			}
		case InputReset:
			g.Reset()
		case InputUpdate:
			ev, over := g.Update(in.Dt)
			if over {
				rep.Got = append(rep.Got, ev.FinalScore)
			}
			if err := checkFrame(g, in.Seq, &frames); err != nil {
				return rep, err
			}
			rep.Frames++
		default:
			return rep, fmt.Errorf("replay: unknown input kind %q at %d", in.Kind, in.Seq)
		}
	}

	if len(rep.Got) != len(rep.Expected) {
		return rep, fmt.Errorf("replay: %w: %d runs finished, recording has %d", ErrMismatch, len(rep.Got), len(rep.Expected))
	}
	for i := range rep.Got {
		if rep.Got[i] != rep.Expected[i] {
			return rep, fmt.Errorf("replay: %w: run %d scored %v, recorded %v", ErrMismatch, i, rep.Got[i], rep.Expected[i])
		}
	}
	return rep, nil
}

func checkFrame(g *runner.Game, seq uint64, frames *[]Frame) error {
	if len(*frames) == 0 {
		return nil
	}
	want := (*frames)[0]
	*frames = (*frames)[1:]

	if want.Seq != seq {
		return fmt.Errorf("replay: %w: frame for input %d, expected %d", ErrMismatch, want.Seq, seq)
	}
	if g.Score() != want.Score || g.Player().Y != want.PlayerY || g.State() != want.State {
		return fmt.Errorf("replay: %w: input %d: score %v y %v state %v, recorded %v %v %v",
			ErrMismatch, seq, g.Score(), g.Player().Y, g.State(), want.Score, want.PlayerY, want.State)
	}
	return nil
}
