package replay

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/runner"
)

const frameDt = 1.0 / 60

func testSetup() Setup {
	return Setup{
		Theme:  "test theme!",
		Seed:   77,
		Config: config.DefaultRunnerConfig(),
		Catalog: config.Catalog{
			{ID: "rock", Sprite: "rock", Width: 30, Height: 50},
			{ID: "pair", Group: []config.GroupMember{
				{Sprite: "rock", Width: 20, Height: 40, SpacingAfter: 10},
				{Sprite: "rock", Width: 20, Height: 40},
			}},
		},
	}
}

// recordSession plays two runs: one driven by the autopilot for three seconds
// and then left to crash, followed by a short second run.
func recordSession(t *testing.T, root string) *Recorder {
	t.Helper()
	rec, err := NewRecorder(root, testSetup())
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	var ap runner.Autopilot
	rec.Update(frameDt) // ignored while Idle
	rec.Start()
	for i := 0; i < 60*60; i++ {
		if i < 180 && ap.ShouldJump(rec.Snapshot()) {
			rec.Jump()
		}
		if _, over := rec.Update(frameDt * (1 + float64(i%3)/10)); over {
			break
		}
	}
	if rec.State() != runner.StateGameOver {
		t.Fatal("expected the first run to end")
	}

	rec.Reset()
	rec.Start()
	for i := 0; i < 30; i++ {
		rec.Update(frameDt)
	}

	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return rec
}

func TestRecordAndLoad(t *testing.T) {
	rec := recordSession(t, t.TempDir())

	if filepath.Base(rec.Dir())[:9] != "testtheme" {
		t.Errorf("directory name should be cleaned, got %q", filepath.Base(rec.Dir()))
	}

	b, err := Load(rec.Dir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := b.Manifest
	if !m.Complete {
		t.Error("manifest should be marked complete")
	}
	if len(m.FinalScores) != 1 {
		t.Fatalf("expected one finished run, got %v", m.FinalScores)
	}
	if uint64(len(b.Inputs)) != m.Inputs || uint64(len(b.Frames)) != m.Frames {
		t.Errorf("counts disagree: %d/%d inputs, %d/%d frames", len(b.Inputs), m.Inputs, len(b.Frames), m.Frames)
	}
	if b.Inputs[0].Kind != InputStart {
		t.Errorf("idle update should not be recorded, first input is %q", b.Inputs[0].Kind)
	}
	last := b.Frames[len(b.Frames)-1]
	if last.State != runner.StatePlaying || last.Obstacles > 10 {
		t.Errorf("unexpected last frame %+v", last)
	}

	// Loading through the manifest path works too.
	if _, err := Load(filepath.Join(rec.Dir(), manifestFile)); err != nil {
		t.Errorf("Load(manifest): %v", err)
	}
}

func TestVerifyReproducesRecording(t *testing.T) {
	rec := recordSession(t, t.TempDir())
	b, err := Load(rec.Dir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	rep, err := Verify(b)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if rep.Frames != len(b.Frames) {
		t.Errorf("verified %d frames, bundle has %d", rep.Frames, len(b.Frames))
	}
	if len(rep.Got) != 1 || rep.Got[0] != rep.Expected[0] {
		t.Errorf("scores differ: got %v, recorded %v", rep.Got, rep.Expected)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	rec := recordSession(t, t.TempDir())
	b, err := Load(rec.Dir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tampered := *b
	tampered.Manifest.Setup.Seed++
	if _, err := Verify(&tampered); !errors.Is(err, ErrMismatch) {
		t.Errorf("different seed should not verify, got %v", err)
	}

	tampered = *b
	tampered.Manifest.FinalScores = []float64{b.Manifest.FinalScores[0] + 1}
	if _, err := Verify(&tampered); !errors.Is(err, ErrMismatch) {
		t.Errorf("wrong final score should not verify, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("expected error for empty path")
	}

	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Error("expected error for missing manifest")
	}

	if err := os.WriteFile(filepath.Join(dir, manifestFile), []byte(`{"version": 9}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error for unsupported version")
	}
}

func TestNewRecorderRejectsBadSetup(t *testing.T) {
	s := testSetup()
	s.Catalog = nil
	if _, err := NewRecorder(t.TempDir(), s); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewRecorder("", testSetup()); err == nil {
		t.Error("expected error for empty root")
	}
}
