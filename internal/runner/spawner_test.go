package runner

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/golem-runner/internal/config"
)

func TestPlaceSingle(t *testing.T) {
	canvas := testCanvas()
	s := NewSpawner(testCatalog, config.DefaultRunnerConfig().Difficulty, rand.New(rand.NewSource(1)), canvas)

	got := s.Place(testCatalog[0], 7)
	if len(got) != 1 {
		t.Fatalf("expected one obstacle, got %d", len(got))
	}
	o := got[0]
	if o.ID != 7 || o.X != canvas.Width || o.Y+o.Height != canvas.GroundY {
		t.Errorf("unexpected placement %+v", o)
	}
	if o.Collider != config.DefaultObstacleCollider {
		t.Errorf("expected default collider, got %+v", o.Collider)
	}
}

func TestPlaceGroup(t *testing.T) {
	canvas := testCanvas()
	tight := &config.ColliderInsets{OffsetX: 0.1, OffsetY: 0.1, Width: 0.8, Height: 0.8}
	tmpl := config.ObstacleTemplate{
		ID: "triple",
		Group: []config.GroupMember{
			{Sprite: "a", Width: 20, Height: 40, SpacingAfter: 15},
			{Sprite: "b", Width: 30, Height: 60, SpacingAfter: 5, Collider: tight},
			{Sprite: "c", Width: 25, Height: 30},
		},
	}
	s := NewSpawner(config.Catalog{tmpl}, config.DefaultRunnerConfig().Difficulty, rand.New(rand.NewSource(1)), canvas)

	got := s.Spawn(10)
	if len(got) != 3 {
		t.Fatalf("expected 3 members, got %d", len(got))
	}

	wantX := []float64{canvas.Width, canvas.Width + 20 + 15, canvas.Width + 20 + 15 + 30 + 5}
	for i, o := range got {
		if o.ID != uint64(10+i) {
			t.Errorf("member %d: id %d, want %d", i, o.ID, 10+i)
		}
		if o.X != wantX[i] {
			t.Errorf("member %d: x %v, want %v", i, o.X, wantX[i])
		}
		if o.Y+o.Height != canvas.GroundY {
			t.Errorf("member %d: should stand on the ground, bottom %v", i, o.Y+o.Height)
		}
		if o.TemplateID != "triple" {
			t.Errorf("member %d: template %q", i, o.TemplateID)
		}
	}
	if got[1].Collider != *tight {
		t.Errorf("member collider override lost: %+v", got[1].Collider)
	}
	if got[0].Collider != config.DefaultObstacleCollider {
		t.Errorf("member without collider should use the default, got %+v", got[0].Collider)
	}
}

func TestIntervalBounds(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Difficulty

	tests := []struct {
		name   string
		scale  float64
		lo, hi float64
	}{
		{"start", 1, 1000, 2083.3333333333335},
		{"ceiling", 3, 700, 1250},
		{"past ceiling", 10, 700, 1250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := IntervalBounds(cfg, tt.scale)
			if math.Abs(lo-tt.lo) > 1e-6 || math.Abs(hi-tt.hi) > 1e-6 {
				t.Errorf("bounds(%v) = [%v, %v], want [%v, %v]", tt.scale, lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestIntervalNeverBelowFloor(t *testing.T) {
	cfg := config.DifficultyConfig{
		SpeedScaleIncrementPerSecond: 1,
		InitialMinSpawnIntervalMs:    300,
		InitialMaxSpawnIntervalMs:    500,
		MinOverallSpawnIntervalMs:    400,
		ObstacleIntervalSpeedFactor:  5, // drives the multiplier to its minimum
	}
	s := NewSpawner(testCatalog, cfg, rand.New(rand.NewSource(5)), testCanvas())

	for scale := 1.0; scale < 50; scale += 0.5 {
		lo, hi := IntervalBounds(cfg, scale)
		if lo < 400 || hi < 400 || lo > hi {
			t.Fatalf("scale %v: bad bounds [%v, %v]", scale, lo, hi)
		}
		if next := s.NextInterval(scale); next < 400 {
			t.Fatalf("scale %v: interval %v below floor", scale, next)
		}
	}
}

func TestDegenerateIntervalRange(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Difficulty
	cfg.InitialMinSpawnIntervalMs = 1500
	cfg.InitialMaxSpawnIntervalMs = 900
	cfg.ObstacleIntervalSpeedFactor = 0

	s := NewSpawner(testCatalog, cfg, rand.New(rand.NewSource(5)), testCanvas())
	if got := s.InitialInterval(); got != 1500 {
		t.Errorf("inverted initial range should collapse to 1500, got %v", got)
	}
	for i := 0; i < 10; i++ {
		if got := s.NextInterval(2); got != 1500 {
			t.Fatalf("inverted range should collapse to 1500, got %v", got)
		}
	}
}

func TestDifficultyScale(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Difficulty
	d := NewDifficulty(cfg)

	for i := 0; i < 60*200; i++ {
		d.Step(frameDt)
	}
	if d.Scale() != cfg.MaxSpeedScale {
		t.Errorf("scale should clamp at %v, got %v", cfg.MaxSpeedScale, d.Scale())
	}
	d.Reset()
	if d.Scale() != 1 {
		t.Errorf("Reset should return to 1, got %v", d.Scale())
	}

	cfg.MaxSpeedScale = 0
	unbounded := NewDifficulty(cfg)
	unbounded.Step(1000)
	if got := unbounded.Scale(); got != 21 {
		t.Errorf("unbounded scale after 1000s = %v, want 21", got)
	}
	if got := ScaleAt(cfg, 1000); got != 21 {
		t.Errorf("ScaleAt = %v, want 21", got)
	}
}

func TestAnimateCyclesFrames(t *testing.T) {
	var p PlayerState
	animate(&p, 0.25, 4, 0.1)
	if p.Frame != 2 {
		t.Errorf("expected frame 2, got %d", p.Frame)
	}
	animate(&p, 0.2, 4, 0.1)
	if p.Frame != 0 {
		t.Errorf("expected wrap to frame 0, got %d", p.Frame)
	}
	animate(&p, 5, 1, 0.1)
	if p.Frame != 0 {
		t.Errorf("single-frame animation should not advance, got %d", p.Frame)
	}
}
