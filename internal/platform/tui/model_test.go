package tui

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/core"
	"github.com/vovakirdan/golem-runner/internal/registry"
	"github.com/vovakirdan/golem-runner/internal/replay"
	"github.com/vovakirdan/golem-runner/internal/rewards"
	"github.com/vovakirdan/golem-runner/internal/runner"
	_ "github.com/vovakirdan/golem-runner/internal/themes"
)

var (
	keyJump = tea.KeyMsg{Type: tea.KeyUp}
	keyEsc  = tea.KeyMsg{Type: tea.KeyEsc}
	keyP    = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}}
	keyR    = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}
	keyQ    = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func testTheme() registry.Theme {
	return registry.Theme{
		ID:    "test",
		Title: "Test",
		Catalog: config.Catalog{
			{ID: "rock", Sprite: "rock", Width: 30, Height: 50},
		},
		Sprites:     map[string]registry.Sprite{"rock": {Rune: '#', Color: core.ColorGray}},
		Fallback:    registry.Sprite{Rune: '?'},
		Ground:      '=',
		GroundColor: core.ColorBrown,
	}
}

// claimRecorder collects submitted claims.
type claimRecorder struct {
	mu     sync.Mutex
	claims []rewards.Claim
}

func (c *claimRecorder) Submit(_ context.Context, claim rewards.Claim) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.claims = append(c.claims, claim)
	return nil
}

func newTestModel(t *testing.T, sub rewards.Submitter) Model {
	t.Helper()
	theme := testTheme()
	game, err := runner.FromConfig(config.DefaultRunnerConfig(), theme.Catalog, runner.WithSeed(1))
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	return NewModel(Session{
		Theme:   theme,
		Game:    game,
		Run:     rewards.RunContext{WorldID: "w1", GolemID: "g1", Theme: theme.ID, Seed: 1},
		Rewards: sub,
		Config:  core.DefaultConfig(),
	})
}

// clock hands out tick messages a fixed step apart.
type clock struct {
	now  time.Time
	step time.Duration
}

func (c *clock) tick() TickMsg {
	c.now = c.now.Add(c.step)
	return TickMsg(c.now)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelStartsOnJump(t *testing.T) {
	m := newTestModel(t, nil)
	c := &clock{now: time.Unix(0, 0), step: 16 * time.Millisecond}

	m, _ = send(t, m, c.tick())
	if got := m.session.Game.State(); got != runner.StateIdle {
		t.Fatalf("expected Idle before input, got %v", got)
	}

	m, _ = send(t, m, keyJump)
	if got := m.session.Game.State(); got != runner.StateIdle {
		t.Fatal("input must wait for the next tick")
	}

	m, _ = send(t, m, c.tick())
	if got := m.session.Game.State(); got != runner.StatePlaying {
		t.Fatalf("expected Playing after jump, got %v", got)
	}
}

func TestModelClampsFrameDelta(t *testing.T) {
	m := newTestModel(t, nil)
	c := &clock{now: time.Unix(0, 0), step: 10 * time.Millisecond}

	m, _ = send(t, m, keyJump)
	m, _ = send(t, m, c.tick()) // starts; first frame has no delta

	c.step = 2 * time.Second
	m, _ = send(t, m, c.tick())

	elapsed := m.session.Game.Snapshot().Metrics.Elapsed
	if want := m.session.Config.MaxFrameDelta.Seconds(); elapsed > want+1e-9 {
		t.Errorf("stalled frame advanced %vs, want at most %vs", elapsed, want)
	}
}

func TestModelPauseAndLeave(t *testing.T) {
	m := newTestModel(t, nil)
	c := &clock{now: time.Unix(0, 0), step: 16 * time.Millisecond}

	m, _ = send(t, m, keyJump)
	m, _ = send(t, m, c.tick())
	m, _ = send(t, m, c.tick())

	// Leaving mid-run is refused.
	m, _ = send(t, m, keyEsc)
	if m.BackToMenu() {
		t.Fatal("Back must be ignored during live play")
	}

	m, _ = send(t, m, keyP)
	m, _ = send(t, m, c.tick())
	if !m.Paused() {
		t.Fatal("expected paused")
	}

	before := m.session.Game.Snapshot().Metrics.Elapsed
	for range 10 {
		m, _ = send(t, m, c.tick())
	}
	if after := m.session.Game.Snapshot().Metrics.Elapsed; after != before {
		t.Errorf("paused run advanced from %v to %v", before, after)
	}

	m, _ = send(t, m, keyEsc)
	if !m.BackToMenu() {
		t.Error("Back should be honoured while paused")
	}
}

// runUntilOver ticks until the run ends and returns the command of the
// final frame.
func runUntilOver(t *testing.T, m Model, c *clock) (Model, tea.Cmd) {
	t.Helper()
	m, _ = send(t, m, keyJump)
	for range 2000 {
		var cmd tea.Cmd
		m, cmd = send(t, m, c.tick())
		if m.session.Game.State() == runner.StateGameOver {
			return m, cmd
		}
	}
	t.Fatal("run never ended without jumping")
	return m, nil
}

func TestModelSubmitsClaimOnce(t *testing.T) {
	sub := &claimRecorder{}
	m := newTestModel(t, sub)
	c := &clock{now: time.Unix(0, 0), step: 50 * time.Millisecond}

	m, cmd := runUntilOver(t, m, c)
	if m.Reward() == nil {
		t.Fatal("expected a reward after game over")
	}

	// The final frame batches the next tick with the claim submission.
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch, got %T", cmd())
	}
	var done *claimDoneMsg
	for _, bc := range batch {
		if bc == nil {
			continue
		}
		if msg, ok := bc().(claimDoneMsg); ok {
			done = &msg
		}
	}
	if done == nil {
		t.Fatal("no claim submitted")
	}
	if done.err != nil {
		t.Fatalf("claim failed: %v", done.err)
	}

	// Further frames in GameOver must not claim again.
	for range 5 {
		m, _ = send(t, m, c.tick())
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if len(sub.claims) != 1 {
		t.Fatalf("expected exactly one claim, got %d", len(sub.claims))
	}
	claim := sub.claims[0]
	snap := m.session.Game.Snapshot()
	if claim.Score != int(snap.Metrics.Score) || claim.GolemID != "g1" || claim.WorldID != "w1" {
		t.Errorf("unexpected claim %+v for score %v", claim, snap.Metrics.Score)
	}
	if claim.Tier != m.Reward().Tier.Label || claim.Duration <= 0 {
		t.Errorf("claim tier/duration wrong: %+v", claim)
	}
}

func TestModelRestartAfterGameOver(t *testing.T) {
	m := newTestModel(t, nil)
	c := &clock{now: time.Unix(0, 0), step: 50 * time.Millisecond}

	m, _ = runUntilOver(t, m, c)

	m, _ = send(t, m, keyR)
	m, _ = send(t, m, c.tick())
	if got := m.session.Game.State(); got != runner.StateIdle {
		t.Fatalf("expected Idle after restart, got %v", got)
	}
	if m.Reward() != nil {
		t.Error("reward should clear on restart")
	}
	if score := m.session.Game.Snapshot().Metrics.Score; score != 0 {
		t.Errorf("score should reset, got %v", score)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := send(t, m, keyQ)
	if !m.IsQuitting() || cmd == nil {
		t.Fatal("q should quit")
	}
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	m := newTestModel(t, nil)
	c := &clock{now: time.Unix(0, 0), step: 16 * time.Millisecond}

	m, _ = send(t, m, keyJump)
	m, _ = send(t, m, c.tick())
	m, _ = send(t, m, c.tick())
	before := m.session.Game.Snapshot().Metrics.Elapsed

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.screen.Width() != 120 || m.screen.Height() != 40 {
		t.Errorf("screen not resized: %dx%d", m.screen.Width(), m.screen.Height())
	}
	if got := m.session.Game.State(); got != runner.StatePlaying {
		t.Errorf("resize should not reset the run, state %v", got)
	}
	if after := m.session.Game.Snapshot().Metrics.Elapsed; after != before {
		t.Errorf("resize changed elapsed from %v to %v", before, after)
	}
}

func TestHostNewSession(t *testing.T) {
	host := Host{Runner: config.DefaultRunnerConfig(), WorldID: "w"}

	if _, err := host.NewSession("no-such-theme", "g", core.DefaultConfig()); err == nil {
		t.Error("expected error for unknown theme")
	}

	rc := core.DefaultConfig()
	rc.Seed = 9
	s, err := host.NewSession("desert", "g", rc)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, ok := s.Game.(*runner.Game); !ok {
		t.Errorf("expected a plain game, got %T", s.Game)
	}
	if s.Run.Seed != 9 || s.Run.GolemID != "g" || s.Run.WorldID != "w" || s.Run.Theme != "desert" {
		t.Errorf("unexpected run context %+v", s.Run)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestHostRecordsSessions(t *testing.T) {
	root := t.TempDir()
	host := Host{Runner: config.DefaultRunnerConfig(), RecordDir: root}

	rc := core.DefaultConfig()
	rc.Seed = 3
	s, err := host.NewSession("forest", "g", rc)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	rec, ok := s.Game.(*replay.Recorder)
	if !ok {
		t.Fatalf("expected a recorder, got %T", s.Game)
	}

	s.Game.Start()
	for range 30 {
		s.Game.Update(1.0 / 60)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := replay.Load(rec.Dir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Manifest.Setup.Seed != 3 || b.Manifest.Setup.Theme != "forest" || len(b.Frames) != 30 {
		t.Errorf("unexpected bundle: setup %+v, %d frames", b.Manifest.Setup, len(b.Frames))
	}
	if filepath.Dir(rec.Dir()) != root {
		t.Errorf("bundle %q not under %q", rec.Dir(), root)
	}
}

func TestViewShowsRun(t *testing.T) {
	m := newTestModel(t, nil)
	view := m.View()
	if !strings.Contains(view, "SPACE to start") {
		t.Error("idle view should prompt to start")
	}
}
