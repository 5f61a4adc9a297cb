package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/golem-runner/internal/core"
	"github.com/vovakirdan/golem-runner/internal/rewards"
	"github.com/vovakirdan/golem-runner/internal/runner"
)

// 800x200 canvas on an 80x21 screen: 10 px per column, 10 px per row below
// the one-row HUD.
func testSnapshot(state runner.RunState) runner.Snapshot {
	return runner.Snapshot{
		State:  state,
		Canvas: runner.Canvas{Width: 800, Height: 200, GroundY: 180},
		Player: runner.PlayerState{X: 50, Y: 130, Width: 40, Height: 50},
		Obstacles: []runner.Obstacle{
			{ID: 1, X: 400, Y: 130, Width: 30, Height: 50, Sprite: "rock"},
			{ID: 2, X: 600, Y: 150, Width: 20, Height: 30, Sprite: "unknown"},
		},
		Metrics: runner.Metrics{Score: 1234.7, SpeedScale: 1.5},
	}
}

func TestDrawRunPlacesEntities(t *testing.T) {
	s := core.NewScreen(80, 21)
	DrawRun(s, testSnapshot(runner.StatePlaying), testTheme(), HUD{Title: "Test"})

	if got := s.Get(0, 19); got != '=' {
		t.Errorf("ground row: got %q, want '='", got)
	}
	if got := s.GetCell(10, 19).Color; got != core.ColorBrown {
		t.Errorf("ground color: got %v", got)
	}
	if got := s.Get(41, 16); got != '#' {
		t.Errorf("rock sprite: got %q, want '#'", got)
	}
	if got := s.Get(61, 17); got != '?' {
		t.Errorf("unknown sprite should use the fallback, got %q", got)
	}
	if got := s.Get(6, 15); got != '█' {
		t.Errorf("golem body: got %q", got)
	}
	if got := s.Get(6, 19); got != '=' {
		t.Errorf("golem must stand on the ground, not over it: got %q", got)
	}

	hud := s.Row(0)
	if !strings.Contains(hud, "SCORE 01234") || !strings.Contains(hud, "x1.50") {
		t.Errorf("unexpected HUD %q", hud)
	}
}

func TestDrawRunOverlays(t *testing.T) {
	tests := []struct {
		name  string
		state runner.RunState
		hud   HUD
		want  []string
	}{
		{"idle", runner.StateIdle, HUD{Title: "Desert"}, []string{"Desert", "SPACE to start"}},
		{"paused", runner.StatePlaying, HUD{Paused: true}, []string{"PAUSED"}},
		{"playing", runner.StatePlaying, HUD{}, nil},
		{"over", runner.StateGameOver, HUD{Reward: ptr(rewards.Lookup(3500))}, []string{"GAME OVER", "Score 1234", "Speedster  +30 coins", "17% to Champion"}},
		{"over at top tier", runner.StateGameOver, HUD{Reward: ptr(rewards.Lookup(20000))}, []string{"Legend"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := core.NewScreen(80, 21)
			DrawRun(s, testSnapshot(tt.state), testTheme(), tt.hud)
			out := s.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("missing %q in\n%s", w, out)
				}
			}
			if tt.want == nil && (strings.Contains(out, "PAUSED") || strings.Contains(out, "GAME OVER")) {
				t.Errorf("live play should have no overlay:\n%s", out)
			}
		})
	}
}

func TestDrawRunTinyScreen(t *testing.T) {
	// Must not panic when the terminal is smaller than the HUD.
	for _, size := range [][2]int{{1, 1}, {5, 2}, {0, 0}} {
		s := core.NewScreen(size[0], size[1])
		DrawRun(s, testSnapshot(runner.StateGameOver), testTheme(), HUD{})
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(20, 2)
	s.DrawTextColored(0, 0, "golem", core.ColorOrange)
	s.DrawText(0, 1, "runner")

	out := RenderScreen(s)
	if !strings.Contains(out, "golem") || !strings.Contains(out, "runner") {
		t.Errorf("text lost in %q", out)
	}
	if n := strings.Count(out, "\n"); n != 1 {
		t.Errorf("expected 2 lines, got %d newlines", n)
	}
}

func TestKeyMapper(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}}, core.ActionJump, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}}, core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}, core.ActionRestart, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, core.ActionNone, false},
	}
	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
		}
	}

	menu := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, MenuActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
	}
	for _, tt := range menu {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func ptr[T any](v T) *T { return &v }
