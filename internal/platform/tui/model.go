package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/golem-runner/internal/core"
	"github.com/vovakirdan/golem-runner/internal/rewards"
	"github.com/vovakirdan/golem-runner/internal/runner"
)

// publishEvery is how many host frames pass between spectator snapshots.
const publishEvery = 3

// claimTimeout bounds a single reward submission.
const claimTimeout = 10 * time.Second

// claimDoneMsg reports the outcome of a reward submission.
type claimDoneMsg struct {
	claim rewards.Claim
	err   error
}

// Model is the Bubble Tea model hosting a single run.
type Model struct {
	session    Session
	screen     *core.Screen
	keyMapper  *KeyMapper
	inputFrame core.InputFrame

	lastTick time.Time
	frames   int
	paused   bool

	reward    *rewards.Result
	highScore int
	coins     int

	standalone bool // owns its program: Back quits instead of returning
	quitting   bool
	backToMenu bool
}

// NewModel creates a host model for the session.
func NewModel(s Session) Model {
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	if s.Config.ScreenW <= 0 || s.Config.ScreenH <= 0 {
		def := core.DefaultConfig()
		s.Config.ScreenW, s.Config.ScreenH = def.ScreenW, def.ScreenH
	}

	m := Model{
		session:    s,
		screen:     core.NewScreen(s.Config.ScreenW, s.Config.ScreenH),
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
	m.refreshLedger()
	return m
}

// refreshLedger reloads the high score and coin balance shown in the HUD.
func (m *Model) refreshLedger() {
	store := m.session.Store
	if store == nil {
		return
	}
	if hs, err := store.HighScore(m.session.Theme.ID); err == nil {
		m.highScore = hs
	}
	if golem := m.session.Run.GolemID; golem != "" {
		if coins, err := store.TotalCoins(golem); err == nil {
			m.coins = coins
		}
	}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.session.Config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The run lives on a logical canvas, so a resize only changes the view.
		m.session.Config.ScreenW = msg.Width
		m.session.Config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case claimDoneMsg:
		if msg.err != nil {
			m.session.Logger.Warn("reward claim failed", "score", msg.claim.Score, "err", msg.err)
		} else {
			m.session.Logger.Info("reward claimed", "score", msg.claim.Score, "tier", msg.claim.Tier, "coins", msg.claim.Coins)
		}
		m.refreshLedger()
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input. Game actions are buffered until the
// next tick; quitting, leaving and screenshots act immediately.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if action == core.ActionBack && m.canLeave() {
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	}

	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// canLeave reports whether Back is honoured: never in the middle of live play.
func (m Model) canLeave() bool {
	return m.session.Game.State() != runner.StatePlaying || m.paused
}

// handleTick applies buffered input and advances the run by the wall-clock
// time since the previous tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var dt float64
	if !m.lastTick.IsZero() {
		dt = m.session.Config.ClampFrameDelta(now.Sub(m.lastTick))
	}
	m.lastTick = now
	m.frames++

	cmds := []tea.Cmd{tickCmd(m.session.Config.TickRate)}
	game := m.session.Game

	m.applyInput()
	m.inputFrame.Clear()

	if game.State() == runner.StatePlaying && !m.paused {
		if ev, over := game.Update(dt); over {
			cmds = append(cmds, m.finishRun(ev))
		} else if m.frames%publishEvery == 0 {
			m.publish()
		}
	}

	return m, tea.Batch(cmds...)
}

// applyInput maps the buffered actions onto the game for the current state.
func (m *Model) applyInput() {
	game := m.session.Game

	switch game.State() {
	case runner.StateIdle:
		if m.inputFrame.Has(core.ActionJump) || m.inputFrame.Has(core.ActionConfirm) {
			if game.Start() {
				m.reward = nil
				m.session.Logger.Debug("run started")
			}
		}

	case runner.StatePlaying:
		if m.inputFrame.Has(core.ActionPause) {
			m.paused = !m.paused
		}
		if !m.paused && m.inputFrame.Has(core.ActionJump) {
			game.Jump()
		}

	case runner.StateGameOver:
		if m.inputFrame.Has(core.ActionRestart) {
			game.Reset()
			m.reward = nil
			m.paused = false
			m.publish()
		}
	}
}

// finishRun records the outcome of a run and returns the command that
// submits its claim.
func (m *Model) finishRun(ev runner.TerminalEvent) tea.Cmd {
	res := rewards.Lookup(ev.FinalScore)
	m.reward = &res

	snap := m.session.Game.Snapshot()
	rc := m.session.Run
	rc.Duration = time.Duration(snap.Metrics.Elapsed * float64(time.Second))

	m.session.Logger.Info("run over", "score", int(ev.FinalScore), "tier", res.Tier.Label, "elapsed", rc.Duration.Round(time.Millisecond))

	if rec, ok := m.session.Game.(interface{ Err() error }); ok {
		if err := rec.Err(); err != nil {
			m.session.Logger.Warn("recording incomplete", "err", err)
		}
	}

	if hub := m.session.Hub; hub != nil {
		if err := hub.PublishGameOver(m.session.Theme.ID, ev); err != nil {
			m.session.Logger.Debug("spectator publish failed", "err", err)
		}
	}

	return submitClaim(m.session.Rewards, rewards.NewClaim(ev.FinalScore, rc))
}

// submitClaim runs a reward submission off the update loop.
func submitClaim(sub rewards.Submitter, claim rewards.Claim) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), claimTimeout)
		defer cancel()
		return claimDoneMsg{claim: claim, err: sub.Submit(ctx, claim)}
	}
}

func (m Model) publish() {
	hub := m.session.Hub
	if hub == nil || hub.Viewers() == 0 {
		return
	}
	if err := hub.PublishSnapshot(m.session.Theme.ID, m.session.Game.Snapshot()); err != nil {
		m.session.Logger.Debug("spectator publish failed", "err", err)
	}
}

// hud collects the host-side overlay data.
func (m Model) hud() HUD {
	title := m.session.Theme.Title
	if title == "" {
		title = m.session.Theme.ID
	}
	return HUD{
		Title:     title,
		HighScore: m.highScore,
		Paused:    m.paused,
		Reward:    m.reward,
		Coins:     m.coins,
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	DrawRun(m.screen, m.session.Game.Snapshot(), m.session.Theme, m.hud())

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".runner", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.session.Theme.ID, timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.session.Logger.Warn("screenshot failed", "err", err)
		return
	}
	m.session.Logger.Debug("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawRun(m.screen, m.session.Game.Snapshot(), m.session.Theme, m.hud())
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Paused reports whether the host has paused the run.
func (m Model) Paused() bool {
	return m.paused
}

// Reward returns the reward of the last finished run, if any.
func (m Model) Reward() *rewards.Result {
	return m.reward
}

// Run hosts the session in its own Bubble Tea program and closes it when the
// program ends. goBack reports whether the player asked for the menu.
func Run(s Session) (goBack bool, err error) {
	model := NewModel(s)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, runErr := p.Run()
	if closeErr := s.Close(); closeErr != nil {
		model.session.Logger.Warn("session close failed", "err", closeErr)
	}
	if runErr != nil {
		return false, runErr
	}

	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), nil
}
