package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/core"
	"github.com/vovakirdan/golem-runner/internal/registry"
	"github.com/vovakirdan/golem-runner/internal/replay"
	"github.com/vovakirdan/golem-runner/internal/rewards"
	"github.com/vovakirdan/golem-runner/internal/runner"
	"github.com/vovakirdan/golem-runner/internal/spectate"
	"github.com/vovakirdan/golem-runner/internal/storage"
)

// Game is the simulation surface the host drives.
// *runner.Game and *replay.Recorder both satisfy it.
type Game interface {
	Start() bool
	Jump() bool
	Update(dt float64) (runner.TerminalEvent, bool)
	Reset()
	State() runner.RunState
	Snapshot() runner.Snapshot
}

// Session is one hosted game together with the places its outcome goes.
type Session struct {
	Theme registry.Theme
	Game  Game

	// Run identifies the player; Duration is filled in at game over.
	Run rewards.RunContext

	Rewards rewards.Submitter // nil disables claims
	Hub     *spectate.Hub     // nil disables spectating
	Store   *storage.Store    // HUD high score and coins; may be nil
	Logger  *log.Logger
	Config  core.RuntimeConfig
}

// Close releases the game if it holds resources, such as a replay bundle.
func (s Session) Close() error {
	if c, ok := s.Game.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Host holds what every session shares.
type Host struct {
	Runner  config.RunnerConfig
	Store   *storage.Store
	Rewards rewards.Submitter
	Hub     *spectate.Hub
	WorldID string
	Logger  *log.Logger

	// RecordDir, when set, records every session as a replay bundle under it.
	RecordDir string
}

// NewSession builds a fresh game for the theme and wraps it in a session.
// A zero rc.Seed picks a time based seed.
func (h Host) NewSession(themeID, golemID string, rc core.RuntimeConfig) (Session, error) {
	theme, err := registry.Create(themeID)
	if err != nil {
		return Session{}, err
	}

	logger := h.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("theme", theme.ID, "golem", golemID)

	seed := rc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	catalog := theme.CatalogFor(h.Runner)
	opts := []runner.Option{runner.WithLogger(logger)}

	var game Game
	if h.RecordDir != "" {
		rec, recErr := replay.NewRecorder(h.RecordDir, replay.Setup{
			Theme:   theme.ID,
			Seed:    seed,
			Config:  h.Runner,
			Catalog: catalog,
		}, opts...)
		if recErr != nil {
			return Session{}, fmt.Errorf("tui: cannot start recording: %w", recErr)
		}
		logger.Info("recording run", "dir", rec.Dir())
		game = rec
	} else {
		g, gameErr := runner.FromConfig(h.Runner, catalog, append(opts, runner.WithSeed(seed))...)
		if gameErr != nil {
			return Session{}, gameErr
		}
		game = g
	}

	return Session{
		Theme: theme,
		Game:  game,
		Run: rewards.RunContext{
			WorldID: h.WorldID,
			GolemID: golemID,
			Theme:   theme.ID,
			Seed:    seed,
		},
		Rewards: h.Rewards,
		Hub:     h.Hub,
		Store:   h.Store,
		Logger:  logger,
		Config:  rc,
	}, nil
}
