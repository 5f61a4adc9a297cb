// Package runner implements the simulation core of a side-scrolling endless
// runner. A Game is advanced by one Update(dt) per host frame: it integrates
// the player's jump, scrolls and spawns obstacles with escalating speed,
// accumulates a score and ends the run on the first collision.
//
// A Game is not safe for concurrent use; hosts serialize all calls.
package runner

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/golem-runner/internal/config"
)

// scoreRate converts distance travelled (px) into score points.
const scoreRate = 0.1

// Game owns the state of one run at a time.
type Game struct {
	physicsCfg config.PhysicsConfig
	playerCfg  config.PlayerConfig
	canvas     Canvas

	physics    Physics
	difficulty *Difficulty
	spawner    *Spawner
	logger     *log.Logger
	handlers   []func(TerminalEvent)

	state          RunState
	player         PlayerState
	obstacles      []Obstacle
	nextID         uint64
	score          float64
	actualSpeed    float64
	elapsed        float64 // seconds of Playing
	sinceSpawnMs   float64
	nextIntervalMs float64
}

// Option customizes a Game.
type Option func(*options)

type options struct {
	rng      RandSource
	seed     int64
	player   config.PlayerConfig
	logger   *log.Logger
	handlers []func(TerminalEvent)
}

// WithSeed seeds the default random source.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithRand injects the random source used for template and interval draws.
// It takes precedence over WithSeed.
func WithRand(r RandSource) Option {
	return func(o *options) { o.rng = r }
}

// WithPlayer overrides the player's geometry and animation.
func WithPlayer(p config.PlayerConfig) Option {
	return func(o *options) { o.player = p }
}

// WithLogger sets the logger for run lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithGameOverHandler subscribes fn to terminal events.
func WithGameOverHandler(fn func(TerminalEvent)) Option {
	return func(o *options) { o.handlers = append(o.handlers, fn) }
}

// New creates a game in the Idle state. It rejects invalid configuration,
// an empty catalog and a degenerate canvas.
func New(physics config.PhysicsConfig, difficulty config.DifficultyConfig, catalog config.Catalog, canvas Canvas, opts ...Option) (*Game, error) {
	o := options{player: config.DefaultPlayer()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := physics.Validate(); err != nil {
		return nil, err
	}
	if err := difficulty.Validate(); err != nil {
		return nil, err
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if err := canvas.Validate(); err != nil {
		return nil, err
	}
	if err := o.player.Validate(); err != nil {
		return nil, err
	}
	if o.player.Height >= canvas.GroundY {
		return nil, fmt.Errorf("runner: %w: player height %v does not fit above ground %v", config.ErrInvalidConfig, o.player.Height, canvas.GroundY)
	}

	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(o.seed))
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	g := &Game{
		physicsCfg: physics,
		playerCfg:  o.player,
		canvas:     canvas,
		physics:    NewPhysics(physics),
		difficulty: NewDifficulty(difficulty),
		spawner:    NewSpawner(catalog, difficulty, o.rng, canvas),
		logger:     o.logger,
		handlers:   o.handlers,
	}
	g.Reset()
	return g, nil
}

// FromConfig builds a game from a loaded runner config and a catalog.
func FromConfig(cfg config.RunnerConfig, catalog config.Catalog, opts ...Option) (*Game, error) {
	opts = append([]Option{WithPlayer(cfg.Player)}, opts...)
	return New(cfg.Physics, cfg.Difficulty, catalog, CanvasFor(cfg), opts...)
}

// OnGameOver subscribes fn to terminal events.
func (g *Game) OnGameOver(fn func(TerminalEvent)) {
	g.handlers = append(g.handlers, fn)
}

// Reset returns to Idle with a grounded player, no obstacles and zeroed metrics.
// The random stream is not rewound.
func (g *Game) Reset() {
	g.state = StateIdle
	g.player = PlayerState{
		X:      g.playerCfg.X,
		Y:      g.canvas.GroundY - g.playerCfg.Height,
		Width:  g.playerCfg.Width,
		Height: g.playerCfg.Height,
	}
	g.obstacles = nil
	g.nextID = 0
	g.score = 0
	g.elapsed = 0
	g.sinceSpawnMs = 0
	g.nextIntervalMs = 0
	g.difficulty.Reset()
	g.actualSpeed = g.physicsCfg.BaseSpeed * g.difficulty.Scale()
}

// Start begins the run. Only valid from Idle.
func (g *Game) Start() bool {
	if g.state != StateIdle {
		return false
	}
	g.state = StatePlaying
	g.elapsed = 0
	g.sinceSpawnMs = 0
	g.nextIntervalMs = g.spawner.InitialInterval()
	g.logger.Debug("run started", "first_spawn_ms", g.nextIntervalMs)
	return true
}

// Jump launches the player. Ignored outside Playing or while airborne.
func (g *Game) Jump() bool {
	if g.state != StatePlaying {
		return false
	}
	return g.physics.Jump(&g.player)
}

// Update advances the run by dt seconds. It returns the terminal event and
// true on the frame the run ends. Outside Playing, or for a negative or
// non-finite dt, it does nothing.
func (g *Game) Update(dt float64) (TerminalEvent, bool) {
	if g.state != StatePlaying || !(dt >= 0) || math.IsInf(dt, 0) {
		return TerminalEvent{}, false
	}

	g.elapsed += dt
	scale := g.difficulty.Step(dt)
	g.actualSpeed = g.physicsCfg.BaseSpeed * scale
	g.score += g.actualSpeed * dt * scoreRate

	animate(&g.player, dt, g.playerCfg.Frames, g.playerCfg.FrameDuration)
	g.physics.Integrate(&g.player, dt, g.canvas.GroundY)

	g.scroll(g.actualSpeed * dt)

	g.sinceSpawnMs += dt * 1000
	if g.sinceSpawnMs >= g.nextIntervalMs {
		spawned := g.spawner.Spawn(g.nextID)
		g.nextID += uint64(len(spawned))
		g.obstacles = append(g.obstacles, spawned...)
		g.sinceSpawnMs = 0
		g.nextIntervalMs = g.spawner.NextInterval(scale)
		g.logger.Debug("spawned", "template", spawned[0].TemplateID, "count", len(spawned), "next_ms", g.nextIntervalMs)
	}

	if hit, ok := FirstHit(g.player, g.obstacles); ok {
		g.state = StateGameOver
		ev := TerminalEvent{FinalScore: math.Floor(g.score)}
		g.logger.Info("run over",
			"score", ev.FinalScore,
			"elapsed", g.elapsed,
			"obstacle", hit.ID,
			"template", hit.TemplateID,
		)
		for _, fn := range g.handlers {
			fn(ev)
		}
		return ev, true
	}

	return TerminalEvent{}, false
}

// scroll moves obstacles left and drops the ones fully past the left edge.
func (g *Game) scroll(dx float64) {
	kept := g.obstacles[:0]
	for _, o := range g.obstacles {
		o.X -= dx
		if o.X+o.Width > 0 {
			kept = append(kept, o)
		}
	}
	g.obstacles = kept
}

// State returns the current run state.
func (g *Game) State() RunState {
	return g.state
}

// Player returns a copy of the player state.
func (g *Game) Player() PlayerState {
	return g.player
}

// Obstacles returns a copy of the live obstacles in spawn order.
func (g *Game) Obstacles() []Obstacle {
	out := make([]Obstacle, len(g.obstacles))
	copy(out, g.obstacles)
	return out
}

// Score returns the unrounded score.
func (g *Game) Score() float64 {
	return g.score
}

// Metrics returns the derived run metrics.
func (g *Game) Metrics() Metrics {
	return Metrics{
		SpeedScale:          g.difficulty.Scale(),
		ActualSpeed:         g.actualSpeed,
		Score:               g.score,
		Elapsed:             g.elapsed,
		SinceLastSpawnMs:    g.sinceSpawnMs,
		NextSpawnIntervalMs: g.nextIntervalMs,
	}
}

// Canvas returns the logical canvas of the run.
func (g *Game) Canvas() Canvas {
	return g.canvas
}

// AirTime returns the continuous-time duration of a full jump.
func (g *Game) AirTime() float64 {
	return g.physics.AirTime()
}

// Snapshot returns a copy of everything a renderer reads.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		State:     g.state,
		Player:    g.player,
		Obstacles: g.Obstacles(),
		Metrics:   g.Metrics(),
		Canvas:    g.canvas,
	}
}
