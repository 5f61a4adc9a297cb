package rewards

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Claim is a finished run handed to reward and mission services.
type Claim struct {
	WorldID  string        `json:"world_id"`
	GolemID  string        `json:"golem_id"`
	Theme    string        `json:"theme"`
	Score    int           `json:"score"`
	Coins    int           `json:"coins"`
	Tier     string        `json:"tier"`
	Duration time.Duration `json:"duration"`
	Seed     int64         `json:"seed"`
	At       time.Time     `json:"at"`
}

// RunContext is what the host knows about a run besides its score.
type RunContext struct {
	WorldID  string
	GolemID  string
	Theme    string
	Duration time.Duration
	Seed     int64
}

// NewClaim builds a claim for finalScore, priced by DefaultTable.
func NewClaim(finalScore float64, rc RunContext) Claim {
	res := Lookup(finalScore)
	return Claim{
		WorldID:  rc.WorldID,
		GolemID:  rc.GolemID,
		Theme:    rc.Theme,
		Score:    int(finalScore),
		Coins:    res.Tier.Coins,
		Tier:     res.Tier.Label,
		Duration: rc.Duration,
		Seed:     rc.Seed,
		At:       time.Now(),
	}
}

// Submitter credits a claim somewhere.
type Submitter interface {
	Submit(ctx context.Context, c Claim) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, c Claim) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, c Claim) error {
	return f(ctx, c)
}

// Dispatcher fans a claim out to every registered submitter.
type Dispatcher struct {
	submitters []Submitter
	logger     *log.Logger
}

// NewDispatcher creates a dispatcher. A nil logger uses the default logger.
func NewDispatcher(logger *log.Logger, submitters ...Submitter) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{submitters: submitters, logger: logger}
}

// Add registers another submitter.
func (d *Dispatcher) Add(s Submitter) {
	d.submitters = append(d.submitters, s)
}

// Submit delivers c to all submitters concurrently and waits for them.
// Failures do not stop the others; they are joined into the returned error.
func (d *Dispatcher) Submit(ctx context.Context, c Claim) error {
	errs := make([]error, len(d.submitters))

	var wg sync.WaitGroup
	for i, s := range d.submitters {
		wg.Add(1)
		go func(i int, s Submitter) {
			defer wg.Done()
			if err := s.Submit(ctx, c); err != nil {
				errs[i] = fmt.Errorf("rewards: submitter %d: %w", i, err)
			}
		}(i, s)
	}
	wg.Wait()

	err := errors.Join(errs...)
	if err != nil {
		d.logger.Warn("reward claim incomplete", "golem", c.GolemID, "score", c.Score, "err", err)
	} else {
		d.logger.Debug("reward claim delivered", "golem", c.GolemID, "coins", c.Coins, "tier", c.Tier)
	}
	return err
}

var _ Submitter = (*Dispatcher)(nil)
