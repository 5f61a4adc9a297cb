// Package rewards maps final run scores to coin payouts and delivers reward
// claims to the services that credit them.
package rewards

import "math"

// Tier is a contiguous score band and its payout.
type Tier struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"` // inclusive; < 0 means unbounded
	Coins int    `json:"coins"`
	Label string `json:"label"`
}

// Unbounded reports whether the tier has no upper score limit.
func (t Tier) Unbounded() bool {
	return t.Max < 0
}

// Contains reports whether score falls into the tier.
func (t Tier) Contains(score int) bool {
	return score >= t.Min && (t.Unbounded() || score <= t.Max)
}

// Table is an ordered list of non-overlapping tiers, lowest first.
type Table []Tier

// DefaultTable is the payout table used by every host.
var DefaultTable = Table{
	{Min: 0, Max: 999, Coins: 5, Label: "Beginner"},
	{Min: 1000, Max: 2999, Coins: 15, Label: "Runner"},
	{Min: 3000, Max: 5999, Coins: 30, Label: "Speedster"},
	{Min: 6000, Max: 9999, Coins: 50, Label: "Champion"},
	{Min: 10000, Max: -1, Coins: 100, Label: "Legend"},
}

// Result is the outcome of a lookup.
type Result struct {
	Tier       Tier    `json:"tier"`
	Percentage float64 `json:"percentage"` // progress through Tier, 0..100
	Next       *Tier   `json:"next,omitempty"`
}

// Lookup resolves score against DefaultTable.
func Lookup(score float64) Result {
	return DefaultTable.Lookup(score)
}

// Lookup returns the tier containing score, the progress through it and the
// tier above. Scores matching no tier fall back to the first one.
func (tb Table) Lookup(score float64) Result {
	if len(tb) == 0 {
		return Result{}
	}

	s := int(math.Floor(score))
	idx := 0
	for i, t := range tb {
		if t.Contains(s) {
			idx = i
			break
		}
	}

	t := tb[idx]
	res := Result{Tier: t, Percentage: progress(t, s)}
	if idx+1 < len(tb) {
		next := tb[idx+1]
		res.Next = &next
	}
	return res
}

func progress(t Tier, score int) float64 {
	if t.Unbounded() {
		return 100
	}
	if t.Max <= t.Min {
		return 100
	}
	p := float64(score-t.Min) / float64(t.Max-t.Min) * 100
	return math.Max(0, math.Min(100, p))
}
