package themes

import (
	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/core"
	"github.com/vovakirdan/golem-runner/internal/registry"
)

func init() {
	registry.Register("cavern", Cavern)
}

// Cavern is the hard theme: taller crystals and wide clusters.
func Cavern() registry.Theme {
	return registry.Theme{
		ID:          "cavern",
		Title:       "Crystal Cavern",
		Description: "Stalagmites and crystal clusters",
		Catalog: config.Catalog{
			{ID: "stalagmite", Sprite: "stalagmite", Width: 25, Height: 75, Collider: collider(0.3, 0.15, 0.4, 0.85)},
			{ID: "crystal", Sprite: "crystal", Width: 35, Height: 50},
			{
				ID: "crystal-cluster",
				Group: []config.GroupMember{
					{Sprite: "crystal", Width: 20, Height: 35, SpacingAfter: 4},
					{Sprite: "crystal", Width: 30, Height: 60, SpacingAfter: 4},
					{Sprite: "crystal", Width: 20, Height: 35},
				},
			},
		},
		Sprites: map[string]registry.Sprite{
			"stalagmite": {Rune: '▲', Color: core.ColorGray},
			"crystal":    {Rune: '◆', Color: core.ColorCyan},
		},
		Fallback:    registry.Sprite{Rune: '█', Color: core.ColorWhite},
		Ground:      '▀',
		GroundColor: core.ColorGray,
	}
}
