package themes

import (
	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/core"
	"github.com/vovakirdan/golem-runner/internal/registry"
)

func init() {
	registry.Register("desert", Desert)
}

// Desert is the classic cactus field.
func Desert() registry.Theme {
	return registry.Theme{
		ID:          "desert",
		Title:       "Desert Run",
		Description: "Cacti and sun-bleached rocks",
		Catalog: config.Catalog{
			{ID: "cactus-small", Sprite: "cactus", Width: 25, Height: 45},
			{ID: "cactus-tall", Sprite: "cactus", Width: 30, Height: 70},
			{ID: "rock", Sprite: "rock", Width: 40, Height: 30, Collider: collider(0.1, 0.3, 0.8, 0.6)},
			{
				ID: "cactus-pair",
				Group: []config.GroupMember{
					{Sprite: "cactus", Width: 25, Height: 45, SpacingAfter: 10},
					{Sprite: "cactus", Width: 25, Height: 55},
				},
			},
		},
		Sprites: map[string]registry.Sprite{
			"cactus": {Rune: '▓', Color: core.ColorGreen},
			"rock":   {Rune: '▄', Color: core.ColorGray},
		},
		Fallback:    registry.Sprite{Rune: '█', Color: core.ColorBrightGreen},
		Ground:      '▔',
		GroundColor: core.ColorYellow,
	}
}
