package themes

import (
	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/core"
	"github.com/vovakirdan/golem-runner/internal/registry"
)

func init() {
	registry.Register("forest", Forest)
}

// Forest has low logs and clustered stumps.
func Forest() registry.Theme {
	return registry.Theme{
		ID:          "forest",
		Title:       "Forest Trail",
		Description: "Fallen logs, stumps and bushes",
		Catalog: config.Catalog{
			{ID: "stump", Sprite: "stump", Width: 30, Height: 40},
			{ID: "log", Sprite: "log", Width: 60, Height: 25, Collider: collider(0.05, 0.25, 0.9, 0.7)},
			{ID: "bush", Sprite: "bush", Width: 45, Height: 35},
			{
				ID: "stump-row",
				Group: []config.GroupMember{
					{Sprite: "stump", Width: 20, Height: 30, SpacingAfter: 8},
					{Sprite: "stump", Width: 20, Height: 45, SpacingAfter: 8},
					{Sprite: "stump", Width: 20, Height: 30},
				},
			},
		},
		Sprites: map[string]registry.Sprite{
			"stump": {Rune: '█', Color: core.ColorBrown},
			"log":   {Rune: '▬', Color: core.ColorBrown},
			"bush":  {Rune: '♣', Color: core.ColorGreen},
		},
		Fallback:    registry.Sprite{Rune: '█', Color: core.ColorGreen},
		Ground:      '▁',
		GroundColor: core.ColorGreen,
	}
}
