// Package themes registers the built-in obstacle themes. Import it for its
// side effects:
//
//	import _ "github.com/vovakirdan/golem-runner/internal/themes"
package themes

import "github.com/vovakirdan/golem-runner/internal/config"

// Default is the theme used when none is named.
const Default = "desert"

func collider(offX, offY, w, h float64) *config.ColliderInsets {
	return &config.ColliderInsets{OffsetX: offX, OffsetY: offY, Width: w, Height: h}
}
