// Package registry provides a global registry of obstacle themes.
// Themes register themselves in init() functions, allowing the hosts
// to discover them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/core"
)

// Sprite is how a renderer draws an obstacle sprite key in cells.
type Sprite struct {
	Rune  rune
	Color core.Color
}

// Theme bundles an obstacle catalog with the look of its sprites.
type Theme struct {
	// ID is a unique identifier (e.g., "desert"), used for CLI commands and
	// score storage.
	ID string

	// Title is a human-readable name for display.
	Title string

	Description string

	// Catalog is what the spawner draws from.
	Catalog config.Catalog

	// Sprites maps the catalog's sprite keys to cells. Unknown keys fall
	// back to the theme's Fallback sprite.
	Sprites  map[string]Sprite
	Fallback Sprite

	Ground      rune
	GroundColor core.Color
}

// SpriteFor resolves a sprite key.
func (t Theme) SpriteFor(key string) Sprite {
	if s, ok := t.Sprites[key]; ok {
		return s
	}
	return t.Fallback
}

// CatalogFor returns the catalog a run should use: the config's obstacle
// list when it has one, the theme's own catalog otherwise.
func (t Theme) CatalogFor(cfg config.RunnerConfig) config.Catalog {
	if len(cfg.Obstacles) > 0 {
		return cfg.Obstacles
	}
	return t.Catalog
}

// ThemeInfo contains metadata about a registered theme.
type ThemeInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory builds a fresh copy of a theme.
type Factory func() Theme

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]ThemeInfo)
	mu        sync.RWMutex
)

// Register adds a theme factory to the registry.
// Typically called from a theme's init() function.
// Panics if a theme with the same ID is already registered or its catalog
// is invalid.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: theme %q already registered", id))
	}

	t := f()
	if err := t.Catalog.Validate(); err != nil {
		panic(fmt.Sprintf("registry: theme %q: %v", id, err))
	}

	factories[id] = f
	infos[id] = ThemeInfo{ID: id, Title: t.Title, Description: t.Description}
}

// List returns information about all registered themes, sorted by ID.
func List() []ThemeInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ThemeInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds a theme by its ID.
// Returns an error if the theme ID is not registered.
func Create(id string) (Theme, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return Theme{}, fmt.Errorf("registry: unknown theme %q", id)
	}

	return f(), nil
}

// Exists checks if a theme with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
