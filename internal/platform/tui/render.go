package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/golem-runner/internal/core"
	"github.com/vovakirdan/golem-runner/internal/registry"
	"github.com/vovakirdan/golem-runner/internal/rewards"
	"github.com/vovakirdan/golem-runner/internal/runner"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorBrown:        lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// hudRows is the number of screen rows above the play field.
const hudRows = 1

// HUD is the host-side information drawn over a run.
type HUD struct {
	Title     string
	HighScore int
	Paused    bool
	Reward    *rewards.Result // set once the run is over
	Coins     int             // lifetime coins of the golem, if known
}

// viewport maps canvas coordinates to screen cells.
type viewport struct {
	sx, sy float64
	top    int
}

func newViewport(dst *core.Screen, canvas runner.Canvas) viewport {
	playH := dst.Height() - hudRows
	if playH < 1 || canvas.Width <= 0 || canvas.Height <= 0 {
		return viewport{top: hudRows}
	}
	return viewport{
		sx:  float64(dst.Width()) / canvas.Width,
		sy:  float64(playH) / canvas.Height,
		top: hudRows,
	}
}

// cellEpsilon absorbs float error so exact cell boundaries stay exact.
const cellEpsilon = 1e-9

func floorCell(v float64) int { return int(math.Floor(v + cellEpsilon)) }
func ceilCell(v float64) int  { return int(math.Ceil(v - cellEpsilon)) }

// rect converts a canvas box to a cell rectangle at least one cell in size.
func (v viewport) rect(x, y, w, h float64) core.Rect {
	x0 := floorCell(x * v.sx)
	y0 := floorCell(y * v.sy)
	x1 := ceilCell((x + w) * v.sx)
	y1 := ceilCell((y + h) * v.sy)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return core.NewRect(x0, y0+v.top, x1-x0, y1-y0)
}

func (v viewport) row(y float64) int {
	return floorCell(y*v.sy) + v.top
}

// DrawRun renders a snapshot of a run into dst. The screen is cleared first.
func DrawRun(dst *core.Screen, snap runner.Snapshot, theme registry.Theme, hud HUD) {
	dst.Clear()
	v := newViewport(dst, snap.Canvas)

	ground := theme.Ground
	if ground == 0 {
		ground = '─'
	}
	groundRow := v.row(snap.Canvas.GroundY)
	dst.DrawHLine(0, groundRow, dst.Width(), ground, theme.GroundColor)

	for _, o := range snap.Obstacles {
		sp := theme.SpriteFor(o.Sprite)
		r := v.rect(o.X, o.Y, o.Width, o.Height)
		// Obstacles stand on the ground line, not in it.
		if r.Bottom() > groundRow {
			r.H = max(1, groundRow-r.Y)
		}
		dst.DrawRect(r, sp.Rune, sp.Color)
	}

	drawGolem(dst, v, snap.Player, groundRow)
	drawHUD(dst, snap, hud)

	switch {
	case snap.State == runner.StateIdle:
		drawCenteredMessage(dst, hud.Title, "SPACE to start")
	case hud.Paused && snap.State == runner.StatePlaying:
		drawCenteredMessage(dst, "PAUSED", "P to resume  |  ESC for menu")
	case snap.State == runner.StateGameOver:
		drawGameOver(dst, snap, hud)
	}
}

// drawGolem draws the player as a stone block with a two-frame stride.
func drawGolem(dst *core.Screen, v viewport, p runner.PlayerState, groundRow int) {
	r := v.rect(p.X, p.Y, p.Width, p.Height)
	if r.Bottom() > groundRow {
		r.Y = groundRow - r.H
	}
	dst.DrawRect(r, '█', core.ColorOrange)

	// Eyes on the top row
	if r.W >= 3 {
		dst.SetColored(r.Right()-2, r.Y, '▪', core.ColorBrightYellow)
	}

	// Legs on the bottom row
	if r.H >= 2 {
		legs := []rune{'╱', '╲'}
		if p.IsJumping {
			legs = []rune{'╲', '╱'}
		} else if p.Frame%2 == 1 {
			legs = []rune{'│', '│'}
		}
		legRow := r.Bottom() - 1
		for x := r.X; x < r.Right(); x++ {
			dst.SetColored(x, legRow, legs[(x-r.X)%2], core.ColorBrown)
		}
	}
}

func drawHUD(dst *core.Screen, snap runner.Snapshot, hud HUD) {
	left := fmt.Sprintf(" SCORE %05d  HI %05d", int(snap.Metrics.Score), max(hud.HighScore, int(snap.Metrics.Score)))
	dst.DrawTextColored(0, 0, left, core.ColorWhite)

	right := fmt.Sprintf("x%.2f  %s ", snap.Metrics.SpeedScale, hud.Title)
	if hud.Coins > 0 {
		right = fmt.Sprintf("%d coins  ", hud.Coins) + right
	}
	dst.DrawTextColored(dst.Width()-len([]rune(right)), 0, right, core.ColorGray)
}

func drawGameOver(dst *core.Screen, snap runner.Snapshot, hud HUD) {
	lines := []string{fmt.Sprintf("Score %d", int(math.Floor(snap.Metrics.Score)))}
	if res := hud.Reward; res != nil {
		lines = append(lines, fmt.Sprintf("%s  +%d coins", res.Tier.Label, res.Tier.Coins))
		if res.Next != nil {
			lines = append(lines, fmt.Sprintf("%.0f%% to %s", res.Percentage, res.Next.Label))
		}
	}
	lines = append(lines, "R new run  |  ESC menu  |  Q quit")
	drawCenteredMessage(dst, "GAME OVER", lines...)
}

// drawCenteredMessage draws a boxed title with lines of text below it.
func drawCenteredMessage(dst *core.Screen, title string, lines ...string) {
	boxW := len([]rune(title)) + 4
	for _, l := range lines {
		boxW = max(boxW, len([]rune(l))+4)
	}
	boxW = min(boxW, dst.Width())
	boxH := len(lines) + 4
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box)

	dst.DrawTextColored(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, core.ColorBrightYellow)
	for i, l := range lines {
		dst.DrawText(boxX+(boxW-len([]rune(l)))/2, boxY+2+i, l)
	}
}
