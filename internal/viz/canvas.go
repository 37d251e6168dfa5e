package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/coinburst/internal/burst"
)

const brailleBlank = 0x2800

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// ordered dither thresholds, one per dot of a cell
var ditherMap = [4][2]float64{
	{0.5 / 8, 4.5 / 8},
	{6.5 / 8, 2.5 / 8},
	{1.5 / 8, 5.5 / 8},
	{7.5 / 8, 3.5 / 8},
}

// Canvas is a braille dot grid. Coordinates passed to its methods are in
// dots; the grid is (Width*2) x (Height*4) dots. Each cell carries the tint
// of the last coin drawn into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tint          [][]burst.RGB
	tinted        [][]bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid for w x h cells and clears it.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.Tint = make([][]burst.RGB, h)
	c.tinted = make([][]bool, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tint[i] = make([]burst.RGB, w)
		c.tinted[i] = make([]bool, w)
	}
	c.Clear()
}

func (c *Canvas) cell(x, y int) (int, int, bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return col, row, true
}

func (c *Canvas) Set(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Unset(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < brailleBlank {
		c.Grid[row][col] = brailleBlank
	}
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	col, row, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

// Tinted reports whether cell (col, row) carries a coin tint.
func (c *Canvas) Tinted(col, row int) bool {
	if row < 0 || row >= c.Height || col < 0 || col >= c.Width {
		return false
	}
	return c.tinted[row][col]
}

// SetTinted lights the dot when opacity beats its dither threshold and tints
// its cell.
func (c *Canvas) SetTinted(x, y int, tint burst.RGB, opacity float64) {
	col, row, ok := c.cell(x, y)
	if !ok || opacity <= ditherMap[y%4][x%2] {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Tint[row][col] = tint
	c.tinted[row][col] = true
}

// FillCoin fills the ellipse a disc of radius r makes on screen. (ux, uy)
// is the screen direction of the disc normal and squash the cosine
// between normal and view ray; both are ignored for discs seen face on.
func (c *Canvas) FillCoin(cx, cy, r, ux, uy, squash float64, tint burst.RGB, opacity float64) {
	if r <= 0 || opacity <= 0 {
		return
	}
	minor := math.Max(r*math.Abs(squash), 1)
	if l := math.Hypot(ux, uy); l < 1e-9 {
		ux, uy, minor = 1, 0, r
	} else {
		ux, uy = ux/l, uy/l
	}
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			a := dx*ux + dy*uy
			b := -dx*uy + dy*ux
			if (a*a)/(minor*minor)+(b*b)/(r*r) <= 1 {
				c.SetTinted(x, y, tint, opacity)
			}
		}
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.tinted[i][j] = false
		}
	}
}

// Dots counts lit dots.
func (c *Canvas) Dots() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := r - brailleBlank; bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render draws the grid with cell tints, batching runs of equal colour.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.sameTint(i, start, j) {
				continue
			}
			run := string(row[start:j])
			if c.tinted[i][start] {
				t := c.Tint[i][start]
				run = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Hex())).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Canvas) sameTint(row, a, b int) bool {
	if c.tinted[row][a] != c.tinted[row][b] {
		return false
	}
	return !c.tinted[row][a] || c.Tint[row][a] == c.Tint[row][b]
}
