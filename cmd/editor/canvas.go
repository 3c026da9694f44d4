package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/akdata/levels"
	"github.com/milk9111/akdata/rangegrid"
)

var (
	canvasBackground = color.RGBA{R: 18, G: 22, B: 30, A: 255}
	gridLineColor    = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	rangeOnColor     = color.RGBA{R: 80, G: 160, B: 255, A: 255}
	rangeOffColor    = color.RGBA{R: 50, G: 50, B: 60, A: 255}
	ownerColor       = color.RGBA{R: 255, G: 200, B: 60, A: 255}
)

// cellLayout maps a rows x cols board centered in area.
type cellLayout struct {
	x, y float64
	cell float64
	rows int
	cols int
}

func fitCells(area image.Rectangle, rows, cols int, maxCell float64) cellLayout {
	cell := maxCell
	if rows > 0 && cols > 0 {
		if c := float64(area.Dx()-16) / float64(cols); c < cell {
			cell = c
		}
		if c := float64(area.Dy()-40) / float64(rows); c < cell {
			cell = c
		}
	}
	if cell < 4 {
		cell = 4
	}
	w := cell * float64(cols)
	h := cell * float64(rows)
	return cellLayout{
		x:    float64(area.Min.X) + (float64(area.Dx())-w)/2,
		y:    float64(area.Min.Y) + (float64(area.Dy())-h)/2,
		cell: cell,
		rows: rows,
		cols: cols,
	}
}

// at returns the screen row and column under (mx, my).
func (l cellLayout) at(mx, my int) (int, int, bool) {
	fx := (float64(mx) - l.x) / l.cell
	fy := (float64(my) - l.y) / l.cell
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	c, r := int(fx), int(fy)
	if r >= l.rows || c >= l.cols {
		return 0, 0, false
	}
	return r, c, true
}

func (l cellLayout) rect(r, c int) (float32, float32, float32) {
	return float32(l.x + float64(c)*l.cell), float32(l.y + float64(r)*l.cell), float32(l.cell)
}

func (l cellLayout) center(r, c int) (float32, float32) {
	x, y, s := l.rect(r, c)
	return x + s/2, y + s/2
}

func justClicked(area image.Rectangle, button ebiten.MouseButton) (int, int, bool) {
	if !inpututil.IsMouseButtonJustPressed(button) {
		return 0, 0, false
	}
	mx, my := ebiten.CursorPosition()
	if !image.Pt(mx, my).In(area) {
		return 0, 0, false
	}
	return mx, my, true
}

// rangeCellAt reports the range cell clicked this frame.
func rangeCellAt(g rangegrid.Grid, area image.Rectangle) (int, int, bool) {
	mx, my, ok := justClicked(area, ebiten.MouseButtonLeft)
	if !ok {
		return 0, 0, false
	}
	return fitCells(area, g.Size(), g.Size(), 40).at(mx, my)
}

func drawRangeGrid(screen *ebiten.Image, g rangegrid.Grid, area image.Rectangle) {
	vector.FillRect(screen, float32(area.Min.X), float32(area.Min.Y), float32(area.Dx()), float32(area.Dy()), canvasBackground, false)
	lay := fitCells(area, g.Size(), g.Size(), 40)
	for r := 0; r < g.Size(); r++ {
		for c := 0; c < g.Size(); c++ {
			x, y, s := lay.rect(r, c)
			col := rangeOffColor
			switch {
			case g.IsCenter(r, c):
				col = ownerColor
			case g.Get(r, c):
				col = rangeOnColor
			}
			vector.FillRect(screen, x, y, s, s, col, false)
			vector.StrokeRect(screen, x, y, s, s, 1, gridLineColor, false)
		}
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Range %dx%d  cells: %d  (click to toggle, owner faces up)", g.Size(), g.Size(), g.Count()-1), area.Min.X+8, area.Min.Y+8)
}

// levelCanvas draws a level board with game row 0 at the bottom.
type levelCanvas struct {
	cellSize float64
	hoverRow int
	hoverCol int
}

func (lc *levelCanvas) layout(l *levels.Level, area image.Rectangle) cellLayout {
	return fitCells(area, l.Rows, l.Cols, lc.cellSize)
}

// gameCell converts a screen hit to game coordinates.
func (lc *levelCanvas) gameCell(l *levels.Level, area image.Rectangle, mx, my int) (int, int, bool) {
	r, c, ok := lc.layout(l, area).at(mx, my)
	if !ok {
		return 0, 0, false
	}
	return levels.GameRow(r, l.Rows), c, true
}

func (lc *levelCanvas) hover(l *levels.Level, area image.Rectangle) {
	lc.hoverRow, lc.hoverCol = -1, -1
	mx, my := ebiten.CursorPosition()
	if !image.Pt(mx, my).In(area) {
		return
	}
	if gr, c, ok := lc.gameCell(l, area, mx, my); ok {
		lc.hoverRow, lc.hoverCol = gr, c
	}
}

func (lc *levelCanvas) draw(screen *ebiten.Image, l *levels.Level, area image.Rectangle) {
	vector.FillRect(screen, float32(area.Min.X), float32(area.Min.Y), float32(area.Dx()), float32(area.Dy()), canvasBackground, false)
	lay := lc.layout(l, area)
	for jr := 0; jr < l.Rows; jr++ {
		gr := levels.GameRow(jr, l.Rows)
		for c := 0; c < l.Cols; c++ {
			x, y, s := lay.rect(jr, c)
			col := levels.UnknownTileColor
			if t, ok := l.TileAt(gr, c); ok {
				col = t.Color()
			}
			vector.FillRect(screen, x, y, s, s, col, false)
			vector.StrokeRect(screen, x, y, s, s, 1, gridLineColor, false)
			if gr == lc.hoverRow && c == lc.hoverCol {
				vector.StrokeRect(screen, x+1, y+1, s-2, s-2, 2, colornames.White, false)
			}
		}
	}
	for c := 0; c < l.Cols; c++ {
		x, _, s := lay.rect(l.Rows-1, c)
		ebitenutil.DebugPrintAt(screen, fmt.Sprint(c), int(x+s/2)-3, int(lay.y+lay.cell*float64(l.Rows))+2)
	}
	for gr := 0; gr < l.Rows; gr++ {
		_, y, s := lay.rect(levels.JSONRow(gr, l.Rows), 0)
		ebitenutil.DebugPrintAt(screen, fmt.Sprint(gr), int(lay.x)-16, int(y+s/2)-8)
	}
	if lc.hoverRow >= 0 {
		label := fmt.Sprintf("(%d, %d)", lc.hoverRow, lc.hoverCol)
		if t, ok := l.TileAt(lc.hoverRow, lc.hoverCol); ok {
			label += " " + t.TileKey
		}
		ebitenutil.DebugPrintAt(screen, label, area.Min.X+8, area.Max.Y-20)
	}
}

// drawRoute overlays one route. Positions outside the grid are skipped.
func (lc *levelCanvas) drawRoute(screen *ebiten.Image, l *levels.Level, area image.Rectangle, rt *levels.Route, highlight bool) {
	lay := lc.layout(l, area)
	lineCol := color.RGBA{R: 100, G: 140, B: 200, A: 160}
	if highlight {
		lineCol = color.RGBA{R: 255, G: 218, B: 128, A: 255}
	}
	var pts []levels.GridPos
	if rt.StartPosition.IsSet() {
		pts = append(pts, rt.StartPosition)
	}
	for _, cp := range rt.Checkpoints {
		pts = append(pts, cp.Position)
	}
	if rt.EndPosition.IsSet() {
		pts = append(pts, rt.EndPosition)
	}
	center := func(p levels.GridPos) (float32, float32, bool) {
		if !l.InGrid(p.Row, p.Col) {
			return 0, 0, false
		}
		x, y := lay.center(levels.JSONRow(p.Row, l.Rows), p.Col)
		return x, y, true
	}
	for i := 1; i < len(pts); i++ {
		x0, y0, ok0 := center(pts[i-1])
		x1, y1, ok1 := center(pts[i])
		if ok0 && ok1 {
			vector.StrokeLine(screen, x0, y0, x1, y1, 3, lineCol, true)
		}
	}
	mark := func(p levels.GridPos, s string) {
		if x, y, ok := center(p); ok {
			ebitenutil.DebugPrintAt(screen, s, int(x)-3, int(y)-8)
		}
	}
	if rt.StartPosition.IsSet() {
		mark(rt.StartPosition, "S")
	}
	for i, cp := range rt.Checkpoints {
		mark(cp.Position, fmt.Sprint(i+1))
	}
	if rt.EndPosition.IsSet() {
		mark(rt.EndPosition, "E")
	}
}
