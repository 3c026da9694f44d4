// Package rangegrid converts between square occupancy grids centered on their
// owner and the sparse {row, col} offset lists stored in the tables.
package rangegrid

// Radii used by the tables: operators author on 13x13, skills on 9x9.
const (
	OperatorRadius = 6
	SkillRadius    = 4
)

// Offset is a cell relative to the owner. Positive Row points forward (up on
// screen), positive Col points right.
type Offset struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Grid struct {
	Radius int
	Cells  [][]bool
}

// New returns an empty grid of size 2*radius+1 with the center occupied.
func New(radius int) Grid {
	if radius < 0 {
		radius = 0
	}
	size := 2*radius + 1
	cells := make([][]bool, size)
	for r := range cells {
		cells[r] = make([]bool, size)
	}
	cells[radius][radius] = true
	return Grid{Radius: radius, Cells: cells}
}

func (g Grid) Size() int   { return 2*g.Radius + 1 }
func (g Grid) Center() int { return g.Radius }

func (g Grid) InBounds(r, c int) bool {
	size := g.Size()
	return r >= 0 && r < size && c >= 0 && c < size
}

func (g Grid) IsCenter(r, c int) bool {
	return r == g.Radius && c == g.Radius
}

func (g Grid) Get(r, c int) bool {
	if !g.InBounds(r, c) {
		return false
	}
	return g.Cells[r][c]
}

// Toggle flips a cell and reports its new state. The center cannot be
// cleared.
func (g Grid) Toggle(r, c int) bool {
	if !g.InBounds(r, c) {
		return false
	}
	if g.IsCenter(r, c) {
		return true
	}
	g.Cells[r][c] = !g.Cells[r][c]
	return g.Cells[r][c]
}

func (g Grid) Set(r, c int, on bool) {
	if !g.InBounds(r, c) || g.IsCenter(r, c) {
		return
	}
	g.Cells[r][c] = on
}

func (g Grid) Clear() {
	for r := range g.Cells {
		for c := range g.Cells[r] {
			g.Cells[r][c] = false
		}
	}
	g.Cells[g.Radius][g.Radius] = true
}

// Count returns the number of occupied cells excluding the center.
func (g Grid) Count() int {
	n := 0
	for r := range g.Cells {
		for c, on := range g.Cells[r] {
			if on && !g.IsCenter(r, c) {
				n++
			}
		}
	}
	return n
}

// ToSparse lists every occupied cell except the center, in row-major order.
func ToSparse(g Grid) []Offset {
	center := g.Center()
	out := make([]Offset, 0, g.Count())
	for r := range g.Cells {
		for c, on := range g.Cells[r] {
			if !on || g.IsCenter(r, c) {
				continue
			}
			out = append(out, Offset{Row: center - r, Col: c - center})
		}
	}
	return out
}

// FromSparse builds a grid from offsets. Offsets outside the grid are
// dropped without error.
func FromSparse(offsets []Offset, radius int) Grid {
	g := New(radius)
	center := g.Center()
	for _, o := range offsets {
		r := center - o.Row
		c := o.Col + center
		if !g.InBounds(r, c) {
			continue
		}
		g.Cells[r][c] = true
	}
	return g
}

// Dropped returns the offsets FromSparse would discard for radius.
func Dropped(offsets []Offset, radius int) []Offset {
	var out []Offset
	for _, o := range offsets {
		if o.Row < -radius || o.Row > radius || o.Col < -radius || o.Col > radius {
			out = append(out, o)
		}
	}
	return out
}
