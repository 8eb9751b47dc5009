package world

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Rect is an axis-aligned cell rectangle: Pos is the top-left cell and
// Size the footprint in whole cells. The y axis grows downward.
type Rect struct {
	Pos  Point
	Size Size
}

func RectAt(x, y, w, h int) Rect {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return Rect{Pos: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Pos.X && p.X < r.Pos.X+r.Size.W &&
		p.Y >= r.Pos.Y && p.Y < r.Pos.Y+r.Size.H
}

func (r Rect) Overlaps(o Rect) bool {
	return r.Pos.X < o.Pos.X+o.Size.W && o.Pos.X < r.Pos.X+r.Size.W &&
		r.Pos.Y < o.Pos.Y+o.Size.H && o.Pos.Y < r.Pos.Y+r.Size.H
}

func (r Rect) Shift(d Delta) Rect {
	r.Pos.X += d.DX
	r.Pos.Y += d.DY
	return r
}

// Interior is the rectangle minus its one-cell border. Empty footprints
// (width or height under 3) have no interior.
func (r Rect) Interior() Rect {
	if r.Size.W < 3 || r.Size.H < 3 {
		return Rect{Pos: r.Pos, Size: Size{W: 0, H: 0}}
	}
	return Rect{
		Pos:  Point{X: r.Pos.X + 1, Y: r.Pos.Y + 1},
		Size: Size{W: r.Size.W - 2, H: r.Size.H - 2},
	}
}

// Adjacent reports whether the rectangles touch orthogonally without
// overlapping.
func (r Rect) Adjacent(o Rect) bool {
	if r.Overlaps(o) {
		return false
	}
	for _, d := range []Delta{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
		if r.Shift(d).Overlaps(o) {
			return true
		}
	}
	return false
}

type Delta struct {
	DX int
	DY int
}

func (d Delta) IsZero() bool { return d.DX == 0 && d.DY == 0 }

var directionDeltas = map[string]Delta{
	"up":    {DX: 0, DY: -1},
	"north": {DX: 0, DY: -1},
	"down":  {DX: 0, DY: 1},
	"south": {DX: 0, DY: 1},
	"left":  {DX: -1, DY: 0},
	"west":  {DX: -1, DY: 0},
	"right": {DX: 1, DY: 0},
	"east":  {DX: 1, DY: 0},
}

// ParseDirection resolves a named direction, falling back to raw dx/dy
// steps clamped to one cell. A zero delta is not a direction.
func ParseDirection(name string, dx, dy int) (Delta, bool) {
	if d, ok := directionDeltas[name]; ok {
		return d, true
	}
	d := Delta{DX: clampStep(dx), DY: clampStep(dy)}
	if d.IsZero() {
		return Delta{}, false
	}
	return d, true
}

func clampStep(v int) int {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
