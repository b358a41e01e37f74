package terrain

import "fmt"

// Grid is the terrain field the planners search over.
// Heights, kinds and static blocking change only through the Set* mutators,
// which must be followed by a terrain-change notification to the planners.
type Grid struct {
	mapx, mapy int
	heights    []float32
	kinds      []byte // low nibble: kind, high bit: static blocked
	blocking   *BlockingMap
}

// NewGrid creates a flat, fully open grid of mapx × mapy cells (kind 0).
func NewGrid(mapx, mapy int) *Grid {
	if mapx <= 0 || mapy <= 0 {
		panic(fmt.Sprintf("terrain: invalid grid size %dx%d", mapx, mapy))
	}
	return &Grid{
		mapx:     mapx,
		mapy:     mapy,
		heights:  make([]float32, mapx*mapy),
		kinds:    make([]byte, mapx*mapy),
		blocking: newBlockingMap(mapx, mapy),
	}
}

// MapX returns the number of cell columns.
func (g *Grid) MapX() int { return g.mapx }

// MapY returns the number of cell rows (world Z axis).
func (g *Grid) MapY() int { return g.mapy }

// InBounds reports whether (x, z) is a valid cell.
func (g *Grid) InBounds(x, z int) bool {
	return x >= 0 && z >= 0 && x < g.mapx && z < g.mapy
}

// Index returns the flat index of cell (x, z). The cell must be in bounds.
func (g *Grid) Index(x, z int) int { return z*g.mapx + x }

// Height returns the terrain height of cell (x, z).
func (g *Grid) Height(x, z int) float32 { return g.heights[g.Index(x, z)] }

// Kind returns the terrain kind of cell (x, z).
func (g *Grid) Kind(x, z int) uint8 { return g.kinds[g.Index(x, z)] & kindMask }

// Blocked reports whether cell (x, z) is statically blocked (structures, cliffs).
func (g *Grid) Blocked(x, z int) bool { return g.kinds[g.Index(x, z)]&kindBlockedBit != 0 }

// SetHeight sets the height of cell (x, z).
func (g *Grid) SetHeight(x, z int, h float32) { g.heights[g.Index(x, z)] = h }

// SetKind sets the terrain kind of cell (x, z), keeping its blocked flag.
func (g *Grid) SetKind(x, z int, kind uint8) {
	i := g.Index(x, z)
	g.kinds[i] = g.kinds[i]&kindBlockedBit | kind&kindMask
}

// SetBlocked marks cell (x, z) as statically blocked or open.
func (g *Grid) SetBlocked(x, z int, blocked bool) {
	i := g.Index(x, z)
	if blocked {
		g.kinds[i] |= kindBlockedBit
	} else {
		g.kinds[i] &^= kindBlockedBit
	}
}

// BlockRect marks every cell in [x1,x2]×[z1,z2] (inclusive, clamped) as blocked.
func (g *Grid) BlockRect(x1, z1, x2, z2 int, blocked bool) {
	x1, z1 = max(x1, 0), max(z1, 0)
	x2, z2 = min(x2, g.mapx-1), min(z2, g.mapy-1)
	for z := z1; z <= z2; z++ {
		for x := x1; x <= x2; x++ {
			g.SetBlocked(x, z, blocked)
		}
	}
}

// Blocking returns the dynamic blocking map of solid objects on this grid.
func (g *Grid) Blocking() *BlockingMap { return g.blocking }

// ClampInBounds clamps a world position into the map area.
func (g *Grid) ClampInBounds(p Vec3) Vec3 {
	maxX := float32(g.mapx*SquareSize - 1)
	maxZ := float32(g.mapy*SquareSize - 1)
	p.X = min(max(p.X, 0), maxX)
	p.Z = min(max(p.Z, 0), maxZ)
	return p
}

// ClampSquare clamps a cell coordinate into the grid.
func (g *Grid) ClampSquare(s Square) Square {
	s.X = min(max(s.X, 0), g.mapx-1)
	s.Z = min(max(s.Z, 0), g.mapy-1)
	return s
}

// SquarePos returns the world position of a cell centre at terrain height.
func (g *Grid) SquarePos(s Square) Vec3 {
	return Vec3{X: WorldX(s.X), Y: g.Height(s.X, s.Z), Z: WorldZ(s.Z)}
}

// Heights exposes the height field for identity hashing. Callers must not modify it.
func (g *Grid) Heights() []float32 { return g.heights }

// Kinds exposes the packed kind field for identity hashing. Callers must not modify it.
func (g *Grid) Kinds() []byte { return g.kinds }
