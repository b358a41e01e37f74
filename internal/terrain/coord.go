package terrain

import "math"

// Vec3 is a world-space position. Y is the vertical axis.
type Vec3 struct {
	X, Y, Z float32
}

// Square is a cell coordinate on the grid.
type Square struct {
	X, Z int
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v*s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// SqLength2D returns the squared length on the XZ plane.
func (v Vec3) SqLength2D() float32 { return v.X*v.X + v.Z*v.Z }

// SqDistance2D returns the squared XZ-plane distance between v and o.
func (v Vec3) SqDistance2D(o Vec3) float32 { return v.Sub(o).SqLength2D() }

// Distance2D returns the XZ-plane distance between v and o.
func (v Vec3) Distance2D(o Vec3) float32 {
	return float32(math.Sqrt(float64(v.SqDistance2D(o))))
}

// Square returns the cell containing v. The result is not clamped.
func (v Vec3) Square() Square {
	return Square{X: int(v.X / SquareSize), Z: int(v.Z / SquareSize)}
}

// CellX converts a world X coordinate to a cell column.
func CellX(worldX float32) int {
	return int(worldX / SquareSize)
}

// CellZ converts a world Z coordinate to a cell row.
func CellZ(worldZ float32) int {
	return int(worldZ / SquareSize)
}

// WorldX converts a cell column to world X (centred in cell).
func WorldX(cellX int) float32 {
	return float32(cellX*SquareSize + HalfSquare)
}

// WorldZ converts a cell row to world Z (centred in cell).
func WorldZ(cellZ int) float32 {
	return float32(cellZ*SquareSize + HalfSquare)
}

// Sq returns the square at (x, z).
func Sq(x, z int) Square { return Square{X: x, Z: z} }
