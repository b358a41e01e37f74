package terrain

// Grid geometry.
const (
	// SquareSize is the edge length of one cell in world units.
	SquareSize = 8
	// HalfSquare offsets a cell corner to its centre.
	HalfSquare = SquareSize / 2
)

// Map file block layout.
const (
	BlockCellsX = 8
	BlockCellsZ = 8
	BlockCells  = BlockCellsX * BlockCellsZ // 64
)

// Block type identifiers in the map file.
const (
	BlockTypeFlat    byte = 0x00
	BlockTypeComplex byte = 0x01
)

// Terrain kinds.
const (
	NumKinds = 16

	// kindBlockedBit marks a statically blocked cell in a packed kind byte.
	kindBlockedBit byte = 0x80
	kindMask       byte = 0x0F
)
