package terrain

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ErrBadMap reports a malformed map file.
var ErrBadMap = errors.New("malformed map file")

var mapMagic = [4]byte{'P', 'G', 'M', '1'}

const (
	mapHeaderSize   = 12
	flatBlockSize   = 1 + 3
	complexCellSize = 3
	complexSize     = 1 + BlockCells*complexCellSize
)

// blockCounts returns how many 8x8 file blocks cover the grid on each axis.
func blockCounts(mapx, mapy int) (int, int) {
	return (mapx + BlockCellsX - 1) / BlockCellsX, (mapy + BlockCellsZ - 1) / BlockCellsZ
}

// LoadMap reads a map file from disk.
func LoadMap(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map %s: %w", path, err)
	}
	g, err := ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("parsing map %s: %w", path, err)
	}
	slog.Info("map loaded", "file", path, "mapx", g.mapx, "mapy", g.mapy)
	return g, nil
}

// ReadMap reads a whole map file from r.
func ReadMap(r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading map: %w", err)
	}
	return ParseMap(data)
}

// ParseMap decodes the raw bytes of a map file.
func ParseMap(data []byte) (*Grid, error) {
	if len(data) < mapHeaderSize || [4]byte(data[:4]) != mapMagic {
		return nil, fmt.Errorf("%w: bad header", ErrBadMap)
	}
	mapx := int(binary.LittleEndian.Uint32(data[4:]))
	mapy := int(binary.LittleEndian.Uint32(data[8:]))
	if mapx <= 0 || mapy <= 0 || mapx > 1<<15 || mapy > 1<<15 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrBadMap, mapx, mapy)
	}

	g := NewGrid(mapx, mapy)
	nbx, nbz := blockCounts(mapx, mapy)
	offset := mapHeaderSize
	for bz := range nbz {
		for bx := range nbx {
			consumed, err := parseBlock(g, data, offset, bx*BlockCellsX, bz*BlockCellsZ)
			if err != nil {
				return nil, fmt.Errorf("block %d,%d: %w", bx, bz, err)
			}
			offset += consumed
		}
	}
	return g, nil
}

// parseBlock decodes one block at offset into the grid cells starting at
// (x0, z0) and returns the number of bytes consumed.
func parseBlock(g *Grid, data []byte, offset, x0, z0 int) (int, error) {
	if offset >= len(data) {
		return 0, fmt.Errorf("%w: offset %d beyond data length %d", ErrBadMap, offset, len(data))
	}

	switch blockType := data[offset]; blockType {
	case BlockTypeFlat:
		if offset+flatBlockSize > len(data) {
			return 0, fmt.Errorf("%w: truncated flat block at offset %d", ErrBadMap, offset)
		}
		h := float32(int16(binary.LittleEndian.Uint16(data[offset+1:])))
		packed := data[offset+3]
		for cz := range BlockCellsZ {
			for cx := range BlockCellsX {
				storeCell(g, x0+cx, z0+cz, h, packed)
			}
		}
		return flatBlockSize, nil

	case BlockTypeComplex:
		if offset+complexSize > len(data) {
			return 0, fmt.Errorf("%w: truncated complex block at offset %d", ErrBadMap, offset)
		}
		p := offset + 1
		for cz := range BlockCellsZ {
			for cx := range BlockCellsX {
				h := float32(int16(binary.LittleEndian.Uint16(data[p:])))
				storeCell(g, x0+cx, z0+cz, h, data[p+2])
				p += complexCellSize
			}
		}
		return complexSize, nil

	default:
		return 0, fmt.Errorf("%w: unknown block type 0x%02X at offset %d", ErrBadMap, blockType, offset)
	}
}

// storeCell writes one decoded cell; cells of partial edge blocks are dropped.
func storeCell(g *Grid, x, z int, h float32, packed byte) {
	if !g.InBounds(x, z) {
		return
	}
	i := g.Index(x, z)
	g.heights[i] = h
	g.kinds[i] = packed & (kindMask | kindBlockedBit)
}

// WriteMap encodes g in map file format. Uniform blocks are written flat.
// Heights are truncated to int16.
func WriteMap(w io.Writer, g *Grid) error {
	bw := bufio.NewWriter(w)
	var hdr [mapHeaderSize]byte
	copy(hdr[:4], mapMagic[:])
	binary.LittleEndian.PutUint32(hdr[4:], uint32(g.mapx))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(g.mapy))
	if _, err := bw.Write(hdr[:]); err != nil {
		return fmt.Errorf("writing map header: %w", err)
	}

	nbx, nbz := blockCounts(g.mapx, g.mapy)
	buf := make([]byte, 0, complexSize)
	for bz := range nbz {
		for bx := range nbx {
			buf = encodeBlock(buf[:0], g, bx*BlockCellsX, bz*BlockCellsZ)
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("writing map block %d,%d: %w", bx, bz, err)
			}
		}
	}
	return bw.Flush()
}

// SaveMap writes g to a file.
func SaveMap(path string, g *Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating map %s: %w", path, err)
	}
	if err := WriteMap(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeBlock(buf []byte, g *Grid, x0, z0 int) []byte {
	cell := func(x, z int) (int16, byte) {
		if !g.InBounds(x, z) {
			// pad partial edge blocks with a copy of the block origin
			x, z = x0, z0
		}
		i := g.Index(x, z)
		return int16(g.heights[i]), g.kinds[i]
	}

	h0, k0 := cell(x0, z0)
	uniform := true
	for cz := range BlockCellsZ {
		for cx := range BlockCellsX {
			h, k := cell(x0+cx, z0+cz)
			if h != h0 || k != k0 {
				uniform = false
			}
		}
	}

	if uniform {
		buf = append(buf, BlockTypeFlat)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(h0))
		return append(buf, k0)
	}

	buf = append(buf, BlockTypeComplex)
	for cz := range BlockCellsZ {
		for cx := range BlockCellsX {
			h, k := cell(x0+cx, z0+cz)
			buf = binary.LittleEndian.AppendUint16(buf, uint16(h))
			buf = append(buf, k)
		}
	}
	return buf
}
