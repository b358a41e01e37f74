package terrain

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFlatMapData creates a map file with every block flat at the given height.
func buildFlatMapData(mapx, mapy int, height int16, kind byte) []byte {
	data := append([]byte(nil), mapMagic[:]...)
	data = binary.LittleEndian.AppendUint32(data, uint32(mapx))
	data = binary.LittleEndian.AppendUint32(data, uint32(mapy))
	nbx, nbz := blockCounts(mapx, mapy)
	for range nbx * nbz {
		data = append(data, BlockTypeFlat)
		data = binary.LittleEndian.AppendUint16(data, uint16(height))
		data = append(data, kind)
	}
	return data
}

func TestParseMapFlat(t *testing.T) {
	g, err := ParseMap(buildFlatMapData(20, 12, -40, 3))
	require.NoError(t, err)

	assert.Equal(t, 20, g.MapX())
	assert.Equal(t, 12, g.MapY())
	assert.Equal(t, float32(-40), g.Height(19, 11))
	assert.Equal(t, uint8(3), g.Kind(0, 0))
	assert.False(t, g.Blocked(10, 10))
}

func TestParseMapComplexBlock(t *testing.T) {
	data := append([]byte(nil), mapMagic[:]...)
	data = binary.LittleEndian.AppendUint32(data, 8)
	data = binary.LittleEndian.AppendUint32(data, 8)
	data = append(data, BlockTypeComplex)
	for i := range BlockCells {
		data = binary.LittleEndian.AppendUint16(data, uint16(i))
		packed := byte(1)
		if i == 9 {
			packed |= kindBlockedBit
		}
		data = append(data, packed)
	}

	g, err := ParseMap(data)
	require.NoError(t, err)

	// cell index = z*8 + x
	assert.Equal(t, float32(9), g.Height(1, 1))
	assert.True(t, g.Blocked(1, 1))
	assert.False(t, g.Blocked(0, 1))
	assert.Equal(t, float32(63), g.Height(7, 7))
	assert.Equal(t, uint8(1), g.Kind(7, 7))
}

func TestParseMapErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte("XXXX\x08\x00\x00\x00\x08\x00\x00\x00")},
		{"zero size", buildFlatMapData(0, 0, 0, 0)},
		{"truncated", buildFlatMapData(16, 16, 0, 0)[:20]},
		{"unknown block", append(buildFlatMapData(8, 8, 0, 0)[:mapHeaderSize], 0x7F)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMap(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBadMap)
		})
	}
}

func TestWriteReadMapRoundTrip(t *testing.T) {
	g := NewGrid(21, 13)
	g.SetHeight(3, 4, 17)
	g.SetKind(20, 12, 9)
	g.BlockRect(10, 0, 12, 5, true)

	var buf bytes.Buffer
	require.NoError(t, WriteMap(&buf, g))

	got, err := ReadMap(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Heights(), got.Heights())
	assert.Equal(t, g.Kinds(), got.Kinds())
}

func TestSaveLoadMap(t *testing.T) {
	g := NewGrid(9, 9)
	g.SetBlocked(4, 4, true)
	path := filepath.Join(t.TempDir(), "test.pgm")

	require.NoError(t, SaveMap(path, g))
	got, err := LoadMap(path)
	require.NoError(t, err)
	assert.True(t, got.Blocked(4, 4))

	_, err = LoadMap(filepath.Join(t.TempDir(), "missing.pgm"))
	assert.Error(t, err)
}
