package pathcache

import (
	"bytes"
	"math"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockDataRoundTrip(t *testing.T) {
	in := &BlockData{
		BlockSize:   8,
		NbrX:        2,
		NbrZ:        1,
		NumMoveDefs: 1,
		Offsets:     []int32{3, 3, 11, 3},
		Vertices:    []float32{8, float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1)), 0, 0, 0, 0},
	}

	payload, err := EncodeBlockData(in)
	require.NoError(t, err)

	out, err := DecodeBlockData(payload)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeBlockDataRejectsOtherVersion(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte("pathcache-v0\n"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	_, err = DecodeBlockData(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported cache version")
}

func TestDecodeBlockDataGarbage(t *testing.T) {
	_, err := DecodeBlockData([]byte("not zstd at all"))
	assert.Error(t, err)
}
