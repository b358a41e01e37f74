package pathing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeStateBufferSingleCell(t *testing.T) {
	b := NewNodeStateBuffer(4, 3)
	assert.Nil(t, b.NodeExtraCosts(true))
	assert.Equal(t, float32(0), b.NodeExtraCost(2, 1, true))

	b.SetNodeExtraCost(2, 1, 5, true)
	assert.Equal(t, float32(5), b.NodeExtraCost(2, 1, true))
	assert.Equal(t, float32(0), b.NodeExtraCost(2, 1, false), "overlays are independent")
	assert.Nil(t, b.NodeExtraCosts(false))
	assert.Len(t, b.NodeExtraCosts(true), 12)
}

func TestNodeStateBufferResample(t *testing.T) {
	b := NewNodeStateBuffer(4, 4)
	// 2×2 source scaled onto 4×4: each source value covers a 2×2 quadrant.
	b.SetNodeExtraCosts([]float32{1, 2, 3, 4}, 2, 2, false)

	want := []float32{
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 4, 4,
		3, 3, 4, 4,
	}
	assert.Equal(t, want, b.NodeExtraCosts(false))
}

func TestNodeStateBufferFullSize(t *testing.T) {
	b := NewNodeStateBuffer(3, 2)
	src := []float32{1, 2, 3, 4, 5, 6}
	b.SetNodeExtraCosts(src, 3, 2, true)
	assert.Equal(t, src, b.NodeExtraCosts(true))
}
