package pathing

// NodeStateBuffer holds the per-cell extra-cost overlays a searcher adds to
// intrinsic move costs. The synced overlay takes part in replicated planning;
// the unsynced one serves local previews. Overlays are allocated on first write.
type NodeStateBuffer struct {
	mapx, mapy         int
	extraCostsSynced   []float32
	extraCostsUnsynced []float32
}

// NewNodeStateBuffer creates an empty buffer for a mapx × mapy grid.
func NewNodeStateBuffer(mapx, mapy int) *NodeStateBuffer {
	return &NodeStateBuffer{mapx: mapx, mapy: mapy}
}

func (b *NodeStateBuffer) overlay(synced, alloc bool) []float32 {
	p := &b.extraCostsUnsynced
	if synced {
		p = &b.extraCostsSynced
	}
	if *p == nil && alloc {
		*p = make([]float32, b.mapx*b.mapy)
	}
	return *p
}

// SetNodeExtraCost sets the extra cost of one cell. The cell must be in bounds.
func (b *NodeStateBuffer) SetNodeExtraCost(x, z int, cost float32, synced bool) {
	b.overlay(synced, true)[z*b.mapx+x] = cost
}

// SetNodeExtraCosts loads a sizex × sizez cost array, resampled onto the grid.
// costs must hold at least sizex*sizez values; sizes must not exceed the grid.
func (b *NodeStateBuffer) SetNodeExtraCosts(costs []float32, sizex, sizez int, synced bool) {
	dst := b.overlay(synced, true)
	for z := range b.mapy {
		row := (z * sizez / b.mapy) * sizex
		for x := range b.mapx {
			dst[z*b.mapx+x] = costs[row+x*sizex/b.mapx]
		}
	}
}

// NodeExtraCost returns the extra cost of one cell, 0 if never set.
func (b *NodeStateBuffer) NodeExtraCost(x, z int, synced bool) float32 {
	o := b.overlay(synced, false)
	if o == nil {
		return 0
	}
	return o[z*b.mapx+x]
}

// NodeExtraCosts returns the whole overlay, or nil if it was never written.
func (b *NodeStateBuffer) NodeExtraCosts(synced bool) []float32 {
	return b.overlay(synced, false)
}
