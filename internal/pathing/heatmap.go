package pathing

// HeatMap is an advisory per-cell congestion counter. Values decay linearly
// each tick; the decay is applied lazily through a running offset so Update
// is constant time.
type HeatMap struct {
	enabled bool
	decay   float64
	offset  float64
	mapx    int
	mapy    int
	cells   []heatCell
}

type heatCell struct {
	value float64 // absolute: current heat + offset at write time
	owner int32
}

// NewHeatMap creates a heat map; decay is subtracted from every cell per tick.
func NewHeatMap(mapx, mapy int, enabled bool, decay float32) *HeatMap {
	return &HeatMap{
		enabled: enabled,
		decay:   float64(decay),
		mapx:    mapx,
		mapy:    mapy,
		cells:   make([]heatCell, mapx*mapy),
	}
}

// Enabled reports whether heat takes part in search costs.
func (h *HeatMap) Enabled() bool { return h.enabled }

// SetEnabled toggles heat mapping globally.
func (h *HeatMap) SetEnabled(enabled bool) { h.enabled = enabled }

// Value returns the current heat of cell (x, z).
func (h *HeatMap) Value(x, z int) float32 {
	v := h.cells[z*h.mapx+x].value - h.offset
	if v <= 0 {
		return 0
	}
	return float32(v)
}

// Owner returns the id of the last entity that deposited heat on (x, z).
func (h *HeatMap) Owner(x, z int) int { return int(h.cells[z*h.mapx+x].owner) }

// Set overwrites the heat of cell (x, z).
func (h *HeatMap) Set(x, z int, value float32, owner int) {
	c := &h.cells[z*h.mapx+x]
	c.value = float64(max(value, 0)) + h.offset
	c.owner = int32(owner)
}

// Add deposits extra heat on cell (x, z).
func (h *HeatMap) Add(x, z int, value float32, owner int) {
	h.Set(x, z, h.Value(x, z)+value, owner)
}

// Update advances decay by one tick.
func (h *HeatMap) Update() {
	h.offset += h.decay
}
