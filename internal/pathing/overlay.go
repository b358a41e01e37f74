package pathing

import "github.com/udisondev/pathgrid/internal/terrain"

func (m *Manager) buffers() [3]*NodeStateBuffer {
	return [3]*NodeStateBuffer{
		m.maxRes.NodeStateBuffer(),
		m.medRes.NodeStateBuffer(),
		m.lowRes.NodeStateBuffer(),
	}
}

// SetNodeExtraCost sets the extra cost of one cell on every tier.
// It returns false for out-of-bounds cells.
func (m *Manager) SetNodeExtraCost(x, z int, cost float32, synced bool) bool {
	if !m.grid.InBounds(x, z) {
		return false
	}
	for _, b := range m.buffers() {
		b.SetNodeExtraCost(x, z, cost, synced)
	}
	return true
}

// SetNodeExtraCosts loads a sizex × sizez cost array, resampled onto the grid,
// on every tier. It returns false when the sizes or array length are invalid.
func (m *Manager) SetNodeExtraCosts(costs []float32, sizex, sizez int, synced bool) bool {
	if sizex < 1 || sizez < 1 || sizex > m.grid.MapX() || sizez > m.grid.MapY() {
		return false
	}
	if len(costs) < sizex*sizez {
		return false
	}
	for _, b := range m.buffers() {
		b.SetNodeExtraCosts(costs, sizex, sizez, synced)
	}
	return true
}

// NodeExtraCost returns the extra cost of one cell, 0 when out of bounds.
func (m *Manager) NodeExtraCost(x, z int, synced bool) float32 {
	if !m.grid.InBounds(x, z) {
		return 0
	}
	return m.maxRes.NodeStateBuffer().NodeExtraCost(x, z, synced)
}

// NodeExtraCosts returns the whole overlay, nil when never written.
func (m *Manager) NodeExtraCosts(synced bool) []float32 {
	return m.maxRes.NodeStateBuffer().NodeExtraCosts(synced)
}

// SetHeatMappingEnabled toggles heat on step costs and deposits.
func (m *Manager) SetHeatMappingEnabled(enabled bool) { m.heat.SetEnabled(enabled) }

// HeatMappingEnabled reports whether heat mapping is on.
func (m *Manager) HeatMappingEnabled() bool { return m.heat.Enabled() }

// SetHeatOnSquare overwrites the heat of one cell. It returns false for
// out-of-bounds cells.
func (m *Manager) SetHeatOnSquare(x, z int, value float32, ownerID int) bool {
	if !m.grid.InBounds(x, z) {
		return false
	}
	m.heat.Set(x, z, value, ownerID)
	return true
}

// HeatOnSquare returns the heat of one cell, 0 when out of bounds.
func (m *Manager) HeatOnSquare(x, z int) float32 {
	if !m.grid.InBounds(x, z) {
		return 0
	}
	return m.heat.Value(x, z)
}

// UpdatePath deposits heat along the remaining fine tier of h, heaviest at
// the agent's end. The total deposit equals the movement class's HeatProduced.
func (m *Manager) UpdatePath(owner Owner, h Handle) {
	mp := m.paths.Get(h)
	if mp == nil || !mp.MoveDef.HeatMapping || !m.heat.Enabled() {
		return
	}
	squares := m.GetDetailedPathSquares(h)
	n := len(squares)
	if n == 0 {
		return
	}
	id := ownerID(owner)
	total := float32(n*(n+1)) / 2
	for k, sq := range squares {
		m.heat.Add(sq.X, sq.Z, float32(n-k)/total*mp.MoveDef.HeatProduced, id)
	}
}

// GetDetailedPath returns the remaining fine waypoints in travel order.
func (m *Manager) GetDetailedPath(h Handle) []terrain.Vec3 {
	mp := m.paths.Get(h)
	if mp == nil {
		return nil
	}
	return reversed(mp.MaxRes.Waypoints)
}

// GetDetailedPathSquares returns the remaining fine cells in travel order.
func (m *Manager) GetDetailedPathSquares(h Handle) []terrain.Square {
	mp := m.paths.Get(h)
	if mp == nil {
		return nil
	}
	return reversed(mp.MaxRes.Squares)
}

// GetPathWayPoints returns the waypoints of all tiers in travel order, fine
// first, with the index at which each tier starts.
func (m *Manager) GetPathWayPoints(h Handle) (points []terrain.Vec3, starts []int) {
	mp := m.paths.Get(h)
	if mp == nil {
		return nil, nil
	}
	for _, p := range []*Path{&mp.MaxRes, &mp.MedRes, &mp.LowRes} {
		starts = append(starts, len(points))
		points = append(points, reversed(p.Waypoints)...)
	}
	return points, starts
}

func reversed[T any](s []T) []T {
	out := make([]T, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
