package terrain

// BlockingMap counts solid objects per cell. Searches treat an occupied
// cell as blocked unless they are precomputing estimator costs.
type BlockingMap struct {
	mapx, mapy int
	counts     []uint16
}

func newBlockingMap(mapx, mapy int) *BlockingMap {
	return &BlockingMap{mapx: mapx, mapy: mapy, counts: make([]uint16, mapx*mapy)}
}

// Occupied reports whether any blocking object covers cell (x, z).
func (b *BlockingMap) Occupied(x, z int) bool {
	return b.counts[z*b.mapx+x] > 0
}

func (b *BlockingMap) apply(center Square, size int, add bool) {
	lo := -(size / 2)
	hi := lo + size - 1
	for dz := lo; dz <= hi; dz++ {
		for dx := lo; dx <= hi; dx++ {
			x, z := center.X+dx, center.Z+dz
			if x < 0 || z < 0 || x >= b.mapx || z >= b.mapy {
				continue
			}
			i := z*b.mapx + x
			if add {
				b.counts[i]++
			} else if b.counts[i] > 0 {
				b.counts[i]--
			}
		}
	}
}

// Solid is a simulation object with a square footprint that blocks the
// cells it stands on while blocking is enabled.
type Solid struct {
	id        int
	grid      *Grid
	pos       Vec3
	footprint int
	blocking  bool
}

// NewSolid places a blocking object of footprint×footprint cells at pos.
// The object starts blocking.
func NewSolid(id int, g *Grid, pos Vec3, footprint int) *Solid {
	s := &Solid{id: id, grid: g, pos: g.ClampInBounds(pos), footprint: max(footprint, 1)}
	s.Block()
	return s
}

// ID returns the object identifier.
func (s *Solid) ID() int { return s.id }

// Pos returns the current world position.
func (s *Solid) Pos() Vec3 { return s.pos }

// IsBlocking reports whether the footprint is currently registered.
func (s *Solid) IsBlocking() bool { return s.blocking }

// Block registers the footprint on the blocking map. Repeated calls are no-ops.
func (s *Solid) Block() {
	if s.blocking {
		return
	}
	s.grid.blocking.apply(s.pos.Square(), s.footprint, true)
	s.blocking = true
}

// Unblock removes the footprint from the blocking map. Repeated calls are no-ops.
func (s *Solid) Unblock() {
	if !s.blocking {
		return
	}
	s.grid.blocking.apply(s.pos.Square(), s.footprint, false)
	s.blocking = false
}

// MoveTo relocates the object, keeping its blocking state.
func (s *Solid) MoveTo(pos Vec3) {
	wasBlocking := s.blocking
	s.Unblock()
	s.pos = s.grid.ClampInBounds(pos)
	if wasBlocking {
		s.Block()
	}
}
