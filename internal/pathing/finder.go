package pathing

import (
	"math"

	"github.com/udisondev/pathgrid/internal/terrain"
)

type direction struct {
	dx, dz int
	cost   float32
}

var cardinalDirs = [4]direction{
	{dx: 1, dz: 0, cost: 1},
	{dx: -1, dz: 0, cost: 1},
	{dx: 0, dz: 1, cost: 1},
	{dx: 0, dz: -1, cost: 1},
}

// diagonalDirs pairs every diagonal with the two cardinals it passes between.
var diagonalDirs = [4]struct {
	direction
	a, b int
}{
	{direction{dx: 1, dz: 1, cost: math.Sqrt2}, 0, 2},
	{direction{dx: 1, dz: -1, cost: math.Sqrt2}, 0, 3},
	{direction{dx: -1, dz: 1, cost: math.Sqrt2}, 1, 2},
	{direction{dx: -1, dz: -1, cost: math.Sqrt2}, 1, 3},
}

// searchOpts carries the per-call inputs that are not part of the goal.
type searchOpts struct {
	owner  int
	synced bool
	// static restricts the search to terrain and movement class only: no
	// overlays, no heat, no solid objects. Estimator precomputation uses it.
	static bool
}

// Finder is the full-resolution A* search over the cell grid.
type Finder struct {
	grid  *terrain.Grid
	heat  *HeatMap
	buf   *NodeStateBuffer
	state *searchState
}

// NewFinder creates a fine searcher over grid. heat may be shared with the
// manager, which deposits path heat on it.
func NewFinder(grid *terrain.Grid, heat *HeatMap) *Finder {
	return &Finder{
		grid:  grid,
		heat:  heat,
		buf:   NewNodeStateBuffer(grid.MapX(), grid.MapY()),
		state: newSearchState(grid.MapX() * grid.MapY()),
	}
}

func (f *Finder) Name() string                      { return "max" }
func (f *Finder) NodeStateBuffer() *NodeStateBuffer { return f.buf }
func (f *Finder) HeatMap() *HeatMap                 { return f.heat }

// MapChanged is a no-op: the fine search reads terrain directly.
func (f *Finder) MapChanged(x1, z1, x2, z2 int) {}

// Update decays the heat map by one tick.
func (f *Finder) Update() { f.heat.Update() }

// PathChecksum is zero: the fine search holds no precomputed data.
func (f *Finder) PathChecksum() uint32 { return 0 }

// GetPath searches from start toward def, expanding at most maxNodes cells.
func (f *Finder) GetPath(md *terrain.MoveDef, start terrain.Vec3, def GoalDef, maxNodes int, owner Owner, synced bool) (SearchResult, Path) {
	startSq := f.grid.ClampSquare(start.Square())
	opts := searchOpts{owner: ownerID(owner), synced: synced}

	result, best := f.search(f.state, md, startSq, def, maxNodes, opts)
	observeSearch(f.Name(), result, f.state.expanded)

	switch result {
	case Ok, GoalOutOfRange:
		return result, f.finishPath(f.state, best)
	case CantGetCloser:
		return result, Path{PathGoal: f.grid.SquarePos(startSq)}
	default:
		return result, Path{}
	}
}

// search runs A* on st and returns the outcome with the index of the node the
// path should end at.
func (f *Finder) search(st *searchState, md *terrain.MoveDef, startSq terrain.Square, def GoalDef, maxNodes int, opts searchOpts) (SearchResult, int) {
	st.reset()
	if _, ok := md.SquareCost(f.grid, startSq.X, startSq.Z); !ok {
		return Error, -1
	}
	if def.IsGoal(startSq.X, startSq.Z) {
		return CantGetCloser, -1
	}

	mapx := f.grid.MapX()
	startIdx := f.grid.Index(startSq.X, startSq.Z)
	best := startIdx
	bestH := def.Heuristic(startSq.X, startSq.Z)
	var bestG float32
	st.start(startIdx, bestH)

	for st.expanded < maxNodes {
		idx, g, ok := st.next()
		if !ok {
			break
		}
		x, z := idx%mapx, idx/mapx
		if def.IsGoal(x, z) {
			return Ok, idx
		}
		if h := def.Heuristic(x, z); h < bestH || (h == bestH && g < bestG) {
			best, bestH, bestG = idx, h, g
		}
		f.expand(st, md, def, idx, x, z, g, opts)
	}

	if best == startIdx {
		return CantGetCloser, -1
	}
	return GoalOutOfRange, best
}

func (f *Finder) expand(st *searchState, md *terrain.MoveDef, def GoalDef, idx, x, z int, g float32, opts searchOpts) {
	var open [4]bool
	for i, d := range cardinalDirs {
		nx, nz := x+d.dx, z+d.dz
		cost, ok := f.stepCost(md, def, x, z, nx, nz, opts)
		open[i] = ok
		if !ok {
			continue
		}
		st.relax(f.grid.Index(nx, nz), idx, g+cost, def.Heuristic(nx, nz))
	}
	for _, d := range diagonalDirs {
		if !open[d.a] || !open[d.b] {
			continue
		}
		nx, nz := x+d.dx, z+d.dz
		cost, ok := f.stepCost(md, def, x, z, nx, nz, opts)
		if !ok {
			continue
		}
		st.relax(f.grid.Index(nx, nz), idx, g+cost*d.cost, def.Heuristic(nx, nz))
	}
}

// stepCost is the unscaled cost of entering (nx, nz) from (x, z).
func (f *Finder) stepCost(md *terrain.MoveDef, def GoalDef, x, z, nx, nz int, opts searchOpts) (float32, bool) {
	cost, ok := md.SquareCost(f.grid, nx, nz)
	if !ok || !def.WithinConstraints(nx, nz) || !md.CanStep(f.grid, x, z, nx, nz) {
		return 0, false
	}
	if opts.static {
		return cost, true
	}
	if f.grid.Blocking().Occupied(nx, nz) {
		return 0, false
	}
	cost += f.buf.NodeExtraCost(nx, nz, opts.synced)
	if f.heat.Enabled() && md.HeatMapping && !f.ownHeat(nx, nz, opts.owner) {
		cost += md.HeatMod * f.heat.Value(nx, nz)
	}
	return max(cost, 0), true
}

// ownHeat reports whether the heat on (nx, nz) was left by owner. Searches
// without an owner never match, so anonymous heat always counts.
func (f *Finder) ownHeat(nx, nz, owner int) bool {
	return owner >= 0 && f.heat.Owner(nx, nz) == owner
}

func (f *Finder) finishPath(st *searchState, idx int) Path {
	mapx := f.grid.MapX()
	chain := st.chain(idx)
	p := Path{
		Waypoints: make([]terrain.Vec3, 0, len(chain)),
		Squares:   make([]terrain.Square, 0, len(chain)),
		Cost:      st.g[idx],
	}
	for _, i := range chain {
		sq := terrain.Sq(i%mapx, i/mapx)
		p.PushBack(f.grid.SquarePos(sq), sq)
	}
	p.PathGoal = f.grid.SquarePos(terrain.Sq(idx%mapx, idx/mapx))
	return p
}
