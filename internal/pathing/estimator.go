package pathing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/udisondev/pathgrid/internal/config"
	"github.com/udisondev/pathgrid/internal/pathcache"
	"github.com/udisondev/pathgrid/internal/synccheck"
	"github.com/udisondev/pathgrid/internal/terrain"
	"golang.org/x/sync/errgroup"
)

const vertexDirs = 4

var unreachable = float32(math.Inf(1))

// forwardDirs are the link directions stored on each block. The remaining
// four are read from the neighbour on the opposite side.
var forwardDirs = [vertexDirs]struct{ dx, dz int }{
	{1, 0},  // E
	{1, 1},  // SE
	{0, 1},  // S
	{-1, 1}, // SW
}

type blockDir struct {
	dx, dz  int
	vertex  int
	reverse bool
}

var blockDirs = func() [2 * vertexDirs]blockDir {
	var dirs [2 * vertexDirs]blockDir
	for k, d := range forwardDirs {
		dirs[2*k] = blockDir{dx: d.dx, dz: d.dz, vertex: k}
		dirs[2*k+1] = blockDir{dx: -d.dx, dz: -d.dz, vertex: k, reverse: true}
	}
	return dirs
}()

// Estimator searches a coarse graph of blockSize × blockSize cell blocks.
// Each block has, per movement class, a representative offset cell and
// precomputed link costs to its neighbours.
type Estimator struct {
	name       string
	grid       *terrain.Grid
	moveDefs   *terrain.MoveDefs
	cells      *Finder
	blockSize  int
	nbrX, nbrZ int

	offsets  []terrain.Square // [pathType*nBlocks + block]
	vertices []float32        // [(pathType*nBlocks + block)*vertexDirs + dir]

	buf        *NodeStateBuffer
	blockState *searchState
	cellStates sync.Pool

	pending         []int
	queued          []bool
	blocksPerUpdate int
	workers         int

	checksum      uint32
	checksumValid bool
}

// NewEstimator builds an estimator with the given block size. Block data is
// loaded from store when a matching entry exists, otherwise precomputed in
// parallel and written back. store may be nil.
func NewEstimator(ctx context.Context, name string, grid *terrain.Grid, moveDefs *terrain.MoveDefs, blockSize int, cfg config.Estimator, store pathcache.Store) (*Estimator, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("new %s estimator: invalid block size %d", name, blockSize)
	}
	mapx, mapy := grid.MapX(), grid.MapY()
	e := &Estimator{
		name:            name,
		grid:            grid,
		moveDefs:        moveDefs,
		cells:           &Finder{grid: grid},
		blockSize:       blockSize,
		nbrX:            (mapx + blockSize - 1) / blockSize,
		nbrZ:            (mapy + blockSize - 1) / blockSize,
		buf:             NewNodeStateBuffer(mapx, mapy),
		blocksPerUpdate: max(cfg.SquaresPerUpdate, 0)/(blockSize*blockSize) + 1,
		workers:         cfg.Workers,
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	nb := e.nbrX * e.nbrZ
	e.offsets = make([]terrain.Square, moveDefs.Len()*nb)
	e.vertices = make([]float32, moveDefs.Len()*nb*vertexDirs)
	e.queued = make([]bool, nb)
	e.blockState = newSearchState(nb)
	e.cellStates.New = func() any { return newSearchState(mapx * mapy) }

	var key string
	if store != nil {
		key = pathcache.Key(name, blockSize, grid, moveDefs)
		if e.loadCache(ctx, store, key) {
			return e, nil
		}
	}
	if err := e.precompute(ctx); err != nil {
		return nil, fmt.Errorf("precompute %s estimator: %w", name, err)
	}
	if store != nil {
		e.saveCache(ctx, store, key)
	}
	return e, nil
}

func (e *Estimator) Name() string                      { return e.name }
func (e *Estimator) NodeStateBuffer() *NodeStateBuffer { return e.buf }

// BlockSize returns the block edge length in cells.
func (e *Estimator) BlockSize() int { return e.blockSize }

// Blocks returns the number of blocks along x and z.
func (e *Estimator) Blocks() (int, int) { return e.nbrX, e.nbrZ }

// Pending returns the number of blocks queued for rebuild.
func (e *Estimator) Pending() int { return len(e.pending) }

func (e *Estimator) slot(md *terrain.MoveDef, block int) int {
	return md.PathType*e.nbrX*e.nbrZ + block
}

// Offset returns the representative cell of block (bx, bz) for md.
func (e *Estimator) Offset(md *terrain.MoveDef, bx, bz int) terrain.Square {
	return e.offsets[e.slot(md, bz*e.nbrX+bx)]
}

// blockOf returns the index of the block containing cell sq.
func (e *Estimator) blockOf(sq terrain.Square) int {
	return (sq.Z/e.blockSize)*e.nbrX + sq.X/e.blockSize
}

// linkCost returns the cost of moving from block b to neighbour n along d.
func (e *Estimator) linkCost(md *terrain.MoveDef, b, n int, d blockDir) float32 {
	from := b
	if d.reverse {
		from = n
	}
	return e.vertices[e.slot(md, from)*vertexDirs+d.vertex]
}

func (e *Estimator) precompute(ctx context.Context) error {
	started := time.Now()
	mds := e.moveDefs.All()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, md := range mds {
		for bz := range e.nbrZ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				for bx := range e.nbrX {
					e.offsets[e.slot(md, bz*e.nbrX+bx)] = e.findOffset(md, bx, bz)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Vertices read offsets of neighbouring rows, so they need every offset first.
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, md := range mds {
		for bz := range e.nbrZ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				st := e.cellStates.Get().(*searchState)
				defer e.cellStates.Put(st)
				for bx := range e.nbrX {
					b := bz*e.nbrX + bx
					for k := range vertexDirs {
						e.vertices[e.slot(md, b)*vertexDirs+k] = e.computeVertex(st, md, b, k)
					}
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e.checksumValid = false
	slog.Info("estimator precomputed",
		"tier", e.name,
		"block_size", e.blockSize,
		"blocks", e.nbrX*e.nbrZ,
		"move_defs", len(mds),
		"took", time.Since(started))
	return nil
}

// findOffset picks the passable cell closest to the block centre, weighted by
// its terrain cost. Without a passable cell the geometric centre is used.
func (e *Estimator) findOffset(md *terrain.MoveDef, bx, bz int) terrain.Square {
	bs := e.blockSize
	x0, z0 := bx*bs, bz*bs
	x1, z1 := min(x0+bs, e.grid.MapX()), min(z0+bs, e.grid.MapY())
	cx := float32(x0) + float32(x1-x0-1)/2
	cz := float32(z0) + float32(z1-z0-1)/2

	best := terrain.Sq(x0+(x1-x0)/2, z0+(z1-z0)/2)
	bestScore := float32(math.MaxFloat32)
	for z := z0; z < z1; z++ {
		for x := x0; x < x1; x++ {
			cost, ok := md.SquareCost(e.grid, x, z)
			if !ok {
				continue
			}
			dx, dz := float32(x)-cx, float32(z)-cz
			if score := dx*dx + dz*dz + float32(bs)*cost; score < bestScore {
				best, bestScore = terrain.Sq(x, z), score
			}
		}
	}
	return best
}

// computeVertex runs a static fine search between the offsets of block b and
// its forward neighbour k, confined to the bounding window of both blocks.
func (e *Estimator) computeVertex(st *searchState, md *terrain.MoveDef, b, k int) float32 {
	bx, bz := b%e.nbrX, b/e.nbrX
	d := forwardDirs[k]
	nx, nz := bx+d.dx, bz+d.dz
	if nx < 0 || nx >= e.nbrX || nz >= e.nbrZ {
		return unreachable
	}

	bs := e.blockSize
	win := &windowGoal{
		goalSq: e.offsets[e.slot(md, nz*e.nbrX+nx)],
		x1:     min(bx, nx) * bs,
		z1:     bz * bs,
		x2:     min((max(bx, nx)+1)*bs, e.grid.MapX()) - 1,
		z2:     min((nz+1)*bs, e.grid.MapY()) - 1,
	}
	area := (win.x2 - win.x1 + 1) * (win.z2 - win.z1 + 1)
	from := e.offsets[e.slot(md, b)]

	result, idx := e.cells.search(st, md, from, win, area, searchOpts{owner: -1, static: true})
	if result != Ok {
		return unreachable
	}
	return st.g[idx]
}

// GetPath searches the block graph from the block containing start.
func (e *Estimator) GetPath(md *terrain.MoveDef, start terrain.Vec3, def GoalDef, maxNodes int, owner Owner, synced bool) (SearchResult, Path) {
	startSq := e.grid.ClampSquare(start.Square())

	result, best := e.search(md, startSq, def, maxNodes, synced)
	observeSearch(e.name, result, e.blockState.expanded)

	switch result {
	case Ok, GoalOutOfRange:
		return result, e.finishPath(md, best)
	case CantGetCloser:
		return result, Path{PathGoal: e.grid.SquarePos(startSq)}
	default:
		return result, Path{}
	}
}

func (e *Estimator) search(md *terrain.MoveDef, startSq terrain.Square, def GoalDef, maxNodes int, synced bool) (SearchResult, int) {
	st := e.blockState
	st.reset()
	if _, ok := md.SquareCost(e.grid, startSq.X, startSq.Z); !ok {
		return Error, -1
	}

	goalBlock := -1
	if gs := def.GoalSquare(); e.grid.InBounds(gs.X, gs.Z) {
		goalBlock = e.blockOf(gs)
	}
	isGoal := func(b int) bool {
		if b == goalBlock {
			return true
		}
		off := e.offsets[e.slot(md, b)]
		return def.IsGoal(off.X, off.Z)
	}

	startBlock := e.blockOf(startSq)
	if isGoal(startBlock) {
		return CantGetCloser, -1
	}

	off := e.offsets[e.slot(md, startBlock)]
	best, bestH := startBlock, def.Heuristic(off.X, off.Z)
	var bestG float32
	st.start(startBlock, bestH)

	for st.expanded < maxNodes {
		b, g, ok := st.next()
		if !ok {
			break
		}
		if isGoal(b) {
			return Ok, b
		}
		off := e.offsets[e.slot(md, b)]
		if h := def.Heuristic(off.X, off.Z); h < bestH || (h == bestH && g < bestG) {
			best, bestH, bestG = b, h, g
		}
		e.expand(st, md, def, b, g, synced)
	}

	if best == startBlock {
		return CantGetCloser, -1
	}
	return GoalOutOfRange, best
}

func (e *Estimator) expand(st *searchState, md *terrain.MoveDef, def GoalDef, b int, g float32, synced bool) {
	bx, bz := b%e.nbrX, b/e.nbrX
	for _, d := range blockDirs {
		nx, nz := bx+d.dx, bz+d.dz
		if nx < 0 || nx >= e.nbrX || nz < 0 || nz >= e.nbrZ {
			continue
		}
		n := nz*e.nbrX + nx
		off := e.offsets[e.slot(md, n)]
		if !def.WithinConstraints(off.X, off.Z) {
			continue
		}
		cost := e.linkCost(md, b, n, d)
		if math.IsInf(float64(cost), 1) {
			continue
		}
		cost = max(cost+e.buf.NodeExtraCost(off.X, off.Z, synced), 0)
		st.relax(n, b, g+cost, def.Heuristic(off.X, off.Z))
	}
}

func (e *Estimator) finishPath(md *terrain.MoveDef, b int) Path {
	chain := e.blockState.chain(b)
	p := Path{
		Waypoints: make([]terrain.Vec3, 0, len(chain)),
		Squares:   make([]terrain.Square, 0, len(chain)),
		Cost:      e.blockState.g[b],
	}
	for _, i := range chain {
		sq := e.offsets[e.slot(md, i)]
		p.PushBack(e.grid.SquarePos(sq), sq)
	}
	p.PathGoal = e.grid.SquarePos(e.offsets[e.slot(md, b)])
	return p
}

// MapChanged queues every block touching the cell rectangle plus a one-block
// halo for rebuild.
func (e *Estimator) MapChanged(x1, z1, x2, z2 int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if z1 > z2 {
		z1, z2 = z2, z1
	}
	lo := e.grid.ClampSquare(terrain.Sq(x1, z1))
	hi := e.grid.ClampSquare(terrain.Sq(x2, z2))
	bx1, bz1 := max(lo.X/e.blockSize-1, 0), max(lo.Z/e.blockSize-1, 0)
	bx2, bz2 := min(hi.X/e.blockSize+1, e.nbrX-1), min(hi.Z/e.blockSize+1, e.nbrZ-1)

	for bz := bz1; bz <= bz2; bz++ {
		for bx := bx1; bx <= bx2; bx++ {
			b := bz*e.nbrX + bx
			if !e.queued[b] {
				e.queued[b] = true
				e.pending = append(e.pending, b)
			}
		}
	}
	estimatorPendingBlocks.WithLabelValues(e.name).Set(float64(len(e.pending)))
}

// Update rebuilds a bounded number of queued blocks.
func (e *Estimator) Update() { e.rebuild(e.blocksPerUpdate) }

// Flush rebuilds every queued block.
func (e *Estimator) Flush() { e.rebuild(len(e.pending)) }

func (e *Estimator) rebuild(n int) {
	n = min(n, len(e.pending))
	if n == 0 {
		return
	}
	st := e.cellStates.Get().(*searchState)
	defer e.cellStates.Put(st)

	for _, b := range e.pending[:n] {
		e.queued[b] = false
		for _, md := range e.moveDefs.All() {
			e.rebuildBlock(st, md, b)
		}
	}
	e.pending = append(e.pending[:0], e.pending[n:]...)
	e.checksumValid = false
	estimatorPendingBlocks.WithLabelValues(e.name).Set(float64(len(e.pending)))
	slog.Debug("estimator blocks rebuilt", "tier", e.name, "blocks", n, "pending", len(e.pending))
}

// rebuildBlock refreshes the offset of b and the eight links touching it.
func (e *Estimator) rebuildBlock(st *searchState, md *terrain.MoveDef, b int) {
	bx, bz := b%e.nbrX, b/e.nbrX
	e.offsets[e.slot(md, b)] = e.findOffset(md, bx, bz)
	for k, d := range forwardDirs {
		e.vertices[e.slot(md, b)*vertexDirs+k] = e.computeVertex(st, md, b, k)

		px, pz := bx-d.dx, bz-d.dz
		if px < 0 || px >= e.nbrX || pz < 0 || pz >= e.nbrZ {
			continue
		}
		p := pz*e.nbrX + px
		e.vertices[e.slot(md, p)*vertexDirs+k] = e.computeVertex(st, md, p, k)
	}
}

// PathChecksum folds every offset and link cost into a sync checksum.
func (e *Estimator) PathChecksum() uint32 {
	if e.checksumValid {
		return e.checksum
	}
	c := synccheck.New()
	c.Int(e.blockSize)
	c.Int(e.nbrX)
	c.Int(e.nbrZ)
	for _, off := range e.offsets {
		c.Int(off.X)
		c.Int(off.Z)
	}
	for _, v := range e.vertices {
		c.Float32(v)
	}
	e.checksum, e.checksumValid = c.Sum(), true
	return e.checksum
}

func (e *Estimator) blockData() *pathcache.BlockData {
	d := &pathcache.BlockData{
		BlockSize:   e.blockSize,
		NbrX:        e.nbrX,
		NbrZ:        e.nbrZ,
		NumMoveDefs: e.moveDefs.Len(),
		Offsets:     make([]int32, 0, 2*len(e.offsets)),
		Vertices:    e.vertices,
	}
	for _, off := range e.offsets {
		d.Offsets = append(d.Offsets, int32(off.X), int32(off.Z))
	}
	return d
}

func (e *Estimator) loadCache(ctx context.Context, store pathcache.Store, key string) bool {
	payload, err := store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, pathcache.ErrNotFound) {
			slog.Warn("estimator cache unavailable", "tier", e.name, "error", err)
		}
		return false
	}
	d, err := pathcache.DecodeBlockData(payload)
	if err != nil {
		slog.Warn("estimator cache corrupt", "tier", e.name, "key", key, "error", err)
		return false
	}
	if d.BlockSize != e.blockSize || d.NbrX != e.nbrX || d.NbrZ != e.nbrZ ||
		d.NumMoveDefs != e.moveDefs.Len() ||
		len(d.Offsets) != 2*len(e.offsets) || len(d.Vertices) != len(e.vertices) {
		slog.Warn("estimator cache shape mismatch", "tier", e.name, "key", key)
		return false
	}
	for i := range e.offsets {
		e.offsets[i] = terrain.Sq(int(d.Offsets[2*i]), int(d.Offsets[2*i+1]))
	}
	copy(e.vertices, d.Vertices)
	e.checksumValid = false
	slog.Info("estimator loaded from cache", "tier", e.name, "key", key)
	return true
}

func (e *Estimator) saveCache(ctx context.Context, store pathcache.Store, key string) {
	payload, err := pathcache.EncodeBlockData(e.blockData())
	if err != nil {
		slog.Warn("encoding estimator cache", "tier", e.name, "error", err)
		return
	}
	if err := store.Save(ctx, key, payload); err != nil {
		slog.Warn("saving estimator cache", "tier", e.name, "error", err)
	}
}
