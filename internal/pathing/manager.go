package pathing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/pathgrid/internal/config"
	"github.com/udisondev/pathgrid/internal/pathcache"
	"github.com/udisondev/pathgrid/internal/synccheck"
	"github.com/udisondev/pathgrid/internal/terrain"
)

// Goal shapes used when building requests and refinements.
const (
	requestSearchSize = 3.0
	requestExtraSize  = 2000

	medToMaxSearchSize = 2.0
	medToMaxExtraSize  = 1000

	lowToMedSearchSize = 2.0
	lowToMedExtraSize  = 20
)

// Manager routes path requests to the fine search and the two estimators,
// stores the resulting records and refines them as agents advance.
// It is not safe for concurrent use; all calls belong to the simulation tick.
type Manager struct {
	cfg      config.Search
	grid     *terrain.Grid
	moveDefs *terrain.MoveDefs

	maxRes Searcher
	medRes Searcher
	lowRes Searcher
	heat   *HeatMap

	paths *Registry
}

// NewManager builds the fine search and both estimators over grid. Estimator
// data is taken from store when possible; store may be nil.
func NewManager(ctx context.Context, grid *terrain.Grid, moveDefs *terrain.MoveDefs, cfg config.Pathing, store pathcache.Store) (*Manager, error) {
	heat := NewHeatMap(grid.MapX(), grid.MapY(), cfg.HeatMap.Enabled, cfg.HeatMap.DecayPerTick)
	maxRes := NewFinder(grid, heat)

	medRes, err := NewEstimator(ctx, "med", grid, moveDefs, cfg.Estimator.MedResBlockSize, cfg.Estimator, store)
	if err != nil {
		return nil, fmt.Errorf("creating manager: %w", err)
	}
	lowRes, err := NewEstimator(ctx, "low", grid, moveDefs, cfg.Estimator.LowResBlockSize, cfg.Estimator, store)
	if err != nil {
		return nil, fmt.Errorf("creating manager: %w", err)
	}

	m := newManager(grid, moveDefs, cfg.Search, maxRes, medRes, lowRes, heat)
	slog.Info("pathing data checksum", "checksum", fmt.Sprintf("%08x", m.PathChecksum()))
	return m, nil
}

func newManager(grid *terrain.Grid, moveDefs *terrain.MoveDefs, cfg config.Search, maxRes, medRes, lowRes Searcher, heat *HeatMap) *Manager {
	return &Manager{
		cfg:      cfg,
		grid:     grid,
		moveDefs: moveDefs,
		maxRes:   maxRes,
		medRes:   medRes,
		lowRes:   lowRes,
		heat:     heat,
		paths:    NewRegistry(),
	}
}

// Grid returns the terrain the manager plans over.
func (m *Manager) Grid() *terrain.Grid { return m.grid }

// NumPaths returns the number of stored path records.
func (m *Manager) NumPaths() int { return m.paths.Len() }

// RequestPath plans a route for md from startPos to within goalRadius of
// goalPos and stores it. It returns NoHandle when the start is unusable.
func (m *Manager) RequestPath(md *terrain.MoveDef, startPos, goalPos terrain.Vec3, goalRadius float32, caller Owner, synced bool) Handle {
	sp := m.grid.ClampInBounds(startPos)
	gp := m.grid.ClampInBounds(goalPos)
	def := NewRangedGoal(sp, gp, goalRadius, requestSearchSize, requestExtraSize)

	h, result := m.requestPath(md, sp, gp, def, caller, synced)
	pathRequestsTotal.WithLabelValues(result.String()).Inc()
	slog.Debug("path requested",
		"handle", h,
		"move_def", md.Name,
		"start", sp,
		"goal", gp,
		"result", result.String())
	return h
}

func (m *Manager) requestPath(md *terrain.MoveDef, start, goal terrain.Vec3, def *RangedGoal, caller Owner, synced bool) (Handle, SearchResult) {
	mp := newMultiPath(start, goal, def, md, caller)

	if caller != nil {
		caller.Unblock()
		defer caller.Block()
	}

	// Height difference counts toward the band distance, in cells.
	startSq := start.Square()
	dy := goal.Y - start.Y
	if dy < 0 {
		dy = -dy
	}
	goalDist := def.Heuristic(startSq.X, startSq.Z) + dy/terrain.SquareSize
	tooFar := start.SqDistance2D(goal) > def.SqGoalRadius()

	maxNodesPF := m.cfg.MaxNodesPF >> 3
	maxNodesPE := m.cfg.MaxNodesPE >> 3

	var result SearchResult
	switch {
	case goalDist < m.cfg.DetailedDistance:
		result = m.searchTier(m.maxRes, &mp.MaxRes, mp, start, def, maxNodesPF, caller, synced)
		def.DisableConstraint(true)
		if result != Ok {
			result = m.searchTier(m.medRes, &mp.MedRes, mp, start, def, maxNodesPE, caller, synced)
		}
		if result != Ok {
			result = m.searchTier(m.lowRes, &mp.LowRes, mp, start, def, maxNodesPE, caller, synced)
		}

	case goalDist < m.cfg.EstimateDistance:
		result = m.searchTier(m.medRes, &mp.MedRes, mp, start, def, maxNodesPE, caller, synced)
		if result == CantGetCloser && tooFar {
			result = m.searchTier(m.maxRes, &mp.MaxRes, mp, start, def, maxNodesPF, caller, synced)
		}
		def.DisableConstraint(true)
		if result != Ok {
			result = m.searchTier(m.medRes, &mp.MedRes, mp, start, def, maxNodesPE, caller, synced)
		}

	default:
		result = m.searchTier(m.lowRes, &mp.LowRes, mp, start, def, maxNodesPE, caller, synced)
		if result == CantGetCloser && tooFar {
			result = m.searchTier(m.medRes, &mp.MedRes, mp, start, def, maxNodesPE, caller, synced)
			if result == CantGetCloser {
				result = m.searchTier(m.maxRes, &mp.MaxRes, mp, start, def, maxNodesPF, caller, synced)
			}
		}
		def.DisableConstraint(true)
		if result != Ok {
			result = m.searchTier(m.lowRes, &mp.LowRes, mp, start, def, maxNodesPE, caller, synced)
		}
	}

	if result == Error {
		return NoHandle, result
	}

	if result != CantGetCloser {
		m.lowRes2MedRes(mp, start, caller, synced)
		m.medRes2MaxRes(mp, start, caller, synced)
	} else if mp.MaxRes.Empty() {
		// A single waypoint at the start keeps the record progressable.
		sq := m.grid.ClampSquare(start.Square())
		mp.MaxRes.PushBack(start, sq)
		mp.MaxRes.PathGoal = start
	}

	mp.SearchResult = result
	return m.paths.Store(mp, synced), result
}

func (m *Manager) searchTier(s Searcher, dst *Path, mp *MultiPath, start terrain.Vec3, def GoalDef, maxNodes int, owner Owner, synced bool) SearchResult {
	result, p := s.GetPath(mp.MoveDef, start, def, maxNodes, owner, synced)
	*dst = p
	return result
}

// DeletePath releases a path record. Unknown handles are ignored.
func (m *Manager) DeletePath(h Handle) {
	if h == NoHandle {
		return
	}
	m.paths.Delete(h)
}

// PathResult returns the outcome stored with a path record.
func (m *Manager) PathResult(h Handle) (SearchResult, bool) {
	mp := m.paths.Get(h)
	if mp == nil {
		return Error, false
	}
	return mp.SearchResult, true
}

// TerrainChange notifies both estimators that cells in [x1,x2]×[z1,z2] changed.
func (m *Manager) TerrainChange(x1, z1, x2, z2 int) {
	m.medRes.MapChanged(x1, z1, x2, z2)
	m.lowRes.MapChanged(x1, z1, x2, z2)
}

// Update runs one tick of heat decay and deferred estimator rebuilds.
func (m *Manager) Update() {
	m.maxRes.Update()
	m.medRes.Update()
	m.lowRes.Update()
}

// Flush completes all deferred estimator rebuilds.
func (m *Manager) Flush() {
	for _, s := range []Searcher{m.medRes, m.lowRes} {
		if f, ok := s.(interface{ Flush() }); ok {
			f.Flush()
		}
	}
}

// PathChecksum combines both estimators' data checksums.
func (m *Manager) PathChecksum() uint32 {
	return m.medRes.PathChecksum() + m.lowRes.PathChecksum()
}

// SyncChecksum folds the pathing data checksum into a session checker.
func (m *Manager) SyncChecksum(c *synccheck.Checker) {
	c.Uint32(m.PathChecksum())
}
