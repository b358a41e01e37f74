package pathing

import "github.com/udisondev/pathgrid/internal/terrain"

func sqCells(cells float32) float32 {
	d := cells * terrain.SquareSize
	return d * d
}

// lowRes2MedRes replaces the near end of the medium tier with a fresh search
// toward the next low-resolution waypoint ahead of pos.
func (m *Manager) lowRes2MedRes(mp *MultiPath, pos terrain.Vec3, owner Owner, synced bool) {
	if mp.LowRes.Empty() {
		return
	}
	refinementsTotal.WithLabelValues("low_to_med").Inc()

	mp.LowRes.PopBack()
	limit := sqCells(m.cfg.EstimateDistance)
	for !mp.LowRes.Empty() && mp.LowRes.Back().SqDistance2D(pos) < limit {
		mp.LowRes.PopBack()
	}

	var (
		goalPos = mp.LowRes.PathGoal
		def     GoalDef
	)
	if mp.LowRes.Empty() {
		def = mp.PeDef
	} else {
		goalPos = mp.LowRes.Back()
		def = NewRangedGoal(pos, goalPos, 0, lowToMedSearchSize, lowToMedExtraSize)
	}

	result := m.searchTier(m.medRes, &mp.MedRes, mp, pos, def, m.cfg.MaxNodesOnRefine, owner, synced)
	if result == CantGetCloser || result == Error {
		mp.MedRes.PathGoal = goalPos
	}
}

// medRes2MaxRes replaces the fine tier with a fresh search toward the next
// medium waypoint ahead of pos, or toward the real goal once no coarse
// waypoints remain.
func (m *Manager) medRes2MaxRes(mp *MultiPath, pos terrain.Vec3, owner Owner, synced bool) {
	if mp.MedRes.Empty() {
		return
	}
	refinementsTotal.WithLabelValues("med_to_max").Inc()

	mp.MedRes.PopBack()
	limit := sqCells(m.cfg.DetailedDistance)
	for !mp.MedRes.Empty() && mp.MedRes.Back().SqDistance2D(pos) < limit {
		mp.MedRes.PopBack()
	}

	goalPos := mp.MedRes.PathGoal
	if !mp.MedRes.Empty() {
		goalPos = mp.MedRes.Back()
	}

	var def GoalDef
	if mp.MedRes.Empty() && mp.LowRes.Empty() {
		def = mp.PeDef
	} else {
		def = NewRangedGoal(pos, goalPos, 0, medToMaxSearchSize, medToMaxExtraSize)
	}

	result := m.searchTier(m.maxRes, &mp.MaxRes, mp, pos, def, m.cfg.MaxNodesPF>>3, owner, synced)
	if result == CantGetCloser || result == Error {
		mp.MaxRes.PathGoal = goalPos
	}
}

// NextWaypoint returns the next position the agent at callerPos should steer
// toward, refining coarser tiers as needed. Waypoints closer than minDistance
// are skipped. NoPathPoint means there is nothing left to follow.
func (m *Manager) NextWaypoint(h Handle, callerPos terrain.Vec3, minDistance float32, numRetries int, owner Owner, synced bool) terrain.Vec3 {
	if h == NoHandle {
		return NoPathPoint
	}
	for depth := max(numRetries, 0); depth <= m.cfg.MaxRetries; depth++ {
		mp := m.paths.Get(h)
		if mp == nil {
			return NoPathPoint
		}
		wp, retry := m.nextWaypoint(mp, callerPos, minDistance, owner, synced)
		if !retry {
			wp.Y = 0
			return wp
		}
	}
	return NoPathPoint
}

// nextWaypoint makes one delivery attempt. retry is set when the fine tier
// ran dry while coarser tiers still hold waypoints.
func (m *Manager) nextWaypoint(mp *MultiPath, callerPos terrain.Vec3, minDistance float32, owner Owner, synced bool) (terrain.Vec3, bool) {
	if callerPos == (terrain.Vec3{}) && !mp.MaxRes.Empty() {
		callerPos = mp.MaxRes.Back()
	}
	m.refineAhead(mp, callerPos, owner, synced)

	minSq := minDistance * minDistance
	for {
		if mp.MaxRes.Empty() {
			if mp.MedRes.Empty() && mp.LowRes.Empty() {
				if mp.SearchResult == Ok {
					return mp.FinalGoal, false
				}
				return NoPathPoint, false
			}
			return terrain.Vec3{}, true
		}

		wp := mp.MaxRes.Back()
		mp.MaxRes.PopBack()
		if callerPos.SqDistance2D(wp) >= minSq || wp == mp.MaxRes.PathGoal {
			return wp, false
		}
	}
}

// refineAhead stitches coarser tiers into finer ones once the agent gets
// close to the end of the fine detail. A drained medium tier is refilled from
// the low tier before the fine tier is rebuilt.
func (m *Manager) refineAhead(mp *MultiPath, callerPos terrain.Vec3, owner Owner, synced bool) {
	if mp.MedRes.Empty() && mp.LowRes.Empty() {
		return
	}
	nearMed := !mp.MedRes.Empty() && mp.MedRes.Back().SqDistance2D(callerPos) < sqCells(m.cfg.MinDetailedDistance)
	if !nearMed && mp.MaxRes.Len() > 2 {
		return
	}

	if mp.Caller != nil {
		mp.Caller.Unblock()
		defer mp.Caller.Block()
	}

	if !mp.LowRes.Empty() {
		nearLow := mp.LowRes.Back().SqDistance2D(callerPos) < sqCells(m.cfg.MinEstimateDistance)
		if nearLow || mp.MedRes.Len() <= 2 {
			m.lowRes2MedRes(mp, callerPos, owner, synced)
		}
	}
	m.medRes2MaxRes(mp, callerPos, owner, synced)
}
