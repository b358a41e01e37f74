package pathing

import "github.com/udisondev/pathgrid/internal/terrain"

// Handle identifies a stored path. Zero is never issued.
type Handle uint32

// NoHandle is returned when a request fails.
const NoHandle Handle = 0

// unsyncedHandle marks handles of local preview requests. They are counted
// separately so synced handles stay identical on every peer.
const unsyncedHandle Handle = 1 << 31

// Synced reports whether h was issued for a synced request.
func (h Handle) Synced() bool { return h != NoHandle && h&unsyncedHandle == 0 }

// MultiPath is the record of one path request: the three resolution tiers
// plus everything needed to refine them later.
type MultiPath struct {
	Start     terrain.Vec3
	FinalGoal terrain.Vec3

	// PeDef is the request's goal, kept for re-querying once coarser tiers run out.
	PeDef   *RangedGoal
	MoveDef *terrain.MoveDef
	Caller  Owner

	MaxRes Path
	MedRes Path
	LowRes Path

	SearchResult SearchResult
}

func newMultiPath(start, goal terrain.Vec3, def *RangedGoal, md *terrain.MoveDef, caller Owner) *MultiPath {
	return &MultiPath{
		Start:     start,
		FinalGoal: goal,
		PeDef:     def,
		MoveDef:   md,
		Caller:    caller,
	}
}

// Registry maps handles to path records. Synced and unsynced handles come
// from separate counters; both increase monotonically and
// are never reused.
type Registry struct {
	paths        map[Handle]*MultiPath
	lastSynced   Handle
	lastUnsynced Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{paths: make(map[Handle]*MultiPath)}
}

// Store adds mp and returns its new handle.
func (r *Registry) Store(mp *MultiPath, synced bool) Handle {
	var h Handle
	if synced {
		r.lastSynced++
		h = r.lastSynced
	} else {
		r.lastUnsynced++
		h = r.lastUnsynced | unsyncedHandle
	}
	r.paths[h] = mp
	activePaths.Set(float64(len(r.paths)))
	return h
}

// Get returns the record for h, or nil.
func (r *Registry) Get(h Handle) *MultiPath { return r.paths[h] }

// Delete removes h. It reports whether h was present.
func (r *Registry) Delete(h Handle) bool {
	if _, ok := r.paths[h]; !ok {
		return false
	}
	delete(r.paths, h)
	activePaths.Set(float64(len(r.paths)))
	return true
}

// Len returns the number of stored paths.
func (r *Registry) Len() int { return len(r.paths) }
