package pathing

import "github.com/udisondev/pathgrid/internal/terrain"

// SearchResult is the closed outcome set of every search call.
type SearchResult uint8

const (
	// Ok means the goal region was reached.
	Ok SearchResult = iota
	// CantGetCloser means no node closer to the goal than the start was found,
	// or the start already satisfies the goal.
	CantGetCloser
	// GoalOutOfRange means the goal was not reached; the path leads to the
	// node closest to it that the budget and constraint allowed.
	GoalOutOfRange
	// Error means the request was invalid, e.g. the start cell is impassable.
	Error
)

func (r SearchResult) String() string {
	switch r {
	case Ok:
		return "ok"
	case CantGetCloser:
		return "cant_get_closer"
	case GoalOutOfRange:
		return "goal_out_of_range"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// NoPathPoint is returned by NextWaypoint when there is nothing to steer toward.
var NoPathPoint = terrain.Vec3{X: -1, Y: 0, Z: -1}

// Path is one tier's route. Waypoints and Squares are parallel and stored
// goal-first: the waypoint nearest to the agent is at the tail, so consuming
// one is a pop from the back.
type Path struct {
	Waypoints []terrain.Vec3
	Squares   []terrain.Square
	// PathGoal is where this tier's chain currently ends. It may differ from
	// the final goal when the tier could not reach it.
	PathGoal terrain.Vec3
	Cost     float32
}

// Len returns the number of remaining waypoints.
func (p *Path) Len() int { return len(p.Waypoints) }

// Empty reports whether no waypoints remain.
func (p *Path) Empty() bool { return len(p.Waypoints) == 0 }

// Back returns the waypoint nearest to the agent. The path must not be empty.
func (p *Path) Back() terrain.Vec3 { return p.Waypoints[len(p.Waypoints)-1] }

// PopBack drops the waypoint nearest to the agent.
func (p *Path) PopBack() {
	p.Waypoints = p.Waypoints[:len(p.Waypoints)-1]
	p.Squares = p.Squares[:len(p.Squares)-1]
}

// PushBack appends a waypoint at the agent end.
func (p *Path) PushBack(pos terrain.Vec3, sq terrain.Square) {
	p.Waypoints = append(p.Waypoints, pos)
	p.Squares = append(p.Squares, sq)
}

// Owner is the simulation entity a path is planned for. Its footprint is
// lifted off the blocking map while it searches so it never obstructs itself.
type Owner interface {
	ID() int
	Block()
	Unblock()
}

func ownerID(o Owner) int {
	if o == nil {
		return -1
	}
	return o.ID()
}

// Searcher is one resolution tier: the fine grid search or a coarse estimator.
type Searcher interface {
	Name() string
	GetPath(md *terrain.MoveDef, start terrain.Vec3, def GoalDef, maxNodes int, owner Owner, synced bool) (SearchResult, Path)
	NodeStateBuffer() *NodeStateBuffer
	// MapChanged queues a rebuild for the cell rectangle [x1,x2]×[z1,z2].
	MapChanged(x1, z1, x2, z2 int)
	// Update runs one tick of deferred work.
	Update()
	PathChecksum() uint32
}
