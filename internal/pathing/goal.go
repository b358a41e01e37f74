package pathing

import (
	"math"

	"github.com/udisondev/pathgrid/internal/terrain"
)

// octileRest is the extra cost of a diagonal step over a cardinal one.
const octileRest = math.Sqrt2 - 1

// GoalDef describes the target region of a search: goal test, heuristic and
// an optional pruning constraint. Coordinates are cells.
type GoalDef interface {
	IsGoal(x, z int) bool
	Heuristic(x, z int) float32
	WithinConstraints(x, z int) bool
	GoalSquare() terrain.Square
	Goal() terrain.Vec3
	SqGoalRadius() float32
}

// octile is the 8-connected grid distance with cardinal cost 1 and diagonal √2.
func octile(x, z int, to terrain.Square) float32 {
	dx := x - to.X
	if dx < 0 {
		dx = -dx
	}
	dz := z - to.Z
	if dz < 0 {
		dz = -dz
	}
	return float32(max(dx, dz)) + float32(min(dx, dz))*octileRest
}

// RangedGoal accepts any cell whose centre lies within a radius of the goal
// and prunes cells outside a circle around the half-way point between start
// and goal.
type RangedGoal struct {
	goal         terrain.Vec3
	goalSq       terrain.Square
	sqGoalRadius float32

	halfWayX, halfWayZ int
	searchRadiusSq     int
	constraintDisabled bool
}

// NewRangedGoal builds a goal of radius goalRadius around goal. The constraint
// circle has squared radius dist(start, halfway)² · searchSize² + extraSize, in cells.
func NewRangedGoal(start, goal terrain.Vec3, goalRadius, searchSize float32, extraSize int) *RangedGoal {
	startX, startZ := terrain.CellX(start.X), terrain.CellZ(start.Z)
	halfWay := start.Add(goal).Scale(0.5)
	d := &RangedGoal{
		goal:         goal,
		goalSq:       goal.Square(),
		sqGoalRadius: goalRadius * goalRadius,
		halfWayX:     terrain.CellX(halfWay.X),
		halfWayZ:     terrain.CellZ(halfWay.Z),
	}
	dx := startX - d.halfWayX
	dz := startZ - d.halfWayZ
	d.searchRadiusSq = int(float32(dx*dx+dz*dz)*(searchSize*searchSize)) + extraSize
	return d
}

// DisableConstraint switches the pruning circle off or back on.
func (d *RangedGoal) DisableConstraint(disable bool) { d.constraintDisabled = disable }

// ConstraintDisabled reports whether pruning is off.
func (d *RangedGoal) ConstraintDisabled() bool { return d.constraintDisabled }

func (d *RangedGoal) IsGoal(x, z int) bool {
	if x == d.goalSq.X && z == d.goalSq.Z {
		return true
	}
	c := terrain.Vec3{X: terrain.WorldX(x), Z: terrain.WorldZ(z)}
	return c.SqDistance2D(d.goal) <= d.sqGoalRadius
}

func (d *RangedGoal) Heuristic(x, z int) float32 { return octile(x, z, d.goalSq) }

func (d *RangedGoal) WithinConstraints(x, z int) bool {
	if d.constraintDisabled {
		return true
	}
	dx := d.halfWayX - x
	dz := d.halfWayZ - z
	return dx*dx+dz*dz <= d.searchRadiusSq
}

func (d *RangedGoal) GoalSquare() terrain.Square { return d.goalSq }
func (d *RangedGoal) Goal() terrain.Vec3         { return d.goal }
func (d *RangedGoal) SqGoalRadius() float32      { return d.sqGoalRadius }

// windowGoal targets one exact cell and confines the search to a rectangle.
// Estimators use it to cost the link between two neighbouring blocks.
type windowGoal struct {
	goalSq         terrain.Square
	x1, z1, x2, z2 int
}

func (w *windowGoal) IsGoal(x, z int) bool       { return x == w.goalSq.X && z == w.goalSq.Z }
func (w *windowGoal) Heuristic(x, z int) float32 { return octile(x, z, w.goalSq) }
func (w *windowGoal) WithinConstraints(x, z int) bool {
	return x >= w.x1 && x <= w.x2 && z >= w.z1 && z <= w.z2
}
func (w *windowGoal) GoalSquare() terrain.Square { return w.goalSq }
func (w *windowGoal) Goal() terrain.Vec3 {
	return terrain.Vec3{X: terrain.WorldX(w.goalSq.X), Z: terrain.WorldZ(w.goalSq.Z)}
}
func (w *windowGoal) SqGoalRadius() float32 { return 0 }
