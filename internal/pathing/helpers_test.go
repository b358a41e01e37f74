package pathing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/udisondev/pathgrid/internal/config"
	"github.com/udisondev/pathgrid/internal/terrain"
)

// flatWorld builds an open grid with a single movement class.
func flatWorld(mapx, mapy int) (*terrain.Grid, *terrain.MoveDefs, *terrain.MoveDef) {
	md := terrain.NewMoveDef("tank")
	return terrain.NewGrid(mapx, mapy), terrain.NewMoveDefs(md), md
}

// cell returns the world position of a cell centre on flat ground.
func cell(x, z int) terrain.Vec3 {
	return terrain.Vec3{X: terrain.WorldX(x), Z: terrain.WorldZ(z)}
}

func testConfig() config.Pathing {
	cfg := config.DefaultPathing()
	cfg.Estimator.Workers = 2
	return cfg
}

func newTestManager(t *testing.T, g *terrain.Grid, mds *terrain.MoveDefs) *Manager {
	t.Helper()
	m, err := NewManager(context.Background(), g, mds, testConfig(), nil)
	require.NoError(t, err)
	return m
}

type testOwner struct {
	id       int
	blocked  bool
	blocks   int
	unblocks int
}

func (o *testOwner) ID() int { return o.id }
func (o *testOwner) Block() {
	o.blocked = true
	o.blocks++
}
func (o *testOwner) Unblock() {
	o.blocked = false
	o.unblocks++
}

// requireWalkable checks that every step of a goal-first square list is a
// legal 8-connected move from start with no corner cutting.
func requireWalkable(t *testing.T, g *terrain.Grid, md *terrain.MoveDef, start terrain.Square, squares []terrain.Square) {
	t.Helper()
	prev := start
	for i := len(squares) - 1; i >= 0; i-- {
		sq := squares[i]
		_, ok := md.SquareCost(g, sq.X, sq.Z)
		require.True(t, ok, "square %v is impassable", sq)

		dx, dz := sq.X-prev.X, sq.Z-prev.Z
		require.True(t, dx >= -1 && dx <= 1 && dz >= -1 && dz <= 1 && (dx != 0 || dz != 0),
			"step %v -> %v is not a neighbour move", prev, sq)
		if dx != 0 && dz != 0 {
			_, okA := md.SquareCost(g, prev.X+dx, prev.Z)
			_, okB := md.SquareCost(g, prev.X, prev.Z+dz)
			require.True(t, okA && okB, "step %v -> %v cuts a corner", prev, sq)
		}
		prev = sq
	}
}
