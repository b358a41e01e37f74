package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridKindAndBlocked(t *testing.T) {
	g := NewGrid(16, 8)
	assert.Equal(t, 16, g.MapX())
	assert.Equal(t, 8, g.MapY())

	g.SetKind(3, 2, 5)
	g.SetBlocked(3, 2, true)
	assert.Equal(t, uint8(5), g.Kind(3, 2))
	assert.True(t, g.Blocked(3, 2))

	// kind changes keep the blocked flag
	g.SetKind(3, 2, 7)
	assert.Equal(t, uint8(7), g.Kind(3, 2))
	assert.True(t, g.Blocked(3, 2))

	g.SetBlocked(3, 2, false)
	assert.False(t, g.Blocked(3, 2))
	assert.Equal(t, uint8(7), g.Kind(3, 2))
}

func TestGridBlockRectClamps(t *testing.T) {
	g := NewGrid(10, 10)
	g.BlockRect(-5, 8, 2, 20, true)

	assert.True(t, g.Blocked(0, 8))
	assert.True(t, g.Blocked(2, 9))
	assert.False(t, g.Blocked(3, 9))
	assert.False(t, g.Blocked(0, 7))
}

func TestGridClampInBounds(t *testing.T) {
	g := NewGrid(10, 20)

	p := g.ClampInBounds(Vec3{X: -4, Y: 7, Z: 1000})
	assert.Equal(t, float32(0), p.X)
	assert.Equal(t, float32(7), p.Y)
	assert.Equal(t, float32(20*SquareSize-1), p.Z)
	assert.Equal(t, Sq(9, 0), g.ClampSquare(Sq(40, -1)))
}

func TestGridSquarePos(t *testing.T) {
	g := NewGrid(4, 4)
	g.SetHeight(2, 1, 42)

	p := g.SquarePos(Sq(2, 1))
	assert.Equal(t, Vec3{X: WorldX(2), Y: 42, Z: WorldZ(1)}, p)
}

func TestMoveDefSquareCost(t *testing.T) {
	g := NewGrid(4, 4)
	md := NewMoveDef("tank")
	md.KindCosts[2] = 3.5
	md.KindCosts[3] = 0

	g.SetKind(1, 1, 2)
	g.SetKind(2, 2, 3)
	g.SetBlocked(3, 3, true)

	c, ok := md.SquareCost(g, 0, 0)
	assert.True(t, ok)
	assert.Equal(t, float32(1), c)

	c, ok = md.SquareCost(g, 1, 1)
	assert.True(t, ok)
	assert.Equal(t, float32(3.5), c)

	_, ok = md.SquareCost(g, 2, 2)
	assert.False(t, ok, "zero kind cost is impassable")
	_, ok = md.SquareCost(g, 3, 3)
	assert.False(t, ok, "static block is impassable")
	_, ok = md.SquareCost(g, -1, 0)
	assert.False(t, ok, "out of bounds is impassable")
}

func TestMoveDefCanStep(t *testing.T) {
	g := NewGrid(2, 1)
	g.SetHeight(1, 0, 30)

	md := NewMoveDef("bot")
	assert.True(t, md.CanStep(g, 0, 0, 1, 0), "unlimited slope")

	md.MaxSlope = 20
	assert.False(t, md.CanStep(g, 0, 0, 1, 0))
	assert.False(t, md.CanStep(g, 1, 0, 0, 0))

	md.MaxSlope = 30
	assert.True(t, md.CanStep(g, 0, 0, 1, 0))
}

func TestMoveDefsRegistry(t *testing.T) {
	tank := NewMoveDef("tank")
	bot := NewMoveDef("bot")
	defs := NewMoveDefs(tank, bot)

	assert.Equal(t, 2, defs.Len())
	assert.Equal(t, 0, tank.PathType)
	assert.Equal(t, 1, bot.PathType)
	assert.Same(t, bot, defs.ByPathType(1))
	assert.Same(t, tank, defs.ByName("tank"))
	assert.Nil(t, defs.ByPathType(2))
	assert.Nil(t, defs.ByName("ship"))

	assert.Panics(t, func() { defs.Add(NewMoveDef("bot")) })
}

func TestSolidBlockUnblock(t *testing.T) {
	g := NewGrid(10, 10)
	s := NewSolid(7, g, g.SquarePos(Sq(5, 5)), 3)

	assert.Equal(t, 7, s.ID())
	assert.True(t, s.IsBlocking())
	assert.True(t, g.Blocking().Occupied(4, 4))
	assert.True(t, g.Blocking().Occupied(6, 6))
	assert.False(t, g.Blocking().Occupied(7, 5))

	s.Unblock()
	s.Unblock()
	assert.False(t, g.Blocking().Occupied(5, 5))

	s.Block()
	s.Block()
	assert.True(t, g.Blocking().Occupied(5, 5))
	s.Unblock()
	assert.False(t, g.Blocking().Occupied(5, 5), "double block must not leak counts")
}

func TestSolidOverlapAndMove(t *testing.T) {
	g := NewGrid(10, 10)
	a := NewSolid(1, g, g.SquarePos(Sq(2, 2)), 1)
	b := NewSolid(2, g, g.SquarePos(Sq(2, 2)), 1)

	a.Unblock()
	assert.True(t, g.Blocking().Occupied(2, 2), "b still covers the cell")

	b.MoveTo(g.SquarePos(Sq(8, 8)))
	assert.False(t, g.Blocking().Occupied(2, 2))
	assert.True(t, g.Blocking().Occupied(8, 8))
	assert.True(t, b.IsBlocking())
}
