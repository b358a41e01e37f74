package terrain

import "fmt"

// MoveDef describes how one category of agents traverses the grid.
// Planners treat it as read-only.
type MoveDef struct {
	// PathType is the index of this definition in its MoveDefs registry.
	PathType int
	Name     string

	// MaxSlope is the largest height difference between neighbouring cells
	// this class can climb. Zero means unlimited.
	MaxSlope float32

	// KindCosts holds the cost multiplier per terrain kind; <= 0 is impassable.
	KindCosts [NumKinds]float32

	// Heat mapping: whether this class deposits and avoids congestion heat,
	// how strongly heat weighs on its step cost, and how much a path deposits.
	HeatMapping  bool
	HeatMod      float32
	HeatProduced float32
}

// NewMoveDef returns a definition that crosses every kind at cost 1.0
// and takes part in heat mapping with neutral weights.
func NewMoveDef(name string) *MoveDef {
	md := &MoveDef{
		Name:         name,
		HeatMapping:  true,
		HeatMod:      0.05,
		HeatProduced: 50,
	}
	for i := range md.KindCosts {
		md.KindCosts[i] = 1.0
	}
	return md
}

// KindCost returns the cost multiplier for a terrain kind.
func (md *MoveDef) KindCost(kind uint8) float32 {
	return md.KindCosts[kind&kindMask]
}

// SquareCost returns the intrinsic cost of entering cell (x, z) and whether the
// cell is statically passable. Out-of-bounds cells are impassable.
func (md *MoveDef) SquareCost(g *Grid, x, z int) (float32, bool) {
	if !g.InBounds(x, z) || g.Blocked(x, z) {
		return 0, false
	}
	c := md.KindCost(g.Kind(x, z))
	if c <= 0 {
		return 0, false
	}
	return c, true
}

// CanStep reports whether the height change between two neighbouring cells is climbable.
func (md *MoveDef) CanStep(g *Grid, fromX, fromZ, toX, toZ int) bool {
	if md.MaxSlope <= 0 {
		return true
	}
	dh := g.Height(toX, toZ) - g.Height(fromX, fromZ)
	if dh < 0 {
		dh = -dh
	}
	return dh <= md.MaxSlope
}

// MoveDefs is the movement-class registry. PathType indexes are assigned on Add.
type MoveDefs struct {
	defs   []*MoveDef
	byName map[string]*MoveDef
}

// NewMoveDefs creates a registry holding the given definitions in order.
func NewMoveDefs(defs ...*MoveDef) *MoveDefs {
	r := &MoveDefs{byName: make(map[string]*MoveDef, len(defs))}
	for _, md := range defs {
		r.Add(md)
	}
	return r
}

// Add registers md and assigns its PathType.
func (r *MoveDefs) Add(md *MoveDef) {
	if _, dup := r.byName[md.Name]; dup {
		panic(fmt.Sprintf("terrain: duplicate move def %q", md.Name))
	}
	md.PathType = len(r.defs)
	r.defs = append(r.defs, md)
	r.byName[md.Name] = md
}

// ByPathType returns the definition with the given index, or nil.
func (r *MoveDefs) ByPathType(pathType int) *MoveDef {
	if pathType < 0 || pathType >= len(r.defs) {
		return nil
	}
	return r.defs[pathType]
}

// ByName returns the definition with the given name, or nil.
func (r *MoveDefs) ByName(name string) *MoveDef {
	return r.byName[name]
}

// All returns the registered definitions in PathType order.
func (r *MoveDefs) All() []*MoveDef { return r.defs }

// Len returns the number of registered definitions.
func (r *MoveDefs) Len() int { return len(r.defs) }
