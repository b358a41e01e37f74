package pathing

import "container/heap"

const (
	nodeUnseen uint8 = iota
	nodeOpen
	nodeClosed
)

// openNode is an entry in the open list. Entries go stale when a node is
// reached again at lower cost; stale ones are skipped on pop.
type openNode struct {
	idx int32
	f   float32
	g   float32
}

// nodeHeap orders by f, then by index so ties break the same way everywhere.
type nodeHeap []openNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].idx < h[j].idx
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(openNode)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// searchState is the per-search bookkeeping over a dense index space (cells
// or blocks). A generation stamp makes reset O(1).
type searchState struct {
	gen    uint32
	stamp  []uint32
	status []uint8
	g      []float32
	parent []int32
	open   nodeHeap

	expanded int
}

func newSearchState(n int) *searchState {
	return &searchState{
		stamp:  make([]uint32, n),
		status: make([]uint8, n),
		g:      make([]float32, n),
		parent: make([]int32, n),
	}
}

func (s *searchState) reset() {
	s.gen++
	if s.gen == 0 {
		clear(s.stamp)
		s.gen = 1
	}
	s.open = s.open[:0]
	s.expanded = 0
}

func (s *searchState) state(i int) uint8 {
	if s.stamp[i] != s.gen {
		return nodeUnseen
	}
	return s.status[i]
}

// start seeds the search with node i.
func (s *searchState) start(i int, h float32) {
	s.stamp[i] = s.gen
	s.status[i] = nodeOpen
	s.g[i] = 0
	s.parent[i] = -1
	heap.Push(&s.open, openNode{idx: int32(i), f: h, g: 0})
}

// relax records a route to i through parent if it beats what is known.
func (s *searchState) relax(i, parent int, g, h float32) {
	switch s.state(i) {
	case nodeClosed:
		return
	case nodeOpen:
		if g >= s.g[i] {
			return
		}
	}
	s.stamp[i] = s.gen
	s.status[i] = nodeOpen
	s.g[i] = g
	s.parent[i] = int32(parent)
	heap.Push(&s.open, openNode{idx: int32(i), f: g + h, g: g})
}

// next pops the cheapest live open node and closes it.
func (s *searchState) next() (int, float32, bool) {
	for s.open.Len() > 0 {
		n := heap.Pop(&s.open).(openNode)
		i := int(n.idx)
		if s.status[i] == nodeClosed || n.g > s.g[i] {
			continue
		}
		s.status[i] = nodeClosed
		s.expanded++
		return i, n.g, true
	}
	return 0, 0, false
}

// chain returns the indices from i back to, but excluding, the start.
// The result is goal-first.
func (s *searchState) chain(i int) []int {
	var out []int
	for s.parent[i] >= 0 {
		out = append(out, i)
		i = int(s.parent[i])
	}
	return out
}
