// Package pathfind implements A* over graphs whose nodes are plain integers.
// The graph is described entirely by callbacks, so the same search runs over
// hex indices and over region ids.
package pathfind

import (
	"container/heap"
	"fmt"
)

// Pathfinder configures one kind of search. Zero-valued fields fall back to
// defaults: no neighbors, no goal, unit step cost and a zero estimate (which
// turns the search into Dijkstra's algorithm).
type Pathfinder struct {
	// Neighbors lists the nodes reachable in one step from n.
	Neighbors func(n int) []int
	// Goal reports whether n ends the search.
	Goal func(n int) bool
	// StepCost is the cost of moving from a to its neighbor b. Must not be negative.
	StepCost func(a, b int) int
	// Estimate is a lower bound on the remaining cost from n to any goal.
	Estimate func(n int) int
}

// GoalNode returns a goal predicate matching exactly one node.
func GoalNode(target int) func(int) bool {
	return func(n int) bool { return n == target }
}

// node is the per-search bookkeeping for one graph node.
type node struct {
	id     int
	parent int // slot of the predecessor, -1 for the start
	cost   int
	est    int
	closed bool
	index  int // position in the frontier heap, -1 once popped
}

// search holds the state of a single PathFrom call.
type search struct {
	nodes    []node
	slots    map[int]int
	frontier frontier
}

func (s *search) slot(id int) (int, bool) {
	i, ok := s.slots[id]
	return i, ok
}

func (s *search) add(id, parent, cost, est int) int {
	i := len(s.nodes)
	s.nodes = append(s.nodes, node{id: id, parent: parent, cost: cost, est: est, index: -1})
	s.slots[id] = i
	return i
}

// path walks predecessors from slot i back to the start.
func (s *search) path(i int) []int {
	var out []int
	for ; i >= 0; i = s.nodes[i].parent {
		out = append(out, s.nodes[i].id)
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// PathFrom searches from start to the cheapest node satisfying Goal. The result
// runs from start to that node inclusive. It is [start] when start is already a
// goal and nil when no goal is reachable.
func (p Pathfinder) PathFrom(start int) []int {
	if p.isGoal(start) {
		return []int{start}
	}

	s := &search{slots: make(map[int]int)}
	s.frontier.nodes = &s.nodes
	first := s.add(start, -1, 0, p.estimate(start))
	heap.Push(&s.frontier, first)

	for s.frontier.Len() > 0 {
		cur := heap.Pop(&s.frontier).(int)
		if p.isGoal(s.nodes[cur].id) {
			return s.path(cur)
		}
		s.nodes[cur].closed = true

		if p.Neighbors == nil {
			continue
		}
		from := s.nodes[cur].id
		for _, n := range p.Neighbors(from) {
			step := p.stepCost(from, n)
			if step < 0 {
				panic(fmt.Sprintf("pathfind: negative step cost %d from %d to %d", step, from, n))
			}
			cost := s.nodes[cur].cost + step

			i, seen := s.slot(n)
			switch {
			case !seen:
				i = s.add(n, cur, cost, p.estimate(n))
				heap.Push(&s.frontier, i)
			case s.nodes[i].closed:
			case cost < s.nodes[i].cost:
				s.nodes[i].parent = cur
				s.nodes[i].cost = cost
				heap.Fix(&s.frontier, s.nodes[i].index)
			}
		}
	}
	return nil
}

func (p Pathfinder) isGoal(n int) bool {
	return p.Goal != nil && p.Goal(n)
}

func (p Pathfinder) stepCost(a, b int) int {
	if p.StepCost == nil {
		return 1
	}
	return p.StepCost(a, b)
}

func (p Pathfinder) estimate(n int) int {
	if p.Estimate == nil {
		return 0
	}
	return p.Estimate(n)
}

// frontier is a min-heap of arena slots ordered by cost plus estimate.
type frontier struct {
	slots []int
	nodes *[]node
}

func (f frontier) Len() int { return len(f.slots) }

func (f frontier) Less(i, j int) bool {
	a, b := &(*f.nodes)[f.slots[i]], &(*f.nodes)[f.slots[j]]
	return a.cost+a.est < b.cost+b.est
}

func (f frontier) Swap(i, j int) {
	f.slots[i], f.slots[j] = f.slots[j], f.slots[i]
	(*f.nodes)[f.slots[i]].index = i
	(*f.nodes)[f.slots[j]].index = j
}

func (f *frontier) Push(x any) {
	i := x.(int)
	(*f.nodes)[i].index = len(f.slots)
	f.slots = append(f.slots, i)
}

func (f *frontier) Pop() any {
	n := len(f.slots)
	i := f.slots[n-1]
	f.slots = f.slots[:n-1]
	(*f.nodes)[i].index = -1
	return i
}
