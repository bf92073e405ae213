// Package search implements single-pair shortest-path search over a warehouse
// grid. Movement is 4-directional with unit cost; obstacles block, every other
// cell role is traversable regardless of identity.
package search

import (
	"container/heap"

	"github.com/dd0wney/cluso-router/pkg/grid"
)

// NoPath is the sentinel distance for an unreachable goal, as persisted in
// distance records.
const NoPath = -1

var neighborOffsets = [4]grid.Position{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// Manhattan returns the Manhattan distance between two positions. It is the
// A* heuristic: admissible and consistent under unit-cost 4-directional
// movement, so the first finalized pop of the goal carries the true distance.
func Manhattan(a, b grid.Position) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// frontierItem is one enqueued candidate. A position may be enqueued multiple
// times with different g; stale entries are skipped on pop (lazy invalidation)
// rather than updated in place.
type frontierItem struct {
	pos grid.Position
	g   int
	f   int
	seq int // insertion order, final tie-break for determinism
}

type frontier []frontierItem

func (fr frontier) Len() int { return len(fr) }

// Less orders by (f, g, seq) ascending. On equal f the smaller g wins,
// preferring candidates whose remaining heuristic is larger.
func (fr frontier) Less(i, j int) bool {
	if fr[i].f != fr[j].f {
		return fr[i].f < fr[j].f
	}
	if fr[i].g != fr[j].g {
		return fr[i].g < fr[j].g
	}
	return fr[i].seq < fr[j].seq
}

func (fr frontier) Swap(i, j int) { fr[i], fr[j] = fr[j], fr[i] }

func (fr *frontier) Push(x any) { *fr = append(*fr, x.(frontierItem)) }

func (fr *frontier) Pop() any {
	old := *fr
	n := len(old)
	item := old[n-1]
	*fr = old[:n-1]
	return item
}

// ShortestPathLength runs A* from start to goal and returns the walking
// distance in steps. ok is false when no path exists. The search never steps
// onto an obstacle cell; start and goal themselves may be any walkable role.
func ShortestPathLength(g grid.Grid, start, goal grid.Position) (dist int, ok bool) {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return NoPath, false
	}

	type key = grid.Position
	gScore := map[key]int{start: 0}
	closed := make(map[key]bool)

	fr := &frontier{{pos: start, g: 0, f: Manhattan(start, goal)}}
	heap.Init(fr)
	seq := 1

	for fr.Len() > 0 {
		cur := heap.Pop(fr).(frontierItem)
		if closed[cur.pos] {
			continue
		}
		if cur.pos == goal {
			return cur.g, true
		}
		closed[cur.pos] = true

		for _, off := range neighborOffsets {
			next := grid.Position{Row: cur.pos.Row + off.Row, Col: cur.pos.Col + off.Col}
			if !g.InBounds(next) {
				continue
			}
			if !g.At(next).Role.Walkable() {
				continue
			}
			if closed[next] {
				continue
			}
			tentative := cur.g + 1
			if known, seen := gScore[next]; seen && tentative >= known {
				continue
			}
			gScore[next] = tentative
			heap.Push(fr, frontierItem{
				pos: next,
				g:   tentative,
				f:   tentative + Manhattan(next, goal),
				seq: seq,
			})
			seq++
		}
	}

	return NoPath, false
}
