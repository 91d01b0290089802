package maze

import (
	"fmt"
	"slices"

	"github.com/gammazero/deque"
)

// walk runs a breadth-first search across open walls and returns the
// parent of every reached cell, indexed row-major. The root is its own parent.
func (g *Grid) walk(from Point, stop func(Point) bool) []int {
	parent := make([]int, len(g.cells))
	for i := range parent {
		parent[i] = -1
	}

	root := from.Y*g.width + from.X
	parent[root] = root

	var queue deque.Deque[*Cell]
	queue.PushBack(g.cell(from))
	for queue.Len() > 0 {
		c := queue.PopFront()
		if stop != nil && stop(c.pos) {
			break
		}
		i := c.pos.Y*g.width + c.pos.X
		for _, l := range c.links {
			j := l.to.Y*g.width + l.to.X
			if parent[j] >= 0 || !g.walls[g.index[l.edge]].Open {
				continue
			}
			parent[j] = i
			queue.PushBack(g.cell(l.to))
		}
	}
	return parent
}

// Reachable counts the cells connected to from through open walls.
func (g *Grid) Reachable(from Point) (int, error) {
	if !g.InBounds(from) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfBounds, from)
	}
	count := 0
	for _, p := range g.walk(from, nil) {
		if p >= 0 {
			count++
		}
	}
	return count, nil
}

// Solve returns the path from one cell to another, both ends included.
func (g *Grid) Solve(from, to Point) ([]Point, error) {
	for _, p := range []Point{from, to} {
		if !g.InBounds(p) {
			return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
		}
	}

	parent := g.walk(from, func(p Point) bool { return p == to })

	i := to.Y*g.width + to.X
	if parent[i] < 0 {
		return nil, fmt.Errorf("%w: %s from %s", ErrUnreachable, to, from)
	}

	path := []Point{to}
	for parent[i] != i {
		i = parent[i]
		path = append(path, Point{i % g.width, i / g.width})
	}
	slices.Reverse(path)
	return path, nil
}
